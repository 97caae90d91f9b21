package services

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/getgranularity/backend/internal/common"
	"github.com/getgranularity/backend/internal/logging"
	sc "github.com/getgranularity/backend/internal/server/config"
	"github.com/getgranularity/backend/internal/server/models"
	"github.com/getgranularity/backend/internal/server/objstore"
	"github.com/getgranularity/backend/internal/server/repositories/repomanager"
)

// dataURIPrefix strips an optional data-URI prefix before base64 decoding.
// Only image MIME prefixes are recognized; callers uploading other content
// types must send bare base64.
var dataURIPrefix = regexp.MustCompile(`^data:image/\w+;base64,`)

// FileService orchestrates the file lifecycle: metadata records in the
// database coordinated with binary bodies in object storage.
type FileService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       objstore.Store
	config      *sc.Config
	logger      logging.Logger
}

// NewFileService constructs a FileService.
func NewFileService(db *sql.DB, m repomanager.RepositoryManager, store objstore.Store, cfg *sc.Config, logger logging.Logger) *FileService {
	return &FileService{
		db:          db,
		repomanager: m,
		store:       store,
		config:      cfg,
		logger:      logger,
	}
}

// GetRandomStorageKey generates a fresh object-store key. Keys are random,
// so the create path never reuses one; delete-by-key relies on this.
func GetRandomStorageKey() string {
	d := time.Now()
	return fmt.Sprintf("uploads/%d/%02d/%02d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}

// CreateFileParams carries the upload request fields. FileBase64 is optional;
// when empty a metadata-only record is created.
type CreateFileParams struct {
	FileName        string
	FileBase64      string
	FileContentType string
	FileDescription string
}

// cdnURL templates the public retrieval URL for an object key.
func (s *FileService) cdnURL(key string) string {
	return fmt.Sprintf("https://%s/%s", s.config.CDNDomain, key)
}

func decodePayload(fileBase64 string) ([]byte, error) {
	trimmed := dataURIPrefix.ReplaceAllString(fileBase64, "")
	return base64.StdEncoding.DecodeString(trimmed)
}

// Create stores a new file record owned by userID. If a payload is present,
// the decoded bytes are written to object storage under a fresh key first;
// a storage failure fails the whole operation so no metadata-only remnant is
// left behind.
func (s *FileService) Create(ctx context.Context, userID string, params CreateFileParams) error {

	file := &models.File{
		FileName:        params.FileName,
		FileContentType: params.FileContentType,
		FileDescription: params.FileDescription,
		UserID:          &userID,
	}

	if params.FileBase64 != "" {
		body, err := decodePayload(params.FileBase64)
		if err != nil {
			return fmt.Errorf("%w: invalid base64 payload", common.ErrorValidation)
		}

		key := GetRandomStorageKey()
		if err := s.store.Upload(ctx, key, body, params.FileContentType); err != nil {
			s.logger.Error(ctx, "object store upload failed", "key", key, "error", err.Error())
			return common.ErrorStorage
		}

		url := s.cdnURL(key)
		file.FileKey = &key
		file.FileURL = &url
	}

	repo := s.repomanager.Files(s.db)
	if _, err := repo.Create(ctx, file); err != nil {
		return common.ErrorInternal
	}

	return nil
}

// roleFilter maps a caller to the owner filter applied on list reads:
// MEMBER callers only see their own files, ADMIN callers see all.
func roleFilter(caller *models.User) *string {
	if caller.Role == models.RoleMember {
		id := caller.ID
		return &id
	}
	return nil
}

// List returns file records visible to the caller, owners populated.
func (s *FileService) List(ctx context.Context, caller *models.User) ([]*models.File, error) {
	repo := s.repomanager.Files(s.db)

	result, err := repo.List(ctx, roleFilter(caller))
	if err != nil {
		return nil, common.ErrorInternal
	}
	return result, nil
}

// Get returns a single file record by identifier with its owner populated.
// No ownership filter is applied here; any authenticated caller may fetch
// any file by id.
func (s *FileService) Get(ctx context.Context, id string) (*models.File, error) {
	repo := s.repomanager.Files(s.db)

	file, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	return file, nil
}

// UpdateFileParams carries the edit request fields. The description is
// always overwritten with the provided value. The remaining fields only
// take effect when a new payload is present.
type UpdateFileParams struct {
	ID              string
	FileName        string
	FileBase64      string
	FileContentType string
	FileDescription string
}

// Update edits an existing record. A new payload is written to the existing
// object-store key (content replacement, same key), refreshing the name,
// content type and URL fields; without a payload only the description
// changes.
func (s *FileService) Update(ctx context.Context, params UpdateFileParams) error {
	// an empty id never resolves; the uuid column would reject it with a
	// driver error rather than no-rows
	if params.ID == "" {
		return common.ErrorNotFound
	}

	repo := s.repomanager.Files(s.db)

	file, err := repo.GetByID(ctx, params.ID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}

	file.FileDescription = params.FileDescription

	if params.FileBase64 != "" {
		body, err := decodePayload(params.FileBase64)
		if err != nil {
			return fmt.Errorf("%w: invalid base64 payload", common.ErrorValidation)
		}

		key := file.FileKey
		if key == nil {
			fresh := GetRandomStorageKey()
			key = &fresh
		}

		if err := s.store.Upload(ctx, *key, body, params.FileContentType); err != nil {
			s.logger.Error(ctx, "object store upload failed", "key", *key, "error", err.Error())
			return common.ErrorStorage
		}

		url := s.cdnURL(*key)
		file.FileName = params.FileName
		file.FileContentType = params.FileContentType
		file.FileKey = key
		file.FileURL = &url
	}

	if err := repo.Update(ctx, file); err != nil {
		return common.ErrorInternal
	}
	return nil
}

// Delete removes the object-store body by key, then the metadata record
// matched by that key. Records without a key are removed by id.
func (s *FileService) Delete(ctx context.Context, id string) error {
	repo := s.repomanager.Files(s.db)

	file, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}

	if file.FileKey == nil {
		if err := repo.DeleteByID(ctx, file.ID); err != nil {
			return common.ErrorInternal
		}
		return nil
	}

	if err := s.store.Delete(ctx, *file.FileKey); err != nil {
		s.logger.Error(ctx, "object store delete failed", "key", *file.FileKey, "error", err.Error())
		return common.ErrorStorage
	}

	if err := repo.DeleteByKey(ctx, *file.FileKey); err != nil {
		return common.ErrorInternal
	}
	return nil
}
