package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/getgranularity/backend/internal/common"
	"github.com/getgranularity/backend/internal/logging"
	"github.com/getgranularity/backend/internal/server/models"
)

// --- fakes ---

type fakeFilesRepo struct {
	created []*models.File

	byID   map[string]*models.File
	getErr error

	listOut    []*models.File
	listFilter *string
	listCalled bool

	updated   *models.File
	updateErr error

	deletedKey string
	deletedID  string

	createErr error
}

func (f *fakeFilesRepo) Create(ctx context.Context, file *models.File) (*models.File, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	file.ID = "f-new"
	f.created = append(f.created, file)
	return file, nil
}

func (f *fakeFilesRepo) GetByID(ctx context.Context, id string) (*models.File, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if file, ok := f.byID[id]; ok {
		return file, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeFilesRepo) List(ctx context.Context, ownerID *string) ([]*models.File, error) {
	f.listCalled = true
	f.listFilter = ownerID
	return f.listOut, nil
}

func (f *fakeFilesRepo) Update(ctx context.Context, file *models.File) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updated = file
	return nil
}

func (f *fakeFilesRepo) DeleteByID(ctx context.Context, id string) error {
	f.deletedID = id
	return nil
}

func (f *fakeFilesRepo) DeleteByKey(ctx context.Context, key string) error {
	f.deletedKey = key
	return nil
}

type fakeStore struct {
	uploads []struct {
		key         string
		body        []byte
		contentType string
	}
	uploadErr error

	deletedKeys []string
	deleteErr   error
}

func (s *fakeStore) Upload(ctx context.Context, key string, body []byte, contentType string) error {
	if s.uploadErr != nil {
		return s.uploadErr
	}
	s.uploads = append(s.uploads, struct {
		key         string
		body        []byte
		contentType string
	}{key, body, contentType})
	return nil
}

func (s *fakeStore) Delete(ctx context.Context, key string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deletedKeys = append(s.deletedKeys, key)
	return nil
}

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newFileService(t *testing.T, repo *fakeFilesRepo, store *fakeStore) *FileService {
	t.Helper()
	db, _ := newSQLMockDB(t)
	t.Cleanup(func() { _ = db.Close() })
	rm := &fakeRepoManager{f: repo}
	return NewFileService(db, rm, store, testServiceConfig(), discardLogger())
}

// --- tests ---

func TestCreate_WithPayload(t *testing.T) {
	repo := &fakeFilesRepo{}
	store := &fakeStore{}
	s := newFileService(t, repo, store)

	payload := []byte("png bytes")
	encoded := "data:image/png;base64," + base64.StdEncoding.EncodeToString(payload)

	err := s.Create(context.Background(), "u-1", CreateFileParams{
		FileName:        "cat.png",
		FileBase64:      encoded,
		FileContentType: "image/png",
		FileDescription: "a cat",
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if len(store.uploads) != 1 {
		t.Fatalf("expected exactly one put, got %d", len(store.uploads))
	}
	if !bytes.Equal(store.uploads[0].body, payload) {
		t.Fatalf("object store received wrong bytes")
	}
	if store.uploads[0].contentType != "image/png" {
		t.Fatalf("unexpected content type %q", store.uploads[0].contentType)
	}

	if len(repo.created) != 1 {
		t.Fatalf("expected one metadata record, got %d", len(repo.created))
	}
	rec := repo.created[0]
	if rec.FileKey == nil || *rec.FileKey != store.uploads[0].key {
		t.Fatalf("record key %v does not match stored key %q", rec.FileKey, store.uploads[0].key)
	}
	if rec.FileURL == nil || !strings.Contains(*rec.FileURL, *rec.FileKey) {
		t.Fatalf("fileUrl %v does not contain the key", rec.FileURL)
	}
	if !strings.HasPrefix(*rec.FileURL, "https://cdn.example.com/") {
		t.Fatalf("fileUrl %q not built from CDN domain", *rec.FileURL)
	}
	if rec.UserID == nil || *rec.UserID != "u-1" {
		t.Fatalf("owner not set: %v", rec.UserID)
	}
}

func TestCreate_MetadataOnly(t *testing.T) {
	repo := &fakeFilesRepo{}
	store := &fakeStore{}
	s := newFileService(t, repo, store)

	err := s.Create(context.Background(), "u-1", CreateFileParams{
		FileName:        "notes.txt",
		FileContentType: "text/plain",
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if len(store.uploads) != 0 {
		t.Fatalf("no payload must mean no put, got %d", len(store.uploads))
	}
	rec := repo.created[0]
	if rec.FileKey != nil || rec.FileURL != nil {
		t.Fatalf("metadata-only record must have nil key/url: %+v", rec)
	}
}

func TestCreate_BadBase64(t *testing.T) {
	s := newFileService(t, &fakeFilesRepo{}, &fakeStore{})

	err := s.Create(context.Background(), "u-1", CreateFileParams{
		FileName:   "x",
		FileBase64: "%%% not base64 %%%",
	})
	if !errors.Is(err, common.ErrorValidation) {
		t.Fatalf("want ErrorValidation, got %v", err)
	}
}

func TestCreate_StorageFailureLeavesNoRecord(t *testing.T) {
	repo := &fakeFilesRepo{}
	store := &fakeStore{uploadErr: errBoom{}}
	s := newFileService(t, repo, store)

	err := s.Create(context.Background(), "u-1", CreateFileParams{
		FileName:   "cat.png",
		FileBase64: base64.StdEncoding.EncodeToString([]byte("x")),
	})
	if !errors.Is(err, common.ErrorStorage) {
		t.Fatalf("want ErrorStorage, got %v", err)
	}
	if len(repo.created) != 0 {
		t.Fatalf("failed upload must not create a metadata record")
	}
}

func TestList_RoleFilter(t *testing.T) {
	repo := &fakeFilesRepo{}
	s := newFileService(t, repo, &fakeStore{})

	member := &models.User{ID: "u-1", Role: models.RoleMember}
	if _, err := s.List(context.Background(), member); err != nil {
		t.Fatalf("List error: %v", err)
	}
	if repo.listFilter == nil || *repo.listFilter != "u-1" {
		t.Fatalf("MEMBER list must filter by caller id, got %v", repo.listFilter)
	}

	admin := &models.User{ID: "u-2", Role: models.RoleAdmin}
	if _, err := s.List(context.Background(), admin); err != nil {
		t.Fatalf("List error: %v", err)
	}
	if repo.listFilter != nil {
		t.Fatalf("ADMIN list must not filter, got %v", *repo.listFilter)
	}
}

func TestUpdate_DescriptionOnly(t *testing.T) {
	key := "key-1"
	url := "https://cdn.example.com/key-1"
	repo := &fakeFilesRepo{byID: map[string]*models.File{
		"f-1": {ID: "f-1", FileName: "cat.png", FileContentType: "image/png", FileKey: &key, FileURL: &url},
	}}
	store := &fakeStore{}
	s := newFileService(t, repo, store)

	err := s.Update(context.Background(), UpdateFileParams{ID: "f-1", FileDescription: "new desc"})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if len(store.uploads) != 0 {
		t.Fatalf("description-only update must not touch object storage")
	}
	got := repo.updated
	if got.FileDescription != "new desc" {
		t.Fatalf("description not updated: %+v", got)
	}
	if got.FileName != "cat.png" || *got.FileKey != "key-1" || *got.FileURL != url {
		t.Fatalf("name/key/url must be untouched: %+v", got)
	}
}

func TestUpdate_WithPayloadReusesKey(t *testing.T) {
	key := "key-1"
	url := "https://cdn.example.com/key-1"
	repo := &fakeFilesRepo{byID: map[string]*models.File{
		"f-1": {ID: "f-1", FileName: "old.png", FileContentType: "image/png", FileKey: &key, FileURL: &url},
	}}
	store := &fakeStore{}
	s := newFileService(t, repo, store)

	err := s.Update(context.Background(), UpdateFileParams{
		ID:              "f-1",
		FileName:        "new.jpg",
		FileBase64:      base64.StdEncoding.EncodeToString([]byte("jpg bytes")),
		FileContentType: "image/jpeg",
		FileDescription: "replaced",
	})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if len(store.uploads) != 1 || store.uploads[0].key != "key-1" {
		t.Fatalf("payload must be written to the existing key, got %+v", store.uploads)
	}
	got := repo.updated
	if got.FileName != "new.jpg" || got.FileContentType != "image/jpeg" {
		t.Fatalf("name/content-type not refreshed: %+v", got)
	}
}

func TestUpdate_EmptyID(t *testing.T) {
	// the repo rejects an empty id with a driver error, not no-rows; the
	// service must report not-found without consulting it
	repo := &fakeFilesRepo{getErr: errBoom{}}
	s := newFileService(t, repo, &fakeStore{})

	err := s.Update(context.Background(), UpdateFileParams{FileDescription: "x"})
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	s := newFileService(t, &fakeFilesRepo{}, &fakeStore{})

	err := s.Update(context.Background(), UpdateFileParams{ID: "missing"})
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestDelete_RemovesObjectThenRecord(t *testing.T) {
	key := "key-1"
	repo := &fakeFilesRepo{byID: map[string]*models.File{
		"f-1": {ID: "f-1", FileKey: &key},
	}}
	store := &fakeStore{}
	s := newFileService(t, repo, store)

	if err := s.Delete(context.Background(), "f-1"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if len(store.deletedKeys) != 1 || store.deletedKeys[0] != "key-1" {
		t.Fatalf("object delete not called with record key: %v", store.deletedKeys)
	}
	if repo.deletedKey != "key-1" {
		t.Fatalf("metadata record not removed by key: %q", repo.deletedKey)
	}
}

func TestDelete_MetadataOnlyRecord(t *testing.T) {
	repo := &fakeFilesRepo{byID: map[string]*models.File{
		"f-2": {ID: "f-2"},
	}}
	store := &fakeStore{}
	s := newFileService(t, repo, store)

	if err := s.Delete(context.Background(), "f-2"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if len(store.deletedKeys) != 0 {
		t.Fatalf("no key must mean no object delete")
	}
	if repo.deletedID != "f-2" {
		t.Fatalf("record not removed by id: %q", repo.deletedID)
	}
}

func TestDelete_NotFound(t *testing.T) {
	s := newFileService(t, &fakeFilesRepo{}, &fakeStore{})

	if err := s.Delete(context.Background(), "missing"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestDelete_StorageFailure(t *testing.T) {
	key := "key-1"
	repo := &fakeFilesRepo{byID: map[string]*models.File{"f-1": {ID: "f-1", FileKey: &key}}}
	store := &fakeStore{deleteErr: errBoom{}}
	s := newFileService(t, repo, store)

	if err := s.Delete(context.Background(), "f-1"); !errors.Is(err, common.ErrorStorage) {
		t.Fatalf("want ErrorStorage, got %v", err)
	}
	if repo.deletedKey != "" {
		t.Fatalf("metadata must not be removed when object delete fails")
	}
}

func TestDecodePayload_PrefixStripping(t *testing.T) {
	raw := []byte("hello")
	plain := base64.StdEncoding.EncodeToString(raw)

	// image data-URI prefix is stripped
	got, err := decodePayload("data:image/png;base64," + plain)
	if err != nil || !bytes.Equal(got, raw) {
		t.Fatalf("image prefix: got (%q, %v)", got, err)
	}

	// bare base64 passes through
	got, err = decodePayload(plain)
	if err != nil || !bytes.Equal(got, raw) {
		t.Fatalf("bare: got (%q, %v)", got, err)
	}

	// non-image prefixes are not stripped, so decoding fails
	if _, err := decodePayload("data:application/pdf;base64," + plain); err == nil {
		t.Fatalf("non-image prefix must not be stripped")
	}
}

func TestGetRandomStorageKey_Unique(t *testing.T) {
	a := GetRandomStorageKey()
	b := GetRandomStorageKey()
	if a == b {
		t.Fatalf("storage keys must be unique: %q", a)
	}
	if !strings.HasPrefix(a, "uploads/") {
		t.Fatalf("unexpected key shape: %q", a)
	}
}
