package files

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/getgranularity/backend/internal/common"
	"github.com/getgranularity/backend/internal/dbx"
	"github.com/getgranularity/backend/internal/server/models"
)

// PostgresRepository implements file metadata storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, file *models.File) (*models.File, error) {

	query :=
		`INSERT INTO files (file_name, file_content_type, file_description, file_key, file_url, user_id)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		file.FileName, file.FileContentType, file.FileDescription,
		file.FileKey, file.FileURL, file.UserID).
		Scan(&file.ID, &file.CreatedAt, &file.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return file, nil
}

// selectWithOwner joins each file row with its owning user (when set) so
// read responses carry the populated owner record.
const selectWithOwner = `
	SELECT f.id, f.file_name, f.file_content_type, f.file_description,
	       f.file_key, f.file_url, f.user_id, f.created_at, f.updated_at,
	       u.id, u.first_name, u.last_name, u.email, u.role, u.created_at, u.updated_at
	FROM files f
	LEFT JOIN users u ON u.id = f.user_id
`

func scanFileWithOwner(row interface{ Scan(...any) error }) (*models.File, error) {
	file := &models.File{}

	var fileKey, fileURL, userID sql.NullString
	var ownerID, ownerFirst, ownerLast, ownerEmail, ownerRole sql.NullString
	var ownerCreated, ownerUpdated sql.NullTime

	err := row.Scan(
		&file.ID, &file.FileName, &file.FileContentType, &file.FileDescription,
		&fileKey, &fileURL, &userID, &file.CreatedAt, &file.UpdatedAt,
		&ownerID, &ownerFirst, &ownerLast, &ownerEmail, &ownerRole,
		&ownerCreated, &ownerUpdated)
	if err != nil {
		return nil, err
	}

	if fileKey.Valid {
		file.FileKey = &fileKey.String
	}
	if fileURL.Valid {
		file.FileURL = &fileURL.String
	}
	if userID.Valid {
		file.UserID = &userID.String
	}
	if ownerID.Valid {
		file.Owner = &models.User{
			ID:        ownerID.String,
			FirstName: ownerFirst.String,
			LastName:  ownerLast.String,
			Email:     ownerEmail.String,
			Role:      ownerRole.String,
			CreatedAt: ownerCreated.Time,
			UpdatedAt: ownerUpdated.Time,
		}
	}

	return file, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.File, error) {
	query := selectWithOwner + ` WHERE f.id = $1`

	file, err := scanFileWithOwner(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return file, nil
}

// List returns file records, each with its owner populated. A non-nil
// ownerID restricts results to files owned by that user.
func (r *PostgresRepository) List(ctx context.Context, ownerID *string) ([]*models.File, error) {
	query := selectWithOwner + ` ORDER BY f.created_at`
	args := []any{}

	if ownerID != nil {
		query = selectWithOwner + ` WHERE f.user_id = $1 ORDER BY f.created_at`
		args = append(args, *ownerID)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.File
	for rows.Next() {
		item, err := scanFileWithOwner(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, file *models.File) error {
	query := `
		UPDATE files
		SET file_name = $2, file_content_type = $3, file_description = $4,
		    file_key = $5, file_url = $6, updated_at = now()
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		file.ID, file.FileName, file.FileContentType, file.FileDescription,
		file.FileKey, file.FileURL)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// DeleteByID removes a metadata-only record (no object-store key).
func (r *PostgresRepository) DeleteByID(ctx context.Context, id string) error {
	query := `DELETE FROM files WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// DeleteByKey removes the metadata record matched by object-store key.
// Keys are always freshly generated on the create path, so at most one row
// matches.
func (r *PostgresRepository) DeleteByKey(ctx context.Context, key string) error {
	query := `DELETE FROM files WHERE file_key = $1`

	res, err := r.db.ExecContext(ctx, query, key)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
