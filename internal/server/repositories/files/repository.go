// Package files contains the repository for uploaded-asset metadata records.
package files

import (
	"context"

	"github.com/getgranularity/backend/internal/server/models"
)

// Repository describes the file metadata store operations.
//
// List and GetByID return records with the Owner field populated from the
// referenced user row when the reference is set.
type Repository interface {
	Create(ctx context.Context, file *models.File) (*models.File, error)
	GetByID(ctx context.Context, id string) (*models.File, error)
	List(ctx context.Context, ownerID *string) ([]*models.File, error)
	Update(ctx context.Context, file *models.File) error
	DeleteByID(ctx context.Context, id string) error
	DeleteByKey(ctx context.Context, key string) error
}
