// Package users contains the repository for user identity records.
package users

import (
	"context"

	"github.com/getgranularity/backend/internal/server/models"
)

// Repository describes the user store operations the services rely on.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}
