// Package repomanager vends repository implementations bound to a database
// handle and exposes the schema migration hook.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/getgranularity/backend/internal/dbx"
	"github.com/getgranularity/backend/internal/server/repositories/files"
	"github.com/getgranularity/backend/internal/server/repositories/users"
)

// RepositoryManager constructs repositories bound to the provided DBTX,
// which may be a *sql.DB or an open transaction.
type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	Files(db dbx.DBTX) files.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
