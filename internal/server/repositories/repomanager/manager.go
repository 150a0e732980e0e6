package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/recoveryvault/internal/dbx"
	"github.com/dmitrijs2005/recoveryvault/internal/server/repositories/claims"
	"github.com/dmitrijs2005/recoveryvault/internal/server/repositories/entries"
	"github.com/dmitrijs2005/recoveryvault/internal/server/repositories/profile"
)

// RepositoryManager vends repositories bound to a *sql.DB or *sql.Tx and
// owns schema migration.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Entries(db dbx.DBTX) entries.Repository
	Claims(db dbx.DBTX) claims.Repository
	Profile(db dbx.DBTX) profile.Repository
}
