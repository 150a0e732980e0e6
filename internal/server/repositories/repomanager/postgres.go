// Package repomanager provides the PostgreSQL RepositoryManager, wiring
// repository constructors and goose migrations.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/recoveryvault/internal/dbx"
	"github.com/dmitrijs2005/recoveryvault/internal/server/migrations"
	"github.com/dmitrijs2005/recoveryvault/internal/server/repositories/claims"
	"github.com/dmitrijs2005/recoveryvault/internal/server/repositories/entries"
	"github.com/dmitrijs2005/recoveryvault/internal/server/repositories/profile"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

type PostgresRepositoryManager struct{}

func (m *PostgresRepositoryManager) Entries(db dbx.DBTX) entries.Repository {
	return entries.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Claims(db dbx.DBTX) claims.Repository {
	return claims.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Profile(db dbx.DBTX) profile.Repository {
	return profile.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded migrations.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}

func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}
