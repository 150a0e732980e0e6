package client

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"

	"github.com/dmitrijs2005/recoveryvault/internal/client/migrations"
	"github.com/dmitrijs2005/recoveryvault/internal/client/repositories/preferences"
	"github.com/dmitrijs2005/recoveryvault/internal/filex"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

type Repositories struct {
	Preferences preferences.Repository
}

func NewRepositories(db *sql.DB) *Repositories {
	return &Repositories{Preferences: preferences.NewSQLiteRepository(db)}
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens (creating if needed) the SQLite file at path and
// migrates it. ":memory:" is accepted for tests.
func InitDatabase(ctx context.Context, path string) (*sql.DB, error) {
	if path != ":memory:" {
		if _, err := filex.EnsureDir(filepath.Dir(path)); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
