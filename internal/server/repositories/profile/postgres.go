// Package profile stores the single case/profile document shown on reports.
package profile

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/recoveryvault/internal/common"
	"github.com/dmitrijs2005/recoveryvault/internal/dbx"
	"github.com/dmitrijs2005/recoveryvault/internal/journal"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Get returns the stored profile or common.ErrorNotFound.
func (r *PostgresRepository) Get(ctx context.Context) (*journal.Profile, error) {
	var doc []byte
	if err := r.db.QueryRowContext(ctx, `SELECT doc FROM vault_profile WHERE id = 1`).Scan(&doc); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	var p journal.Profile
	if err := json.Unmarshal(doc, &p); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	return &p, nil
}

// Save replaces the profile document.
func (r *PostgresRepository) Save(ctx context.Context, p *journal.Profile) error {
	doc, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}

	query := `
		INSERT INTO vault_profile (id, doc, updated_at)
		VALUES (1, $1, $2)
		ON CONFLICT (id)
		DO UPDATE SET doc = EXCLUDED.doc, updated_at = EXCLUDED.updated_at
	`
	res, err := r.db.ExecContext(ctx, query, doc, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n != 1 {
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
	return nil
}
