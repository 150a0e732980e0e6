// Package claims stores task claims, kept apart from journal entries.
package claims

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/recoveryvault/internal/dbx"
	"github.com/dmitrijs2005/recoveryvault/internal/journal"
)

// PostgresRepository implements claim storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Upsert overlays the claim onto any existing row with the same id, creating
// it if absent. An empty title keeps the stored one. The merged row is
// returned.
func (r *PostgresRepository) Upsert(ctx context.Context, c *journal.TaskClaim) (*journal.TaskClaim, error) {
	query := `
		INSERT INTO task_claims (id, title, status, claimed_by, last_updated)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id)
		DO UPDATE SET
			title = COALESCE(NULLIF(EXCLUDED.title, ''), task_claims.title),
			status = EXCLUDED.status,
			claimed_by = EXCLUDED.claimed_by,
			last_updated = EXCLUDED.last_updated
		RETURNING id, title, status, claimed_by, last_updated
	`
	var out journal.TaskClaim
	err := r.db.QueryRowContext(ctx, query, c.ID, c.Title, c.Status, c.ClaimedBy, c.LastUpdated).
		Scan(&out.ID, &out.Title, &out.Status, &out.ClaimedBy, &out.LastUpdated)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &out, nil
}

// List returns all claims, most recently updated first.
func (r *PostgresRepository) List(ctx context.Context) ([]journal.TaskClaim, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, status, claimed_by, last_updated FROM task_claims ORDER BY last_updated DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to select claims: %w", err)
	}
	defer rows.Close()

	result := make([]journal.TaskClaim, 0)
	for rows.Next() {
		var c journal.TaskClaim
		if err := rows.Scan(&c.ID, &c.Title, &c.Status, &c.ClaimedBy, &c.LastUpdated); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
