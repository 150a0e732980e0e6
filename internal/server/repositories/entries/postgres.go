// Package entries provides the PostgreSQL-backed journal document store.
package entries

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/recoveryvault/internal/common"
	"github.com/dmitrijs2005/recoveryvault/internal/dbx"
	"github.com/dmitrijs2005/recoveryvault/internal/journal"
)

// PostgresRepository implements entry storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the entry document. An existing id is never overwritten:
// it yields common.ErrAlreadyExists.
func (r *PostgresRepository) Create(ctx context.Context, e *journal.Entry) error {
	doc, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}

	query := `
		INSERT INTO journal_entries (id, author, ts, vault_mode, log_type, doc)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	res, err := r.db.ExecContext(ctx, query,
		e.ID, e.Author, e.Timestamp, string(e.VaultMode), string(e.LogType), doc)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrAlreadyExists
		}
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

// FetchAll returns entries newest first. An empty mode returns every
// partition.
func (r *PostgresRepository) FetchAll(ctx context.Context, mode journal.VaultMode) ([]journal.Entry, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if mode == "" {
		rows, err = r.db.QueryContext(ctx, `SELECT doc FROM journal_entries ORDER BY ts DESC, id DESC`)
	} else {
		rows, err = r.db.QueryContext(ctx,
			`SELECT doc FROM journal_entries WHERE vault_mode = $1 ORDER BY ts DESC, id DESC`, string(mode))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select entries: %w", err)
	}
	defer rows.Close()

	result := make([]journal.Entry, 0)
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var e journal.Entry
		if err := json.Unmarshal(doc, &e); err != nil {
			return nil, fmt.Errorf("decode entry: %w", err)
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListIDs returns every entry id, newest first.
func (r *PostgresRepository) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM journal_entries ORDER BY ts DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to select entry ids: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// Delete removes one entry. A missing id yields common.ErrorNotFound.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM journal_entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrorNotFound
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}
