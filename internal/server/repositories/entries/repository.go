package entries

import (
	"context"

	"github.com/dmitrijs2005/recoveryvault/internal/journal"
)

// Repository stores journal documents. Entries are created once and only
// ever removed by Delete.
type Repository interface {
	Create(ctx context.Context, e *journal.Entry) error
	FetchAll(ctx context.Context, mode journal.VaultMode) ([]journal.Entry, error)
	ListIDs(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, id string) error
}
