package claims

import (
	"context"

	"github.com/dmitrijs2005/recoveryvault/internal/journal"
)

type Repository interface {
	Upsert(ctx context.Context, c *journal.TaskClaim) (*journal.TaskClaim, error)
	List(ctx context.Context) ([]journal.TaskClaim, error)
}
