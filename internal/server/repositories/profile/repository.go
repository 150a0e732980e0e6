package profile

import (
	"context"

	"github.com/dmitrijs2005/recoveryvault/internal/journal"
)

type Repository interface {
	Get(ctx context.Context) (*journal.Profile, error)
	Save(ctx context.Context, p *journal.Profile) error
}
