package client

import (
	"context"
	"time"

	"github.com/dmitrijs2005/recoveryvault/internal/journal"
	"github.com/dmitrijs2005/recoveryvault/internal/vaultrpc"
)

// Upload is a presigned slot handed out by the server.
type Upload struct {
	Key         string
	PutURL      string
	DurableURL  string
	ContentType string
}

// Client is the CLI's view of the server.
type Client interface {
	Close() error
	Ping(ctx context.Context) error

	CreateEntry(ctx context.Context, e journal.Entry) error
	ListEntries(ctx context.Context, mode journal.VaultMode) ([]journal.Entry, error)
	Watch(ctx context.Context, mode journal.VaultMode, fn func(vaultrpc.WatchEvent)) error

	PresignUpload(ctx context.Context, target string) (*Upload, error)
	PresignGet(ctx context.Context, key string) (string, error)

	ClaimTask(ctx context.Context, id, title, status, claimedBy string) (*journal.TaskClaim, error)
	ListClaims(ctx context.Context) ([]journal.TaskClaim, error)

	Unlock(ctx context.Context, role, pin string) (time.Time, error)
	Lock()
	Unlocked() bool
	Purge(ctx context.Context, pin, confirmation string) (int, error)
	GetProfile(ctx context.Context) (*journal.Profile, error)
	SaveProfile(ctx context.Context, p journal.Profile) error
}
