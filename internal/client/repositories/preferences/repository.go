package preferences

import "context"

// Well-known preference keys.
const (
	KeyDisplayName = "display_name"
	KeyVaultMode   = "vault_mode"
	KeyLastExport  = "last_export"
)

// Repository is a small key/value store for per-device settings.
type Repository interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string]string, error)
}
