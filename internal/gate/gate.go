// Package gate guards destructive and sensitive operations behind a
// per-role PIN whose argon2id encoding lives in server configuration.
package gate

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/dmitrijs2005/recoveryvault/internal/common"
	"github.com/dmitrijs2005/recoveryvault/internal/cryptox"
)

// Purger deletes every journal entry and reports how many went.
type Purger interface {
	PurgeAll(ctx context.Context) (int, error)
}

type Gate struct {
	hashes map[string]string
}

// New builds a gate from role → argon2id encoding. Role names are matched
// case-insensitively.
func New(hashes map[string]string) *Gate {
	m := make(map[string]string, len(hashes))
	for role, h := range hashes {
		m[normalize(role)] = h
	}
	return &Gate{hashes: m}
}

// Roles lists the configured roles, sorted.
func (g *Gate) Roles() []string {
	out := make([]string, 0, len(g.hashes))
	for r := range g.hashes {
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}

// VerifyPin reports whether pin matches the role's hash. Unknown roles and
// malformed hashes never verify.
func (g *Gate) VerifyPin(role, pin string) bool {
	enc, ok := g.hashes[normalize(role)]
	if !ok || pin == "" {
		return false
	}
	ok, err := cryptox.VerifyPIN(enc, []byte(pin))
	return err == nil && ok
}

// CheckConfirmation compares the typed phrase with common.ConfirmationPhrase.
func CheckConfirmation(phrase string) error {
	if phrase != common.ConfirmationPhrase {
		return common.ErrConfirmationMismatch
	}
	return nil
}

// PurgeGatedBy runs p.PurgeAll only when the PIN verifies and the typed
// phrase matches. Otherwise p is never called.
func (g *Gate) PurgeGatedBy(ctx context.Context, role, pin, phrase string, p Purger) (int, error) {
	if !g.VerifyPin(role, pin) {
		return 0, common.ErrInvalidPin
	}
	if err := CheckConfirmation(phrase); err != nil {
		return 0, err
	}

	n, err := p.PurgeAll(ctx)
	if err != nil {
		return n, fmt.Errorf("purge: %w", err)
	}
	return n, nil
}

func normalize(role string) string {
	return strings.ToLower(strings.TrimSpace(role))
}
