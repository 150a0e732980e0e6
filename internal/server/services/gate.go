package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/recoveryvault/internal/common"
	"github.com/dmitrijs2005/recoveryvault/internal/gate"
	"github.com/dmitrijs2005/recoveryvault/internal/logging"
	"github.com/dmitrijs2005/recoveryvault/internal/server/auth"
	sc "github.com/dmitrijs2005/recoveryvault/internal/server/config"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// GateService turns a verified PIN into a short-lived gate token and runs
// purges behind the gate.
type GateService struct {
	gate    *gate.Gate
	purger  gate.Purger
	limiter *limiter.Limiter
	config  *sc.Config
	logger  logging.Logger
}

func NewGateService(config *sc.Config, purger gate.Purger, logger logging.Logger) (*GateService, error) {
	rate, err := limiter.NewRateFromFormatted(config.UnlockRate)
	if err != nil {
		return nil, fmt.Errorf("unlock rate %q: %w", config.UnlockRate, err)
	}

	return &GateService{
		gate:    gate.New(config.PinHashes),
		purger:  purger,
		limiter: limiter.New(memory.NewStore(), rate),
		config:  config,
		logger:  logger.With("module", "gate"),
	}, nil
}

// Roles lists roles that have a PIN configured.
func (s *GateService) Roles() []string {
	return s.gate.Roles()
}

// Unlock checks pin for role. Every attempt counts against the peer's
// budget, successful or not.
func (s *GateService) Unlock(ctx context.Context, peer, role, pin string) (string, time.Time, error) {
	lc, err := s.limiter.Get(ctx, peer+"|"+role)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("rate limiter: %w", err)
	}
	if lc.Reached {
		s.logger.Warn(ctx, "unlock rate limited", "peer", peer, "role", role)
		return "", time.Time{}, common.ErrTooManyAttempts
	}

	if !s.gate.VerifyPin(role, pin) {
		s.logger.Warn(ctx, "unlock failed", "peer", peer, "role", role, "remaining", lc.Remaining)
		return "", time.Time{}, common.ErrInvalidPin
	}

	token, exp, err := auth.GenerateToken(role, []byte(s.config.SecretKey), s.config.GateTokenValidity)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("generate token: %w", err)
	}

	s.logger.Info(ctx, "gate unlocked", "role", role, "expires", exp)
	return token, exp, nil
}

// Authorize validates a gate token.
func (s *GateService) Authorize(token string) (*auth.Claims, error) {
	if token == "" {
		return nil, common.ErrorUnauthorized
	}
	return auth.ParseToken(token, []byte(s.config.SecretKey))
}

// Purge deletes every entry. The caller must hold a gate token and re-enter
// the PIN together with the confirmation phrase.
func (s *GateService) Purge(ctx context.Context, claims *auth.Claims, pin, phrase string) (int, error) {
	if claims == nil {
		return 0, common.ErrorUnauthorized
	}
	n, err := s.gate.PurgeGatedBy(ctx, claims.Role, pin, phrase, s.purger)
	if err != nil {
		s.logger.Error(ctx, "purge refused or failed", "role", claims.Role, "deleted", n, "error", err)
		return n, err
	}
	s.logger.Warn(ctx, "purge completed", "role", claims.Role, "deleted", n)
	return n, nil
}
