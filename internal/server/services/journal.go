package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/recoveryvault/internal/common"
	"github.com/dmitrijs2005/recoveryvault/internal/journal"
	"github.com/dmitrijs2005/recoveryvault/internal/logging"
	"github.com/dmitrijs2005/recoveryvault/internal/server/repositories/repomanager"
)

// now is a seam for tests.
var now = time.Now

// JournalService is the server-side journal store: entries, claims and the
// case profile.
type JournalService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewJournalService(db *sql.DB, repomanager repomanager.RepositoryManager, logger logging.Logger) *JournalService {
	return &JournalService{
		db:          db,
		repomanager: repomanager,
		logger:      logger.With("module", "journal"),
	}
}

// CreateEntry validates and stores a new entry. Entries are create-only.
func (s *JournalService) CreateEntry(ctx context.Context, e *journal.Entry) error {
	if err := journal.Validate(*e); err != nil {
		return err
	}

	if err := s.repomanager.Entries(s.db).Create(ctx, e); err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return err
		}
		return fmt.Errorf("create entry %s: %w", e.ID, err)
	}

	s.logger.Info(ctx, "entry created", "id", e.ID, "mode", e.VaultMode, "media", len(e.MediaList))
	return nil
}

// ListEntries returns entries newest first, filtered by mode unless empty.
func (s *JournalService) ListEntries(ctx context.Context, mode journal.VaultMode) ([]journal.Entry, error) {
	items, err := s.repomanager.Entries(s.db).FetchAll(ctx, mode)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return items, nil
}

// PurgeAll deletes every entry one at a time. A failure stops the purge and
// returns a *journal.PurgeError; entries deleted so far stay deleted.
// Entries created while a purge runs may survive it.
func (s *JournalService) PurgeAll(ctx context.Context) (int, error) {
	repo := s.repomanager.Entries(s.db)

	ids, err := repo.ListIDs(ctx)
	if err != nil {
		return 0, &journal.PurgeError{Deleted: 0, Total: 0, Err: err}
	}

	deleted := 0
	for _, id := range ids {
		err := repo.Delete(ctx, id)
		if errors.Is(err, common.ErrorNotFound) {
			continue
		}
		if err != nil {
			s.logger.Error(ctx, "purge stopped", "deleted", deleted, "total", len(ids), "error", err)
			return deleted, &journal.PurgeError{Deleted: deleted, Total: len(ids), Err: err}
		}
		deleted++
	}

	s.logger.Warn(ctx, "journal purged", "deleted", deleted)
	return deleted, nil
}

// ClaimTask records that claimedBy took task id. Existing claims are merged.
func (s *JournalService) ClaimTask(ctx context.Context, id, title, status, claimedBy string) (*journal.TaskClaim, error) {
	if id == "" || claimedBy == "" {
		return nil, fmt.Errorf("%w: task id and claimant are required", common.ErrValidation)
	}
	if status == "" {
		status = journal.ClaimInProgress
	}

	c, err := s.repomanager.Claims(s.db).Upsert(ctx, &journal.TaskClaim{
		ID:          id,
		Title:       title,
		Status:      status,
		ClaimedBy:   claimedBy,
		LastUpdated: now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("claim task %s: %w", id, err)
	}
	return c, nil
}

func (s *JournalService) ListClaims(ctx context.Context) ([]journal.TaskClaim, error) {
	return s.repomanager.Claims(s.db).List(ctx)
}

// GetProfile returns the stored profile, or an empty one if none was saved.
func (s *JournalService) GetProfile(ctx context.Context) (*journal.Profile, error) {
	p, err := s.repomanager.Profile(s.db).Get(ctx)
	if errors.Is(err, common.ErrorNotFound) {
		return &journal.Profile{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

func (s *JournalService) SaveProfile(ctx context.Context, p *journal.Profile) error {
	if err := journal.ValidateProfile(*p); err != nil {
		return err
	}
	p.UpdatedAt = now().UTC()
	if err := s.repomanager.Profile(s.db).Save(ctx, p); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}
