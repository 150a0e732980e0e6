package services

import (
	"context"
	"database/sql"
	"sort"
	"sync"

	"github.com/dmitrijs2005/recoveryvault/internal/common"
	"github.com/dmitrijs2005/recoveryvault/internal/dbx"
	"github.com/dmitrijs2005/recoveryvault/internal/journal"
	"github.com/dmitrijs2005/recoveryvault/internal/server/repositories/claims"
	"github.com/dmitrijs2005/recoveryvault/internal/server/repositories/entries"
	"github.com/dmitrijs2005/recoveryvault/internal/server/repositories/profile"
	"github.com/dmitrijs2005/recoveryvault/internal/server/repositories/repomanager"
)

type fakeEntries struct {
	mu        sync.Mutex
	items     map[string]journal.Entry
	createErr error
	listErr   error
	// deleteErrAt fails the n-th Delete call (1-based); 0 disables.
	deleteErrAt int
	deleteErr   error
	deletes     int
}

func newFakeEntries() *fakeEntries {
	return &fakeEntries{items: map[string]journal.Entry{}}
}

func (f *fakeEntries) Create(_ context.Context, e *journal.Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.items[e.ID]; ok {
		return common.ErrAlreadyExists
	}
	f.items[e.ID] = *e
	return nil
}

func (f *fakeEntries) FetchAll(_ context.Context, mode journal.VaultMode) ([]journal.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []journal.Entry{}
	for _, e := range f.items {
		if mode == "" || e.VaultMode == mode {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

func (f *fakeEntries) ListIDs(_ context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	ids := make([]string, 0, len(f.items))
	for id := range f.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (f *fakeEntries) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes++
	if f.deleteErrAt > 0 && f.deletes == f.deleteErrAt {
		return f.deleteErr
	}
	if _, ok := f.items[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.items, id)
	return nil
}

type fakeClaims struct {
	items map[string]journal.TaskClaim
}

func (f *fakeClaims) Upsert(_ context.Context, c *journal.TaskClaim) (*journal.TaskClaim, error) {
	merged := *c
	if old, ok := f.items[c.ID]; ok && c.Title == "" {
		merged.Title = old.Title
	}
	f.items[c.ID] = merged
	return &merged, nil
}

func (f *fakeClaims) List(_ context.Context) ([]journal.TaskClaim, error) {
	out := []journal.TaskClaim{}
	for _, c := range f.items {
		out = append(out, c)
	}
	return out, nil
}

type fakeProfile struct {
	p *journal.Profile
}

func (f *fakeProfile) Get(_ context.Context) (*journal.Profile, error) {
	if f.p == nil {
		return nil, common.ErrorNotFound
	}
	cp := *f.p
	return &cp, nil
}

func (f *fakeProfile) Save(_ context.Context, p *journal.Profile) error {
	cp := *p
	f.p = &cp
	return nil
}

type fakeRepoManager struct {
	repomanager.RepositoryManager
	entries *fakeEntries
	claims  *fakeClaims
	profile *fakeProfile
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		entries: newFakeEntries(),
		claims:  &fakeClaims{items: map[string]journal.TaskClaim{}},
		profile: &fakeProfile{},
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Entries(dbx.DBTX) entries.Repository          { return m.entries }
func (m *fakeRepoManager) Claims(dbx.DBTX) claims.Repository            { return m.claims }
func (m *fakeRepoManager) Profile(dbx.DBTX) profile.Repository          { return m.profile }
