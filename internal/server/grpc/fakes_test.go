package grpc

import (
	"context"
	"time"

	"github.com/dmitrijs2005/recoveryvault/internal/journal"
	"github.com/dmitrijs2005/recoveryvault/internal/logging"
	"github.com/dmitrijs2005/recoveryvault/internal/server/auth"
	"github.com/dmitrijs2005/recoveryvault/internal/server/services"
	"github.com/dmitrijs2005/recoveryvault/internal/server/watch"
)

type fakeJournal struct {
	created  *journal.Entry
	lastMode journal.VaultMode
	entries  []journal.Entry
	claim    *journal.TaskClaim
	profile  *journal.Profile
	saved    *journal.Profile
	err      error
}

func (f *fakeJournal) CreateEntry(_ context.Context, e *journal.Entry) error {
	f.created = e
	return f.err
}

func (f *fakeJournal) ListEntries(_ context.Context, mode journal.VaultMode) ([]journal.Entry, error) {
	f.lastMode = mode
	return f.entries, f.err
}

func (f *fakeJournal) ClaimTask(_ context.Context, id, title, status, claimedBy string) (*journal.TaskClaim, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.claim = &journal.TaskClaim{ID: id, Title: title, Status: status, ClaimedBy: claimedBy}
	return f.claim, nil
}

func (f *fakeJournal) ListClaims(context.Context) ([]journal.TaskClaim, error) {
	if f.claim == nil {
		return []journal.TaskClaim{}, f.err
	}
	return []journal.TaskClaim{*f.claim}, f.err
}

func (f *fakeJournal) GetProfile(context.Context) (*journal.Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.profile == nil {
		return &journal.Profile{}, nil
	}
	return f.profile, nil
}

func (f *fakeJournal) SaveProfile(_ context.Context, p *journal.Profile) error {
	f.saved = p
	return f.err
}

type fakeMedia struct {
	target string
	up     *services.Upload
	err    error
}

func (f *fakeMedia) PresignUpload(_ context.Context, target string) (*services.Upload, error) {
	f.target = target
	return f.up, f.err
}

func (f *fakeMedia) PresignGet(_ context.Context, key string) (string, error) {
	return "https://signed/" + key, f.err
}

type fakeGate struct {
	peer, role, pin string
	token           string
	claims          *auth.Claims
	authErr         error
	unlockErr       error
	purged          int
	purgeErr        error
	purgeClaims     *auth.Claims
}

func (f *fakeGate) Unlock(_ context.Context, peer, role, pin string) (string, time.Time, error) {
	f.peer, f.role, f.pin = peer, role, pin
	if f.unlockErr != nil {
		return "", time.Time{}, f.unlockErr
	}
	return f.token, time.Unix(100, 0), nil
}

func (f *fakeGate) Authorize(token string) (*auth.Claims, error) {
	if f.authErr != nil {
		return nil, f.authErr
	}
	return f.claims, nil
}

func (f *fakeGate) Purge(_ context.Context, claims *auth.Claims, pin, phrase string) (int, error) {
	f.purgeClaims = claims
	return f.purged, f.purgeErr
}

func newTestServer(js *fakeJournal, ms *fakeMedia, gs *fakeGate, hub *watch.Hub) *GRPCServer {
	return NewGRPCServer("127.0.0.1:0", logging.Nop{}, js, ms, gs, hub)
}
