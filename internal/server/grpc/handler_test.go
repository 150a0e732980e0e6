package grpc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/dmitrijs2005/recoveryvault/internal/common"
	"github.com/dmitrijs2005/recoveryvault/internal/journal"
	"github.com/dmitrijs2005/recoveryvault/internal/server/auth"
	"github.com/dmitrijs2005/recoveryvault/internal/server/services"
	"github.com/dmitrijs2005/recoveryvault/internal/server/watch"
	"github.com/dmitrijs2005/recoveryvault/internal/vaultrpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
)

func TestStatusFor(t *testing.T) {
	s := newTestServer(&fakeJournal{}, &fakeMedia{}, &fakeGate{}, nil)
	ctx := context.Background()

	cases := []struct {
		err  error
		code codes.Code
		msg  string
	}{
		{fmt.Errorf("x: %w", common.ErrorNotFound), codes.NotFound, common.ErrorNotFound.Error()},
		{common.ErrAlreadyExists, codes.AlreadyExists, common.ErrAlreadyExists.Error()},
		{fmt.Errorf("%w: pain too high", common.ErrValidation), codes.InvalidArgument, ""},
		{common.ErrConfirmationMismatch, codes.InvalidArgument, common.ErrConfirmationMismatch.Error()},
		{fmt.Errorf("purge: %w", common.ErrInvalidPin), codes.Unauthenticated, common.ErrInvalidPin.Error()},
		{common.ErrTokenExpired, codes.Unauthenticated, common.ErrTokenExpired.Error()},
		{common.ErrInvalidToken, codes.Unauthenticated, common.ErrorUnauthorized.Error()},
		{common.ErrTooManyAttempts, codes.ResourceExhausted, common.ErrTooManyAttempts.Error()},
		{errors.New("db gone"), codes.Internal, "internal error"},
		{&journal.PurgeError{Deleted: 1, Total: 3, Err: errors.New("x")}, codes.Internal, "purge stopped after 1 of 3 entries: x"},
	}
	for _, tc := range cases {
		st, _ := status.FromError(s.statusFor(ctx, tc.err))
		assert.Equal(t, tc.code, st.Code(), tc.err.Error())
		if tc.msg != "" {
			assert.Equal(t, tc.msg, st.Message())
		}
	}
}

func TestCreateEntry(t *testing.T) {
	js := &fakeJournal{}
	s := newTestServer(js, &fakeMedia{}, &fakeGate{}, nil)

	resp, err := s.CreateEntry(context.Background(), &vaultrpc.CreateEntryRequest{Entry: journal.Entry{ID: "log_5"}})
	require.NoError(t, err)
	assert.Equal(t, "log_5", resp.ID)
	require.NotNil(t, js.created)
	assert.NotNil(t, js.created.MediaList)

	js.err = common.ErrAlreadyExists
	_, err = s.CreateEntry(context.Background(), &vaultrpc.CreateEntryRequest{Entry: journal.Entry{ID: "log_5"}})
	assert.Equal(t, codes.AlreadyExists, status.Code(err))
}

func TestListEntries_Mode(t *testing.T) {
	js := &fakeJournal{entries: []journal.Entry{{ID: "log_1"}}}
	s := newTestServer(js, &fakeMedia{}, &fakeGate{}, nil)
	ctx := context.Background()

	resp, err := s.ListEntries(ctx, &vaultrpc.ListEntriesRequest{Mode: "forensic"})
	require.NoError(t, err)
	assert.Equal(t, journal.ModeForensic, js.lastMode)
	assert.Len(t, resp.Entries, 1)

	_, err = s.ListEntries(ctx, &vaultrpc.ListEntriesRequest{})
	require.NoError(t, err)
	assert.Equal(t, journal.VaultMode(""), js.lastMode)

	_, err = s.ListEntries(ctx, &vaultrpc.ListEntriesRequest{Mode: "party"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestPresign(t *testing.T) {
	ms := &fakeMedia{up: &services.Upload{Key: "images/1_a.jpg", PutURL: "put", DurableURL: "durable", ContentType: "image/jpeg"}}
	s := newTestServer(&fakeJournal{}, ms, &fakeGate{}, nil)
	ctx := context.Background()

	up, err := s.PresignUpload(ctx, &vaultrpc.PresignUploadRequest{Target: "image"})
	require.NoError(t, err)
	assert.Equal(t, "image", ms.target)
	assert.Equal(t, "durable", up.DurableURL)

	get, err := s.PresignGet(ctx, &vaultrpc.PresignGetRequest{Key: "images/1_a.jpg"})
	require.NoError(t, err)
	assert.Equal(t, "https://signed/images/1_a.jpg", get.URL)

	ms.err = fmt.Errorf("%w: bad target", common.ErrValidation)
	_, err = s.PresignUpload(ctx, &vaultrpc.PresignUploadRequest{Target: "pdf"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestClaims(t *testing.T) {
	js := &fakeJournal{}
	s := newTestServer(js, &fakeMedia{}, &fakeGate{}, nil)
	ctx := context.Background()

	resp, err := s.ClaimTask(ctx, &vaultrpc.ClaimTaskRequest{ID: "t1", Title: "Groceries", ClaimedBy: "Friend"})
	require.NoError(t, err)
	assert.Equal(t, "Friend", resp.Claim.ClaimedBy)

	list, err := s.ListClaims(ctx, &vaultrpc.ListClaimsRequest{})
	require.NoError(t, err)
	assert.Len(t, list.Claims, 1)
}

func TestUnlock_UsesPeerHost(t *testing.T) {
	gs := &fakeGate{token: "tok"}
	s := newTestServer(&fakeJournal{}, &fakeMedia{}, gs, nil)
	ctx := peer.NewContext(context.Background(), &peer.Peer{Addr: &net.TCPAddr{IP: net.ParseIP("10.1.2.3"), Port: 5555}})

	resp, err := s.Unlock(ctx, &vaultrpc.UnlockRequest{Role: "patient", Pin: "1234"})
	require.NoError(t, err)
	assert.Equal(t, "tok", resp.Token)
	assert.Equal(t, "10.1.2.3", gs.peer)

	gs.unlockErr = common.ErrTooManyAttempts
	_, err = s.Unlock(ctx, &vaultrpc.UnlockRequest{Role: "patient", Pin: "1234"})
	assert.Equal(t, codes.ResourceExhausted, status.Code(err))
}

func TestPurge(t *testing.T) {
	gs := &fakeGate{purged: 4}
	s := newTestServer(&fakeJournal{}, &fakeMedia{}, gs, nil)

	_, err := s.Purge(context.Background(), &vaultrpc.PurgeRequest{Pin: "1234", Confirmation: common.ConfirmationPhrase})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	claims := &auth.Claims{Role: "patient", Scope: auth.GateScope}
	ctx := context.WithValue(context.Background(), claimsKey, claims)
	resp, err := s.Purge(ctx, &vaultrpc.PurgeRequest{Pin: "1234", Confirmation: common.ConfirmationPhrase})
	require.NoError(t, err)
	assert.Equal(t, 4, resp.Deleted)
	assert.Same(t, claims, gs.purgeClaims)

	gs.purgeErr = common.ErrConfirmationMismatch
	_, err = s.Purge(ctx, &vaultrpc.PurgeRequest{Pin: "1234", Confirmation: "nope"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestProfile(t *testing.T) {
	js := &fakeJournal{profile: &journal.Profile{PatientName: "P"}}
	s := newTestServer(js, &fakeMedia{}, &fakeGate{}, nil)
	ctx := context.Background()

	got, err := s.GetProfile(ctx, &vaultrpc.GetProfileRequest{})
	require.NoError(t, err)
	assert.Equal(t, "P", got.Profile.PatientName)

	_, err = s.SaveProfile(ctx, &vaultrpc.SaveProfileRequest{Profile: journal.Profile{PatientName: "Q"}})
	require.NoError(t, err)
	assert.Equal(t, "Q", js.saved.PatientName)
}

func TestPing(t *testing.T) {
	s := newTestServer(&fakeJournal{}, &fakeMedia{}, &fakeGate{}, nil)
	resp, err := s.Ping(context.Background(), &vaultrpc.PingRequest{})
	require.NoError(t, err)
	assert.Equal(t, "OK", resp.Status)
}

type fakeWatchStream struct {
	grpc.ServerStream
	ctx  context.Context
	sent chan *vaultrpc.WatchEvent
}

func (f *fakeWatchStream) Context() context.Context { return f.ctx }

func (f *fakeWatchStream) Send(ev *vaultrpc.WatchEvent) error {
	f.sent <- ev
	return nil
}

func TestWatch_FiltersByMode(t *testing.T) {
	hub := watch.NewHub(8)
	s := newTestServer(&fakeJournal{}, &fakeMedia{}, &fakeGate{}, hub)

	ctx, cancel := context.WithCancel(context.Background())
	stream := &fakeWatchStream{ctx: ctx, sent: make(chan *vaultrpc.WatchEvent, 4)}
	done := make(chan error, 1)
	go func() { done <- s.Watch(&vaultrpc.WatchRequest{Mode: "Forensic"}, stream) }()

	require.Eventually(t, func() bool { return hub.Len() == 1 }, time.Second, 5*time.Millisecond)
	hub.Publish(watch.Change{ID: "log_1", Op: "INSERT", Mode: "Sandbox"})
	hub.Publish(watch.Change{ID: "log_2", Op: "INSERT", Mode: "Forensic"})

	select {
	case ev := <-stream.sent:
		assert.Equal(t, "log_2", ev.ID)
	case <-time.After(time.Second):
		t.Fatal("no event")
	}

	cancel()
	require.NoError(t, <-done)
	assert.Zero(t, hub.Len())
}

func TestWatch_Disabled(t *testing.T) {
	s := newTestServer(&fakeJournal{}, &fakeMedia{}, &fakeGate{}, nil)
	err := s.Watch(&vaultrpc.WatchRequest{}, &fakeWatchStream{ctx: context.Background()})
	assert.Equal(t, codes.Unavailable, status.Code(err))
}
