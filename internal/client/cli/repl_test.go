package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/dmitrijs2005/recoveryvault/internal/client/client"
	"github.com/dmitrijs2005/recoveryvault/internal/client/services"
	"github.com/dmitrijs2005/recoveryvault/internal/common"
	"github.com/dmitrijs2005/recoveryvault/internal/draft"
	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	calls  []string
	errs   map[string]error
	logged []string
}

func (f *fakeExec) rec(name string, args []string) error {
	f.calls = append(f.calls, strings.TrimSpace(name+" "+strings.Join(args, " ")))
	return f.errs[name]
}

func (f *fakeExec) Set(_ context.Context, a []string) error       { return f.rec("set", a) }
func (f *fakeExec) Show(_ context.Context, a []string) error      { return f.rec("show", a) }
func (f *fakeExec) Reset(_ context.Context, a []string) error     { return f.rec("reset", a) }
func (f *fakeExec) Timer(_ context.Context, a []string) error     { return f.rec("timer", a) }
func (f *fakeExec) Backlog(_ context.Context, a []string) error   { return f.rec("backlog", a) }
func (f *fakeExec) Stage(_ context.Context, a []string) error     { return f.rec("stage", a) }
func (f *fakeExec) Unstage(_ context.Context, a []string) error   { return f.rec("unstage", a) }
func (f *fakeExec) Staged(_ context.Context, a []string) error    { return f.rec("staged", a) }
func (f *fakeExec) Save(_ context.Context, a []string) error      { return f.rec("save", a) }
func (f *fakeExec) History(_ context.Context, a []string) error   { return f.rec("history", a) }
func (f *fakeExec) Expand(_ context.Context, a []string) error    { return f.rec("expand", a) }
func (f *fakeExec) Follow(_ context.Context, a []string) error    { return f.rec("follow", a) }
func (f *fakeExec) Media(_ context.Context, a []string) error     { return f.rec("media", a) }
func (f *fakeExec) Export(_ context.Context, a []string) error    { return f.rec("export", a) }
func (f *fakeExec) Share(_ context.Context, a []string) error     { return f.rec("share", a) }
func (f *fakeExec) Claim(_ context.Context, a []string) error     { return f.rec("claim", a) }
func (f *fakeExec) Claims(_ context.Context, a []string) error    { return f.rec("claims", a) }
func (f *fakeExec) Unlock(_ context.Context, a []string) error    { return f.rec("unlock", a) }
func (f *fakeExec) Lock(_ context.Context, a []string) error      { return f.rec("lock", a) }
func (f *fakeExec) Profile(_ context.Context, a []string) error   { return f.rec("profile", a) }
func (f *fakeExec) Purge(_ context.Context, a []string) error     { return f.rec("purge", a) }
func (f *fakeExec) VaultMode(_ context.Context, a []string) error { return f.rec("mode", a) }
func (f *fakeExec) Name(_ context.Context, a []string) error      { return f.rec("name", a) }

func (f *fakeExec) logError(_ context.Context, cmd string, err error) {
	f.logged = append(f.logged, cmd+": "+err.Error())
}

func TestRunREPL_Dispatch(t *testing.T) {
	lines := captureOutput(t)
	f := &fakeExec{}

	in := "set pain 7\n\nSTAGE a.jpg video\nh\nwhoami\nbogus\nexit\nsave\n"
	runREPL(context.Background(), f, func() string { return "" }, rdr(in))

	assert.Equal(t, []string{"set pain 7", "stage a.jpg video", "history", "name"}, f.calls)
	assert.Contains(t, *lines, "Unknown command: bogus")
	assert.Contains(t, *lines, "Bye!")
}

func TestRunREPL_StopsAtEOF(t *testing.T) {
	captureOutput(t)
	f := &fakeExec{}
	runREPL(context.Background(), f, func() string { return "" }, rdr("show\nsave"))
	assert.Equal(t, []string{"show", "save"}, f.calls)
}

func TestRunREPL_ReportsErrors(t *testing.T) {
	lines := captureOutput(t)
	f := &fakeExec{errs: map[string]error{
		"save":   fmt.Errorf("%w: %w", services.ErrCommitFailed, errors.New("dial tcp: refused")),
		"purge":  common.ErrInvalidPin,
		"export": services.ErrNothingToSave,
	}}

	runREPL(context.Background(), f, func() string { return " (Patient)" }, rdr("save\npurge\nexport\n"))

	assert.Equal(t, "vault (Patient)> ", (*lines)[0])
	assert.Contains(t, *lines, "could not save entry, check connection")
	assert.Contains(t, *lines, "wrong PIN")
	assert.Len(t, f.logged, 3)
}

func TestRunREPL_Help(t *testing.T) {
	lines := captureOutput(t)
	runREPL(context.Background(), &fakeExec{}, func() string { return "" }, rdr("help\n"))
	assert.Contains(t, *lines, helpText)
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{services.ErrNothingToSave, ""},
		{errUsage("unstage <n>"), "usage: unstage <n>"},
		{fmt.Errorf("%w: %w", services.ErrCommitFailed, client.ErrUnavailable), "could not save entry, check connection"},
		{fmt.Errorf("%w: externalVideoLink failed \"url\"", common.ErrValidation), `entry not saved: validation error: externalVideoLink failed "url"`},
		{draft.ErrBacklogDateMissing, "backlog is on: pick a date with 'backlog YYYY-MM-DD'"},
		{common.ErrTooManyAttempts, "too many attempts, try again later"},
		{common.ErrConfirmationMismatch, "confirmation phrase does not match, nothing was deleted"},
		{common.ErrTokenExpired, "vault is locked, run 'unlock' first"},
		{errLocked, "vault is locked, run 'unlock' first"},
		{client.ErrUnavailable, "server unavailable"},
		{errors.New("boom"), "error: boom"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, userMessage(tc.err), tc.err.Error())
	}
}
