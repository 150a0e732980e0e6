package cli

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/recoveryvault/internal/client/client"
	"github.com/dmitrijs2005/recoveryvault/internal/client/config"
	"github.com/dmitrijs2005/recoveryvault/internal/draft"
	"github.com/dmitrijs2005/recoveryvault/internal/journal"
	"github.com/dmitrijs2005/recoveryvault/internal/logging"
	"github.com/dmitrijs2005/recoveryvault/internal/vaultrpc"
	"github.com/fatih/color"
)

type fakeAPI struct {
	mu sync.Mutex

	entries   []journal.Entry
	listCalls int
	listErr   error
	events    []vaultrpc.WatchEvent

	unlocked  bool
	unlockErr error
	unlockArg [2]string

	purgeArgs [2]string
	purgeN    int
	purgeErr  error

	profile journal.Profile
	saved   *journal.Profile

	claims  []journal.TaskClaim
	getKeys []string
}

func (f *fakeAPI) Close() error                   { return nil }
func (f *fakeAPI) Ping(ctx context.Context) error { return nil }

func (f *fakeAPI) CreateEntry(ctx context.Context, e journal.Entry) error { return nil }

func (f *fakeAPI) ListEntries(ctx context.Context, mode journal.VaultMode) ([]journal.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]journal.Entry, 0, len(f.entries))
	for _, e := range f.entries {
		if e.VaultMode == mode {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeAPI) Watch(ctx context.Context, mode journal.VaultMode, fn func(vaultrpc.WatchEvent)) error {
	for _, ev := range f.events {
		fn(ev)
	}
	return nil
}

func (f *fakeAPI) PresignUpload(ctx context.Context, target string) (*client.Upload, error) {
	return &client.Upload{Key: target + "/1"}, nil
}

func (f *fakeAPI) PresignGet(ctx context.Context, key string) (string, error) {
	f.getKeys = append(f.getKeys, key)
	return "https://signed/" + key, nil
}

func (f *fakeAPI) ClaimTask(ctx context.Context, id, title, status, claimedBy string) (*journal.TaskClaim, error) {
	c := journal.TaskClaim{ID: id, Title: title, Status: status, ClaimedBy: claimedBy, LastUpdated: time.Now()}
	f.claims = append(f.claims, c)
	return &c, nil
}

func (f *fakeAPI) ListClaims(ctx context.Context) ([]journal.TaskClaim, error) {
	return f.claims, nil
}

func (f *fakeAPI) Unlock(ctx context.Context, role, pin string) (time.Time, error) {
	f.unlockArg = [2]string{role, pin}
	if f.unlockErr != nil {
		return time.Time{}, f.unlockErr
	}
	f.unlocked = true
	return time.Now().Add(5 * time.Minute), nil
}

func (f *fakeAPI) Lock()          { f.unlocked = false }
func (f *fakeAPI) Unlocked() bool { return f.unlocked }

func (f *fakeAPI) Purge(ctx context.Context, pin, confirmation string) (int, error) {
	f.purgeArgs = [2]string{pin, confirmation}
	return f.purgeN, f.purgeErr
}

func (f *fakeAPI) GetProfile(ctx context.Context) (*journal.Profile, error) {
	p := f.profile
	return &p, nil
}

func (f *fakeAPI) SaveProfile(ctx context.Context, p journal.Profile) error {
	f.saved = &p
	f.profile = p
	return nil
}

type fakePrefs struct {
	values map[string]string
	err    error
}

func newFakePrefs() *fakePrefs { return &fakePrefs{values: map[string]string{}} }

func (f *fakePrefs) Get(ctx context.Context, key string) (string, bool, error) {
	if f.err != nil {
		return "", false, f.err
	}
	v, ok := f.values[key]
	return v, ok, nil
}

func (f *fakePrefs) Set(ctx context.Context, key, value string) error {
	if f.err != nil {
		return f.err
	}
	f.values[key] = value
	return nil
}

func (f *fakePrefs) Delete(ctx context.Context, key string) error {
	delete(f.values, key)
	return nil
}

func (f *fakePrefs) List(ctx context.Context) (map[string]string, error) {
	return f.values, nil
}

type fakeCommitter struct {
	calls  int
	gotD   draft.Draft
	gotS   draft.Staging
	err    error
	during func()
}

func (f *fakeCommitter) Commit(ctx context.Context, d draft.Draft, s draft.Staging) (journal.Entry, error) {
	f.calls++
	f.gotD, f.gotS = d, s
	if f.during != nil {
		f.during()
	}
	if f.err != nil {
		return journal.Entry{}, f.err
	}
	media := make([]journal.Media, s.Len())
	return journal.Entry{ID: "log_1", MediaList: media, LogType: d.LogType()}, nil
}

type fakeSharer struct {
	path string
}

func (f *fakeSharer) Share(ctx context.Context, path string) (string, error) {
	f.path = path
	return "https://store/vault/reports/r.html", nil
}

type testApp struct {
	*App
	api   *fakeAPI
	prefs *fakePrefs
	com   *fakeCommitter
	share *fakeSharer
	out   *bytes.Buffer
	lines *[]string
}

// newTestApp builds an App over fakes and captures printlnFn output.
func newTestApp(t *testing.T, input string) *testApp {
	t.Helper()

	color.NoColor = true
	lines := captureOutput(t)
	api := &fakeAPI{}
	prefs := newFakePrefs()
	cfg := &config.Config{ExportDir: t.TempDir(), VaultMode: "Sandbox", UploadWorkers: 2}

	a := newApp(cfg, api, prefs, logging.Nop{})
	out := &bytes.Buffer{}
	a.out = out
	a.reader = bufio.NewReader(strings.NewReader(input))
	com := &fakeCommitter{}
	sh := &fakeSharer{}
	a.committer = com
	a.sharer = sh

	return &testApp{App: a, api: api, prefs: prefs, com: com, share: sh, out: out, lines: lines}
}

func captureOutput(t *testing.T) *[]string {
	t.Helper()
	var (
		mu    sync.Mutex
		lines []string
	)
	old := printlnFn
	t.Cleanup(func() { printlnFn = old })
	printlnFn = func(a ...any) (int, error) {
		mu.Lock()
		defer mu.Unlock()
		s := strings.TrimSuffix(fmt.Sprintln(a...), "\n")
		lines = append(lines, s)
		return len(s), nil
	}
	return &lines
}

func entryAt(id, author string, ts time.Time, mode journal.VaultMode) journal.Entry {
	return journal.Entry{
		ID:        id,
		Author:    author,
		Timestamp: ts,
		Category:  journal.CategoryGeneral,
		Vitals:    journal.Vitals{PainLevel: 5, Mood: journal.DefaultMood},
		MediaList: []journal.Media{},
		LogType:   journal.LogLive,
		VaultMode: mode,
	}
}
