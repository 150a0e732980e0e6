package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dmitrijs2005/recoveryvault/internal/client/client"
	"github.com/dmitrijs2005/recoveryvault/internal/client/config"
	"github.com/dmitrijs2005/recoveryvault/internal/client/inbox"
	"github.com/dmitrijs2005/recoveryvault/internal/client/repositories/preferences"
	"github.com/dmitrijs2005/recoveryvault/internal/client/services"
	"github.com/dmitrijs2005/recoveryvault/internal/draft"
	"github.com/dmitrijs2005/recoveryvault/internal/filex"
	"github.com/dmitrijs2005/recoveryvault/internal/grouping"
	"github.com/dmitrijs2005/recoveryvault/internal/journal"
	"github.com/dmitrijs2005/recoveryvault/internal/logging"
	"github.com/fatih/color"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

const defaultAuthor = "Patient"

var now = time.Now

type committer interface {
	Commit(ctx context.Context, d draft.Draft, s draft.Staging) (journal.Entry, error)
}

type sharer interface {
	Share(ctx context.Context, path string) (string, error)
}

type App struct {
	config    *config.Config
	api       client.Client
	prefs     preferences.Repository
	committer committer
	sharer    sharer
	logger    logging.Logger
	closers   []io.Closer

	reader *bufio.Reader
	out    io.Writer

	mu        sync.Mutex
	draft     draft.Draft
	staging   draft.Staging
	stopwatch *draft.Stopwatch
	presenter *grouping.Presenter
	entries   []journal.Entry
	Mode      Mode
}

// NewApp opens the local store, the log file and the server connection.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	if _, err := filex.EnsureDir(filepath.Dir(c.LogFile)); err != nil {
		return nil, err
	}
	logger, logCloser := logging.NewFileLogger(logging.FileOptions{
		Path:       c.LogFile,
		MaxSizeMB:  10,
		MaxBackups: 3,
		MaxAgeDays: 28,
		Level:      c.LogLevel,
	})

	db, err := client.InitDatabase(ctx, c.DBPath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "error", err)
		logCloser.Close()
		return nil, err
	}

	api, err := client.NewVaultClientService(c.ServerEndpointAddr, c.RequestTimeout)
	if err != nil {
		db.Close()
		logCloser.Close()
		return nil, err
	}

	repos := client.NewRepositories(db)
	a := newApp(c, api, repos.Preferences, logger)
	a.committer = services.NewCommitter(api, c.UploadWorkers, logger, a.out)
	a.sharer = services.NewSharer(api, logger)
	a.closers = []io.Closer{api, dbCloser{db}, logCloser}

	if err := a.loadSession(ctx); err != nil {
		logger.Warn(ctx, "could not read preferences", "error", err)
	}
	return a, nil
}

func newApp(c *config.Config, api client.Client, prefs preferences.Repository, logger logging.Logger) *App {
	return &App{
		config:    c,
		api:       api,
		prefs:     prefs,
		logger:    logger.With("module", "cli"),
		reader:    bufio.NewReader(os.Stdin),
		out:       color.Output,
		draft:     draft.New(defaultAuthor, journal.ModeSandbox),
		stopwatch: draft.NewStopwatch(nil),
		presenter: grouping.NewPresenter(),
	}
}

type dbCloser struct{ db *sql.DB }

func (d dbCloser) Close() error { return d.db.Close() }

// loadSession restores author and vault mode. Stored preferences win over
// configured values, since they record the user's last explicit choice.
func (a *App) loadSession(ctx context.Context) error {
	author := a.config.Author
	mode := journal.VaultMode(a.config.VaultMode)

	name, ok, err := a.prefs.Get(ctx, preferences.KeyDisplayName)
	if err != nil {
		return err
	}
	if ok && name != "" {
		author = name
	}
	m, ok, err := a.prefs.Get(ctx, preferences.KeyVaultMode)
	if err != nil {
		return err
	}
	if ok {
		mode = journal.VaultMode(m)
	}

	if author == "" {
		author = defaultAuthor
	}
	if parsed, ok := journal.ParseVaultMode(string(mode)); ok {
		mode = parsed
	} else {
		mode = journal.ModeSandbox
	}

	a.mu.Lock()
	a.draft = draft.New(author, mode)
	a.mu.Unlock()
	return nil
}

// Run starts the background watchers and blocks in the REPL.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	printlnFn("Recovery Vault (type 'help' for commands)")

	a.checkOnline(ctx)
	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	if a.config.InboxDir != "" {
		w := inbox.NewWatcher(a.config.InboxDir, nil, inbox.DefaultDelay, a.logger)
		go func() {
			if err := w.Run(ctx, a.stageFromInbox); err != nil {
				a.logger.Error(ctx, "inbox watcher stopped", "error", err)
				printlnFn("inbox disabled:", err)
			}
		}()
	}

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) Close() {
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.logger.Warn(context.Background(), "close failed", "error", err)
		}
	}
	a.closers = nil
}

func (a *App) getStatus() string {
	a.mu.Lock()
	d, staged, m := a.draft, a.staging.Len(), a.Mode
	a.mu.Unlock()

	s := fmt.Sprintf(" (%s %s", d.Author, d.VaultMode)
	if m != "" {
		s += " " + string(m)
	}
	if a.api.Unlocked() {
		s += " unlocked"
	}
	if staged > 0 {
		s += fmt.Sprintf(" +%d", staged)
	}
	return s + ")"
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.Mode != mode
	a.Mode = mode
	a.mu.Unlock()
	if changed {
		a.logger.Info(context.Background(), "connectivity changed", "mode", mode)
	}
}

func (a *App) checkOnline(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := a.api.Ping(ctx); err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}

// StartOnlineStatusWatcher pings the server every interval until ctx ends.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) stageFromInbox(path string, kind journal.MediaKind) {
	a.mu.Lock()
	a.staging = a.staging.Add(path, kind)
	n := a.staging.Len()
	a.mu.Unlock()
	printlnFn(fmt.Sprintf("inbox: staged %s (%s), %d item(s) waiting", filepath.Base(path), kind, n))
}

func (a *App) logError(ctx context.Context, cmd string, err error) {
	a.logger.Error(ctx, "command failed", "command", cmd, "error", err)
}

func (a *App) snapshot() (draft.Draft, draft.Staging) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.draft, a.staging
}

func (a *App) mode() journal.VaultMode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.draft.VaultMode
}
