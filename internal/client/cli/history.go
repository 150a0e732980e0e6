package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/recoveryvault/internal/client/repositories/preferences"
	"github.com/dmitrijs2005/recoveryvault/internal/journal"
	"github.com/dmitrijs2005/recoveryvault/internal/report"
	"github.com/dmitrijs2005/recoveryvault/internal/vaultrpc"
	"github.com/fatih/color"
	"github.com/gosuri/uitable"
)

// notifyInterrupt is a test seam for signal.NotifyContext.
var notifyInterrupt = func(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt)
}

func (a *App) refresh(ctx context.Context) error {
	entries, err := a.api.ListEntries(ctx, a.mode())
	if err != nil {
		return err
	}
	a.mu.Lock()
	a.entries = entries
	a.mu.Unlock()
	a.presenter.SetEntries(entries)
	return nil
}

// History fetches the journal for the current mode and prints it by day.
func (a *App) History(ctx context.Context, args []string) error {
	if err := a.refresh(ctx); err != nil {
		return err
	}
	a.render()
	return nil
}

// Expand toggles a day's detail view, or every day with "all".
func (a *App) Expand(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage("expand <YYYY-MM-DD|all>")
	}

	groups := a.presenter.Groups()
	if args[0] == "all" {
		for _, g := range groups {
			if !a.presenter.IsExpanded(g.Day) {
				a.presenter.ToggleExpanded(g.Day)
			}
		}
	} else {
		a.presenter.ToggleExpanded(args[0])
	}
	a.render()
	return nil
}

func (a *App) render() {
	groups := a.presenter.Groups()
	if len(groups) == 0 {
		_, _ = color.New(color.Faint, color.Italic).Fprintln(a.out, " no entries")
		return
	}

	title := color.New(color.Bold, color.Underline)
	faint := color.New(color.Faint)
	badge := color.New(color.FgCyan)

	for _, g := range groups {
		_, _ = title.Fprint(a.out, g.Day)
		noun := "entries"
		if len(g.Items) == 1 {
			noun = "entry"
		}
		_, _ = faint.Fprintf(a.out, " - %d %s ", len(g.Items), noun)
		_, _ = badge.Fprintln(a.out, "["+strings.Join(a.presenter.BadgeFor(g.Day), ", ")+"]")

		if !a.presenter.IsExpanded(g.Day) {
			continue
		}

		tbl := uitable.New()
		tbl.MaxColWidth = 50
		tbl.Wrap = true
		for _, e := range g.Items {
			tbl.AddRow(
				e.Timestamp.Local().Format("15:04"),
				e.Author,
				e.Category,
				fmt.Sprintf("pain %d", e.Vitals.PainLevel),
				e.Vitals.Mood,
				e.Notes,
				mediaSummary(e),
				e.ID,
			)
		}
		_, _ = fmt.Fprintln(a.out, tbl)
		_, _ = fmt.Fprintln(a.out)
	}
}

func mediaSummary(e journal.Entry) string {
	parts := make([]string, 0, 2)
	if n := len(e.MediaList); n > 0 {
		parts = append(parts, fmt.Sprintf("%d media", n))
	}
	if e.LogType == journal.LogBacklog {
		parts = append(parts, "backlog")
	}
	return strings.Join(parts, ", ")
}

// Follow prints the journal on every change until interrupted. Each change
// triggers a full re-fetch.
func (a *App) Follow(ctx context.Context, args []string) error {
	ctx, stop := notifyInterrupt(ctx)
	defer stop()

	if err := a.History(ctx, nil); err != nil {
		return err
	}
	printlnFn("following changes, Ctrl-C to stop")

	var fetchErr error
	err := a.api.Watch(ctx, a.mode(), func(ev vaultrpc.WatchEvent) {
		a.logger.Info(ctx, "journal changed", "id", ev.ID, "op", ev.Op)
		if err := a.History(ctx, nil); err != nil && ctx.Err() == nil {
			fetchErr = err
			stop()
		}
	})
	if err != nil {
		return err
	}
	return fetchErr
}

// Media prints a viewable link for an attachment of a fetched entry.
func (a *App) Media(ctx context.Context, args []string) error {
	if len(args) == 0 || len(args) > 2 {
		return errUsage("media <entry-id> [n]")
	}

	e, ok := a.findEntry(args[0])
	if !ok {
		return fmt.Errorf("entry %s not loaded, run history first", args[0])
	}

	idx := []int{}
	if len(args) == 2 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 1 || n > len(e.MediaList) {
			return errUsage(fmt.Sprintf("media %s [1-%d]", e.ID, len(e.MediaList)))
		}
		idx = append(idx, n-1)
	} else {
		for i := range e.MediaList {
			idx = append(idx, i)
		}
	}

	for _, i := range idx {
		m := e.MediaList[i]
		link := m.URL
		if m.Key != "" {
			u, err := a.api.PresignGet(ctx, m.Key)
			if err != nil {
				return err
			}
			link = u
		}
		printlnFn(fmt.Sprintf("%d %s %s", i+1, m.Kind, link))
	}
	return nil
}

func (a *App) findEntry(id string) (journal.Entry, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, e := range a.entries {
		if e.ID == id {
			return e, true
		}
	}
	return journal.Entry{}, false
}

// Export writes the HTML report for the current mode and remembers its path.
func (a *App) Export(ctx context.Context, args []string) error {
	if err := a.refresh(ctx); err != nil {
		return err
	}

	a.mu.Lock()
	entries, author, mode := a.entries, a.draft.Author, a.draft.VaultMode
	a.mu.Unlock()

	h := report.Header{Mode: mode, Generated: now()}
	h.Profile.PatientName = author
	if a.api.Unlocked() {
		p, err := a.api.GetProfile(ctx)
		if err != nil {
			a.logger.Warn(ctx, "profile not included in report", "error", err)
		} else if p.PatientName != "" {
			h.Profile = *p
		}
	}

	path, err := report.Export(a.config.ExportDir, h, entries)
	if err != nil {
		return err
	}
	if err := a.prefs.Set(ctx, preferences.KeyLastExport, path); err != nil {
		a.logger.Warn(ctx, "could not remember export", "error", err)
	}

	printlnFn(fmt.Sprintf("exported %d entries to %s", len(entries), path))
	return nil
}

var errNoExport = errors.New("nothing exported yet, run export first")

// Share uploads a report (the last export by default) and prints its URL.
func (a *App) Share(ctx context.Context, args []string) error {
	path := ""
	if len(args) > 0 {
		path = args[0]
	} else {
		p, ok, err := a.prefs.Get(ctx, preferences.KeyLastExport)
		if err != nil {
			return err
		}
		if !ok {
			return errNoExport
		}
		path = p
	}

	url, err := a.sharer.Share(ctx, path)
	if err != nil {
		return err
	}
	printlnFn("shared:", url)
	return nil
}

// Claim records that the current author took a shared task.
func (a *App) Claim(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errUsage("claim <id> <in-progress|done> [title]")
	}

	status := journal.ClaimInProgress
	switch strings.ToLower(args[1]) {
	case "done":
		status = journal.ClaimDone
	case "in-progress", "progress", "started":
	default:
		return errUsage("claim <id> <in-progress|done> [title]")
	}

	a.mu.Lock()
	author := a.draft.Author
	a.mu.Unlock()

	c, err := a.api.ClaimTask(ctx, args[0], strings.Join(args[2:], " "), status, author)
	if err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("%s: %s by %s", c.ID, c.Status, c.ClaimedBy))
	return nil
}

// Claims lists the task claims.
func (a *App) Claims(ctx context.Context, args []string) error {
	claims, err := a.api.ListClaims(ctx)
	if err != nil {
		return err
	}
	if len(claims) == 0 {
		_, _ = color.New(color.Faint, color.Italic).Fprintln(a.out, " no claims")
		return nil
	}

	tbl := uitable.New()
	tbl.AddRow("TASK", "STATUS", "BY", "UPDATED")
	for _, c := range claims {
		tbl.AddRow(firstNonEmpty(c.Title, c.ID), c.Status, c.ClaimedBy, c.LastUpdated.Local().Format(time.DateTime))
	}
	_, _ = fmt.Fprintln(a.out, tbl)
	return nil
}

func firstNonEmpty(v ...string) string {
	for _, s := range v {
		if s != "" {
			return s
		}
	}
	return ""
}
