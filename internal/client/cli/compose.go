package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/recoveryvault/internal/draft"
	"github.com/dmitrijs2005/recoveryvault/internal/journal"
	"github.com/fatih/color"
	"github.com/gosuri/uitable"
)

// Set updates one draft field. "set notes" with no value reads a
// multi-line note.
func (a *App) Set(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage("set <" + strings.Join(draft.Fields, "|") + "> <value>")
	}
	field := strings.ToLower(args[0])
	value := strings.Join(args[1:], " ")

	if field == "notes" && value == "" {
		v, err := getMultiline(a.reader, "Notes", a.out)
		if err != nil {
			return err
		}
		value = v
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	d, err := a.draft.SetField(field, value)
	if err != nil {
		return err
	}
	a.draft = d
	return nil
}

// Show prints the current draft and its staged media.
func (a *App) Show(ctx context.Context, args []string) error {
	d, s := a.snapshot()
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)

	_, _ = bold.Fprintf(a.out, "Draft by %s (%s)\n", d.Author, d.VaultMode)

	tbl := uitable.New()
	tbl.MaxColWidth = 60
	tbl.Wrap = true
	tbl.AddRow("category", d.Category)
	tbl.AddRow("pain", d.Vitals.PainLevel)
	tbl.AddRow("mood", d.Vitals.Mood)
	if d.Vitals.MobilityStatus != "" {
		tbl.AddRow("mobility", d.Vitals.MobilityStatus)
	}
	tbl.AddRow("notes", d.Notes)
	if d.Travel.From != "" || d.Travel.To != "" {
		tbl.AddRow("travel", d.Travel.From+" → "+d.Travel.To)
	}
	if !d.Care.IsZero() {
		tbl.AddRow("care", fmt.Sprintf("%sh  %skm  $%s",
			d.Care.HoursTracked.StringFixed(2), d.Care.DistanceKm.String(), d.Care.Expenses.StringFixed(2)))
	}
	if d.ExternalLink != "" {
		tbl.AddRow("link", d.ExternalLink)
	}
	switch {
	case d.Backlog && d.BacklogDate.IsZero():
		tbl.AddRow("backlog", "on, no date")
	case d.Backlog:
		tbl.AddRow("backlog", d.BacklogDate.Format(time.DateOnly))
	}
	tbl.AddRow("media", s.Len())
	_, _ = fmt.Fprintln(a.out, tbl)

	if a.stopwatch.Running() {
		_, _ = faint.Fprintf(a.out, "timer running: %s\n", time.Duration(a.stopwatch.Seconds())*time.Second)
	}
	return nil
}

// Reset discards the draft and staged media. Author and mode stay.
func (a *App) Reset(ctx context.Context, args []string) error {
	a.mu.Lock()
	a.draft = a.draft.Reset()
	a.staging = a.staging.Clear()
	a.mu.Unlock()
	a.stopwatch.Reset()
	printlnFn("draft cleared")
	return nil
}

// Timer drives the attendant-care stopwatch. Stopping writes the tracked
// hours into the draft.
func (a *App) Timer(ctx context.Context, args []string) error {
	sub := "show"
	if len(args) > 0 {
		sub = strings.ToLower(args[0])
	}

	switch sub {
	case "start":
		a.stopwatch.Start()
	case "stop":
		a.stopwatch.Stop()
		a.mu.Lock()
		a.draft = a.draft.WithCareSeconds(a.stopwatch.Seconds())
		a.mu.Unlock()
	case "reset":
		a.stopwatch.Reset()
		a.mu.Lock()
		a.draft = a.draft.WithCareSeconds(0)
		a.mu.Unlock()
	case "show":
	default:
		return errUsage("timer start|stop|reset")
	}

	state := "stopped"
	if a.stopwatch.Running() {
		state = "running"
	}
	printlnFn(fmt.Sprintf("timer %s: %s", state, time.Duration(a.stopwatch.Seconds())*time.Second))
	return nil
}

// Backlog toggles backfilling. A date argument turns it on for that day.
func (a *App) Backlog(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage("backlog on|off|YYYY-MM-DD")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	switch strings.ToLower(args[0]) {
	case "on":
		a.draft = a.draft.ToggleBacklog(true)
	case "off":
		a.draft = a.draft.ToggleBacklog(false)
	default:
		day, err := time.ParseInLocation(time.DateOnly, args[0], time.Local)
		if err != nil {
			return errUsage("backlog on|off|YYYY-MM-DD")
		}
		// noon keeps the UTC day stable for most offsets
		day = day.Add(12 * time.Hour)
		a.draft = a.draft.ToggleBacklog(true).WithBacklogDate(day)
	}
	return nil
}

// Stage adds files by path or glob. The kind is sniffed unless given.
func (a *App) Stage(ctx context.Context, args []string) error {
	if len(args) == 0 || len(args) > 2 {
		return errUsage("stage <path|glob> [image|video|audio]")
	}

	var forced journal.MediaKind
	if len(args) == 2 {
		forced = journal.MediaKind(strings.ToLower(args[1]))
		if !forced.Valid() {
			return errUsage("stage <path|glob> [image|video|audio]")
		}
	}

	paths, err := draft.ExpandPattern(args[0])
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		printlnFn("no files match", args[0])
		return nil
	}

	added := 0
	for _, p := range paths {
		kind := forced
		if kind == "" {
			k, err := draft.DetectFileKind(p)
			if err != nil {
				printlnFn("skipped:", err)
				continue
			}
			kind = k
		}
		a.mu.Lock()
		a.staging = a.staging.Add(p, kind)
		a.mu.Unlock()
		added++
	}

	printlnFn(fmt.Sprintf("staged %d file(s)", added))
	return nil
}

// Unstage removes item n (1-based, as listed by staged).
func (a *App) Unstage(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage("unstage <n>")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return errUsage("unstage <n>")
	}
	a.mu.Lock()
	a.staging = a.staging.RemoveAt(n - 1)
	a.mu.Unlock()
	return nil
}

// Staged lists the media waiting for the next save.
func (a *App) Staged(ctx context.Context, args []string) error {
	_, s := a.snapshot()
	if s.Len() == 0 {
		_, _ = color.New(color.Faint, color.Italic).Fprintln(a.out, " nothing staged")
		return nil
	}

	tbl := uitable.New()
	tbl.AddRow("#", "KIND", "FILE")
	for i, item := range s.Items() {
		tbl.AddRow(i+1, item.Kind, filepath.Base(item.LocalRef))
	}
	_, _ = fmt.Fprintln(a.out, tbl)
	return nil
}

// Save commits the draft. On success the draft is reset and the committed
// media leave staging; anything staged meanwhile stays. On failure nothing
// changes so the user can retry.
func (a *App) Save(ctx context.Context, args []string) error {
	d, s := a.snapshot()

	e, err := a.committer.Commit(ctx, d, s)
	if err != nil {
		return err
	}

	a.mu.Lock()
	a.draft = a.draft.Reset()
	for i := 0; i < s.Len(); i++ {
		a.staging = a.staging.RemoveAt(0)
	}
	a.mu.Unlock()
	a.stopwatch.Reset()

	printlnFn(fmt.Sprintf("saved %s (%d media, %s)", e.ID, len(e.MediaList), e.LogType))
	return nil
}
