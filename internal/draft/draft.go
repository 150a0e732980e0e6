// Package draft holds the in-progress entry and its staged media. Both are
// immutable values: every operation returns a new value and the caller
// replaces its copy.
package draft

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/recoveryvault/internal/journal"
	"github.com/shopspring/decimal"
)

var (
	ErrUnknownField       = errors.New("unknown field")
	ErrInvalidValue       = errors.New("invalid value")
	ErrBacklogDateMissing = errors.New("backlog mode is on but no date was chosen")
)

// Fields lists the names accepted by SetField.
var Fields = []string{
	"author", "notes", "category", "pain", "mood", "mobility",
	"from", "to", "distance", "expenses", "link", "mode",
}

var moodAliases = map[string]string{
	"great": "😄",
	"good":  "🙂",
	"okay":  "😐",
	"ok":    "😐",
	"bad":   "🙁",
	"awful": "😫",
}

// Draft is the entry being composed.
type Draft struct {
	Author       string
	Notes        string
	Category     string
	Vitals       journal.Vitals
	Care         journal.Care
	Travel       journal.Travel
	ExternalLink string
	VaultMode    journal.VaultMode

	Backlog     bool
	BacklogDate time.Time
}

// New returns an empty draft for author in mode.
func New(author string, mode journal.VaultMode) Draft {
	d := Draft{Author: author, VaultMode: mode}
	return d.Reset()
}

// SetField coerces value and stores it under name.
func (d Draft) SetField(name, value string) (Draft, error) {
	v := strings.TrimSpace(value)

	switch strings.ToLower(name) {
	case "author":
		d.Author = v
	case "notes":
		d.Notes = value
	case "category":
		c := strings.ToLower(v)
		if c == "" {
			c = journal.CategoryGeneral
		}
		if !slices.Contains(journal.Categories, c) {
			return d, fmt.Errorf("%w: category %q", ErrInvalidValue, v)
		}
		d.Category = c
	case "pain":
		n, err := strconv.Atoi(v)
		if err != nil {
			return d, fmt.Errorf("%w: pain %q", ErrInvalidValue, v)
		}
		d.Vitals.PainLevel = clampPain(n)
	case "mood":
		m, ok := parseMood(v)
		if !ok {
			return d, fmt.Errorf("%w: mood %q", ErrInvalidValue, v)
		}
		d.Vitals.Mood = m
	case "mobility":
		d.Vitals.MobilityStatus = v
	case "from":
		d.Travel.From = v
	case "to":
		d.Travel.To = v
	case "distance":
		dec, err := parseDecimal(v)
		if err != nil {
			return d, fmt.Errorf("%w: distance: %v", ErrInvalidValue, err)
		}
		d.Care.DistanceKm = dec
	case "expenses":
		dec, err := parseDecimal(v)
		if err != nil {
			return d, fmt.Errorf("%w: expenses: %v", ErrInvalidValue, err)
		}
		d.Care.Expenses = dec.Round(2)
	case "link":
		d.ExternalLink = v
	case "mode":
		m, ok := journal.ParseVaultMode(v)
		if !ok {
			return d, fmt.Errorf("%w: mode %q", ErrInvalidValue, v)
		}
		d.VaultMode = m
	default:
		return d, fmt.Errorf("%w: %q", ErrUnknownField, name)
	}

	return d, nil
}

// WithCareSeconds stores elapsed care time as hours rounded to 2 places.
func (d Draft) WithCareSeconds(sec int64) Draft {
	d.Care.HoursTracked = decimal.NewFromInt(sec).Div(decimal.NewFromInt(3600)).Round(2)
	return d
}

// ToggleBacklog switches backlog mode. Turning it off forgets the date.
func (d Draft) ToggleBacklog(on bool) Draft {
	d.Backlog = on
	if !on {
		d.BacklogDate = time.Time{}
	}
	return d
}

// WithBacklogDate sets the backdated timestamp and turns backlog mode on.
func (d Draft) WithBacklogDate(t time.Time) Draft {
	d.Backlog = true
	d.BacklogDate = t
	return d
}

// Reset returns the draft to defaults, keeping author and vault mode.
func (d Draft) Reset() Draft {
	return Draft{
		Author:    d.Author,
		VaultMode: d.VaultMode,
		Category:  journal.CategoryGeneral,
		Vitals: journal.Vitals{
			PainLevel: journal.DefaultPain,
			Mood:      journal.DefaultMood,
		},
		Care: journal.Care{
			HoursTracked: decimal.Zero,
			DistanceKm:   decimal.Zero,
			Expenses:     decimal.Zero,
		},
	}
}

// IsEmpty reports whether the draft alone carries nothing worth saving.
// Staged media is checked separately by the committer.
func (d Draft) IsEmpty() bool {
	return strings.TrimSpace(d.Notes) == "" && strings.TrimSpace(d.ExternalLink) == ""
}

// EffectiveTimestamp is the backlog date when backlog mode is on, else now.
func (d Draft) EffectiveTimestamp(now time.Time) (time.Time, error) {
	if !d.Backlog {
		return now, nil
	}
	if d.BacklogDate.IsZero() {
		return time.Time{}, ErrBacklogDateMissing
	}
	return d.BacklogDate, nil
}

// LogType derives the entry log type from the backlog flag.
func (d Draft) LogType() journal.LogType {
	if d.Backlog {
		return journal.LogBacklog
	}
	return journal.LogLive
}

// Entry builds the document for this draft. media must already hold
// durable URLs.
func (d Draft) Entry(now time.Time, media []journal.Media) (journal.Entry, error) {
	ts, err := d.EffectiveTimestamp(now)
	if err != nil {
		return journal.Entry{}, err
	}

	mode := d.VaultMode
	if mode == "" {
		mode = journal.ModeSandbox
	}
	category := d.Category
	if category == "" {
		category = journal.CategoryGeneral
	}

	e := journal.Entry{
		ID:                journal.NewID(now),
		Author:            d.Author,
		Timestamp:         ts.UTC(),
		Notes:             d.Notes,
		Category:          category,
		Vitals:            d.Vitals,
		Care:              d.Care,
		MediaList:         media,
		ExternalVideoLink: d.ExternalLink,
		LogType:           d.LogType(),
		VaultMode:         mode,
	}
	if e.MediaList == nil {
		e.MediaList = []journal.Media{}
	}
	if d.Travel.From != "" || d.Travel.To != "" {
		tr := d.Travel
		e.Travel = &tr
	}

	return e, nil
}

func clampPain(n int) int {
	if n < journal.PainMin {
		return journal.PainMin
	}
	if n > journal.PainMax {
		return journal.PainMax
	}
	return n
}

func parseMood(v string) (string, bool) {
	if slices.Contains(journal.Moods, v) {
		return v, true
	}
	if m, ok := moodAliases[strings.ToLower(v)]; ok {
		return m, true
	}
	if n, err := strconv.Atoi(v); err == nil && n >= 1 && n <= len(journal.Moods) {
		return journal.Moods[n-1], true
	}
	return "", false
}

func parseDecimal(v string) (decimal.Decimal, error) {
	if v == "" {
		return decimal.Zero, nil
	}
	dec, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, err
	}
	if dec.IsNegative() {
		return decimal.Zero, errors.New("must not be negative")
	}
	return dec, nil
}
