// Package grouping buckets journal entries by calendar day for display.
package grouping

import (
	"sync"

	"github.com/dmitrijs2005/recoveryvault/internal/journal"
)

// DayGroup is one calendar day (UTC, YYYY-MM-DD) and its entries in input order.
type DayGroup struct {
	Day   string
	Items []journal.Entry
}

// Group buckets entries by day. Groups appear in the order their day is
// first seen, so newest-first input yields newest-first groups.
func Group(entries []journal.Entry) []DayGroup {
	groups := make([]DayGroup, 0)
	index := make(map[string]int)

	for _, e := range entries {
		day := e.Day()
		i, ok := index[day]
		if !ok {
			i = len(groups)
			index[day] = i
			groups = append(groups, DayGroup{Day: day})
		}
		groups[i].Items = append(groups[i].Items, e)
	}

	return groups
}

// Authors returns the distinct authors of the group in first-seen order.
func (g DayGroup) Authors() []string {
	seen := make(map[string]struct{}, len(g.Items))
	out := make([]string, 0, len(g.Items))
	for _, e := range g.Items {
		if _, ok := seen[e.Author]; ok {
			continue
		}
		seen[e.Author] = struct{}{}
		out = append(out, e.Author)
	}
	return out
}

// Presenter keeps grouped entries together with per-day expansion state.
// Expansion survives SetEntries so a refresh does not collapse open days.
type Presenter struct {
	mu       sync.RWMutex
	groups   []DayGroup
	byDay    map[string]int
	expanded map[string]bool
}

func NewPresenter() *Presenter {
	return &Presenter{
		byDay:    make(map[string]int),
		expanded: make(map[string]bool),
	}
}

// SetEntries regroups the presenter from a fresh fetch.
func (p *Presenter) SetEntries(entries []journal.Entry) {
	groups := Group(entries)
	byDay := make(map[string]int, len(groups))
	for i, g := range groups {
		byDay[g.Day] = i
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.groups = groups
	p.byDay = byDay
}

// Groups returns the current groups.
func (p *Presenter) Groups() []DayGroup {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]DayGroup, len(p.groups))
	copy(out, p.groups)
	return out
}

// ToggleExpanded flips the expansion flag of day and returns the new state.
func (p *Presenter) ToggleExpanded(day string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.expanded[day] = !p.expanded[day]
	return p.expanded[day]
}

func (p *Presenter) IsExpanded(day string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.expanded[day]
}

// BadgeFor lists the distinct authors present on day. Unknown day → nil.
func (p *Presenter) BadgeFor(day string) []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	i, ok := p.byDay[day]
	if !ok {
		return nil
	}
	return p.groups[i].Authors()
}

// PainPoint is one bar of the report pain chart.
type PainPoint struct {
	Day   string
	Level int
}

// PainSeries returns pain levels oldest first. Input is expected newest first.
func PainSeries(entries []journal.Entry) []PainPoint {
	out := make([]PainPoint, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		out = append(out, PainPoint{Day: entries[i].Day(), Level: entries[i].Vitals.PainLevel})
	}
	return out
}
