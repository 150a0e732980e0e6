package grouping

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/dmitrijs2005/recoveryvault/internal/journal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entryAt(id, author, ts string) journal.Entry {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		panic(err)
	}
	return journal.Entry{ID: id, Author: author, Timestamp: t, Vitals: journal.Vitals{PainLevel: 5}}
}

func TestGroup_TwoDays(t *testing.T) {
	older := entryAt("log_1", "Patient", "2024-01-05T10:00:00Z")
	newer := entryAt("log_2", "Partner", "2024-01-06T09:00:00Z")

	groups := Group([]journal.Entry{newer, older})

	require.Len(t, groups, 2)
	assert.Equal(t, "2024-01-06", groups[0].Day)
	assert.Equal(t, "2024-01-05", groups[1].Day)
	assert.Equal(t, []journal.Entry{newer}, groups[0].Items)
	assert.Equal(t, []journal.Entry{older}, groups[1].Items)
}

func TestGroup_Empty(t *testing.T) {
	assert.Empty(t, Group(nil))
	assert.NotNil(t, Group(nil))
}

func TestGroup_KeepsInputOrderWithoutResorting(t *testing.T) {
	a := entryAt("a", "Patient", "2024-01-05T10:00:00Z")
	b := entryAt("b", "Patient", "2024-01-07T10:00:00Z")
	c := entryAt("c", "Patient", "2024-01-05T08:00:00Z")

	groups := Group([]journal.Entry{a, b, c})
	require.Len(t, groups, 2)
	assert.Equal(t, "2024-01-05", groups[0].Day)
	assert.Equal(t, []journal.Entry{a, c}, groups[0].Items)
	assert.Equal(t, "2024-01-07", groups[1].Day)
}

func TestGroup_UsesUTCDay(t *testing.T) {
	local := journal.Entry{ID: "x", Timestamp: time.Date(2024, 1, 5, 22, 0, 0, 0, time.FixedZone("PST", -8*3600))}
	groups := Group([]journal.Entry{local})
	require.Len(t, groups, 1)
	assert.Equal(t, "2024-01-06", groups[0].Day)
}

func TestGroup_DescendingInputProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for round := 0; round < 50; round++ {
		n := 1 + rng.Intn(40)
		entries := make([]journal.Entry, n)
		ts := base.Add(time.Duration(rng.Intn(1000)) * time.Hour)
		for i := range entries {
			entries[i] = journal.Entry{ID: fmt.Sprintf("e%d", i), Timestamp: ts}
			ts = ts.Add(-time.Duration(1+rng.Intn(20)) * time.Hour)
		}

		groups := Group(entries)

		seen := 0
		for gi, g := range groups {
			if gi > 0 {
				assert.Greater(t, groups[gi-1].Day, g.Day, "groups descend")
			}
			for _, e := range g.Items {
				assert.Equal(t, g.Day, e.Timestamp.UTC().Format(time.DateOnly))
				seen++
			}
		}
		assert.Equal(t, n, seen, "every entry lands in exactly one bucket")
	}
}

func TestPresenter(t *testing.T) {
	p := NewPresenter()
	p.SetEntries([]journal.Entry{
		entryAt("3", "Partner", "2024-01-06T18:00:00Z"),
		entryAt("2", "Patient", "2024-01-06T09:00:00Z"),
		entryAt("1", "Partner", "2024-01-06T08:00:00Z"),
		entryAt("0", "Friend", "2024-01-05T10:00:00Z"),
	})

	require.Len(t, p.Groups(), 2)
	assert.Equal(t, []string{"Partner", "Patient"}, p.BadgeFor("2024-01-06"))
	assert.Equal(t, []string{"Friend"}, p.BadgeFor("2024-01-05"))
	assert.Nil(t, p.BadgeFor("1999-01-01"))

	assert.False(t, p.IsExpanded("2024-01-06"))
	assert.True(t, p.ToggleExpanded("2024-01-06"))
	assert.True(t, p.IsExpanded("2024-01-06"))

	p.SetEntries(nil)
	assert.True(t, p.IsExpanded("2024-01-06"), "expansion survives refresh")
	assert.False(t, p.ToggleExpanded("2024-01-06"))
	assert.Empty(t, p.Groups())
}

func TestPainSeries(t *testing.T) {
	newer := entryAt("2", "Patient", "2024-01-06T09:00:00Z")
	newer.Vitals.PainLevel = 3
	older := entryAt("1", "Patient", "2024-01-05T09:00:00Z")
	older.Vitals.PainLevel = 8

	assert.Equal(t, []PainPoint{{Day: "2024-01-05", Level: 8}, {Day: "2024-01-06", Level: 3}},
		PainSeries([]journal.Entry{newer, older}))
	assert.Empty(t, PainSeries(nil))
}
