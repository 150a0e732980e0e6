package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/recoveryvault/internal/client/client"
	clientservices "github.com/dmitrijs2005/recoveryvault/internal/client/services"
	"github.com/dmitrijs2005/recoveryvault/internal/draft"
	"github.com/dmitrijs2005/recoveryvault/internal/journal"
	"github.com/dmitrijs2005/recoveryvault/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// journalUploader hands committed entries straight to a JournalService.
type journalUploader struct {
	s *JournalService
}

func (u journalUploader) PresignUpload(context.Context, string) (*client.Upload, error) {
	return nil, errors.New("no blob storage in this test")
}

func (u journalUploader) CreateEntry(ctx context.Context, e journal.Entry) error {
	return u.s.CreateEntry(ctx, &e)
}

func composeDraft(t *testing.T, fields ...string) draft.Draft {
	t.Helper()
	d := draft.New("Patient", journal.ModeSandbox)
	for i := 0; i+1 < len(fields); i += 2 {
		var err error
		d, err = d.SetField(fields[i], fields[i+1])
		require.NoError(t, err)
	}
	return d
}

// commit spaces commits apart because entry ids have millisecond resolution.
func commit(t *testing.T, c *clientservices.Committer, d draft.Draft) journal.Entry {
	t.Helper()
	time.Sleep(2 * time.Millisecond)
	e, err := c.Commit(context.Background(), d, draft.Staging{})
	require.NoError(t, err)
	return e
}

func TestCommitThenList_RoundTrip(t *testing.T) {
	s, _ := newJournal(t)
	ctx := context.Background()
	c := clientservices.NewCommitter(journalUploader{s: s}, 2, logging.Nop{}, nil)

	prior := validEntry("log_1", time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC), journal.ModeSandbox)
	require.NoError(t, s.CreateEntry(ctx, &prior))

	d := composeDraft(t, "notes", "knee pain", "pain", "7", "mood", "😐")
	saved := commit(t, c, d)

	got, err := s.ListEntries(ctx, "")
	require.NoError(t, err)
	require.Len(t, got, 2)

	var matches []journal.Entry
	for _, e := range got {
		if e.Notes == "knee pain" {
			matches = append(matches, e)
		}
	}
	require.Len(t, matches, 1)

	e := matches[0]
	assert.Equal(t, saved.ID, e.ID)
	assert.NotEqual(t, prior.ID, e.ID)
	assert.Regexp(t, `^log_\d+$`, e.ID)
	assert.Equal(t, "knee pain", e.Notes)
	assert.Equal(t, 7, e.Vitals.PainLevel)
	assert.Equal(t, "😐", e.Vitals.Mood)
	assert.Empty(t, e.MediaList)
	assert.Equal(t, journal.LogLive, e.LogType)
	assert.Equal(t, journal.ModeSandbox, e.VaultMode)
}

func TestCommitThenList_DistinctIDs(t *testing.T) {
	s, _ := newJournal(t)
	ctx := context.Background()
	c := clientservices.NewCommitter(journalUploader{s: s}, 2, logging.Nop{}, nil)

	for _, notes := range []string{"first", "second"} {
		commit(t, c, composeDraft(t, "notes", notes))
	}

	got, err := s.ListEntries(ctx, "")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.NotEqual(t, got[0].ID, got[1].ID)
}

func TestPurgeAll_LeavesNothingToList(t *testing.T) {
	s, _ := newJournal(t)
	ctx := context.Background()
	c := clientservices.NewCommitter(journalUploader{s: s}, 2, logging.Nop{}, nil)

	for _, notes := range []string{"day one", "day two", "day three"} {
		commit(t, c, composeDraft(t, "notes", notes))
	}
	commit(t, c, composeDraft(t, "notes", "x-ray", "mode", "Forensic"))

	n, err := s.PurgeAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	for _, mode := range []journal.VaultMode{"", journal.ModeSandbox, journal.ModeForensic} {
		got, err := s.ListEntries(ctx, mode)
		require.NoError(t, err)
		assert.Empty(t, got, "mode %q", mode)
	}
}
