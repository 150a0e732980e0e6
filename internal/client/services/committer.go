// Package services holds the CLI's application services: committing a draft
// with its media and sharing exported reports.
package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/recoveryvault/internal/client/client"
	"github.com/dmitrijs2005/recoveryvault/internal/common"
	"github.com/dmitrijs2005/recoveryvault/internal/draft"
	"github.com/dmitrijs2005/recoveryvault/internal/journal"
	"github.com/dmitrijs2005/recoveryvault/internal/logging"
	"github.com/dmitrijs2005/recoveryvault/internal/netx"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrNothingToSave means the draft had no notes, no link and no media.
	// Nothing was sent.
	ErrNothingToSave = errors.New("nothing to save")
	// ErrCommitFailed wraps any upload or write failure. The draft and
	// staging are still valid and the commit can be retried. Drafts that
	// fail validation return a common.ErrValidation error instead.
	ErrCommitFailed = errors.New("could not save entry, check connection")
)

// test seams
var (
	now          = time.Now
	readMedia    = os.ReadFile
	putPresigned = netx.PutPresigned
)

// Uploader is the part of the server API the committer needs.
type Uploader interface {
	PresignUpload(ctx context.Context, target string) (*client.Upload, error)
	CreateEntry(ctx context.Context, e journal.Entry) error
}

type Committer struct {
	api      Uploader
	workers  int
	logger   logging.Logger
	progress io.Writer
}

// NewCommitter uploads with at most workers parallel transfers. progress
// receives an upload bar; nil disables it.
func NewCommitter(api Uploader, workers int, logger logging.Logger, progress io.Writer) *Committer {
	if workers < 1 {
		workers = 1
	}
	return &Committer{api: api, workers: workers, logger: logger.With("module", "committer"), progress: progress}
}

// Commit uploads the staged media, then writes the entry once. On success
// the caller resets the draft and clears staging; on failure both are left
// as they were.
func (c *Committer) Commit(ctx context.Context, d draft.Draft, s draft.Staging) (journal.Entry, error) {
	if d.IsEmpty() && s.Len() == 0 {
		return journal.Entry{}, ErrNothingToSave
	}
	// Everything except the media is known before uploading.
	head, err := d.Entry(now(), nil)
	if err != nil {
		return journal.Entry{}, err
	}
	if err := journal.Validate(head); err != nil {
		return journal.Entry{}, err
	}

	media, err := c.upload(ctx, s.Items())
	if err != nil {
		return journal.Entry{}, fmt.Errorf("%w: %w", ErrCommitFailed, err)
	}

	e, err := d.Entry(now(), media)
	if err != nil {
		return journal.Entry{}, err
	}

	if err := c.api.CreateEntry(ctx, e); err != nil {
		c.logOrphans(ctx, media)
		return journal.Entry{}, fmt.Errorf("%w: %w", ErrCommitFailed, err)
	}

	c.logger.Info(ctx, "entry committed", "id", e.ID, "media", len(media), "log_type", e.LogType)
	return e, nil
}

// upload transfers items in parallel. The result keeps staging order.
func (c *Committer) upload(ctx context.Context, items []draft.Staged) ([]journal.Media, error) {
	results := make([]journal.Media, len(items))
	if len(items) == 0 {
		return results, nil
	}

	var bar *progressbar.ProgressBar
	if c.progress != nil {
		bar = progressbar.NewOptions(len(items),
			progressbar.OptionSetWriter(c.progress),
			progressbar.OptionSetDescription("Uploading media"),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(40),
			progressbar.OptionClearOnFinish(),
		)
	}

	var (
		mu   sync.Mutex
		done []journal.Media
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)

	for i, item := range items {
		g.Go(func() error {
			m, err := c.uploadOne(gctx, item)
			if err != nil {
				return fmt.Errorf("media %d (%s): %w", i+1, item.LocalRef, err)
			}
			results[i] = m

			mu.Lock()
			done = append(done, m)
			mu.Unlock()
			if bar != nil {
				_ = bar.Add(1)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		c.logOrphans(ctx, done)
		return nil, err
	}
	if bar != nil {
		_ = bar.Finish()
	}
	return results, nil
}

func (c *Committer) uploadOne(ctx context.Context, item draft.Staged) (journal.Media, error) {
	data, err := readMedia(item.LocalRef)
	if err != nil {
		return journal.Media{}, err
	}

	kind := item.Kind
	if !kind.Valid() {
		k, ok := draft.DetectKind(data)
		if !ok {
			return journal.Media{}, fmt.Errorf("%w: unsupported media type", common.ErrValidation)
		}
		kind = k
	}

	up, err := c.api.PresignUpload(ctx, string(kind))
	if err != nil {
		return journal.Media{}, fmt.Errorf("presign: %w", err)
	}

	if err := putPresigned(ctx, up.PutURL, up.ContentType, bytes.NewReader(data), int64(len(data))); err != nil {
		return journal.Media{}, err
	}

	return journal.Media{URL: up.DurableURL, Kind: kind, Key: up.Key}, nil
}

// logOrphans records blobs that were uploaded for a commit that failed.
// They are not deleted.
func (c *Committer) logOrphans(ctx context.Context, media []journal.Media) {
	for _, m := range media {
		if m.Key == "" {
			continue
		}
		c.logger.Warn(ctx, "orphaned upload", "key", m.Key, "url", m.URL)
	}
}
