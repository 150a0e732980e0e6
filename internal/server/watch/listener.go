package watch

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/recoveryvault/internal/logging"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Channel is the NOTIFY channel raised by the journal_entries trigger.
const Channel = "journal_changes"

// notifyConn is the subset of *pgx.Conn the listener needs.
type notifyConn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	WaitForNotification(ctx context.Context) (*pgconn.Notification, error)
	Close(ctx context.Context) error
}

// connect is a seam for tests.
var connect = func(ctx context.Context, dsn string) (notifyConn, error) {
	return pgx.Connect(ctx, dsn)
}

// Listener holds a dedicated connection LISTENing on Channel and publishes
// each notification to a Hub. It reconnects with backoff until ctx ends.
type Listener struct {
	dsn        string
	hub        *Hub
	logger     logging.Logger
	minBackoff time.Duration
	maxBackoff time.Duration
}

func NewListener(dsn string, hub *Hub, logger logging.Logger) *Listener {
	return &Listener{
		dsn:        dsn,
		hub:        hub,
		logger:     logger.With("module", "watch"),
		minBackoff: 500 * time.Millisecond,
		maxBackoff: 30 * time.Second,
	}
}

// Run blocks until ctx is cancelled.
func (l *Listener) Run(ctx context.Context) error {
	backoff := l.minBackoff
	for {
		err := l.listen(ctx)
		if ctx.Err() != nil {
			return nil
		}

		l.logger.Warn(ctx, "listener disconnected", "error", err, "retry_in", backoff)
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > l.maxBackoff {
			backoff = l.maxBackoff
		}
	}
}

func (l *Listener) listen(ctx context.Context) error {
	conn, err := connect(ctx, l.dsn)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = conn.Close(closeCtx)
	}()

	if _, err := conn.Exec(ctx, "LISTEN "+Channel); err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	l.logger.Info(ctx, "listening", "channel", Channel)

	for {
		n, err := conn.WaitForNotification(ctx)
		if err != nil {
			return err
		}
		c, err := ParsePayload(n.Payload)
		if err != nil {
			l.logger.Warn(ctx, "bad notification payload", "payload", n.Payload, "error", err)
			continue
		}
		l.hub.Publish(c)
	}
}

// ParsePayload decodes a trigger payload.
func ParsePayload(payload string) (Change, error) {
	var c Change
	if err := json.Unmarshal([]byte(payload), &c); err != nil {
		return Change{}, err
	}
	if c.ID == "" {
		return Change{}, fmt.Errorf("missing id")
	}
	return c, nil
}
