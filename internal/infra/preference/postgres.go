package preference

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"voucher-console/internal/pkg/errs"
	"voucher-console/internal/usecase/shared"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	notifyChannel = "console_preferences"

	schemaSQL = `CREATE TABLE IF NOT EXISTS console_preferences (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`
	selectSQL = `SELECT value FROM console_preferences WHERE key = $1`
	upsertSQL = `INSERT INTO console_preferences (key, value, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
	notifySQL   = `SELECT pg_notify($1, $2)`
	listenSQL   = `LISTEN ` + notifyChannel
	unlistenSQL = `UNLISTEN *`

	listenRetryDelay = time.Second
)

// PostgresStore shares preferences between every console process using the same database.
// Writes are followed by a NOTIFY carrying the key; each process LISTENs and re-reads the key,
// so subscribers in all processes (including the writer) see the change.
type PostgresStore struct {
	pool   *pgxpool.Pool
	hub    *hub
	logger *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

var _ shared.PreferenceStore = (*PostgresStore)(nil)

func NewPostgresStore(pool *pgxpool.Pool, logger *slog.Logger) *PostgresStore {
	return &PostgresStore{
		pool:   pool,
		hub:    newHub(),
		logger: logger,
	}
}

func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return errs.Mark(errs.Wrap(err, "create console_preferences"), errs.ErrPreferenceStoreFailed)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.pool.QueryRow(ctx, selectSQL, key).Scan(&value)
	if errs.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errs.Mark(errs.Wrapf(err, "get preference %q", key), errs.ErrPreferenceStoreFailed)
	}
	return value, true, nil
}

// Set upserts the value and notifies in the same transaction; the notification is only
// delivered once the write is visible.
func (s *PostgresStore) Set(ctx context.Context, key, value string) error {
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, upsertSQL, key, value); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, notifySQL, notifyChannel, key)
		return err
	})
	if err != nil {
		return errs.Mark(errs.Wrapf(err, "set preference %q", key), errs.ErrPreferenceStoreFailed)
	}
	return nil
}

func (s *PostgresStore) Subscribe(key string) (<-chan string, func()) {
	return s.hub.subscribe(key)
}

// Start creates the table and begins listening for changes until Stop.
func (s *PostgresStore) Start(ctx context.Context) error {
	if err := s.EnsureSchema(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return nil
	}
	listenCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	go s.listenLoop(listenCtx)
	return nil
}

func (s *PostgresStore) Stop(ctx context.Context) error {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel = nil
	s.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}
	s.hub.closeAll()
	return nil
}

func (s *PostgresStore) listenLoop(ctx context.Context) {
	defer close(s.done)

	for {
		err := s.listen(ctx)
		if ctx.Err() != nil {
			return
		}
		s.logger.Warn("preference listener stopped, reconnecting", "error", err, "retry_in", listenRetryDelay)

		select {
		case <-ctx.Done():
			return
		case <-time.After(listenRetryDelay):
		}
	}
}

func (s *PostgresStore) listen(ctx context.Context) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer func() {
		// pooled connections must not keep receiving notifications
		_, _ = conn.Exec(context.Background(), unlistenSQL)
		conn.Release()
	}()

	if _, err = conn.Exec(ctx, listenSQL); err != nil {
		return err
	}
	s.logger.Info("listening for preference changes", "channel", notifyChannel)

	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return err
		}
		s.refresh(ctx, n.Payload)
	}
}

func (s *PostgresStore) refresh(ctx context.Context, key string) {
	value, ok, err := s.Get(ctx, key)
	if err != nil {
		s.logger.Warn("failed to re-read preference", "key", key, "error", err)
		return
	}
	if ok {
		s.hub.publish(key, value)
	}
}
