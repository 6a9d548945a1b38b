package store

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"go.uber.org/zap"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// pragmas are applied to every pooled connection through the DSN.
var pragmas = []string{
	"foreign_keys(1)",
	"busy_timeout(5000)",
	"journal_mode(WAL)",
	"synchronous(NORMAL)",
}

// Store owns the SQLite connection and hands out repositories.
type Store struct {
	db     *sql.DB
	drv    *entsql.Driver
	seq    *sequenceCounter
	logger *zap.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store's logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// Open connects to the SQLite database at dsn and migrates the schema.
func Open(ctx context.Context, dsn string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite", withPragmas(dsn))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Store{
		db:     db,
		drv:    entsql.OpenDB(dialect.SQLite, db),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := migrate(ctx, s.drv); err != nil {
		db.Close()
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	if s.seq, err = newSequenceCounter(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	s.logger.Debug("store opened", zap.String("dsn", dsn))
	return s, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.drv.Close()
}

// Profiles returns the profile repository.
func (s *Store) Profiles() ProfileRepo {
	return &profileRepo{drv: s.drv, logger: s.logger}
}

// Runs returns the schedule run repository.
func (s *Store) Runs() RunRepo {
	return &runRepo{drv: s.drv, seq: s.seq}
}

// Events returns the event repository.
func (s *Store) Events() EventRepo {
	return &eventRepo{drv: s.drv, seq: s.seq}
}

// withPragmas appends modernc `_pragma` parameters to dsn so that every
// connection in the pool shares the same settings.
func withPragmas(dsn string) string {
	q := url.Values{}
	for _, p := range pragmas {
		q.Add("_pragma", p)
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + q.Encode()
}

// DefaultDBPath resolves the database file path in priority order:
// 1. STUDYPLAN_DB environment variable
// 2. $XDG_DATA_HOME/studyplan/studyplan.db
// 3. ~/.local/share/studyplan/studyplan.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("STUDYPLAN_DB"); p != "" {
		return p, ensureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "studyplan", "studyplan.db")
	return p, ensureDir(p)
}

// EnsureDir creates the parent directory of a database path.
func EnsureDir(path string) error { return ensureDir(path) }

func ensureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
