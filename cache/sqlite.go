package cache

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const schema = `
CREATE TABLE IF NOT EXISTS transcripts (
    id TEXT PRIMARY KEY,
    text TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_transcripts_created_at ON transcripts(created_at);
`

const (
	getQuery    = `SELECT text, created_at FROM transcripts WHERE id = ?`
	upsertQuery = `INSERT INTO transcripts (id, text, created_at) VALUES (?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET text = excluded.text, created_at = excluded.created_at`
	deleteQuery = `DELETE FROM transcripts WHERE id = ?`
	purgeQuery  = `DELETE FROM transcripts WHERE created_at <= ?`
)

type SQLiteStore struct {
	db   *sql.DB
	opts Options
}

func NewSQLiteStore(dbPath string, opts Options) (*SQLiteStore, error) {
	logrus.WithField("path", dbPath).Info("Initializing transcript cache database")

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, errors.Wrap(err, "error creating directory for database")
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "error opening database")
	}

	// A single connection keeps the single-writer assumption honest.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := configurePragmas(db); err != nil {
		db.Close()
		return nil, err
	}

	if err := execSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db, opts: opts.withDefaults()}, nil
}

func configurePragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return errors.Wrapf(err, "failed to set pragma: %s", pragma)
		}
	}
	return nil
}

func execSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return errors.Wrap(err, "failed to begin schema transaction")
	}
	defer tx.Rollback()

	for _, stmt := range strings.Split(schema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := tx.Exec(stmt); err != nil {
			return errors.Wrapf(err, "failed to execute schema statement: %s", stmt)
		}
	}

	return errors.Wrap(tx.Commit(), "failed to commit schema transaction")
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (string, bool, error) {
	var (
		text      string
		createdAt int64
	)
	err := s.db.QueryRowContext(ctx, getQuery, id).Scan(&text, &createdAt)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrap(err, "error querying transcript cache")
	}

	if s.opts.expired(time.Unix(createdAt, 0)) {
		return "", false, nil
	}
	return text, true, nil
}

func (s *SQLiteStore) Put(ctx context.Context, id, text string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, upsertQuery, id, text, s.opts.Now().Unix())
		return errors.Wrap(err, "error executing upsert")
	})
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, deleteQuery, id)
		return errors.Wrap(err, "error executing delete")
	})
}

// Purge removes rows that Get would already treat as expired and reports
// how many were deleted.
func (s *SQLiteStore) Purge(ctx context.Context) (int64, error) {
	cutoff := s.opts.Now().Add(-s.opts.TTL).Unix()
	res, err := s.db.ExecContext(ctx, purgeQuery, cutoff)
	if err != nil {
		return 0, errors.Wrap(err, "error purging expired transcripts")
	}
	return res.RowsAffected()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "error beginning transaction")
	}

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return errors.Wrap(tx.Commit(), "error committing transaction")
}
