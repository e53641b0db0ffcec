package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var _ Store = (*SQLiteStore)(nil)

const (
	sqliteSchema = `CREATE TABLE IF NOT EXISTS state (
	bucket  TEXT PRIMARY KEY,
	payload TEXT NOT NULL
)`
	sqliteUpsert = `INSERT INTO state(bucket, payload) VALUES(?, ?)
ON CONFLICT(bucket) DO UPDATE SET payload = excluded.payload`
	sqliteSelect = `SELECT payload FROM state WHERE bucket = ?`
)

// sqliteMaxWait is the time a Store waits for another connection to release the file.
const sqliteMaxWait = 5 * time.Second

// SQLiteStore persists the data of all names into one SQLite file.
// Every name is a row in the table state, holding the data as JSON.
// The database is opened and closed in every call.
// If the file is locked by another connection, Store retries with an exponential backoff.
type SQLiteStore struct {
	path string
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Path() string {
	return s.path
}

func (s *SQLiteStore) Store(name string, data any) (err error) {
	if data == nil {
		return nil
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStore, err)
	}

	if dir := filepath.Dir(s.path); dir != "" {
		if err = os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("%w: %v", ErrStore, err)
		}
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStore, err)
	}
	defer closeErr(&err, db.Close, ErrStore)

	ctx := context.Background()

	retry := backoff.NewExponentialBackOff()
	retry.InitialInterval = 10 * time.Millisecond
	retry.MaxElapsedTime = sqliteMaxWait

	err = backoff.Retry(func() error {
		if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
			return retryBusy(err)
		}

		_, err := db.ExecContext(ctx, sqliteUpsert, name, string(payload))

		return retryBusy(err)
	}, backoff.WithContext(retry, ctx))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStore, err)
	}

	return nil
}

// retryBusy marks all errors as permanent, except a database locked by another connection.
func retryBusy(err error) error {
	var sqliteErr *sqlite.Error
	if err == nil || (errors.As(err, &sqliteErr) && sqliteErr.Code()&0xff == sqlite3.SQLITE_BUSY) {
		return err
	}

	return backoff.Permanent(err)
}

func (s *SQLiteStore) Load(name string, data any) error {
	// sql.Open would create a missing file, so a cold start is detected before
	if _, err := os.Stat(s.path); err != nil {
		return fmt.Errorf("%w: %w", ErrLoad, err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLoad, err)
	}
	defer db.Close()

	var payload string

	// a read never writes the schema, a file without the table has no data yet
	err = db.QueryRowContext(context.Background(), sqliteSelect, name).Scan(&payload)
	if err != nil && strings.Contains(err.Error(), "no such table") {
		return fmt.Errorf("%w: table state: %w", ErrLoad, os.ErrNotExist)
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: bucket %s: %w", ErrLoad, name, os.ErrNotExist)
	}

	if err != nil {
		return fmt.Errorf("%w: %v", ErrLoad, err)
	}

	dec := json.NewDecoder(strings.NewReader(payload))
	dec.DisallowUnknownFields()

	if err = dec.Decode(data); err != nil {
		return fmt.Errorf("%w: %v", ErrLoad, err)
	}

	return nil
}
