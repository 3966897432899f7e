package disclosure

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

var sqliteSchema = []string{
	`create table if not exists pages (
	source text not null primary key,
	contents blob not null
)`,
	`create table if not exists refresh_times (
	source text not null primary key,
	refreshed_at text not null
)`,
}

// SQLStore keeps both the cached pages and the timestamp table in a sql
// database, either a local sqlite file or a remote libsql instance.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(ctx context.Context, db *sql.DB) (SQLStore, error) {
	for _, stmt := range sqliteSchema {
		_, err := db.ExecContext(ctx, stmt)
		if err != nil {
			return SQLStore{}, fmt.Errorf("create schema: %w", err)
		}
	}
	return SQLStore{db: db}, nil
}

func (s SQLStore) Read(ctx context.Context, id string) ([]byte, error) {
	var contents []byte
	err := s.db.QueryRowContext(
		ctx,
		"select contents from pages where source = ?",
		id,
	).Scan(&contents)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPageNotFound
	}
	if err != nil {
		return nil, err
	}
	return contents, nil
}

func (s SQLStore) Write(ctx context.Context, id string, contents []byte) error {
	_, err := s.db.ExecContext(
		ctx,
		`insert into pages(source, contents) values (?, ?)
		on conflict(source) do update set contents = excluded.contents`,
		id, contents,
	)
	return err
}

func (s SQLStore) Exists(ctx context.Context, id string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(
		ctx,
		"select count(*) from pages where source = ?",
		id,
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Load skips rows whose instant cannot be parsed, the same way the file
// table skips malformed lines.
func (s SQLStore) Load(ctx context.Context) (Timestamps, error) {
	rows, err := s.db.QueryContext(ctx, "select source, refreshed_at from refresh_times")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	times := Timestamps{}
	for rows.Next() {
		var source, refreshedAt string
		err := rows.Scan(&source, &refreshedAt)
		if err != nil {
			return nil, err
		}
		if source == "" {
			continue
		}
		t, err := parseTimestamp(refreshedAt)
		if err != nil {
			continue
		}
		times[source] = t
	}
	return times, rows.Err()
}

func (s SQLStore) Save(ctx context.Context, times Timestamps) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, "delete from refresh_times")
	if err != nil {
		return err
	}
	for source, t := range times {
		_, err = tx.ExecContext(
			ctx,
			"insert into refresh_times(source, refreshed_at) values (?, ?)",
			source, formatTimestamp(t),
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}
