package db

import (
	"context"
	"database/sql"
	"fmt"
	"iter"
	"log/slog"
	"time"

	"github.com/dasdy/calcskin/logging"
	"github.com/dasdy/calcskin/model"
	_ "github.com/mattn/go-sqlite3"
)

type SQLiteStorage struct {
	db  *sql.DB
	ctx context.Context
}

func InitDBStorage(conn *sql.DB) error {
	sqlStmt := `
	create table if not exists keystrokes(code int, region int, source text, pressed bool, ts datetime);`

	_, err := conn.Exec(sqlStmt)
	if err != nil {
		return fmt.Errorf("could not create keystrokes table: %w", err)
	}

	sqlStmt = `create index if not exists keystrokes_tsix on keystrokes (ts ASC);`

	_, err = conn.Exec(sqlStmt)
	if err != nil {
		return fmt.Errorf("could not create keystrokes index: %w", err)
	}

	return nil
}

// NewStorageFromPath opens (and creates if needed) a journal file. ":memory:" gives a
// journal that lives as long as the storage.
func NewStorageFromPath(path string) (*SQLiteStorage, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("could not open %s as sqlite file: %w", path, err)
	}

	// An in-memory database exists per connection.
	conn.SetMaxOpenConns(1)

	return NewStorageFromConnection(conn)
}

func NewStorageFromConnection(conn *sql.DB) (*SQLiteStorage, error) {
	if err := InitDBStorage(conn); err != nil {
		return nil, err
	}

	return &SQLiteStorage{db: conn, ctx: logging.PackageCtx("db")}, nil
}

func (s *SQLiteStorage) Store(event *model.KeyEvent) error {
	_, err := s.db.Exec(`insert into keystrokes(code, region, source, pressed, ts)
	    values(?, ?, ?, ?, datetime('now', 'subsec'))`,
		event.Code, event.Region, string(event.Source), event.Pressed)
	if err != nil {
		return fmt.Errorf("could not store keystroke: %w", err)
	}

	return nil
}

func (s *SQLiteStorage) storeWithTimestamp(tx *sql.Tx, event model.KeyEventWithTimestamp) error {
	_, err := tx.Exec(`insert into keystrokes(code, region, source, pressed, ts)
	    values(?, ?, ?, ?, ?)`,
		event.Code, event.Region, string(event.Source), event.Pressed, event.Timestamp)
	if err != nil {
		return fmt.Errorf("could not store keystroke: %w", err)
	}

	return nil
}

// GatherAll counts completed keystrokes (releases) per code and region.
func (s *SQLiteStorage) GatherAll() ([]model.KeyUsage, error) {
	rows, err := s.db.Query(
		`select code, region, count(*) as cnt
        from keystrokes
        where pressed = false
        group by code, region
        order by code, region`)
	if err != nil {
		return nil, fmt.Errorf("could not query key usage: %w", err)
	}

	defer rows.Close()

	result := make([]model.KeyUsage, 0)

	for rows.Next() {
		var code, region, count int

		err = rows.Scan(&code, &region, &count)
		if err != nil {
			return nil, fmt.Errorf("could not read key usage: %w", err)
		}

		result = append(result, model.KeyUsage{Code: code, Region: region, Count: count})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("could not read key usage: %w", err)
	}

	return result, nil
}

// AllIterator yields every journal entry in the order it was recorded. Rows that cannot be
// read are logged and skipped.
func (s *SQLiteStorage) AllIterator() (iter.Seq[model.KeyEventWithTimestamp], error) {
	rows, err := s.db.Query(
		`select code, region, source, pressed, ts
        from keystrokes
        order by ts, rowid`)
	if err != nil {
		return nil, fmt.Errorf("could not query keystrokes: %w", err)
	}

	return func(yield func(model.KeyEventWithTimestamp) bool) {
		defer rows.Close()

		for rows.Next() {
			var (
				event  model.KeyEventWithTimestamp
				source string
				ts     time.Time
			)

			err := rows.Scan(&event.Code, &event.Region, &source, &event.Pressed, &ts)
			if err != nil {
				slog.ErrorContext(s.ctx, "Could not read keystroke", "error", err)

				continue
			}

			event.Source = model.EventSource(source)
			event.Timestamp = ts

			if !yield(event) {
				return
			}
		}

		if err := rows.Err(); err != nil {
			slog.ErrorContext(s.ctx, "Keystroke scan ended early", "error", err)
		}
	}, nil
}

func (s *SQLiteStorage) Close() {
	if err := s.db.Close(); err != nil {
		slog.ErrorContext(s.ctx, "Could not close journal", "error", err)
	}
}

// Merge copies every entry of the inputs into output, keeping the original timestamps.
func Merge(inputs []*SQLiteStorage, output *SQLiteStorage) error {
	for i, input := range inputs {
		items, err := input.AllIterator()
		if err != nil {
			return fmt.Errorf("could not read input %d: %w", i, err)
		}

		tx, err := output.db.Begin()
		if err != nil {
			return fmt.Errorf("could not start merge: %w", err)
		}

		count := 0

		for item := range items {
			if err := output.storeWithTimestamp(tx, item); err != nil {
				_ = tx.Rollback()

				return err
			}

			count++
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("could not commit merge: %w", err)
		}

		slog.InfoContext(output.ctx, "Merged journal", "input", i, "keystrokes", count)
	}

	return nil
}
