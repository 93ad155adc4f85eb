// Package store keeps the SQLite practice log.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/qwerty/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Fixed-width timestamps keep text ordering in SQL chronological.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// migrations are applied in order; PRAGMA user_version records how many ran.
var migrations = [][]string{
	{
		`CREATE TABLE IF NOT EXISTS practice_sessions (
			id INTEGER PRIMARY KEY,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			dict_id TEXT NOT NULL,
			chapter INTEGER NOT NULL,
			chapter_length INTEGER NOT NULL,
			read_only INTEGER NOT NULL,
			words_completed INTEGER NOT NULL,
			correct INTEGER NOT NULL,
			incorrect INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS practice_char_stats (
			session_id INTEGER NOT NULL,
			char TEXT NOT NULL,
			correct INTEGER NOT NULL,
			incorrect INTEGER NOT NULL,
			latency_sum_ms INTEGER NOT NULL,
			latency_count INTEGER NOT NULL,
			PRIMARY KEY (session_id, char)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_practice_sessions_ended_at ON practice_sessions(ended_at)`,
	},
	{
		`CREATE INDEX IF NOT EXISTS idx_practice_sessions_dict ON practice_sessions(dict_id, chapter_length, chapter)`,
	},
}

// Store is the practice log. Runs are keyed by dictionary and chapter so
// history can be sliced the same way practice is.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and brings its schema up to date.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	s := &Store{db: db}
	if err := s.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate practice log: %w", err)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	var version int
	if err := s.db.QueryRowContext(ctx, `PRAGMA user_version`).Scan(&version); err != nil {
		return err
	}
	for i := version; i < len(migrations); i++ {
		err := s.withTx(ctx, func(tx *sql.Tx) error {
			for _, stmt := range migrations[i] {
				if _, err := tx.ExecContext(ctx, stmt); err != nil {
					return err
				}
			}
			_, err := tx.ExecContext(ctx, fmt.Sprintf(`PRAGMA user_version = %d`, i+1))
			return err
		})
		if err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
	}
	return nil
}

func (s *Store) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// InsertSession records a finished run with its per-character tally.
func (s *Store) InsertSession(ctx context.Context, run model.PracticeStats, chars []model.CharStats) (int64, error) {
	var id int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO practice_sessions (started_at, ended_at, dict_id, chapter, chapter_length, read_only, words_completed, correct, incorrect, duration_ms)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			formatTime(run.StartedAt), formatTime(run.EndedAt),
			run.DictID, run.Chapter, run.ChapterLength, run.ReadOnly,
			run.WordsCompleted, run.Correct, run.Incorrect, run.DurationMs,
		)
		if err != nil {
			return err
		}
		if id, err = res.LastInsertId(); err != nil {
			return err
		}
		if len(chars) == 0 {
			return nil
		}
		values := make([]string, len(chars))
		args := make([]any, 0, len(chars)*6)
		for i, cs := range chars {
			values[i] = "(?, ?, ?, ?, ?, ?)"
			args = append(args, id, cs.Char, cs.Correct, cs.Incorrect, cs.LatencySumMs, cs.LatencyCount)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO practice_char_stats (session_id, char, correct, incorrect, latency_sum_ms, latency_count) VALUES `+
				strings.Join(values, ", "),
			args...)
		return err
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// ListSessions returns the runs matching filter, oldest first. filter.Last
// keeps only the most recent runs.
func (s *Store) ListSessions(ctx context.Context, filter model.HistoryFilter) ([]model.SessionAggregate, error) {
	where, args := historyWhere(filter)
	query := fmt.Sprintf(`SELECT id, ended_at, dict_id, chapter, chapter_length, read_only, words_completed, correct, incorrect, duration_ms
		FROM (
			SELECT * FROM practice_sessions WHERE %s ORDER BY ended_at DESC, id DESC LIMIT ?
		)
		ORDER BY ended_at ASC, id ASC`, where)
	rows, err := s.db.QueryContext(ctx, query, append(args, limit(filter.Last))...)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	var runs []model.SessionAggregate
	for rows.Next() {
		var run model.SessionAggregate
		var endedAt string
		if err := rows.Scan(&run.SessionID, &endedAt, &run.DictID, &run.Chapter, &run.ChapterLength, &run.ReadOnly,
			&run.WordsCompleted, &run.Correct, &run.Incorrect, &run.DurationMs); err != nil {
			return nil, err
		}
		if run.EndedAt, err = parseTime(endedAt); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// ListCharAggregates sums the character tallies of the newest lastRuns runs
// matching filter. lastRuns <= 0 covers every matching run.
func (s *Store) ListCharAggregates(ctx context.Context, filter model.HistoryFilter, lastRuns int) ([]model.CharAggregate, error) {
	where, args := historyWhere(filter)
	query := fmt.Sprintf(`WITH runs AS (
			SELECT id FROM practice_sessions WHERE %s ORDER BY ended_at DESC, id DESC LIMIT ?
		)
		SELECT cs.char, SUM(cs.correct), SUM(cs.incorrect), SUM(cs.latency_sum_ms), SUM(cs.latency_count)
		FROM practice_char_stats cs
		JOIN runs r ON r.id = cs.session_id
		GROUP BY cs.char
		ORDER BY cs.char`, where)
	rows, err := s.db.QueryContext(ctx, query, append(args, limit(lastRuns))...)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	var aggs []model.CharAggregate
	for rows.Next() {
		var agg model.CharAggregate
		if err := rows.Scan(&agg.Char, &agg.Correct, &agg.Incorrect, &agg.LatencySumMs, &agg.LatencyCount); err != nil {
			return nil, err
		}
		aggs = append(aggs, agg)
	}
	return aggs, rows.Err()
}

// ListChapterProgress groups the runs matching filter by dictionary, chapter
// length and chapter.
func (s *Store) ListChapterProgress(ctx context.Context, filter model.HistoryFilter) ([]model.ChapterAggregate, error) {
	where, args := historyWhere(filter)
	query := fmt.Sprintf(`WITH runs AS (
			SELECT * FROM practice_sessions WHERE %s ORDER BY ended_at DESC, id DESC LIMIT ?
		)
		SELECT dict_id, chapter_length, chapter, COUNT(*), SUM(words_completed), SUM(correct), SUM(incorrect),
			SUM(duration_ms), MAX(ended_at)
		FROM runs
		GROUP BY dict_id, chapter_length, chapter
		ORDER BY dict_id, chapter_length, chapter`, where)
	rows, err := s.db.QueryContext(ctx, query, append(args, limit(filter.Last))...)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	var chapters []model.ChapterAggregate
	for rows.Next() {
		var agg model.ChapterAggregate
		var last string
		if err := rows.Scan(&agg.DictID, &agg.ChapterLength, &agg.Chapter, &agg.Runs, &agg.WordsCompleted,
			&agg.Correct, &agg.Incorrect, &agg.DurationMs, &last); err != nil {
			return nil, err
		}
		if agg.LastPracticed, err = parseTime(last); err != nil {
			return nil, err
		}
		chapters = append(chapters, agg)
	}
	return chapters, rows.Err()
}

func historyWhere(filter model.HistoryFilter) (string, []any) {
	clauses := []string{"1=1"}
	var args []any
	if filter.DictID != "" {
		clauses = append(clauses, "dict_id = ?")
		args = append(args, filter.DictID)
	}
	if filter.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, formatTime(*filter.Since))
	}
	return strings.Join(clauses, " AND "), args
}

// limit maps "no limit" to SQLite's LIMIT -1.
func limit(n int) int {
	if n <= 0 {
		return -1
	}
	return n
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// parseTime also accepts the variable-width RFC 3339 stamps of older logs.
func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad timestamp %q: %w", s, err)
	}
	return t, nil
}

func closeRows(rows *sql.Rows) {
	// Best-effort close; scan errors surface through rows.Err.
	_ = rows.Close()
}
