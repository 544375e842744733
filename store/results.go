// Package store keeps a record of finished games in SQLite.
//
// Responsibilities:
//   - Opening the database with WAL journaling and a busy timeout.
//   - Applying the embedded migrations in sql/*.sql once each.
//   - Recording results and answering best-time and win-rate queries.
package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
)

//go:embed sql/*.sql
var migrations embed.FS

// Result is one finished game.
type Result struct {
	Difficulty string
	Width      int
	Height     int
	Mines      int
	Won        bool
	Elapsed    time.Duration
	CreatedAt  time.Time // set by the database
}

// Summary aggregates the results of one difficulty.
type Summary struct {
	Played int
	Won    int
}

// Results is the sqlite-backed result store.
type Results struct {
	db *sql.DB
}

// Open opens (and creates if missing) the database at dsn and migrates it.
func Open(dsn string) (*Results, error) {
	dir := filepath.Dir(dsn)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", dsn+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Results{db: db}, nil
}

func (r *Results) Close() error {
	return r.db.Close()
}

// migrate applies every embedded migration not yet listed in _migrations,
// in lexical order, each inside its own transaction.
func migrate(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS _migrations (name TEXT PRIMARY KEY);`); err != nil {
		return fmt.Errorf("create _migrations: %w", err)
	}

	files, err := fs.Glob(migrations, "sql/*.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(files)

	for _, f := range files {
		var done int
		err := db.QueryRow(`SELECT 1 FROM _migrations WHERE name=?`, f).Scan(&done)
		if err == nil {
			log.Debug().Str("migration", f).Msg("already applied")
			continue
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("query _migrations: %w", err)
		}

		body, err := migrations.ReadFile(f)
		if err != nil {
			return fmt.Errorf("read %s: %w", f, err)
		}

		tx, err := db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(string(body)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply %s: %w", f, err)
		}
		if _, err := tx.Exec(`INSERT INTO _migrations(name) VALUES (?)`, f); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record %s: %w", f, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit %s: %w", f, err)
		}
		log.Info().Str("migration", f).Msg("applied")
	}
	return nil
}

// Record inserts one finished game.
func (r *Results) Record(ctx context.Context, res Result) error {
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO game_results
            (difficulty, width, height, mines, won, elapsed_ms)
        VALUES (?, ?, ?, ?, ?, ?)`,
		res.Difficulty, res.Width, res.Height, res.Mines, res.Won, res.Elapsed.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("record result: %w", err)
	}
	return nil
}

// BestTimes returns the fastest wins for a difficulty, fastest first.
// Default limit is 10 if not specified.
func (r *Results) BestTimes(ctx context.Context, difficulty string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.QueryContext(ctx, `
        SELECT difficulty, width, height, mines, won, elapsed_ms, created_at
        FROM game_results
        WHERE difficulty=? AND won=1
        ORDER BY elapsed_ms ASC, created_at ASC, id ASC
        LIMIT ?`, difficulty, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("best times: %w", err)
	}
	defer rows.Close()

	out := make([]Result, 0, limit)
	for rows.Next() {
		var (
			res       Result
			elapsedMs int64
		)
		if err := rows.Scan(&res.Difficulty, &res.Width, &res.Height, &res.Mines, &res.Won, &elapsedMs, &res.CreatedAt); err != nil {
			return nil, err
		}
		res.Elapsed = time.Duration(elapsedMs) * time.Millisecond
		out = append(out, res)
	}
	return out, rows.Err()
}

// Summary counts played and won games for a difficulty.
func (r *Results) Summary(ctx context.Context, difficulty string) (Summary, error) {
	var s Summary
	err := r.db.QueryRowContext(ctx, `
        SELECT COUNT(1), COALESCE(SUM(won), 0)
        FROM game_results
        WHERE difficulty=?`, difficulty,
	).Scan(&s.Played, &s.Won)
	if err != nil {
		return Summary{}, fmt.Errorf("summary: %w", err)
	}
	return s, nil
}
