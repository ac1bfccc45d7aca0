// Package storage keeps the leaderboard of retired players in SQLite.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/dogpatrol/internal/core"
)

// DefaultPoolSize is the number of connections kept when none is configured.
const DefaultPoolSize = 10

// MaxRecords is the largest page Records returns.
const MaxRecords = 100

// Store manages a bounded pool of SQLite connections for the leaderboard.
type Store struct {
	db *sql.DB
}

// Record is the final result of one retired player.
type Record struct {
	ID        string
	Name      string
	Score     int
	PlayTime  time.Duration
	RetiredAt time.Time
}

// Stats aggregates the whole leaderboard.
type Stats struct {
	Players       int
	HighScore     int
	AvgScore      float64
	TotalPlayTime time.Duration
	LastRetired   time.Time
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations. At most
// poolSize connections are open at once; callers beyond that wait.
func Open(dbPath string, poolSize int) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}
	if poolSize < 1 {
		poolSize = DefaultPoolSize
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	dsn := dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	db.SetMaxOpenConns(poolSize)
	db.SetMaxIdleConns(poolSize)

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	// Run migrations
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS retired_players (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			score INTEGER NOT NULL,
			play_time_ms INTEGER NOT NULL,
			retired_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_retired_players_rank
			ON retired_players(score DESC, play_time_ms, name);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// WriteRecord appends one record and returns its generated id. Records are
// never updated afterwards.
func (s *Store) WriteRecord(ctx context.Context, name string, score int, playTime time.Duration) (string, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return "", fmt.Errorf("storage: cannot acquire connection: %w", err)
	}
	defer conn.Close()

	id := uuid.NewString()
	_, err = conn.ExecContext(ctx,
		"INSERT INTO retired_players (id, name, score, play_time_ms) VALUES (?, ?, ?, ?)",
		id, name, score, playTime.Milliseconds(),
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save record: %w", err)
	}
	return id, nil
}

// Records returns a page of the leaderboard: best score first, then shorter
// play time, then name. limit is clamped to [0, MaxRecords] and a negative
// offset is treated as zero.
func (s *Store) Records(ctx context.Context, offset, limit int) ([]Record, error) {
	limit = core.Clamp(limit, 0, MaxRecords)
	offset = max(0, offset)
	if limit == 0 {
		return nil, nil
	}

	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot acquire connection: %w", err)
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx,
		`SELECT id, name, score, play_time_ms, retired_at
		 FROM retired_players
		 ORDER BY score DESC, play_time_ms ASC, name ASC
		 LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		var playTimeMs int64
		var retiredAt any
		if err := rows.Scan(&r.ID, &r.Name, &r.Score, &playTimeMs, &retiredAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.PlayTime = time.Duration(playTimeMs) * time.Millisecond
		r.RetiredAt = parseTimestamp(retiredAt)
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return records, nil
}

// Stats retrieves aggregated statistics over every record.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot acquire connection: %w", err)
	}
	defer conn.Close()

	stats := &Stats{}
	var totalMs int64
	var lastRetired any
	err = conn.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0),
		        COALESCE(SUM(play_time_ms), 0), MAX(retired_at)
		 FROM retired_players`,
	).Scan(&stats.Players, &stats.HighScore, &stats.AvgScore, &totalMs, &lastRetired)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get stats: %w", err)
	}
	stats.TotalPlayTime = time.Duration(totalMs) * time.Millisecond
	stats.LastRetired = parseTimestamp(lastRetired)

	return stats, nil
}

// parseTimestamp handles both time.Time and string values of a DATETIME
// column.
func parseTimestamp(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
