package session

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/alex/parley/internal/history"
	"github.com/alex/parley/internal/personality"
)

//go:embed schema.sql
var schemaSQL string

// SQLiteStore keeps profiles and their turns in a SQLite database.
type SQLiteStore struct {
	db        *sql.DB
	logger    *zap.Logger
	sessionID string
	now       func() time.Time
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(path string, opts ...Option) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite store: path required")
	}
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o700); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one conversation per process; a single connection keeps the
	// per-connection pragmas below in effect
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	o := buildOptions(opts)
	return &SQLiteStore{
		db:        db,
		logger:    o.logger,
		sessionID: o.sessionID,
		now:       time.Now,
	}, nil
}

// Load implements Store.
func (s *SQLiteStore) Load(ctx context.Context, profile string) (Snapshot, error) {
	if err := validateProfile(profile); err != nil {
		return Snapshot{}, err
	}

	var (
		userName sql.NullString
		mood     string
		traits   string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT user_name, mood, traits FROM profiles WHERE name = ?`, profile,
	).Scan(&userName, &mood, &traits)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, ErrNotFound
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("loading profile: %w", err)
	}

	var snap Snapshot
	var fallbacks []string
	if userName.Valid && userName.String != "" {
		name := userName.String
		snap.UserName = &name
	}
	if mood != "" {
		if m, ok := personality.ParseMood(mood); ok {
			snap.Mood = m
		} else {
			fallbacks = append(fallbacks, keyMood)
		}
	}
	if err := json.Unmarshal([]byte(traits), &snap.Traits); err != nil {
		snap.Traits = nil
		fallbacks = append(fallbacks, keyTraits)
	}

	turns, err := s.loadTurns(ctx, profile)
	if err != nil {
		return Snapshot{}, err
	}
	snap.History = turns

	warnFallbacks(s.logger, profile, fallbacks)
	return snap, nil
}

func (s *SQLiteStore) loadTurns(ctx context.Context, profile string) ([]history.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT at, input, response FROM (
			SELECT seq, at, input, response FROM turns
			WHERE profile = ? ORDER BY seq DESC LIMIT ?
		) ORDER BY seq ASC`, profile, history.Limit)
	if err != nil {
		return nil, fmt.Errorf("loading turns: %w", err)
	}
	defer rows.Close()

	var turns []history.Entry
	for rows.Next() {
		var (
			at sql.NullInt64
			e  history.Entry
		)
		if err := rows.Scan(&at, &e.Input, &e.Response); err != nil {
			return nil, fmt.Errorf("scanning turn: %w", err)
		}
		if at.Valid {
			e.Timestamp = time.Unix(0, at.Int64)
		}
		turns = append(turns, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("loading turns: %w", err)
	}
	return turns, nil
}

// Save implements Store. The profile row and its turns are replaced in one
// transaction.
func (s *SQLiteStore) Save(ctx context.Context, profile string, snap Snapshot) error {
	if err := validateProfile(profile); err != nil {
		return err
	}
	traits := snap.Traits
	if traits == nil {
		traits = map[string]float64{}
	}
	traitsJSON, err := json.Marshal(traits)
	if err != nil {
		return fmt.Errorf("encoding traits: %w", err)
	}
	var userName sql.NullString
	if snap.UserName != nil {
		userName = sql.NullString{String: *snap.UserName, Valid: true}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO profiles (name, user_name, mood, traits, session_id, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			user_name = excluded.user_name,
			mood = excluded.mood,
			traits = excluded.traits,
			session_id = excluded.session_id,
			updated_at = excluded.updated_at`,
		profile, userName, string(snap.Mood), string(traitsJSON), s.sessionID, s.now().UnixNano(),
	); err != nil {
		return fmt.Errorf("saving profile: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM turns WHERE profile = ?`, profile); err != nil {
		return fmt.Errorf("clearing turns: %w", err)
	}

	turns := snap.History
	if len(turns) > history.Limit {
		turns = turns[len(turns)-history.Limit:]
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO turns (profile, seq, at, input, response) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing turn insert: %w", err)
	}
	defer stmt.Close()
	for i, e := range turns {
		// A zero timestamp has no nanosecond representation; keep it as NULL.
		var at sql.NullInt64
		if !e.Timestamp.IsZero() {
			at = sql.NullInt64{Int64: e.Timestamp.UnixNano(), Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, profile, i, at, e.Input, e.Response); err != nil {
			return fmt.Errorf("saving turn %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}

// SessionOf reports which run last saved profile.
func (s *SQLiteStore) SessionOf(ctx context.Context, profile string) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `SELECT session_id FROM profiles WHERE name = ?`, profile).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("loading session id: %w", err)
	}
	return id, nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
