package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS matches (
    id TEXT PRIMARY KEY,
    seed BIGINT NOT NULL,
    frame_count BIGINT NOT NULL,
    winner TEXT NOT NULL DEFAULT 'draw',
    started_at TIMESTAMPTZ NOT NULL,
    ended_at TIMESTAMPTZ NOT NULL,
    replay_bytes BYTEA NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_matches_started_at ON matches(started_at);
`

// PostgresStore implements MatchStore using PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to PostgreSQL and initializes the schema.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

// SaveMatch inserts a completed match record.
func (s *PostgresStore) SaveMatch(ctx context.Context, m *MatchRecord) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO matches (id, seed, frame_count, winner, started_at, ended_at, replay_bytes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		m.ID, m.Seed, m.FrameCount, m.Winner, m.StartedAt, m.EndedAt, m.ReplayBytes)
	return err
}

// FindMatch looks up a match record by its ID.
func (s *PostgresStore) FindMatch(ctx context.Context, id string) (*MatchRecord, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, seed, frame_count, winner, started_at, ended_at, replay_bytes
		 FROM matches WHERE id = $1`, id)

	m, err := scanMatch(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return m, err
}

// Close releases database resources.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func scanMatch(row pgx.Row) (*MatchRecord, error) {
	var m MatchRecord
	var seed, frames int64
	err := row.Scan(&m.ID, &seed, &frames, &m.Winner, &m.StartedAt, &m.EndedAt, &m.ReplayBytes)
	if err != nil {
		return nil, err
	}
	m.Seed = uint32(seed)
	m.FrameCount = uint32(frames)
	return &m, nil
}
