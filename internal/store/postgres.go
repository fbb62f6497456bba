package store

import (
    "context"
    "errors"
    "time"

    _ "github.com/jackc/pgx/v5/stdlib"
    "github.com/jmoiron/sqlx"
)

type Store struct { DB *sqlx.DB }

func Open(dsn string) (*Store, error) {
    db, err := sqlx.Open("pgx", dsn)
    if err != nil { return nil, err }
    db.SetMaxOpenConns(10)
    db.SetMaxIdleConns(5)
    db.SetConnMaxLifetime(30 * time.Minute)
    return &Store{DB: db}, nil
}

func (s *Store) Ping(ctx context.Context) error { return s.DB.PingContext(ctx) }

func (s *Store) Close() error { return s.DB.Close() }

func (s *Store) Migrate(ctx context.Context) error {
    stmts := []string{
        `CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
        `CREATE TABLE IF NOT EXISTS generated_flyers (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            session_id   TEXT NOT NULL,
            address      TEXT NOT NULL,
            price        TEXT NOT NULL DEFAULT '',
            template     TEXT NOT NULL,
            format       TEXT NOT NULL,
            flyer_path   TEXT NOT NULL,
            created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
        );`,
        `CREATE INDEX IF NOT EXISTS idx_generated_flyers_created ON generated_flyers(created_at DESC);`,
        `CREATE INDEX IF NOT EXISTS idx_generated_flyers_session ON generated_flyers(session_id);`,
    }
    for _, q := range stmts {
        if _, err := s.DB.ExecContext(ctx, q); err != nil { return err }
    }
    return nil
}

// FlyerRecord is one row of generated_flyers.
type FlyerRecord struct {
    ID        string    `db:"id" json:"id"`
    SessionID string    `db:"session_id" json:"session_id"`
    Address   string    `db:"address" json:"address"`
    Price     string    `db:"price" json:"price"`
    Template  string    `db:"template" json:"template"`
    Format    string    `db:"format" json:"format"`
    FlyerPath string    `db:"flyer_path" json:"flyer_path"`
    CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// RecordFlyer inserts a generated flyer and fills in its id.
func (s *Store) RecordFlyer(ctx context.Context, rec *FlyerRecord) error {
    if s.DB == nil { return errors.New("nil db") }
    if rec.CreatedAt.IsZero() { rec.CreatedAt = time.Now().UTC() }
    rows, err := s.DB.NamedQueryContext(ctx, `
        INSERT INTO generated_flyers (session_id, address, price, template, format, flyer_path, created_at)
        VALUES (:session_id, :address, :price, :template, :format, :flyer_path, :created_at)
        RETURNING id`, rec)
    if err != nil { return err }
    defer rows.Close()
    if rows.Next() {
        if err := rows.Scan(&rec.ID); err != nil { return err }
    }
    return rows.Err()
}

// RecentFlyers returns the newest flyers first.
func (s *Store) RecentFlyers(ctx context.Context, limit int) ([]FlyerRecord, error) {
    if limit <= 0 || limit > 100 { limit = 20 }
    out := []FlyerRecord{}
    err := s.DB.SelectContext(ctx, &out, `
        SELECT id, session_id, address, price, template, format, flyer_path, created_at
        FROM generated_flyers
        ORDER BY created_at DESC
        LIMIT $1`, limit)
    return out, err
}
