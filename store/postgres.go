// Copyright © 2015 Drake Wilson.  Copying, distribution, and modification of this software is governed by
// the MIT-style license in the file ../LICENSE.md.

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/blanu/huffpack/payload"
)

type postgresStore struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects to the database at dsn and creates the payload table if needed.
func OpenPostgres(ctx context.Context, dsn string) (Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	cfg.MaxConns = 5
	cfg.MinConns = 1
	cfg.MaxConnLifetime = time.Hour
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("pgxpool: %w", err)
	}

	if err := Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &postgresStore{pool}, nil
}

// Migrate creates the payload table if it does not exist.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS payloads (
  id            TEXT PRIMARY KEY,
  name          TEXT NOT NULL,
  original_size BIGINT NOT NULL,
  blob          BYTEA NOT NULL,
  created_at    TIMESTAMPTZ NOT NULL
)`)
	return err
}

func (ps *postgresStore) Put(ctx context.Context, rec *Record) error {
	blob, err := payload.Marshal(rec.Payload)
	if err != nil {
		return err
	}

	_, err = ps.pool.Exec(ctx, `
INSERT INTO payloads (id, name, original_size, blob, created_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (id) DO NOTHING`,
		rec.ID, rec.Name, int64(rec.OriginalSize), blob, rec.CreatedAt)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*Record, error) {
	var (
		rec          Record
		originalSize int64
		blob         []byte
	)
	if err := row.Scan(&rec.ID, &rec.Name, &originalSize, &blob, &rec.CreatedAt); err != nil {
		return nil, err
	}

	p, err := payload.Unmarshal(blob)
	if err != nil {
		return nil, fmt.Errorf("record %s: %w", rec.ID, err)
	}
	rec.OriginalSize = int(originalSize)
	rec.Payload = p
	return &rec, nil
}

func (ps *postgresStore) Get(ctx context.Context, id string) (*Record, error) {
	row := ps.pool.QueryRow(ctx, `
SELECT id, name, original_size, blob, created_at FROM payloads WHERE id = $1`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return rec, err
}

func (ps *postgresStore) List(ctx context.Context) ([]*Record, error) {
	rows, err := ps.pool.Query(ctx, `
SELECT id, name, original_size, blob, created_at FROM payloads ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (ps *postgresStore) Close() {
	ps.pool.Close()
}
