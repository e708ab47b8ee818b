package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"statwire/internal/config"
)

// ErrNotConfigured indicates the archive pool was not initialised.
var ErrNotConfigured = errors.New("storage: pool not configured")

const (
	upsertReleaseSQL = `INSERT INTO releases (
        dataset,
        reference_period,
        headline,
        release_date,
        payload
    ) VALUES (
        $1,$2,$3,$4,$5
    )
    ON CONFLICT (dataset, reference_period) DO UPDATE
    SET
        headline     = EXCLUDED.headline,
        release_date = EXCLUDED.release_date,
        payload      = EXCLUDED.payload;`

	listRecentReleasesSQL = `SELECT
        id,
        dataset,
        reference_period,
        headline,
        release_date,
        payload,
        created_at
    FROM releases
    WHERE dataset = $1
    ORDER BY reference_period DESC
    LIMIT $2;`
)

// ReleaseRecord is one archived production release.
type ReleaseRecord struct {
	ID              int64
	Dataset         string
	ReferencePeriod string
	Headline        string
	ReleaseDate     string
	Payload         json.RawMessage
	CreatedAt       time.Time
}

// ReleaseArchiver defines operations for the optional release archive.
type ReleaseArchiver interface {
	UpsertRelease(ctx context.Context, record ReleaseRecord) error
	ListRecentReleases(ctx context.Context, dataset string, limit int) ([]ReleaseRecord, error)
}

// NewPool configures a PostgreSQL connection pool from runtime settings.
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("database.dsn is required")
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse database dsn: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		poolConfig.MaxConns = int32(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		poolConfig.MinConns = int32(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		poolConfig.MaxConnLifetime = cfg.ConnMaxLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}

	return pool, nil
}

// Archive mirrors promoted releases into Postgres for ad-hoc review.
type Archive struct {
	pool *pgxpool.Pool
}

// NewArchive wires a pgx pool into an Archive.
func NewArchive(pool *pgxpool.Pool) *Archive {
	return &Archive{pool: pool}
}

// Close releases the underlying pool resources.
func (a *Archive) Close() {
	if a == nil || a.pool == nil {
		return
	}
	a.pool.Close()
}

func (a *Archive) getPool() (*pgxpool.Pool, error) {
	if a == nil || a.pool == nil {
		return nil, ErrNotConfigured
	}
	return a.pool, nil
}

// UpsertRelease records or refreshes an archived release.
func (a *Archive) UpsertRelease(ctx context.Context, record ReleaseRecord) error {
	pool, err := a.getPool()
	if err != nil {
		return err
	}

	_, execErr := pool.Exec(ctx, upsertReleaseSQL,
		record.Dataset,
		record.ReferencePeriod,
		record.Headline,
		record.ReleaseDate,
		record.Payload,
	)
	if execErr != nil {
		return fmt.Errorf("upsert release: %w", execErr)
	}
	return nil
}

// ListRecentReleases returns the newest archived releases for a
// dataset, newest first.
func (a *Archive) ListRecentReleases(ctx context.Context, dataset string, limit int) ([]ReleaseRecord, error) {
	pool, err := a.getPool()
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 10
	}

	rows, err := pool.Query(ctx, listRecentReleasesSQL, dataset, limit)
	if err != nil {
		return nil, fmt.Errorf("list releases: %w", err)
	}
	defer rows.Close()

	var records []ReleaseRecord
	for rows.Next() {
		var r ReleaseRecord
		if err := rows.Scan(&r.ID, &r.Dataset, &r.ReferencePeriod, &r.Headline, &r.ReleaseDate, &r.Payload, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan release: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

var _ ReleaseArchiver = (*Archive)(nil)
