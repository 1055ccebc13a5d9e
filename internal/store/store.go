// Package store persists the fetched-record cache and per-month sync
// markers in a local sqlite file. The reconciliation engine never touches
// this; it is the caller-side answer to "don't re-hit provider APIs on
// every run".
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ckdake/fitler/internal/domain"
)

// Store wraps the sqlite handle.
type Store struct {
	db *sql.DB
}

// Open opens (and if needed creates) the database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	// sqlite allows one writer; the tool is single-process anyway.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) ensureSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS provider_sync (
            year_month TEXT NOT NULL,
            provider TEXT NOT NULL,
            run_id TEXT NOT NULL,
            synced_at TIMESTAMP NOT NULL,
            PRIMARY KEY (year_month, provider)
        );`,
		`CREATE TABLE IF NOT EXISTS activity_cache (
            year_month TEXT NOT NULL,
            provider TEXT NOT NULL,
            provider_id TEXT NOT NULL,
            start_utc TIMESTAMP,
            date_only BOOLEAN NOT NULL DEFAULT 0,
            distance REAL NOT NULL DEFAULT 0,
            name TEXT NOT NULL DEFAULT '',
            equipment TEXT NOT NULL DEFAULT '',
            linked_ids TEXT NOT NULL DEFAULT '{}',
            PRIMARY KEY (year_month, provider, provider_id)
        );`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// IsSynced reports whether a provider's records for the month are cached.
func (s *Store) IsSynced(ctx context.Context, month domain.Month, provider domain.Provider) (bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM provider_sync WHERE year_month = ? AND provider = ?`,
		month.String(), string(provider))
	var count int
	if err := row.Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// MarkSynced records that a provider's month has been fetched under runID.
func (s *Store) MarkSynced(ctx context.Context, month domain.Month, provider domain.Provider, runID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO provider_sync (year_month, provider, run_id, synced_at)
         VALUES (?, ?, ?, ?)
         ON CONFLICT (year_month, provider)
         DO UPDATE SET run_id = excluded.run_id, synced_at = excluded.synced_at`,
		month.String(), string(provider), runID, time.Now().UTC())
	return err
}

// ClearMonth drops markers and cached records for the month, forcing the
// next sync to refetch everything.
func (s *Store) ClearMonth(ctx context.Context, month domain.Month) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM provider_sync WHERE year_month = ?`, month.String()); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM activity_cache WHERE year_month = ?`, month.String()); err != nil {
		return err
	}
	return tx.Commit()
}

// SaveRecords replaces the cached records for one (month, provider).
func (s *Store) SaveRecords(ctx context.Context, month domain.Month, provider domain.Provider, records []domain.ProviderActivityRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM activity_cache WHERE year_month = ? AND provider = ?`,
		month.String(), string(provider)); err != nil {
		return err
	}

	for _, rec := range records {
		linked, err := json.Marshal(rec.LinkedIDs)
		if err != nil {
			return err
		}
		var start any
		if !rec.Start.IsZero() {
			start = rec.Start.UTC()
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO activity_cache
                (year_month, provider, provider_id, start_utc, date_only, distance, name, equipment, linked_ids)
             VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			month.String(), string(rec.Provider), rec.ProviderID,
			start, rec.DateOnly, rec.Distance, rec.Name, rec.Equipment, string(linked)); err != nil {
			return fmt.Errorf("cache record %s/%s: %w", rec.Provider, rec.ProviderID, err)
		}
	}
	return tx.Commit()
}

// LoadRecords returns the cached records for one (month, provider).
func (s *Store) LoadRecords(ctx context.Context, month domain.Month, provider domain.Provider) ([]domain.ProviderActivityRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT provider, provider_id, start_utc, date_only, distance, name, equipment, linked_ids
         FROM activity_cache
         WHERE year_month = ? AND provider = ?
         ORDER BY start_utc, provider_id`,
		month.String(), string(provider))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.ProviderActivityRecord
	for rows.Next() {
		var rec domain.ProviderActivityRecord
		var providerName, linked string
		var start sql.NullTime
		if err := rows.Scan(&providerName, &rec.ProviderID, &start, &rec.DateOnly,
			&rec.Distance, &rec.Name, &rec.Equipment, &linked); err != nil {
			return nil, err
		}
		rec.Provider = domain.Provider(providerName)
		if start.Valid {
			rec.Start = start.Time.UTC()
		}
		if linked != "" && linked != "{}" && linked != "null" {
			if err := json.Unmarshal([]byte(linked), &rec.LinkedIDs); err != nil {
				return nil, fmt.Errorf("decode linked ids for %s/%s: %w", rec.Provider, rec.ProviderID, err)
			}
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
