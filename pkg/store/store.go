// Package store persists normalized collection events in PostgreSQL.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/zrcal/zrcal/pkg/schedule"
	"github.com/zrcal/zrcal/pkg/waste"
)

type StoreConfig struct {
	Logger *slog.Logger
	Pool   *pgxpool.Pool
}

func (cfg *StoreConfig) Validate() error {
	if cfg.Logger == nil {
		return errors.New("logger is required")
	}
	if cfg.Pool == nil {
		return errors.New("postgres pool is required")
	}
	return nil
}

type Store struct {
	log *slog.Logger
	cfg StoreConfig
}

func NewStore(cfg StoreConfig) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Store{
		log: cfg.Logger,
		cfg: cfg,
	}, nil
}

// ReplaceWindow deletes every persisted event of the batch's type whose
// date falls inside the batch's [earliest, latest] window, then inserts
// the batch. Delete and insert run in one transaction so a crash can
// never leave the window half-replaced.
//
// An empty batch performs no destructive operation at all: without a
// window the delete would be unbounded.
func (s *Store) ReplaceWindow(ctx context.Context, batch *schedule.Batch) error {
	if batch.Empty() {
		s.log.Info("store: empty batch, leaving store untouched", "type", batch.Type)
		return nil
	}

	s.log.Debug("store: replacing window",
		"type", batch.Type,
		"from", batch.Earliest.Format("2006-01-02"),
		"to", batch.Latest.Format("2006-01-02"),
		"count", len(batch.Events))

	tx, err := s.cfg.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	tag, err := tx.Exec(ctx, `
		DELETE FROM collection_events
		WHERE waste_type = $1 AND date >= $2 AND date <= $3`,
		string(batch.Type), batch.Earliest, batch.Latest)
	if err != nil {
		return fmt.Errorf("failed to delete replace window: %w", err)
	}

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"collection_events"},
		[]string{"waste_type", "zip", "location", "date"},
		pgx.CopyFromSlice(len(batch.Events), func(i int) ([]any, error) {
			ev := batch.Events[i]
			var loc any
			if ev.Location != "" {
				loc = ev.Location
			}
			return []any{string(ev.Type), ev.Zip, loc, ev.Date}, nil
		}))
	if err != nil {
		return fmt.Errorf("failed to insert events: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.log.Debug("store: window replaced",
		"type", batch.Type, "deleted", tag.RowsAffected(), "inserted", len(batch.Events))
	return nil
}

// EventsByZip returns all stored events for one postal code, ordered by
// date ascending.
func (s *Store) EventsByZip(ctx context.Context, zip int) ([]schedule.Event, error) {
	rows, err := s.cfg.Pool.Query(ctx, `
		SELECT waste_type, zip, location, date
		FROM collection_events
		WHERE zip = $1
		ORDER BY date`, zip)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []schedule.Event
	for rows.Next() {
		var (
			ev  schedule.Event
			typ string
			loc *string
		)
		if err := rows.Scan(&typ, &ev.Zip, &loc, &ev.Date); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		ev.Type = waste.Type(typ)
		if loc != nil {
			ev.Location = *loc
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read events: %w", err)
	}
	return events, nil
}

// CountByType returns the number of stored events for one waste type.
func (s *Store) CountByType(ctx context.Context, t waste.Type) (int64, error) {
	var count int64
	err := s.cfg.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM collection_events WHERE waste_type = $1`,
		string(t)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	return count, nil
}

// Ping reports whether the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.cfg.Pool.Ping(ctx)
}
