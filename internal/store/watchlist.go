package store

import (
	"context"
	"database/sql"
	"iter"
	"math"

	"github.com/rs/zerolog/log"

	"StockLens/internal/model"
)

// watchlistPageSize bounds how many rows one iterator step reads.
const watchlistPageSize = 64

// AddToWatchlist inserts the normalized ticker if absent and returns the
// watchlist size. Adding an existing ticker is a no-op.
func (s *SQLiteStore) AddToWatchlist(ctx context.Context, ticker string) (int, error) {
	t, err := NormalizeTicker(ticker)
	if err != nil {
		return 0, err
	}
	var size int
	err = s.withTx(ctx, "add_to_watchlist", func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO watchlist (ticker, added_at) VALUES (?, ?) ON CONFLICT(ticker) DO NOTHING`,
			t, toUnix(s.now()))
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			log.Debug().Str("ticker", t).Msg("already in watchlist")
		}
		return tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM watchlist`).Scan(&size)
	})
	if err != nil {
		return 0, err
	}
	log.Info().Str("ticker", t).Int("size", size).Msg("watchlist add")
	return size, nil
}

// RemoveFromWatchlist deletes the ticker if present.
func (s *SQLiteStore) RemoveFromWatchlist(ctx context.Context, ticker string) error {
	t, err := NormalizeTicker(ticker)
	if err != nil {
		return err
	}
	return s.withTx(ctx, "remove_from_watchlist", func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM watchlist WHERE ticker = ?`, t)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n > 0 {
			log.Info().Str("ticker", t).Msg("watchlist remove")
		}
		return nil
	})
}

// Watchlist returns a lazy sequence of entries ordered by added_at. Each
// range over the sequence re-reads the table, a page at a time, so it can be
// restarted and the caller may mutate the store while iterating.
func (s *SQLiteStore) Watchlist(ctx context.Context) iter.Seq2[model.WatchlistEntry, error] {
	return func(yield func(model.WatchlistEntry, error) bool) {
		lastAt, lastRow := int64(math.MinInt64), int64(math.MinInt64)
		for {
			page, err := s.watchlistPage(ctx, lastAt, lastRow)
			if err != nil {
				yield(model.WatchlistEntry{}, err)
				return
			}
			for _, r := range page {
				if !yield(r.entry, nil) {
					return
				}
				lastAt, lastRow = r.addedAt, r.rowid
			}
			if len(page) < watchlistPageSize {
				return
			}
		}
	}
}

// ListWatchlist collects the whole watchlist.
func (s *SQLiteStore) ListWatchlist(ctx context.Context) ([]model.WatchlistEntry, error) {
	var out []model.WatchlistEntry
	for e, err := range s.Watchlist(ctx) {
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

type watchlistRow struct {
	rowid   int64
	addedAt int64
	entry   model.WatchlistEntry
}

func (s *SQLiteStore) watchlistPage(ctx context.Context, afterAt, afterRow int64) ([]watchlistRow, error) {
	var page []watchlistRow
	err := s.withRead("list_watchlist", func() error {
		rows, err := s.db.QueryContext(ctx,
			`SELECT rowid, ticker, added_at FROM watchlist
			 WHERE (added_at, rowid) > (?, ?)
			 ORDER BY added_at, rowid
			 LIMIT ?`,
			afterAt, afterRow, watchlistPageSize)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var r watchlistRow
			if err := rows.Scan(&r.rowid, &r.entry.Ticker, &r.addedAt); err != nil {
				return err
			}
			r.entry.AddedAt = fromUnix(r.addedAt)
			page = append(page, r)
		}
		return rows.Err()
	})
	return page, err
}
