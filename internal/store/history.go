package store

import (
	"context"
	"database/sql"

	"github.com/rs/zerolog/log"

	"StockLens/internal/model"
)

// RecordSearch moves ticker to the front of the search history, inserting it
// if needed, and evicts the least recently searched entries beyond
// HistoryCapacity. The whole update is one transaction.
func (s *SQLiteStore) RecordSearch(ctx context.Context, ticker string) error {
	t, err := NormalizeTicker(ticker)
	if err != nil {
		return err
	}
	return s.withTx(ctx, "record_search", func(tx *sql.Tx) error {
		recent, maxSeq, err := loadRecent(ctx, tx)
		if err != nil {
			return err
		}

		now := s.now()
		evicted := recent.Touch(t, now)

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO search_history (ticker, last_searched_at, seq) VALUES (?, ?, ?)
			 ON CONFLICT(ticker) DO UPDATE SET last_searched_at = excluded.last_searched_at, seq = excluded.seq`,
			t, toUnix(now), maxSeq+1); err != nil {
			return err
		}
		for _, old := range evicted {
			if _, err := tx.ExecContext(ctx, `DELETE FROM search_history WHERE ticker = ?`, old); err != nil {
				return err
			}
			log.Debug().Str("ticker", old).Msg("search history evicted")
		}
		return nil
	})
}

// SearchHistory returns the recent searches, most recent first.
func (s *SQLiteStore) SearchHistory(ctx context.Context) ([]model.SearchHistoryEntry, error) {
	var out []model.SearchHistoryEntry
	err := s.withRead("list_search_history", func() error {
		rows, err := s.db.QueryContext(ctx,
			`SELECT ticker, last_searched_at FROM search_history ORDER BY seq DESC LIMIT ?`, HistoryCapacity)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var e model.SearchHistoryEntry
			var at int64
			if err := rows.Scan(&e.Ticker, &at); err != nil {
				return err
			}
			e.LastSearchedAt = fromUnix(at)
			out = append(out, e)
		}
		return rows.Err()
	})
	return out, err
}

// ClearSearchHistory removes every search-history entry.
func (s *SQLiteStore) ClearSearchHistory(ctx context.Context) error {
	return s.withTx(ctx, "clear_search_history", func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `DELETE FROM search_history`)
		return err
	})
}

func loadRecent(ctx context.Context, tx *sql.Tx) (*RecentList, int64, error) {
	rows, err := tx.QueryContext(ctx, `SELECT ticker, last_searched_at, seq FROM search_history ORDER BY seq ASC`)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	recent := NewRecentList(HistoryCapacity)
	var maxSeq int64
	for rows.Next() {
		var e model.SearchHistoryEntry
		var at, seq int64
		if err := rows.Scan(&e.Ticker, &at, &seq); err != nil {
			return nil, 0, err
		}
		e.LastSearchedAt = fromUnix(at)
		recent.restore(e)
		maxSeq = max(maxSeq, seq)
	}
	return recent, maxSeq, rows.Err()
}
