package store

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"StockLens/internal/model"
)

// GetPreference returns the stored value for key, or def when unset.
func (s *SQLiteStore) GetPreference(ctx context.Context, key, def string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", ErrInvalidKey
	}
	value := def
	err := s.withRead("get_preference", func() error {
		err := s.db.QueryRowContext(ctx, `SELECT value FROM preferences WHERE key = ?`, key).Scan(&value)
		if errors.Is(err, sql.ErrNoRows) {
			value = def
			return nil
		}
		return err
	})
	return value, err
}

// SetPreference stores value under key, overwriting any previous value.
func (s *SQLiteStore) SetPreference(ctx context.Context, key, value string) error {
	return s.SetPreferences(ctx, map[string]string{key: value})
}

// SetPreferences upserts every pair in one transaction.
func (s *SQLiteStore) SetPreferences(ctx context.Context, prefs map[string]string) error {
	keys := make([]string, 0, len(prefs))
	for k := range prefs {
		if strings.TrimSpace(k) == "" {
			return ErrInvalidKey
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return s.withTx(ctx, "set_preference", func(tx *sql.Tx) error {
		now := toUnix(s.now())
		for _, k := range keys {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO preferences (key, value, updated_at) VALUES (?, ?, ?)
				 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
				strings.TrimSpace(k), prefs[k], now); err != nil {
				return err
			}
		}
		return nil
	})
}

// ListPreferences returns every stored preference ordered by key.
func (s *SQLiteStore) ListPreferences(ctx context.Context) ([]model.Preference, error) {
	var out []model.Preference
	err := s.withRead("list_preferences", func() error {
		rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM preferences ORDER BY key`)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var p model.Preference
			if err := rows.Scan(&p.Key, &p.Value); err != nil {
				return err
			}
			out = append(out, p)
		}
		return rows.Err()
	})
	return out, err
}

// LoadPreferences overlays the stored values on DefaultPreferences.
// Unparseable values fall back to the default.
func (s *SQLiteStore) LoadPreferences(ctx context.Context) (model.Preferences, error) {
	prefs := model.DefaultPreferences()
	stored, err := s.ListPreferences(ctx)
	if err != nil {
		return prefs, err
	}
	for _, p := range stored {
		switch p.Key {
		case model.PrefDefaultTicker:
			if t, err := NormalizeTicker(p.Value); err == nil {
				prefs.DefaultTicker = t
			}
		case model.PrefDefaultPeriod:
			if period, err := model.ParsePeriod(p.Value); err == nil {
				prefs.DefaultPeriod = period
			} else {
				log.Warn().Str("value", p.Value).Msg("ignoring stored default_period")
			}
		case model.PrefTheme:
			prefs.Theme = p.Value
		case model.PrefShowMA50:
			prefs.ShowMA50 = parseBool(p.Key, p.Value, prefs.ShowMA50)
		case model.PrefShowMA200:
			prefs.ShowMA200 = parseBool(p.Key, p.Value, prefs.ShowMA200)
		}
	}
	return prefs, nil
}

// SavePreferences stores the typed preferences atomically.
func (s *SQLiteStore) SavePreferences(ctx context.Context, prefs model.Preferences) error {
	return s.SetPreferences(ctx, prefs.Map())
}

func parseBool(key, value string, def bool) bool {
	b, err := strconv.ParseBool(value)
	if err != nil {
		log.Warn().Str("key", key).Str("value", value).Msg("ignoring stored boolean preference")
		return def
	}
	return b
}
