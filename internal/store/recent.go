package store

import (
	"time"

	"github.com/golang/groupcache/lru"

	"StockLens/internal/model"
)

// HistoryCapacity is the maximum number of search-history entries kept.
const HistoryCapacity = 6

// RecentList decides which search-history entries to evict. Touching a
// ticker makes it the most recent; entries past capacity are evicted least
// recent first, so the touched entry is never evicted. Display order is
// kept by the store, not here.
type RecentList struct {
	cache   *lru.Cache
	evicted []string
}

// NewRecentList creates an empty list holding at most capacity entries.
func NewRecentList(capacity int) *RecentList {
	if capacity < 1 {
		capacity = 1
	}
	l := &RecentList{cache: lru.New(capacity)}
	l.cache.OnEvicted = func(key lru.Key, _ interface{}) {
		l.evicted = append(l.evicted, key.(string))
	}
	return l
}

// Len returns the number of entries.
func (l *RecentList) Len() int { return l.cache.Len() }

// Touch records a search for ticker at the given time and returns every
// ticker evicted since the last Touch, including overflow found on restore.
func (l *RecentList) Touch(ticker string, at time.Time) []string {
	l.cache.Add(ticker, at)
	var out []string
	for _, t := range l.evicted {
		if t != ticker {
			out = append(out, t)
		}
	}
	l.evicted = nil
	return out
}

// restore replays a persisted entry. Entries must be restored least recent
// first.
func (l *RecentList) restore(e model.SearchHistoryEntry) {
	l.cache.Add(e.Ticker, e.LastSearchedAt)
}
