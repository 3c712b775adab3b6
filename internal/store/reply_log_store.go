package store

import (
	"context"
	"time"
)

// ReplyLogEntry records one send attempt, successful or not.
type ReplyLogEntry struct {
	ID           int64
	AccountUID   string
	PeerID       int64
	PeerLabel    string
	Keyword      string // keyword of the rule that matched
	OriginalText string
	ReplyText    string
	Success      bool
	ErrorDetail  string
	Timestamp    time.Time
}

// ReplyStats is the per-account counter snapshot. Today resets on calendar
// date rollover, Total is lifetime.
type ReplyStats struct {
	Date  string // YYYY-MM-DD the Today counter belongs to
	Today int
	Total int
}

// DailyStat is one day's successful-reply count.
type DailyStat struct {
	Date  string
	Count int
}

// KeywordStat is the successful-reply count for one rule keyword.
type KeywordStat struct {
	Keyword string
	Count   int
}

// ReplyLogStore persists reply history and counters.
type ReplyLogStore interface {
	AppendLog(ctx context.Context, entry ReplyLogEntry) error

	// Stats returns the counter snapshot with date rollover applied: a stale
	// Date reports Today as zero without mutating storage.
	Stats(ctx context.Context, accountUID string) (ReplyStats, error)

	// IncrementToday bumps both counters after a successful send and returns
	// the new Today value. The increment and read-back are atomic.
	IncrementToday(ctx context.Context, accountUID string) (int, error)

	// Logs returns entries newest first.
	Logs(ctx context.Context, accountUID string, limit, offset int) ([]ReplyLogEntry, error)

	// DailyStats aggregates successful replies per day over the last N days,
	// newest first.
	DailyStats(ctx context.Context, accountUID string, days int) ([]DailyStat, error)

	// KeywordStats aggregates successful replies per rule keyword, most
	// frequent first.
	KeywordStats(ctx context.Context, accountUID string, limit int) ([]KeywordStat, error)
}
