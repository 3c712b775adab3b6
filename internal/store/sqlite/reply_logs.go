package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/nextlevelbuilder/bilireply/internal/store"
)

type replyLogStore struct {
	db *sql.DB
}

var _ store.ReplyLogStore = (*replyLogStore)(nil)

func (s *replyLogStore) AppendLog(ctx context.Context, entry store.ReplyLogEntry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO reply_logs(account_uid, peer_id, peer_label, keyword, original_text, reply_text, success, error_detail, created_at_ms)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.AccountUID, entry.PeerID, entry.PeerLabel, entry.Keyword,
		entry.OriginalText, entry.ReplyText, boolInt(entry.Success), entry.ErrorDetail,
		entry.Timestamp.UnixMilli())
	if err != nil {
		return fmt.Errorf("append reply log: %w", err)
	}
	return nil
}

func (s *replyLogStore) Stats(ctx context.Context, accountUID string) (store.ReplyStats, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT stat_date, today, total FROM reply_stats WHERE account_uid = ?`, accountUID)

	var stats store.ReplyStats
	if err := row.Scan(&stats.Date, &stats.Today, &stats.Total); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.ReplyStats{Date: today()}, nil
		}
		return store.ReplyStats{}, fmt.Errorf("get reply stats: %w", err)
	}
	// Stale counter from a previous day reads as zero; the row is rewritten
	// on the next increment.
	if stats.Date != today() {
		stats.Date = today()
		stats.Today = 0
	}
	return stats, nil
}

func (s *replyLogStore) IncrementToday(ctx context.Context, accountUID string) (int, error) {
	day := today()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("increment today begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
INSERT INTO reply_stats(account_uid, stat_date, today, total)
VALUES(?, ?, 1, 1)
ON CONFLICT(account_uid) DO UPDATE SET
	today = CASE WHEN reply_stats.stat_date = excluded.stat_date THEN reply_stats.today + 1 ELSE 1 END,
	total = reply_stats.total + 1,
	stat_date = excluded.stat_date`, accountUID, day); err != nil {
		return 0, fmt.Errorf("increment today upsert: %w", err)
	}

	row := tx.QueryRowContext(ctx, `
SELECT today FROM reply_stats WHERE account_uid = ?`, accountUID)
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("increment today read: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("increment today commit: %w", err)
	}
	return count, nil
}

func (s *replyLogStore) Logs(ctx context.Context, accountUID string, limit, offset int) ([]store.ReplyLogEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, account_uid, peer_id, peer_label, keyword, original_text, reply_text, success, error_detail, created_at_ms
FROM reply_logs
WHERE account_uid = ?
ORDER BY created_at_ms DESC, id DESC
LIMIT ? OFFSET ?`, accountUID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list reply logs: %w", err)
	}
	defer rows.Close()

	out := []store.ReplyLogEntry{}
	for rows.Next() {
		var e store.ReplyLogEntry
		var success int
		var createdMS int64
		if err := rows.Scan(&e.ID, &e.AccountUID, &e.PeerID, &e.PeerLabel, &e.Keyword, &e.OriginalText, &e.ReplyText, &success, &e.ErrorDetail, &createdMS); err != nil {
			return nil, fmt.Errorf("scan reply log: %w", err)
		}
		e.Success = success != 0
		e.Timestamp = time.UnixMilli(createdMS)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reply logs: %w", err)
	}
	return out, nil
}

func (s *replyLogStore) DailyStats(ctx context.Context, accountUID string, days int) ([]store.DailyStat, error) {
	if days <= 0 {
		days = 7
	}
	since := time.Now().AddDate(0, 0, -days).UnixMilli()
	rows, err := s.db.QueryContext(ctx, `
SELECT date(created_at_ms / 1000, 'unixepoch', 'localtime') AS day, COUNT(*)
FROM reply_logs
WHERE account_uid = ? AND success = 1 AND created_at_ms >= ?
GROUP BY day
ORDER BY day DESC`, accountUID, since)
	if err != nil {
		return nil, fmt.Errorf("daily stats: %w", err)
	}
	defer rows.Close()

	out := []store.DailyStat{}
	for rows.Next() {
		var d store.DailyStat
		if err := rows.Scan(&d.Date, &d.Count); err != nil {
			return nil, fmt.Errorf("scan daily stat: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate daily stats: %w", err)
	}
	return out, nil
}

func (s *replyLogStore) KeywordStats(ctx context.Context, accountUID string, limit int) ([]store.KeywordStat, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT keyword, COUNT(*) AS hits
FROM reply_logs
WHERE account_uid = ? AND success = 1 AND keyword <> ''
GROUP BY keyword
ORDER BY hits DESC, keyword ASC
LIMIT ?`, accountUID, limit)
	if err != nil {
		return nil, fmt.Errorf("keyword stats: %w", err)
	}
	defer rows.Close()

	out := []store.KeywordStat{}
	for rows.Next() {
		var k store.KeywordStat
		if err := rows.Scan(&k.Keyword, &k.Count); err != nil {
			return nil, fmt.Errorf("scan keyword stat: %w", err)
		}
		out = append(out, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate keyword stats: %w", err)
	}
	return out, nil
}
