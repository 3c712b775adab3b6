package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/nextlevelbuilder/bilireply/internal/store"
)

type ruleStore struct {
	db *sql.DB
}

var _ store.RuleStore = (*ruleStore)(nil)

func (s *ruleStore) Save(ctx context.Context, rule *store.Rule) error {
	if rule == nil {
		return fmt.Errorf("save rule: nil rule")
	}
	if strings.TrimSpace(rule.AccountUID) == "" {
		return fmt.Errorf("save rule: empty account uid")
	}
	if strings.TrimSpace(rule.Keyword) == "" {
		return fmt.Errorf("save rule: empty keyword")
	}
	if strings.TrimSpace(rule.ReplyText) == "" {
		return fmt.Errorf("save rule: empty reply text")
	}
	if rule.MatchKind == "" {
		rule.MatchKind = "contains"
	}

	if rule.ID == 0 {
		if rule.CreatedAt.IsZero() {
			rule.CreatedAt = time.Now()
		}
		res, err := s.db.ExecContext(ctx, `
INSERT INTO auto_reply_rules(account_uid, keyword, match_kind, case_sensitive, enabled, priority, reply_text, description, created_at_ms)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			rule.AccountUID, rule.Keyword, rule.MatchKind, boolInt(rule.CaseSensitive),
			boolInt(rule.Enabled), rule.Priority, rule.ReplyText, rule.Description,
			rule.CreatedAt.UnixMilli())
		if err != nil {
			return fmt.Errorf("insert rule: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("insert rule id: %w", err)
		}
		rule.ID = id
		return nil
	}

	res, err := s.db.ExecContext(ctx, `
UPDATE auto_reply_rules
SET keyword = ?, match_kind = ?, case_sensitive = ?, enabled = ?, priority = ?, reply_text = ?, description = ?
WHERE id = ? AND account_uid = ?`,
		rule.Keyword, rule.MatchKind, boolInt(rule.CaseSensitive), boolInt(rule.Enabled),
		rule.Priority, rule.ReplyText, rule.Description, rule.ID, rule.AccountUID)
	if err != nil {
		return fmt.Errorf("update rule: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update rule: rule %d not found", rule.ID)
	}
	return nil
}

func (s *ruleStore) List(ctx context.Context, accountUID string, enabledOnly bool) ([]store.Rule, error) {
	enabledFilter := 0
	if enabledOnly {
		enabledFilter = 1
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, account_uid, keyword, match_kind, case_sensitive, enabled, priority, reply_text, description, created_at_ms
FROM auto_reply_rules
WHERE account_uid = ?
AND (? = 0 OR enabled = 1)
ORDER BY priority DESC, id ASC`, accountUID, enabledFilter)
	if err != nil {
		return nil, fmt.Errorf("list rules: %w", err)
	}
	defer rows.Close()

	out := []store.Rule{}
	for rows.Next() {
		var r store.Rule
		var caseSensitive, enabled int
		var createdMS int64
		if err := rows.Scan(&r.ID, &r.AccountUID, &r.Keyword, &r.MatchKind, &caseSensitive, &enabled, &r.Priority, &r.ReplyText, &r.Description, &createdMS); err != nil {
			return nil, fmt.Errorf("scan rule: %w", err)
		}
		r.CaseSensitive = caseSensitive != 0
		r.Enabled = enabled != 0
		r.CreatedAt = time.UnixMilli(createdMS)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rules: %w", err)
	}
	return out, nil
}

func (s *ruleStore) Delete(ctx context.Context, accountUID string, id int64) error {
	res, err := s.db.ExecContext(ctx, `
DELETE FROM auto_reply_rules WHERE id = ? AND account_uid = ?`, id, accountUID)
	if err != nil {
		return fmt.Errorf("delete rule: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete rule: rule %d not found", id)
	}
	return nil
}

func (s *ruleStore) ToggleEnabled(ctx context.Context, accountUID string, id int64, enabled bool) error {
	res, err := s.db.ExecContext(ctx, `
UPDATE auto_reply_rules SET enabled = ? WHERE id = ? AND account_uid = ?`, boolInt(enabled), id, accountUID)
	if err != nil {
		return fmt.Errorf("toggle rule: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("toggle rule: rule %d not found", id)
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
