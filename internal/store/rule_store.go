package store

import (
	"context"
	"time"
)

// Rule is one keyword auto-reply rule for an account.
// MatchKind is the wire name of the match strategy; the engine parses and
// validates it. Unknown kinds never match, they do not fail the scan.
type Rule struct {
	ID            int64
	AccountUID    string
	Keyword       string
	MatchKind     string
	CaseSensitive bool
	Enabled       bool
	Priority      int
	ReplyText     string
	Description   string
	CreatedAt     time.Time
}

// RuleStore persists the per-account rule set.
type RuleStore interface {
	// Save inserts a new rule (ID zero, assigned on return) or updates an
	// existing one in place.
	Save(ctx context.Context, rule *Rule) error

	// List returns the account's rules ordered by priority descending, then
	// by creation order. The engine consumes this order as-is: the first
	// matching rule wins.
	List(ctx context.Context, accountUID string, enabledOnly bool) ([]Rule, error)

	Delete(ctx context.Context, accountUID string, id int64) error
	ToggleEnabled(ctx context.Context, accountUID string, id int64, enabled bool) error
}
