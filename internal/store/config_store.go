package store

import (
	"context"
	"fmt"
)

// AccountConfig holds the engine tunables for one account. These live in the
// database rather than the config file so rule edits and the listener toggle
// survive restarts without touching credentials.
type AccountConfig struct {
	AccountUID    string
	ReplyDelayMin int // seconds, lower bound of the randomized reply delay
	ReplyDelayMax int // seconds, upper bound
	DailyLimit    int // max auto replies per calendar day
	ScanInterval  int // seconds between scan cycles
	Enabled       bool
}

// DefaultAccountConfig returns the stock tunables for a fresh account.
func DefaultAccountConfig(accountUID string) AccountConfig {
	return AccountConfig{
		AccountUID:    accountUID,
		ReplyDelayMin: 2,
		ReplyDelayMax: 8,
		DailyLimit:    100,
		ScanInterval:  8,
		Enabled:       false,
	}
}

// Validate checks the tunables for internal consistency. A DailyLimit of
// zero is valid and means unlimited.
func (c AccountConfig) Validate() error {
	if c.ReplyDelayMin < 0 {
		return fmt.Errorf("reply delay min %d is negative", c.ReplyDelayMin)
	}
	if c.ReplyDelayMax < c.ReplyDelayMin {
		return fmt.Errorf("reply delay max %d is below min %d", c.ReplyDelayMax, c.ReplyDelayMin)
	}
	if c.DailyLimit < 0 {
		return fmt.Errorf("daily limit %d is negative", c.DailyLimit)
	}
	if c.ScanInterval <= 0 {
		return fmt.Errorf("scan interval %d must be positive", c.ScanInterval)
	}
	return nil
}

// ConfigStore persists per-account engine tunables.
type ConfigStore interface {
	// Get returns the stored config, or the defaults when none is stored.
	Get(ctx context.Context, accountUID string) (AccountConfig, error)
	Save(ctx context.Context, cfg AccountConfig) error
}
