package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/nextlevelbuilder/bilireply/internal/store"
)

type configStore struct {
	db *sql.DB
}

var _ store.ConfigStore = (*configStore)(nil)

func (s *configStore) Get(ctx context.Context, accountUID string) (store.AccountConfig, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT account_uid, reply_delay_min, reply_delay_max, daily_limit, scan_interval, enabled
FROM account_configs WHERE account_uid = ?`, accountUID)

	var cfg store.AccountConfig
	var enabled int
	if err := row.Scan(&cfg.AccountUID, &cfg.ReplyDelayMin, &cfg.ReplyDelayMax, &cfg.DailyLimit, &cfg.ScanInterval, &enabled); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.DefaultAccountConfig(accountUID), nil
		}
		return store.AccountConfig{}, fmt.Errorf("get account config: %w", err)
	}
	cfg.Enabled = enabled != 0
	return cfg, nil
}

func (s *configStore) Save(ctx context.Context, cfg store.AccountConfig) error {
	if strings.TrimSpace(cfg.AccountUID) == "" {
		return fmt.Errorf("save account config: empty account uid")
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO account_configs(account_uid, reply_delay_min, reply_delay_max, daily_limit, scan_interval, enabled)
VALUES(?, ?, ?, ?, ?, ?)
ON CONFLICT(account_uid) DO UPDATE SET
	reply_delay_min = excluded.reply_delay_min,
	reply_delay_max = excluded.reply_delay_max,
	daily_limit = excluded.daily_limit,
	scan_interval = excluded.scan_interval,
	enabled = excluded.enabled`,
		cfg.AccountUID, cfg.ReplyDelayMin, cfg.ReplyDelayMax, cfg.DailyLimit, cfg.ScanInterval, boolInt(cfg.Enabled))
	if err != nil {
		return fmt.Errorf("save account config: %w", err)
	}
	return nil
}
