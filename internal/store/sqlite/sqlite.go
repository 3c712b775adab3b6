// Package sqlite is the canonical persistent backend for rules, account
// configs, and reply history.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/nextlevelbuilder/bilireply/internal/store"
)

// Store backs all three store interfaces with one SQLite database.
type Store struct {
	db *sql.DB
}

// Open creates/opens the database at path and initializes the schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// Single-process tool. One shared connection avoids writer lock
	// contention with SQLite under concurrent listener goroutines.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db}
	if err := s.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Stores returns the interface container over this backend. Each concern
// gets its own view onto the shared connection.
func (s *Store) Stores() store.Stores {
	return store.Stores{
		Rules:   &ruleStore{db: s.db},
		Configs: &configStore{db: s.db},
		Logs:    &replyLogStore{db: s.db},
	}
}

func (s *Store) init() error {
	stmts := []string{
		`PRAGMA journal_mode=WAL;`,
		`PRAGMA synchronous=NORMAL;`,
		`PRAGMA busy_timeout=5000;`,
		`CREATE TABLE IF NOT EXISTS auto_reply_rules (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			account_uid TEXT NOT NULL,
			keyword TEXT NOT NULL,
			match_kind TEXT NOT NULL DEFAULT 'contains',
			case_sensitive INTEGER NOT NULL DEFAULT 0,
			enabled INTEGER NOT NULL DEFAULT 1,
			priority INTEGER NOT NULL DEFAULT 0,
			reply_text TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			created_at_ms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS rules_account_idx ON auto_reply_rules(account_uid, enabled, priority DESC, id ASC);`,
		`CREATE TABLE IF NOT EXISTS account_configs (
			account_uid TEXT PRIMARY KEY,
			reply_delay_min INTEGER NOT NULL,
			reply_delay_max INTEGER NOT NULL,
			daily_limit INTEGER NOT NULL,
			scan_interval INTEGER NOT NULL,
			enabled INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS reply_logs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			account_uid TEXT NOT NULL,
			peer_id INTEGER NOT NULL,
			peer_label TEXT NOT NULL DEFAULT '',
			keyword TEXT NOT NULL DEFAULT '',
			original_text TEXT NOT NULL DEFAULT '',
			reply_text TEXT NOT NULL DEFAULT '',
			success INTEGER NOT NULL DEFAULT 0,
			error_detail TEXT NOT NULL DEFAULT '',
			created_at_ms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS logs_account_idx ON reply_logs(account_uid, created_at_ms DESC);`,
		`CREATE TABLE IF NOT EXISTS reply_stats (
			account_uid TEXT PRIMARY KEY,
			stat_date TEXT NOT NULL,
			today INTEGER NOT NULL DEFAULT 0,
			total INTEGER NOT NULL DEFAULT 0
		);`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("init sqlite schema failed on %q: %w", trimSQL(stmt), err)
		}
	}
	return nil
}

func trimSQL(stmt string) string {
	line := strings.TrimSpace(stmt)
	if len(line) > 96 {
		return line[:96] + "..."
	}
	return line
}

func nowMS() int64 { return time.Now().UnixMilli() }

// today returns the local calendar date the daily counter keys on.
func today() string { return time.Now().Format("2006-01-02") }
