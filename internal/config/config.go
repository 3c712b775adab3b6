// Package config holds the application config: account credentials and the
// database location. Engine tunables (delays, limits, intervals) live in the
// database instead, so editing rules never touches credentials on disk.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// AccountCredentials identify one linked account. Cookie values come from a
// logged-in browser session.
type AccountCredentials struct {
	UID      string `json:"uid"`
	SESSDATA string `json:"sessdata"`
	BiliJct  string `json:"bili_jct"`
	Remark   string `json:"remark,omitempty"` // free-form label shown in logs
}

// Config is the on-disk application config.
type Config struct {
	DBPath   string               `json:"db_path"`
	Accounts []AccountCredentials `json:"accounts"`
}

// DefaultPath returns the config file location, honoring BILIREPLY_CONFIG.
func DefaultPath() string {
	if v := os.Getenv("BILIREPLY_CONFIG"); v != "" {
		return v
	}
	return filepath.Join(baseDir(), "config.json5")
}

func baseDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".bilireply"
	}
	return filepath.Join(home, ".bilireply")
}

// Account returns the credentials for uid.
func (c *Config) Account(uid string) (AccountCredentials, bool) {
	for _, a := range c.Accounts {
		if a.UID == uid {
			return a, true
		}
	}
	return AccountCredentials{}, false
}

// Validate rejects configs the daemon cannot run with.
func (c *Config) Validate() error {
	if len(c.Accounts) == 0 {
		return fmt.Errorf("config: no accounts configured")
	}
	seen := map[string]struct{}{}
	for i, a := range c.Accounts {
		if a.UID == "" {
			return fmt.Errorf("config: account %d has no uid", i)
		}
		if a.SESSDATA == "" {
			return fmt.Errorf("config: account %s has no sessdata", a.UID)
		}
		if _, dup := seen[a.UID]; dup {
			return fmt.Errorf("config: duplicate account %s", a.UID)
		}
		seen[a.UID] = struct{}{}
	}
	return nil
}
