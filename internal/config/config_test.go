package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.json5"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBPath == "" {
		t.Error("default db path should be set")
	}
	if len(cfg.Accounts) != 0 {
		t.Errorf("accounts = %v, want none", cfg.Accounts)
	}
}

func TestLoadParsesJSON5(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json5")
	content := `{
	// primary account
	db_path: "/tmp/test.db",
	accounts: [
		{uid: "12345", sessdata: "sess", bili_jct: "jct"},
	],
}`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBPath != "/tmp/test.db" {
		t.Errorf("db path = %q", cfg.DBPath)
	}
	if len(cfg.Accounts) != 1 || cfg.Accounts[0].UID != "12345" {
		t.Errorf("accounts = %+v", cfg.Accounts)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("BILIREPLY_DB", "/tmp/env.db")
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.json5"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBPath != "/tmp/env.db" {
		t.Errorf("db path = %q, want env override", cfg.DBPath)
	}
}

func TestSaveRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json5")
	cfg := Default()
	cfg.Accounts = []AccountCredentials{{UID: "12345", SESSDATA: "sess", BiliJct: "jct", Remark: "main"}}

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("config file mode = %o, want 600", perm)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got.Accounts) != 1 || got.Accounts[0].Remark != "main" {
		t.Errorf("accounts = %+v", got.Accounts)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"empty", Config{}, true},
		{"missing uid", Config{Accounts: []AccountCredentials{{SESSDATA: "s"}}}, true},
		{"missing sessdata", Config{Accounts: []AccountCredentials{{UID: "1"}}}, true},
		{"duplicate uid", Config{Accounts: []AccountCredentials{{UID: "1", SESSDATA: "s"}, {UID: "1", SESSDATA: "s"}}}, true},
		{"ok", Config{Accounts: []AccountCredentials{{UID: "1", SESSDATA: "s", BiliJct: "j"}}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
