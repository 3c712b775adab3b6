package store

import "testing"

func TestAccountConfigValidate(t *testing.T) {
	base := DefaultAccountConfig("12345")
	if err := base.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*AccountConfig)
		ok     bool
	}{
		{"zero limit is unlimited", func(c *AccountConfig) { c.DailyLimit = 0 }, true},
		{"zero delay bounds", func(c *AccountConfig) { c.ReplyDelayMin = 0; c.ReplyDelayMax = 0 }, true},
		{"negative delay min", func(c *AccountConfig) { c.ReplyDelayMin = -1 }, false},
		{"max below min", func(c *AccountConfig) { c.ReplyDelayMin = 5; c.ReplyDelayMax = 2 }, false},
		{"negative limit", func(c *AccountConfig) { c.DailyLimit = -1 }, false},
		{"zero interval", func(c *AccountConfig) { c.ScanInterval = 0 }, false},
		{"negative interval", func(c *AccountConfig) { c.ScanInterval = -8 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultAccountConfig("12345")
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tt.ok && err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}
