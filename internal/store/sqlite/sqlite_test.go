package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nextlevelbuilder/bilireply/internal/store"
)

func newTestStores(t *testing.T) store.Stores {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "bilireply.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s.Stores()
}

func TestRuleSaveAndList(t *testing.T) {
	ctx := context.Background()
	stores := newTestStores(t)

	low := &store.Rule{AccountUID: "100", Keyword: "hello", MatchKind: "contains", Enabled: true, Priority: 1, ReplyText: "hi"}
	high := &store.Rule{AccountUID: "100", Keyword: "price", MatchKind: "exact", Enabled: true, Priority: 5, ReplyText: "see pinned post"}
	disabled := &store.Rule{AccountUID: "100", Keyword: "old", MatchKind: "contains", Enabled: false, Priority: 9, ReplyText: "gone"}

	require.NoError(t, stores.Rules.Save(ctx, low))
	require.NoError(t, stores.Rules.Save(ctx, high))
	require.NoError(t, stores.Rules.Save(ctx, disabled))
	assert.NotZero(t, low.ID)
	assert.NotZero(t, high.ID)

	all, err := stores.Rules.List(ctx, "100", false)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "old", all[0].Keyword, "highest priority first")
	assert.Equal(t, "price", all[1].Keyword)
	assert.Equal(t, "hello", all[2].Keyword)

	enabled, err := stores.Rules.List(ctx, "100", true)
	require.NoError(t, err)
	require.Len(t, enabled, 2)
	assert.Equal(t, "price", enabled[0].Keyword)

	other, err := stores.Rules.List(ctx, "200", false)
	require.NoError(t, err)
	assert.Empty(t, other, "accounts are isolated")
}

func TestRuleSaveTiebreakOnEqualPriority(t *testing.T) {
	ctx := context.Background()
	stores := newTestStores(t)

	first := &store.Rule{AccountUID: "100", Keyword: "first", Enabled: true, Priority: 3, ReplyText: "a"}
	second := &store.Rule{AccountUID: "100", Keyword: "second", Enabled: true, Priority: 3, ReplyText: "b"}
	require.NoError(t, stores.Rules.Save(ctx, first))
	require.NoError(t, stores.Rules.Save(ctx, second))

	rules, err := stores.Rules.List(ctx, "100", true)
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.Equal(t, "first", rules[0].Keyword, "creation order breaks priority ties")
}

func TestRuleUpdate(t *testing.T) {
	ctx := context.Background()
	stores := newTestStores(t)

	rule := &store.Rule{AccountUID: "100", Keyword: "hello", Enabled: true, ReplyText: "hi"}
	require.NoError(t, stores.Rules.Save(ctx, rule))

	rule.ReplyText = "hello there"
	rule.Priority = 7
	rule.Description = "greeting"
	require.NoError(t, stores.Rules.Save(ctx, rule))

	rules, err := stores.Rules.List(ctx, "100", false)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, "hello there", rules[0].ReplyText)
	assert.Equal(t, 7, rules[0].Priority)
	assert.Equal(t, "greeting", rules[0].Description)
}

func TestRuleSaveValidation(t *testing.T) {
	ctx := context.Background()
	stores := newTestStores(t)

	assert.Error(t, stores.Rules.Save(ctx, &store.Rule{AccountUID: "100", ReplyText: "x"}), "empty keyword")
	assert.Error(t, stores.Rules.Save(ctx, &store.Rule{AccountUID: "100", Keyword: "k"}), "empty reply text")
	assert.Error(t, stores.Rules.Save(ctx, &store.Rule{Keyword: "k", ReplyText: "x"}), "empty account uid")
	assert.Error(t, stores.Rules.Save(ctx, &store.Rule{ID: 999, AccountUID: "100", Keyword: "k", ReplyText: "x"}), "update of unknown id")
}

func TestRuleDeleteAndToggle(t *testing.T) {
	ctx := context.Background()
	stores := newTestStores(t)

	rule := &store.Rule{AccountUID: "100", Keyword: "hello", Enabled: true, ReplyText: "hi"}
	require.NoError(t, stores.Rules.Save(ctx, rule))

	require.NoError(t, stores.Rules.ToggleEnabled(ctx, "100", rule.ID, false))
	enabled, err := stores.Rules.List(ctx, "100", true)
	require.NoError(t, err)
	assert.Empty(t, enabled)

	require.NoError(t, stores.Rules.Delete(ctx, "100", rule.ID))
	all, err := stores.Rules.List(ctx, "100", false)
	require.NoError(t, err)
	assert.Empty(t, all)

	assert.Error(t, stores.Rules.Delete(ctx, "100", rule.ID), "double delete")
	assert.Error(t, stores.Rules.ToggleEnabled(ctx, "100", rule.ID, true), "toggle of deleted rule")
}

func TestConfigDefaultsAndRoundtrip(t *testing.T) {
	ctx := context.Background()
	stores := newTestStores(t)

	cfg, err := stores.Configs.Get(ctx, "100")
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.ReplyDelayMin)
	assert.Equal(t, 8, cfg.ReplyDelayMax)
	assert.Equal(t, 100, cfg.DailyLimit)
	assert.Equal(t, 8, cfg.ScanInterval)
	assert.False(t, cfg.Enabled)

	cfg.DailyLimit = 5
	cfg.ScanInterval = 30
	cfg.Enabled = true
	require.NoError(t, stores.Configs.Save(ctx, cfg))

	got, err := stores.Configs.Get(ctx, "100")
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestReplyStatsIncrement(t *testing.T) {
	ctx := context.Background()
	stores := newTestStores(t)

	stats, err := stores.Logs.Stats(ctx, "100")
	require.NoError(t, err)
	assert.Zero(t, stats.Today)
	assert.Zero(t, stats.Total)

	n, err := stores.Logs.IncrementToday(ctx, "100")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	n, err = stores.Logs.IncrementToday(ctx, "100")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	stats, err = stores.Logs.Stats(ctx, "100")
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Today)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, time.Now().Format("2006-01-02"), stats.Date)

	other, err := stores.Logs.Stats(ctx, "200")
	require.NoError(t, err)
	assert.Zero(t, other.Today, "counters are per account")
}

func TestReplyLogsPagination(t *testing.T) {
	ctx := context.Background()
	stores := newTestStores(t)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		require.NoError(t, stores.Logs.AppendLog(ctx, store.ReplyLogEntry{
			AccountUID:   "100",
			PeerID:       int64(1000 + i),
			PeerLabel:    "peer",
			Keyword:      "hello",
			OriginalText: "hello there",
			ReplyText:    "hi",
			Success:      true,
			Timestamp:    base.Add(time.Duration(i) * time.Minute),
		}))
	}

	page, err := stores.Logs.Logs(ctx, "100", 2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, int64(1004), page[0].PeerID, "newest first")
	assert.Equal(t, int64(1003), page[1].PeerID)

	page, err = stores.Logs.Logs(ctx, "100", 2, 4)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, int64(1000), page[0].PeerID)
}

func TestDailyAndKeywordStats(t *testing.T) {
	ctx := context.Background()
	stores := newTestStores(t)

	now := time.Now()
	entries := []store.ReplyLogEntry{
		{AccountUID: "100", PeerID: 1, Keyword: "hello", Success: true, Timestamp: now},
		{AccountUID: "100", PeerID: 2, Keyword: "hello", Success: true, Timestamp: now},
		{AccountUID: "100", PeerID: 3, Keyword: "price", Success: true, Timestamp: now},
		{AccountUID: "100", PeerID: 4, Keyword: "hello", Success: false, ErrorDetail: "send failed", Timestamp: now},
	}
	for _, e := range entries {
		require.NoError(t, stores.Logs.AppendLog(ctx, e))
	}

	daily, err := stores.Logs.DailyStats(ctx, "100", 7)
	require.NoError(t, err)
	require.Len(t, daily, 1)
	assert.Equal(t, 3, daily[0].Count, "failures do not count")

	keywords, err := stores.Logs.KeywordStats(ctx, "100", 10)
	require.NoError(t, err)
	require.Len(t, keywords, 2)
	assert.Equal(t, store.KeywordStat{Keyword: "hello", Count: 2}, keywords[0])
	assert.Equal(t, store.KeywordStat{Keyword: "price", Count: 1}, keywords[1])
}
