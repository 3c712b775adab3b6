package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/nextlevelbuilder/bilireply/internal/bilibili"
	"github.com/nextlevelbuilder/bilireply/internal/store"
)

// API is the slice of the message client the listener consumes.
// *bilibili.Client satisfies it.
type API interface {
	UID() string
	ListSessions(ctx context.Context, kind bilibili.SessionKind, size int) ([]bilibili.Session, error)
	FetchMessages(ctx context.Context, talkerID int64, kind bilibili.SessionKind, size int, beginSeqno int64) ([]bilibili.Message, error)
	SendMessage(ctx context.Context, receiverID int64, kind bilibili.SessionKind, text string) error
}

// State of a listener worker.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateStopping
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	default:
		return "unknown"
	}
}

const (
	// maxMessageAge gates out backlog older than a day; those conversations
	// are considered settled.
	maxMessageAge = 24 * time.Hour

	// failureBackoff is the sleep after a failed session fetch.
	failureBackoff = 10 * time.Second

	// stopTimeout bounds the Stop join on the worker goroutine.
	stopTimeout = 5 * time.Second
)

// Listener is the per-account auto-reply worker. It polls recent sessions,
// matches inbound text messages against the account's rules, and sends at
// most one reply per message identity per process lifetime.
type Listener struct {
	api      API
	stores   store.Stores
	notifier Notifier

	selfUID int64

	processed *SeenSet // every identity a decision was made for
	replied   *SeenSet // identities a reply was actually sent for

	mu     sync.Mutex
	state  State
	cancel context.CancelFunc
	done   chan struct{}

	// delayFn is replaced in tests to skip the randomized wait.
	delayFn func(minSec, maxSec int) time.Duration
	// now is replaced in tests to control the age gate.
	now func() time.Time
}

// NewListener creates an idle listener for the account behind api.
func NewListener(api API, stores store.Stores, notifier Notifier) *Listener {
	selfUID, _ := strconv.ParseInt(api.UID(), 10, 64)
	return &Listener{
		api:       api,
		stores:    stores,
		notifier:  notifier,
		selfUID:   selfUID,
		processed: NewSeenSet(defaultSeenCapacity),
		replied:   NewSeenSet(defaultSeenCapacity),
		delayFn:   replyDelay,
		now:       time.Now,
	}
}

// State returns the current worker state.
func (l *Listener) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Start launches the worker goroutine. Starting a running listener is a
// no-op; there is never a second worker. The enabled flag is persisted so a
// restart resumes listening.
func (l *Listener) Start(ctx context.Context) error {
	l.mu.Lock()
	if l.state != StateIdle {
		l.mu.Unlock()
		return nil
	}

	lctx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.done = make(chan struct{})
	l.state = StateRunning
	l.mu.Unlock()

	if err := l.persistEnabled(ctx, true); err != nil {
		slog.Warn("persist enabled flag", "uid", l.api.UID(), "error", err)
	}

	slog.Info("auto-reply listener started", "uid", l.api.UID())
	notify(l.notifier, "auto-reply listening started", CategoryInfo)
	go l.run(lctx)
	return nil
}

// Stop cancels the worker and waits for it, bounded by stopTimeout.
// In-flight HTTP calls complete; sleeps are interrupted. The disabled flag
// is persisted. Stopping an idle listener is a no-op.
func (l *Listener) Stop(ctx context.Context) error {
	l.mu.Lock()
	if l.state != StateRunning {
		l.mu.Unlock()
		return nil
	}
	l.state = StateStopping
	cancel := l.cancel
	done := l.done
	l.mu.Unlock()

	cancel()
	select {
	case <-done:
	case <-time.After(stopTimeout):
		slog.Warn("listener worker did not stop in time", "uid", l.api.UID())
	}

	if err := l.persistEnabled(ctx, false); err != nil {
		slog.Warn("persist enabled flag", "uid", l.api.UID(), "error", err)
	}

	l.mu.Lock()
	l.state = StateIdle
	l.mu.Unlock()

	slog.Info("auto-reply listener stopped", "uid", l.api.UID())
	notify(l.notifier, "auto-reply listening stopped", CategoryInfo)
	return nil
}

func (l *Listener) persistEnabled(ctx context.Context, enabled bool) error {
	cfg, err := l.stores.Configs.Get(ctx, l.api.UID())
	if err != nil {
		return err
	}
	cfg.Enabled = enabled
	return l.stores.Configs.Save(ctx, cfg)
}

func (l *Listener) run(ctx context.Context) {
	defer func() {
		l.mu.Lock()
		if l.state == StateRunning {
			l.state = StateIdle
		}
		l.mu.Unlock()
		close(l.done)
	}()

	for {
		if ctx.Err() != nil {
			return
		}

		cfg, err := l.stores.Configs.Get(ctx, l.api.UID())
		if err != nil {
			slog.Warn("load account config", "uid", l.api.UID(), "error", err)
			cfg = store.DefaultAccountConfig(l.api.UID())
		}

		if err := l.scanCycle(ctx, cfg); err != nil {
			if ctx.Err() != nil {
				return
			}
			notify(l.notifier, "session fetch failed: "+err.Error(), CategoryWarning)
			slog.Warn("scan cycle failed", "uid", l.api.UID(), "error", err)
			if sleepCtx(ctx, failureBackoff) != nil {
				return
			}
			continue
		}

		interval := time.Duration(cfg.ScanInterval) * time.Second
		if interval <= 0 {
			interval = time.Duration(store.DefaultAccountConfig(l.api.UID()).ScanInterval) * time.Second
		}
		if sleepCtx(ctx, interval) != nil {
			return
		}
	}
}

// scanCycle runs one full pass: session list, per-session message scan,
// per-message reply pipeline. Only the session list fetch can fail the
// cycle; everything below is contained.
func (l *Listener) scanCycle(ctx context.Context, cfg store.AccountConfig) error {
	sessions, err := l.api.ListSessions(ctx, bilibili.KindAll, bilibili.DefaultSessionSize)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		return nil
	}

	rules, err := l.stores.Rules.List(ctx, l.api.UID(), true)
	if err != nil {
		return fmt.Errorf("load rules: %w", err)
	}

	notify(l.notifier, fmt.Sprintf("scanning %d sessions", len(sessions)), CategoryScan)

	for _, sess := range sessions {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		l.scanSession(ctx, cfg, rules, sess)
	}
	return nil
}

// scanSession processes one conversation. Failures are logged and the scan
// moves on to the next session.
func (l *Listener) scanSession(ctx context.Context, cfg store.AccountConfig, rules []store.Rule, sess bilibili.Session) {
	msgs, err := l.api.FetchMessages(ctx, sess.TalkerID, sess.SessionType, bilibili.ScanFetchSize, 0)
	if err != nil {
		slog.Warn("fetch session messages", "uid", l.api.UID(), "talker_id", sess.TalkerID, "error", err)
		return
	}

	for _, msg := range msgs {
		if ctx.Err() != nil {
			return
		}
		if err := l.handleMessage(ctx, cfg, rules, sess, msg); err != nil {
			if ctx.Err() != nil {
				return
			}
			slog.Warn("handle message", "uid", l.api.UID(), "talker_id", sess.TalkerID, "error", err)
		}
	}
}

// handleMessage runs the reply pipeline for one raw message.
func (l *Listener) handleMessage(ctx context.Context, cfg store.AccountConfig, rules []store.Rule, sess bilibili.Session, msg bilibili.Message) error {
	if msg.SenderUID == l.selfUID {
		return nil
	}
	if msg.MsgType != bilibili.MsgTypeText {
		return nil
	}

	id := MessageIdentity(sess.TalkerID, msg)
	if l.replied.Contains(id) {
		return nil
	}
	if !l.processed.CheckAndMark(id) {
		return nil
	}

	if l.now().Sub(time.Unix(msg.Timestamp, 0)) > maxMessageAge {
		return nil
	}

	text := strings.TrimSpace(bilibili.TextContent(msg.Content))
	if text == "" {
		return nil
	}

	notify(l.notifier, fmt.Sprintf("message from %s: %s", sess.PeerLabel(), text), CategoryMessage)

	rule, ok := Match(text, rules)
	if !ok {
		return nil
	}

	// A limit of zero means unlimited.
	if cfg.DailyLimit > 0 {
		stats, err := l.stores.Logs.Stats(ctx, l.api.UID())
		if err != nil {
			return fmt.Errorf("load reply stats: %w", err)
		}
		if stats.Today >= cfg.DailyLimit {
			notify(l.notifier, fmt.Sprintf("daily reply limit reached (%d)", cfg.DailyLimit), CategoryWarning)
			return nil
		}
	}

	delay := l.delayFn(cfg.ReplyDelayMin, cfg.ReplyDelayMax)
	if err := sleepCtx(ctx, delay); err != nil {
		return err
	}

	entry := store.ReplyLogEntry{
		AccountUID:   l.api.UID(),
		PeerID:       sess.TalkerID,
		PeerLabel:    sess.PeerLabel(),
		Keyword:      rule.Keyword,
		OriginalText: text,
		ReplyText:    rule.ReplyText,
		Timestamp:    l.now(),
	}

	if err := l.api.SendMessage(ctx, sess.TalkerID, sess.SessionType, rule.ReplyText); err != nil {
		entry.Success = false
		entry.ErrorDetail = err.Error()
		if logErr := l.stores.Logs.AppendLog(ctx, entry); logErr != nil {
			slog.Warn("append reply log", "uid", l.api.UID(), "error", logErr)
		}
		notify(l.notifier, fmt.Sprintf("reply to %s failed: %v", sess.PeerLabel(), err), CategoryError)
		return fmt.Errorf("send reply to %d: %w", sess.TalkerID, err)
	}

	l.replied.Mark(id)
	entry.Success = true
	if err := l.stores.Logs.AppendLog(ctx, entry); err != nil {
		slog.Warn("append reply log", "uid", l.api.UID(), "error", err)
	}
	count, err := l.stores.Logs.IncrementToday(ctx, l.api.UID())
	if err != nil {
		slog.Warn("increment reply counter", "uid", l.api.UID(), "error", err)
	}

	slog.Info("auto reply sent",
		"uid", l.api.UID(), "talker_id", sess.TalkerID,
		"keyword", rule.Keyword, "today", count)
	notify(l.notifier, fmt.Sprintf("replied to %s (rule: %s)", sess.PeerLabel(), rule.Keyword), CategorySuccess)
	return nil
}
