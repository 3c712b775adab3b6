// Package accounts runs one auto-reply listener per configured account.
package accounts

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/nextlevelbuilder/bilireply/internal/bilibili"
	"github.com/nextlevelbuilder/bilireply/internal/config"
	"github.com/nextlevelbuilder/bilireply/internal/engine"
	"github.com/nextlevelbuilder/bilireply/internal/store"
)

// Worker is the lifecycle slice of a listener the manager drives.
type Worker interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// Account pairs one set of credentials with its client and worker.
// Accounts share nothing but the store container.
type Account struct {
	UID    string
	Client *bilibili.Client
	Worker Worker
}

// Manager owns the per-account workers.
type Manager struct {
	accounts []*Account
}

// NewManager builds one client and listener per configured account.
func NewManager(creds []config.AccountCredentials, stores store.Stores, notifier engine.Notifier) (*Manager, error) {
	if len(creds) == 0 {
		return nil, fmt.Errorf("accounts: no accounts configured")
	}

	m := &Manager{}
	for _, c := range creds {
		client, err := bilibili.NewClient(bilibili.Credentials{
			UID:      c.UID,
			SESSDATA: c.SESSDATA,
			BiliJct:  c.BiliJct,
		})
		if err != nil {
			return nil, fmt.Errorf("accounts: account %s: %w", c.UID, err)
		}
		m.accounts = append(m.accounts, &Account{
			UID:    c.UID,
			Client: client,
			Worker: engine.NewListener(client, stores, notifier),
		})
	}
	return m, nil
}

// Accounts returns all managed accounts.
func (m *Manager) Accounts() []*Account { return m.accounts }

// Get returns the account with the given uid.
func (m *Manager) Get(uid string) (*Account, bool) {
	for _, a := range m.accounts {
		if a.UID == uid {
			return a, true
		}
	}
	return nil, false
}

// StartAll starts every worker. A failed start stops the whole launch.
func (m *Manager) StartAll(ctx context.Context) error {
	for _, a := range m.accounts {
		if err := a.Worker.Start(ctx); err != nil {
			return fmt.Errorf("accounts: start %s: %w", a.UID, err)
		}
	}
	return nil
}

// StopAll stops every worker in parallel and waits for all joins.
func (m *Manager) StopAll(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, a := range m.accounts {
		a := a
		g.Go(func() error {
			if err := a.Worker.Stop(gctx); err != nil {
				return fmt.Errorf("accounts: stop %s: %w", a.UID, err)
			}
			return nil
		})
	}
	return g.Wait()
}
