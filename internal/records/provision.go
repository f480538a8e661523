// ABOUTME: Default provisioning for newly registered users
// ABOUTME: Seeds the six well-known kv records before the first read

package records

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/focusflow/focusflow/internal/store"
)

// Provisioner seeds a new user's kv namespace with starting values.
type Provisioner struct {
	store  store.Store
	logger *slog.Logger

	// now is swappable for tests; the default challenge depends on it
	now func() time.Time
}

// NewProvisioner creates a Provisioner backed by the given store.
func NewProvisioner(s store.Store) *Provisioner {
	return &Provisioner{
		store:  s,
		logger: slog.Default().With("component", "provision"),
		now:    time.Now,
	}
}

// Provision writes the six default records for a brand-new user. It runs
// synchronously during registration so the stored defaults (the starter
// tags in particular) are visible to the very first authenticated read
// instead of being regenerated on every miss.
func (p *Provisioner) Provision(ctx context.Context, userID string) error {
	now := p.now()

	if err := Put(ctx, p.store, userID, KeyTasks, []Task{}); err != nil {
		return fmt.Errorf("provisioning tasks: %w", err)
	}
	if err := Put(ctx, p.store, userID, KeyTags, DefaultTags()); err != nil {
		return fmt.Errorf("provisioning tags: %w", err)
	}
	if err := Put(ctx, p.store, userID, KeySessions, []SessionRecord{}); err != nil {
		return fmt.Errorf("provisioning sessions: %w", err)
	}
	if err := Put(ctx, p.store, userID, KeySettings, DefaultSettings()); err != nil {
		return fmt.Errorf("provisioning settings: %w", err)
	}
	if err := Put(ctx, p.store, userID, KeyChallenge, DefaultChallenge(now)); err != nil {
		return fmt.Errorf("provisioning challenge: %w", err)
	}
	if err := Put(ctx, p.store, userID, KeyDraft, DefaultDraft()); err != nil {
		return fmt.Errorf("provisioning draft: %w", err)
	}

	p.logger.Info("provisioned defaults", "user_id", userID)
	return nil
}
