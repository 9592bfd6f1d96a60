package gueststate

import (
	"context"
	"errors"
)

// Mutation is the reusable optimistic-update helper: Apply runs the local
// change immediately, Effect attempts the durable side of it, and Revert
// replays the inverse when the effect fails. Every toggle and badge update
// goes through this instead of open-coding its own rollback.
type Mutation struct {
	Apply  func() error
	Effect func(ctx context.Context) error
	Revert func() error
}

// Run executes the mutation. The returned error is the effect's error; a
// revert failure is joined onto it rather than swallowed.
func (m Mutation) Run(ctx context.Context) error {
	if m.Apply != nil {
		if err := m.Apply(); err != nil {
			return err
		}
	}
	if m.Effect == nil {
		return nil
	}
	if err := m.Effect(ctx); err != nil {
		if m.Revert != nil {
			if rerr := m.Revert(); rerr != nil {
				return errors.Join(err, rerr)
			}
		}
		return err
	}
	return nil
}
