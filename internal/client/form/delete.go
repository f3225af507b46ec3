package form

import (
	"context"
	"errors"

	"sync"

	"github.com/ascollins/portfolioctl/internal/client/api"
	"github.com/ascollins/portfolioctl/internal/client/notify"
)

// ErrNothingStaged is returned by Confirm when no target is staged.
var ErrNothingStaged = errors.New("form: no delete target staged")

// DeleteState is the state of the delete confirmation flow.
type DeleteState int

const (
	// StateIdle means no target is selected.
	StateIdle DeleteState = iota
	// StatePendingConfirmation means a target id is staged.
	StatePendingConfirmation
	// StateDeleting means the delete mutation is in flight.
	StateDeleting
)

// DeleteFlow is the two-step destructive action: stage a target id, then
// confirm. Staging a new target while one is staged replaces it; the flow
// returns to idle after a confirm regardless of the outcome.
type DeleteFlow struct {
	mu       sync.Mutex
	state    DeleteState
	target   int64
	notifier notify.Notifier
}

// NewDeleteFlow creates an idle flow.
func NewDeleteFlow(notifier notify.Notifier) *DeleteFlow {
	return &DeleteFlow{notifier: notifier}
}

// State returns the current state.
func (f *DeleteFlow) State() DeleteState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Target returns the staged id and whether one is staged.
func (f *DeleteFlow) Target() (int64, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.target, f.state == StatePendingConfirmation
}

// Stage records delete intent for id. Last intent wins: an already staged
// target is simply replaced. Staging is ignored while a delete is in flight.
func (f *DeleteFlow) Stage(id int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == StateDeleting {
		return
	}
	f.state = StatePendingConfirmation
	f.target = id
}

// Cancel returns the flow to idle without deleting.
func (f *DeleteFlow) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == StatePendingConfirmation {
		f.state = StateIdle
		f.target = 0
	}
}

// Confirm runs remove against the staged target. The flow passes through
// deleting and ends idle whether or not the mutation succeeded; a failure
// emits a failure notification with the remote message when present.
func (f *DeleteFlow) Confirm(ctx context.Context, remove func(ctx context.Context, id int64) error, successMsg, fallbackMsg string) error {
	f.mu.Lock()
	if f.state != StatePendingConfirmation {
		f.mu.Unlock()
		return ErrNothingStaged
	}
	id := f.target
	f.state = StateDeleting
	f.mu.Unlock()

	err := remove(ctx, id)

	f.mu.Lock()
	f.state = StateIdle
	f.target = 0
	f.mu.Unlock()

	if err != nil {
		notify.Failuref(f.notifier, api.RemoteMessage(err, fallbackMsg))
		return err
	}
	notify.Successf(f.notifier, successMsg)
	return nil
}
