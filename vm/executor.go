package vm

import (
	"fmt"
	"math"

	"github.com/tolelom/tolchain/core"
	"github.com/tolelom/tolchain/events"
)

// Context is passed to every Handler and provides access to the engine
// state, the triggering request, and the event emitter.
type Context struct {
	State   core.State
	Req     *core.Request
	Emitter *events.Emitter
}

// Executor applies requests to the state using the global Handler registry.
type Executor struct {
	state   core.State
	emitter *events.Emitter
}

// NewExecutor creates an Executor with the given state and event emitter.
func NewExecutor(state core.State, emitter *events.Emitter) *Executor {
	return &Executor{state: state, emitter: emitter}
}

// Execute verifies and applies a single request with snapshot/rollback:
// either every read, mutation, and transfer commits, or nothing does.
func (e *Executor) Execute(req *core.Request) error {
	if err := req.Verify(); err != nil {
		return fmt.Errorf("signature: %w", err)
	}

	snapID, err := e.state.Snapshot()
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}

	if err := e.applyReq(req); err != nil {
		if revertErr := e.state.RevertToSnapshot(snapID); revertErr != nil {
			return fmt.Errorf("revert snapshot after request failure: %w (revert: %v)", err, revertErr)
		}
		return err
	}

	if err := e.state.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	if e.emitter != nil {
		e.emitter.Emit(events.Event{
			Type:      events.EventRequestExecuted,
			RequestID: req.ID,
			Data:      map[string]any{"op": string(req.Op), "from": req.From},
		})
	}
	return nil
}

// applyReq increments the caller's nonce, then dispatches to the handler.
func (e *Executor) applyReq(req *core.Request) error {
	acc, err := e.state.GetAccount(req.From)
	if err != nil {
		return fmt.Errorf("get account: %w", err)
	}
	if acc.Nonce != req.Nonce {
		return fmt.Errorf("invalid nonce: expected %d got %d", acc.Nonce, req.Nonce)
	}
	if acc.Nonce == math.MaxUint64 {
		return fmt.Errorf("nonce overflow for account %s", req.From)
	}
	acc.Nonce++
	if err := e.state.SetAccount(acc); err != nil {
		return err
	}

	ctx := &Context{
		State:   e.state,
		Req:     req,
		Emitter: e.emitter,
	}
	return globalRegistry.Execute(req.Op, ctx, req.Payload)
}
