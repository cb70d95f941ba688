// Package poip_test exercises the operation handlers end-to-end through
// vm.Executor, the way a real caller (via wallet-signed requests) would.
package poip_test

import (
	"testing"

	"github.com/tolelom/tolchain/core"
	"github.com/tolelom/tolchain/events"
	"github.com/tolelom/tolchain/internal/testutil"
	"github.com/tolelom/tolchain/vm"

	_ "github.com/tolelom/tolchain/vm/modules/poip"
	"github.com/tolelom/tolchain/wallet"
)

// harness wires a fresh in-memory state, executor, and emitter for one test.
type harness struct {
	t     *testing.T
	state core.State
	exec  *vm.Executor
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	state := testutil.NewStateDB()
	return &harness{t: t, state: state, exec: vm.NewExecutor(state, events.NewEmitter())}
}

// fund credits an account balance directly, bypassing the operation surface —
// equivalent to a prior deposit from the host chain's token program.
func (h *harness) fund(pub string, balance uint64) {
	h.t.Helper()
	if err := h.state.SetAccount(&core.Account{Address: pub, Balance: balance}); err != nil {
		h.t.Fatalf("fund %s: %v", pub, err)
	}
}

func (h *harness) nonce(pub string) uint64 {
	h.t.Helper()
	acc, err := h.state.GetAccount(pub)
	if err != nil {
		h.t.Fatalf("nonce lookup for %s: %v", pub, err)
	}
	return acc.Nonce
}

func (h *harness) balance(pub string) uint64 {
	h.t.Helper()
	acc, err := h.state.GetAccount(pub)
	if err != nil {
		h.t.Fatalf("balance lookup for %s: %v", pub, err)
	}
	return acc.Balance
}

func newWallet(t *testing.T) *wallet.Wallet {
	t.Helper()
	w, err := wallet.Generate()
	if err != nil {
		t.Fatalf("generate wallet: %v", err)
	}
	return w
}

// do executes req through the executor and returns its error, if any.
func (h *harness) do(req *core.Request) error {
	h.t.Helper()
	return h.exec.Execute(req)
}

// requireOK executes req and fails the test on any error.
func (h *harness) requireOK(req *core.Request) {
	h.t.Helper()
	if err := h.do(req); err != nil {
		h.t.Fatalf("expected success, got error: %v", err)
	}
}
