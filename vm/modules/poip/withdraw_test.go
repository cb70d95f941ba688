package poip_test

import (
	"errors"
	"testing"

	"github.com/tolelom/tolchain/core"
	"github.com/tolelom/tolchain/wallet"
)

func mustWithdraw(t *testing.T, h *harness, owner *wallet.Wallet, ipid string) {
	t.Helper()
	req, err := owner.Withdraw(ipid, h.nonce(owner.PubKey()))
	if err != nil {
		t.Fatalf("build withdraw: %v", err)
	}
	h.requireOK(req)
}

func TestFiniteWithdrawTakesEverythingPaidIn(t *testing.T) {
	h := newHarness(t)
	alice := newWallet(t)
	publishTestContract(t, h, alice, "ip-1", core.FiniteBuyout, 50, 2, 0)

	p1, p2 := newWallet(t), newWallet(t)
	h.fund(p1.PubKey(), 50)
	h.fund(p2.PubKey(), 50)
	mustPay(t, h, p1, "ip-1")
	mustPay(t, h, p2, "ip-1")

	mustWithdraw(t, h, alice, "ip-1")

	if got := h.balance(alice.PubKey()); got != 100 {
		t.Fatalf("expected owner balance 100, got %d", got)
	}
	ci, err := h.state.GetContractIssue("ip-1")
	if err != nil {
		t.Fatalf("GetContractIssue: %v", err)
	}
	if ci.Escrow != 0 {
		t.Fatalf("expected escrow drained to 0, got %d", ci.Escrow)
	}

	// A second withdraw with nothing new paid in has no funds to take.
	req, err := alice.Withdraw("ip-1", h.nonce(alice.PubKey()))
	if err != nil {
		t.Fatalf("build second withdraw: %v", err)
	}
	if err := h.do(req); !errors.Is(err, core.ErrContractHasNoFunds) {
		t.Fatalf("expected ErrContractHasNoFunds, got %v", err)
	}
}

func TestCompensativeWithdrawIsCappedAtGoalcount(t *testing.T) {
	h := newHarness(t)
	alice := newWallet(t)
	publishTestContract(t, h, alice, "ip-1", core.CompensativeBuyout, 100, 3, 0)

	payers := make([]*wallet.Wallet, 4)
	for i := range payers {
		payers[i] = newWallet(t)
		h.fund(payers[i].PubKey(), 100)
		mustPay(t, h, payers[i], "ip-1")
	}

	mustWithdraw(t, h, alice, "ip-1")
	// OwnerOwedSlots = min(currcount=4, goalcount=3) - 0 = 3 slots * price 100 = 300.
	if got := h.balance(alice.PubKey()); got != 300 {
		t.Fatalf("expected owner to withdraw 300 (capped at goalcount), got %d", got)
	}

	ci, err := h.state.GetContractIssue("ip-1")
	if err != nil {
		t.Fatalf("GetContractIssue: %v", err)
	}
	if ci.Escrow != 75 {
		t.Fatalf("expected escrow 75 remaining (375-300), got %d", ci.Escrow)
	}

	req, err := alice.Withdraw("ip-1", h.nonce(alice.PubKey()))
	if err != nil {
		t.Fatalf("build second withdraw: %v", err)
	}
	if err := h.do(req); !errors.Is(err, core.ErrContractHasNoFunds) {
		t.Fatalf("expected ErrContractHasNoFunds once owner slots are exhausted, got %v", err)
	}
}

func TestWithdrawByNonOwnerIsUnauthorized(t *testing.T) {
	h := newHarness(t)
	alice := newWallet(t)
	mallory := newWallet(t)
	publishTestContract(t, h, alice, "ip-1", core.FiniteBuyout, 50, 1, 0)

	payer := newWallet(t)
	h.fund(payer.PubKey(), 50)
	mustPay(t, h, payer, "ip-1")

	req, err := mallory.Withdraw("ip-1", h.nonce(mallory.PubKey()))
	if err != nil {
		t.Fatalf("build withdraw: %v", err)
	}
	if err := h.do(req); !errors.Is(err, core.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
