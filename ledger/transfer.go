// Package ledger implements the atomic debit/credit primitive that moves
// integer token units between accounts and contract escrow balances.
package ledger

import (
	"github.com/tolelom/tolchain/core"
)

// TransferFromAccount debits from's Account balance by amount and credits
// to's Account balance by the same, failing with core.ErrLamportsNotEnough
// if from's balance is insufficient.
func TransferFromAccount(state core.State, from, to string, amount uint64) error {
	fromAcc, err := state.GetAccount(from)
	if err != nil {
		return err
	}
	if fromAcc.Balance < amount {
		return core.ErrLamportsNotEnough
	}
	toAcc, err := state.GetAccount(to)
	if err != nil {
		return err
	}
	fromAcc.Balance -= amount
	toAcc.Balance += amount
	if err := state.SetAccount(fromAcc); err != nil {
		return err
	}
	return state.SetAccount(toAcc)
}

// DepositToEscrow debits payer's Account balance by amount and credits it to
// ci.Escrow. ci is mutated in place; the caller persists it.
func DepositToEscrow(state core.State, ci *core.ContractIssue, payer string, amount uint64) error {
	payerAcc, err := state.GetAccount(payer)
	if err != nil {
		return err
	}
	if payerAcc.Balance < amount {
		return core.ErrLamportsNotEnough
	}
	payerAcc.Balance -= amount
	if err := state.SetAccount(payerAcc); err != nil {
		return err
	}
	ci.Escrow += amount
	return nil
}

// WithdrawFromEscrow debits ci.Escrow by amount and credits to's Account
// balance. ci is mutated in place; the caller persists it.
func WithdrawFromEscrow(state core.State, ci *core.ContractIssue, to string, amount uint64) error {
	if ci.Escrow < amount {
		return core.ErrContractHasNoFunds
	}
	toAcc, err := state.GetAccount(to)
	if err != nil {
		return err
	}
	ci.Escrow -= amount
	toAcc.Balance += amount
	return state.SetAccount(toAcc)
}
