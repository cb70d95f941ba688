package poip

import (
	"encoding/json"
	"fmt"

	"github.com/tolelom/tolchain/core"
	"github.com/tolelom/tolchain/events"
	"github.com/tolelom/tolchain/ledger"
	"github.com/tolelom/tolchain/vm"
	"github.com/tolelom/tolchain/vm/modules/poip/variant"
)

func init() {
	vm.Register(core.OpWithdraw, handleWithdraw)
}

func handleWithdraw(ctx *vm.Context, payload json.RawMessage) error {
	var p core.WithdrawPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("decode withdraw payload: %w", err)
	}

	ip, err := ctx.State.GetIP(p.Ipid)
	if err != nil {
		return err
	}
	if ip.Owner != ctx.Req.From {
		return core.ErrUnauthorized
	}
	ci, err := ctx.State.GetContractIssue(p.Ipid)
	if err != nil {
		return err
	}

	var amount uint64
	switch ci.Variant {
	case core.FiniteBuyout:
		slots := variant.FiniteWithdrawSlots(ci.Currcount, ci.WithdrawalCount)
		if slots == 0 {
			return core.ErrContractHasNoFunds
		}
		amount, err = variant.OwnerOwedAmount(slots, ci.Price)
		if err != nil {
			return err
		}
		ci.WithdrawalCount = ci.Currcount

	case core.CompensativeBuyout, core.GoalmaxBuyout:
		slots := variant.OwnerOwedSlots(ci.Currcount, ci.Goalcount, ci.WithdrawalCount)
		if slots == 0 {
			return core.ErrContractHasNoFunds
		}
		amount, err = variant.OwnerOwedAmount(slots, ci.Price)
		if err != nil {
			return err
		}
		ci.WithdrawalCount += slots

	default:
		return fmt.Errorf("%w: unknown variant %q", core.ErrWrongContractType, ci.Variant)
	}

	if err := ledger.WithdrawFromEscrow(ctx.State, ci, ip.Owner, amount); err != nil {
		return err
	}
	if err := ctx.State.SetContractIssue(ci); err != nil {
		return err
	}

	if ctx.Emitter != nil {
		ctx.Emitter.Emit(events.Event{
			Type:      events.EventWithdrawn,
			RequestID: ctx.Req.ID,
			Data:      map[string]any{"ipid": p.Ipid, "owner": ip.Owner, "amount": amount},
		})
	}
	return nil
}
