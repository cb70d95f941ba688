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
	vm.Register(core.OpBonus, handleBonus)
}

func handleBonus(ctx *vm.Context, payload json.RawMessage) error {
	var p core.BonusPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("decode bonus payload: %w", err)
	}

	ci, err := ctx.State.GetContractIssue(p.Ipid)
	if err != nil {
		return err
	}

	payer := ctx.Req.From
	var delta uint64

	// Per the spec's open-question resolution, FINITE_BUYOUT never offers a
	// bonus; calling it is a type error, not a silent no-op.
	switch ci.Variant {
	case core.FiniteBuyout:
		return core.ErrWrongContractType

	case core.CompensativeBuyout, core.GoalmaxBuyout:
		cp, err := ctx.State.GetContractPayment(payer, ci.Key())
		if err != nil {
			return err
		}
		entitled, err := variant.BonusEntitlement(ci.Currcount, ci.Goalcount, ci.Price)
		if err != nil {
			return err
		}
		if entitled <= cp.Withdrawal {
			return core.ErrContractHasNoFunds
		}
		delta = entitled - cp.Withdrawal
		cp.Withdrawal = entitled
		if err := ctx.State.SetContractPayment(cp); err != nil {
			return err
		}

	default:
		return fmt.Errorf("%w: unknown variant %q", core.ErrWrongContractType, ci.Variant)
	}

	if err := ledger.WithdrawFromEscrow(ctx.State, ci, payer, delta); err != nil {
		return err
	}
	if err := ctx.State.SetContractIssue(ci); err != nil {
		return err
	}

	if ctx.Emitter != nil {
		ctx.Emitter.Emit(events.Event{
			Type:      events.EventBonusPaid,
			RequestID: ctx.Req.ID,
			Data:      map[string]any{"ipid": p.Ipid, "payer": payer, "amount": delta},
		})
	}
	return nil
}
