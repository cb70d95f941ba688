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
	vm.Register(core.OpPay, handlePay)
}

func handlePay(ctx *vm.Context, payload json.RawMessage) error {
	var p core.PayPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("decode pay payload: %w", err)
	}

	ip, err := ctx.State.GetIP(p.Ipid)
	if err != nil {
		return err
	}
	ci, err := ctx.State.GetContractIssue(p.Ipid)
	if err != nil {
		return err
	}
	// PUBLIC means the variant's terminal condition was already reached, so a
	// further pay is a goal-already-met error rather than a generic
	// wrong-state error; PRIVATE (never published) is the generic case.
	switch ip.Ownership {
	case core.PUBLIC:
		return core.ErrGoalAlreadyAchieved
	case core.PUBLISHED:
		// proceeds below
	default:
		return core.ErrWrongOwnership
	}

	payer := ctx.Req.From
	if has, err := ctx.State.HasContractPayment(payer, ci.Key()); err != nil {
		return err
	} else if has {
		return fmt.Errorf("payer %q has already paid this contract", payer)
	}

	var (
		rebate       uint64
		becomePublic bool
	)

	// Exhaustive dispatch on variant — no default fallthrough, so an
	// unrecognized variant fails loudly instead of silently no-op'ing.
	switch ci.Variant {
	case core.FiniteBuyout:
		if ci.Currcount >= ci.Goalcount {
			return core.ErrGoalAlreadyAchieved
		}
		rebate = 0
		becomePublic = ci.Currcount+1 == ci.Goalcount

	case core.CompensativeBuyout:
		rebate, err = variant.RebateAtArrival(ci.Currcount, ci.Goalcount, ci.Price)
		if err != nil {
			return err
		}

	case core.GoalmaxBuyout:
		// ip.Ownership should already have flipped to PUBLIC the instant
		// maxcount was reached, so this is a belt-and-suspenders check;
		// maxcount is a GOALMAX_BUYOUT-specific cap, distinct from the
		// goalcount-based ErrGoalAlreadyAchieved used by other variants.
		if ci.Currcount >= ci.Maxcount {
			return core.ErrMaxcountReached
		}
		rebate, err = variant.RebateAtArrival(ci.Currcount, ci.Goalcount, ci.Price)
		if err != nil {
			return err
		}
		becomePublic = ci.Currcount+1 == ci.Maxcount

	default:
		return fmt.Errorf("%w: unknown variant %q", core.ErrWrongContractType, ci.Variant)
	}

	if rebate > ci.Price {
		return core.ErrMathOverflow
	}
	charge := ci.Price - rebate

	if err := ledger.DepositToEscrow(ctx.State, ci, payer, charge); err != nil {
		return err
	}

	ci.Currcount++
	if err := ctx.State.SetContractIssue(ci); err != nil {
		return err
	}

	cp := &core.ContractPayment{Payer: payer, CIKey: ci.Key(), Withdrawal: rebate}
	if err := ctx.State.SetContractPayment(cp); err != nil {
		return err
	}

	if becomePublic {
		ip.Ownership = core.PUBLIC
		if err := ctx.State.SetIP(ip); err != nil {
			return err
		}
	}

	if ctx.Emitter != nil {
		ctx.Emitter.Emit(events.Event{
			Type:      events.EventPaid,
			RequestID: ctx.Req.ID,
			Data: map[string]any{
				"ipid":   p.Ipid,
				"payer":  payer,
				"charge": charge,
				"rebate": rebate,
			},
		})
		if becomePublic {
			ctx.Emitter.Emit(events.Event{
				Type:      events.EventIPWentPublic,
				RequestID: ctx.Req.ID,
				Data:      map[string]any{"ipid": p.Ipid},
			})
		}
	}
	return nil
}
