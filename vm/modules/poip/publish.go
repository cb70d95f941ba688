package poip

import (
	"encoding/json"
	"fmt"

	"github.com/tolelom/tolchain/core"
	"github.com/tolelom/tolchain/events"
	"github.com/tolelom/tolchain/vm"
)

func init() {
	vm.Register(core.OpPublish, handlePublish)
}

func handlePublish(ctx *vm.Context, payload json.RawMessage) error {
	var p core.PublishPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("decode publish payload: %w", err)
	}

	ip, err := ctx.State.GetIP(p.Ipid)
	if err != nil {
		return err
	}
	if ip.Owner != ctx.Req.From {
		return core.ErrUnauthorized
	}
	if ip.Ownership != core.PRIVATE {
		return core.ErrWrongOwnership
	}
	if p.Price == 0 {
		return core.ErrInvalidPrice
	}
	if p.Goalcount == 0 {
		return core.ErrInvalidGoalcount
	}

	maxcount := uint64(0)
	switch p.Variant {
	case core.FiniteBuyout, core.CompensativeBuyout:
		// maxcount is unused for these variants; ignore whatever was sent.
	case core.GoalmaxBuyout:
		if p.Maxcount < p.Goalcount {
			return core.ErrInvalidMaxcount
		}
		maxcount = p.Maxcount
	default:
		return fmt.Errorf("%w: unknown variant %q", core.ErrWrongContractType, p.Variant)
	}

	ci := &core.ContractIssue{
		Ipid:      p.Ipid,
		Variant:   p.Variant,
		Price:     p.Price,
		Goalcount: p.Goalcount,
		Maxcount:  maxcount,
	}
	if err := ctx.State.SetContractIssue(ci); err != nil {
		return err
	}

	ip.Ownership = core.PUBLISHED
	if err := ctx.State.SetIP(ip); err != nil {
		return err
	}

	if ctx.Emitter != nil {
		ctx.Emitter.Emit(events.Event{
			Type:      events.EventIPPublished,
			RequestID: ctx.Req.ID,
			Data: map[string]any{
				"ipid":      ip.Ipid,
				"variant":   string(p.Variant),
				"price":     p.Price,
				"goalcount": p.Goalcount,
				"maxcount":  maxcount,
			},
		})
	}
	return nil
}
