package poip

import (
	"encoding/json"
	"fmt"

	"github.com/tolelom/tolchain/core"
	"github.com/tolelom/tolchain/events"
	"github.com/tolelom/tolchain/vm"
)

func init() {
	vm.Register(core.OpCreateIP, handleCreateIP)
	vm.Register(core.OpUpdateIPLink, handleUpdateIPLink)
	vm.Register(core.OpUpdateIPIntro, handleUpdateIPIntro)
	vm.Register(core.OpDeleteIP, handleDeleteIP)
}

func handleCreateIP(ctx *vm.Context, payload json.RawMessage) error {
	var p core.CreateIPPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("decode create_ip payload: %w", err)
	}
	if p.Ipid == "" {
		return fmt.Errorf("ipid is required")
	}
	if _, err := ctx.State.GetIP(p.Ipid); err == nil {
		return fmt.Errorf("ip %q already exists", p.Ipid)
	} else if err != core.ErrNotFound {
		return err
	}

	ip := &core.IP{
		Ipid:      p.Ipid,
		Owner:     ctx.Req.From,
		Ownership: core.PRIVATE,
		Link:      p.Link,
		Intro:     p.Intro,
	}
	if err := ctx.State.SetIP(ip); err != nil {
		return err
	}

	if ctx.Emitter != nil {
		ctx.Emitter.Emit(events.Event{
			Type:      events.EventIPCreated,
			RequestID: ctx.Req.ID,
			Data:      map[string]any{"ipid": ip.Ipid, "owner": ip.Owner},
		})
	}
	return nil
}

func handleUpdateIPLink(ctx *vm.Context, payload json.RawMessage) error {
	var p core.UpdateIPLinkPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("decode update_ip_link payload: %w", err)
	}
	ip, err := requireOwner(ctx, p.Ipid)
	if err != nil {
		return err
	}
	ip.Link = p.Link
	return ctx.State.SetIP(ip)
}

func handleUpdateIPIntro(ctx *vm.Context, payload json.RawMessage) error {
	var p core.UpdateIPIntroPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("decode update_ip_intro payload: %w", err)
	}
	ip, err := requireOwner(ctx, p.Ipid)
	if err != nil {
		return err
	}
	ip.Intro = p.Intro
	return ctx.State.SetIP(ip)
}

func handleDeleteIP(ctx *vm.Context, payload json.RawMessage) error {
	var p core.DeleteIPPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("decode delete_ip payload: %w", err)
	}
	ip, err := requireOwner(ctx, p.Ipid)
	if err != nil {
		return err
	}
	if ip.Ownership != core.PRIVATE {
		return core.ErrWrongOwnership
	}
	if err := ctx.State.DeleteIP(p.Ipid); err != nil {
		return err
	}

	if ctx.Emitter != nil {
		ctx.Emitter.Emit(events.Event{
			Type:      events.EventIPDeleted,
			RequestID: ctx.Req.ID,
			Data:      map[string]any{"ipid": p.Ipid, "owner": ip.Owner},
		})
	}
	return nil
}

// requireOwner loads the IP and checks that the requesting caller is its owner.
func requireOwner(ctx *vm.Context, ipid string) (*core.IP, error) {
	if ipid == "" {
		return nil, fmt.Errorf("ipid is required")
	}
	ip, err := ctx.State.GetIP(ipid)
	if err != nil {
		return nil, err
	}
	if ip.Owner != ctx.Req.From {
		return nil, core.ErrUnauthorized
	}
	return ip, nil
}
