package poip_test

import (
	"errors"
	"testing"

	"github.com/tolelom/tolchain/core"
)

func TestCreateUpdateDeleteIP(t *testing.T) {
	h := newHarness(t)
	alice := newWallet(t)

	req, err := alice.CreateIP("ip-1", "https://example.com/v1", "a gadget", h.nonce(alice.PubKey()))
	if err != nil {
		t.Fatalf("build create_ip request: %v", err)
	}
	h.requireOK(req)

	ip, err := h.state.GetIP("ip-1")
	if err != nil {
		t.Fatalf("GetIP: %v", err)
	}
	if ip.Owner != alice.PubKey() || ip.Ownership != core.PRIVATE {
		t.Fatalf("unexpected ip after create: %+v", ip)
	}

	updateLink, err := alice.NewRequest(core.OpUpdateIPLink, h.nonce(alice.PubKey()), core.UpdateIPLinkPayload{Ipid: "ip-1", Link: "https://example.com/v2"})
	if err != nil {
		t.Fatalf("build update_ip_link request: %v", err)
	}
	h.requireOK(updateLink)

	ip, err = h.state.GetIP("ip-1")
	if err != nil {
		t.Fatalf("GetIP after update: %v", err)
	}
	if ip.Link != "https://example.com/v2" {
		t.Fatalf("expected updated link, got %q", ip.Link)
	}

	del, err := alice.NewRequest(core.OpDeleteIP, h.nonce(alice.PubKey()), core.DeleteIPPayload{Ipid: "ip-1"})
	if err != nil {
		t.Fatalf("build delete_ip request: %v", err)
	}
	h.requireOK(del)

	if _, err := h.state.GetIP("ip-1"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ip to be gone, got err=%v", err)
	}
}

func TestUpdateIPByNonOwnerIsUnauthorized(t *testing.T) {
	h := newHarness(t)
	alice := newWallet(t)
	mallory := newWallet(t)

	create, err := alice.CreateIP("ip-1", "link", "intro", h.nonce(alice.PubKey()))
	if err != nil {
		t.Fatalf("build create_ip: %v", err)
	}
	h.requireOK(create)

	req, err := mallory.NewRequest(core.OpUpdateIPLink, h.nonce(mallory.PubKey()), core.UpdateIPLinkPayload{Ipid: "ip-1", Link: "hijacked"})
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if err := h.do(req); !errors.Is(err, core.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestCreateIPRejectsDuplicateIpid(t *testing.T) {
	h := newHarness(t)
	alice := newWallet(t)

	first, err := alice.CreateIP("ip-1", "link", "intro", h.nonce(alice.PubKey()))
	if err != nil {
		t.Fatalf("build first create_ip: %v", err)
	}
	h.requireOK(first)

	second, err := alice.CreateIP("ip-1", "link", "intro", h.nonce(alice.PubKey()))
	if err != nil {
		t.Fatalf("build second create_ip: %v", err)
	}
	if err := h.do(second); err == nil {
		t.Fatal("expected an error creating a duplicate ipid")
	}
}

func TestDeleteIPRejectsNonPrivate(t *testing.T) {
	h := newHarness(t)
	alice := newWallet(t)

	create, err := alice.CreateIP("ip-1", "link", "intro", h.nonce(alice.PubKey()))
	if err != nil {
		t.Fatalf("build create_ip: %v", err)
	}
	h.requireOK(create)

	publish, err := alice.Publish("ip-1", core.FiniteBuyout, 10, 1, 0, h.nonce(alice.PubKey()))
	if err != nil {
		t.Fatalf("build publish: %v", err)
	}
	h.requireOK(publish)

	del, err := alice.NewRequest(core.OpDeleteIP, h.nonce(alice.PubKey()), core.DeleteIPPayload{Ipid: "ip-1"})
	if err != nil {
		t.Fatalf("build delete_ip: %v", err)
	}
	if err := h.do(del); !errors.Is(err, core.ErrWrongOwnership) {
		t.Fatalf("expected ErrWrongOwnership deleting a published ip, got %v", err)
	}
}
