package rpc_test

import (
	"encoding/json"
	"testing"

	"github.com/tolelom/tolchain/core"
	"github.com/tolelom/tolchain/events"
	"github.com/tolelom/tolchain/indexer"
	"github.com/tolelom/tolchain/internal/testutil"
	"github.com/tolelom/tolchain/rpc"
	"github.com/tolelom/tolchain/storage"
	"github.com/tolelom/tolchain/vm"

	_ "github.com/tolelom/tolchain/vm/modules/poip"
	"github.com/tolelom/tolchain/wallet"
)

func newTestHandler(t *testing.T) (*rpc.Handler, core.State) {
	t.Helper()
	db := testutil.NewMemDB()
	state := storage.NewStateDB(db)
	emitter := events.NewEmitter()
	idx := indexer.New(db, emitter)
	exec := vm.NewExecutor(state, emitter)
	return rpc.NewHandler(exec, state, idx), state
}

func rpcCall(t *testing.T, h *rpc.Handler, method string, params any) rpc.Response {
	t.Helper()
	raw, err := json.Marshal(params)
	if err != nil {
		t.Fatalf("marshal params: %v", err)
	}
	return h.Dispatch(rpc.Request{JSONRPC: "2.0", ID: 1, Method: method, Params: raw})
}

func TestSubmitCreateIPThenGetIP(t *testing.T) {
	h, _ := newTestHandler(t)

	w, err := wallet.Generate()
	if err != nil {
		t.Fatalf("generate wallet: %v", err)
	}
	req, err := w.CreateIP("ip-1", "https://example.com", "intro", 0)
	if err != nil {
		t.Fatalf("build create_ip request: %v", err)
	}

	resp := rpcCall(t, h, "submit", req)
	if resp.Error != nil {
		t.Fatalf("submit returned error: %+v", resp.Error)
	}

	resp = rpcCall(t, h, "getIP", map[string]string{"ipid": "ip-1"})
	if resp.Error != nil {
		t.Fatalf("getIP returned error: %+v", resp.Error)
	}

	data, err := json.Marshal(resp.Result)
	if err != nil {
		t.Fatalf("marshal result: %v", err)
	}
	var ip core.IP
	if err := json.Unmarshal(data, &ip); err != nil {
		t.Fatalf("unmarshal ip: %v", err)
	}
	if ip.Owner != w.PubKey() {
		t.Fatalf("expected owner %s, got %s", w.PubKey(), ip.Owner)
	}
}

func TestGetIPMissingRequiredParam(t *testing.T) {
	h, _ := newTestHandler(t)
	resp := rpcCall(t, h, "getIP", map[string]string{})
	if resp.Error == nil {
		t.Fatal("expected an error for a missing ipid param")
	}
	if resp.Error.Code != rpc.CodeInvalidParams {
		t.Fatalf("expected CodeInvalidParams, got %d", resp.Error.Code)
	}
}

func TestDispatchUnknownMethod(t *testing.T) {
	h, _ := newTestHandler(t)
	resp := rpcCall(t, h, "doesNotExist", map[string]string{})
	if resp.Error == nil || resp.Error.Code != rpc.CodeMethodNotFound {
		t.Fatalf("expected CodeMethodNotFound, got %+v", resp.Error)
	}
}

func TestGetBalanceReflectsFundedAccount(t *testing.T) {
	h, state := newTestHandler(t)
	if err := state.SetAccount(&core.Account{Address: "addr-1", Balance: 42}); err != nil {
		t.Fatalf("SetAccount: %v", err)
	}

	resp := rpcCall(t, h, "getBalance", map[string]string{"address": "addr-1"})
	if resp.Error != nil {
		t.Fatalf("getBalance returned error: %+v", resp.Error)
	}
	data, err := json.Marshal(resp.Result)
	if err != nil {
		t.Fatalf("marshal result: %v", err)
	}
	var got struct {
		Balance uint64 `json:"balance"`
	}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal balance result: %v", err)
	}
	if got.Balance != 42 {
		t.Fatalf("expected balance 42, got %d", got.Balance)
	}
}

func TestGetIPsByOwnerAfterCreate(t *testing.T) {
	h, _ := newTestHandler(t)

	w, err := wallet.Generate()
	if err != nil {
		t.Fatalf("generate wallet: %v", err)
	}
	req, err := w.CreateIP("ip-1", "link", "intro", 0)
	if err != nil {
		t.Fatalf("build create_ip request: %v", err)
	}
	if resp := rpcCall(t, h, "submit", req); resp.Error != nil {
		t.Fatalf("submit returned error: %+v", resp.Error)
	}

	resp := rpcCall(t, h, "getIPsByOwner", map[string]string{"owner": w.PubKey()})
	if resp.Error != nil {
		t.Fatalf("getIPsByOwner returned error: %+v", resp.Error)
	}
	data, err := json.Marshal(resp.Result)
	if err != nil {
		t.Fatalf("marshal result: %v", err)
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		t.Fatalf("unmarshal ids: %v", err)
	}
	if len(ids) != 1 || ids[0] != "ip-1" {
		t.Fatalf("expected [ip-1], got %v", ids)
	}
}
