package rpc

import (
	"encoding/json"
	"fmt"

	"github.com/tolelom/tolchain/core"
	"github.com/tolelom/tolchain/indexer"
	"github.com/tolelom/tolchain/vm"
)

// Handler holds all dependencies needed to serve RPC methods.
type Handler struct {
	exec    *vm.Executor
	state   core.State
	indexer *indexer.Indexer
}

// NewHandler creates an RPC Handler.
func NewHandler(exec *vm.Executor, state core.State, idx *indexer.Indexer) *Handler {
	return &Handler{exec: exec, state: state, indexer: idx}
}

// Dispatch routes an RPC request to the correct method.
func (h *Handler) Dispatch(req Request) Response {
	switch req.Method {
	case "getIP":
		return h.getIP(req)

	case "getContract":
		return h.getContract(req)

	case "getPayment":
		return h.getPayment(req)

	case "getBalance":
		return h.getBalance(req)

	case "getIPsByOwner":
		return h.getIPsByOwner(req)

	case "submit":
		return h.submit(req)

	default:
		return errResponse(req.ID, CodeMethodNotFound, fmt.Sprintf("method %q not found", req.Method))
	}
}

func (h *Handler) getIP(req Request) Response {
	var params struct {
		Ipid string `json:"ipid"`
	}
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errResponse(req.ID, CodeInvalidParams, "params: "+err.Error())
	}
	if params.Ipid == "" {
		return errResponse(req.ID, CodeInvalidParams, "ipid is required")
	}
	ip, err := h.state.GetIP(params.Ipid)
	if err != nil {
		return errResponse(req.ID, CodeInternalError, err.Error())
	}
	return okResponse(req.ID, ip)
}

func (h *Handler) getContract(req Request) Response {
	var params struct {
		Ipid string `json:"ipid"`
	}
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errResponse(req.ID, CodeInvalidParams, err.Error())
	}
	if params.Ipid == "" {
		return errResponse(req.ID, CodeInvalidParams, "ipid is required")
	}
	ci, err := h.state.GetContractIssue(params.Ipid)
	if err != nil {
		return errResponse(req.ID, CodeInternalError, err.Error())
	}
	return okResponse(req.ID, ci)
}

func (h *Handler) getPayment(req Request) Response {
	var params struct {
		Payer string `json:"payer"`
		Ipid  string `json:"ipid"`
	}
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errResponse(req.ID, CodeInvalidParams, err.Error())
	}
	if params.Payer == "" || params.Ipid == "" {
		return errResponse(req.ID, CodeInvalidParams, "payer and ipid are required")
	}
	cp, err := h.state.GetContractPayment(params.Payer, params.Ipid)
	if err != nil {
		return errResponse(req.ID, CodeInternalError, err.Error())
	}
	return okResponse(req.ID, cp)
}

func (h *Handler) getBalance(req Request) Response {
	var params struct {
		Address string `json:"address"`
	}
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errResponse(req.ID, CodeInvalidParams, err.Error())
	}
	if params.Address == "" {
		return errResponse(req.ID, CodeInvalidParams, "address is required")
	}
	acc, err := h.state.GetAccount(params.Address)
	if err != nil {
		return errResponse(req.ID, CodeInternalError, err.Error())
	}
	return okResponse(req.ID, map[string]any{"address": params.Address, "balance": acc.Balance, "nonce": acc.Nonce})
}

func (h *Handler) getIPsByOwner(req Request) Response {
	var params struct {
		Owner string `json:"owner"`
	}
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errResponse(req.ID, CodeInvalidParams, err.Error())
	}
	if params.Owner == "" {
		return errResponse(req.ID, CodeInvalidParams, "owner is required")
	}
	ids, err := h.indexer.GetIPsByOwner(params.Owner)
	if err != nil {
		return errResponse(req.ID, CodeInternalError, err.Error())
	}
	return okResponse(req.ID, ids)
}

func (h *Handler) submit(req Request) Response {
	var r core.Request
	if err := json.Unmarshal(req.Params, &r); err != nil {
		return errResponse(req.ID, CodeInvalidParams, err.Error())
	}
	// Recompute the ID server-side; do not trust the client-provided value.
	r.ID = r.Hash()
	if err := h.exec.Execute(&r); err != nil {
		return errResponse(req.ID, CodeInternalError, err.Error())
	}
	return okResponse(req.ID, map[string]string{"request_id": r.ID})
}
