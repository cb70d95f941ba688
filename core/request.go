package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/tolelom/tolchain/crypto"
)

// OpType identifies which public operation a Request performs.
type OpType string

const (
	OpCreateIP      OpType = "create_ip"
	OpUpdateIPLink  OpType = "update_ip_link"
	OpUpdateIPIntro OpType = "update_ip_intro"
	OpDeleteIP      OpType = "delete_ip"
	OpPublish       OpType = "publish"
	OpPay           OpType = "pay"
	OpWithdraw      OpType = "withdraw"
	OpBonus         OpType = "bonus"
)

// Request is the atomic unit of work submitted to the settlement engine.
// From holds the caller's full hex-encoded ed25519 public key.
// Signature covers all fields except ID and Signature itself.
type Request struct {
	ID        string          `json:"id"`
	Op        OpType          `json:"op"`
	From      string          `json:"from"`
	Nonce     uint64          `json:"nonce"`
	Timestamp int64           `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
	Signature string          `json:"signature"`
}

// signingBody holds the fields covered by the signature.
type signingBody struct {
	Op        OpType          `json:"op"`
	From      string          `json:"from"`
	Nonce     uint64          `json:"nonce"`
	Timestamp int64           `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// Hash returns a deterministic hash of the request (sans ID and Signature).
// Returns an empty string if marshalling fails (which cannot happen in practice).
func (r *Request) Hash() string {
	body := signingBody{
		Op:        r.Op,
		From:      r.From,
		Nonce:     r.Nonce,
		Timestamp: r.Timestamp,
		Payload:   r.Payload,
	}
	data, err := json.Marshal(body)
	if err != nil {
		return ""
	}
	return crypto.Hash(data)
}

// Sign computes the signature and sets ID.
func (r *Request) Sign(priv crypto.PrivateKey) {
	hash := r.Hash()
	r.Signature = crypto.Sign(priv, []byte(hash))
	r.ID = hash
}

// Verify checks the signature and that From is a valid public key.
func (r *Request) Verify() error {
	if r.From == "" {
		return errors.New("missing from field")
	}
	pub, err := crypto.PubKeyFromHex(r.From)
	if err != nil {
		return fmt.Errorf("invalid from (must be ed25519 pubkey hex): %w", err)
	}
	return crypto.Verify(pub, []byte(r.Hash()), r.Signature)
}

// NewRequest creates an unsigned request with the current timestamp.
func NewRequest(op OpType, from string, nonce uint64, payload any) (*Request, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return &Request{
		Op:        op,
		From:      from,
		Nonce:     nonce,
		Timestamp: time.Now().UnixNano(),
		Payload:   raw,
	}, nil
}

// ---- Payload types ----

// CreateIPPayload creates a new IP record owned by the caller.
type CreateIPPayload struct {
	Ipid  string `json:"ipid"`
	Link  string `json:"link"`
	Intro string `json:"intro"`
}

// UpdateIPLinkPayload updates an IP's link metadata.
type UpdateIPLinkPayload struct {
	Ipid string `json:"ipid"`
	Link string `json:"link"`
}

// UpdateIPIntroPayload updates an IP's intro metadata.
type UpdateIPIntroPayload struct {
	Ipid  string `json:"ipid"`
	Intro string `json:"intro"`
}

// DeleteIPPayload deletes a PRIVATE IP record.
type DeleteIPPayload struct {
	Ipid string `json:"ipid"`
}

// PublishPayload attaches a buyout contract to a PRIVATE IP.
type PublishPayload struct {
	Ipid      string  `json:"ipid"`
	Variant   Variant `json:"variant"`
	Price     uint64  `json:"price"`
	Goalcount uint64  `json:"goalcount"`
	Maxcount  uint64  `json:"maxcount"`
}

// PayPayload pays the list price (minus rebate, if any) for an IP's contract.
type PayPayload struct {
	Ipid string `json:"ipid"`
}

// WithdrawPayload lets the IP owner cash out unclaimed owner slots.
type WithdrawPayload struct {
	Ipid string `json:"ipid"`
}

// BonusPayload lets a payer claim their uncollected bonus.
type BonusPayload struct {
	Ipid string `json:"ipid"`
}
