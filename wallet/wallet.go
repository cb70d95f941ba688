package wallet

import (
	"github.com/tolelom/tolchain/core"
	"github.com/tolelom/tolchain/crypto"
)

// Wallet holds a key pair and provides request-building helpers.
type Wallet struct {
	priv crypto.PrivateKey
	pub  crypto.PublicKey
}

// New creates a Wallet from an existing private key.
func New(priv crypto.PrivateKey) *Wallet {
	return &Wallet{priv: priv, pub: priv.Public()}
}

// Generate creates a Wallet with a freshly generated key pair.
func Generate() (*Wallet, error) {
	priv, _, err := crypto.GenerateKeyPair()
	if err != nil {
		return nil, err
	}
	return New(priv), nil
}

// PrivKey returns the raw private key (handle with care).
func (w *Wallet) PrivKey() crypto.PrivateKey {
	return w.priv
}

// PubKey returns the hex-encoded ed25519 public key (used as the "from" principal).
func (w *Wallet) PubKey() string {
	return w.pub.Hex()
}

// Address returns the short human-readable address (first 20 bytes of SHA-256(pubkey)).
func (w *Wallet) Address() string {
	return w.pub.Address()
}

// NewRequest creates a signed request. nonce should match the account's
// current nonce.
func (w *Wallet) NewRequest(op core.OpType, nonce uint64, payload any) (*core.Request, error) {
	req, err := core.NewRequest(op, w.pub.Hex(), nonce, payload)
	if err != nil {
		return nil, err
	}
	req.Sign(w.priv)
	return req, nil
}

// CreateIP creates a signed create_ip request.
func (w *Wallet) CreateIP(ipid, link, intro string, nonce uint64) (*core.Request, error) {
	return w.NewRequest(core.OpCreateIP, nonce, core.CreateIPPayload{Ipid: ipid, Link: link, Intro: intro})
}

// Publish creates a signed publish request.
func (w *Wallet) Publish(ipid string, variant core.Variant, price, goalcount, maxcount, nonce uint64) (*core.Request, error) {
	return w.NewRequest(core.OpPublish, nonce, core.PublishPayload{
		Ipid: ipid, Variant: variant, Price: price, Goalcount: goalcount, Maxcount: maxcount,
	})
}

// Pay creates a signed pay request.
func (w *Wallet) Pay(ipid string, nonce uint64) (*core.Request, error) {
	return w.NewRequest(core.OpPay, nonce, core.PayPayload{Ipid: ipid})
}

// Withdraw creates a signed withdraw request.
func (w *Wallet) Withdraw(ipid string, nonce uint64) (*core.Request, error) {
	return w.NewRequest(core.OpWithdraw, nonce, core.WithdrawPayload{Ipid: ipid})
}

// Bonus creates a signed bonus request.
func (w *Wallet) Bonus(ipid string, nonce uint64) (*core.Request, error) {
	return w.NewRequest(core.OpBonus, nonce, core.BonusPayload{Ipid: ipid})
}
