package core

// Ownership is the lifecycle stage of an IP record.
type Ownership int

const (
	PRIVATE Ownership = iota
	PUBLISHED
	PUBLIC
)

func (o Ownership) String() string {
	switch o {
	case PRIVATE:
		return "PRIVATE"
	case PUBLISHED:
		return "PUBLISHED"
	case PUBLIC:
		return "PUBLIC"
	default:
		return "UNKNOWN"
	}
}

// Variant identifies which settlement formula a contract uses.
type Variant string

const (
	FiniteBuyout       Variant = "FINITE_BUYOUT"
	CompensativeBuyout Variant = "COMPENSATIVE_BUYOUT"
	GoalmaxBuyout      Variant = "GOALMAX_BUYOUT"
)

// Account holds a participant's token balance. Address is the hex-encoded
// ed25519 public key of the principal.
type Account struct {
	Address string `json:"address"`
	Balance uint64 `json:"balance"`
	Nonce   uint64 `json:"nonce"`
}

// IP is an intellectual-property record, keyed by Ipid, owned by one
// principal. Ownership only advances PRIVATE -> PUBLISHED -> PUBLIC.
type IP struct {
	Ipid      string    `json:"ipid"`
	Owner     string    `json:"owner"`
	Ownership Ownership `json:"ownership"`
	Link      string    `json:"link"`
	Intro     string    `json:"intro"`
}

// ContractIssue (CI) is the buyout contract attached to a published IP.
// One CI per Ipid; Variant is immutable after publish.
type ContractIssue struct {
	Ipid            string  `json:"ipid"`
	Variant         Variant `json:"variant"`
	Price           uint64  `json:"price"`
	Goalcount       uint64  `json:"goalcount"`
	Maxcount        uint64  `json:"maxcount"` // 0 means unused (Finite, Compensative)
	Currcount       uint64  `json:"currcount"`
	WithdrawalCount uint64  `json:"withdrawal_count"`
	Escrow          uint64  `json:"escrow"`
}

// Key returns the record-store key for this contract, matching spec's
// ("ci", ipid) scheme.
func (ci *ContractIssue) Key() string {
	return ci.Ipid
}

// ContractPayment (CP) tracks one payer's cumulative refund on a CI.
// Keyed by (Payer, CIKey); created on the payer's first pay.
type ContractPayment struct {
	Payer      string `json:"payer"`
	CIKey      string `json:"ci_key"`
	Withdrawal uint64 `json:"withdrawal"`
}
