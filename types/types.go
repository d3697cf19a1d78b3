// Package types defines the wire-level types of the pay-to-access protocol:
// payment requirements, the 402 envelope, and the settlement receipt.
package types

import (
	"time"
)

// ProtocolVersion is the x402 protocol version spoken by this facilitator.
const ProtocolVersion = 1

// SchemeExact is the only payment scheme supported: the client pays exactly
// the declared terms with a single token transfer.
const SchemeExact = "exact"

// AssetInfo identifies the fungible asset payments are denominated in.
type AssetInfo struct {
	Address  string `json:"address"`
	Decimals uint8  `json:"decimals"`
}

// PaymentRequirement is the server-declared terms a client must satisfy.
// Amount is always atomic units as a non-negative integer decimal string.
type PaymentRequirement struct {
	Scheme  string    `json:"scheme"`
	Network string    `json:"network"`
	PayTo   string    `json:"payTo"`
	Asset   AssetInfo `json:"asset"`
	Amount  string    `json:"amount"`
	Note    string    `json:"note,omitempty"`
}

// PaymentRequired is the envelope returned with HTTP 402.
type PaymentRequired struct {
	X402Version int                  `json:"x402Version"`
	Accepts     []PaymentRequirement `json:"accepts"`
	Facilitator string               `json:"facilitator"`
}

// SettlementReceipt records one successfully settled attempt. It is created
// once and never mutated afterwards.
type SettlementReceipt struct {
	Settled     bool      `json:"settled"`
	Scheme      string    `json:"scheme"`
	Facilitator string    `json:"facilitator"`
	Network     string    `json:"network"`
	TxHash      string    `json:"txHash"`
	PayTo       string    `json:"payTo"`
	Asset       AssetInfo `json:"asset"`
	Amount      string    `json:"amount"`
	Note        *string   `json:"note"`
	Timestamp   time.Time `json:"timestamp"`
}

// SettleRequest is the POST /pay body.
type SettleRequest struct {
	SerializedTransaction string `json:"serializedTransaction" binding:"required"`
}
