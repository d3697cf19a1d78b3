package types

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// Header names used to transport protocol values alongside the HTTP body.
const (
	PaymentHeader         = "X-PAYMENT"
	PaymentResponseHeader = "X-PAYMENT-RESPONSE"
)

// PaymentHeaderValue is the decoded X-PAYMENT header: the protocol version
// plus the payment requirement the client claims to be satisfying, inline.
type PaymentHeaderValue struct {
	X402Version int `json:"x402Version"`
	PaymentRequirement
}

// DecodePaymentHeaderFromBase64 decodes and validates an X-PAYMENT header.
// The schema is strict: unknown fields and missing required fields are
// rejected rather than silently defaulted.
func DecodePaymentHeaderFromBase64(encoded string) (*PaymentHeaderValue, error) {
	if encoded == "" {
		return nil, fmt.Errorf("%s header is required", PaymentHeader)
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 in %s header: %w", PaymentHeader, err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()

	var hdr PaymentHeaderValue
	if err := dec.Decode(&hdr); err != nil {
		return nil, fmt.Errorf("invalid payment header: %w", err)
	}

	if hdr.X402Version != ProtocolVersion {
		return nil, fmt.Errorf("unsupported x402 version: %d", hdr.X402Version)
	}
	if hdr.Scheme != SchemeExact {
		return nil, fmt.Errorf("unsupported scheme: %q", hdr.Scheme)
	}
	if hdr.PayTo == "" {
		return nil, fmt.Errorf("payment recipient is required")
	}
	if hdr.Amount == "" {
		return nil, fmt.Errorf("payment amount is required")
	}
	if hdr.Asset.Address == "" {
		return nil, fmt.Errorf("payment asset is required")
	}
	return &hdr, nil
}

// EncodePaymentHeaderToBase64 is the client-side counterpart of
// DecodePaymentHeaderFromBase64.
func EncodePaymentHeaderToBase64(req PaymentRequirement) (string, error) {
	hdr := PaymentHeaderValue{
		X402Version:        ProtocolVersion,
		PaymentRequirement: req,
	}
	raw, err := json.Marshal(hdr)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// EncodeReceiptToBase64 encodes a settlement receipt for the
// X-PAYMENT-RESPONSE header.
func EncodeReceiptToBase64(receipt *SettlementReceipt) (string, error) {
	raw, err := json.Marshal(receipt)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// DecodeReceiptFromBase64 decodes an X-PAYMENT-RESPONSE header back into a
// settlement receipt, for symmetric client-side handling.
func DecodeReceiptFromBase64(encoded string) (*SettlementReceipt, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 in %s header: %w", PaymentResponseHeader, err)
	}
	var receipt SettlementReceipt
	if err := json.Unmarshal(raw, &receipt); err != nil {
		return nil, fmt.Errorf("invalid settlement receipt: %w", err)
	}
	return &receipt, nil
}
