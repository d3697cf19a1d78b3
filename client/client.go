// Package client provides the client-side half of the protocol: requesting
// payment terms, submitting a signed transaction for settlement, and decoding
// the settlement header.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/solpay/x402-facilitator/types"
)

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: baseURL, http: httpClient}
}

// RequestTerms asks the facilitator for payment terms. The expected status is
// 402; anything else is an error.
func (c *Client) RequestTerms(ctx context.Context, recipient, amount, note string) (*types.PaymentRequired, error) {
	u, err := url.Parse(c.baseURL + "/pay")
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("recipient", recipient)
	q.Set("amount", amount)
	if note != "" {
		q.Set("note", note)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusPaymentRequired {
		return nil, fmt.Errorf("unexpected status %d requesting terms", resp.StatusCode)
	}

	var required types.PaymentRequired
	if err := json.NewDecoder(resp.Body).Decode(&required); err != nil {
		return nil, fmt.Errorf("invalid payment-required response: %w", err)
	}
	return &required, nil
}

// SettleResult pairs the receipt parsed from the body with the one decoded
// from the X-PAYMENT-RESPONSE header, so callers can check they agree.
type SettleResult struct {
	Receipt       *types.SettlementReceipt
	HeaderReceipt *types.SettlementReceipt
}

// SubmitPayment sends a signed, base64-encoded transaction together with the
// requirement being satisfied.
func (c *Client) SubmitPayment(ctx context.Context, serializedTx string, requirement types.PaymentRequirement) (*SettleResult, error) {
	header, err := types.EncodePaymentHeaderToBase64(requirement)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(types.SettleRequest{SerializedTransaction: serializedTx})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/pay", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(types.PaymentHeader, header)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var failure struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&failure); err != nil || failure.Error == "" {
			return nil, fmt.Errorf("settlement failed with status %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("settlement failed (%d): %s", resp.StatusCode, failure.Error)
	}

	result := &SettleResult{}
	if err := json.NewDecoder(resp.Body).Decode(&result.Receipt); err != nil {
		return nil, fmt.Errorf("invalid settlement receipt: %w", err)
	}
	if encoded := resp.Header.Get(types.PaymentResponseHeader); encoded != "" {
		if decoded, err := types.DecodeReceiptFromBase64(encoded); err == nil {
			result.HeaderReceipt = decoded
		}
	}
	return result, nil
}
