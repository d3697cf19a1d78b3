// Package facilitator implements the payment verification and settlement
// engine: decode a submitted transaction, guard against replay, verify it
// against the declared requirement, submit it to the network, and produce a
// settlement receipt.
package facilitator

import (
	"context"
	"fmt"
	"time"

	solana "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/solpay/x402-facilitator/logger"
	"github.com/solpay/x402-facilitator/metrics"
	"github.com/solpay/x402-facilitator/svm"
	"github.com/solpay/x402-facilitator/types"
)

// Config carries the deployment-wide constants of the facilitator: one
// network and one fungible asset per deployment.
type Config struct {
	Network       string
	FacilitatorID string
	Mint          solana.PublicKey
	AssetDecimals uint8
	Commitment    rpc.CommitmentType
	// ConfirmTimeout bounds how long a confirmation is awaited. It applies to
	// the wait only; the broadcast itself is irrevocable.
	ConfirmTimeout time.Duration
}

// Facilitator drives the per-attempt pipeline. The replay store and the
// network client are the only state shared across concurrent attempts.
type Facilitator struct {
	cfg     Config
	network NetworkClient
	replays ReplayStore
	derive  svm.DeriveTokenAccount
	log     logger.Logger
	rec     metrics.Recorder
	now     func() time.Time
}

// Option configures a Facilitator.
type Option func(*Facilitator)

func WithLogger(log logger.Logger) Option {
	return func(f *Facilitator) { f.log = log }
}

func WithMetrics(rec metrics.Recorder) Option {
	return func(f *Facilitator) { f.rec = rec }
}

// WithReplayStore swaps the in-memory replay history for another backend.
func WithReplayStore(store ReplayStore) Option {
	return func(f *Facilitator) { f.replays = store }
}

// WithDeriver swaps the token-account derivation collaborator.
func WithDeriver(derive svm.DeriveTokenAccount) Option {
	return func(f *Facilitator) { f.derive = derive }
}

// WithClock fixes the receipt timestamp source.
func WithClock(now func() time.Time) Option {
	return func(f *Facilitator) { f.now = now }
}

func New(cfg Config, network NetworkClient, opts ...Option) *Facilitator {
	f := &Facilitator{
		cfg:     cfg,
		network: network,
		replays: NewMemoryReplayStore(),
		derive:  svm.AssociatedTokenAccount,
		log:     logger.Noop{},
		rec:     metrics.Noop{},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// BuildRequirement turns a resource-access request into the payment-required
// envelope. The recipient and the decimal amount are mandatory.
func (f *Facilitator) BuildRequirement(recipient, amount, note string) (*types.PaymentRequired, error) {
	if recipient == "" {
		return nil, NewPaymentError(ErrCodeInvalidRequest, "recipient is required", nil)
	}
	if amount == "" {
		return nil, NewPaymentError(ErrCodeInvalidRequest, "amount is required", nil)
	}
	if _, err := solana.PublicKeyFromBase58(recipient); err != nil {
		return nil, NewPaymentError(ErrCodeInvalidRequest, fmt.Sprintf("invalid recipient: %v", err), err)
	}

	atomic, err := svm.ParseAmount(amount, f.cfg.AssetDecimals)
	if err != nil {
		return nil, NewPaymentError(ErrCodeInvalidRequest, err.Error(), err)
	}

	req := types.PaymentRequirement{
		Scheme:  types.SchemeExact,
		Network: f.cfg.Network,
		PayTo:   recipient,
		Asset: types.AssetInfo{
			Address:  f.cfg.Mint.String(),
			Decimals: f.cfg.AssetDecimals,
		},
		Amount: atomic,
		Note:   note,
	}
	return &types.PaymentRequired{
		X402Version: types.ProtocolVersion,
		Accepts:     []types.PaymentRequirement{req},
		Facilitator: f.cfg.FacilitatorID,
	}, nil
}

// Settle runs one payment attempt end to end:
// decode -> replay check -> verify -> submit -> confirm -> receipt.
// Every failure is terminal and classified; there is no partial success.
func (f *Facilitator) Settle(ctx context.Context, encodedTx string, req *types.PaymentRequirement) (*types.SettlementReceipt, error) {
	att := newAttempt()
	start := f.now()

	receipt, err := f.settle(ctx, att, encodedTx, req)
	if err != nil {
		pe := AsPaymentError(err)
		att.fail(pe)
		f.log.Warn("settlement attempt ended", map[string]any{
			"attempt": att.id,
			"state":   string(att.state),
			"code":    pe.Code,
		})
		f.rec.IncCounter(metrics.MetricAttempts, map[string]string{"result": pe.Code})
		return nil, pe
	}

	f.log.Info("settlement completed", map[string]any{
		"attempt": att.id,
		"txHash":  receipt.TxHash,
	})
	f.rec.IncCounter(metrics.MetricAttempts, map[string]string{"result": "settled"})
	f.rec.ObserveLatency(metrics.MetricSettlement, f.now().Sub(start), map[string]string{"result": "settled"})
	return receipt, nil
}

func (f *Facilitator) settle(ctx context.Context, att *attempt, encodedTx string, req *types.PaymentRequirement) (*types.SettlementReceipt, error) {
	env, err := svm.DecodeTransactionBase64(encodedTx)
	if err != nil {
		return nil, NewPaymentError(ErrCodeMalformedTransaction, err.Error(), err)
	}
	if err := att.advance(StateDecoded); err != nil {
		return nil, err
	}

	hash := HashTransaction(env.Raw)
	if f.replays.Seen(hash) {
		return nil, NewPaymentError(ErrCodeReplayDetected, "transaction already processed", nil)
	}
	if err := att.advance(StateReplayChecked); err != nil {
		return nil, err
	}

	result, err := svm.VerifyTransfer(env, req, f.cfg.Mint, f.derive)
	if err != nil {
		return nil, NewPaymentError(ErrCodeInvalidRequest, err.Error(), err)
	}
	if !result.TransferVerified {
		return nil, NewPaymentError(ErrCodeNoTransfer,
			"no token transfer between the expected accounts", nil)
	}
	if !result.MemoVerified {
		return nil, NewPaymentError(ErrCodeMemoMismatch,
			"memo does not match the required note", nil)
	}
	if err := att.advance(StateVerified); err != nil {
		return nil, err
	}

	sig, err := f.network.Submit(ctx, env.Raw)
	if err != nil {
		return nil, NewPaymentError(ErrCodeSubmissionFailed, err.Error(), err)
	}
	if err := att.advance(StateSubmitted); err != nil {
		return nil, err
	}

	// The broadcast above cannot be taken back; the timeout bounds only how
	// long this attempt waits for the network to report confirmation.
	confirmCtx := ctx
	if f.cfg.ConfirmTimeout > 0 {
		var cancel context.CancelFunc
		confirmCtx, cancel = context.WithTimeout(ctx, f.cfg.ConfirmTimeout)
		defer cancel()
	}
	if err := f.network.Confirm(confirmCtx, sig, f.cfg.Commitment); err != nil {
		return nil, NewPaymentError(ErrCodeConfirmationFailed, err.Error(), err)
	}
	if err := att.advance(StateConfirmed); err != nil {
		return nil, err
	}

	f.replays.MarkSettled(hash)

	receipt := f.buildReceipt(req, sig)
	if err := att.advance(StateCompleted); err != nil {
		return nil, err
	}
	return receipt, nil
}

// buildReceipt assembles the immutable settlement receipt for a confirmed
// attempt.
func (f *Facilitator) buildReceipt(req *types.PaymentRequirement, sig solana.Signature) *types.SettlementReceipt {
	var note *string
	if req.Note != "" {
		n := req.Note
		note = &n
	}
	return &types.SettlementReceipt{
		Settled:     true,
		Scheme:      types.SchemeExact,
		Facilitator: f.cfg.FacilitatorID,
		Network:     f.cfg.Network,
		TxHash:      sig.String(),
		PayTo:       req.PayTo,
		Asset:       req.Asset,
		Amount:      req.Amount,
		Note:        note,
		Timestamp:   f.now().UTC(),
	}
}
