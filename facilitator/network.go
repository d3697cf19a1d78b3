package facilitator

import (
	"context"
	"fmt"
	"time"

	solana "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// NetworkClient is the facilitator's view of the chain. It is a shared,
// reusable handle; implementations must be safe for concurrent use.
type NetworkClient interface {
	// Submit broadcasts raw transaction bytes and returns the signature used
	// to track the transaction. Once Submit returns without error the
	// broadcast is irrevocable.
	Submit(ctx context.Context, raw []byte) (solana.Signature, error)
	// Confirm blocks until the transaction reaches the given commitment
	// level, the context expires, or the transaction fails on chain.
	Confirm(ctx context.Context, sig solana.Signature, commitment rpc.CommitmentType) error
}

// RPCNetworkClient implements NetworkClient over a Solana JSON-RPC endpoint,
// polling signature statuses for confirmation.
type RPCNetworkClient struct {
	client       *rpc.Client
	pollInterval time.Duration
}

func NewRPCNetworkClient(rpcURL string) *RPCNetworkClient {
	return &RPCNetworkClient{
		client:       rpc.New(rpcURL),
		pollInterval: 2 * time.Second,
	}
}

func (c *RPCNetworkClient) Submit(ctx context.Context, raw []byte) (solana.Signature, error) {
	sig, err := c.client.SendRawTransactionWithOpts(ctx, raw, rpc.TransactionOpts{
		SkipPreflight:       false,
		PreflightCommitment: rpc.CommitmentProcessed,
	})
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to broadcast transaction: %w", err)
	}
	return sig, nil
}

func (c *RPCNetworkClient) Confirm(ctx context.Context, sig solana.Signature, commitment rpc.CommitmentType) error {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("confirmation wait aborted: %w", ctx.Err())
		case <-ticker.C:
		}

		out, err := c.client.GetSignatureStatuses(ctx, false, sig)
		if err != nil {
			continue // transient RPC errors only delay confirmation
		}
		if len(out.Value) == 0 || out.Value[0] == nil {
			continue
		}
		status := out.Value[0]
		if status.Err != nil {
			return fmt.Errorf("transaction failed on chain: %v", status.Err)
		}
		if commitmentReached(status.ConfirmationStatus, commitment) {
			return nil
		}
	}
}

// commitmentReached reports whether an observed confirmation status satisfies
// the requested commitment level.
func commitmentReached(observed rpc.ConfirmationStatusType, want rpc.CommitmentType) bool {
	rank := func(s string) int {
		switch s {
		case string(rpc.CommitmentProcessed):
			return 1
		case string(rpc.CommitmentConfirmed):
			return 2
		case string(rpc.CommitmentFinalized):
			return 3
		}
		return 0
	}
	return rank(string(observed)) >= rank(string(want))
}

var _ NetworkClient = (*RPCNetworkClient)(nil)
