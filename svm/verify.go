package svm

import (
	"bytes"
	"fmt"

	solana "github.com/gagliardetto/solana-go"

	"github.com/solpay/x402-facilitator/types"
)

// VerifyResult reports which checks the submitted transaction passed.
type VerifyResult struct {
	TransferVerified bool
	MemoVerified     bool
}

// VerifyTransfer checks a decoded transaction against the declared
// requirement. The expected endpoints are the derived token accounts for
// (mint, fee payer) and (mint, payTo); a single ordered scan looks for a
// token-program Transfer or TransferChecked between exactly those accounts.
//
// The transferred amount is deliberately not compared against the
// requirement; only the endpoints and the optional memo are checked.
func VerifyTransfer(
	env *TransactionEnvelope,
	req *types.PaymentRequirement,
	mint solana.PublicKey,
	derive DeriveTokenAccount,
) (VerifyResult, error) {
	var result VerifyResult

	payTo, err := solana.PublicKeyFromBase58(req.PayTo)
	if err != nil {
		return result, fmt.Errorf("invalid payTo address: %w", err)
	}

	expectedSource, err := derive(env.FeePayer, mint)
	if err != nil {
		return result, fmt.Errorf("failed to derive source token account: %w", err)
	}
	expectedDestination, err := derive(payTo, mint)
	if err != nil {
		return result, fmt.Errorf("failed to derive destination token account: %w", err)
	}

	for _, inst := range env.Instructions {
		if !inst.ProgramID.Equals(solana.TokenProgramID) {
			continue
		}
		if len(inst.Data) == 0 {
			continue
		}

		destinationIndex := -1
		switch inst.Data[0] {
		case TokenInstructionTransfer:
			destinationIndex = transferDestinationIndex
		case TokenInstructionTransferChecked:
			destinationIndex = transferCheckedDestinationIndex
		default:
			continue
		}
		if len(inst.Accounts) <= destinationIndex {
			continue
		}

		source := inst.Accounts[transferSourceIndex]
		destination := inst.Accounts[destinationIndex]
		if source.Equals(expectedSource) && destination.Equals(expectedDestination) {
			result.TransferVerified = true
			break
		}
	}

	result.MemoVerified = verifyMemo(env, req.Note)
	return result, nil
}

// verifyMemo returns true when the requirement carries no note, or when some
// memo-program instruction's payload is byte-for-byte equal to it.
func verifyMemo(env *TransactionEnvelope, note string) bool {
	if note == "" {
		return true
	}
	want := []byte(note)
	for _, inst := range env.Instructions {
		if !inst.ProgramID.Equals(solana.MemoProgramID) {
			continue
		}
		if bytes.Equal(inst.Data, want) {
			return true
		}
	}
	return false
}
