// Package svm implements the Solana-specific half of the payment engine:
// decoding submitted transactions, flattening their instructions, and
// checking them against declared payment requirements using SPL Token
// Transfer / TransferChecked instructions.
package svm

import (
	solana "github.com/gagliardetto/solana-go"
)

// SPL Token instruction discriminators carried in the first data byte.
const (
	TokenInstructionTransfer        = 3
	TokenInstructionTransferChecked = 12
)

// Account key positions within a token transfer instruction.
// Source is always first; the destination shifts when a mint account is
// present (TransferChecked).
const (
	transferSourceIndex             = 0
	transferDestinationIndex        = 1
	transferCheckedDestinationIndex = 2
)

// DeriveTokenAccount resolves the deterministic token account for an
// (owner, mint) pair. The engine depends on this being pure and
// deterministic; it never derives addresses itself.
type DeriveTokenAccount func(owner, mint solana.PublicKey) (solana.PublicKey, error)

// AssociatedTokenAccount is the production derivation: the SPL associated
// token account PDA.
func AssociatedTokenAccount(owner, mint solana.PublicKey) (solana.PublicKey, error) {
	ata, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	return ata, err
}
