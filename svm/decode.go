package svm

import (
	"encoding/base64"
	"fmt"

	bin "github.com/gagliardetto/binary"
	solana "github.com/gagliardetto/solana-go"
)

// Instruction is one resolved instruction: program and account keys already
// dereferenced from the message's index table.
type Instruction struct {
	ProgramID solana.PublicKey
	Accounts  []solana.PublicKey
	Data      []byte
}

// TransactionEnvelope is a decoded submission. Raw keeps the exact bytes the
// client sent; they are what gets hashed for replay detection and what gets
// submitted to the network.
type TransactionEnvelope struct {
	Raw          []byte
	FeePayer     solana.PublicKey
	Instructions []Instruction
}

// DecodeTransactionBase64 decodes a base64-encoded serialized transaction.
func DecodeTransactionBase64(encoded string) (*TransactionEnvelope, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("invalid transaction base64: %w", err)
	}
	return DecodeTransaction(raw)
}

// DecodeTransaction parses raw transaction bytes into an envelope. Any parse
// failure is terminal for the attempt; there is no local recovery.
func DecodeTransaction(raw []byte) (*TransactionEnvelope, error) {
	tx, err := solana.TransactionFromDecoder(bin.NewBinDecoder(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to decode transaction: %w", err)
	}

	keys := tx.Message.AccountKeys
	if len(keys) == 0 {
		return nil, fmt.Errorf("transaction has no account keys")
	}

	instructions := make([]Instruction, 0, len(tx.Message.Instructions))
	for _, inst := range tx.Message.Instructions {
		if int(inst.ProgramIDIndex) >= len(keys) {
			return nil, fmt.Errorf("instruction program index %d out of range", inst.ProgramIDIndex)
		}
		accounts := make([]solana.PublicKey, len(inst.Accounts))
		for i, idx := range inst.Accounts {
			if int(idx) >= len(keys) {
				return nil, fmt.Errorf("instruction account index %d out of range", idx)
			}
			accounts[i] = keys[idx]
		}
		instructions = append(instructions, Instruction{
			ProgramID: keys[inst.ProgramIDIndex],
			Accounts:  accounts,
			Data:      inst.Data,
		})
	}

	return &TransactionEnvelope{
		Raw:          raw,
		FeePayer:     keys[0],
		Instructions: instructions,
	}, nil
}
