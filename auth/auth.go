// Package auth verifies wallet-login signatures and issues opaque session
// tokens. It is orthogonal to the payment engine: the facilitator never
// consults a session to verify or settle a payment.
package auth

import (
	"crypto/ed25519"
	"fmt"
	"sync"

	solana "github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
)

// LoginChallenge is the fixed message a wallet signs to authenticate.
// Changing it invalidates every signature produced against the old value.
const LoginChallenge = "solpay:login:v1"

// ErrInvalidSignature is returned when the signature does not verify against
// the claimed public key.
var ErrInvalidSignature = fmt.Errorf("signature does not match public key")

// Service verifies login signatures and tracks issued sessions in memory.
type Service struct {
	mu       sync.Mutex
	sessions map[string]string // token -> wallet public key
}

func NewService() *Service {
	return &Service{sessions: make(map[string]string)}
}

// VerifyWallet checks an ed25519 signature over LoginChallenge and, if valid,
// issues an opaque session token bound to the wallet.
func (s *Service) VerifyWallet(publicKeyBase58, signatureBase58 string) (string, error) {
	pub, err := solana.PublicKeyFromBase58(publicKeyBase58)
	if err != nil {
		return "", fmt.Errorf("invalid public key: %w", err)
	}
	sig, err := solana.SignatureFromBase58(signatureBase58)
	if err != nil {
		return "", fmt.Errorf("invalid signature: %w", err)
	}

	if !ed25519.Verify(ed25519.PublicKey(pub.Bytes()), []byte(LoginChallenge), sig[:]) {
		return "", ErrInvalidSignature
	}

	token := uuid.NewString()
	s.mu.Lock()
	s.sessions[token] = pub.String()
	s.mu.Unlock()
	return token, nil
}

// Wallet resolves a session token back to the wallet it was issued for.
func (s *Service) Wallet(token string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	wallet, ok := s.sessions[token]
	return wallet, ok
}
