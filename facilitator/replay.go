package facilitator

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
)

// HashTransaction computes the content digest used as the replay key.
func HashTransaction(raw []byte) string {
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// ReplayStore tracks content hashes of settled transactions. Implementations
// must be safe for concurrent use; the interface is deliberately small so a
// persistent or distributed backend can be swapped in.
//
// The pipeline checks Seen right after decoding and calls MarkSettled only
// after settlement succeeds. Between those two points a concurrent submission
// of identical bytes can pass its own Seen check; CheckAndInsert exists for
// callers that want to close that window atomically.
type ReplayStore interface {
	// Seen reports whether the hash was already recorded.
	Seen(hash string) bool
	// MarkSettled records the hash. Recording twice is harmless.
	MarkSettled(hash string)
	// CheckAndInsert atomically records the hash and reports whether it was
	// newly inserted (true) or already present (false).
	CheckAndInsert(hash string) bool
}

// MemoryReplayStore keeps replay history in process memory. It is unbounded
// and lives for the process lifetime: no eviction, no persistence. A
// production deployment that needs either must supply its own ReplayStore.
type MemoryReplayStore struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func NewMemoryReplayStore() *MemoryReplayStore {
	return &MemoryReplayStore{seen: make(map[string]struct{})}
}

func (s *MemoryReplayStore) Seen(hash string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.seen[hash]
	return ok
}

func (s *MemoryReplayStore) MarkSettled(hash string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen[hash] = struct{}{}
}

func (s *MemoryReplayStore) CheckAndInsert(hash string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.seen[hash]; ok {
		return false
	}
	s.seen[hash] = struct{}{}
	return true
}

var _ ReplayStore = (*MemoryReplayStore)(nil)
