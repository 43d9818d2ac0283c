package auth

import (
	"context"
	"sync"
	"time"
)

// RefreshTokenLedger records refresh token IDs (jti) as they are exchanged
// so each refresh token can be used once.
type RefreshTokenLedger interface {
	// Consume marks jti as used until expiresAt. It returns false when the
	// jti had already been consumed.
	Consume(ctx context.Context, jti string, expiresAt time.Time) (bool, error)
}

// MemoryLedger is an in-process RefreshTokenLedger. Entries are dropped once
// the token they guard has expired.
type MemoryLedger struct {
	mu       sync.Mutex
	used     map[string]time.Time
	timeFunc func() time.Time
}

var _ RefreshTokenLedger = (*MemoryLedger)(nil)

// NewMemoryLedger returns an empty ledger.
func NewMemoryLedger() *MemoryLedger {
	return NewMemoryLedgerWithClock(time.Now)
}

// NewMemoryLedgerWithClock returns an empty ledger that prunes against now.
func NewMemoryLedgerWithClock(now func() time.Time) *MemoryLedger {
	return &MemoryLedger{
		used:     make(map[string]time.Time),
		timeFunc: now,
	}
}

// Consume implements RefreshTokenLedger.
func (l *MemoryLedger) Consume(ctx context.Context, jti string, expiresAt time.Time) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.timeFunc()
	for id, exp := range l.used {
		if now.After(exp) {
			delete(l.used, id)
		}
	}

	if _, seen := l.used[jti]; seen {
		return false, nil
	}
	l.used[jti] = expiresAt
	return true, nil
}
