package mocks

import (
	"context"
	"time"

	"github.com/phrazzld/taskboard-api/internal/service/auth"
)

// MockRefreshTokenLedger implements auth.RefreshTokenLedger. Without
// ConsumeFn it accepts every jti once.
type MockRefreshTokenLedger struct {
	ConsumeFn func(ctx context.Context, jti string, expiresAt time.Time) (bool, error)

	Consumed []string
}

var _ auth.RefreshTokenLedger = (*MockRefreshTokenLedger)(nil)

// Consume implements auth.RefreshTokenLedger.
func (m *MockRefreshTokenLedger) Consume(ctx context.Context, jti string, expiresAt time.Time) (bool, error) {
	if m.ConsumeFn != nil {
		return m.ConsumeFn(ctx, jti, expiresAt)
	}
	for _, seen := range m.Consumed {
		if seen == jti {
			return false, nil
		}
	}
	m.Consumed = append(m.Consumed, jti)
	return true, nil
}
