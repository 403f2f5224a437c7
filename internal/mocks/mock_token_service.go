package mocks

import (
	"fmt"
	"sync/atomic"

	"github.com/marecop/YAweb/domain"
)

// MockTokenService implements domain.TokenService for testing.
type MockTokenService struct {
	GenerateFunc func() (string, error)

	counter atomic.Int64
}

// NewMockTokenService creates a MockTokenService. The default generator
// returns distinct tokens token_1, token_2, ...
func NewMockTokenService() *MockTokenService {
	return &MockTokenService{}
}

func (m *MockTokenService) Generate() (string, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	return fmt.Sprintf("token_%d", m.counter.Add(1)), nil
}

var _ domain.TokenService = (*MockTokenService)(nil)
