package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/marecop/YAweb/domain"
)

// tokenBytes matches the 32-byte random tokens the portal has always issued.
const tokenBytes = 32

// TokenServiceImpl implements domain.TokenService with crypto/rand tokens.
// Tokens carry no user information; they only mean anything to the session
// store that issued them.
type TokenServiceImpl struct{}

// NewTokenService creates an opaque session token generator.
func NewTokenService() domain.TokenService {
	return &TokenServiceImpl{}
}

// Generate implements domain.TokenService.
func (TokenServiceImpl) Generate() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
