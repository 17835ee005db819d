package auth

import (
	"encoding/json/v2"
	"errors"
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"

	"github.com/reelnotes/reelnotes-server/internal/id"
)

const (
	tokenIssuer   = "reelnotes-identity"
	tokenAudience = "reelnotes-api"
)

// ErrInvalidToken is returned for tokens that fail decryption or claim checks.
var ErrInvalidToken = errors.New("invalid token")

// TokenService verifies identity tokens. Issue exists for local development
// and tests; production tokens come from the identity provider.
type TokenService struct {
	symmetricKey paseto.V4SymmetricKey
	now          func() time.Time
}

// NewTokenService creates a token service from a 64-character hex key.
func NewTokenService(keyHex string) (*TokenService, error) {
	key, err := ParseKey(keyHex)
	if err != nil {
		return nil, err
	}
	return &TokenService{symmetricKey: key, now: time.Now}, nil
}

// Issue creates a v4.local token for identity valid for ttl.
func (s *TokenService) Issue(identity Identity, ttl time.Duration) (string, error) {
	if identity.UserID == "" || identity.Email == "" {
		return "", errors.New("issue token: user id and email are required")
	}

	now := s.now()
	token := paseto.NewToken()
	token.SetIssuer(tokenIssuer)
	token.SetSubject(identity.UserID)
	token.SetAudience(tokenAudience)
	token.SetIssuedAt(now)
	token.SetNotBefore(now)
	token.SetExpiration(now.Add(ttl))

	tokenID, err := id.Generate(id.PrefixToken)
	if err != nil {
		return "", fmt.Errorf("generate token ID: %w", err)
	}
	token.SetJti(tokenID)

	//nolint:errcheck // Token.Set only errors on unmarshalable values
	_ = token.Set("user_id", identity.UserID)
	//nolint:errcheck // Token.Set only errors on unmarshalable values
	_ = token.Set("email", identity.Email)
	if identity.Username != "" {
		_ = token.Set("username", identity.Username) //nolint:errcheck // string value
	}
	if identity.Name != "" {
		_ = token.Set("name", identity.Name) //nolint:errcheck // string value
	}

	return token.V4Encrypt(s.symmetricKey, nil), nil
}

// Verify decrypts and validates a token, returning its claims.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	parser := paseto.NewParserWithoutExpiryCheck()
	parser.AddRule(paseto.ForAudience(tokenAudience))
	parser.AddRule(paseto.IssuedBy(tokenIssuer))
	parser.AddRule(paseto.ValidAt(s.now()))

	token, err := parser.ParseV4Local(s.symmetricKey, tokenString, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	var claims Claims
	if err := json.Unmarshal(token.ClaimsJSON(), &claims); err != nil {
		return nil, fmt.Errorf("%w: parse claims: %w", ErrInvalidToken, err)
	}
	if claims.UserID == "" || claims.Email == "" {
		return nil, fmt.Errorf("%w: missing user_id or email", ErrInvalidToken)
	}

	return &claims, nil
}
