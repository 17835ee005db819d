// Package auth verifies identity tokens issued by the external identity
// provider. Tokens are PASETO v4.local, encrypted with a shared symmetric key.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"aidanwoods.dev/go-paseto"
)

const (
	// PASETO v4 requires a 256-bit (32-byte) symmetric key.
	keyLength = 32
	// Expected hex-encoded length (32 bytes = 64 hex characters).
	keyHexLength = 64
)

// ParseKey decodes a 64-character hex key.
func ParseKey(keyHex string) (paseto.V4SymmetricKey, error) {
	if len(keyHex) != keyHexLength {
		return paseto.V4SymmetricKey{}, fmt.Errorf("token key must be exactly %d hex characters, got %d", keyHexLength, len(keyHex))
	}

	keyBytes, err := hex.DecodeString(keyHex)
	if err != nil {
		return paseto.V4SymmetricKey{}, fmt.Errorf("token key is not valid hex: %w", err)
	}

	key, err := paseto.V4SymmetricKeyFromBytes(keyBytes)
	if err != nil {
		return paseto.V4SymmetricKey{}, fmt.Errorf("create symmetric key: %w", err)
	}
	return key, nil
}

// GenerateKeyHex returns a new random key, hex encoded, for IDENTITY_TOKEN_KEY.
func GenerateKeyHex() (string, error) {
	key := make([]byte, keyLength)
	if _, err := rand.Read(key); err != nil {
		return "", fmt.Errorf("generate token key: %w", err)
	}
	return hex.EncodeToString(key), nil
}
