// Package auth signs and verifies Ed25519 JWT API keys for the HTTP
// transport. The stdio transport never uses it: a local parent process
// already owns the child it spawned.
package auth

import (
	"crypto/ed25519"
	"encoding/base64"
	"os"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
)

// apiKeyPrefix distinguishes API keys from raw JWTs in configs and logs.
const apiKeyPrefix = "cmk_"

// KeyPair holds the Ed25519 signing key pair for JWT API keys.
type KeyPair struct {
	PrivateKey ed25519.PrivateKey
	PublicKey  ed25519.PublicKey
	KID        string
}

var keyPair *KeyPair

// Init loads the Ed25519 private key from the API_KEY_PRIVATE_KEY environment
// variable. The key must be base64-encoded (32-byte seed or 64-byte full
// private key). An unset variable disables API key auth entirely.
func Init() error {
	encoded := os.Getenv("API_KEY_PRIVATE_KEY")
	if encoded == "" {
		log.Info().Msg("API_KEY_PRIVATE_KEY not set, API key auth disabled")
		return nil
	}

	seed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return errors.Wrap(err, "failed to decode API_KEY_PRIVATE_KEY")
	}

	var privKey ed25519.PrivateKey
	switch len(seed) {
	case ed25519.SeedSize: // 32 bytes, seed only
		privKey = ed25519.NewKeyFromSeed(seed)
	case ed25519.PrivateKeySize: // 64 bytes, full private key
		privKey = ed25519.PrivateKey(seed)
	default:
		return errors.Errorf("invalid key size: %d (expected 32 or 64)", len(seed))
	}

	keyPair = &KeyPair{
		PrivateKey: privKey,
		PublicKey:  privKey.Public().(ed25519.PublicKey),
		KID:        "canvas-mcp-api-key-v1",
	}

	log.Info().Str("kid", keyPair.KID).Msg("Ed25519 key pair loaded")
	return nil
}

// Enabled reports whether a signing key is configured.
func Enabled() bool {
	return keyPair != nil
}

// reset clears the loaded key pair. Test isolation only.
func reset() {
	keyPair = nil
}

// GenerateAPIKey creates a signed API key for a client, optionally expiring.
func GenerateAPIKey(subject string, expiresAt *time.Time) (string, error) {
	if keyPair == nil {
		return "", errors.New("signing key not configured")
	}

	claims := jwt.MapClaims{
		"sub": subject,
		"iat": time.Now().Unix(),
	}
	if expiresAt != nil {
		claims["exp"] = expiresAt.Unix()
	}

	token := jwt.NewWithClaims(&jwt.SigningMethodEd25519{}, claims)
	token.Header["kid"] = keyPair.KID

	signed, err := token.SignedString(keyPair.PrivateKey)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign API key")
	}
	return apiKeyPrefix + signed, nil
}

// VerifyAPIKey checks an API key's signature and expiry and returns its
// subject.
func VerifyAPIKey(key string) (string, error) {
	if keyPair == nil {
		return "", errors.New("signing key not configured")
	}

	raw := strings.TrimPrefix(key, apiKeyPrefix)
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodEd25519); !ok {
			return nil, errors.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return keyPair.PublicKey, nil
	})
	if err != nil {
		return "", errors.Wrap(err, "invalid API key")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid API key claims")
	}
	sub, _ := claims["sub"].(string)
	return sub, nil
}
