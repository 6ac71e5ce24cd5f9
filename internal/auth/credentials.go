package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	clientIDLength     = 20
	clientSecretLength = 30

	alphanumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

const (
	argonMemory      = 64 * 1024
	argonIterations  = 2
	argonParallelism = 1
	argonKeyLength   = 32
	argonSaltLength  = 16
)

// ClientCredentials is a freshly generated machine-account credential pair.
// ClientSecret is shown to the caller exactly once; only the hash is stored.
type ClientCredentials struct {
	ClientID         string `json:"client_id"`
	ClientSecret     string `json:"client_secret"`
	ClientSecretHash string `json:"-"`
}

// NewClientCredentials generates a client_id/client_secret pair from a
// cryptographically secure random source and hashes the secret for storage.
func NewClientCredentials() (ClientCredentials, error) {
	id, err := randomAlphanumeric(clientIDLength)
	if err != nil {
		return ClientCredentials{}, fmt.Errorf("generate client_id: %w", err)
	}
	secret, err := randomAlphanumeric(clientSecretLength)
	if err != nil {
		return ClientCredentials{}, fmt.Errorf("generate client_secret: %w", err)
	}
	hash, err := HashClientSecret(secret)
	if err != nil {
		return ClientCredentials{}, err
	}
	return ClientCredentials{ClientID: id, ClientSecret: secret, ClientSecretHash: hash}, nil
}

// HashClientSecret hashes a client secret with argon2id and encodes the
// result in PHC string format.
func HashClientSecret(secret string) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("%w: client secret is empty", ErrInvalidInput)
	}
	salt := make([]byte, argonSaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	hash := argon2.IDKey([]byte(secret), salt, argonIterations, argonMemory, argonParallelism, argonKeyLength)
	return fmt.Sprintf(
		"$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		argonMemory,
		argonIterations,
		argonParallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

// VerifyClientSecret re-derives the argon2id hash with the stored parameters
// and compares in constant time.
func VerifyClientSecret(encoded, secret string) error {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return ErrUnauthorized
	}
	var memory, iterations uint32
	var parallelism uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &parallelism); err != nil {
		return ErrUnauthorized
	}
	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return ErrUnauthorized
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return ErrUnauthorized
	}
	got := argon2.IDKey([]byte(secret), salt, iterations, memory, parallelism, uint32(len(want)))
	if subtle.ConstantTimeCompare(got, want) != 1 {
		return ErrUnauthorized
	}
	return nil
}

// ChallengeApp verifies a submitted client_id/client_secret pair against an
// APP account. A client_id match alone is not sufficient.
func ChallengeApp(acct *Account, clientID, clientSecret string) bool {
	if acct == nil || acct.Kind != AccountKindApp {
		return false
	}
	if acct.ClientID == "" || acct.ClientID != clientID {
		return false
	}
	return VerifyClientSecret(acct.ClientSecretHash, clientSecret) == nil
}

func randomAlphanumeric(n int) (string, error) {
	out := make([]byte, n)
	max := big.NewInt(int64(len(alphanumeric)))
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = alphanumeric[idx.Int64()]
	}
	return string(out), nil
}
