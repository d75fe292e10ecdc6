package auth

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
)

// codeStore is the slice of the token repository code generation needs.
type codeStore interface {
	Exists(ctx context.Context, token string) (bool, error)
}

// Retries are cheap; running out means either the store is unreachable or
// nearly all 900k codes are live, which a purge would have prevented.
const maxCodeAttempts = 50

// GenerateCode returns a random 6-digit numeric string that does not
// collide with any currently-live code in the store.
func GenerateCode(ctx context.Context, store codeStore) (string, error) {
	for range maxCodeAttempts {
		n, err := rand.Int(rand.Reader, big.NewInt(900000))
		if err != nil {
			return "", fmt.Errorf("generate code: %w", err)
		}
		code := fmt.Sprintf("%06d", n.Int64()+100000)

		exists, err := store.Exists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("check code collision: %w", err)
		}
		if !exists {
			return code, nil
		}
	}
	return "", fmt.Errorf("generate code: no free code after %d attempts", maxCodeAttempts)
}
