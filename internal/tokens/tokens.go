// Package tokens mints the opaque random tokens handed to guests: room
// guest-access tokens and guest session tokens.
package tokens

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// MaxAttempts bounds both the existence check loop and save retries after a
// unique-constraint violation.
const MaxAttempts = 5

// New returns 32 lower-case hex characters.
func New() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Mint returns a fresh token for which taken reports false. The check is
// not atomic with the later insert; the unique index on the column is what
// finally rejects a collision, and callers retry on it.
func Mint(ctx context.Context, taken func(context.Context, string) (bool, error)) (string, error) {
	for i := 0; i < MaxAttempts; i++ {
		token := New()
		exists, err := taken(ctx, token)
		if err != nil {
			return "", fmt.Errorf("failed to check token: %w", err)
		}
		if !exists {
			return token, nil
		}
	}
	return "", fmt.Errorf("no free token after %d attempts", MaxAttempts)
}
