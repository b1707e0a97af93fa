package id

import (
	"strings"

	"github.com/google/uuid"
)

// NewID32 returns exactly 32 lowercase hex characters (a v4 UUID with the
// separators stripped). Used for loan and collateral identifiers.
func NewID32() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
