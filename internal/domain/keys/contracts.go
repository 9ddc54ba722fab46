package keys

import (
	"context"
)

// KeyGenerationService defines methods for generating batches of RSA keys.
type KeyGenerationService interface {
	// GenerateKeys generates count keys concurrently.
	// It returns the keys in job order and the first error encountered, in which case no keys are returned.
	GenerateKeys(ctx context.Context, count int) ([]*GeneratedKey, error)
}
