package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MGTheTrain/rsa-engine/internal/domain/keys"
	"github.com/MGTheTrain/rsa-engine/internal/infrastructure/cryptography"
	"github.com/MGTheTrain/rsa-engine/internal/pkg/bigint"
	"github.com/MGTheTrain/rsa-engine/internal/pkg/config"
	"github.com/MGTheTrain/rsa-engine/internal/pkg/logger"
	"github.com/MGTheTrain/rsa-engine/internal/pkg/metrics"
	"github.com/MGTheTrain/rsa-engine/internal/pkg/randutil"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/pool"
)

// keyGenerationService implements the KeyGenerationService interface on a bounded worker pool
type keyGenerationService struct {
	settings *config.EngineSettings
	rngs     randutil.Factory
	recorder metrics.Recorder
	logger   logger.Logger
}

// NewKeyGenerationService creates a new keyGenerationService instance. Job i draws its randomness from rngs(i).
func NewKeyGenerationService(
	settings *config.EngineSettings,
	rngs randutil.Factory,
	recorder metrics.Recorder,
	logger logger.Logger,
) (keys.KeyGenerationService, error) {
	if settings == nil {
		return nil, errors.New("settings cannot be nil")
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if rngs == nil {
		return nil, errors.New("randomness factory cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if recorder == nil {
		recorder = metrics.NewNoopRecorder()
	}

	return &keyGenerationService{
		settings: settings,
		rngs:     rngs,
		recorder: recorder,
		logger:   logger,
	}, nil
}

// GenerateKeys generates count keys with at most settings.Workers jobs in flight.
// The first failing job cancels the others.
func (s *keyGenerationService) GenerateKeys(ctx context.Context, count int) ([]*keys.GeneratedKey, error) {
	if count < 1 {
		return nil, fmt.Errorf("key count must be positive, got %d", count)
	}

	generated := make([]*keys.GeneratedKey, count)
	p := pool.New().
		WithMaxGoroutines(s.settings.Workers).
		WithContext(ctx).
		WithCancelOnError().
		WithFirstError()

	for i := range count {
		p.Go(func(ctx context.Context) error {
			key, err := s.generate(ctx, i)
			if err != nil {
				return fmt.Errorf("job %d: %w", i, err)
			}
			generated[i] = key
			return nil
		})
	}

	if err := p.Wait(); err != nil {
		for _, g := range generated {
			if g != nil {
				g.Key.Destroy()
			}
		}
		s.logger.Error("Key generation batch failed: ", err)
		return nil, fmt.Errorf("failed to generate keys: %w", err)
	}

	s.logger.Info(fmt.Sprintf("Generated %d RSA keys of %d bits", count, s.settings.KeyBits))
	return generated, nil
}

func (s *keyGenerationService) generate(ctx context.Context, index int) (*keys.GeneratedKey, error) {
	rng, err := s.rngs(index)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", cryptography.ErrRandomnessUnavailable, err)
	}

	processor, err := cryptography.NewRSAProcessor(s.logger,
		cryptography.WithRandom(rng),
		cryptography.WithRecorder(s.recorder),
		cryptography.WithPublicExponent(bigint.FromUint64(s.settings.PublicExponent)),
		cryptography.WithKeyGenOptions(
			cryptography.WithPrimalityRounds(s.settings.PrimalityRounds),
			cryptography.WithMaxAttempts(s.settings.MaxAttempts),
		),
	)
	if err != nil {
		return nil, err
	}

	key, err := processor.GenerateKey(ctx, s.settings.KeyBits)
	if err != nil {
		return nil, err
	}
	return &keys.GeneratedKey{
		ID:              uuid.NewString(),
		Key:             key,
		DateTimeCreated: time.Now().UTC(),
	}, nil
}
