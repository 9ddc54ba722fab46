//go:build unit
// +build unit

package app

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/MGTheTrain/rsa-engine/internal/infrastructure/cryptography"
	"github.com/MGTheTrain/rsa-engine/internal/pkg/config"
	"github.com/MGTheTrain/rsa-engine/internal/pkg/metrics"
	"github.com/MGTheTrain/rsa-engine/internal/pkg/randutil"
	"github.com/MGTheTrain/rsa-engine/internal/pkg/testutil"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEngineSettings() *config.EngineSettings {
	return &config.EngineSettings{
		KeyBits:         512,
		PublicExponent:  65537,
		PrimalityRounds: 40,
		MaxAttempts:     10000,
		Workers:         2,
		Digest:          "sha256",
		Logger: config.LoggerSettings{
			LogLevel: config.LogLevelInfo,
			LogType:  config.LogTypeConsole,
		},
	}
}

func TestNewKeyGenerationService(t *testing.T) {
	log := testutil.SetupTestLogger(t)

	_, err := NewKeyGenerationService(nil, randutil.SystemFactory(), nil, log)
	assert.Error(t, err)

	invalid := testEngineSettings()
	invalid.Workers = 0
	_, err = NewKeyGenerationService(invalid, randutil.SystemFactory(), nil, log)
	assert.Error(t, err)

	_, err = NewKeyGenerationService(testEngineSettings(), nil, nil, log)
	assert.Error(t, err)

	_, err = NewKeyGenerationService(testEngineSettings(), randutil.SystemFactory(), nil, nil)
	assert.Error(t, err)
}

func TestGenerateKeys(t *testing.T) {
	log := testutil.SetupTestLogger(t)
	seed := []byte("key service")

	t.Run("Batch", func(t *testing.T) {
		reg := prometheus.NewPedanticRegistry()
		service, err := NewKeyGenerationService(testEngineSettings(), randutil.SystemFactory(), metrics.NewPrometheusRecorder(reg), log)
		require.NoError(t, err)

		generated, err := service.GenerateKeys(t.Context(), 3)
		require.NoError(t, err)
		require.Len(t, generated, 3)

		ids := map[string]bool{}
		for _, g := range generated {
			require.NotNil(t, g)
			assert.Equal(t, 512, g.Key.BitLen())
			assert.True(t, g.Key.IsPrivate())
			assert.False(t, g.DateTimeCreated.IsZero())
			_, err := uuid.Parse(g.ID)
			assert.NoError(t, err)
			ids[g.ID] = true
		}
		assert.Len(t, ids, 3)

		count, err := promtestutil.GatherAndCount(reg, "rsa_engine_keygen_attempts")
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("DeterministicPerIndex", func(t *testing.T) {
		service, err := NewKeyGenerationService(testEngineSettings(), randutil.DeterministicFactory(seed), nil, log)
		require.NoError(t, err)

		first, err := service.GenerateKeys(t.Context(), 3)
		require.NoError(t, err)
		second, err := service.GenerateKeys(t.Context(), 3)
		require.NoError(t, err)

		for i := range first {
			assert.True(t, first[i].Key.N().Equal(second[i].Key.N()), "job %d", i)

			rng, err := randutil.DeriveDeterministicReader(seed, i)
			require.NoError(t, err)
			direct, err := cryptography.GenerateKey(t.Context(), rng, 512, nil)
			require.NoError(t, err)
			assert.True(t, direct.N().Equal(first[i].Key.N()), "job %d", i)
		}
		assert.False(t, first[0].Key.N().Equal(first[1].Key.N()))
	})

	t.Run("InvalidCount", func(t *testing.T) {
		service, err := NewKeyGenerationService(testEngineSettings(), randutil.SystemFactory(), nil, log)
		require.NoError(t, err)
		_, err = service.GenerateKeys(t.Context(), 0)
		assert.Error(t, err)
	})

	t.Run("FactoryFailure", func(t *testing.T) {
		errFactory := errors.New("no entropy")
		factory := func(index int) (io.Reader, error) {
			if index == 1 {
				return nil, errFactory
			}
			return randutil.DeriveDeterministicReader(seed, index)
		}
		service, err := NewKeyGenerationService(testEngineSettings(), factory, nil, log)
		require.NoError(t, err)

		generated, err := service.GenerateKeys(t.Context(), 2)
		assert.ErrorIs(t, err, errFactory)
		assert.ErrorIs(t, err, cryptography.ErrRandomnessUnavailable)
		assert.Nil(t, generated)
	})

	t.Run("Cancelled", func(t *testing.T) {
		service, err := NewKeyGenerationService(testEngineSettings(), randutil.SystemFactory(), nil, log)
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(t.Context())
		cancel()
		_, err = service.GenerateKeys(ctx, 2)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
