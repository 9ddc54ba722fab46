//go:build unit
// +build unit

package cryptography

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/MGTheTrain/rsa-engine/internal/domain/cryptoalg"
	"github.com/MGTheTrain/rsa-engine/internal/pkg/bigint"
	"github.com/MGTheTrain/rsa-engine/internal/pkg/metrics"
	"github.com/MGTheTrain/rsa-engine/internal/pkg/testutil"
	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const TestKeySize512 = 512

type recordedOperation struct {
	operation string
	outcome   string
}

type fakeRecorder struct {
	mu         sync.Mutex
	operations []recordedOperation
	attempts   []int
}

func (f *fakeRecorder) ObserveOperation(operation, outcome string, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.operations = append(f.operations, recordedOperation{operation, outcome})
}

func (f *fakeRecorder) ObserveKeyGenAttempts(attempts int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts = append(f.attempts, attempts)
}

func (f *fakeRecorder) last(t *testing.T) recordedOperation {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.operations)
	return f.operations[len(f.operations)-1]
}

func setupRSAProcessor(t *testing.T, opts ...ProcessorOption) (cryptoalg.RSAProcessor, *fakeRecorder) {
	t.Helper()
	recorder := &fakeRecorder{}
	logger := testutil.SetupTestLogger(t)
	processor, err := NewRSAProcessor(logger, append([]ProcessorOption{WithRecorder(recorder)}, opts...)...)
	require.NoError(t, err)
	return processor, recorder
}

func TestNewRSAProcessor(t *testing.T) {
	_, err := NewRSAProcessor(nil)
	assert.Error(t, err)

	_, err = NewRSAProcessor(testutil.SetupTestLogger(t), WithRandom(nil))
	assert.Error(t, err)

	processor, err := NewRSAProcessor(testutil.SetupTestLogger(t), WithRecorder(nil))
	require.NoError(t, err)
	assert.NotNil(t, processor)
}

func TestRSAProcessor(t *testing.T) {
	processor, recorder := setupRSAProcessor(t)
	key := testutil.Key512(t)

	t.Run("GenerateKey", func(t *testing.T) {
		generated, err := processor.GenerateKey(t.Context(), TestKeySize512)
		require.NoError(t, err)
		assert.Equal(t, TestKeySize512, generated.BitLen())
		assert.True(t, generated.IsPrivate())
		assert.Equal(t, recordedOperation{metrics.OperationGenerate, metrics.OutcomeSuccess}, recorder.last(t))
		assert.NotEmpty(t, recorder.attempts)
	})

	t.Run("EncryptDecrypt", func(t *testing.T) {
		plainText := []byte("This is a secret message")
		encrypted, err := processor.Encrypt(plainText, key.Public())
		require.NoError(t, err)
		assert.Equal(t, recordedOperation{metrics.OperationEncrypt, metrics.OutcomeSuccess}, recorder.last(t))

		decrypted, err := processor.Decrypt(encrypted, key)
		require.NoError(t, err)
		assert.Equal(t, plainText, decrypted)
		assert.Equal(t, recordedOperation{metrics.OperationDecrypt, metrics.OutcomeSuccess}, recorder.last(t))
	})

	t.Run("SignVerify", func(t *testing.T) {
		data := []byte("This is a message to sign")
		signature, err := processor.Sign(data, cryptoalg.SHA256, key)
		require.NoError(t, err)
		assert.Equal(t, recordedOperation{metrics.OperationSign, metrics.OutcomeSuccess}, recorder.last(t))

		valid, err := processor.Verify(data, signature, cryptoalg.SHA256, key.Public())
		require.NoError(t, err)
		assert.True(t, valid)
		assert.Equal(t, recordedOperation{metrics.OperationVerify, metrics.OutcomeSuccess}, recorder.last(t))

		valid, err = processor.Verify([]byte("tampered"), signature, cryptoalg.SHA256, key.Public())
		require.NoError(t, err)
		assert.False(t, valid)
		assert.Equal(t, recordedOperation{metrics.OperationVerify, metrics.OutcomeInvalid}, recorder.last(t))
	})

	t.Run("EncryptMessageTooLong", func(t *testing.T) {
		_, err := processor.Encrypt(make([]byte, key.Size()), key)
		assert.ErrorIs(t, err, ErrMessageTooLong)
		assert.Equal(t, recordedOperation{metrics.OperationEncrypt, metrics.OutcomeFailure}, recorder.last(t))
	})

	t.Run("DecryptWithPublicKey", func(t *testing.T) {
		_, err := processor.Decrypt(make([]byte, key.Size()), key.Public())
		assert.ErrorIs(t, err, ErrInvalidKey)
		assert.Equal(t, recordedOperation{metrics.OperationDecrypt, metrics.OutcomeFailure}, recorder.last(t))
	})

	t.Run("SignUnsupportedDigest", func(t *testing.T) {
		_, err := processor.Sign([]byte("data"), "ripemd160", key)
		assert.ErrorIs(t, err, ErrUnsupportedDigest)
		assert.Equal(t, recordedOperation{metrics.OperationSign, metrics.OutcomeFailure}, recorder.last(t))
	})

	t.Run("VerifyWrongLength", func(t *testing.T) {
		_, err := processor.Verify([]byte("data"), []byte{1, 2, 3}, cryptoalg.SHA256, key)
		assert.ErrorIs(t, err, ErrInvalidSignatureLength)
		assert.Equal(t, recordedOperation{metrics.OperationVerify, metrics.OutcomeFailure}, recorder.last(t))
	})

	t.Run("GenerateInvalidSize", func(t *testing.T) {
		_, err := processor.GenerateKey(t.Context(), 1000+1)
		assert.ErrorIs(t, err, ErrInvalidKeySize)
		assert.Equal(t, recordedOperation{metrics.OperationGenerate, metrics.OutcomeFailure}, recorder.last(t))
	})
}

func TestRSAProcessorOptions(t *testing.T) {
	t.Run("DeterministicRandom", func(t *testing.T) {
		first, _ := setupRSAProcessor(t, WithRandom(seededReader(t, "processor")))
		second, _ := setupRSAProcessor(t, WithRandom(seededReader(t, "processor")))

		a, err := first.GenerateKey(t.Context(), TestKeySize512)
		require.NoError(t, err)
		b, err := second.GenerateKey(t.Context(), TestKeySize512)
		require.NoError(t, err)
		assert.True(t, a.N().Equal(b.N()))
	})

	t.Run("PublicExponent", func(t *testing.T) {
		processor, _ := setupRSAProcessor(t, WithPublicExponent(bigint.FromUint64(3)))
		key, err := processor.GenerateKey(t.Context(), TestKeySize512)
		require.NoError(t, err)
		assert.Equal(t, uint64(3), key.E().Uint64())
	})

	t.Run("KeyGenOptions", func(t *testing.T) {
		processor, _ := setupRSAProcessor(t,
			WithRandom(bytes.NewReader(bytes.Repeat([]byte{0xff}, 4096))),
			WithKeyGenOptions(WithMaxAttempts(3)))
		_, err := processor.GenerateKey(t.Context(), TestKeySize512)
		assert.ErrorIs(t, err, ErrGenerationFailed)
	})

	t.Run("PrometheusRecorder", func(t *testing.T) {
		reg := prometheus.NewPedanticRegistry()
		processor, err := NewRSAProcessor(testutil.SetupTestLogger(t), WithRecorder(metrics.NewPrometheusRecorder(reg)))
		require.NoError(t, err)

		key := testutil.Key512(t)
		signature, err := processor.Sign([]byte("data"), cryptoalg.SHA1, key)
		require.NoError(t, err)
		_, err = processor.Verify([]byte("data"), signature, cryptoalg.SHA1, key)
		require.NoError(t, err)

		count, err := promtestutil.GatherAndCount(reg, "rsa_engine_operations_total")
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})
}
