//go:build unit
// +build unit

package commands

import (
	"bufio"
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"strings"
	"testing"

	"github.com/MGTheTrain/rsa-engine/internal/domain/cryptoalg"
	"github.com/MGTheTrain/rsa-engine/internal/domain/keys"
	"github.com/MGTheTrain/rsa-engine/internal/domain/rsakey"
	"github.com/MGTheTrain/rsa-engine/internal/infrastructure/cryptography"
	"github.com/MGTheTrain/rsa-engine/internal/pkg/config"
	"github.com/MGTheTrain/rsa-engine/internal/pkg/metrics"
	"github.com/MGTheTrain/rsa-engine/internal/pkg/testutil"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRSAProcessor struct {
	mock.Mock
}

func (m *mockRSAProcessor) GenerateKey(ctx context.Context, bits int) (*rsakey.Key, error) {
	args := m.Called(ctx, bits)
	key, _ := args.Get(0).(*rsakey.Key)
	return key, args.Error(1)
}

func (m *mockRSAProcessor) Encrypt(plainText []byte, publicKey rsakey.PublicView) ([]byte, error) {
	args := m.Called(plainText, publicKey)
	out, _ := args.Get(0).([]byte)
	return out, args.Error(1)
}

func (m *mockRSAProcessor) Decrypt(ciphertext []byte, privateKey *rsakey.Key) ([]byte, error) {
	args := m.Called(ciphertext, privateKey)
	out, _ := args.Get(0).([]byte)
	return out, args.Error(1)
}

func (m *mockRSAProcessor) Sign(data []byte, digest cryptoalg.DigestAlgorithm, privateKey *rsakey.Key) ([]byte, error) {
	args := m.Called(data, digest, privateKey)
	out, _ := args.Get(0).([]byte)
	return out, args.Error(1)
}

func (m *mockRSAProcessor) Verify(data, signature []byte, digest cryptoalg.DigestAlgorithm, publicKey rsakey.PublicView) (bool, error) {
	args := m.Called(data, signature, digest, publicKey)
	return args.Bool(0), args.Error(1)
}

func testSettings() *config.EngineSettings {
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

func keyDocumentJSON(t *testing.T, key *rsakey.Key) string {
	t.Helper()
	doc, err := keys.NewKeyDocument("", key)
	require.NoError(t, err)
	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	return string(raw)
}

// execute runs args against a fresh command tree bound to processor and returns stdout.
func execute(t *testing.T, processor cryptoalg.RSAProcessor, stdin string, args ...string) (string, error) {
	t.Helper()
	stdout, _, err := executeWithStderr(t, processor, stdin, args...)
	return stdout, err
}

// executeWithStderr is execute that also returns stderr. A nil processor is replaced by a real one recording
// into the handler's registry.
func executeWithStderr(t *testing.T, processor cryptoalg.RSAProcessor, stdin string, args ...string) (string, string, error) {
	t.Helper()
	log := testutil.SetupTestLogger(t)
	registry := prometheus.NewRegistry()
	recorder := metrics.NewPrometheusRecorder(registry)
	if processor == nil {
		var err error
		processor, err = cryptography.NewRSAProcessor(log, cryptography.WithRecorder(recorder))
		require.NoError(t, err)
	}
	handler := &RSACommandHandler{
		rsaProcessor: processor,
		settings:     testSettings(),
		logger:       log,
		recorder:     recorder,
		gatherer:     registry,
	}

	root := &cobra.Command{Use: "rsa-engine-cli", SilenceUsage: true, SilenceErrors: true}
	handler.register(root)

	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	err := root.ExecuteContext(t.Context())
	return stdout.String(), stderr.String(), err
}

func TestRSACommandsWithMockProcessor(t *testing.T) {
	key := testutil.Key512(t)
	keyJSON := keyDocumentJSON(t, key)

	t.Run("SignUsesDefaultDigest", func(t *testing.T) {
		processor := &mockRSAProcessor{}
		processor.On("Sign", []byte("hello"), cryptoalg.SHA256, mock.AnythingOfType("*rsakey.Key")).
			Return([]byte{0xde, 0xad}, nil).Once()

		out, err := execute(t, processor, "", "sign-rsa", "--key", keyJSON, "--data", "hello")
		require.NoError(t, err)
		assert.Equal(t, "dead\n", out)
		processor.AssertExpectations(t)
	})

	t.Run("SignKeyFromStdin", func(t *testing.T) {
		processor := &mockRSAProcessor{}
		processor.On("Sign", []byte{0x01, 0x02}, cryptoalg.SHA3_256, mock.AnythingOfType("*rsakey.Key")).
			Return([]byte{0xbe, 0xef}, nil).Once()

		out, err := execute(t, processor, keyJSON, "sign-rsa", "--data-hex", "0102", "--digest", "sha3-256")
		require.NoError(t, err)
		assert.Equal(t, "beef\n", out)
		processor.AssertExpectations(t)
	})

	t.Run("VerifyInvalid", func(t *testing.T) {
		processor := &mockRSAProcessor{}
		processor.On("Verify", []byte("hello"), []byte{0xab}, cryptoalg.SHA256, mock.Anything).Return(false, nil).Once()

		out, err := execute(t, processor, "", "verify-rsa", "--key", keyJSON, "--data", "hello", "--signature", "ab")
		assert.ErrorIs(t, err, errSignatureInvalid)
		assert.Equal(t, "invalid\n", out)
		processor.AssertExpectations(t)
	})

	t.Run("VerifyFailure", func(t *testing.T) {
		processor := &mockRSAProcessor{}
		processor.On("Verify", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(false, cryptography.ErrInvalidSignatureLength).Once()

		_, err := execute(t, processor, "", "verify-rsa", "--key", keyJSON, "--data", "hello", "--signature", "ab")
		assert.ErrorIs(t, err, cryptography.ErrInvalidSignatureLength)
	})

	t.Run("DecryptRaw", func(t *testing.T) {
		processor := &mockRSAProcessor{}
		processor.On("Decrypt", []byte{0x00, 0x11}, mock.AnythingOfType("*rsakey.Key")).Return([]byte("plain"), nil).Once()

		out, err := execute(t, processor, "", "decrypt-rsa", "--key", keyJSON, "--ciphertext", "0011", "--raw")
		require.NoError(t, err)
		assert.Equal(t, "plain", out)
		processor.AssertExpectations(t)
	})

	t.Run("EncryptWithoutSeedUsesHandlerProcessor", func(t *testing.T) {
		processor := &mockRSAProcessor{}
		processor.On("Encrypt", []byte("msg"), mock.Anything).Return([]byte{0x0f}, nil).Once()

		out, err := execute(t, processor, "", "encrypt-rsa", "--key", keyJSON, "--data", "msg")
		require.NoError(t, err)
		assert.Equal(t, "0f\n", out)
		processor.AssertExpectations(t)
	})

	t.Run("InputErrors", func(t *testing.T) {
		processor := &mockRSAProcessor{}
		tests := [][]string{
			{"sign-rsa", "--key", "{not json", "--data", "x"},
			{"sign-rsa", "--key", keyJSON, "--data", "x", "--digest", "md4"},
			{"sign-rsa", "--key", keyJSON, "--data", "x", "--data-hex", "78"},
			{"sign-rsa", "--key", keyJSON, "--data-hex", "zz"},
			{"decrypt-rsa", "--key", keyJSON, "--ciphertext", "xyz"},
			{"verify-rsa", "--key", keyJSON, "--signature", "q"},
		}
		for _, args := range tests {
			_, err := execute(t, processor, "", args...)
			assert.Error(t, err, "%v", args)
		}
		processor.AssertNotCalled(t, "Sign", mock.Anything, mock.Anything, mock.Anything)
		processor.AssertNotCalled(t, "Decrypt", mock.Anything, mock.Anything)
	})
}

func TestRSACommandsEndToEnd(t *testing.T) {
	keyJSON := keyDocumentJSON(t, testutil.Key512(t))

	t.Run("SeededEncryptMatchesVector", func(t *testing.T) {
		out, err := execute(t, nil, "", "encrypt-rsa", "--key", keyJSON, "--data", "test", "--seed", "rsa-engine vector 2")
		require.NoError(t, err)
		ct := strings.TrimSpace(out)
		assert.Equal(t, "391b1a3fde94a0aef839881c08446b77835209d51a2a485daf0dff6f4cd3513dd8a514fc61f2e6de98dfcacb5efffc9e0afbf9ec9059045aa6cd05280a181616", ct)

		out, err = execute(t, nil, "", "decrypt-rsa", "--key", keyJSON, "--ciphertext", ct)
		require.NoError(t, err)
		assert.Equal(t, hex.EncodeToString([]byte("test"))+"\n", out)
	})

	t.Run("SignVerify", func(t *testing.T) {
		out, err := execute(t, nil, "", "sign-rsa", "--key", keyJSON, "--data", "test")
		require.NoError(t, err)
		sig := strings.TrimSpace(out)
		assert.Equal(t, "0282364ec93a3c2ac05911e075175313f92689886f96d8461db9973727b57e4967a9b0ab11496eeca1a26b8be31c873ffccf95db5b033c603aeb37aac75c1a92", sig)

		out, err = execute(t, nil, "", "verify-rsa", "--key", keyJSON, "--data", "test", "--signature", sig)
		require.NoError(t, err)
		assert.Equal(t, "valid\n", out)
	})

	t.Run("GenerateSeeded", func(t *testing.T) {
		run := func() []keys.KeyDocument {
			out, err := execute(t, nil, "", "generate-rsa-keys", "--key-size", "512", "--count", "2", "--seed", "cli")
			require.NoError(t, err)

			var docs []keys.KeyDocument
			scanner := bufio.NewScanner(strings.NewReader(out))
			scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
			for scanner.Scan() {
				var doc keys.KeyDocument
				require.NoError(t, json.Unmarshal(scanner.Bytes(), &doc))
				docs = append(docs, doc)
			}
			require.NoError(t, scanner.Err())
			return docs
		}

		first, second := run(), run()
		require.Len(t, first, 2)
		require.Len(t, second, 2)
		for i := range first {
			assert.Equal(t, 512, first[i].Bits)
			assert.True(t, first[i].IsPrivate())
			assert.Equal(t, first[i].N, second[i].N)
			assert.NotEqual(t, first[i].KeyID, second[i].KeyID)

			_, err := first[i].Key()
			assert.NoError(t, err)
		}
		assert.NotEqual(t, first[0].N, first[1].N)
	})

	t.Run("GenerateInvalidSize", func(t *testing.T) {
		_, err := execute(t, nil, "", "generate-rsa-keys", "--key-size", "511")
		assert.Error(t, err)
	})

	t.Run("MetricsFlag", func(t *testing.T) {
		out, stderr, err := executeWithStderr(t, nil, "", "sign-rsa", "--key", keyJSON, "--data", "test", "--metrics")
		require.NoError(t, err)
		assert.NotEmpty(t, out)
		assert.Contains(t, stderr, `rsa_engine_operations_total{operation="sign",outcome="success"} 1`)
		assert.Contains(t, stderr, "rsa_engine_operation_duration_seconds")
		assert.NotContains(t, out, "rsa_engine_operations_total")

		_, stderr, err = executeWithStderr(t, nil, "", "sign-rsa", "--key", keyJSON, "--data", "test")
		require.NoError(t, err)
		assert.NotContains(t, stderr, "rsa_engine_operations_total")
	})

	t.Run("MetricsOnFailure", func(t *testing.T) {
		_, stderr, err := executeWithStderr(t, nil, "", "verify-rsa", "--key", keyJSON, "--data", "test",
			"--signature", strings.Repeat("00", 64), "--metrics")
		assert.ErrorIs(t, err, errSignatureInvalid)
		assert.Contains(t, stderr, `rsa_engine_operations_total{operation="verify",outcome="invalid"} 1`)
	})

	t.Run("GenerateMetrics", func(t *testing.T) {
		_, stderr, err := executeWithStderr(t, nil, "", "generate-rsa-keys", "--key-size", "512", "--seed", "metrics", "--metrics")
		require.NoError(t, err)
		assert.Contains(t, stderr, `rsa_engine_operations_total{operation="generate",outcome="success"} 1`)
		assert.Contains(t, stderr, "rsa_engine_keygen_attempts_count 1")
	})

	t.Run("Inspect", func(t *testing.T) {
		out, err := execute(t, nil, keyJSON, "inspect-rsa")
		require.NoError(t, err)

		var summary keySummary
		require.NoError(t, json.Unmarshal([]byte(out), &summary))
		assert.Equal(t, 512, summary.Bits)
		assert.Equal(t, 64, summary.SizeBytes)
		assert.True(t, summary.Private)
		assert.True(t, summary.CRT)
		require.NotNil(t, summary.Public)
		assert.Equal(t, testutil.Key512N, summary.Public.N)
		assert.Empty(t, summary.Public.D)
	})
}
