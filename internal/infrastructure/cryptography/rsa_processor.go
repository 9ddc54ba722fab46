package cryptography

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/MGTheTrain/rsa-engine/internal/domain/cryptoalg"
	"github.com/MGTheTrain/rsa-engine/internal/domain/rsakey"
	"github.com/MGTheTrain/rsa-engine/internal/pkg/bigint"
	"github.com/MGTheTrain/rsa-engine/internal/pkg/logger"
	"github.com/MGTheTrain/rsa-engine/internal/pkg/metrics"
)

// rsaProcessor struct that implements the RSAProcessor interface
type rsaProcessor struct {
	logger   logger.Logger
	rng      io.Reader
	recorder metrics.Recorder
	exponent *bigint.Uint
	keyGen   []KeyGenOption
}

// ProcessorOption configures an RSA processor.
type ProcessorOption func(*rsaProcessor)

// WithRandom sets the randomness source for key generation and encryption padding. The default is
// crypto/rand.Reader.
func WithRandom(rng io.Reader) ProcessorOption {
	return func(r *rsaProcessor) {
		r.rng = rng
	}
}

// WithRecorder sets the metrics recorder. The default discards observations.
func WithRecorder(recorder metrics.Recorder) ProcessorOption {
	return func(r *rsaProcessor) {
		r.recorder = recorder
	}
}

// WithPublicExponent sets the exponent of generated keys. The default is DefaultExponent.
func WithPublicExponent(exponent *bigint.Uint) ProcessorOption {
	return func(r *rsaProcessor) {
		r.exponent = exponent
	}
}

// WithKeyGenOptions passes opts to every GenerateKey call.
func WithKeyGenOptions(opts ...KeyGenOption) ProcessorOption {
	return func(r *rsaProcessor) {
		r.keyGen = append(r.keyGen, opts...)
	}
}

// NewRSAProcessor creates and returns a new instance of rsaProcessor
func NewRSAProcessor(logger logger.Logger, opts ...ProcessorOption) (cryptoalg.RSAProcessor, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	r := &rsaProcessor{
		logger:   logger,
		rng:      rand.Reader,
		recorder: metrics.NewNoopRecorder(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.rng == nil {
		return nil, errors.New("random source cannot be nil")
	}
	if r.recorder == nil {
		r.recorder = metrics.NewNoopRecorder()
	}
	return r, nil
}

func (r *rsaProcessor) observe(operation string, start time.Time, err error) {
	outcome := metrics.OutcomeSuccess
	if err != nil {
		outcome = metrics.OutcomeFailure
	}
	r.recorder.ObserveOperation(operation, outcome, time.Since(start))
}

// GenerateKey generates an RSA key pair with the specified modulus size.
func (r *rsaProcessor) GenerateKey(ctx context.Context, bits int) (key *rsakey.Key, err error) {
	start := time.Now()
	defer func() { r.observe(metrics.OperationGenerate, start, err) }()

	opts := append([]KeyGenOption{WithAttemptObserver(r.recorder.ObserveKeyGenAttempts)}, r.keyGen...)
	key, err = GenerateKey(ctx, r.rng, bits, r.exponent, opts...)
	if err != nil {
		r.logger.Error("RSA key generation failed: ", err)
		return nil, fmt.Errorf("failed to generate RSA key: %w", err)
	}
	r.logger.Info(fmt.Sprintf("Generated %d-bit RSA key pair", key.BitLen()))
	return key, nil
}

// Encrypt encrypts plaintext with PKCS#1 v1.5 padding under the public key.
func (r *rsaProcessor) Encrypt(plainText []byte, publicKey rsakey.PublicView) (cipherText []byte, err error) {
	start := time.Now()
	defer func() { r.observe(metrics.OperationEncrypt, start, err) }()

	cipherText, err = Encrypt(r.rng, publicKey, plainText, cryptoalg.PKCS1Encryption())
	if err != nil {
		r.logger.Error("RSA encryption failed: ", err)
		return nil, fmt.Errorf("failed to encrypt data: %w", err)
	}
	r.logger.Info("RSA encryption succeeded")
	return cipherText, nil
}

// Decrypt decrypts a PKCS#1 v1.5 ciphertext with the private key.
func (r *rsaProcessor) Decrypt(ciphertext []byte, privateKey *rsakey.Key) (plainText []byte, err error) {
	start := time.Now()
	defer func() { r.observe(metrics.OperationDecrypt, start, err) }()

	plainText, err = Decrypt(privateKey, ciphertext, cryptoalg.PKCS1Encryption())
	if err != nil {
		r.logger.Error("RSA decryption failed: ", err)
		return nil, fmt.Errorf("failed to decrypt data: %w", err)
	}
	r.logger.Info("RSA decryption succeeded")
	return plainText, nil
}

// Sign creates a PKCS#1 v1.5 signature over data with the private key.
func (r *rsaProcessor) Sign(data []byte, digest cryptoalg.DigestAlgorithm, privateKey *rsakey.Key) (signature []byte, err error) {
	start := time.Now()
	defer func() { r.observe(metrics.OperationSign, start, err) }()

	signature, err = Sign(privateKey, data, digest)
	if err != nil {
		r.logger.Error("RSA signing failed: ", err)
		return nil, fmt.Errorf("failed to sign data: %w", err)
	}
	r.logger.Info("RSA signing succeeded")
	return signature, nil
}

// Verify verifies a PKCS#1 v1.5 signature over data with the public key.
func (r *rsaProcessor) Verify(data, signature []byte, digest cryptoalg.DigestAlgorithm, publicKey rsakey.PublicView) (bool, error) {
	start := time.Now()

	valid, err := Verify(publicKey, data, signature, digest)
	switch {
	case err != nil:
		r.recorder.ObserveOperation(metrics.OperationVerify, metrics.OutcomeFailure, time.Since(start))
		r.logger.Error("RSA signature verification failed: ", err)
		return false, fmt.Errorf("failed to verify signature: %w", err)
	case !valid:
		r.recorder.ObserveOperation(metrics.OperationVerify, metrics.OutcomeInvalid, time.Since(start))
		r.logger.Warn("RSA signature is invalid")
		return false, nil
	default:
		r.recorder.ObserveOperation(metrics.OperationVerify, metrics.OutcomeSuccess, time.Since(start))
		r.logger.Info("RSA signature verified successfully")
		return true, nil
	}
}
