package commands

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/MGTheTrain/rsa-engine/internal/app"
	"github.com/MGTheTrain/rsa-engine/internal/domain/cryptoalg"
	"github.com/MGTheTrain/rsa-engine/internal/domain/keys"
	"github.com/MGTheTrain/rsa-engine/internal/infrastructure/cryptography"
	"github.com/MGTheTrain/rsa-engine/internal/pkg/bigint"
	"github.com/MGTheTrain/rsa-engine/internal/pkg/config"
	"github.com/MGTheTrain/rsa-engine/internal/pkg/logger"
	"github.com/MGTheTrain/rsa-engine/internal/pkg/metrics"
	"github.com/MGTheTrain/rsa-engine/internal/pkg/randutil"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
)

var errSignatureInvalid = errors.New("signature is invalid")

// RSACommandHandler encapsulates logic for handling RSA operations via CLI.
type RSACommandHandler struct {
	rsaProcessor cryptoalg.RSAProcessor
	settings     *config.EngineSettings
	logger       logger.Logger
	recorder     metrics.Recorder
	gatherer     prometheus.Gatherer
}

// NewRSACommandHandler loads the engine settings and initializes a new RSACommandHandler with logging and an
// RSA processor drawing from crypto/rand.
func NewRSACommandHandler() (*RSACommandHandler, error) {
	settings, err := loadSettings()
	if err != nil {
		return nil, err
	}

	loggerInstance, err := setupLogger(&settings.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}

	registry := prometheus.NewRegistry()
	recorder := metrics.NewPrometheusRecorder(registry)

	rsaProcessor, err := cryptography.NewRSAProcessor(loggerInstance, processorOptions(settings, recorder)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create RSA processor: %w", err)
	}

	return &RSACommandHandler{
		rsaProcessor: rsaProcessor,
		settings:     settings,
		logger:       loggerInstance,
		recorder:     recorder,
		gatherer:     registry,
	}, nil
}

func processorOptions(settings *config.EngineSettings, recorder metrics.Recorder) []cryptography.ProcessorOption {
	return []cryptography.ProcessorOption{
		cryptography.WithRecorder(recorder),
		cryptography.WithPublicExponent(bigint.FromUint64(settings.PublicExponent)),
		cryptography.WithKeyGenOptions(
			cryptography.WithPrimalityRounds(settings.PrimalityRounds),
			cryptography.WithMaxAttempts(settings.MaxAttempts),
		),
	}
}

// processorFor returns the handler's processor, or one drawing from the deterministic stream of --seed when
// that flag is set.
func (commandHandler *RSACommandHandler) processorFor(cmd *cobra.Command) (cryptoalg.RSAProcessor, error) {
	seed, err := cmd.Flags().GetString("seed")
	if err != nil {
		return nil, fmt.Errorf("invalid seed flag: %w", err)
	}
	if seed == "" {
		return commandHandler.rsaProcessor, nil
	}

	rng, err := randutil.NewDeterministicReader([]byte(seed))
	if err != nil {
		return nil, err
	}
	opts := append(processorOptions(commandHandler.settings, commandHandler.recorder), cryptography.WithRandom(rng))
	return cryptography.NewRSAProcessor(commandHandler.logger, opts...)
}

func readData(cmd *cobra.Command) ([]byte, error) {
	data, err := cmd.Flags().GetString("data")
	if err != nil {
		return nil, fmt.Errorf("invalid data flag: %w", err)
	}
	dataHex, err := cmd.Flags().GetString("data-hex")
	if err != nil {
		return nil, fmt.Errorf("invalid data-hex flag: %w", err)
	}

	switch {
	case data != "" && dataHex != "":
		return nil, errors.New("--data and --data-hex are mutually exclusive")
	case dataHex != "":
		b, err := hex.DecodeString(dataHex)
		if err != nil {
			return nil, fmt.Errorf("invalid data-hex flag: %w", err)
		}
		return b, nil
	default:
		return []byte(data), nil
	}
}

func (commandHandler *RSACommandHandler) digestFlag(cmd *cobra.Command) (cryptoalg.DigestAlgorithm, error) {
	name, err := cmd.Flags().GetString("digest")
	if err != nil {
		return "", fmt.Errorf("invalid digest flag: %w", err)
	}
	if name == "" {
		name = commandHandler.settings.Digest
	}
	digest := cryptoalg.DigestAlgorithm(name)
	if !digest.IsSupported() {
		return "", fmt.Errorf("unsupported digest %q, expected one of %v", name, cryptoalg.DigestAlgorithms())
	}
	return digest, nil
}

func (commandHandler *RSACommandHandler) fail(err error) error {
	commandHandler.logger.Error(err)
	return err
}

// withMetrics runs run and then, when --metrics is set, writes the gathered metrics to stderr in the
// Prometheus text format. Metrics are written for failed commands too.
func (commandHandler *RSACommandHandler) withMetrics(run func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		runErr := run(cmd, args)
		enabled, err := cmd.Flags().GetBool("metrics")
		if err != nil || !enabled {
			return runErr
		}
		if err := commandHandler.writeMetrics(cmd.ErrOrStderr()); err != nil {
			return errors.Join(runErr, commandHandler.fail(err))
		}
		return runErr
	}
}

func (commandHandler *RSACommandHandler) writeMetrics(w io.Writer) error {
	if commandHandler.gatherer == nil {
		return nil
	}
	families, err := commandHandler.gatherer.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	for _, family := range families {
		if _, err := expfmt.MetricFamilyToText(w, family); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}
	return nil
}

// GenerateRSAKeysCmd generates RSA key pairs and writes one JSON key document per line
func (commandHandler *RSACommandHandler) GenerateRSAKeysCmd(cmd *cobra.Command, _ []string) error {
	keySize, err := cmd.Flags().GetInt("key-size")
	if err != nil {
		return commandHandler.fail(fmt.Errorf("invalid key-size flag: %w", err))
	}
	count, err := cmd.Flags().GetInt("count")
	if err != nil {
		return commandHandler.fail(fmt.Errorf("invalid count flag: %w", err))
	}
	seed, err := cmd.Flags().GetString("seed")
	if err != nil {
		return commandHandler.fail(fmt.Errorf("invalid seed flag: %w", err))
	}

	settings := *commandHandler.settings
	if keySize != 0 {
		settings.KeyBits = keySize
	}
	rngs := randutil.SystemFactory()
	if seed != "" {
		rngs = randutil.DeterministicFactory([]byte(seed))
	}

	service, err := app.NewKeyGenerationService(&settings, rngs, commandHandler.recorder, commandHandler.logger)
	if err != nil {
		return commandHandler.fail(err)
	}
	generated, err := service.GenerateKeys(cmd.Context(), count)
	if err != nil {
		return commandHandler.fail(err)
	}

	for _, g := range generated {
		doc, err := keys.NewKeyDocument(g.ID, g.Key)
		g.Key.Destroy()
		if err != nil {
			return commandHandler.fail(err)
		}
		if err := writeJSON(cmd, doc); err != nil {
			return commandHandler.fail(err)
		}
	}
	return nil
}

// EncryptRSACmd encrypts --data under the key document's public key and writes the hex ciphertext
func (commandHandler *RSACommandHandler) EncryptRSACmd(cmd *cobra.Command, _ []string) error {
	_, key, err := readKeyDocument(cmd)
	if err != nil {
		return commandHandler.fail(err)
	}
	plainText, err := readData(cmd)
	if err != nil {
		return commandHandler.fail(err)
	}
	processor, err := commandHandler.processorFor(cmd)
	if err != nil {
		return commandHandler.fail(err)
	}

	cipherText, err := processor.Encrypt(plainText, key.Public())
	if err != nil {
		return commandHandler.fail(err)
	}
	return writeLine(cmd, hex.EncodeToString(cipherText))
}

// DecryptRSACmd decrypts a hex ciphertext with the key document's private key
func (commandHandler *RSACommandHandler) DecryptRSACmd(cmd *cobra.Command, _ []string) error {
	_, key, err := readKeyDocument(cmd)
	if err != nil {
		return commandHandler.fail(err)
	}
	defer key.Destroy()

	cipherHex, err := cmd.Flags().GetString("ciphertext")
	if err != nil {
		return commandHandler.fail(fmt.Errorf("invalid ciphertext flag: %w", err))
	}
	cipherText, err := hex.DecodeString(cipherHex)
	if err != nil {
		return commandHandler.fail(fmt.Errorf("invalid ciphertext flag: %w", err))
	}
	raw, err := cmd.Flags().GetBool("raw")
	if err != nil {
		return commandHandler.fail(fmt.Errorf("invalid raw flag: %w", err))
	}

	plainText, err := commandHandler.rsaProcessor.Decrypt(cipherText, key)
	if err != nil {
		return commandHandler.fail(err)
	}
	if raw {
		if _, err := cmd.OutOrStdout().Write(plainText); err != nil {
			return commandHandler.fail(fmt.Errorf("failed to write output: %w", err))
		}
		return nil
	}
	return writeLine(cmd, hex.EncodeToString(plainText))
}

// SignRSACmd signs --data with the key document's private key and writes the hex signature
func (commandHandler *RSACommandHandler) SignRSACmd(cmd *cobra.Command, _ []string) error {
	_, key, err := readKeyDocument(cmd)
	if err != nil {
		return commandHandler.fail(err)
	}
	defer key.Destroy()

	data, err := readData(cmd)
	if err != nil {
		return commandHandler.fail(err)
	}
	digest, err := commandHandler.digestFlag(cmd)
	if err != nil {
		return commandHandler.fail(err)
	}

	signature, err := commandHandler.rsaProcessor.Sign(data, digest, key)
	if err != nil {
		return commandHandler.fail(err)
	}
	return writeLine(cmd, hex.EncodeToString(signature))
}

// VerifyRSACmd verifies a hex signature over --data and writes "valid" or "invalid"
func (commandHandler *RSACommandHandler) VerifyRSACmd(cmd *cobra.Command, _ []string) error {
	_, key, err := readKeyDocument(cmd)
	if err != nil {
		return commandHandler.fail(err)
	}
	data, err := readData(cmd)
	if err != nil {
		return commandHandler.fail(err)
	}
	digest, err := commandHandler.digestFlag(cmd)
	if err != nil {
		return commandHandler.fail(err)
	}
	signatureHex, err := cmd.Flags().GetString("signature")
	if err != nil {
		return commandHandler.fail(fmt.Errorf("invalid signature flag: %w", err))
	}
	signature, err := hex.DecodeString(signatureHex)
	if err != nil {
		return commandHandler.fail(fmt.Errorf("invalid signature flag: %w", err))
	}

	valid, err := commandHandler.rsaProcessor.Verify(data, signature, digest, key.Public())
	if err != nil {
		return commandHandler.fail(err)
	}
	if !valid {
		if err := writeLine(cmd, "invalid"); err != nil {
			return commandHandler.fail(err)
		}
		return errSignatureInvalid
	}
	return writeLine(cmd, "valid")
}

type keySummary struct {
	KeyID     string            `json:"key_id,omitempty"`
	Bits      int               `json:"bits"`
	SizeBytes int               `json:"size_bytes"`
	Private   bool              `json:"private"`
	CRT       bool              `json:"crt"`
	Public    *keys.KeyDocument `json:"public"`
}

// InspectRSACmd writes a summary of the key document together with its public part
func (commandHandler *RSACommandHandler) InspectRSACmd(cmd *cobra.Command, _ []string) error {
	doc, key, err := readKeyDocument(cmd)
	if err != nil {
		return commandHandler.fail(err)
	}
	defer key.Destroy()

	_, hasCRT := key.CRT()
	return writeJSON(cmd, keySummary{
		KeyID:     doc.KeyID,
		Bits:      key.BitLen(),
		SizeBytes: key.Size(),
		Private:   key.IsPrivate(),
		CRT:       hasCRT,
		Public:    doc.Public(),
	})
}

// InitRSACommands registers RSA-related commands
func InitRSACommands(rootCmd *cobra.Command) error {
	handler, err := NewRSACommandHandler()
	if err != nil {
		return fmt.Errorf("failed to create RSA command handler: %w", err)
	}
	handler.register(rootCmd)
	return nil
}

func (commandHandler *RSACommandHandler) register(rootCmd *cobra.Command) {
	rootCmd.PersistentFlags().Bool("metrics", false, "Write Prometheus metrics to stderr after the command runs")

	var generateRSAKeysCmd = &cobra.Command{
		Use:   "generate-rsa-keys",
		Short: "Generate RSA keys as JSON key documents",
		RunE:  commandHandler.withMetrics(commandHandler.GenerateRSAKeysCmd),
	}
	generateRSAKeysCmd.Flags().IntP("key-size", "", 0, "Modulus size in bits (defaults to RSA_ENGINE_KEY_BITS)")
	generateRSAKeysCmd.Flags().IntP("count", "", 1, "Number of keys to generate")
	generateRSAKeysCmd.Flags().StringP("seed", "", "", "Seed for deterministic generation (testing only)")
	rootCmd.AddCommand(generateRSAKeysCmd)

	var encryptRSACmd = &cobra.Command{
		Use:   "encrypt-rsa",
		Short: "Encrypt data with PKCS#1 v1.5 padding",
		RunE:  commandHandler.withMetrics(commandHandler.EncryptRSACmd),
	}
	encryptRSACmd.Flags().StringP("key", "", "", "JSON key document (read from stdin when empty or -)")
	encryptRSACmd.Flags().StringP("data", "", "", "Plaintext to encrypt")
	encryptRSACmd.Flags().StringP("data-hex", "", "", "Plaintext to encrypt, hex encoded")
	encryptRSACmd.Flags().StringP("seed", "", "", "Seed for deterministic padding (testing only)")
	rootCmd.AddCommand(encryptRSACmd)

	var decryptRSACmd = &cobra.Command{
		Use:   "decrypt-rsa",
		Short: "Decrypt a PKCS#1 v1.5 ciphertext",
		RunE:  commandHandler.withMetrics(commandHandler.DecryptRSACmd),
	}
	decryptRSACmd.Flags().StringP("key", "", "", "JSON private key document (read from stdin when empty or -)")
	decryptRSACmd.Flags().StringP("ciphertext", "", "", "Ciphertext, hex encoded")
	decryptRSACmd.Flags().BoolP("raw", "", false, "Write the plaintext bytes instead of hex")
	rootCmd.AddCommand(decryptRSACmd)

	var signRSACmd = &cobra.Command{
		Use:   "sign-rsa",
		Short: "Sign data with PKCS#1 v1.5 signature padding",
		RunE:  commandHandler.withMetrics(commandHandler.SignRSACmd),
	}
	signRSACmd.Flags().StringP("key", "", "", "JSON private key document (read from stdin when empty or -)")
	signRSACmd.Flags().StringP("data", "", "", "Data to sign")
	signRSACmd.Flags().StringP("data-hex", "", "", "Data to sign, hex encoded")
	signRSACmd.Flags().StringP("digest", "", "", "Digest algorithm (defaults to RSA_ENGINE_DIGEST)")
	rootCmd.AddCommand(signRSACmd)

	var verifyRSACmd = &cobra.Command{
		Use:   "verify-rsa",
		Short: "Verify a PKCS#1 v1.5 signature",
		RunE:  commandHandler.withMetrics(commandHandler.VerifyRSACmd),
	}
	verifyRSACmd.Flags().StringP("key", "", "", "JSON key document (read from stdin when empty or -)")
	verifyRSACmd.Flags().StringP("data", "", "", "Signed data")
	verifyRSACmd.Flags().StringP("data-hex", "", "", "Signed data, hex encoded")
	verifyRSACmd.Flags().StringP("signature", "", "", "Signature, hex encoded")
	verifyRSACmd.Flags().StringP("digest", "", "", "Digest algorithm (defaults to RSA_ENGINE_DIGEST)")
	rootCmd.AddCommand(verifyRSACmd)

	var inspectRSACmd = &cobra.Command{
		Use:   "inspect-rsa",
		Short: "Summarize a JSON key document",
		RunE:  commandHandler.withMetrics(commandHandler.InspectRSACmd),
	}
	inspectRSACmd.Flags().StringP("key", "", "", "JSON key document (read from stdin when empty or -)")
	rootCmd.AddCommand(inspectRSACmd)
}
