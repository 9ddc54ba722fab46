package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/MGTheTrain/rsa-engine/internal/domain/keys"
	"github.com/MGTheTrain/rsa-engine/internal/domain/rsakey"
	"github.com/MGTheTrain/rsa-engine/internal/pkg/config"
	"github.com/MGTheTrain/rsa-engine/internal/pkg/logger"

	"github.com/spf13/cobra"
)

// ConfigPathEnv names the environment variable holding an optional settings file path.
const ConfigPathEnv = "RSA_ENGINE_CONFIG"

func loadSettings() (*config.EngineSettings, error) {
	settings, err := config.LoadEngineSettings(os.Getenv(ConfigPathEnv))
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return settings, nil
}

func setupLogger(settings *config.LoggerSettings) (logger.Logger, error) {
	if err := logger.InitLogger(settings); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	loggerInstance, err := logger.GetLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to get logger instance: %w", err)
	}

	return loggerInstance, nil
}

// readKeyDocument decodes the --key flag, or stdin when the flag is empty or "-".
func readKeyDocument(cmd *cobra.Command) (*keys.KeyDocument, *rsakey.Key, error) {
	raw, err := cmd.Flags().GetString("key")
	if err != nil {
		return nil, nil, fmt.Errorf("invalid key flag: %w", err)
	}

	var r io.Reader = strings.NewReader(raw)
	if raw == "" || raw == "-" {
		r = cmd.InOrStdin()
	}

	var doc keys.KeyDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, nil, fmt.Errorf("failed to decode key document: %w", err)
	}
	key, err := doc.Key()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to import key: %w", err)
	}
	return &doc, key, nil
}

func writeJSON(cmd *cobra.Command, v any) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func writeLine(cmd *cobra.Command, s string) error {
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), s); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
