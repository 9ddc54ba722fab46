// Package main is the entry point for the rsa-engine-cli application.
// It loads the engine settings, registers the RSA sub-commands and executes the command-line interface.
package main

import (
	"fmt"
	"log"
	"os"

	commands "github.com/MGTheTrain/rsa-engine/cmd/rsa-engine-cli/internal/commands"
	"github.com/MGTheTrain/rsa-engine/internal/pkg/config"

	"github.com/spf13/cobra"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run() error {
	envHelp, err := config.EnvironmentHelp()
	if err != nil {
		return fmt.Errorf("failed to describe environment: %w", err)
	}

	rootCmd := &cobra.Command{
		Use:   "rsa-engine-cli",
		Short: "RSA key generation, encryption and signing CLI tool",
		Long: `rsa-engine-cli generates RSA keys and runs PKCS#1 v1.5 encryption, decryption, signing and
verification. Keys are exchanged as JSON documents of hex parameters on stdin, stdout or the --key flag.
With --metrics, the Prometheus metrics recorded by the command are written to stderr.

Settings are read from the YAML file named by ` + commands.ConfigPathEnv + ` when set, otherwise from:
` + envHelp,
		SilenceUsage: true,
	}

	if err := commands.InitRSACommands(rootCmd); err != nil {
		return fmt.Errorf("failed to initialize RSA commands: %w", err)
	}

	if err := rootCmd.Execute(); err != nil {
		return fmt.Errorf("command execution failed: %w", err)
	}
	return nil
}

func init() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stderr)
}
