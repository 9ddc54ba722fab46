package config

import (
	"fmt"

	"github.com/MGTheTrain/rsa-engine/internal/pkg/validators"
	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
)

// EngineSettings holds the key generation and signing defaults of the engine together with its logger settings.
type EngineSettings struct {
	KeyBits         int            `yaml:"key_bits" env:"RSA_ENGINE_KEY_BITS" env-default:"2048" env-description:"Modulus size of generated keys" validate:"rsa_bits"`
	PublicExponent  uint64         `yaml:"public_exponent" env:"RSA_ENGINE_PUBLIC_EXPONENT" env-default:"65537" env-description:"Public exponent of generated keys" validate:"rsa_exponent"`
	PrimalityRounds int            `yaml:"primality_rounds" env:"RSA_ENGINE_PRIMALITY_ROUNDS" env-default:"40" env-description:"Miller-Rabin rounds per prime candidate" validate:"gte=40"`
	MaxAttempts     int            `yaml:"max_attempts" env:"RSA_ENGINE_MAX_ATTEMPTS" env-default:"10000" env-description:"Prime candidates drawn before key generation fails" validate:"gte=1"`
	Workers         int            `yaml:"workers" env:"RSA_ENGINE_WORKERS" env-default:"4" env-description:"Concurrent key generation jobs" validate:"gte=1,lte=64"`
	Digest          string         `yaml:"digest" env:"RSA_ENGINE_DIGEST" env-default:"sha256" env-description:"Default signature digest" validate:"digest"`
	Logger          LoggerSettings `yaml:"logger"`
}

// Validate checks EngineSettings and the nested LoggerSettings
func (s *EngineSettings) Validate() error {
	validate := validator.New()
	if err := validators.Register(validate); err != nil {
		return err
	}

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for EngineSettings: %w", err)
	}
	return s.Logger.Validate()
}

// LoadEngineSettings reads settings from the YAML file at path, or from the environment alone when path is
// empty, applies env-default values and validates the result.
func LoadEngineSettings(path string) (*EngineSettings, error) {
	var s EngineSettings

	var err error
	if path == "" {
		err = cleanenv.ReadEnv(&s)
	} else {
		err = cleanenv.ReadConfig(path, &s)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load engine settings: %w", err)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// EnvironmentHelp describes every environment variable LoadEngineSettings reads.
func EnvironmentHelp() (string, error) {
	return cleanenv.GetDescription(&EngineSettings{}, nil)
}
