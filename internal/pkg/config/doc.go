// Package config provides the engine and logger settings.
//
// Settings are read from a YAML file or from RSA_ENGINE_* environment variables with cleanenv and
// validated with go-playground/validator, including the RSA specific tags from the validators package.
package config
