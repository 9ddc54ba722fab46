package keys

import (
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/MGTheTrain/rsa-engine/internal/domain/rsakey"
	"github.com/go-playground/validator/v10"
)

// GeneratedKey is a key produced by a KeyGenerationService together with its identifier.
type GeneratedKey struct {
	ID              string
	Key             *rsakey.Key
	DateTimeCreated time.Time
}

// KeyDocument is the JSON exchange form of a key: lower-case hex of the fixed-width parameters. A public key
// document carries only n and e.
type KeyDocument struct {
	KeyID string `json:"key_id,omitempty" validate:"omitempty,uuid"`
	Bits  int    `json:"bits" validate:"required,gte=16"`
	N     string `json:"n" validate:"required,hexadecimal"`
	E     string `json:"e" validate:"required,hexadecimal"`
	D     string `json:"d,omitempty" validate:"omitempty,hexadecimal"`
	P     string `json:"p,omitempty" validate:"omitempty,hexadecimal"`
	Q     string `json:"q,omitempty" validate:"omitempty,hexadecimal"`
	DP    string `json:"dp,omitempty" validate:"omitempty,hexadecimal"`
	DQ    string `json:"dq,omitempty" validate:"omitempty,hexadecimal"`
	QInv  string `json:"qinv,omitempty" validate:"omitempty,hexadecimal"`
}

// Validate for validating KeyDocument struct
func (d *KeyDocument) Validate() error {
	validate := validator.New()

	err := validate.Struct(d)
	if err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			var messages []string
			for _, fieldErr := range validationErrors {
				messages = append(messages, fmt.Sprintf("Field: %s, Tag: %s", fieldErr.Field(), fieldErr.Tag()))
			}
			return fmt.Errorf("validation failed: %v", messages)
		}
		return fmt.Errorf("validation error: %w", err)
	}

	return nil
}

// NewKeyDocument exports key. Private keys export every parameter they hold.
func NewKeyDocument(keyID string, key *rsakey.Key) (*KeyDocument, error) {
	params, err := key.Parameters()
	if err != nil {
		return nil, fmt.Errorf("failed to export key: %w", err)
	}
	return &KeyDocument{
		KeyID: keyID,
		Bits:  key.BitLen(),
		N:     hex.EncodeToString(params.N),
		E:     hex.EncodeToString(params.E),
		D:     hex.EncodeToString(params.D),
		P:     hex.EncodeToString(params.P),
		Q:     hex.EncodeToString(params.Q),
		DP:    hex.EncodeToString(params.DP),
		DQ:    hex.EncodeToString(params.DQ),
		QInv:  hex.EncodeToString(params.QInv),
	}, nil
}

// IsPrivate reports whether the document carries a private exponent.
func (d *KeyDocument) IsPrivate() bool {
	return d.D != ""
}

// Public returns a copy of d without private parameters.
func (d *KeyDocument) Public() *KeyDocument {
	return &KeyDocument{KeyID: d.KeyID, Bits: d.Bits, N: d.N, E: d.E}
}

// Key validates d and imports it through rsakey.FromParameters.
func (d *KeyDocument) Key() (*rsakey.Key, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	var params rsakey.Parameters
	for _, field := range []struct {
		dst *[]byte
		src string
	}{
		{&params.N, d.N}, {&params.E, d.E}, {&params.D, d.D},
		{&params.P, d.P}, {&params.Q, d.Q},
		{&params.DP, d.DP}, {&params.DQ, d.DQ}, {&params.QInv, d.QInv},
	} {
		b, err := hex.DecodeString(field.src)
		if err != nil {
			return nil, fmt.Errorf("invalid key parameter: %w", err)
		}
		*field.dst = b
	}

	key, err := rsakey.FromParameters(params)
	if err != nil {
		return nil, err
	}
	if key.BitLen() != d.Bits {
		return nil, fmt.Errorf("%w: document declares %d bits, modulus has %d", rsakey.ErrInvalidKey, d.Bits, key.BitLen())
	}
	return key, nil
}
