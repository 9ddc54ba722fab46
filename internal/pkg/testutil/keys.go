package testutil

import (
	"encoding/hex"
	"testing"

	"github.com/MGTheTrain/rsa-engine/internal/domain/rsakey"
	"github.com/stretchr/testify/require"
)

// Fixed 512-bit CRT key (e = 65537) used for checked-in vectors. Far too small for real use.
const (
	Key512N    = "cf8fd481fd71ffa08d0e549c22084da074a0027ca3e3902224c484e5e8c008f859d3e6fcf8e98db792e8465a5d638cfc99a0003ad6b01d059eb87e36446dd4e3"
	Key512E    = "010001"
	Key512D    = "1cd662deb1e91b6c4c5768074e987b65dba38f8a39a042ef90ced79809bfaf29c74f84f74c928133308d272d5a9389dc19989949ac6b0f4fa1557f569fb300e1"
	Key512P    = "f235bfb76a1a771eacb22aebdd4da4c95145553eb0c792105936e709393ced5d"
	Key512Q    = "db61143954cd9391c3d372d19ac9f21b6b28fdc48b4a64587b618ebce8bb673f"
	Key512DP   = "040a1b716ea69458019f5311edf5ee8aa0fd5c0798a12b71745b730cf75469cd"
	Key512DQ   = "b5f3aaa672639f4582b9d9bd67389f89863395667270dd115623f01356a43859"
	Key512QInv = "aa1756c367be2652eadb0d2a3b1508506b7421ed09fa3e59b89be4b4e89f9b2c"
)

// MustHex decodes s or fails the test.
func MustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

// Key512Parameters returns the fixed test key as byte parameters.
func Key512Parameters(t *testing.T) rsakey.Parameters {
	t.Helper()
	return rsakey.Parameters{
		N:    MustHex(t, Key512N),
		E:    MustHex(t, Key512E),
		D:    MustHex(t, Key512D),
		P:    MustHex(t, Key512P),
		Q:    MustHex(t, Key512Q),
		DP:   MustHex(t, Key512DP),
		DQ:   MustHex(t, Key512DQ),
		QInv: MustHex(t, Key512QInv),
	}
}

// Key512 returns the fixed test key with its CRT parameters.
func Key512(t *testing.T) *rsakey.Key {
	t.Helper()
	key, err := rsakey.FromParameters(Key512Parameters(t))
	require.NoError(t, err)
	return key
}

// Key512NoCRT returns the fixed test key with only n, e and d.
func Key512NoCRT(t *testing.T) *rsakey.Key {
	t.Helper()
	params := Key512Parameters(t)
	key, err := rsakey.FromParameters(rsakey.Parameters{N: params.N, E: params.E, D: params.D})
	require.NoError(t, err)
	return key
}

