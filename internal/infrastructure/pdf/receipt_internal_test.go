package pdf

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatMoney(t *testing.T) {
	cases := map[string]string{
		"0":       "$0",
		"999":     "$999",
		"25000":   "$25.000",
		"1000000": "$1.000.000",
		"1234.56": "$1.235",
		"-1500":   "-$1.500",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatMoney(decimal.RequireFromString(in)), in)
	}
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "#0A1B2C3D", shortID("0a1b2c3d-0000-0000-0000-000000000000"))
	assert.Equal(t, "#ABC", shortID("abc"))
}
