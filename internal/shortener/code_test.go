package shortener

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomCode(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := RandomCode(DefaultCodeLength)

		require.NoError(t, err)
		assert.Len(t, code, DefaultCodeLength)
		for _, c := range code {
			assert.Contains(t, alphabet, string(c))
		}
	}

	code, err := RandomCode(MaxCodeLength)
	require.NoError(t, err)
	assert.Len(t, code, MaxCodeLength)
}

func TestIsValidFormat(t *testing.T) {
	tests := []struct {
		name string
		code string
		want bool
	}{
		{"too short", "ab", false},
		{"too long", "abcdefghijk", false},
		{"all digits", "123456", false},
		{"reserved", "api", false},
		{"reserved uppercase", "API", false},
		{"reserved mixed case", "Admin", false},
		{"whitespace", "a b", false},
		{"hyphen", "a-b", false},
		{"unicode", "abé", false},
		{"minimum length", "ab1", true},
		{"maximum length", "a123456789", true},
		{"mixed case", "AbC123", true},
		{"reserved as prefix is fine", "apiX", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidFormat(tt.code))
		})
	}
}

func TestIsReserved(t *testing.T) {
	for _, code := range ReservedCodes {
		assert.True(t, IsReserved(code))
		assert.True(t, IsReserved(strings.ToUpper(code)))
	}

	assert.False(t, IsReserved("notreserved"))
}
