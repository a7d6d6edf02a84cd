package shortener

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"bare host", "example.com", "https://example.com"},
		{"http kept", "http://x.com", "http://x.com"},
		{"https kept", "https://example.com/path", "https://example.com/path"},
		{"other scheme gets prefixed", "ftp://example.com", "https://ftp://example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.raw))
		})
	}
}

func TestIsValidTarget(t *testing.T) {
	valid := []string{
		"https://example.com",
		"http://example.com/path?q=1",
		"https://sub.domain.co.uk",
		"https://100.64.0.1",
		"https://1720.16.1.1",
	}
	for _, u := range valid {
		t.Run(u, func(t *testing.T) {
			assert.True(t, IsValidTarget(u))
		})
	}

	invalid := []string{
		"",
		"example.com",
		"ftp://example.com",
		"https://",
		"https://ab",
		"https://localhost",
		"https://localhost:8080/admin",
		"https://127.0.0.1",
		"https://0.0.0.0",
		"https://[::1]",
		"https://10.0.0.1",
		"https://172.16.0.1",
		"https://172.31.255.255",
		"https://192.168.1.5",
		"https://192.168.evil.com",
		"https://LOCALHOST",
	}
	for _, u := range invalid {
		t.Run(u, func(t *testing.T) {
			assert.False(t, IsValidTarget(u))
		})
	}
}
