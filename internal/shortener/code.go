package shortener

import (
	"fmt"
	"regexp"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// alphabet is the 62-character set short codes are drawn from.
const alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

const (
	// DefaultCodeLength is the length of generated short codes.
	DefaultCodeLength = 6
	// MinCodeLength and MaxCodeLength bound custom short codes.
	MinCodeLength = 3
	MaxCodeLength = 10
)

// ReservedCodes are short codes that collide with route prefixes of the
// surrounding service and are never assignable. Shared with the routing
// layer so both sides agree.
var ReservedCodes = []string{"api", "admin", "www", "app", "stats", "help", "about"}

var (
	codePattern   = regexp.MustCompile(`^[0-9a-zA-Z]+$`)
	digitsPattern = regexp.MustCompile(`^[0-9]+$`)
)

// RandomCode draws length characters uniformly from the base62 alphabet.
// Codes are identifiers, not secrets; collision resistance is all that is
// asked of the randomness source.
func RandomCode(length int) (string, error) {
	const op = "shortener.RandomCode"

	code, err := gonanoid.Generate(alphabet, length)
	if err != nil {
		return "", fmt.Errorf("%s: failed to generate code: %w", op, err)
	}

	return code, nil
}

// IsValidFormat reports whether the code satisfies the short-code rules:
// 3-10 alphanumeric characters, not purely numeric, not a reserved word.
// All-digit codes are rejected so codes never collide with numeric route
// patterns a caller might add.
func IsValidFormat(code string) bool {
	if len(code) < MinCodeLength || len(code) > MaxCodeLength {
		return false
	}
	if !codePattern.MatchString(code) {
		return false
	}
	if digitsPattern.MatchString(code) {
		return false
	}

	return !IsReserved(code)
}

// IsReserved reports whether the code case-insensitively equals a reserved
// word.
func IsReserved(code string) bool {
	lower := strings.ToLower(code)
	for _, reserved := range ReservedCodes {
		if lower == reserved {
			return true
		}
	}

	return false
}
