package shortener

import (
	"context"
	"errors"
	"fmt"

	"github.com/mbocharov/shortkv/internal/storage"
)

// DefaultMaxRetries bounds the generate-and-check loop for random codes.
const DefaultMaxRetries = 10

// ResolveCode settles on a short code that has no value in the store yet.
//
// With a custom code it validates the format and probes the store once:
// any existing value, expired or not, keeps the code occupied. Without one
// it draws random codes until a free one turns up or the retry budget runs
// out. Only collisions are retried; a store error during the existence
// check propagates immediately.
//
// The existence probe and the eventual write are not atomic. Backends with
// a conditional put close that window at write time; for the rest,
// concurrent resolutions of the same code can both pass here and the later
// write wins.
func ResolveCode(ctx context.Context, store storage.Store, customCode string, length, maxRetries int) (string, error) {
	const op = "shortener.ResolveCode"

	if customCode != "" {
		if !IsValidFormat(customCode) {
			return "", fmt.Errorf("%s: %w", op, ErrInvalidCode)
		}

		_, err := store.Get(ctx, customCode)
		switch {
		case err == nil:
			return "", fmt.Errorf("%s: %w", op, ErrCodeTaken)
		case errors.Is(err, storage.ErrKeyNotFound):
			return customCode, nil
		default:
			return "", fmt.Errorf("%s: failed to check custom code: %w", op, err)
		}
	}

	if length <= 0 {
		length = DefaultCodeLength
	}
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}

	for i := 0; i < maxRetries; i++ {
		code, err := RandomCode(length)
		if err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}

		_, err = store.Get(ctx, code)
		switch {
		case errors.Is(err, storage.ErrKeyNotFound):
			return code, nil
		case err != nil:
			return "", fmt.Errorf("%s: failed to check generated code: %w", op, err)
		}
	}

	return "", fmt.Errorf("%s: %w", op, ErrGenerationExhausted)
}
