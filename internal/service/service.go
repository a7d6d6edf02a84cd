package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/mbocharov/shortkv/internal/models"
	"github.com/mbocharov/shortkv/internal/shortener"
	"github.com/mbocharov/shortkv/internal/storage"
)

// ErrInvalidExpiry is returned when expiresInDays falls outside [1, 365].
var ErrInvalidExpiry = errors.New("expiresInDays must be between 1 and 365")

const (
	// MaxExpiresInDays caps how far ahead a record may expire.
	MaxExpiresInDays = 365

	// statsWriteTimeout bounds the detached click-stats write.
	statsWriteTimeout = 5 * time.Second
)

// URLService implements the record lifecycle over the key-value store.
// It holds no state of its own; all coordination between concurrent
// requests is whatever the store provides.
type URLService struct {
	store      storage.Store
	logger     *slog.Logger
	codeLength int
	maxRetries int

	// now is swapped out in tests to drive expiry.
	now func() time.Time

	// wg tracks detached click-stats writes so shutdown can drain them.
	wg sync.WaitGroup
}

func NewURLService(store storage.Store, logger *slog.Logger, codeLength int) *URLService {
	if codeLength < shortener.MinCodeLength || codeLength > shortener.MaxCodeLength {
		codeLength = shortener.DefaultCodeLength
	}

	return &URLService{
		store:      store,
		logger:     logger,
		codeLength: codeLength,
		maxRetries: shortener.DefaultMaxRetries,
		now:        time.Now,
	}
}

// ShortenURL validates and normalizes the URL, settles on a short code and
// persists the new record. expiresInDays of zero means the record never
// expires.
func (s *URLService) ShortenURL(ctx context.Context, originalURL, customCode string, expiresInDays int) (*models.URLRecord, error) {
	const op = "service.URLService.ShortenURL"

	if len(originalURL) > shortener.MaxURLLength {
		return nil, fmt.Errorf("%s: %w", op, shortener.ErrInvalidURL)
	}
	if expiresInDays < 0 || expiresInDays > MaxExpiresInDays {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidExpiry)
	}

	normalized := shortener.Normalize(strings.TrimSpace(originalURL))
	if !shortener.IsValidTarget(normalized) {
		return nil, fmt.Errorf("%s: %w", op, shortener.ErrInvalidURL)
	}

	for attempt := 0; attempt < s.maxRetries; attempt++ {
		code, err := shortener.ResolveCode(ctx, s.store, customCode, s.codeLength, s.maxRetries)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		record := s.newRecord(normalized, code, expiresInDays)

		stored, err := s.putRecord(ctx, record)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to store record: %w", op, err)
		}
		if stored {
			return record, nil
		}

		// Conditional put lost the race. A custom code is simply taken;
		// a generated one counts against the retry budget.
		if customCode != "" {
			return nil, fmt.Errorf("%s: %w", op, shortener.ErrCodeTaken)
		}
	}

	return nil, fmt.Errorf("%s: %w", op, shortener.ErrGenerationExhausted)
}

// GetURLStats returns the record at the short code as stored. Expired
// records stay visible here; expiry only gates redirects.
func (s *URLService) GetURLStats(ctx context.Context, shortCode string) (*models.URLRecord, error) {
	const op = "service.URLService.GetURLStats"

	record, err := s.getRecord(ctx, shortCode)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return record, nil
}

// DeleteURL removes the record at the short code.
func (s *URLService) DeleteURL(ctx context.Context, shortCode string) error {
	const op = "service.URLService.DeleteURL"

	if _, err := s.getRecord(ctx, shortCode); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.store.Delete(ctx, shortCode); err != nil {
		return fmt.Errorf("%s: failed to delete record: %w", op, err)
	}

	return nil
}

// ResolveShortCode returns the record for a redirect and accounts the
// click. The stats write happens on a detached goroutine with its own
// timeout: the redirect never waits on it and a write failure is logged
// and dropped. Concurrent redirects may lose counts; the counter is
// best-effort.
func (s *URLService) ResolveShortCode(ctx context.Context, shortCode string) (*models.URLRecord, error) {
	const op = "service.URLService.ResolveShortCode"

	record, err := s.getRecord(ctx, shortCode)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if record.Expired(s.now()) {
		return nil, fmt.Errorf("%s: %w", op, shortener.ErrURLExpired)
	}

	accessed := s.now()
	record.ClickCount++
	record.LastAccessed = &accessed

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), statsWriteTimeout)
		defer cancel()

		data, err := json.Marshal(record)
		if err != nil {
			s.logger.Error("failed to marshal click stats",
				slog.String("short_code", record.ShortCode),
				slog.Any("err", err))
			return
		}

		if err := s.store.Put(ctx, record.ShortCode, string(data)); err != nil {
			s.logger.Error("failed to persist click stats",
				slog.String("short_code", record.ShortCode),
				slog.Any("err", err))
		}
	}()

	return record, nil
}

// Wait blocks until all detached click-stats writes have finished.
func (s *URLService) Wait() {
	s.wg.Wait()
}

func (s *URLService) newRecord(originalURL, shortCode string, expiresInDays int) *models.URLRecord {
	now := s.now()

	record := &models.URLRecord{
		OriginalURL: originalURL,
		ShortCode:   shortCode,
		CreatedAt:   now,
	}
	if expiresInDays > 0 {
		expiresAt := now.Add(time.Duration(expiresInDays) * 24 * time.Hour)
		record.ExpiresAt = &expiresAt
	}

	return record
}

func (s *URLService) getRecord(ctx context.Context, shortCode string) (*models.URLRecord, error) {
	value, err := s.store.Get(ctx, shortCode)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return nil, shortener.ErrURLNotFound
		}

		return nil, fmt.Errorf("failed to get record: %w", err)
	}

	var record models.URLRecord
	if err := json.Unmarshal([]byte(value), &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record: %w", err)
	}

	return &record, nil
}

// putRecord writes the record keyed by its short code, using the backend's
// conditional put when available. Plain Put keeps upsert semantics: the
// availability probe in the resolver already ran, and the residual
// check-then-write race resolves as last writer wins.
func (s *URLService) putRecord(ctx context.Context, record *models.URLRecord) (bool, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return false, fmt.Errorf("failed to marshal record: %w", err)
	}

	if cs, ok := s.store.(storage.ConditionalStore); ok {
		return cs.PutIfAbsent(ctx, record.ShortCode, string(data))
	}

	if err := s.store.Put(ctx, record.ShortCode, string(data)); err != nil {
		return false, err
	}

	return true, nil
}
