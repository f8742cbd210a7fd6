package service

//go:generate mockgen -source=service.go -destination=mocks/mock_store.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mmeshcher/shortslug/internal/generator"
	"github.com/mmeshcher/shortslug/internal/models"
	"github.com/mmeshcher/shortslug/internal/repository"
)

const (
	DefaultCodeLength = 6
	maxAttempts       = 8
)

var (
	ErrEmptyURL           = errors.New("empty url")
	ErrInvalidURL         = errors.New("invalid url")
	ErrURLAlreadyExists   = errors.New("url already exists")
	ErrEmptyBatch         = errors.New("empty batch")
	ErrGenerateID         = errors.New("failed to generate unique id")
	ErrNotFound           = errors.New("short url not found")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// Store persists URL mappings. Save must be atomic: a taken code yields
// repository.ErrCodeTaken, an already stored URL yields the existing mapping
// together with repository.ErrURLExists.
type Store interface {
	Save(ctx context.Context, mapping models.URLMapping) (models.URLMapping, error)
	Get(ctx context.Context, code string) (models.URLMapping, error)
	AddClicks(ctx context.Context, clicks map[string]int64) error
	Summary(ctx context.Context) (models.Summary, error)
	Top(ctx context.Context, limit int) ([]models.LinkInfo, error)
	Recent(ctx context.Context, limit int) ([]models.LinkInfo, error)
	Ping(ctx context.Context) error
	Close() error
}

type ClickRecorder interface {
	Record(code string)
}

type ShortenerService struct {
	store      Store
	clicks     ClickRecorder
	logger     *zap.Logger
	codeLength int

	generate func(length int) (string, error)
	now      func() time.Time
}

// NewShortenerService builds the service. clicks may be nil, in which case redirects are not counted.
func NewShortenerService(store Store, clicks ClickRecorder, logger *zap.Logger, codeLength int) *ShortenerService {
	if codeLength <= 0 {
		codeLength = DefaultCodeLength
	}

	return &ShortenerService{
		store:      store,
		clicks:     clicks,
		logger:     logger,
		codeLength: codeLength,
		generate:   generator.Code,
		now:        time.Now,
	}
}

// NormalizeURL trims the input, adds http:// when no scheme is present and
// checks that the result parses with a scheme and host. Only http and https
// are accepted; the scheme is lower-cased.
func NormalizeURL(raw string) (string, error) {
	originalURL := strings.TrimSpace(raw)
	if originalURL == "" {
		return "", ErrEmptyURL
	}

	if scheme, rest, ok := splitScheme(originalURL); ok {
		scheme = strings.ToLower(scheme)
		if scheme != "http" && scheme != "https" {
			return "", ErrInvalidURL
		}
		originalURL = scheme + "://" + rest
	} else {
		originalURL = "http://" + originalURL
	}

	parsed, err := url.ParseRequestURI(originalURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", ErrInvalidURL
	}

	return originalURL, nil
}

// splitScheme reports the scheme of "scheme://rest" inputs.
func splitScheme(s string) (scheme, rest string, ok bool) {
	scheme, rest, ok = strings.Cut(s, "://")
	if !ok || scheme == "" {
		return "", "", false
	}
	for i, c := range scheme {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case i > 0 && (c >= '0' && c <= '9' || c == '+' || c == '-' || c == '.'):
		default:
			return "", "", false
		}
	}
	return scheme, rest, true
}

func (s *ShortenerService) Shorten(ctx context.Context, rawURL string) (models.URLMapping, error) {
	originalURL, err := NormalizeURL(rawURL)
	if err != nil {
		s.logger.Warn("Rejected URL", zap.String("url", rawURL), zap.Error(err))
		return models.URLMapping{}, err
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		code, err := s.generate(s.codeLength)
		if err != nil {
			s.logger.Error("Failed to generate short code", zap.Error(err))
			return models.URLMapping{}, fmt.Errorf("%w: %w", ErrGenerateID, err)
		}

		saved, err := s.store.Save(ctx, models.URLMapping{
			ShortCode:   code,
			OriginalURL: originalURL,
			CreatedAt:   s.now().UTC(),
		})
		switch {
		case err == nil:
			return saved, nil
		case errors.Is(err, repository.ErrURLExists):
			return saved, ErrURLAlreadyExists
		case errors.Is(err, repository.ErrCodeTaken):
			s.logger.Debug("Short code collision, retrying",
				zap.String("code", code),
				zap.Int("attempt", attempt))
			continue
		default:
			s.logger.Error("Failed to save URL", zap.String("url", originalURL), zap.Error(err))
			return models.URLMapping{}, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
		}
	}

	s.logger.Error("Failed to generate unique short code after max attempts",
		zap.Int("attempts", maxAttempts))
	return models.URLMapping{}, ErrGenerateID
}

// ShortenBatch shortens every item or none: the first invalid URL or storage
// failure aborts the batch. Already stored URLs reuse their code.
func (s *ShortenerService) ShortenBatch(ctx context.Context, baseURL string, batch []models.BatchRequest) ([]models.BatchResponse, error) {
	if len(batch) == 0 {
		return nil, ErrEmptyBatch
	}

	for _, item := range batch {
		if _, err := NormalizeURL(item.OriginalURL); err != nil {
			return nil, fmt.Errorf("correlation id %q: %w", item.CorrelationID, err)
		}
	}

	response := make([]models.BatchResponse, 0, len(batch))
	for _, item := range batch {
		mapping, err := s.Shorten(ctx, item.OriginalURL)
		if err != nil && !errors.Is(err, ErrURLAlreadyExists) {
			return nil, err
		}

		response = append(response, models.BatchResponse{
			CorrelationID: item.CorrelationID,
			ShortURL:      ShortURL(baseURL, mapping.ShortCode),
		})
	}

	return response, nil
}

func (s *ShortenerService) Resolve(ctx context.Context, code string) (string, error) {
	if !generator.Valid(code) {
		return "", ErrNotFound
	}

	mapping, err := s.store.Get(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrNotFound
		}
		s.logger.Error("Failed to resolve short code", zap.String("code", code), zap.Error(err))
		return "", fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	if s.clicks != nil {
		s.clicks.Record(code)
	}

	return mapping.OriginalURL, nil
}

// ShortURL joins base and code with exactly one slash.
func ShortURL(baseURL, code string) string {
	return strings.TrimRight(baseURL, "/") + "/" + code
}

func (s *ShortenerService) Summary(ctx context.Context) (models.Summary, error) {
	summary, err := s.store.Summary(ctx)
	if err != nil {
		return models.Summary{}, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	return summary, nil
}

func (s *ShortenerService) Top(ctx context.Context, limit int) ([]models.LinkInfo, error) {
	links, err := s.store.Top(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	return links, nil
}

func (s *ShortenerService) Recent(ctx context.Context, limit int) ([]models.LinkInfo, error) {
	links, err := s.store.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	return links, nil
}

func (s *ShortenerService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *ShortenerService) Close() error {
	return s.store.Close()
}
