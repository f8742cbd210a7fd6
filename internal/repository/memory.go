package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/mmeshcher/shortslug/internal/models"
)

type MemoryRepository struct {
	mu     sync.RWMutex
	byCode map[string]models.URLMapping
	byURL  map[string]string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byCode: make(map[string]models.URLMapping),
		byURL:  make(map[string]string),
	}
}

func (m *MemoryRepository) Save(ctx context.Context, mapping models.URLMapping) (models.URLMapping, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.saveLocked(mapping)
}

func (m *MemoryRepository) saveLocked(mapping models.URLMapping) (models.URLMapping, error) {
	if code, exists := m.byURL[mapping.OriginalURL]; exists {
		return m.byCode[code], ErrURLExists
	}
	if _, taken := m.byCode[mapping.ShortCode]; taken {
		return models.URLMapping{}, ErrCodeTaken
	}

	m.byCode[mapping.ShortCode] = mapping
	m.byURL[mapping.OriginalURL] = mapping.ShortCode
	return mapping, nil
}

func (m *MemoryRepository) Get(ctx context.Context, code string) (models.URLMapping, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	mapping, ok := m.byCode[code]
	if !ok {
		return models.URLMapping{}, ErrNotFound
	}
	return mapping, nil
}

func (m *MemoryRepository) AddClicks(ctx context.Context, clicks map[string]int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.addClicksLocked(clicks)
	return nil
}

// addClicksLocked returns the mappings it changed.
func (m *MemoryRepository) addClicksLocked(clicks map[string]int64) []models.URLMapping {
	updated := m.withClicksLocked(clicks)
	for _, mapping := range updated {
		m.byCode[mapping.ShortCode] = mapping
	}
	return updated
}

// withClicksLocked computes the incremented mappings without storing them.
func (m *MemoryRepository) withClicksLocked(clicks map[string]int64) []models.URLMapping {
	updated := make([]models.URLMapping, 0, len(clicks))
	for code, n := range clicks {
		mapping, ok := m.byCode[code]
		if !ok || n <= 0 {
			continue
		}
		mapping.Clicks += n
		updated = append(updated, mapping)
	}
	return updated
}

func (m *MemoryRepository) Summary(ctx context.Context) (models.Summary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	summary := models.Summary{TotalURLs: int64(len(m.byCode))}
	for _, mapping := range m.byCode {
		summary.TotalClicks += mapping.Clicks
	}
	return summary, nil
}

func (m *MemoryRepository) Top(ctx context.Context, limit int) ([]models.LinkInfo, error) {
	return m.sorted(limit, func(a, b models.URLMapping) bool {
		if a.Clicks != b.Clicks {
			return a.Clicks > b.Clicks
		}
		return a.CreatedAt.After(b.CreatedAt)
	}), nil
}

func (m *MemoryRepository) Recent(ctx context.Context, limit int) ([]models.LinkInfo, error) {
	return m.sorted(limit, func(a, b models.URLMapping) bool {
		return a.CreatedAt.After(b.CreatedAt)
	}), nil
}

func (m *MemoryRepository) sorted(limit int, less func(a, b models.URLMapping) bool) []models.LinkInfo {
	if limit <= 0 {
		return []models.LinkInfo{}
	}

	m.mu.RLock()
	all := make([]models.URLMapping, 0, len(m.byCode))
	for _, mapping := range m.byCode {
		all = append(all, mapping)
	}
	m.mu.RUnlock()

	sort.SliceStable(all, func(i, j int) bool {
		if less(all[i], all[j]) {
			return true
		}
		if less(all[j], all[i]) {
			return false
		}
		return all[i].ShortCode < all[j].ShortCode
	})

	if len(all) > limit {
		all = all[:limit]
	}

	result := make([]models.LinkInfo, 0, len(all))
	for _, mapping := range all {
		result = append(result, models.LinkInfoFromMapping(mapping))
	}
	return result
}

func (m *MemoryRepository) Ping(ctx context.Context) error {
	return nil
}

func (m *MemoryRepository) Close() error {
	return nil
}
