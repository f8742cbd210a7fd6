package repository

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mmeshcher/shortslug/internal/models"
)

const maxRecordSize = 2 << 20

// FileRepository keeps mappings in memory and persists every change as a JSON line.
// Later lines for the same short code replace earlier ones on load.
type FileRepository struct {
	*MemoryRepository
	path   string
	file   *os.File
	logger *zap.Logger
}

func NewFileRepository(path string, logger *zap.Logger) (*FileRepository, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	repo := &FileRepository{
		MemoryRepository: NewMemoryRepository(),
		path:             path,
		logger:           logger,
	}

	if err := repo.load(); err != nil {
		return nil, err
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open storage file: %w", err)
	}
	repo.file = file

	return repo, nil
}

func (f *FileRepository) load() error {
	file, err := os.Open(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("open storage file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxRecordSize)

	loaded := 0
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var record models.FileRecord
		if err := json.Unmarshal(line, &record); err != nil {
			return fmt.Errorf("decode storage record: %w", err)
		}

		f.byCode[record.ShortCode] = models.URLMapping{
			ShortCode:   record.ShortCode,
			OriginalURL: record.OriginalURL,
			CreatedAt:   record.CreatedAt,
			Clicks:      record.Clicks,
		}
		f.byURL[record.OriginalURL] = record.ShortCode
		loaded++
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read storage file: %w", err)
	}

	f.logger.Info("Storage file loaded",
		zap.String("path", f.path),
		zap.Int("records", loaded),
		zap.Int("mappings", len(f.byCode)))

	return nil
}

func (f *FileRepository) Save(ctx context.Context, mapping models.URLMapping) (models.URLMapping, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	saved, err := f.saveLocked(mapping)
	if err != nil {
		return saved, err
	}

	if err := f.appendRecord(saved); err != nil {
		delete(f.byCode, saved.ShortCode)
		delete(f.byURL, saved.OriginalURL)
		return models.URLMapping{}, err
	}

	return saved, nil
}

func (f *FileRepository) AddClicks(ctx context.Context, clicks map[string]int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	// A counter changes in memory only once its snapshot line is on disk.
	for _, mapping := range f.withClicksLocked(clicks) {
		if err := f.appendRecord(mapping); err != nil {
			return err
		}
		f.byCode[mapping.ShortCode] = mapping
	}
	return nil
}

func (f *FileRepository) appendRecord(mapping models.URLMapping) error {
	record := models.FileRecord{
		UUID:        uuid.New().String(),
		ShortCode:   mapping.ShortCode,
		OriginalURL: mapping.OriginalURL,
		CreatedAt:   mapping.CreatedAt,
		Clicks:      mapping.Clicks,
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode storage record: %w", err)
	}

	if _, err := f.file.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write storage record: %w", err)
	}
	return nil
}

func (f *FileRepository) Ping(ctx context.Context) error {
	_, err := f.file.Stat()
	return err
}

func (f *FileRepository) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.file.Close()
}
