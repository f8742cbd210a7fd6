package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	defaultQueueSize    = 1000
	defaultBatchSize    = 100
	defaultBatchTimeout = 500 * time.Millisecond
	flushTimeout        = 30 * time.Second
)

type ClickStore interface {
	AddClicks(ctx context.Context, clicks map[string]int64) error
}

type Option func(*ClickWorker)

func WithQueueSize(n int) Option {
	return func(w *ClickWorker) {
		if n > 0 {
			w.queueSize = n
		}
	}
}

func WithBatchSize(n int) Option {
	return func(w *ClickWorker) {
		if n > 0 {
			w.batchSize = n
		}
	}
}

func WithBatchTimeout(d time.Duration) Option {
	return func(w *ClickWorker) {
		if d > 0 {
			w.batchTimeout = d
		}
	}
}

// ClickWorker aggregates redirect hits and writes them to the store in batches.
type ClickWorker struct {
	store  ClickStore
	logger *zap.Logger

	clicks       chan string
	queueSize    int
	batchSize    int
	batchTimeout time.Duration

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewClickWorker(store ClickStore, logger *zap.Logger, opts ...Option) *ClickWorker {
	w := &ClickWorker{
		store:        store,
		logger:       logger,
		queueSize:    defaultQueueSize,
		batchSize:    defaultBatchSize,
		batchTimeout: defaultBatchTimeout,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.clicks = make(chan string, w.queueSize)

	w.wg.Add(1)
	go w.run()

	return w
}

// Record never blocks the caller. Clicks arriving on a full or closed queue are dropped.
func (w *ClickWorker) Record(code string) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.closed {
		w.logger.Debug("Click worker closed, click dropped", zap.String("code", code))
		return
	}

	select {
	case w.clicks <- code:
	default:
		w.logger.Warn("Click queue is full, click dropped", zap.String("code", code))
	}
}

func (w *ClickWorker) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	close(w.clicks)
	w.mu.Unlock()

	w.wg.Wait()
	w.logger.Info("Click worker stopped")
}

func (w *ClickWorker) run() {
	defer w.wg.Done()

	batch := make(map[string]int64)
	pending := 0

	ticker := time.NewTicker(w.batchTimeout)
	defer ticker.Stop()

	for {
		select {
		case code, ok := <-w.clicks:
			if !ok {
				w.flush(batch)
				return
			}

			batch[code]++
			pending++

			if pending >= w.batchSize {
				w.flush(batch)
				batch = make(map[string]int64)
				pending = 0
			}

		case <-ticker.C:
			if pending > 0 {
				w.flush(batch)
				batch = make(map[string]int64)
				pending = 0
			}
		}
	}
}

func (w *ClickWorker) flush(batch map[string]int64) {
	if len(batch) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()

	if err := w.store.AddClicks(ctx, batch); err != nil {
		w.logger.Error("Failed to flush clicks",
			zap.Int("codes", len(batch)),
			zap.Error(err))
		return
	}

	w.logger.Debug("Clicks flushed", zap.Int("codes", len(batch)))
}
