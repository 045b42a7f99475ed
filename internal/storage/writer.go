package storage

import (
	"log/slog"
	"sync"
)

// LogWriter persists request logs off the request path. Entries are dropped
// when the queue is full rather than blocking the gateway.
type LogWriter struct {
	store  Storage
	logger *slog.Logger
	queue  chan *RequestLog
	wg     sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewLogWriter starts a writer goroutine draining into store.
func NewLogWriter(store Storage, size int, logger *slog.Logger) *LogWriter {
	if size <= 0 {
		size = 256
	}
	if logger == nil {
		logger = slog.Default()
	}

	w := &LogWriter{
		store:  store,
		logger: logger.With("component", "storage.logwriter"),
		queue:  make(chan *RequestLog, size),
	}

	w.wg.Add(1)
	go w.run()

	return w
}

// Write enqueues entry. It reports false when the entry was dropped.
func (w *LogWriter) Write(entry *RequestLog) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.closed {
		return false
	}

	select {
	case w.queue <- entry:
		return true
	default:
		w.logger.Warn("request log queue full, dropping entry", "request_id", entry.RequestID)
		return false
	}
}

// Close stops accepting entries and waits for the queue to drain.
func (w *LogWriter) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	close(w.queue)
	w.mu.Unlock()

	w.wg.Wait()
}

func (w *LogWriter) run() {
	defer w.wg.Done()

	for entry := range w.queue {
		if err := w.store.LogRequest(entry); err != nil {
			w.logger.Error("failed to store request log", "request_id", entry.RequestID, "error", err)
		}
	}
}
