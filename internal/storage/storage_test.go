package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/mandalnilabja/llamarelay/internal/storage/models"
)

func setupTestDB(t *testing.T) Storage {
	t.Helper()

	store, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func TestRequestLogging(t *testing.T) {
	store := setupTestDB(t)

	entries := []*RequestLog{
		{RequestID: "req-1", Method: "POST", Subpath: "api/chat", Provider: "Ollama",
			Outcome: models.OutcomeForwarded, IsStreaming: true, StatusCode: 200, BytesRelayed: 512, DurationMs: 1500},
		{RequestID: "req-2", Method: "POST", Subpath: "api/pull", Provider: "Ollama",
			Outcome: models.OutcomePathRejected, StatusCode: 403, ErrorMessage: "you are not allowed to request api/pull"},
	}
	for _, e := range entries {
		if err := store.LogRequest(e); err != nil {
			t.Fatalf("LogRequest failed: %v", err)
		}
		if e.ID == "" {
			t.Error("expected ID to be generated")
		}
	}

	logs, err := store.GetRequestLogs(LogFilter{Limit: 10})
	if err != nil {
		t.Fatalf("GetRequestLogs failed: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("expected 2 logs, got %d", len(logs))
	}

	logs, err = store.GetRequestLogs(LogFilter{Subpath: "api/chat"})
	if err != nil {
		t.Fatalf("GetRequestLogs with filter failed: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("expected 1 log for api/chat, got %d", len(logs))
	}
	if !logs[0].IsStreaming || logs[0].BytesRelayed != 512 || logs[0].Outcome != models.OutcomeForwarded {
		t.Errorf("unexpected row %+v", logs[0])
	}

	status := 403
	logs, err = store.GetRequestLogs(LogFilter{StatusCode: &status, Outcome: models.OutcomePathRejected})
	if err != nil {
		t.Fatalf("GetRequestLogs by status failed: %v", err)
	}
	if len(logs) != 1 || logs[0].ErrorMessage == "" {
		t.Errorf("expected rejected row with message, got %+v", logs)
	}

	n, err := store.CountRequestLogs()
	if err != nil || n != 2 {
		t.Errorf("expected count 2, got %d (%v)", n, err)
	}
}

func TestLogRequestInvalid(t *testing.T) {
	store := setupTestDB(t)

	if err := store.LogRequest(&RequestLog{}); err != ErrInvalidInput {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestDeleteRequestLogs(t *testing.T) {
	store := setupTestDB(t)

	old := &RequestLog{RequestID: "old", Method: "POST", Subpath: "api/chat", Provider: "Ollama",
		Outcome: models.OutcomeForwarded, CreatedAt: time.Now().AddDate(0, 0, -40)}
	fresh := &RequestLog{RequestID: "fresh", Method: "POST", Subpath: "api/chat", Provider: "Ollama",
		Outcome: models.OutcomeForwarded}
	for _, e := range []*RequestLog{old, fresh} {
		if err := store.LogRequest(e); err != nil {
			t.Fatalf("LogRequest failed: %v", err)
		}
	}

	pruner := NewPruner(store, 30, "", nil)
	deleted, err := pruner.Prune(time.Now())
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("expected 1 deleted row, got %d", deleted)
	}

	logs, _ := store.GetRequestLogs(LogFilter{})
	if len(logs) != 1 || logs[0].RequestID != "fresh" {
		t.Errorf("expected only the fresh row to remain, got %+v", logs)
	}
}

func TestPrunerStart(t *testing.T) {
	store := setupTestDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := NewPruner(store, 30, "not a schedule", nil).Start(ctx); err == nil {
		t.Error("expected invalid schedule error")
	}

	disabled := NewPruner(store, 0, "0 3 * * *", nil)
	if err := disabled.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if disabled.NextRun() != nil {
		t.Error("disabled pruner should have no next run")
	}

	p := NewPruner(store, 7, "0 3 * * *", nil)
	if err := p.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if p.NextRun() == nil {
		t.Error("expected a next run")
	}
	p.Stop()
}

func TestAdminPassword(t *testing.T) {
	store := setupTestDB(t)

	has, err := store.HasAdminPassword()
	if err != nil || has {
		t.Fatalf("expected no admin password, got %v (%v)", has, err)
	}

	for _, hash := range []string{"hash-1", "hash-2"} {
		if err := store.SetAdminPasswordHash(hash); err != nil {
			t.Fatalf("SetAdminPasswordHash failed: %v", err)
		}
	}

	got, err := store.GetAdminPasswordHash()
	if err != nil || got != "hash-2" {
		t.Errorf("expected hash-2, got %q (%v)", got, err)
	}
}

func TestLogWriter(t *testing.T) {
	store := setupTestDB(t)

	w := NewLogWriter(store, 8, nil)
	for _, id := range []string{"a", "b", "c"} {
		w.Write(&RequestLog{RequestID: id, Method: "POST", Subpath: "api/chat", Provider: "Ollama",
			Outcome: models.OutcomeForwarded})
	}
	w.Close()

	if w.Write(&RequestLog{RequestID: "late"}) {
		t.Error("expected write after close to be dropped")
	}

	n, err := store.CountRequestLogs()
	if err != nil || n != 3 {
		t.Errorf("expected 3 rows after drain, got %d (%v)", n, err)
	}
}

func TestStorageClosedError(t *testing.T) {
	store := setupTestDB(t)
	store.Close()

	if err := store.LogRequest(&RequestLog{RequestID: "x"}); err != ErrStorageClosed {
		t.Errorf("expected ErrStorageClosed, got %v", err)
	}
	if _, err := store.GetAdminPasswordHash(); err != ErrStorageClosed {
		t.Errorf("expected ErrStorageClosed, got %v", err)
	}
	if err := store.Close(); err != nil {
		t.Errorf("second Close should be a no-op, got %v", err)
	}
}
