package admin

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mandalnilabja/llamarelay/internal/auth"
	"github.com/mandalnilabja/llamarelay/internal/storage"
	"github.com/mandalnilabja/llamarelay/internal/storage/models"
)

func newTestHandlers(t *testing.T) *Handlers {
	t.Helper()
	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "admin.db"))
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return New(store, time.Now(), "http://localhost:11434")
}

func TestGetRequestLogs(t *testing.T) {
	h := newTestHandlers(t)
	for _, sub := range []string{"api/chat", "api/chat", "api/generate"} {
		if err := h.Storage.LogRequest(&storage.RequestLog{RequestID: "r", Method: "POST", Subpath: sub,
			Provider: "Ollama", Outcome: models.OutcomeForwarded, StatusCode: 200}); err != nil {
			t.Fatalf("LogRequest failed: %v", err)
		}
	}

	rec := httptest.NewRecorder()
	h.GetRequestLogs(rec, httptest.NewRequest(http.MethodGet, "/api/admin/logs?subpath=api/chat&limit=5", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Logs  []storage.RequestLog `json:"logs"`
		Limit int                  `json:"limit"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(resp.Logs) != 2 || resp.Limit != 5 {
		t.Errorf("expected 2 chat logs with limit 5, got %d (limit %d)", len(resp.Logs), resp.Limit)
	}
}

func TestDeleteRequestLogs(t *testing.T) {
	h := newTestHandlers(t)

	tests := []struct {
		query      string
		wantStatus int
	}{
		{"", http.StatusBadRequest},
		{"?before_date=yesterday", http.StatusBadRequest},
		{"?before_date=2030-01-01", http.StatusOK},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		h.DeleteRequestLogs(rec, httptest.NewRequest(http.MethodDelete, "/api/admin/logs"+tt.query, nil))
		if rec.Code != tt.wantStatus {
			t.Errorf("query %q: expected %d, got %d", tt.query, tt.wantStatus, rec.Code)
		}
	}
}

func TestChangeAdminPassword(t *testing.T) {
	h := newTestHandlers(t)

	rec := httptest.NewRecorder()
	h.ChangeAdminPassword(rec, httptest.NewRequest(http.MethodPut, "/api/admin/password", strings.NewReader(`{"new_password":"short"}`)))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for weak password, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ChangeAdminPassword(rec, httptest.NewRequest(http.MethodPut, "/api/admin/password", strings.NewReader(`{"new_password":"Passw0rdLong"}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	hash, err := h.Storage.GetAdminPasswordHash()
	if err != nil {
		t.Fatalf("GetAdminPasswordHash failed: %v", err)
	}
	if ok, _ := auth.VerifySecret("Passw0rdLong", hash); !ok {
		t.Error("stored hash does not verify the new password")
	}
}

func TestAdminInfo(t *testing.T) {
	h := newTestHandlers(t)

	rec := httptest.NewRecorder()
	h.AdminInfo(rec, httptest.NewRequest(http.MethodGet, "/api/admin/info", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["upstream"] != "http://localhost:11434" {
		t.Errorf("unexpected upstream %v", body["upstream"])
	}
}
