// Package proxy serves the gateway endpoints that forward to the upstream.
package proxy

import (
	"net/http"
	"time"

	"github.com/mandalnilabja/llamarelay/internal/provider"
	"github.com/mandalnilabja/llamarelay/internal/provider/ollama"
	"github.com/mandalnilabja/llamarelay/internal/storage"
	"github.com/mandalnilabja/llamarelay/internal/storage/models"
	"github.com/mandalnilabja/llamarelay/internal/transport/http/middleware"
	"github.com/mandalnilabja/llamarelay/internal/transport/http/middleware/ratelimit"
	"github.com/mandalnilabja/llamarelay/internal/types"
)

// preflightBody answers OPTIONS requests.
var preflightBody = map[string]string{"body": "OK"}

// Ollama handles GET|POST|OPTIONS /api/ollama/{path...}.
// Gating runs in order: preflight, allow-list, authorization, rate limit.
// Nothing reaches the upstream unless every gate passes.
func (h *Handlers) Ollama(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	subpath := r.PathValue("path")

	entry := &storage.RequestLog{
		RequestID: middleware.GetRequestID(r.Context()),
		Method:    r.Method,
		Subpath:   subpath,
		Provider:  h.Provider.Name(),
	}
	defer func() { h.finish(entry, start) }()

	if r.Method == http.MethodOptions {
		entry.Outcome = models.OutcomePreflight
		entry.StatusCode = http.StatusOK
		types.WriteJSON(w, http.StatusOK, preflightBody)
		return
	}

	if !ollama.Allowed(subpath) {
		msg := "you are not allowed to request " + subpath
		h.reject(w, entry, models.OutcomePathRejected, http.StatusForbidden, msg, types.GatewayError{
			Error: true,
			Msg:   msg,
			Type:  types.GatewayErrorPathRejected,
		})
		return
	}

	if decision := h.Authorizer.Authorize(r, h.Provider.Name()); decision.Error {
		h.reject(w, entry, models.OutcomeUnauthorized, http.StatusUnauthorized, decision.Msg, decision)
		return
	}

	if !h.Limiter.Allow(ratelimit.ClientKey(r)) {
		w.Header().Set("Retry-After", "60")
		h.reject(w, entry, models.OutcomeRateLimited, http.StatusTooManyRequests, "rate limit exceeded", types.GatewayError{
			Error: true,
			Msg:   "rate limit exceeded",
		})
		return
	}

	done := h.Metrics.TrackInFlight()
	defer done()

	result, err := h.Provider.ProxyRequest(r.Context(), w, r, &provider.ProxyOptions{
		RequestID: entry.RequestID,
		Subpath:   subpath,
		RawQuery:  r.URL.RawQuery,
	})

	entry.Outcome = models.OutcomeForwarded
	if result != nil {
		entry.StatusCode = result.StatusCode
		entry.IsStreaming = result.IsStreaming
		entry.BytesRelayed = result.BytesRelayed
		entry.ErrorMessage = result.ErrorMessage
		h.Metrics.ObserveUpstream(subpath, result.Duration, result.BytesRelayed)
	}
	if err != nil {
		if result != nil && result.StatusCode == http.StatusBadGateway && result.BytesRelayed == 0 {
			entry.Outcome = models.OutcomeTransportFailure
		}
		h.Logger.Warn("upstream forward failed",
			"request_id", entry.RequestID,
			"subpath", subpath,
			"error", err,
		)
	}
}

// reject writes a refusal body and records why.
func (h *Handlers) reject(w http.ResponseWriter, entry *storage.RequestLog, outcome models.Outcome, status int, msg string, body any) {
	entry.Outcome = outcome
	entry.StatusCode = status
	entry.ErrorMessage = msg
	h.Metrics.RecordRejection(string(outcome))
	h.Logger.Info("gateway request rejected",
		"request_id", entry.RequestID,
		"subpath", entry.Subpath,
		"outcome", outcome,
		"msg", msg,
	)
	types.WriteJSON(w, status, body)
}

// finish records metrics and the request log row.
func (h *Handlers) finish(entry *storage.RequestLog, start time.Time) {
	entry.DurationMs = time.Since(start).Milliseconds()

	// refused paths are caller-controlled, keep them out of metric labels
	label := entry.Subpath
	if entry.Outcome == models.OutcomePathRejected {
		label = "rejected"
	}
	h.Metrics.RecordRequest(label, entry.StatusCode)
	if h.Logs != nil && entry.RequestID != "" {
		h.Logs.Write(entry)
	}
}
