package relay

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/mandalnilabja/llamarelay/internal/types"
)

// LocaleUnauthorized is shown when the gateway rejects the credential.
const LocaleUnauthorized = "Unauthorized access, please enter the access code on the settings page, or fill in your own API key."

// maxDiagnosticBody bounds how much of an error body is read.
const maxDiagnosticBody = 64 << 10

// classifyOpen decides whether resp is an event stream. Plain-text bodies
// become the final text. Anything else that is not a 200 event stream is
// turned into a diagnostic. ok is false for a readable event stream.
func classifyOpen(resp *http.Response) (final string, ok bool) {
	contentType := resp.Header.Get("Content-Type")

	if strings.HasPrefix(contentType, "text/plain") {
		body, _ := io.ReadAll(resp.Body)
		return string(body), true
	}

	if resp.StatusCode != http.StatusOK || !strings.HasPrefix(contentType, types.EventStreamContentType) {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxDiagnosticBody))
		return diagnostic("", resp.StatusCode, body), true
	}

	return "", false
}

// diagnostic joins the text received so far, an unauthorized notice and the
// error body, skipping empty parts. JSON bodies are pretty-printed.
func diagnostic(received string, status int, body []byte) string {
	parts := make([]string, 0, 3)
	if received != "" {
		parts = append(parts, received)
	}
	if status == http.StatusUnauthorized {
		parts = append(parts, LocaleUnauthorized)
	}

	var obj any
	if err := json.Unmarshal(body, &obj); err == nil {
		parts = append(parts, types.PrettyObject(obj))
	} else if text := string(body); text != "" {
		parts = append(parts, text)
	}

	return strings.Join(parts, "\n\n")
}
