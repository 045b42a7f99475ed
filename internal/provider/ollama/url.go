package ollama

import (
	"strings"

	"github.com/mandalnilabja/llamarelay/internal/types"
)

// NormalizeBaseURL applies the default, prefixes https:// when no scheme is
// given and strips one trailing slash.
func NormalizeBaseURL(baseURL string) string {
	if baseURL == "" {
		baseURL = types.DefaultOllamaBaseURL
	}
	if !strings.HasPrefix(baseURL, "http") {
		baseURL = "https://" + baseURL
	}
	return strings.TrimSuffix(baseURL, "/")
}

// UpstreamURL joins a normalized base URL, the subpath and the raw query.
func UpstreamURL(baseURL, subpath, rawQuery string) string {
	target := baseURL + "/" + subpath
	if rawQuery != "" {
		target += "?" + rawQuery
	}
	return target
}
