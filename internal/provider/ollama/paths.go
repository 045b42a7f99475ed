package ollama

import "github.com/mandalnilabja/llamarelay/internal/types"

// allowedPaths is built once from the path enumeration and never mutated.
var allowedPaths = func() map[string]struct{} {
	set := make(map[string]struct{}, len(types.OllamaPaths()))
	for _, p := range types.OllamaPaths() {
		set[string(p)] = struct{}{}
	}
	return set
}()

// Allowed reports whether subpath may be forwarded upstream.
// The match is exact; anything not enumerated is refused.
func Allowed(subpath string) bool {
	_, ok := allowedPaths[subpath]
	return ok
}
