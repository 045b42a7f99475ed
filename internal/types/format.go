package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// PrettyObject renders v as a fenced JSON block for display in a transcript.
// Strings are fenced as-is; values that marshal to "{}" (most errors) fall
// back to their fmt representation.
func PrettyObject(v any) string {
	var msg string
	switch val := v.(type) {
	case string:
		msg = val
	case []byte:
		msg = string(val)
	default:
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Sprint(v)
		}
		msg = string(b)
	}

	if msg == "{}" {
		return fmt.Sprint(v)
	}
	if strings.HasPrefix(msg, "```json") {
		return msg
	}
	return strings.Join([]string{"```json", msg, "```"}, "\n")
}
