package format

import (
	"encoding/json"
	"io"
)

// WriteJSON encodes any value as a single JSON document.
func WriteJSON(w io.Writer, v any, indent bool) error {
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
