package llm

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// narrationSchema mirrors the shape used by the narration service.
func narrationSchema() *Schema {
	return &Schema{
		Name:        "test-day-narration",
		Description: "Commentary for one study day",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"commentary": map[string]any{"type": "string"},
				"warning":    map[string]any{"type": "string"},
				"tone":       map[string]any{"type": "string", "enum": []any{"calm", "urgent"}},
			},
			"required":             []any{"commentary", "warning"},
			"additionalProperties": false,
		},
	}
}

// serveJSON starts a server that answers every request with status and body.
func serveJSON(t *testing.T, status int, body any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if err := json.NewEncoder(w).Encode(body); err != nil {
			t.Errorf("encode response: %v", err)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}
