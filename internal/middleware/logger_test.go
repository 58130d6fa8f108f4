package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Lixing-Zhang/quick-catalog/pkg/logger"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

func TestLogger(t *testing.T) {
	tests := []struct {
		name           string
		handler        http.HandlerFunc
		expectedStatus float64
		expectedBytes  float64
	}{
		{
			name: "implicit 200",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("%PDF"))
			},
			expectedStatus: http.StatusOK,
			expectedBytes:  4,
		},
		{
			name: "explicit status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotImplemented)
			},
			expectedStatus: http.StatusNotImplemented,
			expectedBytes:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := logger.NewWithWriter(&buf, "info")

			h := chimiddleware.RequestID(Logger(log)(tt.handler))

			req := httptest.NewRequest(http.MethodGet, "/pdf", nil)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			var entry map[string]interface{}
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				t.Fatalf("failed to decode log entry: %v", err)
			}

			if entry["status"] != tt.expectedStatus {
				t.Errorf("status = %v, want %v", entry["status"], tt.expectedStatus)
			}
			if entry["bytes"] != tt.expectedBytes {
				t.Errorf("bytes = %v, want %v", entry["bytes"], tt.expectedBytes)
			}
			if entry["path"] != "/pdf" {
				t.Errorf("path = %v, want /pdf", entry["path"])
			}
			if entry["request_id"] == "" || entry["request_id"] == nil {
				t.Error("expected request id to be logged")
			}
		})
	}
}
