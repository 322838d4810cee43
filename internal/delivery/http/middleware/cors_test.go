package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name       string
		origins    []string
		method     string
		origin     string
		preflight  bool
		wantStatus int
		wantAllow  string
	}{
		{"allowed origin", []string{"https://app.example.com/"}, http.MethodGet, "https://app.example.com", false, http.StatusOK, "https://app.example.com"},
		{"other origin", []string{"https://app.example.com"}, http.MethodGet, "https://evil.example.com", false, http.StatusOK, ""},
		{"wildcard echoes origin", []string{"*"}, http.MethodGet, "https://any.example.com", false, http.StatusOK, "https://any.example.com"},
		{"preflight allowed", []string{"https://app.example.com"}, http.MethodOptions, "https://app.example.com", true, http.StatusNoContent, "https://app.example.com"},
		{"preflight rejected origin", []string{"https://app.example.com"}, http.MethodOptions, "https://evil.example.com", true, http.StatusNoContent, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/events", nil)
			req.Header.Set("Origin", tt.origin)
			if tt.preflight {
				req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			}
			rr := httptest.NewRecorder()
			CORS(tt.origins, next).ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantAllow, rr.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}
