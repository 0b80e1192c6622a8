package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"scoreboard/internal/core"
	"scoreboard/internal/csp"
)

func serveWithHeaders(policy *csp.Builder, h http.HandlerFunc) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	SecurityHeaders(policy)(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	return rec
}

func TestSecurityHeaders_Defaults(t *testing.T) {
	policy := csp.NewBuilder(nil)

	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{name: "write", handler: func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("ok")) }},
		{name: "write header", handler: func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTeapot) }},
		{name: "nothing written", handler: func(w http.ResponseWriter, r *http.Request) {}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serveWithHeaders(policy, tt.handler)

			assert.Equal(t, policy.PolicyString(), rec.Header().Get(HeaderCSP))
			assert.Equal(t, "DENY", rec.Header().Get(HeaderFrameOptions))
			assert.Equal(t, "1; mode=block", rec.Header().Get(HeaderXSSProtection))
		})
	}
}

func TestSecurityHeaders_DoesNotOverwrite(t *testing.T) {
	rec := serveWithHeaders(csp.NewBuilder(nil), func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(HeaderCSP, "default-src 'none'")
		w.Header().Set(HeaderFrameOptions, "SAMEORIGIN")
		w.Header().Set(HeaderXSSProtection, "0")
		w.WriteHeader(http.StatusOK)
	})

	assert.Equal(t, []string{"default-src 'none'"}, rec.Header().Values(HeaderCSP))
	assert.Equal(t, []string{"SAMEORIGIN"}, rec.Header().Values(HeaderFrameOptions))
	assert.Equal(t, []string{"0"}, rec.Header().Values(HeaderXSSProtection))
}

func TestSecurityHeaders_UsesConfiguredPolicy(t *testing.T) {
	policy := csp.NewBuilder(&csp.Config{Extend: csp.Policy{{Name: "img-src", Sources: []string{"https:"}}}})

	rec := serveWithHeaders(policy, func(w http.ResponseWriter, r *http.Request) {})

	assert.Contains(t, rec.Header().Get(HeaderCSP), "img-src 'self' data: https:;")
}

func TestHardening(t *testing.T) {
	h := Hardening(core.Config{Env: "dev"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "strict-origin-when-cross-origin", rec.Header().Get("Referrer-Policy"))
	assert.Empty(t, rec.Header().Get(HeaderFrameOptions))
}
