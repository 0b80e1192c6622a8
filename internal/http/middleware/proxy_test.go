package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"scoreboard/internal/core"
)

func TestTrustedProxy(t *testing.T) {
	core.SetOutput(io.Discard)
	var remote, scheme string
	h := TrustedProxy([]string{"10.0.0.0/8", "127.0.0.1"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		remote, scheme = r.RemoteAddr, r.URL.Scheme
	}))

	tests := []struct {
		name       string
		remoteAddr string
		forwarded  string
		proto      string
		status     int
		wantRemote string
		wantScheme string
	}{
		{name: "cidr", remoteAddr: "10.1.2.3:5000", forwarded: "203.0.113.9, 10.1.2.3", proto: "https", status: http.StatusOK, wantRemote: "203.0.113.9:0", wantScheme: "https"},
		{name: "single ip", remoteAddr: "127.0.0.1:5000", status: http.StatusOK, wantRemote: "127.0.0.1:5000", wantScheme: "http"},
		{name: "untrusted", remoteAddr: "192.0.2.1:5000", status: http.StatusForbidden},
		{name: "garbage", remoteAddr: "nonsense", status: http.StatusBadRequest},
		{name: "empty host", remoteAddr: ":5000", status: http.StatusBadRequest},
		{name: "not an ip", remoteAddr: "example.org:5000", status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remote, scheme = "", ""
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			if tt.proto != "" {
				req.Header.Set("X-Forwarded-Proto", tt.proto)
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status != http.StatusOK {
				assert.Contains(t, rec.Header().Get("Content-Type"), "application/problem+json")
			}
			if tt.status == http.StatusOK {
				assert.Equal(t, tt.wantRemote, remote)
				assert.Equal(t, tt.wantScheme, scheme)
			}
		})
	}
}
