// security.go
package middleware

import (
	"io"
	"net/http"

	"github.com/felixge/httpsnoop"
	"github.com/unrolled/secure"

	"scoreboard/internal/core"
	"scoreboard/internal/csp"
)

const (
	HeaderCSP           = "Content-Security-Policy"
	HeaderFrameOptions  = "X-Frame-Options"
	HeaderXSSProtection = "X-XSS-Protection"
)

// SecurityHeaders добавляет CSP, X-Frame-Options и X-XSS-Protection в момент отправки
// заголовков ответа, только если обработчик не выставил их сам (OWASP A05).
func SecurityHeaders(policy *csp.Builder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			applied := false
			apply := func() {
				if applied {
					return
				}
				applied = true
				h := w.Header()
				setDefault(h, HeaderCSP, policy.PolicyString())
				setDefault(h, HeaderFrameOptions, "DENY")
				setDefault(h, HeaderXSSProtection, "1; mode=block")
			}

			hooked := httpsnoop.Wrap(w, httpsnoop.Hooks{
				WriteHeader: func(next httpsnoop.WriteHeaderFunc) httpsnoop.WriteHeaderFunc {
					return func(code int) {
						apply()
						next(code)
					}
				},
				Write: func(next httpsnoop.WriteFunc) httpsnoop.WriteFunc {
					return func(b []byte) (int, error) {
						apply()
						return next(b)
					}
				},
				ReadFrom: func(next httpsnoop.ReadFromFunc) httpsnoop.ReadFromFunc {
					return func(src io.Reader) (int64, error) {
						apply()
						return next(src)
					}
				},
				Flush: func(next httpsnoop.FlushFunc) httpsnoop.FlushFunc {
					return func() {
						apply()
						next()
					}
				},
			})

			next.ServeHTTP(hooked, r)

			// обработчик ничего не записал — заголовки ещё не отправлены
			apply()
		})
	}
}

// setDefault выставляет заголовок, только если его ещё нет
func setDefault(h http.Header, key, value string) {
	if len(h.Values(key)) == 0 {
		h.Set(key, value)
	}
}

// Hardening — остальные заголовки безопасности через unrolled/secure:
// nosniff, Referrer-Policy, HSTS в продакшене за HTTPS (OWASP A02, A05).
func Hardening(cfg core.Config) func(http.Handler) http.Handler {
	opts := secure.Options{
		ContentTypeNosniff: true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
		SSLProxyHeaders:    map[string]string{"X-Forwarded-Proto": "https"},
		IsDevelopment:      cfg.Env != "prod",
	}
	if cfg.Secure {
		opts.STSSeconds = 31536000
		opts.STSIncludeSubdomains = true
	}
	return secure.New(opts).Handler
}
