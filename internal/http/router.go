package httpx

import (
	"crypto/sha256"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"

	"scoreboard/internal/core"
	"scoreboard/internal/csp"
	"scoreboard/internal/http/handler"
	"scoreboard/internal/http/middleware"
	"scoreboard/internal/metrics"
	"scoreboard/internal/session"
)

// Deps — всё, что нужно роутеру
type Deps struct {
	Config   core.Config
	Policy   *csp.Builder
	Sessions *session.Store
	Users    middleware.UserLookup
	Metrics  *metrics.Metrics
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	// заголовки безопасности стоят снаружи Recoverer: они есть и в 500 после паники, и в 404
	r.Use(middleware.SecurityHeaders(d.Policy))
	r.Use(middleware.Hardening(d.Config))

	middleware.UseCommon(r, d.Config) // request id, real ip, логгер, recover, таймаут

	// хуки запроса; счётчик запросов оборачивает поиск по API-ключу
	if d.Config.CountQueries {
		r.Use(middleware.CountQueries(d.Metrics))
	}
	r.Use(middleware.LoadGlobals(d.Sessions, d.Config.SessionExpiration()))
	r.Use(middleware.LoadAPIKey(d.Users, d.Metrics))

	// health / metrics
	r.Get("/healthz", handler.Health)
	r.Handle("/metrics", d.Metrics.Handler())

	r.Route("/api", func(api chi.Router) {
		if !d.Config.Secure {
			api.Use(plaintextCSRF)
		}
		api.Use(csrf.Protect(
			derive32("csrf:"+d.Config.SessionKey),
			csrf.Secure(d.Config.Secure),
			csrf.Path("/"),
			csrf.SameSite(csrf.SameSiteLaxMode),
			csrf.ErrorHandler(http.HandlerFunc(handler.CSRFError)),
		))

		api.Get("/whoami", handler.WhoAmI)
		api.Get("/csrf", handler.CSRFToken)
		api.Post("/logout", handler.Logout(d.Sessions))
	})

	// 404 / 405
	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.MethodNotAllowed)

	return r
}

// plaintextCSRF помечает запросы как HTTP, чтобы gorilla/csrf не требовал Referer по TLS-правилам
func plaintextCSRF(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
	})
}

// derive32 — 32-байтовый ключ из секрета (OWASP A02)
func derive32(secret string) []byte {
	sum := sha256.Sum256([]byte(secret))
	return sum[:]
}

// SessionKey — ключ подписи cookie-сессий из секрета конфигурации
func SessionKey(secret string) []byte {
	return derive32("session:" + secret)
}
