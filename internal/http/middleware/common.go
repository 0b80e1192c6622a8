// common.go
package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"scoreboard/internal/core"
)

// UseCommon подключает базовые middleware: request id, реальный IP,
// журнал запросов, восстановление после паник, таймаут.
func UseCommon(r *chi.Mux, cfg core.Config) {
	r.Use(middleware.RequestID)

	// За прокси — только доверенные адреса; иначе IP из X-Forwarded-For / X-Real-IP
	if len(cfg.TrustedProxies) > 0 {
		r.Use(TrustedProxy(cfg.TrustedProxies))
	} else {
		r.Use(middleware.RealIP)
	}

	r.Use(AccessLog)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
}

// AccessLog пишет метод, путь, статус и длительность запроса в zerolog
func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		core.LogInfo("http request", map[string]interface{}{
			"request_id":  middleware.GetReqID(r.Context()),
			"method":      r.Method,
			"path":        r.URL.Path,
			"remote":      r.RemoteAddr,
			"status":      status,
			"bytes":       ww.BytesWritten(),
			"duration_ms": time.Since(start).Milliseconds(),
		})
	})
}
