package middleware

import (
	"fmt"
	"net/http"

	"scoreboard/internal/core"
	"scoreboard/internal/metrics"
	"scoreboard/internal/storage"
)

// CountQueries логирует число SQL-запросов, выполненных за HTTP-запрос (COUNT_QUERIES).
func CountQueries(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, counter := storage.WithQueryCounter(r.Context())
			// defer: запросы считаются и при панике обработчика
			defer func() {
				if n := counter.Count(); n > 0 {
					core.LogInfo(fmt.Sprintf("Request issued %d queries.", n), map[string]interface{}{
						"method":  r.Method,
						"path":    r.URL.Path,
						"queries": n,
					})
					m.ObserveQueries(n)
				}
			}()

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
