package middleware

import (
	"net/http"
	"time"

	"scoreboard/internal/core"
	"scoreboard/internal/session"
)

// LoadGlobals заполняет состояние запроса из сессии: uid, tid, admin.
// При expiration > 0 просроченная сессия очищается.
func LoadGlobals(store *session.Store, expiration time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Каждый запрос начинает с чистого состояния
			state := &State{}

			sess, err := store.Get(r)
			if err != nil {
				// подпись не сошлась — работаем с пустой сессией
				core.LogDebug("Не удалось прочитать сессию", map[string]interface{}{
					"path":  r.URL.Path,
					"error": err.Error(),
				})
			}

			values := session.Read(sess)
			if expiration > 0 && values.Expired(time.Now()) {
				if err := store.Clear(w, r, sess); err != nil {
					core.LogError("Не удалось очистить просроченную сессию", map[string]interface{}{"error": err.Error()})
				}
				values = session.Values{}
			}

			state.UID = values.UID
			state.TID = values.TID
			state.Admin = values.Admin

			next.ServeHTTP(w, r.WithContext(WithState(r.Context(), state)))
		})
	}
}
