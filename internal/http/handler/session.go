package handler

import (
	"net/http"

	"github.com/gorilla/csrf"

	"scoreboard/internal/core"
	"scoreboard/internal/http/middleware"
	"scoreboard/internal/session"
)

// CSRFToken отдаёт токен в заголовке X-CSRF-Token (для JS-клиентов)
func CSRFToken(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-CSRF-Token", csrf.Token(r))
	w.WriteHeader(http.StatusNoContent)
}

// CSRFError — ответ при неверном CSRF-токене (OWASP A01)
func CSRFError(w http.ResponseWriter, r *http.Request) {
	reason := "CSRF token invalid"
	if err := csrf.FailureReason(r); err != nil {
		reason = err.Error()
	}
	core.Fail(w, r, core.Forbidden(reason))
}

// Logout очищает сессию
func Logout(store *session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := store.Get(r)
		if err != nil {
			core.LogDebug("Выход с повреждённой сессией", map[string]interface{}{"error": err.Error()})
		}
		if err := store.Clear(w, r, sess); err != nil {
			core.Fail(w, r, core.Internal("не удалось очистить сессию", err))
			return
		}

		if state := middleware.StateFrom(r.Context()); state != nil && state.UID != nil {
			core.LogInfo("Пользователь вышел", map[string]interface{}{"uid": *state.UID})
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
