package middleware

import (
	"context"
	"fmt"
	"net/http"

	"scoreboard/internal/core"
	"scoreboard/internal/metrics"
	"scoreboard/internal/storage"
)

const (
	// APIKeyHeader — заголовок с API-ключом
	APIKeyHeader = "X-SCOREBOARD-API-KEY"
	apiKeyLength = 32
)

// UserLookup — поиск пользователя по API-ключу; (nil, nil) — ключ не найден
type UserLookup interface {
	GetByAPIKey(ctx context.Context, key string) (*storage.User, error)
}

// LoadAPIKey заполняет user/uid/admin по заголовку X-SCOREBOARD-API-KEY.
// Любые проблемы с ключом не должны блокировать запрос: ошибки и паники поиска глотаются.
func LoadAPIKey(users UserLookup, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(APIKeyHeader)
			if key == "" || len(key) != apiKeyLength {
				next.ServeHTTP(w, r)
				return
			}

			state := StateFrom(r.Context())
			if state == nil {
				state = &State{}
				r = r.WithContext(WithState(r.Context(), state))
			}

			m.APIKeyLookup(applyAPIKey(r.Context(), users, key, state))
			next.ServeHTTP(w, r)
		})
	}
}

func applyAPIKey(ctx context.Context, users UserLookup, key string, state *State) (result string) {
	defer func() {
		if rec := recover(); rec != nil {
			core.LogDebug("Паника при поиске по API-ключу", map[string]interface{}{"panic": fmt.Sprint(rec)})
			result = metrics.APIKeyError
		}
	}()

	user, err := users.GetByAPIKey(ctx, key)
	if err != nil {
		core.LogDebug("Ошибка поиска по API-ключу", map[string]interface{}{"error": err.Error()})
		return metrics.APIKeyError
	}
	if user == nil {
		return metrics.APIKeyUnknown
	}

	uid := user.UID
	state.User = user
	state.UID = &uid
	state.Admin = user.Admin
	return metrics.APIKeyOK
}
