package handler

import (
	"net/http"

	"github.com/microcosm-cc/bluemonday"

	"scoreboard/internal/core"
	"scoreboard/internal/http/middleware"
)

// nick приходит из пользовательского ввода — очищаем от разметки (OWASP A03)
var sanitizer = bluemonday.StrictPolicy()

// WhoAmIView — состояние запроса после хуков сессии и API-ключа
type WhoAmIView struct {
	UID   *int64 `json:"uid"`
	TID   *int64 `json:"tid"`
	Admin bool   `json:"admin"`
	Nick  string `json:"nick,omitempty"`
	Via   string `json:"via"` // session | apikey | anonymous
}

// WhoAmI возвращает, кем считается текущий запрос
func WhoAmI(w http.ResponseWriter, r *http.Request) {
	state := middleware.StateFrom(r.Context())
	if state == nil {
		core.Fail(w, r, core.Internal("состояние запроса не найдено", nil))
		return
	}

	view := WhoAmIView{UID: state.UID, TID: state.TID, Admin: state.Admin, Via: "anonymous"}
	switch {
	case state.User != nil:
		view.Via = "apikey"
		view.Nick = sanitizer.Sanitize(state.User.Nick)
	case state.UID != nil:
		view.Via = "session"
	}

	core.JSON(w, http.StatusOK, view)
}
