package handler

import (
	"net/http"

	"scoreboard/internal/core"
)

// Health — healthcheck (OWASP A09).
func Health(w http.ResponseWriter, r *http.Request) {
	core.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// NotFound — 404 в формате problem+json
func NotFound(w http.ResponseWriter, r *http.Request) {
	core.Fail(w, r, core.NotFound("страница не найдена"))
}

// MethodNotAllowed — 405 в формате problem+json
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	core.Fail(w, r, core.MethodNotAllowed("метод не поддерживается"))
}
