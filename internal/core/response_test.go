package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrom(t *testing.T) {
	assert.Nil(t, From(nil))

	forbidden := Forbidden("nope")
	assert.Same(t, forbidden, From(forbidden))

	wrapped := From(errors.New("boom"))
	assert.Equal(t, "internal", wrapped.Code)
	assert.Equal(t, http.StatusInternalServerError, wrapped.Status)
	assert.EqualError(t, wrapped, "internal (500): внутренняя ошибка: boom")
}

func TestFail_WritesProblem(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)

	rec := httptest.NewRecorder()
	Fail(rec, httptest.NewRequest(http.MethodGet, "/x", nil), Internal("db", errors.New("down")))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var problem ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, "internal", problem.Code)
	assert.Equal(t, "/errors/internal", problem.Type)
	assert.Equal(t, "db", problem.Detail)
	// внутренняя ошибка попадает в лог, но не в ответ
	assert.NotContains(t, rec.Body.String(), "down")
	assert.Contains(t, buf.String(), "down")
}

func TestJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusCreated, map[string]int{"n": 1})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"n":1}`, rec.Body.String())
}
