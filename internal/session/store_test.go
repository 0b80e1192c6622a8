package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

// roundTrip сохраняет значения и возвращает запрос с полученной cookie
func roundTrip(t *testing.T, s *Store, save func(w http.ResponseWriter, r *http.Request) error) *http.Request {
	t.Helper()
	rec := httptest.NewRecorder()
	require.NoError(t, save(rec, httptest.NewRequest(http.MethodGet, "/", nil)))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestStore_LoginAndRead(t *testing.T) {
	s := NewStore(testKey, false, 0)
	tid := int64(4)

	req := roundTrip(t, s, func(w http.ResponseWriter, r *http.Request) error {
		return s.Login(w, r, 12, &tid, true)
	})

	sess, err := s.Get(req)
	require.NoError(t, err)
	v := Read(sess)

	require.NotNil(t, v.UID)
	assert.Equal(t, int64(12), *v.UID)
	require.NotNil(t, v.TID)
	assert.Equal(t, int64(4), *v.TID)
	assert.True(t, v.Admin)
	assert.Zero(t, v.Expires)
}

func TestStore_LoginSetsExpiry(t *testing.T) {
	s := NewStore(testKey, false, time.Hour)

	req := roundTrip(t, s, func(w http.ResponseWriter, r *http.Request) error {
		return s.Login(w, r, 1, nil, false)
	})

	sess, _ := s.Get(req)
	v := Read(sess)

	assert.InDelta(t, time.Now().Add(time.Hour).Unix(), v.Expires, 5)
	assert.False(t, v.Expired(time.Now()))
	assert.True(t, v.Expired(time.Now().Add(2*time.Hour)))
	assert.Nil(t, v.TID)
}

func TestStore_TamperedCookie(t *testing.T) {
	s := NewStore(testKey, false, 0)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: Name, Value: "garbage"})

	sess, err := s.Get(req)

	assert.Error(t, err)
	require.NotNil(t, sess)
	v := Read(sess)
	assert.Nil(t, v.UID)
	assert.False(t, v.Admin)
}

func TestStore_Clear(t *testing.T) {
	s := NewStore(testKey, false, 0)
	req := roundTrip(t, s, func(w http.ResponseWriter, r *http.Request) error {
		return s.Login(w, r, 5, nil, true)
	})

	sess, err := s.Get(req)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	require.NoError(t, s.Clear(rec, req, sess))

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		next.AddCookie(c)
	}
	cleared, _ := s.Get(next)
	v := Read(cleared)
	assert.Nil(t, v.UID)
	assert.False(t, v.Admin)
}

func TestValues_Expired(t *testing.T) {
	now := time.Unix(1_000, 0)
	assert.False(t, Values{}.Expired(now))
	assert.False(t, Values{Expires: 1_000}.Expired(now))
	assert.True(t, Values{Expires: 999}.Expired(now))
}
