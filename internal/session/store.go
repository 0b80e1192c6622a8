// Package session — cookie-сессии пользователя (gorilla/sessions, подпись securecookie).
package session

import (
	"net/http"
	"time"

	"github.com/gorilla/sessions"
)

// Name — имя cookie сессии
const Name = "scoreboard"

// Ключи значений в сессии
const (
	KeyUser    = "user"
	KeyTeam    = "team"
	KeyAdmin   = "admin"
	KeyExpires = "expires" // unix-время истечения, секунды
)

// Values — значения сессии, которые читают хуки запроса
type Values struct {
	UID     *int64
	TID     *int64
	Admin   bool
	Expires int64 // 0 — срок не задан
}

// Store — обёртка над sessions.CookieStore
type Store struct {
	store      *sessions.CookieStore
	expiration time.Duration
}

// NewStore — hashKey подписывает cookie (OWASP A02), expiration > 0 задаёт срок жизни сессии
func NewStore(hashKey []byte, secure bool, expiration time.Duration) *Store {
	cs := sessions.NewCookieStore(hashKey)
	cs.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Store{store: cs, expiration: expiration}
}

// Get возвращает сессию запроса. При ошибке декодирования (подделанная или
// устаревшая cookie) возвращается новая пустая сессия вместе с ошибкой.
func (s *Store) Get(r *http.Request) (*sessions.Session, error) {
	return s.store.Get(r, Name)
}

// Read извлекает значения из сессии
func Read(sess *sessions.Session) Values {
	var v Values
	if sess == nil {
		return v
	}
	if uid, ok := asInt64(sess.Values[KeyUser]); ok {
		v.UID = &uid
	}
	if tid, ok := asInt64(sess.Values[KeyTeam]); ok {
		v.TID = &tid
	}
	if admin, ok := sess.Values[KeyAdmin].(bool); ok {
		v.Admin = admin
	}
	if exp, ok := asInt64(sess.Values[KeyExpires]); ok {
		v.Expires = exp
	}
	return v
}

// Expired — истёк ли срок сессии на момент now
func (v Values) Expired(now time.Time) bool {
	return v.Expires != 0 && v.Expires < now.Unix()
}

// Login записывает пользователя в сессию; при заданном сроке жизни — и время истечения
func (s *Store) Login(w http.ResponseWriter, r *http.Request, uid int64, tid *int64, admin bool) error {
	v := Values{UID: &uid, TID: tid, Admin: admin}
	if s.expiration > 0 {
		v.Expires = time.Now().Add(s.expiration).Unix()
	}
	return s.Save(w, r, v)
}

// Save перезаписывает сессию значениями v
func (s *Store) Save(w http.ResponseWriter, r *http.Request, v Values) error {
	sess, _ := s.Get(r)
	clearValues(sess)
	if v.UID != nil {
		sess.Values[KeyUser] = *v.UID
	}
	if v.TID != nil {
		sess.Values[KeyTeam] = *v.TID
	}
	sess.Values[KeyAdmin] = v.Admin
	if v.Expires != 0 {
		sess.Values[KeyExpires] = v.Expires
	}
	return sess.Save(r, w)
}

// Clear очищает сессию и сохраняет пустую cookie
func (s *Store) Clear(w http.ResponseWriter, r *http.Request, sess *sessions.Session) error {
	clearValues(sess)
	return sess.Save(r, w)
}

func clearValues(sess *sessions.Session) {
	for k := range sess.Values {
		delete(sess.Values, k)
	}
}

func asInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}
