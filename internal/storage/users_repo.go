package storage

// internal/storage/users_repo.go
import (
	"context"
	"database/sql"
	"errors"

	"scoreboard/internal/core"
)

// User — участник соревнования
type User struct {
	UID    int64   `db:"uid" json:"uid"`
	Nick   string  `db:"nick" json:"nick"`
	Email  string  `db:"email" json:"-"`
	Admin  bool    `db:"admin" json:"admin"`
	TeamID *int64  `db:"team_tid" json:"team_tid,omitempty"`
	APIKey *string `db:"api_key" json:"-"`
}

// Users — репозиторий пользователей
type Users struct {
	db *DB
}

func NewUsers(db *DB) *Users {
	return &Users{db: db}
}

const userColumns = `uid, nick, email, admin, team_tid, api_key`

// GetByAPIKey — пользователь по API-ключу; (nil, nil), если ключ не найден
func (u *Users) GetByAPIKey(ctx context.Context, key string) (*User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE api_key = ?`

	var user User
	if err := u.db.GetContext(ctx, &user, q, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		// сам ключ в лог не пишем
		core.LogError("get user by api key", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}
	return &user, nil
}

// GetByID — пользователь по uid; (nil, nil), если не найден
func (u *Users) GetByID(ctx context.Context, uid int64) (*User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE uid = ?`

	var user User
	if err := u.db.GetContext(ctx, &user, q, uid); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		core.LogError("get user by id", map[string]interface{}{
			"uid":   uid,
			"error": err.Error(),
		})
		return nil, err
	}
	return &user, nil
}

// Create добавляет пользователя
func (u *Users) Create(ctx context.Context, user *User) error {
	const q = `
		INSERT INTO users (uid, nick, email, admin, team_tid, api_key)
		VALUES (:uid, :nick, :email, :admin, :team_tid, :api_key)`

	if _, err := u.db.NamedExecContext(ctx, q, user); err != nil {
		core.LogError("create user", map[string]interface{}{
			"uid":   user.UID,
			"error": err.Error(),
		})
		return err
	}
	return nil
}
