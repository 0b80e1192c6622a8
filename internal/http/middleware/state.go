package middleware

import (
	"context"

	"scoreboard/internal/core"
	"scoreboard/internal/storage"
)

// State — значения, которые хуки заполняют для каждого запроса
type State struct {
	UID   *int64
	TID   *int64
	Admin bool
	User  *storage.User // заполняется только при входе по API-ключу
}

// WithState кладёт состояние запроса в контекст
func WithState(ctx context.Context, s *State) context.Context {
	return context.WithValue(ctx, core.CtxState, s)
}

// StateFrom — состояние запроса или nil, если хуки не подключены
func StateFrom(ctx context.Context) *State {
	s, _ := ctx.Value(core.CtxState).(*State)
	return s
}
