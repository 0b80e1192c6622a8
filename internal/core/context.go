package core

// context.go

// CtxKey — тип ключей для context.Context (чтобы избежать коллизий строк)
type CtxKey string

const (
	// CtxState — ключ для состояния запроса (uid, tid, admin, user), кладётся в middleware
	CtxState CtxKey = "state"
)
