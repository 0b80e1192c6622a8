package storage

import (
	"context"
	"sync/atomic"
)

type queryCounterKey struct{}

// QueryCounter считает SQL-запросы, выполненные в рамках одного HTTP-запроса.
type QueryCounter struct {
	n atomic.Int64
}

// WithQueryCounter кладёт новый счётчик в контекст.
func WithQueryCounter(ctx context.Context) (context.Context, *QueryCounter) {
	c := &QueryCounter{}
	return context.WithValue(ctx, queryCounterKey{}, c), c
}

// Count — число запросов на данный момент
func (c *QueryCounter) Count() int64 {
	return c.n.Load()
}

func countQuery(ctx context.Context) {
	if c, ok := ctx.Value(queryCounterKey{}).(*QueryCounter); ok {
		c.n.Add(1)
	}
}
