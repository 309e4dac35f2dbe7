// Package context carries request-scoped values (request id, client ip,
// resolved user) through a context.Context.
package context

import (
	"context"
	"sync"
)

const (
	RequestIDKey = "request_id"
	UserIDKey    = "user_id"
	IPAddressKey = "ip_address"
	UserAgentKey = "user_agent"
	MethodKey    = "method"
	PathKey      = "path"
)

type Current struct {
	mu   sync.RWMutex
	data map[string]any
}

func NewCurrent() *Current {
	return &Current{
		data: make(map[string]any),
	}
}

func (c *Current) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[key] = value
}

func (c *Current) Get(key string) any {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.data[key]
}

func (c *Current) GetString(key string) (string, bool) {
	str, ok := c.Get(key).(string)
	return str, ok
}

func (c *Current) All() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make(map[string]any, len(c.data))

	for k, v := range c.data {
		result[k] = v
	}

	return result
}

type contextKey struct{}

func WithCurrent(ctx context.Context, current *Current) context.Context {
	return context.WithValue(ctx, contextKey{}, current)
}

// FromContext returns the request's Current, or an empty one when none is set.
func FromContext(ctx context.Context) *Current {
	if current, ok := ctx.Value(contextKey{}).(*Current); ok {
		return current
	}

	return NewCurrent()
}

func RequestID(ctx context.Context) string {
	id, _ := FromContext(ctx).GetString(RequestIDKey)
	return id
}

func UserID(ctx context.Context) string {
	id, _ := FromContext(ctx).GetString(UserIDKey)
	return id
}
