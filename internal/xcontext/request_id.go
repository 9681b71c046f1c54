// Package xcontext carries per-request values through context.
package xcontext

import "context"

type ctxKey int

const requestIDKey ctxKey = iota

func SetRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func GetRequestID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey).(string)
	return id, ok
}
