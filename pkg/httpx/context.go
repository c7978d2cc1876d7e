package httpx

import "context"

type ctxKey string

// CtxKeyUserID carries the authenticated principal id; the guard sets it and
// the per-user rate limiter reads it.
const CtxKeyUserID ctxKey = "user_id"

// UserIDFromContext returns the authenticated principal id, if any.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(CtxKeyUserID).(string)
	return id, ok && id != ""
}
