package httpx

import "context"

type ctxKey string

const (
	// CtxKeyUserID carries the authenticated user's ID.
	CtxKeyUserID ctxKey = "user_id"
	// CtxKeyClaims carries the full verified jwtx.Claims.
	CtxKeyClaims ctxKey = "claims"
)

// UserIDFromContext returns the authenticated user ID, or "" when the request
// was not authenticated.
func UserIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyUserID).(string); ok {
		return v
	}
	return ""
}
