package recommend

import "context"

type contextKey int

const requesterKey contextKey = iota

// WithRequester returns a context carrying the login of whoever asked for a
// recommendation. It ends up in the recommendation log.
func WithRequester(ctx context.Context, login string) context.Context {
	return context.WithValue(ctx, requesterKey, login)
}

// RequesterFromContext returns the login stored by WithRequester, or "".
func RequesterFromContext(ctx context.Context) string {
	if login, ok := ctx.Value(requesterKey).(string); ok {
		return login
	}
	return ""
}
