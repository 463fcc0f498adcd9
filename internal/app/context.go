package app

import "context"

type contextKey struct{}

// WithApp stores a in ctx for the commands run under it.
func WithApp(ctx context.Context, a *App) context.Context {
	return context.WithValue(ctx, contextKey{}, a)
}

// FromContext returns the App stored by WithApp, or nil.
func FromContext(ctx context.Context) *App {
	if ctx == nil {
		return nil
	}
	a, _ := ctx.Value(contextKey{}).(*App)
	return a
}
