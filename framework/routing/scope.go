package routing

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/km-arc/go-container/framework/container"
)

type scopeKey struct{}

var (
	// RequestKey resolves the current *http.Request inside a request scope.
	RequestKey = container.Name("http.request")

	// RequestIDKey resolves the request id set by middleware.RequestID.
	RequestIDKey = container.Name("http.request_id")
)

// ScopeMiddleware gives every request its own child of parent. PerScope
// services resolved through Scope(r) live exactly as long as the request;
// Singletons still come from parent. The scope is cleared when the handler
// returns.
//
//	r.Middleware(routing.ScopeMiddleware(app.Container))
//	r.Get("/me", func(w http.ResponseWriter, req *http.Request) {
//	    sess, err := container.Resolve[*Session](routing.Scope(req), SessionClass)
//	    ...
//	})
func ScopeMiddleware(parent *container.Container) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scope := parent.Child()
			defer scope.Clear()

			r = r.WithContext(WithScope(r.Context(), scope))
			_ = scope.Instance(RequestKey, r)
			if id := middleware.GetReqID(r.Context()); id != "" {
				_ = scope.Instance(RequestIDKey, id)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithScope returns a copy of ctx carrying scope.
func WithScope(ctx context.Context, scope *container.Container) context.Context {
	return context.WithValue(ctx, scopeKey{}, scope)
}

// ScopeFrom returns the container stored in ctx, if any.
func ScopeFrom(ctx context.Context) (*container.Container, bool) {
	scope, ok := ctx.Value(scopeKey{}).(*container.Container)
	return scope, ok && scope != nil
}

// Scope returns the request's container. Outside ScopeMiddleware it falls
// back to the process root.
func Scope(r *http.Request) *container.Container {
	if scope, ok := ScopeFrom(r.Context()); ok {
		return scope
	}
	return container.Root()
}
