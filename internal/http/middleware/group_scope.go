package middleware

import (
	"net/http"
	"net/url"

	"github.com/digitaltreasurer/treasurer-api/internal/auth"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// GroupScopeMiddleware pins every request under /groups/{name} to one client
// group so handlers never read another group's rows
type GroupScopeMiddleware struct {
	param  string
	logger *zap.Logger
}

// NewGroupScopeMiddleware scopes requests to the group named by the given
// chi URL parameter
func NewGroupScopeMiddleware(param string, logger *zap.Logger) *GroupScopeMiddleware {
	return &GroupScopeMiddleware{
		param:  param,
		logger: logger,
	}
}

// Scope resolves the group name from the path and stores it in the context.
// chi matches on the escaped path only when the request carries one, so the
// parameter is unescaped in that case alone.
func (m *GroupScopeMiddleware) Scope(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, m.param)
		if r.URL.RawPath != "" {
			if unescaped, err := url.PathUnescape(name); err == nil {
				name = unescaped
			}
		}
		if name == "" {
			http.Error(w, "Missing client name", http.StatusBadRequest)
			return
		}

		if userCtx, ok := auth.FromContext(r.Context()); ok {
			m.logger.Debug("group scoped request",
				zap.String("admin", userCtx.Username),
				zap.String("group", name),
			)
		}

		next.ServeHTTP(w, r.WithContext(auth.WithGroup(r.Context(), name)))
	})
}
