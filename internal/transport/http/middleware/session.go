package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"cadastro/internal/domain/auth"
	"cadastro/internal/session"
	"cadastro/internal/transport/http/api"
)

// CookieName is the session cookie. It carries only the opaque session id;
// all state lives server-side.
const CookieName = "sessao_id"

type ctxKey string

const (
	ctxKeyUser      ctxKey = "user"
	ctxKeySessionID ctxKey = "session_id"
)

// Session resolves the cookie against the store and, on a hit, attaches the
// identity to the request context and slides the expiry forward by ttl.
// Requests without a valid session pass through unauthenticated; RequireAuth
// is the gate.
func Session(store session.Store, ttl time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(CookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			sess, err := store.Get(r.Context(), cookie.Value)
			if err != nil {
				if !errors.Is(err, session.ErrNotFound) {
					slog.Error("session lookup failed", "err", err, "requestId", GetRequestID(r.Context()))
				}
				next.ServeHTTP(w, r)
				return
			}

			sess.Refresh(ttl)
			if err := store.Put(r.Context(), sess); err != nil {
				slog.Error("session refresh failed", "err", err, "requestId", GetRequestID(r.Context()))
			}

			ctx := context.WithValue(r.Context(), ctxKeyUser, sess.User)
			ctx = context.WithValue(ctx, ctxKeySessionID, sess.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetUser(r.Context()); !ok {
			api.Message(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func GetUser(ctx context.Context) (auth.User, bool) {
	user, ok := ctx.Value(ctxKeyUser).(auth.User)
	return user, ok
}

func GetSessionID(ctx context.Context) string {
	if id, ok := ctx.Value(ctxKeySessionID).(string); ok {
		return id
	}
	return ""
}
