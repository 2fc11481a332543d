package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/avolkovs/daykeeper/internal/common"
	"github.com/avolkovs/daykeeper/internal/server/users"
)

type ctxKey int

const userKey ctxKey = 0

// userFrom returns the authenticated user. Only valid inside handlers behind
// authMiddleware.
func userFrom(ctx context.Context) *users.User {
	return ctx.Value(userKey).(*users.User)
}

// authMiddleware resolves the bearer token and stores the user in the request
// context. Missing or bad credentials end the request with the matching wire
// code.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token == "" {
			writeError(w, common.ErrUnauthorized)
			return
		}

		user, err := s.users.Authenticate(r.Context(), token)
		if err != nil {
			writeError(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
	})
}
