// Package httpapi exposes the server over HTTP/JSON plus a server-sent-events
// stream for live entry snapshots. Errors cross the wire as a {code, message}
// envelope using the closed code set of internal/common.
package httpapi

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/avolkovs/daykeeper/internal/logging"
	"github.com/avolkovs/daykeeper/internal/server/entries"
	"github.com/avolkovs/daykeeper/internal/server/users"
)

// UserService is the slice of users.Service the handlers need.
type UserService interface {
	Signup(ctx context.Context, email, password string) error
	Verify(ctx context.Context, token string) error
	Login(ctx context.Context, email, password string) (*users.Session, error)
	ExchangeSSO(ctx context.Context, ticket string) (*users.Session, error)
	RequestReset(ctx context.Context, email string) error
	ConfirmReset(ctx context.Context, token, password string) error
	Authenticate(ctx context.Context, token string) (*users.User, error)
}

// EntryService is the slice of entries.Service the handlers need.
type EntryService interface {
	List(ctx context.Context, ownerID string) ([]entries.Entry, error)
	Create(ctx context.Context, ownerID, title, date string) (*entries.Entry, error)
	Delete(ctx context.Context, ownerID, id string) error
	Watch(ownerID string) (<-chan []entries.Entry, func())
}

type Server struct {
	addr    string
	logger  logging.Logger
	users   UserService
	entries EntryService
	router  *mux.Router
}

func NewServer(addr string, logger logging.Logger, userSvc UserService, entrySvc EntryService) *Server {
	s := &Server{
		addr:    addr,
		logger:  logger.With("component", "httpapi"),
		users:   userSvc,
		entries: entrySvc,
	}
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() *mux.Router {
	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/signup", s.handleSignup).Methods(http.MethodPost)
	api.HandleFunc("/verify", s.handleVerify).Methods(http.MethodPost)
	api.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	api.HandleFunc("/sso/exchange", s.handleSSOExchange).Methods(http.MethodPost)
	api.HandleFunc("/reset/request", s.handleResetRequest).Methods(http.MethodPost)
	api.HandleFunc("/reset/confirm", s.handleResetConfirm).Methods(http.MethodPost)

	authed := api.NewRoute().Subrouter()
	authed.Use(s.authMiddleware)
	authed.HandleFunc("/logout", s.handleLogout).Methods(http.MethodPost)
	authed.HandleFunc("/me", s.handleMe).Methods(http.MethodGet)
	authed.HandleFunc("/entries", s.handleListEntries).Methods(http.MethodGet)
	authed.HandleFunc("/entries", s.handleCreateEntry).Methods(http.MethodPost)
	authed.HandleFunc("/entries/watch", s.handleWatchEntries).Methods(http.MethodGet)
	authed.HandleFunc("/entries/{id}", s.handleDeleteEntry).Methods(http.MethodDelete)

	return r
}

// Router exposes the handler tree; tests mount it on httptest servers.
func (s *Server) Router() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully. Watch
// streams close with the listener.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:        s.addr,
		Handler:     s.router,
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "http server listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
