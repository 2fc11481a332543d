// Package api implements the client side of the DayKeeper HTTP API. The
// same Client serves as the identity provider (identity.Provider) and as the
// remote entry backend (store.Backend).
//
// Every failure is collapsed into the sentinel vocabulary of
// internal/common before it leaves this package: transport problems become
// ErrNetwork, everything else is decoded from the server's {code, message}
// envelope.
package api

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/avolkovs/daykeeper/internal/client/identity"
	"github.com/avolkovs/daykeeper/internal/client/store"
	"github.com/avolkovs/daykeeper/internal/common"
	"github.com/avolkovs/daykeeper/internal/logging"
)

const requestTimeout = 10 * time.Second

// TokenStore persists the session token across client restarts.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenStore
	logger  logging.Logger

	mu          sync.Mutex
	accessToken string
}

// NewClient builds a client for the server at baseURL (no trailing slash).
// The underlying http.Client carries no global timeout because watch
// connections are long-lived; unary requests get a per-call deadline.
func NewClient(baseURL string, tokens TokenStore, logger logging.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		tokens:  tokens,
		logger:  logger.With("component", "api"),
	}
}

func (c *Client) token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accessToken
}

func (c *Client) setToken(tok string) {
	c.mu.Lock()
	c.accessToken = tok
	c.mu.Unlock()
}

// --- wire DTOs ---

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type userDTO struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type sessionResponse struct {
	Token string  `json:"token"`
	User  userDTO `json:"user"`
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	var rdr io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rdr = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if tok := c.token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, common.ErrNetwork)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp.Body)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func decodeError(body io.Reader) error {
	var env errorEnvelope
	if err := json.NewDecoder(body).Decode(&env); err != nil {
		return common.ErrInternal
	}
	return common.ErrorByCode(env.Code)
}

func (c *Client) establishSession(sess sessionResponse) *identity.Identity {
	c.setToken(sess.Token)
	if err := c.tokens.Save(sess.Token); err != nil {
		c.logger.Warn(context.Background(), "session token not persisted", "err", err)
	}
	return &identity.Identity{ID: sess.User.ID, Label: sess.User.Email, Mode: identity.ModeRemote}
}

// --- identity.Provider ---

func (c *Client) SignIn(ctx context.Context, email, password string) (*identity.Identity, error) {
	var sess sessionResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/login", credentialsRequest{Email: email, Password: password}, &sess); err != nil {
		return nil, err
	}
	return c.establishSession(sess), nil
}

// SignInWithSSO exchanges an SSO ticket for a session. An empty ticket means
// the user abandoned the external flow; no request is made.
func (c *Client) SignInWithSSO(ctx context.Context, ticket string) (*identity.Identity, error) {
	if ticket == "" {
		return nil, common.ErrSSODismissed
	}
	var sess sessionResponse
	body := struct {
		Ticket string `json:"ticket"`
	}{Ticket: ticket}
	if err := c.doJSON(ctx, http.MethodPost, "/api/sso/exchange", body, &sess); err != nil {
		return nil, err
	}
	return c.establishSession(sess), nil
}

func (c *Client) SignUp(ctx context.Context, email, password string) error {
	return c.doJSON(ctx, http.MethodPost, "/api/signup", credentialsRequest{Email: email, Password: password}, nil)
}

func (c *Client) SendPasswordReset(ctx context.Context, email string) error {
	body := struct {
		Email string `json:"email"`
	}{Email: email}
	return c.doJSON(ctx, http.MethodPost, "/api/reset/request", body, nil)
}

// SignOut discards the session. The server call is best-effort; the local
// token is gone either way.
func (c *Client) SignOut(ctx context.Context) error {
	if c.token() != "" {
		if err := c.doJSON(ctx, http.MethodPost, "/api/logout", nil, nil); err != nil {
			c.logger.Debug(ctx, "server-side logout failed", "err", err)
		}
	}
	c.setToken("")
	return c.tokens.Clear()
}

// Resume revalidates a persisted token. A missing or rejected token is not
// an error: it just means there is nothing to resume.
func (c *Client) Resume(ctx context.Context) (*identity.Identity, error) {
	tok, err := c.tokens.Load()
	if err != nil {
		return nil, fmt.Errorf("load session token: %w", err)
	}
	if tok == "" {
		return nil, nil
	}
	c.setToken(tok)

	var user userDTO
	if err := c.doJSON(ctx, http.MethodGet, "/api/me", nil, &user); err != nil {
		c.setToken("")
		if errors.Is(err, common.ErrUnauthorized) || errors.Is(err, common.ErrTokenExpired) {
			_ = c.tokens.Clear()
			return nil, nil
		}
		return nil, err
	}
	return &identity.Identity{ID: user.ID, Label: user.Email, Mode: identity.ModeRemote}, nil
}

// --- store.Backend ---

func (c *Client) ListEntries(ctx context.Context) ([]store.Entry, error) {
	var entries []store.Entry
	if err := c.doJSON(ctx, http.MethodGet, "/api/entries", nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *Client) CreateEntry(ctx context.Context, title, date string) error {
	body := struct {
		Title string `json:"title"`
		Date  string `json:"date"`
	}{Title: title, Date: date}
	return c.doJSON(ctx, http.MethodPost, "/api/entries", body, nil)
}

func (c *Client) DeleteEntry(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/entries/"+id, nil, nil)
}

// WatchEntries opens the server-sent-events stream. Snapshots arrive in the
// order the server emits them; the returned cancel closes the stream and is
// safe to call more than once.
func (c *Client) WatchEntries(ctx context.Context, onSnapshot func([]store.Entry)) (func(), error) {
	ctx, cancel := context.WithCancel(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/entries/watch", nil)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	if tok := c.token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("watch: %w", common.ErrNetwork)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		cancel()
		return nil, decodeError(resp.Body)
	}

	go c.readSnapshots(ctx, resp.Body, onSnapshot)

	var once sync.Once
	return func() { once.Do(cancel) }, nil
}

func (c *Client) readSnapshots(ctx context.Context, body io.ReadCloser, onSnapshot func([]store.Entry)) {
	defer body.Close()

	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		data, ok := strings.CutPrefix(scanner.Text(), "data: ")
		if !ok {
			continue
		}
		var entries []store.Entry
		if err := json.Unmarshal([]byte(data), &entries); err != nil {
			c.logger.Warn(ctx, "bad snapshot payload", "err", err)
			continue
		}
		if ctx.Err() != nil {
			return
		}
		onSnapshot(entries)
	}
	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		c.logger.Warn(ctx, "watch stream ended", "err", err)
	}
}
