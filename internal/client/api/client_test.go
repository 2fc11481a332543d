package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avolkovs/daykeeper/internal/client/identity"
	"github.com/avolkovs/daykeeper/internal/client/store"
	"github.com/avolkovs/daykeeper/internal/common"
	"github.com/avolkovs/daykeeper/internal/logging"
)

type memTokenStore struct {
	mu    sync.Mutex
	token string
}

func (m *memTokenStore) Load() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *memTokenStore) Save(token string) error {
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
	return nil
}

func (m *memTokenStore) Clear() error {
	m.mu.Lock()
	m.token = ""
	m.mu.Unlock()
	return nil
}

func newTestClient(t *testing.T, handler http.Handler) (*Client, *memTokenStore) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	tokens := &memTokenStore{}
	return NewClient(srv.URL, tokens, logging.NewJSONLogger(io.Discard)), tokens
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestSignInEstablishesSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/login", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		var creds credentialsRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "a@b.c", creds.Email)
		writeJSON(w, http.StatusOK, sessionResponse{
			Token: "tok-1",
			User:  userDTO{ID: "u1", Email: "a@b.c"},
		})
	})
	c, tokens := newTestClient(t, mux)

	ident, err := c.SignIn(context.Background(), "a@b.c", "secret")
	require.NoError(t, err)
	assert.Equal(t, "u1", ident.ID)
	assert.Equal(t, "a@b.c", ident.Label)
	assert.Equal(t, identity.ModeRemote, ident.Mode)

	saved, _ := tokens.Load()
	assert.Equal(t, "tok-1", saved)
}

func TestSignInErrorCodeMapping(t *testing.T) {
	tests := []struct {
		code string
		want error
	}{
		{common.CodeInvalidCredential, common.ErrInvalidCredential},
		{common.CodeEmailNotVerified, common.ErrEmailNotVerified},
		{"something-new", common.ErrInternal},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("/api/login", func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusUnauthorized, errorEnvelope{Code: tt.code, Message: "nope"})
			})
			c, _ := newTestClient(t, mux)

			_, err := c.SignIn(context.Background(), "a@b.c", "pw")
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestUnreachableServerIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	c := NewClient(srv.URL, &memTokenStore{}, logging.NewJSONLogger(io.Discard))

	_, err := c.SignIn(context.Background(), "a@b.c", "pw")
	assert.ErrorIs(t, err, common.ErrNetwork)

	_, err = c.ListEntries(context.Background())
	assert.ErrorIs(t, err, common.ErrNetwork)
}

func TestSignInWithSSOEmptyTicket(t *testing.T) {
	c, _ := newTestClient(t, http.NewServeMux())

	_, err := c.SignInWithSSO(context.Background(), "")
	assert.ErrorIs(t, err, common.ErrSSODismissed)
}

func TestResumeRevalidatesToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			writeJSON(w, http.StatusUnauthorized, errorEnvelope{Code: common.CodeUnauthorized})
			return
		}
		writeJSON(w, http.StatusOK, userDTO{ID: "u1", Email: "a@b.c"})
	})
	c, tokens := newTestClient(t, mux)

	t.Run("no token", func(t *testing.T) {
		ident, err := c.Resume(context.Background())
		require.NoError(t, err)
		assert.Nil(t, ident)
	})

	t.Run("valid token", func(t *testing.T) {
		require.NoError(t, tokens.Save("tok-1"))
		ident, err := c.Resume(context.Background())
		require.NoError(t, err)
		require.NotNil(t, ident)
		assert.Equal(t, "u1", ident.ID)
	})

	t.Run("rejected token is cleared", func(t *testing.T) {
		require.NoError(t, tokens.Save("stale"))
		ident, err := c.Resume(context.Background())
		require.NoError(t, err)
		assert.Nil(t, ident)
		saved, _ := tokens.Load()
		assert.Empty(t, saved)
	})
}

func TestSignOutClearsToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, sessionResponse{Token: "tok-1", User: userDTO{ID: "u1"}})
	})
	mux.HandleFunc("/api/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	c, tokens := newTestClient(t, mux)

	_, err := c.SignIn(context.Background(), "a@b.c", "pw")
	require.NoError(t, err)

	require.NoError(t, c.SignOut(context.Background()))
	saved, _ := tokens.Load()
	assert.Empty(t, saved)
	assert.Empty(t, c.token())
}

func TestEntryOperations(t *testing.T) {
	var (
		mu      sync.Mutex
		created []string
		deleted []string
	)
	mux := http.NewServeMux()
	mux.HandleFunc("/api/entries", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, []store.Entry{{ID: "e1", Title: "launch", Date: "2026-03-01"}})
		case http.MethodPost:
			var body struct{ Title, Date string }
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			mu.Lock()
			created = append(created, body.Title)
			mu.Unlock()
			w.WriteHeader(http.StatusCreated)
		}
	})
	mux.HandleFunc("/api/entries/e1", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		mu.Lock()
		deleted = append(deleted, "e1")
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	})
	c, _ := newTestClient(t, mux)

	entries, err := c.ListEntries(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "launch", entries[0].Title)

	require.NoError(t, c.CreateEntry(context.Background(), "launch", "2026-03-01"))
	require.NoError(t, c.DeleteEntry(context.Background(), "e1"))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"launch"}, created)
	assert.Equal(t, []string{"e1"}, deleted)
}

func TestWatchEntriesStreamsSnapshots(t *testing.T) {
	snapshots := make(chan []store.Entry, 2)
	mux := http.NewServeMux()
	mux.HandleFunc("/api/entries/watch", func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		require.True(t, ok)
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)

		for _, snap := range [][]store.Entry{
			{},
			{{ID: "e1", Title: "launch", Date: "2026-03-01"}},
		} {
			raw, err := json.Marshal(snap)
			require.NoError(t, err)
			_, err = w.Write([]byte("data: " + string(raw) + "\n\n"))
			require.NoError(t, err)
			flusher.Flush()
		}
		<-r.Context().Done()
	})
	c, _ := newTestClient(t, mux)

	cancel, err := c.WatchEntries(context.Background(), func(entries []store.Entry) {
		snapshots <- entries
	})
	require.NoError(t, err)
	defer cancel()

	recv := func() []store.Entry {
		select {
		case s := <-snapshots:
			return s
		case <-time.After(2 * time.Second):
			t.Fatal("no snapshot")
			return nil
		}
	}

	assert.Empty(t, recv())
	second := recv()
	require.Len(t, second, 1)
	assert.Equal(t, "e1", second[0].ID)

	cancel()
	cancel() // safe to call twice
}

func TestWatchEntriesUnauthorized(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/entries/watch", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, errorEnvelope{Code: common.CodeUnauthorized})
	})
	c, _ := newTestClient(t, mux)

	_, err := c.WatchEntries(context.Background(), func([]store.Entry) {})
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}
