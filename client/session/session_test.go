package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NeiltonSeguins/blog-school/client"
)

func newAPIStub(t *testing.T) (*httptest.Server, *http.ServeMux) {
	t.Helper()
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, mux
}

func loginStub(mux *http.ServeMux) {
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		var creds client.Credentials
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds.Password != "123" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "Email ou senha inválidos"})
			return
		}
		_ = json.NewEncoder(w).Encode(client.LoginResult{
			Token: "tk-1",
			User:  client.SessionUser{ID: 1, Name: "Ana", Role: "teacher", Email: creds.Email},
		})
	})
}

func newManager(t *testing.T, server *httptest.Server, opts ...ManagerOption) (*Manager, *client.Client, Store) {
	t.Helper()
	c := client.New(client.WithBaseURL(server.URL))
	store := NewMemoryStore()
	return NewManager(c, store, opts...), c, store
}

func TestManagerStartsLoadingAndRestoresToSignedOut(t *testing.T) {
	server, _ := newAPIStub(t)
	m, _, _ := newManager(t, server)

	assert.Equal(t, StateLoading, m.State())
	require.NoError(t, m.Restore(context.Background()))
	assert.Equal(t, StateSignedOut, m.State())
	assert.Nil(t, m.CurrentUser())
}

func TestManagerRestoreFromPersistedSession(t *testing.T) {
	server, _ := newAPIStub(t)
	m, c, store := newManager(t, server)

	require.NoError(t, store.Set(keyToken, "tk-1"))
	require.NoError(t, store.Set(keyUser, `{"id":1,"name":"Ana","role":"teacher","email":"ana@blog.com"}`))

	require.NoError(t, m.Restore(context.Background()))
	assert.Equal(t, StateSignedIn, m.State())
	assert.Equal(t, "tk-1", c.Token())

	user := m.CurrentUser()
	require.NotNil(t, user)
	assert.Equal(t, "Ana", user.Name)
}

func TestManagerRestoreDropsCorruptSession(t *testing.T) {
	server, _ := newAPIStub(t)
	m, _, store := newManager(t, server)

	require.NoError(t, store.Set(keyToken, "tk-1"))
	require.NoError(t, store.Set(keyUser, "{not json"))

	require.NoError(t, m.Restore(context.Background()))
	assert.Equal(t, StateSignedOut, m.State())

	_, ok, err := store.Get(keyToken)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestManagerSignInPersistsSession(t *testing.T) {
	server, mux := newAPIStub(t)
	loginStub(mux)
	m, c, store := newManager(t, server)

	require.NoError(t, m.SignIn(context.Background(), "ana@blog.com", "123"))
	assert.Equal(t, StateSignedIn, m.State())
	assert.Equal(t, "tk-1", c.Token())

	token, ok, err := store.Get(keyToken)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "tk-1", token)
}

func TestManagerSignInRejectionKeepsSignedOut(t *testing.T) {
	server, mux := newAPIStub(t)
	loginStub(mux)

	var invalidations atomic.Int32
	m, _, _ := newManager(t, server, WithInvalidateHook(func() { invalidations.Add(1) }))
	require.NoError(t, m.Restore(context.Background()))

	err := m.SignIn(context.Background(), "ana@blog.com", "wrong")
	require.Error(t, err)

	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Email ou senha inválidos", apiErr.Message)

	assert.Equal(t, StateSignedOut, m.State())
	// A bad password must not be treated as a server-side invalidation.
	assert.Zero(t, invalidations.Load())
}

func TestManagerSignOutIsIdempotent(t *testing.T) {
	server, mux := newAPIStub(t)
	loginStub(mux)

	var changes []State
	var mu sync.Mutex
	m, c, _ := newManager(t, server, WithChangeHook(func(s State) {
		mu.Lock()
		changes = append(changes, s)
		mu.Unlock()
	}))

	require.NoError(t, m.SignIn(context.Background(), "ana@blog.com", "123"))
	m.SignOut()
	m.SignOut()
	m.SignOut()

	assert.Equal(t, StateSignedOut, m.State())
	assert.Empty(t, c.Token())
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []State{StateSignedIn, StateSignedOut}, changes)
}

func TestManagerConcurrent401sInvalidateOnce(t *testing.T) {
	server, mux := newAPIStub(t)
	loginStub(mux)
	mux.HandleFunc("/users", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Autenticação necessária."})
	})

	var invalidations atomic.Int32
	m, c, _ := newManager(t, server, WithInvalidateHook(func() { invalidations.Add(1) }))
	require.NoError(t, m.SignIn(context.Background(), "ana@blog.com", "123"))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = c.Users().List(context.Background(), "")
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), invalidations.Load())
	assert.Equal(t, StateSignedOut, m.State())
	assert.Empty(t, c.Token())
}

func TestManagerInvalidationResetsPerSignIn(t *testing.T) {
	server, mux := newAPIStub(t)
	loginStub(mux)
	mux.HandleFunc("/users", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	var invalidations atomic.Int32
	m, c, _ := newManager(t, server, WithInvalidateHook(func() { invalidations.Add(1) }))

	require.NoError(t, m.SignIn(context.Background(), "ana@blog.com", "123"))
	_, _ = c.Users().List(context.Background(), "")
	assert.Equal(t, int32(1), invalidations.Load())

	// A fresh sign-in arms the teardown again.
	require.NoError(t, m.SignIn(context.Background(), "ana@blog.com", "123"))
	_, _ = c.Users().List(context.Background(), "")
	assert.Equal(t, int32(2), invalidations.Load())
}

func TestManagerRefreshUserPreservesRole(t *testing.T) {
	server, mux := newAPIStub(t)
	loginStub(mux)
	mux.HandleFunc("/teachers/1", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(client.User{ID: 1, Name: "Ana Maria", Email: "ana@blog.com", Role: ""})
	})
	m, _, store := newManager(t, server)

	require.NoError(t, m.SignIn(context.Background(), "ana@blog.com", "123"))
	require.NoError(t, m.RefreshUser(context.Background()))

	user := m.CurrentUser()
	require.NotNil(t, user)
	assert.Equal(t, "Ana Maria", user.Name)
	// The record had no role field; the session role stays.
	assert.Equal(t, "teacher", user.Role)

	raw, ok, err := store.Get(keyUser)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, raw, "Ana Maria")
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "session.json")
	store, err := NewFileStore(path)
	require.NoError(t, err)

	require.NoError(t, store.Set(keyToken, "tk-1"))

	reopened, err := NewFileStore(path)
	require.NoError(t, err)
	token, ok, err := reopened.Get(keyToken)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "tk-1", token)

	require.NoError(t, reopened.Delete(keyToken))
	_, ok, err = reopened.Get(keyToken)
	require.NoError(t, err)
	assert.False(t, ok)
}
