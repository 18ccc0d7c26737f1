package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func newTokenServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		if r.Form.Get("code") != "auth-code" {
			http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "access-1",
			"token_type":    "Bearer",
			"refresh_token": "refresh-1",
			"expires_in":    3600,
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestSession(t *testing.T, tokenURL string) *Session {
	t.Helper()
	return NewSession(Config{
		ClientID:  "client",
		TokenFile: filepath.Join(t.TempDir(), "token.json"),
		Endpoint: oauth2.Endpoint{
			AuthURL:   "https://accounts.example.com/auth",
			TokenURL:  tokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}, nil)
}

// fakeBrowser follows the consent URL straight back to the loopback callback
func fakeBrowser(code string) func(string) error {
	return func(authURL string) error {
		u, err := url.Parse(authURL)
		if err != nil {
			return err
		}
		q := u.Query()
		cb, err := url.Parse(q.Get("redirect_uri"))
		if err != nil {
			return err
		}
		cq := cb.Query()
		cq.Set("state", q.Get("state"))
		cq.Set("code", code)
		cb.RawQuery = cq.Encode()

		go func() {
			resp, err := http.Get(cb.String())
			if err == nil {
				resp.Body.Close()
			}
		}()
		return nil
	}
}

func TestTokenStoreRoundTrip(t *testing.T) {
	store := NewTokenStore(filepath.Join(t.TempDir(), "dir", "token.json"))

	tok, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, tok)

	require.NoError(t, store.Save(&oauth2.Token{AccessToken: "a", RefreshToken: "r", Expiry: time.Now().Add(time.Hour)}))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	tok, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, "a", tok.AccessToken)
	assert.Equal(t, "r", tok.RefreshToken)

	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())
}

func TestTokenStoreCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0600))

	_, err := NewTokenStore(path).Load()
	assert.Error(t, err)
}

func TestSessionInitOnce(t *testing.T) {
	s := newTestSession(t, "http://unused")

	var states []bool
	s.Listen(func(signedIn bool) { states = append(states, signedIn) })

	require.NoError(t, s.Init())
	require.NoError(t, s.Init())

	assert.Equal(t, []bool{false}, states)
	assert.False(t, s.IsSignedIn())

	_, err := s.HTTPClient(context.Background())
	assert.ErrorIs(t, err, ErrNotSignedIn)
}

func TestSessionLoginLogout(t *testing.T) {
	tokenSrv := newTokenServer(t)
	s := newTestSession(t, tokenSrv.URL)
	require.NoError(t, s.Init())

	var states []bool
	s.Listen(func(signedIn bool) { states = append(states, signedIn) })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Login(ctx, fakeBrowser("auth-code")))
	assert.True(t, s.IsSignedIn())

	stored, err := NewTokenStore(s.TokenFile()).Load()
	require.NoError(t, err)
	assert.Equal(t, "access-1", stored.AccessToken)

	// a fresh session picks the token up from disk
	again := NewSession(Config{TokenFile: s.TokenFile()}, nil)
	require.NoError(t, again.Init())
	assert.True(t, again.IsSignedIn())

	require.NoError(t, s.Logout())
	assert.False(t, s.IsSignedIn())
	assert.Equal(t, []bool{true, false}, states)
}

func TestSessionLoginBadCode(t *testing.T) {
	tokenSrv := newTokenServer(t)
	s := newTestSession(t, tokenSrv.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := s.Login(ctx, fakeBrowser("wrong"))
	require.Error(t, err)
	assert.False(t, s.IsSignedIn())
}

func TestSessionLoginCanceled(t *testing.T) {
	s := newTestSession(t, "http://unused")

	ctx, cancel := context.WithCancel(context.Background())
	err := s.Login(ctx, func(string) error {
		cancel()
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHTTPClientAddsBearer(t *testing.T) {
	var got string
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
	}))
	defer api.Close()

	path := filepath.Join(t.TempDir(), "token.json")
	require.NoError(t, NewTokenStore(path).Save(&oauth2.Token{
		AccessToken: "stored",
		TokenType:   "Bearer",
		Expiry:      time.Now().Add(time.Hour),
	}))

	s := NewSession(Config{TokenFile: path}, nil)
	require.NoError(t, s.Init())

	hc, err := s.HTTPClient(context.Background())
	require.NoError(t, err)
	resp, err := hc.Get(api.URL)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "Bearer stored", got)
}
