// Package auth handles Google sign-in. A Session is created once at startup
// and passed to whatever needs an authorized HTTP client.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// DriveFileScope limits access to files the app created
const DriveFileScope = "https://www.googleapis.com/auth/drive.file"

var ErrNotSignedIn = errors.New("not signed in")

// Config describes the OAuth client
type Config struct {
	ClientID     string
	ClientSecret string
	Scopes       []string
	TokenFile    string
	// Endpoint defaults to Google's OAuth endpoints
	Endpoint oauth2.Endpoint
}

// Session tracks whether the user is signed in and hands out authorized
// HTTP clients. Listeners are told about every change of state.
type Session struct {
	oauth *oauth2.Config
	store *TokenStore
	base  *http.Client

	initOnce sync.Once
	initErr  error

	mu        sync.RWMutex
	token     *oauth2.Token
	listeners []func(bool)
}

// NewSession creates a session. base carries TLS/proxy settings and may be nil.
func NewSession(cfg Config, base *http.Client) *Session {
	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{DriveFileScope}
	}
	endpoint := cfg.Endpoint
	if endpoint.TokenURL == "" {
		endpoint = google.Endpoint
	}
	if base == nil {
		base = http.DefaultClient
	}

	return &Session{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Scopes:       scopes,
			Endpoint:     endpoint,
		},
		store: NewTokenStore(cfg.TokenFile),
		base:  base,
	}
}

// Init loads any stored token and reports the initial state to listeners.
// Only the first call does any work.
func (s *Session) Init() error {
	s.initOnce.Do(func() {
		tok, err := s.store.Load()
		if err != nil {
			s.initErr = err
		}
		s.setToken(tok)
	})
	return s.initErr
}

// Listen registers fn to be called with the signed-in state on every change
func (s *Session) Listen(fn func(signedIn bool)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// IsSignedIn reports whether a token is available
func (s *Session) IsSignedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != nil
}

// TokenFile returns where the token is kept
func (s *Session) TokenFile() string {
	return s.store.Path()
}

// Login runs the installed-app flow: a loopback server receives the
// authorization code after open has sent the user to the consent page.
func (s *Session) Login(ctx context.Context, open func(authURL string) error) error {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return fmt.Errorf("start callback listener: %w", err)
	}

	conf := *s.oauth
	conf.RedirectURL = fmt.Sprintf("http://%s/callback", ln.Addr().String())
	state := uuid.NewString()

	codes := make(chan string, 1)
	errs := make(chan error, 1)
	srv := &http.Server{Handler: callbackHandler(state, codes, errs)}
	go srv.Serve(ln)
	defer srv.Close()

	if err := open(conf.AuthCodeURL(state, oauth2.AccessTypeOffline)); err != nil {
		return fmt.Errorf("open consent page: %w", err)
	}

	var code string
	select {
	case code = <-codes:
	case err := <-errs:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}

	tok, err := conf.Exchange(s.clientContext(ctx), code)
	if err != nil {
		return fmt.Errorf("exchange authorization code: %w", err)
	}
	if err := s.store.Save(tok); err != nil {
		return fmt.Errorf("save token: %w", err)
	}

	s.setToken(tok)
	return nil
}

// Logout forgets the stored token
func (s *Session) Logout() error {
	if err := s.store.Clear(); err != nil {
		return err
	}
	s.setToken(nil)
	return nil
}

// HTTPClient returns a client that adds the bearer token to every request
// and persists refreshed tokens.
func (s *Session) HTTPClient(ctx context.Context) (*http.Client, error) {
	s.mu.RLock()
	tok := s.token
	s.mu.RUnlock()
	if tok == nil {
		return nil, ErrNotSignedIn
	}

	ctx = s.clientContext(ctx)
	src := &savingSource{
		base:  s.oauth.TokenSource(ctx, tok),
		store: s.store,
		last:  tok.AccessToken,
	}
	return oauth2.NewClient(ctx, oauth2.ReuseTokenSource(tok, src)), nil
}

func (s *Session) clientContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, s.base)
}

func (s *Session) setToken(tok *oauth2.Token) {
	s.mu.Lock()
	s.token = tok
	listeners := append([]func(bool){}, s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(tok != nil)
	}
}

func callbackHandler(state string, codes chan<- string, errs chan<- error) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/callback" {
			http.NotFound(w, r)
			return
		}
		q := r.URL.Query()
		switch {
		case q.Get("state") != state:
			http.Error(w, "state mismatch", http.StatusBadRequest)
			trySend(errs, errors.New("oauth callback: state mismatch"))
		case q.Get("error") != "":
			http.Error(w, "sign-in was not completed", http.StatusBadRequest)
			trySend(errs, fmt.Errorf("oauth callback: %s", q.Get("error")))
		case q.Get("code") == "":
			http.Error(w, "missing code", http.StatusBadRequest)
			trySend(errs, errors.New("oauth callback: missing code"))
		default:
			w.Write([]byte("Signed in. You can close this window and return to the terminal."))
			trySend(codes, q.Get("code"))
		}
	})
}

func trySend[T any](ch chan<- T, v T) {
	select {
	case ch <- v:
	default:
	}
}

// savingSource writes refreshed tokens back to disk
type savingSource struct {
	base  oauth2.TokenSource
	store *TokenStore

	mu   sync.Mutex
	last string
}

func (s *savingSource) Token() (*oauth2.Token, error) {
	tok, err := s.base.Token()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if tok.AccessToken != s.last {
		s.last = tok.AccessToken
		// A failed save only costs a refresh on the next run
		_ = s.store.Save(tok)
	}
	return tok, nil
}
