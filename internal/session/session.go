package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"backoffice/internal/services"
)

type State int

const (
	Anonymous State = iota
	Authenticating
	Authenticated
)

func (s State) String() string {
	switch s {
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	default:
		return "anonymous"
	}
}

var ErrNoRefreshToken = errors.New("no refresh token stored")

// Navigator receives the post-login and post-logout destinations. The CLI
// logs them; an embedding UI would route on them.
type Navigator interface {
	To(path string)
}

type NavigatorFunc func(path string)

func (f NavigatorFunc) To(path string) { f(path) }

// Session owns the login/logout side effects: token persistence, navigation
// and the session-validity check.
type Session struct {
	auth          *services.AuthService
	tokens        TokenStore
	nav           Navigator
	dashboardPath string
	loginPath     string

	mu    sync.RWMutex
	state State
}

func New(auth *services.AuthService, tokens TokenStore, nav Navigator, dashboardPath, loginPath string) *Session {
	return &Session{
		auth:          auth,
		tokens:        tokens,
		nav:           nav,
		dashboardPath: dashboardPath,
		loginPath:     loginPath,
		state:         Anonymous,
	}
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Token satisfies api.TokenSource.
func (s *Session) Token() string { return s.tokens.Token() }

// Login persists the returned tokens and navigates to the dashboard on
// success; on failure the session returns to anonymous and the backend's
// error is surfaced unchanged.
func (s *Session) Login(ctx context.Context, creds services.Credentials) (services.LoginResult, error) {
	s.setState(Authenticating)
	result, err := s.auth.Login(ctx, creds)
	if err != nil {
		s.setState(Anonymous)
		return services.LoginResult{}, err
	}
	if err := s.tokens.Save(result.Token, result.RefreshToken); err != nil {
		s.setState(Anonymous)
		return services.LoginResult{}, err
	}
	s.setState(Authenticated)
	if s.nav != nil {
		s.nav.To(s.dashboardPath)
	}
	return result, nil
}

// Logout clears the stored tokens whether or not the backend call succeeds,
// then navigates to the login entry point.
func (s *Session) Logout(ctx context.Context) error {
	err := s.auth.Logout(ctx)
	if clearErr := s.tokens.Clear(); clearErr != nil && err == nil {
		err = clearErr
	}
	s.setState(Anonymous)
	if s.nav != nil {
		s.nav.To(s.loginPath)
	}
	return err
}

// Valid reports whether the stored token is still accepted. A token whose
// expiry claim is already in the past is rejected without a network call;
// otherwise the backend decides. Never returns an error: an invalid session
// is an expected steady state.
func (s *Session) Valid(ctx context.Context) bool {
	token := s.tokens.Token()
	if token == "" {
		return false
	}
	if expired(token) {
		return false
	}
	return s.auth.CheckToken(ctx)
}

// Refresh exchanges the stored refresh token for a new access token and
// persists it. Failure is surfaced to the caller, not retried.
func (s *Session) Refresh(ctx context.Context) error {
	refreshToken := s.tokens.RefreshToken()
	if refreshToken == "" {
		return ErrNoRefreshToken
	}
	token, err := s.auth.RefreshToken(ctx, refreshToken)
	if err != nil {
		return err
	}
	return s.tokens.Save(token, refreshToken)
}

func (s *Session) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

func expired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
