package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"backoffice/internal/api"
	"backoffice/internal/bankmock"
	"backoffice/internal/models"
	"backoffice/internal/services"
)

type recordingNav struct {
	paths []string
}

func (n *recordingNav) To(path string) { n.paths = append(n.paths, path) }

func newTestSession(t *testing.T) (*Session, *MemoryStore, *recordingNav, *bankmock.Server) {
	t.Helper()
	mock := bankmock.New()
	mock.SeedUser("Admin", "a@b.com", "secret123", models.RoleAdmin, models.UserActive)
	server := httptest.NewServer(mock.Routes())
	t.Cleanup(server.Close)

	tokens := NewMemoryStore()
	client := api.NewClient(server.URL, server.Client(), tokens)
	nav := &recordingNav{}
	sess := New(services.NewAuthService(client), tokens, nav, "/dashboard", "/login")
	return sess, tokens, nav, mock
}

func TestLoginStoresTokenAndNavigatesToDashboard(t *testing.T) {
	sess, tokens, nav, _ := newTestSession(t)

	result, err := sess.Login(context.Background(), services.Credentials{
		Email: "a@b.com", Password: "secret123",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.Token == "" || tokens.Token() != result.Token {
		t.Fatalf("stored token %q != response token %q", tokens.Token(), result.Token)
	}
	if tokens.RefreshToken() == "" {
		t.Fatal("refresh token not stored")
	}
	if sess.State() != Authenticated {
		t.Fatalf("state = %v", sess.State())
	}
	if len(nav.paths) != 1 || nav.paths[0] != "/dashboard" {
		t.Fatalf("navigation = %v", nav.paths)
	}
}

func TestLoginFailureLeavesNoTokenAndSurfacesServerMessage(t *testing.T) {
	sess, tokens, nav, _ := newTestSession(t)

	_, err := sess.Login(context.Background(), services.Credentials{
		Email: "a@b.com", Password: "wrong-password",
	})
	var httpErr *api.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("err = %v, want *api.HTTPError", err)
	}
	if httpErr.Status != http.StatusUnauthorized || httpErr.Message != "invalid credentials" {
		t.Fatalf("unexpected error payload: %+v", httpErr)
	}
	if tokens.Token() != "" {
		t.Fatal("token stored despite failed login")
	}
	if sess.State() != Anonymous {
		t.Fatalf("state = %v", sess.State())
	}
	if len(nav.paths) != 0 {
		t.Fatalf("unexpected navigation: %v", nav.paths)
	}
}

func TestLogoutClearsTokensEvenWhenBackendFails(t *testing.T) {
	tokens := NewMemoryStore()
	_ = tokens.Save("stale-token", "stale-refresh")

	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	dead.Close()
	client := api.NewClient(dead.URL, nil, tokens)
	nav := &recordingNav{}
	sess := New(services.NewAuthService(client), tokens, nav, "/dashboard", "/login")

	err := sess.Logout(context.Background())
	if err == nil {
		t.Fatal("expected backend error to surface")
	}
	if tokens.Token() != "" || tokens.RefreshToken() != "" {
		t.Fatal("tokens not cleared")
	}
	if len(nav.paths) != 1 || nav.paths[0] != "/login" {
		t.Fatalf("navigation = %v", nav.paths)
	}
}

func TestValidTrueForLiveSession(t *testing.T) {
	sess, _, _, _ := newTestSession(t)
	if _, err := sess.Login(context.Background(), services.Credentials{Email: "a@b.com", Password: "secret123"}); err != nil {
		t.Fatalf("login: %v", err)
	}
	if !sess.Valid(context.Background()) {
		t.Fatal("valid session reported invalid")
	}
}

func TestValidFalseWithoutToken(t *testing.T) {
	sess, _, _, _ := newTestSession(t)
	if sess.Valid(context.Background()) {
		t.Fatal("empty token reported valid")
	}
}

func TestValidRejectsExpiredTokenWithoutNetworkCall(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)

	tokens := NewMemoryStore()
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	}).SignedString([]byte("any-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	_ = tokens.Save(expired, "")

	client := api.NewClient(server.URL, server.Client(), tokens)
	sess := New(services.NewAuthService(client), tokens, nil, "/dashboard", "/login")

	if sess.Valid(context.Background()) {
		t.Fatal("expired token reported valid")
	}
	if calls != 0 {
		t.Fatalf("network calls = %d, want 0 for locally expired token", calls)
	}
}

func TestRefreshPersistsNewToken(t *testing.T) {
	sess, tokens, _, _ := newTestSession(t)
	if _, err := sess.Login(context.Background(), services.Credentials{Email: "a@b.com", Password: "secret123"}); err != nil {
		t.Fatalf("login: %v", err)
	}
	before := tokens.Token()

	if err := sess.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if tokens.Token() == "" || tokens.Token() == before {
		t.Fatal("refresh did not rotate the access token")
	}
}

func TestRefreshWithoutRefreshToken(t *testing.T) {
	sess, _, _, _ := newTestSession(t)
	if err := sess.Refresh(context.Background()); !errors.Is(err, ErrNoRefreshToken) {
		t.Fatalf("err = %v, want ErrNoRefreshToken", err)
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")
	store := NewFileStore(path)

	if store.Token() != "" {
		t.Fatal("fresh store should be empty")
	}
	if err := store.Save("tok-1", "ref-1"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if store.Token() != "tok-1" || store.RefreshToken() != "ref-1" {
		t.Fatalf("round trip failed: %q %q", store.Token(), store.RefreshToken())
	}

	// Saving an access token alone keeps the refresh token.
	if err := store.Save("tok-2", ""); err != nil {
		t.Fatalf("save: %v", err)
	}
	if store.Token() != "tok-2" || store.RefreshToken() != "ref-1" {
		t.Fatalf("refresh token lost on rotation: %q %q", store.Token(), store.RefreshToken())
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if store.Token() != "" || store.RefreshToken() != "" {
		t.Fatal("clear left tokens behind")
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("second clear should be a no-op: %v", err)
	}
}
