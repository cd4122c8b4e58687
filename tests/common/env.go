package common

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bobmcallan/terms/internal/app"
	termsclient "github.com/bobmcallan/terms/internal/clients/terms"
	"github.com/bobmcallan/terms/internal/clients/transport"
	"github.com/bobmcallan/terms/internal/common"
	"github.com/bobmcallan/terms/internal/server"
	"github.com/bobmcallan/terms/internal/services/agreement"
	termsvc "github.com/bobmcallan/terms/internal/services/terms"
	"github.com/bobmcallan/terms/internal/storage"
)

// Env is an in-process terms service listening on a loopback port,
// backed by embedded storage in a per-test temp directory. API tests
// exercise the full stack: middleware, handlers, services, storage.
type Env struct {
	t      *testing.T
	app    *app.App
	server *httptest.Server
}

// NewEnv starts a terms service for one test.
func NewEnv(t *testing.T) *Env {
	t.Helper()

	logger := common.NewSilentLogger()
	cfg := common.NewDefaultConfig()
	cfg.Storage.Path = t.TempDir()

	mgr, err := storage.NewStorageManager(logger, cfg)
	if err != nil {
		t.Fatalf("create storage manager: %v", err)
	}

	a := &app.App{
		Config:           cfg,
		Logger:           logger,
		Storage:          mgr,
		TermsService:     termsvc.NewService(mgr, logger),
		AgreementService: agreement.NewService(mgr, logger),
	}

	srv := httptest.NewServer(server.NewServer(a).Handler())

	env := &Env{t: t, app: a, server: srv}
	t.Cleanup(env.Cleanup)
	return env
}

// Cleanup stops the server and releases storage.
func (e *Env) Cleanup() {
	if e.server != nil {
		e.server.Close()
		e.server = nil
	}
	if e.app != nil {
		e.app.Close()
		e.app = nil
	}
}

// BaseURL returns the service's base URL.
func (e *Env) BaseURL() string {
	return e.server.URL
}

// Client returns a terms client authenticated with the given token.
// An empty token yields an anonymous client.
func (e *Env) Client(token string) *termsclient.Client {
	return termsclient.NewClient(e.BaseURL(), transport.NewClient(transport.WithToken(token)))
}

// HTTPGet issues a GET against a service path.
func (e *Env) HTTPGet(path string) (*http.Response, error) {
	return http.Get(e.BaseURL() + path)
}

// HTTPPost issues a JSON POST against a service path with an optional
// bearer token.
func (e *Env) HTTPPost(path, token string, payload interface{}) (*http.Response, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequest(http.MethodPost, e.BaseURL()+path, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return http.DefaultClient.Do(req)
}

// RegisterAndLogin creates an account and returns a bearer token for it.
func (e *Env) RegisterAndLogin(username, password string) string {
	e.t.Helper()

	resp, err := e.HTTPPost("/v1/users", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": password,
	})
	if err != nil {
		e.t.Fatalf("register %s: %v", username, err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		e.t.Fatalf("register %s: status %d", username, resp.StatusCode)
	}

	resp, err = e.HTTPPost("/v1/login", "", map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		e.t.Fatalf("login %s: %v", username, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		e.t.Fatalf("login %s: status %d (%s)", username, resp.StatusCode, body)
	}

	var out struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		e.t.Fatalf("decode login response: %v", err)
	}
	if out.Token == "" {
		e.t.Fatal("login returned an empty token")
	}
	return out.Token
}

// SeedTerm publishes a terms revision directly through the service layer.
func (e *Env) SeedTerm(owner, name, title, content string) {
	e.t.Helper()
	if _, err := e.app.TermsService.Publish(context.Background(), owner, name, title, content); err != nil {
		e.t.Fatalf("seed term %s: %v", name, err)
	}
}

// ErrorMessage reads an error response body and returns its Message field.
func ErrorMessage(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	var payload struct {
		Message string `json:"Message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode error payload: %v", err)
	}
	return payload.Message
}
