package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bobmcallan/terms/internal/app"
	"github.com/bobmcallan/terms/internal/common"
	"github.com/bobmcallan/terms/internal/metrics"
	"github.com/bobmcallan/terms/internal/services/agreement"
	termsvc "github.com/bobmcallan/terms/internal/services/terms"
	"github.com/bobmcallan/terms/internal/storage"
)

// newTestServer creates a test server backed by real embedded storage.
func newTestServer(t *testing.T) *Server {
	t.Helper()
	logger := common.NewSilentLogger()
	cfg := common.NewDefaultConfig()
	cfg.Storage.Path = t.TempDir()

	mgr, err := storage.NewStorageManager(logger, cfg)
	if err != nil {
		t.Fatalf("NewStorageManager failed: %v", err)
	}
	t.Cleanup(func() { mgr.Close() })

	a := &app.App{
		Config:           cfg,
		Logger:           logger,
		Storage:          mgr,
		TermsService:     termsvc.NewService(mgr, logger),
		AgreementService: agreement.NewService(mgr, logger),
	}
	return &Server{app: a, logger: logger, metrics: metrics.NewMetrics()}
}

func jsonBody(t *testing.T, v interface{}) *bytes.Buffer {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to marshal JSON: %v", err)
	}
	return bytes.NewBuffer(data)
}

// asUser attaches an authenticated user context to the request, the way
// the bearer middleware would after validating a token.
func asUser(r *http.Request, userID, role string) *http.Request {
	uc := &common.UserContext{UserID: userID, Role: role}
	return r.WithContext(common.WithUserContext(r.Context(), uc))
}

// publishTerm seeds a terms document revision through the service.
func publishTerm(t *testing.T, srv *Server, owner, name, title, content string) {
	t.Helper()
	if _, err := srv.app.TermsService.Publish(context.Background(), owner, name, title, content); err != nil {
		t.Fatalf("publishTerm: %v", err)
	}
}

// decodeTerms decodes a JSON array of wire terms from a response body.
func decodeTerms(t *testing.T, rec *httptest.ResponseRecorder) []wireTerm {
	t.Helper()
	var out []wireTerm
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode terms: %v (body %s)", err, rec.Body.String())
	}
	return out
}

// decodeAgreements decodes a JSON array of wire agreements.
func decodeAgreements(t *testing.T, rec *httptest.ResponseRecorder) []wireAgreement {
	t.Helper()
	var out []wireAgreement
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode agreements: %v (body %s)", err, rec.Body.String())
	}
	return out
}

// jsonDecode decodes a response body into v.
func jsonDecode(rec *httptest.ResponseRecorder, v interface{}) error {
	return json.NewDecoder(rec.Body).Decode(v)
}

// errorMessage extracts the Message field from an error response body.
func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var payload struct {
		Message string `json:"Message"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode error payload: %v (body %s)", err, rec.Body.String())
	}
	return payload.Message
}
