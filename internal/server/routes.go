package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/bobmcallan/terms/internal/common"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/version", s.handleVersion)
	mux.Handle("/metrics", s.metrics.Handler())
	mux.HandleFunc("/shutdown", s.handleShutdown)

	// Terms documents
	mux.HandleFunc("/v1/terms/", s.routeTerms)
	mux.HandleFunc("/v1/terms", s.handleTerms)

	// Agreements
	mux.HandleFunc("/v1/agreements", s.handleAgreementsList)
	mux.HandleFunc("/v1/agreement", s.handleAgreement)

	// Users and auth
	mux.HandleFunc("/v1/users/", s.routeUsers)
	mux.HandleFunc("/v1/users", s.handleUsers)
	mux.HandleFunc("/v1/login", s.handleLogin)
	mux.HandleFunc("/v1/validate", s.handleValidate)
}

// routeTerms dispatches /v1/terms/{name} and /v1/terms/{name}/revisions.
func (s *Server) routeTerms(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/v1/terms/")
	if path == "" {
		s.handleTerms(w, r)
		return
	}

	parts := strings.SplitN(path, "/", 2)
	name := parts[0]
	subpath := ""
	if len(parts) > 1 {
		subpath = parts[1]
	}

	switch subpath {
	case "":
		s.handleTermsShow(w, r, name)
	case "revisions":
		s.handleTermsRevisions(w, r, name)
	default:
		WriteError(w, http.StatusNotFound, "Not found")
	}
}

// handleTerms dispatches GET (list) and POST (publish) for /v1/terms.
func (s *Server) handleTerms(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleTermsList(w, r)
	case http.MethodPost:
		s.handleTermsPublish(w, r)
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// handleUsers dispatches GET (admin list) and POST (register) for /v1/users.
func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleUserList(w, r)
	case http.MethodPost:
		s.handleUserRegister(w, r)
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// routeUsers dispatches GET/DELETE for /v1/users/{id}.
func (s *Server) routeUsers(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimPrefix(r.URL.Path, "/v1/users/")
	if username == "" {
		s.handleUsers(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.handleUserGet(w, r, username)
	case http.MethodDelete:
		s.handleUserDelete(w, r, username)
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodDelete)
	}
}

// --- System handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

// handleShutdown handles POST /shutdown (dev mode only).
func (s *Server) handleShutdown(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if s.app.Config.IsProduction() {
		WriteError(w, http.StatusForbidden, "Shutdown endpoint disabled in production")
		return
	}

	s.logger.Info().Msg("Shutdown requested via HTTP endpoint")

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Shutting down gracefully...\n"))

	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}

	if s.shutdownChan != nil {
		go func() {
			time.Sleep(100 * time.Millisecond)
			s.shutdownChan <- struct{}{}
		}()
	}
}

// --- Auth helpers shared by handlers ---

// requireUser returns the authenticated user context, or writes 401 and
// returns nil when the request carries no identity.
func (s *Server) requireUser(w http.ResponseWriter, r *http.Request) *common.UserContext {
	uc := common.UserContextFromContext(r.Context())
	if uc == nil || uc.UserID == "" {
		writeBearerChallenge(w, "authentication required")
		return nil
	}
	return uc
}

// requireAdmin returns the authenticated admin context, or writes
// 401/403 and returns nil.
func (s *Server) requireAdmin(w http.ResponseWriter, r *http.Request) *common.UserContext {
	uc := s.requireUser(w, r)
	if uc == nil {
		return nil
	}
	if uc.Role != "admin" {
		WriteError(w, http.StatusForbidden, "admin role required")
		return nil
	}
	return uc
}
