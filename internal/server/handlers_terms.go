package server

import (
	"net/http"
	"strconv"

	"github.com/bobmcallan/terms/internal/interfaces"
)

// --- Terms handlers ---

// handleTermsShow handles GET /v1/terms/{name} with an optional
// ?revision={n} query. The response is always a JSON array: one element
// when the document exists, empty when the name or revision is unknown.
// Revision zero is a valid explicit revision, distinct from absent.
func (s *Server) handleTermsShow(w http.ResponseWriter, r *http.Request, name string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	var opts []interfaces.TermsOption
	if revParam := r.URL.Query().Get("revision"); revParam != "" {
		revision, err := strconv.Atoi(revParam)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "revision must be an integer")
			return
		}
		opts = append(opts, interfaces.WithRevision(revision))
	}

	term, err := s.app.TermsService.Lookup(r.Context(), name, opts...)
	if err != nil {
		s.logger.Error().Err(err).Str("name", name).Msg("Terms lookup failed")
		WriteError(w, http.StatusInternalServerError, "failed to look up terms")
		return
	}

	s.metrics.TermsLookupsTotal.Inc()

	if term == nil {
		WriteJSON(w, http.StatusOK, []wireTerm{})
		return
	}
	WriteJSON(w, http.StatusOK, []wireTerm{toWireTerm(term)})
}

// handleTermsList handles GET /v1/terms - latest revision of every document.
func (s *Server) handleTermsList(w http.ResponseWriter, r *http.Request) {
	terms, err := s.app.TermsService.List(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("Terms list failed")
		WriteError(w, http.StatusInternalServerError, "failed to list terms")
		return
	}
	WriteJSON(w, http.StatusOK, toWireTerms(terms))
}

// handleTermsRevisions handles GET /v1/terms/{name}/revisions - every
// revision of a document, oldest first. Unknown names yield [].
func (s *Server) handleTermsRevisions(w http.ResponseWriter, r *http.Request, name string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	revisions, err := s.app.TermsService.Revisions(r.Context(), name)
	if err != nil {
		s.logger.Error().Err(err).Str("name", name).Msg("Terms revisions failed")
		WriteError(w, http.StatusInternalServerError, "failed to list revisions")
		return
	}
	WriteJSON(w, http.StatusOK, toWireTerms(revisions))
}

// handleTermsPublish handles POST /v1/terms - publish the next revision.
func (s *Server) handleTermsPublish(w http.ResponseWriter, r *http.Request) {
	uc := s.requireUser(w, r)
	if uc == nil {
		return
	}

	var req struct {
		Name    string `json:"name"`
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	term, err := s.app.TermsService.Publish(r.Context(), uc.UserID, req.Name, req.Title, req.Content)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.metrics.TermsPublishedTotal.Inc()
	WriteJSON(w, http.StatusCreated, toWireTerm(term))
}
