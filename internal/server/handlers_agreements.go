package server

import (
	"errors"
	"net/http"

	"github.com/bobmcallan/terms/internal/services/agreement"
)

// --- Agreement handlers ---

// handleAgreementsList handles GET /v1/agreements - all agreements
// recorded for the authenticated user.
func (s *Server) handleAgreementsList(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	uc := s.requireUser(w, r)
	if uc == nil {
		return
	}

	agreements, err := s.app.AgreementService.List(r.Context(), uc.UserID)
	if err != nil {
		s.logger.Error().Err(err).Str("user", uc.UserID).Msg("Agreement list failed")
		WriteError(w, http.StatusInternalServerError, "failed to list agreements")
		return
	}
	WriteJSON(w, http.StatusOK, toWireAgreements(agreements))
}

// handleAgreement dispatches GET (filter by Terms query) and POST
// (record) for /v1/agreement.
func (s *Server) handleAgreement(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleAgreementsByTerms(w, r)
	case http.MethodPost:
		s.handleAgreementSave(w, r)
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// handleAgreementsByTerms handles GET /v1/agreement?Terms=a&Terms=b -
// the caller's agreements filtered to the named documents.
func (s *Server) handleAgreementsByTerms(w http.ResponseWriter, r *http.Request) {
	uc := s.requireUser(w, r)
	if uc == nil {
		return
	}

	names := r.URL.Query()["Terms"]
	agreements, err := s.app.AgreementService.ListByTerms(r.Context(), uc.UserID, names)
	if err != nil {
		s.logger.Error().Err(err).Str("user", uc.UserID).Msg("Agreement filter failed")
		WriteError(w, http.StatusInternalServerError, "failed to list agreements")
		return
	}
	WriteJSON(w, http.StatusOK, toWireAgreements(agreements))
}

// handleAgreementSave handles POST /v1/agreement {termname, revision}.
// The named revision must exist; re-agreement returns the existing record.
func (s *Server) handleAgreementSave(w http.ResponseWriter, r *http.Request) {
	uc := s.requireUser(w, r)
	if uc == nil {
		return
	}

	var req struct {
		TermName string `json:"termname"`
		Revision int    `json:"revision"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	if req.TermName == "" {
		WriteError(w, http.StatusBadRequest, "termname is required")
		return
	}

	record, err := s.app.AgreementService.Record(r.Context(), uc.UserID, req.TermName, req.Revision)
	if err != nil {
		if errors.Is(err, agreement.ErrTermNotFound) {
			WriteError(w, http.StatusNotFound, err.Error())
			return
		}
		s.logger.Error().Err(err).Str("user", uc.UserID).Str("term", req.TermName).Msg("Agreement save failed")
		WriteError(w, http.StatusInternalServerError, "failed to save agreement")
		return
	}

	s.metrics.AgreementsRecordedTotal.Inc()
	WriteJSON(w, http.StatusCreated, toWireAgreement(record))
}
