package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/bobmcallan/terms/internal/models"
)

// ErrorResponse is the wire format for REST API errors. Message carries
// the human-readable text; clients surface it verbatim.
type ErrorResponse struct {
	Message string `json:"Message"`
	Code    string `json:"Code,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// WriteError writes a JSON error response.
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, ErrorResponse{Message: message})
}

// WriteErrorWithCode writes a JSON error response with an error code.
func WriteErrorWithCode(w http.ResponseWriter, statusCode int, message, code string) {
	WriteJSON(w, statusCode, ErrorResponse{Message: message, Code: code})
}

// RequireMethod validates the HTTP method and returns true if it matches.
// If it doesn't match, it writes a 405 response and returns false.
func RequireMethod(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m {
			return true
		}
	}
	w.Header().Set("Allow", strings.Join(methods, ", "))
	WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	return false
}

// DecodeJSON reads and decodes JSON from the request body into v.
// Returns false and writes a 400 error if decoding fails.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if r.Body == nil {
		WriteError(w, http.StatusBadRequest, "Request body is required")
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return false
	}
	return true
}

// PathParam extracts a path parameter from the URL path.
// For a pattern like /v1/terms/{name}, calling PathParam(r, "/v1/terms/", "")
// extracts the {name} part.
func PathParam(r *http.Request, prefix, suffix string) string {
	path := r.URL.Path
	if !strings.HasPrefix(path, prefix) {
		return ""
	}
	rest := path[len(prefix):]
	if suffix != "" {
		idx := strings.Index(rest, suffix)
		if idx < 0 {
			return rest
		}
		return rest[:idx]
	}
	// No suffix - return up to the next /
	if idx := strings.Index(rest, "/"); idx >= 0 {
		return rest[:idx]
	}
	return rest
}

// wireTerm is the response shape for a terms document. Timestamps go out
// as RFC3339 strings under created-on.
type wireTerm struct {
	Name      string `json:"name"`
	Owner     string `json:"owner,omitempty"`
	Title     string `json:"title"`
	Revision  int    `json:"revision"`
	Content   string `json:"content"`
	CreatedOn string `json:"created-on"`
}

func toWireTerm(t *models.Term) wireTerm {
	createdOn := ""
	if !t.CreatedAt.IsZero() {
		createdOn = t.CreatedAt.UTC().Format(time.RFC3339)
	}
	return wireTerm{
		Name:      t.Name,
		Owner:     t.Owner,
		Title:     t.Title,
		Revision:  t.Revision,
		Content:   t.Content,
		CreatedOn: createdOn,
	}
}

// toWireTerms maps a slice of terms to wire records. A nil or empty
// slice maps to an empty array so absent documents serialize as [].
func toWireTerms(terms []*models.Term) []wireTerm {
	out := make([]wireTerm, 0, len(terms))
	for _, t := range terms {
		out = append(out, toWireTerm(t))
	}
	return out
}

// wireAgreement is the response shape for a recorded agreement.
type wireAgreement struct {
	ID        string `json:"id"`
	User      string `json:"user"`
	Term      string `json:"term"`
	Revision  int    `json:"revision"`
	CreatedOn string `json:"created-on"`
}

func toWireAgreement(a *models.Agreement) wireAgreement {
	createdOn := ""
	if !a.CreatedAt.IsZero() {
		createdOn = a.CreatedAt.UTC().Format(time.RFC3339)
	}
	return wireAgreement{
		ID:        a.ID,
		User:      a.User,
		Term:      a.Term,
		Revision:  a.Revision,
		CreatedOn: createdOn,
	}
}

func toWireAgreements(agreements []*models.Agreement) []wireAgreement {
	out := make([]wireAgreement, 0, len(agreements))
	for _, a := range agreements {
		out = append(out, toWireAgreement(a))
	}
	return out
}
