package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/propdesk/leadbook/internal/lead"
	"github.com/propdesk/leadbook/internal/logging"
	"github.com/propdesk/leadbook/internal/web/middleware"
)

// handleLogin issues the demo session cookie. There is no credential
// check; every login becomes the configured demo user.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.Session.CookieName,
		Value:    s.cfg.Session.DemoUserID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"user": map[string]string{"id": s.cfg.Session.DemoUserID},
	})
}

// handleListLeads returns one page of leads matching the query filters.
func (s *Server) handleListLeads(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page := 1
	if p, err := strconv.Atoi(q.Get("page")); err == nil {
		page = p
	}

	result, err := s.service.List(r.Context(), filterFromQuery(r), page)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleCreateLead validates a full payload and persists a new lead
// owned by the session user.
func (s *Server) handleCreateLead(w http.ResponseWriter, r *http.Request) {
	var in lead.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	created, err := s.service.Create(r.Context(), in, middleware.UserFromContext(r.Context()))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// handleGetLead fetches one lead by id.
func (s *Server) handleGetLead(w http.ResponseWriter, r *http.Request) {
	id, ok := leadID(w, r)
	if !ok {
		return
	}

	l, err := s.service.Get(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

// handleUpdateLead applies a partial update on behalf of the session
// user and returns the updated lead.
func (s *Server) handleUpdateLead(w http.ResponseWriter, r *http.Request) {
	id, ok := leadID(w, r)
	if !ok {
		return
	}

	var u lead.Update
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	updated, err := s.service.Update(r.Context(), id, u, middleware.UserFromContext(r.Context()))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// handleLeadHistory returns the most recent change entries for a lead,
// newest first.
func (s *Server) handleLeadHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := leadID(w, r)
	if !ok {
		return
	}

	// The lead must exist even if it has no history yet.
	if _, err := s.service.Get(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}

	entries, err := s.service.History(r.Context(), id, lead.DefaultHistoryLimit)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"history": entries})
}

// handleImportLeads accepts a multipart CSV upload and inserts the valid
// rows, reporting per-row failures.
func (s *Server) handleImportLeads(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(s.cfg.Import.MaxFileSize); err != nil {
		writeError(w, http.StatusBadRequest, "could not parse multipart form")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	result, err := s.service.ImportCSV(r.Context(), file, middleware.UserFromContext(r.Context()))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleExportLeads streams all leads matching the filters as a CSV
// attachment. No matches means an empty body, not an empty table.
func (s *Server) handleExportLeads(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename=leads_export.csv`)

	if err := s.service.ExportCSV(r.Context(), filterFromQuery(r), w); err != nil {
		// Headers may already be out; log and stop the stream.
		logging.FromContext(r.Context()).Error("export failed", "error", err)
	}
}

// filterFromQuery maps the shared list/export query params to a Filter.
func filterFromQuery(r *http.Request) lead.Filter {
	q := r.URL.Query()
	return lead.Filter{
		City:         q.Get("city"),
		PropertyType: q.Get("propertyType"),
		Status:       q.Get("status"),
		Timeline:     q.Get("timeline"),
		Search:       q.Get("search"),
	}
}

// leadID parses the {id} route parameter, writing a 400 response when it
// is not a UUID.
func leadID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid lead id")
		return uuid.UUID{}, false
	}
	return id, true
}

// validationResponse is the JSON shape for rejected payloads: every
// violated rule, field by field.
type validationResponse struct {
	Error  string                 `json:"error"`
	Fields []lead.ValidationError `json:"fields"`
}

// respondError maps service errors to HTTP responses. The technical
// error is logged with the request id; clients get a stable message.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verrs     lead.ValidationErrors
		malformed *lead.MalformedInputError
	)

	switch {
	case errors.As(err, &verrs):
		writeJSON(w, http.StatusBadRequest, validationResponse{
			Error:  "validation failed",
			Fields: verrs,
		})
		return
	case errors.As(err, &malformed):
		writeError(w, http.StatusBadRequest, malformed.Reason)
		return
	case errors.Is(err, lead.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	case errors.Is(err, lead.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
		return
	case errors.Is(err, lead.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	logging.FromContext(r.Context()).Error("request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"error", err,
	)
	writeError(w, http.StatusInternalServerError, "internal server error")
}
