package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/mpopescu/atsmatch/internal/analysis"
	"github.com/mpopescu/atsmatch/internal/cv"
	"github.com/mpopescu/atsmatch/internal/ingestion"
	"github.com/mpopescu/atsmatch/internal/lang"
	"github.com/mpopescu/atsmatch/internal/profiles"
)

// SessionResponse is returned when a session is created.
type SessionResponse struct {
	SessionID string `json:"session_id"`
	CreatedAt string `json:"created_at"`
}

// AnalyzeRequest is the request body for analysis runs.
type AnalyzeRequest struct {
	JobText  string `json:"job_text,omitempty"`
	JobURL   string `json:"job_url,omitempty"`
	Language string `json:"language,omitempty"`
	Profile  string `json:"profile,omitempty"`
	RoleHint string `json:"role_hint,omitempty"`
}

// ApplyRequest is the request body for merging missing keywords.
type ApplyRequest struct {
	Limit int `json:"limit,omitempty"`
}

// ApplyResponse reports an apply run.
type ApplyResponse struct {
	Added    []string     `json:"added"`
	Total    int          `json:"total"`
	Snapshot *cv.Snapshot `json:"snapshot"`
}

// ResetRequest is the request body for cache resets.
type ResetRequest struct {
	KeepHistory bool `json:"keep_history,omitempty"`
}

// JobsResponse lists analyzed jobs in a session.
type JobsResponse struct {
	ActiveID string                       `json:"active_id,omitempty"`
	Jobs     map[string]analysis.Analysis `json:"jobs"`
}

// session resolves the {id} path value to a live session.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errResponse(w, &ErrValidation{Field: "id", Message: "must be a UUID"})
		return nil, false
	}
	sess, ok := s.sessions.Get(id)
	if !ok {
		s.errResponse(w, &ErrSessionNotFound{SessionID: id})
		return nil, false
	}
	return sess, true
}

// handleCreateSession registers a new anonymous session.
func (s *Server) handleCreateSession(w http.ResponseWriter, _ *http.Request) {
	sess := s.sessions.Create()
	s.jsonResponse(w, http.StatusCreated, SessionResponse{
		SessionID: sess.ID.String(),
		CreatedAt: sess.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	})
}

// handleDeleteSession drops a session and its cache.
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errResponse(w, &ErrValidation{Field: "id", Message: "must be a UUID"})
		return
	}
	if !s.sessions.Delete(id) {
		s.errResponse(w, &ErrSessionNotFound{SessionID: id})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSetCV stores the session's CV snapshot.
func (s *Server) handleSetCV(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	var snap cv.Snapshot
	if err := json.NewDecoder(r.Body).Decode(&snap); err != nil {
		s.errResponse(w, &ErrValidation{Field: "body", Message: "invalid CV snapshot JSON: " + err.Error()})
		return
	}
	sess.SetSnapshot(&snap)
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "stored"})
}

// handleGetCV returns the session's CV snapshot.
func (s *Server) handleGetCV(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	snap := sess.Snapshot()
	if snap == nil {
		s.errResponse(w, &ErrNoSnapshot{})
		return
	}
	s.jsonResponse(w, http.StatusOK, snap)
}

// handleAnalyze runs a job description through the matching pipeline.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		s.errResponse(w, &ErrValidation{Field: "body", Message: "invalid request body: " + err.Error()})
		return
	}
	if req.JobText == "" && req.JobURL == "" {
		s.errResponse(w, &ErrValidation{Field: "job_text", Message: "either job_text or job_url is required"})
		return
	}
	if req.JobText != "" && req.JobURL != "" {
		s.errResponse(w, &ErrValidation{Field: "job_text", Message: "job_text and job_url are mutually exclusive"})
		return
	}

	jobText := req.JobText
	if req.JobURL != "" {
		res, err := ingestion.FromURL(r.Context(), req.JobURL, nil)
		if err != nil {
			s.errorResponse(w, http.StatusBadGateway, err.Error())
			return
		}
		jobText = res.Text
	}

	opts := analysis.Options{RoleHint: req.RoleHint}
	if req.Language != "" {
		locale, err := parseLocale(req.Language)
		if err != nil {
			s.errResponse(w, &ErrValidation{Field: "language", Message: err.Error()})
			return
		}
		opts.LangHint = locale
	}
	if req.Profile != "" {
		profile, err := s.loader.Load(req.Profile, localeOrDetect(opts.LangHint, jobText))
		if err != nil {
			s.errResponse(w, &ErrValidation{Field: "profile", Message: err.Error()})
			return
		}
		opts.JobTitles = profile.JobTitles
	}

	result := s.analyzer.Analyze(sess.Cache(), sess.Snapshot(), jobText, opts)
	s.jsonResponse(w, http.StatusOK, result)
}

func localeOrDetect(hint lang.Locale, text string) lang.Locale {
	if hint != "" {
		return hint
	}
	return lang.Detect(text)
}

// parseLocale validates a client-supplied language code.
func parseLocale(code string) (lang.Locale, error) {
	switch strings.ToLower(strings.TrimSpace(code)) {
	case string(lang.EN):
		return lang.EN, nil
	case string(lang.RO):
		return lang.RO, nil
	default:
		return "", fmt.Errorf("unsupported language %q (expected %q or %q)", code, lang.EN, lang.RO)
	}
}

// handleGetAnalysis returns the active analysis.
func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	a, ok := sess.Cache().Active()
	if !ok {
		s.errResponse(w, &ErrNoAnalysis{})
		return
	}
	s.jsonResponse(w, http.StatusOK, a)
}

// handleListJobs returns every analyzed job in the session.
func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, JobsResponse{
		ActiveID: sess.Cache().ActiveID(),
		Jobs:     sess.Cache().Jobs(),
	})
}

// handleApply merges missing keywords from the active analysis into the
// session CV.
func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	snap := sess.Snapshot()
	if snap == nil {
		s.errResponse(w, &ErrNoSnapshot{})
		return
	}
	a, ok := sess.Cache().Active()
	if !ok {
		s.errResponse(w, &ErrNoAnalysis{})
		return
	}

	var req ApplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		s.errResponse(w, &ErrValidation{Field: "body", Message: "invalid request body: " + err.Error()})
		return
	}
	if req.Limit < 0 {
		s.errResponse(w, &ErrValidation{Field: "limit", Message: "must be non-negative"})
		return
	}
	limit := req.Limit
	if limit == 0 {
		limit = s.applyLimit
	}

	before := make(map[string]struct{})
	for _, k := range cv.SplitExtraKeywords(snap.ExtraKeywords) {
		before[strings.ToLower(k)] = struct{}{}
	}

	updated := analysis.ApplyMissing(snap, a, limit)
	after := cv.SplitExtraKeywords(updated.ExtraKeywords)
	added := make([]string, 0, len(after))
	for _, k := range after {
		if _, ok := before[strings.ToLower(k)]; !ok {
			added = append(added, k)
		}
	}
	sess.SetSnapshot(updated)

	s.jsonResponse(w, http.StatusOK, ApplyResponse{
		Added:    added,
		Total:    len(after),
		Snapshot: updated,
	})
}

// handleReset clears the session's analysis state.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	var req ResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		s.errResponse(w, &ErrValidation{Field: "body", Message: "invalid request body: " + err.Error()})
		return
	}

	sess.Cache().Reset(req.KeepHistory)
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "reset"})
}

// handleExportState serializes the session's analysis cache.
func (s *Server) handleExportState(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	data, err := analysis.ExportState(sess.Cache())
	if err != nil {
		s.errResponse(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// handleImportState restores a previously exported analysis cache.
func (s *Server) handleImportState(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, ingestion.MaxInputBytes))
	if err != nil {
		s.errResponse(w, &ErrValidation{Field: "body", Message: "failed to read body"})
		return
	}
	if err := analysis.ImportState(sess.Cache(), data); err != nil {
		s.errResponse(w, &ErrValidation{Field: "body", Message: err.Error()})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "imported"})
}

// handleListProfiles lists available ATS profiles.
func (s *Server) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	locale := lang.EN
	if code := r.URL.Query().Get("lang"); code != "" {
		parsed, err := parseLocale(code)
		if err != nil {
			s.errResponse(w, &ErrValidation{Field: "lang", Message: err.Error()})
			return
		}
		locale = parsed
	}

	summaries, err := s.loader.List(locale)
	if err != nil {
		s.errResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, summaries)
}

// handleGetProfile returns one merged profile.
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	locale := lang.EN
	if code := r.URL.Query().Get("lang"); code != "" {
		parsed, err := parseLocale(code)
		if err != nil {
			s.errResponse(w, &ErrValidation{Field: "lang", Message: err.Error()})
			return
		}
		locale = parsed
	}

	profile, err := s.loader.Load(r.PathValue("id"), locale)
	if err != nil {
		var nf *profiles.NotFoundError
		if errors.As(err, &nf) {
			s.errorResponse(w, http.StatusNotFound, err.Error())
			return
		}
		s.errResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, profile)
}
