package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpopescu/atsmatch/internal/analysis"
	"github.com/mpopescu/atsmatch/internal/config"
	"github.com/mpopescu/atsmatch/internal/cv"
)

const testProfileYAML = `id: soc_analyst
title: SOC Analyst
domain: soc_analyst
job_titles:
  - SOC Analyst
  - Security Analyst
keywords:
  core:
    - siem
    - incident response
bullet_templates:
  - "Investigated {n} alerts."
  - "Tuned {tool} rules."
section_priority:
  - summary
`

func newTestServer(t *testing.T) *Server {
	t.Helper()

	profilesDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(profilesDir, "profiles"), 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(profilesDir, "profiles", "soc_analyst.yaml"),
		[]byte(testProfileYAML), 0o644))

	cfg := config.DefaultConfig()
	cfg.ProfilesDir = profilesDir
	cfg.RequestsPerMinute = 0 // rate limiting covered by the ratelimit package tests

	s := New(cfg)
	t.Cleanup(func() {
		s.rateLimiter.Stop()
		s.sessions.Stop()
	})
	return s
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func createSession(t *testing.T, s *Server) string {
	t.Helper()

	rec := doJSON(t, s, http.MethodPost, "/sessions", nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	_, err := uuid.Parse(resp.SessionID)
	require.NoError(t, err)
	return resp.SessionID
}

func testSnapshot() cv.Snapshot {
	return cv.Snapshot{
		Summary: "SOC analyst with SIEM and Python experience.",
		Skills:  []string{"siem", "python"},
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
}

func TestCreateSession_ReturnsUUID(t *testing.T) {
	s := newTestServer(t)
	id := createSession(t, s)
	assert.NotEmpty(t, id)
	assert.Equal(t, 1, s.sessions.Len())
}

func TestSessionEndpoints_UnknownSessionReturns404(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/sessions/"+uuid.NewString()+"/analyze",
		AnalyzeRequest{JobText: "anything"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSessionEndpoints_MalformedIDReturns400(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/sessions/not-a-uuid/analysis", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyze_FullFlow(t *testing.T) {
	s := newTestServer(t)
	id := createSession(t, s)

	rec := doJSON(t, s, http.MethodPut, "/sessions/"+id+"/cv", testSnapshot())
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, s, http.MethodPost, "/sessions/"+id+"/analyze", AnalyzeRequest{
		JobText: "Looking for a SOC analyst with SIEM, EDR and incident response experience.",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var a analysis.Analysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &a))
	assert.Len(t, a.Hash, 16)
	assert.Contains(t, a.Present, "siem")
	assert.Contains(t, a.Missing, "edr")
	assert.Greater(t, a.Coverage, 0.0)

	// Active analysis is retrievable.
	rec = doJSON(t, s, http.MethodGet, "/sessions/"+id+"/analysis", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var active analysis.Analysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &active))
	assert.Equal(t, a.Hash, active.Hash)

	// Jobs listing includes the analyzed posting.
	rec = doJSON(t, s, http.MethodGet, "/sessions/"+id+"/jobs", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var jobs JobsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &jobs))
	assert.Equal(t, a.Hash, jobs.ActiveID)
	assert.Contains(t, jobs.Jobs, a.Hash)
}

func TestAnalyze_RequiresJobTextOrURL(t *testing.T) {
	s := newTestServer(t)
	id := createSession(t, s)

	rec := doJSON(t, s, http.MethodPost, "/sessions/"+id+"/analyze", AnalyzeRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, s, http.MethodPost, "/sessions/"+id+"/analyze", AnalyzeRequest{
		JobText: "text",
		JobURL:  "https://example.com/jd",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "mutually exclusive")
}

func TestAnalyze_RejectsUnknownLanguage(t *testing.T) {
	s := newTestServer(t)
	id := createSession(t, s)

	rec := doJSON(t, s, http.MethodPost, "/sessions/"+id+"/analyze", AnalyzeRequest{
		JobText:  "some job",
		Language: "fr",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyze_ProfileSuppliesRoleHints(t *testing.T) {
	s := newTestServer(t)
	id := createSession(t, s)

	rec := doJSON(t, s, http.MethodPost, "/sessions/"+id+"/analyze", AnalyzeRequest{
		JobText: "General posting with no security markers at all.",
		Profile: "soc_analyst",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var a analysis.Analysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &a))
	assert.Equal(t, "SOC Analyst", a.RoleHint)
}

func TestAnalyze_UnknownProfileRejected(t *testing.T) {
	s := newTestServer(t)
	id := createSession(t, s)

	rec := doJSON(t, s, http.MethodPost, "/sessions/"+id+"/analyze", AnalyzeRequest{
		JobText: "some job",
		Profile: "nope",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestApply_MergesMissingKeywords(t *testing.T) {
	s := newTestServer(t)
	id := createSession(t, s)

	doJSON(t, s, http.MethodPut, "/sessions/"+id+"/cv", testSnapshot())
	doJSON(t, s, http.MethodPost, "/sessions/"+id+"/analyze", AnalyzeRequest{
		JobText: "Looking for a SOC analyst with SIEM, EDR and incident response experience.",
	})

	rec := doJSON(t, s, http.MethodPost, "/sessions/"+id+"/apply", ApplyRequest{})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ApplyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Added)
	assert.Contains(t, resp.Added, "edr")
	assert.Equal(t, len(resp.Added), resp.Total)
	assert.Contains(t, resp.Snapshot.ExtraKeywords, "edr")

	// The session CV reflects the merge.
	rec = doJSON(t, s, http.MethodGet, "/sessions/"+id+"/cv", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "edr")
}

func TestApply_WithoutCVReturnsConflict(t *testing.T) {
	s := newTestServer(t)
	id := createSession(t, s)

	rec := doJSON(t, s, http.MethodPost, "/sessions/"+id+"/apply", ApplyRequest{})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestApply_WithoutAnalysisReturnsConflict(t *testing.T) {
	s := newTestServer(t)
	id := createSession(t, s)

	doJSON(t, s, http.MethodPut, "/sessions/"+id+"/cv", testSnapshot())

	rec := doJSON(t, s, http.MethodPost, "/sessions/"+id+"/apply", ApplyRequest{})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestReset_ClearsActiveAnalysis(t *testing.T) {
	s := newTestServer(t)
	id := createSession(t, s)

	doJSON(t, s, http.MethodPut, "/sessions/"+id+"/cv", testSnapshot())
	doJSON(t, s, http.MethodPost, "/sessions/"+id+"/analyze", AnalyzeRequest{JobText: "SIEM analyst wanted"})

	rec := doJSON(t, s, http.MethodPost, "/sessions/"+id+"/reset", ResetRequest{})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/sessions/"+id+"/analysis", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestState_ExportImportRoundTrip(t *testing.T) {
	s := newTestServer(t)
	id := createSession(t, s)

	doJSON(t, s, http.MethodPut, "/sessions/"+id+"/cv", testSnapshot())
	doJSON(t, s, http.MethodPost, "/sessions/"+id+"/analyze", AnalyzeRequest{
		JobText: "Looking for a SOC analyst with SIEM experience.",
	})

	rec := doJSON(t, s, http.MethodGet, "/sessions/"+id+"/state", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	exported := rec.Body.Bytes()

	// Import into a fresh session.
	other := createSession(t, s)
	req := httptest.NewRequest(http.MethodPut, "/sessions/"+other+"/state", bytes.NewReader(exported))
	imp := httptest.NewRecorder()
	s.Handler().ServeHTTP(imp, req)
	require.Equal(t, http.StatusOK, imp.Code)

	rec = doJSON(t, s, http.MethodGet, "/sessions/"+other+"/analysis", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestState_ImportRejectsGarbage(t *testing.T) {
	s := newTestServer(t)
	id := createSession(t, s)

	req := httptest.NewRequest(http.MethodPut, "/sessions/"+id+"/state", bytes.NewReader([]byte("{]")))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteSession(t *testing.T) {
	s := newTestServer(t)
	id := createSession(t, s)

	rec := doJSON(t, s, http.MethodDelete, "/sessions/"+id, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/sessions/"+id+"/analysis", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSessionIsolation(t *testing.T) {
	s := newTestServer(t)
	first := createSession(t, s)
	second := createSession(t, s)

	doJSON(t, s, http.MethodPut, "/sessions/"+first+"/cv", testSnapshot())
	doJSON(t, s, http.MethodPost, "/sessions/"+first+"/analyze", AnalyzeRequest{JobText: "SIEM analyst wanted"})

	// The second session sees none of it.
	rec := doJSON(t, s, http.MethodGet, "/sessions/"+second+"/analysis", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/sessions/"+second+"/cv", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestProfiles_ListAndGet(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, http.MethodGet, "/profiles", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "soc_analyst")

	rec = doJSON(t, s, http.MethodGet, "/profiles/soc_analyst", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "SOC Analyst")

	rec = doJSON(t, s, http.MethodGet, "/profiles/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
