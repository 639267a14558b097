package webapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/houghtp/terra-automation-platform-sub005/internal/automation"
	"github.com/houghtp/terra-automation-platform-sub005/internal/content"
	"github.com/houghtp/terra-automation-platform-sub005/internal/llm"
	"github.com/houghtp/terra-automation-platform-sub005/internal/pipeline"
	"github.com/houghtp/terra-automation-platform-sub005/internal/prompt"
	"github.com/houghtp/terra-automation-platform-sub005/internal/store"
)

type scriptedProvider struct {
	script []string
	errs   []error
	calls  int
}

func (p *scriptedProvider) Name() string { return "scripted" }

func (p *scriptedProvider) Generate(ctx context.Context, req llm.GenerateRequest) (llm.GenerateResponse, error) {
	if p.calls >= len(p.script) {
		return llm.GenerateResponse{}, errors.New("script exhausted")
	}
	i := p.calls
	p.calls++
	if i < len(p.errs) && p.errs[i] != nil {
		return llm.GenerateResponse{}, p.errs[i]
	}
	return llm.GenerateResponse{Text: p.script[i], Model: "scripted"}, nil
}

func newTestServer(t *testing.T, script ...string) (*Server, *store.Store) {
	t.Helper()
	st, err := store.NewStore(filepath.Join(t.TempDir(), "terra.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	engine := pipeline.NewEngine(pipeline.Options{
		Store:   st,
		Prompts: prompt.NewStore(),
		AI:      llm.NewManager(&scriptedProvider{script: script}, nil),
	})
	srv := NewServer(Options{
		Engine:   engine,
		Store:    st,
		Registry: automation.NewRegistry(),
	})
	return srv, st
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func goodDoc(score int) string {
	return fmt.Sprintf(`{"score": %d, "sub_scores": {"keyword_coverage": 80, "structure": 80, "readability": 80, "engagement": 80, "technical": 80}, "issues": [], "recommendations": []}`, score)
}

func TestSubmitPlanEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/plans", content.PlanSubmission{
		Title:         "New article",
		MinSEOScore:   75,
		MaxIterations: 3,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var plan content.ContentPlan
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plan))
	assert.NotEmpty(t, plan.ID)
	assert.Equal(t, content.PlanStatusCreated, plan.Status)
}

func TestSubmitPlanEndpointRejectsInvalid(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doJSON(t, srv, http.MethodPost, "/api/plans", content.PlanSubmission{
		Title:         "",
		MinSEOScore:   75,
		MaxIterations: 3,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetPlanNotFound(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doJSON(t, srv, http.MethodGet, "/api/plans/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProcessPlanEndpoint(t *testing.T) {
	srv, st := newTestServer(t, "a generated draft", goodDoc(90))

	plan, err := content.NewPlan(content.PlanSubmission{Title: "x", MinSEOScore: 75, MaxIterations: 2})
	require.NoError(t, err)
	require.NoError(t, st.SavePlan(plan))

	rec := doJSON(t, srv, http.MethodPost, "/api/plans/"+plan.ID+"/process", map[string]any{})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result pipeline.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, plan.ID, result.PlanID)
	assert.Equal(t, "ready", result.Status)
	assert.NotEmpty(t, result.ContentItemID)
	assert.Equal(t, len("a generated draft"), result.ContentLength)

	// Processing a ready plan without reopening conflicts.
	rec = doJSON(t, srv, http.MethodPost, "/api/plans/"+plan.ID+"/process", map[string]any{})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Reopen clears the conflict.
	rec = doJSON(t, srv, http.MethodPost, "/api/plans/"+plan.ID+"/reopen", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var reopened content.ContentPlan
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reopened))
	assert.Equal(t, content.PlanStatusCreated, reopened.Status)
}

func TestContentEndpoints(t *testing.T) {
	srv, st := newTestServer(t)

	plan, err := content.NewPlan(content.PlanSubmission{Title: "x", MinSEOScore: 75, MaxIterations: 1})
	require.NoError(t, err)
	require.NoError(t, st.SavePlan(plan))
	item := content.NewItem(plan.ID, plan.Title, "body", nil)
	require.NoError(t, st.SaveItem(item))

	rec := doJSON(t, srv, http.MethodGet, "/api/content/"+item.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodPost, "/api/content/"+item.ID+"/state", map[string]string{"state": "approved"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var got content.ContentItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, content.ItemStateApproved, got.State)

	rec = doJSON(t, srv, http.MethodPost, "/api/content/"+item.ID+"/state", map[string]string{"state": "archived"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTemplateEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/automation/templates", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var templates []automation.AutomationTemplate
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &templates))
	assert.NotEmpty(t, templates)

	rec = doJSON(t, srv, http.MethodGet, "/api/automation/templates/content-pipeline", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/api/automation/templates/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/api/automation/templates?category=research", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &templates))
	for _, tmpl := range templates {
		assert.Equal(t, "research", tmpl.Category)
	}
}

func TestInstanceEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/automation/instances", map[string]any{
		"template_id": "content-pipeline",
		"providers":   map[string]string{"ai": "anthropic"},
		"configuration": map[string]any{
			"min_seo_score": 80,
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var inst automation.AutomationInstance
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &inst))
	assert.NotEmpty(t, inst.ID)

	rec = doJSON(t, srv, http.MethodGet, "/api/automation/instances/"+inst.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Disallowed provider choice is rejected up front.
	rec = doJSON(t, srv, http.MethodPost, "/api/automation/instances", map[string]any{
		"template_id": "content-pipeline",
		"providers":   map[string]string{"ai": "slack"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "not allowed"))
}

func TestStatusEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doJSON(t, srv, http.MethodGet, "/api/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var status map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "ok", status["status"])
}
