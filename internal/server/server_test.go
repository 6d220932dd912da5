package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civitaslabs/planqd/internal/authz"
	"github.com/civitaslabs/planqd/internal/config"
	"github.com/civitaslabs/planqd/internal/logging"
	"github.com/civitaslabs/planqd/internal/pipeline"
)

type fakeRunner struct {
	answer pipeline.Answer
	err    error

	gotUserID    string
	gotSessionID string
	gotQuery     string
}

func (f *fakeRunner) Query(_ context.Context, userID, sessionID, query string) (pipeline.Answer, error) {
	f.gotUserID = userID
	f.gotSessionID = sessionID
	f.gotQuery = query
	return f.answer, f.err
}

func newTestServer(t *testing.T, runner QueryRunner) *Server {
	t.Helper()
	policy := authz.NewPolicy(authz.NewDefaultRegistry())
	srv, err := NewServer(runner, policy, config.ServerConfig{Host: "localhost", Port: 0}, logging.NewNop())
	require.NoError(t, err)
	return srv
}

func doJSON(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, &fakeRunner{})

	rec := doJSON(t, srv, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, &fakeRunner{})

	rec := doJSON(t, srv, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestQuery(t *testing.T) {
	runner := &fakeRunner{answer: pipeline.Answer{
		Response:  "zoning separates land uses",
		SessionID: "sess-42",
	}}
	srv := newTestServer(t, runner)

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/query",
		`{"user_id":"planner1","session_id":"sess-42","query":"what is zoning"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp QueryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "zoning separates land uses", resp.Response)
	assert.Equal(t, "planner1", resp.UserID)
	assert.Equal(t, "sess-42", resp.SessionID)
	assert.Equal(t, "sess-42", runner.gotSessionID)
	assert.Equal(t, "what is zoning", runner.gotQuery)
}

func TestQueryDeniedSurfaced(t *testing.T) {
	runner := &fakeRunner{answer: pipeline.Answer{
		Response:  "[DENIED] ACCESS RESTRICTED",
		SessionID: "s",
		Denied:    true,
	}}
	srv := newTestServer(t, runner)

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/query",
		`{"user_id":"citizen1","query":"budget forecast"}`)
	require.Equal(t, http.StatusOK, rec.Code, "denials are valid responses, not errors")

	var resp QueryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Denied)
}

func TestQueryValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing user_id", `{"query":"what is zoning"}`},
		{"missing query", `{"user_id":"planner1"}`},
		{"malformed json", `{"user_id":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, &fakeRunner{})
			rec := doJSON(t, srv, http.MethodPost, "/api/v1/query", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestQueryUnknownUser(t *testing.T) {
	runner := &fakeRunner{err: fmt.Errorf("wrapped: %w", pipeline.ErrUnknownUser)}
	srv := newTestServer(t, runner)

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/query",
		`{"user_id":"ghost","query":"what is zoning"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestQueryInternalError(t *testing.T) {
	runner := &fakeRunner{err: errors.New("backend down")}
	srv := newTestServer(t, runner)

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/query",
		`{"user_id":"planner1","query":"what is zoning"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "backend down", "internal details stay out of responses")
}

func TestUserInfo(t *testing.T) {
	srv := newTestServer(t, &fakeRunner{})

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/users/planner1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Alice", resp.Name)
	assert.Equal(t, []authz.Role{authz.RolePlanner}, resp.Roles)

	rec = doJSON(t, srv, http.MethodGet, "/api/v1/users/ghost", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
