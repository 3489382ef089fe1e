//go:build !integration

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/company-search/internal/model"
	"github.com/sells-group/company-search/internal/pipeline"
)

type mockSearcher struct {
	mock.Mock
}

func (m *mockSearcher) Run(ctx context.Context, query model.JobQuery) *pipeline.Result {
	args := m.Called(ctx, query)
	return args.Get(0).(*pipeline.Result)
}

func postSearch(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/job_search", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

func TestRouter_Root(t *testing.T) {
	h := buildRouter(nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "application/json")
	assert.Equal(t, "Company Search ", decodeBody(t, rr)["message"])
}

func TestRouter_JobSearch_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{
			name:    "missing_title",
			body:    `{"location":"Remote","experience":"3","geminiKey":"k"}`,
			wantMsg: "Job Title is required",
		},
		{
			name:    "missing_location",
			body:    `{"jobTitle":"Go Developer","experience":"3","geminiKey":"k"}`,
			wantMsg: "Location is required",
		},
		{
			name:    "missing_experience",
			body:    `{"jobTitle":"Go Developer","location":"Remote","geminiKey":"k"}`,
			wantMsg: "Experience is required",
		},
		{
			name:    "zero_experience",
			body:    `{"jobTitle":"Go Developer","location":"Remote","experience":0,"geminiKey":"k"}`,
			wantMsg: "Experience is required",
		},
		{
			name:    "missing_key",
			body:    `{"jobTitle":"Go Developer","location":"Remote","experience":"3"}`,
			wantMsg: "Gemini key not found",
		},
		{
			name:    "empty_object",
			body:    `{}`,
			wantMsg: "Job Title is required",
		},
		{
			name:    "malformed",
			body:    `{"jobTitle":`,
			wantMsg: "invalid request body",
		},
		{
			name:    "experience_object",
			body:    `{"jobTitle":"Go","location":"Remote","experience":{"years":3},"geminiKey":"k"}`,
			wantMsg: "invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &mockSearcher{}
			rr := postSearch(t, buildRouter(s), tt.body)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, tt.wantMsg, decodeBody(t, rr)["message"])
			s.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
		})
	}
}

func TestRouter_JobSearch_Success(t *testing.T) {
	s := &mockSearcher{}
	s.On("Run", mock.Anything, model.JobQuery{
		JobTitle:   "Go Developer",
		Location:   "Remote",
		Experience: "3",
		GeminiKey:  "caller-key",
	}).Return(&pipeline.Result{
		RunID:  "run-1",
		Source: model.ListingSourceNormalizer,
		Listings: []model.JobListing{
			{CompanyName: "Acme", RecruiterEmail: "hr@acme.com"},
		},
	})

	rr := postSearch(t, buildRouter(s), `{"jobTitle":"Go Developer","location":"Remote","experience":3,"geminiKey":"caller-key"}`)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"messgae":"OK","data":[{"company_name":"Acme","recruiter_email":"hr@acme.com"}]}`, rr.Body.String())
	s.AssertExpectations(t)
}

func TestRouter_JobSearch_EmptyResultIs200(t *testing.T) {
	s := &mockSearcher{}
	s.On("Run", mock.Anything, mock.Anything).Return(&pipeline.Result{
		RunID:  "run-2",
		Source: model.ListingSourceNone,
	})

	rr := postSearch(t, buildRouter(s), `{"jobTitle":"Go","location":"Remote","experience":"2-5","geminiKey":"k"}`)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"messgae":"OK","data":[]}`, rr.Body.String())
}

func TestRouter_JobSearch_NilSearcher(t *testing.T) {
	rr := postSearch(t, buildRouter(nil), `{"jobTitle":"Go","location":"Remote","experience":"1","geminiKey":"k"}`)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"messgae":"OK","data":[]}`, rr.Body.String())
}

func TestRouter_CORS(t *testing.T) {
	h := buildRouter(nil)

	req := httptest.NewRequest(http.MethodOptions, "/job_search", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_UnknownRoute(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rr := httptest.NewRecorder()
	buildRouter(nil).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestFlexibleString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`"5"`, "5"},
		{`5`, "5"},
		{`2.5`, "2.5"},
		{`0`, ""},
		{`null`, ""},
		{`false`, ""},
	}
	for _, tt := range tests {
		var f flexibleString
		require.NoError(t, json.Unmarshal([]byte(tt.in), &f), tt.in)
		assert.Equal(t, tt.want, string(f), tt.in)
	}

	var f flexibleString
	assert.Error(t, json.Unmarshal([]byte(`[1]`), &f))
}

func TestResolvePort(t *testing.T) {
	assert.Equal(t, 9090, resolvePort(9090, 3002))
	assert.Equal(t, 3002, resolvePort(0, 3002))
	assert.Equal(t, 0, resolvePort(0, 0))
}

func TestStartServer_GracefulShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	// Find a free port.
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	l.Close()

	errCh := make(chan error, 1)
	go func() {
		errCh <- startServer(ctx, buildRouter(nil), port)
	}()

	var resp *http.Response
	for i := 0; i < 50; i++ {
		resp, err = http.Get(fmt.Sprintf("http://127.0.0.1:%d/", port))
		if err == nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	require.NoError(t, err, "server did not become ready in time")
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down in time")
	}
}

func TestStartServer_PortInUse(t *testing.T) {
	l, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer l.Close()
	port := l.Addr().(*net.TCPAddr).Port

	err = startServer(context.Background(), buildRouter(nil), port)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server listen")
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printJSON(&buf, []model.JobListing{{CompanyName: "Acme", RecruiterEmail: "hr@acme.com"}}))
	assert.JSONEq(t, `[{"company_name":"Acme","recruiter_email":"hr@acme.com"}]`, buf.String())
	assert.Contains(t, buf.String(), "\n  ")
}
