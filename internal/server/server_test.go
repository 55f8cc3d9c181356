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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/candidate-matcher/internal/briefing"
	"github.com/spigell/candidate-matcher/internal/candidates"
	"github.com/spigell/candidate-matcher/internal/chat"
	"github.com/spigell/candidate-matcher/internal/conversation"
)

type stubResponder struct {
	resp  *chat.Response
	err   error
	panic bool
	got   *chat.Request
}

func (s *stubResponder) Respond(_ context.Context, req *chat.Request) (*chat.Response, error) {
	if s.panic {
		panic("boom")
	}
	s.got = req
	return s.resp, s.err
}

type stubDatasets struct {
	profiles     []candidates.Profile
	availability []candidates.Availability
	err          error
}

func (s *stubDatasets) LoadProfiles(context.Context) ([]candidates.Profile, error) {
	return s.profiles, s.err
}

func (s *stubDatasets) LoadAvailability(context.Context) ([]candidates.Availability, error) {
	return s.availability, s.err
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body messageBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Message
}

func TestChatOK(t *testing.T) {
	responder := &stubResponder{resp: &chat.Response{
		AssistantMessage: chat.Message{Role: conversation.RoleAssistant, Content: "hi there"},
		State:            conversation.State{LastCandidate: "Ada Lovelace"},
	}}
	h := New(responder, &stubDatasets{}, Config{}, zap.NewNop()).Router()

	rec := do(t, h, http.MethodPost, "/api/chat", `{"messages":[{"role":"user","content":"find go devs"}],"state":{"offset":10}}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))

	var resp chat.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "hi there", resp.AssistantMessage.Content)
	assert.Equal(t, conversation.RoleAssistant, resp.AssistantMessage.Role)
	assert.Equal(t, "Ada Lovelace", resp.State.LastCandidate)

	require.NotNil(t, responder.got)
	assert.Equal(t, 10, responder.got.State.Offset)
	assert.Equal(t, "find go devs", responder.got.Messages[0].Content)
}

func TestChatErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		err     error
		status  int
		message string
	}{
		{
			name:    "invalid json",
			body:    `{"messages":`,
			status:  http.StatusBadRequest,
			message: "invalid request body",
		},
		{
			name:    "malformed request",
			body:    `{"messages":[]}`,
			err:     fmt.Errorf("%w: empty transcript", chat.ErrMalformedRequest),
			status:  http.StatusBadRequest,
			message: "malformed chat request: empty transcript",
		},
		{
			name:    "generation failure",
			body:    `{"messages":[{"role":"user","content":"x"}]}`,
			err:     fmt.Errorf("%w: quota", chat.ErrGeneration),
			status:  http.StatusInternalServerError,
			message: "An error occurred while processing your request.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New(&stubResponder{err: tt.err}, &stubDatasets{}, Config{}, zap.NewNop()).Router()

			rec := do(t, h, http.MethodPost, "/api/chat", tt.body)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.message, decodeMessage(t, rec))
		})
	}
}

func TestPanicIsRecovered(t *testing.T) {
	h := New(&stubResponder{panic: true}, &stubDatasets{}, Config{}, zap.NewNop()).Router()

	rec := do(t, h, http.MethodPost, "/api/chat", `{"messages":[{"role":"user","content":"x"}]}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, chat.GenericErrorMessage, decodeMessage(t, rec))
}

func TestDatasetProxies(t *testing.T) {
	datasets := &stubDatasets{
		profiles:     []candidates.Profile{{ID: "1", DisplayName: "Henry Miller"}},
		availability: []candidates.Availability{{Name: "Henry Miller", AvailableFrom: "2025-01-01"}},
	}
	h := New(&stubResponder{}, datasets, Config{}, zap.NewNop()).Router()

	rec := do(t, h, http.MethodGet, "/api/profiles", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var profiles []candidates.Profile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profiles))
	assert.Equal(t, []string{"Henry Miller"}, []string{profiles[0].DisplayName})

	rec = do(t, h, http.MethodGet, "/api/availability", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var availability []candidates.Availability
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &availability))
	assert.Equal(t, "2025-01-01", availability[0].AvailableFrom)
}

func TestDatasetProxyFailures(t *testing.T) {
	h := New(&stubResponder{}, &stubDatasets{err: errors.New("upstream down")}, Config{}, zap.NewNop()).Router()

	rec := do(t, h, http.MethodGet, "/api/profiles", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Error fetching profiles", decodeMessage(t, rec))

	rec = do(t, h, http.MethodGet, "/api/availability", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Error fetching availability", decodeMessage(t, rec))
}

func TestHealthzAndRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	h := New(&stubResponder{}, &stubDatasets{}, Config{}, zap.New(core)).Router()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "fixed-id")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "fixed-id", rec.Header().Get(requestIDHeader))

	entries := logs.FilterMessage("http request").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "fixed-id", entries[0].ContextMap()["request_id"])
	assert.NotContains(t, entries[0].ContextMap(), "intent")
}

type emptySources struct{}

func (emptySources) Profiles(context.Context) []candidates.Profile { return nil }
func (emptySources) Availability(context.Context) []candidates.Availability { return nil }

type unusedGenerator struct{}

func (unusedGenerator) Generate(context.Context, string, []conversation.Turn) (string, error) {
	return "", errors.New("must not be called")
}

func TestGreetingThroughRouter(t *testing.T) {
	service := chat.NewService(emptySources{}, unusedGenerator{}, chat.Config{}, zap.NewNop())
	h := New(service, &stubDatasets{}, Config{}, zap.NewNop()).Router()

	rec := do(t, h, http.MethodPost, "/api/chat", `{"messages":[{"role":"user","content":"Hello"}]}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp chat.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, briefing.Welcome, resp.AssistantMessage.Content)
}

func TestOrigins(t *testing.T) {
	assert.Equal(t, []string{"*"}, origins(nil))
	assert.Equal(t, []string{"https://a.example"}, origins([]string{" https://a.example ", ""}))
}
