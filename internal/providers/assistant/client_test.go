package assistant

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/NexusOS/backend/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/NexusOS/backend/internal/infrastructure/tracing"
)

func newTestClient(url string) *Client {
	return NewClient(Config{
		APIKey:    "test-key",
		BaseURL:   url,
		Timeout:   2 * time.Second,
		RetryWait: time.Millisecond,
	}, nil)
}

func reply(text string) string {
	return `{"candidates":[{"content":{"role":"model","parts":[{"text":"` + text + `"}]}}]}`
}

func TestRequestMissingKey(t *testing.T) {
	c := NewClient(Config{BaseURL: "http://127.0.0.1:1"}, nil)
	assert.False(t, c.Configured())
	assert.Equal(t, MsgMissingKey, c.Request(context.Background(), "hi", ""))
}

func TestRequestSuccess(t *testing.T) {
	var got generateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-2.5-flash:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		assert.Equal(t, "trace_chat", r.Header.Get(tracing.HeaderTraceID))

		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, sonic.Unmarshal(body, &got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, reply("Greetings, operator."))
	}))
	defer server.Close()

	ctx := tracing.WithSpan(context.Background(), "trace_chat", "")
	text := newTestClient(server.URL).Request(ctx, "hello", "")

	assert.Equal(t, "Greetings, operator.", text)
	assert.Equal(t, SystemInstruction, got.SystemInstruction.Parts[0].Text)
	require.Len(t, got.Contents, 1)
	assert.Equal(t, "hello", got.Contents[0].Parts[0].Text)
}

func TestRequestModelOverride(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-pro:generateContent", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, reply("ok"))
	}))
	defer server.Close()

	assert.Equal(t, "ok", newTestClient(server.URL).Request(context.Background(), "hi", "gemini-pro"))
}

func TestRequestEmptyAnswer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"candidates":[]}`)
	}))
	defer server.Close()

	assert.Equal(t, MsgEmpty, newTestClient(server.URL).Request(context.Background(), "hi", ""))
}

func TestRequestFailsSoft(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":{"code":400,"message":"API key not valid"}}`)
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	for i := 0; i < 3; i++ {
		assert.Equal(t, MsgConnection, c.Request(context.Background(), "hi", ""))
	}
	assert.Equal(t, resilience.StateOpen, c.BreakerState())

	// Open breaker short-circuits without reaching the server
	assert.Equal(t, MsgConnection, c.Request(context.Background(), "hi", ""))
	assert.Equal(t, int32(3), calls.Load())
}

func TestRequestUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	assert.Equal(t, MsgConnection, newTestClient(url).Request(context.Background(), "hi", ""))
}

func TestRequestCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := newTestClient("http://127.0.0.1:1")
	assert.Equal(t, MsgConnection, c.Request(ctx, "hi", ""))
	assert.Equal(t, resilience.StateClosed, c.BreakerState())
}

func TestProvider(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, reply("pong"))
	}))
	defer server.Close()

	p := NewProvider(newTestClient(server.URL))
	ctx := context.Background()

	result, err := p.Execute(ctx, "assistant.request", map[string]interface{}{"prompt": "ping"}, nil)
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Equal(t, "pong", result.Data["reply"])

	result, err = p.Execute(ctx, "assistant.request", map[string]interface{}{}, nil)
	require.NoError(t, err)
	assert.False(t, result.Success)

	result, err = p.Execute(ctx, "assistant.status", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, true, result.Data["configured"])
	assert.Equal(t, "closed", result.Data["breaker"])

	assert.Equal(t, "assistant", p.Definition().ID)
}
