package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BerylCAtieno/marketing-strategy-agent/internal/apperr"
)

type staticKeys struct {
	openai string
	gemini string
}

func (k staticKeys) APIKey(context.Context) (string, error) {
	if k.openai == "" {
		return "", apperr.NewCredentialMissing("OpenAI API key")
	}
	return k.openai, nil
}

func (k staticKeys) GeminiKey(context.Context) (string, error) {
	if k.gemini == "" {
		return "", apperr.NewCredentialMissing("Gemini API key")
	}
	return k.gemini, nil
}

var testDefaults = Defaults{Model: "gpt-4o-mini", Temperature: 0.7, MaxTokens: 512}

func newFakeOpenAI(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestCompleteSendsJSONObjectRequest(t *testing.T) {
	var got map[string]any
	srv, _ := newFakeOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"model": "gpt-4o-mini",
			"choices": [{"index": 0, "finish_reason": "stop",
				"message": {"role": "assistant", "content": "{\"icps\":[]}"}}],
			"usage": {"prompt_tokens": 12, "completion_tokens": 4, "total_tokens": 16}
		}`))
	})

	c := NewOpenAI(staticKeys{openai: "sk-test"}, srv.URL+"/v1", testDefaults, zap.NewNop())
	temp := float32(0.2)
	out, err := c.Complete(context.Background(), []Message{System("rules"), User("hello")}, Options{Temperature: &temp})
	require.NoError(t, err)

	assert.Equal(t, `{"icps":[]}`, out.Content)
	assert.Equal(t, "stop", out.FinishReason)
	assert.Equal(t, 12, out.PromptTokens)

	assert.Equal(t, "gpt-4o-mini", got["model"])
	assert.InDelta(t, 0.2, got["temperature"], 0.0001)
	assert.Equal(t, map[string]any{"type": "json_object"}, got["response_format"])
	msgs := got["messages"].([]any)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
	assert.Equal(t, "hello", msgs[1].(map[string]any)["content"])
}

func TestCompleteWithoutCredentialMakesNoRequest(t *testing.T) {
	srv, calls := newFakeOpenAI(t, func(w http.ResponseWriter, r *http.Request) {})

	c := NewOpenAI(staticKeys{}, srv.URL+"/v1", testDefaults, zap.NewNop())
	_, err := c.Complete(context.Background(), []Message{User("hi")}, Options{})

	assert.Equal(t, apperr.CredentialMissing, apperr.KindOf(err))
	assert.Zero(t, calls.Load())
}

func TestCompleteUpstreamError(t *testing.T) {
	srv, _ := newFakeOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"Rate limit reached","type":"requests","code":"rate_limit_exceeded"}}`))
	})

	c := NewOpenAI(staticKeys{openai: "sk-test"}, srv.URL+"/v1", testDefaults, zap.NewNop())
	_, err := c.Complete(context.Background(), []Message{User("hi")}, Options{})
	require.Error(t, err)

	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, apperr.Upstream, ae.Kind)
	assert.Equal(t, http.StatusTooManyRequests, ae.Status)
	assert.Contains(t, ae.Body, "Rate limit reached")
}

func TestCompleteTimeoutIsCancelled(t *testing.T) {
	srv, _ := newFakeOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})

	c := NewOpenAI(staticKeys{openai: "sk-test"}, srv.URL+"/v1", testDefaults, zap.NewNop())
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.Complete(ctx, []Message{User("hi")}, Options{})
	assert.Equal(t, apperr.Cancelled, apperr.KindOf(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCompleteNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewOpenAI(staticKeys{openai: "sk-test"}, url+"/v1", testDefaults, zap.NewNop())
	_, err := c.Complete(context.Background(), []Message{User("hi")}, Options{})
	assert.Equal(t, apperr.Network, apperr.KindOf(err))
}

func TestValidateKey(t *testing.T) {
	srv, _ := newFakeOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/models", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		if r.Header.Get("Authorization") != "Bearer sk-good" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error","code":"invalid_api_key"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"object":"list","data":[{"id":"gpt-4o-mini","object":"model","owned_by":"openai"}]}`))
	})

	c := NewOpenAI(staticKeys{}, srv.URL+"/v1", testDefaults, zap.NewNop())
	assert.NoError(t, c.ValidateKey(context.Background(), "sk-good"))

	err := c.ValidateKey(context.Background(), "sk-bad")
	assert.Equal(t, apperr.Upstream, apperr.KindOf(err))
}

func TestDefaultsResolve(t *testing.T) {
	temp := float32(0)
	model, gotTemp, max := testDefaults.resolve(Options{Model: "gpt-4o", Temperature: &temp})
	assert.Equal(t, "gpt-4o", model)
	assert.Zero(t, gotTemp)
	assert.Equal(t, 512, max)
}
