package llm

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const completionFixture = `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "created": 1700000000,
  "model": "gpt-3.5-turbo",
  "choices": [{
    "index": 0,
    "finish_reason": "stop",
    "message": {"role": "assistant", "content": "  The answer is 42.  ", "refusal": ""}
  }]
}`

func newTestServer(t *testing.T, status int, body string, calls *int32, seen *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		raw, _ := io.ReadAll(r.Body)
		if seen != nil {
			_ = json.Unmarshal(raw, seen)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewOpenAIClientRequiresKey(t *testing.T) {
	_, err := NewOpenAIClient("", openai.ChatModelGPT3_5Turbo, 0)
	require.Error(t, err)
}

func TestNewOpenAIClientDefaultsModel(t *testing.T) {
	c, err := NewOpenAIClient("test-key", "", 0)
	require.NoError(t, err)
	assert.Equal(t, openai.ChatModelGPT3_5Turbo, c.Model())
}

func TestAnswerSendsContextAndQuestion(t *testing.T) {
	var calls int32
	var seen map[string]any
	srv := newTestServer(t, http.StatusOK, completionFixture, &calls, &seen)

	c, err := NewOpenAIClient("test-key", "gpt-3.5-turbo", 0, option.WithBaseURL(srv.URL))
	require.NoError(t, err)

	answer, err := c.Answer(t.Context(), "What is the answer?", "The answer is 42.")
	require.NoError(t, err)
	assert.Equal(t, "The answer is 42.", answer)

	assert.Equal(t, "gpt-3.5-turbo", seen["model"])
	assert.EqualValues(t, 0, seen["temperature"])
	msgs, ok := seen["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 2)
	user := msgs[1].(map[string]any)
	assert.Equal(t, "user", user["role"])
	assert.Contains(t, user["content"], "Query: What is the answer?")
	assert.Contains(t, user["content"], "The answer is 42.")
}

func TestCompleteDoesNotRetry(t *testing.T) {
	var calls int32
	srv := newTestServer(t, http.StatusInternalServerError, `{"error":{"message":"boom","type":"server_error"}}`, &calls, nil)

	c, err := NewOpenAIClient("test-key", "gpt-3.5-turbo", 0, option.WithBaseURL(srv.URL))
	require.NoError(t, err)

	_, err = c.Complete(t.Context(), openai.ChatCompletionNewParams{
		Messages: BuildMessages("sys", "hi"),
	})
	require.Error(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestAnswerNoChoices(t *testing.T) {
	var calls int32
	srv := newTestServer(t, http.StatusOK, `{"id":"x","object":"chat.completion","created":1,"model":"m","choices":[]}`, &calls, nil)

	c, err := NewOpenAIClient("test-key", "gpt-3.5-turbo", 0, option.WithBaseURL(srv.URL))
	require.NoError(t, err)

	_, err = c.Answer(t.Context(), "q", "ctx")
	require.Error(t, err)
}

func TestBuildMessages(t *testing.T) {
	msgs := BuildMessages("You are a helpful assistant.", "hello")
	require.Len(t, msgs, 2)
	require.NotNil(t, msgs[0].OfSystem)
	require.NotNil(t, msgs[1].OfUser)
	assert.Equal(t, "You are a helpful assistant.", msgs[0].OfSystem.Content.OfString.Value)
	assert.Equal(t, "hello", msgs[1].OfUser.Content.OfString.Value)
}
