package anthropic_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/fwojciec/linksum"
	"github.com/fwojciec/linksum/anthropic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleter_Complete(t *testing.T) {
	t.Parallel()

	t.Run("returns text of the reply", func(t *testing.T) {
		t.Parallel()

		bodies := make(chan map[string]any, 1)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/messages", r.URL.Path)
			assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
			raw, _ := io.ReadAll(r.Body)
			var body map[string]any
			_ = json.Unmarshal(raw, &body)
			bodies <- body

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"id": "msg_1",
				"type": "message",
				"role": "assistant",
				"model": "claude-3-5-haiku-latest",
				"content": [{"type": "text", "text": "SUMMARY: Short.\nTAGS: go"}],
				"stop_reason": "end_turn",
				"usage": {"input_tokens": 10, "output_tokens": 5}
			}`))
		}))
		t.Cleanup(server.Close)

		c := anthropic.NewCompleter("test-key", "", option.WithBaseURL(server.URL), option.WithMaxRetries(0))

		reply, err := c.Complete(context.Background(), linksum.SummaryMessages("Page text.", linksum.SummaryShort))

		require.NoError(t, err)
		assert.Equal(t, "SUMMARY: Short.\nTAGS: go", reply)
		body := <-bodies
		assert.Equal(t, anthropic.DefaultModel, body["model"])
		assert.NotNil(t, body["system"])
	})

	t.Run("returns error on API failure", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"type":"error","error":{"type":"invalid_request_error","message":"bad"}}`))
		}))
		t.Cleanup(server.Close)

		c := anthropic.NewCompleter("test-key", "", option.WithBaseURL(server.URL), option.WithMaxRetries(0))

		_, err := c.Complete(context.Background(), linksum.SummaryMessages("Page text.", linksum.SummaryShort))

		require.Error(t, err)
	})

	t.Run("rejects conversation without user message", func(t *testing.T) {
		t.Parallel()

		c := anthropic.NewCompleter("test-key", "")

		_, err := c.Complete(context.Background(), []linksum.Message{{Role: linksum.RoleSystem, Content: "s"}})

		assert.Equal(t, linksum.EINVALID, linksum.ErrorCode(err))
	})
}

func TestBuildParams(t *testing.T) {
	t.Parallel()

	params := anthropic.BuildParams("m", 256, linksum.SummaryMessages("Page text.", linksum.SummaryLong))

	assert.Equal(t, "m", string(params.Model))
	assert.Equal(t, int64(256), params.MaxTokens)
	require.Len(t, params.System, 1)
	assert.Contains(t, params.System[0].Text, "content analyst")
	assert.Len(t, params.Messages, 1)
}
