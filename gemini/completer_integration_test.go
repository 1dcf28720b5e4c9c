//go:build integration

package gemini_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/fwojciec/linksum"
	"github.com/fwojciec/linksum/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestCompleter_Integration_ReturnsSummary(t *testing.T) {
	t.Parallel()

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		t.Skip("GEMINI_API_KEY not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	require.NoError(t, err)

	c := gemini.NewCompleter(client, "")
	content := "Go is an open source programming language supported by Google. It is easy to learn and great for teams. It has built-in concurrency and a robust standard library."

	reply, err := c.Complete(ctx, linksum.SummaryMessages(content, linksum.SummaryShort))
	require.NoError(t, err)

	parsed := linksum.ParseSummaryReply(reply)
	assert.NotEmpty(t, parsed.Summary)
}
