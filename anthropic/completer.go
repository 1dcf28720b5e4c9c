// Package anthropic implements linksum.Completer using the Anthropic
// Messages API.
package anthropic

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/fwojciec/linksum"
)

// Defaults used when the caller leaves a setting empty.
const (
	DefaultModel     = "claude-3-5-haiku-latest"
	DefaultMaxTokens = 1024
)

// Ensure Completer implements linksum.Completer at compile time.
var _ linksum.Completer = (*Completer)(nil)

// Completer implements linksum.Completer using Claude.
type Completer struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

// NewCompleter creates a new Completer. Request options are passed to the
// underlying client, so tests can point it at a local server.
func NewCompleter(apiKey, model string, opts ...option.RequestOption) *Completer {
	if model == "" {
		model = DefaultModel
	}
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &Completer{
		client:    anthropic.NewClient(opts...),
		model:     model,
		maxTokens: DefaultMaxTokens,
	}
}

// Complete sends the conversation to Claude and returns the concatenated
// text blocks of the reply.
func (c *Completer) Complete(ctx context.Context, messages []linksum.Message) (string, error) {
	params := BuildParams(c.model, c.maxTokens, messages)
	if len(params.Messages) == 0 {
		return "", linksum.Errorf(linksum.EINVALID, "at least one user message required")
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", err
	}

	var reply strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			reply.WriteString(block.Text)
		}
	}
	if reply.Len() == 0 {
		return "", linksum.Errorf(linksum.EINTERNAL, "claude returned no text")
	}

	return reply.String(), nil
}

// BuildParams converts the conversation into request parameters. System
// messages are joined into the system prompt.
func BuildParams(model string, maxTokens int64, messages []linksum.Message) anthropic.MessageNewParams {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: maxTokens,
	}

	var system []string
	for _, m := range messages {
		switch m.Role {
		case linksum.RoleSystem:
			system = append(system, m.Content)
		default:
			params.Messages = append(params.Messages, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		}
	}
	if len(system) > 0 {
		params.System = []anthropic.TextBlockParam{{Text: strings.Join(system, "\n\n")}}
	}

	return params
}
