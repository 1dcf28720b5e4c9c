// Package gemini implements linksum.Completer using Google Gemini.
package gemini

import (
	"context"
	"strings"

	"github.com/fwojciec/linksum"
	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// Ensure Completer implements linksum.Completer at compile time.
var _ linksum.Completer = (*Completer)(nil)

// Completer implements linksum.Completer using Google Gemini.
type Completer struct {
	client *genai.Client
	model  string
}

// NewCompleter creates a new Completer. An empty model selects DefaultModel.
func NewCompleter(client *genai.Client, model string) *Completer {
	if model == "" {
		model = DefaultModel
	}
	return &Completer{client: client, model: model}
}

// Complete sends the conversation to Gemini and returns the reply text.
func (c *Completer) Complete(ctx context.Context, messages []linksum.Message) (string, error) {
	contents := BuildContents(messages)
	if len(contents) == 0 {
		return "", linksum.Errorf(linksum.EINVALID, "at least one user message required")
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model, contents, BuildConfig(messages))
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", linksum.Errorf(linksum.EINTERNAL, "gemini returned nil result")
	}

	return result.Text(), nil
}

// BuildConfig returns the GenerateContentConfig for Gemini API calls. System
// messages become the system instruction.
func BuildConfig(messages []linksum.Message) *genai.GenerateContentConfig {
	temp := float32(0.4)
	config := &genai.GenerateContentConfig{
		Temperature: &temp,
	}

	var system []string
	for _, m := range messages {
		if m.Role == linksum.RoleSystem {
			system = append(system, m.Content)
		}
	}
	if len(system) > 0 {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: strings.Join(system, "\n\n")}},
		}
	}
	return config
}

// BuildContents converts the non-system messages into Gemini contents.
func BuildContents(messages []linksum.Message) []*genai.Content {
	var contents []*genai.Content
	for _, m := range messages {
		if m.Role == linksum.RoleSystem {
			continue
		}
		contents = append(contents, &genai.Content{
			Role:  genai.RoleUser,
			Parts: []*genai.Part{{Text: m.Content}},
		})
	}
	return contents
}
