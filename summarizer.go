package linksum

import (
	"context"
	"fmt"
	"strings"
)

// Summarizer limits.
const (
	// MaxPromptContent is the number of characters of content sent to the model.
	MaxPromptContent = 4000

	// FallbackSummaryLength is the length of a summary cut from raw text.
	FallbackSummaryLength = 300
)

// SummaryLength selects how long the generated summary should be.
type SummaryLength string

// SummaryLength constants.
const (
	SummaryShort  SummaryLength = "short"
	SummaryMedium SummaryLength = "medium"
	SummaryLong   SummaryLength = "long"
)

// Valid reports whether l is a known summary length.
func (l SummaryLength) Valid() bool {
	switch l {
	case SummaryShort, SummaryMedium, SummaryLong:
		return true
	}
	return false
}

// ParseSummaryLength converts a string into a SummaryLength.
// An empty string selects SummaryMedium.
func ParseSummaryLength(s string) (SummaryLength, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return SummaryMedium, nil
	}
	l := SummaryLength(s)
	if !l.Valid() {
		return "", Errorf(EINVALID, "invalid summary length %q (want short, medium or long)", s)
	}
	return l, nil
}

// instruction returns the natural-language length instruction for the prompt.
func (l SummaryLength) instruction() string {
	switch l {
	case SummaryShort:
		return "2-3 sentences"
	case SummaryLong:
		return "3-4 paragraphs"
	default:
		return "1-2 paragraphs"
	}
}

// Summary is the parsed result of a summarization.
type Summary struct {
	Summary string
	Tags    []string

	// Degraded is set when the model call failed and Summary is a plain
	// truncation of the content.
	Degraded bool
}

// Summarizer produces a summary and tags for extracted text.
type Summarizer interface {
	// Summarize never fails: model errors produce a degraded Summary.
	Summarize(ctx context.Context, content string, length SummaryLength) *Summary
}

// Role identifies the author of a chat message.
type Role string

// Role constants.
const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

// Message is a single role-tagged chat message.
type Message struct {
	Role    Role
	Content string
}

// Completer sends a role-structured conversation to a generative text model
// and returns its free-text reply.
type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

const summarySystemPrompt = "You are a content analyst. You read web pages and write accurate, neutral summaries and short topic tags."

// SummaryMessages builds the conversation sent to the model. Content is
// truncated to MaxPromptContent characters.
func SummaryMessages(content string, length SummaryLength) []Message {
	content, _ = Truncate(content, MaxPromptContent)

	var sb strings.Builder
	sb.WriteString("Analyze the following web page content.\n\n")
	fmt.Fprintf(&sb, "1. Write a summary of %s.\n", length.instruction())
	fmt.Fprintf(&sb, "2. Suggest up to %d relevant tags (single words or short phrases).\n\n", MaxTags)
	sb.WriteString("Respond in exactly this format:\n")
	sb.WriteString("SUMMARY: <your summary>\n")
	sb.WriteString("TAGS: <tag1>, <tag2>, <tag3>\n\n")
	sb.WriteString("Content:\n")
	sb.WriteString(content)

	return []Message{
		{Role: RoleSystem, Content: summarySystemPrompt},
		{Role: RoleUser, Content: sb.String()},
	}
}

const (
	summaryMarker = "SUMMARY:"
	tagsMarker    = "TAGS:"
)

// ParseSummaryReply extracts the summary and tags from a model reply.
// Without a SUMMARY: marker the first FallbackSummaryLength characters of the
// reply are used. At most MaxTags tags are returned.
func ParseSummaryReply(reply string) *Summary {
	var summary string
	if i := strings.Index(reply, summaryMarker); i >= 0 {
		rest := reply[i+len(summaryMarker):]
		if j := strings.Index(rest, tagsMarker); j >= 0 {
			rest = rest[:j]
		}
		summary = strings.TrimSpace(rest)
	} else {
		summary, _ = Truncate(strings.TrimSpace(reply), FallbackSummaryLength)
	}

	var tags []string
	if i := strings.Index(reply, tagsMarker); i >= 0 {
		for _, tag := range strings.Split(reply[i+len(tagsMarker):], ",") {
			tag = strings.TrimSpace(tag)
			if tag == "" {
				continue
			}
			tags = append(tags, tag)
			if len(tags) == MaxTags {
				break
			}
		}
	}

	return &Summary{Summary: summary, Tags: tags}
}

// DegradedSummary is used when the model cannot be reached. The summary is the
// content cut to FallbackSummaryLength characters with "..." appended when
// anything was removed.
func DegradedSummary(content string) *Summary {
	summary, truncated := Truncate(content, FallbackSummaryLength)
	if truncated {
		summary += "..."
	}
	return &Summary{Summary: summary, Tags: []string{}, Degraded: true}
}

// Truncate returns the first n characters of s and whether s was longer.
func Truncate(s string, n int) (string, bool) {
	if len(s) <= n {
		return s, false
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s, false
	}
	return string(runes[:n]), true
}
