// Package notify formats analyses as HTML email and hands them to a
// linksum.Mailer.
package notify

import (
	"bytes"
	"html/template"
	"time"

	"github.com/fwojciec/linksum"
	"github.com/yuin/goldmark"
)

// MaxExcerptLength is the number of content characters included when the
// full content is requested.
const MaxExcerptLength = 2000

const excerptMarker = "\n\n[Content truncated...]"

var emailTemplate = template.Must(template.New("email").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body style="font-family: -apple-system, Helvetica, Arial, sans-serif; line-height: 1.5; color: #222; max-width: 640px; margin: 0 auto; padding: 24px;">
<h1 style="font-size: 22px; margin-bottom: 4px;">{{.Title}}</h1>
<p style="margin-top: 0;"><a href="{{.URL}}" style="color: #0366d6;">{{.URL}}</a></p>
<table style="font-size: 13px; color: #555; margin-bottom: 16px;">
<tr><td style="padding-right: 12px;">Words</td><td>{{.WordCount}}</td></tr>
<tr><td style="padding-right: 12px;">Type</td><td>{{.ContentType}}</td></tr>
{{- if .AnalysisDate}}
<tr><td style="padding-right: 12px;">Analyzed</td><td>{{.AnalysisDate}}</td></tr>
{{- end}}
</table>
<h2 style="font-size: 17px;">Summary</h2>
<div>{{.Summary}}</div>
{{- if .Tags}}
<p>
{{- range .Tags}}
<span style="display: inline-block; background: #eef2f7; border-radius: 10px; padding: 2px 10px; margin: 2px; font-size: 12px;">{{.}}</span>
{{- end}}
</p>
{{- end}}
{{- if .Excerpt}}
<h2 style="font-size: 17px;">Content</h2>
<pre style="white-space: pre-wrap; font-family: inherit; font-size: 14px; background: #fafafa; padding: 12px;">{{.Excerpt}}</pre>
{{- end}}
<p style="font-size: 12px; color: #999; margin-top: 32px;">Sent by linksum</p>
</body>
</html>
`))

type emailData struct {
	Title        string
	URL          string
	WordCount    int
	ContentType  linksum.ContentType
	AnalysisDate string
	Summary      template.HTML
	Tags         []string
	Excerpt      string
}

// FormatEmail renders the analysis as an HTML document. The summary is
// treated as Markdown. With includeContent the first MaxExcerptLength
// characters of the content are appended.
func FormatEmail(a *linksum.Analysis, tags []string, includeContent bool) (string, error) {
	var summary bytes.Buffer
	if err := goldmark.Convert([]byte(a.Summary), &summary); err != nil {
		return "", err
	}

	data := emailData{
		Title:       a.Title,
		URL:         a.URL,
		WordCount:   a.WordCount,
		ContentType: a.ContentType,
		Summary:     template.HTML(summary.String()),
		Tags:        tags,
	}
	if data.Title == "" {
		data.Title = a.URL
	}
	if a.AnalysisDate != nil {
		data.AnalysisDate = a.AnalysisDate.UTC().Format(time.RFC1123)
	}
	if includeContent && a.Content != "" {
		excerpt, truncated := linksum.Truncate(a.Content, MaxExcerptLength)
		if truncated {
			excerpt += excerptMarker
		}
		data.Excerpt = excerpt
	}

	var buf bytes.Buffer
	if err := emailTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
