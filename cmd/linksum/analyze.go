package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/linksum"
)

// Run executes the analyze command.
func (c *AnalyzeCmd) Run(deps *Dependencies) error {
	if c.Email != "" && deps.Notifier == nil {
		fmt.Fprintln(deps.Stderr, "error: email provider not configured. Set RESEND_API_KEY or LINKSUM_SMTP_HOST.")
		return linksum.Errorf(linksum.ECONFIG, "email provider not configured")
	}

	opts := linksum.AnalyzeOptions{
		GenerateTags:  !c.NoTags,
		SummaryLength: linksum.SummaryLength(c.Length),
	}

	a, err := deps.Analyzer.Analyze(deps.Ctx, c.URL, opts)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", linksum.ErrorMessage(err))
		return err
	}

	printAnalysis(deps, a, false)

	if c.Email != "" {
		d := deps.Notifier.SendAnalysis(deps.Ctx, c.Email, a, linksum.EmailOptions{
			Subject:            c.Subject,
			IncludeFullContent: c.Full,
		})
		if !d.Success {
			fmt.Fprintf(deps.Stderr, "error: email not sent: %s\n", d.Error)
			return linksum.Errorf(linksum.EDELIVERY, "%s", d.Error)
		}
		fmt.Fprintf(deps.Stdout, "\nEmailed to %s (%s)\n", c.Email, d.ID)
	}

	return nil
}

// printAnalysis writes a human-readable view of an analysis.
func printAnalysis(deps *Dependencies, a *linksum.Analysis, withContent bool) {
	title := a.Title
	if title == "" {
		title = a.URL
	}
	fmt.Fprintf(deps.Stdout, "%s\n", title)
	fmt.Fprintf(deps.Stdout, "  id:     %s\n", a.ID)
	fmt.Fprintf(deps.Stdout, "  url:    %s\n", a.URL)
	fmt.Fprintf(deps.Stdout, "  status: %s\n", a.Status)
	fmt.Fprintf(deps.Stdout, "  type:   %s\n", a.ContentType)
	fmt.Fprintf(deps.Stdout, "  words:  %d\n", a.WordCount)
	if len(a.Tags) > 0 {
		fmt.Fprintf(deps.Stdout, "  tags:   %s\n", strings.Join(a.TagNames(), ", "))
	}
	if a.ErrorMessage != "" {
		fmt.Fprintf(deps.Stdout, "  error:  %s\n", a.ErrorMessage)
	}
	if a.Summary != "" {
		fmt.Fprintf(deps.Stdout, "\n%s\n", a.Summary)
	}
	if withContent && a.Content != "" {
		fmt.Fprintf(deps.Stdout, "\n---\n%s\n", a.Content)
	}
}
