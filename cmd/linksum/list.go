package main

import (
	"fmt"

	"github.com/fwojciec/linksum"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	filter := linksum.AnalysisFilter{Limit: c.Limit}
	if c.Status != "" {
		status, err := linksum.ParseStatus(c.Status)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", linksum.ErrorMessage(err))
			return err
		}
		filter.Status = &status
	}
	if c.Type != "" {
		ct, err := linksum.ParseContentType(c.Type)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", linksum.ErrorMessage(err))
			return err
		}
		filter.ContentType = &ct
	}
	if c.Search != "" {
		filter.Search = &c.Search
	}

	analyses, total, err := deps.Analyses.FindAnalyses(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", linksum.ErrorMessage(err))
		return err
	}

	if len(analyses) == 0 {
		fmt.Fprintln(deps.Stdout, "No analyses found. Use 'linksum analyze <url>' to create one.")
		return nil
	}

	for _, a := range analyses {
		fmt.Fprintf(deps.Stdout, "%s  %-9s  %-7s  %s\n", a.ID, a.Status, a.ContentType, a.URL)
	}
	if total > len(analyses) {
		fmt.Fprintf(deps.Stdout, "\n%d of %d shown\n", len(analyses), total)
	}

	return nil
}
