package main

import (
	"fmt"

	"github.com/fwojciec/linksum"
)

// Run executes the tags command.
func (c *TagsCmd) Run(deps *Dependencies) error {
	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		fmt.Fprintln(deps.Stderr, "error: --min-confidence must be between 0 and 1")
		return linksum.Errorf(linksum.EINVALID, "min confidence must be between 0 and 1")
	}

	counts, err := deps.Tags.TagHistogram(deps.Ctx, linksum.TagFilter{
		MinConfidence: c.MinConfidence,
		Limit:         c.Limit,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", linksum.ErrorMessage(err))
		return err
	}

	if len(counts) == 0 {
		fmt.Fprintln(deps.Stdout, "No tags yet.")
		return nil
	}

	for _, tc := range counts {
		fmt.Fprintf(deps.Stdout, "%5d  %s\n", tc.Count, tc.Tag)
	}
	return nil
}
