package main

import (
	"fmt"

	"github.com/fwojciec/linksum"
)

// Run executes the show command.
func (c *ShowCmd) Run(deps *Dependencies) error {
	a, err := deps.Analyses.FindAnalysisByID(deps.Ctx, c.ID)
	if linksum.ErrorCode(err) == linksum.ENOTFOUND {
		fmt.Fprintf(deps.Stderr, "error: analysis %q not found. Use 'linksum list' to see stored analyses.\n", c.ID)
		return err
	} else if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", linksum.ErrorMessage(err))
		return err
	}

	if a.Tags, err = deps.Tags.FindTagsByAnalysis(deps.Ctx, a.ID); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", linksum.ErrorMessage(err))
		return err
	}

	printAnalysis(deps, a, c.Full)
	return nil
}
