package main

import (
	"fmt"

	"github.com/fwojciec/linksum"
)

// Run executes the delete command.
func (c *DeleteCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm deletion\n")
		return linksum.Errorf(linksum.EINVALID, "use --force to confirm deletion")
	}

	if err := deps.Analyses.DeleteAnalysis(deps.Ctx, c.ID); linksum.ErrorCode(err) == linksum.ENOTFOUND {
		fmt.Fprintf(deps.Stderr, "error: analysis %q not found. Use 'linksum list' to see stored analyses.\n", c.ID)
		return err
	} else if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", linksum.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted analysis %s\n", c.ID)
	return nil
}
