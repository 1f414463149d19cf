package main

import (
	"fmt"

	"github.com/fwojciec/tubechat"
)

// Run executes the clear command.
func (c *ClearCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm deletion\n")
		return tubechat.Errorf(tubechat.EINVALID, "use --force to confirm deletion")
	}

	n, err := deps.Chat.Clear(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", tubechat.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted %d messages\n", n)
	return nil
}
