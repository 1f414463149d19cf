package main

import (
	"fmt"

	"github.com/fwojciec/tubechat"
)

// Run executes the ask command.
func (c *AskCmd) Run(deps *Dependencies) error {
	reply, err := deps.Chat.Ask(deps.Ctx, c.URL, c.Question)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", tubechat.ErrorMessage(err))
		return err
	}
	return writeMarkdown(deps, reply.Content)
}
