package main

import (
	"fmt"

	"github.com/fwojciec/tubechat"
)

// Run executes the guide command.
func (c *GuideCmd) Run(deps *Dependencies) error {
	msg, err := deps.Chat.Guide(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", tubechat.ErrorMessage(err))
		return err
	}
	return writeMarkdown(deps, msg.Content)
}
