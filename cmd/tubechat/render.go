package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fwojciec/tubechat"
)

// Run executes the render command.
func (c *RenderCmd) Run(deps *Dependencies) error {
	var (
		data []byte
		err  error
	)
	if c.File == "" || c.File == "-" {
		data, err = io.ReadAll(deps.Stdin)
	} else {
		data, err = os.ReadFile(c.File)
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}

	if c.Terminal {
		return writeTerminal(deps.Stdout, string(data))
	}

	_, err = fmt.Fprintln(deps.Stdout, tubechat.RenderMarkdown(string(data)))
	return err
}
