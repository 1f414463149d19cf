package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
)

// writeMarkdown prints md, formatted for the terminal when deps.Pretty is set.
func writeMarkdown(deps *Dependencies, md string) error {
	if !deps.Pretty {
		_, err := fmt.Fprintln(deps.Stdout, strings.TrimRight(md, "\n"))
		return err
	}
	return writeTerminal(deps.Stdout, md)
}

// writeTerminal renders md with glamour.
func writeTerminal(w io.Writer, md string) error {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dracula"),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}

	out, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}

	_, err = io.WriteString(w, out)
	return err
}
