package main

import (
	"fmt"
	"strings"

	"github.com/fwojciec/tubechat"
)

// Run executes the history command.
func (c *HistoryCmd) Run(deps *Dependencies) error {
	msgs, err := deps.Chat.History(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", tubechat.ErrorMessage(err))
		return err
	}

	if len(msgs) == 0 {
		fmt.Fprintln(deps.Stdout, "No conversation yet. Use 'tubechat guide' or 'tubechat ask' to start one.")
		return nil
	}

	return writeMarkdown(deps, FormatHistory(msgs))
}

// FormatHistory formats a conversation as Markdown, one section per message.
func FormatHistory(msgs []*tubechat.Message) string {
	var b strings.Builder
	for i, msg := range msgs {
		if i > 0 {
			b.WriteString("\n---\n\n")
		}
		switch msg.Role {
		case tubechat.RoleUser:
			b.WriteString("**You**")
		default:
			b.WriteString("**Assistant**")
		}
		if !msg.CreatedAt.IsZero() {
			b.WriteString(" · ")
			b.WriteString(msg.CreatedAt.Local().Format("2006-01-02 15:04"))
		}
		b.WriteString("\n\n")
		b.WriteString(strings.TrimSpace(msg.Content))
		b.WriteString("\n")
	}
	return b.String()
}
