package fs

import (
	"strings"
	"time"

	"github.com/fwojciec/tubechat"
)

// FormatGraph formats a graph as Markdown with YAML frontmatter. The mindmap
// is kept as a fenced mermaid block, which most Markdown viewers render.
func FormatGraph(video *tubechat.Video, graph *tubechat.KnowledgeGraph) string {
	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("source: ")
	b.WriteString(sourceURL(video))
	b.WriteString("\ntitle: ")
	b.WriteString(title(video, graph))
	if video.Channel != "" {
		b.WriteString("\nchannel: ")
		b.WriteString(video.Channel)
	}
	b.WriteString("\nexported: ")
	b.WriteString(time.Now().Format("2006-01-02"))
	b.WriteString("\n---\n\n")

	b.WriteString("# ")
	b.WriteString(title(video, graph))
	b.WriteString("\n\n")
	if graph.Summary != "" {
		b.WriteString(graph.Summary)
		b.WriteString("\n\n")
	}

	b.WriteString("```mermaid\n")
	b.WriteString(strings.TrimRight(graph.MermaidCode, "\n"))
	b.WriteString("\n```\n")

	if len(graph.KeyPoints) > 0 {
		b.WriteString("\n## Key points\n\n")
		for _, kp := range graph.KeyPoints {
			b.WriteString("- **")
			b.WriteString(kp.Title)
			b.WriteString("** (")
			b.WriteString(string(kp.Importance.Normalize()))
			b.WriteString(")")
			if kp.Description != "" {
				b.WriteString(": ")
				b.WriteString(kp.Description)
			}
			b.WriteString("\n")
		}
	}

	if len(graph.Connections) > 0 {
		b.WriteString("\n## Connections\n\n")
		b.WriteString("| From | Relationship | To |\n")
		b.WriteString("| --- | --- | --- |\n")
		for _, c := range graph.Connections {
			b.WriteString("| ")
			b.WriteString(tableCell(c.From))
			b.WriteString(" | ")
			b.WriteString(tableCell(c.Relationship))
			b.WriteString(" | ")
			b.WriteString(tableCell(c.To))
			b.WriteString(" |\n")
		}
	}

	return b.String()
}

func tableCell(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "|", `\|`), "\n", " ")
}

func title(video *tubechat.Video, graph *tubechat.KnowledgeGraph) string {
	if video.Title != "" {
		return video.Title
	}
	if graph.Title != "" {
		return graph.Title
	}
	return "Video knowledge graph"
}

func sourceURL(video *tubechat.Video) string {
	if video.URL != "" {
		return video.URL
	}
	return tubechat.WatchURL(video.ID)
}
