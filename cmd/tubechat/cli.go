package main

import (
	"context"
	"io"

	"github.com/fwojciec/tubechat"
	"github.com/fwojciec/tubechat/chat"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Version string
	Ctx     context.Context
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer

	// Pretty renders Markdown output for the terminal.
	Pretty bool

	Chat     *chat.Service
	Exporter tubechat.GraphExporter
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool    `short:"v" help:"Log every request to stderr"`
	Raw     bool    `help:"Print Markdown without terminal formatting"`
	Browser bool    `help:"Load watch pages in headless Chrome instead of plain HTTP"`
	RPS     float64 `name:"rps" default:"1" help:"Gemini requests per second (0 disables limiting)"`

	Guide   GuideCmd   `cmd:"" help:"Generate guiding questions for a video and start a new conversation"`
	Ask     AskCmd     `cmd:"" help:"Ask a question about a video"`
	History HistoryCmd `cmd:"" help:"Show the stored conversation for a video"`
	Clear   ClearCmd   `cmd:"" help:"Delete the stored conversation for a video"`
	Graph   GraphCmd   `cmd:"" help:"Generate knowledge graphs for one or more videos"`
	Render  RenderCmd  `cmd:"" help:"Render Markdown to an HTML fragment"`
	MCP     MCPCmd     `cmd:"" name:"mcp" help:"Serve the tools over stdio for MCP clients"`
}

// GuideCmd is the "guide" subcommand.
type GuideCmd struct {
	URL string `arg:"" help:"YouTube video URL or ID"`
}

// AskCmd is the "ask" subcommand.
type AskCmd struct {
	URL      string `arg:"" help:"YouTube video URL or ID"`
	Question string `arg:"" help:"Question about the video"`
}

// HistoryCmd is the "history" subcommand.
type HistoryCmd struct {
	URL string `arg:"" help:"YouTube video URL or ID"`
}

// ClearCmd is the "clear" subcommand.
type ClearCmd struct {
	URL   string `arg:"" help:"YouTube video URL or ID"`
	Force bool   `help:"Confirm deletion"`
}

// GraphCmd is the "graph" subcommand.
type GraphCmd struct {
	URLs        []string `arg:"" name:"url" help:"YouTube video URLs or IDs"`
	Out         string   `short:"o" default:"." help:"Directory for exported files"`
	Format      string   `short:"f" default:"html" enum:"html,md,markdown" help:"Export format (html, md)"`
	Refresh     bool     `help:"Regenerate instead of using cached graphs"`
	JSON        bool     `name:"json" help:"Print graphs as JSON instead of writing files"`
	Concurrency int      `short:"c" default:"3" help:"Videos processed at once"`
}

// RenderCmd is the "render" subcommand.
type RenderCmd struct {
	File     string `arg:"" optional:"" help:"Markdown file (defaults to stdin)"`
	Terminal bool   `help:"Format for the terminal instead of HTML"`
}

// MCPCmd is the "mcp" subcommand.
type MCPCmd struct{}
