package main

import (
	tubemcp "github.com/fwojciec/tubechat/mcp"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Run executes the mcp command. It serves until the client disconnects or
// the context is cancelled.
func (c *MCPCmd) Run(deps *Dependencies) error {
	server := tubemcp.NewServer(deps.Chat, deps.Version)
	return server.Run(deps.Ctx, &mcp.StdioTransport{})
}
