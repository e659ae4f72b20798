package main

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"flash-gen/internal/tool"
)

func newMCPCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the generate_flashcards tool over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			server := tool.NewServer(root.generator(), version)
			return server.Run(cmd.Context(), &mcp.StdioTransport{})
		},
	}
}
