package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/genomeviz/exonview/internal/config"
	"github.com/genomeviz/exonview/internal/mcpserver"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing diagram retrieval tools for AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		database, store, sessions, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer database.Close()
		defer sessions.Close()

		mcpserver.Version = Version

		fmt.Fprintf(os.Stderr, "exonview MCP server started on stdio (data=%s)\n", cfg.DataDir)

		srv := mcpserver.NewServer(store, sessions)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
