package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "exonview",
	Short: "Interactive gene/exon diagram server",
	Long: `Exonview serves interactive SVG diagrams produced by an external
layout generator. It gives every diagram label a background box sized to
its rendered text and keeps at most one detail overlay visible at a time,
driving both behaviors from pointer events delivered over a websocket.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".exonview.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
