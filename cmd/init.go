package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/genomeviz/exonview/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize exonview configuration with an interactive wizard",
	Long:  `Runs an interactive wizard and writes a .exonview.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.RunWizard()
		if err != nil {
			return err
		}
		if err := cfg.Save(cfgFile); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Wrote %s\n", cfgFile)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
