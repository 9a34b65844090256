package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/genomeviz/exonview/internal/config"
	"github.com/genomeviz/exonview/internal/importer"
	"github.com/genomeviz/exonview/internal/progress"
)

var importCmd = &cobra.Command{
	Use:   "import [dir]",
	Short: "Import generator-produced SVG files into the store",
	Long:  `Scans a directory tree for SVG files matching the configured include/exclude globs and stores each as a diagram, detecting its label list and register holder.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		root := "."
		if len(args) == 1 {
			root = args[0]
		}

		database, store, sessions, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer database.Close()
		defer sessions.Close()

		res, err := importer.Run(cmd.Context(), store, importer.Config{
			RootDir:  root,
			Include:  cfg.Import.Include,
			Exclude:  cfg.Import.Exclude,
			HolderID: cfg.Overlay.HolderID,
		}, progress.NewReporter())
		if err != nil {
			return err
		}

		fmt.Fprintf(os.Stderr, "Imported %d diagrams (%d skipped)\n", res.Imported, res.Skipped)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
