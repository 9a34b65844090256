package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/genomeviz/exonview/internal/config"
	"github.com/genomeviz/exonview/internal/diagram"
)

var renderOut string

var renderCmd = &cobra.Command{
	Use:   "render <file.svg>",
	Short: "Render one SVG with label backgrounds synthesized",
	Long:  `Loads a generator-produced SVG, runs the label background pass once, and writes the finalized document to stdout or a file. No server or database involved.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}
		svg := string(data)

		labelIDs, err := diagram.DetectLabels(svg)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", args[0], err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "detected %d labels\n", len(labelIDs))
		}

		measurer, err := newMeasurer(cfg)
		if err != nil {
			return err
		}

		holderID := ""
		if diagram.DetectHolder(svg, cfg.Overlay.HolderID) {
			holderID = cfg.Overlay.HolderID
		}

		doc, err := diagram.Open(svg, diagram.DocumentOptions{
			LabelIDs: labelIDs,
			HolderID: holderID,
			Box:      boxOptions(cfg),
			Measurer: measurer,
		})
		if err != nil {
			return err
		}
		if err := doc.Finalize(); err != nil {
			return err
		}

		out := doc.Render()
		if renderOut == "" || renderOut == "-" {
			fmt.Print(out)
			return nil
		}
		if err := os.WriteFile(renderOut, []byte(out), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", renderOut, err)
		}
		return nil
	},
}

func init() {
	renderCmd.Flags().StringVarP(&renderOut, "output", "o", "", "output file (default stdout)")
	rootCmd.AddCommand(renderCmd)
}
