package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/genomeviz/exonview/internal/config"
	"github.com/genomeviz/exonview/internal/db"
	"github.com/genomeviz/exonview/internal/diagram"
	"github.com/genomeviz/exonview/internal/labelbox"
	"github.com/genomeviz/exonview/internal/textmetrics"
)

// openStore loads config, opens the SQLite database in the data directory,
// and builds the diagram store plus session manager most commands need.
func openStore(cfg *config.Config) (*db.DB, *diagram.Store, *diagram.Manager, error) {
	database, err := db.Open(filepath.Join(cfg.DataDir, "exonview.db"))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("opening database: %w", err)
	}

	measurer, err := newMeasurer(cfg)
	if err != nil {
		database.Close()
		return nil, nil, nil, err
	}

	store := diagram.NewStore(database)
	sessions := diagram.NewManager(store, measurer, boxOptions(cfg))
	return database, store, sessions, nil
}

// newMeasurer builds the text measurer from config: a custom font file
// when set, the embedded Go Regular otherwise.
func newMeasurer(cfg *config.Config) (*textmetrics.Measurer, error) {
	if cfg.Label.FontFile != "" {
		m, err := textmetrics.NewFromFile(cfg.Label.FontFile)
		if err != nil {
			return nil, fmt.Errorf("loading label font: %w", err)
		}
		return m, nil
	}
	m, err := textmetrics.New()
	if err != nil {
		return nil, fmt.Errorf("loading built-in font: %w", err)
	}
	return m, nil
}

// boxOptions maps label config onto labelbox options.
func boxOptions(cfg *config.Config) labelbox.Options {
	return labelbox.Options{
		Fill:        cfg.Label.Fill,
		Stroke:      cfg.Label.Stroke,
		StrokeWidth: cfg.Label.StrokeWidth,
		FontSize:    cfg.Label.FontSize,
	}
}
