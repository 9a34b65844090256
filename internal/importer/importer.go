// Package importer bulk-loads generator-produced SVG files into the store.
package importer

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/genomeviz/exonview/internal/diagram"
	"github.com/genomeviz/exonview/internal/progress"
)

// Config controls one import run.
type Config struct {
	RootDir  string   // directory to scan
	Include  []string // glob patterns; only matching files are imported
	Exclude  []string // glob patterns; matching files are skipped
	HolderID string   // register holder id to look for in each document
}

// Result summarizes an import run.
type Result struct {
	Imported int
	Skipped  int
}

// Run scans the directory tree, imports every matching SVG into the store,
// and reports progress. Files that fail to parse are skipped with a
// warning; a single bad file never aborts the run.
func Run(ctx context.Context, store *diagram.Store, cfg Config, reporter progress.Reporter) (Result, error) {
	root, err := filepath.Abs(cfg.RootDir)
	if err != nil {
		return Result{}, fmt.Errorf("importer: resolve root: %w", err)
	}

	var paths []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil
		}
		if d.IsDir() {
			return nil
		}
		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		if !MatchesInclude(relPath, cfg.Include) || MatchesExclude(relPath, cfg.Exclude) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return Result{}, fmt.Errorf("importer: walking %s: %w", root, err)
	}

	var res Result
	reporter.Start(len(paths))
	defer reporter.Finish()

	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		relPath, _ := filepath.Rel(root, path)
		reporter.Update(i+1, relPath)

		if err := importOne(ctx, store, path, cfg.HolderID); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: skipping %s: %v\n", relPath, err)
			res.Skipped++
			continue
		}
		res.Imported++
	}
	return res, nil
}

// importOne reads one SVG file, detects its label list and register holder,
// and stores it under its base name.
func importOne(ctx context.Context, store *diagram.Store, path, holderID string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	svg := string(data)

	labelIDs, err := diagram.DetectLabels(svg)
	if err != nil {
		return fmt.Errorf("parsing: %w", err)
	}

	rec := &diagram.Diagram{
		Name:     strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		SVG:      svg,
		LabelIDs: labelIDs,
	}
	if diagram.DetectHolder(svg, holderID) {
		rec.HolderID = holderID
	}
	return store.Create(ctx, rec)
}
