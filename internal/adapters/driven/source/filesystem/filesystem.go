// Package filesystem provides a paper source backed by local text
// files. Each .txt or .md file becomes one raw paper record with the
// filename as its title.
package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/scholia-cli/internal/core/domain"
	"github.com/custodia-labs/scholia-cli/internal/core/ports/driven"
)

// Ensure Source implements the interface.
var _ driven.PaperSource = (*Source)(nil)

// loadableExtensions are the file extensions treated as paper content.
var loadableExtensions = map[string]bool{
	".txt": true,
	".md":  true,
}

// Source loads papers from local files and directories.
type Source struct{}

// NewSource creates a new filesystem paper source.
func NewSource() *Source {
	return &Source{}
}

// Name identifies the source for logging and summaries.
func (s *Source) Name() string {
	return "filesystem"
}

// Fetch loads raw records from the given paths. Each path may be a
// file or a directory; directories are walked recursively. The max
// argument caps the total number of records loaded (<=0 means no cap).
func (s *Source) Fetch(ctx context.Context, paths []string, max int) ([]domain.RawPaper, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("filesystem: %w: no paths given", domain.ErrInvalidInput)
	}

	var raws []domain.RawPaper
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("filesystem: stat %s: %w", path, err)
		}

		if info.IsDir() {
			raws, err = s.loadDir(ctx, path, raws, max)
		} else {
			raws, err = s.loadFile(path, raws)
		}
		if err != nil {
			return nil, err
		}

		if max > 0 && len(raws) >= max {
			return raws[:max], nil
		}
	}
	return raws, nil
}

// Loadable reports whether a path has a supported content extension.
func Loadable(path string) bool {
	return loadableExtensions[strings.ToLower(filepath.Ext(path))]
}

// loadDir walks a directory and loads every supported file, in the
// deterministic order filepath.WalkDir visits them.
func (s *Source) loadDir(ctx context.Context, dir string, raws []domain.RawPaper, max int) ([]domain.RawPaper, error) {
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || !Loadable(path) {
			return nil
		}
		if max > 0 && len(raws) >= max {
			return filepath.SkipAll
		}

		raws, err = s.loadFile(path, raws)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("filesystem: walk %s: %w", dir, err)
	}
	return raws, nil
}

// loadFile reads one file into a raw record. The title comes from the
// filename with its extension stripped.
func (s *Source) loadFile(path string, raws []domain.RawPaper) ([]domain.RawPaper, error) {
	if !Loadable(path) {
		return nil, fmt.Errorf("filesystem: %w: unsupported file type %s", domain.ErrInvalidInput, path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("filesystem: read %s: %w", path, err)
	}

	name := filepath.Base(path)
	title := strings.TrimSuffix(name, filepath.Ext(name))

	return append(raws, domain.RawPaper{
		Title:   title,
		Summary: strings.TrimSpace(string(content)),
		Link:    path,
	}), nil
}
