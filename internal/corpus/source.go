package corpus

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"pdfsearch/internal/extractor"
)

// Source is a raw document keyed by a stable identifier.
type Source interface {
	ID() string
	Extract(ctx context.Context) (string, error)
}

// StaticSource is a Source with precomputed text or extraction error.
type StaticSource struct {
	Name string
	Text string
	Err  error
}

func (s StaticSource) ID() string { return s.Name }

func (s StaticSource) Extract(context.Context) (string, error) { return s.Text, s.Err }

type fileSource struct {
	id   string
	path string
	ext  extractor.Extractor
}

func (s fileSource) ID() string { return s.id }

func (s fileSource) Extract(ctx context.Context) (string, error) {
	return s.ext.Extract(ctx, s.path)
}

// DirSources lists the files under dir whose extension matches one of exts,
// ignoring case. Identifiers are file names, or slash-separated paths
// relative to dir when recursive is set. Sources are sorted by identifier.
func DirSources(dir string, exts []string, recursive bool, ext extractor.Extractor) ([]Source, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("open corpus directory %q: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("corpus location %q is not a directory", dir)
	}

	var sources []Source
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && !recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if !matchExt(path, exts) {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			rel = d.Name()
		}
		sources = append(sources, fileSource{id: filepath.ToSlash(rel), path: path, ext: ext})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk corpus directory %q: %w", dir, err)
	}
	sort.Slice(sources, func(i, j int) bool { return sources[i].ID() < sources[j].ID() })
	return sources, nil
}

func matchExt(path string, exts []string) bool {
	e := filepath.Ext(path)
	for _, want := range exts {
		if strings.EqualFold(e, want) {
			return true
		}
	}
	return false
}
