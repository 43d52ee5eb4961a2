package corpus

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"pdfsearch/internal/domain"
	"pdfsearch/internal/extractor"
)

var (
	errEmptyText   = errors.New("no extractable text")
	errDuplicateID = errors.New("duplicate document identifier")
)

// Loader extracts sources into a corpus, skipping the ones that fail.
type Loader struct {
	logger *zap.Logger
}

// NewLoader creates a loader. A nil logger discards warnings.
func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{logger: logger}
}

// Load extracts every source in order. Sources that fail or yield only
// whitespace are skipped with a warning. If nothing survives the result is an
// *domain.EmptyCorpusError naming location.
func (l *Loader) Load(ctx context.Context, location string, sources []Source) (*Corpus, []domain.Warning, error) {
	var (
		docs     []domain.Document
		warnings []domain.Warning
		seen     = make(map[string]struct{}, len(sources))
	)
	warn := func(source string, reason error) {
		warnings = append(warnings, domain.Warning{Source: source, Reason: reason})
		l.logger.Warn("skipping document", zap.String("source", source), zap.Error(reason))
	}

	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return nil, warnings, err
		}
		id := src.ID()
		if _, dup := seen[id]; dup {
			warn(id, errDuplicateID)
			continue
		}
		text, err := src.Extract(ctx)
		if err != nil {
			warn(id, &domain.ExtractionError{Source: id, Err: err})
			continue
		}
		if strings.TrimSpace(text) == "" {
			warn(id, errEmptyText)
			continue
		}
		seen[id] = struct{}{}
		docs = append(docs, domain.Document{ID: id, Text: text})
	}

	if len(docs) == 0 {
		return nil, warnings, &domain.EmptyCorpusError{Location: location}
	}
	l.logger.Info("corpus loaded",
		zap.String("location", location),
		zap.Int("documents", len(docs)),
		zap.Int("skipped", len(warnings)),
	)
	return New(location, docs), warnings, nil
}

// LoadDir is Load over the matching files of a directory.
func (l *Loader) LoadDir(ctx context.Context, dir string, exts []string, recursive bool, ext extractor.Extractor) (*Corpus, []domain.Warning, error) {
	sources, err := DirSources(dir, exts, recursive, ext)
	if err != nil {
		return nil, nil, err
	}
	if len(sources) == 0 {
		l.logger.Warn("no matching files in corpus directory", zap.String("dir", dir), zap.Strings("extensions", exts))
	}
	c, warnings, err := l.Load(ctx, dir, sources)
	if err != nil {
		return nil, warnings, fmt.Errorf("load corpus: %w", err)
	}
	return c, warnings, nil
}
