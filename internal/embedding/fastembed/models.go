// Package fastembed runs sentence-embedding models locally through ONNX
// Runtime. Builds without cgo get a stub that fails at construction.
package fastembed

import (
	"errors"
	"fmt"
)

// DefaultModel is a 384-dimension sentence-transformers model.
const DefaultModel = "sentence-transformers/all-MiniLM-L6-v2"

// ErrUnsupportedModel is returned for model names with no known ONNX export.
var ErrUnsupportedModel = errors.New("fastembed: unsupported model")

var errClosed = errors.New("fastembed: embedder closed")

type modelSpec struct {
	code      string
	dimension int
}

// models maps accepted names onto fastembed model codes.
var models = map[string]modelSpec{
	"sentence-transformers/all-MiniLM-L6-v2": {"fast-all-MiniLM-L6-v2", 384},
	"all-MiniLM-L6-v2":                       {"fast-all-MiniLM-L6-v2", 384},
	"BAAI/bge-small-en-v1.5":                 {"fast-bge-small-en-v1.5", 384},
	"BAAI/bge-small-en":                      {"fast-bge-small-en", 384},
	"BAAI/bge-base-en-v1.5":                  {"fast-bge-base-en-v1.5", 768},
	"BAAI/bge-base-en":                       {"fast-bge-base-en", 768},
	"BAAI/bge-small-zh-v1.5":                 {"fast-bge-small-zh-v1.5", 512},
}

func init() {
	// fastembed codes are accepted as-is
	for _, spec := range []modelSpec{
		{"fast-all-MiniLM-L6-v2", 384},
		{"fast-bge-small-en-v1.5", 384},
		{"fast-bge-small-en", 384},
		{"fast-bge-base-en-v1.5", 768},
		{"fast-bge-base-en", 768},
		{"fast-bge-small-zh-v1.5", 512},
	} {
		models[spec.code] = spec
	}
}

// Config holds configuration for the local model.
type Config struct {
	// Model defaults to DefaultModel.
	Model string
	// CacheDir receives downloaded model files. Defaults to ./local_cache.
	CacheDir string
	// MaxLength is the maximum input sequence length. Defaults to 512.
	MaxLength int
	// BatchSize bounds the texts sent to the runtime at once. Defaults to 32.
	BatchSize int
}

func resolve(model string) (modelSpec, error) {
	if model == "" {
		model = DefaultModel
	}
	spec, ok := models[model]
	if !ok {
		return modelSpec{}, fmt.Errorf("%w %q (supported: %s, BAAI/bge-small-en-v1.5, BAAI/bge-base-en-v1.5)", ErrUnsupportedModel, model, DefaultModel)
	}
	return spec, nil
}
