package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"pdfsearch/internal/config"
	"pdfsearch/internal/corpus"
	"pdfsearch/internal/embedding"
	"pdfsearch/internal/extractor"
	"pdfsearch/internal/logging"
	"pdfsearch/internal/metrics"
	"pdfsearch/internal/service"
)

type runMode int

const (
	modeCLI runMode = iota
	modeTUI
)

// app holds the wired components shared by every command.
type app struct {
	cfg      *config.AppConfig
	logger   *zap.Logger
	registry *prometheus.Registry
	embedder embedding.Embedder
	svc      *service.Service
	closeLog func()
}

// Close releases the embedding model and flushes logs.
func (a *app) Close() {
	if c, ok := a.embedder.(embedding.Closer); ok {
		if err := c.Close(); err != nil {
			a.logger.Warn("closing embedder", zap.Error(err))
		}
	}
	a.closeLog()
}

func loadConfig() (*config.AppConfig, error) {
	var (
		cfg *config.AppConfig
		err error
	)
	if flags.config != "" {
		cfg, err = config.Load(flags.config)
	} else {
		cfg, _, err = config.LoadDefault()
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if flags.embedder != "" {
		cfg.ApplyEmbedderType(flags.embedder)
	}
	if flags.model != "" {
		cfg.Embedder.Model = flags.model
	}
	if flags.dir != "" {
		cfg.Corpus.Dir = flags.dir
	}
	if flags.verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func embedderOptions(cfg *config.AppConfig) embedding.Options {
	opts := embedding.Options{
		Type:      cfg.Embedder.Type,
		Model:     cfg.Embedder.Model,
		CacheDir:  cfg.Embedder.CacheDir,
		MaxLength: cfg.Embedder.MaxLength,
		BatchSize: cfg.Embedder.BatchSize,
		Normalize: cfg.Embedder.Normalize,
	}
	if o := cfg.Embedder.OpenAI; o != nil {
		opts.OpenAIBaseURL = o.BaseURL
		opts.OpenAIAPIKeyEnv = o.APIKeyEnv
		opts.OpenAITimeout = time.Duration(o.TimeoutSecs) * time.Second
		opts.OpenAIMaxRetries = o.MaxRetries
	}
	return opts
}

// bootstrap loads the corpus and builds the index. It returns only once the
// service is Ready; any error is fatal to the command.
func bootstrap(ctx context.Context, mode runMode, stderr io.Writer) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logOut := stderr
	if mode == modeTUI && cfg.Log.File == "" {
		// the terminal belongs to the UI; warnings are echoed below instead
		logOut = io.Discard
	}
	logger, closeLog, err := logging.New(cfg.Log, logOut)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	opts := embedderOptions(cfg)
	emb, err := embedding.New(opts)
	if err != nil {
		closeLog()
		return nil, err
	}
	a := &app{cfg: cfg, logger: logger, registry: reg, embedder: emb, closeLog: closeLog}

	if ctx == nil {
		ctx = context.Background()
	}
	c, warnings, err := corpus.NewLoader(logger).LoadDir(ctx, cfg.Corpus.Dir, cfg.Corpus.Extensions, cfg.Corpus.Recursive, extractor.NewPDF())
	m.AddSkipped(len(warnings))
	if mode == modeTUI && cfg.Log.File == "" {
		for _, w := range warnings {
			fmt.Fprintf(stderr, "warning: skipped %s\n", w)
		}
	}
	if err != nil {
		a.Close()
		return nil, err
	}

	a.svc = service.New(emb,
		service.WithLogger(logger),
		service.WithMetrics(m),
		service.WithPreviewLength(cfg.Search.PreviewLength),
		service.WithSummarySentences(cfg.Summarizer.MaxSentences),
		service.WithModelName(opts.ModelID()),
	)
	if err := a.svc.Build(ctx, c); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}
