// Package main implements the pdfsearch CLI: semantic search over a folder
// of PDF documents.
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"pdfsearch/internal/tui"
)

var (
	version = "dev"

	flags struct {
		config   string
		dir      string
		model    string
		embedder string
		verbose  bool
	}
)

func main() {
	_ = godotenv.Load()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pdfsearch",
	Short: "Semantic search over a folder of PDF documents",
	Long: `pdfsearch extracts the text of every PDF in a folder, embeds each document
and answers natural-language queries with the closest documents.

Without a subcommand it opens an interactive query box.

Examples:
  # Search the PDFs in ./papers interactively
  pdfsearch --dir ./papers

  # One-shot query using the offline TF-IDF embedder
  pdfsearch search --embedder tfidf -k 5 neural networks`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	RunE:          runTUI,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.config, "config", "", "path to YAML config (default ./config.yaml or ~/.config/pdfsearch/config.yaml)")
	pf.StringVar(&flags.dir, "dir", "", "folder containing the documents (overrides corpus.dir)")
	pf.StringVar(&flags.model, "model", "", "embedding model identifier (overrides embedder.model)")
	pf.StringVar(&flags.embedder, "embedder", "", "embedder backend: fastembed, tfidf or openai")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(searchCmd, serveCmd, infoCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	a, err := bootstrap(cmd.Context(), modeTUI, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	m := tui.New(a.svc, tui.Options{TopK: a.cfg.Search.TopK, ExportDir: a.cfg.Export.Dir})
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
