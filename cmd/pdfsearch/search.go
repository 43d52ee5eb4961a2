package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"pdfsearch/internal/domain"
	"pdfsearch/internal/tui"
)

var searchFlags struct {
	k      int
	full   bool
	export bool
}

var searchCmd = &cobra.Command{
	Use:   "search <query...>",
	Short: "Run one query and print the ranked documents",
	Long: `Run one query against the indexed folder and print the ranked documents.

Examples:
  pdfsearch search neural networks
  pdfsearch search -k 5 --full "gradient descent"
  pdfsearch search --export "bread recipes"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchFlags.k, "top-k", "k", 0, "number of results (default search.top_k)")
	searchCmd.Flags().BoolVar(&searchFlags.full, "full", false, "print full document text instead of the preview")
	searchCmd.Flags().BoolVar(&searchFlags.export, "export", false, "write each result's full text to export.dir")
}

func runSearch(cmd *cobra.Command, args []string) error {
	a, err := bootstrap(cmd.Context(), modeCLI, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	k := a.cfg.Search.TopK
	if cmd.Flags().Changed("top-k") {
		k = searchFlags.k
	}
	results, err := a.svc.Search(cmd.Context(), strings.Join(args, " "), k)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	printResults(out, results, searchFlags.full)

	if searchFlags.export {
		for _, r := range results {
			path, err := tui.SaveExport(a.svc, r.ID, a.cfg.Export.Dir)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "saved %s\n", path)
		}
	}
	return nil
}

func printResults(w io.Writer, results []domain.SearchResult, full bool) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No results.")
		return
	}
	for _, r := range results {
		fmt.Fprintln(w, tui.FormatTitle(r))
		text := r.Preview
		if full {
			text = r.FullText
		}
		fmt.Fprintln(w, text)
		fmt.Fprintln(w)
	}
}
