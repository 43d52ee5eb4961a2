package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"pdfsearch/internal/domain"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Index the folder and print system information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := bootstrap(cmd.Context(), modeCLI, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer a.Close()
		printInfo(cmd.OutOrStdout(), a.svc.Info())
		return nil
	},
}

func printInfo(w io.Writer, info domain.Info) {
	fmt.Fprintf(w, "Model:       %s\n", info.Model)
	fmt.Fprintf(w, "Location:    %s\n", info.Location)
	fmt.Fprintf(w, "Documents:   %d\n", info.Documents)
	fmt.Fprintf(w, "Total chars: %d\n", info.TotalChars)
	fmt.Fprintf(w, "Dimension:   %d\n", info.Dimension)
	if info.Summary != "" {
		fmt.Fprintf(w, "\nSummary: %s\n", info.Summary)
	}
}
