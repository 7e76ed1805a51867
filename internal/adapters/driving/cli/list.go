package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openhymnal/hymnal-cli/internal/core/domain"
)

var (
	listCategory string
	listPoet     string
	listReciter  string
	listLimit    int
	listOffset   int
	listJSON     bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List hymns in the local replica",
	Long: `Lists hymns from the local replica ordered by title.
Use the filter flags to narrow by category, poet or reciter;
at most one filter may be given.`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&listCategory, "category", "", "filter by category")
	listCmd.Flags().StringVar(&listPoet, "poet", "", "filter by poet")
	listCmd.Flags().StringVar(&listReciter, "reciter", "", "filter by reciter")
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 50, "maximum number of results")
	listCmd.Flags().IntVar(&listOffset, "offset", 0, "number of results to skip")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	if catalogService == nil {
		return errors.New("catalog service not configured")
	}

	filters := 0
	for _, f := range []string{listCategory, listPoet, listReciter} {
		if f != "" {
			filters++
		}
	}
	if filters > 1 {
		return errors.New("at most one of --category, --poet, --reciter may be given")
	}

	ctx := context.Background()
	page := domain.Page{Offset: listOffset, Limit: listLimit}

	var (
		hymns []domain.Hymn
		err   error
	)
	switch {
	case listCategory != "":
		hymns, err = catalogService.ByCategory(ctx, listCategory, page)
	case listPoet != "":
		hymns, err = catalogService.ByPoet(ctx, listPoet, page)
	case listReciter != "":
		hymns, err = catalogService.ByReciter(ctx, listReciter, page)
	default:
		hymns, err = catalogService.List(ctx, page)
	}
	if err != nil {
		return fmt.Errorf("listing hymns: %w", err)
	}

	if listJSON {
		return outputHymnsJSON(cmd, hymns)
	}
	return outputHymnsTable(cmd, hymns)
}

func outputHymnsJSON(cmd *cobra.Command, hymns []domain.Hymn) error {
	data, err := json.MarshalIndent(hymns, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling hymns: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputHymnsTable(cmd *cobra.Command, hymns []domain.Hymn) error {
	if len(hymns) == 0 {
		cmd.Println("No hymns found.")
		return nil
	}

	for i := range hymns {
		h := &hymns[i]
		cmd.Printf("  [%d] %s\n", h.ID, h.Title)
		if h.Poet != "" || h.Reciter != "" {
			cmd.Printf("      %s / %s\n", orDash(h.Poet), orDash(h.Reciter))
		}
		if h.Category != "" {
			cmd.Printf("      Category: %s\n", h.Category)
		}
	}
	cmd.Printf("\n%d hymn(s)\n", len(hymns))
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
