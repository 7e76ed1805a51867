package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/openhymnal/hymnal-cli/internal/core/domain"
)

var showCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a hymn's lyrics",
	Long: `Prints one hymn with its lyrics. Whether the original text, the
translation or both are shown follows the display.lyrics setting.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	if catalogService == nil {
		return errors.New("catalog service not configured")
	}

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid hymn ID %q", args[0])
	}

	hymn, err := catalogService.Get(context.Background(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("hymn %d not found in the local replica", id)
		}
		return fmt.Errorf("loading hymn: %w", err)
	}

	display := domain.DisplayBoth
	if settingsService != nil {
		if settings, err := settingsService.Get(); err == nil {
			display = settings.Display
		}
	}

	cmd.Printf("%s\n", hymn.Title)
	if hymn.Poet != "" {
		cmd.Printf("Poet:    %s\n", hymn.Poet)
	}
	if hymn.Reciter != "" {
		cmd.Printf("Reciter: %s\n", hymn.Reciter)
	}
	if hymn.Category != "" {
		cmd.Printf("Category: %s\n", hymn.Category)
	}
	if hymn.MediaURL != "" {
		cmd.Printf("Media:   %s\n", hymn.MediaURL)
	}
	cmd.Println()

	if display != domain.DisplayTranslation && hymn.Lyrics != "" {
		cmd.Println(hymn.Lyrics)
	}
	if display == domain.DisplayBoth && hymn.Lyrics != "" && hymn.Translation != "" {
		cmd.Println()
		cmd.Println("---")
		cmd.Println()
	}
	if display != domain.DisplayOriginal && hymn.Translation != "" {
		cmd.Println(hymn.Translation)
	}

	return nil
}
