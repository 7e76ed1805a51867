package cli

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/openhymnal/hymnal-cli/internal/core/domain"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronise the local replica",
	Long: `Runs one incremental synchronisation pass against the remote archive.
Changed and deleted hymns since the last sync are applied to the local
replica. At most one full pass runs per calendar day; further runs the
same day are skipped.`,
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, _ []string) error {
	if syncEngine == nil {
		return errors.New("sync engine not configured")
	}

	cmd.Println("Synchronising...")
	result := syncEngine.Run(context.Background())

	switch {
	case result.Error != "":
		return errors.New(result.Error)

	case result.Skip == domain.SkipQuota:
		cmd.Println("Already synchronised today; next pass runs tomorrow.")

	case result.Skip == domain.SkipBusy:
		cmd.Println("A synchronisation pass is already running.")

	case result.RecordsProcessed == 0:
		cmd.Println("Replica is up to date.")

	default:
		cmd.Printf("Applied %d records (%d updated, %d removed) in %s.\n",
			result.RecordsProcessed, result.ActiveRecords, result.DeletedRecords,
			result.Duration.Round(time.Millisecond))
	}

	return nil
}
