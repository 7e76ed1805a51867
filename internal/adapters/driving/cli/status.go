package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show replica status",
	Long: `Shows the state of the local replica: record count, last successful
sync, remote reachability and remaining sync passes for today.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if syncEngine == nil {
		return errors.New("sync engine not configured")
	}

	status, err := syncEngine.Status(context.Background())
	if err != nil {
		return fmt.Errorf("reading status: %w", err)
	}

	cmd.Println("Replica Status")
	cmd.Println("==============")
	cmd.Printf("  Records:            %d\n", status.LocalRecords)

	if status.LastSync.IsZero() {
		cmd.Println("  Last sync:          never")
	} else {
		cmd.Printf("  Last sync:          %s\n", status.LastSync.Local().Format("2006-01-02 15:04"))
	}

	online := "offline"
	if status.Online {
		online = "online"
	}
	cmd.Printf("  Remote:             %s\n", online)
	cmd.Printf("  Remaining today:    %d\n", status.RemainingAttempts)

	return nil
}
