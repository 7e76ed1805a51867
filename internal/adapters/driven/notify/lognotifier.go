// Package notify provides SyncNotifier implementations.
package notify

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/openhymnal/hymnal-cli/internal/core/domain"
	"github.com/openhymnal/hymnal-cli/internal/core/ports/driven"
)

// Ensure LogNotifier implements the interface.
var _ driven.SyncNotifier = (*LogNotifier)(nil)

// LogNotifier writes sync outcomes to a writer, one line per result.
// It is the notifier used by the CLI, where stderr is the only
// presentation surface available.
type LogNotifier struct {
	out io.Writer
}

// NewLogNotifier creates a notifier writing to the given writer.
// A nil writer defaults to stderr.
func NewLogNotifier(out io.Writer) *LogNotifier {
	if out == nil {
		out = os.Stderr
	}
	return &LogNotifier{out: out}
}

// Notify writes a one-line summary of the result.
func (n *LogNotifier) Notify(result domain.SyncResult) {
	switch {
	case result.Success:
		fmt.Fprintf(n.out, "sync complete: %d records (%d active, %d deleted) in %s\n",
			result.RecordsProcessed, result.ActiveRecords, result.DeletedRecords,
			result.Duration.Round(time.Millisecond))
	case result.Error != "":
		fmt.Fprintf(n.out, "sync failed: %s\n", result.Error)
	default:
		fmt.Fprintf(n.out, "sync skipped: %s\n", result.Skip)
	}
}
