// Package domain defines the core business entities for Hymnal.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Hymn: A devotional lyric record replicated from the remote archive
//   - SyncResult: The outcome of one synchronisation pass
//   - SyncConfig: Tuning knobs for the replication protocol
//   - AppSettings: User-facing application settings
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
