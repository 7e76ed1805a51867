// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - ReplicaStore: local hymn replica plus engine-private sync state
//   - RemoteSource: the authoritative remote hymn collection
//   - FavoriteStore: the user's favourites set
//   - TriggerStateStore: persisted trigger self-throttle timestamps
//   - ConfigStore: application configuration
//
// # Optional Interfaces
//
//   - SyncNotifier: reporting callback for sync outcomes. A nil notifier
//     means outcomes are logged only.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
