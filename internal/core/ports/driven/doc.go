// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - Codec: Decodes and encodes FIT containers
//   - LedgerStore: Per-directory upload ledger persistence
//   - ActivityService: Authenticates and uploads activities
//   - CredentialProvider: Supplies credentials when no session is stored
//   - EventSource: Filesystem creation events for monitor mode
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - SessionStore: Without it, every batch authenticates from credentials.
//   - HistoryStore: Without it, processing attempts are only logged.
//   - MetricsRecorder: Without it, no metrics are exported.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
