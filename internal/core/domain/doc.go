// Package domain defines the core business entities for fitedit.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Message: A decoded FIT message (FileIdentity, DeviceInfo or Other)
//   - Ledger: The set of files already uploaded from one directory
//   - BatchReport: The outcome of processing one directory
//   - Config: The explicit configuration value passed to services
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
