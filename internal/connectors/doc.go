// Package connectors holds the adapters that talk to things outside the
// process: the Garmin Connect upload service and the local filesystem.
package connectors
