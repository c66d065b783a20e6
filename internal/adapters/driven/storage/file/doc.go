// Package file provides JSON file implementations of driven storage ports.
//
//   - LedgerStore: the per-directory .uploaded_files.json ledger
//   - SessionStore: the upload session kept between runs
//
// Both stores replace their files atomically: data is written to a temporary
// file in the target directory and renamed over the original.
package file
