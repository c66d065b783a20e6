// Package filesystem delivers activity file creation events from a directory
// tree using fsnotify. Directories created under the root are watched as they
// appear, and activity files already inside them are reported.
package filesystem
