// Package fit implements the activity file codec for the Flexible and
// Interoperable Data Transfer (FIT) container on top of
// github.com/muktihari/fit.
//
// Decode keeps each decoded proto.Message as the message's frame, so
// re-encoding carries every field and developer field of messages the
// rewriter did not touch. Only the attribution fields of file_id and
// device_info messages are ever rewritten.
package fit
