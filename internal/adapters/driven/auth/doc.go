// Package auth provides credential providers for the activity service.
//
// Credentials are resolved from several sources in order: the
// configuration file, the GARMIN_USERNAME and GARMIN_PASSWORD environment
// variables, and finally an interactive prompt. [ChainProvider] merges them
// field by field, so a username from the config file can be combined with a
// password typed at the terminal.
package auth
