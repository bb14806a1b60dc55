// Package exitcode provides standardized exit codes for woodfmt
package exitcode

import "github.com/fulmenhq/woodfmt/pkg/fault"

// Exit codes for woodfmt CLI
const (
	Success      = 0
	GeneralError = 1
	ConfigError  = 2
)

// String returns a human-readable description of the exit code
func String(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case ConfigError:
		return "Configuration error"
	default:
		return "Unknown error"
	}
}

// For maps an error returned by a command to the process exit status.
// Every failure, including a failed check, a missing repository and a failed
// hook run, exits 1; only an invalid configuration file is distinguished.
func For(err error) int {
	if err == nil {
		return Success
	}
	if fault.Is(err, fault.KindConfig) {
		return ConfigError
	}
	return GeneralError
}
