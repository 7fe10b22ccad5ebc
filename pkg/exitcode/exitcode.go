/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/

// Package exitcode provides standardized exit codes for nazna
package exitcode

// Exit codes for the nazna CLI. A reconciliation run only ever exits with
// Success or JobsFailed; the remaining codes cover failures that happen
// before any job is scheduled.
const (
	Success     = 0
	JobsFailed  = 1
	ConfigError = 2
	UsageError  = 3
)

// GeneralError is kept as an alias of JobsFailed for call sites that report
// a failure without a job batch.
const GeneralError = JobsFailed

// String returns a human-readable description of the exit code
func String(code int) string {
	switch code {
	case Success:
		return "Success"
	case JobsFailed:
		return "One or more jobs failed"
	case ConfigError:
		return "Configuration error"
	case UsageError:
		return "Usage error"
	default:
		return "Unknown error"
	}
}

// FromOK maps an aggregate success flag onto the process exit code.
func FromOK(ok bool) int {
	if ok {
		return Success
	}
	return JobsFailed
}
