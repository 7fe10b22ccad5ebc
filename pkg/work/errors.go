package work

import "errors"

// ErrorInfo is the serialized form of a job error.
type ErrorInfo struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Detail  any    `json:"detail,omitempty"`
}

// Kinded errors name their category in the result document.
type Kinded interface {
	Kind() string
}

// Detailed errors attach structured diagnostics.
type Detailed interface {
	Detail() any
}

// Describe converts err into its serialized form. The first Kinded and
// Detailed errors in the wrap chain win.
func Describe(err error) ErrorInfo {
	info := ErrorInfo{Kind: "error", Message: err.Error()}
	var k Kinded
	if errors.As(err, &k) {
		info.Kind = k.Kind()
	}
	var d Detailed
	if errors.As(err, &d) {
		info.Detail = d.Detail()
	}
	return info
}

// Kind implements Kinded.
func (e *DuplicateJobError) Kind() string { return "duplicate_job" }
