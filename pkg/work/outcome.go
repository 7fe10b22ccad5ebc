package work

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
)

// Action describes what a file job did to its target.
type Action string

const (
	ActionCreated   Action = "created"
	ActionUpdated   Action = "updated"
	ActionUnchanged Action = "unchanged"
	ActionWritten   Action = "written"
)

// FileResult is the success value of every file job.
type FileResult struct {
	Path   string `json:"path"`
	Action Action `json:"action"`
	Mode   string `json:"mode,omitempty"`
}

func fileMode(mode os.FileMode) string {
	if mode == 0 {
		return ""
	}
	return fmt.Sprintf("%04o", mode.Perm())
}

// Outcome is either a produced value or a non-empty list of errors.
type Outcome struct {
	Value  any
	Errors []error
}

// Success wraps a produced value.
func Success(value any) Outcome {
	return Outcome{Value: value}
}

// Failure collects errors, flattening errors.Join trees so each cause is
// reported on its own.
func Failure(errs ...error) Outcome {
	var flat []error
	for _, err := range errs {
		flat = append(flat, flatten(err)...)
	}
	if len(flat) == 0 {
		flat = []error{errors.New("unknown failure")}
	}
	return Outcome{Errors: flat}
}

func flatten(err error) []error {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []error
		for _, e := range joined.Unwrap() {
			out = append(out, flatten(e)...)
		}
		return out
	}
	return []error{err}
}

// OK reports whether the outcome carries no errors.
func (o Outcome) OK() bool { return len(o.Errors) == 0 }

// MarshalJSON renders {"ok": value} or {"errors": [...]}.
func (o Outcome) MarshalJSON() ([]byte, error) {
	if o.OK() {
		return json.Marshal(struct {
			OK any `json:"ok"`
		}{OK: o.Value})
	}
	infos := make([]ErrorInfo, 0, len(o.Errors))
	for _, err := range o.Errors {
		infos = append(infos, Describe(err))
	}
	return json.Marshal(struct {
		Errors []ErrorInfo `json:"errors"`
	}{Errors: infos})
}

// Results maps job name to outcome for one invocation.
type Results map[string]Outcome

// OK is the logical AND of every outcome.
func (r Results) OK() bool {
	for _, o := range r {
		if !o.OK() {
			return false
		}
	}
	return true
}

// Failed returns the names of failed jobs, sorted.
func (r Results) Failed() []string {
	var names []string
	for name, o := range r {
		if !o.OK() {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Merge copies other into r. Names already present in r are overwritten.
func (r Results) Merge(other Results) {
	for name, o := range other {
		r[name] = o
	}
}

// Encode writes the results as a 2-space indented JSON object.
func (r Results) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]Outcome(r))
}
