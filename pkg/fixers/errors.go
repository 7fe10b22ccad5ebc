package fixers

import (
	"fmt"
	"strings"
)

// DecodeError reports managed content that does not parse or does not have
// the expected shape. It is never recovered by falling back to defaults.
type DecodeError struct {
	File     string
	Problems []string
	Err      error
}

func (e *DecodeError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("decode %s: %v", e.File, e.Err)
	case len(e.Problems) > 0:
		return fmt.Sprintf("%s has an unexpected shape: %s", e.File, strings.Join(e.Problems, "; "))
	default:
		return fmt.Sprintf("decode %s: invalid content", e.File)
	}
}

func (e *DecodeError) Unwrap() error { return e.Err }

func (e *DecodeError) Kind() string { return "decode_error" }

func (e *DecodeError) Detail() any {
	detail := map[string]any{"file": e.File}
	if len(e.Problems) > 0 {
		detail["problems"] = e.Problems
	}
	return detail
}

// MissingStepsError reports a workflow whose release job lacks required
// steps, or declares them out of order. Actual holds the declared step names
// filtered to the required set.
type MissingStepsError struct {
	Required []string
	Actual   []string
}

func (e *MissingStepsError) Error() string {
	return fmt.Sprintf("release workflow is missing required steps: want [%s] in order, found [%s]",
		strings.Join(e.Required, ", "), strings.Join(e.Actual, ", "))
}

func (e *MissingStepsError) Kind() string { return "policy_violation" }

func (e *MissingStepsError) Detail() any {
	actual := e.Actual
	if actual == nil {
		actual = []string{}
	}
	return map[string][]string{"required": e.Required, "actual": actual}
}
