package work

import (
	"context"
	"fmt"
	"os"
)

// Fixer computes the next content of a managed file from its current
// content. A Fix job hands the job's default content to the fixer when the
// file does not exist yet.
type Fixer func(ctx context.Context, current string) (string, error)

// Job is one declarative unit of reconciliation work. The set of job kinds is
// closed: Write, WriteExecutable, Fix and Fail. Adding a kind means adding a
// method to Handler, which breaks every handler until it covers the new kind.
type Job interface {
	// Name is unique within a batch and keys the job's outcome.
	Name() string
	// Target is the project-relative path the job writes, or "" for Fail.
	Target() string
	// Dispatch routes the job to the matching Handler method.
	Dispatch(ctx context.Context, h Handler) Outcome

	sealed()
}

// Handler resolves each job kind into its outcome.
type Handler interface {
	Write(ctx context.Context, job Write) Outcome
	WriteExecutable(ctx context.Context, job WriteExecutable) Outcome
	Fix(ctx context.Context, job Fix) Outcome
	Fail(ctx context.Context, job Fail) Outcome
}

// Write unconditionally writes Content to Path, creating parent directories
// first.
type Write struct {
	Path    string
	Content string
}

func (j Write) Name() string   { return "write:" + j.Path }
func (j Write) Target() string { return j.Path }
func (j Write) Dispatch(ctx context.Context, h Handler) Outcome {
	return h.Write(ctx, j)
}
func (Write) sealed() {}

// WriteExecutable is a Write followed by a chmod to Mode.
type WriteExecutable struct {
	Path    string
	Content string
	Mode    os.FileMode
}

func (j WriteExecutable) Name() string   { return "write-executable:" + j.Path }
func (j WriteExecutable) Target() string { return j.Path }
func (j WriteExecutable) Dispatch(ctx context.Context, h Handler) Outcome {
	return h.WriteExecutable(ctx, j)
}
func (WriteExecutable) sealed() {}

// Fix reads Path, runs Fixer over it (or over Default when the file is
// missing) and writes the result back when it differs.
type Fix struct {
	Path    string
	Fixer   Fixer
	Default string
}

func (j Fix) Name() string   { return "fix:" + j.Path }
func (j Fix) Target() string { return j.Path }
func (j Fix) Dispatch(ctx context.Context, h Handler) Outcome {
	return h.Fix(ctx, j)
}
func (Fix) sealed() {}

// Fail is a job that has already failed, used to report invalid input
// through the same result document as real work.
type Fail struct {
	Label string
	Err   error
}

func (j Fail) Name() string   { return "error:" + j.Label }
func (j Fail) Target() string { return "" }
func (j Fail) Dispatch(ctx context.Context, h Handler) Outcome {
	return h.Fail(ctx, j)
}
func (Fail) sealed() {}

// DuplicateJobError reports two jobs in one batch sharing a name.
type DuplicateJobError struct {
	Name string
}

func (e *DuplicateJobError) Error() string {
	return fmt.Sprintf("duplicate job name %q in batch", e.Name)
}

// ValidateJobs checks the batch invariants: every job has a non-empty name and
// no two jobs share one.
func ValidateJobs(jobs []Job) error {
	seen := make(map[string]bool, len(jobs))
	for i, job := range jobs {
		if job == nil {
			return fmt.Errorf("job %d is nil", i)
		}
		name := job.Name()
		if seen[name] {
			return &DuplicateJobError{Name: name}
		}
		seen[name] = true
	}
	return nil
}
