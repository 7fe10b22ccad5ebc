package work

import (
	"context"
	"fmt"
	"path"
	"runtime/debug"
	"time"

	"github.com/fulmenhq/nazna/pkg/logger"
	"github.com/fulmenhq/nazna/pkg/safeio"
	"golang.org/x/sync/errgroup"
)

// ExecutorConfig configures the executor
type ExecutorConfig struct {
	// MaxWorkers bounds concurrent jobs. Zero means one goroutine per job.
	MaxWorkers int
	// ProgressCallback observes each outcome as its job completes. It may be
	// called from several goroutines at once.
	ProgressCallback func(name string, outcome Outcome)
}

// ExecutionSummary provides a summary of one batch
type ExecutionSummary struct {
	TotalJobs     int
	Successful    int
	Failed        int
	TotalDuration time.Duration
}

// Executor runs a batch of jobs against a file-system capability. Every job
// runs to completion regardless of how its siblings fare.
type Executor struct {
	config ExecutorConfig
	fs     safeio.FS
}

// NewExecutor creates a new executor
func NewExecutor(fs safeio.FS, config ExecutorConfig) *Executor {
	if config.MaxWorkers < 0 {
		config.MaxWorkers = 0
	}
	return &Executor{config: config, fs: fs}
}

// Run executes every job concurrently and returns one outcome per job name.
// The returned error is reserved for batches that violate the job invariants;
// job failures are reported inside Results.
func (e *Executor) Run(ctx context.Context, jobs []Job) (Results, error) {
	if err := ValidateJobs(jobs); err != nil {
		return nil, err
	}

	logger.Debug(fmt.Sprintf("Starting execution of %d jobs", len(jobs)), logger.Int("max_workers", e.config.MaxWorkers))
	startTime := time.Now()

	h := &fileHandler{fs: e.fs}
	outcomes := make([]Outcome, len(jobs))

	// Workers never return an error, so the group never cancels siblings
	var g errgroup.Group
	if e.config.MaxWorkers > 0 {
		g.SetLimit(e.config.MaxWorkers)
	}
	for i, job := range jobs {
		g.Go(func() error {
			outcomes[i] = e.execute(ctx, h, job)
			if e.config.ProgressCallback != nil {
				e.config.ProgressCallback(job.Name(), outcomes[i])
			}
			return nil
		})
	}
	_ = g.Wait()

	results := make(Results, len(jobs))
	summary := ExecutionSummary{TotalJobs: len(jobs)}
	for i, job := range jobs {
		results[job.Name()] = outcomes[i]
		if outcomes[i].OK() {
			summary.Successful++
		} else {
			summary.Failed++
		}
	}
	summary.TotalDuration = time.Since(startTime)

	logger.Info("Execution completed",
		logger.Int("total_jobs", summary.TotalJobs),
		logger.Int("successful", summary.Successful),
		logger.Int("failed", summary.Failed),
		logger.Duration("total_duration", summary.TotalDuration))
	return results, nil
}

// execute converts a panicking handler into a failed outcome so one broken
// fixer cannot take the rest of the batch down with it.
func (e *Executor) execute(ctx context.Context, h Handler, job Job) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", logger.String("job", job.Name()), logger.String("stack", string(debug.Stack())))
			out = Failure(fmt.Errorf("job %s panicked: %v", job.Name(), r))
		}
	}()
	return job.Dispatch(ctx, h)
}

// fileHandler resolves jobs against the file-system capability.
type fileHandler struct {
	fs safeio.FS
}

func (h *fileHandler) write(p, content string) error {
	if dir := path.Dir(p); dir != "." && dir != "/" {
		if err := h.fs.MkdirAll(dir); err != nil {
			return err
		}
	}
	return h.fs.WriteFile(p, content)
}

func (h *fileHandler) Write(_ context.Context, job Write) Outcome {
	if err := h.write(job.Path, job.Content); err != nil {
		return Failure(err)
	}
	logger.Debug("Wrote file", logger.String("path", job.Path))
	return Success(FileResult{Path: job.Path, Action: ActionWritten})
}

func (h *fileHandler) WriteExecutable(_ context.Context, job WriteExecutable) Outcome {
	if err := h.write(job.Path, job.Content); err != nil {
		return Failure(err)
	}
	if err := h.fs.Chmod(job.Path, job.Mode); err != nil {
		return Failure(err)
	}
	logger.Debug("Wrote executable", logger.String("path", job.Path), logger.String("mode", fileMode(job.Mode)))
	return Success(FileResult{Path: job.Path, Action: ActionWritten, Mode: fileMode(job.Mode)})
}

func (h *fileHandler) Fix(ctx context.Context, job Fix) Outcome {
	current, err := h.fs.ReadFile(job.Path)
	existed := true
	switch {
	case err == nil:
	case safeio.IsNotExist(err):
		// Only a missing file falls back to the default content
		current = job.Default
		existed = false
	default:
		return Failure(err)
	}

	next, err := job.Fixer(ctx, current)
	if err != nil {
		logger.Debug("Fixer rejected content", logger.String("path", job.Path), logger.Err(err))
		return Failure(err)
	}

	if existed && next == current {
		return Success(FileResult{Path: job.Path, Action: ActionUnchanged})
	}
	if err := h.write(job.Path, next); err != nil {
		return Failure(err)
	}

	action := ActionUpdated
	if !existed {
		action = ActionCreated
	}
	logger.Debug("Fixed file", logger.String("path", job.Path), logger.String("action", string(action)))
	return Success(FileResult{Path: job.Path, Action: action})
}

func (h *fileHandler) Fail(_ context.Context, job Fail) Outcome {
	return Failure(job.Err)
}
