// Package scaffold turns a command line into reconciliation work, runs it and
// reports the outcome.
package scaffold

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fulmenhq/nazna/internal/gitctx"
	"github.com/fulmenhq/nazna/internal/runner"
	"github.com/fulmenhq/nazna/pkg/config"
	"github.com/fulmenhq/nazna/pkg/exitcode"
	"github.com/fulmenhq/nazna/pkg/fixers"
	"github.com/fulmenhq/nazna/pkg/logger"
	"github.com/fulmenhq/nazna/pkg/safeio"
	"github.com/fulmenhq/nazna/pkg/work"
)

// Env is everything an invocation touches. Nothing is read from process
// globals.
type Env struct {
	Dir    string
	Args   []string
	Stdout io.Writer
	FS     safeio.FS
	Remote fixers.RemoteResolver
	Runner runner.Runner
	Config *config.Config
	DryRun bool
}

// NewEnv wires the production capabilities for the project rooted at dir.
// In dry-run mode writes land in memory.
func NewEnv(dir string, args []string, stdout io.Writer, cfg *config.Config, dryRun bool) *Env {
	var fs safeio.FS = safeio.NewOS(dir)
	if dryRun {
		fs = safeio.NewDryRun(fs)
	}
	r := runner.New()
	return &Env{
		Dir:    dir,
		Args:   args,
		Stdout: stdout,
		FS:     fs,
		Remote: &gitctx.Resolver{Dir: dir, Remote: cfg.GitRemote, Runner: r},
		Runner: r,
		Config: cfg,
		DryRun: dryRun,
	}
}

// Run interprets env.Args, executes the resulting work, writes the results
// document to env.Stdout and returns the process exit code.
func Run(ctx context.Context, env *Env) int {
	cmd, err := Interpret(env.Args)
	logger.Debug("Interpreted command", logger.String("command", cmd.String()), logger.Strings("args", env.Args))

	var results work.Results
	switch cmd {
	case CommandFix:
		results = execute(ctx, env, FixJobs(env))
	case CommandBuildCLI:
		results = execute(ctx, env, BuildCLIJobs(env))
	case CommandInit:
		results = runInit(ctx, env)
	default:
		results = execute(ctx, env, []work.Job{work.Fail{Label: "command", Err: err}})
	}

	if dr, ok := env.FS.(*safeio.DryRun); ok {
		if pending := dr.PendingPaths(); len(pending) > 0 {
			logger.Info(fmt.Sprintf("Dry run: %d file(s) would change", len(pending)), logger.Strings("paths", pending))
		}
	}

	if err := results.Encode(env.Stdout); err != nil {
		logger.Error("Failed to write results", logger.Err(err))
		return exitcode.JobsFailed
	}
	return exitcode.FromOK(results.OK())
}

func execute(ctx context.Context, env *Env, jobs []work.Job) work.Results {
	executor := work.NewExecutor(env.FS, work.ExecutorConfig{
		MaxWorkers: env.Config.Concurrency,
		ProgressCallback: func(name string, outcome work.Outcome) {
			if outcome.OK() {
				logger.Debug("Job succeeded", logger.String("job", name))
				return
			}
			logger.Debug("Job failed", logger.String("job", name), logger.Err(outcome.Errors[0]))
		},
	})
	results, err := executor.Run(ctx, jobs)
	if err != nil {
		return work.Results{"error:batch": work.Failure(err)}
	}
	return results
}

// StepStatus says how an init step ended.
type StepStatus string

const (
	StepDone    StepStatus = "done"
	StepSkipped StepStatus = "skipped"
)

// StepResult is the success value of a subprocess step.
type StepResult struct {
	Command string     `json:"command"`
	Status  StepStatus `json:"status"`
	Reason  string     `json:"reason,omitempty"`
}

// runInit adds the tool, fixes the project, installs dependencies and allows
// direnv, in that order. The first failed step ends the pipeline; every
// reached step is reported.
func runInit(ctx context.Context, env *Env) work.Results {
	cfg := env.Config
	results := work.Results{}

	add := append([]string{cfg.PackageManager}, cfg.AddDevArgs(cfg.ToolPackage)...)
	if !runStep(ctx, env, results, add) {
		return results
	}

	results.Merge(execute(ctx, env, FixJobs(env)))
	if !results.OK() {
		return results
	}

	install := append([]string{cfg.PackageManager}, cfg.InstallArgs()...)
	if !runStep(ctx, env, results, install) {
		return results
	}

	allow := []string{"direnv", "allow"}
	if _, err := env.Runner.LookPath("direnv"); err != nil && !env.DryRun {
		name := stepName(allow)
		results[name] = work.Success(StepResult{Command: strings.Join(allow, " "), Status: StepSkipped, Reason: "direnv not found on PATH"})
		return results
	}
	runStep(ctx, env, results, allow)
	return results
}

func stepName(argv []string) string {
	return "exec:" + strings.Join(argv, " ")
}

func runStep(ctx context.Context, env *Env, results work.Results, argv []string) bool {
	name := stepName(argv)
	command := strings.Join(argv, " ")
	if env.DryRun {
		results[name] = work.Success(StepResult{Command: command, Status: StepSkipped, Reason: "dry run"})
		return true
	}
	if _, err := env.Runner.Run(ctx, env.Dir, argv[0], argv[1:]...); err != nil {
		logger.Warn("Init step failed", logger.String("command", command), logger.Err(err))
		results[name] = work.Failure(err)
		return false
	}
	results[name] = work.Success(StepResult{Command: command, Status: StepDone})
	return true
}
