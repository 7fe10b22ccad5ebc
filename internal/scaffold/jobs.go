package scaffold

import (
	"github.com/fulmenhq/nazna/internal/assets"
	"github.com/fulmenhq/nazna/pkg/fixers"
	"github.com/fulmenhq/nazna/pkg/logger"
	"github.com/fulmenhq/nazna/pkg/work"
)

// ExecutableMode is applied to hooks and the CLI wrapper.
const ExecutableMode = 0o755

const defaultManifest = "{}\n"

// FixJobs builds the reconciliation batch for every managed file. A template
// that fails to render becomes a Fail job for its path so the rest of the
// batch still runs.
func FixJobs(env *Env) []work.Job {
	cfg := env.Config
	data := map[string]any{
		"run":     cfg.RunCommand(),
		"install": cfg.InstallCommand(),
	}

	var jobs []work.Job
	for _, a := range assets.Static {
		content, err := assets.Render(a.Template, data)
		switch {
		case err != nil:
			jobs = append(jobs, work.Fail{Label: a.Path, Err: err})
		case a.Mode != 0:
			jobs = append(jobs, work.WriteExecutable{Path: a.Path, Content: content, Mode: ExecutableMode})
		default:
			jobs = append(jobs, work.Write{Path: a.Path, Content: content})
		}
	}

	jobs = append(jobs, work.Fix{
		Path: assets.PackageJSON,
		Fixer: fixers.PackageJSON(fixers.PackageJSONOptions{
			DevDependencies: DevDependencies(),
			Scripts:         Scripts(cfg),
			Remote:          env.Remote,
		}),
		Default: defaultManifest,
	})

	if workflow, err := assets.Render(assets.ReleaseWorkflowTemplate, data); err != nil {
		jobs = append(jobs, work.Fail{Label: assets.ReleaseWorkflow, Err: err})
	} else {
		jobs = append(jobs, work.Fix{
			Path:    assets.ReleaseWorkflow,
			Fixer:   fixers.ReleaseWorkflow(RequiredSteps),
			Default: workflow,
		})
	}

	jobs = append(jobs, work.Fix{
		Path:    assets.GitIgnore,
		Fixer:   fixers.IgnoreFile(IgnorePatterns),
		Default: "",
	})

	if job, ok := flakeJob(env); ok {
		jobs = append(jobs, job)
	}

	return filterExcluded(env, jobs)
}

// flakeJob renders flake.nix when the manifest opts in through nazna.flake.
// The manifest is read as it is on disk, before this run fixes it.
func flakeJob(env *Env) (work.Job, bool) {
	manifest, err := env.FS.ReadFile(assets.PackageJSON)
	if err != nil {
		return nil, false
	}
	packages, ok := fixers.FlakePackages(manifest)
	if !ok {
		return nil, false
	}
	content, err := assets.Render(assets.FlakeTemplate, map[string]any{"packages": packages})
	if err != nil {
		return work.Fail{Label: assets.Flake, Err: err}, true
	}
	return work.Write{Path: assets.Flake, Content: content}, true
}

// BuildCLIJobs emits the executable CLI wrapper.
func BuildCLIJobs(env *Env) []work.Job {
	path := env.Config.CLIOutput
	content, err := assets.Template(assets.CLITemplate)
	if err != nil {
		return []work.Job{work.Fail{Label: path, Err: err}}
	}
	return []work.Job{work.WriteExecutable{Path: path, Content: content, Mode: ExecutableMode}}
}

func filterExcluded(env *Env, jobs []work.Job) []work.Job {
	kept := jobs[:0]
	for _, job := range jobs {
		if target := job.Target(); target != "" && env.Config.Excluded(target) {
			logger.Debug("Skipping excluded file", logger.String("path", target))
			continue
		}
		kept = append(kept, job)
	}
	return kept
}
