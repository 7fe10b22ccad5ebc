/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/fulmenhq/nazna/internal/ops"
	"github.com/fulmenhq/nazna/internal/scaffold"
	"github.com/fulmenhq/nazna/pkg/buildinfo"
	"github.com/fulmenhq/nazna/pkg/config"
	"github.com/fulmenhq/nazna/pkg/exitcode"
	"github.com/fulmenhq/nazna/pkg/logger"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	LogLevel string
	JSON     bool
	NoColor  bool
	Dir      string
	DryRun   bool
}

func addGlobalFlags(fs *pflag.FlagSet) {
	fs.String("log-level", "warn", "Set log level (trace|debug|info|warn|error)")
	fs.Bool("json", false, "Output logs in JSON format")
	fs.Bool("no-color", false, "Disable colored output")
	fs.String("dir", "", "Project root (defaults to the current directory)")
	fs.Bool("dry-run", false, "Compute every change without writing to disk or running subprocesses")
}

func readGlobalFlags(fs *pflag.FlagSet) globalOptions {
	var o globalOptions
	o.LogLevel, _ = fs.GetString("log-level")
	o.JSON, _ = fs.GetBool("json")
	o.NoColor, _ = fs.GetBool("no-color")
	o.Dir, _ = fs.GetString("dir")
	o.DryRun, _ = fs.GetBool("dry-run")
	return o
}

// exitError carries a process exit code out of a RunE. A nil err means the
// command already reported its outcome on stdout.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	return exitcode.String(e.code)
}

func (e *exitError) Unwrap() error { return e.err }

// flagError marks a flag that failed to parse. The raw argument vector is
// then reported as an unknown command.
type flagError struct {
	cmd *cobra.Command
	err error
}

func (e *flagError) Error() string { return e.err.Error() }

func (e *flagError) Unwrap() error { return e.err }

// newHelpCommand replaces cobra's help command so `help <unknown>` is
// reported like any other unknown command.
func newHelpCommand(root *cobra.Command) *cobra.Command {
	return &cobra.Command{
		Use:   "help [command]",
		Short: "Help about any command",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return root.Help()
			}
			target, rest, err := root.Find(args)
			if err != nil || target == root || len(rest) > 0 {
				return runScaffold(cmd, append([]string{"help"}, args...))
			}
			return target.Help()
		},
	}
}

// newRootCommand creates a fresh root command instance.
// This factory pattern allows tests to create isolated command trees without shared state.
func newRootCommand() *cobra.Command {
	reg := ops.NewRegistry()

	cmd := &cobra.Command{
		Use:   "nazna",
		Short: "Keep a TypeScript project in line with the house standard",
		Long: `Nazna writes and reconciles the configuration files of a TypeScript project:
lint and compiler settings, the release workflow, git hooks, the ignore file
and the package manifest. Existing files are merged, never clobbered, and
running it twice changes nothing.

Every run prints one JSON document mapping each job to its outcome.

Examples:
   nazna fix          # Reconcile every managed file
   nazna init         # Add nazna, fix, install dependencies, allow direnv
   nazna build cli    # Emit the executable CLI wrapper
   nazna fix --dry-run --log-level info`,
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		// Every unrecognized vector, completion included, reaches the interpreter
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			initializeLogger(cmd)
		},
		// Anything that is not a subcommand is reported as an unknown command job
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScaffold(cmd, args)
		},
	}

	addGlobalFlags(cmd.PersistentFlags())
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return &flagError{cmd: c, err: err}
	})
	cmd.SetHelpCommand(newHelpCommand(cmd))

	cmd.Version = buildinfo.Version()
	cmd.SetVersionTemplate("nazna {{.Version}}\n")

	registerSubcommands(cmd, reg)

	// Grouped help by command group (Project → Support)
	cmd.SetHelpFunc(func(c *cobra.Command, _ []string) {
		if c != cmd {
			c.Println(c.Long)
			c.Println()
			c.Print(c.UsageString())
			return
		}
		c.Println(c.Long)
		c.Println()
		for _, group := range ops.Groups {
			c.Println(groupTitles[group])
			for _, r := range reg.GetCommandsByGroup(group) {
				c.Printf("  %-12s %s\n", r.Name, r.Description)
			}
			c.Println()
		}
		c.Println("Flags:")
		c.Print(c.UsageString())
	})

	return cmd
}

var groupTitles = map[ops.CommandGroup]string{
	ops.GroupProject: "Project Commands:",
	ops.GroupSupport: "Support Commands:",
}

// registerSubcommands adds all subcommands to the root command and files them
// in the help registry.
func registerSubcommands(root *cobra.Command, reg *ops.Registry) {
	subcommands := []struct {
		cmd   *cobra.Command
		group ops.CommandGroup
	}{
		{newFixCommand(), ops.GroupProject},
		{newInitCommand(), ops.GroupProject},
		{newBuildCommand(), ops.GroupProject},
		{newVersionCommand(), ops.GroupSupport},
	}
	for _, s := range subcommands {
		root.AddCommand(s.cmd)
		if err := reg.Register(s.cmd.Name(), s.group, s.cmd, s.cmd.Short); err != nil {
			panic(err)
		}
	}
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = newRootCommand()

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	os.Exit(execute(rootCmd, os.Args[1:]))
}

func execute(cmd *cobra.Command, argv []string) int {
	cmd.SetArgs(argv)
	err := cmd.Execute()

	var fe *flagError
	if errors.As(err, &fe) {
		initializeLogger(fe.cmd)
		logger.Debug("Flag parsing failed", logger.Err(fe.err))
		err = runScaffold(fe.cmd, argv)
	}

	if err == nil {
		return exitcode.Success
	}
	var ee *exitError
	if errors.As(err, &ee) {
		if ee.err != nil {
			logger.Error("Command failed", logger.Err(ee.err))
		}
		return ee.code
	}
	logger.Error("Command execution failed", logger.Err(err))
	return exitcode.UsageError
}

// runScaffold resolves the project, loads its configuration and hands the
// full argument vector to the interpreter.
func runScaffold(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	opts := readGlobalFlags(cmd.Flags())

	dir, err := resolveDir(opts.Dir)
	if err != nil {
		return &exitError{code: exitcode.UsageError, err: err}
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return &exitError{code: exitcode.ConfigError, err: err}
	}
	logger.Debug("Loaded configuration",
		logger.String("dir", dir),
		logger.String("package_manager", cfg.PackageManager),
		logger.Int("concurrency", cfg.Concurrency))

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	env := scaffold.NewEnv(dir, args, cmd.OutOrStdout(), cfg, opts.DryRun)
	if code := scaffold.Run(ctx, env); code != exitcode.Success {
		return &exitError{code: code}
	}
	return nil
}

func resolveDir(dir string) (string, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get working directory: %w", err)
		}
		dir = wd
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("project directory: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("project directory %s is not a directory", abs)
	}
	return abs, nil
}

// initializeLogger sets up the logger based on command flags
func initializeLogger(cmd *cobra.Command) {
	opts := readGlobalFlags(cmd.Flags())

	logCfg := logger.Config{
		Level:     logger.ParseLevel(opts.LogLevel, logger.WarnLevel),
		UseColor:  !opts.NoColor,
		JSON:      opts.JSON,
		Component: "nazna",
		DryRun:    opts.DryRun,
		Output:    cmd.ErrOrStderr(),
	}

	if err := logger.Initialize(logCfg); err != nil {
		// Fallback to stderr
		_, _ = os.Stderr.WriteString("Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(exitcode.ConfigError)
	}
}
