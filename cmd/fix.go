/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import "github.com/spf13/cobra"

func newFixCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "fix",
		Short: "Reconcile every managed configuration file",
		Long: `Fix brings the project's configuration in line with the house standard.

Static files (.eslintrc.json, tsconfig.json, .npmrc, git hooks, ...) are
rewritten. package.json, the release workflow and .gitignore are merged:
your own entries survive, required entries win on conflict. Every file is
handled concurrently and one failure never stops the others.

Examples:
  nazna fix
  nazna fix --dry-run
  nazna fix --dir ../widget`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScaffold(cmd, append([]string{"fix"}, args...))
		},
	}
}
