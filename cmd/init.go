/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import "github.com/spf13/cobra"

func newInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Add nazna to a project, fix it and install dependencies",
		Long: `Init runs, in order and stopping at the first failure:

  1. <package manager> add -D nazna
  2. nazna fix
  3. <package manager> install
  4. direnv allow (skipped when direnv is not on PATH)

With --dry-run the fix runs in memory and no subprocess is started.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScaffold(cmd, append([]string{"init"}, args...))
		},
	}
}
