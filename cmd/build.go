/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import "github.com/spf13/cobra"

func newBuildCommand() *cobra.Command {
	build := &cobra.Command{
		Use:   "build",
		Short: "Build distribution artifacts",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScaffold(cmd, append([]string{"build"}, args...))
		},
	}

	build.AddCommand(&cobra.Command{
		Use:   "cli",
		Short: "Write the executable CLI wrapper (cli_output, default dist/cli.js)",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScaffold(cmd, append([]string{"build", "cli"}, args...))
		},
	})

	return build
}
