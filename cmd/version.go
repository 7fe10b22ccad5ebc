/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/fulmenhq/nazna/pkg/buildinfo"
)

func newVersionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the nazna version",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return runScaffold(cmd, append([]string{"version"}, args...))
			}
			extended, _ := cmd.Flags().GetBool("extended")
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "nazna %s\n", buildinfo.Version())
			if extended {
				fmt.Fprintf(out, "Binary version: %s\n", buildinfo.BinaryVersion)
				if mv := buildinfo.ModuleVersion(); mv != "" {
					fmt.Fprintf(out, "Module version: %s\n", mv)
				}
				fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
				fmt.Fprintf(out, "Platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
			}
			return nil
		},
	}
	cmd.Flags().Bool("extended", false, "Show detailed build information")
	return cmd
}
