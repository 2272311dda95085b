package main

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/gxo-labs/gxs/internal/domain/robotworker"

	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information and the available heuristics",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "gxs version %s\n", version)
			fmt.Fprintf(out, "commit: %s\n", commit)
			fmt.Fprintf(out, "built: %s\n", buildDate)
			fmt.Fprintf(out, "go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "os/arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
			fmt.Fprintf(out, "heuristics: %s\n", strings.Join(robotworker.Heuristics.List(), ", "))
			fmt.Fprintf(out, "cost functions: %s\n", strings.Join(robotworker.Costs.List(), ", "))
		},
	}
}
