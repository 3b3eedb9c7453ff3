// Command versusctl is the developer tool for the Versus API: it lists and
// runs the unit, integration and combined test suites and probes the
// configured database.
package main

import (
	"context"
	"os"
	"os/exec"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// runFunc executes an external command. Swapped out in tests.
type runFunc func(ctx context.Context, dir, name string, args ...string) error

func execRun(ctx context.Context, dir, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	return cmd.Run()
}

func newRootCmd(run runFunc) *cobra.Command {
	root := &cobra.Command{
		Use:          "versusctl",
		Short:        "Developer tooling for the Versus API",
		SilenceUsage: true,
	}
	root.AddCommand(newTestsCmd(run), newDBCmd())
	return root
}

func main() {
	_ = godotenv.Load()

	if err := newRootCmd(execRun).Execute(); err != nil {
		os.Exit(1)
	}
}
