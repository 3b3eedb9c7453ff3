package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/andreasstove999/versus/api-service-go/internal/testsuite"
)

func newTestsCmd(run runFunc) *cobra.Command {
	var (
		suiteName string
		root      string
	)

	cmd := &cobra.Command{
		Use:   "tests",
		Short: "List or run a test suite (unit, integration, all)",
	}
	cmd.PersistentFlags().StringVar(&suiteName, "suite", testsuite.NameUnit, "suite to use: unit, integration or all")
	cmd.PersistentFlags().StringVar(&root, "root", ".", "module root to scan")

	discover := func() (testsuite.Suite, []string, error) {
		s, err := testsuite.Lookup(suiteName)
		if err != nil {
			return testsuite.Suite{}, nil, err
		}
		files, err := testsuite.Discover(os.DirFS(root), s)
		return s, files, err
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "Print the test files the suite selects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, files, err := discover()
			if err != nil {
				return err
			}
			for _, f := range files {
				fmt.Fprintln(cmd.OutOrStdout(), f)
			}
			return nil
		},
	}

	runCmd := &cobra.Command{
		Use:   "run [-- go test flags]",
		Short: "Run go test over the packages the suite selects",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, files, err := discover()
			if err != nil {
				return err
			}
			goArgs := s.GoTestArgs(testsuite.Packages(files), args...)
			if goArgs == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "no %s test files, nothing to run\n", s.Name)
				return nil
			}
			return run(cmd.Context(), root, "go", goArgs...)
		},
	}

	cmd.AddCommand(list, runCmd)
	return cmd
}
