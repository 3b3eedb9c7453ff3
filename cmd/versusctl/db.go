package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/andreasstove999/versus/api-service-go/internal/config"
	"github.com/andreasstove999/versus/api-service-go/internal/db"
)

var errNoDatabaseURL = errors.New(config.EnvDatabaseURL + " is not set")

func newDBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Database utilities",
	}

	var timeout time.Duration
	check := &cobra.Command{
		Use:   "check",
		Short: "Connect to DATABASE_URL and run the probe queries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFrom(os.LookupEnv)
			if err != nil {
				return err
			}
			if cfg.DatabaseURL == "" {
				return errNoDatabaseURL
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			conn, err := db.Connect(ctx, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer conn.Close(context.Background())

			st, err := db.Check(ctx, conn)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok database=%s value=%d latency=%s\n", st.Database, st.Value, st.Latency.Round(time.Millisecond))
			return nil
		},
	}
	check.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "connect and query timeout")

	cmd.AddCommand(check)
	return cmd
}
