//go:build integration

package db_test

import (
	"context"
	"flag"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreasstove999/versus/api-service-go/internal/db"
	"github.com/andreasstove999/versus/api-service-go/internal/testutil"
)

var postgresContainer = flag.Bool("postgres-container", false, "start a throwaway Postgres when DATABASE_URL is unset")

// gate is resolved once in TestMain and read by every test in this file.
var gate testutil.DatabaseGate

func TestMain(m *testing.M) {
	flag.Parse()

	gate = testutil.ResolveDatabaseGate(os.LookupEnv)

	stop := func() {}
	if *postgresContainer {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		var err error
		gate, stop, err = gate.WithContainer(ctx, testutil.StartPostgres)
		cancel()
		if err != nil {
			fmt.Fprintf(os.Stderr, "db integration: %v\n", err)
			os.Exit(1)
		}
	}

	code := m.Run()
	stop()
	os.Exit(code)
}

func TestDatabaseIntegration(t *testing.T) {
	gate.Require(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	conn, err := db.Connect(ctx, gate.URL)
	require.NoError(t, err)
	t.Cleanup(func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer closeCancel()
		_ = conn.Close(closeCtx)
	})

	t.Run("select one", func(t *testing.T) {
		v, err := db.SelectOne(ctx, conn)
		require.NoError(t, err)
		assert.Equal(t, 1, v)
	})

	t.Run("current database", func(t *testing.T) {
		name, err := db.CurrentDatabase(ctx, conn)
		require.NoError(t, err)
		assert.NotEmpty(t, name)
	})

	t.Run("check through pool", func(t *testing.T) {
		pool, err := db.NewPool(ctx, gate.URL)
		require.NoError(t, err)
		defer pool.Close()

		st, err := db.Check(ctx, pool)
		require.NoError(t, err)
		assert.Equal(t, 1, st.Value)
		assert.NotEmpty(t, st.Database)
	})
}

// Always runs, so the skip decision itself is covered.
func TestDatabaseGateDecision(t *testing.T) {
	require.NoError(t, gate.Verify(os.LookupEnv))
}
