// Package testutil decides which external resources a test run may use.
//
// The decision is made once, by the caller, and handed to the suite as a
// value. Suites never branch on the environment at package scope.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/andreasstove999/versus/api-service-go/internal/config"
)

const EnvDatabaseURL = config.EnvDatabaseURL

type GateSource string

const (
	SourceNone      GateSource = "none"
	SourceEnv       GateSource = "env"
	SourceContainer GateSource = "container"
)

type DatabaseGate struct {
	URL    string
	Source GateSource
}

// ResolveDatabaseGate reads DATABASE_URL through lookup. A blank value
// counts as unset.
func ResolveDatabaseGate(lookup func(string) (string, bool)) DatabaseGate {
	if v, ok := lookup(EnvDatabaseURL); ok && strings.TrimSpace(v) != "" {
		return DatabaseGate{URL: strings.TrimSpace(v), Source: SourceEnv}
	}
	return DatabaseGate{Source: SourceNone}
}

// WithContainer upgrades an unconfigured gate by starting a throwaway
// Postgres. A gate already pointing at a database is returned unchanged.
func (g DatabaseGate) WithContainer(ctx context.Context, start func(context.Context) (string, func(), error)) (DatabaseGate, func(), error) {
	if g.Configured() {
		return g, func() {}, nil
	}
	url, stop, err := start(ctx)
	if err != nil {
		return g, func() {}, fmt.Errorf("start postgres container: %w", err)
	}
	return DatabaseGate{URL: url, Source: SourceContainer}, stop, nil
}

func (g DatabaseGate) Configured() bool {
	return g.URL != ""
}

// Require skips t when no database is available.
func (g DatabaseGate) Require(t testing.TB) {
	t.Helper()
	if !g.Configured() {
		t.Skipf("%s not set; skipping database test", EnvDatabaseURL)
	}
}

var ErrGateMismatch = errors.New("database gate disagrees with environment")

// Verify checks that g is the decision ResolveDatabaseGate would make from
// lookup, and that a configured gate points at Postgres. A blank value
// counts as unset on both sides.
func (g DatabaseGate) Verify(lookup func(string) (string, bool)) error {
	raw, _ := lookup(EnvDatabaseURL)
	set := strings.TrimSpace(raw) != ""

	switch g.Source {
	case SourceEnv:
		if !set || strings.TrimSpace(raw) != g.URL {
			return fmt.Errorf("%w: source env but %s=%q", ErrGateMismatch, EnvDatabaseURL, raw)
		}
	case SourceContainer:
		if set {
			return fmt.Errorf("%w: container started although %s is set", ErrGateMismatch, EnvDatabaseURL)
		}
	default:
		if g.Configured() || set {
			return fmt.Errorf("%w: gate unconfigured but %s=%q", ErrGateMismatch, EnvDatabaseURL, raw)
		}
		return nil
	}

	if !HasPostgresScheme(g.URL) {
		return fmt.Errorf("%w: %s is not a postgres url", ErrGateMismatch, EnvDatabaseURL)
	}
	return nil
}

// HasPostgresScheme reports whether url looks like a Postgres connection URL.
func HasPostgresScheme(url string) bool {
	u := strings.ToLower(url)
	return strings.HasPrefix(u, "postgres://") || strings.HasPrefix(u, "postgresql://")
}
