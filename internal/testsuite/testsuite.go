// Package testsuite describes which test files belong to the unit,
// integration and combined runs, and turns a selection into go test
// arguments.
//
// Go selects tests per package and build tag, not per file. Integration
// files carry the "integration" build tag, so a run that sets the tag
// compiles them and one that does not leaves them out.
package testsuite

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

const (
	NameUnit        = "unit"
	NameIntegration = "integration"
	NameAll         = "all"

	IntegrationTag = "integration"
)

var (
	ErrUnknownSuite = errors.New("unknown test suite")
	ErrNoTestFiles  = errors.New("no test files matched")
)

var commonExclude = []string{
	"vendor/**",
	"**/node_modules/**",
	"**/dist/**",
}

type Suite struct {
	Name    string
	Include []string
	Exclude []string
	Tags    []string
	// AllowEmpty makes a run with zero matched files a success.
	AllowEmpty bool
}

func Unit() Suite {
	return Suite{
		Name:    NameUnit,
		Include: []string{"**/*_test.go"},
		Exclude: append(clone(commonExclude), "**/*_integration_test.go"),
	}
}

func Integration() Suite {
	return Suite{
		Name:       NameIntegration,
		Include:    []string{"**/*_integration_test.go"},
		Exclude:    clone(commonExclude),
		Tags:       []string{IntegrationTag},
		AllowEmpty: true,
	}
}

func All() Suite {
	return Suite{
		Name:    NameAll,
		Include: []string{"**/*_test.go", "**/*_integration_test.go"},
		Exclude: clone(commonExclude),
		Tags:    []string{IntegrationTag},
	}
}

func Names() []string {
	return []string{NameUnit, NameIntegration, NameAll}
}

func Lookup(name string) (Suite, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case NameUnit:
		return Unit(), nil
	case NameIntegration:
		return Integration(), nil
	case NameAll, "combined":
		return All(), nil
	default:
		return Suite{}, fmt.Errorf("%w: %q (want one of %s)", ErrUnknownSuite, name, strings.Join(Names(), ", "))
	}
}

// Match reports whether the slash-separated path p is selected.
// Exclusions win over inclusions.
func (s Suite) Match(p string) bool {
	p = path.Clean(strings.TrimPrefix(p, "./"))
	for _, pat := range s.Exclude {
		if ok, _ := doublestar.Match(pat, p); ok {
			return false
		}
	}
	for _, pat := range s.Include {
		if ok, _ := doublestar.Match(pat, p); ok {
			return true
		}
	}
	return false
}

// Select returns the matched paths, sorted and deduplicated.
func (s Suite) Select(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if !s.Match(p) {
			continue
		}
		p = path.Clean(strings.TrimPrefix(p, "./"))
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Discover walks fsys and returns the files the suite selects. Directories
// the go tool ignores (leading "." or "_", testdata) are skipped.
func Discover(fsys fs.FS, s Suite) ([]string, error) {
	var files []string
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != "." && ignoredDir(d.Name()) {
				return fs.SkipDir
			}
			return nil
		}
		files = append(files, p)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk: %w", err)
	}

	matched := s.Select(files)
	if len(matched) == 0 && !s.AllowEmpty {
		return nil, fmt.Errorf("%w for suite %q", ErrNoTestFiles, s.Name)
	}
	return matched, nil
}

// Packages maps files to the go package patterns that contain them.
func Packages(files []string) []string {
	seen := map[string]struct{}{}
	var pkgs []string
	for _, f := range files {
		dir := path.Dir(path.Clean(f))
		pkg := "./" + dir
		if dir == "." {
			pkg = "."
		}
		if _, ok := seen[pkg]; ok {
			continue
		}
		seen[pkg] = struct{}{}
		pkgs = append(pkgs, pkg)
	}
	sort.Strings(pkgs)
	return pkgs
}

// GoTestArgs builds the argument list for `go test`. It returns nil when
// there is nothing to run.
func (s Suite) GoTestArgs(pkgs []string, extra ...string) []string {
	if len(pkgs) == 0 {
		return nil
	}
	args := []string{"test"}
	if len(s.Tags) > 0 {
		args = append(args, "-tags", strings.Join(s.Tags, ","))
	}
	args = append(args, extra...)
	return append(args, pkgs...)
}

func ignoredDir(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == "testdata"
}

func clone(s []string) []string {
	return append([]string(nil), s...)
}
