package bump

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ariel-frischer/ripple/internal/commit"
	"github.com/ariel-frischer/ripple/internal/errors"
)

// CommitSource supplies the parsed commit range for a package directory.
// The boundary tag is exclusive; an empty boundary means the entire history.
// Implementations must return an empty sequence, not an error, when there
// are no commits in the range.
type CommitSource interface {
	CommitsSince(ctx context.Context, dir, sinceTag string) ([]commit.Record, error)
}

// TagSource lists version tags reachable from a directory, most recent
// first. An empty result means no release has been tagged yet.
type TagSource interface {
	Tags(ctx context.Context, dir, prefix string) ([]string, error)
}

// Package is one node of a resolution batch: a releasable unit with its
// declared dependency names. Dependency names that match another package in
// the same batch are internal edges; all others are external and ignored.
type Package struct {
	// Name identifies the package within the batch.
	Name string
	// Dir is the package's working directory, passed to the commit and
	// tag sources.
	Dir string
	// Version is the current semantic version string from the manifest.
	Version string
	// TagPrefix scopes release tags to this package ("api/v", "v"). When
	// empty the resolver's default prefix applies.
	TagPrefix string
	// Deps holds the declared dependency names in manifest order.
	Deps []string
}

// Result is the resolved bump for one package. It is created exactly once
// per package per run and never mutated after the resolver caches it.
type Result struct {
	Package     *Package
	Severity    Severity
	NextVersion string
	Reasons     commit.Reasons
}

// Released reports whether the package's version actually changes.
func (r *Result) Released() bool {
	return r.Severity != None
}

// cell is a single-assignment future for one package's Result. The done
// channel closes only after the package's own history query and all of its
// transitive dependency resolutions have completed.
type cell struct {
	done chan struct{}
	res  *Result
	err  error
}

// Resolver computes one Result per package by memoized depth-first
// resolution over the internal dependency graph. The cache slot claimed
// before recursing is the sole synchronization point: it guarantees at most
// one history query per package per run, whether resolution runs
// single-threaded or with parallel workers, and makes diamond dependencies
// safe without topological pre-sorting.
type Resolver struct {
	commits     CommitSource
	tags        TagSource
	tagPrefix   string
	maxParallel int

	packages map[string]*Package

	mu    sync.Mutex
	cells map[string]*cell
	order []*Result
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithTagPrefix sets the tag prefix handed to the tag source when locating
// each package's release boundary.
func WithTagPrefix(prefix string) ResolverOption {
	return func(r *Resolver) {
		r.tagPrefix = prefix
	}
}

// WithMaxParallel sets the maximum number of packages resolved concurrently.
func WithMaxParallel(n int) ResolverOption {
	return func(r *Resolver) {
		if n >= 1 {
			r.maxParallel = n
		}
	}
}

// NewResolver creates a Resolver for one run over the given package set.
// The internal dependency graph is validated eagerly: a circular internal
// dependency returns a configuration error naming the cycle path, so a
// claim can never observe its own in-flight placeholder later on.
func NewResolver(commits CommitSource, tags TagSource, pkgs []*Package, opts ...ResolverOption) (*Resolver, error) {
	r := &Resolver{
		commits:     commits,
		tags:        tags,
		maxParallel: 4,
		packages:    make(map[string]*Package, len(pkgs)),
		cells:       make(map[string]*cell, len(pkgs)),
	}

	for _, p := range pkgs {
		if _, exists := r.packages[p.Name]; exists {
			return nil, errors.NewConfigError(
				fmt.Sprintf("duplicate package name %q in resolution set", p.Name),
				"Give every package manifest a unique name",
			)
		}
		r.packages[p.Name] = p
	}

	for _, opt := range opts {
		opt(r)
	}

	if cycle := detectCycle(r.packages); cycle != nil {
		return nil, errors.NewConfigError(
			fmt.Sprintf("circular internal dependency: %s", strings.Join(cycle, " -> ")),
			"Break the dependency cycle between the listed packages",
		)
	}

	return r, nil
}

// ResolveAll resolves every package in the batch and returns the results in
// first-completed order, the order the changelog composer iterates later.
// Packages are launched concurrently up to the parallelism limit; shared
// dependencies are still resolved exactly once. Any failure aborts the
// whole run with no partial output.
func (r *Resolver) ResolveAll(ctx context.Context) ([]*Result, error) {
	names := make([]string, 0, len(r.packages))
	for name := range r.packages {
		names = append(names, name)
	}
	sort.Strings(names)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.maxParallel)

	for _, name := range names {
		name := name
		g.Go(func() error {
			_, err := r.Resolve(gctx, name)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	results := make([]*Result, len(r.order))
	copy(results, r.order)
	return results, nil
}

// Resolve returns the package's Result, computing it at most once per run.
// Concurrent demand for the same package blocks on the first claimant's
// future rather than re-querying history.
func (r *Resolver) Resolve(ctx context.Context, name string) (*Result, error) {
	pkg, ok := r.packages[name]
	if !ok {
		return nil, errors.NewConfigError(
			fmt.Sprintf("package %q is not part of this resolution set", name),
		)
	}

	r.mu.Lock()
	if c, claimed := r.cells[name]; claimed {
		r.mu.Unlock()
		select {
		case <-c.done:
			return c.res, c.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	c := &cell{done: make(chan struct{})}
	r.cells[name] = c
	r.mu.Unlock()

	res, err := r.compute(ctx, pkg)
	if err == nil {
		// Record completion order before publishing the result: a dependent
		// woken by the done channel must never slot into the order ahead of
		// the dependency it waited on.
		r.mu.Lock()
		r.order = append(r.order, res)
		r.mu.Unlock()
	}
	c.res, c.err = res, err
	close(c.done)

	return res, err
}

// compute derives the package's own severity from its commit range, then
// recursively resolves internal dependencies and applies the
// capping-toward-Patch policy before calculating the next version.
func (r *Resolver) compute(ctx context.Context, pkg *Package) (*Result, error) {
	reasons, err := r.ownReasons(ctx, pkg)
	if err != nil {
		return nil, err
	}
	own := ResolveOwn(reasons)

	var notes []commit.DependencyNote
	for _, depName := range pkg.Deps {
		if _, internal := r.packages[depName]; !internal {
			continue
		}
		depRes, err := r.Resolve(ctx, depName)
		if err != nil {
			return nil, err
		}
		// Only dependencies that bumped below the major ceiling cap the
		// dependent; None contributes nothing and Major is handled by the
		// dependency's own release.
		if depRes.Severity == Patch || depRes.Severity == Minor {
			notes = append(notes, commit.DependencyNote{
				Package: depName,
				Kind:    depRes.Severity.String(),
			})
		}
	}

	final := CapToDependencyBump(own, len(notes) > 0)
	reasons.Deps = notes

	next, err := NextVersion(pkg.Version, final)
	if err != nil {
		return nil, err
	}

	return &Result{
		Package:     pkg,
		Severity:    final,
		NextVersion: next,
		Reasons:     reasons,
	}, nil
}

// ownReasons queries the tag boundary and commit range for one package and
// classifies the records. Source failures are fatal for the run.
func (r *Resolver) ownReasons(ctx context.Context, pkg *Package) (commit.Reasons, error) {
	prefix := pkg.TagPrefix
	if prefix == "" {
		prefix = r.tagPrefix
	}

	tags, err := r.tags.Tags(ctx, pkg.Dir, prefix)
	if err != nil {
		return commit.Reasons{}, errors.WrapWithMessage(err, errors.ExternalQuery,
			fmt.Sprintf("listing release tags for %s", pkg.Name))
	}

	boundary := ""
	if len(tags) > 0 {
		boundary = tags[0]
	}

	records, err := r.commits.CommitsSince(ctx, pkg.Dir, boundary)
	if err != nil {
		return commit.Reasons{}, errors.WrapWithMessage(err, errors.ExternalQuery,
			fmt.Sprintf("reading commit history for %s", pkg.Name))
	}

	return commit.Classify(records), nil
}

// detectCycle runs a depth-first search over the internal dependency edges
// and returns the first cycle path found, or nil when the graph is acyclic.
func detectCycle(pkgs map[string]*Package) []string {
	deps := make(map[string][]string, len(pkgs))
	names := make([]string, 0, len(pkgs))
	for name, p := range pkgs {
		names = append(names, name)
		for _, d := range p.Deps {
			if _, internal := pkgs[d]; internal {
				deps[name] = append(deps[name], d)
			}
		}
	}
	sort.Strings(names)

	visited := make(map[string]bool)
	stack := make(map[string]bool)
	for _, name := range names {
		if !visited[name] {
			if cycle := cycleDFS(name, deps, visited, stack, nil); cycle != nil {
				return cycle
			}
		}
	}
	return nil
}

// cycleDFS performs depth-first search for cycle detection.
func cycleDFS(name string, deps map[string][]string, visited, stack map[string]bool, path []string) []string {
	visited[name] = true
	stack[name] = true
	path = append(path, name)

	for _, dep := range deps[name] {
		if !visited[dep] {
			if cycle := cycleDFS(dep, deps, visited, stack, path); cycle != nil {
				return cycle
			}
		} else if stack[dep] {
			return buildCyclePath(path, dep)
		}
	}

	stack[name] = false
	return nil
}

// buildCyclePath trims the DFS path to the cycle itself and closes it.
func buildCyclePath(path []string, start string) []string {
	for i, name := range path {
		if name == start {
			return append(path[i:], start)
		}
	}
	return append(path, start)
}
