// Package release orchestrates a full resolution run: it assembles the
// package set from configuration and manifests, drives the bump resolver
// across the dependency graph, and aggregates the outcome into the summary
// the CLI reports and optionally persists.
package release

import (
	"context"
	"time"

	"github.com/Masterminds/semver/v3"

	"github.com/ariel-frischer/ripple/internal/bump"
	"github.com/ariel-frischer/ripple/internal/changelog"
	"github.com/ariel-frischer/ripple/internal/config"
	"github.com/ariel-frischer/ripple/internal/manifest"
)

// PackageRelease is the per-package outcome of a run.
type PackageRelease struct {
	// Name is the package name from its manifest.
	Name string
	// Dir is the package directory relative to the repository root.
	Dir string
	// Current is the version before the run; Next the version after.
	Current string
	Next    string
	// Severity is the resolved bump level, after dependency capping.
	Severity bump.Severity
	// Fragment is the package's dedicated changelog fragment. Empty when
	// the package has nothing visible to report.
	Fragment string
	// ChangelogPath is where Fragment is inserted, relative to the
	// repository root.
	ChangelogPath string
}

// Released reports whether this package's version changes.
func (p PackageRelease) Released() bool {
	return p.Severity != bump.None
}

// Summary is the aggregate outcome of a run. It is complete and immutable
// once Run returns: writing it to disk is a separate, optional step.
type Summary struct {
	// Release is true iff any package resolved to a severity above None.
	Release bool
	// Version is the aggregate next version: the package's own next
	// version for a single-package run, the umbrella version otherwise.
	Version string
	// Changelog is the aggregate changelog fragment. Empty when the run
	// has nothing visible to report.
	Changelog string
	// Packages lists per-package outcomes in the order their resolutions
	// completed, which is also the changelog iteration order.
	Packages []PackageRelease
}

// Runner wires the sources, the manifest store, and the configuration into
// one run. A Runner performs at most one resolution per package per Run
// call; nothing is shared between calls.
type Runner struct {
	commits bump.CommitSource
	tags    bump.TagSource
	store   *manifest.Store
	cfg     *config.Configuration
	date    time.Time
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithDate pins the date stamped into changelog headings. The zero default
// means today.
func WithDate(d time.Time) RunnerOption {
	return func(r *Runner) {
		r.date = d
	}
}

// NewRunner creates a Runner over the given collaborators.
func NewRunner(commits bump.CommitSource, tags bump.TagSource, store *manifest.Store, cfg *config.Configuration, opts ...RunnerOption) *Runner {
	r := &Runner{
		commits: commits,
		tags:    tags,
		store:   store,
		cfg:     cfg,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run resolves every configured package and aggregates the outcome. It
// performs no writes. Any failure aborts the run with no partial summary.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	dirs := r.cfg.Packages
	if len(dirs) == 0 {
		// A repository without a package list is a single package rooted
		// at the repository itself.
		dirs = []string{"."}
	}

	pkgs := make([]*bump.Package, 0, len(dirs))
	manifests := make(map[string]*manifest.Manifest, len(dirs))
	for _, dir := range dirs {
		m, err := r.store.Load(dir)
		if err != nil {
			return nil, err
		}
		manifests[m.Name] = m
		pkgs = append(pkgs, &bump.Package{
			Name:      m.Name,
			Dir:       dir,
			Version:   m.Version,
			TagPrefix: m.TagPrefix,
			Deps:      m.Dependencies,
		})
	}

	resolver, err := bump.NewResolver(r.commits, r.tags, pkgs,
		bump.WithTagPrefix(r.cfg.TagPrefix),
		bump.WithMaxParallel(r.cfg.MaxParallel),
	)
	if err != nil {
		return nil, err
	}

	results, err := resolver.ResolveAll(ctx)
	if err != nil {
		return nil, err
	}

	return r.summarize(results, manifests)
}

// summarize folds the resolver results into the aggregate summary.
func (r *Runner) summarize(results []*bump.Result, manifests map[string]*manifest.Manifest) (*Summary, error) {
	opts := changelog.Options{RemoteURL: r.cfg.RemoteURL, Date: r.date}

	aggregate := bump.None
	entries := make([]changelog.Entry, 0, len(results))
	packages := make([]PackageRelease, 0, len(results))
	for _, res := range results {
		aggregate = bump.Max(aggregate, res.Severity)

		entry := changelog.Entry{
			Package: res.Package.Name,
			Version: res.NextVersion,
			Reasons: res.Reasons,
		}
		entries = append(entries, entry)

		m := manifests[res.Package.Name]
		packages = append(packages, PackageRelease{
			Name:          res.Package.Name,
			Dir:           res.Package.Dir,
			Current:       res.Package.Version,
			Next:          res.NextVersion,
			Severity:      res.Severity,
			Fragment:      changelog.RenderFragment(entry, opts),
			ChangelogPath: r.store.ChangelogPath(res.Package.Dir, m),
		})
	}

	sum := &Summary{
		Release:  aggregate != bump.None,
		Packages: packages,
	}

	if len(packages) == 1 {
		sum.Version = packages[0].Next
		sum.Changelog = packages[0].Fragment
		return sum, nil
	}

	rootNext, err := bump.NextVersion(r.rootVersion(results), aggregate)
	if err != nil {
		return nil, err
	}
	sum.Version = rootNext
	sum.Changelog = changelog.RenderUmbrella(rootNext, entries, opts)
	return sum, nil
}

// rootVersion picks the umbrella base version for a multi-package run: the
// configured root_version when set, otherwise the highest current package
// version. Unparseable versions are skipped; they only fail the run when
// their own package actually bumps.
func (r *Runner) rootVersion(results []*bump.Result) string {
	if r.cfg.RootVersion != "" {
		return r.cfg.RootVersion
	}

	highest := "0.0.0"
	var highestParsed *semver.Version
	for _, res := range results {
		v, err := semver.NewVersion(res.Package.Version)
		if err != nil {
			continue
		}
		if highestParsed == nil || v.GreaterThan(highestParsed) {
			highest, highestParsed = res.Package.Version, v
		}
	}
	return highest
}

// Write persists a summary: bumped manifests, per-package changelog
// fragments, and the umbrella changelog for multi-package runs. Packages
// that did not bump are untouched; a quiet run writes nothing at all.
func (r *Runner) Write(sum *Summary) error {
	for _, p := range sum.Packages {
		if !p.Released() {
			continue
		}
		if err := r.store.WriteVersion(p.Dir, p.Next); err != nil {
			return err
		}
		if err := r.store.InsertChangelog(p.ChangelogPath, p.Fragment, r.cfg.ChangelogOffset); err != nil {
			return err
		}
	}

	// The umbrella fragment only exists for multi-package runs; a single
	// package's dedicated fragment already landed next to its manifest.
	if len(sum.Packages) > 1 && sum.Release {
		if err := r.store.InsertChangelog(r.cfg.ChangelogFile, sum.Changelog, r.cfg.ChangelogOffset); err != nil {
			return err
		}
	}
	return nil
}
