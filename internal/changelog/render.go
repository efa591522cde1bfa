// Package changelog composes markdown release fragments from resolved bump
// results and splices them into existing changelog files. Rendering is
// deterministic: the same entries and options always produce identical
// output.
package changelog

import (
	"fmt"
	"strings"
	"time"

	"github.com/ariel-frischer/ripple/internal/commit"
)

// Entry is the renderable outcome for one package: its name, the version
// it is about to become, and the classified reasons for the release.
type Entry struct {
	Package string
	Version string
	Reasons commit.Reasons
}

// Options control fragment rendering.
type Options struct {
	// RemoteURL is the repository base URL used to build commit links.
	// Empty disables links.
	RemoteURL string
	// Date is stamped into version headings. The zero value means today.
	Date time.Time
}

func (o Options) dateStamp() string {
	d := o.Date
	if d.IsZero() {
		d = time.Now()
	}
	return d.Format("2006-01-02")
}

// RenderFragment renders one package's standalone fragment: a version
// heading followed by the non-empty sections in fixed order. It returns
// the empty string when the reason set has nothing visible, so a
// refactor-only history renders nothing on its own.
func RenderFragment(e Entry, opts Options) string {
	if !e.Reasons.HasVisible() {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## [%s] - %s\n", e.Version, opts.dateStamp())
	renderSections(&b, e.Reasons, opts, "###")
	return b.String()
}

// RenderUmbrella renders the aggregate fragment for a multi-package run:
// an umbrella version heading followed by each package's embedded
// sub-fragment. Entries must arrive in the order their results completed
// during resolution; packages with nothing visible are skipped. An
// entirely quiet run renders the empty string.
func RenderUmbrella(version string, entries []Entry, opts Options) string {
	var b strings.Builder
	wrote := false
	for _, e := range entries {
		if !e.Reasons.HasVisible() {
			continue
		}
		if !wrote {
			fmt.Fprintf(&b, "## [%s] - %s\n", version, opts.dateStamp())
			wrote = true
		}
		fmt.Fprintf(&b, "\n### %s@%s\n", e.Package, e.Version)
		renderSections(&b, e.Reasons, opts, "####")
	}
	return b.String()
}

// renderSections writes the non-empty sections in the fixed order:
// breaking, features, fixes, refactors, dependency notes.
func renderSections(b *strings.Builder, rs commit.Reasons, opts Options, level string) {
	sections := []struct {
		name    string
		records []commit.Record
	}{
		{"Breaking Changes", rs.Breaking},
		{"Features", rs.Features},
		{"Bug Fixes", rs.Fixes},
		{"Refactoring", rs.Refactors},
	}

	for _, sec := range sections {
		if len(sec.records) == 0 {
			continue
		}
		b.WriteString("\n" + level + " " + sec.name + "\n")
		for _, rec := range sec.records {
			b.WriteString("- " + formatRecord(rec, opts) + "\n")
		}
	}

	if len(rs.Deps) > 0 {
		b.WriteString("\n" + level + " Dependencies\n")
		for _, note := range rs.Deps {
			fmt.Fprintf(b, "- dependency %s bump %s\n", note.Package, note.Kind)
		}
	}
}

// formatRecord renders one commit line: bolded scope when present, the
// subject, and a short-hash commit link when a remote URL is configured.
func formatRecord(rec commit.Record, opts Options) string {
	var b strings.Builder
	if rec.Scope != "" {
		b.WriteString("**" + rec.Scope + ":** ")
	}
	if rec.Subject != "" {
		b.WriteString(rec.Subject)
	} else {
		b.WriteString(rec.Header)
	}
	if link := commitLink(rec.Hash, opts.RemoteURL); link != "" {
		b.WriteString(" " + link)
	}
	return b.String()
}

// commitLink builds a markdown link for a commit: the short hash displays,
// the full hash goes into the URL.
func commitLink(hash, remote string) string {
	if hash == "" || remote == "" {
		return ""
	}
	return fmt.Sprintf("([%s](%s/commit/%s))", shortHash(hash), strings.TrimRight(remote, "/"), hash)
}

func shortHash(hash string) string {
	if len(hash) > 7 {
		return hash[:7]
	}
	return hash
}
