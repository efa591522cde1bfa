// Package bump implements the version-bump resolution engine: the severity
// algebra, the semantic-version calculator, and the memoized dependency
// graph resolver that propagates bumps between sibling packages.
package bump

import (
	"github.com/ariel-frischer/ripple/internal/commit"
)

// Severity is the ordinal bump level a package resolves to. The ordering
// is total: None < Patch < Minor < Major. Higher severity always wins when
// combining commit-derived reasons; dependency propagation uses the
// separate CapToDependencyBump rule instead of this ordering.
type Severity int

const (
	// None means no qualifying commits and no bumped dependencies; the
	// version is left unchanged and no release is warranted.
	None Severity = iota
	// Patch increments the third version component.
	Patch
	// Minor increments the second version component and resets the third.
	Minor
	// Major increments the first version component and resets the rest.
	Major
)

// String returns the lowercase release kind for the severity, as rendered
// in changelog dependency notes and machine-readable output.
func (s Severity) String() string {
	switch s {
	case Patch:
		return "patch"
	case Minor:
		return "minor"
	case Major:
		return "major"
	default:
		return "none"
	}
}

// Max returns the more severe of a and b.
func Max(a, b Severity) Severity {
	if a > b {
		return a
	}
	return b
}

// ResolveOwn maps a package's classified reasons to the severity its own
// commit history warrants, before any dependency propagation. First match
// wins: breaking → Major, feature → Minor, fix or refactor → Patch,
// otherwise None.
func ResolveOwn(rs commit.Reasons) Severity {
	switch {
	case len(rs.Breaking) > 0:
		return Major
	case len(rs.Features) > 0:
		return Minor
	case len(rs.Fixes) > 0 || len(rs.Refactors) > 0:
		return Patch
	default:
		return None
	}
}

// CapToDependencyBump combines a package's own severity with the fact that
// at least one of its internal dependencies bumped. The policy caps toward
// Patch: a bumped dependency forces exactly a patch release for the
// dependent, whatever its own history says. None escalates to Patch and
// Minor or Major are capped down to Patch. Without a bumped dependency the
// own severity passes through untouched.
func CapToDependencyBump(own Severity, depsBumped bool) Severity {
	if !depsBumped {
		return own
	}
	return Patch
}
