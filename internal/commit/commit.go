// Package commit defines the structured commit records consumed by the bump
// resolution engine and the reason sets produced from them. Records arrive
// already parsed from the commit source; this package never touches raw git
// text itself.
package commit

// BreakingMarker is the literal prefix that marks a commit header as a
// breaking change. The commit source normalizes the conventional-commit "!"
// shorthand into this prefix, so classification needs exactly one rule.
const BreakingMarker = "BREAKING CHANGE"

// Conventional commit types recognized by the classifier.
const (
	TypeFeat     = "feat"
	TypeFix      = "fix"
	TypePatch    = "patch"
	TypeRefactor = "refactor"
)

// Record is a single parsed commit. It is immutable once produced by the
// commit source; the engine only reads it.
type Record struct {
	// Hash is the commit identifier, used to build changelog links.
	Hash string
	// Type is the declared conventional-commit type ("feat", "fix", ...).
	// Empty when the header did not follow the conventional format.
	Type string
	// Scope is the optional conventional-commit scope.
	Scope string
	// Subject is the description portion of the header.
	Subject string
	// Header is the full first line of the commit message. It may start
	// with BreakingMarker.
	Header string
}

// IsBreaking reports whether the record's header carries the
// breaking-change marker.
func (r Record) IsBreaking() bool {
	return len(r.Header) >= len(BreakingMarker) && r.Header[:len(BreakingMarker)] == BreakingMarker
}

// DependencyNote records that an internal dependency of a package received
// a bump of the given kind during the same resolution run.
type DependencyNote struct {
	// Package is the name of the bumped dependency.
	Package string
	// Kind is the bump severity the dependency resolved to ("patch" or
	// "minor"; dependencies already at the major ceiling produce no note).
	Kind string
}

// Reasons groups the commits of one package by release reason. Bucket
// membership is mutually exclusive and insertion order follows the
// chronological order of the supplied records. Deps is filled by the
// resolver after classification, never by the classifier itself.
type Reasons struct {
	Breaking  []Record
	Features  []Record
	Fixes     []Record
	Refactors []Record
	Deps      []DependencyNote
}

// IsEmpty reports whether no bucket holds any entry at all.
func (r Reasons) IsEmpty() bool {
	return len(r.Breaking) == 0 &&
		len(r.Features) == 0 &&
		len(r.Fixes) == 0 &&
		len(r.Refactors) == 0 &&
		len(r.Deps) == 0
}

// HasVisible reports whether the reason set warrants a changelog fragment.
// Refactors are deliberately excluded: a refactor-only history renders
// nothing even though the refactor bucket itself would render when other
// entries are present.
func (r Reasons) HasVisible() bool {
	return len(r.Breaking) > 0 ||
		len(r.Features) > 0 ||
		len(r.Fixes) > 0 ||
		len(r.Deps) > 0
}

// Count returns the total number of commit entries across all buckets,
// excluding dependency notes.
func (r Reasons) Count() int {
	return len(r.Breaking) + len(r.Features) + len(r.Fixes) + len(r.Refactors)
}
