package changelog

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ariel-frischer/ripple/internal/commit"
)

var testOpts = Options{
	RemoteURL: "https://github.com/acme/widgets",
	Date:      time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC),
}

func TestRenderFragmentAllSections(t *testing.T) {
	e := Entry{
		Package: "api",
		Version: "2.0.0",
		Reasons: commit.Reasons{
			Breaking: []commit.Record{
				{Hash: "aaaa111122223333", Scope: "api", Subject: "drop v1 endpoints"},
			},
			Features: []commit.Record{
				{Hash: "bbbb111122223333", Subject: "add streaming"},
			},
			Fixes: []commit.Record{
				{Hash: "cccc111122223333", Scope: "parser", Subject: "handle empty input"},
			},
			Refactors: []commit.Record{
				{Hash: "dddd111122223333", Subject: "flatten walker"},
			},
			Deps: []commit.DependencyNote{
				{Package: "core", Kind: "patch"},
				{Package: "util", Kind: "minor"},
			},
		},
	}

	expected := `## [2.0.0] - 2025-03-14

### Breaking Changes
- **api:** drop v1 endpoints ([aaaa111](https://github.com/acme/widgets/commit/aaaa111122223333))

### Features
- add streaming ([bbbb111](https://github.com/acme/widgets/commit/bbbb111122223333))

### Bug Fixes
- **parser:** handle empty input ([cccc111](https://github.com/acme/widgets/commit/cccc111122223333))

### Refactoring
- flatten walker ([dddd111](https://github.com/acme/widgets/commit/dddd111122223333))

### Dependencies
- dependency core bump patch
- dependency util bump minor
`

	assert.Equal(t, expected, RenderFragment(e, testOpts))
}

func TestRenderFragmentWithoutRemote(t *testing.T) {
	e := Entry{
		Package: "api",
		Version: "1.0.1",
		Reasons: commit.Reasons{
			Fixes: []commit.Record{{Hash: "cafe111122223333", Subject: "nil guard"}},
		},
	}

	got := RenderFragment(e, Options{Date: testOpts.Date})
	assert.Contains(t, got, "- nil guard\n")
	assert.NotContains(t, got, "commit/")
}

func TestRenderFragmentRemoteTrailingSlash(t *testing.T) {
	e := Entry{
		Version: "1.0.1",
		Reasons: commit.Reasons{
			Fixes: []commit.Record{{Hash: "cafe111122223333", Subject: "nil guard"}},
		},
	}
	opts := Options{RemoteURL: "https://github.com/acme/widgets/", Date: testOpts.Date}

	got := RenderFragment(e, opts)
	assert.Contains(t, got, "https://github.com/acme/widgets/commit/cafe111122223333")
	assert.NotContains(t, got, "widgets//commit")
}

func TestRenderFragmentGates(t *testing.T) {
	tests := map[string]struct {
		reasons commit.Reasons
		visible bool
	}{
		"empty": {
			reasons: commit.Reasons{},
			visible: false,
		},
		"refactor only stays hidden": {
			reasons: commit.Reasons{
				Refactors: []commit.Record{{Subject: "tidy"}},
			},
			visible: false,
		},
		"refactors render next to fixes": {
			reasons: commit.Reasons{
				Fixes:     []commit.Record{{Subject: "fix"}},
				Refactors: []commit.Record{{Subject: "tidy"}},
			},
			visible: true,
		},
		"dependency note alone is visible": {
			reasons: commit.Reasons{
				Deps: []commit.DependencyNote{{Package: "core", Kind: "patch"}},
			},
			visible: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := RenderFragment(Entry{Version: "1.0.0", Reasons: tt.reasons}, testOpts)
			if tt.visible {
				assert.NotEmpty(t, got)
			} else {
				assert.Empty(t, got)
			}
		})
	}
}

func TestRenderFragmentRefactorSectionPresent(t *testing.T) {
	e := Entry{
		Version: "1.0.1",
		Reasons: commit.Reasons{
			Fixes:     []commit.Record{{Subject: "fix crash"}},
			Refactors: []commit.Record{{Subject: "extract helper"}},
		},
	}

	got := RenderFragment(e, testOpts)
	assert.Contains(t, got, "### Refactoring\n- extract helper")
}

func TestRenderFragmentFallsBackToHeader(t *testing.T) {
	e := Entry{
		Version: "1.0.1",
		Reasons: commit.Reasons{
			Breaking: []commit.Record{{Header: "BREAKING CHANGE: remove legacy flags"}},
		},
	}

	got := RenderFragment(e, Options{Date: testOpts.Date})
	assert.Contains(t, got, "- BREAKING CHANGE: remove legacy flags")
}

func TestRenderUmbrella(t *testing.T) {
	entries := []Entry{
		{
			Package: "core",
			Version: "1.3.0",
			Reasons: commit.Reasons{
				Features: []commit.Record{{Hash: "bbbb111122223333", Subject: "shared helper"}},
			},
		},
		{
			Package: "quiet",
			Version: "0.2.0",
			Reasons: commit.Reasons{},
		},
		{
			Package: "api",
			Version: "2.1.1",
			Reasons: commit.Reasons{
				Deps: []commit.DependencyNote{{Package: "core", Kind: "minor"}},
			},
		},
	}

	expected := `## [3.1.0] - 2025-03-14

### core@1.3.0

#### Features
- shared helper ([bbbb111](https://github.com/acme/widgets/commit/bbbb111122223333))

### api@2.1.1

#### Dependencies
- dependency core bump minor
`

	assert.Equal(t, expected, RenderUmbrella("3.1.0", entries, testOpts))
}

func TestRenderUmbrellaPreservesEntryOrder(t *testing.T) {
	entries := []Entry{
		{Package: "zzz", Version: "1.0.1", Reasons: commit.Reasons{Fixes: []commit.Record{{Subject: "z"}}}},
		{Package: "aaa", Version: "1.0.1", Reasons: commit.Reasons{Fixes: []commit.Record{{Subject: "a"}}}},
	}

	got := RenderUmbrella("9.9.9", entries, testOpts)
	assert.Less(t, strings.Index(got, "zzz@"), strings.Index(got, "aaa@"))
}

func TestRenderUmbrellaAllQuiet(t *testing.T) {
	entries := []Entry{
		{Package: "a", Version: "1.0.0"},
		{Package: "b", Version: "2.0.0", Reasons: commit.Reasons{
			Refactors: []commit.Record{{Subject: "tidy"}},
		}},
	}

	assert.Empty(t, RenderUmbrella("1.0.0", entries, testOpts))
}
