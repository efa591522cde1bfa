package bump

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ariel-frischer/ripple/internal/commit"
)

func TestSeverityString(t *testing.T) {
	tests := map[string]struct {
		severity Severity
		expected string
	}{
		"none":    {None, "none"},
		"patch":   {Patch, "patch"},
		"minor":   {Minor, "minor"},
		"major":   {Major, "major"},
		"unknown": {Severity(42), "unknown"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.severity.String())
		})
	}
}

func TestMax(t *testing.T) {
	tests := map[string]struct {
		a, b     Severity
		expected Severity
	}{
		"none none":   {None, None, None},
		"none patch":  {None, Patch, Patch},
		"patch none":  {Patch, None, Patch},
		"patch minor": {Patch, Minor, Minor},
		"minor major": {Minor, Major, Major},
		"major minor": {Major, Minor, Major},
		"equal":       {Minor, Minor, Minor},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Max(tt.a, tt.b))
		})
	}
}

func TestResolveOwn(t *testing.T) {
	tests := map[string]struct {
		reasons  commit.Reasons
		expected Severity
	}{
		"no qualifying commits": {
			reasons:  commit.Reasons{},
			expected: None,
		},
		"fixes only": {
			reasons:  commit.Reasons{Fixes: []commit.Record{{Type: commit.TypeFix}}},
			expected: Patch,
		},
		"refactors only": {
			reasons:  commit.Reasons{Refactors: []commit.Record{{Type: commit.TypeRefactor}}},
			expected: Patch,
		},
		"features only": {
			reasons:  commit.Reasons{Features: []commit.Record{{Type: commit.TypeFeat}}},
			expected: Minor,
		},
		"features outrank fixes": {
			reasons: commit.Reasons{
				Features: []commit.Record{{Type: commit.TypeFeat}},
				Fixes:    []commit.Record{{Type: commit.TypeFix}},
			},
			expected: Minor,
		},
		"breaking outranks everything": {
			reasons: commit.Reasons{
				Breaking: []commit.Record{{Type: commit.TypeFeat}},
				Features: []commit.Record{{Type: commit.TypeFeat}},
				Fixes:    []commit.Record{{Type: commit.TypeFix}},
			},
			expected: Major,
		},
		"single breaking commit": {
			reasons:  commit.Reasons{Breaking: []commit.Record{{Type: commit.TypeFix}}},
			expected: Major,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ResolveOwn(tt.reasons))
		})
	}
}

func TestCapToDependencyBump(t *testing.T) {
	tests := map[string]struct {
		own        Severity
		depsBumped bool
		expected   Severity
	}{
		"no deps keeps none":      {None, false, None},
		"no deps keeps patch":     {Patch, false, Patch},
		"no deps keeps minor":     {Minor, false, Minor},
		"no deps keeps major":     {Major, false, Major},
		"deps escalate none":      {None, true, Patch},
		"deps hold patch":         {Patch, true, Patch},
		"deps cap minor to patch": {Minor, true, Patch},
		"deps cap major to patch": {Major, true, Patch},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CapToDependencyBump(tt.own, tt.depsBumped))
		})
	}
}
