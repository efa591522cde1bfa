package bump

import (
	"github.com/Masterminds/semver/v3"

	"github.com/ariel-frischer/ripple/internal/errors"
)

// NextVersion applies a severity to a current semantic version string and
// returns the next version. None returns the input unchanged without
// parsing it. A leading "v" is preserved when present. Returns an
// InvalidVersion error when the current version does not parse.
func NextVersion(current string, severity Severity) (string, error) {
	if severity == None {
		return current, nil
	}

	v, err := semver.NewVersion(current)
	if err != nil {
		return "", errors.NewInvalidVersionError(current, err)
	}

	var next semver.Version
	switch severity {
	case Patch:
		next = v.IncPatch()
	case Minor:
		next = v.IncMinor()
	case Major:
		next = v.IncMajor()
	}

	return next.Original(), nil
}
