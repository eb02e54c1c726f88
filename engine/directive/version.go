package directive

import (
	"fmt"
	"strconv"
	"strings"

	wefterrors "github.com/weft-lang/weft/engine/errors"
)

// Version is a parsed semantic version triple. Pre-release and build
// metadata are not used by directive definitions and are rejected.
type Version struct {
	Major int
	Minor int
	Patch int
}

// ParseVersion parses a "major.minor.patch" version string.
func ParseVersion(s string) (Version, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return Version{}, wefterrors.New(wefterrors.PhaseRegistry, wefterrors.ErrInvalidVersion,
			fmt.Sprintf("invalid semantic version %q (want major.minor.patch)", s)).WithValue(s)
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return Version{}, wefterrors.New(wefterrors.PhaseRegistry, wefterrors.ErrInvalidVersion,
				fmt.Sprintf("invalid semantic version %q: component %q is not a non-negative integer", s, p)).WithValue(s)
		}
		nums[i] = n
	}
	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

// MustParseVersion parses a version string and panics on failure.
// Only for use with compile-time constants (builtin definitions).
func MustParseVersion(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

// String returns the canonical "major.minor.patch" form.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Compare returns -1, 0 or 1 if v is lower than, equal to or higher than o.
func (v Version) Compare(o Version) int {
	if v.Major != o.Major {
		return sign(v.Major - o.Major)
	}
	if v.Minor != o.Minor {
		return sign(v.Minor - o.Minor)
	}
	return sign(v.Patch - o.Patch)
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}

// InRange reports whether v lies within the inclusive [min, max] range.
// Empty bounds are open: an empty min means "no lower bound" and an empty
// max means "no upper bound". Malformed bounds fail closed.
func (v Version) InRange(min, max string) bool {
	if min != "" {
		lo, err := ParseVersion(min)
		if err != nil || v.Compare(lo) < 0 {
			return false
		}
	}
	if max != "" {
		hi, err := ParseVersion(max)
		if err != nil || v.Compare(hi) > 0 {
			return false
		}
	}
	return true
}
