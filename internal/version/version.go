// Package version implements dotted version identifiers of the form
// Major.Minor.Build.Revision with component-wise numeric ordering.
package version

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/winappkit/winapp/internal/messages"
)

// Dotted is an ordered tuple of non-negative integer segments.
// The zero value is not a valid version; use Parse.
type Dotted struct {
	segments []int
}

// Parse converts raw into a Dotted version. Segments must be non-negative
// integers separated by single periods; anything else is rejected.
func Parse(raw string) (Dotted, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Dotted{}, errors.New(messages.VersionEmpty)
	}
	parts := strings.Split(trimmed, ".")
	segments := make([]int, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			return Dotted{}, fmt.Errorf(messages.VersionInvalidFmt, raw)
		}
		value, err := strconv.Atoi(part)
		if err != nil || value < 0 {
			return Dotted{}, fmt.Errorf(messages.VersionInvalidSegmentFmt, part, raw)
		}
		segments = append(segments, value)
	}
	return Dotted{segments: segments}, nil
}

// MustParse parses raw and panics on error. Intended for test fixtures and
// compile-time constants only.
func MustParse(raw string) Dotted {
	v, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return v
}

// IsZero reports whether v is the unparsed zero value.
func (v Dotted) IsZero() bool {
	return len(v.segments) == 0
}

// String returns the canonical dotted form.
func (v Dotted) String() string {
	parts := make([]string, len(v.segments))
	for i, segment := range v.segments {
		parts[i] = strconv.Itoa(segment)
	}
	return strings.Join(parts, ".")
}

// Compare orders v against other component-wise. When segment counts differ
// the shorter version is padded with zeros, so 10.0 == 10.0.0.
// It returns -1 if v < other, 0 if equal, and 1 if v > other.
func (v Dotted) Compare(other Dotted) int {
	n := len(v.segments)
	if len(other.segments) > n {
		n = len(other.segments)
	}
	for i := 0; i < n; i++ {
		a, b := 0, 0
		if i < len(v.segments) {
			a = v.segments[i]
		}
		if i < len(other.segments) {
			b = other.segments[i]
		}
		if a < b {
			return -1
		}
		if a > b {
			return 1
		}
	}
	return 0
}

// Less reports whether v orders strictly before other.
func (v Dotted) Less(other Dotted) bool {
	return v.Compare(other) < 0
}

// Equal reports whether v and other compare as the same version.
// Trailing zero segments are not significant: 10.0 equals 10.0.0.
func (v Dotted) Equal(other Dotted) bool {
	return v.Compare(other) == 0
}
