package portref

import (
	"fmt"
	"regexp"
	"strings"
)

var segmentRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Ref points at a named port of a named actor.
type Ref struct {
	Actor string
	Port  string
}

// String returns the canonical `actor.port` form.
func (r Ref) String() string {
	return r.Actor + "." + r.Port
}

// isValidSegmentName rejects names that are technically matched by the
// segment pattern but read as punctuation.
func isValidSegmentName(name string) bool {
	return strings.Trim(name, "-_") != ""
}

// Parse creates a Ref from its canonical string representation.
func Parse(raw string) (Ref, error) {
	if raw == "" {
		return Ref{}, fmt.Errorf("port reference cannot be empty")
	}

	segments := strings.Split(raw, ".")
	if len(segments) != 2 {
		return Ref{}, fmt.Errorf("port reference %q must have the form actor.port", raw)
	}
	for _, s := range segments {
		if s == "" {
			return Ref{}, fmt.Errorf("port reference %q contains an empty segment", raw)
		}
		if !segmentRegex.MatchString(s) || !isValidSegmentName(s) {
			return Ref{}, fmt.Errorf("invalid segment %q in port reference %q", s, raw)
		}
	}
	return Ref{Actor: segments[0], Port: segments[1]}, nil
}

// MustParse is like Parse but panics on error.
func MustParse(raw string) Ref {
	r, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return r
}
