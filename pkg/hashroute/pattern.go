package hashroute

import (
	"errors"
	"fmt"
	"strings"
)

// Pattern parsing errors.
var (
	ErrEmptyPattern    = errors.New("empty route pattern")
	ErrNoLeadingSlash  = errors.New("route pattern must start with /")
	ErrOptionalNotLast = errors.New("optional parameter must be the last segment")
	ErrUnnamedParam    = errors.New("parameter segment has no name")
)

// Segment is one slash-delimited element of a Pattern.
type Segment struct {
	// Literal is the exact text to match when Param is false.
	Literal string

	// Name is the parameter name (without ':' and '?') when Param is true.
	Name string

	// Param marks the segment as a parameter.
	Param bool

	// Optional marks a trailing parameter that may be absent.
	Optional bool
}

// Pattern is a parsed route pattern such as "/emoji/:packId/:page?".
type Pattern struct {
	raw      string
	segments []Segment
	min      int
	max      int
}

// Parse parses a route pattern. A segment starting with ':' is a parameter;
// a parameter ending in '?' is optional and must be the final segment.
func Parse(pattern string) (Pattern, error) {
	if pattern == "" {
		return Pattern{}, ErrEmptyPattern
	}
	if !strings.HasPrefix(pattern, "/") {
		return Pattern{}, fmt.Errorf("%w: %q", ErrNoLeadingSlash, pattern)
	}

	parts := strings.Split(pattern, "/")[1:]
	p := Pattern{raw: pattern, segments: make([]Segment, 0, len(parts))}

	for i, part := range parts {
		var seg Segment
		if strings.HasPrefix(part, ":") {
			name := strings.TrimPrefix(part, ":")
			if strings.HasSuffix(name, "?") {
				if i != len(parts)-1 {
					return Pattern{}, fmt.Errorf("%w: %q", ErrOptionalNotLast, pattern)
				}
				name = strings.TrimSuffix(name, "?")
				seg.Optional = true
			}
			if name == "" {
				return Pattern{}, fmt.Errorf("%w: %q", ErrUnnamedParam, pattern)
			}
			seg.Param = true
			seg.Name = name
		} else {
			seg.Literal = part
		}

		if !seg.Optional {
			p.min++
		}
		p.max++
		p.segments = append(p.segments, seg)
	}

	return p, nil
}

// MustParse is like Parse but panics on a malformed pattern.
func MustParse(pattern string) Pattern {
	p, err := Parse(pattern)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the pattern as written.
func (p Pattern) String() string {
	return p.raw
}

// Segments returns a copy of the parsed segments.
func (p Pattern) Segments() []Segment {
	out := make([]Segment, len(p.segments))
	copy(out, p.segments)
	return out
}

// MinLength is the number of non-optional segments.
func (p Pattern) MinLength() int {
	return p.min
}

// MaxLength is the number of segments including an optional trailing one.
func (p Pattern) MaxLength() int {
	return p.max
}

// ParamNames returns parameter names in pattern order.
func (p Pattern) ParamNames() []string {
	var names []string
	for _, s := range p.segments {
		if s.Param {
			names = append(names, s.Name)
		}
	}
	return names
}

// match tests decoded path segments against the pattern and returns the
// positional parameters when compatible.
func (p Pattern) match(parts []string) (Params, bool) {
	if len(parts) < p.min || len(parts) > p.max {
		return nil, false
	}

	params := make(Params, 0, len(p.segments))
	for i, seg := range p.segments {
		if seg.Param {
			if i >= len(parts) {
				// Only reachable for the optional trailing segment.
				params = append(params, Param{Name: seg.Name})
				continue
			}
			params = append(params, Param{Name: seg.Name, Value: parts[i], Present: true})
			continue
		}
		if i >= len(parts) || seg.Literal != parts[i] {
			return nil, false
		}
	}
	return params, true
}
