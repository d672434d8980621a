// Copyright 2020 The Visgression Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fversion defines the Factorio version identifier used to key
// regression-test samples.
//
// A Version is an immutable (major, minor, patch) triple with a
// lexicographic total order. A Seq supplies the successor relation used
// to generate a dense version axis for chart ticks: patch releases
// increment the patch component, except at a configured "last patch of
// this minor" sentinel, where the minor component advances and the
// patch resets to zero.
package fversion

import "fmt"

// A Version identifies a single Factorio release.
type Version struct {
	Major, Minor, Patch int
}

// New returns the Version major.minor.patch.
func New(major, minor, patch int) Version {
	return Version{Major: major, Minor: minor, Patch: patch}
}

// A ParseError describes a version string that does not have the
// canonical "major.minor.patch" form.
type ParseError struct {
	Input  string // the rejected string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed version %q: %s", e.Input, e.Reason)
}

// Parse parses a canonical "major.minor.patch" string. Each component
// must be a decimal natural number; anything else returns a *ParseError.
func Parse(s string) (Version, error) {
	var comp [3]int
	rest := s
	for i := 0; i < 3; i++ {
		if i > 0 {
			if len(rest) == 0 || rest[0] != '.' {
				return Version{}, &ParseError{s, "want three dot-separated components"}
			}
			rest = rest[1:]
		}
		n, len1, ok := atoi(rest)
		if !ok {
			return Version{}, &ParseError{s, "component is not a natural number"}
		}
		comp[i] = n
		rest = rest[len1:]
	}
	if rest != "" {
		return Version{}, &ParseError{s, "want three dot-separated components"}
	}
	return Version{comp[0], comp[1], comp[2]}, nil
}

// atoi consumes a leading run of decimal digits. It reports the parsed
// value, the number of bytes consumed, and whether any digit was found.
func atoi(s string) (n, length int, ok bool) {
	for length < len(s) && s[length] >= '0' && s[length] <= '9' {
		n = n*10 + int(s[length]-'0')
		length++
	}
	return n, length, length > 0
}

// String returns the canonical "major.minor.patch" form.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Compare returns -1, 0, or +1 according to the lexicographic order on
// (Major, Minor, Patch).
func (v Version) Compare(w Version) int {
	switch {
	case v.Major != w.Major:
		return sign(v.Major - w.Major)
	case v.Minor != w.Minor:
		return sign(v.Minor - w.Minor)
	default:
		return sign(v.Patch - w.Patch)
	}
}

// Less reports whether v precedes w.
func (v Version) Less(w Version) bool {
	return v.Compare(w) < 0
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}

// A Seq defines the successor relation over Versions. Terminal lists
// the final patch release of each minor series; the successor of a
// terminal version begins the next minor series.
type Seq struct {
	Terminal []Version
}

// DefaultSeq covers the release history relevant to regression testing:
// 0.16.51 and 0.17.79 were the last patches of their minor series.
var DefaultSeq = Seq{Terminal: []Version{New(0, 16, 51), New(0, 17, 79)}}

// Next returns the release that followed v.
func (s Seq) Next(v Version) Version {
	for _, t := range s.Terminal {
		if v == t {
			return Version{Major: v.Major, Minor: v.Minor + 1, Patch: 0}
		}
	}
	return Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch + 1}
}

// Range returns every version from lo through hi inclusive, in order.
// It is used to lay out chart tick axes, not for aggregation.
func (s Seq) Range(lo, hi Version) []Version {
	var vs []Version
	for v := lo; !hi.Less(v); v = s.Next(v) {
		vs = append(vs, v)
	}
	return vs
}
