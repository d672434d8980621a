// Copyright 2020 The Visgression Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fversion

import (
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Version
		err  bool
	}{
		{"0.17.66", New(0, 17, 66), false},
		{"0.18.0", New(0, 18, 0), false},
		{"1.0.0", New(1, 0, 0), false},
		{"0.17", Version{}, true},
		{"0.17.66.1", Version{}, true},
		{"0.17.x", Version{}, true},
		{"0.-17.66", Version{}, true},
		{"0..66", Version{}, true},
		{"", Version{}, true},
		{"0.17.66 ", Version{}, true},
	}
	for _, test := range tests {
		got, err := Parse(test.in)
		if test.err {
			if err == nil {
				t.Errorf("Parse(%q) = %v, want error", test.in, got)
			} else if _, ok := err.(*ParseError); !ok {
				t.Errorf("Parse(%q) error has type %T, want *ParseError", test.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("Parse(%q) unexpected error: %v", test.in, err)
			continue
		}
		if got != test.want {
			t.Errorf("Parse(%q) = %v, want %v", test.in, got, test.want)
		}
	}
}

func TestStringRoundTrip(t *testing.T) {
	for _, s := range []string{"0.17.66", "0.17.79", "0.18.0", "0.18.45", "1.1.110"} {
		v, err := Parse(s)
		if err != nil {
			t.Fatalf("Parse(%q): %v", s, err)
		}
		if got := v.String(); got != s {
			t.Errorf("Parse(%q).String() = %q", s, got)
		}
	}
}

func TestTotalOrder(t *testing.T) {
	ordered := []Version{
		New(0, 16, 51),
		New(0, 17, 0),
		New(0, 17, 66),
		New(0, 17, 79),
		New(0, 18, 0),
		New(0, 18, 45),
		New(1, 0, 0),
	}
	for i, v := range ordered {
		for j, w := range ordered {
			cmp := v.Compare(w)
			switch {
			case i < j && cmp != -1:
				t.Errorf("Compare(%v, %v) = %d, want -1", v, w, cmp)
			case i == j && cmp != 0:
				t.Errorf("Compare(%v, %v) = %d, want 0", v, w, cmp)
			case i > j && cmp != 1:
				t.Errorf("Compare(%v, %v) = %d, want 1", v, w, cmp)
			}
			// Exactly one of v<w, w<v holds for distinct versions.
			if i != j && v.Less(w) == w.Less(v) {
				t.Errorf("Less is not a strict total order at (%v, %v)", v, w)
			}
		}
	}
}

func TestSeqNext(t *testing.T) {
	tests := []struct {
		in, want Version
	}{
		{New(0, 17, 66), New(0, 17, 67)},
		{New(0, 16, 51), New(0, 17, 0)},
		{New(0, 17, 79), New(0, 18, 0)},
		{New(0, 18, 0), New(0, 18, 1)},
	}
	for _, test := range tests {
		if got := DefaultSeq.Next(test.in); got != test.want {
			t.Errorf("Next(%v) = %v, want %v", test.in, got, test.want)
		}
	}
}

func TestSeqRange(t *testing.T) {
	got := DefaultSeq.Range(New(0, 17, 77), New(0, 18, 2))
	want := []Version{
		New(0, 17, 77),
		New(0, 17, 78),
		New(0, 17, 79),
		New(0, 18, 0),
		New(0, 18, 1),
		New(0, 18, 2),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Range(0.17.77, 0.18.2) = %v, want %v", got, want)
	}
}
