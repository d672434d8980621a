// Copyright 2020 The Visgression Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"strings"
	"testing"

	"github.com/mulark/visgression/fversion"
	"github.com/mulark/visgression/regression"
)

func testAggregate() *regression.Aggregate {
	return &regression.Aggregate{
		Label:    "Maps beginning in 0.17.79",
		Cohort:   []regression.MapInfo{{Name: "flame10k.zip", SHA256: "aaaa"}},
		Versions: []fversion.Version{fversion.New(0, 17, 79)},
		Metrics:  []regression.Metrics{{WholeUpdate: 10}},
	}
}

func TestNewSlideRequiresMetadata(t *testing.T) {
	a := testAggregate()
	links := map[string]string{"flame10k.zip": "https://forums.factorio.com/t/1"}
	s, err := newSlide(a, "images/chart.svg", links)
	if err != nil {
		t.Fatal(err)
	}
	if s.Title != a.Label {
		t.Errorf("Title = %q, want %q", s.Title, a.Label)
	}
	if len(s.Refs) != 1 || s.Refs[0].Name != "flame10k.zip" {
		t.Errorf("Refs = %v", s.Refs)
	}

	if _, err := newSlide(a, "images/chart.svg", nil); err == nil {
		t.Error("newSlide succeeded with a cohort member missing from the index")
	}
}

func TestWriteReport(t *testing.T) {
	a := testAggregate()
	links := map[string]string{"flame10k.zip": "https://forums.factorio.com/t/1"}
	s, err := newSlide(a, "images/chart.svg", links)
	if err != nil {
		t.Fatal(err)
	}
	var sb strings.Builder
	if err := writeReport(&sb, []slide{s}); err != nil {
		t.Fatal(err)
	}
	out := sb.String()
	for _, want := range []string{
		"<option onclick=\"setSlide()\">Maps beginning in 0.17.79</option>",
		"src=\"images/chart.svg\"",
		"href=\"https://forums.factorio.com/t/1\"",
		">flame10k.zip</a>",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q; got:\n%s", want, out)
		}
	}
}
