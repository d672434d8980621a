// Copyright 2020 The Visgression Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/google/safehtml"
	"github.com/google/safehtml/template"

	"github.com/mulark/visgression/regression"
)

// A slide is one entry in the report: a chart image plus the forum
// links of the maps that contributed to it.
type slide struct {
	Title string
	Img   safehtml.URL
	Refs  []ref
}

type ref struct {
	Link safehtml.URL
	Name string
}

// newSlide pairs an aggregate's chart with its cohort's metadata.
// Every cohort member must appear in the megabase index; a missing
// entry fails the run rather than emit a partially labeled report.
func newSlide(a *regression.Aggregate, chartFile string, links map[string]string) (slide, error) {
	s := slide{
		Title: a.Label,
		Img:   safehtml.URLSanitized(filepath.ToSlash(chartFile)),
	}
	for _, m := range a.Cohort {
		link, ok := links[m.Name]
		if !ok {
			return slide{}, fmt.Errorf("map %q is not in the megabase index", m.Name)
		}
		s.Refs = append(s.Refs, ref{Link: safehtml.URLSanitized(link), Name: m.Name})
	}
	return s, nil
}

var reportTemplate = template.Must(template.New("report").ParseFromTrustedTemplate(template.MakeTrustedTemplate(`<select class="selections">
{{- range .}}
    <option onclick="setSlide()">{{.Title}}</option>
{{- end}}
</select>
<div class="slides">
{{- range .}}
    <div class="slide">
        <img src="{{.Img}}"/>
        <ul>
{{- range .Refs}}
            <li><a href="{{.Link}}">{{.Name}}</a>
{{- end}}
        </ul>
    </div>
{{- end}}
</div>
`)))

// writeReport emits the slide index consumed by the results page.
func writeReport(w io.Writer, slides []slide) error {
	return reportTemplate.Execute(w, slides)
}
