// Copyright 2020 The Visgression Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package megabase

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

const indexJSON = `{
	"saves": [
		{"name": "flame10k.zip", "source_link": "https://forums.factorio.com/t/1"},
		{"name": "steve.zip", "source_link": "https://forums.factorio.com/t/2"}
	]
}`

func TestFetch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(indexJSON))
	}))
	defer ts.Close()

	ix, err := Fetch(ts.Client(), ts.URL)
	if err != nil {
		t.Fatal(err)
	}
	if len(ix.Saves) != 2 {
		t.Fatalf("got %d saves, want 2", len(ix.Saves))
	}
	links := ix.Links()
	if got := links["flame10k.zip"]; got != "https://forums.factorio.com/t/1" {
		t.Errorf("Links()[flame10k.zip] = %q", got)
	}
	if got := links["steve.zip"]; got != "https://forums.factorio.com/t/2" {
		t.Errorf("Links()[steve.zip] = %q", got)
	}
}

func TestFetchNotFound(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	defer ts.Close()

	if _, err := Fetch(ts.Client(), ts.URL); err == nil {
		t.Fatal("Fetch of a missing index succeeded, want error")
	}
}

func TestFetchBadJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer ts.Close()

	if _, err := Fetch(ts.Client(), ts.URL); err == nil {
		t.Fatal("Fetch of malformed JSON succeeded, want error")
	}
}
