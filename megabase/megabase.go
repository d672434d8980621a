// Copyright 2020 The Visgression Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package megabase downloads the technicalfactorio megabase index,
// which supplies the display metadata (source forum links) for the
// benchmark maps. The index is required in full: a fetch failure is
// fatal to the caller, since a partially labeled report would silently
// misattribute results.
package megabase

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// DefaultURL is the canonical location of the megabase index.
const DefaultURL = "https://raw.githubusercontent.com/technicalfactorio/" +
	"technicalfactorio/master/megabase_index_incrementer/megabases.json"

// A Megabase is one indexed save file.
type Megabase struct {
	Name       string `json:"name"`
	SourceLink string `json:"source_link"`
}

// An Index is the full megabase listing.
type Index struct {
	Saves []Megabase `json:"saves"`
}

// Fetch downloads and decodes the index at url. A nil client uses
// http.DefaultClient; an empty url uses DefaultURL.
func Fetch(client *http.Client, url string) (*Index, error) {
	if client == nil {
		client = http.DefaultClient
	}
	if url == "" {
		url = DefaultURL
	}
	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetching megabase index: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching megabase index: %s", resp.Status)
	}
	var ix Index
	if err := json.NewDecoder(resp.Body).Decode(&ix); err != nil {
		return nil, fmt.Errorf("decoding megabase index: %v", err)
	}
	return &ix, nil
}

// Links returns the map from save name to source link.
func (ix *Index) Links() map[string]string {
	links := make(map[string]string, len(ix.Saves))
	for _, m := range ix.Saves {
		links[m.Name] = m.SourceLink
	}
	return links
}
