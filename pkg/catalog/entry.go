package catalog

import "strings"

// Entry is one canonical, sellable vehicle configuration.
type Entry struct {
	Make    string `json:"make" yaml:"make"`
	Model   string `json:"model" yaml:"model"`
	Variant string `json:"variant" yaml:"variant"`
}

// String returns the entry as "Make / Model / Variant".
func (e Entry) String() string {
	return strings.Join([]string{e.Make, e.Model, e.Variant}, " / ")
}

// Candidate is a canonical value paired with its comparison form.
type Candidate struct {
	Display    string `json:"display" yaml:"display"`
	Normalized string `json:"normalized" yaml:"normalized"`
}

// Displays returns the display strings of candidates, in order.
func Displays(candidates []Candidate) []string {
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.Display
	}
	return out
}

// DroppedEntry records a canonical entry rejected during index construction.
type DroppedEntry struct {
	Position int    `json:"position" yaml:"position"`
	Entry    Entry  `json:"entry" yaml:"entry"`
	Reason   string `json:"reason" yaml:"reason"`
}

// BuildReport summarizes what happened to a snapshot while building an index.
type BuildReport struct {
	Read       int            `json:"read" yaml:"read"`
	Accepted   int            `json:"accepted" yaml:"accepted"`
	Duplicates int            `json:"duplicates" yaml:"duplicates"`
	Dropped    []DroppedEntry `json:"dropped,omitempty" yaml:"dropped,omitempty"`
}

// DroppedCount returns the number of entries dropped during the build.
func (r BuildReport) DroppedCount() int {
	return len(r.Dropped)
}

// Stats holds the size of an index.
type Stats struct {
	Makes    int `json:"makes" yaml:"makes"`
	Models   int `json:"models" yaml:"models"`
	Variants int `json:"variants" yaml:"variants"`
}
