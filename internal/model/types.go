// Package model defines shared data structures.
package model

import "time"

// Options defines evaluation settings for one run.
type Options struct {
	ReferencePath  string
	HypothesisPath string
	CharLevel      bool
	ShowAlignment  bool
	Global         bool
	CERMode        string
	Lowercase      bool
	StripPunct     bool
	NoHistory      bool
}

// Overall holds the corpus-level scalar metrics computed by the aligner.
// The per-language accumulator treats these as opaque inputs.
type Overall struct {
	WER           float64
	CER           float64
	Substitutions int
	Deletions     int
	Insertions    int
	RefWords      int
}

// RunStats captures a completed evaluation run for the history store.
type RunStats struct {
	StartedAt      time.Time
	ReferencePath  string
	HypothesisPath string
	CharLevel      bool
	CERMode        string
	Sentences      int
	OverallWER     float64
	OverallCER     float64
	Substitutions  int
	Deletions      int
	Insertions     int
}

// RunLanguageStats stores one language row of a run.
type RunLanguageStats struct {
	Class         string
	RefWords      int
	WER           float64
	CER           float64
	Substitutions int
	Deletions     int
	Insertions    int
}

// RunAggregate summarizes a stored run for history listing.
type RunAggregate struct {
	RunID          int64
	StartedAt      time.Time
	ReferencePath  string
	HypothesisPath string
	CharLevel      bool
	Sentences      int
	OverallWER     float64
	OverallCER     float64
}
