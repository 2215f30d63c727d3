// Package metrics accumulates per-language word and character error
// statistics over expanded alignment streams.
package metrics

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/aklabib/cswer/internal/align"
	"github.com/aklabib/cswer/internal/lang"
)

// Counts holds error counts split by operation.
type Counts struct {
	Sub int
	Del int
	Ins int
}

// Total returns the sum of all error counts.
func (c Counts) Total() int {
	return c.Sub + c.Del + c.Ins
}

func (c *Counts) add(other Counts) {
	c.Sub += other.Sub
	c.Del += other.Del
	c.Ins += other.Ins
}

// ClassPair keys the substitution confusion matrix by the language of the
// reference token and the language of the substituted hypothesis token.
type ClassPair struct {
	Ref lang.Class
	Hyp lang.Class
}

// languageStats is the raw per-class accumulator state.
type languageStats struct {
	refWords int
	refChars int
	words    Counts
	chars    Counts

	// Collected word pairs for whole-string character re-alignment.
	refTokens []string
	hypTokens []string
}

// Accumulator walks paired alignment streams and gathers per-language
// counters. All state is local to the instance; a fresh accumulator starts
// from zero and instances never share anything.
type Accumulator struct {
	classifier lang.Classifier
	byClass    map[lang.Class]*languageStats
	confusion  map[ClassPair]int
	sentences  int
}

// NewAccumulator returns an empty accumulator for the classifier's classes.
func NewAccumulator(classifier lang.Classifier) *Accumulator {
	a := &Accumulator{
		classifier: classifier,
		byClass:    make(map[lang.Class]*languageStats),
		confusion:  make(map[ClassPair]int),
	}
	for _, class := range classifier.Classes() {
		a.byClass[class] = &languageStats{}
	}
	return a
}

// AddSentence consumes one sentence's paired streams. The streams must be
// equal length, as guaranteed by the expander.
func (a *Accumulator) AddSentence(alignedRef, alignedHyp []align.Entry) error {
	if len(alignedRef) != len(alignedHyp) {
		return fmt.Errorf("unpaired alignment streams: %d reference entries, %d hypothesis entries",
			len(alignedRef), len(alignedHyp))
	}
	a.sentences++
	for i := range alignedRef {
		a.addPosition(alignedRef[i], alignedHyp[i])
	}
	return nil
}

func (a *Accumulator) addPosition(ref, hyp align.Entry) {
	if !ref.Placeholder {
		stats := a.stats(a.classifier.Classify(ref.Token))
		stats.refWords++
		stats.refChars += utf8.RuneCountInString(ref.Token)
		stats.refTokens = append(stats.refTokens, ref.Token)
		if hyp.Placeholder || hyp.Op == align.OpInsert {
			stats.hypTokens = append(stats.hypTokens, "")
		} else {
			stats.hypTokens = append(stats.hypTokens, hyp.Token)
		}
	}

	switch {
	case ref.Op == align.OpSubstitute && !ref.Placeholder:
		refClass := a.classifier.Classify(ref.Token)
		hypClass := a.classifier.Classify(hyp.Token)
		stats := a.stats(refClass)
		stats.words.Sub++
		a.confusion[ClassPair{Ref: refClass, Hyp: hypClass}]++
		a.charDiff(stats, ref.Token, hyp.Token)
	case ref.Op == align.OpDelete && !ref.Placeholder:
		stats := a.stats(a.classifier.Classify(ref.Token))
		stats.words.Del++
		stats.chars.Del += utf8.RuneCountInString(ref.Token)
	case hyp.Op == align.OpInsert && !hyp.Placeholder:
		stats := a.stats(a.classifier.Classify(hyp.Token))
		stats.words.Ins++
	}
}

// charDiff walks the longer of the two tokens position by position and
// attributes one character error per mismatched index. The tail of the
// longer token counts as pure insert or delete errors; this is a positional
// diff, not a character alignment.
func (a *Accumulator) charDiff(stats *languageStats, refTok, hypTok string) {
	ref := []rune(refTok)
	hyp := []rune(hypTok)
	n := len(ref)
	if len(hyp) > n {
		n = len(hyp)
	}
	for i := 0; i < n; i++ {
		switch {
		case i >= len(ref):
			stats.chars.Ins++
		case i >= len(hyp):
			stats.chars.Del++
		case ref[i] != hyp[i]:
			stats.chars.Sub++
		}
	}
}

// stats returns the counter set for a class, creating it for classes the
// classifier did not enumerate.
func (a *Accumulator) stats(class lang.Class) *languageStats {
	if s, ok := a.byClass[class]; ok {
		return s
	}
	s := &languageStats{}
	a.byClass[class] = s
	return s
}

// Merge folds another accumulator's counts into this one. Accumulation is
// associative and commutative per sentence, so partial accumulators built
// over disjoint sentence ranges can be merged in any order.
func (a *Accumulator) Merge(other *Accumulator) {
	for class, theirs := range other.byClass {
		mine := a.stats(class)
		mine.refWords += theirs.refWords
		mine.refChars += theirs.refChars
		mine.words.add(theirs.words)
		mine.chars.add(theirs.chars)
		mine.refTokens = append(mine.refTokens, theirs.refTokens...)
		mine.hypTokens = append(mine.hypTokens, theirs.hypTokens...)
	}
	for pair, count := range other.confusion {
		a.confusion[pair] += count
	}
	a.sentences += other.sentences
}

// realignCER re-aligns the collected per-class word lists at the character
// level, joined with a single space, and returns errors/refLength.
func realignCER(stats *languageStats) (dist, refLen int) {
	if len(stats.refTokens) == 0 {
		return 0, 0
	}
	ref := []rune(strings.Join(stats.refTokens, " "))
	hyp := []rune(strings.Join(stats.hypTokens, " "))
	return align.Distance(ref, hyp), len(ref)
}

// Accumulate runs a full pass over expanded corpus streams and derives the
// report. The inputs are not mutated; calling it twice on the same streams
// yields identical reports.
func Accumulate(alignedRefs, alignedHyps [][]align.Entry, classifier lang.Classifier, mode CERMode) (Report, error) {
	if len(alignedRefs) != len(alignedHyps) {
		return Report{}, fmt.Errorf("mismatched corpora: %d reference sentences, %d hypothesis sentences",
			len(alignedRefs), len(alignedHyps))
	}
	acc := NewAccumulator(classifier)
	for s := range alignedRefs {
		if err := acc.AddSentence(alignedRefs[s], alignedHyps[s]); err != nil {
			return Report{}, fmt.Errorf("sentence %d: %w", s+1, err)
		}
	}
	return acc.Report(mode), nil
}
