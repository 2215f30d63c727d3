package metrics

import "github.com/aklabib/cswer/internal/lang"

// CERMode selects how per-language CER is computed. The two modes are not
// numerically identical: re-alignment may find a cheaper edit path than the
// positional diff. A report is produced under exactly one mode.
type CERMode int

const (
	// CERRealign re-aligns the concatenated per-language word lists at the
	// character level.
	CERRealign CERMode = iota
	// CERPositional derives CER from the positional character diff of
	// substituted and deleted tokens.
	CERPositional
)

// String returns the mode name used in flags and report output.
func (m CERMode) String() string {
	if m == CERPositional {
		return "positional"
	}
	return "realign"
}

// LanguageReport is the derived, read-only per-language view.
type LanguageReport struct {
	Class    lang.Class
	RefWords int
	RefChars int
	Errors   Counts
	WER      float64
	CER      float64
}

// ConfusionEntry is one cell of the substitution confusion breakdown.
type ConfusionEntry struct {
	Pair    ClassPair
	Count   int
	Percent float64
}

// DistEntry is one row of a per-language deletion or insertion distribution.
type DistEntry struct {
	Class   lang.Class
	Count   int
	Percent float64
}

// Report is the derived per-language view of one accumulation pass.
type Report struct {
	CERMode       CERMode
	Sentences     int
	Languages     []LanguageReport
	Substitutions []ConfusionEntry
	Deletions     []DistEntry
	Insertions    []DistEntry
}

// Language returns the report row for a class, or a zero row if the class
// never appeared.
func (r Report) Language(class lang.Class) LanguageReport {
	for _, l := range r.Languages {
		if l.Class == class {
			return l
		}
	}
	return LanguageReport{Class: class}
}

// Report derives the read-only report from the accumulated counters. Every
// ratio with a zero denominator is defined as 0; a language absent from the
// corpus still yields a well-formed zero row. The accumulator is left
// untouched and may keep accumulating.
func (a *Accumulator) Report(mode CERMode) Report {
	classes := a.classifier.Classes()

	report := Report{
		CERMode:   mode,
		Sentences: a.sentences,
		Languages: make([]LanguageReport, 0, len(classes)),
	}

	totalSubs := 0
	totalDels := 0
	totalIns := 0
	for _, class := range classes {
		stats := a.stats(class)
		totalDels += stats.words.Del
		totalIns += stats.words.Ins
	}
	for _, count := range a.confusion {
		totalSubs += count
	}

	for _, class := range classes {
		stats := a.stats(class)
		row := LanguageReport{
			Class:    class,
			RefWords: stats.refWords,
			RefChars: stats.refChars,
			Errors:   stats.words,
		}
		if stats.refWords > 0 {
			row.WER = 100 * float64(stats.words.Total()) / float64(stats.refWords)
		}
		row.CER = deriveCER(stats, mode)
		report.Languages = append(report.Languages, row)
	}

	for _, refClass := range classes {
		for _, hypClass := range classes {
			pair := ClassPair{Ref: refClass, Hyp: hypClass}
			count := a.confusion[pair]
			report.Substitutions = append(report.Substitutions, ConfusionEntry{
				Pair:    pair,
				Count:   count,
				Percent: percent(count, totalSubs),
			})
		}
	}
	for _, class := range classes {
		stats := a.stats(class)
		report.Deletions = append(report.Deletions, DistEntry{
			Class:   class,
			Count:   stats.words.Del,
			Percent: percent(stats.words.Del, totalDels),
		})
		report.Insertions = append(report.Insertions, DistEntry{
			Class:   class,
			Count:   stats.words.Ins,
			Percent: percent(stats.words.Ins, totalIns),
		})
	}
	return report
}

func deriveCER(stats *languageStats, mode CERMode) float64 {
	switch mode {
	case CERPositional:
		if stats.refChars == 0 {
			return 0
		}
		return 100 * float64(stats.chars.Total()) / float64(stats.refChars)
	default:
		dist, refLen := realignCER(stats)
		if refLen == 0 {
			return 0
		}
		return 100 * float64(dist) / float64(refLen)
	}
}

func percent(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(count) / float64(total)
}
