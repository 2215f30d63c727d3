package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aklabib/cswer/internal/align"
	"github.com/aklabib/cswer/internal/lang"
	"github.com/aklabib/cswer/internal/metrics"
	"github.com/aklabib/cswer/internal/model"
)

func buildReport(t *testing.T) metrics.Report {
	t.Helper()
	refs := [][]string{{"hello", "مرحبا"}}
	hyps := [][]string{{"hola", "مرحبا"}}
	chunks := [][]align.Chunk{{
		{Op: align.OpSubstitute, RefStart: 0, RefEnd: 1, HypStart: 0, HypEnd: 1},
		{Op: align.OpEqual, RefStart: 1, RefEnd: 2, HypStart: 1, HypEnd: 2},
	}}
	alignedRefs, alignedHyps, err := align.Expand(refs, hyps, chunks)
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	report, err := metrics.Accumulate(alignedRefs, alignedHyps, lang.ArabicLatin(), metrics.CERRealign)
	if err != nil {
		t.Fatalf("accumulate: %v", err)
	}
	return report
}

func TestRenderOverall(t *testing.T) {
	var buf bytes.Buffer
	overall := model.Overall{WER: 12.5, CER: 3.25, Substitutions: 2, Deletions: 1, Insertions: 0, RefWords: 24}
	if err := RenderOverall(&buf, overall); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "Overall Metrics\n") {
		t.Fatalf("missing section title: %q", out)
	}
	for _, want := range []string{"12.50%", "3.25%", "Reference Words"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderReportSections(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderReport(&buf, buildReport(t)); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"Arabic",
		"English",
		"CER (realign)",
		"Substitutions",
		"en to en",
		"ar to en",
		"Deletions",
		"ar deletions",
		"Insertions",
		"en insertions",
		"100.00%",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderSentenceTrend(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSentenceTrend(&buf, []float64{10, 10, 10}); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Per-Sentence WER") {
		t.Fatalf("missing trend title: %q", out)
	}
	if !strings.Contains(out, "sentences 3") {
		t.Fatalf("missing sentence count: %q", out)
	}
}

func TestRenderSentenceTrendSkipsSingleSentence(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSentenceTrend(&buf, []float64{42}); err != nil {
		t.Fatalf("render: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output for one sentence, got %q", buf.String())
	}
}

func TestSparklineConstantSeries(t *testing.T) {
	line := sparkline([]float64{5, 5, 5, 5})
	if line != "++++" {
		t.Fatalf("unexpected sparkline: %q", line)
	}
}

func TestDownsample(t *testing.T) {
	values := []float64{0, 10, 20, 30}
	out := downsample(values, 2)
	if len(out) != 2 || out[0] != 5 || out[1] != 25 {
		t.Fatalf("unexpected downsample: %v", out)
	}
	same := downsample(values, 10)
	if len(same) != 4 {
		t.Fatalf("expected passthrough, got %v", same)
	}
}
