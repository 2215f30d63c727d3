package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aklabib/cswer/internal/align"
)

func expandOne(t *testing.T, ref, hyp []string, chunks []align.Chunk) ([]align.Entry, []align.Entry) {
	t.Helper()
	alignedRefs, alignedHyps, err := align.Expand([][]string{ref}, [][]string{hyp}, [][]align.Chunk{chunks})
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	return alignedRefs[0], alignedHyps[0]
}

func TestVisualizeSentenceDeletion(t *testing.T) {
	alignedRef, alignedHyp := expandOne(t,
		[]string{"the", "cat"},
		[]string{"the"},
		[]align.Chunk{
			{Op: align.OpEqual, RefStart: 0, RefEnd: 1, HypStart: 0, HypEnd: 1},
			{Op: align.OpDelete, RefStart: 1, RefEnd: 2, HypStart: 1, HypEnd: 1},
		})

	got := VisualizeSentence(alignedRef, alignedHyp)
	want := "REF: the cat\nHYP: the ***\n         D\n"
	if got != want {
		t.Fatalf("unexpected layout:\n%q\nwant:\n%q", got, want)
	}
}

func TestVisualizeSentenceInsertion(t *testing.T) {
	alignedRef, alignedHyp := expandOne(t,
		[]string{"the"},
		[]string{"the", "cat"},
		[]align.Chunk{
			{Op: align.OpEqual, RefStart: 0, RefEnd: 1, HypStart: 0, HypEnd: 1},
			{Op: align.OpInsert, RefStart: 1, RefEnd: 1, HypStart: 1, HypEnd: 2},
		})

	got := VisualizeSentence(alignedRef, alignedHyp)
	want := "REF: the ***\nHYP: the cat\n         I\n"
	if got != want {
		t.Fatalf("unexpected layout:\n%q\nwant:\n%q", got, want)
	}
}

func TestVisualizeSentenceAllEqualOmitsMarkerLine(t *testing.T) {
	alignedRef, alignedHyp := expandOne(t,
		[]string{"hello", "world"},
		[]string{"hello", "world"},
		[]align.Chunk{
			{Op: align.OpEqual, RefStart: 0, RefEnd: 2, HypStart: 0, HypEnd: 2},
		})

	got := VisualizeSentence(alignedRef, alignedHyp)
	want := "REF: hello world\nHYP: hello world\n"
	if got != want {
		t.Fatalf("unexpected layout:\n%q\nwant:\n%q", got, want)
	}
}

func TestVisualizeSentencePadsSubstitutionWidths(t *testing.T) {
	alignedRef, alignedHyp := expandOne(t,
		[]string{"hi"},
		[]string{"hello"},
		[]align.Chunk{
			{Op: align.OpSubstitute, RefStart: 0, RefEnd: 1, HypStart: 0, HypEnd: 1},
		})

	got := VisualizeSentence(alignedRef, alignedHyp)
	want := "REF: hi\nHYP: hello\n     S\n"
	if got != want {
		t.Fatalf("unexpected layout:\n%q\nwant:\n%q", got, want)
	}
}

func TestRenderAlignmentNumbersSentences(t *testing.T) {
	alignedRef, alignedHyp := expandOne(t,
		[]string{"a"},
		[]string{"a"},
		[]align.Chunk{
			{Op: align.OpEqual, RefStart: 0, RefEnd: 1, HypStart: 0, HypEnd: 1},
		})

	var buf bytes.Buffer
	err := RenderAlignment(&buf, [][]align.Entry{alignedRef, alignedRef}, [][]align.Entry{alignedHyp, alignedHyp})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Sentence 1\n") || !strings.Contains(out, "Sentence 2\n") {
		t.Fatalf("missing sentence headers:\n%s", out)
	}
}
