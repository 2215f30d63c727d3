package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/aklabib/cswer/internal/align"
)

// RenderAlignment prints a REF/HYP/marker view for every sentence pair.
func RenderAlignment(w io.Writer, alignedRefs, alignedHyps [][]align.Entry) error {
	for s := range alignedRefs {
		if _, err := fmt.Fprintf(w, "Sentence %d\n", s+1); err != nil {
			return err
		}
		if _, err := fmt.Fprint(w, VisualizeSentence(alignedRefs[s], alignedHyps[s])); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, ""); err != nil {
			return err
		}
	}
	return nil
}

// VisualizeSentence lays out one sentence's paired streams as three lines:
// the reference tokens, the hypothesis tokens, and an operation marker line
// with S/D/I under every error position. Placeholders render as asterisk
// runs padded to the paired token's width.
func VisualizeSentence(alignedRef, alignedHyp []align.Entry) string {
	count := len(alignedRef)
	if len(alignedHyp) < count {
		count = len(alignedHyp)
	}

	refCells := make([]string, count)
	hypCells := make([]string, count)
	markCells := make([]string, count)
	for i := 0; i < count; i++ {
		ref := alignedRef[i]
		hyp := alignedHyp[i]
		refCell := ref.Token
		hypCell := hyp.Token
		if ref.Placeholder {
			refCell = strings.Repeat("*", maxInt(1, displayWidth(hyp.Token)))
		}
		if hyp.Placeholder {
			hypCell = strings.Repeat("*", maxInt(1, displayWidth(ref.Token)))
		}
		width := maxInt(displayWidth(refCell), displayWidth(hypCell))
		refCells[i] = padCell(refCell, width, false)
		hypCells[i] = padCell(hypCell, width, false)
		markCells[i] = padCell(ref.Op.Marker(), width, false)
	}

	var b strings.Builder
	b.WriteString("REF: " + strings.TrimRight(strings.Join(refCells, " "), " ") + "\n")
	b.WriteString("HYP: " + strings.TrimRight(strings.Join(hypCells, " "), " ") + "\n")
	markers := strings.TrimRight(strings.Join(markCells, " "), " ")
	if markers != "" {
		b.WriteString("     " + markers + "\n")
	}
	return b.String()
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
