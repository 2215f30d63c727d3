package render

import (
	"fmt"
	"io"

	"github.com/aklabib/cswer/internal/model"
)

// RenderHistory prints a table of stored evaluation runs.
func RenderHistory(w io.Writer, runs []model.RunAggregate) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No runs found.")
		return err
	}
	headers := []string{"ID", "Started", "Reference", "Hypothesis", "Mode", "Sentences", "WER", "CER"}
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		mode := "word"
		if run.CharLevel {
			mode = "char"
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", run.RunID),
			run.StartedAt.Format("2006-01-02 15:04"),
			run.ReferencePath,
			run.HypothesisPath,
			mode,
			fmt.Sprintf("%d", run.Sentences),
			fmt.Sprintf("%.2f%%", run.OverallWER),
			fmt.Sprintf("%.2f%%", run.OverallCER),
		})
	}
	rightAlign := map[int]bool{0: true, 5: true, 6: true, 7: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
