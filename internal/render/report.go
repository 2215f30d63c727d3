package render

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/aklabib/cswer/internal/metrics"
	"github.com/aklabib/cswer/internal/model"
)

const sparkChars = " .:-=+*#%@"

const fallbackTermWidth = 80

var metricValueAlign = map[int]bool{1: true}

// RenderOverall prints the corpus-level metrics table.
func RenderOverall(w io.Writer, overall model.Overall) error {
	rows := [][]string{
		{"WER", fmt.Sprintf("%.2f%%", overall.WER)},
		{"CER", fmt.Sprintf("%.2f%%", overall.CER)},
		{"Substitutions", fmt.Sprintf("%d", overall.Substitutions)},
		{"Deletions", fmt.Sprintf("%d", overall.Deletions)},
		{"Insertions", fmt.Sprintf("%d", overall.Insertions)},
		{"Reference Words", fmt.Sprintf("%d", overall.RefWords)},
	}
	return renderSection(w, "Overall Metrics", []string{"Metric", "Value"}, rows, metricValueAlign)
}

// RenderReport prints the per-language tables and the substitution,
// deletion, and insertion distributions.
func RenderReport(w io.Writer, report metrics.Report) error {
	for _, langReport := range report.Languages {
		rows := [][]string{
			{"Reference Words", fmt.Sprintf("%d", langReport.RefWords)},
			{"Substitutions", fmt.Sprintf("%d", langReport.Errors.Sub)},
			{"Deletions", fmt.Sprintf("%d", langReport.Errors.Del)},
			{"Insertions", fmt.Sprintf("%d", langReport.Errors.Ins)},
			{"WER", fmt.Sprintf("%.2f%%", langReport.WER)},
			{fmt.Sprintf("CER (%s)", report.CERMode), fmt.Sprintf("%.2f%%", langReport.CER)},
		}
		if err := renderSection(w, langReport.Class.Name(), []string{"Metric", "Value"}, rows, metricValueAlign); err != nil {
			return err
		}
	}

	subRows := make([][]string, 0, len(report.Substitutions))
	for _, entry := range report.Substitutions {
		subRows = append(subRows, []string{
			fmt.Sprintf("%s to %s", entry.Pair.Ref, entry.Pair.Hyp),
			fmt.Sprintf("%.2f%%", entry.Percent),
		})
	}
	if err := renderSection(w, "Substitutions", []string{"Type", "Percentage"}, subRows, metricValueAlign); err != nil {
		return err
	}

	delRows := make([][]string, 0, len(report.Deletions))
	for _, entry := range report.Deletions {
		delRows = append(delRows, []string{
			fmt.Sprintf("%s deletions", entry.Class),
			fmt.Sprintf("%.2f%%", entry.Percent),
		})
	}
	if err := renderSection(w, "Deletions", []string{"Type", "Percentage"}, delRows, metricValueAlign); err != nil {
		return err
	}

	insRows := make([][]string, 0, len(report.Insertions))
	for _, entry := range report.Insertions {
		insRows = append(insRows, []string{
			fmt.Sprintf("%s insertions", entry.Class),
			fmt.Sprintf("%.2f%%", entry.Percent),
		})
	}
	return renderSection(w, "Insertions", []string{"Type", "Percentage"}, insRows, metricValueAlign)
}

// RenderSentenceTrend prints a sparkline of per-sentence WER values, sized
// to the terminal.
func RenderSentenceTrend(w io.Writer, wers []float64) error {
	if len(wers) < 2 {
		return nil
	}
	width := terminalWidth() - 2
	values := downsample(wers, width)
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if _, err := fmt.Fprintln(w, "Per-Sentence WER"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, sparkline(values)); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "min %.2f%%  max %.2f%%  sentences %d\n\n", minVal, maxVal, len(wers))
	return err
}

func renderSection(w io.Writer, title string, headers []string, rows [][]string, rightAlign map[int]bool) error {
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// sparkline renders a single-line ASCII sparkline for the values.
func sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// downsample averages values into at most width buckets.
func downsample(values []float64, width int) []float64 {
	if width < 1 {
		width = 1
	}
	if len(values) <= width {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, width)
	for i := 0; i < width; i++ {
		lo := i * len(values) / width
		hi := (i + 1) * len(values) / width
		if hi <= lo {
			hi = lo + 1
		}
		var sum float64
		for _, v := range values[lo:hi] {
			sum += v
		}
		out[i] = sum / float64(hi-lo)
	}
	return out
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return fallbackTermWidth
	}
	return width
}
