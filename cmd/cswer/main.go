// Package main provides the CLI entrypoint for cswer.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/aklabib/cswer/internal/align"
	"github.com/aklabib/cswer/internal/alignui"
	"github.com/aklabib/cswer/internal/config"
	"github.com/aklabib/cswer/internal/corpus"
	"github.com/aklabib/cswer/internal/lang"
	"github.com/aklabib/cswer/internal/metrics"
	"github.com/aklabib/cswer/internal/model"
	"github.com/aklabib/cswer/internal/render"
	"github.com/aklabib/cswer/internal/store"
)

const (
	defaultCERMode     = "realign"
	defaultHistoryLast = 20
)

var (
	evalReference  string
	evalHypothesis string
	evalCharLevel  bool
	evalShowAlign  bool
	evalGlobal     bool
	evalCERMode    string
	evalLowercase  bool
	evalStripPunct bool
	evalNoHistory  bool

	historyLast int

	viewReference  string
	viewHypothesis string
	viewCharLevel  bool
	viewGlobal     bool
	viewLowercase  bool
	viewStripPunct bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "cswer",
		Short:         "Per-language WER/CER for code-switched transcripts",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runEvalCmd,
	}

	rootCmd.Flags().StringVarP(&evalReference, "reference", "r", "", "path to newline-delimited reference sentences")
	rootCmd.Flags().StringVarP(&evalHypothesis, "hypothesis", "y", "", "path to newline-delimited hypothesis sentences")
	rootCmd.Flags().BoolVarP(&evalCharLevel, "cer", "c", false, "treat each character as a token (character-level corpus)")
	rootCmd.Flags().BoolVarP(&evalShowAlign, "align", "a", false, "print the alignment of each sentence")
	rootCmd.Flags().BoolVarP(&evalGlobal, "global", "g", false, "align the concatenated corpora instead of sentence pairs")
	rootCmd.Flags().StringVar(&evalCERMode, "cer-mode", defaultCERMode, "per-language CER mode: realign or positional")
	rootCmd.Flags().BoolVar(&evalLowercase, "lowercase", false, "lowercase sentences before tokenizing")
	rootCmd.Flags().BoolVar(&evalStripPunct, "strip-punct", false, "strip punctuation before tokenizing")
	rootCmd.Flags().BoolVar(&evalNoHistory, "no-history", false, "do not record this run in the history database")
	markRequired(rootCmd, "reference")
	markRequired(rootCmd, "hypothesis")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newViewCmd())

	return rootCmd
}

func markRequired(cmd *cobra.Command, name string) {
	if err := cmd.MarkFlagRequired(name); err != nil {
		// Flag names are static; a failure here is a programming error.
		panic(err)
	}
}

func runEvalCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "cer-mode", &evalCERMode, fileCfg.Eval.CERMode)
	applyBoolConfig(cmd, "lowercase", &evalLowercase, fileCfg.Eval.Lowercase)
	applyBoolConfig(cmd, "strip-punct", &evalStripPunct, fileCfg.Eval.StripPunct)
	applyBoolConfig(cmd, "no-history", &evalNoHistory, fileCfg.Eval.NoHistory)

	opts := model.Options{
		ReferencePath:  evalReference,
		HypothesisPath: evalHypothesis,
		CharLevel:      evalCharLevel,
		ShowAlignment:  evalShowAlign,
		Global:         evalGlobal,
		CERMode:        evalCERMode,
		Lowercase:      evalLowercase,
		StripPunct:     evalStripPunct,
		NoHistory:      evalNoHistory,
	}
	cerMode, err := parseCERMode(opts.CERMode)
	if err != nil {
		return err
	}

	startedAt := time.Now()
	ev, err := buildEvaluation(opts)
	if err != nil {
		return err
	}

	report, err := metrics.Accumulate(ev.alignedRefs, ev.alignedHyps, lang.ArabicLatin(), cerMode)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.ShowAlignment {
		if err := render.RenderAlignment(out, ev.alignedRefs, ev.alignedHyps); err != nil {
			return fmt.Errorf("failed to write alignment: %w", err)
		}
	}
	if err := render.RenderOverall(out, ev.overall); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := render.RenderReport(out, report); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	if !opts.Global {
		if err := render.RenderSentenceTrend(out, ev.sentenceWERs); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}

	if opts.NoHistory {
		return nil
	}
	if err := saveRun(startedAt, opts, ev, report); err != nil {
		// History is auxiliary; a broken database must not fail the run.
		logErrf("failed to record run: %v\n", err)
	}
	return nil
}

// evaluation bundles the aligned corpus and its corpus-level scalars.
type evaluation struct {
	alignedRefs  [][]align.Entry
	alignedHyps  [][]align.Entry
	overall      model.Overall
	sentenceWERs []float64
	sentences    int
}

func buildEvaluation(opts model.Options) (evaluation, error) {
	refSentences, err := corpus.LoadSentences(opts.ReferencePath)
	if err != nil {
		return evaluation{}, fmt.Errorf("failed to load reference: %w", err)
	}
	hypSentences, err := corpus.LoadSentences(opts.HypothesisPath)
	if err != nil {
		return evaluation{}, fmt.Errorf("failed to load hypothesis: %w", err)
	}
	if opts.Global {
		refSentences = corpus.Join(refSentences)
		hypSentences = corpus.Join(hypSentences)
	} else if len(refSentences) != len(hypSentences) {
		return evaluation{}, fmt.Errorf(
			"number of reference sentences (%d in %s) and hypothesis sentences (%d in %s) do not match; use --global to align the concatenated corpora",
			len(refSentences), opts.ReferencePath, len(hypSentences), opts.HypothesisPath)
	}

	norm := corpus.Normalizer{Lowercase: opts.Lowercase, StripPunct: opts.StripPunct}
	var refs, hyps [][]string
	if opts.CharLevel {
		refs = corpus.Runes(refSentences, norm)
		hyps = corpus.Runes(hypSentences, norm)
	} else {
		refs = corpus.Words(refSentences, norm)
		hyps = corpus.Words(hypSentences, norm)
	}

	chunks := make([][]align.Chunk, len(refs))
	sentenceWERs := make([]float64, len(refs))
	var total align.Counts
	totalRefWords := 0
	for i := range refs {
		chunks[i] = align.Words(refs[i], hyps[i])
		counts := align.Count(chunks[i])
		total.Sub += counts.Sub
		total.Del += counts.Del
		total.Ins += counts.Ins
		total.Hit += counts.Hit
		totalRefWords += len(refs[i])
		if len(refs[i]) > 0 {
			sentenceWERs[i] = 100 * float64(counts.Errors()) / float64(len(refs[i]))
		}
	}

	alignedRefs, alignedHyps, err := align.Expand(refs, hyps, chunks)
	if err != nil {
		return evaluation{}, fmt.Errorf("failed to expand alignment: %w", err)
	}

	overall := model.Overall{
		Substitutions: total.Sub,
		Deletions:     total.Del,
		Insertions:    total.Ins,
		RefWords:      totalRefWords,
	}
	if totalRefWords > 0 {
		overall.WER = 100 * float64(total.Errors()) / float64(totalRefWords)
	}
	overall.CER = overallCER(refSentences, hypSentences, norm)

	return evaluation{
		alignedRefs:  alignedRefs,
		alignedHyps:  alignedHyps,
		overall:      overall,
		sentenceWERs: sentenceWERs,
		sentences:    len(refs),
	}, nil
}

// overallCER is the character error rate of the whole corpus: edit distance
// between the joined normalized corpora over the reference rune count.
func overallCER(refSentences, hypSentences []string, norm corpus.Normalizer) float64 {
	refRunes := []rune(joinNormalized(refSentences, norm))
	hypRunes := []rune(joinNormalized(hypSentences, norm))
	if len(refRunes) == 0 {
		return 0
	}
	return 100 * float64(align.Distance(refRunes, hypRunes)) / float64(len(refRunes))
}

func joinNormalized(sentences []string, norm corpus.Normalizer) string {
	normalized := make([]string, len(sentences))
	for i, s := range sentences {
		normalized[i] = norm.Apply(s)
	}
	return strings.Join(normalized, " ")
}

func saveRun(startedAt time.Time, opts model.Options, ev evaluation, report metrics.Report) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	run := model.RunStats{
		StartedAt:      startedAt,
		ReferencePath:  opts.ReferencePath,
		HypothesisPath: opts.HypothesisPath,
		CharLevel:      opts.CharLevel,
		CERMode:        report.CERMode.String(),
		Sentences:      ev.sentences,
		OverallWER:     ev.overall.WER,
		OverallCER:     ev.overall.CER,
		Substitutions:  ev.overall.Substitutions,
		Deletions:      ev.overall.Deletions,
		Insertions:     ev.overall.Insertions,
	}
	languages := make([]model.RunLanguageStats, 0, len(report.Languages))
	for _, row := range report.Languages {
		languages = append(languages, model.RunLanguageStats{
			Class:         string(row.Class),
			RefWords:      row.RefWords,
			WER:           row.WER,
			CER:           row.CER,
			Substitutions: row.Errors.Sub,
			Deletions:     row.Errors.Del,
			Insertions:    row.Errors.Ins,
		})
	}
	if _, err := st.InsertRun(context.Background(), run, languages); err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

func parseCERMode(mode string) (metrics.CERMode, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "realign":
		return metrics.CERRealign, nil
	case "positional":
		return metrics.CERPositional, nil
	}
	return 0, fmt.Errorf("invalid --cer-mode %q (use realign or positional)", mode)
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List stored evaluation runs",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().IntVar(&historyLast, "last", defaultHistoryLast, "limit to last N runs (0 for all)")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	runs, err := st.ListRuns(context.Background(), historyLast)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	return render.RenderHistory(cmd.OutOrStdout(), runs)
}

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Browse per-sentence alignments interactively",
		Args:  cobra.NoArgs,
		RunE:  runViewCmd,
	}
	cmd.Flags().StringVarP(&viewReference, "reference", "r", "", "path to newline-delimited reference sentences")
	cmd.Flags().StringVarP(&viewHypothesis, "hypothesis", "y", "", "path to newline-delimited hypothesis sentences")
	cmd.Flags().BoolVarP(&viewCharLevel, "cer", "c", false, "treat each character as a token")
	cmd.Flags().BoolVarP(&viewGlobal, "global", "g", false, "align the concatenated corpora instead of sentence pairs")
	cmd.Flags().BoolVar(&viewLowercase, "lowercase", false, "lowercase sentences before tokenizing")
	cmd.Flags().BoolVar(&viewStripPunct, "strip-punct", false, "strip punctuation before tokenizing")
	markRequired(cmd, "reference")
	markRequired(cmd, "hypothesis")
	return cmd
}

func runViewCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyBoolConfig(cmd, "lowercase", &viewLowercase, fileCfg.Eval.Lowercase)
	applyBoolConfig(cmd, "strip-punct", &viewStripPunct, fileCfg.Eval.StripPunct)

	opts := model.Options{
		ReferencePath:  viewReference,
		HypothesisPath: viewHypothesis,
		CharLevel:      viewCharLevel,
		Global:         viewGlobal,
		Lowercase:      viewLowercase,
		StripPunct:     viewStripPunct,
	}
	ev, err := buildEvaluation(opts)
	if err != nil {
		return err
	}

	browser := alignui.NewModel(ev.alignedRefs, ev.alignedHyps)
	program := tea.NewProgram(browser, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run alignment browser: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# cswer configuration
# Uncomment a value to enable it. CLI flags override config values.

[eval]
# cer-mode = %q       # Per-language CER: realign or positional
# lowercase = false   # Lowercase sentences before tokenizing
# strip-punct = false # Strip punctuation before tokenizing
# no-history = false  # Do not record runs in the history database
`, defaultCERMode)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
