package corpus

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeCorpus(t *testing.T, lines string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "corpus.txt")
	if err := os.WriteFile(path, []byte(lines), 0o644); err != nil {
		t.Fatalf("write corpus: %v", err)
	}
	return path
}

func TestLoadSentencesSkipsBlankishLines(t *testing.T) {
	path := writeCorpus(t, "hello world\n\n  \nx\nمرحبا يا عالم\n")
	sentences, err := LoadSentences(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := []string{"hello world", "مرحبا يا عالم"}
	if !reflect.DeepEqual(sentences, want) {
		t.Fatalf("unexpected sentences: %v", sentences)
	}
}

func TestLoadSentencesEmptyFile(t *testing.T) {
	path := writeCorpus(t, "\n\n")
	if _, err := LoadSentences(path); err == nil {
		t.Fatalf("expected error for empty corpus")
	}
}

func TestLoadSentencesMissingFile(t *testing.T) {
	if _, err := LoadSentences(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestNormalizerApply(t *testing.T) {
	norm := Normalizer{Lowercase: true, StripPunct: true}
	if got := norm.Apply("Hello,  World!"); got != "hello world" {
		t.Fatalf("unexpected normalization: %q", got)
	}
	plain := Normalizer{}
	if got := plain.Apply("  a   b "); got != "a b" {
		t.Fatalf("expected whitespace collapse, got %q", got)
	}
}

func TestWordsTokenization(t *testing.T) {
	tokens := Words([]string{"hello مرحبا world"}, Normalizer{})
	want := [][]string{{"hello", "مرحبا", "world"}}
	if !reflect.DeepEqual(tokens, want) {
		t.Fatalf("unexpected tokens: %v", tokens)
	}
}

func TestRunesTokenization(t *testing.T) {
	tokens := Runes([]string{"ab c"}, Normalizer{})
	want := [][]string{{"a", "b", " ", "c"}}
	if !reflect.DeepEqual(tokens, want) {
		t.Fatalf("unexpected tokens: %v", tokens)
	}
}

func TestJoin(t *testing.T) {
	joined := Join([]string{"a b", "c"})
	if !reflect.DeepEqual(joined, []string{"a b c"}) {
		t.Fatalf("unexpected join: %v", joined)
	}
}
