// Package corpus loads and tokenizes newline-delimited sentence files.
package corpus

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"unicode"
)

// Normalizer controls optional text normalization applied per sentence
// before tokenization.
type Normalizer struct {
	Lowercase  bool
	StripPunct bool
}

// Apply normalizes one sentence. Whitespace is always collapsed.
func (n Normalizer) Apply(s string) string {
	if n.Lowercase {
		s = strings.ToLower(s)
	}
	if n.StripPunct {
		s = strings.Map(func(r rune) rune {
			if unicode.IsPunct(r) {
				return -1
			}
			return r
		}, s)
	}
	return strings.Join(strings.Fields(s), " ")
}

// LoadSentences reads one sentence per line from the given path. Lines
// shorter than two characters after trimming are skipped.
func LoadSentences(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for a read-only corpus file.
			_ = cerr
		}
	}()

	var sentences []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if len(line) <= 1 {
			continue
		}
		sentences = append(sentences, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(sentences) == 0 {
		return nil, fmt.Errorf("no sentences in %s", path)
	}
	return sentences, nil
}

// Words tokenizes sentences into whitespace-separated word sequences.
func Words(sentences []string, norm Normalizer) [][]string {
	out := make([][]string, len(sentences))
	for i, s := range sentences {
		out[i] = strings.Fields(norm.Apply(s))
	}
	return out
}

// Runes tokenizes sentences into single-character tokens, spaces included,
// for character-level corpora.
func Runes(sentences []string, norm Normalizer) [][]string {
	out := make([][]string, len(sentences))
	for i, s := range sentences {
		runes := []rune(norm.Apply(s))
		tokens := make([]string, len(runes))
		for j, r := range runes {
			tokens[j] = string(r)
		}
		out[i] = tokens
	}
	return out
}

// Join concatenates all sentences into a single sentence for global
// alignment across sentence boundaries.
func Join(sentences []string) []string {
	return []string{strings.Join(sentences, " ")}
}
