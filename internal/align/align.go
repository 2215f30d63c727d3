// Package align computes token-level alignments between reference and
// hypothesis sequences and expands them into position-paired streams.
package align

import "fmt"

// Op is an alignment operation kind.
type Op uint8

// The closed set of alignment operations.
const (
	OpEqual Op = iota
	OpSubstitute
	OpDelete
	OpInsert
)

// String returns the lower-case name of the operation.
func (op Op) String() string {
	switch op {
	case OpEqual:
		return "equal"
	case OpSubstitute:
		return "substitute"
	case OpDelete:
		return "delete"
	case OpInsert:
		return "insert"
	}
	return fmt.Sprintf("op(%d)", uint8(op))
}

// Marker returns the single-letter marker used in alignment visualizations.
func (op Op) Marker() string {
	switch op {
	case OpSubstitute:
		return "S"
	case OpDelete:
		return "D"
	case OpInsert:
		return "I"
	}
	return ""
}

// Chunk is a maximal run of one operation over half-open index ranges into
// a sentence's reference and hypothesis token sequences.
type Chunk struct {
	Op       Op
	RefStart int
	RefEnd   int
	HypStart int
	HypEnd   int
}

// Counts tallies error operations over a chunk list.
type Counts struct {
	Sub int
	Del int
	Ins int
	Hit int
}

// Errors returns the total number of error operations.
func (c Counts) Errors() int {
	return c.Sub + c.Del + c.Ins
}

// Count tallies per-operation token counts for a chunk list.
func Count(chunks []Chunk) Counts {
	var c Counts
	for _, ch := range chunks {
		switch ch.Op {
		case OpEqual:
			c.Hit += ch.RefEnd - ch.RefStart
		case OpSubstitute:
			c.Sub += ch.RefEnd - ch.RefStart
		case OpDelete:
			c.Del += ch.RefEnd - ch.RefStart
		case OpInsert:
			c.Ins += ch.HypEnd - ch.HypStart
		}
	}
	return c
}

// Words aligns two token sequences and returns the ordered chunk list
// covering both sequences in full.
func Words(ref, hyp []string) []Chunk {
	ops := traceOps(ref, hyp)
	return mergeOps(ops)
}

// Runes aligns two strings character by character.
func Runes(ref, hyp string) []Chunk {
	return Words(runeTokens(ref), runeTokens(hyp))
}

// Distance returns the Levenshtein edit distance between two rune sequences.
// Single-row DP; used for whole-string character re-alignment where only the
// scalar is needed.
func Distance(a, b []rune) int {
	la, lb := len(a), len(b)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}
	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= la; i++ {
		curr[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = minInt(prev[j]+1, minInt(curr[j-1]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}
	return prev[lb]
}

func runeTokens(s string) []string {
	runes := []rune(s)
	out := make([]string, len(runes))
	for i, r := range runes {
		out[i] = string(r)
	}
	return out
}

// traceOps runs the edit-distance DP and backtraces one operation per
// aligned position.
func traceOps(ref, hyp []string) []Op {
	n, m := len(ref), len(hyp)
	d := make([][]int, n+1)
	for i := range d {
		d[i] = make([]int, m+1)
		d[i][0] = i
	}
	for j := 0; j <= m; j++ {
		d[0][j] = j
	}
	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			if ref[i-1] == hyp[j-1] {
				d[i][j] = d[i-1][j-1]
				continue
			}
			d[i][j] = minInt(d[i-1][j-1]+1, minInt(d[i-1][j]+1, d[i][j-1]+1))
		}
	}

	// Backtrace from the corner, collecting operations in reverse.
	ops := make([]Op, 0, n+m)
	i, j := n, m
	for i > 0 || j > 0 {
		switch {
		case i > 0 && j > 0 && ref[i-1] == hyp[j-1] && d[i][j] == d[i-1][j-1]:
			ops = append(ops, OpEqual)
			i--
			j--
		case i > 0 && j > 0 && d[i][j] == d[i-1][j-1]+1:
			ops = append(ops, OpSubstitute)
			i--
			j--
		case i > 0 && d[i][j] == d[i-1][j]+1:
			ops = append(ops, OpDelete)
			i--
		default:
			ops = append(ops, OpInsert)
			j--
		}
	}
	reverseOps(ops)
	return ops
}

// mergeOps collapses the per-position operation list into maximal chunks
// with contiguous index ranges on both sides.
func mergeOps(ops []Op) []Chunk {
	chunks := make([]Chunk, 0, len(ops))
	ri, hi := 0, 0
	for k := 0; k < len(ops); {
		op := ops[k]
		chunk := Chunk{Op: op, RefStart: ri, HypStart: hi}
		for k < len(ops) && ops[k] == op {
			switch op {
			case OpEqual, OpSubstitute:
				ri++
				hi++
			case OpDelete:
				ri++
			case OpInsert:
				hi++
			}
			k++
		}
		chunk.RefEnd = ri
		chunk.HypEnd = hi
		chunks = append(chunks, chunk)
	}
	return chunks
}

// Validate checks that a chunk list is ordered, contiguous, and covers the
// full token ranges of one sentence pair.
func Validate(chunks []Chunk, refLen, hypLen int) error {
	ri, hi := 0, 0
	for k, ch := range chunks {
		if ch.RefStart != ri || ch.HypStart != hi {
			return fmt.Errorf("chunk %d (%s): starts at ref=%d hyp=%d, want ref=%d hyp=%d",
				k, ch.Op, ch.RefStart, ch.HypStart, ri, hi)
		}
		if ch.RefEnd < ch.RefStart || ch.HypEnd < ch.HypStart {
			return fmt.Errorf("chunk %d (%s): negative-length range", k, ch.Op)
		}
		switch ch.Op {
		case OpDelete:
			if ch.HypEnd != ch.HypStart {
				return fmt.Errorf("chunk %d: delete with non-empty hypothesis range", k)
			}
		case OpInsert:
			if ch.RefEnd != ch.RefStart {
				return fmt.Errorf("chunk %d: insert with non-empty reference range", k)
			}
		}
		ri = ch.RefEnd
		hi = ch.HypEnd
	}
	if ri != refLen || hi != hypLen {
		return fmt.Errorf("chunks cover ref=%d hyp=%d tokens, want ref=%d hyp=%d",
			ri, hi, refLen, hypLen)
	}
	return nil
}

func reverseOps(ops []Op) {
	for i, j := 0, len(ops)-1; i < j; i, j = i+1, j-1 {
		ops[i], ops[j] = ops[j], ops[i]
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
