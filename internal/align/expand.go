package align

import "fmt"

// Entry is one position of an expanded alignment stream. Placeholder
// entries carry no token; they keep the reference and hypothesis streams
// positionally paired across deletions and insertions.
type Entry struct {
	Token       string
	Op          Op
	Placeholder bool
}

// Expand converts per-sentence chunk traces into two parallel streams of
// tagged entries, one entry per alignment position. For every sentence the
// two streams have equal length: a deletion emits the reference token on
// one side and a placeholder on the other, an insertion the mirror image.
func Expand(refs, hyps [][]string, alignments [][]Chunk) (alignedRefs, alignedHyps [][]Entry, err error) {
	if len(refs) != len(hyps) || len(refs) != len(alignments) {
		return nil, nil, fmt.Errorf("mismatched inputs: %d references, %d hypotheses, %d alignments",
			len(refs), len(hyps), len(alignments))
	}

	alignedRefs = make([][]Entry, len(refs))
	alignedHyps = make([][]Entry, len(refs))
	for s := range refs {
		aref, ahyp, err := expandSentence(refs[s], hyps[s], alignments[s])
		if err != nil {
			return nil, nil, fmt.Errorf("sentence %d: %w", s+1, err)
		}
		alignedRefs[s] = aref
		alignedHyps[s] = ahyp
	}
	return alignedRefs, alignedHyps, nil
}

func expandSentence(ref, hyp []string, chunks []Chunk) ([]Entry, []Entry, error) {
	if err := Validate(chunks, len(ref), len(hyp)); err != nil {
		return nil, nil, err
	}

	aref := make([]Entry, 0, len(ref)+len(hyp))
	ahyp := make([]Entry, 0, len(ref)+len(hyp))
	for _, ch := range chunks {
		switch ch.Op {
		case OpEqual, OpSubstitute:
			for i := ch.RefStart; i < ch.RefEnd; i++ {
				aref = append(aref, Entry{Token: ref[i], Op: ch.Op})
			}
			for i := ch.HypStart; i < ch.HypEnd; i++ {
				ahyp = append(ahyp, Entry{Token: hyp[i], Op: ch.Op})
			}
		case OpDelete:
			for i := ch.RefStart; i < ch.RefEnd; i++ {
				aref = append(aref, Entry{Token: ref[i], Op: OpDelete})
				ahyp = append(ahyp, Entry{Op: OpDelete, Placeholder: true})
			}
		case OpInsert:
			for i := ch.HypStart; i < ch.HypEnd; i++ {
				aref = append(aref, Entry{Op: OpInsert, Placeholder: true})
				ahyp = append(ahyp, Entry{Token: hyp[i], Op: OpInsert})
			}
		}
	}
	if len(aref) != len(ahyp) {
		return nil, nil, fmt.Errorf("uneven substitute ranges: %d reference positions, %d hypothesis positions",
			len(aref), len(ahyp))
	}
	return aref, ahyp, nil
}
