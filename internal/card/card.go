package card

import "fmt"

// Example is one generated sentence pair for a vocabulary word.
// The field order matches the tuple order the model is asked for:
// (target sentence, base translation, target keyword, base keyword).
type Example struct {
	TargetSentence string
	BaseSentence   string
	TargetWord     string
	BaseWord       string
}

// RecordSet holds the flattened examples of one run as four parallel
// slices of equal length. It is built once by Aggregate and read-only
// after that.
type RecordSet struct {
	BaseSentences   []string
	TargetSentences []string
	BaseWords       []string
	TargetWords     []string
	N               int
}

// Aggregate flattens the per-word examples into a RecordSet, iterating
// words in the given order and each word's examples in their original
// order. A word missing from results is a caller bug and fails the run;
// a word mapped to zero examples simply contributes nothing.
func Aggregate(words []string, results map[string][]Example) (RecordSet, error) {
	var rs RecordSet
	for _, word := range words {
		examples, ok := results[word]
		if !ok {
			return RecordSet{}, fmt.Errorf("no generation result for word %q", word)
		}
		for _, ex := range examples {
			rs.BaseSentences = append(rs.BaseSentences, ex.BaseSentence)
			rs.TargetSentences = append(rs.TargetSentences, ex.TargetSentence)
			rs.BaseWords = append(rs.BaseWords, ex.BaseWord)
			rs.TargetWords = append(rs.TargetWords, ex.TargetWord)
		}
	}
	rs.N = len(rs.BaseSentences)
	return rs, nil
}

// Slice returns the records in [lo, hi) as a new RecordSet.
func (rs RecordSet) Slice(lo, hi int) RecordSet {
	return RecordSet{
		BaseSentences:   rs.BaseSentences[lo:hi],
		TargetSentences: rs.TargetSentences[lo:hi],
		BaseWords:       rs.BaseWords[lo:hi],
		TargetWords:     rs.TargetWords[lo:hi],
		N:               hi - lo,
	}
}
