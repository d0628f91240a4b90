package evaluators

import (
	"context"
	"strings"
	"unicode"

	"github.com/askiada/go-evalflow/pkg/evalflow/model"
)

// F1Score measures the token overlap between the answer and the ground
// truth: precision is the fraction of answer tokens found in the ground
// truth, recall the reverse, and the score their harmonic mean. Both
// strings are lowercased and stripped of punctuation and of English
// articles before tokenisation.
type F1Score struct{}

func NewF1Score() *F1Score {
	return &F1Score{}
}

// Parameters returns the required inputs.
func (e *F1Score) Parameters() []model.Parameter {
	return requiredParams
}

// Call scores one row.
func (e *F1Score) Call(_ context.Context, inputs model.Record) (model.Record, error) {
	answer := tokenize(asString(inputs["answer"]))
	truth := tokenize(asString(inputs["ground_truth"]))

	return model.Record{"f1_score": f1(answer, truth)}, nil
}

var articles = map[string]struct{}{"a": {}, "an": {}, "the": {}}

func tokenize(s string) []string {
	var sb strings.Builder

	for _, r := range strings.ToLower(s) {
		if unicode.IsPunct(r) {
			continue
		}

		sb.WriteRune(r)
	}

	var tokens []string

	for _, tok := range strings.Fields(sb.String()) {
		if _, ok := articles[tok]; ok {
			continue
		}

		tokens = append(tokens, tok)
	}

	return tokens
}

// f1 counts tokens as a multiset, so a repeated word only matches as
// often as it appears on both sides.
func f1(answer, truth []string) float64 {
	if len(answer) == 0 || len(truth) == 0 {
		return 0
	}

	counts := make(map[string]int, len(truth))
	for _, tok := range truth {
		counts[tok]++
	}

	common := 0

	for _, tok := range answer {
		if counts[tok] > 0 {
			counts[tok]--
			common++
		}
	}

	if common == 0 {
		return 0
	}

	precision := float64(common) / float64(len(answer))
	recall := float64(common) / float64(len(truth))

	return 2 * precision * recall / (precision + recall)
}

var _ model.Callable = (*F1Score)(nil)
