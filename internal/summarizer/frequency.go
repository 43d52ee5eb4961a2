// Package summarizer produces short extractive summaries of the corpus.
package summarizer

import (
	"math"
	"sort"
	"strings"

	"pdfsearch/internal/textutil"
)

// FrequencySummarizer ranks sentences by word frequency (stopwords filtered).
type FrequencySummarizer struct{}

// NewFrequencySummarizer creates a frequency-based sentence ranker summarizer.
func NewFrequencySummarizer() *FrequencySummarizer {
	return &FrequencySummarizer{}
}

// Summarize returns up to maxSentences of the highest scoring sentences in
// their original order.
func (s *FrequencySummarizer) Summarize(text string, maxSentences int) string {
	if maxSentences <= 0 {
		maxSentences = 5
	}
	sentences := textutil.Sentences(text)
	if len(sentences) == 0 {
		return ""
	}

	freq := map[string]float64{}
	for _, sent := range sentences {
		for _, tok := range textutil.Terms(sent) {
			freq[tok]++
		}
	}
	maxF := 0.0
	for _, v := range freq {
		maxF = math.Max(maxF, v)
	}
	if maxF > 0 {
		for k, v := range freq {
			freq[k] = v / maxF
		}
	}

	type pair struct {
		idx   int
		score float64
	}
	scores := make([]pair, len(sentences))
	for i, sent := range sentences {
		words := textutil.Words(sent)
		score := 0.0
		for _, tok := range words {
			score += freq[tok]
		}
		// normalize by sentence length to avoid bias toward long sentences
		if l := float64(len(words)); l > 0 {
			score /= math.Sqrt(l)
		}
		scores[i] = pair{i, score}
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].score > scores[j].score })
	maxSentences = min(maxSentences, len(scores))

	selected := make([]int, maxSentences)
	for i := range selected {
		selected[i] = scores[i].idx
	}
	sort.Ints(selected)
	out := make([]string, 0, maxSentences)
	for _, idx := range selected {
		out = append(out, sentences[idx])
	}
	return strings.Join(out, " ")
}

// BestSentence returns the sentence of text sharing the most distinct words
// with query, or "" when nothing overlaps.
func BestSentence(query, text string) string {
	qset := textutil.TokenSet(query)
	if len(qset) == 0 {
		return ""
	}
	best, bestScore := "", 0
	for _, sent := range textutil.Sentences(text) {
		score := 0
		for tok := range textutil.TokenSet(sent) {
			if textutil.IsStopword(tok) {
				continue
			}
			if _, ok := qset[tok]; ok {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = sent, score
		}
	}
	return best
}
