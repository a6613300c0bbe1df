package learnhub

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode"

	textrank "github.com/DavidBelicza/TextRank/v2"
)

const (
	DefaultSentences = 5
	MinSentences     = 3
	MaxSentences     = 10

	// fallbackChars is how much raw text stands in for a summary that yields nothing.
	fallbackChars = 1500
)

var sentenceEnd = regexp.MustCompile(`[.!?]+["')\]]*\s+`)

// Summarize ranks words with TextRank, scores each sentence by the mean weight of its
// ranked words, and returns the n best sentences in document order. If nothing can be
// scored it falls back to the first 1500 characters of text.
func Summarize(text string, n int) string {
	n = ClampSentences(n)
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return truncateRunes(text, fallbackChars)
	}
	if len(sentences) <= n {
		return strings.Join(sentences, " ")
	}

	weights := wordWeights(text)

	type scored struct {
		idx   int
		score float64
	}
	ranked := make([]scored, 0, len(sentences))
	for i, s := range sentences {
		sum, count := 0.0, 0
		for _, w := range sentenceWords(s) {
			if wt, ok := weights[w]; ok {
				sum += wt
				count++
			}
		}
		if count == 0 {
			continue
		}
		ranked = append(ranked, scored{idx: i, score: sum / float64(count)})
	}
	if len(ranked) == 0 {
		return truncateRunes(text, fallbackChars)
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].idx < ranked[j].idx })

	out := make([]string, len(ranked))
	for i, r := range ranked {
		out[i] = sentences[r.idx]
	}
	return strings.Join(out, " ")
}

// wordWeights runs TextRank over text and returns the normalized weight of every ranked
// (non-stop) word, keyed in lower case.
func wordWeights(text string) map[string]float64 {
	tr := textrank.NewTextRank()
	tr.Populate(text, textrank.NewDefaultLanguage(), textrank.NewDefaultRule())
	tr.Ranking(textrank.NewDefaultAlgorithm())

	out := map[string]float64{}
	for _, w := range textrank.FindSingleWords(tr) {
		wt := float64(w.Weight)
		if math.IsNaN(wt) || math.IsInf(wt, 0) {
			wt = 0
		}
		key := strings.ToLower(w.Word)
		if cur, ok := out[key]; !ok || wt > cur {
			out[key] = wt
		}
	}
	return out
}

// ClampSentences keeps a requested summary length within 3..10; 0 means the default.
func ClampSentences(n int) int {
	switch {
	case n == 0:
		return DefaultSentences
	case n < MinSentences:
		return MinSentences
	case n > MaxSentences:
		return MaxSentences
	}
	return n
}

func splitSentences(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	var out []string
	last := 0
	for _, loc := range sentenceEnd.FindAllStringIndex(text, -1) {
		if s := strings.TrimSpace(text[last:loc[1]]); s != "" {
			out = append(out, s)
		}
		last = loc[1]
	}
	if s := strings.TrimSpace(text[last:]); s != "" {
		out = append(out, s)
	}
	return out
}

// sentenceWords lower-cases a sentence and splits it on anything but letters and digits.
func sentenceWords(sentence string) []string {
	return strings.FieldsFunc(strings.ToLower(sentence), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}
