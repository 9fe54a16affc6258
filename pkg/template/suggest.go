package template

import (
	"regexp"
)

type Suggestion struct {
	TemplateType string         `json:"templateType"`
	Confidence   float64        `json:"confidence"`
	Scores       map[string]int `json:"scores"`
}

type keywordMatcher struct {
	key      string
	patterns []*regexp.Regexp
}

var matchers = buildMatchers()

func buildMatchers() []keywordMatcher {
	out := make([]keywordMatcher, 0, len(regions))
	for _, r := range regions {
		m := keywordMatcher{key: r.Key}
		for _, kw := range r.Keywords {
			m.patterns = append(m.patterns, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(kw)+`\b`))
		}
		out = append(out, m)
	}
	return out
}

// SuggestTemplate scores each region by keyword matches in the transcript.
// Confidence is the winning region's share of all matches. Ties go to the
// region listed first; no matches suggest the general template.
func SuggestTemplate(transcript string) Suggestion {
	scores := make(map[string]int, len(matchers))
	best, bestScore, total := GeneralKey, 0, 0

	for _, m := range matchers {
		score := 0
		for _, p := range m.patterns {
			score += len(p.FindAllStringIndex(transcript, -1))
		}
		scores[m.key] = score
		total += score
		if score > bestScore {
			best, bestScore = m.key, score
		}
	}

	s := Suggestion{TemplateType: best, Scores: scores}
	if total > 0 {
		s.Confidence = float64(bestScore) / float64(total)
	}
	return s
}
