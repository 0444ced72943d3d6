// Package esg scores text for Environmental/Social/Governance relevance
// using keyword density. The score is a heuristic prior for downstream
// ranking, not a classifier.
package esg

import (
	"math"
	"regexp"
	"strings"
	"sync"
)

// Keyword vocabulary by category. Multi-word phrases are matched by exact
// substring; single words by word boundary.
var vocabulary = map[string][]string{
	"environmental": {
		"carbon", "emission", "emissions", "climate", "renewable", "biodiversity",
		"greenhouse gas", "net zero", "carbon footprint", "energy efficiency",
		"waste", "recycling", "water usage", "deforestation", "pollution",
		"scope 1", "scope 2", "scope 3", "decarbonization", "circular economy",
	},
	"social": {
		"diversity", "inclusion", "human rights", "labor", "labour", "community",
		"health and safety", "employee wellbeing", "gender pay gap", "training",
		"supply chain", "working conditions", "stakeholder", "philanthropy",
		"living wage",
	},
	"governance": {
		"board", "audit", "compliance", "ethics", "anti-corruption", "bribery",
		"remuneration", "shareholder", "transparency", "whistleblower",
		"risk management", "executive compensation", "board independence",
		"data privacy", "disclosure",
	},
}

var (
	wordPatterns map[string]*regexp.Regexp
	patternsOnce sync.Once
)

func compilePatterns() {
	wordPatterns = make(map[string]*regexp.Regexp)
	for _, words := range vocabulary {
		for _, kw := range words {
			if strings.Contains(kw, " ") || strings.Contains(kw, "-") {
				continue
			}
			wordPatterns[kw] = regexp.MustCompile(`\b` + regexp.QuoteMeta(kw) + `\b`)
		}
	}
}

// Score returns a relevance score in [0,1]. Keyword hits are counted over
// the lowercased text, then dampened by log(wordCount+1)+1 so long passages
// do not dominate on raw volume.
func Score(text string) float64 {
	if text == "" {
		return 0
	}

	hits := 0
	for _, n := range categoryHits(text) {
		hits += n
	}
	if hits == 0 {
		return 0
	}

	wordCount := len(strings.Fields(text))
	score := 0.3 * float64(hits) / (math.Log(float64(wordCount)+1) + 1)
	return math.Min(1, score)
}

// categoryHits counts keyword occurrences per category over the lowercased
// text.
func categoryHits(text string) map[string]int {
	patternsOnce.Do(compilePatterns)

	lower := strings.ToLower(text)
	out := make(map[string]int, len(vocabulary))
	for cat, words := range vocabulary {
		n := 0
		for _, kw := range words {
			if p, ok := wordPatterns[kw]; ok {
				n += len(p.FindAllStringIndex(lower, -1))
			} else {
				n += strings.Count(lower, kw)
			}
		}
		out[cat] = n
	}
	return out
}
