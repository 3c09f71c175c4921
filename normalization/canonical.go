package normalization

import (
	"regexp"
	"sort"
	"strings"
)

// Canonical display-name selection. Scoring prefers short, well-cased,
// globally-scoped names over long regional variants; the winner then gets
// its legal suffixes and location qualifiers stripped for display.

var regionalPatterns = compilePatterns(
	`\([^)]*\)`,
	`\bpvt\b`,
	`\bprivate\b`,
	`\bindia\b`,
	`\buk\b`,
	`\busa\b`,
	`\basia\b`,
	`\beurope\b`,
	`\bglobal\b`,
	`\bregion\b`,
)

var (
	incCorpRe      = regexp.MustCompile(`(?i)\b(Inc|Corp|Corporation)\b`)
	pvtLtdRe       = regexp.MustCompile(`\bpvt\s*ltd\b`)
	privateLtdRe   = regexp.MustCompile(`\bprivate\s*limited\b`)
	edgeTrimRe     = regexp.MustCompile(`^[\s,-]+|[\s,-]+$`)
	wordCleanRe    = regexp.MustCompile(`[^\w]`)
	upperAcronymRe = regexp.MustCompile(`^[A-Z0-9&]+$`)
)

// PickCanonical selects the best display name from a cluster of variants.
// Deterministic: equal scores break alphabetically.
func PickCanonical(variants []string) string {
	names := make([]string, 0, len(variants))
	for _, n := range variants {
		if strings.TrimSpace(n) != "" {
			names = append(names, n)
		}
	}

	if len(names) == 0 {
		return "Unknown Supplier"
	}
	if len(names) == 1 {
		return names[0]
	}

	type scoredName struct {
		name  string
		score float64
	}

	scored := make([]scoredName, 0, len(names))
	for _, name := range names {
		score := 100.0
		lower := strings.ToLower(name)

		for _, p := range regionalPatterns {
			if p.MatchString(lower) {
				score -= 30
			}
		}

		switch l := len(name); {
		case l > 40:
			score -= 15
		case l > 30:
			score -= 10
		case l > 25:
			score -= 5
		}

		if name != strings.ToUpper(name) && name != strings.ToLower(name) {
			score += 10
		}

		if incCorpRe.MatchString(name) {
			score += 5
		}

		if pvtLtdRe.MatchString(lower) || privateLtdRe.MatchString(lower) {
			score -= 25
		}

		score -= float64(len(name)) * 0.5

		scored = append(scored, scoredName{name: name, score: score})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].score != scored[j].score {
			return scored[i].score > scored[j].score
		}
		return scored[i].name < scored[j].name
	})

	best := scored[0].name
	cleaned := CleanCanonical(best)
	if len(cleaned) < 2 {
		return best
	}
	return cleaned
}

// CleanCanonical strips parentheticals, legal-form suffixes and location
// words from a display name, then fixes casing. Falls back to progressively
// lighter cleaning so the result never drops below two characters.
func CleanCanonical(name string) string {
	original := strings.TrimSpace(name)
	if original == "" {
		return ""
	}

	result := stripOutputSuffixes(original)
	result = dropLocationWords(result)
	result = tidyEdges(result)

	if len(result) < 2 {
		result = stripOutputSuffixes(original)
		result = tidyEdges(result)
	}
	if len(result) < 2 {
		result = original
	}

	return recase(result)
}

func stripOutputSuffixes(s string) string {
	s = parentheticalRe.ReplaceAllString(s, " ")
	for _, p := range outputSuffixPatterns {
		s = p.ReplaceAllString(s, " ")
	}
	return s
}

func dropLocationWords(s string) string {
	words := strings.Fields(s)
	kept := make([]string, 0, len(words))
	for _, w := range words {
		bare := strings.ToLower(wordCleanRe.ReplaceAllString(w, ""))
		if bare != "" && !locationWords[bare] {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " ")
}

func tidyEdges(s string) string {
	s = edgeTrimRe.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), " ")
}

// recase title-cases names that arrive in all caps or all lower, keeping
// short acronyms and &-joined words upper.
func recase(s string) string {
	if s != strings.ToUpper(s) && s != strings.ToLower(s) {
		return s
	}

	words := strings.Fields(s)
	for i, w := range words {
		switch {
		case len(w) <= 4 && upperAcronymRe.MatchString(w):
			words[i] = w
		case strings.Contains(w, "&"):
			words[i] = strings.ToUpper(w)
		default:
			words[i] = capitalize(w)
		}
	}
	return strings.Join(words, " ")
}

func capitalize(w string) string {
	if w == "" {
		return w
	}
	r := []rune(strings.ToLower(w))
	r[0] = []rune(strings.ToUpper(string(r[0])))[0]
	return string(r)
}
