package normalization

import (
	"regexp"
	"sort"
	"strings"
)

// Multi-signal similarity scoring for company names. Weights and floors are
// tuned for supplier-master data where variants differ by legal form,
// regional qualifiers and abbreviations rather than by spelling noise alone.

const (
	weightJaccard      = 0.35
	weightLevenshtein  = 0.25
	weightTokenSort    = 0.25
	weightAbbreviation = 0.15

	subsetFloor       = 0.85
	sharedTokenFloor  = 0.80
	abbrevLengthLimit = 6
)

var (
	parentheticalRe = regexp.MustCompile(`\([^)]*\)`)
	comparePunctRe  = regexp.MustCompile(`[^\w\s&]`)
	spacedAmpRe     = regexp.MustCompile(`\s+&\s+`)
	nonWordCharRe   = regexp.MustCompile(`[^\w]`)
	abbrevSuffixRe  = regexp.MustCompile(`\b(inc|corp|ltd|llc|plc|pvt|limited|corporation)\b`)
)

// cleanForComparison reduces a name to its identity-bearing tokens: no
// parentheticals, no legal forms, no geography, no single letters. Falls back
// to progressively less aggressive filtering so a real name never cleans to
// nothing.
func cleanForComparison(name string) string {
	if name == "" {
		return ""
	}
	s := strings.ToLower(strings.TrimSpace(name))
	s = parentheticalRe.ReplaceAllString(s, "")
	s = comparePunctRe.ReplaceAllString(s, " ")
	s = spacedAmpRe.ReplaceAllString(s, " and ")

	tokens := strings.Fields(s)

	filtered := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if comparisonSuffixes[t] || locationWords[t] {
			continue
		}
		if len(t) == 1 && t != "&" {
			continue
		}
		filtered = append(filtered, t)
	}

	if len(filtered) == 0 {
		for _, t := range tokens {
			if !comparisonSuffixes[t] {
				filtered = append(filtered, t)
			}
		}
	}
	if len(filtered) == 0 {
		filtered = tokens
	}

	return strings.Join(filtered, " ")
}

func comparisonTokens(name string) map[string]bool {
	tokens := make(map[string]bool)
	for _, t := range strings.Fields(cleanForComparison(name)) {
		if len(t) > 1 {
			tokens[t] = true
		}
	}
	return tokens
}

func jaccardSimilarity(set1, set2 map[string]bool) float64 {
	if len(set1) == 0 || len(set2) == 0 {
		return 0.0
	}
	intersection := 0
	for t := range set1 {
		if set2[t] {
			intersection++
		}
	}
	union := len(set1) + len(set2) - intersection
	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}

func levenshteinDistance(s1, s2 string) int {
	r1 := []rune(s1)
	r2 := []rune(s2)
	if len(r1) == 0 {
		return len(r2)
	}
	if len(r2) == 0 {
		return len(r1)
	}

	prev := make([]int, len(r2)+1)
	curr := make([]int, len(r2)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(r1); i++ {
		curr[0] = i
		for j := 1; j <= len(r2); j++ {
			cost := 1
			if r1[i-1] == r2[j-1] {
				cost = 0
			}
			curr[j] = minOf(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(r2)]
}

func levenshteinRatio(s1, s2 string) float64 {
	if s1 == "" || s2 == "" {
		return 0.0
	}
	s1 = strings.ToLower(s1)
	s2 = strings.ToLower(s2)
	maxLen := len([]rune(s1))
	if l := len([]rune(s2)); l > maxLen {
		maxLen = l
	}
	return 1.0 - float64(levenshteinDistance(s1, s2))/float64(maxLen)
}

// tokenSortRatio compares names with their cleaned tokens sorted
// alphabetically, so word order differences cost nothing.
func tokenSortRatio(name1, name2 string) float64 {
	t1 := strings.Fields(cleanForComparison(name1))
	t2 := strings.Fields(cleanForComparison(name2))
	sort.Strings(t1)
	sort.Strings(t2)
	return levenshteinRatio(strings.Join(t1, " "), strings.Join(t2, " "))
}

// isAbbreviation reports whether short is an acronym or contraction of long.
// Checks exact initials, prefix initials, first-word prefix and a two-token
// split-prefix pattern ("GenCorp" for "General Corporation").
func isAbbreviation(short, long string) bool {
	shortClean := strings.ToUpper(nonWordCharRe.ReplaceAllString(short, ""))

	longClean := strings.ToLower(long)
	longClean = abbrevSuffixRe.ReplaceAllString(longClean, "")
	longClean = comparePunctRe.ReplaceAllString(longClean, " ")
	var longTokens []string
	for _, t := range strings.Fields(longClean) {
		if len(t) > 1 {
			longTokens = append(longTokens, t)
		}
	}

	if shortClean == "" || len(longTokens) == 0 {
		return false
	}

	if len(shortClean) == len(longTokens) {
		var initials strings.Builder
		for _, t := range longTokens {
			initials.WriteString(strings.ToUpper(t[:1]))
		}
		if shortClean == initials.String() {
			return true
		}
	}

	if len(shortClean) >= 2 && len(longTokens) >= 2 {
		limit := len(shortClean)
		if len(longTokens) < limit {
			limit = len(longTokens)
		}
		for n := 2; n <= limit; n++ {
			var initials strings.Builder
			for i := 0; i < n; i++ {
				initials.WriteString(strings.ToUpper(longTokens[i][:1]))
			}
			if strings.HasPrefix(shortClean, initials.String()) {
				return true
			}
		}
	}

	if len(shortClean) >= 3 {
		if strings.HasPrefix(strings.ToUpper(longTokens[0]), shortClean[:3]) {
			return true
		}
	}

	if len(longTokens) >= 2 && len(shortClean) >= 4 {
		shortLower := strings.ToLower(shortClean)
		for split := 2; split < len(shortLower)-1; split++ {
			if strings.HasPrefix(longTokens[0], shortLower[:split]) &&
				strings.HasPrefix(longTokens[1], shortLower[split:]) {
				return true
			}
		}
	}

	return false
}

// CompanySimilarity scores two company names in [0, 1]. Equal comparison
// keys score 1.0; token-subset pairs floor at 0.85; pairs sharing their
// longest token floor at 0.80.
func CompanySimilarity(name1, name2 string) float64 {
	if name1 == "" || name2 == "" {
		return 0.0
	}

	clean1 := cleanForComparison(name1)
	clean2 := cleanForComparison(name2)

	if clean1 == clean2 {
		return 1.0
	}
	if clean1 == "" || clean2 == "" {
		return 0.0
	}

	tokens1 := comparisonTokens(name1)
	tokens2 := comparisonTokens(name2)

	jaccard := jaccardSimilarity(tokens1, tokens2)
	levRatio := levenshteinRatio(clean1, clean2)
	tokenSort := tokenSortRatio(name1, name2)

	abbrevScore := 0.0
	if len(clean1) <= abbrevLengthLimit || len(clean2) <= abbrevLengthLimit {
		if isAbbreviation(name1, name2) || isAbbreviation(name2, name1) {
			abbrevScore = 1.0
		}
	}

	score := jaccard*weightJaccard + levRatio*weightLevenshtein +
		tokenSort*weightTokenSort + abbrevScore*weightAbbreviation

	if len(tokens1) > 0 && len(tokens2) > 0 {
		if isSubset(tokens1, tokens2) || isSubset(tokens2, tokens1) {
			if score < subsetFloor {
				score = subsetFloor
			}
		}
		if main1, main2 := longestToken(tokens1), longestToken(tokens2); main1 != "" && main1 == main2 {
			if score < sharedTokenFloor {
				score = sharedTokenFloor
			}
		}
	}

	if score > 1.0 {
		score = 1.0
	}
	return score
}

func isSubset(sub, super map[string]bool) bool {
	for t := range sub {
		if !super[t] {
			return false
		}
	}
	return true
}

// longestToken picks the longest token, lexicographically smallest on ties,
// so the floor check is deterministic.
func longestToken(tokens map[string]bool) string {
	best := ""
	for t := range tokens {
		if len(t) > len(best) || (len(t) == len(best) && t < best) {
			best = t
		}
	}
	return best
}

func minOf(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
