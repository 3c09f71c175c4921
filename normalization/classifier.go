package normalization

import (
	"regexp"
	"strings"
)

// EntityClassification is the advisory person/organization verdict for a
// supplier name. It never removes a name from the pipeline.
type EntityClassification struct {
	Type       string `json:"type"`       // "organization", "individual", "unknown"
	Confidence string `json:"confidence"` // "high", "medium", "low"
	Reason     string `json:"reason"`
}

// EntityClassifier runs the layered rule cascade, cheapest signals first.
type EntityClassifier struct{}

// NewEntityClassifier creates a new entity classifier.
func NewEntityClassifier() *EntityClassifier {
	return &EntityClassifier{}
}

var (
	classifierPunctRe = regexp.MustCompile(`[^\w\s&]`)
	ampersandRe       = regexp.MustCompile(`[&+]`)
	digitRe           = regexp.MustCompile(`\d`)
	commaNameRe       = regexp.MustCompile(`(?i)^[a-z]+\s*,\s*[a-z]+`)
	commaPunctRe      = regexp.MustCompile(`[^\w\s,]`)
)

// Classify determines whether a raw supplier name denotes an organization or
// an individual. Rules fire in fixed order; the first match wins.
func (ec *EntityClassifier) Classify(rawName string) EntityClassification {
	s := strings.TrimSpace(rawName)
	if s == "" {
		return EntityClassification{Type: "unknown", Confidence: "low", Reason: "empty"}
	}

	lower := classifierPunctRe.ReplaceAllString(strings.ToLower(s), " ")
	lower = strings.Join(strings.Fields(lower), " ")
	tokens := strings.Split(lower, " ")

	// Rule 1: strong legal suffix anywhere.
	for _, t := range tokens {
		if strongLegalSuffixes[t] {
			return EntityClassification{Type: "organization", Confidence: "high", Reason: "legal_suffix"}
		}
	}

	// Rule 2: personal title prefix.
	if personTitles[tokens[0]] {
		return EntityClassification{Type: "individual", Confidence: "high", Reason: "title_prefix"}
	}

	// Rule 3: personal title suffix (Jr, Sr, MD, Esq).
	if personTitleSuffixes[tokens[len(tokens)-1]] {
		return EntityClassification{Type: "individual", Confidence: "high", Reason: "title_suffix"}
	}

	// Rule 4: corporate keyword anywhere.
	for _, t := range tokens {
		if corpKeywords[t] {
			return EntityClassification{Type: "organization", Confidence: "high", Reason: "corp_keyword"}
		}
	}

	// Rule 5: "&" or "+" joining three or more words.
	if ampersandRe.MatchString(s) && len(tokens) >= 3 {
		return EntityClassification{Type: "organization", Confidence: "medium", Reason: "ampersand"}
	}

	// Rule 6: digits anywhere in the raw name.
	if digitRe.MatchString(s) {
		return EntityClassification{Type: "organization", Confidence: "medium", Reason: "has_numbers"}
	}

	// Rule 7: "Last, First" with a known first name after the comma.
	if commaNameRe.MatchString(commaPunctRe.ReplaceAllString(s, "")) {
		parts := strings.Split(s, ",")
		if len(parts) >= 2 {
			first := strings.Fields(strings.ToLower(strings.TrimSpace(parts[1])))
			if len(first) > 0 && firstNames[first[0]] {
				return EntityClassification{Type: "individual", Confidence: "high", Reason: "last_comma_first"}
			}
		}
	}

	// Rule 8: leading first name on a 2-3 word name whose last word carries
	// no corporate signal.
	if len(tokens) >= 2 && len(tokens) <= 3 {
		first := tokens[0]
		last := tokens[len(tokens)-1]
		if len(first) >= 2 && firstNames[first] && !corpKeywords[last] && !legalSuffixes[last] {
			return EntityClassification{Type: "individual", Confidence: "medium", Reason: "firstname_match"}
		}
	}

	// Rule 9: single word.
	if len(tokens) == 1 {
		return EntityClassification{Type: "organization", Confidence: "low", Reason: "single_word"}
	}

	// Rule 10: four or more words.
	if len(tokens) >= 4 {
		return EntityClassification{Type: "organization", Confidence: "low", Reason: "long_name"}
	}

	return EntityClassification{Type: "unknown", Confidence: "low", Reason: "no_signal"}
}
