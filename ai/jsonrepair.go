package ai

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

// Lenient JSON decoding for model output. Providers truncate, wrap responses
// in markdown fences, or emit almost-JSON; each recovery step gets
// progressively more aggressive before giving up.

var (
	fenceOpenRe  = regexp.MustCompile("(?i)^```json\\s*")
	fenceBareRe  = regexp.MustCompile("^```\\s*")
	fenceCloseRe = regexp.MustCompile("```\\s*$")

	clusterObjectRe = regexp.MustCompile(`\{"canonical"\s*:\s*"[^"]*"\s*,\s*"members"\s*:\s*\[[^\]]*\]\s*,\s*"confidence"\s*:\s*"[^"]*"\s*\}`)
	trailingCommaRe = regexp.MustCompile(`,\s*([\]}])`)
	anyObjectRe     = regexp.MustCompile(`(?s)\{.*\}`)
)

// ErrUnparsable means every recovery step failed.
var ErrUnparsable = errors.New("could not parse model response as JSON")

// DecodeLenient unmarshals model output into v, repairing common damage:
// markdown fences, trailing commas, single quotes, unbalanced brackets and
// stray prose around the object.
func DecodeLenient(text string, v any) error {
	s := strings.TrimSpace(text)
	s = fenceOpenRe.ReplaceAllString(s, "")
	s = fenceBareRe.ReplaceAllString(s, "")
	s = fenceCloseRe.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)

	// Step 1: strict parse.
	if json.Unmarshal([]byte(s), v) == nil {
		return nil
	}

	// Step 2: rebuild from complete cluster objects.
	if matches := clusterObjectRe.FindAllString(s, -1); len(matches) > 0 {
		rebuilt := `{"clusters":[` + strings.Join(matches, ",") + `]}`
		if json.Unmarshal([]byte(rebuilt), v) == nil {
			return nil
		}
	}

	// Step 3: repair trailing commas, quote style and unbalanced closers.
	fixed := trailingCommaRe.ReplaceAllString(s, "$1")
	fixed = strings.ReplaceAll(fixed, "'", `"`)
	fixed += strings.Repeat("]", missingClosers(fixed, '[', ']'))
	fixed += strings.Repeat("}", missingClosers(fixed, '{', '}'))
	if json.Unmarshal([]byte(fixed), v) == nil {
		return nil
	}

	// Step 4: extract any object from surrounding prose.
	if match := anyObjectRe.FindString(s); match != "" {
		repaired := trailingCommaRe.ReplaceAllString(match, "$1")
		if json.Unmarshal([]byte(repaired), v) == nil {
			return nil
		}
	}

	return ErrUnparsable
}

func missingClosers(s string, open, close rune) int {
	opens := strings.Count(s, string(open))
	closes := strings.Count(s, string(close))
	if opens > closes {
		return opens - closes
	}
	return 0
}
