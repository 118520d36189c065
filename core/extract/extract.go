// Package extract pulls structured hints out of free-form support queries
// using ordered regex tables. Extraction is best-effort: missing fields stay
// empty and no pattern failure is surfaced to the caller.
package extract

import (
	"regexp"
	"strings"
)

// Result holds the hints recovered from a single query.
type Result struct {
	Location string
	Device   string
}

// HasLocation reports whether a location phrase was recovered.
func (r Result) HasLocation() bool { return r.Location != "" }

// HasDevice reports whether a device model was recovered.
func (r Result) HasDevice() bool { return r.Device != "" }

// locationPatterns are tried in order; the first capture wins. They anchor on
// prepositions ("in", "at", "near"), optionally preceded by "from my home",
// and capture up to sentence-ending punctuation or end of string.
var locationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:from\s+my\s+home\s+in|from\s+my\s+home\s+at|in|at|near)\s+([a-z0-9\s\-\.,]+)(?:[\.!?]|$)`),
	regexp.MustCompile(`(?:in|at|near)\s+([a-z0-9\s\-\.,]+)$`),
	regexp.MustCompile(`(?:in|at|near)\s+([a-z\s\-]+),?\s*[a-z]*$`),
}

// fillerWords are stripped out of a captured location span.
var fillerWords = regexp.MustCompile(`\b(my|home|apartment|house|office|room)\b`)

// devicePattern is a bounded vocabulary of consumer device names with
// optional model suffixes.
var devicePattern = regexp.MustCompile(`(iphone\s*[0-9x]*|ipad|samsung\s*galaxy\s*[a-z0-9]*|samsung|pixel\s*[0-9]*|oneplus\s*[0-9]*|xiaomi|mi[0-9]+|galaxy\s?[a-z0-9]*)`)

// Extract recovers a location and device hint from the query. Patterns run
// against the lower-cased text and the first match per field wins.
func Extract(query string) Result {
	lower := strings.ToLower(strings.TrimSpace(query))
	if lower == "" {
		return Result{}
	}

	return Result{
		Location: extractLocation(lower),
		Device:   extractDevice(lower),
	}
}

func extractLocation(lower string) string {
	for _, pattern := range locationPatterns {
		m := pattern.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		location := strings.Trim(strings.TrimSpace(m[1]), ".,")
		location = strings.TrimSpace(fillerWords.ReplaceAllString(location, ""))
		if location != "" {
			return location
		}
	}
	return ""
}

func extractDevice(lower string) string {
	if m := devicePattern.FindString(lower); m != "" {
		return strings.TrimSpace(m)
	}
	return ""
}
