package classify

import "strings"

// KeywordGroup pairs a category with the substrings that signal it. Groups are
// evaluated in a fixed order so multi-intent branch output stays stable.
type KeywordGroup struct {
	Category Category
	Keywords []string
}

var jokeKeywords = []string{"joke", "funny", "make me laugh"}

// keywordGroups is the heuristic table for the four main intents. Matching is
// plain substring containment against the lower-cased query, so "billing"
// also satisfies "bill" and "compatib" covers both spellings of compatibility.
var keywordGroups = []KeywordGroup{
	{CategoryBilling, []string{"bill", "billing", "charge", "payment", "invoice", "due"}},
	{CategoryNetwork, []string{"network", "signal", "internet", "outage", "connect", "slow"}},
	{CategoryService, []string{"plan", "upgrade", "recommend", "service plan", "switch plan"}},
	{CategoryKnowledge, []string{"how to", "how do i", "compatib", "setup", "guide", "what is"}},
}

// KeywordGroups returns the heuristic table in evaluation order.
func KeywordGroups() []KeywordGroup {
	groups := make([]KeywordGroup, len(keywordGroups))
	copy(groups, keywordGroups)
	return groups
}

// MatchedGroups returns the categories whose keyword group matches the query,
// in table order. The query is lower-cased internally.
func MatchedGroups(query string) []Category {
	lower := strings.ToLower(query)

	var matched []Category
	for _, group := range keywordGroups {
		if containsAny(lower, group.Keywords) {
			matched = append(matched, group.Category)
		}
	}
	return matched
}

// GroupMatches reports whether the keyword group for the given category
// matches the query. Categories without a keyword group never match.
func GroupMatches(category Category, query string) bool {
	lower := strings.ToLower(query)
	for _, group := range keywordGroups {
		if group.Category == category {
			return containsAny(lower, group.Keywords)
		}
	}
	return false
}

func isJokeRequest(lowerQuery string) bool {
	return containsAny(lowerQuery, jokeKeywords)
}

func containsAny(haystack string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}
