// Package sanitize flattens rich handler output into plain text for surfaces
// that cannot render markup. The transform is one-way and idempotent.
package sanitize

import (
	"regexp"
	"strings"
)

var (
	codeFence      = regexp.MustCompile("(?s)```.*?```")
	htmlTag        = regexp.MustCompile(`<[^>]+>`)
	heading        = regexp.MustCompile(`(?m)^(?:#{1,6}\s*)+`)
	boldStars      = regexp.MustCompile(`\*\*(.*?)\*\*`)
	boldUnders     = regexp.MustCompile(`__(.*?)__`)
	italicStar     = regexp.MustCompile(`\*(.*?)\*`)
	italicUnder    = regexp.MustCompile(`_(.*?)_`)
	markdownLink   = regexp.MustCompile(`\[([^\]]+)\]\([^\)]+\)`)
	tablePipe      = regexp.MustCompile(`[ \t]*\|[ \t]*`)
	horizontalRule = regexp.MustCompile(`(?m)^-{3,}$`)
	blankRun       = regexp.MustCompile(`\n{3,}`)
)

// Sanitize strips markdown and HTML-like markup from text. Transform order
// matters: fences go first so their contents never leak partial markup, bold
// wrappers are unwrapped before single-character emphasis, and blank-line
// collapsing runs last over whatever the earlier passes left.
func Sanitize(text string) string {
	text = codeFence.ReplaceAllString(text, "")
	text = htmlTag.ReplaceAllString(text, "")
	text = heading.ReplaceAllString(text, "")
	text = boldStars.ReplaceAllString(text, "$1")
	text = boldUnders.ReplaceAllString(text, "$1")
	text = italicStar.ReplaceAllString(text, "$1")
	text = italicUnder.ReplaceAllString(text, "$1")
	text = markdownLink.ReplaceAllString(text, "$1")
	text = tablePipe.ReplaceAllString(text, " | ")
	text = horizontalRule.ReplaceAllString(text, "")
	text = blankRun.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
