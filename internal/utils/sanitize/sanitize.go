// Package sanitize strips markup from user text before it is stored.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// strict removes every tag. Stripped tags leave a space so adjacent words
// stay apart. The policy must not be mutated after init.
var strict = func() *bluemonday.Policy {
	p := bluemonday.StrictPolicy()
	p.AddSpaceWhenStrippingTag(true)
	return p
}()

// Line reduces s to a single line of plain text with runs of whitespace
// collapsed. Used for titles and category names.
//
//	"  <p>Hello</p>   <b>World</b> " -> "Hello World"
//	"Plan\nfor Monday"              -> "Plan for Monday"
func Line(s string) string {
	s = Text(s)
	return strings.Join(strings.Fields(s), " ")
}

// Text strips markup but keeps the author's spacing and line breaks, so an
// autosaved body reads back exactly as typed.
//
//	"<b>Tom</b> & Jerry"     -> " Tom  & Jerry"
//	"line one\n\n  indented" -> "line one\n\n  indented"
func Text(s string) string {
	return html.UnescapeString(strict.Sanitize(s))
}

// WordCount counts whitespace separated words after stripping markup.
func WordCount(s string) int {
	return len(strings.Fields(Text(s)))
}
