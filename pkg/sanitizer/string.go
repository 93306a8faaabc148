package sanitizer

import (
	"regexp"
	"strings"
)

// Strategy transforms a raw input string into a normalized one.
type Strategy func(string) string

// Pipeline applies strategies in order.
type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var reInnerWhitespace = regexp.MustCompile(`\s+`)

func trim(s string) string {
	return strings.TrimSpace(s)
}

func collapseWhitespace(s string) string {
	return reInnerWhitespace.ReplaceAllString(s, " ")
}

// DisplayString normalizes user-entered display text such as the booking
// holder's name or team label: surrounding whitespace is removed and runs of
// inner whitespace collapse to a single space. Case is preserved.
func DisplayString(input string) string {
	p := Pipeline{trim, collapseWhitespace}
	return p.Apply(input)
}
