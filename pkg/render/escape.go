package render

import (
	"regexp"
	"strings"
)

// namePattern matches tag and attribute names that are safe to write
// unescaped.
var namePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_.:-]*$`)

var (
	// htmlEscaper escapes text content.
	htmlEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
	)

	// attrEscaper also escapes whitespace that would break attribute parsing.
	attrEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
		"\n", "&#10;",
		"\r", "&#13;",
		"\t", "&#9;",
	)
)

func escapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

func escapeAttr(s string) string {
	return attrEscaper.Replace(s)
}

func validName(name string) bool {
	return namePattern.MatchString(name)
}
