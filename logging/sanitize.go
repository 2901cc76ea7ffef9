package logging

import (
	"regexp"
	"strings"

	"github.com/acarl005/stripansi"
)

var (
	// fileLinePrefixRegex matches the "file.go:123: " prefix the testing
	// package prepends to log lines, anchored to the start of the output.
	fileLinePrefixRegex = regexp.MustCompile(`^\s*[\w-]+\.go:\d+: `)

	// multipleWhitespaceRegex matches any run of whitespace characters.
	multipleWhitespaceRegex = regexp.MustCompile(`\s+`)
)

// stripANSIEscapeSequences removes terminal color and formatting codes from
// raw output. Escaped sequences inside quoted strings (a literal backslash
// followed by "x1b") are left untouched.
func stripANSIEscapeSequences(s string) string {
	return stripansi.Strip(s)
}

// CleanLogOutput normalizes a captured log fragment into a single line.
// When stripPrefixes is set, a leading "file.go:123: " marker is removed.
// When stripANSI is set, terminal escape sequences are removed. Whitespace
// runs collapse to single spaces and the result is trimmed.
func CleanLogOutput(s string, stripPrefixes, stripANSI bool) string {
	if stripANSI {
		s = stripANSIEscapeSequences(s)
	}
	if stripPrefixes {
		s = fileLinePrefixRegex.ReplaceAllString(s, "")
	}
	s = multipleWhitespaceRegex.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
