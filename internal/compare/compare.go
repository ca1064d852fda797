// Package compare implements the Output Normaliser / Comparator: the single
// place that decides whether a program's output matches the expected output.
package compare

import "strings"

// Normalise canonicalises text for comparison:
//
//  1. CRLF -> LF
//  2. split on LF
//  3. right-trim trailing whitespace on every line
//  4. join with LF
//  5. right-trim trailing LF runs
func Normalise(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t\f\v\r")
	}
	joined := strings.Join(lines, "\n")
	return strings.TrimRight(joined, "\n")
}

// Equal reports whether actual and expected are equal after normalisation.
// Comparison is byte-exact (ordinal) on the normalised forms.
func Equal(actual, expected string) bool {
	return Normalise(actual) == Normalise(expected)
}
