// Package textfit fits text into width-constrained boxes without knowing
// anything about fonts. Callers supply a fits predicate (typically "does
// this string render narrower than the box at the current font").
package textfit

import "strings"

// Ellipsis is appended when a line had to be truncated.
const Ellipsis = "…"

// ClampLines splits text on whitespace and greedily packs words into at
// most maxLines lines, each satisfying fits. A single word wider than the
// box is split character by character, committing the longest prefix that
// fits (at least one character) and carrying the remainder forward. Text
// left over after the last committed line is appended to that line and
// truncated with TruncateWithEllipsis.
func ClampLines(text string, maxLines int, fits func(string) bool) []string {
	if maxLines <= 0 {
		return nil
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	current := ""

	i := 0
	for i < len(words) && len(lines) < maxLines {
		word := words[i]

		candidate := word
		if current != "" {
			candidate = current + " " + word
		}

		if fits(candidate) {
			current = candidate
			i++
			continue
		}

		if current != "" {
			lines = append(lines, current)
			current = ""
			continue
		}

		// The word alone is too wide for the box: hard-split it.
		prefix, rest := splitWord(word, fits)
		lines = append(lines, prefix)
		if rest == "" {
			i++
		} else {
			words[i] = rest
		}
	}

	if current != "" && len(lines) < maxLines {
		lines = append(lines, current)
		current = ""
	}

	// Anything that did not make it into the line budget gets glued onto
	// the last line and ellipsis-truncated.
	var leftover []string
	if current != "" {
		leftover = append(leftover, current)
	}
	leftover = append(leftover, words[i:]...)

	if len(leftover) > 0 && len(lines) > 0 {
		last := lines[len(lines)-1] + " " + strings.Join(leftover, " ")
		lines[len(lines)-1] = TruncateWithEllipsis(last, fits)
	}

	return lines
}

// splitWord returns the longest prefix of word that fits (never empty) and
// the remainder.
func splitWord(word string, fits func(string) bool) (string, string) {
	runes := []rune(word)
	n := 1
	for n < len(runes) && fits(string(runes[:n+1])) {
		n++
	}
	return string(runes[:n]), string(runes[n:])
}

// TruncateWithEllipsis returns text unchanged when it fits, otherwise the
// longest prefix that still fits with a trailing ellipsis, found by binary
// search over rune counts.
func TruncateWithEllipsis(text string, fits func(string) bool) string {
	if fits(text) {
		return text
	}

	runes := []rune(text)
	lo, hi := 0, len(runes)
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if fits(string(runes[:mid]) + Ellipsis) {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return string(runes[:lo]) + Ellipsis
}
