package textfit

import (
	"strings"
	"testing"
	"unicode/utf8"
)

// fitsWithin returns a predicate that accepts strings of at most n runes,
// standing in for a real font-metric width check.
func fitsWithin(n int) func(string) bool {
	return func(s string) bool {
		return utf8.RuneCountInString(s) <= n
	}
}

func TestClampLines_ShortTextUnchanged(t *testing.T) {
	lines := ClampLines("Молоко 3.2%", 2, fitsWithin(20))

	if len(lines) != 1 {
		t.Fatalf("Expected 1 line, got %d: %v", len(lines), lines)
	}
	if lines[0] != "Молоко 3.2%" {
		t.Errorf("Expected text unchanged, got %q", lines[0])
	}
}

func TestClampLines_NeverExceedsBudget(t *testing.T) {
	texts := []string{
		"",
		"one",
		"a b c d e f g h i j k l m n o p",
		"Очень длинное название продукта которое не помещается",
		"supercalifragilisticexpialidocious",
		strings.Repeat("слово ", 40),
	}

	for _, text := range texts {
		for maxLines := 0; maxLines <= 4; maxLines++ {
			lines := ClampLines(text, maxLines, fitsWithin(10))
			if len(lines) > maxLines {
				t.Errorf("ClampLines(%q, %d) returned %d lines", text, maxLines, len(lines))
			}
		}
	}
}

func TestClampLines_WrapsOnWordBoundary(t *testing.T) {
	lines := ClampLines("red apple juice", 3, fitsWithin(9))

	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %v", lines)
	}
	if lines[0] != "red apple" || lines[1] != "juice" {
		t.Errorf("Unexpected wrapping: %v", lines)
	}
}

func TestClampLines_HardSplitsOverwideWord(t *testing.T) {
	lines := ClampLines("аааааааааааа", 3, fitsWithin(5))

	if len(lines) != 3 {
		t.Fatalf("Expected 3 lines, got %v", lines)
	}
	if lines[0] != "ааааа" || lines[1] != "ааааа" {
		t.Errorf("Expected 5-rune chunks, got %v", lines)
	}
	// 2 runes remain, they fit on the third line untruncated
	if lines[2] != "аа" {
		t.Errorf("Expected remainder on last line, got %q", lines[2])
	}
}

func TestClampLines_TruncatesOverflowWithEllipsis(t *testing.T) {
	lines := ClampLines("first second third fourth fifth", 2, fitsWithin(12))

	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %v", lines)
	}
	last := lines[len(lines)-1]
	if !strings.HasSuffix(last, Ellipsis) {
		t.Errorf("Expected last line to end with ellipsis, got %q", last)
	}
	if utf8.RuneCountInString(last) > 12 {
		t.Errorf("Truncated line still too long: %q", last)
	}
}

func TestClampLines_EmptyInput(t *testing.T) {
	if lines := ClampLines("   ", 2, fitsWithin(10)); len(lines) != 0 {
		t.Errorf("Expected no lines for blank input, got %v", lines)
	}
}

func TestTruncateWithEllipsis_FitUnchanged(t *testing.T) {
	if got := TruncateWithEllipsis("SKU-1", fitsWithin(10)); got != "SKU-1" {
		t.Errorf("Expected unchanged text, got %q", got)
	}
}

func TestTruncateWithEllipsis_BinarySearch(t *testing.T) {
	got := TruncateWithEllipsis("SKU-VERY-LONG-001", fitsWithin(8))

	if got != "SKU-VER"+Ellipsis {
		t.Errorf("Expected %q, got %q", "SKU-VER"+Ellipsis, got)
	}
}

func TestTruncateWithEllipsis_NothingFits(t *testing.T) {
	got := TruncateWithEllipsis("abc", fitsWithin(1))

	if got != Ellipsis {
		t.Errorf("Expected bare ellipsis, got %q", got)
	}
}
