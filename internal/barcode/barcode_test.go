package barcode

import (
	"errors"
	"testing"
)

func TestComputeEAN13CheckDigit_Known(t *testing.T) {
	// 5901234123457 is a canonical valid EAN-13
	check, err := ComputeEAN13CheckDigit("590123412345")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if check != "7" {
		t.Errorf("Expected check digit 7, got %s", check)
	}
}

func TestComputeEAN13CheckDigit_RoundTrip(t *testing.T) {
	payloads := []string{
		"000000000000",
		"590123412345",
		"299999000001",
		"123456789012",
		"400638133393",
	}

	for _, payload := range payloads {
		check, err := ComputeEAN13CheckDigit(payload)
		if err != nil {
			t.Fatalf("ComputeEAN13CheckDigit(%q): %v", payload, err)
		}
		if !IsValidEAN13(payload + check) {
			t.Errorf("Round trip failed for %s%s", payload, check)
		}
	}
}

func TestComputeEAN13CheckDigit_RejectsBadInput(t *testing.T) {
	inputs := []string{
		"",
		"12345",
		"1234567890123", // 13 digits
		"12345678901a",
		"12345678901 ",
	}

	for _, input := range inputs {
		if _, err := ComputeEAN13CheckDigit(input); !errors.Is(err, ErrInvalidDigits) {
			t.Errorf("ComputeEAN13CheckDigit(%q): expected ErrInvalidDigits, got %v", input, err)
		}
	}
}

func TestIsValidEAN13(t *testing.T) {
	if !IsValidEAN13("5901234123457") {
		t.Error("Expected 5901234123457 to be valid")
	}
	if IsValidEAN13("5901234123450") {
		t.Error("Expected wrong check digit to be invalid")
	}
	if IsValidEAN13("590123412345") {
		t.Error("Expected 12-digit value to be invalid")
	}
}

func TestNormalize(t *testing.T) {
	if got := Normalize(" 59 0123\t412345 7\n"); got != "5901234123457" {
		t.Errorf("Expected whitespace stripped, got %q", got)
	}
}

func TestResolveRenderSpec(t *testing.T) {
	spec := ResolveRenderSpec("5901234123457")
	if spec == nil || spec.Symbology != SymbologyEAN13 || spec.Text != "5901234123457" {
		t.Errorf("Expected EAN13 spec, got %+v", spec)
	}

	spec = ResolveRenderSpec("ABC-123-XYZ")
	if spec == nil || spec.Symbology != SymbologyCode128 || spec.Text != "ABC-123-XYZ" {
		t.Errorf("Expected CODE128 spec, got %+v", spec)
	}

	if spec = ResolveRenderSpec("   "); spec != nil {
		t.Errorf("Expected nil spec for blank value, got %+v", spec)
	}

	// An invalid EAN-13 checksum falls through to Code 128, not rejection
	spec = ResolveRenderSpec("1234567890120")
	if spec == nil || spec.Symbology != SymbologyCode128 {
		t.Errorf("Expected invalid EAN13 to resolve as CODE128, got %+v", spec)
	}
}

func TestSelectPrimary_PrefersEAN13(t *testing.T) {
	got := SelectPrimary([]string{"ABC123", "5901234123457"})
	if got != "5901234123457" {
		t.Errorf("Expected EAN13 preferred regardless of order, got %q", got)
	}
}

func TestSelectPrimary_FallsBackToFirstNonEmpty(t *testing.T) {
	got := SelectPrimary([]string{"", "  ", "ABC123", "XYZ789"})
	if got != "ABC123" {
		t.Errorf("Expected first non-empty value, got %q", got)
	}
}

func TestSelectPrimary_Empty(t *testing.T) {
	if got := SelectPrimary(nil); got != "" {
		t.Errorf("Expected empty string, got %q", got)
	}
	if got := SelectPrimary([]string{"", "   "}); got != "" {
		t.Errorf("Expected empty string, got %q", got)
	}
}
