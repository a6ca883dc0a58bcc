// Package barcode resolves raw barcode strings into renderable symbologies
// and generates organization-scoped barcode values.
package barcode

import (
	"errors"
	"strings"
	"unicode"
)

// Symbology identifies how a barcode value is encoded.
type Symbology string

const (
	SymbologyEAN13   Symbology = "EAN13"
	SymbologyCode128 Symbology = "CODE128"
)

// RenderSpec is a barcode value paired with the symbology it should be
// rendered as.
type RenderSpec struct {
	Symbology Symbology `json:"symbology"`
	Text      string    `json:"text"`
}

// ErrInvalidDigits is returned when a check-digit computation receives
// anything other than exactly 12 ASCII digits.
var ErrInvalidDigits = errors.New("check digit input must be exactly 12 digits")

// Normalize strips all whitespace from a raw barcode string.
func Normalize(raw string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, raw)
}

// ComputeEAN13CheckDigit computes the EAN-13 check digit for a 12-digit
// payload: digits at even 0-based positions weigh 1, odd positions weigh 3.
func ComputeEAN13CheckDigit(digits string) (string, error) {
	if len(digits) != 12 || !isASCIIDigits(digits) {
		return "", ErrInvalidDigits
	}

	sum := 0
	for i := 0; i < 12; i++ {
		d := int(digits[i] - '0')
		if i%2 == 0 {
			sum += d
		} else {
			sum += d * 3
		}
	}
	check := (10 - sum%10) % 10
	return string(rune('0' + check)), nil
}

// IsValidEAN13 reports whether value is a 13-digit string whose final digit
// matches the checksum of the first 12.
func IsValidEAN13(value string) bool {
	value = Normalize(value)
	if len(value) != 13 || !isASCIIDigits(value) {
		return false
	}
	check, err := ComputeEAN13CheckDigit(value[:12])
	if err != nil {
		return false
	}
	return check == value[12:]
}

// ResolveRenderSpec classifies a raw barcode value. Empty values resolve to
// nil; a checksum-valid 13-digit value renders as EAN-13; everything else
// falls through to Code 128, which accepts arbitrary text.
func ResolveRenderSpec(value string) *RenderSpec {
	value = Normalize(value)
	if value == "" {
		return nil
	}
	if IsValidEAN13(value) {
		return &RenderSpec{Symbology: SymbologyEAN13, Text: value}
	}
	return &RenderSpec{Symbology: SymbologyCode128, Text: value}
}

// SelectPrimary picks the barcode to print from a list of candidates:
// the first valid EAN-13 wins, otherwise the first non-empty value.
func SelectPrimary(values []string) string {
	var first string
	for _, v := range values {
		v = Normalize(v)
		if v == "" {
			continue
		}
		if IsValidEAN13(v) {
			return v
		}
		if first == "" {
			first = v
		}
	}
	return first
}

func isASCIIDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
