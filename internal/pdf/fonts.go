// Package pdf renders price-tag and receipt documents.
package pdf

import (
	"errors"
	"fmt"
	"os"

	"github.com/signintech/gopdf"
)

// Font family names registered on every document.
const (
	fontFamily     = "sans"
	fontFamilyBold = "sans-bold"
)

// ErrNoFont is returned when no usable TTF font could be located. Set
// FONT_PATH (and optionally FONT_BOLD_PATH) to override the probe list.
var ErrNoFont = errors.New("no usable TTF font found")

// Probed in order. The label text is frequently Cyrillic, so fonts with
// wide coverage come first.
var regularFontPaths = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
	"/usr/share/fonts/TTF/DejaVuSans.ttf",
	"/System/Library/Fonts/Supplemental/Arial Unicode.ttf",
	"/System/Library/Fonts/Supplemental/Arial.ttf",
	"C:\\Windows\\Fonts\\arial.ttf",
}

var boldFontPaths = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf",
	"/usr/share/fonts/truetype/liberation/LiberationSans-Bold.ttf",
	"/usr/share/fonts/TTF/DejaVuSans-Bold.ttf",
	"/System/Library/Fonts/Supplemental/Arial Bold.ttf",
	"C:\\Windows\\Fonts\\arialbd.ttf",
}

// registerFonts loads the regular and bold faces into a document. The bold
// family falls back to the regular file when no bold font is installed.
func registerFonts(doc *gopdf.GoPdf) error {
	regular := resolveFontPath(os.Getenv("FONT_PATH"), regularFontPaths)
	if regular == "" {
		return ErrNoFont
	}
	if err := doc.AddTTFFont(fontFamily, regular); err != nil {
		return fmt.Errorf("failed to load font %s: %w", regular, err)
	}

	bold := resolveFontPath(os.Getenv("FONT_BOLD_PATH"), boldFontPaths)
	if bold == "" {
		bold = regular
	}
	if err := doc.AddTTFFont(fontFamilyBold, bold); err != nil {
		return fmt.Errorf("failed to load font %s: %w", bold, err)
	}

	return nil
}

// FontAvailable reports whether a regular font can be resolved on this
// machine.
func FontAvailable() bool {
	return resolveFontPath(os.Getenv("FONT_PATH"), regularFontPaths) != ""
}

// RegularFontPath returns the resolved regular font file, or "" when none
// is installed.
func RegularFontPath() string {
	return resolveFontPath(os.Getenv("FONT_PATH"), regularFontPaths)
}

// BoldFontPath returns the resolved bold font file, falling back to the
// regular face.
func BoldFontPath() string {
	if p := resolveFontPath(os.Getenv("FONT_BOLD_PATH"), boldFontPaths); p != "" {
		return p
	}
	return RegularFontPath()
}

func resolveFontPath(override string, candidates []string) string {
	if override != "" {
		if _, err := os.Stat(override); err == nil {
			return override
		}
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
