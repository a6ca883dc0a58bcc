// Package layout computes per-label block geometry for a print template:
// which rectangle each content block occupies and what font and line
// budget it gets, degraded until everything fits the physical medium.
package layout

// TemplateID identifies a physical print medium.
type TemplateID string

const (
	// TemplateGrid3x8 tiles 24 labels on an A4 page.
	TemplateGrid3x8 TemplateID = "3x8"
	// TemplateGrid2x5 tiles 10 larger labels on an A4 page.
	TemplateGrid2x5 TemplateID = "2x5"
	// TemplateRoll emits one custom-size label per page for roll printers.
	TemplateRoll TemplateID = "roll"
)

// A4 page size in points.
const (
	pageWidthA4  = 595.28
	pageHeightA4 = 841.89
)

// PtPerMm converts millimeters to PDF points.
const PtPerMm = 72.0 / 25.4

// templateConfig is the hand-tuned static configuration for one template.
// Values are points. These numbers are a preserved policy: changing them
// changes the printed output of existing templates.
type templateConfig struct {
	Cols, Rows int
	Margin     float64
	Padding    float64

	NameFontSize   float64
	NameLineHeight float64
	MaxNameLines   int

	PriceFontSize   float64
	PriceLineHeight float64

	MetaFontSize   float64
	MetaLineHeight float64

	BarcodeTextFontSize float64
	BarcodeTextHeight   float64

	BarcodeHeight    float64
	MinBarcodeHeight float64
	QuietZone        float64

	Gap float64
}

var templateConfigs = map[TemplateID]templateConfig{
	TemplateGrid3x8: {
		Cols: 3, Rows: 8,
		Margin:  14.17,
		Padding: 6,

		NameFontSize: 8.5, NameLineHeight: 11, MaxNameLines: 2,
		PriceFontSize: 11, PriceLineHeight: 14,
		MetaFontSize: 6.5, MetaLineHeight: 9,
		BarcodeTextFontSize: 6, BarcodeTextHeight: 8,

		BarcodeHeight: 26, MinBarcodeHeight: 18, QuietZone: 4,
		Gap: 3,
	},
	TemplateGrid2x5: {
		Cols: 2, Rows: 5,
		Margin:  14.17,
		Padding: 10,

		NameFontSize: 12, NameLineHeight: 16, MaxNameLines: 2,
		PriceFontSize: 17, PriceLineHeight: 22,
		MetaFontSize: 9, MetaLineHeight: 12,
		BarcodeTextFontSize: 7, BarcodeTextHeight: 10,

		BarcodeHeight: 40, MinBarcodeHeight: 18, QuietZone: 5,
		Gap: 4,
	},
	TemplateRoll: {
		Cols: 1, Rows: 1,
		Margin:  0,
		Padding: 8,

		NameFontSize: 7, NameLineHeight: 9, MaxNameLines: 2,
		PriceFontSize: 9.5, PriceLineHeight: 12,
		MetaFontSize: 6, MetaLineHeight: 8,
		BarcodeTextFontSize: 5.5, BarcodeTextHeight: 7,

		BarcodeHeight: 36, MinBarcodeHeight: 12 * PtPerMm, QuietZone: 3,
		Gap: 2.5,
	},
}

// Templates returns the known template identifiers.
func Templates() []TemplateID {
	return []TemplateID{TemplateGrid3x8, TemplateGrid2x5, TemplateRoll}
}

// IsGrid reports whether the template tiles multiple labels per page.
func (id TemplateID) IsGrid() bool {
	return id != TemplateRoll
}
