package layout

import "fmt"

// RollCalibration holds the physical parameters of a roll label printer.
// All fields are millimeters; zero values fall back to defaults.
type RollCalibration struct {
	WidthMm   float64 `json:"width_mm"`    // label width, default 58
	HeightMm  float64 `json:"height_mm"`   // label height, default 40
	GapMm     float64 `json:"gap_mm"`      // media gap between labels, default 2
	XOffsetMm float64 `json:"x_offset_mm"` // print head horizontal offset
	YOffsetMm float64 `json:"y_offset_mm"` // print head vertical offset
}

const (
	defaultRollWidthMm  = 58
	defaultRollHeightMm = 40
	defaultRollGapMm    = 2

	// The solver gives back at most this much leftover space as extra
	// inter-block gap; the rest centers the block stack.
	maxExtraGapPt = 2 * PtPerMm
)

// Block is a rectangle within a label cell, relative to the cell origin.
type Block struct {
	X, Y, Width, Height float64
}

// Config is the font and line budget after degradation.
type Config struct {
	NameFontSize   float64
	NameLineHeight float64
	NameLines      int

	PriceFontSize   float64
	PriceLineHeight float64

	MetaFontSize   float64
	MetaLineHeight float64
	MetaLines      int

	BarcodeTextFontSize float64
	BarcodeTextHeight   float64

	BarcodeHeight float64
	QuietZone     float64

	Gap float64
}

// Layout is the computed geometry for one template instance. It is built
// once per render call and reused for every label.
type Layout struct {
	Template TemplateID

	PageWidth, PageHeight float64
	Cols, Rows            int
	CellWidth, CellHeight float64
	Margin, Padding       float64
	XOffset, YOffset      float64

	Name        Block
	Price       Block
	Meta        Block
	BarcodeArea Block // barcode image incl. quiet zones
	BarcodeText Block

	Config Config
}

// LabelsPerPage returns how many labels one page holds.
func (l *Layout) LabelsPerPage() int {
	return l.Cols * l.Rows
}

// CellOrigin returns the page coordinates of the cell at the given index
// on its page, in row-major order.
func (l *Layout) CellOrigin(index int) (float64, float64) {
	col := index % l.Cols
	row := (index / l.Cols) % l.Rows
	x := l.Margin + float64(col)*l.CellWidth + l.XOffset
	y := l.Margin + float64(row)*l.CellHeight + l.YOffset
	return x, y
}

// Compute builds the layout for a template. hasStoreName widens the meta
// block on grid templates; cal applies to the roll template only.
func Compute(id TemplateID, hasStoreName bool, cal *RollCalibration) (*Layout, error) {
	tc, ok := templateConfigs[id]
	if !ok {
		return nil, fmt.Errorf("unknown template: %s", id)
	}

	l := &Layout{
		Template: id,
		Cols:     tc.Cols,
		Rows:     tc.Rows,
		Margin:   tc.Margin,
		Padding:  tc.Padding,
	}

	if id.IsGrid() {
		l.PageWidth = pageWidthA4
		l.PageHeight = pageHeightA4
		l.CellWidth = (l.PageWidth - 2*tc.Margin) / float64(tc.Cols)
		l.CellHeight = (l.PageHeight - 2*tc.Margin) / float64(tc.Rows)
	} else {
		c := normalizedCalibration(cal)
		l.PageWidth = c.WidthMm * PtPerMm
		l.PageHeight = (c.HeightMm + c.GapMm) * PtPerMm
		l.CellWidth = c.WidthMm * PtPerMm
		l.CellHeight = c.HeightMm * PtPerMm
		l.XOffset = c.XOffsetMm * PtPerMm
		l.YOffset = c.YOffsetMm * PtPerMm
	}

	cfg := Config{
		NameFontSize:   tc.NameFontSize,
		NameLineHeight: tc.NameLineHeight,
		NameLines:      tc.MaxNameLines,

		PriceFontSize:   tc.PriceFontSize,
		PriceLineHeight: tc.PriceLineHeight,

		MetaFontSize:   tc.MetaFontSize,
		MetaLineHeight: tc.MetaLineHeight,
		MetaLines:      1,

		BarcodeTextFontSize: tc.BarcodeTextFontSize,
		BarcodeTextHeight:   tc.BarcodeTextHeight,

		BarcodeHeight: tc.BarcodeHeight,
		QuietZone:     tc.QuietZone,

		Gap: tc.Gap,
	}
	if id.IsGrid() && hasStoreName {
		// Store name is printed as a second meta line under the SKU.
		cfg.MetaLines = 2
	}

	usable := l.CellHeight - 2*tc.Padding

	// Degradation: each step applies once, in fixed priority order. The
	// ordering is a preserved policy, not something to re-derive.
	if required(cfg) > usable && cfg.NameLines > 1 {
		cfg.NameLines = 1
	}
	if over := required(cfg) - usable; over > 0 && !id.IsGrid() {
		shrink := over / 4
		if shrink > cfg.Gap {
			shrink = cfg.Gap
		}
		cfg.Gap -= shrink
	}
	if over := required(cfg) - usable; over > 0 {
		cfg.BarcodeHeight -= over
		if cfg.BarcodeHeight < tc.MinBarcodeHeight {
			// Hard floor: an unreadable barcode is worse than visual overflow.
			cfg.BarcodeHeight = tc.MinBarcodeHeight
		}
	}

	verticalOffset := 0.0
	if !id.IsGrid() {
		if leftover := usable - required(cfg); leftover > 0 {
			// Prefer breathing room between fields over dead margin.
			extra := leftover
			if extra > maxExtraGapPt {
				extra = maxExtraGapPt
			}
			cfg.Gap += extra / 4
			verticalOffset = (usable - required(cfg)) / 2
		}
	}

	l.Config = cfg
	l.place(verticalOffset)
	return l, nil
}

// required is the total vertical space the five blocks and four gaps need.
func required(cfg Config) float64 {
	return float64(cfg.NameLines)*cfg.NameLineHeight +
		cfg.PriceLineHeight +
		float64(cfg.MetaLines)*cfg.MetaLineHeight +
		(cfg.BarcodeHeight + 2*cfg.QuietZone) +
		cfg.BarcodeTextHeight +
		4*cfg.Gap
}

// place stacks the five blocks top to bottom inside the cell.
func (l *Layout) place(verticalOffset float64) {
	cfg := l.Config
	x := l.Padding
	w := l.CellWidth - 2*l.Padding
	y := l.Padding + verticalOffset

	l.Name = Block{X: x, Y: y, Width: w, Height: float64(cfg.NameLines) * cfg.NameLineHeight}
	y += l.Name.Height + cfg.Gap

	l.Price = Block{X: x, Y: y, Width: w, Height: cfg.PriceLineHeight}
	y += l.Price.Height + cfg.Gap

	l.Meta = Block{X: x, Y: y, Width: w, Height: float64(cfg.MetaLines) * cfg.MetaLineHeight}
	y += l.Meta.Height + cfg.Gap

	l.BarcodeArea = Block{X: x, Y: y, Width: w, Height: cfg.BarcodeHeight + 2*cfg.QuietZone}
	y += l.BarcodeArea.Height + cfg.Gap

	l.BarcodeText = Block{X: x, Y: y, Width: w, Height: cfg.BarcodeTextHeight}
}

func normalizedCalibration(cal *RollCalibration) RollCalibration {
	c := RollCalibration{
		WidthMm:  defaultRollWidthMm,
		HeightMm: defaultRollHeightMm,
		GapMm:    defaultRollGapMm,
	}
	if cal == nil {
		return c
	}
	if cal.WidthMm > 0 {
		c.WidthMm = cal.WidthMm
	}
	if cal.HeightMm > 0 {
		c.HeightMm = cal.HeightMm
	}
	if cal.GapMm > 0 {
		c.GapMm = cal.GapMm
	}
	c.XOffsetMm = cal.XOffsetMm
	c.YOffsetMm = cal.YOffsetMm
	return c
}
