// Package preview renders a single price tag as a PNG raster so the caller
// can inspect the layout on screen before committing a print run.
package preview

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"image/png"

	bcode "github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/boombuler/barcode/ean"
	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/tagforge/label-engine/internal/barcode"
	"github.com/tagforge/label-engine/internal/layout"
	"github.com/tagforge/label-engine/internal/pdf"
	"github.com/tagforge/label-engine/internal/textfit"
)

// Raster pixels per layout point. 3 px/pt is roughly 216 DPI, enough to
// judge text fit and barcode placement.
const pxPerPt = 3.0

// Request describes one label to preview, with the same options the batch
// renderer takes.
type Request struct {
	Label          pdf.Label
	Template       layout.TemplateID
	Locale         string
	StoreName      string
	NoPriceLabel   string
	NoBarcodeLabel string
	SKULabel       string
	Calibration    *layout.RollCalibration
}

// RenderLabelPNG renders the label into a PNG image of one template cell.
func RenderLabelPNG(req Request) ([]byte, error) {
	if req.Label.Name == "" {
		return nil, errors.New("label name is required")
	}

	lay, err := layout.Compute(req.Template, req.StoreName != "", req.Calibration)
	if err != nil {
		return nil, err
	}

	p := &painter{
		ctx:         gg.NewContext(int(lay.CellWidth*pxPerPt), int(lay.CellHeight*pxPerPt)),
		regularFont: pdf.RegularFontPath(),
		boldFont:    pdf.BoldFontPath(),
	}
	p.ctx.SetColor(color.White)
	p.ctx.Clear()

	if err := p.drawLabel(lay, req); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, p.ctx.Image()); err != nil {
		return nil, fmt.Errorf("failed to encode preview: %w", err)
	}
	return buf.Bytes(), nil
}

type painter struct {
	ctx         *gg.Context
	regularFont string
	boldFont    string
}

// setFace loads a TTF face at the given point size, falling back to the
// built-in bitmap face when no system font is installed.
func (p *painter) setFace(path string, sizePt float64) {
	if path != "" {
		if err := p.ctx.LoadFontFace(path, sizePt*pxPerPt); err == nil {
			return
		}
	}
	p.ctx.SetFontFace(basicfont.Face7x13)
}

func (p *painter) drawLabel(lay *layout.Layout, req Request) error {
	cfg := lay.Config

	p.ctx.SetColor(color.Gray{Y: 200})
	p.ctx.SetLineWidth(1)
	p.ctx.DrawRectangle(0, 0, float64(p.ctx.Width()), float64(p.ctx.Height()))
	p.ctx.Stroke()
	p.ctx.SetColor(color.Black)

	// Product name.
	p.setFace(p.regularFont, cfg.NameFontSize)
	for j, line := range textfit.ClampLines(req.Label.Name, cfg.NameLines, p.fitsWidth(lay.Name.Width)) {
		y := lay.Name.Y + float64(j)*cfg.NameLineHeight
		p.drawCentered(line, lay.Name.X, y, lay.Name.Width, cfg.NameFontSize)
	}

	// Price.
	priceText := req.NoPriceLabel
	font, size := p.regularFont, cfg.MetaFontSize
	if req.Label.Price != nil {
		priceText = pdf.NewPriceFormatter(req.Locale).Format(*req.Label.Price)
		font, size = p.boldFont, cfg.PriceFontSize
	}
	p.setFace(font, size)
	priceText = textfit.TruncateWithEllipsis(priceText, p.fitsWidth(lay.Price.Width))
	p.drawCentered(priceText, lay.Price.X, lay.Price.Y+(cfg.PriceLineHeight-size)/2, lay.Price.Width, size)

	// Meta lines.
	p.setFace(p.regularFont, cfg.MetaFontSize)
	fitsMeta := p.fitsWidth(lay.Meta.Width)
	skuLine := req.Label.SKU
	if req.SKULabel != "" {
		skuLine = req.SKULabel + ": " + req.Label.SKU
	}
	p.drawCentered(textfit.TruncateWithEllipsis(skuLine, fitsMeta), lay.Meta.X, lay.Meta.Y, lay.Meta.Width, cfg.MetaFontSize)
	if cfg.MetaLines > 1 && req.StoreName != "" {
		store := textfit.TruncateWithEllipsis(req.StoreName, fitsMeta)
		p.drawCentered(store, lay.Meta.X, lay.Meta.Y+cfg.MetaLineHeight, lay.Meta.Width, cfg.MetaFontSize)
	}

	return p.drawBarcode(lay, req.Label.Barcode, req.NoBarcodeLabel)
}

func (p *painter) drawBarcode(lay *layout.Layout, rawValue, fallback string) error {
	cfg := lay.Config
	spec := barcode.ResolveRenderSpec(rawValue)

	if spec != nil {
		img, err := encodeBarcode(spec)
		if err == nil {
			innerW := int((lay.BarcodeArea.Width - 2*cfg.QuietZone) * pxPerPt)
			innerH := int(cfg.BarcodeHeight * pxPerPt)
			// Nearest neighbor keeps the bar edges sharp.
			scaled := imaging.Resize(img, innerW, innerH, imaging.NearestNeighbor)

			x := int((lay.BarcodeArea.X + cfg.QuietZone) * pxPerPt)
			y := int((lay.BarcodeArea.Y + cfg.QuietZone) * pxPerPt)
			p.ctx.DrawImage(scaled, x, y)

			p.setFace(p.regularFont, cfg.BarcodeTextFontSize)
			text := textfit.TruncateWithEllipsis(spec.Text, p.fitsWidth(lay.BarcodeText.Width))
			p.drawCentered(text, lay.BarcodeText.X, lay.BarcodeText.Y, lay.BarcodeText.Width, cfg.BarcodeTextFontSize)
			return nil
		}
	}

	p.setFace(p.regularFont, cfg.MetaFontSize)
	text := textfit.TruncateWithEllipsis(fallback, p.fitsWidth(lay.BarcodeArea.Width))
	y := lay.BarcodeArea.Y + (lay.BarcodeArea.Height-cfg.MetaFontSize)/2
	p.drawCentered(text, lay.BarcodeArea.X, y, lay.BarcodeArea.Width, cfg.MetaFontSize)
	return nil
}

func encodeBarcode(spec *barcode.RenderSpec) (bcode.Barcode, error) {
	switch spec.Symbology {
	case barcode.SymbologyEAN13:
		return ean.Encode(spec.Text)
	case barcode.SymbologyCode128:
		return code128.Encode(spec.Text)
	default:
		return nil, fmt.Errorf("unsupported symbology: %s", spec.Symbology)
	}
}

// fitsWidth builds a textfit predicate from the current font face. Widths
// are in layout points.
func (p *painter) fitsWidth(widthPt float64) func(string) bool {
	return func(s string) bool {
		w, _ := p.ctx.MeasureString(s)
		return w <= widthPt*pxPerPt
	}
}

// drawCentered draws one line of text centered in a horizontal span. x,
// y and width are layout points; y is the top of the line.
func (p *painter) drawCentered(text string, x, y, width, sizePt float64) {
	if text == "" {
		return
	}
	w, _ := p.ctx.MeasureString(text)
	offset := (width*pxPerPt - w) / 2
	if offset < 0 {
		offset = 0
	}
	p.ctx.DrawString(text, x*pxPerPt+offset, (y+sizePt)*pxPerPt)
}
