package pdf

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/signintech/gopdf"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/tagforge/label-engine/internal/barcode"
	"github.com/tagforge/label-engine/internal/layout"
	"github.com/tagforge/label-engine/internal/textfit"
)

// Label is one physical price tag's content.
type Label struct {
	Name    string   `json:"name"`
	SKU     string   `json:"sku"`
	Barcode string   `json:"barcode"`
	Price   *float64 `json:"price"`
}

// PriceTagRequest is a fully resolved print batch. All user-facing strings
// (fallback labels included) arrive pre-translated; the renderer performs
// no i18n lookups of its own.
type PriceTagRequest struct {
	Labels         []Label
	Template       layout.TemplateID
	Locale         string
	StoreName      string
	NoPriceLabel   string
	NoBarcodeLabel string
	SKULabel       string
	Calibration    *layout.RollCalibration
}

// RenderPriceTags renders a batch of labels into a single PDF document.
// Individual barcode failures degrade to a textual fallback; only
// structural errors fail the whole call.
func RenderPriceTags(req PriceTagRequest) ([]byte, error) {
	doc, err := renderPriceTagDoc(req)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func renderPriceTagDoc(req PriceTagRequest) (*gopdf.GoPdf, error) {
	if len(req.Labels) == 0 {
		return nil, errors.New("at least one label is required")
	}

	lay, err := layout.Compute(req.Template, req.StoreName != "", req.Calibration)
	if err != nil {
		return nil, err
	}

	doc := &gopdf.GoPdf{}
	doc.Start(gopdf.Config{PageSize: gopdf.Rect{W: lay.PageWidth, H: lay.PageHeight}})

	if err := registerFonts(doc); err != nil {
		return nil, err
	}

	cache := rasterCache{}
	prices := NewPriceFormatter(req.Locale)
	perPage := lay.LabelsPerPage()

	for i, label := range req.Labels {
		if i%perPage == 0 {
			doc.AddPage()
		}

		cellX, cellY := lay.CellOrigin(i % perPage)

		if lay.Template.IsGrid() {
			drawCellSeparator(doc, lay, cellX, cellY)
		}
		if err := drawLabel(doc, lay, label, req, prices, cellX, cellY, cache); err != nil {
			return nil, err
		}
	}

	return doc, nil
}

func drawCellSeparator(doc *gopdf.GoPdf, lay *layout.Layout, cellX, cellY float64) {
	doc.SetStrokeColor(200, 200, 200)
	doc.SetLineWidth(0.3)
	doc.RectFromUpperLeftWithStyle(cellX, cellY, lay.CellWidth, lay.CellHeight, "D")
}

func drawLabel(doc *gopdf.GoPdf, lay *layout.Layout, label Label, req PriceTagRequest, prices *PriceFormatter, cellX, cellY float64, cache rasterCache) error {
	cfg := lay.Config
	doc.SetTextColor(0, 0, 0)

	// Product name, clamped to the layout's line budget.
	if err := doc.SetFont(fontFamily, "", cfg.NameFontSize); err != nil {
		return err
	}
	fitsName := fitsWidth(doc, lay.Name.Width)
	for j, line := range textfit.ClampLines(label.Name, cfg.NameLines, fitsName) {
		y := cellY + lay.Name.Y + float64(j)*cfg.NameLineHeight
		if err := drawCentered(doc, line, cellX+lay.Name.X, y, lay.Name.Width); err != nil {
			return err
		}
	}

	// Price, bold; NoPriceLabel at the smaller meta font when absent.
	priceText := req.NoPriceLabel
	priceFont, priceSize := fontFamily, cfg.MetaFontSize
	if label.Price != nil {
		priceText = prices.Format(*label.Price)
		priceFont, priceSize = fontFamilyBold, cfg.PriceFontSize
	}
	if err := doc.SetFont(priceFont, "", priceSize); err != nil {
		return err
	}
	priceText = textfit.TruncateWithEllipsis(priceText, fitsWidth(doc, lay.Price.Width))
	priceY := cellY + lay.Price.Y + (cfg.PriceLineHeight-priceSize)/2
	if err := drawCentered(doc, priceText, cellX+lay.Price.X, priceY, lay.Price.Width); err != nil {
		return err
	}

	// Meta: SKU line, plus the store name on grid templates.
	if err := doc.SetFont(fontFamily, "", cfg.MetaFontSize); err != nil {
		return err
	}
	fitsMeta := fitsWidth(doc, lay.Meta.Width)

	skuLine := label.SKU
	if req.SKULabel != "" {
		skuLine = req.SKULabel + ": " + label.SKU
	}
	skuLine = textfit.TruncateWithEllipsis(skuLine, fitsMeta)
	if err := drawCentered(doc, skuLine, cellX+lay.Meta.X, cellY+lay.Meta.Y, lay.Meta.Width); err != nil {
		return err
	}
	if cfg.MetaLines > 1 && req.StoreName != "" {
		store := textfit.TruncateWithEllipsis(req.StoreName, fitsMeta)
		y := cellY + lay.Meta.Y + cfg.MetaLineHeight
		if err := drawCentered(doc, store, cellX+lay.Meta.X, y, lay.Meta.Width); err != nil {
			return err
		}
	}

	return drawBarcodeBlock(doc, lay, label.Barcode, req.NoBarcodeLabel, cellX, cellY, cache)
}

// drawBarcodeBlock draws the barcode raster plus its human-readable text,
// or the textual fallback when the value is empty or unrenderable.
func drawBarcodeBlock(doc *gopdf.GoPdf, lay *layout.Layout, rawValue, fallback string, cellX, cellY float64, cache rasterCache) error {
	cfg := lay.Config
	spec := barcode.ResolveRenderSpec(rawValue)

	if spec != nil {
		innerW := lay.BarcodeArea.Width - 2*cfg.QuietZone
		out := cache.barcodePNG(spec, innerW, cfg.BarcodeHeight)
		if out.ok() && placeBarcodeImage(doc, lay, out.png, cellX, cellY) {
			if err := doc.SetFont(fontFamily, "", cfg.BarcodeTextFontSize); err != nil {
				return err
			}
			text := textfit.TruncateWithEllipsis(spec.Text, fitsWidth(doc, lay.BarcodeText.Width))
			return drawCentered(doc, text, cellX+lay.BarcodeText.X, cellY+lay.BarcodeText.Y, lay.BarcodeText.Width)
		}
		// Raster generation or placement failed: fall through to the
		// text fallback.
	}

	if err := doc.SetFont(fontFamily, "", cfg.MetaFontSize); err != nil {
		return err
	}
	text := textfit.TruncateWithEllipsis(fallback, fitsWidth(doc, lay.BarcodeArea.Width))
	y := cellY + lay.BarcodeArea.Y + (lay.BarcodeArea.Height-cfg.MetaFontSize)/2
	return drawCentered(doc, text, cellX+lay.BarcodeArea.X, y, lay.BarcodeArea.Width)
}

// placeBarcodeImage puts a barcode raster into its cell block. A false
// return means the image could not be parsed or placed; the caller
// degrades to the text fallback instead of failing the document.
func placeBarcodeImage(doc *gopdf.GoPdf, lay *layout.Layout, raster []byte, cellX, cellY float64) bool {
	cfg := lay.Config
	holder, err := gopdf.ImageHolderByBytes(raster)
	if err != nil {
		return false
	}

	x := cellX + lay.BarcodeArea.X + cfg.QuietZone
	y := cellY + lay.BarcodeArea.Y + cfg.QuietZone
	rect := &gopdf.Rect{W: lay.BarcodeArea.Width - 2*cfg.QuietZone, H: cfg.BarcodeHeight}
	return doc.ImageByHolder(holder, x, y, rect) == nil
}

// fitsWidth builds a textfit predicate from the document's current font.
func fitsWidth(doc *gopdf.GoPdf, width float64) func(string) bool {
	return func(s string) bool {
		w, err := doc.MeasureTextWidth(s)
		return err == nil && w <= width
	}
}

func drawCentered(doc *gopdf.GoPdf, text string, x, y, width float64) error {
	if text == "" {
		return nil
	}
	w, err := doc.MeasureTextWidth(text)
	if err != nil {
		return err
	}
	offset := (width - w) / 2
	if offset < 0 {
		offset = 0
	}
	doc.SetXY(x+offset, y)
	return doc.Cell(nil, text)
}

// PriceFormatter formats monetary amounts with locale-aware digit
// grouping and decimal separators.
type PriceFormatter struct {
	printer *message.Printer
}

// NewPriceFormatter builds a formatter for a BCP 47 locale tag. Unknown
// tags fall back to Russian formatting.
func NewPriceFormatter(locale string) *PriceFormatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Russian
	}
	return &PriceFormatter{printer: message.NewPrinter(tag)}
}

func (f *PriceFormatter) Format(amount float64) string {
	return f.printer.Sprintf("%v", number.Decimal(amount, number.Scale(2)))
}
