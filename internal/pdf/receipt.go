package pdf

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/signintech/gopdf"

	"github.com/tagforge/label-engine/internal/layout"
	"github.com/tagforge/label-engine/internal/textfit"
)

// Thermal receipt media: 80mm wide, variable length.
const (
	receiptWidthPt  = 80 * layout.PtPerMm
	receiptMarginPt = 10

	// Oversized scratch page used by the measurement pass.
	measurePageHeightPt = 20000

	qrSizePt = 80
)

// ReceiptItem is one sale line.
type ReceiptItem struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"`
	Total    float64 `json:"total"`
}

// Payment is one row of the payment breakdown.
type Payment struct {
	Method string  `json:"method"` // pre-translated by the caller
	Amount float64 `json:"amount"`
}

// FiscalInfo is the fiscal/KKM status block. All fields are pre-formatted
// by the caller; empty fields are skipped.
type FiscalInfo struct {
	Status         string `json:"status"`
	Sign           string `json:"sign"`
	MachineNumber  string `json:"machine_number"`
	DocumentNumber string `json:"document_number"`
}

// ReceiptStrings carries the pre-translated labels the receipt needs.
type ReceiptStrings struct {
	Subtotal string `json:"subtotal"`
	Discount string `json:"discount"`
	Total    string `json:"total"`
}

// ReceiptRequest is a fully resolved sale, supplied by the caller.
type ReceiptRequest struct {
	StoreName    string
	StoreAddress string
	StoreTaxID   string

	Number   string
	IssuedAt string // pre-formatted timestamp

	Items    []ReceiptItem
	Subtotal float64
	Discount float64
	Total    float64
	Payments []Payment

	Fiscal    FiscalInfo
	QRPayload string

	Locale  string
	Strings ReceiptStrings
}

// RenderReceipt renders a variable-height thermal receipt. A first pass
// walks the content with real font metrics to measure the exact page
// height; a second pass draws the real page at that height.
func RenderReceipt(req ReceiptRequest) ([]byte, error) {
	height, err := measureReceipt(req)
	if err != nil {
		return nil, err
	}

	doc := &gopdf.GoPdf{}
	doc.Start(gopdf.Config{PageSize: gopdf.Rect{W: receiptWidthPt, H: height}})
	if err := registerFonts(doc); err != nil {
		return nil, err
	}
	doc.AddPage()

	w := &receiptWriter{doc: doc, draw: true, y: receiptMarginPt, prices: NewPriceFormatter(req.Locale)}
	if err := w.walk(req); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// measureReceipt runs the walk against a throwaway document, drawing
// nothing, and returns the height the content actually needs.
func measureReceipt(req ReceiptRequest) (float64, error) {
	doc := &gopdf.GoPdf{}
	doc.Start(gopdf.Config{PageSize: gopdf.Rect{W: receiptWidthPt, H: measurePageHeightPt}})
	if err := registerFonts(doc); err != nil {
		return 0, err
	}
	doc.AddPage()

	w := &receiptWriter{doc: doc, draw: false, y: receiptMarginPt, prices: NewPriceFormatter(req.Locale)}
	if err := w.walk(req); err != nil {
		return 0, err
	}
	return w.y + receiptMarginPt, nil
}

type alignment int

const (
	alignLeft alignment = iota
	alignCenter
	alignRight
)

// receiptWriter walks receipt content top to bottom. With draw unset it
// only advances y, which is how the measurement pass works; both passes
// share the exact same code path so the measured height is exact.
type receiptWriter struct {
	doc    *gopdf.GoPdf
	draw   bool
	y      float64
	prices *PriceFormatter
}

func (w *receiptWriter) width() float64 {
	return receiptWidthPt - 2*receiptMarginPt
}

func (w *receiptWriter) walk(req ReceiptRequest) error {
	// Store identity block
	if err := w.line(fontFamilyBold, 11, req.StoreName, alignCenter); err != nil {
		return err
	}
	for _, s := range []string{req.StoreAddress, req.StoreTaxID} {
		if err := w.line(fontFamily, 8, s, alignCenter); err != nil {
			return err
		}
	}
	for _, s := range []string{req.Number, req.IssuedAt} {
		if err := w.line(fontFamily, 8, s, alignCenter); err != nil {
			return err
		}
	}

	if err := w.divider(); err != nil {
		return err
	}

	// Line items
	for _, item := range req.Items {
		if err := w.wrapped(fontFamily, 8, item.Name, 2); err != nil {
			return err
		}
		qty := formatQuantity(item.Quantity)
		left := fmt.Sprintf("%s x %s", qty, w.prices.Format(item.Price))
		if err := w.pair(fontFamily, 8, left, w.prices.Format(item.Total)); err != nil {
			return err
		}
	}

	if err := w.divider(); err != nil {
		return err
	}

	// Totals
	if req.Strings.Subtotal != "" {
		if err := w.pair(fontFamily, 8, req.Strings.Subtotal, w.prices.Format(req.Subtotal)); err != nil {
			return err
		}
	}
	if req.Discount != 0 && req.Strings.Discount != "" {
		if err := w.pair(fontFamily, 8, req.Strings.Discount, w.prices.Format(req.Discount)); err != nil {
			return err
		}
	}
	if err := w.pair(fontFamilyBold, 10, req.Strings.Total, w.prices.Format(req.Total)); err != nil {
		return err
	}

	// Payment breakdown
	for _, p := range req.Payments {
		if err := w.pair(fontFamily, 8, p.Method, w.prices.Format(p.Amount)); err != nil {
			return err
		}
	}

	// Fiscal/KKM block
	fiscal := []string{req.Fiscal.Status, req.Fiscal.Sign, req.Fiscal.MachineNumber, req.Fiscal.DocumentNumber}
	hasFiscal := false
	for _, s := range fiscal {
		if s != "" {
			hasFiscal = true
			break
		}
	}
	if hasFiscal {
		if err := w.divider(); err != nil {
			return err
		}
		if err := w.line(fontFamilyBold, 8, req.Fiscal.Status, alignCenter); err != nil {
			return err
		}
		for _, s := range fiscal[1:] {
			if err := w.line(fontFamily, 7, s, alignCenter); err != nil {
				return err
			}
		}
	}

	return w.qr(req.QRPayload)
}

// line writes one truncated line; empty text is skipped entirely.
func (w *receiptWriter) line(family string, size float64, text string, align alignment) error {
	if text == "" {
		return nil
	}
	if err := w.doc.SetFont(family, "", size); err != nil {
		return err
	}

	text = textfit.TruncateWithEllipsis(text, fitsWidth(w.doc, w.width()))
	if w.draw {
		tw, err := w.doc.MeasureTextWidth(text)
		if err != nil {
			return err
		}
		x := float64(receiptMarginPt)
		switch align {
		case alignCenter:
			x += (w.width() - tw) / 2
		case alignRight:
			x += w.width() - tw
		}
		w.doc.SetXY(x, w.y)
		if err := w.doc.Cell(nil, text); err != nil {
			return err
		}
	}

	w.y += size * 1.35
	return nil
}

// wrapped writes text clamped to maxLines lines, left-aligned.
func (w *receiptWriter) wrapped(family string, size float64, text string, maxLines int) error {
	if text == "" {
		return nil
	}
	if err := w.doc.SetFont(family, "", size); err != nil {
		return err
	}

	for _, l := range textfit.ClampLines(text, maxLines, fitsWidth(w.doc, w.width())) {
		if w.draw {
			w.doc.SetXY(receiptMarginPt, w.y)
			if err := w.doc.Cell(nil, l); err != nil {
				return err
			}
		}
		w.y += size * 1.35
	}
	return nil
}

// pair writes a left label and a right-aligned amount on one line. The
// left side gets at most 62% of the width before truncation.
func (w *receiptWriter) pair(family string, size float64, left, right string) error {
	if err := w.doc.SetFont(family, "", size); err != nil {
		return err
	}

	left = textfit.TruncateWithEllipsis(left, fitsWidth(w.doc, w.width()*0.62))
	right = textfit.TruncateWithEllipsis(right, fitsWidth(w.doc, w.width()*0.35))

	if w.draw {
		w.doc.SetXY(receiptMarginPt, w.y)
		if err := w.doc.Cell(nil, left); err != nil {
			return err
		}

		rw, err := w.doc.MeasureTextWidth(right)
		if err != nil {
			return err
		}
		w.doc.SetXY(receiptMarginPt+w.width()-rw, w.y)
		if err := w.doc.Cell(nil, right); err != nil {
			return err
		}
	}

	w.y += size * 1.35
	return nil
}

func (w *receiptWriter) divider() error {
	w.y += 4
	if w.draw {
		w.doc.SetStrokeColor(0, 0, 0)
		w.doc.SetLineWidth(0.4)
		w.doc.SetLineType("dashed")
		w.doc.Line(receiptMarginPt, w.y, receiptWidthPt-receiptMarginPt, w.y)
		w.doc.SetLineType("")
	}
	w.y += 6
	return nil
}

// qr draws the QR block centered, falling back to the raw payload as text
// when generation fails. An empty payload draws nothing.
func (w *receiptWriter) qr(payload string) error {
	if payload == "" {
		return nil
	}

	w.y += 6
	out := qrPNG(payload, qrSizePt)
	if !out.ok() {
		return w.wrapped(fontFamily, 6, payload, 3)
	}

	if w.draw {
		holder, err := gopdf.ImageHolderByBytes(out.png)
		if err != nil {
			return err
		}
		x := receiptMarginPt + (w.width()-qrSizePt)/2
		if err := w.doc.ImageByHolder(holder, x, w.y, &gopdf.Rect{W: qrSizePt, H: qrSizePt}); err != nil {
			return err
		}
	}
	w.y += qrSizePt
	return nil
}

func formatQuantity(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}
