package pdf

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"

	bcode "github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/boombuler/barcode/ean"
	"github.com/skip2/go-qrcode"

	"github.com/tagforge/label-engine/internal/barcode"
)

// Raster pixels per PDF point. Barcodes are generated oversized and scaled
// down by the PDF viewer so bars stay crisp.
const rasterScale = 4.0

// rasterOutcome is the result of one raster generation attempt. A failed
// outcome degrades to a textual fallback at the call site; it never fails
// the document.
type rasterOutcome struct {
	png []byte
	err error
}

func (r rasterOutcome) ok() bool {
	return r.err == nil && len(r.png) > 0
}

// rasterCache caches barcode rasters within a single render call, keyed by
// symbology and value. It is never shared across calls, so concurrent
// renders stay independent.
type rasterCache map[string]rasterOutcome

func (c rasterCache) barcodePNG(spec *barcode.RenderSpec, widthPt, heightPt float64) rasterOutcome {
	key := string(spec.Symbology) + ":" + spec.Text
	if out, hit := c[key]; hit {
		return out
	}

	out := encodeBarcodePNG(spec, widthPt, heightPt)
	c[key] = out
	return out
}

func encodeBarcodePNG(spec *barcode.RenderSpec, widthPt, heightPt float64) rasterOutcome {
	var (
		encoded bcode.Barcode
		err     error
	)

	switch spec.Symbology {
	case barcode.SymbologyEAN13:
		encoded, err = ean.Encode(spec.Text)
	case barcode.SymbologyCode128:
		encoded, err = code128.Encode(spec.Text)
	default:
		err = fmt.Errorf("unsupported symbology: %s", spec.Symbology)
	}
	if err != nil {
		return rasterOutcome{err: err}
	}

	widthPx := int(widthPt * rasterScale)
	heightPx := int(heightPt * rasterScale)
	// Scale refuses targets narrower than the module count.
	if modules := encoded.Bounds().Dx(); widthPx < modules {
		widthPx = modules
	}
	if heightPx < 1 {
		heightPx = 1
	}

	scaled, err := bcode.Scale(encoded, widthPx, heightPx)
	if err != nil {
		return rasterOutcome{err: err}
	}

	// Barcodes come back as 16-bit grayscale, which PDF image parsers
	// reject. Redraw into an 8-bit raster before encoding.
	gray := image.NewGray(scaled.Bounds())
	draw.Draw(gray, gray.Bounds(), scaled, scaled.Bounds().Min, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, gray); err != nil {
		return rasterOutcome{err: err}
	}
	return rasterOutcome{png: buf.Bytes()}
}

// qrPNG renders a QR code raster. Same degrade-to-text contract as
// barcodes.
func qrPNG(payload string, sizePt float64) rasterOutcome {
	sizePx := int(sizePt * rasterScale)
	if sizePx < 21 {
		sizePx = 21
	}

	data, err := qrcode.Encode(payload, qrcode.Medium, sizePx)
	if err != nil {
		return rasterOutcome{err: err}
	}
	return rasterOutcome{png: data}
}
