// Package printformat defines the versioned JSON documents accepted by the
// print endpoints: price-tag label batches and receipt jobs.
package printformat

// Version is the only supported document version.
const Version = "1.0"

// MaxLabels bounds one batch; the renderer has no internal timeout, so
// input size is capped before rendering starts.
const MaxLabels = 500

// LabelBatch is the root structure of a price-tag print request.
type LabelBatch struct {
	Version     string       `json:"version"`
	Template    string       `json:"template"` // "3x8", "2x5", "roll"
	Locale      string       `json:"locale,omitempty"`
	StoreName   string       `json:"store_name,omitempty"`
	Strings     Strings      `json:"strings"`
	Calibration *Calibration `json:"calibration,omitempty"`
	Labels      []Label      `json:"labels"`
}

// Strings carries the pre-translated fallback texts; the renderer does no
// i18n lookups itself.
type Strings struct {
	NoPrice   string `json:"no_price"`
	NoBarcode string `json:"no_barcode"`
	SKU       string `json:"sku"`
}

// Label is one tag to print.
type Label struct {
	Name    string   `json:"name"`
	SKU     string   `json:"sku,omitempty"`
	Barcode string   `json:"barcode,omitempty"`
	Price   *float64 `json:"price,omitempty"`
}

// Calibration holds roll printer parameters in millimeters.
type Calibration struct {
	WidthMm   float64 `json:"width_mm,omitempty"`
	HeightMm  float64 `json:"height_mm,omitempty"`
	GapMm     float64 `json:"gap_mm,omitempty"`
	XOffsetMm float64 `json:"x_offset_mm,omitempty"`
	YOffsetMm float64 `json:"y_offset_mm,omitempty"`
}

// ReceiptJob is the root structure of a receipt print request: a fully
// resolved sale, with all display strings pre-translated.
type ReceiptJob struct {
	Version string `json:"version"`
	Locale  string `json:"locale,omitempty"`

	StoreName    string `json:"store_name"`
	StoreAddress string `json:"store_address,omitempty"`
	StoreTaxID   string `json:"store_tax_id,omitempty"`

	Number   string `json:"number,omitempty"`
	IssuedAt string `json:"issued_at,omitempty"`

	Items    []ReceiptItem `json:"items"`
	Subtotal float64       `json:"subtotal"`
	Discount float64       `json:"discount,omitempty"`
	Total    float64       `json:"total"`
	Payments []Payment     `json:"payments,omitempty"`

	Fiscal    Fiscal `json:"fiscal,omitempty"`
	QRPayload string `json:"qr_payload,omitempty"`

	Strings ReceiptStrings `json:"strings"`
}

// ReceiptItem is one sale line.
type ReceiptItem struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"`
	Total    float64 `json:"total"`
}

// Payment is one row of the payment breakdown.
type Payment struct {
	Method string  `json:"method"`
	Amount float64 `json:"amount"`
}

// Fiscal is the fiscal/KKM status block.
type Fiscal struct {
	Status         string `json:"status,omitempty"`
	Sign           string `json:"sign,omitempty"`
	MachineNumber  string `json:"machine_number,omitempty"`
	DocumentNumber string `json:"document_number,omitempty"`
}

// ReceiptStrings carries the pre-translated total-row labels.
type ReceiptStrings struct {
	Subtotal string `json:"subtotal,omitempty"`
	Discount string `json:"discount,omitempty"`
	Total    string `json:"total"`
}
