// Package api exposes the rendering engine over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tagforge/label-engine/internal/barcode"
	"github.com/tagforge/label-engine/internal/layout"
	"github.com/tagforge/label-engine/internal/ledger"
	"github.com/tagforge/label-engine/internal/pdf"
	"github.com/tagforge/label-engine/internal/preview"
	"github.com/tagforge/label-engine/pkg/printformat"
)

// Server is the API server.
type Server struct {
	router *gin.Engine
	ledger *ledger.Ledger
}

// NewServer creates a new API server.
func NewServer(led *ledger.Ledger) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.Default()
	router.Use(corsMiddleware())

	server := &Server{
		router: router,
		ledger: led,
	}

	server.setupRoutes()

	return server
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	s.router.GET("/templates", s.handleGetTemplates)

	s.router.POST("/print/labels", s.handlePrintLabels)
	s.router.POST("/print/receipt", s.handlePrintReceipt)
	s.router.POST("/preview/label", s.handlePreviewLabel)

	s.router.POST("/barcodes/generate", s.handleGenerateBarcode)
}

// handleGetTemplates returns the available templates and their geometry.
func (s *Server) handleGetTemplates(c *gin.Context) {
	templates := make([]gin.H, 0, len(layout.Templates()))
	for _, id := range layout.Templates() {
		lay, err := layout.Compute(id, false, nil)
		if err != nil {
			c.JSON(500, gin.H{"error": err.Error()})
			return
		}
		templates = append(templates, gin.H{
			"id":              string(id),
			"grid":            id.IsGrid(),
			"page_width":      lay.PageWidth,
			"page_height":     lay.PageHeight,
			"labels_per_page": lay.LabelsPerPage(),
		})
	}

	c.JSON(200, gin.H{"templates": templates})
}

// handlePrintLabels renders a label batch into a PDF document.
func (s *Server) handlePrintLabels(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(400, gin.H{"error": "failed to read request body"})
		return
	}

	batch, err := printformat.ParseLabelBatch(body)
	if err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	data, err := pdf.RenderPriceTags(labelBatchToRequest(batch))
	if err != nil {
		c.JSON(500, gin.H{"error": fmt.Sprintf("failed to render labels: %v", err)})
		return
	}

	sendPDF(c, "price-tags", data)
}

// handlePrintReceipt renders a receipt job into a PDF document.
func (s *Server) handlePrintReceipt(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(400, gin.H{"error": "failed to read request body"})
		return
	}

	job, err := printformat.ParseReceiptJob(body)
	if err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	data, err := pdf.RenderReceipt(receiptJobToRequest(job))
	if err != nil {
		c.JSON(500, gin.H{"error": fmt.Sprintf("failed to render receipt: %v", err)})
		return
	}

	sendPDF(c, "receipt", data)
}

// handlePreviewLabel renders the first label of a batch as a PNG preview.
func (s *Server) handlePreviewLabel(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(400, gin.H{"error": "failed to read request body"})
		return
	}

	batch, err := printformat.ParseLabelBatch(body)
	if err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	req := labelBatchToRequest(batch)
	data, err := preview.RenderLabelPNG(preview.Request{
		Label:          req.Labels[0],
		Template:       req.Template,
		Locale:         req.Locale,
		StoreName:      req.StoreName,
		NoPriceLabel:   req.NoPriceLabel,
		NoBarcodeLabel: req.NoBarcodeLabel,
		SKULabel:       req.SKULabel,
		Calibration:    req.Calibration,
	})
	if err != nil {
		c.JSON(500, gin.H{"error": fmt.Sprintf("failed to render preview: %v", err)})
		return
	}

	c.Data(200, "image/png", data)
}

// handleGenerateBarcode issues a new unique barcode for an organization
// and records it in the ledger.
func (s *Server) handleGenerateBarcode(c *gin.Context) {
	var req struct {
		OrganizationID string `json:"organization_id" binding:"required"`
		Mode           string `json:"mode"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "organization_id is required"})
		return
	}

	mode := barcode.SymbologyEAN13
	switch req.Mode {
	case "", string(barcode.SymbologyEAN13):
	case string(barcode.SymbologyCode128):
		mode = barcode.SymbologyCode128
	default:
		c.JSON(400, gin.H{"error": fmt.Sprintf("unknown mode: %s", req.Mode)})
		return
	}

	value, err := barcode.ResolveUniqueGenerated(c.Request.Context(), barcode.GenerateOptions{
		OrganizationID: req.OrganizationID,
		Mode:           mode,
		IsTaken: func(ctx context.Context, value string) (bool, error) {
			return s.ledger.IsTaken(req.OrganizationID, value), nil
		},
	})
	if err != nil {
		if errors.Is(err, barcode.ErrGenerationExhausted) {
			c.JSON(409, gin.H{"error": "no free barcode value found"})
			return
		}
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}

	if err := s.ledger.Record(req.OrganizationID, value, string(mode)); err != nil {
		c.JSON(500, gin.H{"error": fmt.Sprintf("failed to record barcode: %v", err)})
		return
	}

	c.JSON(200, gin.H{
		"barcode": value,
		"mode":    string(mode),
	})
}

func sendPDF(c *gin.Context, kind string, data []byte) {
	filename := fmt.Sprintf("%s-%s.pdf", kind, uuid.NewString())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(200, "application/pdf", data)
}

func labelBatchToRequest(batch *printformat.LabelBatch) pdf.PriceTagRequest {
	labels := make([]pdf.Label, len(batch.Labels))
	for i, l := range batch.Labels {
		labels[i] = pdf.Label{
			Name:    l.Name,
			SKU:     l.SKU,
			Barcode: l.Barcode,
			Price:   l.Price,
		}
	}

	var cal *layout.RollCalibration
	if batch.Calibration != nil {
		cal = &layout.RollCalibration{
			WidthMm:   batch.Calibration.WidthMm,
			HeightMm:  batch.Calibration.HeightMm,
			GapMm:     batch.Calibration.GapMm,
			XOffsetMm: batch.Calibration.XOffsetMm,
			YOffsetMm: batch.Calibration.YOffsetMm,
		}
	}

	return pdf.PriceTagRequest{
		Labels:         labels,
		Template:       layout.TemplateID(batch.Template),
		Locale:         batch.Locale,
		StoreName:      batch.StoreName,
		NoPriceLabel:   batch.Strings.NoPrice,
		NoBarcodeLabel: batch.Strings.NoBarcode,
		SKULabel:       batch.Strings.SKU,
		Calibration:    cal,
	}
}

func receiptJobToRequest(job *printformat.ReceiptJob) pdf.ReceiptRequest {
	items := make([]pdf.ReceiptItem, len(job.Items))
	for i, it := range job.Items {
		items[i] = pdf.ReceiptItem{
			Name:     it.Name,
			Quantity: it.Quantity,
			Price:    it.Price,
			Total:    it.Total,
		}
	}

	payments := make([]pdf.Payment, len(job.Payments))
	for i, p := range job.Payments {
		payments[i] = pdf.Payment{Method: p.Method, Amount: p.Amount}
	}

	return pdf.ReceiptRequest{
		StoreName:    job.StoreName,
		StoreAddress: job.StoreAddress,
		StoreTaxID:   job.StoreTaxID,
		Number:       job.Number,
		IssuedAt:     job.IssuedAt,
		Items:        items,
		Subtotal:     job.Subtotal,
		Discount:     job.Discount,
		Total:        job.Total,
		Payments:     payments,
		Fiscal: pdf.FiscalInfo{
			Status:         job.Fiscal.Status,
			Sign:           job.Fiscal.Sign,
			MachineNumber:  job.Fiscal.MachineNumber,
			DocumentNumber: job.Fiscal.DocumentNumber,
		},
		QRPayload: job.QRPayload,
		Locale:    job.Locale,
		Strings: pdf.ReceiptStrings{
			Subtotal: job.Strings.Subtotal,
			Discount: job.Strings.Discount,
			Total:    job.Strings.Total,
		},
	}
}

// Run starts the API server.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Handler returns the underlying HTTP handler, used by tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
