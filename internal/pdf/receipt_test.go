package pdf

import (
	"bytes"
	"testing"
)

func sampleReceipt() ReceiptRequest {
	return ReceiptRequest{
		StoreName:    "Магазин №1",
		StoreAddress: "г. Алматы, ул. Абая 10",
		StoreTaxID:   "БИН 123456789012",
		Number:       "Чек №000142",
		IssuedAt:     "29.08.2026 14:03",
		Items: []ReceiptItem{
			{Name: "Молоко 3.2% 1л", Quantity: 2, Price: 450, Total: 900},
			{Name: "Хлеб бородинский", Quantity: 1, Price: 220, Total: 220},
		},
		Subtotal: 1120,
		Total:    1120,
		Payments: []Payment{{Method: "Наличные", Amount: 1120}},
		Fiscal: FiscalInfo{
			Status:         "ФИСКАЛЬНЫЙ ЧЕК",
			Sign:           "ФП 1029384756",
			MachineNumber:  "ККМ 010203040506",
			DocumentNumber: "Док 142",
		},
		QRPayload: "https://consumer.example/check/000142",
		Locale:    "ru",
		Strings: ReceiptStrings{
			Subtotal: "Сумма",
			Discount: "Скидка",
			Total:    "ИТОГО",
		},
	}
}

func TestRenderReceipt_Smoke(t *testing.T) {
	requireFont(t)

	data, err := RenderReceipt(sampleReceipt())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if len(data) < 500 {
		t.Errorf("Expected a non-trivial PDF, got %d bytes", len(data))
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Errorf("Expected PDF header, got %q", data[:8])
	}
}

func TestMeasureReceipt_GrowsWithItems(t *testing.T) {
	requireFont(t)

	small := sampleReceipt()
	large := sampleReceipt()
	for i := 0; i < 20; i++ {
		large.Items = append(large.Items, ReceiptItem{Name: "Позиция", Quantity: 1, Price: 100, Total: 100})
	}

	smallH, err := measureReceipt(small)
	if err != nil {
		t.Fatalf("Measure failed: %v", err)
	}
	largeH, err := measureReceipt(large)
	if err != nil {
		t.Fatalf("Measure failed: %v", err)
	}

	if largeH <= smallH {
		t.Errorf("Expected height to grow with item count: %.1f <= %.1f", largeH, smallH)
	}
}

func TestRenderReceipt_NoQRPayload(t *testing.T) {
	requireFont(t)

	req := sampleReceipt()
	req.QRPayload = ""

	data, err := RenderReceipt(req)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	withQR, err := RenderReceipt(sampleReceipt())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if len(data) >= len(withQR) {
		t.Errorf("Expected QR-less receipt to be smaller: %d >= %d", len(data), len(withQR))
	}
}

func TestRenderReceipt_Idempotent(t *testing.T) {
	requireFont(t)

	first, err := RenderReceipt(sampleReceipt())
	if err != nil {
		t.Fatalf("First render failed: %v", err)
	}
	second, err := RenderReceipt(sampleReceipt())
	if err != nil {
		t.Fatalf("Second render failed: %v", err)
	}

	if !bytes.Equal(first, second) {
		t.Error("Expected byte-for-byte identical output for identical input")
	}
}
