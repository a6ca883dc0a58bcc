package ledger

import (
	"os"
	"path/filepath"
	"testing"
)

func tempLedger(t *testing.T) *Ledger {
	t.Helper()

	path := filepath.Join(t.TempDir(), "ledger.json")
	l, err := New(path)
	if err != nil {
		t.Fatalf("Failed to create ledger: %v", err)
	}
	return l
}

func TestNew_MissingFileOK(t *testing.T) {
	l := tempLedger(t)
	if l == nil {
		t.Fatal("Ledger is nil")
	}
}

func TestRecordAndIsTaken(t *testing.T) {
	l := tempLedger(t)

	if l.IsTaken("org-1", "2931950001234") {
		t.Error("Expected fresh barcode to be free")
	}

	if err := l.Record("org-1", "2931950001234", "EAN13"); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	if !l.IsTaken("org-1", "2931950001234") {
		t.Error("Expected recorded barcode to be taken")
	}
	if l.IsTaken("org-2", "2931950001234") {
		t.Error("Expected other organization to be unaffected")
	}
}

func TestLedger_PersistsAcrossReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.json")

	first, err := New(path)
	if err != nil {
		t.Fatalf("Failed to create ledger: %v", err)
	}
	if err := first.Record("org-1", "BZ527000000007", "CODE128"); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	second, err := New(path)
	if err != nil {
		t.Fatalf("Failed to reload ledger: %v", err)
	}
	if !second.IsTaken("org-1", "BZ527000000007") {
		t.Error("Expected entry to survive reload")
	}
}

func TestLedger_CorruptFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	if _, err := New(path); err == nil {
		t.Error("Expected error for corrupt ledger file")
	}
}

func TestIssued_ReturnsCopies(t *testing.T) {
	l := tempLedger(t)

	_ = l.Record("org-1", "A", "CODE128")
	_ = l.Record("org-1", "B", "CODE128")

	entries := l.Issued("org-1")
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}

	entries[0].Value = "mutated"
	for _, e := range l.Issued("org-1") {
		if e.Value == "mutated" {
			t.Error("Expected internal state to be isolated from returned slice")
		}
	}
}
