// Package ledger persists barcodes already issued to organizations, so
// generated candidates can be checked for uniqueness without a database.
package ledger

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// Ledger is a file-backed set of issued barcodes, keyed by organization.
type Ledger struct {
	filePath string
	data     map[string]map[string]*Entry
	mu       sync.RWMutex
}

// Entry records one issued barcode.
type Entry struct {
	Value    string    `json:"value"`
	Mode     string    `json:"mode"` // EAN13 or CODE128
	IssuedAt time.Time `json:"issued_at"`
}

// New creates a Ledger backed by the given file. A missing file is fine;
// it is created on first save.
func New(filePath string) (*Ledger, error) {
	l := &Ledger{
		filePath: filePath,
		data:     make(map[string]map[string]*Entry),
	}

	if err := l.load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load ledger: %w", err)
		}
	}

	return l, nil
}

// IsTaken reports whether the barcode was already issued to the
// organization.
func (l *Ledger) IsTaken(organizationID, value string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	org, exists := l.data[organizationID]
	if !exists {
		return false
	}
	_, taken := org[value]
	return taken
}

// Record marks a barcode as issued and saves to disk.
func (l *Ledger) Record(organizationID, value, mode string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	org, exists := l.data[organizationID]
	if !exists {
		org = make(map[string]*Entry)
		l.data[organizationID] = org
	}

	org[value] = &Entry{
		Value:    value,
		Mode:     mode,
		IssuedAt: time.Now().UTC(),
	}

	return l.save()
}

// Issued returns copies of all entries for an organization.
func (l *Ledger) Issued(organizationID string) []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	org := l.data[organizationID]
	result := make([]Entry, 0, len(org))
	for _, e := range org {
		result = append(result, *e)
	}
	return result
}

func (l *Ledger) load() error {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return err
	}

	return json.Unmarshal(data, &l.data)
}

func (l *Ledger) save() error {
	data, err := json.MarshalIndent(l.data, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(l.filePath, data, 0644)
}
