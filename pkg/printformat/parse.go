package printformat

import (
	"encoding/json"
	"fmt"
	"os"
)

// ParseLabelBatch parses and validates a label batch document.
func ParseLabelBatch(data []byte) (*LabelBatch, error) {
	var batch LabelBatch
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("failed to parse label batch: %w", err)
	}

	if err := ValidateLabelBatch(&batch); err != nil {
		return nil, err
	}

	return &batch, nil
}

// ParseLabelBatchFile parses a label batch document from disk.
func ParseLabelBatchFile(path string) (*LabelBatch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read label batch file: %w", err)
	}

	return ParseLabelBatch(data)
}

// ParseReceiptJob parses and validates a receipt job document.
func ParseReceiptJob(data []byte) (*ReceiptJob, error) {
	var job ReceiptJob
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("failed to parse receipt job: %w", err)
	}

	if err := ValidateReceiptJob(&job); err != nil {
		return nil, err
	}

	return &job, nil
}

// ParseReceiptJobFile parses a receipt job document from disk.
func ParseReceiptJobFile(path string) (*ReceiptJob, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read receipt job file: %w", err)
	}

	return ParseReceiptJob(data)
}
