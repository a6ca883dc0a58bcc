package printformat

import "fmt"

var validTemplates = []string{"3x8", "2x5", "roll"}

// ValidateLabelBatch validates a label batch document.
func ValidateLabelBatch(b *LabelBatch) error {
	if b.Version == "" {
		return fmt.Errorf("version is required")
	}
	if b.Version != Version {
		return fmt.Errorf("unsupported version: %s (expected %s)", b.Version, Version)
	}

	valid := false
	for _, t := range validTemplates {
		if b.Template == t {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid template: %q (must be 3x8, 2x5, or roll)", b.Template)
	}

	if len(b.Labels) == 0 {
		return fmt.Errorf("at least one label is required")
	}
	if len(b.Labels) > MaxLabels {
		return fmt.Errorf("too many labels: %d (max %d)", len(b.Labels), MaxLabels)
	}

	for i, l := range b.Labels {
		if l.Name == "" {
			return fmt.Errorf("label[%d]: name is required", i)
		}
		if l.Price != nil && *l.Price < 0 {
			return fmt.Errorf("label[%d]: price must not be negative", i)
		}
	}

	if b.Calibration != nil {
		if err := validateCalibration(b.Calibration); err != nil {
			return err
		}
	}

	return nil
}

func validateCalibration(c *Calibration) error {
	if c.WidthMm < 0 || c.HeightMm < 0 || c.GapMm < 0 {
		return fmt.Errorf("calibration dimensions must not be negative")
	}
	if c.WidthMm > 300 || c.HeightMm > 300 {
		return fmt.Errorf("calibration dimensions out of range (max 300mm)")
	}
	return nil
}

// ValidateReceiptJob validates a receipt job document.
func ValidateReceiptJob(j *ReceiptJob) error {
	if j.Version == "" {
		return fmt.Errorf("version is required")
	}
	if j.Version != Version {
		return fmt.Errorf("unsupported version: %s (expected %s)", j.Version, Version)
	}

	if j.StoreName == "" {
		return fmt.Errorf("store_name is required")
	}
	if len(j.Items) == 0 {
		return fmt.Errorf("at least one item is required")
	}

	for i, item := range j.Items {
		if item.Name == "" {
			return fmt.Errorf("item[%d]: name is required", i)
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("item[%d]: quantity must be positive", i)
		}
	}

	if j.Total < 0 {
		return fmt.Errorf("total must not be negative")
	}
	if j.Strings.Total == "" {
		return fmt.Errorf("strings.total is required")
	}

	return nil
}
