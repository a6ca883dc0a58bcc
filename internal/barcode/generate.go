package barcode

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"time"
)

// Prefixes reserved for internally generated values. "29" sits in the
// EAN-13 range reserved for in-store numbering; "BZ" marks generated
// Code 128 values.
const (
	ean13GeneratedPrefix   = "29"
	code128GeneratedPrefix = "BZ"
)

const defaultMaxAttempts = 500

// ErrGenerationExhausted is returned when no free candidate was found
// within the attempt budget.
var ErrGenerationExhausted = errors.New("barcode generation attempts exhausted")

// TakenFunc reports whether a candidate barcode is already in use,
// typically backed by a store lookup.
type TakenFunc func(ctx context.Context, value string) (bool, error)

// GenerateOptions configures ResolveUniqueGenerated.
type GenerateOptions struct {
	OrganizationID string
	Mode           Symbology
	IsTaken        TakenFunc
	MaxAttempts    int     // default 500
	StartSequence  *uint64 // nil: derived from the current time
}

// BuildGeneratedCandidate deterministically builds a barcode candidate from
// an organization identifier and a sequence number. The organization
// contributes a 4-digit fingerprint derived from its hash, so candidates
// from different organizations rarely collide.
func BuildGeneratedCandidate(organizationID string, mode Symbology, sequence uint64) (string, error) {
	fp := organizationFingerprint(organizationID)

	switch mode {
	case SymbologyEAN13:
		payload := fmt.Sprintf("%s%s%06d", ean13GeneratedPrefix, fp, sequence%1_000_000)
		check, err := ComputeEAN13CheckDigit(payload)
		if err != nil {
			return "", err
		}
		return payload + check, nil
	case SymbologyCode128:
		return fmt.Sprintf("%s%s%08d", code128GeneratedPrefix, fp, sequence%100_000_000), nil
	default:
		return "", fmt.Errorf("unknown generation mode: %s", mode)
	}
}

// ResolveUniqueGenerated tries consecutive sequence values until the
// caller's predicate reports a candidate as free. There is no locking: the
// caller's check and subsequent persist race over a narrow window, which is
// acceptable for a low-contention, human-triggered operation.
func ResolveUniqueGenerated(ctx context.Context, opts GenerateOptions) (string, error) {
	if opts.IsTaken == nil {
		return "", errors.New("IsTaken predicate is required")
	}

	maxAttempts := opts.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}

	sequence := uint64(time.Now().Unix())
	if opts.StartSequence != nil {
		sequence = *opts.StartSequence
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		candidate, err := BuildGeneratedCandidate(opts.OrganizationID, opts.Mode, sequence+uint64(attempt))
		if err != nil {
			return "", err
		}

		taken, err := opts.IsTaken(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("uniqueness check failed: %w", err)
		}
		if !taken {
			return candidate, nil
		}
	}

	return "", ErrGenerationExhausted
}

// organizationFingerprint hashes the organization identifier and reduces
// the first two digest bytes to 4 decimal digits, one per nibble.
func organizationFingerprint(organizationID string) string {
	digest := sha256.Sum256([]byte(organizationID))

	digits := make([]byte, 4)
	digits[0] = '0' + (digest[0]>>4)%10
	digits[1] = '0' + (digest[0]&0x0f)%10
	digits[2] = '0' + (digest[1]>>4)%10
	digits[3] = '0' + (digest[1]&0x0f)%10
	return string(digits)
}
