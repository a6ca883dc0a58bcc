package barcode

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func seqPtr(v uint64) *uint64 { return &v }

func TestBuildGeneratedCandidate_Deterministic(t *testing.T) {
	a, err := BuildGeneratedCandidate("org-42", SymbologyEAN13, 123)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	b, err := BuildGeneratedCandidate("org-42", SymbologyEAN13, 123)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if a != b {
		t.Errorf("Expected identical candidates for identical inputs: %s != %s", a, b)
	}
}

func TestBuildGeneratedCandidate_EAN13Valid(t *testing.T) {
	for seq := uint64(0); seq < 50; seq++ {
		candidate, err := BuildGeneratedCandidate("org-42", SymbologyEAN13, seq)
		if err != nil {
			t.Fatalf("seq %d: %v", seq, err)
		}
		if len(candidate) != 13 {
			t.Fatalf("seq %d: expected 13 digits, got %q", seq, candidate)
		}
		if !strings.HasPrefix(candidate, "29") {
			t.Errorf("seq %d: expected generated prefix 29, got %q", seq, candidate)
		}
		if !IsValidEAN13(candidate) {
			t.Errorf("seq %d: candidate %s has invalid check digit", seq, candidate)
		}
	}
}

func TestBuildGeneratedCandidate_Code128Shape(t *testing.T) {
	candidate, err := BuildGeneratedCandidate("org-42", SymbologyCode128, 7)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !strings.HasPrefix(candidate, "BZ") {
		t.Errorf("Expected BZ prefix, got %q", candidate)
	}
	if len(candidate) != 2+4+8 {
		t.Errorf("Expected prefix + 4-digit fingerprint + 8-digit sequence, got %q", candidate)
	}
}

func TestBuildGeneratedCandidate_DifferentOrgsDiffer(t *testing.T) {
	a, _ := BuildGeneratedCandidate("org-a", SymbologyCode128, 1)
	b, _ := BuildGeneratedCandidate("org-b", SymbologyCode128, 1)

	if a == b {
		t.Errorf("Expected different fingerprints for different organizations, both %s", a)
	}
}

func TestResolveUniqueGenerated_FirstFree(t *testing.T) {
	got, err := ResolveUniqueGenerated(context.Background(), GenerateOptions{
		OrganizationID: "org-42",
		Mode:           SymbologyEAN13,
		StartSequence:  seqPtr(100),
		IsTaken: func(ctx context.Context, value string) (bool, error) {
			return false, nil
		},
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	want, _ := BuildGeneratedCandidate("org-42", SymbologyEAN13, 100)
	if got != want {
		t.Errorf("Expected first candidate %s, got %s", want, got)
	}
}

func TestResolveUniqueGenerated_SkipsTaken(t *testing.T) {
	taken := map[string]bool{}
	for seq := uint64(100); seq < 103; seq++ {
		c, _ := BuildGeneratedCandidate("org-42", SymbologyEAN13, seq)
		taken[c] = true
	}

	got, err := ResolveUniqueGenerated(context.Background(), GenerateOptions{
		OrganizationID: "org-42",
		Mode:           SymbologyEAN13,
		StartSequence:  seqPtr(100),
		IsTaken: func(ctx context.Context, value string) (bool, error) {
			return taken[value], nil
		},
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	want, _ := BuildGeneratedCandidate("org-42", SymbologyEAN13, 103)
	if got != want {
		t.Errorf("Expected candidate for sequence 103, got %s", got)
	}
}

func TestResolveUniqueGenerated_ExplicitZeroStart(t *testing.T) {
	got, err := ResolveUniqueGenerated(context.Background(), GenerateOptions{
		OrganizationID: "org-42",
		Mode:           SymbologyEAN13,
		StartSequence:  seqPtr(0),
		IsTaken: func(ctx context.Context, value string) (bool, error) {
			return false, nil
		},
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	want, _ := BuildGeneratedCandidate("org-42", SymbologyEAN13, 0)
	if got != want {
		t.Errorf("Expected the sequence-0 candidate %s, got %s", want, got)
	}
}

func TestResolveUniqueGenerated_Exhausted(t *testing.T) {
	calls := 0

	_, err := ResolveUniqueGenerated(context.Background(), GenerateOptions{
		OrganizationID: "org-42",
		Mode:           SymbologyCode128,
		MaxAttempts:    25,
		StartSequence:  seqPtr(1),
		IsTaken: func(ctx context.Context, value string) (bool, error) {
			calls++
			return true, nil
		},
	})

	if !errors.Is(err, ErrGenerationExhausted) {
		t.Fatalf("Expected ErrGenerationExhausted, got %v", err)
	}
	if calls != 25 {
		t.Errorf("Expected exactly 25 predicate calls, got %d", calls)
	}
}

func TestResolveUniqueGenerated_PredicateError(t *testing.T) {
	boom := errors.New("store unavailable")

	_, err := ResolveUniqueGenerated(context.Background(), GenerateOptions{
		OrganizationID: "org-42",
		Mode:           SymbologyCode128,
		StartSequence:  seqPtr(1),
		IsTaken: func(ctx context.Context, value string) (bool, error) {
			return false, boom
		},
	})

	if !errors.Is(err, boom) {
		t.Errorf("Expected predicate error to propagate, got %v", err)
	}
}
