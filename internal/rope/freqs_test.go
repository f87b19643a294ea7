package rope

import (
	"errors"
	"math"
	"testing"
)

func TestBuildFrequencySchedule(t *testing.T) {
	theta, err := BuildFrequencySchedule(4, 10000.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(theta) != 2 {
		t.Fatalf("expected 2 frequencies, got %d", len(theta))
	}
	// k=0: base^0 = 1, k=1: base^(-2/4) = 1/100
	if theta[0] != 1.0 {
		t.Errorf("theta[0] = %v, want 1.0", theta[0])
	}
	if math.Abs(float64(theta[1])-0.01) > 1e-9 {
		t.Errorf("theta[1] = %v, want 0.01", theta[1])
	}
}

func TestBuildFrequencyScheduleOddDim(t *testing.T) {
	if _, err := BuildFrequencySchedule(5, 10000.0); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for odd dim, got %v", err)
	}
	if _, err := BuildFrequencySchedule(0, 10000.0); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for zero dim, got %v", err)
	}
}

func TestBuildCosSinTables(t *testing.T) {
	cos, sin, err := BuildCosSinTables(4, 2, 10000.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cos.Rows() != 2 || cos.Cols() != 2 {
		t.Fatalf("cos table shape [%d,%d], want [2,2]", cos.Rows(), cos.Cols())
	}

	// Position 0 rotates by nothing: all cos 1, all sin 0.
	for k := 0; k < 2; k++ {
		if cos.At(0, k) != 1.0 {
			t.Errorf("cos[0,%d] = %v, want 1.0", k, cos.At(0, k))
		}
		if sin.At(0, k) != 0.0 {
			t.Errorf("sin[0,%d] = %v, want 0.0", k, sin.At(0, k))
		}
	}

	// angle(1, 0) = 1 * 10000^0 = exactly 1 radian.
	if math.Abs(float64(cos.At(1, 0))-math.Cos(1)) > 1e-6 {
		t.Errorf("cos[1,0] = %v, want cos(1) = %v", cos.At(1, 0), math.Cos(1))
	}
	if math.Abs(float64(sin.At(1, 0))-math.Sin(1)) > 1e-6 {
		t.Errorf("sin[1,0] = %v, want sin(1) = %v", sin.At(1, 0), math.Sin(1))
	}
}

func TestBuildCosSinTablesErrors(t *testing.T) {
	tests := []struct {
		name   string
		dim    int
		seqLen int
	}{
		{"odd dim", 3, 8},
		{"zero dim", 0, 8},
		{"negative dim", -4, 8},
		{"zero seq_len", 4, 0},
		{"negative seq_len", 4, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := BuildCosSinTables(tt.dim, tt.seqLen, 10000.0)
			if !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, got %v", err)
			}
		})
	}
}

func TestAnglesMatchCosSinTables(t *testing.T) {
	// The complex-polar construction and the direct cos/sin construction
	// must agree: derive cos/sin from the angle table and compare against
	// BuildCosSinTables.
	dim, seqLen := 8, 16
	angles, err := BuildAngles(dim, seqLen, 10000.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cosDirect, sinDirect, err := BuildCosSinTables(dim, seqLen, 10000.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cosDerived, sinDerived := cosSinFromAngles(angles)
	for r := 0; r < seqLen; r++ {
		for c := 0; c < dim/2; c++ {
			if math.Abs(float64(cosDirect.At(r, c)-cosDerived.At(r, c))) > 1e-5 {
				t.Fatalf("cos mismatch at [%d,%d]: %v vs %v", r, c, cosDirect.At(r, c), cosDerived.At(r, c))
			}
			if math.Abs(float64(sinDirect.At(r, c)-sinDerived.At(r, c))) > 1e-5 {
				t.Fatalf("sin mismatch at [%d,%d]: %v vs %v", r, c, sinDirect.At(r, c), sinDerived.At(r, c))
			}
		}
	}
}

func TestTableTruncate(t *testing.T) {
	cos, _, err := BuildCosSinTables(4, 8, 10000.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	short, err := cos.Truncate(3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if short.Rows() != 3 {
		t.Errorf("truncated rows = %d, want 3", short.Rows())
	}
	// View over the same data, not a recomputation.
	if &short.Data()[0] != &cos.Data()[0] {
		t.Error("truncated table does not share backing data")
	}
	for r := 0; r < 3; r++ {
		for c := 0; c < 2; c++ {
			if short.At(r, c) != cos.At(r, c) {
				t.Errorf("truncated[%d,%d] = %v, want %v", r, c, short.At(r, c), cos.At(r, c))
			}
		}
	}

	if _, err := cos.Truncate(9); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument truncating 8 rows to 9, got %v", err)
	}
	if _, err := cos.Truncate(0); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument truncating to 0 rows, got %v", err)
	}
}
