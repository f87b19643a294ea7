package rope

import (
	"errors"
	"fmt"
	"math"

	"github.com/23skdu/longbow-rotary/internal/metrics"
)

// ErrInvalidArgument is wrapped by every argument rejection in this package;
// callers test with errors.Is.
var ErrInvalidArgument = errors.New("invalid argument")

// validateRotate checks a sequence-major view and its cos/sin tables before
// any dispatch. Table rows shorter than seq_len are rejected rather than
// wrapped cyclically.
func validateRotate(t *Tensor, cos, sin *Table) error {
	dims := t.dims
	seqLen, batchNum, headNum, headDim := dims[0], dims[1], dims[2], dims[3]
	if seqLen <= 0 || batchNum <= 0 || headNum <= 0 {
		metrics.RecordValidationError("rotate", "non_positive_dims")
		return fmt.Errorf("%w: non-positive tensor dims [%d,%d,%d,%d]",
			ErrInvalidArgument, seqLen, batchNum, headNum, headDim)
	}
	if err := validateDim(headDim); err != nil {
		metrics.RecordValidationError("rotate", "odd_head_dim")
		return err
	}
	if !t.innerContiguous() {
		metrics.RecordValidationError("rotate", "non_contiguous_inner")
		return fmt.Errorf("%w: head and feature axes must be contiguous, strides %v",
			ErrInvalidArgument, t.strides)
	}
	if err := validateTable("cos", cos, seqLen, headDim/2); err != nil {
		return err
	}
	return validateTable("sin", sin, seqLen, headDim/2)
}

func validateTable(name string, tab *Table, seqLen, half int) error {
	if tab == nil {
		metrics.RecordValidationError("rotate", "nil_table")
		return fmt.Errorf("%w: %s table is nil", ErrInvalidArgument, name)
	}
	if tab.rows < seqLen {
		metrics.RecordValidationError("rotate", "table_too_short")
		return fmt.Errorf("%w: %s table has %d rows, need >= %d (cyclic reuse is not supported)",
			ErrInvalidArgument, name, tab.rows, seqLen)
	}
	if tab.cols < half {
		metrics.RecordValidationError("rotate", "table_too_narrow")
		return fmt.Errorf("%w: %s table has %d cols, need >= %d",
			ErrInvalidArgument, name, tab.cols, half)
	}
	return nil
}

// nextPow2 returns the smallest power of two >= n. The dispatch block width
// over feature pairs, with lanes >= dim/2 masked out.
func nextPow2(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// CheckNumericalStability counts NaN and Inf values in a buffer.
func CheckNumericalStability(data []float32) (nanCount, infCount int) {
	for _, v := range data {
		if math.IsNaN(float64(v)) {
			nanCount++
		}
		if math.IsInf(float64(v), 0) {
			infCount++
		}
	}
	return
}

// ScanForInstability checks a tensor for NaN/Inf and records the counts.
func ScanForInstability(t *Tensor, name string) (nanCount, infCount int) {
	if t.dtype == F16 {
		for _, v := range t.f16 {
			f := v.Float32()
			if math.IsNaN(float64(f)) {
				nanCount++
			}
			if math.IsInf(float64(f), 0) {
				infCount++
			}
		}
	} else {
		nanCount, infCount = CheckNumericalStability(t.f32)
	}
	if nanCount > 0 || infCount > 0 {
		metrics.RecordNumericalInstability(name, nanCount, infCount)
	}
	return
}
