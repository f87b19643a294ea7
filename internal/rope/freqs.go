package rope

import (
	"fmt"
	"math"
	"time"

	"github.com/23skdu/longbow-rotary/internal/metrics"
)

// DefaultBase is the geometric frequency base from the RoPE paper.
const DefaultBase = 10000.0

// Table is a 2D row-major float32 table [rows, cols] with an explicit row
// stride so a truncated table can stay a view over the original data.
type Table struct {
	data   []float32
	rows   int
	cols   int
	stride int
}

func NewTable(rows, cols int) *Table {
	return &Table{
		data:   make([]float32, rows*cols),
		rows:   rows,
		cols:   cols,
		stride: cols,
	}
}

func (t *Table) Rows() int {
	return t.rows
}

func (t *Table) Cols() int {
	return t.cols
}

func (t *Table) Stride() int {
	return t.stride
}

func (t *Table) Data() []float32 {
	return t.data
}

func (t *Table) At(r, c int) float32 {
	return t.data[r*t.stride+c]
}

func (t *Table) row(r int) []float32 {
	off := r * t.stride
	return t.data[off : off+t.cols]
}

// Truncate returns a view over the first rows rows. The underlying data is
// shared, never recomputed.
func (t *Table) Truncate(rows int) (*Table, error) {
	if rows <= 0 || rows > t.rows {
		return nil, fmt.Errorf("%w: cannot truncate table with %d rows to %d", ErrInvalidArgument, t.rows, rows)
	}
	return &Table{data: t.data, rows: rows, cols: t.cols, stride: t.stride}, nil
}

// BuildFrequencySchedule computes theta_k = base^(-2k/dim) for
// k in [0, dim/2). Dim must be a positive even integer.
func BuildFrequencySchedule(dim int, base float64) ([]float32, error) {
	if err := validateDim(dim); err != nil {
		return nil, err
	}
	half := dim / 2
	theta := make([]float32, half)
	for k := 0; k < half; k++ {
		theta[k] = float32(math.Pow(base, -2.0*float64(k)/float64(dim)))
	}
	return theta, nil
}

// BuildAngles computes the [seqLen, dim/2] angle table
// angle(pos, k) = pos * base^(-2k/dim), the outer product of positions and
// the frequency schedule. Angles are computed in float64 before narrowing.
func BuildAngles(dim, seqLen int, base float64) (*Table, error) {
	if err := validateDim(dim); err != nil {
		return nil, err
	}
	if seqLen <= 0 {
		return nil, fmt.Errorf("%w: seq_len must be positive, got %d", ErrInvalidArgument, seqLen)
	}
	half := dim / 2
	angles := NewTable(seqLen, half)
	for k := 0; k < half; k++ {
		theta := math.Pow(base, -2.0*float64(k)/float64(dim))
		for pos := 0; pos < seqLen; pos++ {
			angles.data[pos*angles.stride+k] = float32(float64(pos) * theta)
		}
	}
	return angles, nil
}

// BuildCosSinTables derives the cos and sin tables of shape [seqLen, dim/2].
// Trig is evaluated in float64 so rotation error stays small at large
// positions, then narrowed to float32 storage.
func BuildCosSinTables(dim, seqLen int, base float64) (*Table, *Table, error) {
	start := time.Now()
	if err := validateDim(dim); err != nil {
		return nil, nil, err
	}
	if seqLen <= 0 {
		return nil, nil, fmt.Errorf("%w: seq_len must be positive, got %d", ErrInvalidArgument, seqLen)
	}
	half := dim / 2
	cos := NewTable(seqLen, half)
	sin := NewTable(seqLen, half)
	for k := 0; k < half; k++ {
		theta := math.Pow(base, -2.0*float64(k)/float64(dim))
		for pos := 0; pos < seqLen; pos++ {
			angle := float64(pos) * theta
			cos.data[pos*cos.stride+k] = float32(math.Cos(angle))
			sin.data[pos*sin.stride+k] = float32(math.Sin(angle))
		}
	}
	metrics.RecordTableBuild(seqLen, time.Since(start))
	return cos, sin, nil
}

// cosSinFromAngles converts a precomputed angle table into cos/sin tables.
// Used by RotateFreqs after truncating the angle table to the live seq_len.
func cosSinFromAngles(angles *Table) (*Table, *Table) {
	cos := NewTable(angles.rows, angles.cols)
	sin := NewTable(angles.rows, angles.cols)
	for r := 0; r < angles.rows; r++ {
		src := angles.row(r)
		dstC := cos.row(r)
		dstS := sin.row(r)
		for c, a := range src {
			dstC[c] = float32(math.Cos(float64(a)))
			dstS[c] = float32(math.Sin(float64(a)))
		}
	}
	return cos, sin
}

func validateDim(dim int) error {
	if dim <= 0 {
		return fmt.Errorf("%w: dim must be positive, got %d", ErrInvalidArgument, dim)
	}
	if dim%2 != 0 {
		return fmt.Errorf("%w: dim must be even for pair rotation, got %d", ErrInvalidArgument, dim)
	}
	return nil
}
