package rope

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/apache/arrow-go/v18/arrow/float16"

	"github.com/23skdu/longbow-rotary/internal/metrics"
)

// Context carries the execution parameters for kernel dispatch. It replaces
// ambient device state: callers pass it explicitly.
type Context struct {
	numThreads int
}

func NewContext() *Context {
	return &Context{numThreads: runtime.NumCPU()}
}

func (c *Context) SetNumThreads(n int) {
	if n > 0 {
		c.numThreads = n
	}
}

func (c *Context) NumThreads() int {
	return c.numThreads
}

// minParallelUnits is the grid size below which goroutine fan-out costs more
// than it saves and the kernel runs inline.
const minParallelUnits = 64

// Rotate applies rotary position embedding to every (position, batch, head)
// of the activation tensor, reading precomputed cos/sin tables, and returns
// a freshly allocated output tensor in the caller's layout. The input and
// the tables are never mutated.
func Rotate(ctx *Context, t *Tensor, cos, sin *Table, format string) (*Tensor, error) {
	view, err := toNative(t, format)
	if err != nil {
		return nil, err
	}
	out, err := rotateNative(ctx, view, cos, sin)
	if err != nil {
		return nil, err
	}
	return fromNative(out, format), nil
}

// RotateFreqs is the angle-table entry point: freqs holds raw rotation
// angles [>=seq_len, dim/2]. The table is truncated to the live sequence
// length and cos/sin are derived from it, matching the host-side wrapper
// most callers already have.
func RotateFreqs(ctx *Context, t *Tensor, freqs *Table, format string) (*Tensor, error) {
	view, err := toNative(t, format)
	if err != nil {
		return nil, err
	}
	if freqs == nil {
		metrics.RecordValidationError("rotate", "nil_table")
		return nil, fmt.Errorf("%w: freqs table is nil", ErrInvalidArgument)
	}
	seqLen := view.dims[0]
	if freqs.rows < seqLen {
		metrics.RecordValidationError("rotate", "table_too_short")
		return nil, fmt.Errorf("%w: freqs table has %d rows, need >= %d",
			ErrInvalidArgument, freqs.rows, seqLen)
	}
	trunc, err := freqs.Truncate(seqLen)
	if err != nil {
		return nil, err
	}
	cos, sin := cosSinFromAngles(trunc)
	out, err := rotateNative(ctx, view, cos, sin)
	if err != nil {
		return nil, err
	}
	return fromNative(out, format), nil
}

// rotateNative validates a sequence-major view, allocates the output and
// dispatches the (seq_len x head_num) grid.
func rotateNative(ctx *Context, in *Tensor, cos, sin *Table) (*Tensor, error) {
	if err := validateRotate(in, cos, sin); err != nil {
		return nil, err
	}
	start := time.Now()
	out := newTensorLike(in, in.dims)

	seqLen, batchNum, headNum, headDim := in.dims[0], in.dims[1], in.dims[2], in.dims[3]
	half := headDim / 2
	blockWidth := nextPow2(half)
	units := seqLen * headNum

	// One unit = one (s, h) pair. Units share no state and write disjoint
	// output ranges, so chunks can run in any order.
	run := func(uStart, uEnd int) {
		for u := uStart; u < uEnd; u++ {
			s := u / headNum
			h := u % headNum
			cosRow := cos.data[s*cos.stride : s*cos.stride+half]
			sinRow := sin.data[s*sin.stride : s*sin.stride+half]
			for b := 0; b < batchNum; b++ {
				inOff := s*in.strides[0] + b*in.strides[1] + h*headDim
				outOff := s*out.strides[0] + b*out.strides[1] + h*headDim
				if in.dtype == F16 {
					rotateLanesF16(in.f16, out.f16, inOff, outOff, cosRow, sinRow, half, blockWidth)
				} else {
					rotateLanesF32(in.f32, out.f32, inOff, outOff, cosRow, sinRow, half, blockWidth)
				}
			}
		}
	}

	parallelism := ctx.numThreads
	if parallelism <= 1 || units < minParallelUnits {
		run(0, units)
	} else {
		chunk := (units + parallelism - 1) / parallelism
		var wg sync.WaitGroup
		for u := 0; u < units; u += chunk {
			end := u + chunk
			if end > units {
				end = units
			}
			wg.Add(1)
			go func(uStart, uEnd int) {
				defer wg.Done()
				run(uStart, uEnd)
			}(u, end)
		}
		wg.Wait()
	}

	metrics.RecordKernelDuration("rope_"+in.dtype.String(), time.Since(start))
	metrics.RecordRotation(seqLen * batchNum * headNum)
	return out, nil
}

// rotateLanesF32 rotates one (s, b, h) feature block. Lanes at or beyond
// dim/2 are masked: nothing is loaded and nothing is stored for them, so the
// power-of-two block width never reaches outside the tensor.
func rotateLanesF32(in, out []float32, inOff, outOff int, cosRow, sinRow []float32, half, blockWidth int) {
	for lane := 0; lane < blockWidth; lane++ {
		if lane >= half {
			continue
		}
		c := cosRow[lane]
		s := sinRow[lane]
		x1 := in[inOff+lane]
		x2 := in[inOff+half+lane]
		out[outOff+lane] = x1*c - x2*s
		out[outOff+half+lane] = x1*s + x2*c
	}
}

// rotateLanesF16 is the float16 variant: loads widen to float32, the rotated
// pair narrows back per element on store.
func rotateLanesF16(in, out []float16.Num, inOff, outOff int, cosRow, sinRow []float32, half, blockWidth int) {
	for lane := 0; lane < blockWidth; lane++ {
		if lane >= half {
			continue
		}
		c := cosRow[lane]
		s := sinRow[lane]
		x1 := in[inOff+lane].Float32()
		x2 := in[inOff+half+lane].Float32()
		out[outOff+lane] = float16.New(x1*c - x2*s)
		out[outOff+half+lane] = float16.New(x1*s + x2*c)
	}
}
