package rope

import (
	"github.com/apache/arrow-go/v18/arrow/float16"
)

type DType int

const (
	F32 DType = iota
	F16
)

func (d DType) String() string {
	if d == F16 {
		return "f16"
	}
	return "f32"
}

// Tensor is a 4D strided view over activation data with logical axes
// (seq, batch, head, dim). Axes 0 and 1 may carry arbitrary strides so a
// tensor can be a transposed view; axes 2 and 3 are always contiguous.
type Tensor struct {
	f32     []float32
	f16     []float16.Num
	dtype   DType
	dims    [4]int
	strides [4]int
}

func contiguousStrides(dims [4]int) [4]int {
	return [4]int{
		dims[1] * dims[2] * dims[3],
		dims[2] * dims[3],
		dims[3],
		1,
	}
}

// NewTensorF32 allocates a zeroed contiguous float32 tensor.
func NewTensorF32(seqLen, batchNum, headNum, headDim int) *Tensor {
	dims := [4]int{seqLen, batchNum, headNum, headDim}
	return &Tensor{
		f32:     make([]float32, seqLen*batchNum*headNum*headDim),
		dtype:   F32,
		dims:    dims,
		strides: contiguousStrides(dims),
	}
}

// NewTensorF16 allocates a zeroed contiguous float16 tensor.
func NewTensorF16(seqLen, batchNum, headNum, headDim int) *Tensor {
	dims := [4]int{seqLen, batchNum, headNum, headDim}
	return &Tensor{
		f16:     make([]float16.Num, seqLen*batchNum*headNum*headDim),
		dtype:   F16,
		dims:    dims,
		strides: contiguousStrides(dims),
	}
}

// TensorFromF32 wraps caller-owned data as a contiguous tensor view.
// The slice is not copied; len(data) must equal the product of the dims.
func TensorFromF32(data []float32, seqLen, batchNum, headNum, headDim int) *Tensor {
	dims := [4]int{seqLen, batchNum, headNum, headDim}
	return &Tensor{
		f32:     data,
		dtype:   F32,
		dims:    dims,
		strides: contiguousStrides(dims),
	}
}

// TensorFromF16 wraps caller-owned float16 data as a contiguous tensor view.
func TensorFromF16(data []float16.Num, seqLen, batchNum, headNum, headDim int) *Tensor {
	dims := [4]int{seqLen, batchNum, headNum, headDim}
	return &Tensor{
		f16:     data,
		dtype:   F16,
		dims:    dims,
		strides: contiguousStrides(dims),
	}
}

func newTensorLike(t *Tensor, dims [4]int) *Tensor {
	if t.dtype == F16 {
		return NewTensorF16(dims[0], dims[1], dims[2], dims[3])
	}
	return NewTensorF32(dims[0], dims[1], dims[2], dims[3])
}

func (t *Tensor) DType() DType {
	return t.dtype
}

func (t *Tensor) Dims() [4]int {
	return t.dims
}

func (t *Tensor) Strides() [4]int {
	return t.strides
}

func (t *Tensor) DataF32() []float32 {
	return t.f32
}

func (t *Tensor) DataF16() []float16.Num {
	return t.f16
}

func (t *Tensor) NumElements() int {
	n := 1
	for _, d := range t.dims {
		n *= d
	}
	return n
}

func (t *Tensor) index(s, b, h, d int) int {
	return s*t.strides[0] + b*t.strides[1] + h*t.strides[2] + d*t.strides[3]
}

// At reads one element as float32 regardless of dtype. Convenience for
// tests and harnesses, not the kernel hot path.
func (t *Tensor) At(s, b, h, d int) float32 {
	i := t.index(s, b, h, d)
	if t.dtype == F16 {
		return t.f16[i].Float32()
	}
	return t.f32[i]
}

// Set writes one element, narrowing to float16 when needed.
func (t *Tensor) Set(s, b, h, d int, v float32) {
	i := t.index(s, b, h, d)
	if t.dtype == F16 {
		t.f16[i] = float16.New(v)
		return
	}
	t.f32[i] = v
}

// transposeSeqBatch returns a view with axes 0 and 1 swapped. No data is
// copied; only dims and strides move.
func (t *Tensor) transposeSeqBatch() *Tensor {
	v := *t
	v.dims[0], v.dims[1] = t.dims[1], t.dims[0]
	v.strides[0], v.strides[1] = t.strides[1], t.strides[0]
	return &v
}

// innerContiguous reports whether the head and feature axes are laid out
// contiguously, which the kernel's addressing assumes.
func (t *Tensor) innerContiguous() bool {
	return t.strides[3] == 1 && t.strides[2] == t.dims[3]
}
