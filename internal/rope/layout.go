package rope

import (
	"fmt"

	"github.com/23skdu/longbow-rotary/internal/metrics"
)

// Supported activation layouts. The kernel always runs against the
// sequence-major order; the batch-major order is normalized by a stride
// swap on the way in and restored symmetrically on the way out.
const (
	FormatSeqBatchHeadDim = "sequence_batch_head_dim"
	FormatBatchSeqHeadDim = "batch_sequence_head_dim"
)

// toNative returns a sequence-major view of t for the given format tag.
func toNative(t *Tensor, format string) (*Tensor, error) {
	switch format {
	case FormatSeqBatchHeadDim:
		return t, nil
	case FormatBatchSeqHeadDim:
		return t.transposeSeqBatch(), nil
	default:
		metrics.RecordValidationError("rotate", "unsupported_format")
		return nil, fmt.Errorf("%w: unsupported tensor_format %q", ErrInvalidArgument, format)
	}
}

// fromNative undoes toNative on the output tensor. The output is written in
// native layout, so for the batch-major format the caller receives a
// transposed view of it.
func fromNative(t *Tensor, format string) *Tensor {
	if format == FormatBatchSeqHeadDim {
		return t.transposeSeqBatch()
	}
	return t
}
