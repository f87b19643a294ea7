package rope

// Naive reference implementation for kernel verification. Kept beside the
// kernel the same way the engine keeps CPU references next to accelerated
// paths; tests and the check harness compare against it.

// RotateRef rotates a sequence-major tensor element by element with no
// blocking, masking or parallel dispatch.
func RotateRef(t *Tensor, cos, sin *Table) (*Tensor, error) {
	if err := validateRotate(t, cos, sin); err != nil {
		return nil, err
	}
	dims := t.dims
	half := dims[3] / 2
	out := newTensorLike(t, dims)
	for s := 0; s < dims[0]; s++ {
		for b := 0; b < dims[1]; b++ {
			for h := 0; h < dims[2]; h++ {
				for i := 0; i < half; i++ {
					c := cos.At(s, i)
					sn := sin.At(s, i)
					x1 := t.At(s, b, h, i)
					x2 := t.At(s, b, h, i+half)
					out.Set(s, b, h, i, x1*c-x2*sn)
					out.Set(s, b, h, i+half, x1*sn+x2*c)
				}
			}
		}
	}
	return out, nil
}
