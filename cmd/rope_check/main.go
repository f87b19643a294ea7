package main

import (
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"

	"github.com/23skdu/longbow-rotary/internal/config"
	"github.com/23skdu/longbow-rotary/internal/logger"
	"github.com/23skdu/longbow-rotary/internal/rope"
)

var (
	heads    = flag.Int("heads", 8, "Number of attention heads")
	headDim  = flag.Int("head-dim", 64, "Per-head feature dimension (even)")
	seqLen   = flag.Int("seq", 128, "Sequence length")
	batch    = flag.Int("batch", 2, "Batch size")
	base     = flag.Float64("base", rope.DefaultBase, "Frequency base")
	format   = flag.String("format", config.FormatSeqBatchHeadDim, "Tensor layout tag")
	threads  = flag.Int("threads", 0, "Kernel worker count (0 = NumCPU)")
	logLevel = flag.String("log-level", "info", "Log level")
)

func main() {
	flag.Parse()
	logger.Setup(*logLevel, "console")
	log := logger.Log.Component("rope_check")

	cfg := config.Config{
		Heads:      *heads,
		HeadDim:    *headDim,
		SeqLen:     *seqLen,
		Batch:      *batch,
		RopeBase:   *base,
		Format:     *format,
		NumThreads: *threads,
	}
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx := rope.NewContext()
	ctx.SetNumThreads(cfg.NumThreads)

	log.Info("building tables", "head_dim", cfg.HeadDim, "seq_len", cfg.SeqLen, "base", cfg.RopeBase)
	cos, sin, err := rope.BuildCosSinTables(cfg.HeadDim, cfg.SeqLen, cfg.RopeBase)
	if err != nil {
		log.Error("table build failed", "error", err)
		os.Exit(1)
	}

	pass := true
	for _, seed := range []int64{1, 2, 3} {
		if !checkOnce(ctx, cfg, cos, sin, seed) {
			pass = false
		}
	}

	if !pass {
		log.Error("rotation check failed")
		os.Exit(1)
	}
	log.Info("rotation check passed", "heads", cfg.Heads, "seq_len", cfg.SeqLen, "batch", cfg.Batch)
}

func checkOnce(ctx *rope.Context, cfg config.Config, cos, sin *rope.Table, seed int64) bool {
	fmt.Printf("\n=== Checking rotation (seed=%d, format=%s) ===\n", seed, cfg.Format)

	rng := rand.New(rand.NewSource(seed))
	var in *rope.Tensor
	if cfg.Format == config.FormatBatchSeqHeadDim {
		in = rope.NewTensorF32(cfg.Batch, cfg.SeqLen, cfg.Heads, cfg.HeadDim)
	} else {
		in = rope.NewTensorF32(cfg.SeqLen, cfg.Batch, cfg.Heads, cfg.HeadDim)
	}
	data := in.DataF32()
	for i := range data {
		data[i] = rng.Float32()*2 - 1
	}

	out, err := rope.Rotate(ctx, in, cos, sin, cfg.Format)
	if err != nil {
		fmt.Printf("FAIL: rotate returned error: %v\n", err)
		return false
	}

	if nan, inf := rope.ScanForInstability(out, "rope_check"); nan > 0 || inf > 0 {
		fmt.Printf("FAIL: output has %d NaN / %d Inf values\n", nan, inf)
		return false
	}

	if cfg.Format == config.FormatSeqBatchHeadDim {
		ref, err := rope.RotateRef(in, cos, sin)
		if err != nil {
			fmt.Printf("FAIL: reference returned error: %v\n", err)
			return false
		}
		var maxDiff float64
		for i, v := range out.DataF32() {
			diff := math.Abs(float64(v - ref.DataF32()[i]))
			if diff > maxDiff {
				maxDiff = diff
			}
		}
		fmt.Printf("Kernel vs reference: MaxDiff: %.8f\n", maxDiff)
		if maxDiff > 1e-5 {
			fmt.Printf("FAIL: kernel diverges from reference (seed=%d)\n", seed)
			return false
		}
	}

	// Norm preservation per rotation pair against the input.
	dims := in.Dims()
	half := cfg.HeadDim / 2
	var maxDiff, sumDiff float64
	var pairs int
	for a := 0; a < dims[0]; a++ {
		for b := 0; b < dims[1]; b++ {
			for h := 0; h < cfg.Heads; h++ {
				for i := 0; i < half; i++ {
					x1 := float64(in.At(a, b, h, i))
					x2 := float64(in.At(a, b, h, i+half))
					y1 := float64(out.At(a, b, h, i))
					y2 := float64(out.At(a, b, h, i+half))
					diff := math.Abs((x1*x1 + x2*x2) - (y1*y1 + y2*y2))
					if diff > maxDiff {
						maxDiff = diff
					}
					sumDiff += diff
					pairs++
				}
			}
		}
	}
	avgDiff := sumDiff / float64(pairs)
	fmt.Printf("Pair norm drift: MaxDiff: %.8f, AvgDiff: %.8f\n", maxDiff, avgDiff)

	if maxDiff > 1e-3 {
		fmt.Printf("FAIL: rotation is not norm-preserving (seed=%d)\n", seed)
		return false
	}
	fmt.Printf("PASS: seed=%d\n", seed)
	return true
}
