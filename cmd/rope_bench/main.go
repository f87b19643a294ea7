package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/23skdu/longbow-rotary/internal/logger"
	"github.com/23skdu/longbow-rotary/internal/rope"
)

var (
	heads   = flag.Int("heads", 32, "Number of attention heads")
	headDim = flag.Int("head-dim", 128, "Per-head feature dimension (even)")
	seqLen  = flag.Int("seq", 2048, "Sequence length")
	batch   = flag.Int("batch", 1, "Batch size")
	iters   = flag.Int("n", 20, "Number of kernel invocations to time")
	threads = flag.Int("threads", 0, "Kernel worker count (0 = NumCPU)")
)

func main() {
	flag.Parse()
	logger.Setup("info", "console")
	log := logger.Log.Component("rope_bench")

	start := time.Now()
	cos, sin, err := rope.BuildCosSinTables(*headDim, *seqLen, rope.DefaultBase)
	if err != nil {
		log.Error("table build failed", "error", err)
		os.Exit(1)
	}
	fmt.Printf("Table build time: %v\n", time.Since(start))

	in := rope.NewTensorF32(*seqLen, *batch, *heads, *headDim)
	rng := rand.New(rand.NewSource(42))
	data := in.DataF32()
	for i := range data {
		data[i] = rng.Float32()*2 - 1
	}

	ctx := rope.NewContext()
	ctx.SetNumThreads(*threads)

	// Warmup
	if _, err := rope.Rotate(ctx, in, cos, sin, rope.FormatSeqBatchHeadDim); err != nil {
		log.Error("rotate failed", "error", err)
		os.Exit(1)
	}

	benchStart := time.Now()
	for i := 0; i < *iters; i++ {
		if _, err := rope.Rotate(ctx, in, cos, sin, rope.FormatSeqBatchHeadDim); err != nil {
			log.Error("rotate failed", "error", err)
			os.Exit(1)
		}
	}
	elapsed := time.Since(benchStart)

	perCall := elapsed / time.Duration(*iters)
	positions := float64((*seqLen)*(*batch)*(*heads)) * float64(*iters)
	fmt.Printf("Rotation complete: %d iters, %v/call (%.2f Munits/s)\n",
		*iters, perCall, positions/elapsed.Seconds()/1e6)
	log.Info("benchmark done",
		"seq_len", *seqLen, "heads", *heads, "head_dim", *headDim,
		"threads", ctx.NumThreads(), "per_call", perCall.String())
}
