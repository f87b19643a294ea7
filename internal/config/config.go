package config

import (
	"fmt"
)

// Config describes one rotary embedding problem instance: tensor geometry,
// frequency schedule and dispatch parameters.
type Config struct {
	Heads   int
	HeadDim int
	SeqLen  int
	Batch   int

	RopeBase float64
	Format   string

	// NumThreads bounds kernel dispatch; 0 means one worker per CPU.
	NumThreads int

	DebugKernel bool
	DebugTables bool
}

const (
	FormatSeqBatchHeadDim = "sequence_batch_head_dim"
	FormatBatchSeqHeadDim = "batch_sequence_head_dim"
)

func (c *Config) Validate() error {
	if c.Heads <= 0 {
		return fmt.Errorf("invalid heads: %d (must be positive)", c.Heads)
	}
	if c.HeadDim <= 0 {
		return fmt.Errorf("invalid head_dim: %d (must be positive)", c.HeadDim)
	}
	if c.HeadDim%2 != 0 {
		return fmt.Errorf("invalid head_dim: %d (must be even for pair rotation)", c.HeadDim)
	}
	if c.SeqLen <= 0 {
		return fmt.Errorf("invalid seq_len: %d (must be positive)", c.SeqLen)
	}
	if c.Batch <= 0 {
		return fmt.Errorf("invalid batch: %d (must be positive)", c.Batch)
	}
	if c.RopeBase <= 0 {
		return fmt.Errorf("invalid rope_base: %f (must be positive)", c.RopeBase)
	}
	if c.Format != FormatSeqBatchHeadDim && c.Format != FormatBatchSeqHeadDim {
		return fmt.Errorf("invalid format: %q", c.Format)
	}
	if c.NumThreads < 0 {
		return fmt.Errorf("invalid num_threads: %d (must be non-negative)", c.NumThreads)
	}
	return nil
}

func Default() Config {
	return Config{
		Heads:    8,
		HeadDim:  64,
		SeqLen:   2048,
		Batch:    1,
		RopeBase: 10000.0,
		Format:   FormatSeqBatchHeadDim,

		DebugKernel: true,
		DebugTables: true,
	}
}
