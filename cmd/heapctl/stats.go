package main

import (
	"fmt"
	"math/rand"

	"github.com/spf13/cobra"

	"github.com/heapkit/heapkit/heap"
)

var (
	statsConfig string
	statsAllocs int
	statsMaxReq int
	statsSeed   int64
	statsTrace  bool
)

func init() {
	cmd := newStatsCmd()
	cmd.Flags().StringVarP(&statsConfig, "config", "c", "", "YAML pool configuration (default: built-in layout)")
	cmd.Flags().IntVarP(&statsAllocs, "allocs", "n", 1000, "Number of allocations to replay")
	cmd.Flags().IntVar(&statsMaxReq, "max-size", 256, "Largest request size in the workload")
	cmd.Flags().Int64Var(&statsSeed, "seed", 1, "Workload seed")
	cmd.Flags().BoolVar(&statsTrace, "trace", false, "Capture and print the trace word stream")
	rootCmd.AddCommand(cmd)
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Replay a workload and show per-pool statistics",
		Long: `The stats command builds a heap from a pool configuration, replays a
seeded random allocate/free workload against it, and prints the per-pool
(block size, capacity, remain) snapshot afterwards. Use it to judge how a
pool layout holds up under a request size distribution.

Example:
  heapctl stats
  heapctl stats --config pools.yaml --allocs 100000 --max-size 1024
  heapctl stats --trace --allocs 10 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats()
		},
	}
}

// poolReport is the per-pool JSON/text output row.
type poolReport struct {
	BlockSize int `json:"block_size"`
	Capacity  int `json:"capacity"`
	Remain    int `json:"remain"`
	InUse     int `json:"in_use"`
}

func runStats() error {
	cfg := heap.DefaultConfig
	if statsConfig != "" {
		loaded, err := heap.LoadConfig(statsConfig)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	var opts []heap.Option
	rec := &traceCapture{}
	if statsTrace {
		opts = append(opts, heap.WithTracePort(rec))
	}

	h, err := heap.New(cfg, opts...)
	if err != nil {
		return err
	}
	defer h.Close()

	printVerbose("Built heap: %d pools, %d bytes, alignment guarantee %d\n",
		len(cfg.Pools), cfg.TotalSize(), h.AlignGuarantee())

	failed := replayWorkload(h)

	reports := make([]poolReport, 0, len(cfg.Pools))
	for _, s := range h.Statistics() {
		reports = append(reports, poolReport{
			BlockSize: s.BlockSize,
			Capacity:  s.Capacity,
			Remain:    s.Remain,
			InUse:     s.Capacity - s.Remain,
		})
	}

	if jsonOut {
		return printJSON(struct {
			Pools  []poolReport `json:"pools"`
			Allocs int          `json:"allocs"`
			Failed int          `json:"failed"`
		}{reports, statsAllocs, failed})
	}

	fmt.Printf("%10s %10s %10s %10s\n", "BLOCK", "CAPACITY", "REMAIN", "IN USE")
	for _, r := range reports {
		fmt.Printf("%10d %10d %10d %10d\n", r.BlockSize, r.Capacity, r.Remain, r.InUse)
	}
	fmt.Printf("\n%d allocations replayed, %d failed\n", statsAllocs, failed)

	if statsTrace {
		fmt.Println()
		printTraceWords(rec.words)
	}
	return nil
}

// replayWorkload runs a seeded allocate/free mix: every allocation has a
// 50% chance of being freed immediately and the rest are freed at the end,
// so the snapshot reflects a drained heap unless allocations failed.
func replayWorkload(h *heap.Heap) (failed int) {
	rng := rand.New(rand.NewSource(statsSeed))

	type block struct {
		addr uintptr
		l    heap.Layout
	}
	var live []block
	for a := 0; a < statsAllocs; a++ {
		l := heap.Layout{Size: 1 + rng.Intn(statsMaxReq), Align: 1}
		addr, _, err := h.Allocate(l)
		if err != nil {
			failed++
			continue
		}
		if rng.Intn(2) == 0 {
			h.Deallocate(addr, l)
		} else {
			live = append(live, block{addr, l})
		}
	}
	for _, b := range live {
		h.Deallocate(b.addr, b.l)
	}
	return failed
}

// traceCapture is an always-on port collecting words for later printing.
type traceCapture struct {
	words []uint32
}

func (c *traceCapture) Enabled() bool     { return true }
func (c *traceCapture) Write(word uint32) { c.words = append(c.words, word) }
