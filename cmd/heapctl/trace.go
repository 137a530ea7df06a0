package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/heapkit/heapkit/heap/trace"
)

func init() {
	rootCmd.AddCommand(newTraceCmd())
}

func newTraceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "trace [file]",
		Short: "Decode a captured trace word stream",
		Long: `The trace command decodes the packed 32-bit words a heap emits on its
diagnostic port back into allocator events. Words are read as whitespace- or
newline-separated hex values (with or without 0x prefixes) from the given
file, or from stdin when no file is named.

Example:
  heapctl trace capture.txt
  some-probe-tool | heapctl trace`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(args)
		},
	}
}

func runTrace(args []string) error {
	in := os.Stdin
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	var words []uint32
	scanner := bufio.NewScanner(in)
	scanner.Split(bufio.ScanWords)
	for scanner.Scan() {
		tok := strings.TrimPrefix(strings.ToLower(scanner.Text()), "0x")
		w, err := strconv.ParseUint(tok, 16, 32)
		if err != nil {
			return fmt.Errorf("bad trace word %q: %w", scanner.Text(), err)
		}
		words = append(words, uint32(w))
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	printVerbose("Read %d words\n", len(words))

	events, err := trace.Decode(words)
	if err != nil {
		return err
	}

	if jsonOut {
		type eventReport struct {
			Op      string `json:"op"`
			Size    uint32 `json:"size,omitempty"`
			OldSize uint32 `json:"old_size,omitempty"`
			NewSize uint32 `json:"new_size,omitempty"`
		}
		reports := make([]eventReport, len(events))
		for i, e := range events {
			reports[i] = eventReport{e.Op.String(), e.Size, e.OldSize, e.NewSize}
		}
		return printJSON(reports)
	}

	for _, e := range events {
		switch e.Op {
		case trace.OpGrow, trace.OpShrink:
			fmt.Printf("%-10s old=%d new=%d\n", e.Op, e.OldSize, e.NewSize)
		default:
			fmt.Printf("%-10s size=%d\n", e.Op, e.Size)
		}
	}
	return nil
}

// printTraceWords dumps captured words in the format trace expects back.
func printTraceWords(words []uint32) {
	for i, w := range words {
		if i > 0 && i%8 == 0 {
			fmt.Println()
		}
		fmt.Printf("%08x ", w)
	}
	if len(words) > 0 {
		fmt.Println()
	}
}
