package main

// trace.go adapts the teacher's double-buffered binary event log
// (sim/io.go's OpenLog/Report/CloseLog, which packs Bits-typed
// gate-evaluation records into fixed 64-byte buffers) to this simulator's
// much simpler tracing need: one line per translated address when
// --trace-mem is set. There is no per-cycle gate-evaluation concept here
// to justify the packed binary format or the double buffer, so this
// keeps the idiom (a small Tracer hung off the memory subsystem) without
// the machinery the source needed it for.

import (
	"fmt"
	"io"
)

// MemTracer prints one line per translated memory address, marked R, W,
// or X for read, write, or instruction fetch.
type MemTracer struct {
	w io.Writer
}

func NewMemTracer(w io.Writer) *MemTracer {
	return &MemTracer{w: w}
}

func (t *MemTracer) Trace(addr uint32, kind byte) {
	fmt.Fprintf(t.w, "%08x %c\n", addr, kind)
}
