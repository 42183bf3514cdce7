package main

// memory.go - address translation and byte/word/long access, grounded on
// §4.4.1: a ROM slice, a RAM slice, and a shared trap page for everything
// else, with read16/32 and write16/32 required to be symmetric big-endian
// (the asymmetry the source this project was distilled from has between
// its read and write paths is deliberately not reproduced here, see
// DESIGN.md).

import (
	"github.com/CoffeeShop-Development/estros/isa"
)

// Access markers for memory tracing (--trace-mem).
const (
	AccessRead  = 'R'
	AccessWrite = 'W'
	AccessExec  = 'X'
)

// Memory holds the three regions addressed by translate: ROM, RAM, and a
// single shared trap page absorbing everything else.
type Memory struct {
	Rom  []byte
	Ram  []byte
	Trap []byte

	Tracer *MemTracer
}

func NewMemory() Memory {
	return Memory{
		Rom:  make([]byte, isa.RomSize),
		Ram:  make([]byte, isa.RamSize),
		Trap: make([]byte, isa.PageSize),
	}
}

// resolve picks ROM, RAM, or the trap page for addr, per §4.4.1. Trap-page
// addresses wrap modulo PAGE_SIZE so any unmapped address lands somewhere
// in the single shared page rather than panicking.
func (m *Memory) resolve(addr uint32) ([]byte, uint32) {
	switch {
	case addr >= isa.RomBase && addr < isa.RomBase+isa.RomSize:
		return m.Rom, addr - isa.RomBase
	case addr >= isa.RamBase && addr < isa.RamBase+isa.RamSize:
		return m.Ram, addr - isa.RamBase
	default:
		return m.Trap, addr % isa.PageSize
	}
}

// Read8/Write8 are the only primitives that actually touch a byte slice;
// every wider access composes these, keeping perf.reads/perf.writes and
// the trace log counted per byte as §4.4.1 requires.
func (c *CPU) Read8(addr uint32) byte {
	region, off := c.Mem.resolve(addr)
	c.Perf.Reads++
	if c.Mem.Tracer != nil {
		c.Mem.Tracer.Trace(addr, AccessRead)
	}
	return region[off]
}

func (c *CPU) Write8(addr uint32, v byte) {
	region, off := c.Mem.resolve(addr)
	c.Perf.Writes++
	if c.Mem.Tracer != nil {
		c.Mem.Tracer.Trace(addr, AccessWrite)
	}
	region[off] = v
}

// Read16/Write16 are big-endian and symmetric: the byte at the lower
// address is always the high byte, on both the read and the write side.
func (c *CPU) Read16(addr uint32) uint16 {
	hi := c.Read8(addr)
	lo := c.Read8(addr + 1)
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU) Write16(addr uint32, v uint16) {
	c.Write8(addr, byte(v>>8))
	c.Write8(addr+1, byte(v))
}

// Read32/Write32 compose two Read16/Write16 calls the same way, so the
// symmetry holds recursively.
func (c *CPU) Read32(addr uint32) uint32 {
	hi := c.Read16(addr)
	lo := c.Read16(addr + 2)
	return uint32(hi)<<16 | uint32(lo)
}

func (c *CPU) Write32(addr uint32, v uint32) {
	c.Write16(addr, uint16(v>>16))
	c.Write16(addr+2, uint16(v))
}

// fetchByte reads an instruction byte without touching perf.reads: fetch
// is not a data-memory access, so it is kept out of the read counter that
// §4.4.1 defines for load/store traffic.
func (c *CPU) fetchByte(addr uint32) byte {
	region, off := c.Mem.resolve(addr)
	if c.Mem.Tracer != nil {
		c.Mem.Tracer.Trace(addr, AccessExec)
	}
	return region[off]
}
