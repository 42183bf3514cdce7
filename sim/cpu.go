package main

// cpu.go - the simulator's register file and flag register, grounded on
// the teacher's func/func.go y4machine struct (reg []word, spr []word)
// generalized to XM's five register files and fixed flag bit layout.

import (
	"github.com/CoffeeShop-Development/estros/isa"
)

// Perf holds the simulator's performance counters, incremented from
// exec.go/alu.go/memory access paths as each event occurs.
type Perf struct {
	Ticks        uint64
	Reads        uint64
	Writes       uint64
	Jumps        uint64
	BranchTaken  uint64
	BranchMisses uint64
	DecodeFaults uint64
}

// CPU is the whole machine state: registers, flags, memory, and perf
// counters. One instance per run; there is no concept of multiple cores
// or contexts (see §5 concurrency model).
type CPU struct {
	PC    uint32
	Flags uint32

	R    [isa.NumIntRegs]uint32
	F    [isa.NumFloatRegs]float32
	V    [isa.NumVectorRegs][2]uint64
	Tile [isa.NumTileRegs][isa.TileWidth]float32
	CR   [isa.NumControlRegs]uint32

	Mem  Memory
	Perf Perf
}

// NewCPU returns a zeroed machine: all registers and flags at 0, ROM/RAM
// allocated but not yet loaded.
func NewCPU() *CPU {
	c := &CPU{}
	c.Mem = NewMemory()
	return c
}

func (c *CPU) flagSet(bit uint32) bool {
	return c.Flags&bit != 0
}

func (c *CPU) setFlag(bit uint32, v bool) {
	if v {
		c.Flags |= bit
	} else {
		c.Flags &^= bit
	}
}

// updateZN sets Z and N from a retired ALU result, per §4.4.3: "after
// every ALU write ... set Z = (r[Rd]==0), N = ((i32)r[Rd] < 0)".
func (c *CPU) updateZN(x uint32) {
	c.setFlag(isa.FlagZ, x == 0)
	c.setFlag(isa.FlagN, int32(x) < 0)
}

// flagsByte packs the low byte of the flag register, the form cmp/cmpkp
// write into r[Rd].
func (c *CPU) flagsByte() byte {
	return byte(c.Flags)
}
