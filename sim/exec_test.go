package main

import (
	"testing"

	"github.com/CoffeeShop-Development/estros/isa"
)

func TestJmpSetsAbsolutePC(t *testing.T) {
	c := NewCPU()
	step(t, c, [4]byte{0x00, 0x12, 0x34, 0x40}) // jmp 0x1234
	if c.PC != 0x1234 {
		t.Errorf("pc=0x%x, want 0x1234", c.PC)
	}
	if c.Perf.Jumps != 1 {
		t.Errorf("jumps=%d, want 1", c.Perf.Jumps)
	}
}

func TestJmprelNegativeOneDecrementsPC(t *testing.T) {
	c := NewCPU()
	c.PC = 100
	copy(c.Mem.Trap[100:104], []byte{0x00, 0xff, 0xff, 0x41}) // jmprel -1
	if _, err := c.Step(); err != nil {
		t.Fatalf("unexpected trap: %v", err)
	}
	if c.PC != 99 {
		t.Errorf("pc=%d, want 99 (boundary behavior: jmprel -1 decrements pc by 1)", c.PC)
	}
}

func TestCallCapturesReturnAddressBeforeJump(t *testing.T) {
	c := NewCPU()
	c.R[isa.AbiT0] = isa.RomBase + 0x100
	// call $t0, rela=0, cond nibble irrelevant for call: byte1=base(AbiT0)|0<<4
	copy(c.Mem.Rom[0:4], []byte{0x00, byte(isa.AbiT0), 0x00, 0x42})
	c.PC = isa.RomBase
	if _, err := c.Step(); err != nil {
		t.Fatalf("unexpected trap: %v", err)
	}
	if c.PC != isa.RomBase+0x100 {
		t.Errorf("pc=0x%x, want 0x%x", c.PC, isa.RomBase+0x100)
	}
	if c.R[isa.AbiRA] != isa.RomBase+isa.InstructionSize {
		t.Errorf("ra=0x%x, want 0x%x (retpc captured before jump)", c.R[isa.AbiRA], isa.RomBase+isa.InstructionSize)
	}
}

func TestRetJumpsToRA(t *testing.T) {
	c := NewCPU()
	c.R[isa.AbiRA] = isa.RomBase + 8
	step(t, c, [4]byte{0x00, 0x00, 0x00, 0x43}) // ret
	if c.PC != isa.RomBase+8 {
		t.Errorf("pc=0x%x, want 0x%x", c.PC, isa.RomBase+8)
	}
}

func TestUnconditionalBranchTaken(t *testing.T) {
	c := NewCPU()
	c.PC = 0
	// b $r0, 8, ? (low nibble 1 = unconditional, mask 0): byte1=ra(0)|mask(0)<<4
	copy(c.Mem.Trap[0:4], []byte{0x00, 0x00, 0x08, 0x51})
	if _, err := c.Step(); err != nil {
		t.Fatalf("unexpected trap: %v", err)
	}
	if c.PC != 8 {
		t.Errorf("pc=%d, want 8", c.PC)
	}
	if c.Perf.BranchTaken != 1 || c.Perf.BranchMisses != 0 {
		t.Errorf("taken=%d misses=%d, want 1/0 (invariant #8)", c.Perf.BranchTaken, c.Perf.BranchMisses)
	}
}

func TestBranchWithZMaskNotTakenWhenZClear(t *testing.T) {
	c := NewCPU()
	c.PC = 0
	c.Flags = 0 // Z clear
	// bz $r0, 8, ?z: low nibble 0 (r[Ra]==0), mask CondZ: byte1=ra(0)|CondZ<<4
	copy(c.Mem.Trap[0:4], []byte{0x00, byte(isa.CondZ << 4), 0x08, 0x50})
	c.R[0] = 0 // base condition true (r[Ra]==0)...
	if _, err := c.Step(); err != nil {
		t.Fatalf("unexpected trap: %v", err)
	}
	// ...but mask ANDs with FLAGS.Z, which is clear, so not taken.
	if c.PC != isa.InstructionSize {
		t.Errorf("pc=%d, want %d (branch not taken)", c.PC, isa.InstructionSize)
	}
	if c.Perf.BranchTaken != 0 || c.Perf.BranchMisses != 1 {
		t.Errorf("taken=%d misses=%d, want 0/1", c.Perf.BranchTaken, c.Perf.BranchMisses)
	}
}

func TestHaltReturnsStepHalt(t *testing.T) {
	c := NewCPU()
	result := step(t, c, [4]byte{0xff, 0x00, 0x00, 0x00}) // halt: 0x0f<<4 | CategoryDebug
	if result != StepHalt {
		t.Errorf("result=%v, want StepHalt", result)
	}
}

func TestUndefinedVectorCategoryTraps(t *testing.T) {
	c := NewCPU()
	c.PC = 0
	copy(c.Mem.Trap[0:4], []byte{0x03, 0x00, 0x00, 0x00}) // category 3 = vector
	result, err := c.Step()
	if result != StepTrap || err == nil {
		t.Errorf("expected trap for undefined vector-category opcode, got %v / %v", result, err)
	}
	if c.Perf.DecodeFaults != 1 {
		t.Errorf("decode faults=%d, want 1", c.Perf.DecodeFaults)
	}
}

func TestUndefinedIntegerOpcodeTraps(t *testing.T) {
	c := NewCPU()
	c.PC = 0
	// 0x19 is in the reserved 0x19-0x1F hole
	copy(c.Mem.Trap[0:4], []byte{0x00, 0x00, 0x00, 0x99})
	result, err := c.Step()
	if result != StepTrap || err == nil {
		t.Errorf("expected trap for reserved opcode 0x19, got %v / %v", result, err)
	}
}
