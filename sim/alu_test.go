package main

import (
	"testing"

	"github.com/CoffeeShop-Development/estros/isa"
)

// step loads ob at pc 0 and runs exactly one Step, returning the result.
func step(t *testing.T, c *CPU, ob [4]byte) StepResult {
	t.Helper()
	c.PC = 0
	copy(c.Mem.Trap[0:4], ob[:])
	result, err := c.Step()
	if result == StepTrap {
		t.Fatalf("unexpected trap: %v", err)
	}
	return result
}

func TestAddUpdatesZNCOnOverflow(t *testing.T) {
	c := NewCPU()
	c.R[0] = 1
	// add $r0, $r0, -1 (immediate -1): byte1=rd|ra<<4=0, byte2=0xFF, byte3=0x00|0x80
	step(t, c, [4]byte{0x00, 0x00, 0xFF, 0x80})
	if c.R[0] != 0 {
		t.Errorf("r0=%d, want 0", c.R[0])
	}
	if !c.flagSet(isa.FlagZ) {
		t.Error("expected Z set")
	}
	if !c.flagSet(isa.FlagC) {
		t.Error("expected C set on add overflow")
	}
	if c.PC != isa.InstructionSize {
		t.Errorf("pc=%d, want %d (invariant #7)", c.PC, isa.InstructionSize)
	}
}

func TestClzAndCloAreDistinct(t *testing.T) {
	c := NewCPU()
	c.R[1] = 0x0FFFFFFF // top nibble 0000: 4 leading zeros, 0 leading ones
	// clz $r0, $r1, 0 (immediate): byte1=rd(0)|ra(1)<<4=0x10, byte2=0, byte3=0x0C|0x80
	step(t, c, [4]byte{0x00, 0x10, 0x00, 0x8C})
	clz := c.R[0]

	// clo $r0, $r1, 0
	step(t, c, [4]byte{0x00, 0x10, 0x00, 0x8D})
	clo := c.R[0]

	if clz != 4 {
		t.Errorf("clz=%d, want 4", clz)
	}
	if clo != 0 {
		t.Errorf("clo=%d, want 0", clo)
	}
	if clz == clo {
		t.Errorf("clz and clo must be genuinely distinct operations")
	}
}

func TestLoadStoreRoundTripFlagNeutral(t *testing.T) {
	c := NewCPU()
	c.R[0] = isa.RamBase
	c.R[1] = 0xDEADBEEF
	c.Flags = isa.FlagN // pre-existing flag state, must survive

	// stl $r1, $r0, 0: byte1=rd(1)|ra(0)<<4=0x01, byte2=imm(0), byte3=0x12|0x80
	step(t, c, [4]byte{0x00, 0x01, 0x00, 0x92})
	// ldl $r2, $r0, 0: byte1=rd(2)|ra(0)<<4=0x02, byte2=imm(0), byte3=0x16|0x80
	step(t, c, [4]byte{0x00, 0x02, 0x00, 0x96})

	if c.R[2] != 0xDEADBEEF {
		t.Errorf("r2=0x%08x, want 0xDEADBEEF", c.R[2])
	}
	if c.Flags != isa.FlagN {
		t.Errorf("flags changed by load/store: 0x%x, want 0x%x", c.Flags, isa.FlagN)
	}
}

func TestCmpkpRestoresPriorFlags(t *testing.T) {
	c := NewCPU()
	c.Flags = isa.FlagC
	c.R[0] = 3
	c.R[1] = 0xFFFFFFFD // -3: 3 + -3 = 0 sets Z and C, so the snapshot is non-zero

	// cmpkp $r2, $r0, $r1, 0 register form: byte3=0x21 (no high bit)
	// byte1=rd(2)|ra(0)<<4=0x02, byte2=rb(1)|imm4(0)<<4=0x01
	step(t, c, [4]byte{0x00, 0x02, 0x01, 0x21})

	if c.Flags != isa.FlagC {
		t.Errorf("cmpkp should restore prior flags, got 0x%x want 0x%x", c.Flags, isa.FlagC)
	}
	if c.R[2] == 0 {
		t.Error("cmpkp should have written a non-zero flags snapshot to r[Rd]")
	}
}

func TestDivByZeroYieldsZero(t *testing.T) {
	c := NewCPU()
	c.R[0] = 10
	// div $r0, $r0, 0 immediate: byte3=0x03|0x80
	step(t, c, [4]byte{0x00, 0x00, 0x00, 0x83})
	if c.R[0] != 0 {
		t.Errorf("r0=%d, want 0 on divide by zero", c.R[0])
	}
}
