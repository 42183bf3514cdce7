package main

// exec.go - the staged fetch/decode/execute loop, grounded on the
// teacher's func/exec.go y4machine.fetch/decode/execute staging (a
// pipeline of small methods rather than one monolithic switch), but
// restructured around the XM category/format model instead of y4's
// xop/yop/zop/vop opcode families.

import (
	"fmt"

	"github.com/CoffeeShop-Development/estros/isa"
)

// StepResult distinguishes why Step stopped advancing normally.
type StepResult int

const (
	StepContinue StepResult = iota
	StepHalt
	StepTrap
)

type instWord [isa.InstructionSize]byte

// fetch reads the 4 instruction bytes at pc without advancing it; callers
// advance pc themselves once they know whether this is a branch/jump.
func (c *CPU) fetch() instWord {
	var ob instWord
	for i := range ob {
		ob[i] = c.fetchByte(c.PC + uint32(i))
	}
	return ob
}

// Step runs one fetch/decode/execute cycle. Per invariant #7, pc advances
// by exactly 4 on any step that isn't a branch, jump, call, ret, or halt;
// branch/jump/call/ret variants set pc themselves.
func (c *CPU) Step() (StepResult, error) {
	c.Perf.Ticks++
	ob := c.fetch()
	cat := isa.Category(ob[0] & 0x0f)

	switch cat {
	case isa.CategoryDebug:
		return c.execDebug(ob)
	case isa.CategoryFloat:
		return c.execFloat(ob)
	case isa.CategoryInteger:
		return c.execInteger(ob)
	default:
		c.Perf.DecodeFaults++
		return StepTrap, fmt.Errorf("undefined opcode in category %s (trap)", cat)
	}
}

func (c *CPU) execDebug(ob instWord) (StepResult, error) {
	op := ob[0] >> 4
	if _, ok := isa.LookupOp(isa.CategoryDebug, op); !ok {
		c.Perf.DecodeFaults++
		return StepTrap, fmt.Errorf("undefined debug opcode 0x%x (trap)", op)
	}
	return StepHalt, nil
}

func (c *CPU) execInteger(ob instWord) (StepResult, error) {
	storedOp := isa.StoredOp(ob[3])

	switch storedOp {
	case 0x40: // jmp: pc <- absolute 16-bit address
		addr := uint32(ob[1])<<8 | uint32(ob[2])
		c.PC = addr
		c.Perf.Jumps++
		return StepContinue, nil
	case 0x41: // jmprel: pc <- pc + sign_extend_16(rel)
		rela := int32(int16(uint16(ob[1])<<8 | uint16(ob[2])))
		c.PC = uint32(int32(c.PC) + rela)
		c.Perf.Jumps++
		return StepContinue, nil
	case 0x42: // call: capture retpc = pc+4 BEFORE computing the jump
		// target (the source's after-the-jump capture is not
		// reproduced, see §9).
		base := ob[1] & 0xf
		rela := int32(int8(ob[2]))
		retpc := c.PC + isa.InstructionSize
		c.PC = uint32(int32(c.R[base]) + rela)
		c.R[isa.AbiRA] = retpc
		c.Perf.Jumps++
		return StepContinue, nil
	case 0x43: // ret
		c.PC = c.R[isa.AbiRA]
		c.Perf.Jumps++
		return StepContinue, nil
	}

	if storedOp >= 0x50 && storedOp <= 0x5f {
		return c.execBranch(ob, storedOp)
	}

	entry, ok := isa.LookupOp(isa.CategoryInteger, storedOp)
	if !ok {
		c.Perf.DecodeFaults++
		return StepTrap, fmt.Errorf("undefined integer opcode 0x%02x (trap)", storedOp)
	}
	c.execALU(entry, ob, isa.HasImmediate(ob[3]))
	c.PC += isa.InstructionSize
	return StepContinue, nil
}

// execBranch implements §4.4.4: Ra in the low nibble of byte1, a 4-bit
// condition mask in the high nibble, a signed 8-bit relative displacement
// in byte2, and a base condition selected by the opcode's low nibble.
func (c *CPU) execBranch(ob instWord, op uint8) (StepResult, error) {
	ra := ob[1] & 0xf
	condMask := uint32(ob[1]>>4) & 0xf
	rela := int32(int8(ob[2]))
	lowNibble := op - 0x50

	r := c.R[ra]
	var base bool
	switch {
	case lowNibble == 0:
		base = r == 0
	case lowNibble == 1:
		base = true
	case lowNibble == 2:
		base = int32(r) > 0
	case lowNibble == 3:
		base = r > c.PC
	case lowNibble == 4:
		base = r > uint32(int32(c.PC)+rela)
	case lowNibble == 5:
		base = r == 1
	case lowNibble == 6:
		base = int32(r) > 1
	case lowNibble == 7:
		base = r == ^uint32(0)
	default: // 8..15: r[Ra] == r[T0..T7]
		ti := lowNibble - 8
		base = r == c.R[isa.AbiT0+int(ti)]
	}

	taken := applyCondMask(base, condMask, c.Flags)

	if taken {
		c.PC = uint32(int32(c.PC) + rela)
		c.Perf.BranchTaken++
	} else {
		c.PC += isa.InstructionSize
		c.Perf.BranchMisses++
	}
	return StepContinue, nil
}

// applyCondMask composes the base condition with the mask bits in the
// documented order: AND with N, then Z, then C, then invert.
func applyCondMask(base bool, mask uint32, flags uint32) bool {
	result := base
	if mask&isa.CondN != 0 {
		result = result && flags&isa.FlagN != 0
	}
	if mask&isa.CondZ != 0 {
		result = result && flags&isa.FlagZ != 0
	}
	if mask&isa.CondC != 0 {
		result = result && flags&isa.FlagC != 0
	}
	if mask&isa.CondInvert != 0 {
		result = !result
	}
	return result
}
