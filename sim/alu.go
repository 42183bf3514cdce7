package main

// alu.go - integer ALU semantics for opcodes 0x00-0x21, per §4.4.3. Uses
// math/bits for pcnt/clz/clo/bswap the way Maemo32-SupraX_Legacy's branch
// predictor and out-of-order unit reach for OnesCount32/LeadingZeros32
// instead of hand-rolled bit loops. clz and clo are genuinely distinct
// here (the source's identical-loop bug is not reproduced, see §9).

import (
	"math/bits"

	"github.com/CoffeeShop-Development/estros/isa"
)

// execALU dispatches one integer ALU instruction, already matched against
// the table entry by the caller. rd/ra/b follow §4.4.3's decode: a =
// r[Ra]; b = imm8 (immediate form) or r[Rb]+imm4 (register form); the
// addressing ops resolve addr = r[Ra] + b*4.
func (c *CPU) execALU(entry isa.InstEntry, ob instWord, hasImm bool) {
	rd := ob[1] & 0xf
	ra := (ob[1] >> 4) & 0xf
	a := c.R[ra]

	var b int32
	if hasImm {
		b = int32(int8(ob[2]))
	} else {
		rb := ob[2] & 0xf
		imm4 := int32((ob[2] >> 4) & 0xf)
		b = int32(c.R[rb]) + imm4
	}

	switch entry.Op {
	case 0x00: // add
		sum, carry := add32(a, uint32(b))
		c.R[rd] = sum
		c.setFlag(isa.FlagC, carry)
		c.updateZN(c.R[rd])
	case 0x01: // sub
		diff, borrow := sub32(a, uint32(b))
		c.R[rd] = diff
		c.setFlag(isa.FlagC, borrow)
		c.updateZN(c.R[rd])
	case 0x02: // mul
		c.R[rd] = a * uint32(b)
		c.updateZN(c.R[rd])
	case 0x03: // div
		if b == 0 {
			c.R[rd] = 0
		} else {
			c.R[rd] = a / uint32(b)
		}
		c.updateZN(c.R[rd])
	case 0x04: // rem
		if b == 0 {
			c.R[rd] = 0
		} else {
			c.R[rd] = a % uint32(b)
		}
		c.updateZN(c.R[rd])
	case 0x05: // imul, signed
		c.R[rd] = uint32(int32(a) * b)
		c.updateZN(c.R[rd])
	case 0x06: // and
		c.R[rd] = a & uint32(b)
		c.updateZN(c.R[rd])
	case 0x07: // xor
		c.R[rd] = a ^ uint32(b)
		c.updateZN(c.R[rd])
	case 0x08: // or
		c.R[rd] = a | uint32(b)
		c.updateZN(c.R[rd])
	case 0x09: // shl
		c.R[rd] = a << (uint32(b) & 0x1f)
		c.updateZN(c.R[rd])
	case 0x0A: // shr, logical
		c.R[rd] = a >> (uint32(b) & 0x1f)
		c.updateZN(c.R[rd])
	case 0x0B: // pcnt, of a+b
		x := a + uint32(b)
		c.R[rd] = uint32(bits.OnesCount32(x))
		c.updateZN(c.R[rd])
	case 0x0C: // clz, of a+b
		x := a + uint32(b)
		c.R[rd] = uint32(bits.LeadingZeros32(x))
		c.updateZN(c.R[rd])
	case 0x0D: // clo, of a+b - leading ones, genuinely distinct from clz
		x := a + uint32(b)
		c.R[rd] = uint32(bits.LeadingZeros32(^x))
		c.updateZN(c.R[rd])
	case 0x0E: // bswap, of a+b
		x := a + uint32(b)
		c.R[rd] = bits.ReverseBytes32(x)
		c.updateZN(c.R[rd])
	case 0x0F: // ipcnt, of a+b - population count of the complement
		x := a + uint32(b)
		c.R[rd] = uint32(bits.OnesCount32(^x))
		c.updateZN(c.R[rd])
	case 0x10: // stb, flag-neutral
		addr := uint32(int32(a) + b*4)
		c.Write8(addr, byte(c.R[rd]))
	case 0x11: // stw, flag-neutral
		addr := uint32(int32(a) + b*4)
		c.Write16(addr, uint16(c.R[rd]))
	case 0x12: // stl, flag-neutral
		addr := uint32(int32(a) + b*4)
		c.Write32(addr, c.R[rd])
	case 0x13: // stq, flag-neutral (no 64-bit int register file; stores
		// the same 32 bits as stl)
		addr := uint32(int32(a) + b*4)
		c.Write32(addr, c.R[rd])
	case 0x14: // ldb, flag-neutral, zero-extended
		addr := uint32(int32(a) + b*4)
		c.R[rd] = uint32(c.Read8(addr))
	case 0x15: // ldw, flag-neutral, zero-extended
		addr := uint32(int32(a) + b*4)
		c.R[rd] = uint32(c.Read16(addr))
	case 0x16: // ldl, flag-neutral
		addr := uint32(int32(a) + b*4)
		c.R[rd] = c.Read32(addr)
	case 0x17: // ldq, flag-neutral
		addr := uint32(int32(a) + b*4)
		c.R[rd] = c.Read32(addr)
	case 0x18: // lea, flag-neutral
		addr := uint32(int32(a) + b*4)
		c.R[rd] = addr
	case 0x20: // cmp: updates Z,N,C from a+b, writes flags byte to r[Rd]
		sum, carry := add32(a, uint32(b))
		c.setFlag(isa.FlagC, carry)
		c.updateZN(sum)
		c.R[rd] = uint32(c.flagsByte())
	case 0x21: // cmpkp: as cmp, then restores the prior flag register
		saved := c.Flags
		sum, carry := add32(a, uint32(b))
		c.setFlag(isa.FlagC, carry)
		c.updateZN(sum)
		c.R[rd] = uint32(c.flagsByte())
		c.Flags = saved
	}
}

func add32(a, b uint32) (uint32, bool) {
	s, carry := bits.Add32(a, b, 0)
	return s, carry != 0
}

func sub32(a, b uint32) (uint32, bool) {
	d, borrow := bits.Sub32(a, b, 0)
	return d, borrow != 0
}
