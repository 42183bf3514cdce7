/*
Copyright © 2022 Jeff Berkowitz (pdxjjb@gmail.com)

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU Affero General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU Affero General Public License for more details.

You should have received a copy of the GNU Affero General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/

package main

// generator.go - first-pass instruction encoding, one case per §4.2
// format, ported from asm_firstpass in original_source/isa/asm.c and
// extended to cover AA16O8/RA16O8 (jmp/jmprel), which the source left
// unimplemented (asm_firstpass has no case for them at all, so assembling
// "jmp" or "jmprel" there silently emits zero bytes — a dropped feature
// this implementation completes, since both are ordinary ISA instructions
// the simulator executes).

import (
	"fmt"

	"github.com/CoffeeShop-Development/estros/isa"
)

// emitInstruction encodes one instruction into *out at the current pc,
// registering a fixup in st instead of an address byte wherever an operand
// is an unresolved label.
func emitInstruction(st *SymbolTable, out *[]byte, pc uint32, entry isa.InstEntry, ops []Operand) error {
	cat := isa.CategoryForFormat(entry.Format)
	ob := make([]byte, isa.InstructionSize)

	switch entry.Format {
	case isa.FormatR4R4I8O8IFHBS:
		if len(ops) < 3 {
			return fmt.Errorf("%s: expected at least 3 operands", entry.Name)
		}
		if ops[0].Type != OpReg {
			return fmt.Errorf("%s: operand 1 must be a register", entry.Name)
		}
		if ops[1].Type != OpReg {
			return fmt.Errorf("%s: operand 2 must be a register", entry.Name)
		}
		ob[0] = byte(cat)
		ob[1] = byte(ops[0].Value&0xf) | byte(ops[1].Value&0xf)<<4
		if ops[2].Type == OpImm {
			// Rd(4) Ra(4) Imm(8) Opcode(8)
			ob[2] = byte(ops[2].Value & 0xff)
			ob[3] = entry.Op | 0x80
		} else {
			// Rd(4) Ra(4) Rb(4) Imm(4) Opcode(8)
			if ops[2].Type != OpReg {
				return fmt.Errorf("%s: operand 3 must be a register or immediate", entry.Name)
			}
			if len(ops) < 4 || ops[3].Type != OpImm {
				return fmt.Errorf("%s: operand 4 must be an immediate when operand 3 is a register", entry.Name)
			}
			ob[2] = byte(ops[2].Value&0xf) | byte(ops[3].Value&0xf)<<4
			ob[3] = entry.Op
		}

	case isa.FormatU16O8:
		ob[0] = byte(cat)
		ob[3] = entry.Op

	case isa.FormatR4U4RA8O8:
		if len(ops) < 3 {
			return fmt.Errorf("%s: expected 3 operands", entry.Name)
		}
		if ops[0].Type != OpReg {
			return fmt.Errorf("%s: operand 1 must be a register", entry.Name)
		}
		if ops[2].Type != OpCond {
			return fmt.Errorf("%s: operand 3 must be a condition code", entry.Name)
		}
		ob[0] = byte(cat)
		ob[1] = byte(ops[0].Value&0xf) | byte(ops[2].Value&0xf)<<4
		ob[3] = entry.Op
		switch ops[1].Type {
		case OpImm:
			if ops[1].Value < -128 || ops[1].Value > 127 {
				return fmt.Errorf("%s: relative displacement %d out of 8-bit signed range", entry.Name, ops[1].Value)
			}
			ob[2] = byte(int8(ops[1].Value))
		case OpLabel:
			st.AddFixup(Fixup{Name: ops[1].Name, Type: FixupRelO16S8, PC: pc, Offset: uint32(len(*out))})
		default:
			return fmt.Errorf("%s: operand 2 must be an immediate or a label", entry.Name)
		}

	case isa.FormatF4F4F4F4:
		if len(ops) < 4 {
			return fmt.Errorf("%s: expected 4 float-register operands", entry.Name)
		}
		for i := 0; i < 4; i++ {
			if ops[i].Type != OpFloatReg {
				return fmt.Errorf("%s: operand %d must be a float register", entry.Name, i+1)
			}
		}
		ob[0] = byte(cat)
		ob[1] = byte(ops[0].Value&0xf) | byte(ops[1].Value&0xf)<<4
		ob[2] = byte(ops[2].Value&0xf) | byte(ops[3].Value&0xf)<<4
		ob[3] = entry.Op

	case isa.FormatAA16O8:
		if len(ops) < 1 {
			return fmt.Errorf("%s: expected 1 operand", entry.Name)
		}
		ob[0] = byte(cat)
		ob[3] = entry.Op
		switch ops[0].Type {
		case OpImm:
			if ops[0].Value < 0 || ops[0].Value > 0xFFFF {
				return fmt.Errorf("%s: absolute address %d does not fit in 16 bits", entry.Name, ops[0].Value)
			}
			ob[1] = byte(ops[0].Value >> 8)
			ob[2] = byte(ops[0].Value)
		case OpLabel:
			st.AddFixup(Fixup{Name: ops[0].Name, Type: FixupAbsO16, PC: pc, Offset: uint32(len(*out))})
		default:
			return fmt.Errorf("%s: operand must be an immediate or a label", entry.Name)
		}

	case isa.FormatRA16O8:
		if len(ops) < 1 {
			return fmt.Errorf("%s: expected 1 operand", entry.Name)
		}
		ob[0] = byte(cat)
		ob[3] = entry.Op
		switch ops[0].Type {
		case OpImm:
			if ops[0].Value < -32768 || ops[0].Value > 32767 {
				return fmt.Errorf("%s: relative displacement %d out of 16-bit signed range", entry.Name, ops[0].Value)
			}
			v := uint16(int16(ops[0].Value))
			ob[1] = byte(v >> 8)
			ob[2] = byte(v)
		case OpLabel:
			st.AddFixup(Fixup{Name: ops[0].Name, Type: FixupRelO16S16, PC: pc, Offset: uint32(len(*out))})
		default:
			return fmt.Errorf("%s: operand must be an immediate or a label", entry.Name)
		}

	case isa.FormatD8:
		// Debug category: opcode lives in the high nibble of byte 0, the
		// category in the low nibble. halt takes no operands.
		ob[0] = entry.Op<<4 | byte(isa.CategoryDebug)

	default:
		return fmt.Errorf("%s: unsupported encoding format", entry.Name)
	}

	*out = append(*out, ob...)
	return nil
}
