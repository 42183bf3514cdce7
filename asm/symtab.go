package main

// symtab.go - label table and fixup list, adapted from the teacher's
// SymbolTable (asm/sym.go) to the simpler (name, pc) label model and
// ordered relocation list described in §3/§4.2: XM labels carry no type or
// signature, only a defining pc, and every fixup is resolved in one pass
// at the end of assembly.

import "fmt"

const maxLabelNameLen = 63

type FixupType int

const (
	FixupNone FixupType = iota
	FixupRelO16S8  // §4.2 R4U4RA8O8: signed 8-bit pc-relative, at out[offset+2]
	FixupAbsO16    // AA16O8 (jmp): absolute 16-bit address, at out[offset+1:offset+3]
	FixupRelO16S16 // RA16O8 (jmprel): signed 16-bit pc-relative, at out[offset+1:offset+3]
)

type Fixup struct {
	Name   string
	Type   FixupType
	PC     uint32
	Offset uint32 // byte offset of the instruction in the output buffer
}

type SymbolTable struct {
	labels map[string]uint32
	fixups []Fixup
}

func MakeSymbolTable() *SymbolTable {
	return &SymbolTable{labels: make(map[string]uint32)}
}

// DefineLabel records name at the current pc. Redefinition is an error:
// label names must be unique within a file (§3 invariants).
func (st *SymbolTable) DefineLabel(name string, pc uint32) error {
	if len(name) > maxLabelNameLen {
		return fmt.Errorf("label name too long: %s", name)
	}
	if _, exists := st.labels[name]; exists {
		return fmt.Errorf("label redefined: %s", name)
	}
	st.labels[name] = pc
	return nil
}

// Lookup returns a label's pc.
func (st *SymbolTable) Lookup(name string) (uint32, bool) {
	pc, ok := st.labels[name]
	return pc, ok
}

// AddFixup records a deferred relocation to be resolved by Resolve after
// the first pass completes.
func (st *SymbolTable) AddFixup(f Fixup) {
	st.fixups = append(st.fixups, f)
}

// Resolve walks the fixup list in order and patches out in place. For
// FixupRelO16S8, rela = label.pc - fixup.pc must fit in a signed 8-bit
// value and is written at out[f.Offset+2] (byte 2 of the instruction:
// the RelAddr field of R4U4RA8O8).
func (st *SymbolTable) Resolve(out []byte) error {
	for _, f := range st.fixups {
		pc, ok := st.labels[f.Name]
		if !ok {
			return fmt.Errorf("undefined label: %s", f.Name)
		}
		switch f.Type {
		case FixupRelO16S8:
			rela := int32(pc) - int32(f.PC)
			if rela < -128 || rela > 127 {
				return fmt.Errorf("label %s: displacement %d out of range for 8-bit signed relative", f.Name, rela)
			}
			out[f.Offset+2] = byte(int8(rela))
		case FixupAbsO16:
			if pc > 0xFFFF {
				return fmt.Errorf("label %s: absolute address 0x%x does not fit in 16 bits", f.Name, pc)
			}
			out[f.Offset+1] = byte(pc >> 8)
			out[f.Offset+2] = byte(pc)
		case FixupRelO16S16:
			rela := int32(pc) - int32(f.PC)
			if rela < -32768 || rela > 32767 {
				return fmt.Errorf("label %s: displacement %d out of range for 16-bit signed relative", f.Name, rela)
			}
			v := uint16(int16(rela))
			out[f.Offset+1] = byte(v >> 8)
			out[f.Offset+2] = byte(v)
		default:
			return fmt.Errorf("unknown fixup type for label %s", f.Name)
		}
	}
	return nil
}
