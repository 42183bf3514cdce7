/*
Copyright © 2022 Jeff Berkowitz (pdxjjb@gmail.com)

This program is free software: you can redistribute it and/or modify it
under the terms of the GNU Affero General Public License as published
by the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful, but
WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
Affero General Public License for more details.

You should have received a copy of the GNU Affero General Public
License along with this program. If not, see
<http://www.gnu.org/licenses/>.
*/
package main

// dis.go - table-driven decoder, mirroring the teacher's decode()
// (match on a KeyTable row, print the mnemonic) but generalized to XM's
// fixed 4-byte encoding and every §4.2 format, including the float
// category the source this project was distilled from leaves as a no-op
// (original_source/isa/dis.c's float-category case prints nothing).

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/CoffeeShop-Development/estros/internal/xlog"
	"github.com/CoffeeShop-Development/estros/isa"
)

var xl = xlog.New("dis")

var debugFlag bool

var rootCmd = &cobra.Command{
	Use:   "dis [binary-file]",
	Short: "Disassembler for the XM register machine",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		xlog.Debug = debugFlag
		in := os.Stdin
		if len(args) == 1 {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open %s: %w", args[0], err)
			}
			defer f.Close()
			in = f
		}
		return disassemble(in, os.Stdout)
	},
}

func init() {
	rootCmd.Flags().BoolVarP(&debugFlag, "debug", "d", false, "enable debug tracing")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}

// disassemble reads fixed 4-byte instructions from r until EOF, printing
// one tab-indented line per instruction to w, with no address column so
// the output can be fed back to the assembler. A short trailing read (1-3 leftover
// bytes) is a decode error: well-formed images are a whole number of
// instructions.
func disassemble(r io.Reader, w io.Writer) error {
	br := bufio.NewReader(r)
	ob := make([]byte, isa.InstructionSize)
	pc := uint32(0)

	for {
		n, err := io.ReadFull(br, ob)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("at pc 0x%08x: %w", pc, err)
		}
		if n != isa.InstructionSize {
			return fmt.Errorf("at pc 0x%08x: truncated instruction (%d bytes)", pc, n)
		}
		line, err := decodeOne(ob)
		if err != nil {
			return fmt.Errorf("at pc 0x%08x: %w", pc, err)
		}
		fmt.Fprintf(w, "\t%s\n", line)
		pc += isa.InstructionSize
	}
}

// decodeOne decodes one 4-byte instruction into its textual form.
func decodeOne(ob []byte) (string, error) {
	cat := isa.Category(ob[0] & 0x0f)

	var op uint8
	var hasImm bool
	switch cat {
	case isa.CategoryDebug:
		op = ob[0] >> 4
	case isa.CategoryFloat:
		op = ob[3]
	case isa.CategoryInteger:
		op = isa.StoredOp(ob[3])
		hasImm = isa.HasImmediate(ob[3])
	default:
		return "", fmt.Errorf("undefined opcode in category %s (trap)", cat)
	}

	entry, ok := isa.LookupOp(cat, op)
	if !ok {
		return "", fmt.Errorf("undefined opcode 0x%02x in category %s (trap)", op, cat)
	}

	switch entry.Format {
	case isa.FormatR4R4I8O8IFHBS:
		rd := ob[1] & 0xf
		ra := (ob[1] >> 4) & 0xf
		if hasImm {
			return fmt.Sprintf("%s $r%d, $r%d, %d", entry.Name, rd, ra, int8(ob[2])), nil
		}
		rb := ob[2] & 0xf
		imm4 := (ob[2] >> 4) & 0xf
		return fmt.Sprintf("%s $r%d, $r%d, $r%d, %d", entry.Name, rd, ra, rb, imm4), nil

	case isa.FormatU16O8:
		return entry.Name, nil

	case isa.FormatR4U4RA8O8:
		rd := ob[1] & 0xf
		cond := (ob[1] >> 4) & 0xf
		rela := int8(ob[2])
		return fmt.Sprintf("%s $r%d, %d, %s", entry.Name, rd, rela, formatCond(cond)), nil

	case isa.FormatF4F4F4F4:
		fd := ob[1] & 0xf
		fa := (ob[1] >> 4) & 0xf
		fb := ob[2] & 0xf
		fc := (ob[2] >> 4) & 0xf
		return fmt.Sprintf("%s $f%d, $f%d, $f%d, $f%d", entry.Name, fd, fa, fb, fc), nil

	case isa.FormatAA16O8:
		addr := uint16(ob[1])<<8 | uint16(ob[2])
		return fmt.Sprintf("%s 0x%04x", entry.Name, addr), nil

	case isa.FormatRA16O8:
		rela := int16(uint16(ob[1])<<8 | uint16(ob[2]))
		return fmt.Sprintf("%s %d", entry.Name, rela), nil

	case isa.FormatD8:
		return entry.Name, nil
	}

	return "", fmt.Errorf("%s: unsupported encoding format", entry.Name)
}

// formatCond renders a condition-code nibble as "?<flags>", matching
// parseOperand's primitive (non-shorthand) syntax exactly so the output
// re-assembles byte-identically.
func formatCond(cond byte) string {
	s := "?"
	if cond&0x1 != 0 { // CondInvert
		s += "!"
	}
	if cond&0x2 != 0 { // CondN
		s += "n"
	}
	if cond&0x4 != 0 { // CondZ
		s += "z"
	}
	if cond&0x8 != 0 { // CondC
		s += "c"
	}
	return s
}
