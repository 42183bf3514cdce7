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

// The assembly language is a regular, line-oriented language: nothing
// needs to balance, and the only "expression" is a single leading unary
// minus ahead of a decimal number. A per-token state machine, one state
// per position within a line, is enough; no recursive-descent grammar or
// Pratt parser is needed.
//
// Unlike the teacher state machine this file is adapted from, a
// diagnostic here aborts the parse immediately rather than recording an
// error and continuing to the next line: §4.2/§7 escalate the source
// assembler's soft print-and-continue diagnostics to hard failures.

import (
	"fmt"

	"github.com/CoffeeShop-Development/estros/isa"
)

const ( // parser states index parserStateMap
	StStartLine = iota // at start of line
	StHaveLabel         // have a label, must see a mnemonic or newline
	StHaveOp            // have a mnemonic, gathering operands until newline
)

type stateHandler func(ctx *parserContext, t *Token) error

var parserStateMap []stateHandler = []stateHandler{
	doStartLineState,
	doHaveLabelState,
	doHaveOpState,
}

type parserContext struct { // bag o' context
	srcPath      string
	srcLine      int
	pc           uint32
	state        int
	mnemonic     string
	operandTexts []string
	pendingNeg   bool
	st           *SymbolTable
	out          []byte
}

// parseAssembly runs the two-pass assembler over lx: pass one drives the
// token stream through the per-line state machine, encoding instructions
// and recording labels/fixups as it goes; pass two resolves the fixups
// against the completed label table.
func parseAssembly(lx *Lexer) (*SymbolTable, []byte, error) {
	ctx := &parserContext{
		srcPath: lx.path,
		srcLine: 1,
		state:   StStartLine,
		st:      MakeSymbolTable(),
	}

	for {
		t := lx.GetToken()
		if t.Kind() == TkEOF {
			switch ctx.state {
			case StHaveOp:
				if err := ctx.assembleLine(); err != nil {
					return nil, nil, err
				}
			case StHaveLabel:
				// trailing label with no instruction is fine.
			}
			break
		}
		if t.Kind() == TkError {
			return nil, nil, fmt.Errorf("%s line %d: %s", ctx.srcPath, ctx.srcLine, t.Text())
		}
		if err := parserStateMap[ctx.state](ctx, t); err != nil {
			return nil, nil, err
		}
	}

	if err := ctx.st.Resolve(ctx.out); err != nil {
		return nil, nil, err
	}
	return ctx.st, ctx.out, nil
}

// doStartLineState handles labels and mnemonics at the start of a line.
func doStartLineState(ctx *parserContext, t *Token) error {
	switch t.Kind() {
	case TkNewline:
		ctx.srcLine++
		return nil
	case TkLabel:
		if err := ctx.st.DefineLabel(t.Text(), ctx.pc); err != nil {
			return ctx.lineErr(err)
		}
		ctx.state = StHaveLabel
		return nil
	case TkSymbol:
		ctx.startInstruction(t.Text())
		return nil
	default:
		return ctx.lineErrf("unexpected token %s at start of line", t.String())
	}
}

// doHaveLabelState handles the token immediately following a label: either
// a mnemonic on the same line, or a newline (a label-only line).
func doHaveLabelState(ctx *parserContext, t *Token) error {
	switch t.Kind() {
	case TkNewline:
		ctx.srcLine++
		ctx.state = StStartLine
		return nil
	case TkSymbol:
		ctx.startInstruction(t.Text())
		return nil
	default:
		return ctx.lineErrf("expected a mnemonic after a label, got %s", t.String())
	}
}

// doHaveOpState gathers operand tokens until the terminating newline. A
// leading "-" operator token is recombined with the following number into
// a single negative-immediate operand text.
func doHaveOpState(ctx *parserContext, t *Token) error {
	switch t.Kind() {
	case TkNewline:
		if err := ctx.assembleLine(); err != nil {
			return err
		}
		ctx.srcLine++
		ctx.state = StStartLine
		return nil
	case TkOperator:
		if t.Text() != "-" {
			return ctx.lineErrf("unexpected operator %q", t.Text())
		}
		ctx.pendingNeg = true
		return nil
	case TkNumber, TkSymbol:
		text := t.Text()
		if ctx.pendingNeg {
			text = "-" + text
			ctx.pendingNeg = false
		}
		ctx.operandTexts = append(ctx.operandTexts, text)
		return nil
	default:
		return ctx.lineErrf("unexpected token %s in operand list", t.String())
	}
}

func (ctx *parserContext) startInstruction(mnemonic string) {
	ctx.mnemonic = mnemonic
	ctx.operandTexts = nil
	ctx.pendingNeg = false
	ctx.state = StHaveOp
}

// assembleLine parses the accumulated operand texts and encodes one
// instruction at the current pc.
func (ctx *parserContext) assembleLine() error {
	ops := make([]Operand, 0, len(ctx.operandTexts))
	for _, s := range ctx.operandTexts {
		op, err := parseOperand(s)
		if err != nil {
			return ctx.lineErr(err)
		}
		ops = append(ops, op)
	}
	entry, ok := isa.Lookup(ctx.mnemonic)
	if !ok {
		return ctx.lineErrf("unknown mnemonic %q", ctx.mnemonic)
	}
	if err := emitInstruction(ctx.st, &ctx.out, ctx.pc, entry, ops); err != nil {
		return ctx.lineErr(err)
	}
	ctx.pc += isa.InstructionSize
	return nil
}

func (ctx *parserContext) lineErr(err error) error {
	return fmt.Errorf("%s line %d: %w", ctx.srcPath, ctx.srcLine, err)
}

func (ctx *parserContext) lineErrf(format string, args ...any) error {
	return ctx.lineErr(fmt.Errorf(format, args...))
}
