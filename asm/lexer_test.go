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

import (
	"strings"
	"testing"
)

func check(t *testing.T, a1 any, a2 any) {
	if a1 != a2 {
		t.Errorf("%[1]v (a %[1]T) != %[2]v (a %[2]T)", a1, a2)
	}
}

func TestLexer1(t *testing.T) {
	data := ".symbol\n"
	lx, err := MakeStringLexer(t.Name(), data)
	check(t, err, nil)
	tk := lx.GetToken()
	check(t, TkSymbol, tk.Kind())
	check(t, data[:len(data)-1], tk.Text())
}

func TestLexer2(t *testing.T) {
	data := ".sym\"bol\n"
	lx, err := MakeStringLexer(t.Name(), data)
	check(t, err, nil)
	tk := lx.GetToken()
	check(t, TkError, tk.Kind())
	check(t, "character 0x22 (34) unexpected [2]", tk.Text())
}

func TestLexer3(t *testing.T) {
	data := ".aSymbol \"and a string\"\n"
	lx, err := MakeStringLexer(t.Name(), data)
	check(t, err, nil)
	tk := lx.GetToken()
	check(t, TkSymbol, tk.Kind())
	check(t, ".aSymbol", tk.Text())
	tk = lx.GetToken()
	check(t, TkString, tk.Kind())
	check(t, `"and a string"`, tk.Text())
}

func TestLexer4(t *testing.T) {
	data := "# .symbol\n"
	lx, err := MakeStringLexer(t.Name(), data)
	check(t, err, nil)
	tk := lx.GetToken()
	check(t, TkNewline, tk.Kind())
}

func TestLexer5(t *testing.T) {
	data := "10\n0x10\n0X3F\n"
	lx, err := MakeStringLexer(t.Name(), data)
	check(t, err, nil)
	tk := lx.GetToken()
	check(t, TkNumber, tk.Kind())
	check(t, "10", tk.Text())
	tk = lx.GetToken()
	check(t, TkNewline, tk.Kind())

	tk = lx.GetToken()
	check(t, TkNumber, tk.Kind())
	check(t, "0x10", tk.Text())
	tk = lx.GetToken()
	check(t, TkNewline, tk.Kind())

	tk = lx.GetToken()
	check(t, TkNumber, tk.Kind())
	check(t, "0X3F", tk.Text())
	tk = lx.GetToken()
	check(t, TkNewline, tk.Kind())
}

func TestLexer6(t *testing.T) {
	data := "1x0\n0xxxx10\n3F\n"
	lx, err := MakeStringLexer(t.Name(), data)
	check(t, err, nil)
	tk := lx.GetToken()
	check(t, TkError, tk.Kind())
	tk = lx.GetToken()
	check(t, TkNewline, tk.Kind())

	tk = lx.GetToken()
	check(t, TkError, tk.Kind())
	tk = lx.GetToken()
	check(t, TkNewline, tk.Kind())

	tk = lx.GetToken()
	check(t, TkError, tk.Kind())
	tk = lx.GetToken()
	check(t, TkNewline, tk.Kind())
}

func TestLexerRegisterAndCondOperands(t *testing.T) {
	data := "$r0 $t3 $a1 $sp $cr2 ?nz ?!gc\n"
	lx, err := MakeStringLexer(t.Name(), data)
	check(t, err, nil)
	want := []string{"$r0", "$t3", "$a1", "$sp", "$cr2", "?nz", "?!gc"}
	for _, w := range want {
		tk := lx.GetToken()
		check(t, TkSymbol, tk.Kind())
		check(t, w, tk.Text())
	}
	tk := lx.GetToken()
	check(t, TkNewline, tk.Kind())
}

var progData string = `
		lui $t0, count		# load reg1 with the address of count
		lw $t1, $t0, 0		# load reg1 with a loop counter
loop:	addi $t1, $t1, -1	# decrement counter
		beq ?z, loop		# loop until zero
		halt
count:	.fill 5
`

var progDataAsString []string = []string{
	"{TkNewline \\n}",
	"{TkSymbol lui}",
	"{TkSymbol $t0}",
	"{TkSymbol count}",
	"{TkNewline \\n}",
	"{TkSymbol lw}",
	"{TkSymbol $t1}",
	"{TkSymbol $t0}",
	"{TkNumber 0}",
	"{TkNewline \\n}",
	"{TkLabel loop}",
	"{TkSymbol addi}",
	"{TkSymbol $t1}",
	"{TkSymbol $t1}",
	"{TkOperator -}",
	"{TkNumber 1}",
	"{TkNewline \\n}",
	"{TkSymbol beq}",
	"{TkSymbol ?z}",
	"{TkSymbol loop}",
	"{TkNewline \\n}",
	"{TkSymbol halt}",
	"{TkNewline \\n}",
	"{TkLabel count}",
	"{TkSymbol .fill}",
	"{TkNumber 5}",
	"{TkNewline \\n}",
	"{TkEOF EOF}",
}

func TestLexerProgram(t *testing.T) {
	lx, err := MakeStringLexer(t.Name(), progData)
	check(t, err, nil)
	var i int
	for token := lx.GetToken(); token.Kind() != TkEOF; token = lx.GetToken() {
		s := strings.ReplaceAll(token.String(), "\n", "\\n")
		check(t, s, progDataAsString[i])
		i++
	}
}
