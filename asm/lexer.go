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

// lexer.go - exported types: Token and Lexer.

import (
	"fmt"
	"io"
)

var lexerDebug = false // prints token stream to stdout

const SP = byte(' ')
const TAB = byte('\t')
const NL = byte('\n')

const COMMA = byte(',')
const COLON = byte(':')
const NEG = byte('-')

const DOT = byte('.')
const UNDERSCORE = byte('_')
const DOLLAR = byte('$')
const QUESTION = byte('?')

const COMMENT = byte('#')

// N.B. The below is my preferred solution to Go's appalling lack of support
// for type-checked enumerations. Note that if e.g. lexerStateType is changed
// to be an int instead of a struct containing an int, then assignments to the
// lexerState are no longer type checked - the RHS can be any int.

// Lexer states. FYI: A label is a symbol followed by a colon. We recognize
// the trailing colon when we come to the end of the symbol characters and
// immediately transition back to state stBetween, so no "stInLabel" state
// is required. Also, no white space need follow the colon.

type lexerStateType struct {
	s int
}

var stBetween lexerStateType = lexerStateType{0}
var stInError lexerStateType = lexerStateType{1}
var stInSymbol lexerStateType = lexerStateType{2}
var stInString lexerStateType = lexerStateType{3}
var stInNumber lexerStateType = lexerStateType{4}
var stInComment lexerStateType = lexerStateType{6}
var stEnd lexerStateType = lexerStateType{7}

// Token kinds

type TokenKindType struct {
	k int
}

var TkError TokenKindType = TokenKindType{0}
var TkNewline TokenKindType = TokenKindType{1}
var TkSymbol TokenKindType = TokenKindType{2}
var TkLabel TokenKindType = TokenKindType{3}
var TkString TokenKindType = TokenKindType{4}
var TkNumber TokenKindType = TokenKindType{5}
var TkOperator TokenKindType = TokenKindType{6}
var TkEOF TokenKindType = TokenKindType{7}

var kindToString = []string{
	"TkError",
	"TkNewline",
	"TkSymbol",
	"TkLabel",
	"TkString",
	"TkNumber",
	"TkOperator",
	"TkEOF",
}

// =====
// Token
// =====

type Token struct {
	tokenText string
	tokenKind TokenKindType
}

func (t *Token) String() string {
	s := t.tokenText
	if s == "\n" {
		s = "\\n"
	}
	return fmt.Sprintf("{%s %s}", kindToString[t.tokenKind.k], s)
}

func (t *Token) Text() string {
	return t.tokenText
}

func (t *Token) Kind() TokenKindType {
	return t.tokenKind
}

var eofToken = Token{"EOF", TkEOF}   // const
var nlToken = Token{"\n", TkNewline} // const

// =====
// Lexer
// =====

type Lexer struct {
	reader     PushbackByteReader
	lexerState lexerStateType
	path       string
	pbToken    *Token
}

func MakeFileLexer(path string) (*Lexer, error) {
	pbr, err := NewFilePushbackByteReader(path)
	if err != nil {
		return nil, err
	}
	return &Lexer{reader: pbr, lexerState: stBetween, path: path}, nil
}

func MakeStringLexer(ident string, body string) (*Lexer, error) {
	pbr, err := NewStringPushbackByteReader(body)
	if err != nil {
		return nil, err
	}
	return &Lexer{reader: pbr, lexerState: stBetween, path: ident}, nil
}

func (lx *Lexer) Close() {
	lx.reader.Close()
}

// GetToken returns the next lexer token (or an EOF or error token).
//
// The language is all ASCII. White space includes only space, tab, carriage
// return, and newline. Newline is returned as a separate token so the grammar can be
// line-oriented. Tokens are:
//
// 1. Symbols. Unquoted restricted character strings. The first character
// must be an "initial symbol character" (letters, '.', '_', '$', '?' — the
// last two so operand prefixes like "$r0" or "?nz" lex as a single symbol)
// and the remaining characters must be "symbol characters". A symbol
// immediately followed by ':' with no intervening whitespace is returned
// as a TkLabel instead.
//
// 2. Single-character tokens: comma (ignored as operand separator) and '-'
// (returned as TkOperator so a bare minus ahead of a number token can be
// recombined by the parser into a negative immediate).
//
// 3. Numbers: decimal, or hex starting with 0x/0X.
//
// Comments ("# ...") run to end of line. On error, the lexer returns an
// error token and discards characters until the next newline (or EOF).
func (lx *Lexer) GetToken() *Token {
	result := lx.internalGetToken()
	if lexerDebug {
		fmt.Printf("[ %s ]\n", result)
	}
	return result
}

func (lx *Lexer) internalGetToken() *Token {
	if lx.lexerState == stEnd {
		return &eofToken
	}
	if lx.pbToken != nil {
		result := lx.pbToken
		lx.pbToken = nil
		if lx.lexerState != stBetween {
			lx.lexerState = stInError
			result = &Token{"internal error: pbToken but not between tokens", TkError}
		}
		return result
	}

	var accumulator []byte

	for b, err := lx.reader.ReadByte(); ; b, err = lx.reader.ReadByte() {
		if err == io.EOF {
			lx.lexerState = stEnd
			return &eofToken
		}
		if err != nil {
			lx.lexerState = stInError
			return &Token{err.Error(), TkError}
		}
		if b >= 0x80 {
			lx.lexerState = stInError
			return &Token{fmt.Sprintf("non-ASCII character 0x%02x", b), TkError}
		}

		switch lx.lexerState {
		case stInError, stInComment:
			if b == NL {
				lx.lexerState = stBetween
				return &nlToken
			}
		case stBetween:
			if len(accumulator) != 0 {
				panic(fmt.Sprintf("token accumulator not empty between tokens: %s\n", accumulator))
			}
			if b == NL {
				return &nlToken
			}
			if b == COMMENT {
				lx.lexerState = stInComment
			} else if isWhiteSpaceChar(b) {
				// nothing to see here
			} else if isDigitChar(b) {
				accumulator = append(accumulator, b)
				lx.lexerState = stInNumber
			} else if isInitialSymbolChar(b) {
				accumulator = append(accumulator, b)
				lx.lexerState = stInSymbol
			} else if isQuoteChar(b) {
				lx.lexerState = stInString
			} else if isOperatorChar(b) {
				lx.lexerState = stBetween
				if b != COMMA {
					return &Token{string(b), TkOperator}
				}
			} else {
				msg := fmt.Sprintf("character 0x%02x (%d) unexpected [1]", b, b)
				lx.lexerState = stInError
				return &Token{msg, TkError}
			}
		case stInSymbol:
			if len(accumulator) == 0 {
				panic("token accumulator empty in symbol")
			}
			if isWhiteSpaceChar(b) || isOperatorChar(b) {
				lx.lexerState = stBetween
				var result *Token
				if b == COLON {
					result = &Token{string(accumulator), TkLabel}
				} else {
					result = &Token{string(accumulator), TkSymbol}
					lx.reader.UnreadByte(b)
				}
				accumulator = nil
				return result
			} else if isSymbolChar(b) {
				accumulator = append(accumulator, b)
			} else {
				msg := fmt.Sprintf("character 0x%02x (%d) unexpected [2]", b, b)
				lx.lexerState = stInError
				return &Token{msg, TkError}
			}
		case stInString:
			if isQuoteChar(b) {
				lx.lexerState = stBetween
				result := &Token{`"` + string(accumulator) + `"`, TkString}
				accumulator = nil
				return result
			} else if b == NL {
				lx.lexerState = stInError
				return &Token{"newline in string", TkError}
			} else {
				accumulator = append(accumulator, b)
			}
		case stInNumber:
			if isDigitChar(b) || isHexLetter(b) || isX(b) {
				accumulator = append(accumulator, b)
			} else if isWhiteSpaceChar(b) || isOperatorChar(b) {
				var result *Token
				if !validNumber(accumulator) {
					result = &Token{fmt.Sprintf("invalid number %s", string(accumulator)), TkError}
					lx.lexerState = stInError
				} else {
					result = &Token{string(accumulator), TkNumber}
					lx.lexerState = stBetween
				}
				accumulator = nil
				lx.reader.UnreadByte(b)
				return result
			} else {
				msg := fmt.Sprintf("character 0x%02x (%d) unexpected in number", b, b)
				lx.lexerState = stInError
				return &Token{msg, TkError}
			}
		}
	}
}

// Unget a token, allowing one-token look ahead.
func (lx *Lexer) unget(tk *Token) error {
	if lx.pbToken != nil {
		lx.lexerState = stInError
		return fmt.Errorf("internal error: too many token pushbacks")
	}
	if lx.lexerState != stBetween {
		lx.lexerState = stInError
		return fmt.Errorf("internal error: invalid token pushback")
	}
	lx.pbToken = tk
	return nil
}

func validNumber(num []byte) bool {
	isHex := false
	digitOffset := 0
	if len(num) > 2 && num[0] == byte('0') && isX(num[1]) {
		isHex = true
		digitOffset = 2
	}
	for i := digitOffset; i < len(num); i++ {
		switch {
		case isDigitChar(num[i]):
		case isHex && isHexLetter(num[i]):
		default:
			return false
		}
	}
	return true
}

func isWhiteSpaceChar(b byte) bool {
	return b == SP || b == TAB || b == NL || b == '\r'
}

func isDigitChar(b byte) bool {
	return b >= '0' && b <= '9'
}

func isHexLetter(b byte) bool {
	switch {
	case b >= 'A' && b <= 'F':
		return true
	case b >= 'a' && b <= 'f':
		return true
	}
	return false
}

func isX(b byte) bool {
	return b == 'x' || b == 'X'
}

func isQuoteChar(b byte) bool {
	return b == '"'
}

func isOperatorChar(b byte) bool {
	return b == COMMA || b == COLON || b == NEG
}

// '$' and '?' are allowed only as the initial character of a symbol: they
// start register/condition-code operands ("$r0", "?nz"). '.' is also
// initial-only; '_' may start a symbol and may also appear later in it.
func isInitialSymbolChar(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z':
		return true
	case b >= 'A' && b <= 'Z':
		return true
	case b == DOT || b == UNDERSCORE:
		return true
	case b == DOLLAR || b == QUESTION:
		return true
	}
	return false
}

func isSymbolChar(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z':
		return true
	case b >= 'A' && b <= 'Z':
		return true
	case b >= '0' && b <= '9':
		return true
	case b == UNDERSCORE:
		return true
	case b == '!': // condition-code invert marker, e.g. "?!z"
		return true
	}
	return false
}
