// Package isa is the single source of truth for the XM instruction set:
// the category/opcode/format table, the register ABI, the flag bits, and
// the memory map constants. asm, dis and sim all build on this package and
// nothing else.
package isa

// Category is the low nibble of byte 0 of every instruction.
type Category uint8

const (
	CategoryInteger Category = iota
	CategoryFloat
	CategoryControl
	CategoryVector
	CategoryTile
	CategoryExtension5
	CategoryExtension6
	CategoryExtension7
	CategoryExtension8
	CategoryExtension9
	CategoryExtension10
	CategoryExtension11
	CategoryExtension12
	CategoryExtension13
	CategoryExtension14
	CategoryDebug
)

func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return "unknown"
}

var categoryNames = [...]string{
	"integer", "float", "control", "vector", "tile",
	"extension5", "extension6", "extension7", "extension8", "extension9",
	"extension10", "extension11", "extension12", "extension13", "extension14",
	"debug",
}

// Format names the byte 1-3 layout of an instruction.
type Format uint8

const (
	FormatR4R4R4I4O8 Format = iota
	FormatR4R4I8O8
	FormatR4R4I8O8IFHBS
	FormatAA16O8
	FormatRA16O8
	FormatR4U4RA8O8
	FormatR8R8RA8O8
	FormatU16O8
	FormatF4F4F4F4
	FormatD8
)

// CategoryForFormat maps every format to its owning category byte, so that
// encoding (asm) and decoding (dis, sim) never disagree about which category
// an instruction belongs to.
func CategoryForFormat(f Format) Category {
	switch f {
	case FormatR4R4R4I4O8, FormatR4R4I8O8, FormatR4R4I8O8IFHBS,
		FormatAA16O8, FormatRA16O8, FormatR4U4RA8O8, FormatR8R8RA8O8, FormatU16O8:
		return CategoryInteger
	case FormatF4F4F4F4:
		return CategoryFloat
	case FormatD8:
		return CategoryDebug
	}
	return CategoryDebug
}

// InstEntry is one row of the static instruction table: a mnemonic, its
// encoding format, and its opcode within that format's category.
type InstEntry struct {
	Name   string
	Format Format
	Op     uint8
}

// InstTable enumerates every instruction. Ported from the XM_INST_LIST
// X-macro: integer ALU/memory ops, control flow, branches, float ops
// (including the complex-ISA variants), and the debug halt instruction.
var InstTable = []InstEntry{
	{"add", FormatR4R4I8O8IFHBS, 0x00},
	{"sub", FormatR4R4I8O8IFHBS, 0x01},
	{"mul", FormatR4R4I8O8IFHBS, 0x02},
	{"div", FormatR4R4I8O8IFHBS, 0x03},
	{"rem", FormatR4R4I8O8IFHBS, 0x04},
	{"imul", FormatR4R4I8O8IFHBS, 0x05},
	{"and", FormatR4R4I8O8IFHBS, 0x06},
	{"xor", FormatR4R4I8O8IFHBS, 0x07},
	{"or", FormatR4R4I8O8IFHBS, 0x08},
	{"shl", FormatR4R4I8O8IFHBS, 0x09},
	{"shr", FormatR4R4I8O8IFHBS, 0x0A},
	{"pcnt", FormatR4R4I8O8IFHBS, 0x0B},
	{"clz", FormatR4R4I8O8IFHBS, 0x0C},
	{"clo", FormatR4R4I8O8IFHBS, 0x0D},
	{"bswap", FormatR4R4I8O8IFHBS, 0x0E},
	{"ipcnt", FormatR4R4I8O8IFHBS, 0x0F},
	{"stb", FormatR4R4I8O8IFHBS, 0x10},
	{"stw", FormatR4R4I8O8IFHBS, 0x11},
	{"stl", FormatR4R4I8O8IFHBS, 0x12},
	{"stq", FormatR4R4I8O8IFHBS, 0x13},
	{"ldb", FormatR4R4I8O8IFHBS, 0x14},
	{"ldw", FormatR4R4I8O8IFHBS, 0x15},
	{"ldl", FormatR4R4I8O8IFHBS, 0x16},
	{"ldq", FormatR4R4I8O8IFHBS, 0x17},
	{"lea", FormatR4R4I8O8IFHBS, 0x18},
	// 0x19 - 0x1F reserved, undefined
	{"cmp", FormatR4R4I8O8IFHBS, 0x20},
	{"cmpkp", FormatR4R4I8O8IFHBS, 0x21},
	// 0x22 - 0x3F hole

	{"jmp", FormatAA16O8, 0x40},
	{"jmprel", FormatRA16O8, 0x41},
	{"call", FormatR4U4RA8O8, 0x42},
	{"ret", FormatU16O8, 0x43},
	// 0x44 - 0x4F hole

	{"bz", FormatR4U4RA8O8, 0x50},
	{"b", FormatR4U4RA8O8, 0x51},
	{"bgzs", FormatR4U4RA8O8, 0x52},
	{"bgpc", FormatR4U4RA8O8, 0x53},
	{"bgpcrela", FormatR4U4RA8O8, 0x54},
	{"bo", FormatR4U4RA8O8, 0x55},
	{"bgoz", FormatR4U4RA8O8, 0x56},
	{"bemax", FormatR4U4RA8O8, 0x57},
	{"bet0", FormatR4U4RA8O8, 0x58},
	{"bet1", FormatR4U4RA8O8, 0x59},
	{"bet2", FormatR4U4RA8O8, 0x5a},
	{"bet3", FormatR4U4RA8O8, 0x5b},
	{"bet4", FormatR4U4RA8O8, 0x5c},
	{"bet5", FormatR4U4RA8O8, 0x5d},
	{"bet6", FormatR4U4RA8O8, 0x5e},
	{"bet7", FormatR4U4RA8O8, 0x5f},

	// Floating point
	{"fadd3", FormatF4F4F4F4, 0x00},
	{"fsub3", FormatF4F4F4F4, 0x01},
	{"fdiv3", FormatF4F4F4F4, 0x02},
	{"fmul3", FormatF4F4F4F4, 0x03},
	{"fmod3", FormatF4F4F4F4, 0x04},
	{"fmadd", FormatF4F4F4F4, 0x05},
	{"fmsub", FormatF4F4F4F4, 0x06},
	{"fsqrt3", FormatF4F4F4F4, 0x07},
	{"fhyp", FormatF4F4F4F4, 0x08},
	{"fnorm", FormatF4F4F4F4, 0x09},
	{"fabs", FormatF4F4F4F4, 0x0a},
	{"fsign", FormatF4F4F4F4, 0x0b},
	{"fnabs", FormatF4F4F4F4, 0x0c},
	{"fcos", FormatF4F4F4F4, 0x0d},
	{"fsin", FormatF4F4F4F4, 0x0e},
	{"ftan", FormatF4F4F4F4, 0x0f},
	{"facos", FormatF4F4F4F4, 0x10},
	{"fatan", FormatF4F4F4F4, 0x11},
	{"fasin", FormatF4F4F4F4, 0x12},
	{"fcbrt", FormatF4F4F4F4, 0x13},
	{"fy0", FormatF4F4F4F4, 0x14},
	{"fy1", FormatF4F4F4F4, 0x15},
	{"fj0", FormatF4F4F4F4, 0x16},
	{"fj1", FormatF4F4F4F4, 0x17},
	{"fexp", FormatF4F4F4F4, 0x18},
	{"frsqrt", FormatF4F4F4F4, 0x19},
	{"frcbrt", FormatF4F4F4F4, 0x1a},
	{"fpow2", FormatF4F4F4F4, 0x1b},
	{"fpow3", FormatF4F4F4F4, 0x1c},
	{"fmax", FormatF4F4F4F4, 0x1d},
	{"fmin", FormatF4F4F4F4, 0x1e},
	{"fclamp", FormatF4F4F4F4, 0x1f},
	{"finv", FormatF4F4F4F4, 0x20},
	{"fconstpi", FormatF4F4F4F4, 0x21},
	{"fconste", FormatF4F4F4F4, 0x22},
	{"fconstpi2", FormatF4F4F4F4, 0x23},
	{"frad", FormatF4F4F4F4, 0x24},
	{"fdeg", FormatF4F4F4F4, 0x25},
	{"fsel", FormatF4F4F4F4, 0x26},
	{"fsel2", FormatF4F4F4F4, 0x27},
	{"fgamma", FormatF4F4F4F4, 0x28},
	{"flgamma", FormatF4F4F4F4, 0x29},

	// Complex ISA
	{"faddcrr", FormatF4F4F4F4, 0x30},
	{"fsubcrr", FormatF4F4F4F4, 0x31},
	{"fdivcrr", FormatF4F4F4F4, 0x32},
	{"fmulcrr", FormatF4F4F4F4, 0x33},
	{"fmodcrr", FormatF4F4F4F4, 0x34},
	// hole
	{"faddcri", FormatF4F4F4F4, 0x40},
	{"fsubcri", FormatF4F4F4F4, 0x41},
	{"fdivcri", FormatF4F4F4F4, 0x42},
	{"fmulcri", FormatF4F4F4F4, 0x43},
	{"fmodcri", FormatF4F4F4F4, 0x44},

	// Debug
	{"halt", FormatD8, 0x0f},
}

var (
	byName     map[string]InstEntry
	byCatOp    map[Category]map[uint8]InstEntry
)

func init() {
	byName = make(map[string]InstEntry, len(InstTable))
	byCatOp = make(map[Category]map[uint8]InstEntry)
	for _, e := range InstTable {
		byName[e.Name] = e
		cat := CategoryForFormat(e.Format)
		m, ok := byCatOp[cat]
		if !ok {
			m = make(map[uint8]InstEntry)
			byCatOp[cat] = m
		}
		m[e.Op] = e
	}
}

// Lookup finds an instruction by mnemonic.
func Lookup(name string) (InstEntry, bool) {
	e, ok := byName[name]
	return e, ok
}

// LookupOp finds an instruction by category and opcode. For
// FormatR4R4I8O8IFHBS entries the opcode is always the low-7-bit stored
// form; callers decoding a live instruction word must mask the high bit off
// byte 3 before calling this for the integer category.
func LookupOp(cat Category, op uint8) (InstEntry, bool) {
	m, ok := byCatOp[cat]
	if !ok {
		return InstEntry{}, false
	}
	e, ok := m[op]
	return e, ok
}

// HasImmediate reports whether a raw opcode byte (byte 3 of an encoded
// integer-category instruction) carries the high bit used by
// FormatR4R4I8O8IFHBS to select the immediate-operand layout over the
// register-operand layout.
func HasImmediate(opByte uint8) bool {
	return opByte&0x80 != 0
}

// StoredOp strips the R4R4I8O8IFHBS high bit, returning the table opcode.
func StoredOp(opByte uint8) uint8 {
	return opByte & 0x7f
}

// Flag register bit positions.
const (
	FlagN  = 1 << 0 // Negative
	FlagZ  = 1 << 1 // Zero
	FlagC  = 1 << 2 // Carry
	FlagV  = 1 << 3 // Underflow
	FlagO  = 1 << 4 // Overflow
	FlagPG = 1 << 5 // Paging enabled
)

// Condition-code bits, packed in the high nibble of byte 1 of every
// FormatR4U4RA8O8 instruction (branches and call). asm encodes these from
// operand syntax; sim applies them against the live flag register; both
// read them from here so the two halves never drift apart.
const (
	CondInvert = 0x01
	CondN      = 0x02
	CondZ      = 0x04
	CondC      = 0x08
)

// Page permission bits (XM_PAGE_*).
const (
	PageRead    = 1
	PageWrite   = 2
	PageExecute = 4
)

// ABI register indices.
const (
	AbiT0 = 0
	AbiT1 = 1
	AbiT2 = 2
	AbiT3 = 3
	AbiT4 = 4
	AbiT5 = 5
	AbiT6 = 6
	AbiT7 = 7

	AbiA0 = 8 // return value is also on r8
	AbiA1 = 9
	AbiA2 = 10
	AbiA3 = 11

	AbiRA = 12
	AbiBP = 13
	AbiSP = 14
	AbiTP = 15
)

// Memory map.
const (
	PageSize = 8192

	RomBase = 0x00008000
	RomSize = 16 * PageSize

	RamBase = 0xF0000000
	RamSize = 512 * PageSize
)

// Register file sizes.
const (
	NumIntRegs     = 16
	NumFloatRegs   = 16
	NumVectorRegs  = 16
	NumTileRegs    = 16
	NumControlRegs = 16
	TileWidth      = 16 // floats per tile register
)

// InstructionSize is the fixed width of every encoded instruction.
const InstructionSize = 4
