package main

import "testing"

func assembleString(t *testing.T, src string) []byte {
	t.Helper()
	lx, err := MakeStringLexer(t.Name(), src)
	if err != nil {
		t.Fatalf("MakeStringLexer: %v", err)
	}
	_, code, err := parseAssembly(lx)
	if err != nil {
		t.Fatalf("parseAssembly: %v", err)
	}
	return code
}

func TestAssembleAddThenJumpToLabel(t *testing.T) {
	src := "start:\tadd $t0, $t0, 1\n\tjmp start\n"
	code := assembleString(t, src)
	want := []byte{
		0x00, 0x00, 0x01, 0x80, // add $t0, $t0, 1
		0x00, 0x00, 0x00, 0x40, // jmp start (resolves to pc 0)
	}
	if len(code) != len(want) {
		t.Fatalf("got %d bytes, want %d: % x", len(code), len(want), code)
	}
	for i := range want {
		if code[i] != want[i] {
			t.Errorf("byte %d: got 0x%02x, want 0x%02x", i, code[i], want[i])
		}
	}
}

func TestAssembleLabelOnlyLine(t *testing.T) {
	src := "loop:\n\thalt\n"
	code := assembleString(t, src)
	if len(code) != 4 {
		t.Fatalf("got %d bytes, want 4", len(code))
	}
}

func TestAssembleUnknownMnemonicFails(t *testing.T) {
	lx, err := MakeStringLexer(t.Name(), "frobnicate $t0, $t0, 1\n")
	if err != nil {
		t.Fatalf("MakeStringLexer: %v", err)
	}
	if _, _, err := parseAssembly(lx); err == nil {
		t.Errorf("expected error for unknown mnemonic")
	}
}

func TestAssembleUndefinedLabelFails(t *testing.T) {
	lx, err := MakeStringLexer(t.Name(), "jmp nowhere\n")
	if err != nil {
		t.Fatalf("MakeStringLexer: %v", err)
	}
	if _, _, err := parseAssembly(lx); err == nil {
		t.Errorf("expected error for undefined label")
	}
}

func TestAssembleDuplicateLabelFails(t *testing.T) {
	lx, err := MakeStringLexer(t.Name(), "start:\n\thalt\nstart:\n\thalt\n")
	if err != nil {
		t.Fatalf("MakeStringLexer: %v", err)
	}
	if _, _, err := parseAssembly(lx); err == nil {
		t.Errorf("expected error for duplicate label")
	}
}

func TestAssembleMultipleInstructionsAdvancePC(t *testing.T) {
	code := assembleString(t, "halt\nhalt\nhalt\n")
	if len(code) != 12 {
		t.Fatalf("got %d bytes, want 12", len(code))
	}
}
