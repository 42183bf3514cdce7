package main

import "testing"

func TestDefineLabelAndLookup(t *testing.T) {
	st := MakeSymbolTable()
	if err := st.DefineLabel("start", 0x10); err != nil {
		t.Fatalf("DefineLabel: %v", err)
	}
	pc, ok := st.Lookup("start")
	check(t, ok, true)
	check(t, pc, uint32(0x10))
}

func TestDefineLabelRedefinitionFails(t *testing.T) {
	st := MakeSymbolTable()
	if err := st.DefineLabel("start", 0); err != nil {
		t.Fatalf("DefineLabel: %v", err)
	}
	if err := st.DefineLabel("start", 4); err == nil {
		t.Errorf("expected error redefining label")
	}
}

func TestDefineLabelNameTooLong(t *testing.T) {
	st := MakeSymbolTable()
	long := make([]byte, maxLabelNameLen+1)
	for i := range long {
		long[i] = 'x'
	}
	if err := st.DefineLabel(string(long), 0); err == nil {
		t.Errorf("expected error for over-long label name")
	}
}

func TestResolveRelO16S8(t *testing.T) {
	st := MakeSymbolTable()
	out := make([]byte, 4)
	st.DefineLabel("loop", 0)
	st.AddFixup(Fixup{Name: "loop", Type: FixupRelO16S8, PC: 4, Offset: 0})
	if err := st.Resolve(out); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	check(t, int8(out[2]), int8(-4))
}

func TestResolveAbsO16(t *testing.T) {
	st := MakeSymbolTable()
	out := make([]byte, 4)
	st.DefineLabel("target", 0x1234)
	st.AddFixup(Fixup{Name: "target", Type: FixupAbsO16, PC: 0, Offset: 0})
	if err := st.Resolve(out); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	check(t, out[1], byte(0x12))
	check(t, out[2], byte(0x34))
}

func TestResolveRelO16S16(t *testing.T) {
	st := MakeSymbolTable()
	out := make([]byte, 8)
	st.DefineLabel("far", 0)
	st.AddFixup(Fixup{Name: "far", Type: FixupRelO16S16, PC: 8, Offset: 4})
	if err := st.Resolve(out); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	check(t, out[5], byte(0xff))
	check(t, out[6], byte(0xf8))
}

func TestResolveUndefinedLabelFails(t *testing.T) {
	st := MakeSymbolTable()
	out := make([]byte, 4)
	st.AddFixup(Fixup{Name: "nope", Type: FixupAbsO16, PC: 0, Offset: 0})
	if err := st.Resolve(out); err == nil {
		t.Errorf("expected error resolving undefined label")
	}
}

func TestResolveRelO16S8OutOfRangeFails(t *testing.T) {
	st := MakeSymbolTable()
	out := make([]byte, 4)
	st.DefineLabel("faraway", 1000)
	st.AddFixup(Fixup{Name: "faraway", Type: FixupRelO16S8, PC: 0, Offset: 0})
	if err := st.Resolve(out); err == nil {
		t.Errorf("expected range error")
	}
}
