package labels

import (
	"errors"
	"testing"
)

func TestLetters(t *testing.T) {
	tests := []struct {
		column int
		want   string
	}{
		{0, "A"},
		{2, "C"},
		{25, "Z"},
		{26, "AA"},
		{27, "AB"},
		{51, "AZ"},
		{52, "BA"},
		{701, "ZZ"},
		{702, "AAA"},
		{-1, ""},
	}
	for _, tt := range tests {
		got, err := Letters.Label(tt.column)
		if err != nil {
			t.Fatalf("Label(%d): %v", tt.column, err)
		}
		if got != tt.want {
			t.Errorf("Label(%d) = %q, want %q", tt.column, got, tt.want)
		}
	}
}

func TestNumbers(t *testing.T) {
	if got, _ := Numbers.Label(2); got != "3" {
		t.Errorf("Label(2) = %q, want 3", got)
	}
}

func TestByName(t *testing.T) {
	l, err := ByName("", "")
	if err != nil {
		t.Fatalf("default scheme: %v", err)
	}
	if got, _ := l.Label(0); got != "A" {
		t.Errorf("default scheme Label(0) = %q, want A", got)
	}

	l, err = ByName(SchemeNumbers, "")
	if err != nil {
		t.Fatalf("numbers scheme: %v", err)
	}
	if got, _ := l.Label(0); got != "1" {
		t.Errorf("numbers scheme Label(0) = %q, want 1", got)
	}

	if _, err := ByName("roman", ""); !errors.Is(err, ErrUnknownScheme) {
		t.Errorf("expected ErrUnknownScheme, got %v", err)
	}
}

func TestLua(t *testing.T) {
	l, err := NewLua(`function label(n) return "col_" .. (n + 1) end`)
	if err != nil {
		t.Fatalf("NewLua: %v", err)
	}
	defer l.Close()

	got, err := l.Label(2)
	if err != nil {
		t.Fatalf("Label: %v", err)
	}
	if got != "col_3" {
		t.Errorf("Label(2) = %q, want col_3", got)
	}

	// Repeated calls leave the stack balanced.
	for i := 0; i < 5; i++ {
		if _, err := l.Label(i); err != nil {
			t.Fatalf("Label(%d): %v", i, err)
		}
	}
	if top := l.L.GetTop(); top != 0 {
		t.Errorf("stack top = %d, want 0", top)
	}
}

func TestLuaErrors(t *testing.T) {
	if _, err := NewLua(`label = 1`); err == nil {
		t.Error("expected error when label is not a function")
	}
	if _, err := NewLua(`function (`); err == nil {
		t.Error("expected syntax error")
	}
	if _, err := NewLua(`x = os.time()`); err == nil {
		t.Error("os library should not be available")
	}

	l, err := NewLua(`function label(n) return {} end`)
	if err != nil {
		t.Fatalf("NewLua: %v", err)
	}
	if _, err := l.Label(0); err == nil {
		t.Error("expected error for non-string result")
	}

	l.Close()
	l.Close()
	if _, err := l.Label(0); !errors.Is(err, ErrLuaClosed) {
		t.Errorf("expected ErrLuaClosed, got %v", err)
	}
}

func TestLuaByName(t *testing.T) {
	l, err := ByName(SchemeLua, `function label(n) return string.upper("x" .. n) end`)
	if err != nil {
		t.Fatalf("ByName: %v", err)
	}
	if got, _ := l.Label(4); got != "X4" {
		t.Errorf("Label(4) = %q, want X4", got)
	}
	l.(*Lua).Close()
}
