package app

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestRunREPL(t *testing.T) {
	a := newTestApp(t, "")
	if err := a.OpenText("a,b\n1,2"); err != nil {
		t.Fatal(err)
	}

	in := strings.NewReader(strings.Join([]string{
		"set 0 0 x",
		"# comment",
		"",
		"bogus 1",
		"remove-row 5",
		"undo",
		"add-column 2",
		"raw",
		"quit",
		"set 0 0 never",
	}, "\n"))
	var out strings.Builder

	if err := a.RunREPL(context.Background(), in, &out); err != nil {
		t.Fatalf("RunREPL() failed: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "error: \"bogus\": unknown command") {
		t.Errorf("missing unknown command error in %q", got)
	}
	if strings.Count(got, "error:") != 2 {
		t.Errorf("expected 2 errors in %q", got)
	}
	if !strings.Contains(got, "a,b,C\n1,2,\n") {
		t.Errorf("raw output missing in %q", got)
	}
	if raw := a.Model().RawData(); raw != "a,b,C\n1,2," {
		t.Errorf("RawData() = %q", raw)
	}
}

func TestRunREPL_EOF(t *testing.T) {
	a := newTestApp(t, "")
	if err := a.RunREPL(context.Background(), strings.NewReader("help\n"), io.Discard); err != nil {
		t.Errorf("RunREPL() at EOF = %v, want nil", err)
	}
}

func TestRunREPL_Cancelled(t *testing.T) {
	a := newTestApp(t, "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := a.RunREPL(ctx, strings.NewReader("show\n"), io.Discard)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("RunREPL() = %v, want context.Canceled", err)
	}
}

func TestExec(t *testing.T) {
	a := newTestApp(t, "")
	if err := a.OpenText("a\n1"); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		line    string
		wantErr error
	}{
		{"quit", ErrQuit},
		{"exit", ErrQuit},
		{"frobnicate", ErrUnknownCommand},
		{"  ", nil},
		{"show", nil},
		{"set 0 0 \"a\\tb\"", nil},
	}
	for _, tt := range tests {
		err := a.Exec(tt.line, io.Discard)
		if !errors.Is(err, tt.wantErr) {
			t.Errorf("Exec(%q) = %v, want %v", tt.line, err, tt.wantErr)
		}
	}
	if got := a.Model().Data(0, 0, 0); got != "a\tb" {
		t.Errorf("cell = %q, want %q", got, "a\tb")
	}
}
