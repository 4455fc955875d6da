package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dshills/dsvedit/internal/script"
)

const replHelp = `commands:
  show                      print the grid
  raw                       print the buffer text
  save [PATH]               write the buffer
  help                      print this text
  quit                      leave
edits:
  set ROW COL VALUE         add-row ROW        remove-row ROW
  add-column COL            remove-column COL  move-row ROW TO
  move-column COL TO        cut|copy ROW COL [END_ROW END_COL]
  paste ROW COL [DATA]      clear ROW COL [END_ROW END_COL]
  clear row ROW             clear column COL   clear all
  undo                      redo               unclip
`

// RunREPL reads commands from in until EOF, quit or ctx is done. Edit
// failures are reported on out and do not stop the loop.
func (a *Application) RunREPL(ctx context.Context, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		err := a.Exec(scanner.Text(), out)
		switch {
		case errors.Is(err, ErrQuit):
			return nil
		case err != nil:
			fmt.Fprintf(out, "error: %v\n", err)
		}
	}
}

// Exec runs one REPL line.
func (a *Application) Exec(line string, out io.Writer) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}
	fields := strings.Fields(line)

	switch fields[0] {
	case "quit", "exit":
		return ErrQuit
	case "help":
		_, err := io.WriteString(out, replHelp)
		return err
	case "show":
		m, err := a.requireModel()
		if err != nil {
			return err
		}
		return Render(out, m, DefaultCellWidth)
	case "raw":
		m, err := a.requireModel()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, m.RawData())
		return err
	case "save":
		path := ""
		if len(fields) > 1 {
			path = fields[1]
		}
		return a.Save(path)
	}

	step, err := script.ParseLine(line)
	if err != nil {
		if errors.Is(err, script.ErrUnknownOp) {
			return fmt.Errorf("%q: %w", fields[0], ErrUnknownCommand)
		}
		return err
	}
	return a.ApplyStep(step)
}
