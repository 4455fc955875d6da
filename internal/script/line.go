package script

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dshills/dsvedit/internal/dsv"
)

// ParseLine parses the one-line form of a step:
//
//	set ROW COL VALUE
//	add-row ROW | remove-row ROW
//	add-column COL | remove-column COL
//	move-row ROW TO | move-column COL TO
//	cut|copy ROW COL [END_ROW END_COL]
//	paste ROW COL [DATA]
//	unclip
//	clear ROW COL [END_ROW END_COL]
//	clear row ROW | clear column COL | clear all
//	undo | redo
//
// VALUE and DATA run to the end of the line and may be a Go quoted string
// to carry escapes such as \t and \n.
func ParseLine(line string) (Step, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Step{}, fmt.Errorf("empty line: %w", ErrInvalidStep)
	}
	s := Step{Op: fields[0]}
	args := fields[1:]

	var err error
	switch s.Op {
	case OpSet:
		if len(args) < 2 {
			return s, usage(s.Op, "ROW COL VALUE")
		}
		if s.Row, s.Column, err = ints2(args[0], args[1]); err != nil {
			return s, err
		}
		s.Value, err = rest(line, 3)
	case OpAddRow, OpRemoveRow:
		if len(args) != 1 {
			return s, usage(s.Op, "ROW")
		}
		s.Row, err = strconv.Atoi(args[0])
	case OpAddColumn, OpRemoveColumn:
		if len(args) != 1 {
			return s, usage(s.Op, "COL")
		}
		s.Column, err = strconv.Atoi(args[0])
	case OpMoveRow:
		if len(args) != 2 {
			return s, usage(s.Op, "ROW TO")
		}
		s.Row, s.To, err = ints2(args[0], args[1])
	case OpMoveColumn:
		if len(args) != 2 {
			return s, usage(s.Op, "COL TO")
		}
		s.Column, s.To, err = ints2(args[0], args[1])
	case OpCut, OpCopy:
		err = parseSelection(&s, args)
	case OpPaste:
		if len(args) < 2 {
			return s, usage(s.Op, "ROW COL [DATA]")
		}
		if s.Row, s.Column, err = ints2(args[0], args[1]); err != nil {
			return s, err
		}
		s.Data, err = rest(line, 3)
	case OpClear:
		err = parseClear(&s, args)
	case OpUndo, OpRedo, OpUnclip:
		if len(args) != 0 {
			return s, usage(s.Op, "")
		}
	default:
		return s, fmt.Errorf("%q: %w", s.Op, ErrUnknownOp)
	}
	if err != nil {
		return s, fmt.Errorf("%s: %w", s.Op, err)
	}
	return s, nil
}

func parseSelection(s *Step, args []string) error {
	if len(args) != 2 && len(args) != 4 {
		return usage(s.Op, "ROW COL [END_ROW END_COL]")
	}
	var err error
	if s.Row, s.Column, err = ints2(args[0], args[1]); err != nil {
		return err
	}
	if len(args) == 4 {
		r, c, err := ints2(args[2], args[3])
		if err != nil {
			return err
		}
		s.EndRow, s.EndColumn = &r, &c
	}
	return nil
}

func parseClear(s *Step, args []string) error {
	if len(args) == 0 {
		return usage(s.Op, "ROW COL [END_ROW END_COL] | row ROW | column COL | all")
	}
	var err error
	switch args[0] {
	case "row":
		if len(args) != 2 {
			return usage(s.Op, "row ROW")
		}
		s.Region = dsv.RegionRowHeader.String()
		s.Row, err = strconv.Atoi(args[1])
		return err
	case "column":
		if len(args) != 2 {
			return usage(s.Op, "column COL")
		}
		s.Region = dsv.RegionColumnHeader.String()
		s.Column, err = strconv.Atoi(args[1])
		return err
	case "all":
		s.Region = dsv.RegionCornerHeader.String()
		return nil
	}
	return parseSelection(s, args)
}

// rest returns the text after the first n fields of line, unquoting it if
// it is a quoted string.
func rest(line string, n int) (string, error) {
	s := strings.TrimLeft(line, " \t")
	for i := 0; i < n; i++ {
		j := strings.IndexAny(s, " \t")
		if j < 0 {
			return "", nil
		}
		s = strings.TrimLeft(s[j:], " \t")
	}
	if len(s) >= 2 && (s[0] == '"' || s[0] == '`') {
		v, err := strconv.Unquote(s)
		if err != nil {
			return "", fmt.Errorf("value %s: %w", s, ErrInvalidStep)
		}
		return v, nil
	}
	return s, nil
}

func ints2(a, b string) (int, int, error) {
	x, err := strconv.Atoi(a)
	if err != nil {
		return 0, 0, fmt.Errorf("%q is not a number: %w", a, ErrInvalidStep)
	}
	y, err := strconv.Atoi(b)
	if err != nil {
		return 0, 0, fmt.Errorf("%q is not a number: %w", b, ErrInvalidStep)
	}
	return x, y, nil
}

func usage(op, args string) error {
	return fmt.Errorf("usage: %s %s: %w", op, args, ErrInvalidStep)
}
