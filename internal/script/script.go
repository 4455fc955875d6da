// Package script runs sequences of grid edits.
//
// A script is a YAML document:
//
//	name: tidy
//	steps:
//	  - op: set
//	    row: 0
//	    column: 1
//	    value: "9"
//	  - op: move-row
//	    row: 0
//	    to: 2
//
// The same steps can be written one per line for interactive use, see
// ParseLine.
package script

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dshills/dsvedit/internal/dsv"
	"github.com/dshills/dsvedit/internal/engine"
	"github.com/dshills/dsvedit/internal/engine/offset"
)

// Errors returned when parsing scripts.
var (
	ErrUnknownOp   = errors.New("unknown operation")
	ErrInvalidStep = errors.New("invalid step")
)

// Operation names.
const (
	OpSet          = "set"
	OpAddRow       = "add-row"
	OpRemoveRow    = "remove-row"
	OpAddColumn    = "add-column"
	OpRemoveColumn = "remove-column"
	OpMoveRow      = "move-row"
	OpMoveColumn   = "move-column"
	OpCut          = "cut"
	OpCopy         = "copy"
	OpPaste        = "paste"
	OpUnclip       = "unclip"
	OpClear        = "clear"
	OpUndo         = "undo"
	OpRedo         = "redo"
)

// Editor is the set of grid operations a script drives. *engine.Model
// implements it.
type Editor interface {
	SetCell(row, column int, value string) error
	AddRow(index int) error
	RemoveRow(index int) error
	AddColumn(index int) error
	RemoveColumn(index int) error
	MoveRow(src, dst int) error
	MoveColumn(src, dst int) error
	CutAndCopy(sel engine.Selection, mode engine.ClipboardMode) error
	Paste(start offset.Coord, data string) error
	ClearClipboard()
	ClearRegion(region dsv.Region, c offset.Coord, sel engine.Selection) error
	Undo() (bool, error)
	Redo() (bool, error)
}

// Step is one edit.
type Step struct {
	Op     string `yaml:"op"`
	Row    int    `yaml:"row,omitempty"`
	Column int    `yaml:"column,omitempty"`

	// To is the destination of a move.
	To int `yaml:"to,omitempty"`

	// EndRow and EndColumn close the selection of cut, copy and clear.
	// They default to Row and Column.
	EndRow    *int `yaml:"end-row,omitempty"`
	EndColumn *int `yaml:"end-column,omitempty"`

	// Value is the text written by set.
	Value string `yaml:"value,omitempty"`

	// Data is external text for paste, used when the clipboard is empty.
	Data string `yaml:"data,omitempty"`

	// Region selects what clear empties: body, row-header, column-header
	// or corner-header.
	Region string `yaml:"region,omitempty"`
}

// Selection returns the rectangle addressed by the step.
func (s Step) Selection() engine.Selection {
	sel := engine.Cells(s.Row, s.Column)
	if s.EndRow != nil {
		sel.EndRow = *s.EndRow
	}
	if s.EndColumn != nil {
		sel.EndColumn = *s.EndColumn
	}
	return sel
}

// Validate checks the operation name and region.
func (s Step) Validate() error {
	switch s.Op {
	case OpSet, OpAddRow, OpRemoveRow, OpAddColumn, OpRemoveColumn,
		OpMoveRow, OpMoveColumn, OpCut, OpCopy, OpPaste, OpUnclip, OpUndo, OpRedo:
	case OpClear:
		if s.Region != "" {
			if _, ok := dsv.ParseRegion(s.Region); !ok {
				return fmt.Errorf("region %q: %w", s.Region, ErrInvalidStep)
			}
		}
	case "":
		return fmt.Errorf("missing op: %w", ErrInvalidStep)
	default:
		return fmt.Errorf("%q: %w", s.Op, ErrUnknownOp)
	}
	return nil
}

// Apply runs the step against e.
func (s Step) Apply(e Editor) error {
	switch s.Op {
	case OpSet:
		return e.SetCell(s.Row, s.Column, s.Value)
	case OpAddRow:
		return e.AddRow(s.Row)
	case OpRemoveRow:
		return e.RemoveRow(s.Row)
	case OpAddColumn:
		return e.AddColumn(s.Column)
	case OpRemoveColumn:
		return e.RemoveColumn(s.Column)
	case OpMoveRow:
		return e.MoveRow(s.Row, s.To)
	case OpMoveColumn:
		return e.MoveColumn(s.Column, s.To)
	case OpCut:
		return e.CutAndCopy(s.Selection(), engine.ModeCutCells)
	case OpCopy:
		return e.CutAndCopy(s.Selection(), engine.ModeCopyCells)
	case OpPaste:
		return e.Paste(offset.Cell(s.Row, s.Column), s.Data)
	case OpUnclip:
		e.ClearClipboard()
		return nil
	case OpClear:
		region := dsv.RegionBody
		if s.Region != "" {
			region, _ = dsv.ParseRegion(s.Region)
		}
		c := offset.Cell(s.Row, s.Column)
		if region == dsv.RegionRowHeader {
			c = offset.Row(s.Row)
		}
		return e.ClearRegion(region, c, s.Selection())
	case OpUndo:
		_, err := e.Undo()
		return err
	case OpRedo:
		_, err := e.Redo()
		return err
	default:
		return fmt.Errorf("%q: %w", s.Op, ErrUnknownOp)
	}
}

// Script is a named list of steps.
type Script struct {
	Name  string `yaml:"name,omitempty"`
	Steps []Step `yaml:"steps"`
}

// StepError reports the step a script stopped at.
type StepError struct {
	Index int
	Step  Step
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s): %v", e.Index+1, e.Step.Op, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Parse decodes and validates a YAML script.
func Parse(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decoding script: %w", err)
	}
	for i, step := range s.Steps {
		if err := step.Validate(); err != nil {
			return nil, &StepError{Index: i, Step: step, Err: err}
		}
	}
	return &s, nil
}

// Load reads a script file.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = path
	}
	return s, nil
}

// Marshal encodes the script as YAML.
func (s *Script) Marshal() ([]byte, error) {
	return yaml.Marshal(s)
}

// Apply runs every step in order and stops at the first failure. The
// context is checked between steps.
func (s *Script) Apply(ctx context.Context, e Editor) error {
	for i, step := range s.Steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := step.Apply(e); err != nil {
			return &StepError{Index: i, Step: step, Err: err}
		}
	}
	return nil
}
