// Package labels generates header names for inserted columns.
package labels

import (
	"errors"
	"fmt"
	"strconv"
)

// Scheme names accepted by ByName.
const (
	SchemeLetters = "letters"
	SchemeNumbers = "numbers"
	SchemeLua     = "lua"
)

// ErrUnknownScheme is returned by ByName for an unsupported scheme.
var ErrUnknownScheme = errors.New("unknown label scheme")

// Labeler names the column at a 0-based position.
type Labeler interface {
	Label(column int) (string, error)
}

// Func adapts a plain function to Labeler.
type Func func(column int) string

// Label calls f.
func (f Func) Label(column int) (string, error) {
	return f(column), nil
}

// Letters names columns A..Z, AA..AZ, BA.. as spreadsheets do.
var Letters Labeler = Func(letters)

// Numbers names columns 1, 2, 3...
var Numbers Labeler = Func(func(column int) string {
	return strconv.Itoa(column + 1)
})

func letters(column int) string {
	if column < 0 {
		return ""
	}
	var buf [16]byte
	i := len(buf)
	for n := column + 1; n > 0; n = (n - 1) / 26 {
		i--
		buf[i] = byte('A' + (n-1)%26)
	}
	return string(buf[i:])
}

// ByName returns the labeler for a scheme. The lua scheme compiles script.
func ByName(scheme, script string) (Labeler, error) {
	switch scheme {
	case "", SchemeLetters:
		return Letters, nil
	case SchemeNumbers:
		return Numbers, nil
	case SchemeLua:
		return NewLua(script)
	default:
		return nil, fmt.Errorf("%q: %w", scheme, ErrUnknownScheme)
	}
}
