package config

// Section structs are plain values. Mutating a returned section does not
// modify the Config it came from.

// DocumentConfig describes how DSV text is split into rows and fields.
type DocumentConfig struct {
	// Delimiter separates fields. Escapes such as "\t" are accepted.
	Delimiter string `toml:"delimiter"`

	// RowDelimiter terminates rows.
	RowDelimiter string `toml:"rowDelimiter"`

	// Quote is the single quote character. Empty disables quoting.
	Quote string `toml:"quote"`

	// Header treats the first row as column names.
	Header bool `toml:"header"`
}

// QuoteByte returns the quote character, or zero when quoting is off.
func (d DocumentConfig) QuoteByte() byte {
	if d.Quote == "" {
		return 0
	}
	return d.Quote[0]
}

// HistoryConfig bounds the undo history.
type HistoryConfig struct {
	// MaxEntries is the number of undoable operations kept.
	MaxEntries int `toml:"maxEntries"`
}

// PasteConfig describes how external clipboard text is split.
type PasteConfig struct {
	FieldSeparator string `toml:"fieldSeparator"`
	RowSeparator   string `toml:"rowSeparator"`
}

// LabelsConfig selects how inserted columns are named.
type LabelsConfig struct {
	// Scheme is "letters", "numbers" or "lua".
	Scheme string `toml:"scheme"`

	// Script is the Lua source or a path to it, used with the lua scheme.
	// It must define label(column).
	Script string `toml:"script"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	// Level is debug, info, warn or error.
	Level string `toml:"level"`
}
