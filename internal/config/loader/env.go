package loader

import (
	"os"
	"strconv"
	"strings"
)

// EnvLoader maps environment variables onto setting paths.
type EnvLoader struct {
	prefix  string
	mapping map[string]string // variable -> dotted setting path
	lookup  func(string) (string, bool)
	environ func() []string
}

// NewEnvLoader creates a loader for variables starting with prefix, which
// includes the trailing underscore.
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: defaultEnvMapping(prefix),
		lookup:  os.LookupEnv,
		environ: os.Environ,
	}
}

// defaultEnvMapping names the short variables. Anything else with the
// prefix is mapped by envToPath.
func defaultEnvMapping(prefix string) map[string]string {
	return map[string]string{
		prefix + "LOG_LEVEL":     "logging.level",
		prefix + "DELIMITER":     "document.delimiter",
		prefix + "ROW_DELIMITER": "document.rowDelimiter",
		prefix + "QUOTE":         "document.quote",
		prefix + "HEADER":        "document.header",
		prefix + "MAX_UNDO":      "history.maxEntries",
		prefix + "LABELS":        "labels.scheme",
		prefix + "STRICT":        "strict",
	}
}

// stringPaths are never converted to booleans or numbers.
var stringPaths = map[string]bool{
	"document.delimiter":    true,
	"document.rowDelimiter": true,
	"document.quote":        true,
	"paste.fieldSeparator":  true,
	"paste.rowSeparator":    true,
	"labels.script":         true,
}

// AddMapping maps a variable onto a setting path.
func (l *EnvLoader) AddMapping(env, path string) {
	l.mapping[env] = path
}

// Load returns the settings found in the environment.
func (l *EnvLoader) Load() (map[string]any, error) {
	out := make(map[string]any)

	for env, path := range l.mapping {
		if v, ok := l.lookup(env); ok {
			setByPath(out, path, parseValue(path, v))
		}
	}

	for _, kv := range l.environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, l.prefix) {
			continue
		}
		if _, mapped := l.mapping[name]; mapped {
			continue
		}
		path := l.envToPath(name)
		setByPath(out, path, parseValue(path, value))
	}
	return out, nil
}

// envToPath converts DSVEDIT_PASTE_FIELD_SEPARATOR to paste.fieldSeparator.
func (l *EnvLoader) envToPath(env string) string {
	parts := strings.Split(strings.TrimPrefix(env, l.prefix), "_")
	section := strings.ToLower(parts[0])
	if len(parts) == 1 {
		return section
	}
	name := strings.ToLower(parts[1])
	for _, p := range parts[2:] {
		if p == "" {
			continue
		}
		name += strings.ToUpper(p[:1]) + strings.ToLower(p[1:])
	}
	return section + "." + name
}

func parseValue(path, s string) any {
	if stringPaths[path] || s == "" {
		return s
	}
	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	return s
}

func setByPath(m map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	cur := m
	for _, p := range parts[:len(parts)-1] {
		next, ok := cur[p].(map[string]any)
		if !ok {
			next = make(map[string]any)
			cur[p] = next
		}
		cur = next
	}
	cur[parts[len(parts)-1]] = value
}
