package loader

import "testing"

func testEnvLoader(vars map[string]string) *EnvLoader {
	l := NewEnvLoader("DSVEDIT_")
	l.lookup = func(k string) (string, bool) {
		v, ok := vars[k]
		return v, ok
	}
	l.environ = func() []string {
		out := make([]string, 0, len(vars))
		for k, v := range vars {
			out = append(out, k+"="+v)
		}
		return out
	}
	return l
}

func getByPath(m map[string]any, path ...string) (any, bool) {
	var cur any = m
	for _, p := range path {
		mm, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = mm[p]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func TestEnvLoader_Load(t *testing.T) {
	l := testEnvLoader(map[string]string{
		"DSVEDIT_LOG_LEVEL":             "debug",
		"DSVEDIT_DELIMITER":             "1",
		"DSVEDIT_HEADER":                "no",
		"DSVEDIT_MAX_UNDO":              "20",
		"DSVEDIT_STRICT":                "true",
		"DSVEDIT_PASTE_FIELD_SEPARATOR": `\t`,
		"OTHER_VALUE":                   "x",
	})

	m, err := l.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	tests := []struct {
		path []string
		want any
	}{
		{[]string{"logging", "level"}, "debug"},
		{[]string{"document", "delimiter"}, "1"},
		{[]string{"document", "header"}, false},
		{[]string{"history", "maxEntries"}, int64(20)},
		{[]string{"strict"}, true},
		{[]string{"paste", "fieldSeparator"}, `\t`},
	}
	for _, tt := range tests {
		got, ok := getByPath(m, tt.path...)
		if !ok || got != tt.want {
			t.Errorf("%v = %v (%T), want %v", tt.path, got, got, tt.want)
		}
	}
	if _, ok := m["other"]; ok {
		t.Error("unprefixed variable was loaded")
	}
}

func TestEnvLoader_envToPath(t *testing.T) {
	l := NewEnvLoader("DSVEDIT_")
	tests := map[string]string{
		"DSVEDIT_STRICT":                 "strict",
		"DSVEDIT_LABELS_SCRIPT":          "labels.script",
		"DSVEDIT_PASTE_ROW_SEPARATOR":    "paste.rowSeparator",
		"DSVEDIT_DOCUMENT_ROW_DELIMITER": "document.rowDelimiter",
	}
	for env, want := range tests {
		if got := l.envToPath(env); got != want {
			t.Errorf("envToPath(%q) = %q, want %q", env, got, want)
		}
	}
}
