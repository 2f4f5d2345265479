// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"strings"
	"testing"
)

const testSchema = `
#Entry: {
	name:    string & !=""
	count:   int & >=0
	enabled: bool | *false
	note?:   string
}
#Table: {
	entries: [...#Entry]
}
`

type (
	testEntry struct {
		Name    string `json:"name"`
		Count   int    `json:"count"`
		Enabled bool   `json:"enabled"`
		Note    string `json:"note,omitempty"`
	}

	testTable struct {
		Entries []testEntry `json:"entries"`
	}
)

func mustSchema(t *testing.T, path string) *Schema {
	t.Helper()

	s, err := CompileSchema([]byte(testSchema), path)
	if err != nil {
		t.Fatalf("CompileSchema() error = %v", err)
	}
	return s
}

func TestDecode(t *testing.T) {
	t.Parallel()

	s := mustSchema(t, "#Table")

	tests := []struct {
		name     string
		data     string
		wantErr  string
		wantName string
	}{
		{
			name:     "valid with default",
			data:     `entries: [{name: "a", count: 1}]`,
			wantName: "a",
		},
		{
			name:    "constraint violated",
			data:    `entries: [{name: "a", count: -1}]`,
			wantErr: "entries[0].count",
		},
		{
			name:    "missing required field",
			data:    `entries: [{count: 1}]`,
			wantErr: "entries[0].name",
		},
		{
			name:    "wrong type",
			data:    `entries: [{name: 3, count: 1}]`,
			wantErr: "entries[0].name",
		},
		{
			name:    "syntax error",
			data:    `entries: [`,
			wantErr: "table.cue",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Decode[testTable](s, []byte(tt.data), WithFilename("table.cue"))
			if tt.wantErr != "" {
				if err == nil {
					t.Fatalf("Decode() = %+v, want error containing %q", got, tt.wantErr)
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("Decode() error = %v, want it to contain %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if len(got.Entries) != 1 || got.Entries[0].Name != tt.wantName || got.Entries[0].Enabled {
				t.Errorf("Decode() = %+v", got)
			}
		})
	}
}

func TestDecode_FileSize(t *testing.T) {
	t.Parallel()

	s := mustSchema(t, "#Entry")
	_, err := Decode[testEntry](s, []byte(`name: "a", count: 1`), WithMaxFileSize(4), WithFilename("big.cue"))
	if err == nil || !strings.Contains(err.Error(), "exceeds maximum") {
		t.Fatalf("Decode() error = %v, want size error", err)
	}
}

func TestCompileSchema_MissingDefinition(t *testing.T) {
	t.Parallel()

	if _, err := CompileSchema([]byte(testSchema), "#Nope"); err == nil {
		t.Fatal("CompileSchema() error = nil")
	}
}

func TestParseAndDecode(t *testing.T) {
	t.Parallel()

	got, err := ParseAndDecode[testEntry]([]byte(testSchema), []byte(`name: "x", count: 2, note: "hi"`), "#Entry")
	if err != nil {
		t.Fatalf("ParseAndDecode() error = %v", err)
	}
	if got.Name != "x" || got.Count != 2 || got.Note != "hi" {
		t.Errorf("ParseAndDecode() = %+v", got)
	}
}

func TestFormatError_NonCUE(t *testing.T) {
	t.Parallel()

	if FormatError(nil, "x.cue") != nil {
		t.Error("FormatError(nil) != nil")
	}

	cause := errors.New("boom")
	err := FormatError(cause, "x.cue")
	if !errors.Is(err, cause) || !strings.HasPrefix(err.Error(), "x.cue: ") {
		t.Errorf("FormatError() = %v", err)
	}
}

func TestFormatPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path []string
		want string
	}{
		{nil, ""},
		{[]string{"name"}, "name"},
		{[]string{"log", "level"}, "log.level"},
		{[]string{"games", "0", "binary"}, "games[0].binary"},
		{[]string{"a", "0", "b", "12"}, "a[0].b[12]"},
		{[]string{"0"}, "0"},
	}

	for _, tt := range tests {
		if got := formatPath(tt.path); got != tt.want {
			t.Errorf("formatPath(%v) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
