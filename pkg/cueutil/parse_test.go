// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"strings"
	"testing"
)

const testSchema = `
#File: {
	name:   string & =~"^[a-z]+$"
	count?: int & >=0
	tags?: [string]: string
}
`

type testFile struct {
	Name  string            `json:"name"`
	Count int               `json:"count"`
	Tags  map[string]string `json:"tags"`
}

func TestParseAndDecode(t *testing.T) {
	t.Parallel()

	data := []byte(`
name: "deploy"
count: 3
tags: {env: "prod"}
`)
	result, err := ParseAndDecode[testFile]([]byte(testSchema), data, "#File", WithFilename("file.cue"))
	if err != nil {
		t.Fatalf("ParseAndDecode() error = %v", err)
	}
	if result.Value.Name != "deploy" || result.Value.Count != 3 || result.Value.Tags["env"] != "prod" {
		t.Errorf("Value = %+v", result.Value)
	}
	if !result.Unified.Exists() {
		t.Error("Unified value missing")
	}
}

func TestParseAndDecodeErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		opts    []Option
		wantSub string
	}{
		{name: "syntax error", data: "name: {", wantSub: "file.cue"},
		{name: "schema violation", data: `name: "UPPER"`, wantSub: "name"},
		{name: "negative count", data: "name: \"ok\"\ncount: -1", wantSub: "count"},
		{name: "too large", data: `name: "ok"`, opts: []Option{WithMaxFileSize(4)}, wantSub: "exceeds maximum"},
		{name: "missing field when concrete", data: `count: 1`, opts: []Option{WithConcrete(true)}, wantSub: "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := append([]Option{WithFilename("file.cue")}, tt.opts...)
			_, err := ParseAndDecode[testFile]([]byte(testSchema), []byte(tt.data), "#File", opts...)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error = %v, want it to mention %q", err, tt.wantSub)
			}
		})
	}
}
