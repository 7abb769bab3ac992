package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateString(t *testing.T) {
	tests := []struct {
		name     string
		s        string
		maxLen   int
		expected string
	}{
		{name: "shorter than max", s: "hello", maxLen: 10, expected: "hello"},
		{name: "equal to max", s: "hello", maxLen: 5, expected: "hello"},
		{name: "longer than max", s: "hello world", maxLen: 8, expected: "hello..."},
		{name: "maxLen less than 3", s: "hello", maxLen: 2, expected: "he"},
		{name: "maxLen exactly 3", s: "hello", maxLen: 3, expected: "..."},
		{name: "empty string", s: "", maxLen: 5, expected: ""},
		{name: "maxLen zero", s: "hello", maxLen: 0, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TruncateString(tt.s, tt.maxLen))
		})
	}
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	cols := []Column{{Name: "Service", Key: "Service"}, {Name: "Note", Key: "Note", Width: 6}}
	rows := []map[string]string{
		{"Service": "mysql", "Note": "production"},
		{"Service": "aws", "Note": "dev"},
	}

	RenderTable(&buf, cols, rows, func(s string) string { return strings.ToUpper(s) })

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 3)
	assert.Contains(t, lines[0], "SERVICE")
	assert.Contains(t, lines[1], "mysql")
	assert.Contains(t, lines[1], "pro...")
	assert.Contains(t, lines[2], "aws")
}

func TestRenderTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	RenderTable(&buf, []Column{{Name: "Service", Key: "Service"}}, nil, nil)
	assert.Empty(t, buf.String())
}
