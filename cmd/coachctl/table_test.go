package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestRenderTable(t *testing.T) {
	out := renderTable([]string{"Video", "Coaches"}, [][]string{{"intro", "2"}, {"short"}}, []columnAlignment{alignLeft, alignRight})

	for _, want := range []string{"VIDEO", "COACHES", "intro", "short"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected table to contain %q, got:\n%s", want, out)
		}
	}
	if lines := strings.Count(out, "\n") + 1; lines != 6 {
		t.Errorf("Expected 6 lines, got %d:\n%s", lines, out)
	}
}

func TestRenderTable_NoHeaders(t *testing.T) {
	if out := renderTable(nil, [][]string{{"x"}}, nil); out != "" {
		t.Errorf("Expected empty output, got %q", out)
	}
}

func TestPrintResult(t *testing.T) {
	tests := []struct {
		name   string
		asJSON bool
		rows   [][]string
		want   string
	}{
		{name: "json", asJSON: true, rows: [][]string{{"a"}}, want: "\"updated\": 2"},
		{name: "empty table", rows: nil, want: "(none)"},
		{name: "table", rows: [][]string{{"a"}}, want: "COL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			v := map[string]int{"updated": 2}
			if err := printResult(&buf, tt.asJSON, v, []string{"Col"}, tt.rows, nil); err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("Expected output to contain %q, got %q", tt.want, buf.String())
			}
		})
	}
}
