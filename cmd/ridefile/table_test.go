package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestRenderPlainIsTabSeparated(t *testing.T) {
	got := renderPlain([][]string{{"a", "b"}, {"c", ""}})
	if got != "a\tb\nc\t\n" {
		t.Fatalf("renderPlain = %q", got)
	}
}

func TestRenderTablePadsShortRows(t *testing.T) {
	out := renderTable([]string{"Interval", "Begin (s)"}, [][]string{{"1"}, {"2", "12.50"}}, []columnAlignment{alignRight, alignRight})
	for _, want := range []string{"Interval", "Begin (s)", "12.50"} {
		if !strings.Contains(out, want) {
			t.Fatalf("table missing %q:\n%s", want, out)
		}
	}
	if renderTable(nil, [][]string{{"x"}}, nil) != "" {
		t.Fatal("expected empty output without headers")
	}
}

func TestWriteRowsPlainWhenNotTerminal(t *testing.T) {
	var buf bytes.Buffer
	writeRows(&buf, []string{"File"}, [][]string{{"a.gc"}, {"b.csv"}}, nil)
	if buf.String() != "a.gc\nb.csv\n" {
		t.Fatalf("writeRows = %q", buf.String())
	}
}
