package util

import "testing"

func TestCollapseSpaces(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "runs", input: "  BOTANY   PARK\t1 ", want: "BOTANY PARK 1"},
		{name: "newlines", input: "a\n\nb\r\nc", want: "a b c"},
		{name: "empty", input: "   ", want: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CollapseSpaces(tc.input); got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
		})
	}
}

func TestNormalizeUpperNoSpace(t *testing.T) {
	if got := NormalizeUpperNoSpace(" conu 123 4567\n"); got != "CONU1234567" {
		t.Fatalf("got %q", got)
	}
}

func TestFoldCase(t *testing.T) {
	if got := FoldCase("Hamburg Süd"); got != "HAMBURG SUD" {
		t.Fatalf("got %q", got)
	}
}

func TestSplitLines(t *testing.T) {
	lines := SplitLines("a\r\nb\rc\n")
	if len(lines) != 3 || lines[0] != "a" || lines[1] != "b" || lines[2] != "c" {
		t.Fatalf("lines=%q", lines)
	}
	if SplitLines("") != nil {
		t.Fatalf("expected nil for empty text")
	}
}

func TestFindFirstIndex(t *testing.T) {
	if i, ok := FindFirstIndex("EMPTY RETURN", "RETURN"); !ok || i != 6 {
		t.Fatalf("i=%d ok=%v", i, ok)
	}
	if _, ok := FindFirstIndex("EMPTY", "RETURN"); ok {
		t.Fatalf("expected miss")
	}
}

func TestUnique(t *testing.T) {
	got := Unique([]string{"B", "", "A", "B"})
	if len(got) != 2 || got[0] != "B" || got[1] != "A" {
		t.Fatalf("got %q", got)
	}
}
