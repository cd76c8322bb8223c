package lsp

import "testing"

func TestOffsetToPosition(t *testing.T) {
	src := []byte("module m;\n  foo bar;\nendmodule\n")

	cases := []struct {
		offset int
		want   Position
	}{
		{0, Position{Line: 0, Character: 0}},
		{9, Position{Line: 0, Character: 9}},  // the '\n' itself
		{10, Position{Line: 1, Character: 0}}, // first char of line 2
		{15, Position{Line: 1, Character: 5}}, // inside "foo bar;"
	}
	for _, c := range cases {
		got := offsetToPosition(src, c.offset)
		if got != c.want {
			t.Errorf("offsetToPosition(%d) = %+v, want %+v", c.offset, got, c.want)
		}
	}
}

func TestPositionToOffset_RoundTrip(t *testing.T) {
	src := []byte("module m;\n  foo bar;\nendmodule\n")

	for offset := 0; offset <= len(src); offset++ {
		pos := offsetToPosition(src, offset)
		back := positionToOffset(src, pos)
		if back != offset {
			t.Errorf("round trip for offset %d: position %+v back to %d", offset, pos, back)
		}
	}
}

func TestPositionToOffset_ClampsPastLineEnd(t *testing.T) {
	src := []byte("ab\ncd\n")
	got := positionToOffset(src, Position{Line: 0, Character: 100})
	want := 2 // clamps to just before the newline ending line 0
	if got != want {
		t.Errorf("positionToOffset clamped = %d, want %d", got, want)
	}
}
