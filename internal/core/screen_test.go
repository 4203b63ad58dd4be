package core

import (
	"strings"
	"testing"
)

func TestNewScreenStartsBlank(t *testing.T) {
	s := NewScreen(80, 24)

	if s.Width() != 80 || s.Height() != 24 {
		t.Fatalf("NewScreen(80, 24) sized %dx%d", s.Width(), s.Height())
	}

	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			if s.Get(x, y) != ' ' {
				t.Fatalf("new screen should be all spaces, got %q at (%d, %d)", s.Get(x, y), x, y)
			}
		}
	}
}

func TestScreenSetGet(t *testing.T) {
	s := NewScreen(10, 10)

	s.Set(5, 5, '▓')
	if s.Get(5, 5) != '▓' {
		t.Errorf("Get(5, 5) = %q, expected the ship block", s.Get(5, 5))
	}

	// Writes outside the buffer are dropped, reads come back as spaces
	s.Set(-1, 0, 'A')
	s.Set(100, 0, 'A')
	s.Set(0, -1, 'A')
	s.Set(0, 100, 'A')

	if s.Get(-1, 0) != ' ' || s.Get(100, 0) != ' ' {
		t.Error("out of bounds Get should return a space")
	}
}

func TestScreenSetColored(t *testing.T) {
	s := NewScreen(10, 10)

	s.SetColored(3, 4, '✸', ColorBrightRed)
	cell := s.GetCell(3, 4)
	if cell.Rune != '✸' || cell.Color != ColorBrightRed {
		t.Errorf("GetCell(3, 4) = %+v, expected rune '✸' in bright red", cell)
	}

	// Plain Set resets the color to default
	s.Set(3, 4, 'X')
	cell = s.GetCell(3, 4)
	if cell.Rune != 'X' || cell.Color != ColorDefault {
		t.Errorf("after Set, GetCell(3, 4) = %+v, expected default color", cell)
	}

	// Out of bounds is silent and reads back as a default space
	s.SetColored(-1, 0, 'A', ColorRed)
	s.SetColored(0, 100, 'A', ColorRed)
	if c := s.GetCell(-1, 0); c.Rune != ' ' || c.Color != ColorDefault {
		t.Errorf("out of bounds GetCell = %+v, expected default space", c)
	}
}

func TestScreenDrawTextColored(t *testing.T) {
	s := NewScreen(20, 5)
	s.DrawTextColored(2, 1, "Hit!", ColorYellow)

	for i, r := range "Hit!" {
		cell := s.GetCell(2+i, 1)
		if cell.Rune != r || cell.Color != ColorYellow {
			t.Errorf("DrawTextColored: cell (%d, 1) = %+v, expected %q in yellow", 2+i, cell, r)
		}
	}
}

func TestScreenFillAndClear(t *testing.T) {
	s := NewScreen(10, 10)
	s.Fill('~')

	if s.Get(0, 0) != '~' || s.Get(9, 9) != '~' {
		t.Error("Fill should flood the whole buffer")
	}

	s.Clear()
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			if s.Get(x, y) != ' ' {
				t.Fatalf("after Clear, expected space at (%d, %d), got %q", x, y, s.Get(x, y))
			}
		}
	}
}

func TestScreenDrawTextClipsAtEdge(t *testing.T) {
	s := NewScreen(20, 5)
	s.DrawText(2, 1, "Fire!")

	for i, r := range "Fire!" {
		if s.Get(2+i, 1) != r {
			t.Errorf("DrawText: expected %q at (%d, 1), got %q", r, 2+i, s.Get(2+i, 1))
		}
	}

	// Only "Mi" fits before the right edge
	s.DrawText(18, 0, "Miss")
	if s.Get(18, 0) != 'M' || s.Get(19, 0) != 'i' {
		t.Error("text should clip at the right edge")
	}
}

func TestScreenDrawTextCentered(t *testing.T) {
	s := NewScreen(20, 5)
	s.DrawTextCentered(2, "Hit")

	x := (20 - 3) / 2
	if s.Get(x, 2) != 'H' || s.Get(x+1, 2) != 'i' || s.Get(x+2, 2) != 't' {
		t.Error("DrawTextCentered did not land the text at the midpoint")
	}
}

func TestScreenDrawRect(t *testing.T) {
	s := NewScreen(10, 10)
	s.DrawRect(NewRect(2, 2, 3, 3), '~')

	for y := 2; y < 5; y++ {
		for x := 2; x < 5; x++ {
			if s.Get(x, y) != '~' {
				t.Errorf("DrawRect: expected water at (%d, %d), got %q", x, y, s.Get(x, y))
			}
		}
	}

	if s.Get(1, 1) != ' ' || s.Get(5, 5) != ' ' {
		t.Error("DrawRect should leave the outside untouched")
	}
}

func TestScreenDrawBox(t *testing.T) {
	s := NewScreen(10, 10)
	s.DrawBox(NewRect(1, 1, 5, 4))

	corners := []struct {
		x, y int
		want rune
	}{
		{1, 1, '┌'}, {5, 1, '┐'}, {1, 4, '└'}, {5, 4, '┘'},
	}
	for _, c := range corners {
		if got := s.Get(c.x, c.y); got != c.want {
			t.Errorf("corner (%d, %d) = %q, expected %q", c.x, c.y, got, c.want)
		}
	}

	for x := 2; x < 5; x++ {
		if s.Get(x, 1) != '─' || s.Get(x, 4) != '─' {
			t.Errorf("horizontal frame edge broken at x=%d", x)
		}
	}
	for y := 2; y < 4; y++ {
		if s.Get(1, y) != '│' || s.Get(5, y) != '│' {
			t.Errorf("vertical frame edge broken at y=%d", y)
		}
	}
}

func TestScreenDrawLines(t *testing.T) {
	s := NewScreen(10, 10)
	s.DrawHLine(2, 2, 5, '─')
	s.DrawVLine(3, 4, 4, '│')

	for x := 2; x < 7; x++ {
		if s.Get(x, 2) != '─' {
			t.Errorf("DrawHLine: expected '─' at (%d, 2), got %q", x, s.Get(x, 2))
		}
	}
	for y := 4; y < 8; y++ {
		if s.Get(3, y) != '│' {
			t.Errorf("DrawVLine: expected '│' at (3, %d), got %q", y, s.Get(3, y))
		}
	}
}

func TestScreenString(t *testing.T) {
	s := NewScreen(5, 3)
	s.DrawText(0, 0, "~~~~~")
	s.DrawText(0, 1, "~▓▓~~")
	s.DrawText(0, 2, "~~~✕~")

	want := "~~~~~\n~▓▓~~\n~~~✕~"
	if got := s.String(); got != want {
		t.Errorf("String() = %q, expected %q", got, want)
	}
}

func TestScreenResize(t *testing.T) {
	s := NewScreen(12, 10)
	s.DrawText(0, 0, "Flagship")
	s.DrawText(0, 5, "Escort")

	// Shrinking keeps whatever still fits in the top-left corner
	s.Resize(8, 4)
	if s.Width() != 8 || s.Height() != 4 {
		t.Errorf("after Resize(8, 4), dimensions are %dx%d", s.Width(), s.Height())
	}
	if !strings.HasPrefix(s.Row(0), "Flagship") {
		t.Errorf("top row should survive the shrink, got %q", s.Row(0))
	}

	// Growing keeps the old content and pads with spaces
	s.Resize(15, 8)
	if !strings.HasPrefix(s.Row(0), "Flagship") {
		t.Errorf("top row should survive the grow, got %q", s.Row(0))
	}
	if s.Get(14, 7) != ' ' {
		t.Error("grown area should be blank")
	}
}

func TestScreenRow(t *testing.T) {
	s := NewScreen(10, 5)
	s.DrawText(0, 2, "B4")

	row := s.Row(2)
	if !strings.HasPrefix(row, "B4") {
		t.Errorf("Row(2) should start with the label, got %q", row)
	}
	if len(row) != 10 {
		t.Errorf("row should span the full width, got %d", len(row))
	}

	if s.Row(-1) != strings.Repeat(" ", 10) {
		t.Errorf("out of bounds row should be blank, got %q", s.Row(-1))
	}
}
