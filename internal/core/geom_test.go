package core

import "testing"

func TestRectContains(t *testing.T) {
	r := NewRect(10, 10, 20, 15)

	tests := []struct {
		name     string
		x, y     int
		expected bool
	}{
		{"inside", 15, 15, true},
		{"top-left corner", 10, 10, true},
		{"bottom-right edge (exclusive)", 30, 25, false},
		{"outside left", 5, 15, false},
		{"outside right", 35, 15, false},
		{"outside top", 15, 5, false},
		{"outside bottom", 15, 30, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := r.Contains(tc.x, tc.y)
			if result != tc.expected {
				t.Errorf("Contains(%d, %d) = %v, expected %v", tc.x, tc.y, result, tc.expected)
			}
		})
	}
}

func TestRectCellAt(t *testing.T) {
	// 8x8 grid of 4x2 cells anchored at (10, 5)
	r := NewRect(10, 5, 32, 16)

	tests := []struct {
		name     string
		px, py   int
		col, row int
		ok       bool
	}{
		{"top-left corner of first cell", 10, 5, 0, 0, true},
		{"interior of first cell", 13, 6, 0, 0, true},
		{"first point of second column", 14, 5, 1, 0, true},
		{"interior cell", 25, 12, 3, 3, true},
		{"last valid point", 41, 20, 7, 7, true},
		{"left of grid", 9, 10, 0, 0, false},
		{"above grid", 20, 4, 0, 0, false},
		{"right edge exclusive", 42, 10, 0, 0, false},
		{"bottom edge exclusive", 20, 21, 0, 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			col, row, ok := r.CellAt(tc.px, tc.py, 4, 2)
			if ok != tc.ok {
				t.Fatalf("CellAt(%d, %d) ok = %v, expected %v", tc.px, tc.py, ok, tc.ok)
			}
			if ok && (col != tc.col || row != tc.row) {
				t.Errorf("CellAt(%d, %d) = (%d, %d), expected (%d, %d)",
					tc.px, tc.py, col, row, tc.col, tc.row)
			}
		})
	}

	// Degenerate cell sizes never resolve
	if _, _, ok := r.CellAt(10, 5, 0, 2); ok {
		t.Error("CellAt with zero cell width should not resolve")
	}
	if _, _, ok := r.CellAt(10, 5, 4, -1); ok {
		t.Error("CellAt with negative cell height should not resolve")
	}
}

func TestRectEdges(t *testing.T) {
	r := NewRect(5, 10, 20, 15)

	if r.Right() != 25 {
		t.Errorf("Right() = %d, expected 25", r.Right())
	}
	if r.Bottom() != 25 {
		t.Errorf("Bottom() = %d, expected 25", r.Bottom())
	}
}

func TestClamp(t *testing.T) {
	// Cursor column pinned to a 10-wide board
	tests := []struct {
		val, min, max, expected int
	}{
		{4, 0, 9, 4},  // on the board
		{-3, 0, 9, 0}, // left of the board
		{12, 0, 9, 9}, // past the right edge
		{0, 0, 9, 0},  // first column
		{9, 0, 9, 9},  // last column
	}

	for _, tc := range tests {
		result := Clamp(tc.val, tc.min, tc.max)
		if result != tc.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tc.val, tc.min, tc.max, result, tc.expected)
		}
	}
}

func TestAbs(t *testing.T) {
	if Abs(5) != 5 {
		t.Error("Abs(5) should be 5")
	}
	if Abs(-5) != 5 {
		t.Error("Abs(-5) should be 5")
	}
	if Abs(0) != 0 {
		t.Error("Abs(0) should be 0")
	}
}
