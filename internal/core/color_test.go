package core

import "testing"

func TestParseColor(t *testing.T) {
	tests := []struct {
		name     string
		expected Color
		ok       bool
	}{
		{"red", ColorRed, true},
		{"bright_cyan", ColorBrightCyan, true},
		{"Gray", ColorGray, true},
		{"  white  ", ColorWhite, true},
		{"default", ColorDefault, true},
		{"chartreuse", ColorDefault, false},
		{"", ColorDefault, false},
	}

	for _, tc := range tests {
		c, ok := ParseColor(tc.name)
		if ok != tc.ok {
			t.Errorf("ParseColor(%q) ok = %v, expected %v", tc.name, ok, tc.ok)
			continue
		}
		if ok && c != tc.expected {
			t.Errorf("ParseColor(%q) = %d, expected %d", tc.name, c, tc.expected)
		}
	}
}
