package position

import "testing"

func TestParseBasic(t *testing.T) {
	cases := []struct {
		in  string
		row int
		col int
	}{
		{"A1", 0, 0},
		{"B2", 1, 1},
		{"Z1", 0, 25},
		{"AA1", 0, 26},
		{"AB10", 9, 27},
	}
	for _, c := range cases {
		got, err := Parse(c.in)
		if err != nil {
			t.Fatalf("Parse(%q) returned error: %v", c.in, err)
		}
		if got.Row != c.row || got.Col != c.col {
			t.Errorf("Parse(%q) = %+v, want row=%d col=%d", c.in, got, c.row, c.col)
		}
	}
}

func TestParseInvalid(t *testing.T) {
	for _, in := range []string{"", "1", "A", "1A", "A0", "a1", "A-1"} {
		if _, err := Parse(in); err == nil {
			t.Errorf("Parse(%q) expected error, got none", in)
		}
	}
}

func TestStringRoundTrip(t *testing.T) {
	cases := []string{"A1", "B2", "Z1", "AA1", "AB10", "ZZ100"}
	for _, in := range cases {
		p, err := Parse(in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", in, err)
		}
		if got := p.String(); got != in {
			t.Errorf("Position{%d,%d}.String() = %q, want %q", p.Row, p.Col, got, in)
		}
	}
}

func TestValid(t *testing.T) {
	if !(Position{Row: 0, Col: 0}).Valid() {
		t.Error("(0,0) should be valid")
	}
	if !(Position{Row: MaxRow, Col: MaxCol}).Valid() {
		t.Error("(MaxRow,MaxCol) should be valid")
	}
	if (Position{Row: -1, Col: 0}).Valid() {
		t.Error("negative row should be invalid")
	}
	if (Position{Row: 0, Col: MaxCol + 1}).Valid() {
		t.Error("out-of-range col should be invalid")
	}
}
