package core

import "testing"

func TestLineDegenerate(t *testing.T) {
	p := V(3, 7)
	line := Line(p, p)
	if len(line) != 1 || line[0] != p {
		t.Errorf("Line(p,p) = %v, expected [%v]", line, p)
	}
}

func TestLineEndpointsAndLength(t *testing.T) {
	tests := []struct {
		name string
		a, b Vec
	}{
		{name: "horizontal", a: V(0, 0), b: V(5, 0)},
		{name: "vertical", a: V(2, 2), b: V(2, -3)},
		{name: "diagonal", a: V(0, 0), b: V(4, 4)},
		{name: "shallow slope", a: V(0, 0), b: V(6, 2)},
		{name: "steep negative slope", a: V(3, 1), b: V(1, -6)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			line := Line(tc.a, tc.b)
			if len(line) != Dist(tc.a, tc.b)+1 {
				t.Fatalf("len = %d, expected %d", len(line), Dist(tc.a, tc.b)+1)
			}
			if line[0] != tc.a {
				t.Errorf("first point = %v, expected %v", line[0], tc.a)
			}
			if line[len(line)-1] != tc.b {
				t.Errorf("last point = %v, expected %v", line[len(line)-1], tc.b)
			}
			// Consecutive points never jump more than one cell
			for i := 1; i < len(line); i++ {
				if Dist(line[i-1], line[i]) > 1 {
					t.Errorf("gap between %v and %v", line[i-1], line[i])
				}
			}
		})
	}
}

func TestLineSymmetry(t *testing.T) {
	a := V(1, 2)
	b := V(7, -1)

	forward := Line(a, b)
	backward := Line(b, a)

	if len(forward) != len(backward) {
		t.Fatalf("length mismatch: %d vs %d", len(forward), len(backward))
	}
	for i := range forward {
		if forward[i] != backward[len(backward)-1-i] {
			t.Errorf("point %d: %v vs reversed %v", i, forward[i], backward[len(backward)-1-i])
		}
	}
}

func TestLineShallowDiagonal(t *testing.T) {
	line := Line(V(0, 0), V(4, 2))
	expected := []Vec{V(0, 0), V(1, 0), V(2, 1), V(3, 2), V(4, 2)}
	if len(line) != len(expected) {
		t.Fatalf("len = %d, expected %d", len(line), len(expected))
	}
	for i := range expected {
		if line[i] != expected[i] {
			t.Errorf("point %d = %v, expected %v", i, line[i], expected[i])
		}
	}
}
