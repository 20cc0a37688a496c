package core

// Line returns the ordered sequence of grid points approximating the straight
// segment from a to b, inclusive of both endpoints. The result always has
// Dist(a,b)+1 points and degenerates to [a] when a == b. Intermediate points
// are produced by linear interpolation at Dist(a,b) equal steps, each rounded
// half-to-even per coordinate. Rounding is applied in absolute coordinates,
// so swapping a and b yields exactly the reversed sequence.
func Line(a, b Vec) []Vec {
	d := Dist(a, b)
	points := make([]Vec, 0, d+1)
	for i := 0; i < d; i++ {
		t := float64(i) / float64(d)
		points = append(points, Vec{
			X: RoundEven(float64(a.X) + t*float64(b.X-a.X)),
			Y: RoundEven(float64(a.Y) + t*float64(b.Y-a.Y)),
		})
	}
	return append(points, b)
}
