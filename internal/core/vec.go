// Package core provides fundamental types for the racing engine: integer
// vector arithmetic, line rasterization and a screen buffer. It contains no
// external dependencies (especially no Bubble Tea) to keep game logic pure
// and testable.
package core

import (
	"fmt"
	"math"
)

// Vec is a 2D integer vector. It doubles as an absolute grid position and as
// a velocity (the difference between two positions). X increases to the
// right, Y increases downward (screen coordinates).
type Vec struct {
	X int
	Y int
}

// V is a convenience constructor for Vec.
func V(x, y int) Vec {
	return Vec{X: x, Y: y}
}

// String returns a string representation of the vector.
func (v Vec) String() string {
	return fmt.Sprintf("(%d,%d)", v.X, v.Y)
}

// Add returns the component-wise sum of two vectors.
func (v Vec) Add(other Vec) Vec {
	return Vec{X: v.X + other.X, Y: v.Y + other.Y}
}

// Sub returns the component-wise difference of two vectors.
func (v Vec) Sub(other Vec) Vec {
	return Vec{X: v.X - other.X, Y: v.Y - other.Y}
}

// Scale multiplies the vector by a scalar. Fractional components are rounded
// half-to-even; every consumer that produces a non-integer vector (speed
// scaling, speed clamping, rasterization) shares this rounding rule.
func (v Vec) Scale(f float64) Vec {
	return Vec{
		X: RoundEven(f * float64(v.X)),
		Y: RoundEven(f * float64(v.Y)),
	}
}

// Div divides the vector by a scalar with half-to-even rounding.
// f must not be 0.
func (v Vec) Div(f float64) Vec {
	return v.Scale(1 / f)
}

// IsZero returns true for the zero vector.
func (v Vec) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// Chebyshev returns max(|x|,|y|), the magnitude of the vector measured in
// king moves. A velocity of this magnitude crosses that many grid points.
func (v Vec) Chebyshev() int {
	return Max(Abs(v.X), Abs(v.Y))
}

// Dist returns the Chebyshev distance between two positions.
func Dist(a, b Vec) int {
	return b.Sub(a).Chebyshev()
}

// RoundEven rounds to the nearest integer, ties to even.
func RoundEven(f float64) int {
	return int(math.RoundToEven(f))
}

// Abs returns the absolute value of an integer.
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Min returns the smaller of two integers.
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of two integers.
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
