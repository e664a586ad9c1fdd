package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// singularThreshold is the determinant magnitude below which a matrix is treated as non-invertible
const singularThreshold = 1e-12

// Matrix is a 4x4 homogeneous transform backed by mgl64 (column-major storage)
type Matrix struct {
	m mgl64.Mat4
}

// Identity returns the identity transform
func Identity() Matrix {
	return Matrix{m: mgl64.Ident4()}
}

// NewMatrixFromRows builds a matrix from four rows given in reading order
func NewMatrixFromRows(rows [4][4]float64) Matrix {
	return Matrix{m: mgl64.Mat4FromRows(
		mgl64.Vec4(rows[0]),
		mgl64.Vec4(rows[1]),
		mgl64.Vec4(rows[2]),
		mgl64.Vec4(rows[3]),
	)}
}

// Translation returns a transform that moves points by (x, y, z)
func Translation(x, y, z float64) Matrix {
	return Matrix{m: mgl64.Translate3D(x, y, z)}
}

// Scaling returns a transform that scales each axis independently
func Scaling(x, y, z float64) Matrix {
	return Matrix{m: mgl64.Scale3D(x, y, z)}
}

// RotationX returns a rotation around the X axis (radians, right-handed)
func RotationX(radians float64) Matrix {
	return Matrix{m: mgl64.HomogRotate3DX(radians)}
}

// RotationY returns a rotation around the Y axis (radians, right-handed)
func RotationY(radians float64) Matrix {
	return Matrix{m: mgl64.HomogRotate3DY(radians)}
}

// RotationZ returns a rotation around the Z axis (radians, right-handed)
func RotationZ(radians float64) Matrix {
	return Matrix{m: mgl64.HomogRotate3DZ(radians)}
}

// Shearing returns a transform where each component moves in proportion to the other two.
// xy means "x moved in proportion to y", and so on.
func Shearing(xy, xz, yx, yz, zx, zy float64) Matrix {
	return NewMatrixFromRows([4][4]float64{
		{1, xy, xz, 0},
		{yx, 1, yz, 0},
		{zx, zy, 1, 0},
		{0, 0, 0, 1},
	})
}

// ViewTransform orients the world relative to an eye at from looking at to
func ViewTransform(from, to, up Vec3) Matrix {
	return Matrix{m: mgl64.LookAtV(toMgl(from), toMgl(to), toMgl(up))}
}

// Multiply returns m * other (other is applied first when transforming)
func (m Matrix) Multiply(other Matrix) Matrix {
	return Matrix{m: m.m.Mul4(other.m)}
}

// Then returns a transform that applies m first and next afterwards (next * m).
// It reads left to right: Scaling(...).Then(Translation(...)).
func (m Matrix) Then(next Matrix) Matrix {
	return next.Multiply(m)
}

// Transpose returns the transposed matrix
func (m Matrix) Transpose() Matrix {
	return Matrix{m: m.m.Transpose()}
}

// Determinant returns the determinant of the matrix
func (m Matrix) Determinant() float64 {
	return m.m.Det()
}

// Inverse returns the inverse matrix, or false if the matrix is singular
func (m Matrix) Inverse() (Matrix, bool) {
	if math.Abs(m.m.Det()) < singularThreshold {
		return Matrix{}, false
	}
	return Matrix{m: m.m.Inv()}, true
}

// At returns the element at row, col
func (m Matrix) At(row, col int) float64 {
	return m.m.At(row, col)
}

// MulPoint transforms a point (w = 1)
func (m Matrix) MulPoint(p Vec3) Vec3 {
	return fromMgl4(m.m.Mul4x1(mgl64.Vec4{p.X, p.Y, p.Z, 1}))
}

// MulVector transforms a direction (w = 0), ignoring translation
func (m Matrix) MulVector(v Vec3) Vec3 {
	return fromMgl4(m.m.Mul4x1(mgl64.Vec4{v.X, v.Y, v.Z, 0}))
}

// ApproxEqual reports whether all elements differ by at most tolerance
func (m Matrix) ApproxEqual(other Matrix, tolerance float64) bool {
	for i := range m.m {
		if math.Abs(m.m[i]-other.m[i]) > tolerance {
			return false
		}
	}
	return true
}

// IsIdentity reports whether the matrix is exactly the identity
func (m Matrix) IsIdentity() bool {
	return m.m == mgl64.Ident4()
}

func toMgl(v Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

func fromMgl4(v mgl64.Vec4) Vec3 {
	return Vec3{X: v[0], Y: v[1], Z: v[2]}
}
