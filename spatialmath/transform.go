// Package spatialmath holds the rigid transform algebra used by the kinematics packages.
package spatialmath

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/ets/utils"
)

// Transform is a 4x4 homogeneous rigid transform. The upper left 3x3 block is a rotation and the
// bottom row is [0 0 0 1]. It is a plain value: copying it copies the matrix.
type Transform struct {
	m mgl64.Mat4
}

// NewIdentityTransform returns the identity transform.
func NewIdentityTransform() Transform {
	return Transform{mgl64.Ident4()}
}

// NewTransform builds a transform from a rotation and a translation.
func NewTransform(rot mgl64.Mat3, t r3.Vector) Transform {
	m := rot.Mat4()
	m.SetCol(3, mgl64.Vec4{t.X, t.Y, t.Z, 1})
	return Transform{m}
}

// NewTransformFromPoint returns a pure translation.
func NewTransformFromPoint(t r3.Vector) Transform {
	return Transform{mgl64.Translate3D(t.X, t.Y, t.Z)}
}

// NewTransformFromMatrix wraps an existing mgl64 matrix. The matrix is not validated.
func NewTransformFromMatrix(m mgl64.Mat4) Transform {
	return Transform{m}
}

// NewTransformFromRows builds a transform from row-major data, the way matrices are usually written down.
func NewTransformFromRows(rows [4][4]float64) Transform {
	var m mgl64.Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			m.Set(r, c, rows[r][c])
		}
	}
	return Transform{m}
}

// RotX returns a right-handed rotation of theta radians about X.
func RotX(theta float64) Transform {
	return Transform{mgl64.HomogRotate3DX(theta)}
}

// RotY returns a right-handed rotation of theta radians about Y.
func RotY(theta float64) Transform {
	return Transform{mgl64.HomogRotate3DY(theta)}
}

// RotZ returns a right-handed rotation of theta radians about Z.
func RotZ(theta float64) Transform {
	return Transform{mgl64.HomogRotate3DZ(theta)}
}

// TransX returns a translation of d along X.
func TransX(d float64) Transform {
	return Transform{mgl64.Translate3D(d, 0, 0)}
}

// TransY returns a translation of d along Y.
func TransY(d float64) Transform {
	return Transform{mgl64.Translate3D(0, d, 0)}
}

// TransZ returns a translation of d along Z.
func TransZ(d float64) Transform {
	return Transform{mgl64.Translate3D(0, 0, d)}
}

// Compose returns the matrix product a*b.
func Compose(a, b Transform) Transform {
	return Transform{a.m.Mul4(b.m)}
}

// Mul returns t*other.
func (t Transform) Mul(other Transform) Transform {
	return Transform{t.m.Mul4(other.m)}
}

// FastInverse inverts a rigid transform as [R', -R't; 0 0 0 1]. The rotation block is assumed to be
// orthonormal; nothing checks that it is.
func FastInverse(t Transform) Transform {
	rt := t.m.Mat3().Transpose()
	p := rt.Mul3x1(t.m.Col(3).Vec3()).Mul(-1)
	inv := rt.Mat4()
	inv.SetCol(3, mgl64.Vec4{p[0], p[1], p[2], 1})
	return Transform{inv}
}

// At returns the element at row r, column c.
func (t Transform) At(r, c int) float64 {
	return t.m.At(r, c)
}

// Matrix returns the underlying mgl64 matrix.
func (t Transform) Matrix() mgl64.Mat4 {
	return t.m
}

// Rotation returns the upper left 3x3 block.
func (t Transform) Rotation() mgl64.Mat3 {
	return t.m.Mat3()
}

// Translation returns the translation column.
func (t Transform) Translation() r3.Vector {
	return r3.Vector{X: t.m[12], Y: t.m[13], Z: t.m[14]}
}

// RotationColumn returns column i of the rotation block, the i'th axis of the frame expressed in the parent.
func (t Transform) RotationColumn(i int) r3.Vector {
	return r3.Vector{X: t.m.At(0, i), Y: t.m.At(1, i), Z: t.m.At(2, i)}
}

// RotationRow returns row i of the rotation block.
func (t Transform) RotationRow(i int) r3.Vector {
	return r3.Vector{X: t.m.At(i, 0), Y: t.m.At(i, 1), Z: t.m.At(i, 2)}
}

// Quaternion returns the orientation of the transform as a unit quaternion.
func (t Transform) Quaternion() quat.Number {
	q := mgl64.Mat4ToQuat(t.m)
	return quat.Number{Real: q.W, Imag: q.V[0], Jmag: q.V[1], Kmag: q.V[2]}
}

// IsIdentity reports whether the transform is exactly the identity.
func (t Transform) IsIdentity() bool {
	return t.m == mgl64.Ident4()
}

// Rows returns the transform as row-major data.
func (t Transform) Rows() [4][4]float64 {
	var rows [4][4]float64
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			rows[r][c] = t.m.At(r, c)
		}
	}
	return rows
}

func (t Transform) String() string {
	return fmt.Sprintf("[[% .6f % .6f % .6f % .6f] [% .6f % .6f % .6f % .6f] [% .6f % .6f % .6f % .6f] [% .6f % .6f % .6f % .6f]]",
		t.m.At(0, 0), t.m.At(0, 1), t.m.At(0, 2), t.m.At(0, 3),
		t.m.At(1, 0), t.m.At(1, 1), t.m.At(1, 2), t.m.At(1, 3),
		t.m.At(2, 0), t.m.At(2, 1), t.m.At(2, 2), t.m.At(2, 3),
		t.m.At(3, 0), t.m.At(3, 1), t.m.At(3, 2), t.m.At(3, 3),
	)
}

// TransformAlmostEqual returns true if every element of a and b differs by at most tol.
func TransformAlmostEqual(a, b Transform, tol float64) bool {
	for i := range a.m {
		if !utils.Float64AlmostEqual(a.m[i], b.m[i], tol) {
			return false
		}
	}
	return true
}
