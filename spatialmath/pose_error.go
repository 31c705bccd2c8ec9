package spatialmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"

	"go.viam.com/ets/utils"
)

// Below this magnitude the skew part of a relative rotation is treated as zero, leaving the
// rotation at either 0 or 180 degrees about a principal axis.
const angleAxisEpsilon = 1e-6

// R3AA is an axis angle whose direction is the rotation axis and whose length is the angle in radians.
type R3AA struct {
	RX float64 `json:"x"`
	RY float64 `json:"y"`
	RZ float64 `json:"z"`
}

// ToR3 returns the axis angle as a vector.
func (r3aa R3AA) ToR3() r3.Vector {
	return r3.Vector{X: r3aa.RX, Y: r3aa.RY, Z: r3aa.RZ}
}

// Angle returns the rotation angle, the length of the axis angle.
func (r3aa R3AA) Angle() float64 {
	return r3aa.ToR3().Norm()
}

// Rotation returns the rotation matrix of the axis angle.
func (r3aa R3AA) Rotation() mgl64.Mat3 {
	if utils.IsZero([]float64{r3aa.RX, r3aa.RY, r3aa.RZ}) {
		return mgl64.Ident3()
	}
	angle := r3aa.Angle()
	axis := r3aa.ToR3().Mul(1 / angle)
	return mgl64.HomogRotate3D(angle, mgl64.Vec3{axis.X, axis.Y, axis.Z}).Mat3()
}

// RotationError returns the angle-axis logarithm of tep.R * te.R', the rotation taking te's
// orientation onto tep's.
func RotationError(te, tep Transform) R3AA {
	r := tep.Rotation().Mul3(te.Rotation().Transpose())
	li := r3.Vector{
		X: r.At(2, 1) - r.At(1, 2),
		Y: r.At(0, 2) - r.At(2, 0),
		Z: r.At(1, 0) - r.At(0, 1),
	}
	trace := r.Trace()
	liNorm := li.Norm()

	if liNorm < angleAxisEpsilon {
		// diagonal R
		if trace > 0 {
			return R3AA{}
		}
		return R3AA{
			RX: math.Pi / 2 * (r.At(0, 0) + 1),
			RY: math.Pi / 2 * (r.At(1, 1) + 1),
			RZ: math.Pi / 2 * (r.At(2, 2) + 1),
		}
	}
	angle := math.Atan2(liNorm, trace-1)
	v := li.Mul(angle / liNorm)
	return R3AA{v.X, v.Y, v.Z}
}

// PoseError returns the 6-vector (translation error, rotation error) that takes pose te to pose tep.
// The translation part is tep.t - te.t and the rotation part is RotationError(te, tep).
func PoseError(te, tep Transform) []float64 {
	dt := tep.Translation().Sub(te.Translation())
	aa := RotationError(te, tep)
	return []float64{dt.X, dt.Y, dt.Z, aa.RX, aa.RY, aa.RZ}
}
