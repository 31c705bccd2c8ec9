package kinematics

import (
	"math"
	"strings"

	"go.viam.com/ets/spatialmath"
)

// Axis is one of the six canonical motions an elementary transform can perform.
type Axis int

// The canonical axes. Rotations are right handed, angles in radians.
const (
	RX Axis = iota
	RY
	RZ
	TX
	TY
	TZ
)

func (a Axis) String() string {
	switch a {
	case RX:
		return "Rx"
	case RY:
		return "Ry"
	case RZ:
		return "Rz"
	case TX:
		return "tx"
	case TY:
		return "ty"
	case TZ:
		return "tz"
	}
	return "unknown"
}

// ParseAxis parses an axis name such as "Rz", "rz" or "TX".
func ParseAxis(name string) (Axis, error) {
	switch strings.ToLower(name) {
	case "rx":
		return RX, nil
	case "ry":
		return RY, nil
	case "rz":
		return RZ, nil
	case "tx":
		return TX, nil
	case "ty":
		return TY, nil
	case "tz":
		return TZ, nil
	}
	return 0, NewUnknownAxisError(name)
}

// IsRotation reports whether the axis is Rx, Ry or Rz.
func (a Axis) IsRotation() bool {
	return a >= RX && a <= RZ
}

// IsTranslation reports whether the axis is tx, ty or tz.
func (a Axis) IsTranslation() bool {
	return a >= TX && a <= TZ
}

// Transform returns the canonical transform for the axis applied to eta.
func (a Axis) Transform(eta float64) spatialmath.Transform {
	switch a {
	case RX:
		return spatialmath.RotX(eta)
	case RY:
		return spatialmath.RotY(eta)
	case RZ:
		return spatialmath.RotZ(eta)
	case TX:
		return spatialmath.TransX(eta)
	case TY:
		return spatialmath.TransY(eta)
	case TZ:
		return spatialmath.TransZ(eta)
	}
	return spatialmath.NewIdentityTransform()
}

// Limit represents the limits of motion for a joint. It is not enforced by the kinematics functions.
type Limit struct {
	Min float64
	Max float64
}

// defaultLimit is used when a joint is built without WithLimit.
func defaultLimit(a Axis) Limit {
	if a.IsRotation() {
		return Limit{Min: -math.Pi, Max: math.Pi}
	}
	return Limit{Min: -1, Max: 1}
}

// Contains reports whether v lies within the limit.
func (l Limit) Contains(v float64) bool {
	return v >= l.Min && v <= l.Max
}
