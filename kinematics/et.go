package kinematics

import (
	"fmt"

	"go.viam.com/ets/spatialmath"
)

// unsetJointIndex marks a joint whose index is assigned when it is added to a chain.
const unsetJointIndex = -1

// ET is an elementary transform: either a fixed transform or a one parameter joint motion along
// one of the canonical axes. When isJoint is false, static is authoritative. Otherwise axis and
// jointIndex are.
type ET struct {
	isJoint    bool
	isFlip     bool
	jointIndex int
	axis       Axis
	// isSE3 is set for static transforms that are not a single canonical motion
	isSE3  bool
	static spatialmath.Transform
	eta    float64
	limit  Limit
}

// ETOption configures a joint elementary transform.
type ETOption func(*ET)

// WithJointIndex sets the slot of the joint vector that drives the joint. A negative j leaves the
// index unset, so the joint is numbered by NewETS.
func WithJointIndex(j int) ETOption {
	return func(et *ET) {
		if j < 0 {
			et.jointIndex = unsetJointIndex
			return
		}
		et.jointIndex = j
	}
}

// WithFlip negates the joint value before it is applied.
func WithFlip() ETOption {
	return func(et *ET) {
		et.isFlip = true
	}
}

// WithLimit sets the joint limit.
func WithLimit(l Limit) ETOption {
	return func(et *ET) {
		et.limit = l
	}
}

// NewStaticET returns a constant elementary transform, e.g. NewStaticET(TZ, 0.333).
func NewStaticET(axis Axis, eta float64) ET {
	return ET{
		jointIndex: unsetJointIndex,
		axis:       axis,
		static:     axis.Transform(eta),
		eta:        eta,
	}
}

// NewTransformET returns a static elementary transform holding an arbitrary rigid transform.
func NewTransformET(t spatialmath.Transform) ET {
	return ET{
		jointIndex: unsetJointIndex,
		isSE3:      true,
		static:     t,
	}
}

// NewJointET returns a joint moving along axis. Without WithJointIndex the index is assigned by NewETS.
func NewJointET(axis Axis, opts ...ETOption) ET {
	et := ET{
		isJoint:    true,
		jointIndex: unsetJointIndex,
		axis:       axis,
		static:     spatialmath.NewIdentityTransform(),
		limit:      defaultLimit(axis),
	}
	for _, opt := range opts {
		opt(&et)
	}
	return et
}

// Evaluate returns the transform of the element for joint value eta. Static elements ignore eta.
func (et *ET) Evaluate(eta float64) spatialmath.Transform {
	if !et.isJoint {
		return et.static
	}
	if et.isFlip {
		eta = -eta
	}
	return et.axis.Transform(eta)
}

// IsJoint reports whether the element is actuated.
func (et *ET) IsJoint() bool {
	return et.isJoint
}

// IsFlip reports whether the joint value is negated.
func (et *ET) IsFlip() bool {
	return et.isFlip
}

// JointIndex returns the joint vector slot of a joint, or -1.
func (et *ET) JointIndex() int {
	return et.jointIndex
}

// Axis returns the axis of motion. Elements built with NewTransformET have no meaningful axis.
func (et *ET) Axis() Axis {
	return et.axis
}

// IsSE3 reports whether the element is a static transform that is not a single canonical motion.
func (et *ET) IsSE3() bool {
	return et.isSE3
}

// Static returns the transform of a static element.
func (et *ET) Static() spatialmath.Transform {
	return et.static
}

// Eta returns the constant of a static canonical element.
func (et *ET) Eta() float64 {
	return et.eta
}

// Limit returns the joint limit.
func (et *ET) Limit() Limit {
	return et.limit
}

// SetJointIndex moves a joint to another joint vector slot.
func (et *ET) SetJointIndex(j int) error {
	if j < 0 {
		return NewNegativeJointIndexError(j)
	}
	et.jointIndex = j
	return nil
}

// SetFlip sets whether the joint value is negated.
func (et *ET) SetFlip(flip bool) {
	et.isFlip = flip
}

// SetAxis changes the axis. A static canonical element recomputes its transform from its eta.
func (et *ET) SetAxis(axis Axis) {
	et.axis = axis
	if !et.isJoint && !et.isSE3 {
		et.static = axis.Transform(et.eta)
	}
}

// SetStatic replaces the transform of a static element.
func (et *ET) SetStatic(t spatialmath.Transform) {
	et.static = t
	et.isSE3 = true
}

// SetLimit replaces the joint limit.
func (et *ET) SetLimit(l Limit) {
	et.limit = l
}

// Inv returns the inverse element. A joint toggles its flip so that it undoes its own motion for
// the same joint value; a static element is inverted.
func (et ET) Inv() ET {
	inv := et
	if et.isJoint {
		inv.isFlip = !et.isFlip
		return inv
	}
	inv.static = spatialmath.FastInverse(et.static)
	inv.eta = -et.eta
	return inv
}

func (et ET) String() string {
	switch {
	case et.isJoint && et.isFlip:
		return fmt.Sprintf("%s(-q%d)", et.axis, et.jointIndex)
	case et.isJoint:
		return fmt.Sprintf("%s(q%d)", et.axis, et.jointIndex)
	case et.isSE3:
		return "SE3"
	default:
		return fmt.Sprintf("%s(%.4g)", et.axis, et.eta)
	}
}
