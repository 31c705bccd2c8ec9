package kinematics

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/ets/spatialmath"
)

func TestAxis(t *testing.T) {
	for _, name := range []string{"Rx", "rx", "RX"} {
		a, err := ParseAxis(name)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, a, test.ShouldEqual, RX)
	}
	a, err := ParseAxis("Tz")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, a, test.ShouldEqual, TZ)
	test.That(t, a.String(), test.ShouldEqual, "tz")
	test.That(t, a.IsTranslation(), test.ShouldBeTrue)
	test.That(t, a.IsRotation(), test.ShouldBeFalse)
	test.That(t, RY.IsRotation(), test.ShouldBeTrue)

	_, err = ParseAxis("Rw")
	test.That(t, err, test.ShouldBeError, NewUnknownAxisError("Rw"))
}

func TestEvaluate(t *testing.T) {
	eta := 0.42
	for _, tc := range []struct {
		axis     Axis
		expected spatialmath.Transform
	}{
		{RX, spatialmath.RotX(eta)},
		{RY, spatialmath.RotY(eta)},
		{RZ, spatialmath.RotZ(eta)},
		{TX, spatialmath.TransX(eta)},
		{TY, spatialmath.TransY(eta)},
		{TZ, spatialmath.TransZ(eta)},
	} {
		joint := NewJointET(tc.axis)
		test.That(t, joint.Evaluate(eta), test.ShouldResemble, tc.expected)

		flipped := NewJointET(tc.axis, WithFlip())
		test.That(t, spatialmath.TransformAlmostEqual(
			spatialmath.Compose(flipped.Evaluate(eta), tc.expected),
			spatialmath.NewIdentityTransform(),
			1e-12,
		), test.ShouldBeTrue)

		static := NewStaticET(tc.axis, eta)
		test.That(t, static.Evaluate(1000), test.ShouldResemble, tc.expected)
	}

	se3 := NewTransformET(spatialmath.NewTransformFromPoint(r3.Vector{X: 1, Y: 2, Z: 3}))
	test.That(t, se3.Evaluate(5).Translation(), test.ShouldResemble, r3.Vector{X: 1, Y: 2, Z: 3})
}

func TestETAccessorsAndUpdate(t *testing.T) {
	joint := NewJointET(RZ, WithJointIndex(3), WithLimit(Limit{-1, 2}))
	test.That(t, joint.IsJoint(), test.ShouldBeTrue)
	test.That(t, joint.IsFlip(), test.ShouldBeFalse)
	test.That(t, joint.JointIndex(), test.ShouldEqual, 3)
	test.That(t, joint.Axis(), test.ShouldEqual, RZ)
	test.That(t, joint.Limit(), test.ShouldResemble, Limit{-1, 2})
	defaultJoint := NewJointET(RX)
	test.That(t, defaultJoint.Limit(), test.ShouldResemble, Limit{-math.Pi, math.Pi})

	test.That(t, joint.SetJointIndex(-2), test.ShouldBeError, NewNegativeJointIndexError(-2))
	test.That(t, joint.SetJointIndex(5), test.ShouldBeNil)
	test.That(t, joint.JointIndex(), test.ShouldEqual, 5)
	joint.SetFlip(true)
	joint.SetAxis(TX)
	joint.SetLimit(Limit{0, 1})
	test.That(t, joint.String(), test.ShouldEqual, "tx(-q5)")
	test.That(t, joint.Evaluate(0.5).Translation(), test.ShouldResemble, r3.Vector{X: -0.5})

	static := NewStaticET(TZ, 0.333)
	test.That(t, static.IsJoint(), test.ShouldBeFalse)
	test.That(t, static.Eta(), test.ShouldEqual, 0.333)
	test.That(t, static.String(), test.ShouldEqual, "tz(0.333)")
	static.SetAxis(TX)
	test.That(t, static.Static().Translation(), test.ShouldResemble, r3.Vector{X: 0.333})
	static.SetStatic(spatialmath.RotY(1))
	test.That(t, static.IsSE3(), test.ShouldBeTrue)
	test.That(t, static.String(), test.ShouldEqual, "SE3")
	test.That(t, static.Static(), test.ShouldResemble, spatialmath.RotY(1))
}

func TestETInv(t *testing.T) {
	joint := NewJointET(RY, WithJointIndex(2))
	inv := joint.Inv()
	test.That(t, inv.IsFlip(), test.ShouldBeTrue)
	test.That(t, inv.JointIndex(), test.ShouldEqual, 2)
	test.That(t, inv.String(), test.ShouldEqual, "Ry(-q2)")
	invInv := inv.Inv()
	test.That(t, invInv.IsFlip(), test.ShouldBeFalse)
	test.That(t, spatialmath.TransformAlmostEqual(
		spatialmath.Compose(joint.Evaluate(0.7), inv.Evaluate(0.7)),
		spatialmath.NewIdentityTransform(),
		1e-12,
	), test.ShouldBeTrue)

	static := NewStaticET(TX, 0.5)
	sinv := static.Inv()
	test.That(t, sinv.Eta(), test.ShouldEqual, -0.5)
	test.That(t, sinv.Evaluate(0).Translation(), test.ShouldResemble, r3.Vector{X: -0.5})

	se3 := NewTransformET(spatialmath.Compose(spatialmath.TransY(1), spatialmath.RotX(0.3)))
	se3Inv := se3.Inv()
	test.That(t, spatialmath.TransformAlmostEqual(
		spatialmath.Compose(se3.Evaluate(0), se3Inv.Evaluate(0)),
		spatialmath.NewIdentityTransform(),
		1e-12,
	), test.ShouldBeTrue)
}
