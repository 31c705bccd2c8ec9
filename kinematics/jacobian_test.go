package kinematics

import (
	"math"
	"testing"

	"go.viam.com/test"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/ets/spatialmath"
)

const fdStep = 1e-6

// numericJacob0 differentiates Fkine by central differences. Every column must have its own joint index.
func numericJacob0(t *testing.T, c Chain, q []float64, tool *spatialmath.Transform) *mat.Dense {
	t.Helper()
	pose, err := Fkine(c, q, nil, tool)
	test.That(t, err, test.ShouldBeNil)
	rt := pose.Rotation().Transpose()

	slots := JointIndices(c)
	jac := mat.NewDense(6, len(slots), nil)
	for col, slot := range slots {
		qp := append([]float64(nil), q...)
		qm := append([]float64(nil), q...)
		qp[slot] += fdStep
		qm[slot] -= fdStep
		tp, err := Fkine(c, qp, nil, tool)
		test.That(t, err, test.ShouldBeNil)
		tm, err := Fkine(c, qm, nil, tool)
		test.That(t, err, test.ShouldBeNil)

		dp := tp.Translation().Sub(tm.Translation()).Mul(1 / (2 * fdStep))
		// skew(w) = dR/dq * R'
		s := tp.Rotation().Sub(tm.Rotation()).Mul(1 / (2 * fdStep)).Mul3(rt)
		jac.SetCol(col, []float64{dp.X, dp.Y, dp.Z, s.At(2, 1), s.At(0, 2), s.At(1, 0)})
	}
	return jac
}

func TestJacob0Panda(t *testing.T) {
	m := loadPanda(t)
	jac, err := m.Jacob0(pandaQ)
	test.That(t, err, test.ShouldBeNil)
	expected := mat.NewDense(6, 7, []float64{
		-1.61683957e-01, 1.07925929e-01, -3.41453006e-02, 3.35029257e-01, -1.07195463e-02, 1.03187865e-01, 0,
		4.46822947e-01, 6.25741987e-01, 4.16474664e-01, -8.04745724e-02, 7.78257566e-02, -1.17720983e-02, 0,
		0, -2.35276631e-01, -8.20187641e-02, -5.14076923e-01, -9.98040745e-03, -2.02626953e-01, 0,
		0, -9.85449730e-01, 3.37672585e-02, -6.16735653e-02, 6.68449878e-01, -1.35361558e-01, 6.37462344e-01,
		0, 1.69967143e-01, 1.95778638e-01, 9.79165111e-01, 1.84470262e-01, 9.82748279e-01, 1.83758244e-01,
		1, 0, 9.80066578e-01, -1.93473657e-01, 7.20517510e-01, -1.26028049e-01, 7.48247732e-01,
	})
	test.That(t, mat.EqualApprox(jac, expected, 1e-6), test.ShouldBeTrue)
}

func TestJacobianColumnOrder(t *testing.T) {
	// joints are met as q2, q0, q1; columns follow the chain
	ets := NewETS(
		NewJointET(RZ, WithJointIndex(2)),
		NewStaticET(TX, 1),
		NewJointET(TX, WithJointIndex(0)),
		NewJointET(RX, WithJointIndex(1)),
	)
	q := []float64{0, 0, 0}
	for _, jacobian := range []func(Chain, []float64, *spatialmath.Transform) (*mat.Dense, error){Jacob0, Jacobe} {
		jac, err := jacobian(ets, q, nil)
		test.That(t, err, test.ShouldBeNil)
		rows, cols := jac.Dims()
		test.That(t, rows, test.ShouldEqual, 6)
		test.That(t, cols, test.ShouldEqual, 3)
		// column 0 is the revolute joint about z, one unit from the end
		test.That(t, mat.Col(nil, 0, jac), test.ShouldResemble, []float64{0, 1, 0, 0, 0, 1})
		// column 1 is the prismatic joint
		test.That(t, mat.Col(nil, 1, jac), test.ShouldResemble, []float64{1, 0, 0, 0, 0, 0})
		// column 2 rotates about x at the end point
		test.That(t, mat.Col(nil, 2, jac), test.ShouldResemble, []float64{0, 0, 0, 1, 0, 0})
	}
}

func TestJacobianSingleJoint(t *testing.T) {
	ets := NewETS(NewJointET(RZ))
	for _, jacobian := range []func(Chain, []float64, *spatialmath.Transform) (*mat.Dense, error){Jacob0, Jacobe} {
		jac, err := jacobian(ets, []float64{0}, nil)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, mat.Col(nil, 0, jac), test.ShouldResemble, []float64{0, 0, 0, 0, 0, 1})
	}

	// one unit out along the tool's x axis, turned a quarter
	tool := spatialmath.TransX(1)
	j0, err := Jacob0(ets, []float64{math.Pi / 2}, &tool)
	test.That(t, err, test.ShouldBeNil)
	je, err := Jacobe(ets, []float64{math.Pi / 2}, &tool)
	test.That(t, err, test.ShouldBeNil)
	expected0 := []float64{-1, 0, 0, 0, 0, 1}
	expectedE := []float64{0, 1, 0, 0, 0, 1}
	for r := 0; r < 6; r++ {
		test.That(t, j0.At(r, 0), test.ShouldAlmostEqual, expected0[r])
		test.That(t, je.At(r, 0), test.ShouldAlmostEqual, expectedE[r])
	}
}

func TestJacob0FiniteDifference(t *testing.T) {
	ets := mixedChain()
	for _, tool := range []*spatialmath.Transform{nil, mixedTool()} {
		jac, err := Jacob0(ets, mixedQ, tool)
		test.That(t, err, test.ShouldBeNil)
		numeric := numericJacob0(t, ets, mixedQ, tool)
		test.That(t, mat.EqualApprox(jac, numeric, 1e-6), test.ShouldBeTrue)
	}

	m := loadPanda(t)
	jac, err := m.Jacob0(pandaQ)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, mat.EqualApprox(jac, numericJacob0(t, m.ETS, pandaQ, nil), 1e-6), test.ShouldBeTrue)
}

func TestJacobeMatchesRotatedJacob0(t *testing.T) {
	ets := mixedChain()
	for _, tool := range []*spatialmath.Transform{nil, mixedTool()} {
		j0, err := Jacob0(ets, mixedQ, tool)
		test.That(t, err, test.ShouldBeNil)
		je, err := Jacobe(ets, mixedQ, tool)
		test.That(t, err, test.ShouldBeNil)
		ev, err := Jacobev(ets, mixedQ, tool)
		test.That(t, err, test.ShouldBeNil)
		var rotated mat.Dense
		rotated.Mul(ev, j0)
		test.That(t, mat.EqualApprox(je, &rotated, 1e-12), test.ShouldBeTrue)

		v0, err := Jacob0v(ets, mixedQ, tool)
		test.That(t, err, test.ShouldBeNil)
		var back mat.Dense
		back.Mul(v0, je)
		test.That(t, mat.EqualApprox(j0, &back, 1e-12), test.ShouldBeTrue)

		var identity mat.Dense
		identity.Mul(v0, ev)
		test.That(t, mat.EqualApprox(&identity, eye(6), 1e-12), test.ShouldBeTrue)
	}
}

func eye(n int) *mat.Dense {
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}
	return m
}

func TestVelocityTransforms(t *testing.T) {
	m := loadPanda(t)
	pose, err := Fkine(m.ETS, pandaQ, nil, m.Tool)
	test.That(t, err, test.ShouldBeNil)
	v0, err := m.Jacob0v(pandaQ)
	test.That(t, err, test.ShouldBeNil)
	ev, err := m.Jacobev(pandaQ)
	test.That(t, err, test.ShouldBeNil)
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			test.That(t, v0.At(r, c), test.ShouldEqual, pose.At(r, c))
			test.That(t, v0.At(r+3, c+3), test.ShouldEqual, pose.At(r, c))
			test.That(t, v0.At(r, c+3), test.ShouldEqual, 0)
			test.That(t, ev.At(r, c), test.ShouldEqual, pose.At(c, r))
		}
	}
	_, err = m.Jacobev([]float64{1})
	test.That(t, err, test.ShouldBeError, NewIncorrectInputLengthError(1, 7))
}

func TestJacobianErrors(t *testing.T) {
	ets := mixedChain()
	_, err := Jacob0(ets, []float64{1}, nil)
	test.That(t, err, test.ShouldBeError, NewIncorrectInputLengthError(1, 7))
	_, err = Jacobe(ets, []float64{1}, nil)
	test.That(t, err, test.ShouldBeError, NewIncorrectInputLengthError(1, 7))

	jac, err := Jacob0(NewETS(NewStaticET(TX, 1)), nil, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, jac.IsEmpty(), test.ShouldBeTrue)
}
