package kinematics

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/ets/spatialmath"
)

// setColumn writes the linear and angular parts of a Jacobian column, negated for flipped joints.
func setColumn(j *mat.Dense, col int, lin, ang r3.Vector, flip bool) {
	if flip {
		lin, ang = lin.Mul(-1), ang.Mul(-1)
	}
	j.Set(0, col, lin.X)
	j.Set(1, col, lin.Y)
	j.Set(2, col, lin.Z)
	j.Set(3, col, ang.X)
	j.Set(4, col, ang.Y)
	j.Set(5, col, ang.Z)
}

// Jacob0 returns the 6xn manipulator Jacobian expressed in the base frame of the chain. Rows 0-2
// are linear velocity and rows 3-5 angular velocity. Column k belongs to the k'th joint met going
// from base to tool, whatever its joint index. The tool enters only through the end pose: it moves
// the point whose velocity is measured and is never folded into the running transform, and
// columns of flipped joints are negated.
func Jacob0(c Chain, q []float64, tool *spatialmath.Transform) (*mat.Dense, error) {
	if err := CheckInputLength(c, q); err != nil {
		return nil, err
	}
	n := c.NumJoints()
	if n == 0 {
		return &mat.Dense{}, nil
	}
	tEnd := fkine(c, q, nil, tool)
	jac := mat.NewDense(6, n, nil)

	u := spatialmath.NewIdentityTransform()
	col := 0
	for i := 0; i < c.Len(); i++ {
		et := c.At(i)
		u = u.Mul(evaluate(et, q))
		if !et.isJoint {
			continue
		}
		// end effector position in the frame of this joint
		p := spatialmath.FastInverse(u).Mul(tEnd).Translation()
		ux, uy, uz := u.RotationColumn(0), u.RotationColumn(1), u.RotationColumn(2)

		var lin, ang r3.Vector
		switch et.axis {
		case RX:
			lin, ang = uz.Mul(p.Y).Sub(uy.Mul(p.Z)), ux
		case RY:
			lin, ang = ux.Mul(p.Z).Sub(uz.Mul(p.X)), uy
		case RZ:
			lin, ang = uy.Mul(p.X).Sub(ux.Mul(p.Y)), uz
		case TX:
			lin = ux
		case TY:
			lin = uy
		case TZ:
			lin = uz
		}
		setColumn(jac, col, lin, ang, et.isFlip)
		col++
	}
	return jac, nil
}

// Jacobe returns the 6xn manipulator Jacobian expressed in the end effector frame, tool included.
// It walks the chain from the tool back to the base.
func Jacobe(c Chain, q []float64, tool *spatialmath.Transform) (*mat.Dense, error) {
	if err := CheckInputLength(c, q); err != nil {
		return nil, err
	}
	n := c.NumJoints()
	if n == 0 {
		return &mat.Dense{}, nil
	}
	jac := mat.NewDense(6, n, nil)

	u := spatialmath.NewIdentityTransform()
	if tool != nil {
		u = *tool
	}
	col := n - 1
	for i := c.Len() - 1; i >= 0; i-- {
		et := c.At(i)
		if et.isJoint {
			rx, ry, rz := u.RotationRow(0), u.RotationRow(1), u.RotationRow(2)
			p := u.Translation()

			var lin, ang r3.Vector
			switch et.axis {
			case RX:
				lin, ang = rz.Mul(p.Y).Sub(ry.Mul(p.Z)), rx
			case RY:
				lin, ang = rx.Mul(p.Z).Sub(rz.Mul(p.X)), ry
			case RZ:
				lin, ang = ry.Mul(p.X).Sub(rx.Mul(p.Y)), rz
			case TX:
				lin = rx
			case TY:
				lin = ry
			case TZ:
				lin = rz
			}
			setColumn(jac, col, lin, ang, et.isFlip)
			col--
		}
		u = evaluate(et, q).Mul(u)
	}
	return jac, nil
}

// velocityTransform returns diag(R, R) for the rotation of pose, or diag(R', R') when transpose is set.
func velocityTransform(pose spatialmath.Transform, transpose bool) *mat.Dense {
	v := mat.NewDense(6, 6, nil)
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			x := pose.At(r, c)
			if transpose {
				x = pose.At(c, r)
			}
			v.Set(r, c, x)
			v.Set(r+3, c+3, x)
		}
	}
	return v
}

// Jacob0v returns the 6x6 transform diag(R, R) taking a spatial velocity in the end frame, tool
// included, to the base frame. Jacob0 = Jacob0v * Jacobe.
func Jacob0v(c Chain, q []float64, tool *spatialmath.Transform) (*mat.Dense, error) {
	pose, err := Fkine(c, q, nil, tool)
	if err != nil {
		return nil, err
	}
	return velocityTransform(pose, false), nil
}

// Jacobev returns the 6x6 transform diag(R', R') taking a spatial velocity in the base frame to
// the end frame. Jacobe = Jacobev * Jacob0.
func Jacobev(c Chain, q []float64, tool *spatialmath.Transform) (*mat.Dense, error) {
	pose, err := Fkine(c, q, nil, tool)
	if err != nil {
		return nil, err
	}
	return velocityTransform(pose, true), nil
}
