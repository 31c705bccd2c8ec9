package kinematics

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/ets/spatialmath"
)

func linearColumn(j mat.Matrix, col int) r3.Vector {
	return r3.Vector{X: j.At(0, col), Y: j.At(1, col), Z: j.At(2, col)}
}

func angularColumn(j mat.Matrix, col int) r3.Vector {
	return r3.Vector{X: j.At(3, col), Y: j.At(4, col), Z: j.At(5, col)}
}

// Hessian returns the manipulator Hessian of the 6xn Jacobian j as n matrices of size 6xn, where
// h[a].At(r, b) is the derivative of component r of Jacobian column b with respect to joint column a.
//
// For a <= b, column b of h[a] is (w_a x v_b, w_a x w_b). For a > b the linear part mirrors
// h[b] column a, and the angular part is zero since a joint further down the chain cannot turn
// the axis of one before it.
func Hessian(j mat.Matrix) ([]*mat.Dense, error) {
	rows, n := j.Dims()
	if rows != 6 {
		return nil, NewJacobianShapeError(rows, n)
	}
	h := make([]*mat.Dense, n)
	for a := range h {
		h[a] = mat.NewDense(6, n, nil)
	}
	for a := 0; a < n; a++ {
		wa := angularColumn(j, a)
		for b := a; b < n; b++ {
			lin := wa.Cross(linearColumn(j, b))
			ang := wa.Cross(angularColumn(j, b))
			h[a].Set(0, b, lin.X)
			h[a].Set(1, b, lin.Y)
			h[a].Set(2, b, lin.Z)
			h[a].Set(3, b, ang.X)
			h[a].Set(4, b, ang.Y)
			h[a].Set(5, b, ang.Z)
			if a != b {
				h[b].Set(0, a, lin.X)
				h[b].Set(1, a, lin.Y)
				h[b].Set(2, a, lin.Z)
			}
		}
	}
	return h, nil
}

// Hessian0 returns the Hessian of Jacob0.
func Hessian0(c Chain, q []float64, tool *spatialmath.Transform) ([]*mat.Dense, error) {
	j, err := Jacob0(c, q, tool)
	if err != nil {
		return nil, err
	}
	if c.NumJoints() == 0 {
		return nil, nil
	}
	return Hessian(j)
}

// Hessiane returns the Hessian of Jacobe.
func Hessiane(c Chain, q []float64, tool *spatialmath.Transform) ([]*mat.Dense, error) {
	j, err := Jacobe(c, q, tool)
	if err != nil {
		return nil, err
	}
	if c.NumJoints() == 0 {
		return nil, nil
	}
	return Hessian(j)
}
