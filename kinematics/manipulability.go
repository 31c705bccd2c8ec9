package kinematics

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/ets/spatialmath"
)

// Axes selects which rows of a Jacobian a manipulability measure uses.
type Axes int

// The row selections understood by Manipulability and Jacobm.
const (
	AllAxes Axes = iota
	TransAxes
	RotAxes
)

func (a Axes) String() string {
	switch a {
	case AllAxes:
		return "all"
	case TransAxes:
		return "trans"
	case RotAxes:
		return "rot"
	default:
		return "unknown"
	}
}

// ParseAxes parses all, trans or rot.
func ParseAxes(name string) (Axes, error) {
	switch name {
	case "all", "":
		return AllAxes, nil
	case "trans":
		return TransAxes, nil
	case "rot":
		return RotAxes, nil
	default:
		return AllAxes, errors.Errorf("axes must be all, trans or rot, got %q", name)
	}
}

func (a Axes) rows() (int, int) {
	switch a {
	case TransAxes:
		return 0, 3
	case RotAxes:
		return 3, 6
	default:
		return 0, 6
	}
}

func selectRows(j mat.Matrix, axes Axes) mat.Matrix {
	_, n := j.Dims()
	from, to := axes.rows()
	out := mat.NewDense(to-from, n, nil)
	for r := from; r < to; r++ {
		out.SetRow(r-from, mat.Row(nil, r, j))
	}
	return out
}

// Manipulability returns Yoshikawa's measure sqrt(det(J J')) over the selected rows of the 6xn Jacobian j.
func Manipulability(j mat.Matrix, axes Axes) (float64, error) {
	rows, n := j.Dims()
	if rows != 6 {
		return 0, NewJacobianShapeError(rows, n)
	}
	js := selectRows(j, axes)
	var jjt mat.Dense
	jjt.Mul(js, js.T())
	// rounding can leave a singular configuration slightly negative
	return math.Sqrt(math.Max(mat.Det(&jjt), 0)), nil
}

// Jacobm returns the manipulability Jacobian, the derivative of Manipulability of Jacob0 with respect
// to each joint column. It is nil for a chain without joints.
//
// Entry i is m * trace(inv(J J') J H_i') where H_i is the Hessian slice of joint column i.
func Jacobm(c Chain, q []float64, tool *spatialmath.Transform, axes Axes) ([]float64, error) {
	j, err := Jacob0(c, q, tool)
	if err != nil {
		return nil, err
	}
	if c.NumJoints() == 0 {
		return nil, nil
	}
	h, err := Hessian(j)
	if err != nil {
		return nil, err
	}
	m, err := Manipulability(j, axes)
	if err != nil {
		return nil, err
	}

	js := selectRows(j, axes)
	var jjt, b mat.Dense
	jjt.Mul(js, js.T())
	if err := b.Inverse(&jjt); err != nil {
		return nil, errors.Wrap(err, "manipulability jacobian is undefined at a singular configuration")
	}

	jm := make([]float64, len(h))
	for i, hi := range h {
		var cm, bc mat.Dense
		cm.Mul(js, selectRows(hi, axes).T())
		bc.Mul(&b, &cm)
		jm[i] = m * mat.Trace(&bc)
	}
	return jm, nil
}
