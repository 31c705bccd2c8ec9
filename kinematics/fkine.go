package kinematics

import (
	"context"

	"gonum.org/v1/gonum/mat"

	"go.viam.com/ets/spatialmath"
	"go.viam.com/ets/utils"
)

// CheckInputLength returns an error if q is too short to evaluate c.
func CheckInputLength(c Chain, q []float64) error {
	if len(q) < c.MinInputLen() {
		return NewIncorrectInputLengthError(len(q), c.MinInputLen())
	}
	return nil
}

// evaluate returns the transform of et, reading its joint value out of q.
func evaluate(et *ET, q []float64) spatialmath.Transform {
	if !et.isJoint {
		return et.static
	}
	return et.Evaluate(q[et.jointIndex])
}

// Fkine returns base * E_0(q) * ... * E_{m-1}(q) * tool. A nil base or tool is the identity.
func Fkine(c Chain, q []float64, base, tool *spatialmath.Transform) (spatialmath.Transform, error) {
	if err := CheckInputLength(c, q); err != nil {
		return spatialmath.Transform{}, err
	}
	return fkine(c, q, base, tool), nil
}

func fkine(c Chain, q []float64, base, tool *spatialmath.Transform) spatialmath.Transform {
	current := spatialmath.NewIdentityTransform()
	if base != nil {
		current = *base
	}
	for i := 0; i < c.Len(); i++ {
		current = current.Mul(evaluate(c.At(i), q))
	}
	if tool != nil {
		current = current.Mul(*tool)
	}
	return current
}

// FkineTrajectory evaluates Fkine for every row of qs with base and tool held fixed. Rows are
// evaluated in parallel and the poses are returned in input order. A row that is too short fails
// the whole call.
func FkineTrajectory(
	ctx context.Context,
	c Chain,
	qs [][]float64,
	base, tool *spatialmath.Transform,
) ([]spatialmath.Transform, error) {
	for i, q := range qs {
		if err := CheckInputLength(c, q); err != nil {
			return nil, NewTrajectoryRowError(i, err)
		}
	}
	poses := make([]spatialmath.Transform, len(qs))
	err := utils.GroupWorkParallel(
		ctx,
		len(qs),
		func(numGroups int) {},
		func(groupNum, groupSize, from, to int) (utils.MemberWorkFunc, utils.GroupWorkDoneFunc) {
			return func(memberNum, workNum int) {
				poses[workNum] = fkine(c, qs[workNum], base, tool)
			}, nil
		},
	)
	if err != nil {
		return nil, err
	}
	return poses, nil
}

// FkineRows is FkineTrajectory over a matrix holding one joint vector per row.
func FkineRows(ctx context.Context, c Chain, qs mat.Matrix, base, tool *spatialmath.Transform) ([]spatialmath.Transform, error) {
	rows, _ := qs.Dims()
	vecs := make([][]float64, rows)
	for i := range vecs {
		vecs[i] = mat.Row(nil, i, qs)
	}
	return FkineTrajectory(ctx, c, vecs, base, tool)
}
