package kinematics

import "github.com/pkg/errors"

var (
	// ErrIKNoSolution is returned when the solver gives up without reaching the target.
	ErrIKNoSolution = errors.New("no inverse kinematics solution found")

	// ErrNoModelInformation is used when a model file is empty.
	ErrNoModelInformation = errors.New("no model information")
)

// NewIncorrectInputLengthError is returned when a joint vector is shorter than the chain requires.
func NewIncorrectInputLengthError(actual, expected int) error {
	return errors.Errorf("number of inputs does not match chain, have %d need at least %d", actual, expected)
}

// NewUnknownAxisError is returned for an axis name that is not one of Rx, Ry, Rz, tx, ty, tz.
func NewUnknownAxisError(name string) error {
	return errors.Errorf("unknown axis %q, expected one of Rx, Ry, Rz, tx, ty, tz", name)
}

// NewNegativeJointIndexError is returned when a joint is given an index below zero.
func NewNegativeJointIndexError(j int) error {
	return errors.Errorf("joint index must not be negative, got %d", j)
}

// NewElementIndexError is returned when a chain position is out of range.
func NewElementIndexError(i, length int) error {
	return errors.Errorf("element index %d out of range for chain of length %d", i, length)
}

// NewTrajectoryRowError annotates err with the trajectory row it came from.
func NewTrajectoryRowError(row int, err error) error {
	return errors.Wrapf(err, "trajectory row %d", row)
}

// NewJacobianShapeError is returned when a matrix passed as a Jacobian does not have 6 rows.
func NewJacobianShapeError(rows, cols int) error {
	return errors.Errorf("jacobian must have 6 rows, got %dx%d", rows, cols)
}
