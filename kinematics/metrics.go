package kinematics

import (
	"go.viam.com/ets/spatialmath"
	"go.viam.com/ets/utils"
)

// Metric scores how far one pose is from another. Lower is closer and zero is a match.
type Metric interface {
	Distance(from, to spatialmath.Transform) float64
}

type flexibleMetric struct {
	f func(from, to spatialmath.Transform) float64
}

func (m *flexibleMetric) Distance(from, to spatialmath.Transform) float64 {
	return m.f(from, to)
}

// NewBasicMetric wraps a distance function.
func NewBasicMetric(f func(from, to spatialmath.Transform) float64) Metric {
	return &flexibleMetric{f}
}

// NewSquaredNormMetric is the default distance function between two poses, the squared norm of
// their pose error.
func NewSquaredNormMetric() Metric {
	return &flexibleMetric{func(from, to spatialmath.Transform) float64 {
		return utils.SquaredNorm(spatialmath.PoseError(from, to))
	}}
}

// NewWeightedSquaredNormMetric weighs each component of the pose error before squaring. The first
// three weights apply to translation and the last three to rotation.
func NewWeightedSquaredNormMetric(weights [6]float64) Metric {
	w := weights[:]
	return &flexibleMetric{func(from, to spatialmath.Transform) float64 {
		return utils.WeightedSquaredNorm(spatialmath.PoseError(from, to), w)
	}}
}
