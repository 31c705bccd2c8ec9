package kinematics

import (
	"context"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/ets/logging"
	"go.viam.com/ets/spatialmath"
	"go.viam.com/ets/utils"
)

const (
	minLambda = 1e-9
	maxLambda = 1e9
)

// IKOptions configures the inverse kinematics solver.
type IKOptions struct {
	// Epsilon is the pose error norm under which a target counts as reached.
	Epsilon float64 `json:"epsilon"`
	// MaxIterations bounds the damped least squares steps of a single attempt.
	MaxIterations int `json:"max_iterations"`
	// MaxRestarts is how many attempts from random joint positions follow the seeded one.
	MaxRestarts int `json:"max_restarts"`
	// Lambda is the initial damping.
	Lambda float64 `json:"lambda"`
	// Weights scale the translation and rotation components of the pose error.
	Weights [6]float64 `json:"weights"`
	// Seed seeds the random restarts.
	Seed int64 `json:"seed"`
	// Metric overrides the weighted squared norm used to accept steps and detect convergence.
	Metric Metric `json:"-"`
}

// NewDefaultIKOptions returns the default solver configuration.
func NewDefaultIKOptions() *IKOptions {
	return &IKOptions{
		Epsilon:       1e-6,
		MaxIterations: 150,
		MaxRestarts:   20,
		Lambda:        1e-2,
		Weights:       [6]float64{1, 1, 1, 1, 1, 1},
		Seed:          1,
	}
}

// IKSolution is a joint vector reaching the target.
type IKSolution struct {
	Q          []float64
	Iterations int
	Restarts   int
	// Error is the metric distance between the reached pose and the target.
	Error float64
}

// IKSolver finds joint vectors for a target pose by Levenberg-Marquardt iteration on Jacob0 and
// the angle-axis pose error. Targets are expressed in the base frame of the chain.
type IKSolver struct {
	chain   Chain
	tool    *spatialmath.Transform
	opts    IKOptions
	metric  Metric
	logger  logging.Logger
	columns []int

	// per joint vector slot
	limits   []Limit
	bounded  []bool
	revolute []bool
}

// NewIKSolver returns a solver for c. A nil opts uses NewDefaultIKOptions and a nil logger discards
// output. Joints sharing a slot
// of the joint vector restrict it to the intersection of their limits.
func NewIKSolver(c Chain, tool *spatialmath.Transform, opts *IKOptions, logger logging.Logger) *IKSolver {
	if opts == nil {
		opts = NewDefaultIKOptions()
	}
	if logger == nil {
		logger = logging.NewBlankLogger("ik")
	}
	ik := &IKSolver{
		chain:    c,
		tool:     tool,
		opts:     *opts,
		metric:   opts.Metric,
		logger:   logger,
		columns:  JointIndices(c),
		limits:   make([]Limit, c.MinInputLen()),
		bounded:  make([]bool, c.MinInputLen()),
		revolute: make([]bool, c.MinInputLen()),
	}
	if ik.metric == nil {
		ik.metric = NewWeightedSquaredNormMetric(opts.Weights)
	}
	for i := 0; i < c.Len(); i++ {
		et := c.At(i)
		if !et.isJoint {
			continue
		}
		slot := et.jointIndex
		if !ik.bounded[slot] {
			ik.limits[slot] = et.limit
			ik.bounded[slot] = true
			ik.revolute[slot] = et.axis.IsRotation()
			continue
		}
		ik.limits[slot].Min = math.Max(ik.limits[slot].Min, et.limit.Min)
		ik.limits[slot].Max = math.Min(ik.limits[slot].Max, et.limit.Max)
		ik.revolute[slot] = ik.revolute[slot] && et.axis.IsRotation()
	}
	return ik
}

// Solve searches for a joint vector whose forward kinematics reach target. The first attempt
// starts at seed, or at the middle of the joint limits when seed is nil; later attempts start at
// random positions within the limits. Slots no joint reads keep their seed value.
func (ik *IKSolver) Solve(ctx context.Context, target spatialmath.Transform, seed []float64) (*IKSolution, error) {
	if seed == nil {
		seed = ik.midpoint()
	}
	if err := CheckInputLength(ik.chain, seed); err != nil {
		return nil, err
	}
	if ik.chain.NumJoints() == 0 {
		return nil, ErrIKNoSolution
	}
	rnd := rand.New(rand.NewSource(ik.opts.Seed))
	threshold := ik.opts.Epsilon * ik.opts.Epsilon

	total := 0
	for restart := 0; restart <= ik.opts.MaxRestarts; restart++ {
		start := append([]float64(nil), seed...)
		if restart > 0 {
			ik.randomize(rnd, start)
		}
		q, dist, iterations, err := ik.attempt(ctx, target, start, threshold)
		total += iterations
		if err != nil {
			return nil, err
		}
		if q != nil {
			ik.logger.Debugw("ik solved", "restarts", restart, "iterations", total, "error", dist)
			return &IKSolution{Q: q, Iterations: total, Restarts: restart, Error: dist}, nil
		}
		ik.logger.Debugw("ik attempt failed", "attempt", restart, "iterations", iterations, "error", dist)
	}
	return nil, ErrIKNoSolution
}

// attempt runs damped least squares from q. It returns a nil vector if the attempt stalled, ran
// out of iterations or converged outside the joint limits.
func (ik *IKSolver) attempt(
	ctx context.Context,
	target spatialmath.Transform,
	q []float64,
	threshold float64,
) ([]float64, float64, int, error) {
	lambda := ik.opts.Lambda
	current := fkine(ik.chain, q, nil, ik.tool)
	dist := ik.metric.Distance(current, target)

	iteration := 0
	for ; iteration < ik.opts.MaxIterations; iteration++ {
		if err := ctx.Err(); err != nil {
			return nil, dist, iteration, err
		}
		if dist < threshold {
			break
		}
		dq, err := ik.step(q, current, target, lambda)
		if err != nil {
			lambda *= 10
			if lambda > maxLambda {
				break
			}
			continue
		}
		candidate := append([]float64(nil), q...)
		for col, slot := range ik.columns {
			candidate[slot] += dq[col]
		}
		next := fkine(ik.chain, candidate, nil, ik.tool)
		nextDist := ik.metric.Distance(next, target)
		if nextDist < dist {
			q, current, dist = candidate, next, nextDist
			lambda = utils.Clamp(lambda/2, minLambda, maxLambda)
			continue
		}
		lambda *= 2
		if lambda > maxLambda {
			break
		}
	}
	if dist < threshold && ik.normalize(q) {
		return q, dist, iteration, nil
	}
	return nil, dist, iteration, nil
}

// step solves (J'WJ + lambda*I) dq = J'W e for the per column joint step.
func (ik *IKSolver) step(q []float64, current, target spatialmath.Transform, lambda float64) ([]float64, error) {
	jac, err := Jacob0(ik.chain, q, ik.tool)
	if err != nil {
		return nil, err
	}
	n := len(ik.columns)
	e := spatialmath.PoseError(current, target)

	jtw := mat.NewDense(n, 6, nil)
	for r := 0; r < 6; r++ {
		for c := 0; c < n; c++ {
			jtw.Set(c, r, jac.At(r, c)*ik.opts.Weights[r])
		}
	}
	a := mat.NewDense(n, n, nil)
	a.Mul(jtw, jac)
	for i := 0; i < n; i++ {
		a.Set(i, i, a.At(i, i)+lambda)
	}
	b := mat.NewVecDense(n, nil)
	b.MulVec(jtw, mat.NewVecDense(6, e))

	var dq mat.VecDense
	if err := dq.SolveVec(a, b); err != nil {
		return nil, err
	}
	step := mat.Col(nil, 0, &dq)
	if floats.HasNaN(step) {
		return nil, ErrIKNoSolution
	}
	return step, nil
}

// normalize wraps revolute slots by whole turns into their limits and reports whether every
// bounded slot ends up inside its limit.
func (ik *IKSolver) normalize(q []float64) bool {
	for slot, l := range ik.limits {
		if !ik.bounded[slot] {
			continue
		}
		v := q[slot]
		if ik.revolute[slot] {
			for v > l.Max && v-2*math.Pi >= l.Min {
				v -= 2 * math.Pi
			}
			for v < l.Min && v+2*math.Pi <= l.Max {
				v += 2 * math.Pi
			}
		}
		if !l.Contains(v) {
			return false
		}
		q[slot] = v
	}
	return true
}

func (ik *IKSolver) sampleRange(slot int) (float64, float64) {
	l := ik.limits[slot]
	lo, hi := l.Min, l.Max
	if math.IsInf(lo, 0) || math.IsNaN(lo) {
		lo = -math.Pi
	}
	if math.IsInf(hi, 0) || math.IsNaN(hi) {
		hi = math.Pi
	}
	return lo, hi
}

func (ik *IKSolver) midpoint() []float64 {
	q := make([]float64, len(ik.limits))
	for slot := range q {
		if ik.bounded[slot] {
			lo, hi := ik.sampleRange(slot)
			q[slot] = (lo + hi) / 2
		}
	}
	return q
}

func (ik *IKSolver) randomize(rnd *rand.Rand, q []float64) {
	for slot := range ik.limits {
		if ik.bounded[slot] {
			lo, hi := ik.sampleRange(slot)
			q[slot] = lo + rnd.Float64()*(hi-lo)
		}
	}
}
