package cli

import (
	"encoding/json"
	"fmt"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"github.com/yosuke-furukawa/json5/encoding/json5"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/ets/kinematics"
	"go.viam.com/ets/logging"
	"go.viam.com/ets/referenceframe"
	"go.viam.com/ets/spatialmath"
)

var errNoJointVector = errors.New("no joint vector given, pass one with --q")

func newLogger(c *cli.Context) logging.Logger {
	if c.Bool(flagDebug) {
		return logging.NewDebugLogger("ets")
	}
	return logging.NewLogger("ets")
}

func jointVectorsFlag(c *cli.Context) [][]float64 {
	if v, ok := c.Generic(flagQ).(*jointVectors); ok {
		return v.vectors
	}
	return nil
}

// firstJointVector returns the first --q, or zeros for a chain without joints.
func firstJointVector(c *cli.Context, m *kinematics.Model) ([]float64, error) {
	qs := jointVectorsFlag(c)
	if len(qs) == 0 {
		if m.ETS.MinInputLen() == 0 {
			return []float64{}, nil
		}
		return nil, errNoJointVector
	}
	return qs[0], nil
}

func loadTree(c *cli.Context) (*referenceframe.LinkTree, error) {
	if !c.Bool(flagTree) {
		return nil, errors.Errorf("--%s is required to read %s as a link tree", flagTree, c.String(flagModel))
	}
	return referenceframe.ParseTreeJSONFile(c.String(flagModel), "")
}

// loadModel reads the chain model, or flattens the path to --end of a link tree into one.
func loadModel(c *cli.Context) (*kinematics.Model, error) {
	if !c.Bool(flagTree) {
		return kinematics.ParseModelJSONFile(c.String(flagModel), "")
	}
	tree, err := loadTree(c)
	if err != nil {
		return nil, err
	}
	end := c.String(flagEnd)
	if end == "" {
		return nil, errors.Errorf("--%s is required with --%s", flagEnd, flagTree)
	}
	chain, err := tree.Chain(end)
	if err != nil {
		return nil, err
	}
	return &kinematics.Model{Name: fmt.Sprintf("%s:%s", tree.Name(), end), ETS: chain}, nil
}

func printJSON(c *cli.Context, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	printf(c.App.Writer, "%s", data)
	return nil
}

// DescribeAction prints the elements of a chain model or the links of a link tree.
func DescribeAction(c *cli.Context) error {
	if c.Bool(flagTree) && c.String(flagEnd) == "" {
		tree, err := loadTree(c)
		if err != nil {
			return err
		}
		if c.Bool(flagJSON) {
			return printJSON(c, tree)
		}
		printf(c.App.Writer, "%s: %d links, %d joints", tree.Name(), tree.Len(), tree.NumJoints())
		printf(c.App.Writer, "%s", tree.String())
		return nil
	}
	m, err := loadModel(c)
	if err != nil {
		return err
	}
	if c.Bool(flagJSON) {
		return printJSON(c, m)
	}
	printf(c.App.Writer, "%s: %s", m.Name, m.ETS.String())
	printf(c.App.Writer, "%s", m.ETS.Table())
	return nil
}

// FkineAction prints the pose of the end of the chain for every joint vector.
func FkineAction(c *cli.Context) error {
	m, err := loadModel(c)
	if err != nil {
		return err
	}
	qs := jointVectorsFlag(c)
	if len(qs) == 0 {
		q, err := firstJointVector(c, m)
		if err != nil {
			return err
		}
		qs = [][]float64{q}
	}
	poses, err := m.FkineTrajectory(c.Context, qs)
	if err != nil {
		return err
	}
	if c.Bool(flagJSON) {
		rows := make([][4][4]float64, 0, len(poses))
		for _, p := range poses {
			rows = append(rows, p.Rows())
		}
		return printJSON(c, rows)
	}
	for i, p := range poses {
		printf(c.App.Writer, "q = [%s]", formatFloats(qs[i]))
		printf(c.App.Writer, "%s", transformTable(p))
	}
	return nil
}

func jacobianAction(c *cli.Context, jacobian func(*kinematics.Model, []float64) (*mat.Dense, error)) error {
	m, err := loadModel(c)
	if err != nil {
		return err
	}
	q, err := firstJointVector(c, m)
	if err != nil {
		return err
	}
	jac, err := jacobian(m, q)
	if err != nil {
		return err
	}
	if c.Bool(flagJSON) {
		return printJSON(c, denseRows(jac))
	}
	printf(c.App.Writer, "%s", jacobianTable(jac))
	return nil
}

// Jacob0Action prints the base frame Jacobian.
func Jacob0Action(c *cli.Context) error {
	return jacobianAction(c, (*kinematics.Model).Jacob0)
}

// JacobeAction prints the end frame Jacobian.
func JacobeAction(c *cli.Context) error {
	return jacobianAction(c, (*kinematics.Model).Jacobe)
}

// Jacob0vAction prints the velocity transform from the end frame to the base frame.
func Jacob0vAction(c *cli.Context) error {
	return jacobianAction(c, (*kinematics.Model).Jacob0v)
}

// JacobevAction prints the velocity transform from the base frame to the end frame.
func JacobevAction(c *cli.Context) error {
	return jacobianAction(c, (*kinematics.Model).Jacobev)
}

type jacobmResult struct {
	Axes           string    `json:"axes"`
	Manipulability float64   `json:"manipulability"`
	Jacobm         []float64 `json:"jacobm"`
}

// JacobmAction prints the manipulability and the manipulability Jacobian.
func JacobmAction(c *cli.Context) error {
	axes, err := kinematics.ParseAxes(c.String(flagAxes))
	if err != nil {
		return err
	}
	m, err := loadModel(c)
	if err != nil {
		return err
	}
	q, err := firstJointVector(c, m)
	if err != nil {
		return err
	}
	measure, err := m.Manipulability(q, axes)
	if err != nil {
		return err
	}
	jm, err := m.Jacobm(q, axes)
	if err != nil {
		return err
	}
	if c.Bool(flagJSON) {
		return printJSON(c, jacobmResult{Axes: axes.String(), Manipulability: measure, Jacobm: jm})
	}
	printf(c.App.Writer, "manipulability (%s) %.6f", axes, measure)
	printf(c.App.Writer, "jacobm = [%s]", formatFloats(jm))
	return nil
}

func hessianAction(c *cli.Context, hessian func(*kinematics.Model, []float64) ([]*mat.Dense, error)) error {
	m, err := loadModel(c)
	if err != nil {
		return err
	}
	q, err := firstJointVector(c, m)
	if err != nil {
		return err
	}
	h, err := hessian(m, q)
	if err != nil {
		return err
	}
	if c.Bool(flagJSON) {
		out := make([][][]float64, 0, len(h))
		for _, hi := range h {
			out = append(out, denseRows(hi))
		}
		return printJSON(c, out)
	}
	for i, hi := range h {
		printf(c.App.Writer, "joint column %d", i)
		printf(c.App.Writer, "%s", jacobianTable(hi))
	}
	return nil
}

// Hessian0Action prints the base frame Hessian.
func Hessian0Action(c *cli.Context) error {
	return hessianAction(c, (*kinematics.Model).Hessian0)
}

// HessianeAction prints the end frame Hessian.
func HessianeAction(c *cli.Context) error {
	return hessianAction(c, (*kinematics.Model).Hessiane)
}

func parseTarget(value string) (spatialmath.Transform, error) {
	v, err := parseFloats(value)
	if err != nil {
		return spatialmath.Transform{}, err
	}
	if len(v) != 6 {
		return spatialmath.Transform{}, errors.Errorf("target needs 6 numbers x,y,z,rx,ry,rz, got %d", len(v))
	}
	rot := spatialmath.R3AA{RX: v[3], RY: v[4], RZ: v[5]}.Rotation()
	return spatialmath.NewTransform(rot, r3.Vector{X: v[0], Y: v[1], Z: v[2]}), nil
}

// parseIKOptions layers --options over the defaults, then --seed and --restarts when given.
func parseIKOptions(c *cli.Context) (*kinematics.IKOptions, error) {
	opts := kinematics.NewDefaultIKOptions()
	if raw := c.String(flagOptions); raw != "" {
		if err := json5.Unmarshal([]byte(raw), opts); err != nil {
			return nil, errors.Wrapf(err, "cannot parse --%s", flagOptions)
		}
	}
	if c.IsSet(flagSeed) {
		opts.Seed = c.Int64(flagSeed)
	}
	if c.IsSet(flagRestarts) {
		opts.MaxRestarts = c.Int(flagRestarts)
	}
	return opts, nil
}

type ikResult struct {
	Q          []float64 `json:"q"`
	Iterations int       `json:"iterations"`
	Restarts   int       `json:"restarts"`
	Error      float64   `json:"error"`
}

// IKAction solves for a joint vector that reaches --target.
func IKAction(c *cli.Context) error {
	logger := newLogger(c)
	m, err := loadModel(c)
	if err != nil {
		return err
	}
	target, err := parseTarget(c.String(flagTarget))
	if err != nil {
		return err
	}
	var seed []float64
	if qs := jointVectorsFlag(c); len(qs) > 0 {
		seed = qs[0]
	}
	opts, err := parseIKOptions(c)
	if err != nil {
		return err
	}

	sol, err := m.IK(c.Context, target, seed, opts, logger)
	if err != nil {
		return err
	}
	if c.Bool(flagJSON) {
		return printJSON(c, ikResult{Q: sol.Q, Iterations: sol.Iterations, Restarts: sol.Restarts, Error: sol.Error})
	}
	printf(c.App.Writer, "q = [%s]", formatFloats(sol.Q))
	printf(c.App.Writer, "iterations %d, restarts %d, error %.3g", sol.Iterations, sol.Restarts, sol.Error)
	pose, err := m.Fkine(sol.Q)
	if err != nil {
		return err
	}
	printf(c.App.Writer, "%s", transformTable(pose))
	return nil
}

// TreeAction prints the world pose of every link and shape of a link tree.
func TreeAction(c *cli.Context) error {
	tree, err := loadTree(c)
	if err != nil {
		return err
	}
	qs := jointVectorsFlag(c)
	q := make([]float64, tree.MinInputLen())
	if len(qs) > 0 {
		q = qs[0]
	}
	poses, err := tree.FkineAll(q, nil)
	if err != nil {
		return err
	}
	if c.Bool(flagJSON) {
		return printJSON(c, treePosesJSON(poses))
	}
	printf(c.App.Writer, "%s", linkPosesTable(poses))
	if len(poses.Shapes) > 0 {
		printf(c.App.Writer, "%s", shapePosesTable(poses))
	}
	return nil
}
