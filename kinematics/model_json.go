package kinematics

import (
	"context"
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/ets/logging"
	"go.viam.com/ets/spatialmath"
)

// se3Type is the element type of an arbitrary static transform.
const se3Type = "SE3"

// ElementConfig is the json form of one elementary transform.
type ElementConfig struct {
	// Type is an axis name (Rx, Ry, Rz, tx, ty, tz) or SE3.
	Type  string  `json:"type"`
	Joint bool    `json:"joint,omitempty"`
	J     *int    `json:"j,omitempty"`
	Flip  bool    `json:"flip,omitempty"`
	Value float64 `json:"value,omitempty"`
	// Min and Max are the joint limits, in radians or metres.
	Min       *float64                     `json:"min,omitempty"`
	Max       *float64                     `json:"max,omitempty"`
	Transform *spatialmath.TransformConfig `json:"transform,omitempty"`
}

// ModelConfigJSON represents all supported fields in a chain model file.
type ModelConfigJSON struct {
	Name     string                       `json:"name"`
	Elements []ElementConfig              `json:"elements"`
	Base     *spatialmath.TransformConfig `json:"base,omitempty"`
	Tool     *spatialmath.TransformConfig `json:"tool,omitempty"`
}

// ParseConfig converts the element config into an ET.
func (cfg *ElementConfig) ParseConfig() (ET, error) {
	if cfg.Type == se3Type {
		if cfg.Joint {
			return ET{}, errors.New("an SE3 element cannot be a joint")
		}
		t, err := cfg.Transform.ParseConfig()
		if err != nil {
			return ET{}, err
		}
		return NewTransformET(t), nil
	}
	axis, err := ParseAxis(cfg.Type)
	if err != nil {
		return ET{}, err
	}
	if !cfg.Joint {
		return NewStaticET(axis, cfg.Value), nil
	}

	var opts []ETOption
	if cfg.J != nil {
		if *cfg.J < 0 {
			return ET{}, NewNegativeJointIndexError(*cfg.J)
		}
		opts = append(opts, WithJointIndex(*cfg.J))
	}
	if cfg.Flip {
		opts = append(opts, WithFlip())
	}
	limit := defaultLimit(axis)
	if cfg.Min != nil {
		limit.Min = *cfg.Min
	}
	if cfg.Max != nil {
		limit.Max = *cfg.Max
	}
	if limit.Min > limit.Max {
		return ET{}, errors.Errorf("joint limit min %v is greater than max %v", limit.Min, limit.Max)
	}
	opts = append(opts, WithLimit(limit))
	return NewJointET(axis, opts...), nil
}

// NewElementConfig returns the config form of et.
func NewElementConfig(et ET) (ElementConfig, error) {
	switch {
	case et.isJoint:
		j := et.jointIndex
		l := et.limit
		return ElementConfig{Type: et.axis.String(), Joint: true, J: &j, Flip: et.isFlip, Min: &l.Min, Max: &l.Max}, nil
	case et.isSE3:
		t, err := spatialmath.NewTransformConfig(et.static)
		if err != nil {
			return ElementConfig{}, err
		}
		return ElementConfig{Type: se3Type, Transform: t}, nil
	default:
		return ElementConfig{Type: et.axis.String(), Value: et.eta}, nil
	}
}

// Model is a named chain with an optional base and tool transform.
type Model struct {
	Name string
	ETS  *ETS
	Base *spatialmath.Transform
	Tool *spatialmath.Transform
}

// UnmarshalModelJSON will parse the given JSON data into a chain model. modelName sets the name of the model,
// will use the name from the JSON if string is empty.
func UnmarshalModelJSON(jsonData []byte, modelName string) (*Model, error) {
	if len(jsonData) == 0 {
		return nil, ErrNoModelInformation
	}
	cfg := &ModelConfigJSON{}
	if err := json.Unmarshal(jsonData, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal json file")
	}
	return cfg.ParseConfig(modelName)
}

// ParseModelJSONFile will read a given file and then parse the contained JSON data.
func ParseModelJSONFile(filename, modelName string) (*Model, error) {
	//nolint:gosec
	jsonData, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read json file")
	}
	return UnmarshalModelJSON(jsonData, modelName)
}

// ParseConfig converts the config into a Model. Every invalid element is reported.
func (cfg *ModelConfigJSON) ParseConfig(modelName string) (*Model, error) {
	if modelName == "" {
		modelName = cfg.Name
	}
	var errs error
	ets := make([]ET, 0, len(cfg.Elements))
	for i := range cfg.Elements {
		et, err := cfg.Elements[i].ParseConfig()
		if err != nil {
			errs = multierr.Append(errs, errors.Wrapf(err, "element %d", i))
			continue
		}
		ets = append(ets, et)
	}
	base, err := parseOptionalTransform(cfg.Base)
	if err != nil {
		errs = multierr.Append(errs, errors.Wrap(err, "base"))
	}
	tool, err := parseOptionalTransform(cfg.Tool)
	if err != nil {
		errs = multierr.Append(errs, errors.Wrap(err, "tool"))
	}
	if errs != nil {
		return nil, errs
	}
	return &Model{Name: modelName, ETS: NewETS(ets...), Base: base, Tool: tool}, nil
}

func parseOptionalTransform(cfg *spatialmath.TransformConfig) (*spatialmath.Transform, error) {
	if cfg == nil {
		return nil, nil
	}
	t, err := cfg.ParseConfig()
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Config returns the json form of the model.
func (m *Model) Config() (*ModelConfigJSON, error) {
	cfg := &ModelConfigJSON{Name: m.Name}
	for _, et := range m.ETS.ets {
		ec, err := NewElementConfig(et)
		if err != nil {
			return nil, err
		}
		cfg.Elements = append(cfg.Elements, ec)
	}
	var err error
	if m.Base != nil {
		if cfg.Base, err = spatialmath.NewTransformConfig(*m.Base); err != nil {
			return nil, err
		}
	}
	if m.Tool != nil {
		if cfg.Tool, err = spatialmath.NewTransformConfig(*m.Tool); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// MarshalJSON serializes a Model.
func (m *Model) MarshalJSON() ([]byte, error) {
	cfg, err := m.Config()
	if err != nil {
		return nil, err
	}
	return json.Marshal(cfg)
}

// Fkine returns the world pose of the tool, base and tool included.
func (m *Model) Fkine(q []float64) (spatialmath.Transform, error) {
	return Fkine(m.ETS, q, m.Base, m.Tool)
}

// FkineTrajectory returns the world pose of the tool for every row of qs.
func (m *Model) FkineTrajectory(ctx context.Context, qs [][]float64) ([]spatialmath.Transform, error) {
	return FkineTrajectory(ctx, m.ETS, qs, m.Base, m.Tool)
}

// Jacob0 returns the Jacobian in the base frame of the chain, tool included.
func (m *Model) Jacob0(q []float64) (*mat.Dense, error) {
	return Jacob0(m.ETS, q, m.Tool)
}

// Jacobe returns the Jacobian in the tool frame.
func (m *Model) Jacobe(q []float64) (*mat.Dense, error) {
	return Jacobe(m.ETS, q, m.Tool)
}

// Hessian0 returns the Hessian of Jacob0.
func (m *Model) Hessian0(q []float64) ([]*mat.Dense, error) {
	return Hessian0(m.ETS, q, m.Tool)
}

// Hessiane returns the Hessian of Jacobe.
func (m *Model) Hessiane(q []float64) ([]*mat.Dense, error) {
	return Hessiane(m.ETS, q, m.Tool)
}

// Jacob0v returns the velocity transform from the tool frame to the base frame of the chain.
func (m *Model) Jacob0v(q []float64) (*mat.Dense, error) {
	return Jacob0v(m.ETS, q, m.Tool)
}

// Jacobev returns the velocity transform from the base frame of the chain to the tool frame.
func (m *Model) Jacobev(q []float64) (*mat.Dense, error) {
	return Jacobev(m.ETS, q, m.Tool)
}

// Manipulability returns the manipulability of Jacob0 over the selected axes.
func (m *Model) Manipulability(q []float64, axes Axes) (float64, error) {
	j, err := m.Jacob0(q)
	if err != nil {
		return 0, err
	}
	if m.ETS.NumJoints() == 0 {
		return 0, nil
	}
	return Manipulability(j, axes)
}

// Jacobm returns the manipulability Jacobian over the selected axes.
func (m *Model) Jacobm(q []float64, axes Axes) ([]float64, error) {
	return Jacobm(m.ETS, q, m.Tool, axes)
}

// IK solves for a joint vector that puts the tool at the world pose target.
func (m *Model) IK(
	ctx context.Context,
	target spatialmath.Transform,
	seed []float64,
	opts *IKOptions,
	logger logging.Logger,
) (*IKSolution, error) {
	if m.Base != nil {
		target = spatialmath.FastInverse(*m.Base).Mul(target)
	}
	if logger == nil {
		logger = logging.NewBlankLogger("ets")
	}
	return NewIKSolver(m.ETS, m.Tool, opts, logger.Sublogger("ik")).Solve(ctx, target, seed)
}
