package spatialmath

import (
	"encoding/json"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/ets/utils"
)

// OrientationType names an orientation representation in config files.
type OrientationType string

// The orientation representations understood by OrientationConfig. Angles are radians except
// for AxisAnglesDegreesType.
const (
	NoOrientation         = OrientationType("")
	AxisAnglesType        = OrientationType("axis_angles")
	AxisAnglesDegreesType = OrientationType("axis_angles_degrees")
	EulerAnglesType       = OrientationType("euler_angles")
	QuaternionType        = OrientationType("quaternion")
)

// ErrZeroAxis is returned when an axis angle orientation has no axis.
var ErrZeroAxis = errors.New("axis angle orientation has a zero length axis")

// NewUnknownOrientationTypeError returns an error for an orientation type that cannot be parsed.
func NewUnknownOrientationTypeError(t OrientationType) error {
	return errors.Errorf("orientation type %s not recognized", t)
}

// TranslationConfig is the json form of a translation.
type TranslationConfig struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// NewTranslationConfig returns a config for the given vector.
func NewTranslationConfig(v r3.Vector) *TranslationConfig {
	return &TranslationConfig{X: v.X, Y: v.Y, Z: v.Z}
}

// ParseConfig converts the config to a vector.
func (cfg TranslationConfig) ParseConfig() r3.Vector {
	return r3.Vector{X: cfg.X, Y: cfg.Y, Z: cfg.Z}
}

// OrientationConfig holds an orientation whose value is decoded according to its type.
type OrientationConfig struct {
	Type  OrientationType `json:"type"`
	Value json.RawMessage `json:"value,omitempty"`
}

type axisAnglesValue struct {
	Theta float64 `json:"th"`
	RX    float64 `json:"x"`
	RY    float64 `json:"y"`
	RZ    float64 `json:"z"`
}

type eulerAnglesValue struct {
	Roll  float64 `json:"roll"`
	Pitch float64 `json:"pitch"`
	Yaw   float64 `json:"yaw"`
}

type quaternionValue struct {
	W float64 `json:"w"`
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// NewOrientationConfig returns a quaternion config describing the rotation of t.
func NewOrientationConfig(t Transform) (*OrientationConfig, error) {
	q := t.Quaternion()
	b, err := json.Marshal(quaternionValue{W: q.Real, X: q.Imag, Y: q.Jmag, Z: q.Kmag})
	if err != nil {
		return nil, err
	}
	return &OrientationConfig{Type: QuaternionType, Value: b}, nil
}

// ParseConfig decodes the orientation into a rotation matrix. A nil or untyped config is the identity.
func (cfg *OrientationConfig) ParseConfig() (mgl64.Mat3, error) {
	if cfg == nil || cfg.Type == NoOrientation {
		return mgl64.Ident3(), nil
	}
	switch cfg.Type {
	case AxisAnglesType, AxisAnglesDegreesType:
		var aa axisAnglesValue
		if err := json.Unmarshal(cfg.Value, &aa); err != nil {
			return mgl64.Mat3{}, errors.Wrapf(err, "cannot parse %s orientation", cfg.Type)
		}
		if cfg.Type == AxisAnglesDegreesType {
			aa.Theta = utils.DegToRad(aa.Theta)
		}
		axis := mgl64.Vec3{aa.RX, aa.RY, aa.RZ}
		if axis.Len() == 0 {
			if aa.Theta == 0 {
				return mgl64.Ident3(), nil
			}
			return mgl64.Mat3{}, ErrZeroAxis
		}
		return mgl64.HomogRotate3D(aa.Theta, axis.Normalize()).Mat3(), nil
	case EulerAnglesType:
		var ea eulerAnglesValue
		if err := json.Unmarshal(cfg.Value, &ea); err != nil {
			return mgl64.Mat3{}, errors.Wrapf(err, "cannot parse %s orientation", cfg.Type)
		}
		return mgl64.HomogRotate3DZ(ea.Yaw).Mul4(
			mgl64.HomogRotate3DY(ea.Pitch).Mul4(
				mgl64.HomogRotate3DX(ea.Roll))).Mat3(), nil
	case QuaternionType:
		var qv quaternionValue
		if err := json.Unmarshal(cfg.Value, &qv); err != nil {
			return mgl64.Mat3{}, errors.Wrapf(err, "cannot parse %s orientation", cfg.Type)
		}
		q := mgl64.Quat{W: qv.W, V: mgl64.Vec3{qv.X, qv.Y, qv.Z}}
		if q.Len() == 0 {
			return mgl64.Mat3{}, errors.New("quaternion orientation has zero length")
		}
		return q.Normalize().Mat4().Mat3(), nil
	default:
		return mgl64.Mat3{}, NewUnknownOrientationTypeError(cfg.Type)
	}
}

// TransformConfig is the json form of a rigid transform.
type TransformConfig struct {
	Translation TranslationConfig  `json:"translation"`
	Orientation *OrientationConfig `json:"orientation,omitempty"`
}

// NewTransformConfig returns the config form of t.
func NewTransformConfig(t Transform) (*TransformConfig, error) {
	orient, err := NewOrientationConfig(t)
	if err != nil {
		return nil, err
	}
	return &TransformConfig{
		Translation: *NewTranslationConfig(t.Translation()),
		Orientation: orient,
	}, nil
}

// ParseConfig converts the config into a Transform.
func (cfg *TransformConfig) ParseConfig() (Transform, error) {
	if cfg == nil {
		return NewIdentityTransform(), nil
	}
	rot, err := cfg.Orientation.ParseConfig()
	if err != nil {
		return Transform{}, err
	}
	return NewTransform(rot, cfg.Translation.ParseConfig()), nil
}
