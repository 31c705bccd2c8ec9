package referenceframe

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"go.viam.com/ets/kinematics"
	"go.viam.com/ets/spatialmath"
)

// JointConfig describes the joint of a link.
type JointConfig struct {
	// Type is one of Rx, Ry, Rz, tx, ty, tz.
	Type string   `json:"type"`
	J    *int     `json:"j,omitempty"`
	Flip bool     `json:"flip,omitempty"`
	Min  *float64 `json:"min,omitempty"`
	Max  *float64 `json:"max,omitempty"`
}

// ShapeConfig places a named shape in the frame of its link.
type ShapeConfig struct {
	Name      string                       `json:"name"`
	Transform *spatialmath.TransformConfig `json:"transform,omitempty"`
}

// LinkConfig contains all json fields needed to specify a link.
type LinkConfig struct {
	Name      string                       `json:"name"`
	Parent    string                       `json:"parent,omitempty"`
	Transform *spatialmath.TransformConfig `json:"transform,omitempty"`
	Joint     *JointConfig                 `json:"joint,omitempty"`
	Shapes    []ShapeConfig                `json:"shapes,omitempty"`
}

// TreeConfigJSON represents all supported fields in a link tree file.
type TreeConfigJSON struct {
	Name  string       `json:"name"`
	Links []LinkConfig `json:"links"`
}

// ParseConfig converts the joint config into a joint elementary transform.
func (cfg *JointConfig) ParseConfig() (kinematics.ET, error) {
	element := kinematics.ElementConfig{
		Type:  cfg.Type,
		Joint: true,
		J:     cfg.J,
		Flip:  cfg.Flip,
		Min:   cfg.Min,
		Max:   cfg.Max,
	}
	return element.ParseConfig()
}

// ParseConfig converts the link config into a Link without a parent. An unset joint index is
// left negative.
func (cfg *LinkConfig) ParseConfig() (Link, error) {
	a, err := cfg.Transform.ParseConfig()
	if err != nil {
		return Link{}, errors.Wrapf(err, "link %q", cfg.Name)
	}
	link := Link{Name: cfg.Name, Parent: noParent, A: a}
	if cfg.Joint != nil {
		et, err := cfg.Joint.ParseConfig()
		if err != nil {
			return Link{}, errors.Wrapf(err, "joint of link %q", cfg.Name)
		}
		link.IsJoint = true
		link.Flip = et.IsFlip()
		link.Axis = et.Axis()
		link.JointIndex = et.JointIndex()
		link.Limit = et.Limit()
	}
	for _, s := range cfg.Shapes {
		pose, err := s.Transform.ParseConfig()
		if err != nil {
			return Link{}, errors.Wrapf(err, "shape %q of link %q", s.Name, cfg.Name)
		}
		link.Shapes = append(link.Shapes, Shape{Name: s.Name, Pose: pose})
	}
	return link, nil
}

// UnmarshalTreeJSON will parse the given JSON data into a link tree. treeName sets the name of the
// tree, will use the name from the JSON if string is empty.
func UnmarshalTreeJSON(jsonData []byte, treeName string) (*LinkTree, error) {
	if len(jsonData) == 0 {
		return nil, kinematics.ErrNoModelInformation
	}
	cfg := &TreeConfigJSON{}
	if err := json.Unmarshal(jsonData, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal json file")
	}
	return cfg.ParseConfig(treeName)
}

// ParseTreeJSONFile will read a given file and then parse the contained JSON data.
func ParseTreeJSONFile(filename, treeName string) (*LinkTree, error) {
	//nolint:gosec
	jsonData, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read json file")
	}
	return UnmarshalTreeJSON(jsonData, treeName)
}

// ParseConfig builds the tree. Links may be listed before their parents.
func (cfg *TreeConfigJSON) ParseConfig(treeName string) (*LinkTree, error) {
	if treeName == "" {
		treeName = cfg.Name
	}
	ordered, err := sortLinks(cfg.Links)
	if err != nil {
		return nil, err
	}
	tree := NewLinkTree(treeName)
	for _, l := range ordered {
		if _, err := tree.AddLink(l); err != nil {
			return nil, err
		}
	}
	return tree, nil
}

// sortLinks orders links so that every parent comes before its children, keeping the given order
// where possible.
func sortLinks(links []LinkConfig) ([]LinkConfig, error) {
	names := lo.SliceToMap(links, func(l LinkConfig) (string, bool) { return l.Name, true })
	placed := map[string]bool{}
	ordered := make([]LinkConfig, 0, len(links))
	pending := links
	for len(pending) > 0 {
		var next []LinkConfig
		for _, l := range pending {
			if l.Parent == "" || placed[l.Parent] {
				ordered = append(ordered, l)
				placed[l.Name] = true
				continue
			}
			next = append(next, l)
		}
		if len(next) == len(pending) {
			for _, l := range next {
				if !names[l.Parent] {
					return nil, NewParentLinkNotFoundError(l.Name, l.Parent)
				}
			}
			return nil, errors.Wrapf(ErrCircularReference, "link %q", next[0].Name)
		}
		pending = next
	}
	return ordered, nil
}

// Config returns the json form of the tree.
func (t *LinkTree) Config() (*TreeConfigJSON, error) {
	cfg := &TreeConfigJSON{Name: t.name, Links: make([]LinkConfig, 0, len(t.links))}
	for _, l := range t.links {
		lc := LinkConfig{Name: l.Name}
		if l.Parent != noParent {
			lc.Parent = t.links[l.Parent].Name
		}
		if !l.A.IsIdentity() {
			a, err := spatialmath.NewTransformConfig(l.A)
			if err != nil {
				return nil, err
			}
			lc.Transform = a
		}
		if l.IsJoint {
			j, limit := l.JointIndex, l.Limit
			lc.Joint = &JointConfig{Type: l.Axis.String(), J: &j, Flip: l.Flip, Min: &limit.Min, Max: &limit.Max}
		}
		for _, s := range l.Shapes {
			pose, err := spatialmath.NewTransformConfig(s.Pose)
			if err != nil {
				return nil, err
			}
			lc.Shapes = append(lc.Shapes, ShapeConfig{Name: s.Name, Transform: pose})
		}
		cfg.Links = append(cfg.Links, lc)
	}
	return cfg, nil
}

// MarshalJSON serializes a LinkTree.
func (t *LinkTree) MarshalJSON() ([]byte, error) {
	cfg, err := t.Config()
	if err != nil {
		return nil, err
	}
	return json.Marshal(cfg)
}
