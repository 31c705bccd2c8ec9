// Package referenceframe is a link tree view over the kinematics core. Links are kept in an arena
// and refer to their parent by index, so a tree can be flattened into a kinematics chain for any
// end link.
package referenceframe

import (
	"fmt"
	"slices"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/ets/kinematics"
	"go.viam.com/ets/spatialmath"
)

// noParent is the parent index of a root link.
const noParent = -1

// Shape is a pose attached to a link, expressed in the link's frame.
type Shape struct {
	Name string
	Pose spatialmath.Transform
}

// Link is one node of a LinkTree. Its pose relative to its parent is A followed by the joint
// motion, if any.
type Link struct {
	Name string
	// Parent indexes the tree's links and is -1 for a root.
	Parent     int
	A          spatialmath.Transform
	IsJoint    bool
	Flip       bool
	Axis       kinematics.Axis
	JointIndex int
	Limit      kinematics.Limit
	Shapes     []Shape
}

func (l *Link) joint() kinematics.ET {
	opts := []kinematics.ETOption{kinematics.WithJointIndex(l.JointIndex), kinematics.WithLimit(l.Limit)}
	if l.Flip {
		opts = append(opts, kinematics.WithFlip())
	}
	return kinematics.NewJointET(l.Axis, opts...)
}

// LinkTree is a forest of links. Links can only be added after their parent, so the tree never
// contains a cycle.
type LinkTree struct {
	name        string
	links       []Link
	children    [][]int
	byName      map[string]int
	minInputLen int
}

// NewLinkTree returns an empty tree.
func NewLinkTree(name string) *LinkTree {
	return &LinkTree{name: name, byName: map[string]int{}}
}

// Name returns the name of the tree.
func (t *LinkTree) Name() string {
	return t.name
}

// Len returns the number of links.
func (t *LinkTree) Len() int {
	return len(t.links)
}

// Link returns a copy of the link at index i.
func (t *LinkTree) Link(i int) Link {
	l := t.links[i]
	l.Shapes = slices.Clone(l.Shapes)
	return l
}

// Index returns the arena index of the named link.
func (t *LinkTree) Index(name string) (int, error) {
	i, ok := t.byName[name]
	if !ok {
		return 0, NewLinkNotFoundError(name)
	}
	return i, nil
}

// NumJoints returns the number of jointed links.
func (t *LinkTree) NumJoints() int {
	return lo.CountBy(t.links, func(l Link) bool { return l.IsJoint })
}

// MinInputLen is the length of the shortest joint vector the tree accepts.
func (t *LinkTree) MinInputLen() int {
	return t.minInputLen
}

// AddLink parses cfg and appends the link to the tree, returning its index. The parent must
// already be in the tree. A joint without an index gets the next index after the largest seen.
func (t *LinkTree) AddLink(cfg LinkConfig) (int, error) {
	if cfg.Name == "" {
		return 0, NewEmptyLinkNameError()
	}
	if _, ok := t.byName[cfg.Name]; ok {
		return 0, NewDuplicateLinkError(cfg.Name)
	}
	parent := noParent
	if cfg.Parent != "" {
		p, ok := t.byName[cfg.Parent]
		if !ok {
			return 0, NewParentLinkNotFoundError(cfg.Name, cfg.Parent)
		}
		parent = p
	}
	link, err := cfg.ParseConfig()
	if err != nil {
		return 0, err
	}
	link.Parent = parent
	if link.IsJoint {
		if link.JointIndex < 0 {
			link.JointIndex = t.minInputLen
		}
		t.minInputLen = max(t.minInputLen, link.JointIndex+1)
	}

	i := len(t.links)
	t.links = append(t.links, link)
	t.children = append(t.children, nil)
	if parent != noParent {
		t.children[parent] = append(t.children[parent], i)
	}
	t.byName[link.Name] = i
	return i, nil
}

// Roots returns the indices of the links without a parent, in insertion order.
func (t *LinkTree) Roots() []int {
	return lo.Filter(lo.Range(len(t.links)), func(i, _ int) bool { return t.links[i].Parent == noParent })
}

// Children returns the indices of the direct children of link i.
func (t *LinkTree) Children(i int) []int {
	return slices.Clone(t.children[i])
}

// Order returns every link index in depth first, parent to child order. Roots and siblings keep
// their insertion order.
func (t *LinkTree) Order() []int {
	order := make([]int, 0, len(t.links))
	var visit func(i int)
	visit = func(i int) {
		order = append(order, i)
		for _, c := range t.children[i] {
			visit(c)
		}
	}
	for _, r := range t.Roots() {
		visit(r)
	}
	return order
}

// Path returns the link indices from the root to end, end included.
func (t *LinkTree) Path(end string) ([]int, error) {
	i, err := t.Index(end)
	if err != nil {
		return nil, err
	}
	var path []int
	for ; i != noParent; i = t.links[i].Parent {
		path = append(path, i)
	}
	slices.Reverse(path)
	return path, nil
}

// Chain flattens the path to end into an elementary transform sequence. Each link contributes its
// static transform, unless it is the identity, followed by its joint.
func (t *LinkTree) Chain(end string) (*kinematics.ETS, error) {
	path, err := t.Path(end)
	if err != nil {
		return nil, err
	}
	ets := make([]kinematics.ET, 0, 2*len(path))
	for _, i := range path {
		l := &t.links[i]
		if !l.A.IsIdentity() {
			ets = append(ets, kinematics.NewTransformET(l.A))
		}
		if l.IsJoint {
			ets = append(ets, l.joint())
		}
	}
	return kinematics.NewETS(ets...), nil
}

// LinkTransform returns the pose of link i in its parent's frame when its joint is at eta.
func (t *LinkTree) LinkTransform(i int, eta float64) spatialmath.Transform {
	l := &t.links[i]
	if !l.IsJoint {
		return l.A
	}
	joint := l.joint()
	return spatialmath.Compose(l.A, joint.Evaluate(eta))
}

func (t *LinkTree) checkInputLength(q []float64) error {
	if len(q) < t.minInputLen {
		return kinematics.NewIncorrectInputLengthError(len(q), t.minInputLen)
	}
	return nil
}

// Fkine returns the pose of the end link, with the optional base and tool applied.
func (t *LinkTree) Fkine(end string, q []float64, base, tool *spatialmath.Transform) (spatialmath.Transform, error) {
	if err := t.checkInputLength(q); err != nil {
		return spatialmath.Transform{}, err
	}
	chain, err := t.Chain(end)
	if err != nil {
		return spatialmath.Transform{}, err
	}
	return kinematics.Fkine(chain, q, base, tool)
}

// Jacob0 returns the base frame Jacobian of the path to end. Columns follow the jointed links
// from the root.
func (t *LinkTree) Jacob0(end string, q []float64, tool *spatialmath.Transform) (*mat.Dense, error) {
	if err := t.checkInputLength(q); err != nil {
		return nil, err
	}
	chain, err := t.Chain(end)
	if err != nil {
		return nil, err
	}
	return kinematics.Jacob0(chain, q, tool)
}

// Jacobe returns the Jacobian of the path to end in the frame of the end link, tool included.
func (t *LinkTree) Jacobe(end string, q []float64, tool *spatialmath.Transform) (*mat.Dense, error) {
	if err := t.checkInputLength(q); err != nil {
		return nil, err
	}
	chain, err := t.Chain(end)
	if err != nil {
		return nil, err
	}
	return kinematics.Jacobe(chain, q, tool)
}

// String prints out a table of each link in depth first order, with columns of name, parent, joint
// and the translation and orientation of its static transform.
func (t *LinkTree) String() string {
	tw := table.NewWriter()
	tw.AppendHeader(table.Row{"#", "Name", "Parent", "Joint", "Translation", "Orientation", "Shapes"})
	for _, i := range t.Order() {
		l := &t.links[i]
		parent := ""
		if l.Parent != noParent {
			parent = t.links[l.Parent].Name
		}
		joint := ""
		if l.IsJoint {
			joint = l.joint().String()
		}
		p := l.A.Translation()
		q := l.A.Quaternion()
		tw.AppendRow(table.Row{
			i,
			l.Name,
			parent,
			joint,
			fmt.Sprintf("(%.4g, %.4g, %.4g)", p.X, p.Y, p.Z),
			fmt.Sprintf("(%.4g, %.4g, %.4g, %.4g)", q.Real, q.Imag, q.Jmag, q.Kmag),
			len(l.Shapes),
		})
	}
	return tw.Render()
}
