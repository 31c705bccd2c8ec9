package referenceframe

import (
	"github.com/samber/lo"
	"gonum.org/v1/gonum/num/quat"

	"go.viam.com/ets/spatialmath"
)

// LinkPose is the world pose of a link.
type LinkPose struct {
	Name string
	Pose spatialmath.Transform
}

// ShapePose is the world pose of a shape attached to a link.
type ShapePose struct {
	Link        string
	Name        string
	Pose        spatialmath.Transform
	Orientation quat.Number
}

// TreePoses holds the world pose of every link, in depth first order, and of every attached shape.
type TreePoses struct {
	Links  []LinkPose
	Shapes []ShapePose
}

// Link returns the pose of the named link.
func (p *TreePoses) Link(name string) (spatialmath.Transform, bool) {
	lp, ok := lo.Find(p.Links, func(lp LinkPose) bool { return lp.Name == name })
	return lp.Pose, ok
}

// FkineAll computes the world pose of every link of the tree and then of every shape attached to
// it. Roots are placed at base, or at the identity when base is nil.
func (t *LinkTree) FkineAll(q []float64, base *spatialmath.Transform) (*TreePoses, error) {
	if err := t.checkInputLength(q); err != nil {
		return nil, err
	}
	root := spatialmath.NewIdentityTransform()
	if base != nil {
		root = *base
	}

	world := make([]spatialmath.Transform, len(t.links))
	poses := &TreePoses{Links: make([]LinkPose, 0, len(t.links))}
	for _, i := range t.Order() {
		l := &t.links[i]
		parent := root
		if l.Parent != noParent {
			parent = world[l.Parent]
		}
		var eta float64
		if l.IsJoint {
			eta = q[l.JointIndex]
		}
		world[i] = spatialmath.Compose(parent, t.LinkTransform(i, eta))
		poses.Links = append(poses.Links, LinkPose{Name: l.Name, Pose: world[i]})

		for _, s := range l.Shapes {
			pose := spatialmath.Compose(world[i], s.Pose)
			poses.Shapes = append(poses.Shapes, ShapePose{
				Link:        l.Name,
				Name:        s.Name,
				Pose:        pose,
				Orientation: pose.Quaternion(),
			})
		}
	}
	return poses, nil
}
