package kinematics

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"

	"go.viam.com/ets/utils"
)

// Chain is the read-only view of a serial chain that the kinematics functions consume. Joint
// columns follow the order in which joints appear in the chain.
type Chain interface {
	// Len is the number of elements.
	Len() int
	// At returns the element at chain position i.
	At(i int) *ET
	// NumJoints is the number of actuated elements, the number of Jacobian columns.
	NumJoints() int
	// MinInputLen is one more than the largest joint index.
	MinInputLen() int
}

// ETS is an elementary transform sequence. It is read-only while being evaluated; Set must not
// run concurrently with evaluation of the same sequence.
type ETS struct {
	ets         []ET
	n           int
	minInputLen int
}

// NewETS builds a sequence from copies of the given elements. Joints without an index are numbered
// in chain order, continuing after the largest index seen so far. Explicit indices are kept as
// given and may repeat.
func NewETS(ets ...ET) *ETS {
	s := &ETS{ets: make([]ET, len(ets))}
	copy(s.ets, ets)
	next := 0
	for i := range s.ets {
		et := &s.ets[i]
		if !et.isJoint {
			continue
		}
		if et.jointIndex == unsetJointIndex {
			et.jointIndex = next
		}
		next = lo.Max([]int{next, et.jointIndex + 1})
	}
	s.update()
	return s
}

// update recomputes the joint count and the required input length.
func (s *ETS) update() {
	joints := lo.Filter(s.ets, func(et ET, _ int) bool { return et.isJoint })
	s.n = len(joints)
	s.minInputLen = lo.Max(lo.Map(joints, func(et ET, _ int) int { return et.jointIndex + 1 }))
}

// Len returns the number of elements.
func (s *ETS) Len() int {
	return len(s.ets)
}

// At returns a pointer to the element at chain position i. Changes to the joint index through it
// are only picked up by the sequence after Set.
func (s *ETS) At(i int) *ET {
	return &s.ets[i]
}

// NumJoints returns the number of joints.
func (s *ETS) NumJoints() int {
	return s.n
}

// MinInputLen returns the shortest joint vector the sequence can be evaluated with.
func (s *ETS) MinInputLen() int {
	return s.minInputLen
}

// Elements returns a copy of the elements.
func (s *ETS) Elements() []ET {
	return append([]ET(nil), s.ets...)
}

// Set replaces the element at position i. A joint without an index gets the next free one.
func (s *ETS) Set(i int, et ET) error {
	if i < 0 || i >= len(s.ets) {
		return NewElementIndexError(i, len(s.ets))
	}
	if et.isJoint && et.jointIndex == unsetJointIndex {
		s.ets[i] = ET{}
		s.update()
		et.jointIndex = s.minInputLen
	}
	s.ets[i] = et
	s.update()
	return nil
}

// Concat returns a new sequence of s followed by other. Joint indices are kept.
func (s *ETS) Concat(other *ETS) *ETS {
	return NewETS(append(s.Elements(), other.ets...)...)
}

// Inv returns the sequence whose forward kinematics is the inverse of this one's for the same
// joint vector.
func (s *ETS) Inv() *ETS {
	inv := make([]ET, 0, len(s.ets))
	for i := len(s.ets) - 1; i >= 0; i-- {
		inv = append(inv, s.ets[i].Inv())
	}
	return NewETS(inv...)
}

// JointIndices returns the joint index driving each Jacobian column.
func (s *ETS) JointIndices() []int {
	return JointIndices(s)
}

// Limits returns the limit of each joint, in column order.
func (s *ETS) Limits() []Limit {
	limits := make([]Limit, 0, s.n)
	for i := range s.ets {
		if s.ets[i].isJoint {
			limits = append(limits, s.ets[i].limit)
		}
	}
	return limits
}

func (s *ETS) String() string {
	return strings.Join(lo.Map(s.ets, func(et ET, _ int) string { return et.String() }), " ⊕ ")
}

// Table renders the sequence one element per row.
func (s *ETS) Table() string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "ET", "Joint", "Column", "Limits"})
	column := 0
	for i, et := range s.ets {
		if !et.isJoint {
			t.AppendRow(table.Row{i, et.String(), "", "", ""})
			continue
		}
		limits := fmt.Sprintf("[%.4g, %.4g]", et.limit.Min, et.limit.Max)
		if et.axis.IsRotation() {
			limits += fmt.Sprintf(" deg [%.1f, %.1f]", utils.RadToDeg(et.limit.Min), utils.RadToDeg(et.limit.Max))
		}
		t.AppendRow(table.Row{i, et.String(), et.jointIndex, column, limits})
		column++
	}
	return t.Render()
}

// JointIndices returns the joint index driving each Jacobian column of c.
func JointIndices(c Chain) []int {
	indices := make([]int, 0, c.NumJoints())
	for i := 0; i < c.Len(); i++ {
		if et := c.At(i); et.isJoint {
			indices = append(indices, et.jointIndex)
		}
	}
	return indices
}
