package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"go.viam.com/test"

	"go.viam.com/ets/kinematics"
	"go.viam.com/ets/spatialmath"
)

const (
	pandaModel = "../kinematics/data/panda.json"
	pandaTree  = "../referenceframe/data/panda_tree.json"
	pandaQ     = "1.4,0.2,1.8,0.7,0.1,3.1,2.9"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := NewApp(&out, &errOut).Run(append([]string{"ets"}, args...))
	return out.String(), err
}

func TestParseFloats(t *testing.T) {
	v, err := parseFloats(" 1, -2.5,3e-1 ")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, v, test.ShouldResemble, []float64{1, -2.5, 0.3})
	v, err = parseFloats("")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, v, test.ShouldResemble, []float64{})
	_, err = parseFloats("1,x")
	test.That(t, err, test.ShouldNotBeNil)

	var vectors jointVectors
	test.That(t, vectors.Set("1,2"), test.ShouldBeNil)
	test.That(t, vectors.Set("-3"), test.ShouldBeNil)
	test.That(t, vectors.vectors, test.ShouldResemble, [][]float64{{1, 2}, {-3}})
	test.That(t, vectors.String(), test.ShouldEqual, "1,2 -3")
}

func TestFkineCommand(t *testing.T) {
	out, err := run(t, "fkine", "--model", pandaModel, "--q", pandaQ)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "0.446823")
	test.That(t, out, test.ShouldContainSubstring, "0.967981")

	out, err = run(t, "fkine", "--model", pandaModel, "--json", "--q", pandaQ, "--q", "0,0,0,0,0,0,0")
	test.That(t, err, test.ShouldBeNil)
	var rows [][4][4]float64
	test.That(t, json.Unmarshal([]byte(out), &rows), test.ShouldBeNil)
	test.That(t, len(rows), test.ShouldEqual, 2)
	test.That(t, rows[0][0][3], test.ShouldAlmostEqual, 0.44682295, 1e-6)
	test.That(t, rows[0][2][3], test.ShouldAlmostEqual, 0.96798113, 1e-6)

	tree, err := run(t, "fkine", "--model", pandaTree, "--tree", "--end", "panda_hand", "--json", "--q", pandaQ)
	test.That(t, err, test.ShouldBeNil)
	var treeRows [][4][4]float64
	test.That(t, json.Unmarshal([]byte(tree), &treeRows), test.ShouldBeNil)
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			test.That(t, treeRows[0][r][c], test.ShouldAlmostEqual, rows[0][r][c], 1e-9)
		}
	}
}

func TestJacobianCommands(t *testing.T) {
	for _, command := range []string{"jacob0", "jacobe"} {
		out, err := run(t, command, "--model", pandaModel, "--q", pandaQ)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, out, test.ShouldContainSubstring, "wz")
		test.That(t, out, test.ShouldContainSubstring, "J6")
	}

	out, err := run(t, "jacob0", "--model", pandaModel, "--json", "--q", pandaQ)
	test.That(t, err, test.ShouldBeNil)
	var jac [][]float64
	test.That(t, json.Unmarshal([]byte(out), &jac), test.ShouldBeNil)
	test.That(t, len(jac), test.ShouldEqual, 6)
	test.That(t, len(jac[0]), test.ShouldEqual, 7)
	test.That(t, jac[1][1], test.ShouldAlmostEqual, 0.625741987, 1e-6)

	for _, command := range []string{"hessian0", "hessiane"} {
		out, err := run(t, command, "--model", pandaModel, "--json", "--q", pandaQ)
		test.That(t, err, test.ShouldBeNil)
		var h [][][]float64
		test.That(t, json.Unmarshal([]byte(out), &h), test.ShouldBeNil)
		test.That(t, len(h), test.ShouldEqual, 7)
		test.That(t, len(h[0]), test.ShouldEqual, 6)
	}
}

func TestManipulabilityCommands(t *testing.T) {
	m, err := kinematics.ParseModelJSONFile(pandaModel, "")
	test.That(t, err, test.ShouldBeNil)
	q := []float64{1.4, 0.2, 1.8, 0.7, 0.1, 3.1, 2.9}

	out, err := run(t, "jacobm", "--model", pandaModel, "--json", "--axes", "trans", "--q", pandaQ)
	test.That(t, err, test.ShouldBeNil)
	var result jacobmResult
	test.That(t, json.Unmarshal([]byte(out), &result), test.ShouldBeNil)
	test.That(t, result.Axes, test.ShouldEqual, "trans")
	expected, err := m.Jacobm(q, kinematics.TransAxes)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(result.Jacobm), test.ShouldEqual, 7)
	for i := range expected {
		test.That(t, result.Jacobm[i], test.ShouldAlmostEqual, expected[i], 1e-9)
	}
	measure, err := m.Manipulability(q, kinematics.TransAxes)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, result.Manipulability, test.ShouldAlmostEqual, measure, 1e-9)

	out, err = run(t, "jacobm", "--model", pandaModel, "--q", pandaQ)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "manipulability (all)")

	_, err = run(t, "jacobm", "--model", pandaModel, "--axes", "up", "--q", pandaQ)
	test.That(t, err, test.ShouldNotBeNil)

	for _, command := range []string{"jacob0v", "jacobev"} {
		out, err := run(t, command, "--model", pandaModel, "--json", "--q", pandaQ)
		test.That(t, err, test.ShouldBeNil)
		var v [][]float64
		test.That(t, json.Unmarshal([]byte(out), &v), test.ShouldBeNil)
		test.That(t, len(v), test.ShouldEqual, 6)
		test.That(t, len(v[0]), test.ShouldEqual, 6)
		test.That(t, v[0][3], test.ShouldEqual, 0)
	}
}

func TestIKCommand(t *testing.T) {
	m, err := kinematics.ParseModelJSONFile(pandaModel, "")
	test.That(t, err, test.ShouldBeNil)
	target, err := m.Fkine([]float64{0.5, -0.3, 0.4, -1.8, 0.2, 1.6, 0.7})
	test.That(t, err, test.ShouldBeNil)
	p := target.Translation()
	aa := spatialmath.RotationError(spatialmath.NewIdentityTransform(), target)
	targetFlag := formatFloats([]float64{p.X, p.Y, p.Z, aa.RX, aa.RY, aa.RZ})

	out, err := run(t, "ik", "--model", pandaModel, "--json", "--restarts", "100", "--target", targetFlag)
	test.That(t, err, test.ShouldBeNil)
	var result ikResult
	test.That(t, json.Unmarshal([]byte(out), &result), test.ShouldBeNil)
	reached, err := m.Fkine(result.Q)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.TransformAlmostEqual(reached, target, 1e-5), test.ShouldBeTrue)

	out, err = run(t, "ik", "--model", pandaModel, "--json", "--target", targetFlag,
		"--options", "{max_restarts: 100, epsilon: 1e-7, max_iterations: 300,}")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, json.Unmarshal([]byte(out), &result), test.ShouldBeNil)
	reached, err = m.Fkine(result.Q)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, spatialmath.TransformAlmostEqual(reached, target, 1e-6), test.ShouldBeTrue)

	_, err = run(t, "ik", "--model", pandaModel, "--target", targetFlag, "--options", "{max_restarts: }")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "cannot parse --options")

	_, err = run(t, "ik", "--model", pandaModel, "--target", "1,2,3")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "target needs 6 numbers")
}

func TestTreeAndDescribeCommands(t *testing.T) {
	out, err := run(t, "tree", "--model", pandaTree, "--tree", "--q", pandaQ)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "left_finger")
	test.That(t, out, test.ShouldContainSubstring, "camera")

	out, err = run(t, "tree", "--model", pandaTree, "--tree", "--json")
	test.That(t, err, test.ShouldBeNil)
	var poses []poseJSON
	test.That(t, json.Unmarshal([]byte(out), &poses), test.ShouldBeNil)
	test.That(t, len(poses), test.ShouldEqual, 14)

	out, err = run(t, "describe", "--model", pandaModel)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "tz(0.333) ⊕ Rz(q0)")

	out, err = run(t, "describe", "--model", pandaTree, "--tree")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "10 links, 7 joints")

	out, err = run(t, "describe", "--model", pandaTree, "--tree", "--end", "camera")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, strings.Count(out, "SE3"), test.ShouldBeGreaterThan, 0)
}

func TestCommandErrors(t *testing.T) {
	_, err := run(t, "fkine", "--model", pandaModel)
	test.That(t, err, test.ShouldBeError, errNoJointVector)

	_, err = run(t, "jacob0", "--model", pandaModel, "--q", "1,2")
	test.That(t, err, test.ShouldBeError, kinematics.NewIncorrectInputLengthError(2, 7))

	_, err = run(t, "fkine", "--model", pandaTree, "--tree", "--q", pandaQ)
	test.That(t, err, test.ShouldNotBeNil)

	_, err = run(t, "tree", "--model", pandaModel, "--q", pandaQ)
	test.That(t, err, test.ShouldNotBeNil)

	_, err = run(t, "fkine", "--model", pandaModel, "--q", "1,a")
	test.That(t, err, test.ShouldNotBeNil)
}
