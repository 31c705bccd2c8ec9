package cli

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/ets/referenceframe"
	"go.viam.com/ets/spatialmath"
)

// jacobianRowNames label the linear then angular rows of a Jacobian.
var jacobianRowNames = []string{"vx", "vy", "vz", "wx", "wy", "wz"}

// printf prints a message with a newline.
func printf(w io.Writer, format string, a ...interface{}) {
	//nolint:errcheck
	fmt.Fprintf(w, format+"\n", a...)
}

func cell(f float64) string {
	return fmt.Sprintf("% .6f", f)
}

func transformTable(t spatialmath.Transform) string {
	tw := table.NewWriter()
	for _, row := range t.Rows() {
		tw.AppendRow(table.Row{cell(row[0]), cell(row[1]), cell(row[2]), cell(row[3])})
	}
	return tw.Render()
}

func denseRows(m mat.Matrix) [][]float64 {
	rows, _ := m.Dims()
	out := make([][]float64, rows)
	for r := range out {
		out[r] = mat.Row(nil, r, m)
	}
	return out
}

func jacobianTable(m mat.Matrix) string {
	rows, cols := m.Dims()
	tw := table.NewWriter()
	header := table.Row{""}
	for c := 0; c < cols; c++ {
		header = append(header, fmt.Sprintf("j%d", c))
	}
	tw.AppendHeader(header)
	for r := 0; r < rows; r++ {
		row := table.Row{jacobianRowNames[r]}
		for c := 0; c < cols; c++ {
			row = append(row, cell(m.At(r, c)))
		}
		tw.AppendRow(row)
	}
	return tw.Render()
}

func linkPosesTable(poses *referenceframe.TreePoses) string {
	tw := table.NewWriter()
	tw.AppendHeader(table.Row{"Link", "X", "Y", "Z"})
	for _, lp := range poses.Links {
		p := lp.Pose.Translation()
		tw.AppendRow(table.Row{lp.Name, cell(p.X), cell(p.Y), cell(p.Z)})
	}
	return tw.Render()
}

func shapePosesTable(poses *referenceframe.TreePoses) string {
	tw := table.NewWriter()
	tw.AppendHeader(table.Row{"Link", "Shape", "X", "Y", "Z", "QW", "QX", "QY", "QZ"})
	for _, sp := range poses.Shapes {
		p := sp.Pose.Translation()
		q := sp.Orientation
		tw.AppendRow(table.Row{
			sp.Link, sp.Name,
			cell(p.X), cell(p.Y), cell(p.Z),
			cell(q.Real), cell(q.Imag), cell(q.Jmag), cell(q.Kmag),
		})
	}
	return tw.Render()
}

type poseJSON struct {
	Link       string        `json:"link"`
	Shape      string        `json:"shape,omitempty"`
	Matrix     [4][4]float64 `json:"matrix"`
	Quaternion [4]float64    `json:"quaternion"`
}

func treePosesJSON(poses *referenceframe.TreePoses) []poseJSON {
	out := make([]poseJSON, 0, len(poses.Links)+len(poses.Shapes))
	for _, lp := range poses.Links {
		q := lp.Pose.Quaternion()
		out = append(out, poseJSON{
			Link:       lp.Name,
			Matrix:     lp.Pose.Rows(),
			Quaternion: [4]float64{q.Real, q.Imag, q.Jmag, q.Kmag},
		})
	}
	for _, sp := range poses.Shapes {
		q := sp.Orientation
		out = append(out, poseJSON{
			Link:       sp.Link,
			Shape:      sp.Name,
			Matrix:     sp.Pose.Rows(),
			Quaternion: [4]float64{q.Real, q.Imag, q.Jmag, q.Kmag},
		})
	}
	return out
}
