package cli

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"go.viam.com/fab/motionplan"
)

// jointSummary describes the values one joint takes over a trajectory.
type jointSummary struct {
	Joint  string
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
}

func summarizeTrajectory(traj *motionplan.JointTrajectory) ([]jointSummary, error) {
	summaries := make([]jointSummary, 0, len(traj.JointNames))
	for i, name := range traj.JointNames {
		values := make(stats.Float64Data, 0, len(traj.Points))
		for _, p := range traj.Points {
			values = append(values, p.Configuration.Values[i])
		}
		minV, err := values.Min()
		if err != nil {
			return nil, errors.Wrapf(err, "joint %s", name)
		}
		maxV, err := values.Max()
		if err != nil {
			return nil, errors.Wrapf(err, "joint %s", name)
		}
		mean, err := values.Mean()
		if err != nil {
			return nil, errors.Wrapf(err, "joint %s", name)
		}
		stdDev, err := values.StandardDeviation()
		if err != nil {
			return nil, errors.Wrapf(err, "joint %s", name)
		}
		summaries = append(summaries, jointSummary{Joint: name, Min: minV, Max: maxV, Mean: mean, StdDev: stdDev})
	}
	return summaries, nil
}

func printTrajectory(w io.Writer, traj *motionplan.JointTrajectory) error {
	if len(traj.Points) == 0 {
		warningf(w, "trajectory has no points")
		return nil
	}
	printf(w, "%d points over %s", len(traj.Points), traj.TimeFromStart())
	if traj.Fraction < 1 {
		warningf(w, "only %.1f%% of the path could be planned", traj.Fraction*100)
	}
	summaries, err := summarizeTrajectory(traj)
	if err != nil {
		return err
	}
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Joint", "Min", "Max", "Mean", "Std dev"})
	for _, s := range summaries {
		t.AppendRow(table.Row{
			s.Joint,
			fmt.Sprintf("%.4f", s.Min),
			fmt.Sprintf("%.4f", s.Max),
			fmt.Sprintf("%.4f", s.Mean),
			fmt.Sprintf("%.4f", s.StdDev),
		})
	}
	t.Render()
	return nil
}

// plotTrajectory writes the joint values over time to filename. The image format follows the
// file extension.
func plotTrajectory(traj *motionplan.JointTrajectory, title, filename string) error {
	if len(traj.Points) == 0 {
		return errors.New("cannot plot an empty trajectory")
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "time (s)"
	p.Y.Label.Text = "joint value"

	lines := make([]interface{}, 0, 2*len(traj.JointNames))
	for i, name := range traj.JointNames {
		xys := make(plotter.XYs, 0, len(traj.Points))
		for _, pt := range traj.Points {
			xys = append(xys, plotter.XY{X: pt.TimeFromStart.Seconds(), Y: pt.Configuration.Values[i]})
		}
		lines = append(lines, name, xys)
	}
	if err := plotutil.AddLines(p, lines...); err != nil {
		return err
	}
	if filepath.Ext(filename) == "" {
		return errors.Errorf("plot file %q needs an extension such as .png or .svg", filename)
	}
	return p.Save(8*vg.Inch, 5*vg.Inch, filename)
}

// execute runs follow as a progress step.
func (fc *fabClient) execute(c *cli.Context, follow func() error, points int) error {
	steps := []*Step{
		{ID: "execute", Message: "Executing trajectory"},
		{ID: "follow", Message: fmt.Sprintf("Following %d points", points), IndentLevel: 1},
	}
	pm := NewProgressManager(c.App.Writer, steps, WithProgressOutput(!c.Bool(noProgressFlag)))
	defer pm.Stop()
	if err := pm.Start("execute"); err != nil {
		return err
	}
	if err := pm.Run("follow", follow); err != nil {
		return err
	}
	return pm.Complete("execute")
}
