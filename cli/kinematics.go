package cli

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"go.viam.com/fab/motionplan"
	"go.viam.com/fab/referenceframe"
	"go.viam.com/fab/robot"
)

// ForwardKinematicsAction is the corresponding action for 'fk'.
func ForwardKinematicsAction(c *cli.Context) error {
	return withFabClient(c, func(fc *fabClient) error {
		return fc.forwardKinematicsAction(c)
	})
}

func (fc *fabClient) forwardKinematicsAction(c *cli.Context) error {
	r, err := fc.loadRobot()
	if err != nil {
		return err
	}
	group := c.String(groupFlag)
	cfg, err := groupConfigurationFromFlag(r, group, c.String(jointsFlag))
	if err != nil {
		return err
	}
	frame, err := r.ForwardKinematics(c.Context, cfg, group, motionplan.FKOptions{Link: c.String(linkFlag)})
	if err != nil {
		return err
	}
	printf(c.App.Writer, "%s", formatFrame(frame))
	return nil
}

// InverseKinematicsAction is the corresponding action for 'ik'.
func InverseKinematicsAction(c *cli.Context) error {
	return withFabClient(c, func(fc *fabClient) error {
		return fc.inverseKinematicsAction(c)
	})
}

func (fc *fabClient) inverseKinematicsAction(c *cli.Context) error {
	frame, err := parseFrame(c.String(frameFlag))
	if err != nil {
		return err
	}
	r, err := fc.loadRobot()
	if err != nil {
		return err
	}
	group := c.String(groupFlag)
	start, err := groupConfigurationFromFlag(r, group, c.String(startFlag))
	if err != nil {
		return err
	}
	opts := motionplan.IKOptions{AllowCollisions: c.Bool(allowCollisionsFlag)}.WithDefaults()
	cfg, err := r.InverseKinematics(c.Context, frame, start, group, opts)
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(c.App.Writer)
	t.AppendHeader(table.Row{"Joint", "Type", "Value"})
	for i, name := range cfg.Names {
		t.AppendRow(table.Row{name, cfg.Types[i], cfg.Values[i]})
	}
	t.Render()
	return nil
}

// groupConfigurationFromFlag parses comma separated joint values for the configurable joints of
// group. An empty value means the zero configuration.
func groupConfigurationFromFlag(r *robot.Robot, group, value string) (referenceframe.Configuration, error) {
	values, err := parseFloats(value)
	if err != nil {
		return referenceframe.Configuration{}, errors.Wrap(err, "invalid joint values")
	}
	zero, err := r.ZeroConfiguration(group)
	if err != nil {
		return referenceframe.Configuration{}, err
	}
	if len(values) == 0 {
		return zero, nil
	}
	if len(values) != len(zero.Values) {
		return referenceframe.Configuration{}, errors.Errorf("expected %d joint values for %v, got %d",
			len(zero.Values), zero.Names, len(values))
	}
	return referenceframe.NewConfiguration(values, zero.Types, zero.Names)
}
