package cli

import (
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"go.viam.com/fab/motionplan"
	"go.viam.com/fab/robot"
)

// PlanMotionAction is the corresponding action for 'plan motion'. It plans a free motion to the
// joint values given with --joints, using the planner defaults of the config.
func PlanMotionAction(c *cli.Context) error {
	return withFabClient(c, func(fc *fabClient) error {
		return fc.planMotionAction(c)
	})
}

func (fc *fabClient) planMotionAction(c *cli.Context) error {
	r, err := fc.loadRobot()
	if err != nil {
		return err
	}
	group := c.String(groupFlag)
	if c.String(jointsFlag) == "" {
		return errors.Errorf("--%s is required", jointsFlag)
	}
	goalCfg, err := groupConfigurationFromFlag(r, group, c.String(jointsFlag))
	if err != nil {
		return err
	}
	tolerance := c.Float64(toleranceFlag)
	joints, err := motionplan.JointConstraintsFromConfiguration(goalCfg, []float64{tolerance}, []float64{tolerance})
	if err != nil {
		return err
	}
	start, err := groupConfigurationFromFlag(r, group, c.String(startFlag))
	if err != nil {
		return err
	}
	opts, err := fc.conf.MotionOptions()
	if err != nil {
		return err
	}
	if c.IsSet(plannerIDFlag) {
		opts.PlannerID = c.String(plannerIDFlag)
	}

	traj, err := r.PlanMotion(c.Context, motionplan.Constraints{Joints: joints}, start, group, opts)
	if err != nil {
		return err
	}
	return fc.reportTrajectory(c, r, traj)
}

// PlanCartesianAction is the corresponding action for 'plan cartesian'. It plans a linear motion
// through every --frame in order.
func PlanCartesianAction(c *cli.Context) error {
	return withFabClient(c, func(fc *fabClient) error {
		return fc.planCartesianAction(c)
	})
}

func (fc *fabClient) planCartesianAction(c *cli.Context) error {
	waypoints, ok := c.Generic(frameFlag).(*frameList)
	if !ok || len(waypoints.frames) == 0 {
		return errors.Errorf("at least one --%s is required", frameFlag)
	}
	frames := waypoints.frames
	r, err := fc.loadRobot()
	if err != nil {
		return err
	}
	group := c.String(groupFlag)
	start, err := groupConfigurationFromFlag(r, group, c.String(startFlag))
	if err != nil {
		return err
	}
	opts, err := fc.conf.CartesianOptions()
	if err != nil {
		return err
	}
	if c.IsSet(maxStepFlag) {
		opts.MaxStep = c.Float64(maxStepFlag)
	}

	traj, err := r.PlanCartesianMotion(c.Context, frames, start, group, opts)
	if err != nil {
		return err
	}
	return fc.reportTrajectory(c, r, traj)
}

// reportTrajectory prints a planned trajectory, then plots and executes it when asked to.
func (fc *fabClient) reportTrajectory(c *cli.Context, r *robot.Robot, traj *motionplan.JointTrajectory) error {
	if err := printTrajectory(c.App.Writer, traj); err != nil {
		return err
	}
	if plotFile := c.String(plotFlag); plotFile != "" {
		if err := plotTrajectory(traj, r.Name(), plotFile); err != nil {
			return err
		}
		infof(c.App.Writer, "wrote plot to %s", plotFile)
	}
	if !c.Bool(executeFlag) {
		return nil
	}
	return fc.execute(c, func() error { return r.FollowTrajectory(c.Context, traj) }, len(traj.Points))
}
