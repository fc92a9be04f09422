package cli

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"go.viam.com/fab/motionplan"
	"go.viam.com/fab/moveit"
	"go.viam.com/fab/referenceframe"
	"go.viam.com/fab/ros"
)

// BagTopicsAction is the corresponding action for 'bag topics'.
func BagTopicsAction(c *cli.Context) error {
	bagFile := c.Args().First()
	if bagFile == "" {
		return errors.New("a bag file is required")
	}
	rb, err := ros.ReadBag(bagFile)
	if err != nil {
		return err
	}
	counts, err := ros.TopicMessageCounts(rb)
	if err != nil {
		return err
	}
	t := table.NewWriter()
	t.SetOutputMirror(c.App.Writer)
	t.AppendHeader(table.Row{"Topic", "Messages"})
	for _, topic := range ros.SortedTopics(counts) {
		t.AppendRow(table.Row{topic, counts[topic]})
	}
	t.Render()
	return nil
}

// BagTrajectoryAction is the corresponding action for 'bag trajectory'. It replays the joint
// states recorded in a bag as a trajectory, prints a summary and optionally plots or executes it.
func BagTrajectoryAction(c *cli.Context) error {
	bagFile := c.Args().First()
	if bagFile == "" {
		return errors.New("a bag file is required")
	}
	rb, err := ros.ReadBag(bagFile)
	if err != nil {
		return err
	}
	states, err := ros.JointStatesFromBag(rb, c.String(topicFlag))
	if err != nil {
		return err
	}
	msg, err := ros.TrajectoryFromJointStates(states, parseNames(c.String(jointNamesFlag)))
	if err != nil {
		return err
	}

	if !c.Bool(executeFlag) {
		traj, err := moveit.TrajectoryFromMsg(msg, revoluteJoints)
		if err != nil {
			return err
		}
		return reportBagTrajectory(c, traj)
	}
	return withFabClient(c, func(fc *fabClient) error {
		r, err := fc.loadRobot()
		if err != nil {
			return err
		}
		traj, err := moveit.TrajectoryFromMsg(msg, r.Model.JointTypesByNames)
		if err != nil {
			return err
		}
		if err := reportBagTrajectory(c, traj); err != nil {
			return err
		}
		// recorded positions are already in meters and radians
		return fc.execute(c, func() error { return fc.planner.FollowJointTrajectory(c.Context, traj) }, len(traj.Points))
	})
}

func reportBagTrajectory(c *cli.Context, traj *motionplan.JointTrajectory) error {
	if err := printTrajectory(c.App.Writer, traj); err != nil {
		return err
	}
	if plotFile := c.String(plotFlag); plotFile != "" {
		if err := plotTrajectory(traj, c.Args().First(), plotFile); err != nil {
			return err
		}
		infof(c.App.Writer, "wrote plot to %s", plotFile)
	}
	return nil
}

// revoluteJoints types every joint as revolute, for trajectories that are only printed.
func revoluteJoints(names []string) ([]referenceframe.JointType, error) {
	return make([]referenceframe.JointType, len(names)), nil
}
