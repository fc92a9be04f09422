package motionplan

import (
	"time"

	"github.com/pkg/errors"

	"go.viam.com/fab/referenceframe"
)

// JointTrajectoryPoint is one waypoint of a trajectory.
type JointTrajectoryPoint struct {
	Configuration referenceframe.Configuration
	Velocities    []float64
	Accelerations []float64
	Effort        []float64
	TimeFromStart time.Duration
}

// JointTrajectory is the result of planning: a timed sequence of configurations.
type JointTrajectory struct {
	JointNames         []string
	Points             []JointTrajectoryPoint
	StartConfiguration referenceframe.Configuration
	// Fraction is the part of a cartesian path that could be followed, 1 for a complete plan.
	Fraction                float64
	PlanningTime            time.Duration
	AttachedCollisionMeshes []AttachedCollisionMesh
}

// TimeFromStart returns the time at which the last point is reached.
func (t *JointTrajectory) TimeFromStart() time.Duration {
	if len(t.Points) == 0 {
		return 0
	}
	return t.Points[len(t.Points)-1].TimeFromStart
}

// Configurations returns the configuration of every point.
func (t *JointTrajectory) Configurations() []referenceframe.Configuration {
	out := make([]referenceframe.Configuration, 0, len(t.Points))
	for _, p := range t.Points {
		out = append(out, p.Configuration)
	}
	return out
}

// Validate checks that every point has a value for every joint and that time never goes backwards.
func (t *JointTrajectory) Validate() error {
	var last time.Duration
	for i, p := range t.Points {
		if len(p.Configuration.Values) != len(t.JointNames) {
			return errors.Wrapf(referenceframe.NewIncorrectDoFError(len(p.Configuration.Values), len(t.JointNames)), "point %d", i)
		}
		if p.TimeFromStart < last {
			return errors.Errorf("point %d starts at %v, before the previous point at %v", i, p.TimeFromStart, last)
		}
		last = p.TimeFromStart
	}
	return nil
}

// Scaled returns a copy with prismatic values multiplied by factor.
func (t *JointTrajectory) Scaled(factor float64) *JointTrajectory {
	out := *t
	out.Points = make([]JointTrajectoryPoint, 0, len(t.Points))
	for _, p := range t.Points {
		p.Configuration = p.Configuration.Scaled(factor)
		out.Points = append(out.Points, p)
	}
	out.StartConfiguration = t.StartConfiguration.Scaled(factor)
	return &out
}

// NewTimedTrajectory builds a trajectory that reaches each configuration at the matching time.
func NewTimedTrajectory(jointNames []string, configurations []referenceframe.Configuration, times []time.Duration) (*JointTrajectory, error) {
	if len(configurations) != len(times) {
		return nil, errors.Errorf("%d configurations but %d timesteps", len(configurations), len(times))
	}
	traj := &JointTrajectory{JointNames: jointNames, Fraction: 1}
	for i, c := range configurations {
		traj.Points = append(traj.Points, JointTrajectoryPoint{Configuration: c, TimeFromStart: times[i]})
	}
	if err := traj.Validate(); err != nil {
		return nil, err
	}
	return traj, nil
}

// PlanningSceneSnapshot is what a backend reports about its planning scene.
type PlanningSceneSnapshot struct {
	Name              string
	RobotState        referenceframe.Configuration
	WorldObjectIDs    []string
	AttachedObjectIDs []string
}
