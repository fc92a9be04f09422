package ros

import "time"

// Duration is the ROS duration type.
type Duration struct {
	Secs  int32 `json:"secs"`
	Nsecs int32 `json:"nsecs"`
}

// DurationFrom converts a duration to a ROS duration.
func DurationFrom(d time.Duration) Duration {
	return Duration{Secs: int32(d / time.Second), Nsecs: int32(d % time.Second)}
}

// Duration converts the ROS duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d.Secs)*time.Second + time.Duration(d.Nsecs)
}

// Seconds returns the duration in seconds.
func (d Duration) Seconds() float64 {
	return d.Duration().Seconds()
}

// JointTrajectoryPoint is trajectory_msgs/JointTrajectoryPoint.
type JointTrajectoryPoint struct {
	Positions     []float64 `json:"positions"`
	Velocities    []float64 `json:"velocities"`
	Accelerations []float64 `json:"accelerations"`
	Effort        []float64 `json:"effort"`
	TimeFromStart Duration  `json:"time_from_start"`
}

// JointTrajectory is trajectory_msgs/JointTrajectory.
type JointTrajectory struct {
	Header     Header                 `json:"header"`
	JointNames []string               `json:"joint_names"`
	Points     []JointTrajectoryPoint `json:"points"`
}

// ROSType returns trajectory_msgs/JointTrajectory.
func (JointTrajectory) ROSType() string { return "trajectory_msgs/JointTrajectory" }

// MultiDOFJointTrajectoryPoint is trajectory_msgs/MultiDOFJointTrajectoryPoint.
type MultiDOFJointTrajectoryPoint struct {
	Transforms    []Transform `json:"transforms"`
	Velocities    []Twist     `json:"velocities"`
	Accelerations []Twist     `json:"accelerations"`
	TimeFromStart Duration    `json:"time_from_start"`
}

// MultiDOFJointTrajectory is trajectory_msgs/MultiDOFJointTrajectory.
type MultiDOFJointTrajectory struct {
	Header     Header                         `json:"header"`
	JointNames []string                       `json:"joint_names"`
	Points     []MultiDOFJointTrajectoryPoint `json:"points"`
}

// ROSType returns trajectory_msgs/MultiDOFJointTrajectory.
func (MultiDOFJointTrajectory) ROSType() string { return "trajectory_msgs/MultiDOFJointTrajectory" }
