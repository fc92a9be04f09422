package ros

import (
	"bytes"
	"testing"
	"time"

	"go.viam.com/test"
)

func TestReadBagMissingFile(t *testing.T) {
	_, err := ReadBag("does/not/exist.bag")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "unable to open bag file")
}

func TestReadMessages(t *testing.T) {
	buf := bytes.NewBufferString(
		`{"meta":{"secs":1,"nsecs":2},"data":{"name":["a"],"position":[0.5]}}` + "\n" +
			`{"meta":{"secs":3,"nsecs":0},"data":{"name":["a"],"position":[0.7]}}`,
	)
	msgs, err := readMessages(buf)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(msgs), test.ShouldEqual, 2)
	test.That(t, msgs[0].Stamp, test.ShouldResemble, Time{Secs: 1, Nsecs: 2})
	test.That(t, string(msgs[1].Data), test.ShouldEqual, `{"name":["a"],"position":[0.7]}`)

	_, err = readMessages(bytes.NewBufferString("{not json}\n"))
	test.That(t, err, test.ShouldNotBeNil)
}

func jointState(sec int64, names []string, positions, velocities []float64) JointState {
	js := JointState{Name: names, Position: positions, Velocity: velocities}
	js.Header.Stamp = TimeFrom(time.Unix(sec, 0))
	return js
}

func TestTrajectoryFromJointStates(t *testing.T) {
	states := []JointState{
		jointState(100, []string{"a", "b"}, []float64{0, 1}, []float64{0, 0}),
		jointState(101, []string{"b", "a"}, []float64{2, 0.5}, []float64{0.1, 0.2}),
		jointState(103, []string{"a", "b"}, []float64{1, 3}, nil),
	}

	traj, err := TrajectoryFromJointStates(states, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, traj.JointNames, test.ShouldResemble, []string{"a", "b"})
	test.That(t, len(traj.Points), test.ShouldEqual, 3)
	test.That(t, traj.Points[1].Positions, test.ShouldResemble, []float64{0.5, 2})
	test.That(t, traj.Points[1].Velocities, test.ShouldResemble, []float64{0.2, 0.1})
	test.That(t, traj.Points[2].Velocities, test.ShouldBeNil)
	test.That(t, traj.Points[0].TimeFromStart, test.ShouldResemble, Duration{})
	test.That(t, traj.Points[2].TimeFromStart.Duration(), test.ShouldEqual, 3*time.Second)

	traj, err = TrajectoryFromJointStates(states, []string{"b"})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, traj.Points[2].Positions, test.ShouldResemble, []float64{3})

	_, err = TrajectoryFromJointStates(states, []string{"c"})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "no position for joint c")

	_, err = TrajectoryFromJointStates(nil, nil)
	test.That(t, err, test.ShouldNotBeNil)

	backwards := []JointState{states[1], states[0]}
	_, err = TrajectoryFromJointStates(backwards, nil)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "older than the first")
}

func TestSortedTopics(t *testing.T) {
	test.That(t, SortedTopics(map[string]int{"/tf": 3, "/joint_states": 10}), test.ShouldResemble,
		[]string{"/joint_states", "/tf"})
}

func TestReadBag(t *testing.T) {
	rb, err := ReadBag("testdata/joint_states.bag")
	test.That(t, err, test.ShouldBeNil)

	counts, err := TopicMessageCounts(rb)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, counts, test.ShouldResemble, map[string]int{"/joint_states": 3, "/tool_state": 1})

	// a second parse of the same bag does not see the first one's messages
	states, err := JointStatesFromBag(rb, "")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, states, test.ShouldHaveLength, 3)
	test.That(t, states[1].Name, test.ShouldResemble, []string{"shoulder_pan_joint", "shoulder_lift_joint"})
	test.That(t, states[1].Position, test.ShouldResemble, []float64{0.1, -0.2})
	test.That(t, states[1].Header.Stamp, test.ShouldResemble, Time{Secs: 100, Nsecs: 500000000})
	test.That(t, states[1].Header.FrameID, test.ShouldEqual, "world")

	traj, err := TrajectoryFromJointStates(states, []string{"shoulder_lift_joint"})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, traj.Points[2].Positions, test.ShouldResemble, []float64{-0.4})
	test.That(t, traj.Points[2].TimeFromStart.Duration(), test.ShouldEqual, time.Second)

	msgs, err := AllMessagesForTopic(rb, "/tool_state")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, msgs, test.ShouldHaveLength, 1)
	test.That(t, msgs[0].Stamp, test.ShouldResemble, Time{Secs: 100, Nsecs: 250000000})
	test.That(t, string(msgs[0].Data), test.ShouldEqual, `{"data":"gripper open"}`)

	_, err = AllMessagesForTopic(rb, "/tf")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "no messages for topic /tf")
}
