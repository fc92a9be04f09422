package ros

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/edaniels/gobag/rosbag"
	"github.com/pkg/errors"
	goutils "go.viam.com/utils"
)

// DefaultJointStatesTopic is the topic joint states are usually recorded from.
const DefaultJointStatesTopic = "/joint_states"

// ReadBag reads the contents of a rosbag into a gobag data structure.
func ReadBag(filename string) (*rosbag.RosBag, error) {
	//nolint:gosec
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open bag file")
	}
	defer goutils.UncheckedErrorFunc(f.Close)

	rb := rosbag.NewRosBag()
	if err := rb.Read(f); err != nil {
		return nil, errors.Wrapf(err, "unable to read bag %s", filename)
	}
	return rb, nil
}

// BagMessage is a message recorded in a bag with the time it was recorded at.
type BagMessage struct {
	Stamp Time            `json:"meta"`
	Data  json.RawMessage `json:"data"`
}

// bagTopicKey is the key the JSON lines of topic are collected under while parsing a bag.
func bagTopicKey(topic string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimPrefix(topic, "/"), "/", "_"))
}

// parseTopics decodes the messages of the topics kept by keep, returning their JSON lines by
// topic name.
func parseTopics(rb *rosbag.RosBag, keep func(string) bool) (map[string]*bytes.Buffer, error) {
	// parsing appends to the buffers of earlier parses
	rb.TopicsAsJSON = make(map[string]*bytes.Buffer)
	if err := rb.ParseTopicsToJSON("", func(int64) bool { return true }, keep, false); err != nil {
		return nil, errors.Wrap(err, "error while parsing bag to JSON")
	}
	topics := make(map[string]*bytes.Buffer, len(rb.TopicsAsJSON))
	for _, conn := range rb.Connections {
		if !keep(conn.HeaderTopic) {
			continue
		}
		if buf, ok := rb.TopicsAsJSON[bagTopicKey(conn.HeaderTopic)]; ok {
			topics[conn.HeaderTopic] = buf
		}
	}
	return topics, nil
}

func readMessages(buf *bytes.Buffer) ([]BagMessage, error) {
	var all []BagMessage
	for {
		line, err := buf.ReadBytes('\n')
		if len(bytes.TrimSpace(line)) > 0 {
			var msg BagMessage
			if err := json.Unmarshal(line, &msg); err != nil {
				return nil, errors.Wrap(err, "malformed bag message")
			}
			all = append(all, msg)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return all, nil
			}
			return nil, err
		}
	}
}

// TopicMessageCounts returns the number of messages recorded on each topic of the bag.
func TopicMessageCounts(rb *rosbag.RosBag) (map[string]int, error) {
	topics, err := parseTopics(rb, func(string) bool { return true })
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(topics))
	for topic, buf := range topics {
		counts[topic] = bytes.Count(buf.Bytes(), []byte{'\n'})
	}
	return counts, nil
}

// AllMessagesForTopic returns all messages recorded on a topic of the bag, in recording order.
func AllMessagesForTopic(rb *rosbag.RosBag, topic string) ([]BagMessage, error) {
	topics, err := parseTopics(rb, func(t string) bool { return t == topic })
	if err != nil {
		return nil, err
	}
	buf := topics[topic]
	if buf == nil {
		return nil, errors.Errorf("no messages for topic %s", topic)
	}
	return readMessages(buf)
}

// JointStatesFromBag decodes the sensor_msgs/JointState messages recorded on topic. Messages
// without a header stamp are stamped with their recording time.
func JointStatesFromBag(rb *rosbag.RosBag, topic string) ([]JointState, error) {
	if topic == "" {
		topic = DefaultJointStatesTopic
	}
	msgs, err := AllMessagesForTopic(rb, topic)
	if err != nil {
		return nil, err
	}
	states := make([]JointState, 0, len(msgs))
	for i, msg := range msgs {
		var js JointState
		if err := json.Unmarshal(msg.Data, &js); err != nil {
			return nil, errors.Wrapf(err, "message %d on %s is not a joint state", i, topic)
		}
		if js.Header.Stamp.IsZero() {
			js.Header.Stamp = msg.Stamp
		}
		states = append(states, js)
	}
	return states, nil
}

// TrajectoryFromJointStates turns recorded joint states into a trajectory over jointNames, which
// defaults to the joints of the first state. Time from start is measured from the first stamp and
// states that go back in time are rejected.
func TrajectoryFromJointStates(states []JointState, jointNames []string) (JointTrajectory, error) {
	if len(states) == 0 {
		return JointTrajectory{}, errors.New("no joint states to build a trajectory from")
	}
	if len(jointNames) == 0 {
		jointNames = states[0].Name
	}
	traj := JointTrajectory{Header: states[0].Header, JointNames: jointNames}
	start := states[0].Header.Stamp.Time()
	for i, js := range states {
		index := make(map[string]int, len(js.Name))
		for j, name := range js.Name {
			index[name] = j
		}
		point := JointTrajectoryPoint{Positions: make([]float64, len(jointNames))}
		withVelocity := len(js.Velocity) == len(js.Name)
		if withVelocity {
			point.Velocities = make([]float64, len(jointNames))
		}
		for k, name := range jointNames {
			j, ok := index[name]
			if !ok || j >= len(js.Position) {
				return JointTrajectory{}, errors.Errorf("joint state %d has no position for joint %s", i, name)
			}
			point.Positions[k] = js.Position[j]
			if withVelocity {
				point.Velocities[k] = js.Velocity[j]
			}
		}
		elapsed := js.Header.Stamp.Time().Sub(start)
		if elapsed < 0 {
			return JointTrajectory{}, errors.Errorf("joint state %d is older than the first joint state", i)
		}
		point.TimeFromStart = DurationFrom(elapsed)
		traj.Points = append(traj.Points, point)
	}
	return traj, nil
}

// SortedTopics returns the topics of counts in lexical order.
func SortedTopics(counts map[string]int) []string {
	topics := make([]string, 0, len(counts))
	for t := range counts {
		topics = append(topics, t)
	}
	sort.Strings(topics)
	return topics
}
