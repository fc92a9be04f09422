package ros

import (
	"encoding/json"
	"time"
)

// Message is a value that can be published on a ROS topic.
type Message interface {
	ROSType() string
}

// RawMessage is a message of an arbitrary type whose fields are already encoded.
type RawMessage struct {
	Type string
	Data json.RawMessage
}

// ROSType returns the type of the message.
func (m RawMessage) ROSType() string { return m.Type }

// MarshalJSON encodes the message fields.
func (m RawMessage) MarshalJSON() ([]byte, error) {
	if len(m.Data) == 0 {
		return []byte("{}"), nil
	}
	return m.Data, nil
}

// Time is std_msgs/Time.
type Time struct {
	Secs  uint32 `json:"secs"`
	Nsecs uint32 `json:"nsecs"`
}

// TimeFrom converts a wall time to a ROS time.
func TimeFrom(t time.Time) Time {
	ns := t.UnixNano()
	return Time{Secs: uint32(ns / int64(time.Second)), Nsecs: uint32(ns % int64(time.Second))}
}

// Time converts the ROS time to a wall time.
func (t Time) Time() time.Time {
	return time.Unix(int64(t.Secs), int64(t.Nsecs)).UTC()
}

// IsZero reports whether t is the zero time.
func (t Time) IsZero() bool {
	return t.Secs == 0 && t.Nsecs == 0
}

// DefaultFrameID is the frame headers refer to unless told otherwise.
const DefaultFrameID = "/world"

// Header is std_msgs/Header.
type Header struct {
	Seq     uint32 `json:"seq"`
	Stamp   Time   `json:"stamp"`
	FrameID string `json:"frame_id"`
}

// NewHeader returns a header for frameID, defaulting to DefaultFrameID.
func NewHeader(frameID string) Header {
	if frameID == "" {
		frameID = DefaultFrameID
	}
	return Header{FrameID: frameID}
}

// ROSType returns std_msgs/Header.
func (Header) ROSType() string { return "std_msgs/Header" }

// String is std_msgs/String.
type String struct {
	Data string `json:"data"`
}

// ROSType returns std_msgs/String.
func (String) ROSType() string { return "std_msgs/String" }
