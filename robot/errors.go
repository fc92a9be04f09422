package robot

import "github.com/pkg/errors"

var (
	// ErrNoClient is returned by operations that need a planning backend when the robot has none.
	ErrNoClient = errors.New("robot has no planning backend")
	// ErrNoSemantics is returned by operations that need planning groups when the robot has no
	// semantics.
	ErrNoSemantics = errors.New("robot has no semantics")
	// ErrNoTool is returned by tool frame conversions when no tool is attached.
	ErrNoTool = errors.New("robot has no tool attached")
)

// NewStartConfigurationError is returned when a start configuration does not match its group.
func NewStartConfigurationError(group string, actual, expected int) error {
	return errors.Errorf("start configuration has %d values but group '%s' has %d configurable joints", actual, group, expected)
}

// NewMissingJointValueError is returned when a backend result lacks a value for a group joint.
func NewMissingJointValueError(joint string) error {
	return errors.Errorf("backend result has no value for joint %s", joint)
}
