package ros

import "fmt"

// GoalID is actionlib_msgs/GoalID.
type GoalID struct {
	Stamp Time   `json:"stamp"`
	ID    string `json:"id"`
}

// ROSType returns actionlib_msgs/GoalID.
func (GoalID) ROSType() string { return "actionlib_msgs/GoalID" }

// GoalStatusCode is the state of an action goal.
type GoalStatusCode uint8

// goal states.
const (
	GoalPending GoalStatusCode = iota
	GoalActive
	GoalPreempted
	GoalSucceeded
	GoalAborted
	GoalRejected
	GoalPreempting
	GoalRecalling
	GoalRecalled
	GoalLost
)

var goalStatusNames = [...]string{
	"PENDING", "ACTIVE", "PREEMPTED", "SUCCEEDED", "ABORTED",
	"REJECTED", "PREEMPTING", "RECALLING", "RECALLED", "LOST",
}

func (c GoalStatusCode) String() string {
	if int(c) < len(goalStatusNames) {
		return goalStatusNames[c]
	}
	return fmt.Sprintf("UNKNOWN(%d)", uint8(c))
}

// Terminal reports whether a goal in this state will not change state again.
func (c GoalStatusCode) Terminal() bool {
	switch c {
	case GoalPreempted, GoalSucceeded, GoalAborted, GoalRejected, GoalRecalled, GoalLost:
		return true
	case GoalPending, GoalActive, GoalPreempting, GoalRecalling:
		return false
	default:
		return false
	}
}

// GoalStatus is actionlib_msgs/GoalStatus.
type GoalStatus struct {
	GoalID GoalID         `json:"goal_id"`
	Status GoalStatusCode `json:"status"`
	Text   string         `json:"text"`
}

// GoalStatusArray is actionlib_msgs/GoalStatusArray.
type GoalStatusArray struct {
	Header     Header       `json:"header"`
	StatusList []GoalStatus `json:"status_list"`
}

// ROSType returns actionlib_msgs/GoalStatusArray.
func (GoalStatusArray) ROSType() string { return "actionlib_msgs/GoalStatusArray" }
