package ros

import (
	"fmt"
	"strings"

	"go.viam.com/fab/spatialmath"
)

// URScriptTopic is the topic the UR driver executes URScript programs from.
const URScriptTopic = "/ur_driver/URScript"

// URMove is a single movel or movej command. Zero valued parameters are left to the controller.
type URMove struct {
	Linear bool
	// Pose is in meters, oriented by an axis angle vector.
	Pose         spatialmath.Frame
	Acceleration float64
	Velocity     float64
	Time         float64
	Radius       float64
}

func (m URMove) String() string {
	p := m.Pose.Point
	aa := m.Pose.AxisAngleVector()
	var sb strings.Builder
	if m.Linear {
		sb.WriteString("movel(")
	} else {
		sb.WriteString("movej(")
	}
	fmt.Fprintf(&sb, "p[%.6f, %.6f, %.6f, %.6f, %.6f, %.6f]", p.X, p.Y, p.Z, aa.X, aa.Y, aa.Z)
	for _, param := range []struct {
		name  string
		value float64
	}{
		{"a", m.Acceleration},
		{"v", m.Velocity},
		{"t", m.Time},
		{"r", m.Radius},
	} {
		if param.value != 0 {
			fmt.Fprintf(&sb, ", %s=%.6f", param.name, param.value)
		}
	}
	sb.WriteString(")")
	return sb.String()
}

// URScript is a URScript program made of moves.
type URScript struct {
	Name  string
	Moves []URMove
}

// NewMoveLScript returns a program moving linearly through frames with shared parameters.
func NewMoveLScript(frames []spatialmath.Frame, acceleration, velocity, time, radius float64) URScript {
	script := URScript{Name: "fab_movel"}
	for _, f := range frames {
		script.Moves = append(script.Moves, URMove{
			Linear:       true,
			Pose:         f,
			Acceleration: acceleration,
			Velocity:     velocity,
			Time:         time,
			Radius:       radius,
		})
	}
	return script
}

// Lines returns the commands of the program, one per move.
func (s URScript) Lines() []string {
	lines := make([]string, 0, len(s.Moves))
	for _, m := range s.Moves {
		lines = append(lines, m.String())
	}
	return lines
}

// Program returns the program text wrapped in a function definition, as the driver expects.
func (s URScript) Program() string {
	name := s.Name
	if name == "" {
		name = "fab_program"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "def %s():\n", name)
	for _, line := range s.Lines() {
		fmt.Fprintf(&sb, "  %s\n", line)
	}
	sb.WriteString("end\n")
	return sb.String()
}

// Message returns the program as the std_msgs/String the driver subscribes to.
func (s URScript) Message() String {
	return String{Data: s.Program()}
}
