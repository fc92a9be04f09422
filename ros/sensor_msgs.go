package ros

// JointState is sensor_msgs/JointState.
type JointState struct {
	Header   Header    `json:"header"`
	Name     []string  `json:"name"`
	Position []float64 `json:"position"`
	Velocity []float64 `json:"velocity"`
	Effort   []float64 `json:"effort"`
}

// ROSType returns sensor_msgs/JointState.
func (JointState) ROSType() string { return "sensor_msgs/JointState" }

// Positions maps joint names to positions.
func (js JointState) Positions() map[string]float64 {
	out := make(map[string]float64, len(js.Name))
	for i, name := range js.Name {
		if i < len(js.Position) {
			out[name] = js.Position[i]
		}
	}
	return out
}

// MultiDOFJointState is sensor_msgs/MultiDOFJointState.
type MultiDOFJointState struct {
	Header     Header      `json:"header"`
	JointNames []string    `json:"joint_names"`
	Transforms []Transform `json:"transforms"`
	Twist      []Twist     `json:"twist"`
	Wrench     []Wrench    `json:"wrench"`
}

// ROSType returns sensor_msgs/MultiDOFJointState.
func (MultiDOFJointState) ROSType() string { return "sensor_msgs/MultiDOFJointState" }
