package referenceframe

import (
	"encoding/json"
	"strings"

	"github.com/golang/geo/r3"

	"go.viam.com/fab/spatialmath"
)

// JointType is the kind of motion a joint permits.
type JointType int

// The supported joint types. The numeric values match those of the robot description format.
const (
	Revolute JointType = iota
	Continuous
	Prismatic
	Fixed
	Floating
	Planar
)

var jointTypeNames = map[JointType]string{
	Revolute:   "revolute",
	Continuous: "continuous",
	Prismatic:  "prismatic",
	Fixed:      "fixed",
	Floating:   "floating",
	Planar:     "planar",
}

func (jt JointType) String() string {
	if name, ok := jointTypeNames[jt]; ok {
		return name
	}
	return "unknown"
}

// Configurable reports whether a joint of this type has a single value a planner can set.
func (jt JointType) Configurable() bool {
	return jt == Revolute || jt == Continuous || jt == Prismatic
}

// IsRotational reports whether values of this joint type are angles in radians.
func (jt JointType) IsRotational() bool {
	return jt == Revolute || jt == Continuous
}

// JointTypeFromString parses a joint type name.
func JointTypeFromString(name string) (JointType, error) {
	lower := strings.ToLower(name)
	for jt, n := range jointTypeNames {
		if n == lower {
			return jt, nil
		}
	}
	return 0, NewUnknownJointTypeError(name)
}

// MarshalJSON encodes the joint type by name.
func (jt JointType) MarshalJSON() ([]byte, error) {
	return json.Marshal(jt.String())
}

// UnmarshalJSON decodes a joint type from its name or its numeric value.
func (jt *JointType) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		var num int
		if numErr := json.Unmarshal(data, &num); numErr != nil {
			return err
		}
		if _, ok := jointTypeNames[JointType(num)]; !ok {
			return NewUnknownJointTypeError(string(data))
		}
		*jt = JointType(num)
		return nil
	}
	parsed, err := JointTypeFromString(name)
	if err != nil {
		return err
	}
	*jt = parsed
	return nil
}

// Limit bounds the motion of a joint. Lower and Upper are in radians for rotational joints and in
// model units for prismatic ones.
type Limit struct {
	Lower    float64 `json:"lower"`
	Upper    float64 `json:"upper"`
	Velocity float64 `json:"velocity,omitempty"`
	Effort   float64 `json:"effort,omitempty"`
}

// Mimic makes a joint follow another: value = Multiplier * other + Offset.
type Mimic struct {
	Joint      string  `json:"joint"`
	Multiplier float64 `json:"multiplier"`
	Offset     float64 `json:"offset"`
}

// Joint connects a parent link to a child link.
type Joint struct {
	Name   string
	Type   JointType
	Parent string
	Child  string
	// Origin places the joint in the frame of its parent link.
	Origin spatialmath.Frame
	Axis   r3.Vector
	Limit  *Limit
	Mimic  *Mimic
}

// Configurable reports whether the joint can be set by a configuration.
func (j *Joint) Configurable() bool {
	return j.Type.Configurable() && j.Mimic == nil
}

// JointConfig is the JSON representation of a joint.
type JointConfig struct {
	Name   string             `json:"name"`
	Type   JointType          `json:"type"`
	Parent string             `json:"parent"`
	Child  string             `json:"child"`
	Origin *spatialmath.Frame `json:"origin,omitempty"`
	Axis   *[3]float64        `json:"axis,omitempty"`
	Limit  *Limit             `json:"limit,omitempty"`
	Mimic  *Mimic             `json:"mimic,omitempty"`
}

// ParseConfig converts a JointConfig into a Joint. A missing origin is the parent frame and a missing
// axis is the z axis.
func (cfg JointConfig) ParseConfig() *Joint {
	j := &Joint{
		Name:   cfg.Name,
		Type:   cfg.Type,
		Parent: cfg.Parent,
		Child:  cfg.Child,
		Origin: spatialmath.WorldXY(),
		Axis:   r3.Vector{Z: 1},
		Limit:  cfg.Limit,
		Mimic:  cfg.Mimic,
	}
	if cfg.Origin != nil {
		j.Origin = *cfg.Origin
	}
	if cfg.Axis != nil {
		j.Axis = r3.Vector{X: cfg.Axis[0], Y: cfg.Axis[1], Z: cfg.Axis[2]}
	}
	return j
}

func (j *Joint) toConfig() JointConfig {
	origin := j.Origin
	axis := [3]float64{j.Axis.X, j.Axis.Y, j.Axis.Z}
	return JointConfig{
		Name:   j.Name,
		Type:   j.Type,
		Parent: j.Parent,
		Child:  j.Child,
		Origin: &origin,
		Axis:   &axis,
		Limit:  j.Limit,
		Mimic:  j.Mimic,
	}
}
