package referenceframe

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/floats"

	"go.viam.com/fab/utils"
)

// Configuration holds joint values together with the types of the joints they belong to. Revolute
// and continuous values are in radians, prismatic values in model units.
type Configuration struct {
	Values []float64
	Types  []JointType
	// Names is either empty or names the joint of every value.
	Names []string
}

// NewConfiguration creates a configuration and validates it.
func NewConfiguration(values []float64, types []JointType, names []string) (Configuration, error) {
	c := Configuration{Values: values, Types: types, Names: names}
	if err := c.Validate(); err != nil {
		return Configuration{}, err
	}
	return c, nil
}

// FromRevoluteAndPrismaticValues creates an unnamed configuration of revolute joints followed by
// prismatic joints.
func FromRevoluteAndPrismaticValues(revolute, prismatic []float64) Configuration {
	values := make([]float64, 0, len(revolute)+len(prismatic))
	values = append(append(values, revolute...), prismatic...)
	types := make([]JointType, 0, len(values))
	for range revolute {
		types = append(types, Revolute)
	}
	for range prismatic {
		types = append(types, Prismatic)
	}
	return Configuration{Values: values, Types: types}
}

// ZeroConfiguration returns a named configuration with every given joint at zero, or at the
// closest limit when zero lies outside it.
func ZeroConfiguration(joints []*Joint) Configuration {
	c := Configuration{
		Values: make([]float64, 0, len(joints)),
		Types:  make([]JointType, 0, len(joints)),
		Names:  make([]string, 0, len(joints)),
	}
	for _, j := range joints {
		v := 0.
		if j.Limit != nil && (j.Limit.Lower != 0 || j.Limit.Upper != 0) {
			v = math.Max(j.Limit.Lower, math.Min(j.Limit.Upper, 0))
		}
		c.Values = append(c.Values, v)
		c.Types = append(c.Types, j.Type)
		c.Names = append(c.Names, j.Name)
	}
	return c
}

// Validate checks that there is a type for every value and, when names are given, a name for every
// value.
func (c Configuration) Validate() error {
	if len(c.Values) != len(c.Types) {
		return utils.NewLengthMismatchError("joint types", len(c.Values), len(c.Types))
	}
	if len(c.Names) != 0 && len(c.Names) != len(c.Values) {
		return utils.NewLengthMismatchError("joint names", len(c.Values), len(c.Names))
	}
	if dup := lo.FindDuplicates(c.Names); len(dup) > 0 {
		return NewDuplicateNameError("joint", dup[0])
	}
	return nil
}

// HasNames reports whether every value is named.
func (c Configuration) HasNames() bool {
	return len(c.Names) > 0 && len(c.Names) == len(c.Values)
}

// RevoluteValues returns the values of revolute and continuous joints.
func (c Configuration) RevoluteValues() []float64 {
	return c.valuesWhere(JointType.IsRotational)
}

// PrismaticValues returns the values of prismatic joints.
func (c Configuration) PrismaticValues() []float64 {
	return c.valuesWhere(func(jt JointType) bool { return jt == Prismatic })
}

// valuesWhere skips values without a type.
func (c Configuration) valuesWhere(keep func(JointType) bool) []float64 {
	out := []float64{}
	for i, v := range c.Values {
		if i < len(c.Types) && keep(c.Types[i]) {
			out = append(out, v)
		}
	}
	return out
}

// JointDict returns the values keyed by joint name.
func (c Configuration) JointDict() (map[string]float64, error) {
	if !c.HasNames() {
		return nil, errors.New("configuration has no joint names")
	}
	return lo.SliceToMap(lo.Range(len(c.Values)), func(i int) (string, float64) {
		return c.Names[i], c.Values[i]
	}), nil
}

// Scaled returns a copy with prismatic values multiplied by factor.
func (c Configuration) Scaled(factor float64) Configuration {
	out := c.Copy()
	for i, jt := range out.Types {
		if jt == Prismatic {
			out.Values[i] *= factor
		}
	}
	return out
}

// Copy returns a deep copy.
func (c Configuration) Copy() Configuration {
	out := Configuration{
		Values: append([]float64{}, c.Values...),
		Types:  append([]JointType{}, c.Types...),
	}
	if c.Names != nil {
		out.Names = append([]string{}, c.Names...)
	}
	return out
}

func (c Configuration) differences(other Configuration) ([]float64, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := other.Validate(); err != nil {
		return nil, err
	}
	if len(c.Values) != len(other.Values) {
		return nil, NewIncorrectDoFError(len(other.Values), len(c.Values))
	}
	diffs := make([]float64, len(c.Values))
	for i, v := range c.Values {
		if c.Types[i] != other.Types[i] {
			return nil, errors.Errorf("joint %d is %s in one configuration and %s in the other", i, c.Types[i], other.Types[i])
		}
		if c.Types[i] == Continuous {
			diffs[i] = utils.AngleDiffRad(v, other.Values[i])
		} else {
			diffs[i] = math.Abs(v - other.Values[i])
		}
	}
	return diffs, nil
}

// CloseTo reports whether every value is within tol of the other configuration's. Continuous joints
// are compared modulo a full turn.
func (c Configuration) CloseTo(other Configuration, tol float64) bool {
	diffs, err := c.differences(other)
	if err != nil {
		return false
	}
	return len(diffs) == 0 || floats.Max(diffs) <= tol
}

// Distance returns the euclidean distance between two configurations of the same joints.
func (c Configuration) Distance(other Configuration) (float64, error) {
	diffs, err := c.differences(other)
	if err != nil {
		return 0, err
	}
	return floats.Norm(diffs, 2), nil
}

// Merged returns a configuration with the joints of c updated and extended by those of other.
// Both must be named.
func (c Configuration) Merged(other Configuration) (Configuration, error) {
	if !c.HasNames() || !other.HasNames() {
		return Configuration{}, errors.New("cannot merge configurations without joint names")
	}
	if err := c.Validate(); err != nil {
		return Configuration{}, err
	}
	if err := other.Validate(); err != nil {
		return Configuration{}, err
	}
	out := c.Copy()
	index := lo.SliceToMap(lo.Range(len(out.Names)), func(i int) (string, int) { return out.Names[i], i })
	for i, name := range other.Names {
		if idx, ok := index[name]; ok {
			out.Values[idx] = other.Values[i]
			out.Types[idx] = other.Types[i]
			continue
		}
		out.Values = append(out.Values, other.Values[i])
		out.Types = append(out.Types, other.Types[i])
		out.Names = append(out.Names, name)
	}
	return out, nil
}

// String shows revolute values in degrees and prismatic values in model units.
func (c Configuration) String() string {
	parts := make([]string, 0, len(c.Values))
	for i, v := range c.Values {
		var s string
		if i < len(c.Types) && c.Types[i].IsRotational() {
			s = fmt.Sprintf("%.3fdeg", utils.RadToDeg(v))
		} else {
			s = fmt.Sprintf("%.3f", v)
		}
		if c.HasNames() {
			s = c.Names[i] + "=" + s
		}
		parts = append(parts, s)
	}
	return "Configuration(" + strings.Join(parts, ", ") + ")"
}

type configurationJSON struct {
	Values []float64   `json:"joint_values"`
	Types  []JointType `json:"joint_types"`
	Names  []string    `json:"joint_names,omitempty"`
}

// MarshalJSON encodes the configuration.
func (c Configuration) MarshalJSON() ([]byte, error) {
	return json.Marshal(configurationJSON{Values: c.Values, Types: c.Types, Names: c.Names})
}

// UnmarshalJSON decodes and validates a configuration.
func (c *Configuration) UnmarshalJSON(data []byte) error {
	var cj configurationJSON
	if err := json.Unmarshal(data, &cj); err != nil {
		return err
	}
	parsed, err := NewConfiguration(cj.Values, cj.Types, cj.Names)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
