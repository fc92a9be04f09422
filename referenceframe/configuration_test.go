package referenceframe

import (
	"encoding/json"
	"math"
	"testing"

	"go.viam.com/test"

	"go.viam.com/fab/utils"
)

func TestNewConfiguration(t *testing.T) {
	_, err := NewConfiguration([]float64{1, 2}, []JointType{Revolute}, nil)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "joint types length mismatch")

	_, err = NewConfiguration([]float64{1, 2}, []JointType{Revolute, Revolute}, []string{"a"})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "joint names length mismatch")

	_, err = NewConfiguration([]float64{1, 2}, []JointType{Revolute, Revolute}, []string{"a", "a"})
	test.That(t, err, test.ShouldBeError, NewDuplicateNameError("joint", "a"))

	c, err := NewConfiguration([]float64{1, 2}, []JointType{Revolute, Prismatic}, []string{"a", "b"})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, c.HasNames(), test.ShouldBeTrue)
}

func TestRevoluteAndPrismaticValues(t *testing.T) {
	c := FromRevoluteAndPrismaticValues([]float64{math.Pi / 2, 0}, []float64{0.25})
	test.That(t, c.Validate(), test.ShouldBeNil)
	test.That(t, c.Types, test.ShouldResemble, []JointType{Revolute, Revolute, Prismatic})
	test.That(t, c.RevoluteValues(), test.ShouldResemble, []float64{math.Pi / 2, 0})
	test.That(t, c.PrismaticValues(), test.ShouldResemble, []float64{0.25})
	test.That(t, c.HasNames(), test.ShouldBeFalse)
	test.That(t, c.String(), test.ShouldEqual, "Configuration(90.000deg, 0.000deg, 0.250)")

	scaled := c.Scaled(1000)
	test.That(t, scaled.Values, test.ShouldResemble, []float64{math.Pi / 2, 0, 250})
	// the original is unchanged
	test.That(t, c.Values[2], test.ShouldEqual, 0.25)

	_, err := c.JointDict()
	test.That(t, err, test.ShouldNotBeNil)
}

func TestZeroConfiguration(t *testing.T) {
	model := loadUR5(t)
	zero := model.ZeroConfiguration()
	test.That(t, zero.Names, test.ShouldResemble, ur5JointNames)
	test.That(t, zero.Values, test.ShouldResemble, make([]float64, 6))

	clamped := ZeroConfiguration([]*Joint{{Name: "lift", Type: Prismatic, Limit: &Limit{Lower: 0.1, Upper: 0.5}}})
	test.That(t, clamped.Values, test.ShouldResemble, []float64{0.1})

	dict, err := zero.JointDict()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(dict), test.ShouldEqual, 6)
	test.That(t, dict["elbow_joint"], test.ShouldEqual, 0)
}

func TestConfigurationCloseTo(t *testing.T) {
	a := Configuration{Values: []float64{0.1, math.Pi - 0.01}, Types: []JointType{Revolute, Continuous}}
	b := Configuration{Values: []float64{0.1005, -math.Pi + 0.01}, Types: []JointType{Revolute, Continuous}}
	test.That(t, a.CloseTo(b, 0.03), test.ShouldBeTrue)
	test.That(t, a.CloseTo(b, 0.0001), test.ShouldBeFalse)

	dist, err := a.Distance(b)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, dist, test.ShouldAlmostEqual, math.Hypot(0.0005, 0.02))

	// revolute joints do not wrap
	c := Configuration{Values: []float64{0, 2 * math.Pi}, Types: []JointType{Revolute, Revolute}}
	d := Configuration{Values: []float64{0, 0}, Types: []JointType{Revolute, Revolute}}
	test.That(t, c.CloseTo(d, 0.1), test.ShouldBeFalse)

	test.That(t, a.CloseTo(c, 10), test.ShouldBeFalse)
	test.That(t, a.CloseTo(Configuration{Values: []float64{0.1}, Types: []JointType{Revolute}}, 10), test.ShouldBeFalse)
	_, err = a.Distance(Configuration{})
	test.That(t, err, test.ShouldBeError, NewIncorrectDoFError(0, 2))

	t.Run("mismatched types", func(t *testing.T) {
		short := Configuration{Values: []float64{1, 2}, Types: []JointType{Revolute}}
		test.That(t, short.CloseTo(short, 1e-3), test.ShouldBeFalse)
		test.That(t, a.CloseTo(short, 10), test.ShouldBeFalse)
		_, err := short.Distance(a)
		test.That(t, err, test.ShouldBeError, utils.NewLengthMismatchError("joint types", 2, 1))
		_, err = a.Distance(short)
		test.That(t, err, test.ShouldNotBeNil)

		test.That(t, short.RevoluteValues(), test.ShouldResemble, []float64{1})
		test.That(t, short.PrismaticValues(), test.ShouldBeEmpty)

		named := Configuration{Values: []float64{1, 2}, Types: []JointType{Revolute}, Names: []string{"j1", "j2"}}
		_, err = named.Merged(named)
		test.That(t, err, test.ShouldNotBeNil)
	})
}

func TestConfigurationMerged(t *testing.T) {
	a, err := NewConfiguration([]float64{1, 2}, []JointType{Revolute, Revolute}, []string{"j1", "j2"})
	test.That(t, err, test.ShouldBeNil)
	b, err := NewConfiguration([]float64{5, 0.3}, []JointType{Revolute, Prismatic}, []string{"j2", "rail"})
	test.That(t, err, test.ShouldBeNil)

	merged, err := a.Merged(b)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, merged.Names, test.ShouldResemble, []string{"j1", "j2", "rail"})
	test.That(t, merged.Values, test.ShouldResemble, []float64{1, 5, 0.3})
	test.That(t, merged.Types, test.ShouldResemble, []JointType{Revolute, Revolute, Prismatic})
	test.That(t, a.Values, test.ShouldResemble, []float64{1, 2})

	_, err = a.Merged(FromRevoluteAndPrismaticValues([]float64{1}, nil))
	test.That(t, err, test.ShouldNotBeNil)

	test.That(t, merged.String(), test.ShouldEqual, "Configuration(j1=57.296deg, j2=286.479deg, rail=0.300)")
}

func TestConfigurationJSON(t *testing.T) {
	c, err := NewConfiguration([]float64{1.5, 0.2}, []JointType{Continuous, Prismatic}, []string{"a", "b"})
	test.That(t, err, test.ShouldBeNil)

	data, err := json.Marshal(c)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, string(data), test.ShouldEqual,
		`{"joint_values":[1.5,0.2],"joint_types":["continuous","prismatic"],"joint_names":["a","b"]}`)

	var out Configuration
	test.That(t, json.Unmarshal(data, &out), test.ShouldBeNil)
	test.That(t, out, test.ShouldResemble, c)

	err = json.Unmarshal([]byte(`{"joint_values":[1.5],"joint_types":[]}`), &out)
	test.That(t, err, test.ShouldNotBeNil)
}
