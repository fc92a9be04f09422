package referenceframe

import (
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/fab/spatialmath"
	"go.viam.com/fab/utils"
)

func loadUR5(t *testing.T) *Model {
	t.Helper()
	model, err := ParseModelJSONFile(utils.ResolveFile("referenceframe/testjson/ur5.json"), "")
	test.That(t, err, test.ShouldBeNil)
	return model
}

var ur5JointNames = []string{
	"shoulder_pan_joint", "shoulder_lift_joint", "elbow_joint",
	"wrist_1_joint", "wrist_2_joint", "wrist_3_joint",
}

func TestModelQueries(t *testing.T) {
	model := loadUR5(t)

	test.That(t, model.Root().Name, test.ShouldEqual, "world")
	test.That(t, model.Root().ParentJoint, test.ShouldBeNil)
	test.That(t, model.ConfigurableJointNames(), test.ShouldResemble, ur5JointNames)
	test.That(t, model.EndEffectorLinkName(), test.ShouldEqual, "ee_link")
	test.That(t, model.BaseLinkName(), test.ShouldEqual, "base_link")

	link, err := model.LinkByName("wrist_3_link")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(link.Joints), test.ShouldEqual, 2)
	test.That(t, link.ParentJoint.Name, test.ShouldEqual, "wrist_3_joint")
	_, err = model.LinkByName("nope")
	test.That(t, err, test.ShouldBeError, NewLinkNotFoundError("nope"))

	joint, err := model.JointByName("shoulder_lift_joint")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, joint.Axis, test.ShouldResemble, r3.Vector{Y: 1})
	test.That(t, joint.Limit.Upper, test.ShouldAlmostEqual, 6.283185)
	test.That(t, spatialmath.R3VectorAlmostEqual(joint.Origin.ZAxis(), r3.Vector{X: 1}, 1e-9), test.ShouldBeTrue)
	_, err = model.JointByName("nope")
	test.That(t, err, test.ShouldBeError, NewJointNotFoundError("nope"))

	// missing origin and axis default to the parent frame and z
	joint, err = model.JointByName("world_joint")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, joint.Origin, test.ShouldResemble, spatialmath.WorldXY())
	test.That(t, joint.Axis, test.ShouldResemble, r3.Vector{Z: 1})

	types, err := model.JointTypesByNames([]string{"world_joint", "elbow_joint"})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, types, test.ShouldResemble, []JointType{Fixed, Revolute})
	_, err = model.JointTypesByNames([]string{"nope"})
	test.That(t, err, test.ShouldNotBeNil)

	// depth-first order visits the whole wrist before tool0
	links := model.Links()
	test.That(t, links[len(links)-2].Name, test.ShouldEqual, "ee_link")
	test.That(t, links[len(links)-1].Name, test.ShouldEqual, "tool0")
}

func TestModelChain(t *testing.T) {
	model := loadUR5(t)

	joints, err := model.ChainJoints("base_link", "ee_link")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, jointNames(joints), test.ShouldResemble, append(append([]string{}, ur5JointNames...), "ee_fixed_joint"))

	links, err := model.ChainLinkNames("wrist_2_link", "tool0")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, links, test.ShouldResemble, []string{"wrist_2_link", "wrist_3_link", "tool0"})

	joints, err = model.ChainJoints("tool0", "tool0")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, joints, test.ShouldBeEmpty)

	_, err = model.ChainJoints("ee_link", "tool0")
	test.That(t, err, test.ShouldNotBeNil)
	_, err = model.ChainJoints("base_link", "nope")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestModelScale(t *testing.T) {
	model := loadUR5(t)
	test.That(t, model.ScaleFactor(), test.ShouldEqual, 1)
	test.That(t, model.Scale(0), test.ShouldNotBeNil)
	test.That(t, model.Scale(1000), test.ShouldBeNil)
	test.That(t, model.ScaleFactor(), test.ShouldEqual, 1000)

	joint, err := model.JointByName("elbow_joint")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, joint.Origin.Point.Z, test.ShouldAlmostEqual, 425)
	// revolute limits are angles and do not scale
	test.That(t, joint.Limit.Upper, test.ShouldAlmostEqual, 3.141593)

	link, err := model.LinkByName("upper_arm_link")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, link.Collision[0].Box.ZSize, test.ShouldAlmostEqual, 425)
	test.That(t, link.Collision[0].Origin.Point.Z, test.ShouldAlmostEqual, 212.5)

	slider, err := NewModel("slider",
		[]*Link{{Name: "rail"}, {Name: "carriage"}},
		[]*Joint{{Name: "slide", Type: Prismatic, Parent: "rail", Child: "carriage", Limit: &Limit{Lower: -1, Upper: 2}}},
	)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, slider.Scale(1000), test.ShouldBeNil)
	joint, err = slider.JointByName("slide")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, joint.Limit.Lower, test.ShouldEqual, -1000)
	test.That(t, joint.Limit.Upper, test.ShouldEqual, 2000)
}

func TestNewModelErrors(t *testing.T) {
	_, err := NewModel("empty", nil, nil)
	test.That(t, err, test.ShouldBeError, ErrNoModelInformation)

	_, err = NewModel("dup", []*Link{{Name: "a"}, {Name: "a"}}, nil)
	test.That(t, err, test.ShouldBeError, NewDuplicateNameError("link", "a"))

	_, err = NewModel("dup", []*Link{{Name: "a"}, {Name: "b"}}, []*Joint{
		{Name: "j", Parent: "a", Child: "b"},
		{Name: "j", Parent: "a", Child: "b"},
	})
	test.That(t, err, test.ShouldBeError, NewDuplicateNameError("joint", "j"))

	_, err = NewModel("twoparents", []*Link{{Name: "a"}, {Name: "b"}, {Name: "c"}}, []*Joint{
		{Name: "j0", Parent: "a", Child: "c"},
		{Name: "j1", Parent: "b", Child: "c"},
	})
	test.That(t, err, test.ShouldBeError, NewMultipleParentsError("c"))

	_, err = NewModel("ring", []*Link{{Name: "a"}, {Name: "b"}}, []*Joint{
		{Name: "j0", Parent: "a", Child: "b"},
		{Name: "j1", Parent: "b", Child: "a"},
	})
	test.That(t, err, test.ShouldBeError, ErrCircularReference)

	_, err = NewModel("roots", []*Link{{Name: "a"}, {Name: "b"}}, nil)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, ErrNeedOneRoot.Error())

	// world is allowed as the root
	model, err := NewModel("ok", []*Link{{Name: World}, {Name: "b"}}, []*Joint{{Name: "j0", Type: Fixed, Parent: World, Child: "b"}})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, model.BaseLinkName(), test.ShouldEqual, World)
	test.That(t, model.ConfigurableJoints(), test.ShouldBeEmpty)
}

func TestJointTypes(t *testing.T) {
	for _, jt := range []JointType{Revolute, Continuous, Prismatic, Fixed, Floating, Planar} {
		parsed, err := JointTypeFromString(jt.String())
		test.That(t, err, test.ShouldBeNil)
		test.That(t, parsed, test.ShouldEqual, jt)
	}
	test.That(t, Revolute.Configurable(), test.ShouldBeTrue)
	test.That(t, Continuous.Configurable(), test.ShouldBeTrue)
	test.That(t, Prismatic.Configurable(), test.ShouldBeTrue)
	test.That(t, Fixed.Configurable(), test.ShouldBeFalse)
	test.That(t, Floating.Configurable(), test.ShouldBeFalse)
	test.That(t, Planar.Configurable(), test.ShouldBeFalse)
	test.That(t, JointType(42).String(), test.ShouldEqual, "unknown")

	parsed, err := JointTypeFromString("REVOLUTE")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, parsed, test.ShouldEqual, Revolute)
	_, err = JointTypeFromString("helical")
	test.That(t, err, test.ShouldBeError, NewUnknownJointTypeError("helical"))

	mimic := &Joint{Type: Revolute, Mimic: &Mimic{Joint: "other", Multiplier: 1}}
	test.That(t, mimic.Configurable(), test.ShouldBeFalse)
}
