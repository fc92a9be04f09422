package referenceframe

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// Model is an in-memory kinematic tree of links connected by joints.
type Model struct {
	name   string
	root   *Link
	links  map[string]*Link
	joints map[string]*Joint
	// depth-first orders
	linkOrder  []*Link
	jointOrder []*Joint
	scale      float64
}

// NewModel builds a model from links and joints, checking that they form a single tree.
func NewModel(name string, links []*Link, joints []*Joint) (*Model, error) {
	m := &Model{
		name:   name,
		links:  make(map[string]*Link, len(links)),
		joints: make(map[string]*Joint, len(joints)),
		scale:  1,
	}
	for _, l := range links {
		if _, ok := m.links[l.Name]; ok {
			return nil, NewDuplicateNameError("link", l.Name)
		}
		l.Joints = nil
		l.ParentJoint = nil
		m.links[l.Name] = l
	}
	for _, j := range joints {
		if j.Name == World {
			return nil, NewReservedWordError("joint", World)
		}
		if _, ok := m.joints[j.Name]; ok {
			return nil, NewDuplicateNameError("joint", j.Name)
		}
		m.joints[j.Name] = j
		parent, ok := m.links[j.Parent]
		if !ok {
			return nil, NewLinkNotFoundError(j.Parent)
		}
		child, ok := m.links[j.Child]
		if !ok {
			return nil, NewLinkNotFoundError(j.Child)
		}
		if child.ParentJoint != nil {
			return nil, NewMultipleParentsError(child.Name)
		}
		child.ParentJoint = j
		parent.Joints = append(parent.Joints, j)
	}

	for _, l := range links {
		if l.ParentJoint != nil {
			if l.Name == World {
				return nil, NewReservedWordError("link", World)
			}
			continue
		}
		if m.root != nil {
			return nil, errors.Wrapf(ErrNeedOneRoot, "have '%s' and '%s'", m.root.Name, l.Name)
		}
		m.root = l
	}
	if m.root == nil {
		if len(links) == 0 {
			return nil, ErrNoModelInformation
		}
		// every link has a parent, so the joints must loop
		return nil, ErrCircularReference
	}

	m.walk(m.root)
	if len(m.linkOrder) != len(m.links) {
		// unreachable links each have one parent, so following their parents never ends
		return nil, ErrCircularReference
	}
	return m, nil
}

func (m *Model) walk(l *Link) {
	m.linkOrder = append(m.linkOrder, l)
	for _, j := range l.Joints {
		m.jointOrder = append(m.jointOrder, j)
		m.walk(m.links[j.Child])
	}
}

// Name returns the name of the model.
func (m *Model) Name() string {
	return m.name
}

// Root returns the link that is not the child of any joint.
func (m *Model) Root() *Link {
	return m.root
}

// LinkByName returns the link with the given name.
func (m *Model) LinkByName(name string) (*Link, error) {
	l, ok := m.links[name]
	if !ok {
		return nil, NewLinkNotFoundError(name)
	}
	return l, nil
}

// JointByName returns the joint with the given name.
func (m *Model) JointByName(name string) (*Joint, error) {
	j, ok := m.joints[name]
	if !ok {
		return nil, NewJointNotFoundError(name)
	}
	return j, nil
}

// Links returns all links in depth-first order starting at the root.
func (m *Model) Links() []*Link {
	return append([]*Link{}, m.linkOrder...)
}

// Joints returns all joints in depth-first order starting at the root.
func (m *Model) Joints() []*Joint {
	return append([]*Joint{}, m.jointOrder...)
}

// ConfigurableJoints returns the joints whose values a configuration sets, in depth-first order.
func (m *Model) ConfigurableJoints() []*Joint {
	return lo.Filter(m.jointOrder, func(j *Joint, _ int) bool { return j.Configurable() })
}

// ConfigurableJointNames returns the names of ConfigurableJoints.
func (m *Model) ConfigurableJointNames() []string {
	return jointNames(m.ConfigurableJoints())
}

// JointTypesByNames returns the types of the named joints in the same order.
func (m *Model) JointTypesByNames(names []string) ([]JointType, error) {
	types := make([]JointType, 0, len(names))
	for _, name := range names {
		j, err := m.JointByName(name)
		if err != nil {
			return nil, err
		}
		types = append(types, j.Type)
	}
	return types, nil
}

// EndEffectorLinkName returns the last link of the chain that starts at the root and always follows
// the first child joint.
func (m *Model) EndEffectorLinkName() string {
	l := m.root
	for len(l.Joints) > 0 {
		l = m.links[l.Joints[0].Child]
	}
	return l.Name
}

// BaseLinkName returns the parent link of the first configurable joint, or the root if the model
// has no configurable joints.
func (m *Model) BaseLinkName() string {
	for _, j := range m.jointOrder {
		if j.Configurable() {
			return j.Parent
		}
	}
	return m.root.Name
}

// ChainJoints returns the joints on the path from link from down to link to.
func (m *Model) ChainJoints(from, to string) ([]*Joint, error) {
	if _, err := m.LinkByName(from); err != nil {
		return nil, err
	}
	l, err := m.LinkByName(to)
	if err != nil {
		return nil, err
	}
	chain := []*Joint{}
	for l.Name != from {
		if l.ParentJoint == nil {
			return nil, errors.Errorf("link '%s' is not a descendant of link '%s'", to, from)
		}
		chain = append(chain, l.ParentJoint)
		l = m.links[l.ParentJoint.Parent]
	}
	return lo.Reverse(chain), nil
}

// ChainLinkNames returns the names of the links on the path from link from down to link to, both
// included.
func (m *Model) ChainLinkNames(from, to string) ([]string, error) {
	joints, err := m.ChainJoints(from, to)
	if err != nil {
		return nil, err
	}
	return append([]string{from}, lo.Map(joints, func(j *Joint, _ int) string { return j.Child })...), nil
}

// ScaleFactor returns the factor the model has been scaled by since it was loaded.
func (m *Model) ScaleFactor() float64 {
	return m.scale
}

// Scale scales every length in the model by factor: joint origins, prismatic limits and link
// geometry.
func (m *Model) Scale(factor float64) error {
	if factor <= 0 {
		return errors.Errorf("scale factor must be positive, got %v", factor)
	}
	for _, j := range m.jointOrder {
		j.Origin = j.Origin.Scaled(factor)
		if j.Type == Prismatic && j.Limit != nil {
			j.Limit.Lower *= factor
			j.Limit.Upper *= factor
		}
	}
	for _, l := range m.linkOrder {
		l.Visual = scaleGeometries(l.Visual, factor)
		l.Collision = scaleGeometries(l.Collision, factor)
	}
	m.scale *= factor
	return nil
}

func scaleGeometries(geoms []Geometry, factor float64) []Geometry {
	if geoms == nil {
		return nil
	}
	return lo.Map(geoms, func(g Geometry, _ int) Geometry { return g.scaled(factor) })
}

// ZeroConfiguration returns a configuration with every configurable joint at zero.
func (m *Model) ZeroConfiguration() Configuration {
	return ZeroConfiguration(m.ConfigurableJoints())
}

// ModelConfig returns the JSON representation of the model.
func (m *Model) ModelConfig() *ModelConfigJSON {
	return &ModelConfigJSON{
		Name:   m.name,
		Links:  lo.Map(m.linkOrder, func(l *Link, _ int) LinkConfig { return l.toConfig() }),
		Joints: lo.Map(m.jointOrder, func(j *Joint, _ int) JointConfig { return j.toConfig() }),
	}
}

// MarshalJSON serializes a Model.
func (m *Model) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.ModelConfig())
}

func jointNames(joints []*Joint) []string {
	return lo.Map(joints, func(j *Joint, _ int) string { return j.Name })
}
