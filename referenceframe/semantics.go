package referenceframe

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	goutils "go.viam.com/utils"
)

// Chain describes a planning group as the serial chain between two links.
type Chain struct {
	BaseLink string `json:"base_link"`
	TipLink  string `json:"tip_link"`
}

// Group is a named set of links and joints that are planned for together.
type Group struct {
	Name   string   `json:"name"`
	Links  []string `json:"links,omitempty"`
	Joints []string `json:"joints,omitempty"`
	Chain  *Chain   `json:"chain,omitempty"`
}

// EndEffector names the link a tool is attached to.
type EndEffector struct {
	Name        string `json:"name"`
	Link        string `json:"parent_link"`
	Group       string `json:"group"`
	ParentGroup string `json:"parent_group,omitempty"`
}

// Semantics carries the planning information that accompanies a robot model: its planning
// groups, passive joints, end effectors and link pairs that never need collision checking.
type Semantics struct {
	RobotName          string        `json:"robot_name"`
	Groups             []Group       `json:"groups"`
	PassiveJoints      []string      `json:"passive_joints,omitempty"`
	EndEffectors       []EndEffector `json:"end_effectors,omitempty"`
	DisabledCollisions [][2]string   `json:"disabled_collisions,omitempty"`
}

// UnmarshalSemanticsJSON parses semantics from JSON.
func UnmarshalSemanticsJSON(jsonData []byte) (*Semantics, error) {
	if len(jsonData) == 0 {
		return nil, ErrNoModelInformation
	}
	s := &Semantics{}
	if err := json.Unmarshal(jsonData, s); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal semantics json")
	}
	if len(s.Groups) == 0 {
		return nil, ErrNoPlanningGroups
	}
	return s, nil
}

// ParseSemanticsJSONFile reads semantics from a JSON file.
func ParseSemanticsJSONFile(filename string) (*Semantics, error) {
	//nolint:gosec
	jsonData, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read semantics json file")
	}
	return UnmarshalSemanticsJSON(jsonData)
}

// Resolve checks the semantics against a model and fills the links and joints of every group that
// is described as a chain.
func (s *Semantics) Resolve(m *Model) error {
	if len(s.Groups) == 0 {
		return ErrNoPlanningGroups
	}
	seen := map[string]bool{}
	for i := range s.Groups {
		g := &s.Groups[i]
		if g.Name == "" {
			return goutils.NewConfigValidationFieldRequiredError("groups", "name")
		}
		if seen[g.Name] {
			return NewDuplicateNameError("group", g.Name)
		}
		seen[g.Name] = true
		if g.Chain != nil {
			joints, err := m.ChainJoints(g.Chain.BaseLink, g.Chain.TipLink)
			if err != nil {
				return errors.Wrapf(err, "group '%s'", g.Name)
			}
			g.Joints = jointNames(joints)
			g.Links, err = m.ChainLinkNames(g.Chain.BaseLink, g.Chain.TipLink)
			if err != nil {
				return errors.Wrapf(err, "group '%s'", g.Name)
			}
		}
		if len(g.Links) == 0 {
			return errors.Errorf("group '%s' has no links", g.Name)
		}
		for _, l := range g.Links {
			if _, err := m.LinkByName(l); err != nil {
				return errors.Wrapf(err, "group '%s'", g.Name)
			}
		}
		for _, j := range g.Joints {
			if _, err := m.JointByName(j); err != nil {
				return errors.Wrapf(err, "group '%s'", g.Name)
			}
		}
	}
	for _, j := range s.PassiveJoints {
		if _, err := m.JointByName(j); err != nil {
			return errors.Wrap(err, "passive joint")
		}
	}
	for _, ee := range s.EndEffectors {
		if _, err := m.LinkByName(ee.Link); err != nil {
			return errors.Wrapf(err, "end effector '%s'", ee.Name)
		}
	}
	return nil
}

// GroupNames returns the names of all planning groups in declaration order.
func (s *Semantics) GroupNames() []string {
	return lo.Map(s.Groups, func(g Group, _ int) string { return g.Name })
}

// MainGroupName returns the name of the first planning group, or "" when there is none.
func (s *Semantics) MainGroupName() string {
	if len(s.Groups) == 0 {
		return ""
	}
	return s.Groups[0].Name
}

// Group returns the planning group with the given name.
func (s *Semantics) Group(name string) (Group, error) {
	g, ok := lo.Find(s.Groups, func(g Group) bool { return g.Name == name })
	if !ok {
		return Group{}, NewGroupNotFoundError(name)
	}
	return g, nil
}

// EndEffectorLinkName returns the last link of the group.
func (s *Semantics) EndEffectorLinkName(group string) (string, error) {
	g, err := s.Group(group)
	if err != nil {
		return "", err
	}
	if len(g.Links) == 0 {
		return "", errors.Errorf("group '%s' has no links", group)
	}
	return g.Links[len(g.Links)-1], nil
}

// BaseLinkName returns the first link of the group.
func (s *Semantics) BaseLinkName(group string) (string, error) {
	g, err := s.Group(group)
	if err != nil {
		return "", err
	}
	if len(g.Links) == 0 {
		return "", errors.Errorf("group '%s' has no links", group)
	}
	return g.Links[0], nil
}

// IsPassive reports whether a joint is declared passive.
func (s *Semantics) IsPassive(joint string) bool {
	return lo.Contains(s.PassiveJoints, joint)
}

// ConfigurableJoints returns the joints of the group that are configurable in the model and not
// passive, in the order the group lists them.
func (s *Semantics) ConfigurableJoints(m *Model, group string) ([]*Joint, error) {
	g, err := s.Group(group)
	if err != nil {
		return nil, err
	}
	joints := make([]*Joint, 0, len(g.Joints))
	for _, name := range g.Joints {
		j, err := m.JointByName(name)
		if err != nil {
			return nil, err
		}
		if j.Configurable() && !s.IsPassive(name) {
			joints = append(joints, j)
		}
	}
	return joints, nil
}

// CollisionDisabled reports whether collisions between two links are never checked.
func (s *Semantics) CollisionDisabled(link1, link2 string) bool {
	return lo.ContainsBy(s.DisabledCollisions, func(pair [2]string) bool {
		return (pair[0] == link1 && pair[1] == link2) || (pair[0] == link2 && pair[1] == link1)
	})
}
