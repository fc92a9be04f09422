package referenceframe

import (
	"github.com/pkg/errors"
)

// World is the reserved name of the frame everything else is placed in.
const World = "world"

// ErrCircularReference is returned when the links and joints of a model form a loop.
var ErrCircularReference = errors.New("infinite loop finding path from end effector to world")

// ErrNeedOneRoot is returned when a model does not have exactly one link without a parent joint.
var ErrNeedOneRoot = errors.New("need exactly one root link")

// ErrNoPlanningGroups is returned for semantics that define no planning group.
var ErrNoPlanningGroups = errors.New("semantics must define at least one planning group")

// ErrNoModelInformation is used when there is no model information.
var ErrNoModelInformation = errors.New("no model information")

// NewReservedWordError returns an error indicating that a reserved word was used where it is not allowed.
func NewReservedWordError(configType, reservedWord string) error {
	return errors.Errorf("reserved word: cannot name a %s '%s'", configType, reservedWord)
}

// NewDuplicateNameError returns an error indicating that two elements of a model share a name.
func NewDuplicateNameError(configType, name string) error {
	return errors.Errorf("duplicate %s name '%s'", configType, name)
}

// NewLinkNotFoundError returns an error indicating that a link could not be found in a model.
func NewLinkNotFoundError(name string) error {
	return errors.Errorf("link '%s' not found in model", name)
}

// NewJointNotFoundError returns an error indicating that a joint could not be found in a model.
func NewJointNotFoundError(name string) error {
	return errors.Errorf("joint '%s' not found in model", name)
}

// NewMultipleParentsError returns an error indicating that a link is the child of more than one joint.
func NewMultipleParentsError(link string) error {
	return errors.Errorf("link '%s' is the child of more than one joint", link)
}

// NewGroupNotFoundError returns an error indicating that a planning group does not exist.
func NewGroupNotFoundError(group string) error {
	return errors.Errorf("planning group '%s' not found in semantics", group)
}

// NewIncorrectDoFError returns an error indicating that the number of values given does not match the
// number of joints they are meant for.
func NewIncorrectDoFError(actual, expected int) error {
	return errors.Errorf("number of values given (%d) does not match number of joints (%d)", actual, expected)
}

// NewUnknownJointTypeError returns an error indicating that a joint type name is not recognized.
func NewUnknownJointTypeError(name string) error {
	return errors.Errorf("unknown joint type '%s'", name)
}
