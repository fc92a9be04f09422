package referenceframe

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

// ModelConfigJSON represents all supported fields in a robot model JSON file.
type ModelConfigJSON struct {
	Name   string        `json:"name"`
	Links  []LinkConfig  `json:"links"`
	Joints []JointConfig `json:"joints,omitempty"`
}

// UnmarshalModelJSON will parse the given JSON data into a model. modelName sets the name of the model,
// will use the name from the JSON if string is empty.
func UnmarshalModelJSON(jsonData []byte, modelName string) (*Model, error) {
	// empty data probably means that the robot has no model information
	if len(jsonData) == 0 {
		return nil, ErrNoModelInformation
	}

	cfg := &ModelConfigJSON{}
	if err := json.Unmarshal(jsonData, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal json file")
	}
	return cfg.ParseConfig(modelName)
}

// ParseConfig converts the ModelConfigJSON struct into a full Model with the name modelName.
func (cfg *ModelConfigJSON) ParseConfig(modelName string) (*Model, error) {
	if modelName == "" {
		modelName = cfg.Name
	}

	links := make([]*Link, 0, len(cfg.Links))
	for _, lc := range cfg.Links {
		l, err := lc.ParseConfig()
		if err != nil {
			return nil, err
		}
		links = append(links, l)
	}
	joints := make([]*Joint, 0, len(cfg.Joints))
	for _, jc := range cfg.Joints {
		joints = append(joints, jc.ParseConfig())
	}
	return NewModel(modelName, links, joints)
}

// ParseModelJSONFile will read a given file and then parse the contained JSON data.
func ParseModelJSONFile(filename, modelName string) (*Model, error) {
	//nolint:gosec
	jsonData, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read json file")
	}
	return UnmarshalModelJSON(jsonData, modelName)
}
