package cli

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
	"github.com/urfave/cli/v2"

	"go.viam.com/fab/config"
)

// configSchema returns the JSON schema of the config file.
func configSchema() *jsonschema.Schema {
	return jsonschema.Reflect(&config.Config{})
}

// SchemaAction is the corresponding action for 'schema'. It prints the JSON schema of the config
// file, e.g. for editor completion.
func SchemaAction(c *cli.Context) error {
	out, err := json.MarshalIndent(configSchema(), "", "  ")
	if err != nil {
		return err
	}
	printf(c.App.Writer, "%s", out)
	return nil
}
