package cli

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"go.viam.com/fab/ros"
)

// ParamGetAction is the corresponding action for 'param get'.
func ParamGetAction(c *cli.Context) error {
	name := c.Args().First()
	if name == "" {
		return errors.New("a parameter name is required")
	}
	return withFabClient(c, func(fc *fabClient) error {
		rosClient, err := fc.connect()
		if err != nil {
			return err
		}
		value, err := rosClient.GetParam(c.Context, name)
		if err != nil {
			return err
		}
		if value == "" {
			warningf(c.App.ErrWriter, "parameter %s is not set", name)
			return nil
		}
		printf(c.App.Writer, "%s", formatParam(value))
		return nil
	})
}

// formatParam prints JSON strings unquoted and other JSON values indented.
func formatParam(value string) string {
	var s string
	if err := json.Unmarshal([]byte(value), &s); err == nil {
		return s
	}
	var out bytes.Buffer
	if err := json.Indent(&out, []byte(value), "", "  "); err != nil {
		return value
	}
	return out.String()
}

// ImportRobotDescriptionAction is the corresponding action for 'robot-description import'. It
// stores the URDF of the running system and every mesh it references in a local directory.
func ImportRobotDescriptionAction(c *cli.Context) error {
	return withFabClient(c, func(fc *fabClient) error {
		dir := c.String(dirFlag)
		if dir == "" {
			dir = fc.conf.Robot.MeshDir
		}
		if dir == "" {
			dir = ros.DefaultRobotDescriptionDir()
		}
		rosClient, err := fc.connect()
		if err != nil {
			return err
		}
		name, err := ros.NewFileServerLoader(rosClient, dir, fc.logger).ImportRobotDescription(c.Context)
		if err != nil {
			return err
		}
		infof(c.App.Writer, "imported robot description of %s into %s", name, dir)
		return nil
	})
}
