package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v2"

	"go.viam.com/fab/referenceframe"
)

// ModelInfoAction is the corresponding action for 'model info'. It prints the links, joints and
// planning groups of a robot model without connecting to rosbridge.
func ModelInfoAction(c *cli.Context) error {
	modelFile := c.Args().First()
	semanticsFile := c.String(semanticsFlag)
	if modelFile == "" {
		fc, err := newFabClient(c)
		if err != nil {
			return err
		}
		defer func() {
			//nolint:errcheck
			_ = fc.close()
		}()
		modelFile = fc.conf.Robot.ModelFile
		if semanticsFile == "" {
			semanticsFile = fc.conf.Robot.SemanticsFile
		}
	}
	if modelFile == "" {
		return cli.Exit("a model file is required: fab model info <model.json>", 1)
	}

	model, err := referenceframe.ParseModelJSONFile(modelFile, "")
	if err != nil {
		return err
	}
	var semantics *referenceframe.Semantics
	if semanticsFile != "" {
		if semantics, err = referenceframe.ParseSemanticsJSONFile(semanticsFile); err != nil {
			return err
		}
		if err := semantics.Resolve(model); err != nil {
			return err
		}
	}
	return printModel(c.App.Writer, model, semantics)
}

func printModel(w io.Writer, model *referenceframe.Model, semantics *referenceframe.Semantics) error {
	printf(w, "Robot %s (root link %s, end effector %s)", model.Name(), model.Root().Name, model.EndEffectorLinkName())

	links := table.NewWriter()
	links.SetOutputMirror(w)
	links.AppendHeader(table.Row{"#", "Link", "Parent joint", "Visual", "Collision"})
	for i, l := range model.Links() {
		parent := ""
		if l.ParentJoint != nil {
			parent = l.ParentJoint.Name
		}
		links.AppendRow(table.Row{i, l.Name, parent, len(l.Visual), len(l.Collision)})
	}
	links.Render()

	joints := table.NewWriter()
	joints.SetOutputMirror(w)
	joints.AppendHeader(table.Row{"#", "Joint", "Type", "Parent", "Child", "Limits"})
	for i, j := range model.Joints() {
		joints.AppendRow(table.Row{i, j.Name, j.Type, j.Parent, j.Child, formatLimit(j)})
	}
	joints.Render()

	if semantics == nil {
		return nil
	}
	groups := table.NewWriter()
	groups.SetOutputMirror(w)
	groups.AppendHeader(table.Row{"Group", "Base link", "End effector", "Joints"})
	for _, name := range semantics.GroupNames() {
		joints, err := semantics.ConfigurableJoints(model, name)
		if err != nil {
			return err
		}
		names := make([]string, 0, len(joints))
		for _, j := range joints {
			names = append(names, j.Name)
		}
		base, err := semantics.BaseLinkName(name)
		if err != nil {
			base = "-"
		}
		ee, err := semantics.EndEffectorLinkName(name)
		if err != nil {
			ee = "-"
		}
		groups.AppendRow(table.Row{name, base, ee, strings.Join(names, ", ")})
	}
	groups.Render()
	return nil
}

func formatLimit(j *referenceframe.Joint) string {
	switch {
	case j.Mimic != nil:
		return fmt.Sprintf("mimics %s", j.Mimic.Joint)
	case j.Limit == nil:
		return ""
	default:
		return fmt.Sprintf("[%.4g, %.4g]", j.Limit.Lower, j.Limit.Upper)
	}
}
