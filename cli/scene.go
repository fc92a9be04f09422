package cli

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"go.viam.com/fab/logging"
	"go.viam.com/fab/motionplan"
	"go.viam.com/fab/robot"
	"go.viam.com/fab/spatialmath"
)

// SceneGetAction is the corresponding action for 'scene get'.
func SceneGetAction(c *cli.Context) error {
	return withFabClient(c, func(fc *fabClient) error {
		ps, err := fc.planningScene()
		if err != nil {
			return err
		}
		snapshot, err := ps.Snapshot(c.Context)
		if err != nil {
			return err
		}

		printf(c.App.Writer, "Planning scene %q", snapshot.Name)
		objects := table.NewWriter()
		objects.SetOutputMirror(c.App.Writer)
		objects.AppendHeader(table.Row{"Object", "Attached"})
		for _, id := range snapshot.WorldObjectIDs {
			objects.AppendRow(table.Row{id, false})
		}
		for _, id := range snapshot.AttachedObjectIDs {
			objects.AppendRow(table.Row{id, true})
		}
		objects.Render()

		state := table.NewWriter()
		state.SetOutputMirror(c.App.Writer)
		state.AppendHeader(table.Row{"Joint", "Value"})
		for i, v := range snapshot.RobotState.Values {
			name := ""
			if i < len(snapshot.RobotState.Names) {
				name = snapshot.RobotState.Names[i]
			}
			state.AppendRow(table.Row{name, v})
		}
		state.Render()
		return nil
	})
}

// SceneAddAction is the corresponding action for 'scene add'.
func SceneAddAction(c *cli.Context) error {
	return withFabClient(c, func(fc *fabClient) error {
		return fc.publishCollisionMesh(c, (*robot.PlanningScene).AddCollisionMesh)
	})
}

// SceneAppendAction is the corresponding action for 'scene append'.
func SceneAppendAction(c *cli.Context) error {
	return withFabClient(c, func(fc *fabClient) error {
		return fc.publishCollisionMesh(c, (*robot.PlanningScene).AppendCollisionMesh)
	})
}

func (fc *fabClient) publishCollisionMesh(
	c *cli.Context,
	publish func(*robot.PlanningScene, context.Context, motionplan.CollisionMesh) error,
) error {
	id, meshFile, err := idAndMeshArgs(c)
	if err != nil {
		return err
	}
	cm, err := collisionMeshFromFile(id, meshFile, c.String(frameFlag))
	if err != nil {
		return err
	}
	ps, err := fc.planningScene()
	if err != nil {
		return err
	}
	if err := publish(ps, c.Context, cm); err != nil {
		return err
	}
	infof(c.App.Writer, "published collision mesh %s", id)
	return nil
}

// SceneRemoveAction is the corresponding action for 'scene remove'.
func SceneRemoveAction(c *cli.Context) error {
	return withFabClient(c, func(fc *fabClient) error {
		id := c.Args().First()
		if id == "" {
			return errors.New("an object id is required")
		}
		ps, err := fc.planningScene()
		if err != nil {
			return err
		}
		if err := ps.RemoveCollisionMesh(c.Context, id); err != nil {
			return err
		}
		infof(c.App.Writer, "removed collision mesh %s", id)
		return nil
	})
}

// SceneAttachAction is the corresponding action for 'scene attach'.
func SceneAttachAction(c *cli.Context) error {
	return withFabClient(c, func(fc *fabClient) error {
		id, meshFile, err := idAndMeshArgs(c)
		if err != nil {
			return err
		}
		cm, err := collisionMeshFromFile(id, meshFile, c.String(frameFlag))
		if err != nil {
			return err
		}
		r, err := fc.loadRobot()
		if err != nil {
			return err
		}
		link := c.String(linkFlag)
		if link == "" {
			if link, err = r.EndEffectorLinkName(""); err != nil {
				return err
			}
		}
		acm, err := motionplan.NewAttachedCollisionMesh(cm, link, parseNames(c.String(touchLinksFlag)), 0)
		if err != nil {
			return err
		}
		ps, err := r.PlanningScene()
		if err != nil {
			return err
		}
		if err := ps.AddAttachedCollisionMesh(c.Context, acm); err != nil {
			return err
		}
		infof(c.App.Writer, "attached collision mesh %s to %s", id, link)
		return nil
	})
}

// SceneDetachAction is the corresponding action for 'scene detach'.
func SceneDetachAction(c *cli.Context) error {
	return withFabClient(c, func(fc *fabClient) error {
		id := c.Args().First()
		if id == "" {
			return errors.New("an object id is required")
		}
		ps, err := fc.planningScene()
		if err != nil {
			return err
		}
		if err := ps.RemoveAttachedCollisionMesh(c.Context, id); err != nil {
			return err
		}
		infof(c.App.Writer, "detached collision mesh %s", id)
		return nil
	})
}

// SceneWatchAction is the corresponding action for 'scene watch'. It adds a mesh and adds it
// again every time its file changes, until interrupted.
func SceneWatchAction(c *cli.Context) error {
	return withFabClient(c, func(fc *fabClient) error {
		id, meshFile, err := idAndMeshArgs(c)
		if err != nil {
			return err
		}
		ps, err := fc.planningScene()
		if err != nil {
			return err
		}
		frame := c.String(frameFlag)
		add := func() error {
			cm, err := collisionMeshFromFile(id, meshFile, frame)
			if err != nil {
				return err
			}
			return ps.AddCollisionMesh(c.Context, cm)
		}
		infof(c.App.Writer, "watching %s for changes", meshFile)
		return watchFile(c.Context, meshFile, add, fc.logger)
	})
}

func (fc *fabClient) planningScene() (*robot.PlanningScene, error) {
	r, err := fc.loadRobot()
	if err != nil {
		return nil, err
	}
	return r.PlanningScene()
}

func idAndMeshArgs(c *cli.Context) (string, string, error) {
	if c.Args().Len() != 2 {
		return "", "", errors.New("expected an object id and a mesh file")
	}
	return c.Args().Get(0), c.Args().Get(1), nil
}

// collisionMeshFromFile reads a JSON mesh and places it at frame, the world frame when empty.
func collisionMeshFromFile(id, meshFile, frame string) (motionplan.CollisionMesh, error) {
	mesh, err := spatialmath.ParseMeshJSONFile(meshFile)
	if err != nil {
		return motionplan.CollisionMesh{}, err
	}
	placement := spatialmath.WorldXY()
	if frame != "" {
		if placement, err = parseFrame(frame); err != nil {
			return motionplan.CollisionMesh{}, err
		}
	}
	return motionplan.NewCollisionMesh(id, mesh, placement, "")
}

// watchFile calls onChange once and then after every write to filename until ctx is done. The
// directory is watched so that editors replacing the file are noticed too. Errors from onChange
// are logged and do not stop watching.
func watchFile(ctx context.Context, filename string, onChange func() error, logger logging.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() {
		//nolint:errcheck
		_ = watcher.Close()
	}()
	abs, err := filepath.Abs(filename)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return err
	}
	if err := onChange(); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs || (!event.Has(fsnotify.Write) && !event.Has(fsnotify.Create)) {
				continue
			}
			logger.Debugw("file changed", "file", abs, "op", event.Op.String())
			if err := onChange(); err != nil {
				logger.Warnw("failed to apply change", "file", abs, "error", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warnw("file watcher error", "error", err)
		}
	}
}
