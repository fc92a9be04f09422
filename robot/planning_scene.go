package robot

import (
	"context"

	"github.com/pkg/errors"

	"go.viam.com/fab/motionplan"
)

// PlanningScene manages the obstacles a backend plans around for a robot. Meshes are given in
// model units and sent in meters.
type PlanningScene struct {
	robot *Robot
}

// PlanningScene returns the planning scene of the robot's backend.
func (r *Robot) PlanningScene() (*PlanningScene, error) {
	if _, err := r.backend(); err != nil {
		return nil, err
	}
	return &PlanningScene{robot: r}, nil
}

func (ps *PlanningScene) prepare(cm motionplan.CollisionMesh) (motionplan.CollisionMesh, error) {
	if err := cm.Validate(); err != nil {
		return motionplan.CollisionMesh{}, err
	}
	if cm.RootName == "" {
		cm.RootName = ps.robot.Model.Root().Name
	}
	return cm.Scaled(ps.robot.toMeters()), nil
}

// AddCollisionMesh adds a mesh to the scene, replacing any mesh with the same id.
func (ps *PlanningScene) AddCollisionMesh(ctx context.Context, cm motionplan.CollisionMesh) error {
	cm, err := ps.prepare(cm)
	if err != nil {
		return err
	}
	return ps.robot.Backend.AddCollisionMesh(ctx, cm)
}

// AppendCollisionMesh adds a mesh to the object with the same id, creating it if needed.
func (ps *PlanningScene) AppendCollisionMesh(ctx context.Context, cm motionplan.CollisionMesh) error {
	cm, err := ps.prepare(cm)
	if err != nil {
		return err
	}
	return ps.robot.Backend.AppendCollisionMesh(ctx, cm)
}

// RemoveCollisionMesh removes every mesh with the id from the scene.
func (ps *PlanningScene) RemoveCollisionMesh(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("collision mesh id must not be empty")
	}
	return ps.robot.Backend.RemoveCollisionMesh(ctx, id)
}

// AddAttachedCollisionMesh attaches a mesh to a robot link.
func (ps *PlanningScene) AddAttachedCollisionMesh(ctx context.Context, acm motionplan.AttachedCollisionMesh) error {
	if err := acm.Validate(); err != nil {
		return err
	}
	if _, err := ps.robot.Model.LinkByName(acm.LinkName); err != nil {
		return errors.Wrapf(err, "cannot attach collision mesh %s", acm.ID)
	}
	return ps.robot.Backend.AddAttachedCollisionMesh(ctx, acm.Scaled(ps.robot.toMeters()))
}

// RemoveAttachedCollisionMesh detaches and removes a mesh.
func (ps *PlanningScene) RemoveAttachedCollisionMesh(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("attached collision mesh id must not be empty")
	}
	return ps.robot.Backend.RemoveAttachedCollisionMesh(ctx, id)
}

// AttachTool attaches the tool to the robot and its collision mesh to the end effector link.
func (ps *PlanningScene) AttachTool(ctx context.Context, tool *Tool) error {
	if err := ps.robot.AttachTool(tool); err != nil {
		return err
	}
	acm, err := tool.AttachedCollisionMesh()
	if err == nil {
		err = ps.robot.Backend.AddAttachedCollisionMesh(ctx, acm.Scaled(ps.robot.toMeters()))
	}
	if err != nil {
		ps.robot.DetachTool()
		return err
	}
	return nil
}

// DetachTool removes the tool from the robot and its collision mesh from the scene.
func (ps *PlanningScene) DetachTool(ctx context.Context) error {
	tool := ps.robot.Tool
	if tool == nil {
		return ErrNoTool
	}
	if err := ps.robot.Backend.RemoveAttachedCollisionMesh(ctx, tool.Name); err != nil {
		return err
	}
	ps.robot.DetachTool()
	return nil
}

// Snapshot returns what the backend currently knows about the scene, with the robot state in
// model units.
func (ps *PlanningScene) Snapshot(ctx context.Context) (*motionplan.PlanningSceneSnapshot, error) {
	snapshot, err := ps.robot.Backend.PlanningScene(ctx)
	if err != nil {
		return nil, err
	}
	snapshot.RobotState = snapshot.RobotState.Scaled(ps.robot.ScaleFactor())
	return snapshot, nil
}
