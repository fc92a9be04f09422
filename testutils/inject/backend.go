package inject

import (
	"context"

	"go.viam.com/fab/motionplan"
	"go.viam.com/fab/referenceframe"
	"go.viam.com/fab/spatialmath"
)

// Backend is an injected planning backend.
type Backend struct {
	motionplan.Backend
	ForwardKinematicsFunc func(
		ctx context.Context, cfg referenceframe.Configuration, group string, opts motionplan.FKOptions,
	) (spatialmath.Frame, error)
	InverseKinematicsFunc func(
		ctx context.Context, frame spatialmath.Frame, start referenceframe.Configuration, group string, opts motionplan.IKOptions,
	) (referenceframe.Configuration, error)
	PlanMotionFunc func(
		ctx context.Context, goal motionplan.Constraints, start referenceframe.Configuration, group string, opts motionplan.MotionOptions,
	) (*motionplan.JointTrajectory, error)
	PlanCartesianMotionFunc func(
		ctx context.Context, frames []spatialmath.Frame, start referenceframe.Configuration, group string, opts motionplan.CartesianOptions,
	) (*motionplan.JointTrajectory, error)
	PlanningSceneFunc               func(ctx context.Context) (*motionplan.PlanningSceneSnapshot, error)
	AddCollisionMeshFunc            func(ctx context.Context, cm motionplan.CollisionMesh) error
	AppendCollisionMeshFunc         func(ctx context.Context, cm motionplan.CollisionMesh) error
	RemoveCollisionMeshFunc         func(ctx context.Context, id string) error
	AddAttachedCollisionMeshFunc    func(ctx context.Context, acm motionplan.AttachedCollisionMesh) error
	RemoveAttachedCollisionMeshFunc func(ctx context.Context, id string) error
	FollowJointTrajectoryFunc       func(ctx context.Context, trajectory *motionplan.JointTrajectory) error
}

// NewBackend returns a backend that supports nothing until functions are injected.
func NewBackend() *Backend {
	return &Backend{Backend: motionplan.Unsupported{}}
}

// ForwardKinematics calls the injected ForwardKinematics or the real version.
func (b *Backend) ForwardKinematics(
	ctx context.Context, cfg referenceframe.Configuration, group string, opts motionplan.FKOptions,
) (spatialmath.Frame, error) {
	if b.ForwardKinematicsFunc == nil {
		return b.Backend.ForwardKinematics(ctx, cfg, group, opts)
	}
	return b.ForwardKinematicsFunc(ctx, cfg, group, opts)
}

// InverseKinematics calls the injected InverseKinematics or the real version.
func (b *Backend) InverseKinematics(
	ctx context.Context, frame spatialmath.Frame, start referenceframe.Configuration, group string, opts motionplan.IKOptions,
) (referenceframe.Configuration, error) {
	if b.InverseKinematicsFunc == nil {
		return b.Backend.InverseKinematics(ctx, frame, start, group, opts)
	}
	return b.InverseKinematicsFunc(ctx, frame, start, group, opts)
}

// PlanMotion calls the injected PlanMotion or the real version.
func (b *Backend) PlanMotion(
	ctx context.Context, goal motionplan.Constraints, start referenceframe.Configuration, group string, opts motionplan.MotionOptions,
) (*motionplan.JointTrajectory, error) {
	if b.PlanMotionFunc == nil {
		return b.Backend.PlanMotion(ctx, goal, start, group, opts)
	}
	return b.PlanMotionFunc(ctx, goal, start, group, opts)
}

// PlanCartesianMotion calls the injected PlanCartesianMotion or the real version.
func (b *Backend) PlanCartesianMotion(
	ctx context.Context, frames []spatialmath.Frame, start referenceframe.Configuration, group string, opts motionplan.CartesianOptions,
) (*motionplan.JointTrajectory, error) {
	if b.PlanCartesianMotionFunc == nil {
		return b.Backend.PlanCartesianMotion(ctx, frames, start, group, opts)
	}
	return b.PlanCartesianMotionFunc(ctx, frames, start, group, opts)
}

// PlanningScene calls the injected PlanningScene or the real version.
func (b *Backend) PlanningScene(ctx context.Context) (*motionplan.PlanningSceneSnapshot, error) {
	if b.PlanningSceneFunc == nil {
		return b.Backend.PlanningScene(ctx)
	}
	return b.PlanningSceneFunc(ctx)
}

// AddCollisionMesh calls the injected AddCollisionMesh or the real version.
func (b *Backend) AddCollisionMesh(ctx context.Context, cm motionplan.CollisionMesh) error {
	if b.AddCollisionMeshFunc == nil {
		return b.Backend.AddCollisionMesh(ctx, cm)
	}
	return b.AddCollisionMeshFunc(ctx, cm)
}

// AppendCollisionMesh calls the injected AppendCollisionMesh or the real version.
func (b *Backend) AppendCollisionMesh(ctx context.Context, cm motionplan.CollisionMesh) error {
	if b.AppendCollisionMeshFunc == nil {
		return b.Backend.AppendCollisionMesh(ctx, cm)
	}
	return b.AppendCollisionMeshFunc(ctx, cm)
}

// RemoveCollisionMesh calls the injected RemoveCollisionMesh or the real version.
func (b *Backend) RemoveCollisionMesh(ctx context.Context, id string) error {
	if b.RemoveCollisionMeshFunc == nil {
		return b.Backend.RemoveCollisionMesh(ctx, id)
	}
	return b.RemoveCollisionMeshFunc(ctx, id)
}

// AddAttachedCollisionMesh calls the injected AddAttachedCollisionMesh or the real version.
func (b *Backend) AddAttachedCollisionMesh(ctx context.Context, acm motionplan.AttachedCollisionMesh) error {
	if b.AddAttachedCollisionMeshFunc == nil {
		return b.Backend.AddAttachedCollisionMesh(ctx, acm)
	}
	return b.AddAttachedCollisionMeshFunc(ctx, acm)
}

// RemoveAttachedCollisionMesh calls the injected RemoveAttachedCollisionMesh or the real version.
func (b *Backend) RemoveAttachedCollisionMesh(ctx context.Context, id string) error {
	if b.RemoveAttachedCollisionMeshFunc == nil {
		return b.Backend.RemoveAttachedCollisionMesh(ctx, id)
	}
	return b.RemoveAttachedCollisionMeshFunc(ctx, id)
}

// FollowJointTrajectory calls the injected FollowJointTrajectory or the real version.
func (b *Backend) FollowJointTrajectory(ctx context.Context, trajectory *motionplan.JointTrajectory) error {
	if b.FollowJointTrajectoryFunc == nil {
		return b.Backend.FollowJointTrajectory(ctx, trajectory)
	}
	return b.FollowJointTrajectoryFunc(ctx, trajectory)
}
