// Package motionplan defines the requests and results exchanged with a planning backend, and the
// interfaces a backend implements. No planning happens in this package.
package motionplan

import (
	"context"

	"go.viam.com/fab/referenceframe"
	"go.viam.com/fab/spatialmath"
)

// FKOptions select the link whose frame is computed and the frame it is expressed in.
type FKOptions struct {
	Link     string `json:"link"`
	BaseLink string `json:"base_link"`
}

// ForwardKinematics computes the frame of a link for a configuration.
type ForwardKinematics interface {
	ForwardKinematics(ctx context.Context, cfg referenceframe.Configuration, group string, opts FKOptions) (spatialmath.Frame, error)
}

// InverseKinematics finds a configuration that places the end effector at a frame.
type InverseKinematics interface {
	InverseKinematics(
		ctx context.Context,
		frame spatialmath.Frame,
		start referenceframe.Configuration,
		group string,
		opts IKOptions,
	) (referenceframe.Configuration, error)
}

// PlanMotion plans a free motion from start to a configuration satisfying the goal constraints.
type PlanMotion interface {
	PlanMotion(
		ctx context.Context,
		goal Constraints,
		start referenceframe.Configuration,
		group string,
		opts MotionOptions,
	) (*JointTrajectory, error)
}

// PlanCartesianMotion plans a motion whose end effector moves in straight lines through frames.
type PlanCartesianMotion interface {
	PlanCartesianMotion(
		ctx context.Context,
		frames []spatialmath.Frame,
		start referenceframe.Configuration,
		group string,
		opts CartesianOptions,
	) (*JointTrajectory, error)
}

// PlanningSceneReader reports the current planning scene.
type PlanningSceneReader interface {
	PlanningScene(ctx context.Context) (*PlanningSceneSnapshot, error)
}

// CollisionMeshManager adds obstacles to the planning scene and removes them again. Adding a mesh
// with an existing id replaces it; appending adds geometry to it.
type CollisionMeshManager interface {
	AddCollisionMesh(ctx context.Context, cm CollisionMesh) error
	AppendCollisionMesh(ctx context.Context, cm CollisionMesh) error
	RemoveCollisionMesh(ctx context.Context, id string) error
}

// AttachedCollisionMeshManager attaches meshes to robot links.
type AttachedCollisionMeshManager interface {
	AddAttachedCollisionMesh(ctx context.Context, acm AttachedCollisionMesh) error
	RemoveAttachedCollisionMesh(ctx context.Context, id string) error
}

// TrajectoryExecutor moves a robot along a planned trajectory.
type TrajectoryExecutor interface {
	FollowJointTrajectory(ctx context.Context, trajectory *JointTrajectory) error
}

// Backend is a planning backend offering every feature. Backends that lack some features embed
// Unsupported.
type Backend interface {
	ForwardKinematics
	InverseKinematics
	PlanMotion
	PlanCartesianMotion
	PlanningSceneReader
	CollisionMeshManager
	AttachedCollisionMeshManager
	TrajectoryExecutor
}

// Unsupported implements Backend by returning ErrFeatureNotSupported from every method.
type Unsupported struct{}

// ForwardKinematics is not supported.
func (Unsupported) ForwardKinematics(context.Context, referenceframe.Configuration, string, FKOptions) (spatialmath.Frame, error) {
	return spatialmath.Frame{}, NewFeatureNotSupportedError("forward kinematics")
}

// InverseKinematics is not supported.
func (Unsupported) InverseKinematics(
	context.Context, spatialmath.Frame, referenceframe.Configuration, string, IKOptions,
) (referenceframe.Configuration, error) {
	return referenceframe.Configuration{}, NewFeatureNotSupportedError("inverse kinematics")
}

// PlanMotion is not supported.
func (Unsupported) PlanMotion(context.Context, Constraints, referenceframe.Configuration, string, MotionOptions) (*JointTrajectory, error) {
	return nil, NewFeatureNotSupportedError("plan motion")
}

// PlanCartesianMotion is not supported.
func (Unsupported) PlanCartesianMotion(
	context.Context, []spatialmath.Frame, referenceframe.Configuration, string, CartesianOptions,
) (*JointTrajectory, error) {
	return nil, NewFeatureNotSupportedError("plan cartesian motion")
}

// PlanningScene is not supported.
func (Unsupported) PlanningScene(context.Context) (*PlanningSceneSnapshot, error) {
	return nil, NewFeatureNotSupportedError("get planning scene")
}

// AddCollisionMesh is not supported.
func (Unsupported) AddCollisionMesh(context.Context, CollisionMesh) error {
	return NewFeatureNotSupportedError("add collision mesh")
}

// AppendCollisionMesh is not supported.
func (Unsupported) AppendCollisionMesh(context.Context, CollisionMesh) error {
	return NewFeatureNotSupportedError("append collision mesh")
}

// RemoveCollisionMesh is not supported.
func (Unsupported) RemoveCollisionMesh(context.Context, string) error {
	return NewFeatureNotSupportedError("remove collision mesh")
}

// AddAttachedCollisionMesh is not supported.
func (Unsupported) AddAttachedCollisionMesh(context.Context, AttachedCollisionMesh) error {
	return NewFeatureNotSupportedError("add attached collision mesh")
}

// RemoveAttachedCollisionMesh is not supported.
func (Unsupported) RemoveAttachedCollisionMesh(context.Context, string) error {
	return NewFeatureNotSupportedError("remove attached collision mesh")
}

// FollowJointTrajectory is not supported.
func (Unsupported) FollowJointTrajectory(context.Context, *JointTrajectory) error {
	return NewFeatureNotSupportedError("follow joint trajectory")
}

var _ Backend = Unsupported{}
