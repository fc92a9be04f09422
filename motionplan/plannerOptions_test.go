package motionplan

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.viam.com/test"

	"go.viam.com/fab/referenceframe"
	"go.viam.com/fab/spatialmath"
)

func TestIKOptions(t *testing.T) {
	opts, err := IKOptions{}.FromMap(nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, opts, test.ShouldResemble, IKOptions{}.Defaults())
	test.That(t, opts.AllowCollisions, test.ShouldBeFalse)
	test.That(t, opts.Attempts, test.ShouldEqual, 8)
	test.That(t, opts.Timeout, test.ShouldEqual, time.Second)

	t.Run("zero value", func(t *testing.T) {
		opts := IKOptions{}.WithDefaults()
		test.That(t, opts, test.ShouldResemble, IKOptions{}.Defaults())
		test.That(t, opts.Validate(), test.ShouldBeNil)

		opts = IKOptions{Attempts: 2, AllowCollisions: true}.WithDefaults()
		test.That(t, opts.Attempts, test.ShouldEqual, 2)
		test.That(t, opts.AllowCollisions, test.ShouldBeTrue)
		test.That(t, opts.Timeout, test.ShouldEqual, time.Second)

		test.That(t, IKOptions{Attempts: -1}.WithDefaults().Validate(), test.ShouldNotBeNil)
	})

	opts, err = IKOptions{}.FromMap(map[string]interface{}{
		"allow_collisions": true,
		"attempts":         3,
		"timeout":          2.5,
		"base_link":        "base_link",
	})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, opts.AllowCollisions, test.ShouldBeTrue)
	test.That(t, opts.Attempts, test.ShouldEqual, 3)
	test.That(t, opts.Timeout, test.ShouldEqual, 2500*time.Millisecond)
	test.That(t, opts.BaseLink, test.ShouldEqual, "base_link")

	opts, err = IKOptions{}.FromMap(map[string]interface{}{"timeout": "300ms"})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, opts.Timeout, test.ShouldEqual, 300*time.Millisecond)

	_, err = IKOptions{}.FromMap(map[string]interface{}{"attempts": 0})
	test.That(t, err, test.ShouldNotBeNil)
	_, err = IKOptions{}.FromMap(map[string]interface{}{"tries": 3})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "invalid planner options")
}

func TestMotionOptions(t *testing.T) {
	opts, err := MotionOptions{}.FromMap(nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, opts.PlannerID, test.ShouldEqual, "")
	test.That(t, opts.NumPlanningAttempts, test.ShouldEqual, 8)
	test.That(t, opts.AllowedPlanningTime, test.ShouldEqual, 2*time.Second)
	test.That(t, opts.MaxVelocityScaling, test.ShouldEqual, 1)
	test.That(t, opts.MaxAccelerationScaling, test.ShouldEqual, 1)

	opts, err = MotionOptions{}.FromMap(map[string]interface{}{
		"planner_id":                  "RRTConnect",
		"num_planning_attempts":       20,
		"allowed_planning_time":       10,
		"max_velocity_scaling_factor": 0.5,
	})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, opts.PlannerID, test.ShouldEqual, "RRTConnect")
	test.That(t, opts.NumPlanningAttempts, test.ShouldEqual, 20)
	test.That(t, opts.AllowedPlanningTime, test.ShouldEqual, 10*time.Second)
	test.That(t, opts.MaxVelocityScaling, test.ShouldEqual, 0.5)

	t.Run("zero value", func(t *testing.T) {
		opts := MotionOptions{}.WithDefaults()
		test.That(t, opts, test.ShouldResemble, MotionOptions{}.Defaults())
		test.That(t, opts.Validate(), test.ShouldBeNil)

		opts = MotionOptions{PlannerID: "RRTConnect", MaxVelocityScaling: 0.2}.WithDefaults()
		test.That(t, opts.PlannerID, test.ShouldEqual, "RRTConnect")
		test.That(t, opts.MaxVelocityScaling, test.ShouldEqual, 0.2)
		test.That(t, opts.NumPlanningAttempts, test.ShouldEqual, 8)
		test.That(t, opts.AllowedPlanningTime, test.ShouldEqual, 2*time.Second)
	})

	for _, bad := range []map[string]interface{}{
		{"num_planning_attempts": -1},
		{"allowed_planning_time": 0},
		{"max_velocity_scaling_factor": 1.5},
		{"max_acceleration_scaling_factor": 0},
	} {
		_, err = MotionOptions{}.FromMap(bad)
		test.That(t, err, test.ShouldNotBeNil)
	}
}

func TestCartesianOptions(t *testing.T) {
	opts, err := CartesianOptions{}.FromMap(nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, opts.MaxStep, test.ShouldEqual, 0.01)
	test.That(t, opts.JumpThreshold, test.ShouldEqual, 1.57)
	test.That(t, opts.AllowCollisions, test.ShouldBeFalse)

	t.Run("zero value", func(t *testing.T) {
		opts := CartesianOptions{}.WithDefaults()
		test.That(t, opts.MaxStep, test.ShouldEqual, 0.01)
		test.That(t, opts.AllowCollisions, test.ShouldBeFalse)
		test.That(t, opts.Validate(), test.ShouldBeNil)
		test.That(t, CartesianOptions{MaxStep: 0.5}.WithDefaults().MaxStep, test.ShouldEqual, 0.5)
		test.That(t, CartesianOptions{MaxStep: -1}.WithDefaults().Validate(), test.ShouldNotBeNil)
	})

	opts, err = CartesianOptions{}.FromMap(map[string]interface{}{"max_step": 0.05, "jump_threshold": 0})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, opts.MaxStep, test.ShouldEqual, 0.05)
	test.That(t, opts.JumpThreshold, test.ShouldEqual, 0)

	_, err = CartesianOptions{}.FromMap(map[string]interface{}{"max_step": 0})
	test.That(t, err, test.ShouldNotBeNil)
	_, err = CartesianOptions{}.FromMap(map[string]interface{}{"max_step": "far"})
	test.That(t, err, test.ShouldNotBeNil)
}

func TestUnsupported(t *testing.T) {
	ctx := context.Background()
	var backend Backend = Unsupported{}

	_, err := backend.ForwardKinematics(ctx, referenceframe.Configuration{}, "", FKOptions{})
	test.That(t, errors.Is(err, ErrFeatureNotSupported), test.ShouldBeTrue)
	_, err = backend.InverseKinematics(ctx, spatialmath.WorldXY(), referenceframe.Configuration{}, "", IKOptions{})
	test.That(t, errors.Is(err, ErrFeatureNotSupported), test.ShouldBeTrue)
	_, err = backend.PlanMotion(ctx, Constraints{}, referenceframe.Configuration{}, "", MotionOptions{})
	test.That(t, errors.Is(err, ErrFeatureNotSupported), test.ShouldBeTrue)
	_, err = backend.PlanCartesianMotion(ctx, nil, referenceframe.Configuration{}, "", CartesianOptions{})
	test.That(t, errors.Is(err, ErrFeatureNotSupported), test.ShouldBeTrue)
	_, err = backend.PlanningScene(ctx)
	test.That(t, errors.Is(err, ErrFeatureNotSupported), test.ShouldBeTrue)
	test.That(t, errors.Is(backend.AddCollisionMesh(ctx, CollisionMesh{}), ErrFeatureNotSupported), test.ShouldBeTrue)
	test.That(t, errors.Is(backend.AppendCollisionMesh(ctx, CollisionMesh{}), ErrFeatureNotSupported), test.ShouldBeTrue)
	test.That(t, errors.Is(backend.RemoveCollisionMesh(ctx, "a"), ErrFeatureNotSupported), test.ShouldBeTrue)
	test.That(t, errors.Is(backend.AddAttachedCollisionMesh(ctx, AttachedCollisionMesh{}), ErrFeatureNotSupported), test.ShouldBeTrue)
	test.That(t, errors.Is(backend.RemoveAttachedCollisionMesh(ctx, "a"), ErrFeatureNotSupported), test.ShouldBeTrue)
	test.That(t, errors.Is(backend.FollowJointTrajectory(ctx, &JointTrajectory{}), ErrFeatureNotSupported), test.ShouldBeTrue)

	err = backend.RemoveCollisionMesh(ctx, "a")
	test.That(t, err.Error(), test.ShouldContainSubstring, "remove collision mesh")
}
