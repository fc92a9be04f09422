package motionplan

import (
	"reflect"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
)

// default values for planning options.
const (
	defaultIKAttempts          = 8
	defaultIKTimeout           = time.Second
	defaultNumPlanningAttempts = 8
	defaultAllowedPlanningTime = 2 * time.Second
	defaultScaling             = 1.
	// default cartesian step in meters.
	defaultMaxStep = 0.01
	// default maximum joint jump between cartesian waypoints, in radians.
	defaultJumpThreshold = 1.57
)

// IKOptions configure an inverse kinematics request. Zero Attempts and Timeout take the defaults.
type IKOptions struct {
	BaseLink        string `json:"base_link"`
	EndEffectorLink string `json:"end_effector_link"`
	// AllowCollisions accepts solutions in collision. Solutions are collision free by default.
	AllowCollisions         bool                    `json:"allow_collisions"`
	Attempts                int                     `json:"attempts"`
	Timeout                 time.Duration           `json:"timeout"`
	Constraints             Constraints             `json:"-"`
	AttachedCollisionMeshes []AttachedCollisionMesh `json:"-"`
}

// Defaults returns the options used when none are given.
func (IKOptions) Defaults() IKOptions {
	return IKOptions{}.WithDefaults()
}

// WithDefaults returns the options with unset values replaced by their defaults.
func (o IKOptions) WithDefaults() IKOptions {
	if o.Attempts == 0 {
		o.Attempts = defaultIKAttempts
	}
	if o.Timeout == 0 {
		o.Timeout = defaultIKTimeout
	}
	return o
}

// Validate checks the option values.
func (o IKOptions) Validate() error {
	if o.Attempts <= 0 {
		return errors.Errorf("attempts must be positive, got %d", o.Attempts)
	}
	if o.Timeout < 0 {
		return errors.Errorf("timeout must not be negative, got %v", o.Timeout)
	}
	return nil
}

// FromMap returns the defaults overridden by the entries of a free-form options map.
func (o IKOptions) FromMap(options map[string]interface{}) (IKOptions, error) {
	out := o.Defaults()
	if err := decodeOptions(options, &out); err != nil {
		return IKOptions{}, err
	}
	return out, out.Validate()
}

// MotionOptions configure a free motion planning request. Zero attempts, planning time and scaling
// factors take the defaults.
type MotionOptions struct {
	BaseLink                string                  `json:"base_link"`
	PathConstraints         Constraints             `json:"-"`
	PlannerID               string                  `json:"planner_id"`
	NumPlanningAttempts     int                     `json:"num_planning_attempts"`
	AllowedPlanningTime     time.Duration           `json:"allowed_planning_time"`
	MaxVelocityScaling      float64                 `json:"max_velocity_scaling_factor"`
	MaxAccelerationScaling  float64                 `json:"max_acceleration_scaling_factor"`
	AttachedCollisionMeshes []AttachedCollisionMesh `json:"-"`
}

// Defaults returns the options used when none are given.
func (MotionOptions) Defaults() MotionOptions {
	return MotionOptions{}.WithDefaults()
}

// WithDefaults returns the options with unset values replaced by their defaults.
func (o MotionOptions) WithDefaults() MotionOptions {
	if o.NumPlanningAttempts == 0 {
		o.NumPlanningAttempts = defaultNumPlanningAttempts
	}
	if o.AllowedPlanningTime == 0 {
		o.AllowedPlanningTime = defaultAllowedPlanningTime
	}
	if o.MaxVelocityScaling == 0 {
		o.MaxVelocityScaling = defaultScaling
	}
	if o.MaxAccelerationScaling == 0 {
		o.MaxAccelerationScaling = defaultScaling
	}
	return o
}

// Validate checks the option values.
func (o MotionOptions) Validate() error {
	if o.NumPlanningAttempts <= 0 {
		return errors.Errorf("num_planning_attempts must be positive, got %d", o.NumPlanningAttempts)
	}
	if o.AllowedPlanningTime <= 0 {
		return errors.Errorf("allowed_planning_time must be positive, got %v", o.AllowedPlanningTime)
	}
	if o.MaxVelocityScaling <= 0 || o.MaxVelocityScaling > 1 {
		return errors.Errorf("max_velocity_scaling_factor must be in (0, 1], got %v", o.MaxVelocityScaling)
	}
	if o.MaxAccelerationScaling <= 0 || o.MaxAccelerationScaling > 1 {
		return errors.Errorf("max_acceleration_scaling_factor must be in (0, 1], got %v", o.MaxAccelerationScaling)
	}
	return nil
}

// FromMap returns the defaults overridden by the entries of a free-form options map.
func (o MotionOptions) FromMap(options map[string]interface{}) (MotionOptions, error) {
	out := o.Defaults()
	if err := decodeOptions(options, &out); err != nil {
		return MotionOptions{}, err
	}
	return out, out.Validate()
}

// CartesianOptions configure a cartesian planning request. MaxStep is in model units when passed
// to a robot and in meters when passed to a backend; zero takes the default of 0.01 m. A zero
// JumpThreshold disables the joint jump check.
type CartesianOptions struct {
	BaseLink        string  `json:"base_link"`
	EndEffectorLink string  `json:"end_effector_link"`
	MaxStep         float64 `json:"max_step"`
	JumpThreshold   float64 `json:"jump_threshold"`
	// AllowCollisions keeps path points in collision. Paths stop at the first collision by default.
	AllowCollisions         bool                    `json:"allow_collisions"`
	PathConstraints         Constraints             `json:"-"`
	AttachedCollisionMeshes []AttachedCollisionMesh `json:"-"`
}

// Defaults returns the options used when none are given.
func (CartesianOptions) Defaults() CartesianOptions {
	return CartesianOptions{MaxStep: defaultMaxStep, JumpThreshold: defaultJumpThreshold}
}

// WithDefaults returns the options with an unset MaxStep replaced by the default.
func (o CartesianOptions) WithDefaults() CartesianOptions {
	if o.MaxStep == 0 {
		o.MaxStep = defaultMaxStep
	}
	return o
}

// Validate checks the option values.
func (o CartesianOptions) Validate() error {
	if o.MaxStep <= 0 {
		return errors.Errorf("max_step must be positive, got %v", o.MaxStep)
	}
	if o.JumpThreshold < 0 {
		return errors.Errorf("jump_threshold must not be negative, got %v", o.JumpThreshold)
	}
	return nil
}

// FromMap returns the defaults overridden by the entries of a free-form options map.
func (o CartesianOptions) FromMap(options map[string]interface{}) (CartesianOptions, error) {
	out := o.Defaults()
	if err := decodeOptions(options, &out); err != nil {
		return CartesianOptions{}, err
	}
	return out, out.Validate()
}

// decodeOptions decodes a free-form map onto result. Unknown keys are errors. Durations may be
// given as strings ("1.5s") or as a number of seconds.
func decodeOptions(options map[string]interface{}, result interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:     "json",
		ErrorUnused: true,
		Result:      result,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			secondsToDurationHookFunc(),
			mapstructure.StringToTimeDurationHookFunc(),
		),
	})
	if err != nil {
		return err
	}
	return errors.Wrap(decoder.Decode(options), "invalid planner options")
}

func secondsToDurationHookFunc() mapstructure.DecodeHookFuncType {
	return func(from, to reflect.Type, data interface{}) (interface{}, error) {
		if to != reflect.TypeOf(time.Duration(0)) {
			return data, nil
		}
		switch v := data.(type) {
		case float64:
			return time.Duration(v * float64(time.Second)), nil
		case float32:
			return time.Duration(float64(v) * float64(time.Second)), nil
		case int:
			return time.Duration(v) * time.Second, nil
		case int64:
			return time.Duration(v) * time.Second, nil
		default:
			return data, nil
		}
	}
}
