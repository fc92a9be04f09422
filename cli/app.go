package cli

import (
	"io"

	"github.com/urfave/cli/v2"

	"go.viam.com/fab/ros"
)

// Flags.
const (
	debugFlag      = "debug"
	configFlag     = "config"
	hostFlag       = "host"
	portFlag       = "port"
	noProgressFlag = "no-progress"

	semanticsFlag       = "semantics"
	groupFlag           = "group"
	jointsFlag          = "joints"
	linkFlag            = "link"
	frameFlag           = "frame"
	startFlag           = "start"
	allowCollisionsFlag = "allow-collisions"
	toleranceFlag       = "tolerance"
	plannerIDFlag       = "planner-id"
	maxStepFlag         = "max-step"
	plotFlag            = "plot"
	executeFlag         = "execute"
	touchLinksFlag      = "touch-links"
	dirFlag             = "dir"
	topicFlag           = "topic"
	jointNamesFlag      = "joint-names"
)

var (
	groupCLIFlag = &cli.StringFlag{
		Name:    groupFlag,
		Aliases: []string{"g"},
		Usage:   "planning group, the main group of the robot when empty",
	}
	startCLIFlag = &cli.StringFlag{
		Name:  startFlag,
		Usage: "comma separated start joint values of the group, zeros when empty",
	}
	plotCLIFlag = &cli.PathFlag{
		Name:      plotFlag,
		Usage:     "plot joint positions over time to `FILE` (.png, .svg or .pdf)",
		TakesFile: true,
	}
	executeCLIFlag = &cli.BoolFlag{
		Name:  executeFlag,
		Usage: "execute the trajectory on the robot",
	}
	sceneFrameCLIFlag = &cli.StringFlag{
		Name:  frameFlag,
		Usage: "pose of the mesh as x,y,z or x,y,z,qw,qx,qy,qz, the world origin when empty",
	}
)

// NewApp returns a new app with the CLI API, Writer set to out, and ErrWriter
// set to errOut.
func NewApp(out, errOut io.Writer) *cli.App {
	return &cli.App{
		Name:                 "fab",
		Usage:                "plan and execute robotic fabrication motions through MoveIt",
		HideHelpCommand:      true,
		EnableBashCompletion: true,
		Writer:               out,
		ErrWriter:            errOut,
		Flags: []cli.Flag{
			&cli.PathFlag{
				Name:      configFlag,
				Aliases:   []string{"c"},
				Usage:     "load configuration from `FILE` (.json, .yaml or .yml)",
				TakesFile: true,
			},
			&cli.StringFlag{
				Name:        hostFlag,
				Usage:       "rosbridge host, overrides the config",
				DefaultText: ros.DefaultHost,
			},
			&cli.IntFlag{
				Name:        portFlag,
				Usage:       "rosbridge port, overrides the config",
				DefaultText: "9090",
			},
			&cli.BoolFlag{
				Name:    debugFlag,
				Aliases: []string{"vvv"},
				Usage:   "enable debug logging",
			},
			&cli.BoolFlag{
				Name:  noProgressFlag,
				Usage: "do not show progress spinners",
			},
		},
		Commands: []*cli.Command{
			{
				Name:            "model",
				Usage:           "inspect robot models",
				HideHelpCommand: true,
				Subcommands: []*cli.Command{
					{
						Name:      "info",
						Usage:     "print the links, joints and planning groups of a model",
						ArgsUsage: "[model.json]",
						Flags: []cli.Flag{
							&cli.PathFlag{
								Name:      semanticsFlag,
								Usage:     "semantics `FILE` describing planning groups",
								TakesFile: true,
							},
						},
						Action: ModelInfoAction,
					},
				},
			},
			{
				Name:  "fk",
				Usage: "compute the pose of a link for a group configuration",
				Flags: []cli.Flag{
					groupCLIFlag,
					&cli.StringFlag{
						Name:     jointsFlag,
						Aliases:  []string{"j"},
						Usage:    "comma separated joint values of the group",
						Required: true,
					},
					&cli.StringFlag{
						Name:  linkFlag,
						Usage: "link to compute the pose of, the end effector of the group when empty",
					},
				},
				Action: ForwardKinematicsAction,
			},
			{
				Name:  "ik",
				Usage: "find a group configuration that reaches a frame",
				Flags: []cli.Flag{
					groupCLIFlag,
					startCLIFlag,
					&cli.StringFlag{
						Name:     frameFlag,
						Aliases:  []string{"f"},
						Usage:    "target frame as x,y,z or x,y,z,qw,qx,qy,qz",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  allowCollisionsFlag,
						Usage: "accept solutions in collision",
					},
				},
				Action: InverseKinematicsAction,
			},
			{
				Name:            "plan",
				Usage:           "plan trajectories",
				HideHelpCommand: true,
				Subcommands: []*cli.Command{
					{
						Name:  "motion",
						Usage: "plan a free space motion to a joint configuration",
						Flags: []cli.Flag{
							groupCLIFlag,
							startCLIFlag,
							&cli.StringFlag{
								Name:     jointsFlag,
								Aliases:  []string{"j"},
								Usage:    "comma separated goal joint values of the group",
								Required: true,
							},
							&cli.Float64Flag{
								Name:  toleranceFlag,
								Usage: "joint tolerance of the goal",
								Value: 1e-3,
							},
							&cli.StringFlag{
								Name:  plannerIDFlag,
								Usage: "MoveIt planner to use, overrides the config",
							},
							plotCLIFlag,
							executeCLIFlag,
						},
						Action: PlanMotionAction,
					},
					{
						Name:  "cartesian",
						Usage: "plan a linear path through frames",
						Flags: []cli.Flag{
							groupCLIFlag,
							startCLIFlag,
							&cli.GenericFlag{
								Name:     frameFlag,
								Aliases:  []string{"f"},
								Usage:    "waypoint frame as x,y,z or x,y,z,qw,qx,qy,qz, repeatable",
								Value:    &frameList{},
								Required: true,
							},
							&cli.Float64Flag{
								Name:  maxStepFlag,
								Usage: "maximum distance between path points, overrides the config",
							},
							plotCLIFlag,
							executeCLIFlag,
						},
						Action: PlanCartesianAction,
					},
				},
			},
			{
				Name:            "scene",
				Usage:           "work with the planning scene",
				HideHelpCommand: true,
				Subcommands: []*cli.Command{
					{
						Name:   "get",
						Usage:  "print the collision objects and robot state of the planning scene",
						Action: SceneGetAction,
					},
					{
						Name:      "add",
						Usage:     "add a collision mesh, replacing any object with the same id",
						ArgsUsage: "<id> <mesh.json>",
						Flags:     []cli.Flag{sceneFrameCLIFlag},
						Action:    SceneAddAction,
					},
					{
						Name:      "append",
						Usage:     "append a collision mesh to the object with the same id",
						ArgsUsage: "<id> <mesh.json>",
						Flags:     []cli.Flag{sceneFrameCLIFlag},
						Action:    SceneAppendAction,
					},
					{
						Name:      "remove",
						Usage:     "remove a collision object",
						ArgsUsage: "<id>",
						Action:    SceneRemoveAction,
					},
					{
						Name:      "attach",
						Usage:     "attach a collision mesh to a link of the robot",
						ArgsUsage: "<id> <mesh.json>",
						Flags: []cli.Flag{
							sceneFrameCLIFlag,
							&cli.StringFlag{
								Name:  linkFlag,
								Usage: "link to attach to, the end effector link when empty",
							},
							&cli.StringFlag{
								Name:  touchLinksFlag,
								Usage: "comma separated links allowed to touch the mesh",
							},
						},
						Action: SceneAttachAction,
					},
					{
						Name:      "detach",
						Usage:     "remove an attached collision object",
						ArgsUsage: "<id>",
						Action:    SceneDetachAction,
					},
					{
						Name:      "watch",
						Usage:     "add a collision mesh and add it again whenever its file changes",
						ArgsUsage: "<id> <mesh.json>",
						Flags:     []cli.Flag{sceneFrameCLIFlag},
						Action:    SceneWatchAction,
					},
				},
			},
			{
				Name:            "param",
				Usage:           "work with ROS parameters",
				HideHelpCommand: true,
				Subcommands: []*cli.Command{
					{
						Name:      "get",
						Usage:     "print the value of a parameter",
						ArgsUsage: "<name>",
						Action:    ParamGetAction,
					},
				},
			},
			{
				Name:            "robot-description",
				Usage:           "work with the robot description of the running system",
				HideHelpCommand: true,
				Subcommands: []*cli.Command{
					{
						Name:  "import",
						Usage: "store the URDF and its meshes locally",
						Flags: []cli.Flag{
							&cli.PathFlag{
								Name:  dirFlag,
								Usage: "target `DIR`, the configured mesh dir or the user cache when empty",
							},
						},
						Action: ImportRobotDescriptionAction,
					},
				},
			},
			{
				Name:            "bag",
				Usage:           "work with recorded ROS bags",
				HideHelpCommand: true,
				Subcommands: []*cli.Command{
					{
						Name:      "topics",
						Usage:     "list the topics recorded in a bag",
						ArgsUsage: "<file.bag>",
						Action:    BagTopicsAction,
					},
					{
						Name:      "trajectory",
						Usage:     "turn recorded joint states into a trajectory",
						ArgsUsage: "<file.bag>",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:  topicFlag,
								Usage: "joint state topic",
								Value: ros.DefaultJointStatesTopic,
							},
							&cli.StringFlag{
								Name:  jointNamesFlag,
								Usage: "comma separated joints to keep, all recorded joints when empty",
							},
							plotCLIFlag,
							executeCLIFlag,
						},
						Action: BagTrajectoryAction,
					},
				},
			},
			{
				Name:   "schema",
				Usage:  "print the JSON schema of the config file",
				Action: SchemaAction,
			},
		},
	}
}
