// Package cli contains all business logic needed by the fab command.
package cli

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"

	"go.viam.com/fab/config"
	"go.viam.com/fab/logging"
	"go.viam.com/fab/moveit"
	"go.viam.com/fab/referenceframe"
	"go.viam.com/fab/robot"
	"go.viam.com/fab/ros"
)

const loggerName = "fab"

// fabClient wraps a cli.Context and lazily sets up what a command needs: the config, a rosbridge
// connection, a MoveIt planner and the robot built from the configured model.
type fabClient struct {
	c        *cli.Context
	conf     *config.Config
	logger   logging.Logger
	closeLog func() error

	rosClient *ros.Client
	planner   *moveit.Planner
	robot     *robot.Robot
}

func newFabClient(c *cli.Context) (*fabClient, error) {
	bootstrap := logging.NewBlankLogger(loggerName)
	if c.Bool(debugFlag) {
		bootstrap.AddAppender(logging.NewWriterAppender(c.App.ErrWriter))
	}

	var (
		conf *config.Config
		err  error
	)
	if path := c.String(configFlag); path != "" {
		conf, err = config.Read(c.Context, path, bootstrap)
	} else {
		conf, err = config.Default(c.Context, bootstrap)
	}
	if err != nil {
		return nil, err
	}
	if c.IsSet(hostFlag) {
		conf.Rosbridge.Host = c.String(hostFlag)
	}
	if c.IsSet(portFlag) {
		conf.Rosbridge.Port = c.Int(portFlag)
	}
	if err := conf.Validate(""); err != nil {
		return nil, err
	}

	logger, closeLog, err := config.InitLogging(conf, logging.NewRegistry(), loggerName, c.App.ErrWriter, c.Bool(debugFlag))
	if err != nil {
		return nil, multierr.Combine(err, closeLog())
	}
	return &fabClient{c: c, conf: conf, logger: logger, closeLog: closeLog}, nil
}

// connect dials the configured rosbridge server once.
func (fc *fabClient) connect() (*ros.Client, error) {
	if fc.rosClient != nil {
		return fc.rosClient, nil
	}
	ctx, cancel := context.WithTimeout(fc.c.Context, time.Duration(fc.conf.Rosbridge.ConnectTimeout))
	defer cancel()
	rosClient, err := ros.Dial(ctx, fc.conf.Rosbridge.ClientConfig(), fc.logger)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot connect to rosbridge at %s", fc.conf.Rosbridge.ClientConfig().URL())
	}
	fc.rosClient = rosClient
	return rosClient, nil
}

// loadModel reads the configured model and semantics files.
func (fc *fabClient) loadModel() (*referenceframe.Model, *referenceframe.Semantics, error) {
	if fc.conf.Robot.ModelFile == "" {
		return nil, nil, errors.New("no robot model configured; set robot.model_file in the config")
	}
	model, err := referenceframe.ParseModelJSONFile(fc.conf.Robot.ModelFile, fc.conf.Robot.Name)
	if err != nil {
		return nil, nil, err
	}
	var semantics *referenceframe.Semantics
	if fc.conf.Robot.SemanticsFile != "" {
		if semantics, err = referenceframe.ParseSemanticsJSONFile(fc.conf.Robot.SemanticsFile); err != nil {
			return nil, nil, err
		}
	}
	return model, semantics, nil
}

// loadRobot builds the configured robot with a MoveIt backend.
func (fc *fabClient) loadRobot() (*robot.Robot, error) {
	if fc.robot != nil {
		return fc.robot, nil
	}
	model, semantics, err := fc.loadModel()
	if err != nil {
		return nil, err
	}
	rosClient, err := fc.connect()
	if err != nil {
		return nil, err
	}
	planner, err := moveit.NewPlanner(rosClient, model, fc.logger)
	if err != nil {
		return nil, err
	}
	fc.planner = planner
	r, err := robot.New(model, semantics, planner, fc.logger)
	if err != nil {
		return nil, err
	}
	if fc.conf.Robot.Scale != 1 {
		if err := r.Scale(fc.conf.Robot.Scale); err != nil {
			return nil, err
		}
	}
	fc.robot = r
	return r, nil
}

func (fc *fabClient) close() error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	var err error
	if fc.planner != nil {
		err = multierr.Combine(err, fc.planner.Close(ctx))
	}
	if fc.rosClient != nil {
		err = multierr.Combine(err, fc.rosClient.Close())
	}
	if fc.closeLog != nil {
		err = multierr.Combine(err, fc.logger.Sync(), fc.closeLog())
	}
	return err
}

// withFabClient runs action with a client that is closed afterwards.
func withFabClient(c *cli.Context, action func(*fabClient) error) (err error) {
	fc, err := newFabClient(c)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, fc.close())
	}()
	return action(fc)
}
