// Package ros is a client for ROS reached through a rosbridge v2 websocket server. It calls
// services, publishes and subscribes to topics, reads parameters, loads files from the ROS file
// server and drives actionlib action servers.
package ros

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	goutils "go.viam.com/utils"
	"nhooyr.io/websocket"

	"go.viam.com/fab/logging"
)

// default connection settings.
const (
	DefaultHost        = "localhost"
	DefaultPort        = 9090
	DefaultCallTimeout = 30 * time.Second
	// planning scenes and meshes can be large
	defaultReadLimit = 64 << 20
)

// ClientConfig describes how to reach a rosbridge server.
type ClientConfig struct {
	Host   string
	Port   int
	Secure bool
	Path   string
	// CallTimeout bounds service calls whose context has no deadline. Zero means
	// DefaultCallTimeout and a negative value means no bound.
	CallTimeout time.Duration
	// Clock stamps messages and measures timeouts. Nil means the wall clock.
	Clock clock.Clock
}

// URL returns the websocket url of the server.
func (cfg ClientConfig) URL() string {
	host := cfg.Host
	if host == "" {
		host = DefaultHost
	}
	port := cfg.Port
	if port == 0 {
		port = DefaultPort
	}
	scheme := "ws"
	if cfg.Secure {
		scheme = "wss"
	}
	u := url.URL{Scheme: scheme, Host: host + ":" + strconv.Itoa(port), Path: cfg.Path}
	return u.String()
}

// Handler receives the msg field of messages published on a subscribed topic. Handlers run on the
// client's read goroutine and must not block.
type Handler func(msg json.RawMessage)

type subscription struct {
	msgType  string
	id       string
	handlers map[int]Handler
}

type advertisement struct {
	msgType string
	refs    int
}

type serviceResult struct {
	values json.RawMessage
	ok     bool
}

// Client is a connection to a rosbridge server. It is safe for concurrent use.
type Client struct {
	cfg     ClientConfig
	conn    *websocket.Conn
	logger  logging.Logger
	clock   clock.Clock
	workers *goutils.StoppableWorkers

	mu            sync.Mutex
	closed        bool
	readErr       error
	done          chan struct{}
	pending       map[string]chan serviceResult
	subscriptions map[string]*subscription
	advertised    map[string]*advertisement
	nextHandlerID int
}

// Dial connects to the rosbridge server described by cfg.
func Dial(ctx context.Context, cfg ClientConfig, logger logging.Logger) (*Client, error) {
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}
	if cfg.CallTimeout == 0 {
		cfg.CallTimeout = DefaultCallTimeout
	}
	addr := cfg.URL()
	logger.Debugw("connecting to rosbridge", "url", addr)
	//nolint:bodyclose
	conn, _, err := websocket.Dial(ctx, addr, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to connect to rosbridge at %s", addr)
	}
	conn.SetReadLimit(defaultReadLimit)

	c := &Client{
		cfg:           cfg,
		conn:          conn,
		logger:        logger,
		clock:         cfg.Clock,
		done:          make(chan struct{}),
		pending:       map[string]chan serviceResult{},
		subscriptions: map[string]*subscription{},
		advertised:    map[string]*advertisement{},
	}
	c.workers = goutils.NewBackgroundStoppableWorkers(c.readLoop)
	logger.Infow("connected to rosbridge", "url", addr)
	return c, nil
}

// Clock returns the clock used to stamp messages.
func (c *Client) Clock() clock.Clock {
	return c.clock
}

// Logger returns the logger of the client.
func (c *Client) Logger() logging.Logger {
	return c.logger
}

// IsConnected reports whether the client is open and its connection is alive.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.closed && c.readErr == nil
}

// Close closes the connection and fails every outstanding call with ErrClientClosed. Closing an
// already closed client returns nil.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	readFailed := c.readErr != nil
	c.mu.Unlock()

	var err error
	if !readFailed {
		err = c.conn.Close(websocket.StatusNormalClosure, "")
	}
	c.workers.Stop()
	c.shutdown()
	c.logger.Debug("rosbridge client closed")
	return err
}

// shutdown releases everything waiting on the connection. Safe to call more than once.
func (c *Client) shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	select {
	case <-c.done:
	default:
		close(c.done)
	}
	c.pending = map[string]chan serviceResult{}
}

func (c *Client) readLoop(ctx context.Context) {
	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			c.mu.Lock()
			closed := c.closed
			if !closed {
				c.readErr = err
			}
			c.mu.Unlock()
			if !closed {
				c.logger.Errorw("lost connection to rosbridge", "error", err)
				c.shutdown()
			}
			return
		}
		c.dispatch(data)
	}
}

func (c *Client) dispatch(data []byte) {
	var in incoming
	if err := json.Unmarshal(data, &in); err != nil {
		c.logger.Warnw("ignoring malformed rosbridge message", "error", err)
		return
	}
	switch in.Op {
	case opServiceResp:
		c.mu.Lock()
		ch, ok := c.pending[in.ID]
		delete(c.pending, in.ID)
		c.mu.Unlock()
		if !ok {
			c.logger.Debugw("service response for unknown call", "id", in.ID, "service", in.Service)
			return
		}
		ch <- serviceResult{values: in.Values, ok: in.Result == nil || *in.Result}
	case opPublish:
		c.mu.Lock()
		sub, ok := c.subscriptions[in.Topic]
		var handlers []Handler
		if ok {
			for _, h := range sub.handlers {
				handlers = append(handlers, h)
			}
		}
		c.mu.Unlock()
		for _, h := range handlers {
			h(in.Msg)
		}
	case opStatus:
		switch in.Level {
		case statusLevelErr:
			c.logger.Errorw("rosbridge status", "id", in.ID, "msg", in.statusText())
		case statusLevelWrn:
			c.logger.Warnw("rosbridge status", "id", in.ID, "msg", in.statusText())
		default:
			c.logger.Debugw("rosbridge status", "id", in.ID, "level", in.Level, "msg", in.statusText())
		}
	default:
		c.logger.Debugw("ignoring rosbridge operation", "op", in.Op)
	}
}

func (c *Client) send(ctx context.Context, msg outgoing) error {
	c.mu.Lock()
	alive := !c.closed && c.readErr == nil
	c.mu.Unlock()
	if !alive {
		return ErrClientClosed
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return errors.Wrapf(err, "failed to encode %s operation", msg.Op)
	}
	if err := c.conn.Write(ctx, websocket.MessageText, data); err != nil {
		return errors.Wrapf(err, "failed to send %s operation", msg.Op)
	}
	return nil
}

func newID(op, name string) string {
	return fmt.Sprintf("%s:%s:%s", op, name, uuid.NewString())
}

// SetStatusLevel asks the bridge to report status messages at or above level (none, error,
// warning or info).
func (c *Client) SetStatusLevel(ctx context.Context, level string) error {
	return c.send(ctx, outgoing{Op: opSetLevel, ID: newID(opSetLevel, level), Level: level})
}

// CallService calls a ROS service and decodes its response into out, which may be nil. serviceType
// may be empty. When ctx has no deadline the configured call timeout applies.
func (c *Client) CallService(ctx context.Context, service, serviceType string, args, out interface{}) error {
	if _, ok := ctx.Deadline(); !ok && c.cfg.CallTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = c.clock.WithTimeout(ctx, c.cfg.CallTimeout)
		defer cancel()
	}
	if args == nil {
		args = struct{}{}
	}

	id := newID(opCallService, service)
	ch := make(chan serviceResult, 1)
	c.mu.Lock()
	c.pending[id] = ch
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
	}()

	c.logger.CDebugw(ctx, "calling service", "service", service, "id", id)
	if err := c.send(ctx, outgoing{Op: opCallService, ID: id, Service: service, Type: serviceType, Args: args}); err != nil {
		return err
	}

	select {
	case res := <-ch:
		if !res.ok {
			return NewServiceError(service, serviceFailureText(res.values))
		}
		if out == nil {
			return nil
		}
		return errors.Wrapf(json.Unmarshal(res.values, out), "failed to decode response of %s", service)
	case <-ctx.Done():
		return NewTimeoutError("service "+service, ctx.Err())
	case <-c.done:
		return ErrClientClosed
	}
}

// Advertise announces that the client will publish msgType messages on topic. Advertising is
// counted; the topic is unadvertised once every Advertise has been matched by an Unadvertise.
func (c *Client) Advertise(ctx context.Context, topic, msgType string) error {
	c.mu.Lock()
	if adv, ok := c.advertised[topic]; ok {
		defer c.mu.Unlock()
		if adv.msgType != msgType {
			return errors.Errorf("topic %s is advertised as %s, not %s", topic, adv.msgType, msgType)
		}
		adv.refs++
		return nil
	}
	c.mu.Unlock()

	if err := c.send(ctx, outgoing{Op: opAdvertise, ID: newID(opAdvertise, topic), Topic: topic, Type: msgType}); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if adv, ok := c.advertised[topic]; ok {
		adv.refs++
		return nil
	}
	c.advertised[topic] = &advertisement{msgType: msgType, refs: 1}
	return nil
}

// Unadvertise releases one Advertise of topic. Unadvertising a topic that is not advertised does
// nothing.
func (c *Client) Unadvertise(ctx context.Context, topic string) error {
	c.mu.Lock()
	adv, ok := c.advertised[topic]
	if !ok {
		c.mu.Unlock()
		return nil
	}
	adv.refs--
	if adv.refs > 0 {
		c.mu.Unlock()
		return nil
	}
	delete(c.advertised, topic)
	c.mu.Unlock()
	return c.send(ctx, outgoing{Op: opUnadvertise, ID: newID(opUnadvertise, topic), Topic: topic})
}

// Publish sends msg on topic, advertising the topic with the message type first if needed.
func (c *Client) Publish(ctx context.Context, topic string, msg Message) error {
	c.mu.Lock()
	_, advertised := c.advertised[topic]
	c.mu.Unlock()
	if !advertised {
		if err := c.Advertise(ctx, topic, msg.ROSType()); err != nil {
			return err
		}
	}
	return c.send(ctx, outgoing{Op: opPublish, ID: newID(opPublish, topic), Topic: topic, Msg: msg})
}

// Subscribe calls handler for every message published on topic. Handlers of the same topic share
// one subscription on the bridge. The returned function removes the handler; calling it again does
// nothing.
func (c *Client) Subscribe(ctx context.Context, topic, msgType string, handler Handler) (func(context.Context) error, error) {
	c.mu.Lock()
	sub, ok := c.subscriptions[topic]
	if ok && sub.msgType != msgType {
		c.mu.Unlock()
		return nil, errors.Errorf("topic %s is subscribed as %s, not %s", topic, sub.msgType, msgType)
	}
	if !ok {
		sub = &subscription{msgType: msgType, id: newID(opSubscribe, topic), handlers: map[int]Handler{}}
		c.subscriptions[topic] = sub
	}
	handlerID := c.nextHandlerID
	c.nextHandlerID++
	sub.handlers[handlerID] = handler
	c.mu.Unlock()

	if !ok {
		if err := c.send(ctx, outgoing{Op: opSubscribe, ID: sub.id, Topic: topic, Type: msgType}); err != nil {
			c.mu.Lock()
			delete(c.subscriptions, topic)
			c.mu.Unlock()
			return nil, err
		}
	}

	var once sync.Once
	return func(ctx context.Context) error {
		var err error
		once.Do(func() { err = c.unsubscribe(ctx, topic, handlerID) })
		return err
	}, nil
}

func (c *Client) unsubscribe(ctx context.Context, topic string, handlerID int) error {
	c.mu.Lock()
	sub, ok := c.subscriptions[topic]
	if !ok {
		c.mu.Unlock()
		return nil
	}
	delete(sub.handlers, handlerID)
	if len(sub.handlers) > 0 {
		c.mu.Unlock()
		return nil
	}
	delete(c.subscriptions, topic)
	c.mu.Unlock()
	return c.send(ctx, outgoing{Op: opUnsubscribe, ID: sub.id, Topic: topic})
}

// GetParam returns the JSON text of a ROS parameter read through rosapi.
func (c *Client) GetParam(ctx context.Context, name string) (string, error) {
	var resp struct {
		Value string `json:"value"`
	}
	args := map[string]string{"name": name, "default": ""}
	if err := c.CallService(ctx, "/rosapi/get_param", "rosapi/GetParam", args, &resp); err != nil {
		return "", err
	}
	return resp.Value, nil
}

// GetParamInto decodes a ROS parameter into out.
func (c *Client) GetParamInto(ctx context.Context, name string, out interface{}) error {
	value, err := c.GetParam(ctx, name)
	if err != nil {
		return err
	}
	if value == "" {
		return errors.Errorf("parameter %s is not set", name)
	}
	return errors.Wrapf(json.Unmarshal([]byte(value), out), "failed to decode parameter %s", name)
}

// closeAll is used when a component owns several subscriptions.
func closeAll(ctx context.Context, fns ...func(context.Context) error) error {
	var err error
	for _, fn := range fns {
		if fn != nil {
			err = multierr.Combine(err, fn(ctx))
		}
	}
	return err
}
