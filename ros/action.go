package ros

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/fab/logging"
)

// typedMessage wraps a message body with the ROS type it is published as.
type typedMessage struct {
	rosType string
	body    interface{}
}

func (m typedMessage) ROSType() string { return m.rosType }

func (m typedMessage) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.body)
}

type actionGoal struct {
	Header Header      `json:"header"`
	GoalID GoalID      `json:"goal_id"`
	Goal   interface{} `json:"goal"`
}

type actionResult struct {
	Header Header          `json:"header"`
	Status GoalStatus      `json:"status"`
	Result json.RawMessage `json:"result"`
}

type actionFeedback struct {
	Header   Header          `json:"header"`
	Status   GoalStatus      `json:"status"`
	Feedback json.RawMessage `json:"feedback"`
}

// ActionClient drives an actionlib action server over rosbridge topics.
type ActionClient struct {
	client     *Client
	server     string
	actionType string
	logger     logging.Logger

	mu    sync.Mutex
	goals map[string]*Goal
	unsub []func(context.Context) error
}

// NewActionClient connects to the action server named server, e.g. /follow_joint_trajectory, whose
// action type is actionType, e.g. control_msgs/FollowJointTrajectoryAction.
func NewActionClient(ctx context.Context, client *Client, server, actionType string, logger logging.Logger) (*ActionClient, error) {
	if !strings.HasSuffix(actionType, "Action") {
		return nil, errors.Errorf("%q is not an action type", actionType)
	}
	ac := &ActionClient{
		client:     client,
		server:     strings.TrimSuffix(server, "/"),
		actionType: actionType,
		logger:     logger.Sublogger("action"),
		goals:      map[string]*Goal{},
	}
	if err := client.Advertise(ctx, ac.topic("goal"), actionType+"Goal"); err != nil {
		return nil, err
	}
	if err := client.Advertise(ctx, ac.topic("cancel"), "actionlib_msgs/GoalID"); err != nil {
		return nil, multierr.Combine(err, ac.unadvertise(ctx))
	}
	subs := []struct {
		name, msgType string
		handler       Handler
	}{
		{"status", "actionlib_msgs/GoalStatusArray", ac.handleStatus},
		{"feedback", actionType + "Feedback", ac.handleFeedback},
		{"result", actionType + "Result", ac.handleResult},
	}
	for _, s := range subs {
		unsub, err := client.Subscribe(ctx, ac.topic(s.name), s.msgType, s.handler)
		if err != nil {
			return nil, multierr.Combine(err, closeAll(ctx, append(ac.unsub, ac.unadvertise)...))
		}
		ac.unsub = append(ac.unsub, unsub)
	}
	return ac, nil
}

func (ac *ActionClient) topic(name string) string {
	return ac.server + "/" + name
}

func (ac *ActionClient) unadvertise(ctx context.Context) error {
	return closeAll(ctx,
		func(ctx context.Context) error { return ac.client.Unadvertise(ctx, ac.topic("goal")) },
		func(ctx context.Context) error { return ac.client.Unadvertise(ctx, ac.topic("cancel")) },
	)
}

// Close releases the topics of the action client. Goals still running are not cancelled.
func (ac *ActionClient) Close(ctx context.Context) error {
	ac.mu.Lock()
	unsub := ac.unsub
	ac.unsub = nil
	ac.mu.Unlock()
	return closeAll(ctx, append(unsub, ac.unadvertise)...)
}

// SendGoal sends a goal to the action server. feedback, when not nil, is called with the feedback
// messages of the goal.
func (ac *ActionClient) SendGoal(ctx context.Context, goal interface{}, feedback Handler) (*Goal, error) {
	now := TimeFrom(ac.client.Clock().Now())
	id := GoalID{Stamp: now, ID: "goal_" + uuid.NewString()}
	g := &Goal{
		ac:       ac,
		id:       id,
		feedback: feedback,
		status:   GoalPending,
		done:     make(chan struct{}),
	}
	ac.mu.Lock()
	ac.goals[id.ID] = g
	ac.mu.Unlock()

	header := NewHeader("")
	header.Stamp = now
	msg := typedMessage{
		rosType: ac.actionType + "Goal",
		body:    actionGoal{Header: header, GoalID: id, Goal: goal},
	}
	ac.logger.Debugw("sending goal", "server", ac.server, "goal_id", id.ID)
	if err := ac.client.Publish(ctx, ac.topic("goal"), msg); err != nil {
		ac.forget(id.ID)
		return nil, err
	}
	return g, nil
}

func (ac *ActionClient) goal(id string) *Goal {
	ac.mu.Lock()
	defer ac.mu.Unlock()
	return ac.goals[id]
}

func (ac *ActionClient) forget(id string) {
	ac.mu.Lock()
	defer ac.mu.Unlock()
	delete(ac.goals, id)
}

func (ac *ActionClient) handleStatus(raw json.RawMessage) {
	var msg GoalStatusArray
	if err := json.Unmarshal(raw, &msg); err != nil {
		ac.logger.Warnw("malformed goal status", "error", err)
		return
	}
	for _, st := range msg.StatusList {
		if g := ac.goal(st.GoalID.ID); g != nil {
			g.setStatus(st)
		}
	}
}

func (ac *ActionClient) handleFeedback(raw json.RawMessage) {
	var msg actionFeedback
	if err := json.Unmarshal(raw, &msg); err != nil {
		ac.logger.Warnw("malformed action feedback", "error", err)
		return
	}
	g := ac.goal(msg.Status.GoalID.ID)
	if g == nil {
		return
	}
	g.setStatus(msg.Status)
	if g.feedback != nil {
		g.feedback(msg.Feedback)
	}
}

func (ac *ActionClient) handleResult(raw json.RawMessage) {
	var msg actionResult
	if err := json.Unmarshal(raw, &msg); err != nil {
		ac.logger.Warnw("malformed action result", "error", err)
		return
	}
	g := ac.goal(msg.Status.GoalID.ID)
	if g == nil {
		return
	}
	ac.forget(msg.Status.GoalID.ID)
	g.finish(msg.Status, msg.Result)
}

// Goal is a goal sent to an action server.
type Goal struct {
	ac       *ActionClient
	id       GoalID
	feedback Handler

	mu     sync.Mutex
	status GoalStatusCode
	text   string
	result json.RawMessage
	done   chan struct{}
}

// ID returns the goal id.
func (g *Goal) ID() string {
	return g.id.ID
}

// Status returns the last known state of the goal.
func (g *Goal) Status() GoalStatusCode {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.status
}

func (g *Goal) setStatus(st GoalStatus) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.result != nil {
		return
	}
	g.status = st.Status
	g.text = st.Text
}

func (g *Goal) finish(st GoalStatus, result json.RawMessage) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.result != nil {
		return
	}
	if result == nil {
		result = json.RawMessage("{}")
	}
	g.status = st.Status
	g.text = st.Text
	g.result = result
	close(g.done)
}

// Wait blocks until the action server reports the result of the goal and decodes it into out,
// which may be nil. It returns the final state of the goal. A goal that is not waited for to the
// end stops tracking status and result updates.
func (g *Goal) Wait(ctx context.Context, out interface{}) (GoalStatusCode, error) {
	select {
	case <-g.done:
	case <-ctx.Done():
		g.ac.forget(g.id.ID)
		return g.Status(), NewTimeoutError("action goal "+g.id.ID, ctx.Err())
	case <-g.ac.client.done:
		g.ac.forget(g.id.ID)
		return g.Status(), ErrClientClosed
	}
	g.mu.Lock()
	status, text, result := g.status, g.text, g.result
	g.mu.Unlock()
	if text != "" {
		g.ac.logger.Debugw("goal finished", "goal_id", g.id.ID, "status", status, "text", text)
	}
	if out == nil {
		return status, nil
	}
	return status, errors.Wrap(json.Unmarshal(result, out), "failed to decode action result")
}

// Cancel asks the action server to cancel the goal.
func (g *Goal) Cancel(ctx context.Context) error {
	g.ac.logger.Debugw("cancelling goal", "goal_id", g.id.ID)
	return g.ac.client.Publish(ctx, g.ac.topic("cancel"), g.id)
}
