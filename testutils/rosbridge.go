// Package testutils provides helpers for testing against an in-process rosbridge server.
package testutils

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"
	"nhooyr.io/websocket"
)

// Operation is a rosbridge operation received by a FakeRosbridge.
type Operation struct {
	Op      string          `json:"op"`
	ID      string          `json:"id,omitempty"`
	Topic   string          `json:"topic,omitempty"`
	Type    string          `json:"type,omitempty"`
	Service string          `json:"service,omitempty"`
	Level   string          `json:"level,omitempty"`
	Msg     json.RawMessage `json:"msg,omitempty"`
	Args    json.RawMessage `json:"args,omitempty"`
}

// ErrNoResponse makes a ServiceHandler leave the call unanswered.
var ErrNoResponse = errors.New("no response")

// ServiceHandler answers a service call. Returning an error makes the call fail with the error
// text as the response value.
type ServiceHandler func(args json.RawMessage) (interface{}, error)

// PublishHook is called with every message a client publishes on a topic.
type PublishHook func(msg json.RawMessage)

// FakeRosbridge is an in-process rosbridge server. It records every operation it receives, answers
// service calls with registered handlers and can publish to its clients.
type FakeRosbridge struct {
	server *httptest.Server

	mu       sync.Mutex
	conns    map[*websocket.Conn]struct{}
	received []Operation
	services map[string]ServiceHandler
	hooks    map[string][]PublishHook
}

// NewFakeRosbridge starts a fake server that is closed when the test ends.
func NewFakeRosbridge(t *testing.T) *FakeRosbridge {
	t.Helper()
	fr := &FakeRosbridge{
		conns:    map[*websocket.Conn]struct{}{},
		services: map[string]ServiceHandler{},
		hooks:    map[string][]PublishHook{},
	}
	fr.server = httptest.NewServer(http.HandlerFunc(fr.serve))
	t.Cleanup(fr.Close)
	return fr
}

// HostPort returns the host and port the server listens on.
func (fr *FakeRosbridge) HostPort(t *testing.T) (string, int) {
	t.Helper()
	u, err := url.Parse(fr.server.URL)
	test.That(t, err, test.ShouldBeNil)
	port, err := strconv.Atoi(u.Port())
	test.That(t, err, test.ShouldBeNil)
	return u.Hostname(), port
}

// Close disconnects every client and stops the server.
func (fr *FakeRosbridge) Close() {
	fr.mu.Lock()
	for c := range fr.conns {
		//nolint:errcheck
		c.Close(websocket.StatusGoingAway, "server closing")
	}
	fr.conns = map[*websocket.Conn]struct{}{}
	fr.mu.Unlock()
	fr.server.Close()
}

// DropConnections closes every client connection without stopping the server.
func (fr *FakeRosbridge) DropConnections() {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	for c := range fr.conns {
		//nolint:errcheck
		c.Close(websocket.StatusGoingAway, "dropped")
	}
}

// HandleService registers the handler of a service.
func (fr *FakeRosbridge) HandleService(service string, handler ServiceHandler) {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	fr.services[service] = handler
}

// HandleParam answers /rosapi/get_param for name with value encoded as JSON.
func (fr *FakeRosbridge) HandleParam(params map[string]interface{}) {
	fr.HandleService("/rosapi/get_param", func(args json.RawMessage) (interface{}, error) {
		var req struct {
			Name    string `json:"name"`
			Default string `json:"default"`
		}
		if err := json.Unmarshal(args, &req); err != nil {
			return nil, err
		}
		value, ok := params[req.Name]
		if !ok {
			return map[string]string{"value": req.Default}, nil
		}
		data, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		return map[string]string{"value": string(data)}, nil
	})
}

// OnPublish registers a hook called for messages published on topic.
func (fr *FakeRosbridge) OnPublish(topic string, hook PublishHook) {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	fr.hooks[topic] = append(fr.hooks[topic], hook)
}

// Received returns the operations received so far.
func (fr *FakeRosbridge) Received() []Operation {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	return append([]Operation(nil), fr.received...)
}

// Operations returns the received operations of kind op, optionally restricted to a topic.
func (fr *FakeRosbridge) Operations(op, topic string) []Operation {
	var out []Operation
	for _, o := range fr.Received() {
		if o.Op == op && (topic == "" || o.Topic == topic) {
			out = append(out, o)
		}
	}
	return out
}

// Published returns the messages published on topic.
func (fr *FakeRosbridge) Published(topic string) []json.RawMessage {
	var out []json.RawMessage
	for _, o := range fr.Operations("publish", topic) {
		out = append(out, o.Msg)
	}
	return out
}

// Publish sends msg on topic to every connected client.
func (fr *FakeRosbridge) Publish(ctx context.Context, topic string, msg interface{}) error {
	return fr.broadcast(ctx, map[string]interface{}{"op": "publish", "topic": topic, "msg": msg})
}

// SendStatus sends a status operation to every connected client.
func (fr *FakeRosbridge) SendStatus(ctx context.Context, level, text string) error {
	return fr.broadcast(ctx, map[string]interface{}{"op": "status", "level": level, "msg": text})
}

func (fr *FakeRosbridge) broadcast(ctx context.Context, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	fr.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(fr.conns))
	for c := range fr.conns {
		conns = append(conns, c)
	}
	fr.mu.Unlock()
	if len(conns) == 0 {
		return errors.New("no connected clients")
	}
	for _, c := range conns {
		if err := c.Write(ctx, websocket.MessageText, data); err != nil {
			return err
		}
	}
	return nil
}

func (fr *FakeRosbridge) serve(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		return
	}
	conn.SetReadLimit(64 << 20)
	fr.mu.Lock()
	fr.conns[conn] = struct{}{}
	fr.mu.Unlock()
	defer func() {
		fr.mu.Lock()
		delete(fr.conns, conn)
		fr.mu.Unlock()
	}()

	ctx := r.Context()
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return
		}
		var op Operation
		if err := json.Unmarshal(data, &op); err != nil {
			continue
		}
		fr.mu.Lock()
		fr.received = append(fr.received, op)
		handler := fr.services[op.Service]
		hooks := append([]PublishHook(nil), fr.hooks[op.Topic]...)
		fr.mu.Unlock()

		switch op.Op {
		case "call_service":
			if err := fr.answer(ctx, conn, op, handler); err != nil {
				return
			}
		case "publish":
			for _, hook := range hooks {
				hook(op.Msg)
			}
		}
	}
}

func (fr *FakeRosbridge) answer(ctx context.Context, conn *websocket.Conn, op Operation, handler ServiceHandler) error {
	resp := map[string]interface{}{"op": "service_response", "id": op.ID, "service": op.Service}
	switch {
	case handler == nil:
		resp["result"] = false
		resp["values"] = "Service " + op.Service + " does not exist"
	default:
		values, err := handler(op.Args)
		if errors.Is(err, ErrNoResponse) {
			return nil
		}
		if err != nil {
			resp["result"] = false
			resp["values"] = err.Error()
		} else {
			resp["result"] = true
			resp["values"] = values
		}
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return conn.Write(ctx, websocket.MessageText, data)
}
