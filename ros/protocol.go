package ros

import (
	"encoding/json"
)

// rosbridge v2 operations.
const (
	opAdvertise    = "advertise"
	opUnadvertise  = "unadvertise"
	opPublish      = "publish"
	opSubscribe    = "subscribe"
	opUnsubscribe  = "unsubscribe"
	opCallService  = "call_service"
	opServiceResp  = "service_response"
	opStatus       = "status"
	opSetLevel     = "set_level"
	statusLevelErr = "error"
	statusLevelWrn = "warning"
)

// outgoing is every field a client may send. Unused fields are omitted.
type outgoing struct {
	Op      string      `json:"op"`
	ID      string      `json:"id,omitempty"`
	Topic   string      `json:"topic,omitempty"`
	Type    string      `json:"type,omitempty"`
	Msg     interface{} `json:"msg,omitempty"`
	Service string      `json:"service,omitempty"`
	Args    interface{} `json:"args,omitempty"`
	Level   string      `json:"level,omitempty"`
}

// incoming is every field the bridge may send. msg is an object for publish and a string for
// status, so it is kept raw.
type incoming struct {
	Op      string          `json:"op"`
	ID      string          `json:"id"`
	Topic   string          `json:"topic"`
	Msg     json.RawMessage `json:"msg"`
	Service string          `json:"service"`
	Values  json.RawMessage `json:"values"`
	Result  *bool           `json:"result"`
	Level   string          `json:"level"`
}

// statusText returns msg of a status operation as text.
func (in incoming) statusText() string {
	var s string
	if err := json.Unmarshal(in.Msg, &s); err != nil {
		return string(in.Msg)
	}
	return s
}

// serviceFailureText returns the values of a failed service response as text.
func serviceFailureText(values json.RawMessage) string {
	if len(values) == 0 {
		return "no reason given"
	}
	var s string
	if err := json.Unmarshal(values, &s); err != nil {
		return string(values)
	}
	return s
}
