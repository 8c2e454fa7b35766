package webhooks

import (
	"bytes"
	"encoding/json"
)

// Event is an authenticated webhook delivery. Its contents are passed through
// uninterpreted.
type Event struct {
	Events      json.RawMessage `json:"events"`
	Destination json.RawMessage `json:"destination,omitempty"`
}

// HasDestination reports whether the delivery named a destination.
func (e *Event) HasDestination() bool {
	return truthy(e.Destination)
}

// ParseEvent decodes a delivery body. It fails when the body is not a JSON
// object or when the events field is absent or falsy (null, false, 0, "").
func ParseEvent(body []byte) (*Event, bool) {
	fields, ok := parseObject(body)
	if !ok {
		return nil, false
	}

	events := fields["events"]
	if !truthy(events) {
		return nil, false
	}

	return &Event{Events: events, Destination: fields["destination"]}, true
}

func parseObject(body []byte) (map[string]json.RawMessage, bool) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] != '{' {
		return nil, false
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, false
	}
	return fields, true
}

// truthy mirrors JavaScript truthiness for a JSON value. Absent values are
// falsy.
func truthy(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return false
	}

	switch raw[0] {
	case 'n', 'f':
		return false
	case 't', '{', '[':
		return true
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return false
		}
		return s != ""
	default:
		var n float64
		if err := json.Unmarshal(raw, &n); err != nil {
			return false
		}
		return n != 0
	}
}
