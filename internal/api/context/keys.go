package context

type Key string

const (
	Params    Key = "params"
	RequestID Key = "request_id"
	Event     Key = "event"
)
