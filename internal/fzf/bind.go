package fzf

import (
	"fmt"

	"github.com/noahmayr/vjj/internal/protocol"
)

// Event is an fzf event name usable in --bind.
type Event string

const (
	Start  Event = "start"
	Change Event = "change"
	Enter  Event = "enter"
	Esc    Event = "esc"
	Focus  Event = "focus"
)

// Bind is the value of one --bind flag. It either runs a fixed action list
// or transforms the event through a vjj handler.
type Bind struct {
	Event   Event
	Actions []Action
	Handler *protocol.Handler
}

// BindActions binds event to a fixed action list.
func BindActions(event Event, actions ...Action) Bind {
	return Bind{Event: event, Actions: actions}
}

// BindTransform binds event to the output of a vjj handler.
func BindTransform(event Event, h protocol.Handler) Bind {
	return Bind{Event: event, Handler: &h}
}

func (b Bind) String() string {
	if b.Handler != nil {
		return fmt.Sprintf("%s:transform:%s", b.Event, protocol.HandlerExpression(*b.Handler))
	}
	return fmt.Sprintf("%s:%s", b.Event, Join(b.Actions))
}
