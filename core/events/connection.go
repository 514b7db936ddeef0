package events

const (
	// KindConnectionStateChanged identifies transitions of the transport connection state.
	KindConnectionStateChanged Kind = "connection.state_changed"
	// KindConnectionReconnecting identifies a scheduled reconnection attempt.
	KindConnectionReconnecting Kind = "connection.reconnecting"
	// KindConnectionLost identifies terminal connection loss after reconnection was exhausted.
	KindConnectionLost Kind = "connection.lost"
)

// ConnectionStateChanged carries the new transport connection state.
type ConnectionStateChanged struct {
	Base
	State string
}

// NewConnectionStateChanged creates a connection state changed event.
func NewConnectionStateChanged(state string) ConnectionStateChanged {
	return ConnectionStateChanged{Base: NewBase(KindConnectionStateChanged), State: state}
}

// ConnectionReconnecting marks a reconnection attempt scheduled after a delay.
type ConnectionReconnecting struct {
	Base
	Attempt int
	DelayMS int64
}

// NewConnectionReconnecting creates a connection reconnecting event.
func NewConnectionReconnecting(attempt int, delayMS int64) ConnectionReconnecting {
	return ConnectionReconnecting{Base: NewBase(KindConnectionReconnecting), Attempt: attempt, DelayMS: delayMS}
}

// ConnectionLost marks terminal connection loss; no further automatic attempts follow.
type ConnectionLost struct {
	Base
	Err error
}

// NewConnectionLost creates a connection lost event.
func NewConnectionLost(err error) ConnectionLost {
	return ConnectionLost{Base: NewBase(KindConnectionLost), Err: err}
}
