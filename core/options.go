package voicesession

import (
	"context"
	"time"

	"github.com/kunalbhatia18/VoxInbox-sub001/core/events"
	"github.com/kunalbhatia18/VoxInbox-sub001/core/realtime"
)

// SessionOption configures a Session at construction time.
type SessionOption func(*SessionOptions)

// SessionOptions collects injected device capabilities and observer
// callbacks.
type SessionOptions struct {
	acquireInput InputDeviceFunc
	output       AudioOutput
	minRecording time.Duration

	clientOptions []realtime.Option

	eventHandler func(events.Event)

	onConnectionStateChanged func(realtime.ConnectionState)
	onVoiceStateChanged      func(VoiceState)
	onPlaybackStarted        func()
	onPlaybackEnded          func()
	onPlaybackError          func(error)
	onPayloadReady           func(base64Audio string)
	onCaptureFailed          func(error)
	onNoAudioResponse        func()
	onSystemMessage          func(message string)
	onServerError            func(message string)
	onReconnecting           func(attempt int, delayMS int64)
	onConnectionLost         func(error)
	onSessionError           func(error)
}

// WithAudioInput uses an already acquired input device.
func WithAudioInput(client AudioInput) SessionOption {
	return func(o *SessionOptions) {
		o.acquireInput = func(context.Context) (AudioInput, error) { return client, nil }
	}
}

// WithInputDevice defers input device acquisition to the first recording.
func WithInputDevice(acquire InputDeviceFunc) SessionOption {
	return func(o *SessionOptions) { o.acquireInput = acquire }
}

// WithAudioOutput sets the output device that response segments are scheduled
// on.
func WithAudioOutput(client AudioOutput) SessionOption {
	return func(o *SessionOptions) { o.output = client }
}

// WithMinRecordingDuration sets the shortest recording that produces a
// payload. Shorter recordings fail validation and are discarded.
func WithMinRecordingDuration(d time.Duration) SessionOption {
	return func(o *SessionOptions) { o.minRecording = d }
}

// WithClientOptions forwards options to the underlying realtime client
// (voice, instructions, tools, reconnect policy, dialer, timers).
func WithClientOptions(opts ...realtime.Option) SessionOption {
	return func(o *SessionOptions) { o.clientOptions = append(o.clientOptions, opts...) }
}

// WithEventHandler registers a handler that receives every session event, in
// addition to whatever per-event callbacks are set.
func WithEventHandler(handler func(events.Event)) SessionOption {
	return func(o *SessionOptions) { o.eventHandler = handler }
}

// WithConnectionStateCallback registers a callback for transport connection
// transitions.
func WithConnectionStateCallback(callback func(state realtime.ConnectionState)) SessionOption {
	return func(o *SessionOptions) { o.onConnectionStateChanged = callback }
}

// WithVoiceStateCallback registers a callback for reconciled voice state
// transitions.
func WithVoiceStateCallback(callback func(state VoiceState)) SessionOption {
	return func(o *SessionOptions) { o.onVoiceStateChanged = callback }
}

func WithPlaybackStartedCallback(callback func()) SessionOption {
	return func(o *SessionOptions) { o.onPlaybackStarted = callback }
}

func WithPlaybackEndedCallback(callback func()) SessionOption {
	return func(o *SessionOptions) { o.onPlaybackEnded = callback }
}

// WithPlaybackErrorCallback registers a callback for segments the output
// device rejected. The queue continues past rejected segments.
func WithPlaybackErrorCallback(callback func(err error)) SessionOption {
	return func(o *SessionOptions) { o.onPlaybackError = callback }
}

// WithPayloadReadyCallback registers a callback for each finalized recording
// payload, already encoded for the wire.
func WithPayloadReadyCallback(callback func(base64Audio string)) SessionOption {
	return func(o *SessionOptions) { o.onPayloadReady = callback }
}

// WithCaptureFailedCallback registers a callback for recordings discarded
// during validation or processing.
func WithCaptureFailedCallback(callback func(err error)) SessionOption {
	return func(o *SessionOptions) { o.onCaptureFailed = callback }
}

// WithNoAudioResponseCallback registers a callback for responses that
// produced no audio within the configured window.
func WithNoAudioResponseCallback(callback func()) SessionOption {
	return func(o *SessionOptions) { o.onNoAudioResponse = callback }
}

// WithSystemMessageCallback registers a callback for system control messages
// forwarded verbatim from the server.
func WithSystemMessageCallback(callback func(message string)) SessionOption {
	return func(o *SessionOptions) { o.onSystemMessage = callback }
}

// WithServerErrorCallback registers a callback for error control messages
// forwarded verbatim from the server.
func WithServerErrorCallback(callback func(message string)) SessionOption {
	return func(o *SessionOptions) { o.onServerError = callback }
}

// WithReconnectingCallback registers a callback for scheduled reconnection
// attempts, reporting the attempt number and the delay before it runs.
func WithReconnectingCallback(callback func(attempt int, delayMS int64)) SessionOption {
	return func(o *SessionOptions) { o.onReconnecting = callback }
}

// WithConnectionLostCallback registers a callback for terminal connection
// loss, after reconnection attempts are exhausted.
func WithConnectionLostCallback(callback func(err error)) SessionOption {
	return func(o *SessionOptions) { o.onConnectionLost = callback }
}

// WithSessionErrorCallback registers a callback for escalated session
// failures, such as a finalized payload that could not be sent.
func WithSessionErrorCallback(callback func(err error)) SessionOption {
	return func(o *SessionOptions) { o.onSessionError = callback }
}
