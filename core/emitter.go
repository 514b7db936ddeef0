package voicesession

import (
	"github.com/kunalbhatia18/VoxInbox-sub001/core/events"
	"github.com/kunalbhatia18/VoxInbox-sub001/core/realtime"
)

type eventEmitter func(events.Event)

func noopEventEmitter(events.Event) {}

// newCallbackEventEmitter translates typed events into the per-event
// callbacks configured on the session. Each event kind has at most one
// subscriber; unset callbacks drop the event.
func newCallbackEventEmitter(opts SessionOptions) eventEmitter {
	return func(event events.Event) {
		switch typedEvent := event.(type) {
		case events.ConnectionStateChanged:
			if opts.onConnectionStateChanged != nil {
				opts.onConnectionStateChanged(realtime.ConnectionState(typedEvent.State))
			}
		case events.ConnectionReconnecting:
			if opts.onReconnecting != nil {
				opts.onReconnecting(typedEvent.Attempt, typedEvent.DelayMS)
			}
		case events.ConnectionLost:
			if opts.onConnectionLost != nil {
				opts.onConnectionLost(typedEvent.Err)
			}
		case events.CapturePayloadReady:
			if opts.onPayloadReady != nil {
				opts.onPayloadReady(typedEvent.Audio)
			}
		case events.CaptureFailed:
			if opts.onCaptureFailed != nil {
				opts.onCaptureFailed(typedEvent.Err)
			}
		case events.PlaybackStarted:
			if opts.onPlaybackStarted != nil {
				opts.onPlaybackStarted()
			}
		case events.PlaybackEnded:
			if opts.onPlaybackEnded != nil {
				opts.onPlaybackEnded()
			}
		case events.PlaybackSegmentSkipped:
			if opts.onPlaybackError != nil {
				opts.onPlaybackError(typedEvent.Err)
			}
		case events.VoiceStateChanged:
			if opts.onVoiceStateChanged != nil {
				opts.onVoiceStateChanged(VoiceState(typedEvent.State))
			}
		case events.NoAudioResponse:
			if opts.onNoAudioResponse != nil {
				opts.onNoAudioResponse()
			}
		case events.ServerSystemMessage:
			if opts.onSystemMessage != nil {
				opts.onSystemMessage(typedEvent.Message)
			}
		case events.ServerError:
			if opts.onServerError != nil {
				opts.onServerError(typedEvent.Message)
			}
		}
	}
}
