package realtime

import (
	"time"

	"github.com/kunalbhatia18/VoxInbox-sub001/core/audio"
)

// Option configures a Client at construction time.
type Option func(*Client)

// callbacks are the at-most-one-subscriber observer hooks. Unset hooks are
// no-ops so dispatch never branches on nil.
type callbacks struct {
	onStateChanged    func(ConnectionState)
	onAudioDelta      func(audio.Segment)
	onResponseStarted func()
	onAudioDone       func()
	onResponseDone    func(status string)
	onNoAudio         func()
	onSystemMessage   func(string)
	onServerError     func(string)
	onReconnecting    func(attempt int, delay time.Duration)
	onConnectionLost  func(error)
}

func noopCallbacks() callbacks {
	return callbacks{
		onStateChanged:    func(ConnectionState) {},
		onAudioDelta:      func(audio.Segment) {},
		onResponseStarted: func() {},
		onAudioDone:       func() {},
		onResponseDone:    func(string) {},
		onNoAudio:         func() {},
		onSystemMessage:   func(string) {},
		onServerError:     func(string) {},
		onReconnecting:    func(int, time.Duration) {},
		onConnectionLost:  func(error) {},
	}
}

// WithVoice selects the synthesis voice for generated responses.
func WithVoice(voice string) Option {
	return func(c *Client) { c.session.Voice = voice }
}

// WithInstructions replaces the system instruction sent with the session
// configuration and every response request.
func WithInstructions(instructions string) Option {
	return func(c *Client) { c.session.Instructions = instructions }
}

// WithTemperature sets the generation temperature.
func WithTemperature(temperature float64) Option {
	return func(c *Client) { c.session.Temperature = temperature }
}

// WithMaxOutputTokens sets the response token ceiling.
func WithMaxOutputTokens(tokens int) Option {
	return func(c *Client) { c.session.MaxResponseOutputTokens = tokens }
}

// WithTools registers tool definitions advertised through session.update.
func WithTools(tools ...Tool) Option {
	return func(c *Client) {
		c.session.Tools = append(c.session.Tools, tools...)
		c.session.ToolChoice = "auto"
	}
}

// WithReconnectPolicy replaces the automatic reconnection policy.
func WithReconnectPolicy(policy ReconnectPolicy) Option {
	return func(c *Client) { c.policy = policy }
}

// WithNoAudioTimeout sets how long after a response starts the client waits
// for the first audio delta before inferring the response carries none. The
// heuristic is a guess about service behavior, not a protocol guarantee;
// slow links may want a larger value.
func WithNoAudioTimeout(timeout time.Duration) Option {
	return func(c *Client) { c.noAudioTimeout = timeout }
}

// WithTokenSource supplies auth headers for each (re)connect attempt.
func WithTokenSource(tokens TokenSource) Option {
	return func(c *Client) { c.tokens = tokens }
}

// WithDialer replaces the websocket dialer.
func WithDialer(dial Dialer) Option {
	return func(c *Client) { c.dial = dial }
}

// WithTimerFunc replaces the timer scheduler, letting tests drive reconnect
// and no-audio timers without wall-clock delays.
func WithTimerFunc(newTimer TimerFunc) Option {
	return func(c *Client) { c.newTimer = newTimer }
}

// WithStateChangedCallback observes connection state transitions.
func WithStateChangedCallback(callback func(ConnectionState)) Option {
	return func(c *Client) {
		if callback != nil {
			c.callbacks.onStateChanged = callback
		}
	}
}

// WithAudioDeltaCallback receives each decoded inbound audio segment at the
// wire sample rate.
func WithAudioDeltaCallback(callback func(audio.Segment)) Option {
	return func(c *Client) {
		if callback != nil {
			c.callbacks.onAudioDelta = callback
		}
	}
}

// WithResponseStartedCallback observes the start of a new response; stale
// playback should be flushed from it.
func WithResponseStartedCallback(callback func()) Option {
	return func(c *Client) {
		if callback != nil {
			c.callbacks.onResponseStarted = callback
		}
	}
}

// WithAudioDoneCallback observes the end of a response's audio stream.
func WithAudioDoneCallback(callback func()) Option {
	return func(c *Client) {
		if callback != nil {
			c.callbacks.onAudioDone = callback
		}
	}
}

// WithResponseDoneCallback observes response completion with its reported
// status.
func WithResponseDoneCallback(callback func(status string)) Option {
	return func(c *Client) {
		if callback != nil {
			c.callbacks.onResponseDone = callback
		}
	}
}

// WithNoAudioCallback observes the no-audio-response heuristic firing.
func WithNoAudioCallback(callback func()) Option {
	return func(c *Client) {
		if callback != nil {
			c.callbacks.onNoAudio = callback
		}
	}
}

// WithSystemMessageCallback receives system control messages verbatim.
func WithSystemMessageCallback(callback func(string)) Option {
	return func(c *Client) {
		if callback != nil {
			c.callbacks.onSystemMessage = callback
		}
	}
}

// WithServerErrorCallback receives error control messages verbatim.
func WithServerErrorCallback(callback func(string)) Option {
	return func(c *Client) {
		if callback != nil {
			c.callbacks.onServerError = callback
		}
	}
}

// WithReconnectingCallback observes scheduled reconnection attempts.
func WithReconnectingCallback(callback func(attempt int, delay time.Duration)) Option {
	return func(c *Client) {
		if callback != nil {
			c.callbacks.onReconnecting = callback
		}
	}
}

// WithConnectionLostCallback observes terminal connection loss.
func WithConnectionLostCallback(callback func(error)) Option {
	return func(c *Client) {
		if callback != nil {
			c.callbacks.onConnectionLost = callback
		}
	}
}
