package voicesession

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/kunalbhatia18/VoxInbox-sub001/core/audio"
	"github.com/kunalbhatia18/VoxInbox-sub001/core/events"
	"github.com/kunalbhatia18/VoxInbox-sub001/core/realtime"
	"go.opentelemetry.io/otel/codes"
)

// Session ties the three cooperating state machines together: the realtime
// connection, the capture pipeline and the playback pipeline. Finished
// recordings flow out through the client, inbound audio deltas flow into the
// playback queue, and the reconciled voice state is derived from what the
// pipelines are actually doing rather than tracked separately.
type Session struct {
	options SessionOptions
	emit    eventEmitter

	client   *realtime.Client
	capture  *capturePipeline
	playback *playbackPipeline
	output   AudioOutput

	mu    sync.Mutex
	voice VoiceState

	closeOnce sync.Once
	closeErr  error
}

// NewSession creates a disconnected session against the given endpoint and
// session identity. Devices are injected through options; without an output
// device inbound audio is dropped, without an input device recordings fail
// with [ErrDeviceUnavailable].
func NewSession(endpoint, sessionID string, opts ...SessionOption) *Session {
	options := SessionOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	s := &Session{
		options: options,
		output:  options.output,
		voice:   VoiceIdle,
	}

	callbackEmit := newCallbackEventEmitter(options)
	s.emit = func(event events.Event) {
		callbackEmit(event)
		if options.eventHandler != nil {
			options.eventHandler(event)
		}
	}

	// Pipeline events double as reconciliation triggers: whenever capture or
	// playback transitions, the voice state is recomputed from their state.
	pipelineEmit := func(event events.Event) {
		s.emit(event)
		s.reconcileVoice()
	}

	s.playback = newPlaybackPipeline(options.output, pipelineEmit)
	s.capture = newCapturePipeline(options.acquireInput, options.minRecording, pipelineEmit, s.sendPayload)

	clientOptions := append([]realtime.Option{}, options.clientOptions...)
	clientOptions = append(clientOptions,
		realtime.WithStateChangedCallback(s.handleConnectionState),
		realtime.WithAudioDeltaCallback(s.handleAudioDelta),
		realtime.WithResponseStartedCallback(s.handleResponseStarted),
		realtime.WithNoAudioCallback(s.handleNoAudio),
		realtime.WithSystemMessageCallback(s.handleSystemMessage),
		realtime.WithServerErrorCallback(s.handleServerError),
		realtime.WithReconnectingCallback(s.handleReconnecting),
		realtime.WithConnectionLostCallback(s.handleConnectionLost),
	)
	s.client = realtime.NewClient(endpoint, sessionID, clientOptions...)

	return s
}

// Connect opens the connection to the voice service. A no-op if already
// connected or connecting.
func (s *Session) Connect(ctx context.Context) error {
	return s.client.Connect(ctx)
}

// Close tears the session down: the connection is closed without
// reconnection, the input device is released and playback is stopped.
// Idempotent; later calls return the first result.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.playback.Stop()

		errs := []error{s.client.Close(), s.capture.Release()}
		if s.output != nil {
			errs = append(errs, s.output.Close())
		}
		s.closeErr = errors.Join(errs...)

		s.setVoice(VoiceIdle)
	})
	return s.closeErr
}

// StartRecording begins capturing a new recording. The input device is
// acquired on first use.
func (s *Session) StartRecording(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "start recording")
	defer span.End()

	if err := s.capture.StartRecording(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// StopRecording finalizes the current recording and, if it validates, sends
// its payload to the voice service.
func (s *Session) StopRecording() error {
	return s.capture.StopRecording()
}

// StopPlayback discards all queued response audio and halts whatever is
// currently sounding.
func (s *Session) StopPlayback() {
	s.playback.Stop()
}

// PendingAudio returns a copy of the response segments queued for playback.
func (s *Session) PendingAudio() []audio.Segment {
	return s.playback.Pending()
}

// State assembles a point-in-time view across the connection, capture and
// voice state machines.
func (s *Session) State() State {
	s.mu.Lock()
	voice := s.voice
	s.mu.Unlock()

	return State{
		Connection: s.client.State(),
		Capture:    s.capture.State(),
		Voice:      voice,
	}
}

// sendPayload forwards one finalized recording to the voice service. A send
// failure is reported but does not disturb capture state; the recording is
// simply lost.
func (s *Session) sendPayload(recordingID, base64Audio string) {
	if err := s.client.SendAudio(base64Audio); err != nil {
		logger.Warn("failed to send recording payload", "recordingID", recordingID, "error", err)
		if s.options.onSessionError != nil {
			s.options.onSessionError(err)
		}
	}
}

func (s *Session) handleConnectionState(state realtime.ConnectionState) {
	s.emit(events.NewConnectionStateChanged(string(state)))
	if state == realtime.StateError {
		s.forceIdle()
	}
}

// handleAudioDelta resamples an inbound segment from the wire rate to the
// output device rate and schedules it.
func (s *Session) handleAudioDelta(segment audio.Segment) {
	target := audio.DeviceSampleRate
	if s.output != nil {
		target = s.output.EncodingInfo().SampleRate
	}
	if segment.SampleRate != target {
		segment = audio.NewSegment(audio.Resample(segment.Samples, segment.SampleRate, target), target)
	}
	s.playback.Enqueue(segment)
}

// handleResponseStarted flushes stale playback so a new response never mixes
// with the tail of the previous one.
func (s *Session) handleResponseStarted() {
	s.playback.Stop()
}

func (s *Session) handleNoAudio() {
	s.emit(events.NewNoAudioResponse())
	s.forceIdle()
}

func (s *Session) handleSystemMessage(message string) {
	s.emit(events.NewServerSystemMessage(message))
}

func (s *Session) handleServerError(message string) {
	s.emit(events.NewServerError(message))
	s.forceIdle()
}

func (s *Session) handleReconnecting(attempt int, delay time.Duration) {
	s.emit(events.NewConnectionReconnecting(attempt, delay.Milliseconds()))
}

func (s *Session) handleConnectionLost(err error) {
	s.emit(events.NewConnectionLost(err))
	s.forceIdle()
}

// reconcileVoice recomputes the voice state from what the pipelines report:
// speaking while playback is active, listening while a recording is running,
// idle otherwise.
func (s *Session) reconcileVoice() {
	voice := VoiceIdle
	if s.playback.IsActive() {
		voice = VoiceSpeaking
	} else if s.capture.State() == CaptureRecording {
		voice = VoiceListening
	}
	s.setVoice(voice)
}

// forceIdle stops playback and pins the voice state to idle, overriding
// whatever the pipelines report. Used for error and no-audio paths where the
// session should visibly settle.
func (s *Session) forceIdle() {
	s.playback.Stop()
	s.setVoice(VoiceIdle)
}

func (s *Session) setVoice(voice VoiceState) {
	s.mu.Lock()
	changed := s.voice != voice
	s.voice = voice
	s.mu.Unlock()

	if changed {
		s.emit(events.NewVoiceStateChanged(string(voice)))
	}
}
