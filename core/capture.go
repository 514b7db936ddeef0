package voicesession

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kunalbhatia18/VoxInbox-sub001/core/audio"
	"github.com/kunalbhatia18/VoxInbox-sub001/core/events"
)

// AudioInput is the injected input device capability.
type AudioInput interface {
	StartCapture(ctx context.Context, onAudio func(audio []byte)) error
	StopCapture() error
	EncodingInfo() audio.EncodingInfo
	Close() error
}

// InputDeviceFunc acquires an input device. Acquisition is deferred to the
// first recording and the device is reused across recordings until Release.
type InputDeviceFunc func(ctx context.Context) (AudioInput, error)

const defaultMinRecordingDuration = 200 * time.Millisecond

// capturePipeline owns microphone acquisition and the
// idle-recording-processing state machine, accumulating raw fragments and
// encoding each finished recording into one wire payload.
type capturePipeline struct {
	acquire      InputDeviceFunc
	minDuration  time.Duration
	wireEncoding audio.EncodingInfo

	emit eventEmitter
	// onPayload receives the single encoded payload of each recording.
	onPayload func(recordingID, base64Audio string)

	mu          sync.Mutex
	state       CaptureState
	device      AudioInput
	recordingID string
	fragments   [][]byte
}

func newCapturePipeline(acquire InputDeviceFunc, minDuration time.Duration, emit eventEmitter, onPayload func(string, string)) *capturePipeline {
	if emit == nil {
		emit = noopEventEmitter
	}
	if onPayload == nil {
		onPayload = func(string, string) {}
	}
	if minDuration <= 0 {
		minDuration = defaultMinRecordingDuration
	}
	return &capturePipeline{
		acquire:      acquire,
		minDuration:  minDuration,
		wireEncoding: audio.GetWireEncodingInfo(),
		emit:         emit,
		onPayload:    onPayload,
		state:        CaptureIdle,
	}
}

// StartRecording begins a new recording session. A no-op success while
// already recording; fails while the previous recording is still processing.
// The input device is acquired lazily on first use and reused afterwards.
func (c *capturePipeline) StartRecording(ctx context.Context) error {
	c.mu.Lock()
	switch c.state {
	case CaptureRecording:
		c.mu.Unlock()
		return nil
	case CaptureProcessing:
		c.mu.Unlock()
		return ErrCaptureBusy
	}
	device := c.device
	c.mu.Unlock()

	if device == nil {
		if c.acquire == nil {
			return fmt.Errorf("%w: no input device configured", ErrDeviceUnavailable)
		}
		acquired, err := c.acquire(ctx)
		if err != nil || acquired == nil {
			return fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
		}
		c.mu.Lock()
		c.device = acquired
		device = acquired
		c.mu.Unlock()
	}

	c.mu.Lock()
	if c.state != CaptureIdle {
		c.mu.Unlock()
		return nil
	}
	c.state = CaptureRecording
	c.recordingID = uuid.NewString()
	c.fragments = nil
	recordingID := c.recordingID
	c.mu.Unlock()

	if err := device.StartCapture(ctx, c.appendFragment); err != nil {
		c.mu.Lock()
		c.state = CaptureIdle
		c.mu.Unlock()
		return fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}

	c.emit(events.NewCaptureStarted(recordingID))
	return nil
}

// appendFragment buffers one raw device fragment in arrival order. The
// device owns its callback buffer, so the fragment is copied.
func (c *capturePipeline) appendFragment(fragment []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != CaptureRecording {
		return
	}
	buffered := make([]byte, len(fragment))
	copy(buffered, fragment)
	c.fragments = append(c.fragments, buffered)
}

// StopRecording finalizes the current recording into one wire payload. A
// no-op if nothing is recording. On validation or processing failure no
// payload is produced and capture returns to idle.
func (c *capturePipeline) StopRecording() error {
	c.mu.Lock()
	if c.state != CaptureRecording {
		c.mu.Unlock()
		return nil
	}
	c.state = CaptureProcessing
	recordingID := c.recordingID
	fragments := c.fragments
	c.fragments = nil
	device := c.device
	c.mu.Unlock()

	if err := device.StopCapture(); err != nil {
		logger.Warn("failed to stop capture device", "error", err)
	}
	c.emit(events.NewCaptureStopped(recordingID))

	payload, err := c.process(device.EncodingInfo(), fragments)

	c.mu.Lock()
	c.state = CaptureIdle
	c.mu.Unlock()

	if err != nil {
		c.emit(events.NewCaptureFailed(recordingID, err))
		return err
	}

	c.emit(events.NewCapturePayloadReady(recordingID, payload))
	c.onPayload(recordingID, payload)
	return nil
}

// process converts buffered fragments into a single base64 PCM16 payload at
// the wire rate.
func (c *capturePipeline) process(deviceEncoding audio.EncodingInfo, fragments [][]byte) (string, error) {
	total := 0
	for _, fragment := range fragments {
		total += len(fragment)
	}
	if total < deviceEncoding.DurationBytes(c.minDuration) {
		return "", fmt.Errorf("%w: %v of audio required", ErrRecordingTooShort, c.minDuration)
	}

	blob := make([]byte, 0, total)
	for _, fragment := range fragments {
		blob = append(blob, fragment...)
	}

	samples, err := audio.DecodePCM16(blob)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProcessingFailed, err)
	}
	resampled := audio.Resample(samples, deviceEncoding.SampleRate, c.wireEncoding.SampleRate)
	return audio.ToBase64(audio.EncodePCM16(resampled)), nil
}

// State reports the current capture state.
func (c *capturePipeline) State() CaptureState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Release stops device tracks and clears acquisition state. Idempotent; the
// next recording reacquires the device.
func (c *capturePipeline) Release() error {
	c.mu.Lock()
	device := c.device
	c.device = nil
	c.state = CaptureIdle
	c.fragments = nil
	c.mu.Unlock()

	if device == nil {
		return nil
	}
	if err := device.StopCapture(); err != nil {
		logger.Warn("failed to stop capture device during release", "error", err)
	}
	return device.Close()
}
