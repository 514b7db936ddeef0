package voicesession

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/kunalbhatia18/VoxInbox-sub001/core/audio"
	"github.com/kunalbhatia18/VoxInbox-sub001/core/events"
)

type fakeInput struct {
	mu       sync.Mutex
	onAudio  func([]byte)
	startErr error
	started  bool
	stops    int
	closed   bool
}

func (f *fakeInput) StartCapture(_ context.Context, onAudio func(audio []byte)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.startErr != nil {
		return f.startErr
	}
	f.onAudio = onAudio
	f.started = true
	return nil
}

func (f *fakeInput) StopCapture() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started = false
	f.stops++
	return nil
}

func (f *fakeInput) EncodingInfo() audio.EncodingInfo {
	return audio.GetDeviceEncodingInfo()
}

func (f *fakeInput) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeInput) feed(fragment []byte) {
	f.mu.Lock()
	onAudio := f.onAudio
	f.mu.Unlock()
	if onAudio != nil {
		onAudio(fragment)
	}
}

func acquireFake(input *fakeInput) InputDeviceFunc {
	return func(context.Context) (AudioInput, error) { return input, nil }
}

// deviceBytes builds raw PCM16 silence covering the given fraction of a
// second at the device rate.
func deviceBytes(sampleCount int) []byte {
	return audio.EncodePCM16(make([]float32, sampleCount))
}

func TestCaptureRecordingFlowProducesWirePayload(t *testing.T) {
	input := &fakeInput{}
	var payloads []string
	pipeline := newCapturePipeline(acquireFake(input), 0, nil, func(_, payload string) {
		payloads = append(payloads, payload)
	})

	if err := pipeline.StartRecording(context.Background()); err != nil {
		t.Fatalf("expected start to succeed, got %v", err)
	}
	if got := pipeline.State(); got != CaptureRecording {
		t.Fatalf("expected recording state, got %q", got)
	}

	// 200ms at the device rate, delivered in two fragments.
	input.feed(deviceBytes(audio.DeviceSampleRate / 10))
	input.feed(deviceBytes(audio.DeviceSampleRate / 10))

	if err := pipeline.StopRecording(); err != nil {
		t.Fatalf("expected stop to succeed, got %v", err)
	}
	if got := pipeline.State(); got != CaptureIdle {
		t.Fatalf("expected idle state after stop, got %q", got)
	}

	if len(payloads) != 1 {
		t.Fatalf("expected one payload, got %d", len(payloads))
	}

	data, err := audio.FromBase64(payloads[0])
	if err != nil {
		t.Fatalf("expected payload to be valid base64, got %v", err)
	}
	samples, err := audio.DecodePCM16(data)
	if err != nil {
		t.Fatalf("expected payload to be valid PCM16, got %v", err)
	}

	// 200ms resampled from the device rate down to the wire rate.
	expected := audio.WireSampleRate / 5
	if len(samples) != expected {
		t.Fatalf("expected %d wire samples, got %d", expected, len(samples))
	}
}

func TestCaptureTooShortRecordingIsDiscarded(t *testing.T) {
	input := &fakeInput{}
	log := &eventLog{}
	payloadDelivered := false
	pipeline := newCapturePipeline(acquireFake(input), 0, log.emit, func(_, _ string) {
		payloadDelivered = true
	})

	if err := pipeline.StartRecording(context.Background()); err != nil {
		t.Fatalf("expected start to succeed, got %v", err)
	}
	input.feed(deviceBytes(16))

	err := pipeline.StopRecording()
	if !errors.Is(err, ErrRecordingTooShort) {
		t.Fatalf("expected ErrRecordingTooShort, got %v", err)
	}
	if payloadDelivered {
		t.Fatal("expected no payload for a too-short recording")
	}
	if got := pipeline.State(); got != CaptureIdle {
		t.Fatalf("expected idle state after discard, got %q", got)
	}

	log.mu.Lock()
	defer log.mu.Unlock()
	failed := 0
	for _, event := range log.events {
		if _, ok := event.(events.CaptureFailed); ok {
			failed++
		}
	}
	if failed != 1 {
		t.Fatalf("expected one capture failed event, got %d", failed)
	}
}

func TestCaptureStartWhileRecordingIsNoOp(t *testing.T) {
	input := &fakeInput{}
	log := &eventLog{}
	pipeline := newCapturePipeline(acquireFake(input), 0, log.emit, nil)

	if err := pipeline.StartRecording(context.Background()); err != nil {
		t.Fatalf("expected start to succeed, got %v", err)
	}
	if err := pipeline.StartRecording(context.Background()); err != nil {
		t.Fatalf("expected repeated start to be a no-op, got %v", err)
	}

	log.mu.Lock()
	defer log.mu.Unlock()
	started := 0
	for _, event := range log.events {
		if _, ok := event.(events.CaptureStarted); ok {
			started++
		}
	}
	if started != 1 {
		t.Fatalf("expected a single capture started event, got %d", started)
	}
}

func TestCaptureStartWhileProcessingFails(t *testing.T) {
	input := &fakeInput{}
	pipeline := newCapturePipeline(acquireFake(input), 0, nil, nil)

	pipeline.mu.Lock()
	pipeline.state = CaptureProcessing
	pipeline.mu.Unlock()

	if err := pipeline.StartRecording(context.Background()); !errors.Is(err, ErrCaptureBusy) {
		t.Fatalf("expected ErrCaptureBusy, got %v", err)
	}
}

func TestCaptureStopWhileIdleIsNoOp(t *testing.T) {
	pipeline := newCapturePipeline(acquireFake(&fakeInput{}), 0, nil, nil)

	if err := pipeline.StopRecording(); err != nil {
		t.Fatalf("expected stop while idle to be a no-op, got %v", err)
	}
}

func TestCaptureAcquisitionFailureLeavesStateIdle(t *testing.T) {
	acquire := func(context.Context) (AudioInput, error) {
		return nil, errors.New("permission denied")
	}
	pipeline := newCapturePipeline(acquire, 0, nil, nil)

	err := pipeline.StartRecording(context.Background())
	if !errors.Is(err, ErrDeviceUnavailable) {
		t.Fatalf("expected ErrDeviceUnavailable, got %v", err)
	}
	if got := pipeline.State(); got != CaptureIdle {
		t.Fatalf("expected idle state after failed acquisition, got %q", got)
	}
}

func TestCaptureStartFailureLeavesStateIdle(t *testing.T) {
	input := &fakeInput{startErr: errors.New("device busy")}
	pipeline := newCapturePipeline(acquireFake(input), 0, nil, nil)

	err := pipeline.StartRecording(context.Background())
	if !errors.Is(err, ErrDeviceUnavailable) {
		t.Fatalf("expected ErrDeviceUnavailable, got %v", err)
	}
	if got := pipeline.State(); got != CaptureIdle {
		t.Fatalf("expected idle state after failed device start, got %q", got)
	}
}

func TestCaptureReusesAcquiredDevice(t *testing.T) {
	input := &fakeInput{}
	acquisitions := 0
	acquire := func(context.Context) (AudioInput, error) {
		acquisitions++
		return input, nil
	}
	pipeline := newCapturePipeline(acquire, 0, nil, nil)

	for i := 0; i < 2; i++ {
		if err := pipeline.StartRecording(context.Background()); err != nil {
			t.Fatalf("expected start to succeed, got %v", err)
		}
		input.feed(deviceBytes(audio.DeviceSampleRate / 5))
		if err := pipeline.StopRecording(); err != nil {
			t.Fatalf("expected stop to succeed, got %v", err)
		}
	}

	if acquisitions != 1 {
		t.Fatalf("expected the device to be acquired once, got %d", acquisitions)
	}
}

func TestCaptureReleaseClosesDevice(t *testing.T) {
	input := &fakeInput{}
	pipeline := newCapturePipeline(acquireFake(input), 0, nil, nil)

	if err := pipeline.StartRecording(context.Background()); err != nil {
		t.Fatalf("expected start to succeed, got %v", err)
	}
	if err := pipeline.Release(); err != nil {
		t.Fatalf("expected release to succeed, got %v", err)
	}

	if !input.closed {
		t.Fatal("expected the device to be closed on release")
	}
	if got := pipeline.State(); got != CaptureIdle {
		t.Fatalf("expected idle state after release, got %q", got)
	}

	if err := pipeline.Release(); err != nil {
		t.Fatalf("expected repeated release to be a no-op, got %v", err)
	}
}
