package voicesession

import (
	"sync"
	"testing"
	"time"

	"github.com/kunalbhatia18/VoxInbox-sub001/core/audio"
	"github.com/kunalbhatia18/VoxInbox-sub001/core/events"
)

type scheduledPlay struct {
	segment audio.Segment
	at      time.Duration
	done    func()
}

type fakeOutput struct {
	mu        sync.Mutex
	clock     time.Duration
	plays     []scheduledPlay
	halts     int
	closed    bool
	playError error
}

func (f *fakeOutput) EncodingInfo() audio.EncodingInfo {
	return audio.GetDeviceEncodingInfo()
}

func (f *fakeOutput) Now() time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.clock
}

func (f *fakeOutput) PlayAt(segment audio.Segment, at time.Duration, done func()) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.playError != nil {
		err := f.playError
		f.playError = nil
		return err
	}
	f.plays = append(f.plays, scheduledPlay{segment: segment, at: at, done: done})
	return nil
}

func (f *fakeOutput) Halt() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.halts++
}

func (f *fakeOutput) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeOutput) playCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.plays)
}

func (f *fakeOutput) playAt(i int) scheduledPlay {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.plays[i]
}

type eventLog struct {
	mu     sync.Mutex
	events []events.Event
}

func (l *eventLog) emit(event events.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
}

func (l *eventLog) countStarted() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	count := 0
	for _, event := range l.events {
		if _, ok := event.(events.PlaybackStarted); ok {
			count++
		}
	}
	return count
}

func (l *eventLog) countEnded() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	count := 0
	for _, event := range l.events {
		if _, ok := event.(events.PlaybackEnded); ok {
			count++
		}
	}
	return count
}

func deviceSegment(d time.Duration) audio.Segment {
	samples := make([]float32, int(float64(audio.DeviceSampleRate)*d.Seconds()))
	return audio.NewSegment(samples, audio.DeviceSampleRate)
}

func TestPlaybackSchedulesSegmentsBackToBack(t *testing.T) {
	output := &fakeOutput{}
	log := &eventLog{}
	pipeline := newPlaybackPipeline(output, log.emit)

	first := deviceSegment(time.Second)
	second := deviceSegment(500 * time.Millisecond)

	pipeline.Enqueue(first)
	pipeline.Enqueue(second)

	if output.playCount() != 1 {
		t.Fatalf("expected one scheduled segment while the first plays, got %d", output.playCount())
	}
	if got := output.playAt(0).at; got != 0 {
		t.Fatalf("expected first segment at clock zero, got %v", got)
	}

	output.playAt(0).done()

	if output.playCount() != 2 {
		t.Fatalf("expected second segment scheduled after the first completed, got %d", output.playCount())
	}
	if got := output.playAt(1).at; got != time.Second {
		t.Fatalf("expected second segment at the first's end, got %v", got)
	}

	if !pipeline.IsActive() {
		t.Fatal("expected playback to be active while a segment is scheduled")
	}

	output.playAt(1).done()

	if pipeline.IsActive() {
		t.Fatal("expected playback to go inactive after the queue drained")
	}
	if got := pipeline.Cursor(); got != 1500*time.Millisecond {
		t.Fatalf("expected cursor at cumulative duration, got %v", got)
	}
}

func TestPlaybackEmitsStartedAndEndedOncePerRun(t *testing.T) {
	output := &fakeOutput{}
	log := &eventLog{}
	pipeline := newPlaybackPipeline(output, log.emit)

	pipeline.Enqueue(deviceSegment(time.Second))
	pipeline.Enqueue(deviceSegment(time.Second))

	if got := log.countStarted(); got != 1 {
		t.Fatalf("expected a single started event per run, got %d", got)
	}

	output.playAt(0).done()
	output.playAt(1).done()

	if got := log.countEnded(); got != 1 {
		t.Fatalf("expected a single ended event after the queue drained, got %d", got)
	}
}

func TestPlaybackStartsFromCurrentClockWhenIdle(t *testing.T) {
	output := &fakeOutput{clock: 3 * time.Second}
	pipeline := newPlaybackPipeline(output, nil)

	pipeline.Enqueue(deviceSegment(time.Second))

	if got := output.playAt(0).at; got != 3*time.Second {
		t.Fatalf("expected playback to start from the device clock, got %v", got)
	}
}

func TestPlaybackStopClearsQueueAndResetsCursor(t *testing.T) {
	output := &fakeOutput{}
	log := &eventLog{}
	pipeline := newPlaybackPipeline(output, log.emit)

	pipeline.Enqueue(deviceSegment(time.Second))
	pipeline.Enqueue(deviceSegment(time.Second))
	pipeline.Stop()

	if output.halts != 1 {
		t.Fatalf("expected the output to be halted once, got %d", output.halts)
	}
	if pipeline.IsActive() {
		t.Fatal("expected playback to be inactive after stop")
	}
	if got := pipeline.Cursor(); got != 0 {
		t.Fatalf("expected cursor reset to zero, got %v", got)
	}
	if got := log.countEnded(); got != 1 {
		t.Fatalf("expected an ended event on stop while active, got %d", got)
	}
	if got := len(pipeline.Pending()); got != 0 {
		t.Fatalf("expected no pending segments after stop, got %d", got)
	}
}

func TestPlaybackStaleCompletionAfterStopIsIgnored(t *testing.T) {
	output := &fakeOutput{}
	log := &eventLog{}
	pipeline := newPlaybackPipeline(output, log.emit)

	pipeline.Enqueue(deviceSegment(time.Second))
	pipeline.Enqueue(deviceSegment(time.Second))
	stale := output.playAt(0).done

	pipeline.Stop()
	stale()

	if output.playCount() != 1 {
		t.Fatalf("expected no new segments scheduled by a stale completion, got %d", output.playCount())
	}
	if got := log.countEnded(); got != 1 {
		t.Fatalf("expected no extra ended events from a stale completion, got %d", got)
	}
}

func TestPlaybackSkipsRejectedSegmentAndContinues(t *testing.T) {
	output := &fakeOutput{playError: ErrDeviceUnavailable}
	log := &eventLog{}
	pipeline := newPlaybackPipeline(output, log.emit)

	pipeline.Enqueue(deviceSegment(time.Second))
	pipeline.Enqueue(deviceSegment(500 * time.Millisecond))

	// First segment was rejected, so only the second reached the device.
	if output.playCount() != 1 {
		t.Fatalf("expected the queue to continue past the rejected segment, got %d plays", output.playCount())
	}

	log.mu.Lock()
	skipped := 0
	for _, event := range log.events {
		if _, ok := event.(events.PlaybackSegmentSkipped); ok {
			skipped++
		}
	}
	log.mu.Unlock()
	if skipped != 1 {
		t.Fatalf("expected one skipped segment event, got %d", skipped)
	}
}

func TestPlaybackPendingReturnsCopies(t *testing.T) {
	output := &fakeOutput{}
	pipeline := newPlaybackPipeline(output, nil)

	segment := audio.NewSegment([]float32{0.1, 0.2}, audio.DeviceSampleRate)
	pipeline.Enqueue(segment)
	pipeline.Enqueue(audio.NewSegment([]float32{0.3, 0.4}, audio.DeviceSampleRate))

	pending := pipeline.Pending()
	if len(pending) != 1 {
		t.Fatalf("expected one queued segment behind the playing one, got %d", len(pending))
	}

	pending[0].Samples[0] = 0.9
	queued := pipeline.Pending()
	if queued[0].Samples[0] != 0.3 {
		t.Fatalf("expected queue to be isolated from returned copies, got %f", queued[0].Samples[0])
	}
}
