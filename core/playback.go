package voicesession

import (
	"sync"
	"time"

	"github.com/jinzhu/copier"
	"github.com/kunalbhatia18/VoxInbox-sub001/core/audio"
	"github.com/kunalbhatia18/VoxInbox-sub001/core/events"
)

// AudioOutput is the injected output device capability. Now reports the
// position of the device clock; PlayAt schedules a segment to start at a
// clock position and invokes done when its output finishes; Halt best-effort
// stops whatever is currently sounding.
type AudioOutput interface {
	EncodingInfo() audio.EncodingInfo
	Now() time.Duration
	PlayAt(segment audio.Segment, at time.Duration, done func()) error
	Halt()
	Close() error
}

// playbackPipeline owns the FIFO of decoded segments and the monotonic
// next-play cursor against the output device clock. Segment start times are
// derived from the cumulative duration of prior segments, not arrival time,
// so playback stays gapless under uneven network timing.
type playbackPipeline struct {
	output AudioOutput
	emit   eventEmitter

	mu     sync.Mutex
	queue  []audio.Segment
	cursor time.Duration
	active bool
	// generation invalidates in-flight done callbacks across Stop so a
	// halted segment cannot resurrect the drained queue.
	generation uint64
}

func newPlaybackPipeline(output AudioOutput, emit eventEmitter) *playbackPipeline {
	if emit == nil {
		emit = noopEventEmitter
	}
	return &playbackPipeline{output: output, emit: emit}
}

// Enqueue appends a segment and starts playback if it is not in progress.
// The started event fires once per idle-to-active transition, not per
// segment.
func (p *playbackPipeline) Enqueue(segment audio.Segment) {
	if p.output == nil {
		logger.Warn("no audio output configured, dropping segment")
		return
	}

	p.mu.Lock()
	p.queue = append(p.queue, segment)
	if p.active {
		p.mu.Unlock()
		return
	}
	p.active = true
	if now := p.output.Now(); now > p.cursor {
		p.cursor = now
	}
	p.mu.Unlock()

	p.emit(events.NewPlaybackStarted())
	p.playNext()
}

// playNext dequeues and schedules the head segment at the cursor. Dequeue
// and cursor advance happen under the lock so a concurrent Enqueue cannot
// race the cursor update.
func (p *playbackPipeline) playNext() {
	for {
		p.mu.Lock()
		if len(p.queue) == 0 {
			p.active = false
			p.mu.Unlock()
			p.emit(events.NewPlaybackEnded())
			return
		}
		segment := p.queue[0]
		p.queue = p.queue[1:]
		at := p.cursor
		p.cursor += segment.Duration()
		generation := p.generation
		p.mu.Unlock()

		err := p.output.PlayAt(segment, at, func() {
			p.mu.Lock()
			stale := generation != p.generation
			p.mu.Unlock()
			if !stale {
				p.playNext()
			}
		})
		if err == nil {
			return
		}

		// A rejected segment must not stall the queue; report and move on.
		p.emit(events.NewPlaybackSegmentSkipped(err))
	}
}

// Stop clears the queue, halts the sounding segment and resets the cursor to
// zero. Safe to call from any state; a later Enqueue starts from "now".
func (p *playbackPipeline) Stop() {
	p.mu.Lock()
	wasActive := p.active
	p.queue = nil
	p.active = false
	p.cursor = 0
	p.generation++
	p.mu.Unlock()

	if p.output != nil {
		p.output.Halt()
	}
	if wasActive {
		p.emit(events.NewPlaybackEnded())
	}
}

// IsActive reports whether segments are queued or currently sounding.
func (p *playbackPipeline) IsActive() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

// Pending returns a deep copy of the queued segments. Queued segments are
// owned exclusively by the queue, so observers get copies rather than
// aliases of the sample buffers.
func (p *playbackPipeline) Pending() []audio.Segment {
	p.mu.Lock()
	defer p.mu.Unlock()

	pending := make([]audio.Segment, 0, len(p.queue))
	if err := copier.CopyWithOption(&pending, &p.queue, copier.Option{DeepCopy: true}); err != nil {
		logger.Warn("failed to copy pending segments", "error", err)
		return nil
	}
	return pending
}

// Cursor reports the earliest device clock position the next segment may
// start at.
func (p *playbackPipeline) Cursor() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cursor
}
