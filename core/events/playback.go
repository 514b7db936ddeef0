package events

const (
	// KindPlaybackStarted identifies the idle-to-active playback transition.
	KindPlaybackStarted Kind = "playback.started"
	// KindPlaybackEnded identifies the active-to-idle playback transition.
	KindPlaybackEnded Kind = "playback.ended"
	// KindPlaybackSegmentSkipped identifies a segment the output device rejected.
	KindPlaybackSegmentSkipped Kind = "playback.segment_skipped"
)

// PlaybackStarted marks the start of output playback. Emitted once per
// idle-to-active transition, not once per segment.
type PlaybackStarted struct{ Base }

// NewPlaybackStarted creates a playback started event.
func NewPlaybackStarted() PlaybackStarted {
	return PlaybackStarted{Base: NewBase(KindPlaybackStarted)}
}

// PlaybackEnded marks the playback queue draining to empty.
type PlaybackEnded struct{ Base }

// NewPlaybackEnded creates a playback ended event.
func NewPlaybackEnded() PlaybackEnded {
	return PlaybackEnded{Base: NewBase(KindPlaybackEnded)}
}

// PlaybackSegmentSkipped marks a segment that failed to schedule; playback
// continues with the next segment.
type PlaybackSegmentSkipped struct {
	Base
	Err error
}

// NewPlaybackSegmentSkipped creates a playback segment skipped event.
func NewPlaybackSegmentSkipped(err error) PlaybackSegmentSkipped {
	return PlaybackSegmentSkipped{Base: NewBase(KindPlaybackSegmentSkipped), Err: err}
}
