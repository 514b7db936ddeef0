package voicesession

import "github.com/kunalbhatia18/VoxInbox-sub001/core/realtime"

// CaptureState is the microphone recording state. Exactly one recording may
// be active; only the capture pipeline's own transitions drive it.
type CaptureState string

const (
	CaptureIdle       CaptureState = "idle"
	CaptureRecording  CaptureState = "recording"
	CaptureProcessing CaptureState = "processing"
)

// VoiceState is the reconciled user-facing voice state. Speaking holds
// exactly while playback is active; listening while a recording is running;
// any error or no-audio timeout forces idle.
type VoiceState string

const (
	VoiceIdle      VoiceState = "idle"
	VoiceListening VoiceState = "listening"
	VoiceSpeaking  VoiceState = "speaking"
)

// State is a point-in-time view across the three cooperating state machines.
// Observers never see an inconsistent combination: it is assembled under the
// session lock.
type State struct {
	Connection realtime.ConnectionState
	Capture    CaptureState
	Voice      VoiceState
}
