package events

const (
	// KindCaptureStarted identifies the start of a microphone recording.
	KindCaptureStarted Kind = "capture.started"
	// KindCaptureStopped identifies the end of a microphone recording, before processing.
	KindCaptureStopped Kind = "capture.stopped"
	// KindCapturePayloadReady identifies a finished recording encoded into the wire format.
	KindCapturePayloadReady Kind = "capture.payload_ready"
	// KindCaptureFailed identifies a recording that produced no payload.
	KindCaptureFailed Kind = "capture.failed"
)

// CaptureStarted marks the start of a recording session.
type CaptureStarted struct {
	Base
	RecordingID string
}

// NewCaptureStarted creates a capture started event.
func NewCaptureStarted(recordingID string) CaptureStarted {
	return CaptureStarted{Base: NewBase(KindCaptureStarted), RecordingID: recordingID}
}

// CaptureStopped marks the end of a recording session.
type CaptureStopped struct {
	Base
	RecordingID string
}

// NewCaptureStopped creates a capture stopped event.
func NewCaptureStopped(recordingID string) CaptureStopped {
	return CaptureStopped{Base: NewBase(KindCaptureStopped), RecordingID: recordingID}
}

// CapturePayloadReady carries the base64 PCM16 payload of one finished recording.
type CapturePayloadReady struct {
	Base
	RecordingID string
	Audio       string
}

// NewCapturePayloadReady creates a capture payload ready event.
func NewCapturePayloadReady(recordingID, audio string) CapturePayloadReady {
	return CapturePayloadReady{Base: NewBase(KindCapturePayloadReady), RecordingID: recordingID, Audio: audio}
}

// CaptureFailed marks a recording that was discarded during processing.
type CaptureFailed struct {
	Base
	RecordingID string
	Err         error
}

// NewCaptureFailed creates a capture failed event.
func NewCaptureFailed(recordingID string, err error) CaptureFailed {
	return CaptureFailed{Base: NewBase(KindCaptureFailed), RecordingID: recordingID, Err: err}
}
