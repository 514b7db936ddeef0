package voicesession

import "errors"

var (
	// ErrDeviceUnavailable marks denied or unsupported input device
	// acquisition. Capture state is unchanged when this is returned.
	ErrDeviceUnavailable = errors.New("audio input device unavailable")
	// ErrRecordingTooShort marks a recording below the minimum duration; no
	// payload is produced and capture returns to idle.
	ErrRecordingTooShort = errors.New("recording too short")
	// ErrProcessingFailed marks a decode/encode failure while finalizing a
	// recording; capture returns to idle.
	ErrProcessingFailed = errors.New("failed to process recording")
	// ErrCaptureBusy marks a start attempted while the previous recording is
	// still being processed.
	ErrCaptureBusy = errors.New("previous recording still processing")
)
