// Package events defines the typed voice session event contract.
//
// Event kinds are grouped by receiver-facing namespaces:
//
//   - connection.*
//   - capture.*
//   - playback.*
//   - session.*
//
// connection events
//
//   - ConnectionStateChanged (connection.state_changed): the transport moved
//     between disconnected/connecting/connected/error.
//   - ConnectionReconnecting (connection.reconnecting): a reconnection attempt
//     was scheduled after a backoff delay.
//   - ConnectionLost (connection.lost): reconnection attempts are exhausted;
//     recovery requires external re-initiation.
//
// capture events
//
//   - CaptureStarted (capture.started): a microphone recording began.
//   - CaptureStopped (capture.stopped): the recording ended and entered
//     processing.
//   - CapturePayloadReady (capture.payload_ready): the recording was encoded
//     into one base64 PCM16 wire payload.
//   - CaptureFailed (capture.failed): the recording was discarded
//     (too short, or processing failed) and produced no payload.
//
// playback events
//
//   - PlaybackStarted (playback.started): output playback became active.
//   - PlaybackEnded (playback.ended): the playback queue drained to empty.
//   - PlaybackSegmentSkipped (playback.segment_skipped): the output device
//     rejected one segment; playback continued with the next.
//
// session events
//
//   - VoiceStateChanged (session.voice_state_changed): the reconciled voice
//     state moved between idle/listening/speaking.
//   - NoAudioResponse (session.no_audio_response): a response completed or
//     timed out without producing audio.
//   - ServerSystemMessage (session.server_system_message): system control
//     message forwarded verbatim.
//   - ServerError (session.server_error): error control message forwarded
//     verbatim.
package events
