package events

const (
	// KindVoiceStateChanged identifies transitions of the reconciled voice state.
	KindVoiceStateChanged Kind = "session.voice_state_changed"
	// KindNoAudioResponse identifies a response that completed or timed out without audio.
	KindNoAudioResponse Kind = "session.no_audio_response"
	// KindServerSystemMessage identifies a system control message forwarded verbatim.
	KindServerSystemMessage Kind = "session.server_system_message"
	// KindServerError identifies an error control message forwarded verbatim.
	KindServerError Kind = "session.server_error"
)

// VoiceStateChanged carries the new reconciled voice state.
type VoiceStateChanged struct {
	Base
	State string
}

// NewVoiceStateChanged creates a voice state changed event.
func NewVoiceStateChanged(state string) VoiceStateChanged {
	return VoiceStateChanged{Base: NewBase(KindVoiceStateChanged), State: state}
}

// NoAudioResponse marks the heuristic inference that a response intended to
// include audio but never produced any.
type NoAudioResponse struct{ Base }

// NewNoAudioResponse creates a no audio response event.
func NewNoAudioResponse() NoAudioResponse {
	return NoAudioResponse{Base: NewBase(KindNoAudioResponse)}
}

// ServerSystemMessage carries a system control message from the service.
type ServerSystemMessage struct {
	Base
	Message string
}

// NewServerSystemMessage creates a server system message event.
func NewServerSystemMessage(message string) ServerSystemMessage {
	return ServerSystemMessage{Base: NewBase(KindServerSystemMessage), Message: message}
}

// ServerError carries an error control message from the service.
type ServerError struct {
	Base
	Message string
}

// NewServerError creates a server error event.
func NewServerError(message string) ServerError {
	return ServerError{Base: NewBase(KindServerError), Message: message}
}
