package realtime

import (
	"time"

	"github.com/invopop/jsonschema"
	"github.com/kunalbhatia18/VoxInbox-sub001/internal/utils"
)

const (
	defaultVoice           = "alloy"
	defaultTemperature     = 0.6
	defaultMaxOutputTokens = 800
	defaultNoAudioTimeout  = 10 * time.Second

	defaultInstructions = "You are VoxInbox, a helpful voice assistant. " +
		"Give complete, natural responses. Be conversational but concise. " +
		"Always provide the full answer - don't cut off mid-sentence."
)

type sessionUpdateMessage struct {
	Type    string        `json:"type"`
	Session sessionConfig `json:"session"`
}

// sessionConfig is sent as session.update after every successful open so a
// reconnected session behaves exactly like the first one.
type sessionConfig struct {
	Modalities              []string       `json:"modalities"`
	Instructions            string         `json:"instructions"`
	Voice                   string         `json:"voice"`
	InputAudioFormat        string         `json:"input_audio_format"`
	OutputAudioFormat       string         `json:"output_audio_format"`
	TurnDetection           *turnDetection `json:"turn_detection,omitempty"`
	Tools                   []Tool         `json:"tools,omitempty"`
	ToolChoice              string         `json:"tool_choice,omitempty"`
	Temperature             float64        `json:"temperature"`
	MaxResponseOutputTokens int            `json:"max_response_output_tokens"`
}

type turnDetection struct {
	Type              string  `json:"type"`
	Threshold         float64 `json:"threshold"`
	PrefixPaddingMS   int     `json:"prefix_padding_ms"`
	SilenceDurationMS int     `json:"silence_duration_ms"`
}

func defaultSessionConfig() sessionConfig {
	return sessionConfig{
		Modalities:        []string{"text", "audio"},
		Instructions:      defaultInstructions,
		Voice:             defaultVoice,
		InputAudioFormat:  "pcm16",
		OutputAudioFormat: "pcm16",
		TurnDetection: utils.Ptr(turnDetection{
			Type:              "server_vad",
			Threshold:         0.8,
			PrefixPaddingMS:   300,
			SilenceDurationMS: 600,
		}),
		Temperature:             defaultTemperature,
		MaxResponseOutputTokens: defaultMaxOutputTokens,
	}
}

// Tool describes a function the service may invoke while generating a
// response. Execution happens outside this package; the definition only
// advertises the contract.
type Tool struct {
	Type        string             `json:"type"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Parameters  *jsonschema.Schema `json:"parameters,omitempty"`
}

// NewTool builds a tool definition, reflecting the parameter schema from the
// given struct value.
func NewTool(name, description string, parameters any) Tool {
	tool := Tool{Type: "function", Name: name, Description: description}
	if parameters != nil {
		reflector := jsonschema.Reflector{
			DoNotReference: true,
			Anonymous:      true,
		}
		schema := reflector.Reflect(parameters)
		schema.Version = ""
		tool.Parameters = schema
	}
	return tool
}
