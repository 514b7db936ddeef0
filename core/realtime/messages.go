package realtime

// Wire message types consumed and produced by the client. The service speaks
// JSON text frames; audio travels base64-encoded inside them.

const (
	typeInputAudioAppend = "input_audio_buffer.append"
	typeInputAudioCommit = "input_audio_buffer.commit"
	typeResponseCreate   = "response.create"
	typeSessionUpdate    = "session.update"

	typeResponseCreated    = "response.created"
	typeResponseAudioDelta = "response.audio.delta"
	typeResponseAudioDone  = "response.audio.done"
	typeResponseDone       = "response.done"
	typeSystemMessage      = "system"
	typeErrorMessage       = "error"
)

// responseStatusCompleted is the terminal status of a successful response.
const responseStatusCompleted = "completed"

type envelope struct {
	Type string `json:"type"`
}

type appendAudioMessage struct {
	Type  string `json:"type"`
	Audio string `json:"audio"`
}

type commitMessage struct {
	Type string `json:"type"`
}

type responseCreateMessage struct {
	Type     string           `json:"type"`
	Response generationParams `json:"response"`
}

type generationParams struct {
	Modalities        []string `json:"modalities"`
	Instructions      string   `json:"instructions"`
	Voice             string   `json:"voice"`
	OutputAudioFormat string   `json:"output_audio_format"`
	Temperature       float64  `json:"temperature"`
	MaxOutputTokens   int      `json:"max_output_tokens"`
}

type audioDeltaMessage struct {
	Type  string `json:"type"`
	Delta string `json:"delta"`
}

type responseDoneMessage struct {
	Type     string `json:"type"`
	Response struct {
		Status string `json:"status"`
	} `json:"response"`
}

type systemMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type errorMessage struct {
	Type  string `json:"type"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}
