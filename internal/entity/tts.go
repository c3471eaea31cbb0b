package entity

// TTSRequest is the generate_speech request body.
type TTSRequest struct {
	Text    string `json:"text"`
	VoiceID int    `json:"voice_id"`
	Stream  bool   `json:"stream"`
}

// TTSResponse is the non-streaming generate_speech response body.
type TTSResponse struct {
	AudioURL string  `json:"audio_url"`
	Duration float64 `json:"duration"`
	Text     string  `json:"text"`
}
