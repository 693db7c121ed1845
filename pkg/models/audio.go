package models

// AudioSegment is one synthesized span of the episode: the text that was
// spoken, the voice that spoke it, and the encoded WAV payload. Payloads
// are held in memory only for the duration of one generation request.
type AudioSegment struct {
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
	Audio   []byte `json:"-"`
}
