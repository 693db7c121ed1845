package models

// PodcastScript is a generated multi-speaker episode script. Segments are
// consumed strictly in order: Introduction, then Segments, then Conclusion.
type PodcastScript struct {
	Title        string           `json:"title"`
	Introduction string           `json:"introduction"`
	Segments     []PodcastSegment `json:"segments"`
	Conclusion   string           `json:"conclusion"`
}

// PodcastSegment is one speaker turn within the episode body.
type PodcastSegment struct {
	Speaker     string `json:"speaker"`
	SpeakerRole string `json:"speakerRole"`
	Text        string `json:"text"`
	Tone        string `json:"tone,omitempty"`
}

// SegmentCount returns the total number of spans the synthesizer will
// process for this script, introduction and conclusion included.
func (s *PodcastScript) SegmentCount() int {
	return len(s.Segments) + 2
}
