package tts

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"papercast/internal/audio"
	"papercast/internal/logger"
	"papercast/pkg/models"
)

// VoiceSelection maps script speaker names (Host, Expert, Guest) to TTS
// voice identifiers.
type VoiceSelection map[string]string

// DefaultVoices returns the default role-to-voice assignment.
func DefaultVoices() VoiceSelection {
	return VoiceSelection{
		"Host":   "aditya",
		"Expert": "vidya",
		"Guest":  "rahul",
	}
}

// fallbackVoice speaks any role without an assignment.
const fallbackVoice = "aditya"

// Synthesizer turns a whole podcast script into ordered audio segments and
// one merged WAV container.
type Synthesizer struct {
	service SpeechService
	log     zerolog.Logger

	// Pace and Temperature apply to every span.
	Pace        float64
	Temperature float64
}

// NewSynthesizer creates a script synthesizer with the reference pace and
// temperature.
func NewSynthesizer(service SpeechService) *Synthesizer {
	return &Synthesizer{
		service:     service,
		log:         logger.WithComponent("tts"),
		Pace:        1.0,
		Temperature: 0.6,
	}
}

// SynthesizeScript voices the script strictly in order: introduction, each
// body segment, then conclusion. Spans run sequentially; the first failure
// aborts the whole request naming the failing segment, because a gap in the
// middle of a sequential narrative cannot be recovered.
//
// Returns the ordered per-segment payloads and the merged container.
func (s *Synthesizer) SynthesizeScript(ctx context.Context, script *models.PodcastScript, language string, voices VoiceSelection) ([]models.AudioSegment, []byte, error) {
	if voices == nil {
		voices = DefaultVoices()
	}

	spans := make([]models.PodcastSegment, 0, script.SegmentCount())
	spans = append(spans, models.PodcastSegment{Speaker: "Host", Text: script.Introduction})
	spans = append(spans, script.Segments...)
	spans = append(spans, models.PodcastSegment{Speaker: "Host", Text: script.Conclusion})

	segments := make([]models.AudioSegment, 0, len(spans))
	payloads := make([][]byte, 0, len(spans))

	for i, span := range spans {
		text := strings.TrimSpace(span.Text)
		if text == "" {
			continue
		}

		voice, ok := voices[span.Speaker]
		if !ok {
			voice = fallbackVoice
		}

		s.log.Info().
			Int("segment", i+1).
			Int("total", len(spans)).
			Str("speaker", span.Speaker).
			Str("voice", voice).
			Int("chars", len(text)).
			Msg("Synthesizing segment")

		wav, err := s.service.Synthesize(ctx, text, language, voice, s.Pace, s.Temperature)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to synthesize segment %d of %d: %w", i+1, len(spans), err)
		}

		segments = append(segments, models.AudioSegment{
			Speaker: voice,
			Text:    text,
			Audio:   wav,
		})
		payloads = append(payloads, wav)
	}

	merged, err := audio.Merge(payloads)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to merge audio segments: %w", err)
	}

	s.log.Info().
		Int("segments", len(segments)).
		Int("bytes", len(merged)).
		Msg("Podcast audio generated")

	return segments, merged, nil
}
