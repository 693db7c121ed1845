package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"papercast/internal/config"
	"papercast/internal/logger"
	"papercast/internal/scrape"
	"papercast/internal/tts"
	"papercast/pkg/models"
)

var podcastCmd = &cobra.Command{
	Use:   "podcast [source]",
	Short: "Convert a PDF or web article into a podcast audio file",
	Long: `Run the full pipeline: extract text from the source, generate a
conversational podcast script, synthesize every segment with text-to-speech
and merge the audio into a single WAV file.

The source is a PDF file path or an http(s) URL. PDF sources go through the
Sarvam document digitization service; URLs go through the article extractor.

Required environment variables:
  SARVAM_API_KEY - API subscription key for the Sarvam platform`,
	Example: `  # Turn a report into a podcast
  papercast podcast report.pdf -o report.wav

  # Podcast from a blog post, in Hindi, keeping the script
  papercast podcast https://example.com/post --language hi-IN --save-script script.json`,
	Args: cobra.ExactArgs(1),
	RunE: runPodcast,
}

func init() {
	rootCmd.AddCommand(podcastCmd)

	podcastCmd.Flags().StringP("output", "o", "podcast.wav", "Output WAV file path")
	podcastCmd.Flags().StringP("language", "l", "en-IN", "Podcast language code")
	podcastCmd.Flags().String("save-script", "", "Also write the generated script JSON to this path")
	podcastCmd.Flags().String("host-voice", "", "Override the host speaker voice")
	podcastCmd.Flags().String("expert-voice", "", "Override the expert speaker voice")
	podcastCmd.Flags().String("guest-voice", "", "Override the guest speaker voice")
	podcastCmd.Flags().Float64("pace", 1.0, "Speech pace multiplier")
	podcastCmd.Flags().Float64("temperature", 0.6, "Speech expressiveness")
	podcastCmd.Flags().Int("timeout", 1800, "Pipeline timeout in seconds")
}

func runPodcast(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("podcast")

	outputPath, _ := cmd.Flags().GetString("output")
	language, _ := cmd.Flags().GetString("language")
	scriptPath, _ := cmd.Flags().GetString("save-script")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	source := args[0]

	cfg, err := config.Load()
	if err != nil {
		return configError(err, log)
	}

	ctx, cancel := createContextWithTimeout(timeoutSecs, log)
	defer cancel()

	log.Info().
		Str("source", source).
		Str("language", language).
		Str("output", outputPath).
		Msg("Starting podcast pipeline")

	// Stage 1: source text.
	text, err := sourceText(ctx, cfg, source, language, log)
	if err != nil {
		return err
	}
	log.Info().
		Int("text_length", len(text)).
		Msg("Source text ready")

	// Stage 2: script generation.
	generator, err := createScriptGenerator(cfg)
	if err != nil {
		return fmt.Errorf("failed to create script generator: %w", err)
	}

	podcastScript, err := generator.Generate(ctx, text, language)
	if err != nil {
		log.Error().Err(err).Msg("Script generation failed")
		return fmt.Errorf("script generation failed: %w", err)
	}
	log.Info().
		Str("title", podcastScript.Title).
		Int("segments", podcastScript.SegmentCount()).
		Msg("Podcast script generated")

	if scriptPath != "" {
		if err := saveScript(podcastScript, scriptPath); err != nil {
			return err
		}
		log.Info().
			Str("script_file", scriptPath).
			Msg("Script written to file")
	}

	// Stage 3: speech synthesis and merge.
	ttsClient, err := tts.NewClient(tts.ClientConfig{
		APIKey:  cfg.SarvamAPIKey,
		BaseURL: cfg.SarvamBaseURL,
		Model:   cfg.TTSModel,
	})
	if err != nil {
		return fmt.Errorf("failed to create TTS client: %w", err)
	}

	synthesizer := tts.NewSynthesizer(ttsClient)
	if pace, _ := cmd.Flags().GetFloat64("pace"); pace > 0 {
		synthesizer.Pace = pace
	}
	if temp, _ := cmd.Flags().GetFloat64("temperature"); temp > 0 {
		synthesizer.Temperature = temp
	}
	startTime := time.Now()

	segments, merged, err := synthesizer.SynthesizeScript(ctx, podcastScript, language, podcastVoices(cmd))
	if err != nil {
		log.Error().Err(err).Msg("Speech synthesis failed")
		return fmt.Errorf("speech synthesis failed: %w", err)
	}

	if err := os.WriteFile(outputPath, merged, 0644); err != nil {
		return fmt.Errorf("failed to write audio file: %w", err)
	}

	log.Info().
		Str("output_file", outputPath).
		Int("segments", len(segments)).
		Int("bytes", len(merged)).
		Dur("synthesis_duration", time.Since(startTime)).
		Msg("Podcast created")

	fmt.Printf("Podcast written to %s (%d segments, %d bytes)\n", outputPath, len(segments), len(merged))
	return nil
}

// sourceText extracts text from a PDF path or an article URL.
func sourceText(ctx context.Context, cfg *config.Config, source, language string, log zerolog.Logger) (string, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		article, err := scrape.NewFetcher().Fetch(ctx, source)
		if err != nil {
			log.Error().
				Err(err).
				Str("url", source).
				Msg("Article extraction failed")
			return "", fmt.Errorf("failed to extract article: %w", err)
		}
		return article.Text, nil
	}

	data, err := readPDFFile(source, log)
	if err != nil {
		return "", err
	}

	service, err := createExtractionService(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to create digitization service: %w", err)
	}

	result, err := service.ExtractText(ctx, data, language, models.FormatMarkdown)
	if err != nil {
		return "", handleExtractError(err, log)
	}
	return result.Text, nil
}

func saveScript(podcastScript *models.PodcastScript, path string) error {
	data, err := json.MarshalIndent(podcastScript, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal script: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write script file: %w", err)
	}
	return nil
}

// podcastVoices applies voice override flags on top of the defaults.
func podcastVoices(cmd *cobra.Command) tts.VoiceSelection {
	voices := tts.DefaultVoices()
	for role, flag := range map[string]string{
		"Host":   "host-voice",
		"Expert": "expert-voice",
		"Guest":  "guest-voice",
	} {
		if v, _ := cmd.Flags().GetString(flag); v != "" {
			voices[role] = v
		}
	}
	return voices
}
