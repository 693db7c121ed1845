package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"papercast/internal/config"
	"papercast/internal/logger"
	"papercast/internal/scrape"
	"papercast/internal/script"
)

var scriptCmd = &cobra.Command{
	Use:   "script [text-file]",
	Short: "Generate a podcast script from extracted text",
	Long: `Turn extracted document or article text into a conversational podcast
script with a host, an expert and a guest.

The input is a plain text or markdown file, typically produced by the
extract or scrape commands. With --url the source article is fetched and
extracted directly instead of reading a file.

The generated script is a JSON document with a title, introduction,
speaker-attributed segments and a conclusion.

Required environment variables:
  SARVAM_API_KEY - API subscription key for the Sarvam platform`,
	Example: `  # Generate a script from extracted text
  papercast script extracted.md -o script.json

  # Generate a Hindi script directly from a web article
  papercast script --url https://example.com/post --language hi-IN -o script.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(scriptCmd)

	scriptCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	scriptCmd.Flags().StringP("language", "l", "en-IN", "Script language code")
	scriptCmd.Flags().String("url", "", "Fetch source text from a web page instead of a file")
	scriptCmd.Flags().Int("timeout", 300, "Generation timeout in seconds")
}

func runScript(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("script")

	outputPath, _ := cmd.Flags().GetString("output")
	language, _ := cmd.Flags().GetString("language")
	sourceURL, _ := cmd.Flags().GetString("url")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	if sourceURL == "" && len(args) == 0 {
		return fmt.Errorf("provide a text file argument or --url")
	}
	if sourceURL != "" && len(args) > 0 {
		return fmt.Errorf("provide either a text file or --url, not both")
	}

	cfg, err := config.Load()
	if err != nil {
		return configError(err, log)
	}

	ctx, cancel := createContextWithTimeout(timeoutSecs, log)
	defer cancel()

	var text string
	if sourceURL != "" {
		log.Info().
			Str("url", sourceURL).
			Msg("Fetching source article")

		article, err := scrape.NewFetcher().Fetch(ctx, sourceURL)
		if err != nil {
			return fmt.Errorf("failed to extract article: %w", err)
		}
		text = article.Text
	} else {
		data, err := os.ReadFile(args[0])
		if err != nil {
			log.Error().
				Err(err).
				Str("file", args[0]).
				Msg("Failed to read source file")
			return fmt.Errorf("failed to read source file: %w", err)
		}
		text = string(data)
	}

	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("source text is empty")
	}

	log.Info().
		Int("source_length", len(text)).
		Str("language", language).
		Msg("Generating podcast script")

	generator, err := createScriptGenerator(cfg)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create script generator")
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

	outputData, err := json.MarshalIndent(podcastScript, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to create JSON output: %w", err)
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, outputData, 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		log.Info().
			Str("output_file", outputPath).
			Msg("Script written to file")
		return nil
	}

	if _, err := os.Stdout.Write(outputData); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	fmt.Println()
	return nil
}

// createScriptGenerator wires the chat completion generator from config.
func createScriptGenerator(cfg *config.Config) (*script.Generator, error) {
	return script.NewGenerator(script.Config{
		APIKey:  cfg.SarvamAPIKey,
		BaseURL: cfg.SarvamBaseURL + "/v1",
		Model:   cfg.ChatModel,
	})
}
