package cmd

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"

	"github.com/spf13/cobra"
	"papercast/internal/logger"
	"papercast/internal/scrape"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape [url]",
	Short: "Extract readable article text from a web page",
	Long: `Fetch a web page and extract its main article content.

The page is run through a readability extractor first; pages it cannot
handle fall back to a selector-based search over common content containers.
Navigation, scripts and other boilerplate are stripped from the result.`,
	Example: `  # Print article text to stdout
  papercast scrape https://example.com/blog/post

  # Save text to a file for script generation
  papercast scrape https://example.com/blog/post -o article.txt

  # Output title, word count and text as JSON
  papercast scrape https://example.com/blog/post --json`,
	Args: cobra.ExactArgs(1),
	RunE: runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	scrapeCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	scrapeCmd.Flags().Bool("json", false, "Output article metadata as JSON")
	scrapeCmd.Flags().Int("timeout", 60, "Fetch timeout in seconds")
}

func runScrape(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("scrape")

	outputPath, _ := cmd.Flags().GetString("output")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	pageURL := args[0]
	if _, err := url.ParseRequestURI(pageURL); err != nil {
		log.Error().
			Str("url", pageURL).
			Msg("Invalid URL")
		return fmt.Errorf("invalid URL: %s", pageURL)
	}

	log.Info().
		Str("url", pageURL).
		Msg("Fetching article")

	ctx, cancel := createContextWithTimeout(timeoutSecs, log)
	defer cancel()

	article, err := scrape.NewFetcher().Fetch(ctx, pageURL)
	if err != nil {
		log.Error().
			Err(err).
			Str("url", pageURL).
			Msg("Article extraction failed")
		return fmt.Errorf("failed to extract article: %w", err)
	}

	log.Info().
		Str("title", article.Title).
		Int("word_count", article.WordCount).
		Msg("Article extracted")

	var outputData []byte
	if jsonOutput {
		outputData, err = json.MarshalIndent(article, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to create JSON output: %w", err)
		}
	} else {
		outputData = []byte(article.Text)
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, outputData, 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		log.Info().
			Str("output_file", outputPath).
			Int("bytes", len(outputData)).
			Msg("Article written to file")
		return nil
	}

	if _, err := os.Stdout.Write(outputData); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if !jsonOutput {
		fmt.Println()
	}
	return nil
}
