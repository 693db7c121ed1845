package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"papercast/internal/config"
	"papercast/internal/digitize"
	"papercast/internal/logger"
	"papercast/pkg/models"
)

var extractCmd = &cobra.Command{
	Use:   "extract [pdf-file]",
	Short: "Extract text from a PDF using Sarvam document digitization",
	Long: `Process a PDF file through the Sarvam document digitization service.

Small documents run as a single digitization job. Documents larger than the
configured chunk size are split into page ranges and digitized as parallel
jobs, with the results reassembled in page order. Individual chunk failures
degrade the output instead of failing the whole document.

Required environment variables:
  SARVAM_API_KEY - API subscription key for the Sarvam platform`,
	Example: `  # Extract markdown text from report.pdf to stdout
  papercast extract report.pdf

  # Save extracted text to file
  papercast extract report.pdf -o extracted.md

  # Extract as HTML in Hindi
  papercast extract report.pdf --format html --language hi-IN

  # Include batch metadata as JSON
  papercast extract report.pdf --json -o result.json`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	extractCmd.Flags().StringP("language", "l", "en-IN", "Document language code")
	extractCmd.Flags().StringP("format", "f", "md", "Output format: md, html or json")
	extractCmd.Flags().Bool("json", false, "Output result with batch metadata as JSON")
	extractCmd.Flags().Int("chunk-size", 0, "Pages per digitization chunk (default: PAGES_PER_CHUNK)")
	extractCmd.Flags().Int("timeout", 900, "Processing timeout in seconds")
}

func runExtract(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("extract")

	outputPath, _ := cmd.Flags().GetString("output")
	language, _ := cmd.Flags().GetString("language")
	formatStr, _ := cmd.Flags().GetString("format")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	chunkSize, _ := cmd.Flags().GetInt("chunk-size")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	pdfPath := args[0]
	format := models.ParseOutputFormat(formatStr)

	log.Info().
		Str("file", pdfPath).
		Str("language", language).
		Str("format", string(format)).
		Int("timeout", timeoutSecs).
		Msg("Starting document extraction")

	data, err := readPDFFile(pdfPath, log)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return configError(err, log)
	}
	if chunkSize > 0 {
		cfg.PagesPerChunk = chunkSize
	}

	ctx, cancel := createContextWithTimeout(timeoutSecs, log)
	defer cancel()

	service, err := createExtractionService(cfg)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create digitization service")
		return fmt.Errorf("failed to create digitization service: %w", err)
	}

	startTime := time.Now()
	result, err := service.ExtractText(ctx, data, language, format)
	if err != nil {
		return handleExtractError(err, log)
	}

	log.Info().
		Int("page_count", result.PageCount).
		Bool("batch", result.UsedBatch).
		Int("chunks_processed", result.ChunksProcessed).
		Dur("duration", time.Since(startTime)).
		Int("text_length", len(result.Text)).
		Msg("Document extraction completed")

	return writeExtractOutput(result, pdfPath, outputPath, jsonOutput, log)
}

// readPDFFile validates the path and loads the document into memory.
func readPDFFile(pdfPath string, log zerolog.Logger) ([]byte, error) {
	fileInfo, err := os.Stat(pdfPath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Error().
				Str("file", pdfPath).
				Msg("PDF file not found")
			return nil, fmt.Errorf("PDF file not found: %s", pdfPath)
		}
		return nil, fmt.Errorf("error accessing PDF file: %w", err)
	}

	if !fileInfo.Mode().IsRegular() {
		log.Error().
			Str("file", pdfPath).
			Msg("Path is not a regular file")
		return nil, fmt.Errorf("path is not a regular file: %s", pdfPath)
	}

	if !strings.HasSuffix(strings.ToLower(pdfPath), ".pdf") {
		log.Warn().
			Str("file", pdfPath).
			Msg("File does not have .pdf extension")
	}

	if fileInfo.Size() == 0 {
		log.Error().
			Str("file", pdfPath).
			Msg("PDF file is empty")
		return nil, fmt.Errorf("PDF file is empty: %s", pdfPath)
	}

	data, err := os.ReadFile(pdfPath)
	if err != nil {
		log.Error().
			Err(err).
			Str("file", pdfPath).
			Msg("Failed to read PDF file")
		return nil, fmt.Errorf("failed to read PDF file: %w", err)
	}
	return data, nil
}

// createContextWithTimeout creates a context with timeout and signal handling
func createContextWithTimeout(timeoutSecs int, log zerolog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSecs)*time.Second)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			log.Info().
				Str("signal", sig.String()).
				Msg("Received interrupt signal, canceling processing")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

// createExtractionService wires the digitization client and service from config.
func createExtractionService(cfg *config.Config) (*digitize.Service, error) {
	client, err := digitize.NewClient(digitize.ClientConfig{
		APIKey:  cfg.SarvamAPIKey,
		BaseURL: cfg.SarvamBaseURL,
	})
	if err != nil {
		return nil, err
	}

	return digitize.NewService(client, digitize.ServiceConfig{
		PagesPerChunk:   cfg.PagesPerChunk,
		PollInterval:    time.Duration(cfg.PollIntervalSec) * time.Second,
		PollMaxAttempts: cfg.PollMaxAttempts,
	}), nil
}

// configError points the user at missing environment configuration.
func configError(err error, log zerolog.Logger) error {
	log.Error().Err(err).Msg("Configuration validation failed")
	return fmt.Errorf("configuration error: %w\n\n"+
		"Set SARVAM_API_KEY in your environment or .env file:\n"+
		"  export SARVAM_API_KEY=your-subscription-key", err)
}

// handleExtractError provides user-friendly messages for digitization failures
func handleExtractError(err error, log zerolog.Logger) error {
	log.Error().Err(err).Msg("Document extraction failed")

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("document extraction timed out. Try increasing --timeout or processing a smaller file")
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("document extraction was canceled")
	case errors.Is(err, digitize.ErrInvalidPDF):
		return fmt.Errorf("invalid or corrupted PDF file. Please check the file integrity")
	case errors.Is(err, digitize.ErrNoChunksSucceeded):
		return fmt.Errorf("all document chunks failed to digitize. Check the service status and your API quota")
	case errors.Is(err, digitize.ErrJobTimeout):
		return fmt.Errorf("a digitization job did not finish in time. Try increasing POLL_MAX_ATTEMPTS")
	case errors.Is(err, digitize.ErrJobFailed):
		return fmt.Errorf("the digitization service rejected the document: %w", err)
	default:
		return fmt.Errorf("document extraction failed: %w", err)
	}
}

// writeExtractOutput formats the result and writes it to a file or stdout.
func writeExtractOutput(result *models.BatchResult, pdfPath, outputPath string, jsonOutput bool, log zerolog.Logger) error {
	var outputData []byte

	if jsonOutput {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			log.Error().Err(err).Msg("Failed to marshal JSON output")
			return fmt.Errorf("failed to create JSON output: %w", err)
		}
		outputData = data
	} else {
		outputData = []byte(result.Text)
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, outputData, 0644); err != nil {
			log.Error().
				Err(err).
				Str("output_file", outputPath).
				Msg("Failed to write output file")
			return fmt.Errorf("failed to write output file: %w", err)
		}

		log.Info().
			Str("output_file", outputPath).
			Int("bytes", len(outputData)).
			Msg("Extraction results written to file")
		return nil
	}

	if _, err := os.Stdout.Write(outputData); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if !jsonOutput {
		fmt.Println()
	}

	log.Debug().
		Str("source", filepath.Base(pdfPath)).
		Msg("Extraction results written to stdout")
	return nil
}
