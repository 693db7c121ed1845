package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"papercast/internal/logger"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "papercast",
	Short: "Papercast CLI - Turn documents and articles into podcasts",
	Long: `Papercast CLI converts written content into listenable audio.

It extracts text from PDF documents via the Sarvam document digitization
service, scrapes readable text from web articles, generates conversational
podcast scripts with a chat model, and synthesizes the scripts into a single
WAV file using text-to-speech.`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		log := logger.WithComponent("root")
		log.Info().
			Str("version", version).
			Msg("Papercast CLI executed")

		fmt.Println("Welcome to Papercast CLI!")
		fmt.Println("Use --help to see available commands and options.")
	},
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print version information")
}
