// Package script generates multi-speaker podcast scripts from extracted
// document text using an OpenAI-compatible chat completion endpoint.
package script

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"papercast/internal/logger"
	"papercast/pkg/models"
)

// Common script generation errors
var (
	// ErrMissingAPIKey is returned when no API key is configured.
	ErrMissingAPIKey = errors.New("missing API key")

	// ErrEmptyContent is returned when there is no source text to work from.
	ErrEmptyContent = errors.New("no source text for script generation")

	// ErrNoResponse is returned when the model responds without any choices.
	ErrNoResponse = errors.New("no response from chat completion")
)

// maxSourceRunes bounds how much document text goes into the prompt.
const maxSourceRunes = 8000

// Config configures the script generator.
type Config struct {
	// APIKey authenticates against the chat completion endpoint.
	APIKey string

	// BaseURL is the OpenAI-compatible endpoint root, e.g.
	// "https://api.sarvam.ai/v1". Empty means the OpenAI default.
	BaseURL string

	// Model selects the chat model.
	Model string

	// Temperature controls generation randomness.
	Temperature float32

	// MaxTokens bounds the generated script length.
	MaxTokens int
}

// Generator produces podcast scripts via chat completions.
type Generator struct {
	client *openai.Client
	config Config
	log    zerolog.Logger
}

// NewGenerator creates a script generator. The API key is required.
func NewGenerator(config Config) (*Generator, error) {
	if config.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if config.Model == "" {
		config.Model = "sarvam-m"
	}
	if config.Temperature == 0 {
		config.Temperature = 0.8
	}
	if config.MaxTokens == 0 {
		config.MaxTokens = 4000
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &Generator{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
		log:    logger.WithComponent("script"),
	}, nil
}

// Generate turns extracted document text into a podcast script in the
// requested language. A malformed model reply falls back to a
// deterministic script built from the source text rather than failing.
func (g *Generator) Generate(ctx context.Context, text, language string) (*models.PodcastScript, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyContent
	}

	langName := languageName(language)
	source := truncateRunes(text, maxSourceRunes)

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.config.Model,
		Temperature: g.config.Temperature,
		MaxTokens:   g.config.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt(language, langName),
			},
			{
				Role: openai.ChatMessageRoleUser,
				Content: fmt.Sprintf("Based on the following document content, create an engaging podcast script in %s:\n\n"+
					"DOCUMENT CONTENT:\n%s\n\n"+
					"Create a podcast script with multiple speakers discussing this topic. Make it conversational, informative, and engaging.",
					langName, source),
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, ErrNoResponse
	}

	content := resp.Choices[0].Message.Content
	script, err := ParseScript(content)
	if err != nil {
		g.log.Warn().
			Err(err).
			Str("preview", truncateRunes(content, 200)).
			Msg("Failed to parse script JSON, using fallback script")
		return FallbackScript(text, langName), nil
	}
	return script, nil
}

var jsonFenceRe = regexp.MustCompile("(?s)```json\\s*(.*?)```")

// ParseScript extracts and decodes a PodcastScript from a chat reply,
// tolerating markdown code fences and surrounding prose.
func ParseScript(content string) (*models.PodcastScript, error) {
	jsonStr := content
	if m := jsonFenceRe.FindStringSubmatch(content); m != nil {
		jsonStr = m[1]
	} else if start, end := strings.Index(content, "{"), strings.LastIndex(content, "}"); start >= 0 && end > start {
		jsonStr = content[start : end+1]
	}

	jsonStr = strings.TrimSpace(strings.TrimPrefix(jsonStr, "\uFEFF"))

	var script models.PodcastScript
	if err := json.Unmarshal([]byte(jsonStr), &script); err != nil {
		return nil, fmt.Errorf("script reply is not valid JSON: %w", err)
	}
	if script.Title == "" && script.Introduction == "" && len(script.Segments) == 0 {
		return nil, fmt.Errorf("script reply decoded to an empty script")
	}
	return &script, nil
}

var sentenceSplitRe = regexp.MustCompile(`[.!?]+`)

// FallbackScript builds a deterministic script directly from the source
// text when the model's reply cannot be parsed.
func FallbackScript(content, langName string) *models.PodcastScript {
	speakers := []string{"Host", "Expert", "Guest"}
	roles := []string{"Podcast Host", "Subject Matter Expert", "Special Guest"}
	tones := []string{"enthusiastic", "knowledgeable", "curious"}

	var sentences []string
	for _, s := range sentenceSplitRe.Split(content, -1) {
		if s = strings.TrimSpace(s); len(s) > 20 {
			sentences = append(sentences, s)
		}
	}

	var segments []models.PodcastSegment
	for i := 0; i < len(sentences) && len(segments) < 6; i += 3 {
		end := i + 3
		if end > len(sentences) {
			end = len(sentences)
		}
		idx := len(segments)
		segments = append(segments, models.PodcastSegment{
			Speaker:     speakers[idx%3],
			SpeakerRole: roles[idx%3],
			Text:        strings.Join(sentences[i:end], ". ") + ".",
			Tone:        tones[idx%3],
		})
	}

	return &models.PodcastScript{
		Title:        fmt.Sprintf("Podcast Episode on %s Topic", langName),
		Introduction: "Welcome to today's episode where we explore an interesting topic together.",
		Segments:     segments,
		Conclusion:   "Thank you for listening to today's episode. Join us next time for more insightful discussions!",
	}
}

func systemPrompt(language, langName string) string {
	return fmt.Sprintf(`You are an expert podcast script writer specializing in creating engaging, conversational podcast episodes in %s (%s).

Your task is to transform the provided document content into a podcast script featuring 2-3 speakers having a natural, engaging discussion about the topic.

Guidelines:
1. Create a compelling title for the podcast episode
2. Write an engaging introduction that hooks the listener
3. Structure the content into 4-6 conversational segments
4. Use multiple speakers (Host, Expert, Guest) to create dynamic discussion
5. Include natural conversation elements: questions, reactions, transitions, occasional humor
6. Each speaker should have a distinct voice/personality
7. Make complex topics accessible through analogies and examples
8. Write in %s language naturally
9. End with a memorable conclusion and call-to-action

CRITICAL JSON REQUIREMENTS:
- Output MUST be valid JSON
- Escape all quotes in text with backslash
- Escape newlines with \n
- No trailing commas
- Use double quotes for all strings

Output Format (JSON):
{
  "title": "Episode Title",
  "introduction": "Host's opening monologue...",
  "segments": [
    {"speaker": "Host", "speakerRole": "Podcast Host", "text": "Welcome everyone...", "tone": "enthusiastic"},
    {"speaker": "Expert", "speakerRole": "Subject Matter Expert", "text": "Thanks for having me...", "tone": "knowledgeable"}
  ],
  "conclusion": "Final thoughts and outro..."
}

Keep the conversation natural, informative, and entertaining. Each segment should be 50-150 words.`, langName, language, langName)
}

var languageNames = map[string]string{
	"hi-IN": "Hindi",
	"en-IN": "English",
	"bn-IN": "Bengali",
	"gu-IN": "Gujarati",
	"kn-IN": "Kannada",
	"ml-IN": "Malayalam",
	"mr-IN": "Marathi",
	"od-IN": "Odia",
	"pa-IN": "Punjabi",
	"ta-IN": "Tamil",
	"te-IN": "Telugu",
}

func languageName(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	return "English"
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
