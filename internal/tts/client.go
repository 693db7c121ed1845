// Package tts synthesizes podcast scripts into speech using the Sarvam
// text-to-speech API.
//
// Synthesis is one external call per script span, invoked strictly
// sequentially in script order so that a failure localizes to an exact
// segment number and downstream concatenation keeps stable ordering.
//
// Required Environment Variables:
//   - SARVAM_API_KEY: API subscription key for the TTS service
package tts

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Common TTS errors
var (
	// ErrMissingAPIKey is returned when no API subscription key is configured.
	ErrMissingAPIKey = errors.New("missing API subscription key")

	// ErrEmptyText is returned when a span has no text to speak.
	ErrEmptyText = errors.New("no text to synthesize")

	// ErrNoAudio is returned when the service responds without an audio payload.
	ErrNoAudio = errors.New("TTS response contained no audio")
)

// SpeechService converts one text span and voice selection into one encoded
// audio payload.
type SpeechService interface {
	Synthesize(ctx context.Context, text, language, speaker string, pace, temperature float64) ([]byte, error)
}

// ClientConfig configures the REST TTS client.
type ClientConfig struct {
	// APIKey is the subscription key sent with every request.
	APIKey string

	// BaseURL is the service endpoint, e.g. "https://api.sarvam.ai".
	BaseURL string

	// Model selects the TTS voice model.
	Model string

	// HTTPClient is optional; a 60-second-timeout client is used when nil.
	HTTPClient *http.Client
}

// Client implements SpeechService against the text-to-speech REST API.
type Client struct {
	apiKey  string
	baseURL string
	model   string
	http    *http.Client
}

// NewClient creates a TTS client. The API key is required.
func NewClient(config ClientConfig) (*Client, error) {
	if config.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if config.BaseURL == "" {
		config.BaseURL = "https://api.sarvam.ai"
	}
	if config.Model == "" {
		config.Model = "bulbul:v3"
	}
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &Client{
		apiKey:  config.APIKey,
		baseURL: config.BaseURL,
		model:   config.Model,
		http:    httpClient,
	}, nil
}

type synthesizeRequest struct {
	Text               string  `json:"text"`
	TargetLanguageCode string  `json:"target_language_code"`
	Speaker            string  `json:"speaker"`
	Pace               float64 `json:"pace"`
	Temperature        float64 `json:"temperature"`
	Model              string  `json:"model"`
}

type synthesizeResponse struct {
	Audios []string `json:"audios"`
}

// Synthesize performs one TTS call and returns the decoded WAV payload.
func (c *Client) Synthesize(ctx context.Context, text, language, speaker string, pace, temperature float64) ([]byte, error) {
	if text == "" {
		return nil, ErrEmptyText
	}

	body, err := json.Marshal(synthesizeRequest{
		Text:               text,
		TargetLanguageCode: language,
		Speaker:            speaker,
		Pace:               pace,
		Temperature:        temperature,
		Model:              c.model,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/text-to-speech", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-subscription-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("TTS request failed: %s: %s", resp.Status, string(errBody))
	}

	var decoded synthesizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode TTS response: %w", err)
	}
	if len(decoded.Audios) == 0 {
		return nil, ErrNoAudio
	}

	wav, err := base64.StdEncoding.DecodeString(decoded.Audios[0])
	if err != nil {
		return nil, fmt.Errorf("failed to decode audio payload: %w", err)
	}
	return wav, nil
}
