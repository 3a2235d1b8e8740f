package speech

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	contractx "github.com/yolearn/tutor-dialogue/agent/contract"
)

// Config describes the speech services. These run against OpenAI (not
// the chat provider): whisper transcription in, tts synthesis out.
type Config struct {
	APIKey          string `envconfig:"API_KEY" split_words:"true"`
	BaseURL         string `envconfig:"BASE_URL" split_words:"true"`
	TranscribeModel string `envconfig:"TRANSCRIBE_MODEL" split_words:"true" default:"whisper-1"`
	SpeechModel     string `envconfig:"SPEECH_MODEL" split_words:"true" default:"tts-1"`
	Voice           string `envconfig:"VOICE" split_words:"true" default:"alloy"`
}

// Client implements the Transcriber and Synthesizer ports over the
// OpenAI audio APIs.
type Client struct {
	api openai.Client
	cfg Config
}

var (
	_ contractx.Transcriber = (*Client)(nil)
	_ contractx.Synthesizer = (*Client)(nil)
)

// NewClient builds the speech client, or nil when no API key is
// configured (voice features are optional).
func NewClient(cfg Config) *Client {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil
	}

	opts := []option.RequestOption{
		option.WithAPIKey(strings.TrimSpace(cfg.APIKey)),
	}
	if trimmed := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"); trimmed != "" {
		opts = append(opts, option.WithBaseURL(trimmed))
	}

	return &Client{
		api: openai.NewClient(opts...),
		cfg: cfg,
	}
}

// Transcribe converts recorded audio into text.
func (c *Client) Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error) {
	res, err := c.api.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		Model: openai.AudioModel(c.cfg.TranscribeModel),
		File:  openai.File(audio, filename, "application/octet-stream"),
	})
	if err != nil {
		return "", fmt.Errorf("transcribe audio: %w", err)
	}

	text := strings.TrimSpace(res.Text)
	if text == "" {
		return "", fmt.Errorf("transcribe audio: empty transcript")
	}
	return text, nil
}

// Synthesize converts reply text into an mpeg audio stream. The caller
// owns the returned reader.
func (c *Client) Synthesize(ctx context.Context, text string) (io.ReadCloser, error) {
	res, err := c.api.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Model: openai.SpeechModel(c.cfg.SpeechModel),
		Voice: openai.AudioSpeechNewParamsVoice(c.cfg.Voice),
		Input: text,
	})
	if err != nil {
		return nil, fmt.Errorf("synthesize speech: %w", err)
	}
	return res.Body, nil
}
