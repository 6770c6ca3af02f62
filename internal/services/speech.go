package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/BatmanBruc/bat-bot-multitool/types"
)

// Speech wraps OpenAI whisper transcription and text-to-speech.
type Speech struct {
	client *openai.Client
	voice  openai.SpeechVoice
	retry  RetryPolicy
}

func NewSpeech(apiKey, baseURL string, httpClient *http.Client, retry RetryPolicy) *Speech {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	if httpClient != nil {
		cfg.HTTPClient = httpClient
	}
	return &Speech{
		client: openai.NewClientWithConfig(cfg),
		voice:  openai.VoiceAlloy,
		retry:  retry,
	}
}

func (s *Speech) Transcribe(ctx context.Context, audioPath string) (string, error) {
	var text string
	err := RunWithRetry(ctx, s.retry, func(ctx context.Context) error {
		resp, err := s.client.CreateTranscription(ctx, openai.AudioRequest{
			Model:    openai.Whisper1,
			FilePath: audioPath,
		})
		if err != nil {
			return classifyOpenAIErr("transcribe", err)
		}
		text = strings.TrimSpace(resp.Text)
		return nil
	})
	return text, err
}

// Synthesize writes opus speech for text to dstPath.
func (s *Speech) Synthesize(ctx context.Context, text, dstPath string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("synthesize: %w: empty text", types.ErrInvalidInput)
	}
	return RunWithRetry(ctx, s.retry, func(ctx context.Context) error {
		resp, err := s.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
			Model:          openai.TTSModel1,
			Input:          text,
			Voice:          s.voice,
			ResponseFormat: openai.SpeechResponseFormatOpus,
		})
		if err != nil {
			return classifyOpenAIErr("synthesize", err)
		}
		defer resp.Close()

		out, err := os.Create(dstPath)
		if err != nil {
			return err
		}
		defer out.Close()

		if _, err := io.Copy(out, resp); err != nil {
			return ClassifyNetErr("synthesize", err)
		}
		return nil
	})
}

func classifyOpenAIErr(op string, err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return ClassifyStatus(op, apiErr.HTTPStatusCode, []byte(apiErr.Message))
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		return ClassifyStatus(op, reqErr.HTTPStatusCode, []byte(reqErr.Error()))
	}
	return ClassifyNetErr(op, err)
}
