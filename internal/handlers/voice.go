package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/BatmanBruc/bat-bot-multitool/internal/controller"
	"github.com/BatmanBruc/bat-bot-multitool/internal/formats"
	"github.com/BatmanBruc/bat-bot-multitool/internal/messages"
	"github.com/BatmanBruc/bat-bot-multitool/internal/pipeline"
	"github.com/BatmanBruc/bat-bot-multitool/internal/transport"
	"github.com/BatmanBruc/bat-bot-multitool/types"
)

// VoiceHandler: AwaitingInput -> Processing -> AwaitingInput. Text is synthesized,
// audio is transcribed.
type VoiceHandler struct {
	speech  Speech
	fetcher Fetcher
	temp    *pipeline.Registry
}

func (h *VoiceHandler) Mode() types.Mode { return types.ModeVoice }

func (h *VoiceHandler) Accepts(kind types.ContentKind) bool {
	switch kind {
	case types.ContentText, types.ContentVoice, types.ContentAudio, types.ContentVideoNote:
		return true
	}
	return false
}

func (h *VoiceHandler) Enter(ctx context.Context, c *controller.Chat) error {
	if err := announceMode(ctx, c, types.ModeVoice); err != nil {
		return err
	}
	_, err := c.Reply(ctx, messages.VoicePrompt(c.Lang), nil)
	return err
}

func (h *VoiceHandler) HandleCallback(context.Context, *controller.Chat, controller.CallbackData) error {
	return types.ErrStale
}

func (h *VoiceHandler) HandleContent(ctx context.Context, c *controller.Chat, content types.Content) error {
	if sel, ok := c.Pending().(types.VoiceSelection); ok && sel.Stage == types.StageProcessing {
		_, err := c.Reply(ctx, messages.StillProcessing(c.Lang), nil)
		return err
	}

	var run func(ctx context.Context, j *controller.JobScope) error
	switch {
	case content.Kind == types.ContentText:
		text := strings.TrimSpace(content.Text)
		if text == "" {
			return nil
		}
		c.Activity(ctx, transport.ActivityRecordVoice)
		run = func(ctx context.Context, j *controller.JobScope) error { return h.synthesize(ctx, j, text) }
	case content.File != nil:
		c.Activity(ctx, transport.ActivityTyping)
		file := *content.File
		kind := content.Kind
		run = func(ctx context.Context, j *controller.JobScope) error { return h.transcribe(ctx, j, kind, file) }
	default:
		return fmt.Errorf("voice: %w: %s", types.ErrUnsupportedContent, content.Kind)
	}

	if err := c.SetPending(types.VoiceSelection{Stage: types.StageProcessing}); err != nil {
		return err
	}
	if _, err := c.Spawn("voice", 0, run); err != nil {
		_ = c.SetPending(nil)
		c.Fail(ctx, err)
	}
	return nil
}

func (h *VoiceHandler) synthesize(ctx context.Context, j *controller.JobScope, text string) error {
	job := h.temp.NewJob()
	defer job.Cleanup()

	dst := job.TempPath("ogg")
	synthErr := h.speech.Synthesize(ctx, text, dst)

	_, err := j.Resume(ctx, func(c *controller.Chat) error {
		if err := c.SetPending(nil); err != nil {
			return err
		}
		if synthErr != nil {
			c.Fail(ctx, synthErr)
			return nil
		}
		if _, err := pipeline.SendAndCleanup(ctx, c.Transport(), c.Log(), c.ID, types.MediaVoice, job, transport.OutgoingFile{Path: dst, Name: "voice.ogg"}); err != nil {
			c.Fail(ctx, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	return synthErr
}

func (h *VoiceHandler) transcribe(ctx context.Context, j *controller.JobScope, kind types.ContentKind, file types.FileRef) error {
	job := h.temp.NewJob()
	defer job.Cleanup()

	text, transcribeErr := h.fetchAndTranscribe(ctx, j, job, kind, file)

	_, err := j.Resume(ctx, func(c *controller.Chat) error {
		if err := c.SetPending(nil); err != nil {
			return err
		}
		if transcribeErr != nil {
			c.Fail(ctx, transcribeErr)
			return nil
		}
		if text == "" {
			_, err := c.Result(ctx, messages.EmptyTranscription(c.Lang), nil)
			return err
		}
		_, err := c.Result(ctx, messages.Escape(text), nil)
		return err
	})
	if err != nil {
		return err
	}
	return transcribeErr
}

func (h *VoiceHandler) fetchAndTranscribe(ctx context.Context, j *controller.JobScope, job *pipeline.Job, kind types.ContentKind, file types.FileRef) (string, error) {
	url, err := j.Transport().FileURL(ctx, file.FileID)
	if err != nil {
		return "", fmt.Errorf("resolve telegram file: %w", err)
	}
	ext := formats.FileExtension(formats.DefaultFileName(kind, file.FileName, file.MimeType), file.MimeType)
	path, err := h.fetcher.DownloadToTemp(ctx, job, types.RemoteRef{URL: url, SizeBytes: file.SizeBytes}, ext)
	if err != nil {
		return "", err
	}
	return h.speech.Transcribe(ctx, path)
}
