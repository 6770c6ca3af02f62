package handlers

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BatmanBruc/bat-bot-multitool/internal/controller"
	"github.com/BatmanBruc/bat-bot-multitool/internal/formats"
	"github.com/BatmanBruc/bat-bot-multitool/internal/menu"
	"github.com/BatmanBruc/bat-bot-multitool/internal/messages"
	"github.com/BatmanBruc/bat-bot-multitool/internal/pipeline"
	"github.com/BatmanBruc/bat-bot-multitool/internal/services"
	"github.com/BatmanBruc/bat-bot-multitool/internal/transport"
	"github.com/BatmanBruc/bat-bot-multitool/types"
)

// ConvertHandler: AwaitingFile -> AwaitingTargetFormat -> Processing -> AwaitingFile.
type ConvertHandler struct {
	converter Converter
	fetcher   Fetcher
	temp      *pipeline.Registry
	poll      services.PollPolicy
}

func (h *ConvertHandler) Mode() types.Mode { return types.ModeConvert }

func (h *ConvertHandler) Accepts(kind types.ContentKind) bool {
	return kind.IsFile() && kind != types.ContentSticker
}

func (h *ConvertHandler) Enter(ctx context.Context, c *controller.Chat) error {
	if err := announceMode(ctx, c, types.ModeConvert); err != nil {
		return err
	}
	_, err := c.Reply(ctx, messages.SendFileToConvert(c.Lang), nil)
	return err
}

func newMenuID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

func (h *ConvertHandler) HandleContent(ctx context.Context, c *controller.Chat, content types.Content) error {
	if sel, ok := c.Pending().(types.ConvertSelection); ok && sel.Stage == types.StageProcessing {
		_, err := c.Reply(ctx, messages.StillProcessing(c.Lang), nil)
		return err
	}
	if content.File == nil {
		return fmt.Errorf("convert: %w: no file", types.ErrUnsupportedContent)
	}
	// A new file supersedes any menu offered for the previous one.
	if err := c.SetPending(nil); err != nil {
		return err
	}
	file := *content.File
	file.FileName = formats.DefaultFileName(content.Kind, file.FileName, file.MimeType)

	ext := formats.FileExtension(file.FileName, file.MimeType)
	if ext == "" {
		_, err := c.Reply(ctx, messages.ErrorCannotDetectFileType(c.Lang, file.FileName), nil)
		return err
	}
	if err := pipeline.EnforceSizeLimit(file.SizeBytes, h.fetcher.LimitBytes()); err != nil {
		c.Fail(ctx, err)
		return nil
	}

	c.Activity(ctx, transport.ActivityTyping)
	targets, err := h.converter.ListTargets(ctx, ext)
	if err != nil {
		c.Fail(ctx, err)
		return nil
	}
	if len(targets) == 0 {
		_, err := c.Reply(ctx, messages.NoConversionTargets(c.Lang, ext), nil)
		return err
	}

	sel := types.ConvertSelection{
		Stage:     types.StageAwaitingChoice,
		MenuID:    newMenuID(),
		File:      file,
		SourceExt: ext,
		Targets:   targets,
	}
	if err := c.SetPending(sel); err != nil {
		return err
	}
	_, err = c.Reply(ctx, messages.ChooseTargetFormat(c.Lang, file.FileName), targetMenu(c, sel, 1))
	return err
}

func targetMenu(c *controller.Chat, sel types.ConvertSelection, page int) *transport.Markup {
	return pagedMenu(c.Lang, menu.ScopedOwner(menu.NSConvert, sel.MenuID), sel.Targets, page, func(t types.FormatOption) menu.Button {
		return menu.Button{Text: t.Label, Token: menu.Token(menu.NSConvert, sel.MenuID, t.Ext)}
	})
}

func (h *ConvertHandler) HandleCallback(ctx context.Context, c *controller.Chat, data controller.CallbackData) error {
	sel, ok := c.Pending().(types.ConvertSelection)
	if !ok || sel.Stage != types.StageAwaitingChoice {
		return types.ErrStale
	}
	if data.IsPage() {
		if data.Payload != sel.MenuID {
			return types.ErrStale
		}
		return c.Edit(ctx, data.MessageID, messages.ChooseTargetFormat(c.Lang, sel.File.FileName), targetMenu(c, sel, data.Page))
	}

	menuID, ext, ok := menu.SplitMenuPayload(data.Payload)
	if !ok || menuID != sel.MenuID {
		return types.ErrStale
	}
	i := slices.IndexFunc(sel.Targets, func(t types.FormatOption) bool { return t.Ext == ext })
	if i < 0 {
		return types.ErrStale
	}
	target := sel.Targets[i]

	processing := sel
	processing.Stage = types.StageProcessing
	if err := c.SetPending(processing); err != nil {
		return err
	}
	c.Delete(ctx, data.MessageID)

	status, _ := c.Reply(ctx, messages.QueueStarted(c.Lang, sel.File.FileName), nil)
	_, err := c.Spawn(sel.File.FileName, status, func(ctx context.Context, j *controller.JobScope) error {
		return h.run(ctx, j, sel, target)
	})
	if err != nil {
		c.Delete(ctx, status)
		_ = c.SetPending(nil)
		c.Fail(ctx, err)
	}
	return nil
}

func (h *ConvertHandler) run(ctx context.Context, j *controller.JobScope, sel types.ConvertSelection, target types.FormatOption) error {
	job := h.temp.NewJob()
	defer job.Cleanup()

	resultPath, convErr := h.convert(ctx, j, job, sel, target)
	name := strings.TrimSuffix(sel.File.FileName, "."+sel.SourceExt) + "." + target.Ext

	_, err := j.Resume(ctx, func(c *controller.Chat) error {
		if err := c.SetPending(nil); err != nil {
			return err
		}
		if convErr != nil {
			c.Fail(ctx, convErr)
			return nil
		}
		file := transport.OutgoingFile{Path: resultPath, Name: name}
		if _, err := pipeline.SendAndCleanup(ctx, c.Transport(), c.Log(), c.ID, target.Kind, job, file); err != nil {
			c.Fail(ctx, err)
			return nil
		}
		_, err := c.Reply(ctx, messages.SendFileToConvert(c.Lang), nil)
		return err
	})
	if err != nil {
		return err
	}
	return convErr
}

func (h *ConvertHandler) convert(ctx context.Context, j *controller.JobScope, job *pipeline.Job, sel types.ConvertSelection, target types.FormatOption) (string, error) {
	url, err := j.Transport().FileURL(ctx, sel.File.FileID)
	if err != nil {
		return "", fmt.Errorf("resolve telegram file: %w", err)
	}
	src, err := h.fetcher.DownloadToTemp(ctx, job, types.RemoteRef{URL: url, SizeBytes: sel.File.SizeBytes}, sel.SourceExt)
	if err != nil {
		return "", err
	}

	j.Activity(ctx, transport.ActivityUploadDocument)
	jobID, err := h.converter.SubmitJob(ctx, src, target.Ext)
	if err != nil {
		return "", err
	}
	j.Log().Info("conversion submitted", zap.String("zamzar_job", jobID), zap.String("target", target.Ext))

	done, err := services.Poll(ctx, h.poll, func(ctx context.Context) (types.ConversionJob, bool, error) {
		st, err := h.converter.PollJob(ctx, jobID)
		return st, st.Status.Terminal(), err
	})
	if err != nil {
		return "", err
	}
	if done.Status != types.ConversionSuccessful || done.ResultRef == "" {
		return "", fmt.Errorf("conversion %s: %w: %s %s", jobID, types.ErrJobFailed, done.Status, done.Failure)
	}

	return h.fetcher.DownloadToTemp(ctx, job, h.converter.ResultRef(done.ResultRef), target.Ext)
}

func (h *ConvertHandler) listFormats(ctx context.Context, c *controller.Chat, _ types.Command) error {
	_, err := c.Result(ctx, formats.HelpMessage(c.Lang), nil)
	return err
}
