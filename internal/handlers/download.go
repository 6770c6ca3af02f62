package handlers

import (
	"context"
	"errors"
	"strconv"

	"github.com/BatmanBruc/bat-bot-multitool/internal/controller"
	"github.com/BatmanBruc/bat-bot-multitool/internal/menu"
	"github.com/BatmanBruc/bat-bot-multitool/internal/messages"
	"github.com/BatmanBruc/bat-bot-multitool/internal/pipeline"
	"github.com/BatmanBruc/bat-bot-multitool/internal/services"
	"github.com/BatmanBruc/bat-bot-multitool/internal/transport"
	"github.com/BatmanBruc/bat-bot-multitool/types"
)

// DownloadHandler: AwaitingUrl -> (direct | AwaitingFormatChoice) -> Processing -> AwaitingUrl.
type DownloadHandler struct {
	textOnly
	resolver MediaResolver
	fetcher  Fetcher
	merger   Merger
	temp     *pipeline.Registry
}

func (h *DownloadHandler) Mode() types.Mode { return types.ModeDownload }

func (h *DownloadHandler) Enter(ctx context.Context, c *controller.Chat) error {
	if err := announceMode(ctx, c, types.ModeDownload); err != nil {
		return err
	}
	_, err := c.Reply(ctx, messages.SendURL(c.Lang), nil)
	return err
}

func (h *DownloadHandler) HandleContent(ctx context.Context, c *controller.Chat, content types.Content) error {
	if sel, ok := c.Pending().(types.DownloadSelection); ok && sel.Stage == types.StageProcessing {
		_, err := c.Reply(ctx, messages.StillProcessing(c.Lang), nil)
		return err
	}
	if _, _, err := services.ClassifyURL(content.Text); err != nil {
		_, err := c.Reply(ctx, messages.InvalidURL(c.Lang), nil)
		return err
	}

	if err := c.SetPending(types.DownloadSelection{Stage: types.StageProcessing}); err != nil {
		return err
	}
	status, _ := c.Reply(ctx, messages.ProcessingURL(c.Lang), nil)
	link := content.Text
	_, err := c.Spawn(link, status, func(ctx context.Context, j *controller.JobScope) error {
		return h.resolve(ctx, j, link)
	})
	if err != nil {
		c.Delete(ctx, status)
		_ = c.SetPending(nil)
		c.Fail(ctx, err)
	}
	return nil
}

func (h *DownloadHandler) resolve(ctx context.Context, j *controller.JobScope, link string) error {
	j.Activity(ctx, transport.ActivityTyping)
	src, resolveErr := h.resolver.Resolve(ctx, link)
	if resolveErr == nil && src.Direct && len(src.Items) > 0 {
		return h.download(ctx, j, src.Title, src.Items[0])
	}

	_, err := j.Resume(ctx, func(c *controller.Chat) error {
		if resolveErr != nil {
			if err := c.SetPending(nil); err != nil {
				return err
			}
			if errors.Is(resolveErr, types.ErrInvalidInput) {
				_, err := c.Reply(ctx, messages.InvalidURL(c.Lang), nil)
				return err
			}
			c.Fail(ctx, resolveErr)
			return nil
		}

		sel := types.DownloadSelection{
			Stage:   types.StageAwaitingChoice,
			MenuID:  newMenuID(),
			Title:   src.Title,
			Channel: src.Channel,
			Formats: src.Items,
		}
		if err := c.SetPending(sel); err != nil {
			return err
		}
		_, err := c.Reply(ctx, messages.ChooseDownloadFormat(c.Lang, sel.Title, sel.Channel), formatMenu(c, sel, 1))
		return err
	})
	if err != nil {
		return err
	}
	return resolveErr
}

func formatMenu(c *controller.Chat, sel types.DownloadSelection, page int) *transport.Markup {
	idx := make([]int, len(sel.Formats))
	for i := range idx {
		idx[i] = i
	}
	return pagedMenu(c.Lang, menu.ScopedOwner(menu.NSFormat, sel.MenuID), idx, page, func(i int) menu.Button {
		return menu.Button{Text: sel.Formats[i].Label, Token: menu.Token(menu.NSFormat, sel.MenuID, strconv.Itoa(i))}
	})
}

func (h *DownloadHandler) HandleCallback(ctx context.Context, c *controller.Chat, data controller.CallbackData) error {
	sel, ok := c.Pending().(types.DownloadSelection)
	if !ok || sel.Stage != types.StageAwaitingChoice {
		return types.ErrStale
	}
	if data.IsPage() {
		if data.Payload != sel.MenuID {
			return types.ErrStale
		}
		return c.Edit(ctx, data.MessageID, messages.ChooseDownloadFormat(c.Lang, sel.Title, sel.Channel), formatMenu(c, sel, data.Page))
	}

	menuID, value, ok := menu.SplitMenuPayload(data.Payload)
	if !ok || menuID != sel.MenuID {
		return types.ErrStale
	}
	i, err := strconv.Atoi(value)
	if err != nil || i < 0 || i >= len(sel.Formats) {
		return types.ErrStale
	}
	opt := sel.Formats[i]

	if err := pipeline.EnforceSizeLimit(opt.TotalSize(), h.fetcher.LimitBytes()); err != nil {
		c.Fail(ctx, err)
		return nil
	}

	processing := sel
	processing.Stage = types.StageProcessing
	if err := c.SetPending(processing); err != nil {
		return err
	}
	c.Delete(ctx, data.MessageID)

	status, _ := c.Reply(ctx, messages.QueueStarted(c.Lang, sel.Title), nil)
	_, err = c.Spawn(sel.Title, status, func(ctx context.Context, j *controller.JobScope) error {
		return h.download(ctx, j, sel.Title, opt)
	})
	if err != nil {
		c.Delete(ctx, status)
		_ = c.SetPending(nil)
		c.Fail(ctx, err)
	}
	return nil
}

// download fetches opt, merging a separate audio track when it has one, and delivers it.
func (h *DownloadHandler) download(ctx context.Context, j *controller.JobScope, title string, opt types.FormatOption) error {
	job := h.temp.NewJob()
	defer job.Cleanup()

	j.Activity(ctx, transport.ActivityFor(opt.Kind))
	path, fetchErr := h.fetch(ctx, job, opt)

	_, err := j.Resume(ctx, func(c *controller.Chat) error {
		if err := c.SetPending(nil); err != nil {
			return err
		}
		if fetchErr != nil {
			c.Fail(ctx, fetchErr)
			return nil
		}
		file := transport.OutgoingFile{
			Path:    path,
			Name:    pipeline.SafeTitle(title) + "." + opt.Ext,
			Caption: messages.Escape(title),
		}
		if _, err := pipeline.SendAndCleanup(ctx, c.Transport(), c.Log(), c.ID, opt.Kind, job, file); err != nil {
			c.Fail(ctx, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	return fetchErr
}

func (h *DownloadHandler) fetch(ctx context.Context, job *pipeline.Job, opt types.FormatOption) (string, error) {
	if opt.Audio == nil {
		return h.fetcher.DownloadToTemp(ctx, job, opt.Source, opt.Ext)
	}
	paths, err := h.fetcher.DownloadAll(ctx, job, []pipeline.Download{
		{Ref: opt.Source, Ext: opt.Ext},
		{Ref: *opt.Audio, Ext: "m4a"},
	})
	if err != nil {
		return "", err
	}
	return h.merger.MergeTracks(ctx, job, paths[0], paths[1], opt.Ext)
}
