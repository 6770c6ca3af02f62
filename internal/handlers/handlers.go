// Package handlers holds one state machine per bot mode and the command table.
package handlers

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/BatmanBruc/bat-bot-multitool/internal/controller"
	"github.com/BatmanBruc/bat-bot-multitool/internal/i18n"
	"github.com/BatmanBruc/bat-bot-multitool/internal/menu"
	"github.com/BatmanBruc/bat-bot-multitool/internal/messages"
	"github.com/BatmanBruc/bat-bot-multitool/internal/pipeline"
	"github.com/BatmanBruc/bat-bot-multitool/internal/services"
	"github.com/BatmanBruc/bat-bot-multitool/internal/transport"
	"github.com/BatmanBruc/bat-bot-multitool/types"
)

type Translator interface {
	Translate(ctx context.Context, text, target string) (string, error)
}

type RateSource interface {
	Rate(ctx context.Context, from, to string) (decimal.Decimal, error)
}

type Converter interface {
	ListTargets(ctx context.Context, sourceExt string) ([]types.FormatOption, error)
	SubmitJob(ctx context.Context, path, targetExt string) (string, error)
	PollJob(ctx context.Context, jobID string) (types.ConversionJob, error)
	ResultRef(fileID string) types.RemoteRef
}

type MediaResolver interface {
	Resolve(ctx context.Context, raw string) (types.MediaSource, error)
}

type Speech interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
	Synthesize(ctx context.Context, text, dstPath string) error
}

type Fetcher interface {
	DownloadToTemp(ctx context.Context, job *pipeline.Job, ref types.RemoteRef, ext string) (string, error)
	DownloadAll(ctx context.Context, job *pipeline.Job, items []pipeline.Download) ([]string, error)
	LimitBytes() int64
}

type Merger interface {
	MergeTracks(ctx context.Context, job *pipeline.Job, videoPath, audioPath, ext string) (string, error)
}

type Deps struct {
	Profiles   types.ProfileStore
	Users      types.UserStore
	Translator Translator
	Rates      RateSource
	Converter  Converter
	Resolver   MediaResolver
	Speech     Speech
	Fetcher    Fetcher
	Merger     Merger
	Temp       *pipeline.Registry
	Poll       services.PollPolicy
	Log        *zap.Logger
}

// Register wires every mode handler and command into ctrl.
func Register(ctrl *controller.Controller, d Deps) {
	mh := &MainHandler{profiles: d.Profiles, users: d.Users, log: d.Log}
	translate := &TranslateHandler{translator: d.Translator, profiles: d.Profiles}
	currency := &CurrencyHandler{rates: d.Rates}
	convert := &ConvertHandler{converter: d.Converter, fetcher: d.Fetcher, temp: d.Temp, poll: d.Poll}
	download := &DownloadHandler{resolver: d.Resolver, fetcher: d.Fetcher, merger: d.Merger, temp: d.Temp}
	voice := &VoiceHandler{speech: d.Speech, fetcher: d.Fetcher, temp: d.Temp}

	ctrl.Handle(mh)
	ctrl.HandleGlobal(menu.NSUILang, mh)
	ctrl.Handle(translate, menu.NSLang)
	ctrl.Handle(currency, menu.NSFrom, menu.NSTo)
	ctrl.Handle(convert, menu.NSConvert)
	ctrl.Handle(download, menu.NSFormat)
	ctrl.Handle(voice)

	ctrl.Command(controller.CommandSpec{Name: "start", Run: mh.start})
	ctrl.Command(controller.CommandSpec{Name: "menu", Run: mh.showMenu})
	ctrl.Command(controller.CommandSpec{Name: "change_language", Run: mh.changeLanguage})
	ctrl.Command(controller.CommandSpec{Name: "help", Run: mh.help})
	ctrl.Command(controller.CommandSpec{Name: "stats", AdminOnly: true, Run: mh.stats})
	ctrl.Command(controller.CommandSpec{Name: "setlanguage", RequiredMode: types.ModeTranslate, Run: translate.setLanguage})
	ctrl.Command(controller.CommandSpec{Name: "change_currency", RequiredMode: types.ModeCurrency, Run: currency.changeCurrency})
	ctrl.Command(controller.CommandSpec{Name: "formats", RequiredMode: types.ModeConvert, Run: convert.listFormats})
}

func pagedMenu[T any](l i18n.Lang, owner string, options []T, page int, render func(T) menu.Button) *transport.Markup {
	p := menu.BuildPage(options, page, menu.DefaultPageSize, menu.DefaultGroupWidth, render)
	return transport.InlineMarkup(p.Keyboard(owner, messages.PrevPage(l), messages.NextPage(l)))
}

func mainKeyboard(l i18n.Lang) *transport.Markup {
	rows := make([][]string, 0, len(i18n.MenuOrder))
	for _, modes := range i18n.MenuOrder {
		row := make([]string, 0, len(modes))
		for _, m := range modes {
			row = append(row, i18n.ModeLabel(l, m))
		}
		rows = append(rows, row)
	}
	return &transport.Markup{Reply: rows}
}

func modeKeyboard(l i18n.Lang) *transport.Markup {
	return &transport.Markup{Reply: [][]string{{i18n.ModeLabel(l, types.ModeMain)}}}
}

// announceMode sends the mode banner with the keyboard that leads back to the main menu.
func announceMode(ctx context.Context, c *controller.Chat, mode types.Mode) error {
	_, err := c.Reply(ctx, messages.ModeSelected(c.Lang, mode), modeKeyboard(c.Lang))
	return err
}

// textOnly is embedded by handlers that accept nothing but text.
type textOnly struct{}

func (textOnly) Accepts(kind types.ContentKind) bool { return kind == types.ContentText }
