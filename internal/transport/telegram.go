package transport

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/BatmanBruc/bat-bot-multitool/internal/messages"
	"github.com/BatmanBruc/bat-bot-multitool/internal/utils"
	"github.com/BatmanBruc/bat-bot-multitool/types"
)

// Telegram implements Transport on top of go-telegram/bot.
type Telegram struct {
	b   *bot.Bot
	log *zap.Logger
}

func NewTelegram(b *bot.Bot, log *zap.Logger) *Telegram {
	return &Telegram{b: b, log: log}
}

func replyMarkup(m *Markup) models.ReplyMarkup {
	switch {
	case m == nil:
		return nil
	case len(m.Inline) > 0:
		return utils.BuildInlineKeyboard(m.Inline)
	case len(m.Reply) > 0:
		return utils.BuildReplyKeyboard(m.Reply)
	case m.RemoveReply:
		return &models.ReplyKeyboardRemove{RemoveKeyboard: true}
	}
	return nil
}

func (t *Telegram) SendText(ctx context.Context, chatID int64, text string, markup *Markup) (int, error) {
	msg, err := t.b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ParseMode:   messages.ParseModeHTML,
		ReplyMarkup: replyMarkup(markup),
	})
	if err != nil {
		return 0, fmt.Errorf("send message: %w", err)
	}
	return msg.ID, nil
}

func (t *Telegram) EditText(ctx context.Context, chatID int64, messageID int, text string, markup *Markup) error {
	params := &bot.EditMessageTextParams{
		ChatID:    chatID,
		MessageID: messageID,
		Text:      text,
		ParseMode: messages.ParseModeHTML,
	}
	if markup != nil && len(markup.Inline) > 0 {
		params.ReplyMarkup = utils.BuildInlineKeyboard(markup.Inline)
	}
	_, err := t.b.EditMessageText(ctx, params)
	if err != nil && strings.Contains(err.Error(), "message is not modified") {
		return nil
	}
	if err != nil {
		return fmt.Errorf("edit message: %w", err)
	}
	return nil
}

func (t *Telegram) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	_, err := t.b.DeleteMessage(ctx, &bot.DeleteMessageParams{
		ChatID:    chatID,
		MessageID: messageID,
	})
	if err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	return nil
}

func (t *Telegram) SendMedia(ctx context.Context, chatID int64, kind types.MediaKind, file OutgoingFile) (int, error) {
	var input models.InputFile
	if file.Path != "" {
		f, err := os.Open(file.Path)
		if err != nil {
			return 0, err
		}
		defer f.Close()

		name := strings.TrimSpace(file.Name)
		if name == "" {
			name = filepath.Base(file.Path)
		}
		input = &models.InputFileUpload{Filename: name, Data: f}
	} else {
		input = &models.InputFileString{Data: file.URL}
	}

	var (
		msg *models.Message
		err error
	)
	markup := replyMarkup(file.Markup)
	switch kind {
	case types.MediaVideo:
		msg, err = t.b.SendVideo(ctx, &bot.SendVideoParams{
			ChatID:            chatID,
			Video:             input,
			Caption:           file.Caption,
			ParseMode:         messages.ParseModeHTML,
			SupportsStreaming: true,
			ReplyMarkup:       markup,
		})
	case types.MediaAudio:
		msg, err = t.b.SendAudio(ctx, &bot.SendAudioParams{
			ChatID:      chatID,
			Audio:       input,
			Caption:     file.Caption,
			ParseMode:   messages.ParseModeHTML,
			ReplyMarkup: markup,
		})
	case types.MediaVoice:
		msg, err = t.b.SendVoice(ctx, &bot.SendVoiceParams{
			ChatID:      chatID,
			Voice:       input,
			Caption:     file.Caption,
			ParseMode:   messages.ParseModeHTML,
			ReplyMarkup: markup,
		})
	case types.MediaImage:
		msg, err = t.b.SendPhoto(ctx, &bot.SendPhotoParams{
			ChatID:      chatID,
			Photo:       input,
			Caption:     file.Caption,
			ParseMode:   messages.ParseModeHTML,
			ReplyMarkup: markup,
		})
	default:
		msg, err = t.b.SendDocument(ctx, &bot.SendDocumentParams{
			ChatID:      chatID,
			Document:    input,
			Caption:     file.Caption,
			ParseMode:   messages.ParseModeHTML,
			ReplyMarkup: markup,
		})
	}
	if err != nil {
		return 0, fmt.Errorf("send %s: %w", kind, err)
	}
	return msg.ID, nil
}

func (t *Telegram) IndicateActivity(ctx context.Context, chatID int64, activity Activity) error {
	_, err := t.b.SendChatAction(ctx, &bot.SendChatActionParams{
		ChatID: chatID,
		Action: models.ChatAction(activity),
	})
	return err
}

func (t *Telegram) AnswerCallback(ctx context.Context, callbackID string) error {
	if callbackID == "" {
		return nil
	}
	_, err := t.b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
	})
	return err
}

func (t *Telegram) FileURL(ctx context.Context, fileID string) (string, error) {
	file, err := t.b.GetFile(ctx, &bot.GetFileParams{FileID: fileID})
	if err != nil {
		return "", fmt.Errorf("get file: %w", err)
	}
	return t.b.FileDownloadLink(file), nil
}
