package transport

import (
	"context"

	"github.com/BatmanBruc/bat-bot-multitool/internal/menu"
	"github.com/BatmanBruc/bat-bot-multitool/types"
)

type Activity string

const (
	ActivityTyping         Activity = "typing"
	ActivityUploadVideo    Activity = "upload_video"
	ActivityUploadPhoto    Activity = "upload_photo"
	ActivityUploadDocument Activity = "upload_document"
	ActivityUploadVoice    Activity = "upload_voice"
	ActivityRecordVoice    Activity = "record_voice"
)

// Markup is the keyboard attached to an outgoing message. The zero value attaches nothing.
type Markup struct {
	Inline      [][]menu.Button
	Reply       [][]string
	RemoveReply bool
}

func InlineMarkup(rows [][]menu.Button) *Markup {
	return &Markup{Inline: rows}
}

// OutgoingFile is either a local Path or a remote URL.
type OutgoingFile struct {
	Path    string
	URL     string
	Name    string
	Caption string
	Markup  *Markup
}

type Transport interface {
	SendText(ctx context.Context, chatID int64, text string, markup *Markup) (int, error)
	EditText(ctx context.Context, chatID int64, messageID int, text string, markup *Markup) error
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
	SendMedia(ctx context.Context, chatID int64, kind types.MediaKind, file OutgoingFile) (int, error)
	IndicateActivity(ctx context.Context, chatID int64, activity Activity) error
	AnswerCallback(ctx context.Context, callbackID string) error
	FileURL(ctx context.Context, fileID string) (string, error)
}

// ActivityFor maps the kind of artifact being sent to the chat action shown meanwhile.
func ActivityFor(kind types.MediaKind) Activity {
	switch kind {
	case types.MediaVideo:
		return ActivityUploadVideo
	case types.MediaImage:
		return ActivityUploadPhoto
	case types.MediaVoice:
		return ActivityUploadVoice
	}
	return ActivityUploadDocument
}
