package middleware

import (
	"strings"

	"github.com/go-telegram/bot/models"

	"github.com/BatmanBruc/bat-bot-multitool/types"
)

// EventFromUpdate converts a telegram update into the event the controller understands.
func EventFromUpdate(update *models.Update) (types.Event, bool) {
	switch {
	case update == nil:
		return types.Event{}, false
	case update.CallbackQuery != nil:
		return callbackEvent(update.CallbackQuery)
	case update.Message != nil && update.Message.From != nil:
		return messageEvent(update.Message)
	}
	return types.Event{}, false
}

func sender(u models.User) types.Sender {
	return types.Sender{
		UserID:       u.ID,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		LanguageCode: u.LanguageCode,
	}
}

func callbackEvent(q *models.CallbackQuery) (types.Event, bool) {
	chatID, messageID := originOf(q.Message)
	if chatID == 0 || q.Data == "" {
		return types.Event{}, false
	}
	return types.Event{Callback: &types.Callback{
		ChatID:          chatID,
		From:            sender(q.From),
		OriginMessageID: messageID,
		CallbackID:      q.ID,
		Token:           q.Data,
	}}, true
}

func originOf(m models.MaybeInaccessibleMessage) (chatID int64, messageID int) {
	if m.Message != nil {
		return m.Message.Chat.ID, m.Message.ID
	}
	if m.InaccessibleMessage != nil {
		return m.InaccessibleMessage.Chat.ID, m.InaccessibleMessage.MessageID
	}
	return 0, 0
}

func messageEvent(msg *models.Message) (types.Event, bool) {
	from := sender(*msg.From)
	if name, args, ok := parseCommand(msg.Text); ok {
		return types.Event{Command: &types.Command{
			ChatID:  msg.Chat.ID,
			From:    from,
			Name:    name,
			Args:    args,
			RawText: msg.Text,
		}}, true
	}

	content := &types.Content{
		ChatID:    msg.Chat.ID,
		From:      from,
		MessageID: msg.ID,
		Kind:      determineContentKind(msg),
		Text:      msg.Text,
		File:      analyzeFile(msg),
	}
	if content.Text == "" {
		content.Text = msg.Caption
	}
	return types.Event{Content: content}, true
}

// parseCommand splits "/name@bot args" into its name and arguments.
func parseCommand(text string) (name, args string, ok bool) {
	if !strings.HasPrefix(text, "/") {
		return "", "", false
	}
	head, args, _ := strings.Cut(strings.TrimPrefix(text, "/"), " ")
	name, _, _ = strings.Cut(head, "@")
	if name == "" {
		return "", "", false
	}
	return strings.ToLower(name), strings.TrimSpace(args), true
}

func determineContentKind(msg *models.Message) types.ContentKind {
	switch {
	case len(msg.Photo) > 0:
		return types.ContentPhoto
	case msg.Video != nil:
		return types.ContentVideo
	case msg.Document != nil:
		return types.ContentDocument
	case msg.Audio != nil:
		return types.ContentAudio
	case msg.Voice != nil:
		return types.ContentVoice
	case msg.Sticker != nil:
		return types.ContentSticker
	case msg.VideoNote != nil:
		return types.ContentVideoNote
	case msg.Text != "":
		return types.ContentText
	}
	return types.ContentUnknown
}

func analyzeFile(msg *models.Message) *types.FileRef {
	switch {
	case len(msg.Photo) > 0:
		best := msg.Photo[0]
		for _, p := range msg.Photo[1:] {
			if p.FileSize > best.FileSize {
				best = p
			}
		}
		return &types.FileRef{FileID: best.FileID, SizeBytes: int64(best.FileSize), MimeType: "image/jpeg", Kind: types.ContentPhoto}
	case msg.Video != nil:
		v := msg.Video
		return &types.FileRef{FileID: v.FileID, FileName: v.FileName, MimeType: v.MimeType, SizeBytes: int64(v.FileSize), Kind: types.ContentVideo}
	case msg.Document != nil:
		d := msg.Document
		return &types.FileRef{FileID: d.FileID, FileName: d.FileName, MimeType: d.MimeType, SizeBytes: int64(d.FileSize), Kind: types.ContentDocument}
	case msg.Audio != nil:
		a := msg.Audio
		return &types.FileRef{FileID: a.FileID, FileName: a.FileName, MimeType: a.MimeType, SizeBytes: int64(a.FileSize), Kind: types.ContentAudio}
	case msg.Voice != nil:
		v := msg.Voice
		return &types.FileRef{FileID: v.FileID, MimeType: v.MimeType, SizeBytes: int64(v.FileSize), Kind: types.ContentVoice}
	case msg.Sticker != nil:
		s := msg.Sticker
		return &types.FileRef{FileID: s.FileID, SizeBytes: int64(s.FileSize), Kind: types.ContentSticker}
	case msg.VideoNote != nil:
		n := msg.VideoNote
		return &types.FileRef{FileID: n.FileID, SizeBytes: int64(n.FileSize), MimeType: "video/mp4", Kind: types.ContentVideoNote}
	}
	return nil
}
