// Package transporttest provides a recording Transport for tests.
package transporttest

import (
	"context"
	"errors"
	"os"
	"sync"

	"github.com/BatmanBruc/bat-bot-multitool/internal/transport"
	"github.com/BatmanBruc/bat-bot-multitool/types"
)

type Message struct {
	ChatID    int64
	MessageID int
	Text      string
	Markup    *transport.Markup
}

type Media struct {
	ChatID  int64
	Kind    types.MediaKind
	File    transport.OutgoingFile
	Existed bool
}

type Fake struct {
	mu         sync.Mutex
	nextID     int
	Sent       []Message
	Edited     []Message
	Deleted    []int
	Media      []Media
	Activities []transport.Activity
	Answered   []string
	Files      map[string]string

	SendMediaErr error
}

func New() *Fake {
	return &Fake{nextID: 100, Files: map[string]string{}}
}

func (f *Fake) SendText(_ context.Context, chatID int64, text string, markup *transport.Markup) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.Sent = append(f.Sent, Message{ChatID: chatID, MessageID: f.nextID, Text: text, Markup: markup})
	return f.nextID, nil
}

func (f *Fake) EditText(_ context.Context, chatID int64, messageID int, text string, markup *transport.Markup) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Edited = append(f.Edited, Message{ChatID: chatID, MessageID: messageID, Text: text, Markup: markup})
	return nil
}

func (f *Fake) DeleteMessage(_ context.Context, _ int64, messageID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Deleted = append(f.Deleted, messageID)
	return nil
}

func (f *Fake) SendMedia(_ context.Context, chatID int64, kind types.MediaKind, file transport.OutgoingFile) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	existed := false
	if file.Path != "" {
		_, err := os.Stat(file.Path)
		existed = err == nil
	}
	f.Media = append(f.Media, Media{ChatID: chatID, Kind: kind, File: file, Existed: existed})
	if f.SendMediaErr != nil {
		return 0, f.SendMediaErr
	}
	f.nextID++
	return f.nextID, nil
}

func (f *Fake) IndicateActivity(_ context.Context, _ int64, activity transport.Activity) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Activities = append(f.Activities, activity)
	return nil
}

func (f *Fake) AnswerCallback(_ context.Context, callbackID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Answered = append(f.Answered, callbackID)
	return nil
}

func (f *Fake) FileURL(_ context.Context, fileID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	url, ok := f.Files[fileID]
	if !ok {
		return "", errors.New("file not found")
	}
	return url, nil
}

// LastText returns the text of the most recent sent message.
func (f *Fake) LastText() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Sent) == 0 {
		return ""
	}
	return f.Sent[len(f.Sent)-1].Text
}

func (f *Fake) LastMessage() Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Sent) == 0 {
		return Message{}
	}
	return f.Sent[len(f.Sent)-1]
}

func (f *Fake) SentTexts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.Sent))
	for _, m := range f.Sent {
		out = append(out, m.Text)
	}
	return out
}

func (f *Fake) MediaSent() []Media {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Media(nil), f.Media...)
}

func (f *Fake) DeletedIDs() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.Deleted...)
}

func (f *Fake) EditedMessages() []Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Message(nil), f.Edited...)
}
