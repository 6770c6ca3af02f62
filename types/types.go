package types

import "time"

// ChatSession is a snapshot of one chat's conversation state.
// Stores hand out copies; mutate through SessionStore only.
type ChatSession struct {
	ChatID           int64     `json:"chat_id"`
	Mode             Mode      `json:"mode"`
	Epoch            uint64    `json:"epoch"`
	Pending          Selection `json:"-"`
	ActiveMessageIDs []int     `json:"active_message_ids,omitempty"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Selection is the mode-specific transient state of the active flow.
type Selection interface {
	SelectionMode() Mode
}

type TranslateSelection struct {
	Lang string
}

func (TranslateSelection) SelectionMode() Mode { return ModeTranslate }

type CurrencySelection struct {
	From string
	To   string
}

func (CurrencySelection) SelectionMode() Mode { return ModeCurrency }

type ConvertSelection struct {
	Stage     Stage
	MenuID    string
	File      FileRef
	SourceExt string
	Targets   []FormatOption
}

func (ConvertSelection) SelectionMode() Mode { return ModeConvert }

type DownloadSelection struct {
	Stage   Stage
	MenuID  string
	Title   string
	Channel string
	Formats []FormatOption
}

func (DownloadSelection) SelectionMode() Mode { return ModeDownload }

type VoiceSelection struct {
	Stage Stage
}

func (VoiceSelection) SelectionMode() Mode { return ModeVoice }

func (s ChatSession) Clone() ChatSession {
	out := s
	if s.ActiveMessageIDs != nil {
		out.ActiveMessageIDs = append([]int(nil), s.ActiveMessageIDs...)
	}
	out.Pending = CloneSelection(s.Pending)
	return out
}

func CloneSelection(sel Selection) Selection {
	switch v := sel.(type) {
	case ConvertSelection:
		v.Targets = append([]FormatOption(nil), v.Targets...)
		return v
	case DownloadSelection:
		v.Formats = append([]FormatOption(nil), v.Formats...)
		return v
	default:
		return sel
	}
}

type SessionStore interface {
	Get(chatID int64) ChatSession
	SetMode(chatID int64, mode Mode) ChatSession
	SetPendingSelection(chatID int64, sel Selection) error
	RecordSentMessage(chatID int64, messageID int)
	ForgetSentMessage(chatID int64, messageID int)
	ClearSentMessages(chatID int64) []int
}
