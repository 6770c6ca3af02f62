package types

type Mode string

const (
	ModeMain      Mode = "main"
	ModeTranslate Mode = "translate"
	ModeDownload  Mode = "download"
	ModeCurrency  Mode = "currency"
	ModeConvert   Mode = "convert"
	ModeVoice     Mode = "voice"
)

func (m Mode) Valid() bool {
	switch m {
	case ModeMain, ModeTranslate, ModeDownload, ModeCurrency, ModeConvert, ModeVoice:
		return true
	}
	return false
}

// Stage is the coarse position of a multi-step flow inside its mode.
type Stage string

const (
	StageAwaitingInput  Stage = "awaiting_input"
	StageAwaitingChoice Stage = "awaiting_choice"
	StageProcessing     Stage = "processing"
)

type ContentKind string

const (
	ContentText      ContentKind = "text"
	ContentDocument  ContentKind = "document"
	ContentPhoto     ContentKind = "photo"
	ContentVideo     ContentKind = "video"
	ContentVideoNote ContentKind = "video_note"
	ContentAudio     ContentKind = "audio"
	ContentVoice     ContentKind = "voice"
	ContentSticker   ContentKind = "sticker"
	ContentUnknown   ContentKind = "unknown"
)

func (k ContentKind) IsFile() bool {
	switch k {
	case ContentDocument, ContentPhoto, ContentVideo, ContentVideoNote, ContentAudio, ContentVoice, ContentSticker:
		return true
	}
	return false
}

type MediaKind string

const (
	MediaVideo    MediaKind = "video"
	MediaAudio    MediaKind = "audio"
	MediaImage    MediaKind = "image"
	MediaDocument MediaKind = "document"
	MediaVoice    MediaKind = "voice"
)

type ConversionStatus string

const (
	ConversionInitialising ConversionStatus = "initialising"
	ConversionConverting   ConversionStatus = "converting"
	ConversionSuccessful   ConversionStatus = "successful"
	ConversionFailed       ConversionStatus = "failed"
	ConversionCancelled    ConversionStatus = "cancelled"
)

func (s ConversionStatus) Terminal() bool {
	return s == ConversionSuccessful || s == ConversionFailed || s == ConversionCancelled
}
