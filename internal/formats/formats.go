package formats

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BatmanBruc/bat-bot-multitool/internal/i18n"
	"github.com/BatmanBruc/bat-bot-multitool/internal/messages"
	"github.com/BatmanBruc/bat-bot-multitool/types"
)

type FormatCategory struct {
	Key     string
	Name    string
	Icon    string
	Formats []string
}

var Categories = []FormatCategory{
	{Key: "images", Name: "Images", Icon: "📷", Formats: []string{"PNG", "JPG", "JPEG", "JP2", "WEBP", "BMP", "TIF", "TIFF", "GIF", "ICO", "HEIC", "AVIF", "TGS", "PSD", "SVG", "APNG", "EPS"}},
	{Key: "audio", Name: "Audio", Icon: "🔊", Formats: []string{"MP3", "OGG", "OPUS", "WAV", "FLAC", "WMA", "OGA", "M4A", "AAC", "AIFF", "AMR"}},
	{Key: "video", Name: "Video", Icon: "📹", Formats: []string{"MP4", "AVI", "WMV", "MKV", "3GP", "3GPP", "MPG", "MPEG", "WEBM", "TS", "MOV", "FLV", "ASF", "VOB"}},
	{Key: "document", Name: "Document", Icon: "💼", Formats: []string{"XLSX", "XLS", "TXT", "RTF", "DOC", "DOCX", "ODT", "PDF", "ODS"}},
	{Key: "presentation", Name: "Presentation", Icon: "🖼", Formats: []string{"PPT", "PPTX", "PPTM", "PPS", "PPSX", "PPSM", "POT", "POTX", "POTM", "ODP"}},
	{Key: "ebook", Name: "eBook", Icon: "📚", Formats: []string{"EPUB", "MOBI", "AZW3", "LRF", "PDB", "CBR", "FB2", "CBZ", "DJVU"}},
	{Key: "font", Name: "Font", Icon: "🔤", Formats: []string{"TTF", "OTF", "EOT", "WOFF", "WOFF2", "PFB"}},
}

func CategoryByExtension(ext string) string {
	ext = strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(ext), "."))
	if ext == "" {
		return ""
	}
	for _, c := range Categories {
		for _, f := range c.Formats {
			if f == ext {
				return c.Key
			}
		}
	}
	return ""
}

// KindForExtension decides how an artifact with ext is delivered to the chat.
func KindForExtension(ext string) types.MediaKind {
	switch CategoryByExtension(ext) {
	case "images":
		switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
		case "png", "jpg", "jpeg", "webp":
			return types.MediaImage
		}
		return types.MediaDocument
	case "audio":
		return types.MediaAudio
	case "video":
		switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
		case "mp4", "mov", "webm", "mkv":
			return types.MediaVideo
		}
		return types.MediaDocument
	}
	return types.MediaDocument
}

var mimeToExt = map[string]string{
	"jpeg": "jpg", "jpg": "jpg", "png": "png", "gif": "gif", "webp": "webp",
	"bmp": "bmp", "tiff": "tiff", "heic": "heic", "avif": "avif", "svg+xml": "svg",
	"pdf": "pdf", "zip": "zip", "mp4": "mp4", "mpeg": "mp3", "mp3": "mp3",
	"ogg": "ogg", "wav": "wav", "x-wav": "wav", "flac": "flac", "aac": "aac",
	"mp4a-latm": "m4a", "x-m4a": "m4a", "opus": "opus", "amr": "amr",
	"webm": "webm", "quicktime": "mov", "x-msvideo": "avi", "x-matroska": "mkv",
	"3gpp": "3gp", "x-flv": "flv",
	"msword": "doc",
	"vnd.openxmlformats-officedocument.wordprocessingml.document":   "docx",
	"vnd.ms-excel":                                                    "xls",
	"vnd.openxmlformats-officedocument.spreadsheetml.sheet":         "xlsx",
	"vnd.ms-powerpoint":                                               "ppt",
	"vnd.openxmlformats-officedocument.presentationml.presentation": "pptx",
	"vnd.oasis.opendocument.text":                                     "odt",
	"vnd.oasis.opendocument.spreadsheet":                              "ods",
	"vnd.oasis.opendocument.presentation":                             "odp",
	"plain": "txt", "rtf": "rtf", "epub+zip": "epub", "x-fictionbook+xml": "fb2",
	"x-mobipocket-ebook": "mobi",
}

func ExtensionFromMimeType(mimeType string, defaultExt string) string {
	_, subtype, ok := strings.Cut(strings.TrimSpace(mimeType), "/")
	if !ok || subtype == "" {
		return defaultExt
	}
	subtype, _, _ = strings.Cut(subtype, ";")
	subtype = strings.ToLower(strings.TrimSpace(subtype))

	if ext := mimeToExt[subtype]; ext != "" {
		return ext
	}
	if defaultExt != "" {
		return defaultExt
	}
	return subtype
}

// FileExtension prefers the extension of the file name and falls back to the mime type.
func FileExtension(fileName, mimeType string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(strings.TrimSpace(fileName)), "."))
	if ext != "" {
		return ext
	}
	return ExtensionFromMimeType(mimeType, "")
}

// DefaultFileName builds a file name for uploads that come without one.
func DefaultFileName(kind types.ContentKind, fileName, mimeType string) string {
	fileName = strings.TrimSpace(fileName)
	defaults := map[types.ContentKind]string{
		types.ContentPhoto:     "jpg",
		types.ContentVideo:     "mp4",
		types.ContentVideoNote: "mp4",
		types.ContentAudio:     "mp3",
		types.ContentVoice:     "ogg",
		types.ContentSticker:   "webp",
	}
	base := string(kind)
	if kind == types.ContentPhoto {
		base = "photo"
	}
	if fileName == "" {
		return base + "." + ExtensionFromMimeType(mimeType, defaults[kind])
	}
	if !strings.Contains(fileName, ".") {
		if ext := ExtensionFromMimeType(mimeType, defaults[kind]); ext != "" {
			return fileName + "." + ext
		}
	}
	return fileName
}

func HelpMessage(l i18n.Lang) string {
	var msg strings.Builder
	msg.WriteString("ℹ️ <b>")
	msg.WriteString(i18n.Pick(l, "Supported formats", "Поддерживаемые форматы", "Qo'llab-quvvatlanadigan formatlar"))
	msg.WriteString("</b>\n\n")

	for _, cat := range Categories {
		msg.WriteString(fmt.Sprintf("• <b>%s %s</b> <i>(%d)</i>\n", cat.Icon, messages.Escape(cat.Name), len(cat.Formats)))
		msg.WriteString("<code>")
		msg.WriteString(messages.Escape(strings.Join(cat.Formats, ", ")))
		msg.WriteString("</code>\n\n")
	}

	msg.WriteString(i18n.Pick(l,
		"Send a file and pick the target format.",
		"Отправьте файл и выберите целевой формат.",
		"Fayl yuboring va maqsadli formatni tanlang."))
	return msg.String()
}
