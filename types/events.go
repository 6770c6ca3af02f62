package types

type FileRef struct {
	FileID    string      `json:"file_id"`
	FileName  string      `json:"file_name,omitempty"`
	MimeType  string      `json:"mime_type,omitempty"`
	SizeBytes int64       `json:"size_bytes,omitempty"`
	Kind      ContentKind `json:"kind"`
}

type Sender struct {
	UserID       int64
	Username     string
	FirstName    string
	LastName     string
	LanguageCode string
}

type Command struct {
	ChatID  int64
	From    Sender
	Name    string
	Args    string
	RawText string
}

type Callback struct {
	ChatID          int64
	From            Sender
	OriginMessageID int
	CallbackID      string
	Token           string
}

type Content struct {
	ChatID    int64
	From      Sender
	MessageID int
	Kind      ContentKind
	Text      string
	File      *FileRef
}

// Event is one inbound transport event; exactly one field is set.
type Event struct {
	Command  *Command
	Callback *Callback
	Content  *Content
}

func (e Event) ChatID() int64 {
	switch {
	case e.Command != nil:
		return e.Command.ChatID
	case e.Callback != nil:
		return e.Callback.ChatID
	case e.Content != nil:
		return e.Content.ChatID
	}
	return 0
}

func (e Event) From() Sender {
	switch {
	case e.Command != nil:
		return e.Command.From
	case e.Callback != nil:
		return e.Callback.From
	case e.Content != nil:
		return e.Content.From
	}
	return Sender{}
}
