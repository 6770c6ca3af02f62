package types

// RemoteRef is an opaque handle to a remote byte stream.
type RemoteRef struct {
	URL       string            `json:"url"`
	Header    map[string]string `json:"header,omitempty"`
	SizeBytes int64             `json:"size_bytes,omitempty"`
}

type FormatOption struct {
	Label     string     `json:"label"`
	Ext       string     `json:"ext"`
	Kind      MediaKind  `json:"kind"`
	SizeBytes int64      `json:"size_bytes,omitempty"`
	Source    RemoteRef  `json:"source"`
	Audio     *RemoteRef `json:"audio,omitempty"`
}

// TotalSize is the known size of everything the option downloads, or 0 when unknown.
func (o FormatOption) TotalSize() int64 {
	size := o.SizeBytes
	if size == 0 {
		size = o.Source.SizeBytes
	}
	if o.Audio != nil && size > 0 {
		size += o.Audio.SizeBytes
	}
	return size
}

// MediaSource is what a media URL resolves to. Direct sources carry one
// item that is downloaded right away; the rest are offered as a menu.
type MediaSource struct {
	Title   string
	Channel string
	Direct  bool
	Items   []FormatOption
}

type ConversionJob struct {
	ID        string
	Status    ConversionStatus
	ResultRef string
	Failure   string
}
