package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/BatmanBruc/bat-bot-multitool/internal/formats"
	"github.com/BatmanBruc/bat-bot-multitool/types"
)

const (
	DefaultYouTubeURL   = "https://yt-api.p.rapidapi.com"
	DefaultInstagramURL = "https://auto-download-all-in-one.p.rapidapi.com"
	DefaultTikTokURL    = "https://tiktok-video-no-watermark2.p.rapidapi.com"
)

type SourceKind int

const (
	SourceGeneric SourceKind = iota
	SourceYouTube
	SourceInstagram
	SourceTikTok
)

// ClassifyURL decides which resolver handles raw. Only absolute http(s) URLs are accepted.
func ClassifyURL(raw string) (SourceKind, *url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return SourceGeneric, nil, fmt.Errorf("%w: not a url: %q", types.ErrInvalidInput, raw)
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	host = strings.TrimPrefix(host, "m.")
	switch {
	case host == "youtu.be" || host == "youtube.com" || strings.HasSuffix(host, ".youtube.com"):
		return SourceYouTube, u, nil
	case host == "instagram.com" || strings.HasSuffix(host, ".instagram.com"):
		return SourceInstagram, u, nil
	case host == "tiktok.com" || strings.HasSuffix(host, ".tiktok.com"):
		return SourceTikTok, u, nil
	}
	return SourceGeneric, u, nil
}

// YouTubeID extracts the video id from the common YouTube URL shapes.
func YouTubeID(u *url.URL) string {
	if strings.EqualFold(u.Hostname(), "youtu.be") {
		return strings.Trim(u.Path, "/")
	}
	if v := u.Query().Get("v"); v != "" {
		return v
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) == 2 {
		switch parts[0] {
		case "shorts", "embed", "live", "v":
			return parts[1]
		}
	}
	return ""
}

type MediaResolverConfig struct {
	APIKey       string
	YouTubeURL   string
	InstagramURL string
	TikTokURL    string
}

type MediaResolver struct {
	cfg        MediaResolverConfig
	httpClient *http.Client
	retry      RetryPolicy
	pages      *PageResolver
}

func NewMediaResolver(cfg MediaResolverConfig, httpClient *http.Client, retry RetryPolicy, pages *PageResolver) *MediaResolver {
	if cfg.YouTubeURL == "" {
		cfg.YouTubeURL = DefaultYouTubeURL
	}
	if cfg.InstagramURL == "" {
		cfg.InstagramURL = DefaultInstagramURL
	}
	if cfg.TikTokURL == "" {
		cfg.TikTokURL = DefaultTikTokURL
	}
	cfg.YouTubeURL = strings.TrimRight(cfg.YouTubeURL, "/")
	cfg.InstagramURL = strings.TrimRight(cfg.InstagramURL, "/")
	cfg.TikTokURL = strings.TrimRight(cfg.TikTokURL, "/")
	return &MediaResolver{cfg: cfg, httpClient: httpClient, retry: retry, pages: pages}
}

func (r *MediaResolver) Resolve(ctx context.Context, raw string) (types.MediaSource, error) {
	kind, u, err := ClassifyURL(raw)
	if err != nil {
		return types.MediaSource{}, err
	}

	var src types.MediaSource
	err = RunWithRetry(ctx, r.retry, func(ctx context.Context) error {
		var err error
		switch kind {
		case SourceYouTube:
			src, err = r.youtube(ctx, u)
		case SourceInstagram:
			src, err = r.instagram(ctx, u)
		case SourceTikTok:
			src, err = r.tiktok(ctx, u)
		default:
			src, err = r.pages.Resolve(ctx, u.String())
		}
		return err
	})
	if err != nil {
		return types.MediaSource{}, err
	}
	if len(src.Items) == 0 {
		return types.MediaSource{}, fmt.Errorf("resolve %s: %w", u.Host, types.ErrEmptyResult)
	}
	return src, nil
}

func (r *MediaResolver) youtube(ctx context.Context, u *url.URL) (types.MediaSource, error) {
	id := YouTubeID(u)
	if id == "" {
		return types.MediaSource{}, fmt.Errorf("%w: no video id in %q", types.ErrInvalidInput, u.String())
	}

	req, err := rapidAPIRequest(ctx, http.MethodGet, r.cfg.YouTubeURL+"/dl?id="+url.QueryEscape(id), r.cfg.APIKey, nil)
	if err != nil {
		return types.MediaSource{}, err
	}
	res, err := doJSON(r.httpClient, req, "youtube lookup")
	if err != nil {
		return types.MediaSource{}, err
	}
	if status := res.Get("status").String(); status != "" && !strings.EqualFold(status, "OK") {
		return types.MediaSource{}, fmt.Errorf("youtube lookup: %w: status %s", types.ErrEmptyResult, status)
	}
	return YouTubeFormats(res), nil
}

// YouTubeFormats builds the choice list: best audio first, one entry per video
// quality, the thumbnail last. Video-only streams carry the audio track to merge.
func YouTubeFormats(res gjson.Result) types.MediaSource {
	src := types.MediaSource{
		Title:   res.Get("title").String(),
		Channel: res.Get("channelTitle").String(),
	}

	var (
		audio       *types.FormatOption
		bestBitrate int64 = -1
	)
	res.Get("adaptiveFormats").ForEach(func(_, f gjson.Result) bool {
		mime := f.Get("mimeType").String()
		if !strings.HasPrefix(mime, "audio/") || f.Get("url").String() == "" {
			return true
		}
		if bitrate := f.Get("bitrate").Int(); bitrate > bestBitrate {
			opt := formatFromStream(f, "🎵 Audio", types.MediaAudio)
			audio = &opt
			bestBitrate = bitrate
		}
		return true
	})
	if audio != nil {
		src.Items = append(src.Items, *audio)
	}

	seen := map[string]bool{}
	res.Get("formats").ForEach(func(_, f gjson.Result) bool {
		q := f.Get("qualityLabel").String()
		if q == "" || seen[q] || f.Get("url").String() == "" {
			return true
		}
		seen[q] = true
		src.Items = append(src.Items, formatFromStream(f, "🎬 "+q, types.MediaVideo))
		return true
	})
	res.Get("adaptiveFormats").ForEach(func(_, f gjson.Result) bool {
		q := f.Get("qualityLabel").String()
		if q == "" || seen[q] || !strings.HasPrefix(f.Get("mimeType").String(), "video/mp4") || f.Get("url").String() == "" {
			return true
		}
		seen[q] = true
		opt := formatFromStream(f, "🎬 "+q, types.MediaVideo)
		if audio != nil {
			track := audio.Source
			opt.Audio = &track
		}
		src.Items = append(src.Items, opt)
		return true
	})

	thumbs := res.Get("thumbnail").Array()
	if len(thumbs) > 0 {
		if thumb := thumbs[len(thumbs)-1].Get("url").String(); thumb != "" {
			src.Items = append(src.Items, types.FormatOption{
				Label:  "🖼 Thumbnail",
				Ext:    "jpg",
				Kind:   types.MediaImage,
				Source: types.RemoteRef{URL: thumb},
			})
		}
	}
	return src
}

func formatFromStream(f gjson.Result, label string, kind types.MediaKind) types.FormatOption {
	size := f.Get("contentLength").Int()
	ext := formats.ExtensionFromMimeType(f.Get("mimeType").String(), "mp4")
	if kind == types.MediaAudio && ext == "mp4" {
		ext = "m4a"
	}
	return types.FormatOption{
		Label:     label,
		Ext:       ext,
		Kind:      kind,
		SizeBytes: size,
		Source:    types.RemoteRef{URL: f.Get("url").String(), SizeBytes: size},
	}
}

func (r *MediaResolver) instagram(ctx context.Context, u *url.URL) (types.MediaSource, error) {
	body, err := sjson.Set("", "url", u.String())
	if err != nil {
		return types.MediaSource{}, err
	}
	req, err := rapidAPIRequest(ctx, http.MethodPost, r.cfg.InstagramURL+"/v1/social/autolink", r.cfg.APIKey, strings.NewReader(body))
	if err != nil {
		return types.MediaSource{}, err
	}
	res, err := doJSON(r.httpClient, req, "instagram lookup")
	if err != nil {
		return types.MediaSource{}, err
	}

	media := res.Get("medias.0")
	link := media.Get("url").String()
	if link == "" {
		return types.MediaSource{}, fmt.Errorf("instagram lookup: %w", types.ErrEmptyResult)
	}
	ext := strings.ToLower(media.Get("extension").String())
	kind := types.MediaVideo
	if media.Get("type").String() == "image" {
		kind = types.MediaImage
		if ext == "" {
			ext = "jpg"
		}
	}
	if ext == "" {
		ext = "mp4"
	}
	return types.MediaSource{
		Title:  res.Get("title").String(),
		Direct: true,
		Items: []types.FormatOption{{
			Label:  "Instagram",
			Ext:    ext,
			Kind:   kind,
			Source: types.RemoteRef{URL: link},
		}},
	}, nil
}

func (r *MediaResolver) tiktok(ctx context.Context, u *url.URL) (types.MediaSource, error) {
	endpoint := r.cfg.TikTokURL + "/?hd=1&url=" + url.QueryEscape(u.String())
	req, err := rapidAPIRequest(ctx, http.MethodGet, endpoint, r.cfg.APIKey, nil)
	if err != nil {
		return types.MediaSource{}, err
	}
	res, err := doJSON(r.httpClient, req, "tiktok lookup")
	if err != nil {
		return types.MediaSource{}, err
	}

	link := res.Get("data.play").String()
	if link == "" {
		return types.MediaSource{}, fmt.Errorf("tiktok lookup: %w: %s", types.ErrEmptyResult, res.Get("msg").String())
	}
	size := res.Get("data.size").Int()
	return types.MediaSource{
		Title:   res.Get("data.title").String(),
		Channel: res.Get("data.author.nickname").String(),
		Direct:  true,
		Items: []types.FormatOption{{
			Label:     "TikTok",
			Ext:       "mp4",
			Kind:      types.MediaVideo,
			SizeBytes: size,
			Source:    types.RemoteRef{URL: link, SizeBytes: size},
		}},
	}, nil
}
