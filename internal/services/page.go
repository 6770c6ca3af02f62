package services

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/BatmanBruc/bat-bot-multitool/internal/formats"
	"github.com/BatmanBruc/bat-bot-multitool/types"
)

const maxPageBytes = 4 << 20

// PageResolver handles links that are not one of the known platforms:
// either the link serves media itself or its HTML advertises media in Open Graph tags.
type PageResolver struct {
	httpClient *http.Client
	userAgent  string
}

func NewPageResolver(httpClient *http.Client) *PageResolver {
	return &PageResolver{
		httpClient: httpClient,
		userAgent:  "Mozilla/5.0 (compatible; bat-multitool/1.0)",
	}
}

func (p *PageResolver) Resolve(ctx context.Context, raw string) (types.MediaSource, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, raw, nil)
	if err != nil {
		return types.MediaSource{}, err
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return types.MediaSource{}, ClassifyNetErr("fetch page", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return types.MediaSource{}, ClassifyStatus("fetch page", resp.StatusCode, body)
	}

	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if kind, ok := mediaKindForMime(mediaType); ok {
		return types.MediaSource{
			Title:  titleFromURL(resp.Request.URL),
			Direct: true,
			Items: []types.FormatOption{{
				Label:     string(kind),
				Ext:       formats.ExtensionFromMimeType(mediaType, "bin"),
				Kind:      kind,
				SizeBytes: max(resp.ContentLength, 0),
				Source:    types.RemoteRef{URL: resp.Request.URL.String(), SizeBytes: max(resp.ContentLength, 0)},
			}},
		}, nil
	}
	if mediaType != "text/html" && mediaType != "application/xhtml+xml" {
		return types.MediaSource{}, fmt.Errorf("fetch page: %w: content type %q", types.ErrEmptyResult, mediaType)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return types.MediaSource{}, fmt.Errorf("parse page: %w", err)
	}
	return OpenGraphMedia(doc, resp.Request.URL)
}

// OpenGraphMedia picks the first advertised video, then audio, then image.
func OpenGraphMedia(doc *goquery.Document, base *url.URL) (types.MediaSource, error) {
	meta := func(names ...string) string {
		for _, name := range names {
			sel := doc.Find(fmt.Sprintf(`meta[property="%s"], meta[name="%s"]`, name, name)).First()
			if v, ok := sel.Attr("content"); ok && strings.TrimSpace(v) != "" {
				return strings.TrimSpace(v)
			}
		}
		return ""
	}

	title := meta("og:title", "twitter:title")
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}

	candidates := []struct {
		kind  types.MediaKind
		ext   string
		link  string
		mtype string
	}{
		{types.MediaVideo, "mp4", meta("og:video:secure_url", "og:video:url", "og:video", "twitter:player:stream"), meta("og:video:type")},
		{types.MediaAudio, "mp3", meta("og:audio:secure_url", "og:audio:url", "og:audio"), meta("og:audio:type")},
		{types.MediaImage, "jpg", meta("og:image:secure_url", "og:image:url", "og:image"), meta("og:image:type")},
	}
	for _, c := range candidates {
		if c.link == "" {
			continue
		}
		ref, err := base.Parse(c.link)
		if err != nil || (ref.Scheme != "http" && ref.Scheme != "https") {
			continue
		}
		ext := c.ext
		if c.mtype != "" {
			ext = formats.ExtensionFromMimeType(c.mtype, c.ext)
		}
		return types.MediaSource{
			Title:  title,
			Direct: true,
			Items: []types.FormatOption{{
				Label:  string(c.kind),
				Ext:    ext,
				Kind:   c.kind,
				Source: types.RemoteRef{URL: ref.String()},
			}},
		}, nil
	}
	return types.MediaSource{}, fmt.Errorf("page %s: %w: no media metadata", base.Host, types.ErrEmptyResult)
}

func mediaKindForMime(mediaType string) (types.MediaKind, bool) {
	switch {
	case strings.HasPrefix(mediaType, "video/"):
		return types.MediaVideo, true
	case strings.HasPrefix(mediaType, "audio/"):
		return types.MediaAudio, true
	case strings.HasPrefix(mediaType, "image/"):
		return types.MediaImage, true
	}
	return "", false
}

func titleFromURL(u *url.URL) string {
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	last := segments[len(segments)-1]
	if i := strings.LastIndex(last, "."); i > 0 {
		last = last[:i]
	}
	if last == "" {
		return u.Host
	}
	return last
}
