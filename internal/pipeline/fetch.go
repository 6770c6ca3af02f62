package pipeline

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/BatmanBruc/bat-bot-multitool/internal/services"
	"github.com/BatmanBruc/bat-bot-multitool/types"
)

type Fetcher struct {
	client     *http.Client
	retry      services.RetryPolicy
	timeout    time.Duration
	limitBytes int64
	log        *zap.Logger
}

// NewFetcher builds a fetcher. timeout bounds each download attempt and limitBytes
// caps every artifact; zero disables either.
func NewFetcher(client *http.Client, retry services.RetryPolicy, timeout time.Duration, limitBytes int64, log *zap.Logger) *Fetcher {
	if client == nil {
		client = &http.Client{}
	}
	return &Fetcher{client: client, retry: retry, timeout: timeout, limitBytes: limitBytes, log: log}
}

func (f *Fetcher) LimitBytes() int64 { return f.limitBytes }

// FetchRemote opens the body of ref. The caller closes it. The returned size is
// the advertised Content-Length, or -1 when unknown.
func (f *Fetcher) FetchRemote(ctx context.Context, ref types.RemoteRef) (io.ReadCloser, int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref.URL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("fetch: %w: %v", types.ErrInvalidInput, err)
	}
	for k, v := range ref.Header {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, 0, services.ClassifyNetErr("fetch", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		return nil, 0, services.ClassifyStatus("fetch", resp.StatusCode, body)
	}
	return resp.Body, resp.ContentLength, nil
}

// DownloadToTemp stores ref in a new temp file of job. A known oversize artifact
// fails before any request is made; an unknown one fails as soon as it crosses the limit.
func (f *Fetcher) DownloadToTemp(ctx context.Context, job *Job, ref types.RemoteRef, ext string) (string, error) {
	if err := EnforceSizeLimit(ref.SizeBytes, f.limitBytes); err != nil {
		return "", err
	}

	path := job.TempPath(ext)
	start := time.Now()
	err := services.RunWithRetry(ctx, f.retry, func(ctx context.Context) error {
		if f.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, f.timeout)
			defer cancel()
		}
		return f.download(ctx, ref, path)
	})
	if err != nil {
		_ = os.Remove(path)
		return "", err
	}

	f.log.Debug("downloaded",
		zap.String("job_id", job.ID),
		zap.String("path", path),
		zap.Duration("took", time.Since(start)),
	)
	return path, nil
}

func (f *Fetcher) download(ctx context.Context, ref types.RemoteRef, path string) error {
	body, size, err := f.FetchRemote(ctx, ref)
	if err != nil {
		return err
	}
	defer body.Close()

	if err := EnforceSizeLimit(size, f.limitBytes); err != nil {
		return err
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, &limitedReader{r: body, limit: f.limitBytes}); err != nil {
		if services.IsTransient(err) {
			return err
		}
		return services.ClassifyNetErr("download", err)
	}
	return out.Sync()
}

// Download is one ref to store, with the extension of its temp file.
type Download struct {
	Ref types.RemoteRef
	Ext string
}

// DownloadAll fetches every item concurrently and returns the paths in input order.
// The first failure cancels the rest.
func (f *Fetcher) DownloadAll(ctx context.Context, job *Job, items []Download) ([]string, error) {
	var total int64
	for _, it := range items {
		total += max(it.Ref.SizeBytes, 0)
	}
	if err := EnforceSizeLimit(total, f.limitBytes); err != nil {
		return nil, err
	}

	paths := make([]string, len(items))
	g, gctx := errgroup.WithContext(ctx)
	for i, it := range items {
		g.Go(func() error {
			p, err := f.DownloadToTemp(gctx, job, it.Ref, it.Ext)
			if err != nil {
				return err
			}
			paths[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}
