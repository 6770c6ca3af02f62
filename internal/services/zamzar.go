package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/BatmanBruc/bat-bot-multitool/internal/formats"
	"github.com/BatmanBruc/bat-bot-multitool/types"
)

const DefaultZamzarURL = "https://api.zamzar.com/v1"

// Zamzar is the file conversion service: list targets, submit a job, poll it, fetch the result.
type Zamzar struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	retry      RetryPolicy
}

func NewZamzar(apiKey, baseURL string, httpClient *http.Client, retry RetryPolicy) *Zamzar {
	if baseURL == "" {
		baseURL = DefaultZamzarURL
	}
	return &Zamzar{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		retry:      retry,
	}
}

func (z *Zamzar) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, z.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(z.apiKey, "")
	return req, nil
}

// ListTargets returns the formats sourceExt converts to. Unknown source formats yield an empty list.
func (z *Zamzar) ListTargets(ctx context.Context, sourceExt string) ([]types.FormatOption, error) {
	sourceExt = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(sourceExt), "."))
	if sourceExt == "" {
		return nil, fmt.Errorf("list targets: %w: no extension", types.ErrInvalidInput)
	}

	var targets []types.FormatOption
	err := RunWithRetry(ctx, z.retry, func(ctx context.Context) error {
		req, err := z.newRequest(ctx, http.MethodGet, "/formats/"+sourceExt, nil)
		if err != nil {
			return err
		}
		res, err := doJSON(z.httpClient, req, "list targets")
		if err != nil {
			return err
		}
		targets = targets[:0]
		res.Get("targets").ForEach(func(_, t gjson.Result) bool {
			name := strings.ToLower(t.Get("name").String())
			if name == "" || name == sourceExt {
				return true
			}
			targets = append(targets, types.FormatOption{
				Label: strings.ToUpper(name),
				Ext:   name,
				Kind:  formats.KindForExtension(name),
			})
			return true
		})
		return nil
	})
	if errors.Is(err, types.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return targets, nil
}

// SubmitJob uploads the file at path and starts a conversion to targetExt.
// Only attempts that got no response are retried, so a job is never created twice
// because of a gateway error.
func (z *Zamzar) SubmitJob(ctx context.Context, path, targetExt string) (string, error) {
	const op = "submit conversion"
	var jobID string
	err := RunWithRetry(ctx, z.retry, func(ctx context.Context) error {
		body, contentType, size, err := multipartBody(path, targetExt)
		if err != nil {
			return err
		}
		req, err := z.newRequest(ctx, http.MethodPost, "/jobs", body)
		if err != nil {
			body.Close()
			return err
		}
		req.ContentLength = size
		req.Header.Set("Content-Type", contentType)

		resp, err := z.httpClient.Do(req)
		if err != nil {
			return ClassifyNetErr(op, err)
		}
		raw, err := readResponse(resp, op)
		if err != nil {
			return delivered(err)
		}
		if !gjson.ValidBytes(raw) {
			return fmt.Errorf("%s: invalid json response", op)
		}
		jobID = gjson.GetBytes(raw, "id").String()
		if jobID == "" {
			return fmt.Errorf("%s: %w: no job id", op, types.ErrEmptyResult)
		}
		return nil
	})
	return jobID, err
}

// delivered drops the transient mark of a failure the service responded with.
func delivered(err error) error {
	if IsTransient(err) {
		return errors.New(err.Error())
	}
	return err
}

type fileBody struct {
	io.Reader
	io.Closer
}

// multipartBody streams the form from disk: the part headers, the file, the closing boundary.
func multipartBody(path, targetExt string) (io.ReadCloser, string, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", 0, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, "", 0, err
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("target_format", targetExt); err != nil {
		f.Close()
		return nil, "", 0, err
	}
	if _, err := w.CreateFormFile("source_file", filepath.Base(path)); err != nil {
		f.Close()
		return nil, "", 0, err
	}
	head := bytes.Clone(buf.Bytes())
	buf.Reset()
	if err := w.Close(); err != nil {
		f.Close()
		return nil, "", 0, err
	}
	tail := bytes.Clone(buf.Bytes())

	size := int64(len(head)) + info.Size() + int64(len(tail))
	r := io.MultiReader(bytes.NewReader(head), f, bytes.NewReader(tail))
	return fileBody{Reader: r, Closer: f}, w.FormDataContentType(), size, nil
}

func (z *Zamzar) PollJob(ctx context.Context, jobID string) (types.ConversionJob, error) {
	req, err := z.newRequest(ctx, http.MethodGet, "/jobs/"+jobID, nil)
	if err != nil {
		return types.ConversionJob{}, err
	}
	res, err := doJSON(z.httpClient, req, "poll conversion")
	if err != nil {
		return types.ConversionJob{}, err
	}
	return types.ConversionJob{
		ID:        jobID,
		Status:    types.ConversionStatus(res.Get("status").String()),
		ResultRef: res.Get("target_files.0.id").String(),
		Failure:   res.Get("failure.message").String(),
	}, nil
}

// ResultRef is the authenticated download handle of a converted file.
func (z *Zamzar) ResultRef(fileID string) types.RemoteRef {
	token := base64.StdEncoding.EncodeToString([]byte(z.apiKey + ":"))
	return types.RemoteRef{
		URL:    z.baseURL + "/files/" + fileID + "/content",
		Header: map[string]string{"Authorization": "Basic " + token},
	}
}
