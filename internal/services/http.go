package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"
)

const maxResponseBytes = 8 << 20

func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// do sends req and returns the body of a 2xx response, classifying every failure.
func do(client *http.Client, req *http.Request, op string) ([]byte, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, ClassifyNetErr(op, err)
	}
	return readResponse(resp, op)
}

func readResponse(resp *http.Response, op string) ([]byte, error) {
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, ClassifyNetErr(op, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, ClassifyStatus(op, resp.StatusCode, body)
	}
	return body, nil
}

func doJSON(client *http.Client, req *http.Request, op string) (gjson.Result, error) {
	body, err := do(client, req, op)
	if err != nil {
		return gjson.Result{}, err
	}
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, fmt.Errorf("%s: invalid json response", op)
	}
	return gjson.ParseBytes(body), nil
}

func rapidAPIRequest(ctx context.Context, method, endpoint, apiKey string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-RapidAPI-Key", apiKey)
	req.Header.Set("X-RapidAPI-Host", u.Host)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}
