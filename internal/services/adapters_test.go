package services

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tidwall/gjson"

	"github.com/BatmanBruc/bat-bot-multitool/types"
)

func TestTranslatorTranslate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/language/translate/v2" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("X-RapidAPI-Key") != "key" {
			t.Errorf("missing api key header")
		}
		body, _ := io.ReadAll(r.Body)
		if gjson.GetBytes(body, "q").String() != "hello" || gjson.GetBytes(body, "target").String() != "es" {
			t.Errorf("unexpected body %s", body)
		}
		_, _ = w.Write([]byte(`{"data":{"translations":{"translatedText":"hola"}}}`))
	}))
	defer srv.Close()

	tr := NewTranslator("key", srv.URL, srv.Client(), fastRetry)
	got, err := tr.Translate(context.Background(), "hello", "es")
	if err != nil || got != "hola" {
		t.Fatalf("Translate = %q, %v; want hola", got, err)
	}
}

func TestTranslatorRetriesGatewayErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusGatewayTimeout)
	}))
	defer srv.Close()

	tr := NewTranslator("key", srv.URL, srv.Client(), fastRetry)
	_, err := tr.Translate(context.Background(), "hello", "es")
	if !errors.Is(err, types.ErrTransient) {
		t.Fatalf("err = %v, want transient", err)
	}
	if got := atomic.LoadInt32(&calls); got != DefaultMaxAttempts {
		t.Errorf("calls = %d, want %d", got, DefaultMaxAttempts)
	}
}

func TestTranslatorRateLimitFailsFast(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	tr := NewTranslator("key", srv.URL, srv.Client(), fastRetry)
	_, err := tr.Translate(context.Background(), "hello", "es")
	if !errors.Is(err, types.ErrRateLimited) {
		t.Fatalf("err = %v, want rate limited", err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("calls = %d, want 1", got)
	}
}

func TestExchangeRatesCachesPerBase(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if r.URL.Path != "/key/latest/USD" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"result":"success","base_code":"USD","conversion_rates":{"USD":1,"EUR":0.9215,"UZS":12650.5}}`))
	}))
	defer srv.Close()

	rates := NewExchangeRates("key", srv.URL, srv.Client(), fastRetry, time.Minute)
	eur, err := rates.Rate(context.Background(), "USD", "EUR")
	if err != nil || eur.String() != "0.9215" {
		t.Fatalf("Rate(USD, EUR) = %s, %v", eur, err)
	}
	uzs, err := rates.Rate(context.Background(), "usd", "uzs")
	if err != nil || uzs.String() != "12650.5" {
		t.Fatalf("Rate(usd, uzs) = %s, %v", uzs, err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("api calls = %d, want 1 (cached)", got)
	}

	if _, err := rates.Rate(context.Background(), "USD", "XYZ"); !errors.Is(err, types.ErrEmptyResult) {
		t.Errorf("unknown target err = %v", err)
	}
}

func TestExchangeRatesAPIErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":"error","error-type":"quota-reached"}`))
	}))
	defer srv.Close()

	rates := NewExchangeRates("key", srv.URL, srv.Client(), fastRetry, time.Minute)
	if _, err := rates.Rate(context.Background(), "USD", "EUR"); !errors.Is(err, types.ErrRateLimited) {
		t.Fatalf("err = %v, want rate limited", err)
	}
}

func TestZamzarFlow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, _, ok := r.BasicAuth()
		if !ok || user != "zkey" {
			t.Errorf("missing basic auth on %s", r.URL.Path)
		}
		switch {
		case r.URL.Path == "/formats/docx":
			_, _ = w.Write([]byte(`{"name":"docx","targets":[{"name":"pdf","credit_cost":1},{"name":"odt","credit_cost":1}]}`))
		case r.URL.Path == "/formats/xyz":
			w.WriteHeader(http.StatusNotFound)
		case r.URL.Path == "/jobs" && r.Method == http.MethodPost:
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				t.Errorf("parse multipart: %v", err)
			}
			if r.FormValue("target_format") != "pdf" {
				t.Errorf("target_format = %q", r.FormValue("target_format"))
			}
			if r.ContentLength <= int64(len("content")) {
				t.Errorf("content length = %d", r.ContentLength)
			}
			f, hdr, err := r.FormFile("source_file")
			if err != nil {
				t.Errorf("source_file missing: %v", err)
			} else {
				got, _ := io.ReadAll(f)
				if string(got) != "content" || hdr.Filename != "report.docx" {
					t.Errorf("source_file = %q (%s)", got, hdr.Filename)
				}
			}
			_, _ = w.Write([]byte(`{"id":15,"status":"initialising"}`))
		case r.URL.Path == "/jobs/15":
			_, _ = w.Write([]byte(`{"id":15,"status":"successful","target_files":[{"id":77,"name":"report.pdf"}]}`))
		default:
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
	}))
	defer srv.Close()

	z := NewZamzar("zkey", srv.URL, srv.Client(), fastRetry)
	ctx := context.Background()

	targets, err := z.ListTargets(ctx, ".DOCX")
	if err != nil || len(targets) != 2 || targets[0].Ext != "pdf" || targets[0].Label != "PDF" {
		t.Fatalf("ListTargets = %+v, %v", targets, err)
	}
	if targets[0].Kind != types.MediaDocument {
		t.Errorf("pdf kind = %s", targets[0].Kind)
	}

	none, err := z.ListTargets(ctx, "xyz")
	if err != nil || len(none) != 0 {
		t.Fatalf("ListTargets(xyz) = %+v, %v; want empty", none, err)
	}

	src := t.TempDir() + "/report.docx"
	if err := writeFile(src, "content"); err != nil {
		t.Fatal(err)
	}
	id, err := z.SubmitJob(ctx, src, "pdf")
	if err != nil || id != "15" {
		t.Fatalf("SubmitJob = %q, %v", id, err)
	}

	job, err := z.PollJob(ctx, id)
	if err != nil || job.Status != types.ConversionSuccessful || job.ResultRef != "77" {
		t.Fatalf("PollJob = %+v, %v", job, err)
	}

	ref := z.ResultRef(job.ResultRef)
	if !strings.HasSuffix(ref.URL, "/files/77/content") || !strings.HasPrefix(ref.Header["Authorization"], "Basic ") {
		t.Errorf("ResultRef = %+v", ref)
	}
}

func TestZamzarSubmitGatewayErrorIsNotRetried(t *testing.T) {
	var posts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		posts.Add(1)
		_, _ = io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	src := t.TempDir() + "/a.docx"
	if err := writeFile(src, "content"); err != nil {
		t.Fatal(err)
	}
	z := NewZamzar("zkey", srv.URL, srv.Client(), fastRetry)
	_, err := z.SubmitJob(context.Background(), src, "pdf")
	if err == nil {
		t.Fatal("SubmitJob succeeded on 502")
	}
	if IsTransient(err) {
		t.Errorf("err = %v, want a non-transient error", err)
	}
	if got := posts.Load(); got != 1 {
		t.Errorf("posts = %d, want 1", got)
	}
}

func TestZamzarSubmitRetriesWhenUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	src := t.TempDir() + "/a.docx"
	if err := writeFile(src, "content"); err != nil {
		t.Fatal(err)
	}
	var attempts atomic.Int32
	client := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		attempts.Add(1)
		return http.DefaultTransport.RoundTrip(r)
	})}
	z := NewZamzar("zkey", url, client, fastRetry)
	_, err := z.SubmitJob(context.Background(), src, "pdf")
	if !IsTransient(err) {
		t.Fatalf("err = %v, want transient", err)
	}
	if got := attempts.Load(); got != DefaultMaxAttempts {
		t.Errorf("attempts = %d, want %d", got, DefaultMaxAttempts)
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }
