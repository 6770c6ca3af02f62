package pipeline

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/BatmanBruc/bat-bot-multitool/internal/services"
	"github.com/BatmanBruc/bat-bot-multitool/internal/transport"
	"github.com/BatmanBruc/bat-bot-multitool/internal/transport/transporttest"
	"github.com/BatmanBruc/bat-bot-multitool/types"
)

var fastRetry = services.RetryPolicy{MaxAttempts: services.DefaultMaxAttempts, Backoff: time.Millisecond}

func newRegistry(t *testing.T) *Registry {
	t.Helper()
	reg, err := NewRegistry(t.TempDir(), zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	return reg
}

func TestEnforceSizeLimit(t *testing.T) {
	tests := []struct {
		size, limit int64
		oversize    bool
	}{
		{size: 10, limit: 100},
		{size: 100, limit: 100},
		{size: 101, limit: 100, oversize: true},
		{size: 0, limit: 100},
		{size: -1, limit: 100},
		{size: 1 << 40, limit: 0},
	}
	for _, tt := range tests {
		err := EnforceSizeLimit(tt.size, tt.limit)
		if got := errors.Is(err, types.ErrOversize); got != tt.oversize {
			t.Errorf("EnforceSizeLimit(%d, %d) = %v, want oversize=%v", tt.size, tt.limit, err, tt.oversize)
		}
	}
}

func TestDownloadToTempChecksSizeBeforeRequest(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = w.Write([]byte("data"))
	}))
	defer srv.Close()

	reg := newRegistry(t)
	f := NewFetcher(srv.Client(), fastRetry, time.Second, 1000, zap.NewNop())
	job := reg.NewJob()

	_, err := f.DownloadToTemp(context.Background(), job, types.RemoteRef{URL: srv.URL, SizeBytes: 1001}, "mp4")
	if !errors.Is(err, types.ErrOversize) {
		t.Fatalf("err = %v, want oversize", err)
	}
	if got := atomic.LoadInt32(&calls); got != 0 {
		t.Errorf("requests = %d, want 0", got)
	}
	if len(job.Paths()) != 0 {
		t.Errorf("no temp path should be reserved, got %v", job.Paths())
	}
}

func TestDownloadToTempStopsAtLimitWhenSizeUnknown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Transfer-Encoding", "chunked")
		for i := 0; i < 10; i++ {
			_, _ = w.Write([]byte(strings.Repeat("x", 100)))
			w.(http.Flusher).Flush()
		}
	}))
	defer srv.Close()

	reg := newRegistry(t)
	f := NewFetcher(srv.Client(), fastRetry, time.Second, 500, zap.NewNop())
	job := reg.NewJob()

	_, err := f.DownloadToTemp(context.Background(), job, types.RemoteRef{URL: srv.URL}, "bin")
	if !errors.Is(err, types.ErrOversize) {
		t.Fatalf("err = %v, want oversize", err)
	}
	for _, p := range job.Paths() {
		if _, err := os.Stat(p); err == nil {
			t.Errorf("partial file %s left behind", p)
		}
	}
}

func TestDownloadToTempRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		if r.Header.Get("Authorization") != "Basic abc" {
			t.Errorf("ref headers not forwarded")
		}
		_, _ = w.Write([]byte("payload"))
	}))
	defer srv.Close()

	reg := newRegistry(t)
	f := NewFetcher(srv.Client(), fastRetry, time.Second, 0, zap.NewNop())
	job := reg.NewJob()

	ref := types.RemoteRef{URL: srv.URL, Header: map[string]string{"Authorization": "Basic abc"}}
	path, err := f.DownloadToTemp(context.Background(), job, ref, ".PDF")
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Ext(path) != ".pdf" {
		t.Errorf("path = %s, want .pdf extension", path)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "payload" {
		t.Errorf("content = %q", data)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Errorf("requests = %d, want 3", got)
	}
}

func TestDownloadToTempRateLimitIsNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	f := NewFetcher(srv.Client(), fastRetry, time.Second, 0, zap.NewNop())
	_, err := f.DownloadToTemp(context.Background(), newRegistry(t).NewJob(), types.RemoteRef{URL: srv.URL}, "mp4")
	if !errors.Is(err, types.ErrRateLimited) {
		t.Fatalf("err = %v, want rate limited", err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("requests = %d, want 1", got)
	}
}

func TestDownloadAllKeepsOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.TrimPrefix(r.URL.Path, "/")))
	}))
	defer srv.Close()

	reg := newRegistry(t)
	f := NewFetcher(srv.Client(), fastRetry, time.Second, 0, zap.NewNop())
	job := reg.NewJob()

	paths, err := f.DownloadAll(context.Background(), job, []Download{
		{Ref: types.RemoteRef{URL: srv.URL + "/video"}, Ext: "mp4"},
		{Ref: types.RemoteRef{URL: srv.URL + "/audio"}, Ext: "m4a"},
	})
	if err != nil {
		t.Fatal(err)
	}
	for i, want := range []string{"video", "audio"} {
		data, _ := os.ReadFile(paths[i])
		if string(data) != want {
			t.Errorf("paths[%d] content = %q, want %q", i, data, want)
		}
	}
	if reg.Live() != 2 {
		t.Errorf("live = %d, want 2", reg.Live())
	}
	if err := job.Cleanup(); err != nil {
		t.Fatal(err)
	}
	if reg.Live() != 0 {
		t.Errorf("live after cleanup = %d, want 0", reg.Live())
	}
}

func TestDownloadAllRejectsCombinedOversize(t *testing.T) {
	f := NewFetcher(http.DefaultClient, fastRetry, time.Second, 100, zap.NewNop())
	_, err := f.DownloadAll(context.Background(), newRegistry(t).NewJob(), []Download{
		{Ref: types.RemoteRef{URL: "http://127.0.0.1:1/v", SizeBytes: 60}, Ext: "mp4"},
		{Ref: types.RemoteRef{URL: "http://127.0.0.1:1/a", SizeBytes: 60}, Ext: "m4a"},
	})
	if !errors.Is(err, types.ErrOversize) {
		t.Fatalf("err = %v, want oversize", err)
	}
}

func TestMergeTracks(t *testing.T) {
	reg := newRegistry(t)
	job := reg.NewJob()

	var gotArgs []string
	m := NewMergerWithRunner("ffmpeg", func(ctx context.Context, name string, args ...string) ([]byte, error) {
		gotArgs = args
		return nil, os.WriteFile(args[len(args)-1], []byte("muxed"), 0o644)
	}, zap.NewNop())

	out, err := m.MergeTracks(context.Background(), job, "v.mp4", "a.m4a", "mp4")
	if err != nil {
		t.Fatal(err)
	}
	want := "-y -i v.mp4 -i a.m4a -c:v copy -c:a aac " + out
	if strings.Join(gotArgs, " ") != want {
		t.Errorf("args = %v, want %s", gotArgs, want)
	}
}

func TestMergeTracksFailureIsNotRetried(t *testing.T) {
	calls := 0
	m := NewMergerWithRunner("ffmpeg", func(ctx context.Context, name string, args ...string) ([]byte, error) {
		calls++
		return []byte("Invalid data found when processing input"), errors.New("exit status 1")
	}, zap.NewNop())

	job := newRegistry(t).NewJob()
	if _, err := m.MergeTracks(context.Background(), job, "v.mp4", "a.m4a", "mp4"); err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("ffmpeg runs = %d, want 1", calls)
	}
}

func TestSendAndCleanupRemovesFilesOnEveryPath(t *testing.T) {
	for _, sendErr := range []error{nil, errors.New("chat not found")} {
		reg := newRegistry(t)
		job := reg.NewJob()
		a, b := job.TempPath("mp4"), job.TempPath("m4a")
		for _, p := range []string{a, b} {
			if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
				t.Fatal(err)
			}
		}

		tr := transporttest.New()
		tr.SendMediaErr = sendErr
		_, err := SendAndCleanup(context.Background(), tr, zap.NewNop(), 1, types.MediaVideo, job, transport.OutgoingFile{Path: a, Name: "clip.mp4"})
		if !errors.Is(err, sendErr) {
			t.Errorf("err = %v, want %v", err, sendErr)
		}
		if len(tr.Media) != 1 || !tr.Media[0].Existed {
			t.Errorf("file must exist while being sent: %+v", tr.Media)
		}
		for _, p := range []string{a, b} {
			if _, err := os.Stat(p); !os.IsNotExist(err) {
				t.Errorf("send err %v: %s still exists", sendErr, p)
			}
		}
		if reg.Live() != 0 {
			t.Errorf("send err %v: live = %d", sendErr, reg.Live())
		}
	}
}

func TestSweepSkipsLiveAndFreshFiles(t *testing.T) {
	reg := newRegistry(t)
	now := time.Now()

	stale := filepath.Join(reg.Dir(), "stale.mp4")
	fresh := filepath.Join(reg.Dir(), "fresh.mp4")
	job := reg.NewJob()
	live := job.TempPath("mp4")
	for _, p := range []string{stale, fresh, live} {
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	old := now.Add(-2 * time.Hour)
	_ = os.Chtimes(stale, old, old)
	_ = os.Chtimes(live, old, old)

	removed, err := reg.Sweep(time.Hour, now)
	if err != nil {
		t.Fatal(err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("stale file survived")
	}
	for _, p := range []string{fresh, live} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("%s removed: %v", p, err)
		}
	}
}

func TestSweeperRejectsBadSchedule(t *testing.T) {
	if _, err := NewSweeper(newRegistry(t), "every now and then", time.Hour, zap.NewNop()); err == nil {
		t.Fatal("expected schedule error")
	}
	s, err := NewSweeper(newRegistry(t), "@every 1m", time.Hour, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	s.Start()
	if err := s.Stop(context.Background()); err != nil {
		t.Fatal(err)
	}
}

func TestSafeTitle(t *testing.T) {
	for in, want := range map[string]string{
		"My Clip (Official)": "My_Clip__Official",
		"Привет":             "media",
		"":                   "media",
		"a.b-c":              "a_b_c",
	} {
		if got := SafeTitle(in); got != want {
			t.Errorf("SafeTitle(%q) = %q, want %q", in, got, want)
		}
	}
}
