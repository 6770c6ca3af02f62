package handlers

import (
	"context"
	"net/http"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/BatmanBruc/bat-bot-multitool/internal/controller"
	"github.com/BatmanBruc/bat-bot-multitool/internal/pipeline"
	"github.com/BatmanBruc/bat-bot-multitool/internal/scheduler"
	"github.com/BatmanBruc/bat-bot-multitool/internal/services"
	"github.com/BatmanBruc/bat-bot-multitool/internal/transport/transporttest"
	"github.com/BatmanBruc/bat-bot-multitool/store"
	"github.com/BatmanBruc/bat-bot-multitool/types"
)

const chatID = int64(42)

// deferredRunner keeps jobs until the test runs them, outside the chat lock.
type deferredRunner struct {
	mu   sync.Mutex
	jobs []scheduler.Job
}

func (r *deferredRunner) Enqueue(job scheduler.Job) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs = append(r.jobs, job)
	return len(r.jobs) - 1, nil
}

func (r *deferredRunner) runAll(t *testing.T) {
	t.Helper()
	for {
		r.mu.Lock()
		if len(r.jobs) == 0 {
			r.mu.Unlock()
			return
		}
		job := r.jobs[0]
		r.jobs = r.jobs[1:]
		r.mu.Unlock()
		_ = job.Run(context.Background())
	}
}

type fakeTranslator struct {
	calls [][2]string
	reply string
	err   error
}

func (f *fakeTranslator) Translate(_ context.Context, text, target string) (string, error) {
	f.calls = append(f.calls, [2]string{text, target})
	return f.reply, f.err
}

type fakeRates struct {
	calls [][2]string
	rate  decimal.Decimal
}

func (f *fakeRates) Rate(_ context.Context, from, to string) (decimal.Decimal, error) {
	f.calls = append(f.calls, [2]string{from, to})
	return f.rate, nil
}

type fakeConverter struct {
	targets    []types.FormatOption
	onlyExt    string
	listErr    error
	polls      int
	pollsUntil int
	submitted  string
	srcExisted bool
	resultURL  string
}

func (f *fakeConverter) ListTargets(_ context.Context, ext string) ([]types.FormatOption, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	if f.onlyExt != "" && ext != f.onlyExt {
		return nil, nil
	}
	return f.targets, nil
}

func (f *fakeConverter) SubmitJob(_ context.Context, path, target string) (string, error) {
	_, err := os.Stat(path)
	f.srcExisted = err == nil
	f.submitted = target
	return "job-1", nil
}

func (f *fakeConverter) PollJob(_ context.Context, id string) (types.ConversionJob, error) {
	f.polls++
	if f.polls < f.pollsUntil {
		return types.ConversionJob{ID: id, Status: types.ConversionConverting}, nil
	}
	return types.ConversionJob{ID: id, Status: types.ConversionSuccessful, ResultRef: "77"}, nil
}

func (f *fakeConverter) ResultRef(string) types.RemoteRef {
	return types.RemoteRef{URL: f.resultURL}
}

type fakeResolver struct {
	src types.MediaSource
	err error
}

func (f *fakeResolver) Resolve(context.Context, string) (types.MediaSource, error) {
	return f.src, f.err
}

type fakeSpeech struct {
	transcript string
}

func (f *fakeSpeech) Transcribe(context.Context, string) (string, error) { return f.transcript, nil }

func (f *fakeSpeech) Synthesize(_ context.Context, _ string, dst string) error {
	return os.WriteFile(dst, []byte("OggS"), 0o644)
}

type fakeMerger struct{ calls int }

func (f *fakeMerger) MergeTracks(_ context.Context, job *pipeline.Job, _, _ string, ext string) (string, error) {
	f.calls++
	out := job.TempPath(ext)
	return out, os.WriteFile(out, []byte("muxed"), 0o644)
}

type harness struct {
	t        *testing.T
	ctrl     *controller.Controller
	tr       *transporttest.Fake
	sessions *store.MemorySessionStore
	runner   *deferredRunner
	temp     *pipeline.Registry

	translator *fakeTranslator
	rates      *fakeRates
	converter  *fakeConverter
	resolver   *fakeResolver
	speech     *fakeSpeech
	merger     *fakeMerger
}

func newHarness(t *testing.T, client *http.Client) *harness {
	t.Helper()
	temp, err := pipeline.NewRegistry(t.TempDir(), zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if client == nil {
		client = http.DefaultClient
	}

	h := &harness{
		t:          t,
		tr:         transporttest.New(),
		sessions:   store.NewMemorySessionStore(),
		runner:     &deferredRunner{},
		temp:       temp,
		translator: &fakeTranslator{reply: "hola"},
		rates:      &fakeRates{rate: decimal.RequireFromString("0.9215")},
		converter:  &fakeConverter{pollsUntil: 2},
		resolver:   &fakeResolver{},
		speech:     &fakeSpeech{transcript: "hello there"},
		merger:     &fakeMerger{},
	}
	profiles := store.NewMemoryProfileStore()
	h.ctrl = controller.New(controller.Options{
		Sessions:    h.sessions,
		Profiles:    profiles,
		Transport:   h.tr,
		Runner:      h.runner,
		Log:         zap.NewNop(),
		Admins:      []int64{1},
		SizeLimitMB: 2000,
	})

	retry := services.RetryPolicy{MaxAttempts: services.DefaultMaxAttempts, Backoff: time.Millisecond}
	Register(h.ctrl, Deps{
		Profiles:   profiles,
		Translator: h.translator,
		Rates:      h.rates,
		Converter:  h.converter,
		Resolver:   h.resolver,
		Speech:     h.speech,
		Fetcher:    pipeline.NewFetcher(client, retry, time.Second, 2000<<20, zap.NewNop()),
		Merger:     h.merger,
		Temp:       temp,
		Poll: services.PollPolicy{
			MaxAttempts: 5,
			Sleep:       func(context.Context, time.Duration) error { return nil },
		},
		Log: zap.NewNop(),
	})
	return h
}

var sender = types.Sender{UserID: 7, LanguageCode: "en"}

func (h *harness) command(name string) {
	h.ctrl.Dispatch(context.Background(), types.Event{Command: &types.Command{ChatID: chatID, From: sender, Name: name}})
}

func (h *harness) text(s string) {
	h.ctrl.Dispatch(context.Background(), types.Event{Content: &types.Content{ChatID: chatID, From: sender, Kind: types.ContentText, Text: s}})
}

func (h *harness) file(kind types.ContentKind, f types.FileRef) {
	h.ctrl.Dispatch(context.Background(), types.Event{Content: &types.Content{ChatID: chatID, From: sender, Kind: kind, File: &f}})
}

func (h *harness) press(token string) {
	h.pressOn(h.menuMessage().MessageID, token)
}

func (h *harness) pressOn(messageID int, token string) {
	h.ctrl.Dispatch(context.Background(), types.Event{Callback: &types.Callback{
		ChatID:          chatID,
		From:            sender,
		CallbackID:      "cb",
		OriginMessageID: messageID,
		Token:           token,
	}})
}

func (h *harness) session() types.ChatSession {
	return h.sessions.Get(chatID)
}

// menuMessage is the newest sent message that carries an inline menu.
func (h *harness) menuMessage() transporttest.Message {
	sent := h.tr.Sent
	for i := len(sent) - 1; i >= 0; i-- {
		if sent[i].Markup != nil && len(sent[i].Markup.Inline) > 0 {
			return sent[i]
		}
	}
	return transporttest.Message{}
}

func (h *harness) lastTokens() []string {
	var out []string
	if m := h.menuMessage(); m.Markup != nil {
		for _, row := range m.Markup.Inline {
			for _, b := range row {
				out = append(out, b.Token)
			}
		}
	}
	return out
}

func withPrefix(tokens []string, prefix string) []string {
	var out []string
	for _, tok := range tokens {
		if strings.HasPrefix(tok, prefix) {
			out = append(out, tok)
		}
	}
	return out
}

func (h *harness) tempFiles() []string {
	entries, err := os.ReadDir(h.temp.Dir())
	if err != nil {
		h.t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}
