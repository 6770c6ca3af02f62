package controller

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/BatmanBruc/bat-bot-multitool/internal/i18n"
	"github.com/BatmanBruc/bat-bot-multitool/internal/messages"
	"github.com/BatmanBruc/bat-bot-multitool/internal/scheduler"
	"github.com/BatmanBruc/bat-bot-multitool/internal/transport/transporttest"
	"github.com/BatmanBruc/bat-bot-multitool/store"
	"github.com/BatmanBruc/bat-bot-multitool/types"
)

type pickSelection struct{ Value string }

func (pickSelection) SelectionMode() types.Mode { return types.ModeTranslate }

type stubHandler struct {
	mode      types.Mode
	accept    types.ContentKind
	entered   int
	callbacks []CallbackData
	contents  []types.Content
	cbErr     error
}

func (h *stubHandler) Mode() types.Mode { return h.mode }

func (h *stubHandler) Enter(ctx context.Context, c *Chat) error {
	h.entered++
	_, err := c.Reply(ctx, "enter "+string(h.mode), nil)
	return err
}

func (h *stubHandler) HandleCallback(_ context.Context, c *Chat, data CallbackData) error {
	h.callbacks = append(h.callbacks, data)
	if h.cbErr != nil {
		return h.cbErr
	}
	return c.SetPending(pickSelection{Value: data.Payload})
}

func (h *stubHandler) HandleContent(_ context.Context, _ *Chat, content types.Content) error {
	h.contents = append(h.contents, content)
	return nil
}

func (h *stubHandler) Accepts(kind types.ContentKind) bool { return kind == h.accept }

type queue struct {
	jobs []scheduler.Job
}

func (q *queue) Enqueue(job scheduler.Job) (int, error) {
	q.jobs = append(q.jobs, job)
	return len(q.jobs) - 1, nil
}

type fixture struct {
	ctrl      *Controller
	tr        *transporttest.Fake
	sessions  *store.MemorySessionStore
	runner    *queue
	main      *stubHandler
	translate *stubHandler
}

func newFixture() *fixture {
	f := &fixture{
		tr:        transporttest.New(),
		sessions:  store.NewMemorySessionStore(),
		runner:    &queue{},
		main:      &stubHandler{mode: types.ModeMain, accept: types.ContentText},
		translate: &stubHandler{mode: types.ModeTranslate, accept: types.ContentText},
	}
	f.ctrl = New(Options{
		Sessions:    f.sessions,
		Profiles:    store.NewMemoryProfileStore(),
		Transport:   f.tr,
		Runner:      f.runner,
		Log:         zap.NewNop(),
		Admins:      []int64{1},
		SizeLimitMB: 50,
	})
	f.ctrl.Handle(f.main)
	f.ctrl.Handle(f.translate, "lang")
	f.ctrl.HandleGlobal("ui", f.main)
	return f
}

const chat = int64(9)

func (f *fixture) callback(token string) {
	f.ctrl.Dispatch(context.Background(), types.Event{Callback: &types.Callback{ChatID: chat, CallbackID: "c", Token: token, OriginMessageID: 5}})
}

func (f *fixture) text(s string) {
	f.ctrl.Dispatch(context.Background(), types.Event{Content: &types.Content{ChatID: chat, Kind: types.ContentText, Text: s}})
}

func TestCallbackRouting(t *testing.T) {
	f := newFixture()
	f.text("Translation")

	f.callback("lang_de")
	if len(f.translate.callbacks) != 1 || f.translate.callbacks[0].Payload != "de" || f.translate.callbacks[0].MessageID != 5 {
		t.Fatalf("callbacks = %+v", f.translate.callbacks)
	}

	f.callback("page_lang_3")
	got := f.translate.callbacks[1]
	if got.Namespace != "lang" || got.Page != 3 || !got.IsPage() || got.Payload != "" {
		t.Fatalf("page callback = %+v", got)
	}

	f.callback("page_lang.ab12cd34_2")
	got = f.translate.callbacks[2]
	if got.Namespace != "lang" || got.Page != 2 || got.Payload != "ab12cd34" {
		t.Fatalf("scoped page callback = %+v", got)
	}
	if len(f.tr.Answered) != 3 {
		t.Fatalf("answered = %d, want 3", len(f.tr.Answered))
	}
}

func TestCallbackIgnoredOutsideItsMode(t *testing.T) {
	f := newFixture()

	f.callback("lang_de")
	f.callback("to_EUR")
	f.callback("page_lang_x")
	f.callback("garbage")

	if len(f.translate.callbacks) != 0 {
		t.Fatalf("callbacks delivered: %+v", f.translate.callbacks)
	}
	if len(f.tr.Sent) != 0 {
		t.Fatalf("ignored callbacks sent %d messages", len(f.tr.Sent))
	}
	if len(f.tr.Answered) != 4 {
		t.Fatalf("answered = %d, want every press answered", len(f.tr.Answered))
	}
}

func TestGlobalNamespaceInAnyMode(t *testing.T) {
	f := newFixture()
	f.text("Translation")
	f.callback("ui_ru")
	if len(f.main.callbacks) != 1 {
		t.Fatalf("global callback not delivered in translate mode")
	}
}

func TestStaleHandlerErrorIsSilent(t *testing.T) {
	f := newFixture()
	f.text("Translation")
	f.translate.cbErr = fmt.Errorf("menu gone: %w", types.ErrStale)
	sent := len(f.tr.Sent)

	f.callback("lang_de")
	if len(f.tr.Sent) != sent {
		t.Fatal("stale callback reported to the chat")
	}
}

func TestHandlerErrorReportsDefault(t *testing.T) {
	f := newFixture()
	f.text("Translation")
	f.translate.cbErr = errors.New("boom")

	f.callback("lang_de")
	if got := f.tr.LastText(); got != messages.ErrorDefault(i18n.EN) {
		t.Fatalf("reply = %q", got)
	}
}

func TestModeSwitchResetsSelection(t *testing.T) {
	f := newFixture()
	f.text("Translation")
	f.callback("lang_de")
	if f.sessions.Get(chat).Pending == nil {
		t.Fatal("selection not stored")
	}
	epoch := f.sessions.Get(chat).Epoch

	f.text("Translation")
	sess := f.sessions.Get(chat)
	if sess.Mode != types.ModeTranslate || sess.Pending != nil {
		t.Fatalf("session = %+v", sess)
	}
	if sess.Epoch != epoch+1 {
		t.Fatalf("epoch = %d, want %d", sess.Epoch, epoch+1)
	}
	if f.translate.entered != 2 {
		t.Fatalf("entered = %d", f.translate.entered)
	}
	if len(sess.ActiveMessageIDs) != 1 {
		t.Fatalf("tracked messages = %v, want only the new prompt", sess.ActiveMessageIDs)
	}
	if len(f.tr.DeletedIDs()) != 1 {
		t.Fatalf("deleted = %v, want the previous prompt", f.tr.DeletedIDs())
	}
}

func TestUnsupportedContent(t *testing.T) {
	f := newFixture()
	f.ctrl.Dispatch(context.Background(), types.Event{Content: &types.Content{ChatID: chat, Kind: types.ContentSticker}})

	want := messages.NotSupportedInMode(i18n.EN, i18n.ModeLabel(i18n.EN, types.ModeMain))
	if got := f.tr.LastText(); got != want {
		t.Fatalf("reply = %q, want %q", got, want)
	}
	if len(f.main.contents) != 0 {
		t.Fatal("handler received unsupported content")
	}
}

func TestCommands(t *testing.T) {
	f := newFixture()
	var ran []string
	run := func(_ context.Context, _ *Chat, cmd types.Command) error {
		ran = append(ran, cmd.Name)
		return nil
	}
	f.ctrl.Command(CommandSpec{Name: "setlanguage", RequiredMode: types.ModeTranslate, Run: run})
	f.ctrl.Command(CommandSpec{Name: "stats", AdminOnly: true, Run: run})
	f.ctrl.Command(CommandSpec{Name: "help", Run: run})

	cmd := func(name string, user int64) {
		f.ctrl.Dispatch(context.Background(), types.Event{Command: &types.Command{ChatID: chat, Name: name, From: types.Sender{UserID: user}}})
	}

	cmd("setlanguage", 2)
	if got := f.tr.LastText(); got != messages.InvalidInThisMode(i18n.EN, i18n.ModeLabel(i18n.EN, types.ModeTranslate)) {
		t.Fatalf("reply = %q", got)
	}
	cmd("stats", 2)
	if got := f.tr.LastText(); got != messages.ErrorUnknownCommand(i18n.EN) {
		t.Fatalf("reply = %q", got)
	}
	cmd("nope", 2)
	cmd("stats", 1)
	cmd("HELP", 2)

	if len(ran) != 2 || ran[0] != "stats" || ran[1] != "HELP" {
		t.Fatalf("ran = %v", ran)
	}
}

func TestResumeDiscardsStaleTurn(t *testing.T) {
	f := newFixture()
	f.text("Translation")

	var delivered []string
	spawn := func(name string) {
		f.ctrl.Dispatch(context.Background(), types.Event{Command: &types.Command{ChatID: chat, Name: name}})
	}
	f.ctrl.Command(CommandSpec{Name: "job", Run: func(_ context.Context, c *Chat, _ types.Command) error {
		_, err := c.Spawn("job", 0, func(ctx context.Context, j *JobScope) error {
			ok, err := j.Resume(ctx, func(c *Chat) error {
				delivered = append(delivered, string(c.Session.Mode))
				return nil
			})
			if !ok {
				delivered = append(delivered, "stale")
			}
			return err
		})
		return err
	}})

	spawn("job")
	spawn("job")
	f.runner.jobs[0].Run(context.Background())

	f.text("Translation")
	f.runner.jobs[1].Run(context.Background())

	if len(delivered) != 2 || delivered[0] != "translate" || delivered[1] != "stale" {
		t.Fatalf("delivered = %v", delivered)
	}
}

func TestSpawnForgetsStatusMessage(t *testing.T) {
	f := newFixture()
	f.ctrl.Command(CommandSpec{Name: "job", Run: func(ctx context.Context, c *Chat, _ types.Command) error {
		status, _ := c.Reply(ctx, "working", nil)
		_, err := c.Spawn("job", status, func(context.Context, *JobScope) error { return nil })
		return err
	}})
	f.ctrl.Dispatch(context.Background(), types.Event{Command: &types.Command{ChatID: chat, Name: "job"}})

	if ids := f.sessions.Get(chat).ActiveMessageIDs; len(ids) != 0 {
		t.Fatalf("status message still tracked: %v", ids)
	}
	if f.runner.jobs[0].StatusMessageID == 0 {
		t.Fatal("status message not handed to the runner")
	}
}

func TestErrorText(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("x: %w", types.ErrRateLimited), messages.ErrorRateLimited(i18n.EN)},
		{types.ErrOversize, messages.ErrorTooLarge(i18n.EN, 50)},
		{types.ErrEmptyResult, messages.ErrorNothingFound(i18n.EN)},
		{types.ErrNotFound, messages.ErrorNothingFound(i18n.EN)},
		{types.ErrPollExhausted, messages.ErrorTookTooLong(i18n.EN)},
		{types.ErrJobFailed, messages.ErrorJobFailed(i18n.EN)},
		{errors.New("other"), messages.ErrorDefault(i18n.EN)},
	}
	for _, tt := range tests {
		if got := ErrorText(i18n.EN, tt.err, 50); got != tt.want {
			t.Errorf("ErrorText(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestChatLocksSerialize(t *testing.T) {
	l := newChatLocks()
	unlock := l.lock(1)

	acquired := make(chan struct{})
	released := make(chan struct{})
	go func() {
		u := l.lock(1)
		close(acquired)
		u()
		close(released)
	}()

	select {
	case <-acquired:
		t.Fatal("second lock acquired while the first is held")
	case <-time.After(20 * time.Millisecond):
	}
	other := l.lock(2)
	other()

	unlock()
	<-acquired
	<-released

	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.locks) != 0 {
		t.Fatalf("lock entries left: %d", len(l.locks))
	}
}
