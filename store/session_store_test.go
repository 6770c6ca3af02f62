package store

import (
	"context"
	"errors"
	"testing"

	"github.com/BatmanBruc/bat-bot-multitool/types"
)

func TestSessionStartsInMain(t *testing.T) {
	s := NewMemorySessionStore()
	sess := s.Get(1)
	if sess.Mode != types.ModeMain || sess.Pending != nil || sess.ChatID != 1 {
		t.Fatalf("new session = %+v", sess)
	}
}

func TestSetModeAlwaysResets(t *testing.T) {
	s := NewMemorySessionStore()
	s.SetMode(1, types.ModeCurrency)
	if err := s.SetPendingSelection(1, types.CurrencySelection{From: "USD"}); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 2; i++ {
		sess := s.SetMode(1, types.ModeCurrency)
		if sess.Mode != types.ModeCurrency || sess.Pending != nil {
			t.Fatalf("switch %d: %+v", i, sess)
		}
	}
	if got := s.Get(1).Epoch; got != 3 {
		t.Fatalf("epoch = %d, want 3", got)
	}
}

func TestSelectionMustMatchMode(t *testing.T) {
	s := NewMemorySessionStore()
	s.SetMode(1, types.ModeTranslate)

	err := s.SetPendingSelection(1, types.CurrencySelection{From: "USD"})
	if !errors.Is(err, types.ErrSelectionMismatch) {
		t.Fatalf("err = %v, want ErrSelectionMismatch", err)
	}
	if s.Get(1).Pending != nil {
		t.Fatal("mismatched selection stored")
	}
	if err := s.SetPendingSelection(1, nil); err != nil {
		t.Fatalf("clearing selection: %v", err)
	}
}

func TestSessionsAreCopies(t *testing.T) {
	s := NewMemorySessionStore()
	s.SetMode(1, types.ModeDownload)
	_ = s.SetPendingSelection(1, types.DownloadSelection{Formats: []types.FormatOption{{Label: "a"}}})
	s.RecordSentMessage(1, 10)

	got := s.Get(1)
	got.ActiveMessageIDs[0] = 99
	got.Pending.(types.DownloadSelection).Formats[0].Label = "changed"

	again := s.Get(1)
	if again.ActiveMessageIDs[0] != 10 {
		t.Fatal("message ids shared with caller")
	}
	if again.Pending.(types.DownloadSelection).Formats[0].Label != "a" {
		t.Fatal("selection shared with caller")
	}
}

func TestSentMessages(t *testing.T) {
	s := NewMemorySessionStore()
	s.RecordSentMessage(1, 10)
	s.RecordSentMessage(1, 0)
	s.RecordSentMessage(1, 11)
	s.RecordSentMessage(1, 12)
	s.ForgetSentMessage(1, 11)

	ids := s.ClearSentMessages(1)
	if len(ids) != 2 || ids[0] != 10 || ids[1] != 12 {
		t.Fatalf("ids = %v", ids)
	}
	if left := s.ClearSentMessages(1); len(left) != 0 {
		t.Fatalf("second clear = %v", left)
	}
}

func TestMemoryProfileStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryProfileStore()

	p, err := s.GetProfile(ctx, 5)
	if err != nil || p.ChatID != 5 || p.Lang != "" {
		t.Fatalf("missing profile = %+v, %v", p, err)
	}
	if err := s.SaveProfile(ctx, types.Profile{ChatID: 5, Lang: "ru", TranslateLang: "de"}); err != nil {
		t.Fatal(err)
	}
	p, _ = s.GetProfile(ctx, 5)
	if p.Lang != "ru" || p.TranslateLang != "de" || p.UpdatedAt.IsZero() {
		t.Fatalf("profile = %+v", p)
	}
}
