package store

import (
	"fmt"
	"sync"
	"time"

	"github.com/BatmanBruc/bat-bot-multitool/types"
)

// MemorySessionStore keeps chat sessions for the lifetime of the process.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[int64]*types.ChatSession
	now      func() time.Time
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[int64]*types.ChatSession),
		now:      time.Now,
	}
}

// session must be called with mu held.
func (s *MemorySessionStore) session(chatID int64) *types.ChatSession {
	sess, ok := s.sessions[chatID]
	if !ok {
		sess = &types.ChatSession{
			ChatID:    chatID,
			Mode:      types.ModeMain,
			UpdatedAt: s.now(),
		}
		s.sessions[chatID] = sess
	}
	return sess
}

func (s *MemorySessionStore) Get(chatID int64) types.ChatSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session(chatID).Clone()
}

// SetMode switches the chat to mode and always drops the pending selection,
// even when the mode does not change.
func (s *MemorySessionStore) SetMode(chatID int64, mode types.Mode) types.ChatSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.session(chatID)
	sess.Mode = mode
	sess.Pending = nil
	sess.Epoch++
	sess.UpdatedAt = s.now()
	return sess.Clone()
}

func (s *MemorySessionStore) SetPendingSelection(chatID int64, sel types.Selection) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.session(chatID)
	if sel != nil && sel.SelectionMode() != sess.Mode {
		return fmt.Errorf("%w: %s selection in %s mode", types.ErrSelectionMismatch, sel.SelectionMode(), sess.Mode)
	}
	sess.Pending = types.CloneSelection(sel)
	sess.UpdatedAt = s.now()
	return nil
}

func (s *MemorySessionStore) RecordSentMessage(chatID int64, messageID int) {
	if messageID == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.session(chatID)
	sess.ActiveMessageIDs = append(sess.ActiveMessageIDs, messageID)
}

func (s *MemorySessionStore) ForgetSentMessage(chatID int64, messageID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.session(chatID)
	ids := sess.ActiveMessageIDs[:0]
	for _, id := range sess.ActiveMessageIDs {
		if id != messageID {
			ids = append(ids, id)
		}
	}
	sess.ActiveMessageIDs = ids
}

// ClearSentMessages returns the tracked message ids in send order and empties the list.
func (s *MemorySessionStore) ClearSentMessages(chatID int64) []int {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.session(chatID)
	ids := sess.ActiveMessageIDs
	sess.ActiveMessageIDs = nil
	return ids
}
