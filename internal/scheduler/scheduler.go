package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BatmanBruc/bat-bot-multitool/internal/i18n"
	"github.com/BatmanBruc/bat-bot-multitool/internal/messages"
	"github.com/BatmanBruc/bat-bot-multitool/internal/transport"
)

var ErrNotRunning = errors.New("scheduler is not running")

// Job is one long-running unit of chat work. Run reports its own outcome to the chat;
// the scheduler only owns the status message.
type Job struct {
	ChatID          int64
	Lang            i18n.Lang
	Label           string
	StatusMessageID int
	Run             func(ctx context.Context) error
}

type Scheduler struct {
	tr         transport.Transport
	log        *zap.Logger
	workers    int
	jobTimeout time.Duration

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool

	queue      chan string
	inFlight   map[string]*inFlightEntry
	inFlightMu sync.RWMutex
}

type inFlightEntry struct {
	job      Job
	position int
}

type Config struct {
	Workers    int
	JobTimeout time.Duration
}

func New(tr transport.Transport, log *zap.Logger, config Config) *Scheduler {
	if config.Workers <= 0 {
		config.Workers = 3
	}
	if config.JobTimeout <= 0 {
		config.JobTimeout = 15 * time.Minute
	}

	ctx, cancel := context.WithCancel(context.Background())

	queueSize := config.Workers * 2
	if queueSize < 10 {
		queueSize = 10
	}

	return &Scheduler{
		tr:         tr,
		log:        log,
		workers:    config.Workers,
		jobTimeout: config.JobTimeout,
		ctx:        ctx,
		cancel:     cancel,
		queue:      make(chan string, queueSize),
		inFlight:   make(map[string]*inFlightEntry),
	}
}

func (s *Scheduler) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	s.log.Info("scheduler started", zap.Int("workers", s.workers))

	for i := 0; i < s.workers; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}
}

// Stop cancels running jobs and waits for the workers to exit.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	s.log.Info("stopping scheduler")
	s.cancel()
	s.wg.Wait()
	s.log.Info("scheduler stopped")
}

// Enqueue schedules job and returns its queue position; 0 means a worker is free.
// A queued job's status message is edited to show the position.
func (s *Scheduler) Enqueue(job Job) (int, error) {
	s.mu.Lock()
	running := s.running
	s.mu.Unlock()
	if !running {
		return 0, ErrNotRunning
	}

	id := uuid.NewString()

	s.inFlightMu.Lock()
	busy := 0
	maxPos := 0
	for _, e := range s.inFlight {
		if e.position == 0 {
			busy++
			continue
		}
		if e.position > maxPos {
			maxPos = e.position
		}
	}
	position := 0
	if busy >= s.workers {
		position = maxPos + 1
	}
	s.inFlight[id] = &inFlightEntry{job: job, position: position}
	s.inFlightMu.Unlock()

	if position > 0 && job.StatusMessageID != 0 {
		s.editStatus(job.ChatID, job.StatusMessageID, messages.QueueQueued(job.Lang, label(job), position))
	}

	go func() {
		select {
		case s.queue <- id:
		case <-s.ctx.Done():
			s.inFlightMu.Lock()
			delete(s.inFlight, id)
			s.inFlightMu.Unlock()
		}
	}()

	return position, nil
}

func (s *Scheduler) worker(n int) {
	defer s.wg.Done()

	for {
		select {
		case <-s.ctx.Done():
			return
		case id := <-s.queue:
			s.inFlightMu.RLock()
			entry := s.inFlight[id]
			s.inFlightMu.RUnlock()
			if entry == nil {
				continue
			}

			if err := s.run(entry.job); err != nil {
				s.log.Warn("job finished with error",
					zap.Int("worker", n),
					zap.Int64("chat_id", entry.job.ChatID),
					zap.String("job", entry.job.Label),
					zap.Error(err),
				)
			}

			if entry.job.StatusMessageID != 0 {
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				if err := s.tr.DeleteMessage(ctx, entry.job.ChatID, entry.job.StatusMessageID); err != nil {
					s.log.Debug("delete status message", zap.Int64("chat_id", entry.job.ChatID), zap.Error(err))
				}
				cancel()
			}

			s.inFlightMu.Lock()
			delete(s.inFlight, id)
			s.inFlightMu.Unlock()

			s.advanceQueue()
		}
	}
}

func (s *Scheduler) run(job Job) (err error) {
	ctx, cancel := context.WithTimeout(s.ctx, s.jobTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job panic: %v", r)
			s.log.Error("job panicked", zap.Int64("chat_id", job.ChatID), zap.Any("panic", r), zap.Stack("stack"))
			notifyCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_, _ = s.tr.SendText(notifyCtx, job.ChatID, messages.ErrorDefault(job.Lang), nil)
		}
	}()

	if job.Run == nil {
		return nil
	}
	return job.Run(ctx)
}

// advanceQueue moves every waiting job one position up and refreshes its status message.
func (s *Scheduler) advanceQueue() {
	type upd struct {
		chatID    int64
		messageID int
		text      string
	}
	var updates []upd

	s.inFlightMu.Lock()
	for _, e := range s.inFlight {
		if e.position == 0 {
			continue
		}
		e.position--
		if e.job.StatusMessageID == 0 {
			continue
		}
		text := messages.QueueQueued(e.job.Lang, label(e.job), e.position)
		if e.position == 0 {
			text = messages.QueueStarted(e.job.Lang, label(e.job))
		}
		updates = append(updates, upd{chatID: e.job.ChatID, messageID: e.job.StatusMessageID, text: text})
	}
	s.inFlightMu.Unlock()

	for _, u := range updates {
		s.editStatus(u.chatID, u.messageID, u.text)
	}
}

func (s *Scheduler) editStatus(chatID int64, messageID int, text string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.tr.EditText(ctx, chatID, messageID, text, nil); err != nil {
		s.log.Debug("queue status edit failed", zap.Int64("chat_id", chatID), zap.Int("message_id", messageID), zap.Error(err))
	}
}

// Pending returns the number of jobs that are queued or running.
func (s *Scheduler) Pending() int {
	s.inFlightMu.RLock()
	defer s.inFlightMu.RUnlock()
	return len(s.inFlight)
}

func label(job Job) string {
	if l := strings.TrimSpace(job.Label); l != "" {
		return l
	}
	return "…"
}
