package controller

import (
	"context"

	"go.uber.org/zap"

	"github.com/BatmanBruc/bat-bot-multitool/internal/i18n"
	"github.com/BatmanBruc/bat-bot-multitool/internal/scheduler"
	"github.com/BatmanBruc/bat-bot-multitool/internal/transport"
	"github.com/BatmanBruc/bat-bot-multitool/types"
)

// Runner executes long jobs outside the chat lock.
type Runner interface {
	Enqueue(job scheduler.Job) (int, error)
}

// JobScope ties a background job to the session turn that started it.
type JobScope struct {
	ChatID int64
	Mode   types.Mode
	Epoch  uint64
	Lang   i18n.Lang

	from types.Sender
	ctrl *Controller
	log  *zap.Logger
}

func (j *JobScope) Log() *zap.Logger { return j.log }

func (j *JobScope) Transport() transport.Transport { return j.ctrl.tr }

func (j *JobScope) Activity(ctx context.Context, a transport.Activity) {
	_ = j.ctrl.tr.IndicateActivity(ctx, j.ChatID, a)
}

// Resume runs fn under the chat lock if the chat is still in the turn that started
// the job. It reports false, without calling fn, when the turn is over.
func (j *JobScope) Resume(ctx context.Context, fn func(c *Chat) error) (bool, error) {
	unlock := j.ctrl.locks.lock(j.ChatID)
	defer unlock()

	sess := j.ctrl.sessions.Get(j.ChatID)
	if sess.Mode != j.Mode || sess.Epoch != j.Epoch {
		j.log.Debug("stale job result discarded",
			zap.String("job_mode", string(j.Mode)),
			zap.String("mode", string(sess.Mode)),
			zap.Uint64("job_epoch", j.Epoch),
			zap.Uint64("epoch", sess.Epoch),
		)
		return false, nil
	}

	c := &Chat{ID: j.ChatID, From: j.from, Lang: j.Lang, Session: sess, ctrl: j.ctrl, log: j.log}
	return true, fn(c)
}

// Spawn queues run on the runner. statusMessageID, when set, is owned by the runner
// from then on and deleted once run returns.
func (c *Chat) Spawn(label string, statusMessageID int, run func(ctx context.Context, j *JobScope) error) (int, error) {
	scope := &JobScope{
		ChatID: c.ID,
		Mode:   c.Session.Mode,
		Epoch:  c.Session.Epoch,
		Lang:   c.Lang,
		from:   c.From,
		ctrl:   c.ctrl,
		log:    c.log.With(zap.String("job", label)),
	}
	if statusMessageID != 0 {
		c.ctrl.sessions.ForgetSentMessage(c.ID, statusMessageID)
	}
	return c.ctrl.runner.Enqueue(scheduler.Job{
		ChatID:          c.ID,
		Lang:            c.Lang,
		Label:           label,
		StatusMessageID: statusMessageID,
		Run: func(ctx context.Context) error {
			return run(ctx, scope)
		},
	})
}
