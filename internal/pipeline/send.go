package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/BatmanBruc/bat-bot-multitool/internal/transport"
	"github.com/BatmanBruc/bat-bot-multitool/types"
)

// SendAndCleanup uploads file to the chat and then removes every temp file of job,
// whether the upload succeeded or not.
func SendAndCleanup(ctx context.Context, tr transport.Transport, log *zap.Logger, chatID int64, kind types.MediaKind, job *Job, file transport.OutgoingFile) (int, error) {
	defer func() {
		if err := job.Cleanup(); err != nil {
			log.Warn("temp cleanup failed", zap.String("job_id", job.ID), zap.Error(err))
		}
	}()

	_ = tr.IndicateActivity(ctx, chatID, transport.ActivityFor(kind))
	return tr.SendMedia(ctx, chatID, kind, file)
}
