package pipeline

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// CommandRunner runs an external binary and returns its combined output.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Merger muxes separate video and audio tracks with ffmpeg.
type Merger struct {
	binary string
	run    CommandRunner
	log    *zap.Logger
}

func NewMerger(binary string, log *zap.Logger) *Merger {
	return NewMergerWithRunner(binary, execRunner, log)
}

func NewMergerWithRunner(binary string, run CommandRunner, log *zap.Logger) *Merger {
	if binary == "" {
		binary = "ffmpeg"
	}
	return &Merger{binary: binary, run: run, log: log}
}

// MergeTracks writes videoPath's video and audioPath's audio into a new temp file
// of job. A failing ffmpeg run is final.
func (m *Merger) MergeTracks(ctx context.Context, job *Job, videoPath, audioPath, ext string) (string, error) {
	out := job.TempPath(ext)
	args := []string{"-y", "-i", videoPath, "-i", audioPath, "-c:v", "copy", "-c:a", "aac", out}

	output, err := m.run(ctx, m.binary, args...)
	if err != nil {
		m.log.Error("ffmpeg merge failed",
			zap.String("job_id", job.ID),
			zap.Error(err),
			zap.String("output", tail(string(output), 500)),
		)
		return "", fmt.Errorf("merge tracks: %w", err)
	}

	info, err := os.Stat(out)
	if err != nil {
		return "", fmt.Errorf("merge tracks: result not created: %w", err)
	}
	if info.Size() == 0 {
		return "", fmt.Errorf("merge tracks: result is empty")
	}
	return out, nil
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
