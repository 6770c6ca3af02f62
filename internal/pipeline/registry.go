// Package pipeline moves media bytes: remote fetches into temp files, ffmpeg
// track merges, uploads to the chat and removal of every temp file a job made.
package pipeline

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Registry tracks every temp file handed out to a job until the job cleans up.
type Registry struct {
	dir string
	log *zap.Logger

	mu   sync.Mutex
	live map[string]string
}

func NewRegistry(dir string, log *zap.Logger) (*Registry, error) {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "bat_multitool")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	return &Registry{dir: dir, log: log, live: make(map[string]string)}, nil
}

func (r *Registry) Dir() string { return r.dir }

func (r *Registry) NewJob() *Job {
	return &Job{ID: uuid.NewString(), reg: r}
}

// Live returns how many temp paths are registered and not yet cleaned up.
func (r *Registry) Live() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.live)
}

func (r *Registry) register(path, jobID string) {
	r.mu.Lock()
	r.live[path] = jobID
	r.mu.Unlock()
}

func (r *Registry) release(path string) {
	r.mu.Lock()
	delete(r.live, path)
	r.mu.Unlock()
}

func (r *Registry) isLive(path string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.live[path]
	return ok
}

// Sweep removes files in the temp dir older than maxAge that no running job owns.
// It is the safety net for files left behind by a crashed process.
func (r *Registry) Sweep(maxAge time.Duration, now time.Time) (int, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return 0, fmt.Errorf("read temp dir: %w", err)
	}

	removed := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(r.dir, e.Name())
		if r.isLive(path) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if now.Sub(info.ModTime()) < maxAge {
			continue
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			r.log.Warn("sweep: remove failed", zap.String("path", path), zap.Error(err))
			continue
		}
		removed++
	}
	return removed, nil
}

// Job is the scope of one pipeline run. Every path it hands out is removed by Cleanup.
type Job struct {
	ID  string
	reg *Registry

	mu    sync.Mutex
	paths []string
	n     int
}

// TempPath reserves and registers a new temp path. The file is not created yet,
// so a registered path may not exist.
func (j *Job) TempPath(ext string) string {
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	if ext == "" {
		ext = "bin"
	}

	j.mu.Lock()
	j.n++
	path := filepath.Join(j.reg.dir, fmt.Sprintf("%s_%d.%s", j.ID, j.n, ext))
	j.paths = append(j.paths, path)
	j.mu.Unlock()

	j.reg.register(path, j.ID)
	return path
}

func (j *Job) Paths() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]string(nil), j.paths...)
}

// Cleanup removes every path of the job. It is safe to call more than once.
func (j *Job) Cleanup() error {
	j.mu.Lock()
	paths := j.paths
	j.paths = nil
	j.mu.Unlock()

	var errs []error
	for _, p := range paths {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
		}
		j.reg.release(p)
	}
	return errors.Join(errs...)
}
