package types

import "errors"

var (
	ErrTransient          = errors.New("transient failure")
	ErrRateLimited        = errors.New("rate limited")
	ErrOversize           = errors.New("artifact exceeds size limit")
	ErrInvalidInput       = errors.New("invalid input")
	ErrEmptyResult        = errors.New("empty result")
	ErrPollExhausted      = errors.New("job did not finish in time")
	ErrJobFailed          = errors.New("remote job failed")
	ErrUnsupportedContent = errors.New("content not supported in this mode")
	ErrStale              = errors.New("stale interaction")
	ErrSelectionMismatch  = errors.New("selection does not belong to current mode")
	ErrConfig             = errors.New("configuration error")
	ErrNotFound           = errors.New("not found")
)
