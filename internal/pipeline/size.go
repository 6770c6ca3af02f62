package pipeline

import (
	"fmt"
	"io"

	"github.com/BatmanBruc/bat-bot-multitool/types"
)

// EnforceSizeLimit fails with ErrOversize when a known size exceeds the limit.
// Unknown sizes (<= 0) and a disabled limit (<= 0) pass.
func EnforceSizeLimit(sizeBytes, limitBytes int64) error {
	if limitBytes <= 0 || sizeBytes <= 0 {
		return nil
	}
	if sizeBytes > limitBytes {
		return fmt.Errorf("%w: %d bytes exceeds limit of %d", types.ErrOversize, sizeBytes, limitBytes)
	}
	return nil
}

// limitedReader reads through r and fails once more than limit bytes went by.
type limitedReader struct {
	r     io.Reader
	limit int64
	read  int64
}

func (l *limitedReader) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	l.read += int64(n)
	if l.limit > 0 && l.read > l.limit {
		return n, fmt.Errorf("%w: more than %d bytes", types.ErrOversize, l.limit)
	}
	return n, err
}
