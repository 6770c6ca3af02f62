package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"syscall"

	"github.com/BatmanBruc/bat-bot-multitool/types"
)

// ClassifyStatus maps a non-2xx response to the error taxonomy.
func ClassifyStatus(op string, code int, body []byte) error {
	snippet := strings.TrimSpace(string(body))
	if len(snippet) > 200 {
		snippet = snippet[:200]
	}
	switch {
	case code == http.StatusTooManyRequests:
		return fmt.Errorf("%s: %w (status %d)", op, types.ErrRateLimited, code)
	case code >= 500:
		return fmt.Errorf("%s: %w: status %d: %s", op, types.ErrTransient, code, snippet)
	case code == http.StatusNotFound:
		return fmt.Errorf("%s: %w: status %d", op, types.ErrNotFound, code)
	case code == http.StatusRequestTimeout:
		return fmt.Errorf("%s: %w: status %d", op, types.ErrTransient, code)
	}
	return fmt.Errorf("%s: status %d: %s", op, code, snippet)
}

// ClassifyNetErr marks timeouts and dropped connections as transient.
func ClassifyNetErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", op, err)
	}

	var netErr net.Error
	transient := errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNABORTED) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		(errors.As(err, &netErr) && netErr.Timeout())
	if transient {
		return fmt.Errorf("%s: %w: %v", op, types.ErrTransient, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func IsTransient(err error) bool {
	return errors.Is(err, types.ErrTransient)
}
