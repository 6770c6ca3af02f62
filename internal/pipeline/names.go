package pipeline

import (
	"regexp"
	"strings"
)

var unsafeName = regexp.MustCompile(`[^a-zA-Z0-9]`)

// SafeTitle turns a media title into a file name stem.
func SafeTitle(title string) string {
	s := strings.Trim(unsafeName.ReplaceAllString(strings.TrimSpace(title), "_"), "_")
	if len(s) > 60 {
		s = s[:60]
	}
	if s == "" {
		return "media"
	}
	return s
}
