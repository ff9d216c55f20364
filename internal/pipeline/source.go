package pipeline

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	driveIDPattern  = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	driveURLFolder  = regexp.MustCompile(`/folders/([A-Za-z0-9_-]+)`)
	driveURLFile    = regexp.MustCompile(`/file/d/([A-Za-z0-9_-]+)`)
	driveURLIDParam = regexp.MustCompile(`[?&]id=([A-Za-z0-9_-]+)`)
)

// ResolveSource turns a gdrive:// reference, a Drive URL or a raw id into a
// folder id. An empty source resolves to fallback.
func ResolveSource(source, fallback string) (string, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return fallback, nil
	}
	if strings.HasPrefix(source, "gdrive://") {
		id := strings.TrimSpace(strings.TrimPrefix(source, "gdrive://"))
		if id == "" {
			return "", fmt.Errorf("empty drive id in %q", source)
		}
		return id, nil
	}
	if strings.Contains(source, "drive.google.com") {
		for _, re := range []*regexp.Regexp{driveURLFolder, driveURLFile, driveURLIDParam} {
			if m := re.FindStringSubmatch(source); m != nil {
				return m[1], nil
			}
		}
		parts := strings.Split(strings.TrimRight(source, "/"), "/")
		if tail := parts[len(parts)-1]; tail != "" {
			return tail, nil
		}
	}
	if driveIDPattern.MatchString(source) {
		return source, nil
	}
	return "", fmt.Errorf("source must be a Google Drive folder id or URL: %q", source)
}
