package threadposter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// PostedRecordPath returns the record file for a source document:
// notes/launch.md -> notes/launch-POSTED.md
func PostedRecordPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "-POSTED" + ext
}

// WritePostedRecord writes a note next to path saying what was posted, where
// and when. It returns the path written.
func WritePostedRecord(path, platform, postID, content string, at time.Time) (string, error) {
	record := PostedRecordPath(path)
	body := fmt.Sprintf("POSTED TO %s: %s\nPost ID: %s\nContent:\n%s\n",
		strings.ToUpper(platform), at.Format(time.RFC3339), postID, content)
	if err := os.WriteFile(record, []byte(body), 0o644); err != nil {
		return "", fmt.Errorf("writing posted record: %w", err)
	}
	return record, nil
}
